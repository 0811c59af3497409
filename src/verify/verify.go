package verify

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/thatpix3l/photomerge/src/config"
)

// ErrCountMismatch means the output directory does not hold one file per source file.
var ErrCountMismatch = errors.New("source and output file counts differ")

// DirCount is the number of allowed files directly inside one source directory.
type DirCount struct {
	Dir   string // relative to the root; "(root)" for the root itself
	Count int
}

// Report is the outcome of one verification.
type Report struct {
	Dirs        []DirCount
	Source      int
	Output      int // allowed files in the output directory, including Preexisting
	Preexisting int
}

// Difference is source minus the output files this run accounts for.
func (r Report) Difference() int {
	return r.Source - (r.Output - r.Preexisting)
}

// Verifier checks count parity between a source tree and a flat output directory.
// It does not compare contents or pair files up.
type Verifier struct {
	Logger  *log.Logger
	Allowed config.ExtensionSet

	// Allowed files known to be in the output directory before the run;
	// they are not expected to have a source file.
	Preexisting int
}

// Verify rescans root and output and fails with [ErrCountMismatch] when totals differ.
func (v Verifier) Verify(root, output string) (Report, error) {

	report := Report{Preexisting: v.Preexisting}

	dirs, err := v.sourceCounts(root)
	if err != nil {
		return report, err
	}
	report.Dirs = dirs

	v.info("=== File count per subdirectory ===")
	for _, d := range dirs {
		v.info(fmt.Sprintf("%s: %d", d.Dir, d.Count))
		report.Source += d.Count
	}
	v.info("Total files in all subdirectories", "count", report.Source)

	report.Output, err = v.countDir(output)
	if errors.Is(err, fs.ErrNotExist) {
		report.Output, err = 0, nil
	}
	if err != nil {
		return report, err
	}
	v.info("Total files in output directory", "count", report.Output, "dir", output)
	if report.Preexisting > 0 {
		v.info("Files kept from earlier runs", "count", report.Preexisting)
	}

	if report.Difference() != 0 {
		if v.Logger != nil {
			v.Logger.Error("Merge verification failed", "source", report.Source, "output", report.Output, "difference", report.Difference())
		}
		return report, fmt.Errorf("%w: %d in source, %d in output (difference %d)", ErrCountMismatch, report.Source, report.Output-report.Preexisting, report.Difference())
	}

	v.info("Merge verification passed: all files copied")

	return report, nil
}

// sourceCounts walks root and counts allowed files per directory. Directories
// without any are skipped; the root comes last.
func (v Verifier) sourceCounts(root string) ([]DirCount, error) {

	counts := []DirCount{}
	rootCount := 0

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}

		n, err := v.countDir(path)
		if err != nil {
			return err
		}

		if path == root {
			rootCount = n
			return nil
		}

		if n > 0 {
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			counts = append(counts, DirCount{Dir: rel, Count: n})
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if rootCount > 0 {
		counts = append(counts, DirCount{Dir: "(root)", Count: rootCount})
	}

	return counts, nil
}

// countDir counts allowed regular files, and symlinks to them, directly inside dir.
func (v Verifier) countDir(dir string) (int, error) {

	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, e := range entries {
		if v.Allowed.AllowsEntry(filepath.Join(dir, e.Name()), e) {
			n++
		}
	}

	return n, nil
}

func (v Verifier) info(msg string, keyvals ...interface{}) {
	if v.Logger != nil {
		v.Logger.Info(msg, keyvals...)
	}
}
