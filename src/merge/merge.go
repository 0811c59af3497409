package merge

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/schollz/progressbar/v3"
	"github.com/thatpix3l/photomerge/src/config"
	"github.com/thatpix3l/photomerge/src/naming"
	"github.com/thatpix3l/photomerge/src/report"
	"github.com/thatpix3l/photomerge/src/timestamp"
	"github.com/thatpix3l/photomerge/src/verify"
)

// Extractor finds the timestamp of one file.
type Extractor interface {
	Extract(path string) timestamp.Result
}

// Merger copies every allowed file under Root into one flat output directory,
// renamed by timestamp and subdirectory, then checks nothing went missing.
type Merger struct {
	Root      string
	Config    config.Config
	Logger    *log.Logger
	Extractor Extractor

	Stats    io.Writer // statistics table; skipped when nil
	Progress io.Writer // copy progress bar; skipped when nil

	// Names already in the output directory are never reused, so earlier
	// runs are not overwritten.
	ReserveExisting bool

	preexisting int // allowed files reserved by the last Plan
}

// OutputDir is where this merger copies to.
func (m *Merger) OutputDir() string {
	return OutputDir(m.Root, m.Config.OutputDirectoryNameSuffix)
}

// Plan discovers files, reports statistics and returns the resolved rename mapping.
// Nothing is written.
func (m *Merger) Plan() (naming.Mapping, error) {

	files, err := Discover(m.Root, m.Config.Extensions())
	if err != nil {
		return nil, fmt.Errorf("discover files: %w", err)
	}
	m.Logger.Info("Found files", "count", len(files), "root", m.Root)

	if m.Stats != nil {
		if err := (report.Reporter{Logger: m.Logger}).Report(m.Stats, files, m.Root); err != nil {
			return nil, err
		}
	}

	proposed, err := m.propose(files)
	if err != nil {
		return nil, err
	}

	var reserved []string
	m.preexisting = 0
	if m.ReserveExisting {
		if reserved, m.preexisting, err = existingNames(m.OutputDir(), m.Config.Extensions()); err != nil {
			return nil, fmt.Errorf("list output directory: %w", err)
		}
		m.Logger.Info("Keeping existing output files", "count", len(reserved))
	}

	return naming.Resolve(proposed, reserved...), nil
}

func (m *Merger) propose(files []string) (naming.Mapping, error) {

	mapping := make(naming.Mapping, 0, len(files))

	for _, path := range files {

		ts := m.Extractor.Extract(path)
		if !ts.Found() {
			m.Logger.Warn("No timestamp found, using empty string", "path", path, "reason", ts.Reason)
		}

		name, err := naming.Synthesize(path, ts.Value, m.Root)
		if err != nil {
			return nil, err
		}

		m.Logger.Debug("Proposed name", "path", path, "name", name, "source", ts.Source)
		mapping = append(mapping, naming.Entry{Source: path, Name: name})
	}

	return mapping, nil
}

// Copy creates the output directory if needed and copies each entry into it.
// The first failure aborts the copy.
func (m *Merger) Copy(mapping naming.Mapping) error {

	out := m.OutputDir()
	if err := mkdir(out); err != nil {
		return err
	}

	var bar *progressbar.ProgressBar
	if m.Progress != nil {
		bar = progressbar.NewOptions(len(mapping),
			progressbar.OptionSetWriter(m.Progress),
			progressbar.OptionSetDescription("Copying files"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(30),
			progressbar.OptionClearOnFinish(),
		)
	}

	for _, e := range mapping {
		if err := Copy(e.Source, filepath.Join(out, e.Name)); err != nil {
			return err
		}
		if bar != nil {
			if err := bar.Add(1); err != nil {
				return fmt.Errorf("progress: %w", err)
			}
		}
	}

	if bar != nil {
		if err := bar.Finish(); err != nil {
			return fmt.Errorf("progress: %w", err)
		}
	}

	m.Logger.Info("Copied and renamed files", "count", len(mapping), "dir", out)

	return nil
}

// Verify compares file counts between the root and the output directory.
func (m *Merger) Verify() (verify.Report, error) {
	v := verify.Verifier{Logger: m.Logger, Allowed: m.Config.Extensions(), Preexisting: m.preexisting}
	return v.Verify(m.Root, m.OutputDir())
}

// Merge runs the whole pipeline: plan, copy, verify.
func (m *Merger) Merge() (verify.Report, error) {

	mapping, err := m.Plan()
	if err != nil {
		return verify.Report{}, err
	}

	if err := m.Copy(mapping); err != nil {
		return verify.Report{}, err
	}

	return m.Verify()
}
