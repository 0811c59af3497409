package entrypoint

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alexflint/go-arg"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/thatpix3l/photomerge/src/cmd"
	"github.com/thatpix3l/photomerge/src/config"
	"github.com/thatpix3l/photomerge/src/ff"
	"github.com/thatpix3l/photomerge/src/merge"
	"github.com/thatpix3l/photomerge/src/naming"
	"github.com/thatpix3l/photomerge/src/report"
	"github.com/thatpix3l/photomerge/src/timestamp"
)

var (
	styleDestination = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#1b523d", Dark: "#78ffd6"}).Bold(true)
	styleBold        = lipgloss.NewStyle().Bold(true)
)

// Exit statuses
const (
	exitOK    = 0
	exitFatal = 1
	exitUsage = 2
)

func newLogger(w io.Writer, level string) (*log.Logger, error) {

	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	return log.NewWithOptions(w, log.Options{Level: lvl}), nil
}

func newExtractor(c config.Config, logger *log.Logger) timestamp.Extractor {

	ex := timestamp.Extractor{Logger: logger, Images: timestamp.ImageMeta{}}

	if c.ProbeVideoMetadata {
		ex.Video = ff.Prober{}
	}

	return ex
}

// Print what will be renamed.
func renameInfo(w io.Writer, root string, e naming.Entry) {

	src, err := filepath.Rel(root, e.Source)
	if err != nil {
		src = e.Source
	}

	fmt.Fprintf(w, "%4s\n%s\n%4s\n%s\n", styleBold.Render("From"), src, styleBold.Render("To"), styleDestination.Render(e.Name))
}

func runMerge(m *merge.Merger, opts *cmd.CmdMerge, stdout io.Writer) error {

	m.ReserveExisting = opts.ReserveExisting

	if !opts.DryRun {
		_, err := m.Merge()
		return err
	}

	mapping, err := m.Plan()
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Copying to %s (Dry Run)\n\n", m.OutputDir())

	for i, e := range mapping {
		if i > 0 {
			fmt.Fprintln(stdout)
		}
		renameInfo(stdout, m.Root, e)
	}

	return nil
}

func runStats(m *merge.Merger, stdout io.Writer) error {

	files, err := merge.Discover(m.Root, m.Config.Extensions())
	if err != nil {
		return err
	}
	m.Logger.Info("Found files", "count", len(files), "root", m.Root)

	return report.Reporter{Logger: m.Logger}.Report(stdout, files, m.Root)
}

func run(args []string, stdout, stderr io.Writer) int {

	root := cmd.CmdRoot{}

	p, err := arg.NewParser(arg.Config{Program: "photomerge"}, &root)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	switch err := p.Parse(args); {
	case errors.Is(err, arg.ErrHelp):
		p.WriteHelp(stdout)
		return exitOK
	case err != nil:
		p.WriteUsage(stderr)
		fmt.Fprintln(stderr, "error:", err)
		return exitUsage
	}

	logger, err := newLogger(stderr, root.LogLevel)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return exitUsage
	}

	// Post process of command stuff
	if err := root.PostProcess(); err != nil {
		logger.Error(err)
		return exitUsage
	}

	c, err := config.Load(root.ConfigPath)
	if err != nil {
		logger.Error("Invalid configuration", "err", err)
		return exitFatal
	}
	logger.Debug("Loaded configuration", "path", root.ConfigPath, "extensions", c.AllowedFileExtensions)

	m := &merge.Merger{
		Root:      root.InputDirPath,
		Config:    c,
		Logger:    logger,
		Extractor: newExtractor(c, logger),
		Stats:     stdout,
		Progress:  stderr,
	}

	switch {
	case root.Merge != nil:
		err = runMerge(m, root.Merge, stdout)
	case root.Stats != nil:
		err = runStats(m, stdout)
	case root.Verify != nil:
		_, err = m.Verify()
	}

	if err != nil {
		logger.Error(err)
		return exitFatal
	}

	return exitOK
}

func Main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
