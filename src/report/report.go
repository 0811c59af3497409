package report

import (
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"
)

const bytesPerMB = 1024 * 1024

// SizeMB converts bytes to megabytes rounded to 2 decimals.
func SizeMB(bytes int64) float64 {
	return math.Round(float64(bytes)/bytesPerMB*100) / 100
}

// Group is the running count and size of one (subdirectory, extension) pair.
type Group struct {
	Count   int
	TotalMB float64
}

func (g Group) AvgMB() float64 {
	if g.Count == 0 {
		return 0
	}
	return g.TotalMB / float64(g.Count)
}

type extGroups struct {
	exts   []string
	groups map[string]*Group
}

// Table aggregates sizes by subdirectory, then extension. Both levels keep
// first-insertion order.
type Table struct {
	subdirs []string
	bySub   map[string]*extGroups
}

func NewTable() *Table {
	return &Table{bySub: map[string]*extGroups{}}
}

// GetOrInsert returns the group for (subdir, ext), creating an empty one first if needed.
func (t *Table) GetOrInsert(subdir, ext string) *Group {

	eg, ok := t.bySub[subdir]
	if !ok {
		eg = &extGroups{groups: map[string]*Group{}}
		t.bySub[subdir] = eg
		t.subdirs = append(t.subdirs, subdir)
	}

	g, ok := eg.groups[ext]
	if !ok {
		g = &Group{}
		eg.groups[ext] = g
		eg.exts = append(eg.exts, ext)
	}

	return g
}

// Add counts one file of sizeMB megabytes.
func (t *Table) Add(subdir, ext string, sizeMB float64) {
	g := t.GetOrInsert(subdir, ext)
	g.Count++
	g.TotalMB += sizeMB
}

// Each calls fn for every group in insertion order.
func (t *Table) Each(fn func(subdir, ext string, g Group)) {
	for _, sub := range t.subdirs {
		eg := t.bySub[sub]
		for _, ext := range eg.exts {
			fn(sub, ext, *eg.groups[ext])
		}
	}
}

// Total sums every group.
func (t *Table) Total() Group {
	total := Group{}
	t.Each(func(_, _ string, g Group) {
		total.Count += g.Count
		total.TotalMB += g.TotalMB
	})
	return total
}

var (
	styleHeader = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	styleCell   = lipgloss.NewStyle().Padding(0, 1)
	styleNumber = styleCell.Copy().Align(lipgloss.Right)
)

func formatMB(mb float64) string {
	return strconv.FormatFloat(mb, 'f', 2, 64)
}

// Render draws t as an aligned table ending in a TOTAL row.
func (t *Table) Render() string {

	rows := [][]string{}
	prev := ""

	t.Each(func(subdir, ext string, g Group) {
		// Subdirectory is only printed on its first row
		label := subdir
		if len(rows) > 0 && subdir == prev {
			label = ""
		}
		prev = subdir
		rows = append(rows, []string{label, ext, strconv.Itoa(g.Count), formatMB(g.TotalMB), formatMB(g.AvgMB())})
	})

	total := t.Total()
	rows = append(rows, []string{"TOTAL", "-", strconv.Itoa(total.Count), formatMB(total.TotalMB), formatMB(total.AvgMB())})

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Subdirectory", "Extension", "Count", "Total Size (MB)", "Avg Size (MB)").
		Rows(rows...).
		StyleFunc(cellStyle)

	return tbl.String()
}

// Row 0 is the header; data rows start at 1.
func cellStyle(row, col int) lipgloss.Style {
	switch {
	case row == 0:
		return styleHeader
	case col >= 2:
		return styleNumber
	default:
		return styleCell
	}
}

// Reporter prints size statistics for a set of discovered files.
type Reporter struct {
	Logger *log.Logger
	Stat   func(name string) (fs.FileInfo, error) // os.Stat when nil
}

// Aggregate groups files by directory relative to root and lowercased
// extension. Files whose size cannot be read are logged and left out.
func (r Reporter) Aggregate(files []string, root string) *Table {

	stat := r.Stat
	if stat == nil {
		stat = os.Stat
	}

	t := NewTable()

	for _, path := range files {

		info, err := stat(path)
		if err != nil {
			if r.Logger != nil {
				r.Logger.Warn("cannot get file size", "path", path, "err", err)
			}
			continue
		}

		subdir, err := filepath.Rel(root, filepath.Dir(path))
		if err != nil {
			subdir = filepath.Dir(path)
		}

		t.Add(subdir, strings.ToLower(filepath.Ext(path)), SizeMB(info.Size()))
	}

	return t
}

// Report aggregates files and writes the rendered table to w.
func (r Reporter) Report(w io.Writer, files []string, root string) error {
	_, err := fmt.Fprintf(w, "\n%s\n\n", r.Aggregate(files, root).Render())
	return err
}
