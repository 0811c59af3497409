package naming

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Entry pairs a source file with its output file name.
type Entry struct {
	Source string // absolute path beneath the root directory
	Name   string // output file name, no directory part
}

// Mapping is an ordered rename mapping; entries keep discovery order.
type Mapping []Entry

// Names returns the output names in mapping order.
func (m Mapping) Names() []string {
	names := make([]string, len(m))
	for i, e := range m {
		names[i] = e.Name
	}
	return names
}

// SubdirTag turns a root-relative directory like "Vacation A/Beach" into "vacation_a_beach".
// The root itself yields "".
func SubdirTag(rel string) string {

	if rel == "" || rel == "." {
		return ""
	}

	parts := strings.Split(filepath.ToSlash(rel), "/")
	for i, p := range parts {
		parts[i] = strings.ReplaceAll(strings.ToLower(p), " ", "_")
	}

	return strings.Join(parts, "_")
}

// Synthesize proposes an output name for path from its timestamp (possibly
// empty) and the directories between root and the file:
// "{timestamp}_{subdir_tag}{.ext}", or "{timestamp}{.ext}" directly under root.
func Synthesize(path, timestamp, root string) (string, error) {

	rel, err := filepath.Rel(root, filepath.Dir(path))
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is not beneath %s", path, root)
	}

	ext := strings.ToLower(filepath.Ext(path))

	if tag := SubdirTag(rel); tag != "" {
		return timestamp + "_" + tag + ext, nil
	}

	return timestamp + ext, nil
}
