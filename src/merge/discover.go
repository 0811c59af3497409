package merge

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/thatpix3l/photomerge/src/config"
)

// OutputDir is the sibling of root named after it plus suffix: /a/trip → /a/trip_merged.
func OutputDir(root, suffix string) string {
	root = filepath.Clean(root)
	return filepath.Join(filepath.Dir(root), filepath.Base(root)+suffix)
}

// Discover walks root and returns every regular file, or symlink to one, whose
// extension is allowed, in lexical walk order. Any walk error aborts the discovery.
func Discover(root string, allowed config.ExtensionSet) ([]string, error) {

	files := []string{}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if allowed.AllowsEntry(path, d) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

// existingNames lists every non-directory name already in dir, and how many of
// them the verifier will count as allowed files. A missing dir has none.
func existingNames(dir string, allowed config.ExtensionSet) ([]string, int, error) {

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}

	names := []string{}
	counted := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
		if allowed.AllowsEntry(filepath.Join(dir, e.Name()), e) {
			counted++
		}
	}

	return names, counted, nil
}
