package merge

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/djherbis/times"
	shutil "github.com/termie/go-shutil"
)

// Copy copies src to dst, overwriting dst, and carries over permission bits
// and access and modification times. A symlinked src is copied as the file it
// points to.
func Copy(src, dst string) error {

	// shutil reads relative link targets against the working directory
	resolved, err := filepath.EvalSymlinks(src)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", src, err)
	}
	src = resolved

	ts, err := times.Stat(src)
	if err != nil {
		return err
	}

	if _, err := shutil.Copy(src, dst, true); err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}

	if err := os.Chtimes(dst, ts.AccessTime(), ts.ModTime()); err != nil {
		return fmt.Errorf("set times on %s: %w", dst, err)
	}

	return nil
}

// mkdir creates dir unless it already exists. The parent must exist.
func mkdir(dir string) error {
	if err := os.Mkdir(dir, 0o755); err != nil && !errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("create output directory: %w", err)
	}
	return nil
}
