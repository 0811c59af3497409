package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the validated settings a merge run works from.
type Config struct {
	AllowedFileExtensions     []string `yaml:"allowed_file_extensions"`
	OutputDirectoryNameSuffix string   `yaml:"output_directory_name_suffix"`
	ProbeVideoMetadata        bool     `yaml:"probe_video_metadata"`
}

// Load reads, decodes and validates the YAML file at path.
func Load(path string) (Config, error) {

	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	c, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	return c, nil
}

// Decode strictly decodes YAML from r, rejecting unknown keys, then validates it.
func Decode(r io.Reader) (Config, error) {

	c := Config{}

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return Config{}, errors.New("configuration is empty")
		}
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

// Validate reports every problem with c at once.
func (c Config) Validate() error {

	var errs []error

	if len(c.AllowedFileExtensions) == 0 {
		errs = append(errs, errors.New("allowed_file_extensions: at least one extension is required"))
	}

	seen := map[string]bool{}
	for _, ext := range c.AllowedFileExtensions {
		switch {
		case len(ext) < 2 || !strings.HasPrefix(ext, "."):
			errs = append(errs, fmt.Errorf("allowed_file_extensions: %q must be a dot followed by a suffix", ext))
		case ext != strings.ToLower(ext):
			errs = append(errs, fmt.Errorf("allowed_file_extensions: %q must be lowercase", ext))
		case strings.ContainsAny(ext, `/\`):
			errs = append(errs, fmt.Errorf("allowed_file_extensions: %q must not contain a path separator", ext))
		case seen[ext]:
			errs = append(errs, fmt.Errorf("allowed_file_extensions: %q is listed twice", ext))
		}
		seen[ext] = true
	}

	switch {
	case c.OutputDirectoryNameSuffix == "":
		errs = append(errs, errors.New("output_directory_name_suffix: must not be empty"))
	case strings.ContainsAny(c.OutputDirectoryNameSuffix, `/\`):
		errs = append(errs, fmt.Errorf("output_directory_name_suffix: %q must not contain a path separator", c.OutputDirectoryNameSuffix))
	}

	return errors.Join(errs...)
}

// Extensions returns the allowed extensions as a set.
func (c Config) Extensions() ExtensionSet {
	return NewExtensionSet(c.AllowedFileExtensions...)
}

// ExtensionSet holds lowercase, dot-prefixed file extensions.
type ExtensionSet map[string]struct{}

func NewExtensionSet(exts ...string) ExtensionSet {
	s := ExtensionSet{}
	for _, ext := range exts {
		s[strings.ToLower(ext)] = struct{}{}
	}
	return s
}

// Allows reports whether the suffix of path, compared case-insensitively, is in s.
func (s ExtensionSet) Allows(path string) bool {
	_, ok := s[strings.ToLower(Suffix(path))]
	return ok
}

// AllowsEntry is Allows restricted to regular files and symlinks resolving to one.
func (s ExtensionSet) AllowsEntry(path string, d fs.DirEntry) bool {

	if !s.Allows(path) {
		return false
	}

	if d.Type()&fs.ModeSymlink != 0 {
		info, err := os.Stat(path)
		return err == nil && info.Mode().IsRegular()
	}

	return d.Type().IsRegular()
}

// Suffix is the extension of the base name of path. A leading dot starts a
// hidden name, not an extension, and a trailing dot is no extension: ".jpg"
// and "a." have none.
func Suffix(path string) string {

	base := filepath.Base(path)

	i := strings.LastIndexByte(base, '.')
	if i <= 0 || i == len(base)-1 {
		return ""
	}

	return base[i:]
}
