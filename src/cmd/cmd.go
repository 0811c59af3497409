package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
)

type CmdMerge struct {
	DryRun          bool `arg:"--dry-run" help:"print the planned renames, copy nothing"`
	ReserveExisting bool `arg:"--reserve-existing" help:"never reuse a file name already in the output directory"`
}

type CmdStats struct{}

type CmdVerify struct{}

type CmdRoot struct {
	Merge        *CmdMerge  `arg:"subcommand:merge" help:"copy every allowed file into one flat, renamed output directory"`
	Stats        *CmdStats  `arg:"subcommand:stats" help:"print file counts and sizes per subdirectory and extension"`
	Verify       *CmdVerify `arg:"subcommand:verify" help:"compare file counts between the input and output directories"`
	InputDirPath string     `arg:"--input-dir,required" help:"root directory holding the photo and video folders"`
	ConfigPath   string     `arg:"--config" default:"config.yaml" help:"YAML configuration file"`
	LogLevel     string     `arg:"--log-level" default:"info" help:"debug, info, warn or error"`
}

func (CmdRoot) Description() string {
	return "Merge nested photo and video folders into one flat directory, naming each file by its capture time and original folder."
}

func isSubcommand(s reflect.StructField) bool {

	tag, ok := s.Tag.Lookup("arg")
	if !ok {
		return false
	}

	for _, subtag := range strings.Split(tag, ",") {
		if name, ok := strings.CutPrefix(subtag, "subcommand:"); ok && name != "" {
			return true
		}
	}

	return false
}

// Run callback on each struct's field
func forField(base reflect.Value, fieldCallback func(f reflect.StructField, v reflect.Value)) {

	if base.Type().Kind() != reflect.Struct {
		return
	}

	for i := 0; i < base.Type().NumField(); i++ {
		fieldCallback(base.Type().Field(i), base.Field(i))
	}

}

// Convert pointer-to-struct into a struct; does nothing if already a struct.
func toStruct(base *reflect.Value) error {

	if base.Type().Kind() == reflect.Struct {
		return nil
	}

	if base.Type().Kind() != reflect.Pointer {
		return errors.New("expected pointer")
	}

	if base.IsNil() {
		return errors.New("pointer is nil")
	}

	deref := base.Elem()
	if deref.Type().Kind() != reflect.Struct {
		return errors.New("pointer is not for a struct")
	}

	*base = deref

	return nil

}

// cleanPath tidies a user-supplied path and makes it absolute when possible.
func cleanPath(p string) string {

	// Workaround for trailing quote on windows
	if runtime.GOOS == "windows" {
		p = strings.TrimSuffix(p, "\"")
	}

	if p == "" {
		return p
	}

	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}

	return filepath.Clean(p)
}

// Cleanup string fields with suffix "Path", recursing into picked subcommands
func cleanPaths(base reflect.Value) {

	if err := toStruct(&base); err != nil {
		return
	}

	forField(base, func(s reflect.StructField, v reflect.Value) {

		if !s.IsExported() {
			return
		}

		if v.CanSet() && v.Kind() == reflect.String && strings.HasSuffix(s.Name, "Path") {
			v.SetString(cleanPath(v.String()))
		}

		if isSubcommand(s) {
			cleanPaths(v)
		}

	})

}

// Verify that the user picked a subcommand at every level that offers one.
func verifyCommandTree(base reflect.Value) error {

	if err := toStruct(&base); err != nil {
		return nil
	}

	containsSubcommand := false
	next := reflect.Value{}

	forField(base, func(s reflect.StructField, v reflect.Value) {

		if next.IsValid() || !s.IsExported() || v.Kind() != reflect.Pointer || !isSubcommand(s) {
			return
		}

		containsSubcommand = true

		// nil means the user did not pick this subcommand
		if !v.IsNil() {
			next = v.Elem()
		}

	})

	if !containsSubcommand {
		return nil
	}

	if !next.IsValid() {
		return errors.New("no subcommand was picked")
	}

	return verifyCommandTree(next)
}

// Run post process funcs for command structure
func (r *CmdRoot) PostProcess() error {

	cleanPaths(reflect.ValueOf(r))

	if err := verifyCommandTree(reflect.ValueOf(r)); err != nil {
		return err
	}

	info, err := os.Stat(r.InputDirPath)
	if err != nil {
		return fmt.Errorf("input directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("input directory: %s is not a directory", r.InputDirPath)
	}

	return nil

}
