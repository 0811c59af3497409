package entrypoint

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testConfig = `
output_directory_name_suffix: "_merged"
allowed_file_extensions: [".jpg", ".png"]
`

type fixture struct {
	base, root, config string
}

func newFixture(t *testing.T, configYAML string) fixture {
	t.Helper()
	base := t.TempDir()
	f := fixture{
		base:   base,
		root:   filepath.Join(base, "Canada"),
		config: filepath.Join(base, "config.yaml"),
	}
	files := map[string]string{
		filepath.Join(f.root, "Phone", "IMG_2021-07-04_12-30-00.jpg"): "a",
		filepath.Join(f.root, "Camera Roll", "x.png"):                 "b",
		filepath.Join(f.root, "notes.txt"):                           "c",
	}
	for path, content := range files {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(f.config, []byte(configYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	return f
}

func (f fixture) run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	base := []string{"--input-dir", f.root, "--config", f.config}
	code := run(append(base, args...), stdout, stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Merge(t *testing.T) {
	f := newFixture(t, testConfig)

	code, stdout, stderr := f.run(t, "merge")
	if code != exitOK {
		t.Fatalf("exit = %d\nstderr:\n%s", code, stderr)
	}

	entries, err := os.ReadDir(filepath.Join(f.base, "Canada_merged"))
	if err != nil {
		t.Fatal(err)
	}
	names := []string{}
	for _, e := range entries {
		names = append(names, e.Name())
	}
	want := "2021_07_04_12_30_00_phone.jpg _camera_roll.png"
	if got := strings.Join(names, " "); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
	if !strings.Contains(stdout, "TOTAL") {
		t.Errorf("statistics table missing from stdout:\n%s", stdout)
	}
	if !strings.Contains(stderr, "verification passed") {
		t.Errorf("stderr:\n%s", stderr)
	}
}

func TestRun_DryRun(t *testing.T) {
	f := newFixture(t, testConfig)

	code, stdout, stderr := f.run(t, "merge", "--dry-run")
	if code != exitOK {
		t.Fatalf("exit = %d\nstderr:\n%s", code, stderr)
	}
	for _, want := range []string{"Dry Run", "From", "To", "2021_07_04_12_30_00_phone.jpg", filepath.Join("Phone", "IMG_2021-07-04_12-30-00.jpg")} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, stdout)
		}
	}
	if _, err := os.Stat(filepath.Join(f.base, "Canada_merged")); !os.IsNotExist(err) {
		t.Error("dry run must not create the output directory")
	}
}

func TestRun_Stats(t *testing.T) {
	f := newFixture(t, testConfig)

	code, stdout, _ := f.run(t, "stats")
	if code != exitOK {
		t.Fatalf("exit = %d", code)
	}
	for _, want := range []string{"Phone", "Camera Roll", "TOTAL"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, stdout)
		}
	}
	if strings.Contains(stdout, ".txt") {
		t.Errorf("disallowed extension reported:\n%s", stdout)
	}
}

func TestRun_VerifyWithoutMerge(t *testing.T) {
	f := newFixture(t, testConfig)

	code, _, stderr := f.run(t, "verify")
	if code != exitFatal {
		t.Fatalf("exit = %d, want %d", code, exitFatal)
	}
	if !strings.Contains(stderr, "counts differ") {
		t.Errorf("stderr:\n%s", stderr)
	}
}

func TestRun_BadConfig(t *testing.T) {
	f := newFixture(t, testConfig+"unexpected: true\n")

	code, _, stderr := f.run(t, "merge")
	if code != exitFatal {
		t.Fatalf("exit = %d, want %d", code, exitFatal)
	}
	if !strings.Contains(stderr, "unexpected") {
		t.Errorf("stderr:\n%s", stderr)
	}
	if _, err := os.Stat(filepath.Join(f.base, "Canada_merged")); !os.IsNotExist(err) {
		t.Error("nothing may be written with a rejected configuration")
	}
}

func TestRun_Usage(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"help", []string{"--help"}, exitOK},
		{"no input dir", []string{"merge"}, exitUsage},
		{"no subcommand", []string{"--input-dir", "."}, exitUsage},
		{"bad log level", []string{"--input-dir", ".", "--log-level", "loud", "stats"}, exitUsage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := run(tt.args, &bytes.Buffer{}, &bytes.Buffer{}); got != tt.want {
				t.Errorf("exit = %d, want %d", got, tt.want)
			}
		})
	}
}
