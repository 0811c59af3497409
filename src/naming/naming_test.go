package naming

import (
	"fmt"
	"path/filepath"
	"testing"
)

func TestSynthesize(t *testing.T) {
	root := filepath.FromSlash("/photos/root")
	tests := []struct {
		name      string
		path      string
		timestamp string
		want      string
	}{
		{"nested", "/photos/root/VacationA/Beach/img1.jpg", "2020_01_01_00_00_00", "2020_01_01_00_00_00_vacationa_beach.jpg"},
		{"spaces and case", "/photos/root/My Trip/Day 1/IMG.JPG", "2021_02_03_04_05_06", "2021_02_03_04_05_06_my_trip_day_1.jpg"},
		{"root file", "/photos/root/img.Jpeg", "2020_01_01_00_00_00", "2020_01_01_00_00_00.jpeg"},
		{"no timestamp nested", "/photos/root/Phone/img.heic", "", "_phone.heic"},
		{"no timestamp root", "/photos/root/img.jpg", "", ".jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Synthesize(filepath.FromSlash(tt.path), tt.timestamp, root)
			if err != nil {
				t.Fatalf("Synthesize: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSynthesize_Pure(t *testing.T) {
	path := filepath.FromSlash("/r/A b/c.JPG")
	first, _ := Synthesize(path, "2020_01_01_00_00_00", filepath.FromSlash("/r"))
	for i := 0; i < 5; i++ {
		again, _ := Synthesize(path, "2020_01_01_00_00_00", filepath.FromSlash("/r"))
		if again != first {
			t.Fatalf("call %d returned %q, first returned %q", i, again, first)
		}
	}
}

func TestSynthesize_OutsideRoot(t *testing.T) {
	if _, err := Synthesize(filepath.FromSlash("/elsewhere/a.jpg"), "", filepath.FromSlash("/photos/root")); err == nil {
		t.Fatal("expected error for a path outside the root")
	}
}

func TestSubdirTag(t *testing.T) {
	tests := map[string]string{
		"":                               "",
		".":                              "",
		"Camera":                         "camera",
		filepath.FromSlash("A B/C  D/e"): "a_b_c__d_e",
	}
	for in, want := range tests {
		if got := SubdirTag(in); got != want {
			t.Errorf("SubdirTag(%q) = %q, want %q", in, got, want)
		}
	}
}

func mappingOf(names ...string) Mapping {
	m := make(Mapping, len(names))
	for i, n := range names {
		m[i] = Entry{Source: fmt.Sprintf("/src/%d", i), Name: n}
	}
	return m
}

func TestResolve_Stability(t *testing.T) {
	got := Resolve(mappingOf("a.jpg", "a.jpg", "b.jpg", "a.jpg")).Names()
	want := []string{"a.jpg", "a_001.jpg", "b.jpg", "a_002.jpg"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestResolve_PreservesSourcesAndOrder(t *testing.T) {
	in := mappingOf("x.jpg", "x.jpg", "y.png")
	out := Resolve(in)
	if len(out) != len(in) {
		t.Fatalf("len = %d, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i].Source != in[i].Source {
			t.Errorf("entry %d source = %q, want %q", i, out[i].Source, in[i].Source)
		}
	}
	if in[1].Name != "x.jpg" {
		t.Error("Resolve must not modify its input")
	}
}

func TestResolve_Distinct(t *testing.T) {
	tests := [][]string{
		{"a.jpg", "a.jpg", "a_001.jpg"},
		{"a_001.jpg", "a.jpg", "a.jpg", "a.jpg"},
		{".jpg", ".jpg", ".jpg", "_001.jpg"},
		{"noext", "noext", "noext_001"},
		{"a.jpg", "A.jpg", "a.jpg"},
	}
	for _, names := range tests {
		out := Resolve(mappingOf(names...))
		if len(out) != len(names) {
			t.Fatalf("%v: len = %d", names, len(out))
		}
		seen := map[string]bool{}
		for _, e := range out {
			if seen[e.Name] {
				t.Errorf("%v: duplicate %q in %v", names, e.Name, out.Names())
			}
			seen[e.Name] = true
		}
	}
}

func TestResolve_DegenerateNames(t *testing.T) {
	got := Resolve(mappingOf(".jpg", ".jpg", "noext", "noext")).Names()
	want := []string{".jpg", "_001.jpg", "noext", "noext_001"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestResolve_Reserved(t *testing.T) {
	got := Resolve(mappingOf("a.jpg", "a.jpg", "b.jpg"), "a.jpg", "a_001.jpg").Names()
	want := []string{"a_002.jpg", "a_003.jpg", "b.jpg"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestResolver_SuffixCollision(t *testing.T) {
	r := NewResolver()
	for _, step := range []struct{ in, want string }{
		{"a.jpg", "a.jpg"},
		{"a.jpg", "a_001.jpg"},
		{"a_001.jpg", "a_001_001.jpg"},
		{"a.jpg", "a_002.jpg"},
	} {
		if got := r.Resolve(step.in); got != step.want {
			t.Errorf("Resolve(%q) = %q, want %q", step.in, got, step.want)
		}
	}
}
