package loader

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"go.uber.org/zap"
)

func writeSideFile(t *testing.T, dir, doi, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, SideFileName(doi)), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write side-file: %v", err)
	}
}

func TestSideFileName(t *testing.T) {
	tests := []struct {
		doi  string
		want string
	}{
		{"10.1016/j.trc.2020.01.001", "10.1016_j.trc.2020.01.001.json"},
		{"10.1/a/b", "10.1_a_b.json"},
		{"plain", "plain.json"},
	}

	for _, tt := range tests {
		t.Run(tt.doi, func(t *testing.T) {
			if got := SideFileName(tt.doi); got != tt.want {
				t.Errorf("SideFileName(%q) = %q, want %q", tt.doi, got, tt.want)
			}
		})
	}
}

func TestMetaCache_Lookup(t *testing.T) {
	dir := t.TempDir()
	writeSideFile(t, dir, "10.1/a", `{"title": "Paper A", "keywords": ["x", "y"], "open_access": true}`)
	writeSideFile(t, dir, "10.1/bad", `{not json`)

	cache := NewMetaCache(dir, zap.NewNop())

	m := cache.Lookup("10.1/a")
	if m.Title != "Paper A" {
		t.Errorf("Title = %q, want Paper A", m.Title)
	}
	if m.Keywords != "x, y" {
		t.Errorf("Keywords = %q, want \"x, y\"", m.Keywords)
	}
	if m.OpenAccessText() != "True" {
		t.Errorf("OpenAccessText() = %q", m.OpenAccessText())
	}

	if bad := cache.Lookup("10.1/bad"); bad.Title != "" {
		t.Errorf("unparseable side-file should yield empty metadata, got title %q", bad.Title)
	}
	if none := cache.Lookup("10.1/none"); none.Title != "" || none.OpenAccessText() != "False" {
		t.Errorf("missing side-file should yield defaults, got %+v", none)
	}

	missing := cache.Missing()
	sort.Strings(missing)
	if len(missing) != 2 || missing[0] != "10.1/bad" || missing[1] != "10.1/none" {
		t.Errorf("Missing() = %v, want [10.1/bad 10.1/none]", missing)
	}
}

func TestMetaCache_CachesPerDOI(t *testing.T) {
	dir := t.TempDir()
	writeSideFile(t, dir, "10.1/a", `{"title": "First"}`)

	cache := NewMetaCache(dir, nil)
	cache.Lookup("10.1/a")

	// Changing the file after the first lookup must not be observed.
	writeSideFile(t, dir, "10.1/a", `{"title": "Second"}`)
	if got := cache.Lookup("10.1/a"); got.Title != "First" {
		t.Errorf("Title = %q, want cached First", got.Title)
	}

	cache.Lookup("10.1/missing")
	cache.Lookup("10.1/missing")

	if cache.Loads() != 2 {
		t.Errorf("Loads() = %d, want 2", cache.Loads())
	}
	if cache.Len() != 2 {
		t.Errorf("Len() = %d, want 2", cache.Len())
	}
}

func TestMetaCache_EmptyDOI(t *testing.T) {
	cache := NewMetaCache(t.TempDir(), nil)

	if m := cache.Lookup("  "); m.Title != "" {
		t.Errorf("Lookup(blank) = %+v, want empty", m)
	}
	if cache.Loads() != 0 {
		t.Errorf("Loads() = %d, want 0 for blank DOI", cache.Loads())
	}
}

func TestMetaCache_MissingDirectory(t *testing.T) {
	cache := NewMetaCache(filepath.Join(t.TempDir(), "nope"), nil)
	if m := cache.Lookup("10.1/a"); m.Abstract != "" {
		t.Errorf("Lookup() = %+v, want empty", m)
	}
}

func TestMetaCache_ObjectValuedField(t *testing.T) {
	dir := t.TempDir()
	writeSideFile(t, dir, "10.1/x", `{"title": "Calibrating models", "abstract": "We study traffic calibration models", "primary_institution": {"name": "MIT"}}`)

	cache := NewMetaCache(dir, nil)
	m := cache.Lookup("10.1/x")

	if m.Title != "Calibrating models" {
		t.Errorf("Title = %q, want Calibrating models", m.Title)
	}
	if m.Abstract != "We study traffic calibration models" {
		t.Errorf("Abstract = %q, want the side-file abstract", m.Abstract)
	}
	if m.PrimaryInstitution != `{"name":"MIT"}` {
		t.Errorf("PrimaryInstitution = %q, want compact JSON", m.PrimaryInstitution)
	}
	if len(cache.Missing()) != 0 {
		t.Errorf("Missing() = %v, want none", cache.Missing())
	}
}
