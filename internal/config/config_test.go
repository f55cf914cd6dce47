package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Nebulaxin/crunch/internal/options"
)

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	f, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("a missing config file should not be an error, got %v", err)
	}
	if f.Width != nil {
		t.Errorf("a missing file should yield a zero-value File")
	}
}

func TestLoadParsesTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crunch.toml")
	contents := "width = 2048\npremultiply = true\nheuristic = \"cpr\"\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if f.Width == nil || *f.Width != 2048 {
		t.Errorf("got width %v, want 2048", f.Width)
	}
	if f.Premultiply == nil || !*f.Premultiply {
		t.Errorf("premultiply should be true")
	}
	if f.Heuristic == nil || *f.Heuristic != "cpr" {
		t.Errorf("got heuristic %v, want cpr", f.Heuristic)
	}
}

func TestApplyOverlaysOnlySetFields(t *testing.T) {
	base := options.Default()
	w := 1024
	file := File{Width: &w}

	got, err := Apply(base, file)
	if err != nil {
		t.Fatal(err)
	}
	if got.Width != 1024 {
		t.Errorf("got width %d, want 1024", got.Width)
	}
	if got.Height != base.Height {
		t.Errorf("unset fields should be left untouched, got height %d, want %d", got.Height, base.Height)
	}
}

func TestApplyRejectsInvalidHeuristic(t *testing.T) {
	base := options.Default()
	bogus := "not-a-heuristic"
	if _, err := Apply(base, File{Heuristic: &bogus}); err == nil {
		t.Fatal("expected an error for an invalid heuristic string")
	}
}

func TestApplyRejectsInvalidBinaryStringFormat(t *testing.T) {
	base := options.Default()
	bad := 99
	if _, err := Apply(base, File{BinaryStringFormat: &bad}); err == nil {
		t.Fatal("expected an error for an invalid binary string format")
	}
}
