package pngio

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.png")

	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	src.SetRGBA(1, 1, color.RGBA{R: 200, G: 10, B: 5, A: 255})

	if err := Encode(path, src); err != nil {
		t.Fatal(err)
	}
	got, err := Decode(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Bounds().Dx() != 3 || got.Bounds().Dy() != 2 {
		t.Fatalf("decoded size = %v, want 3x2", got.Bounds())
	}
	r, g, b, a := got.At(1, 1).RGBA()
	if r>>8 != 200 || g>>8 != 10 || b>>8 != 5 || a>>8 != 255 {
		t.Errorf("decoded pixel mismatch: %d %d %d %d", r>>8, g>>8, b>>8, a>>8)
	}
}

func TestDecodeMissingFile(t *testing.T) {
	if _, err := Decode(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Fatal("expected an error decoding a missing file")
	}
}

func TestEncodeCleansUpOnFailure(t *testing.T) {
	// The parent directories don't exist, so the file can't be created;
	// Encode should return an error and leave no file behind at the path.
	dir := t.TempDir()
	badPath := filepath.Join(dir, "sub", "does", "not", "exist.png")
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	if err := Encode(badPath, img); err == nil {
		t.Fatal("expected an error writing to a nonexistent directory")
	}
	if _, err := os.Stat(badPath); err == nil {
		t.Errorf("a failed Encode should not leave a file at %s", badPath)
	}
}
