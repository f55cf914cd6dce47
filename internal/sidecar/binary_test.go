package sidecar

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Nebulaxin/crunch/internal/options"
)

func TestBinaryStringRoundTrip(t *testing.T) {
	formats := []options.BinaryStringFormat{
		options.NullTerminated,
		options.Prefix16,
		options.Prefix7,
	}
	for _, f := range formats {
		t.Run(f.String(), func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteBinaryString(&buf, f, "hero.png"); err != nil {
				t.Fatal(err)
			}
			got, err := ReadBinaryString(&buf, f)
			if err != nil {
				t.Fatal(err)
			}
			if got != "hero.png" {
				t.Errorf("got %q, want %q", got, "hero.png")
			}
		})
	}
}

func TestBinaryStringPrefix7LongString(t *testing.T) {
	long := strings.Repeat("x", 300)
	var buf bytes.Buffer
	if err := WriteBinaryString(&buf, options.Prefix7, long); err != nil {
		t.Fatal(err)
	}
	got, err := ReadBinaryString(&buf, options.Prefix7)
	if err != nil {
		t.Fatal(err)
	}
	if got != long {
		t.Errorf("round trip mismatch for a 300-byte string, length %d", len(got))
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	want := Header{Trim: true, Rotate: false, BinStr: options.Prefix16}
	var buf bytes.Buffer
	if err := WriteHeader(&buf, want); err != nil {
		t.Fatal(err)
	}
	got, err := ReadHeader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestReadHeaderRejectsBadMagic(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("xxxx")
	if _, err := ReadHeader(&buf); err == nil {
		t.Fatal("expected an error for a bad magic")
	}
}

func TestWriteBinaryReadPageRoundTrip(t *testing.T) {
	header := Header{Trim: true, Rotate: true, BinStr: options.NullTerminated}
	page := Page{
		Name: "atlas0",
		Images: []Image{
			{Name: "hero.png", X: 1, Y: 2, W: 32, H: 32, FX: 1, FY: 1, FW: 34, FH: 34, Rot: false},
			{Name: "enemy.png", X: 40, Y: 2, W: 16, H: 16, FX: 0, FY: 0, FW: 16, FH: 16, Rot: true},
		},
	}

	var buf bytes.Buffer
	if err := WriteBinary(&buf, header, page); err != nil {
		t.Fatal(err)
	}
	got, err := ReadPage(&buf, header)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != page.Name || len(got.Images) != len(page.Images) {
		t.Fatalf("got %+v, want %+v", got, page)
	}
	for i := range page.Images {
		if got.Images[i] != page.Images[i] {
			t.Errorf("image %d: got %+v, want %+v", i, got.Images[i], page.Images[i])
		}
	}
}

func TestWriteBinaryOmitsTrimFieldsWhenDisabled(t *testing.T) {
	header := Header{Trim: false, Rotate: false, BinStr: options.NullTerminated}
	page := Page{Name: "a", Images: []Image{{Name: "x.png", X: 0, Y: 0, W: 1, H: 1}}}

	var buf bytes.Buffer
	if err := WriteBinary(&buf, header, page); err != nil {
		t.Fatal(err)
	}
	got, err := ReadPage(&buf, header)
	if err != nil {
		t.Fatal(err)
	}
	if got.Images[0].FX != 0 || got.Images[0].FW != 0 {
		t.Errorf("trim fields should be zero-valued when trim is disabled, got %+v", got.Images[0])
	}
}
