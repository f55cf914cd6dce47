// Package sidecar writes (and, for the binary format, reads back) the
// atlas description files: a bespoke little-endian binary format with a
// "crch" magic, plus XML and JSON serializations. All three describe the
// same per-page, per-image layout; see Page and Image.
package sidecar

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/Nebulaxin/crunch/internal/options"
)

// Magic is the 4-byte binary sidecar header.
var Magic = [4]byte{'c', 'r', 'c', 'h'}

// BinVersion is the current binary sidecar format version.
const BinVersion int16 = 0

// Image describes one packed bitmap's placement, mirroring exactly what
// each serializer writes.
type Image struct {
	Name   string
	X, Y   int
	W, H   int
	FX, FY int
	FW, FH int
	Rot    bool
}

// Page is one atlas page's worth of placed images, under its own name
// (e.g. "atlas0").
type Page struct {
	Name   string
	Images []Image
}

// Header holds the sidecar-wide flags carried in the binary/XML/JSON
// wrapper.
type Header struct {
	Trim   bool
	Rotate bool
	BinStr options.BinaryStringFormat
}

// WriteBinaryString writes s using the configured encoding: null
// terminated, int16-length-prefixed, or 7-bit-varint-length-prefixed.
func WriteBinaryString(w io.Writer, format options.BinaryStringFormat, s string) error {
	switch format {
	case options.NullTerminated:
		if _, err := io.WriteString(w, s); err != nil {
			return err
		}
		_, err := w.Write([]byte{0})
		return err
	case options.Prefix16:
		if err := binary.Write(w, binary.LittleEndian, int16(len(s))); err != nil {
			return err
		}
		_, err := io.WriteString(w, s)
		return err
	case options.Prefix7:
		if err := writeVarint7(w, len(s)); err != nil {
			return err
		}
		_, err := io.WriteString(w, s)
		return err
	default:
		return fmt.Errorf("sidecar: unknown binary string format %v", format)
	}
}

// ReadBinaryString reads a string encoded per format.
func ReadBinaryString(r io.Reader, format options.BinaryStringFormat) (string, error) {
	switch format {
	case options.NullTerminated:
		var buf []byte
		var b [1]byte
		for {
			if _, err := io.ReadFull(r, b[:]); err != nil {
				return "", err
			}
			if b[0] == 0 {
				break
			}
			buf = append(buf, b[0])
		}
		return string(buf), nil
	case options.Prefix16:
		var n int16
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return "", err
		}
		buf := make([]byte, n)
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", err
		}
		return string(buf), nil
	case options.Prefix7:
		n, err := readVarint7(r)
		if err != nil {
			return "", err
		}
		buf := make([]byte, n)
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", err
		}
		return string(buf), nil
	default:
		return "", fmt.Errorf("sidecar: unknown binary string format %v", format)
	}
}

func writeVarint7(w io.Writer, n int) error {
	v := uint32(n)
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		if _, err := w.Write([]byte{b}); err != nil {
			return err
		}
		if v == 0 {
			return nil
		}
	}
}

func readVarint7(r io.Reader) (int, error) {
	var result uint32
	var shift uint
	var b [1]byte
	for {
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, err
		}
		result |= uint32(b[0]&0x7f) << shift
		if b[0]&0x80 == 0 {
			break
		}
		shift += 7
	}
	return int(result), nil
}

func writeShort(w io.Writer, v int16) error {
	return binary.Write(w, binary.LittleEndian, v)
}

func writeByte(w io.Writer, v byte) error {
	_, err := w.Write([]byte{v})
	return err
}

// WriteHeader writes the top-level "crch" header: magic, version, and the
// trim/rotate/binstr flags.
func WriteHeader(w io.Writer, h Header) error {
	if _, err := w.Write(Magic[:]); err != nil {
		return err
	}
	if err := writeShort(w, BinVersion); err != nil {
		return err
	}
	if err := writeByte(w, boolByte(h.Trim)); err != nil {
		return err
	}
	if err := writeByte(w, boolByte(h.Rotate)); err != nil {
		return err
	}
	return writeByte(w, byte(h.BinStr))
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// WriteBinary writes one page's images into the binary body (name,
// image count, then per-image fields), not including the top-level
// header -- callers write that once via WriteHeader, or omit it entirely
// in split-mode sub-atlas files (which the atlas driver's concatBinary
// later joins under one header).
func WriteBinary(w io.Writer, h Header, p Page) error {
	if err := WriteBinaryString(w, h.BinStr, p.Name); err != nil {
		return err
	}
	if err := writeShort(w, int16(len(p.Images))); err != nil {
		return err
	}
	for _, img := range p.Images {
		if err := WriteBinaryString(w, h.BinStr, img.Name); err != nil {
			return err
		}
		for _, v := range []int{img.X, img.Y, img.W, img.H} {
			if err := writeShort(w, int16(v)); err != nil {
				return err
			}
		}
		if h.Trim {
			for _, v := range []int{img.FX, img.FY, img.FW, img.FH} {
				if err := writeShort(w, int16(v)); err != nil {
					return err
				}
			}
		}
		if h.Rotate {
			if err := writeByte(w, boolByte(img.Rot)); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReadHeader parses the top-level "crch" header.
func ReadHeader(r io.Reader) (Header, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return Header{}, err
	}
	if magic != Magic {
		return Header{}, fmt.Errorf("sidecar: bad magic %q, want %q", magic, Magic)
	}
	var version int16
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return Header{}, err
	}
	var trim, rotate, binstr [1]byte
	if _, err := io.ReadFull(r, trim[:]); err != nil {
		return Header{}, err
	}
	if _, err := io.ReadFull(r, rotate[:]); err != nil {
		return Header{}, err
	}
	if _, err := io.ReadFull(r, binstr[:]); err != nil {
		return Header{}, err
	}
	return Header{
		Trim:   trim[0] != 0,
		Rotate: rotate[0] != 0,
		BinStr: options.BinaryStringFormat(binstr[0]),
	}, nil
}

// ReadShort reads a little-endian int16, the encoding ReadPage uses for
// image counts and coordinates.
func ReadShort(r io.Reader) (int16, error) {
	var v int16
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}

// WriteShort writes a little-endian int16, exported for the driver's
// split-mode concatenation path.
func WriteShort(w io.Writer, v int16) error {
	return writeShort(w, v)
}

// ReadPage parses one page's worth of images out of r, the inverse of
// WriteBinary.
func ReadPage(r io.Reader, h Header) (Page, error) {
	name, err := ReadBinaryString(r, h.BinStr)
	if err != nil {
		return Page{}, err
	}
	count, err := ReadShort(r)
	if err != nil {
		return Page{}, err
	}
	page := Page{Name: name, Images: make([]Image, 0, count)}
	for i := int16(0); i < count; i++ {
		img := Image{}
		img.Name, err = ReadBinaryString(r, h.BinStr)
		if err != nil {
			return Page{}, err
		}
		for _, dst := range []*int{&img.X, &img.Y, &img.W, &img.H} {
			v, err := ReadShort(r)
			if err != nil {
				return Page{}, err
			}
			*dst = int(v)
		}
		if h.Trim {
			for _, dst := range []*int{&img.FX, &img.FY, &img.FW, &img.FH} {
				v, err := ReadShort(r)
				if err != nil {
					return Page{}, err
				}
				*dst = int(v)
			}
		}
		if h.Rotate {
			var b [1]byte
			if _, err := io.ReadFull(r, b[:]); err != nil {
				return Page{}, err
			}
			img.Rot = b[0] != 0
		}
		page.Images = append(page.Images, img)
	}
	return page, nil
}
