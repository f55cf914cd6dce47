// Package bitmap implements the preprocessing stage that turns a decoded
// PNG into the Bitmap value the packer consumes: alpha trim, premultiply,
// content hashing, and the pixel-level compositing helpers used when a
// packed atlas page is rendered.
package bitmap

import (
	"bytes"
	"image"

	"golang.org/x/image/draw"

	"github.com/Nebulaxin/crunch/internal/hashutil"
)

// Bitmap is one source image as it will be placed into an atlas: its
// (possibly trimmed) pixels, the trim window into its original extents,
// and a content hash used to accelerate duplicate detection.
type Bitmap struct {
	Name   string
	Width  int
	Height int

	// FrameX/FrameY/FrameW/FrameH describe the trim window inside the
	// original, untrimmed image. When trim is disabled they are the
	// identity window: FrameX = FrameY = 0, FrameW = Width, FrameH = Height.
	FrameX int
	FrameY int
	FrameW int
	FrameH int

	// Pixels holds Width*Height RGBA pixels in image.RGBA's own layout
	// (Stride == Width*4), so it can be wrapped in an *image.RGBA with no
	// copy whenever compositing needs to run.
	Pixels []byte

	HashValue uint64
}

// rgba wraps Pixels as an *image.RGBA rooted at (0,0) for use with
// golang.org/x/image/draw.
func (b *Bitmap) rgba() *image.RGBA {
	return &image.RGBA{
		Pix:    b.Pixels,
		Stride: b.Width * 4,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

// FromImage builds a Bitmap named name from an already-decoded image,
// applying trim and premultiply as requested. This is the core used by
// both Load (a PNG on disk) and tests (synthetic in-memory images).
func FromImage(src image.Image, name string, premultiply, trim bool) *Bitmap {
	b := src.Bounds()
	origW, origH := b.Dx(), b.Dy()

	rect := image.Rect(0, 0, origW, origH)
	if trim {
		rect = trimRect(src)
	}

	w, h := rect.Dx(), rect.Dy()
	pix := make([]byte, w*h*4)
	dst := &image.RGBA{Pix: pix, Stride: w * 4, Rect: image.Rect(0, 0, w, h)}
	draw.Draw(dst, dst.Bounds(), src, b.Min.Add(rect.Min), draw.Src)

	bm := &Bitmap{
		Name:   name,
		Width:  w,
		Height: h,
		Pixels: pix,
	}
	if trim {
		bm.FrameX, bm.FrameY = rect.Min.X, rect.Min.Y
		bm.FrameW, bm.FrameH = origW, origH
	} else {
		bm.FrameX, bm.FrameY = 0, 0
		bm.FrameW, bm.FrameH = w, h
	}

	if premultiply {
		bm.premultiply()
	}

	bm.HashValue = bm.computeHash()
	return bm
}

// trimRect finds the smallest rectangle (relative to src.Bounds().Min)
// containing every pixel with alpha > 0. If the image is fully
// transparent it returns the 1x1 rectangle at the origin.
func trimRect(src image.Image) image.Rectangle {
	b := src.Bounds()
	minX, minY := b.Dx(), b.Dy()
	maxX, maxY := -1, -1

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			_, _, _, a := src.At(x, y).RGBA()
			if a == 0 {
				continue
			}
			rx, ry := x-b.Min.X, y-b.Min.Y
			if rx < minX {
				minX = rx
			}
			if ry < minY {
				minY = ry
			}
			if rx > maxX {
				maxX = rx
			}
			if ry > maxY {
				maxY = ry
			}
		}
	}

	if maxX < 0 {
		return image.Rect(0, 0, 1, 1)
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

// premultiply replaces each RGB channel c with round(c * a / 255).
func (b *Bitmap) premultiply() {
	for i := 0; i+3 < len(b.Pixels); i += 4 {
		a := uint32(b.Pixels[i+3])
		for c := 0; c < 3; c++ {
			v := uint32(b.Pixels[i+c])
			b.Pixels[i+c] = byte((v*a + 127) / 255)
		}
	}
}

func (b *Bitmap) computeHash() uint64 {
	var hash uint64
	hash = hashutil.Data(hash, leUint32(uint32(b.Width)))
	hash = hashutil.Data(hash, leUint32(uint32(b.Height)))
	hash = hashutil.Data(hash, b.Pixels)
	return hash
}

func leUint32(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}

// Equals reports whether both bitmaps have identical dimensions and
// byte-for-byte-equal pixel buffers. HashValue equality is only a filter
// for candidacy; this is the actual decision.
func (b *Bitmap) Equals(other *Bitmap) bool {
	if b.Width != other.Width || b.Height != other.Height {
		return false
	}
	return bytes.Equal(b.Pixels, other.Pixels)
}

// CopyPixels blits the bitmap's pixels into dst at destination origin (x, y).
func (b *Bitmap) CopyPixels(dst *image.RGBA, x, y int) {
	r := image.Rect(x, y, x+b.Width, y+b.Height)
	draw.Draw(dst, r, b.rgba(), image.Point{}, draw.Src)
}

// CopyPixelsRot blits the bitmap rotated 90 degrees clockwise: destination
// pixel (x + (height-1-sy), y + sx) receives source pixel (sx, sy).
func (b *Bitmap) CopyPixelsRot(dst *image.RGBA, x, y int) {
	src := b.rgba()
	for sy := 0; sy < b.Height; sy++ {
		for sx := 0; sx < b.Width; sx++ {
			c := src.RGBAAt(sx, sy)
			dst.SetRGBA(x+(b.Height-1-sy), y+sx, c)
		}
	}
}

// StretchPixels extends the s-pixel border around the placed rectangle at
// (x, y, w, h) within dst by replicating the outermost row/column (edge
// clamp). Callers pass the bitmap's footprint as actually drawn, so (w, h)
// are already swapped when the bitmap was placed rotated.
func StretchPixels(dst *image.RGBA, x, y, w, h, s int) {
	if s <= 0 {
		return
	}

	// Left/right columns.
	for dy := 0; dy < h; dy++ {
		left := dst.RGBAAt(x, y+dy)
		right := dst.RGBAAt(x+w-1, y+dy)
		for i := 1; i <= s; i++ {
			dst.SetRGBA(x-i, y+dy, left)
			dst.SetRGBA(x+w-1+i, y+dy, right)
		}
	}
	// Top/bottom rows, including the corners now filled on the sides.
	for dx := -s; dx < w+s; dx++ {
		top := dst.RGBAAt(clamp(x+dx, x, x+w-1), y)
		bot := dst.RGBAAt(clamp(x+dx, x, x+w-1), y+h-1)
		for i := 1; i <= s; i++ {
			dst.SetRGBA(x+dx, y-i, top)
			dst.SetRGBA(x+dx, y+h-1+i, bot)
		}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
