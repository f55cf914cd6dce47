// Package pack implements the MaxRects rectangle packer: one Packer
// instance fills a single W×H atlas page, greedily placing bitmaps popped
// from the tail of a caller-supplied, area-sorted slice until the next one
// does not fit.
package pack

import (
	"image"

	"github.com/Nebulaxin/crunch/internal/bitmap"
	"github.com/Nebulaxin/crunch/internal/options"
)

// Point is the placement record for one bitmap within a Packer, parallel
// to Packer.Bitmaps.
type Point struct {
	X, Y  int
	DupID int // -1 if packed independently, else the index of the bitmap sharing its pixels
	Rot   bool
}

// Packer fills one atlas page. Construct with New, then call Pack exactly
// once; the free-rectangle bookkeeping lives only for the duration of that
// call.
type Packer struct {
	Width   int
	Height  int
	Pad     int
	Stretch int

	Bitmaps []*bitmap.Bitmap
	Points  []Point

	// DupLookup maps a content hash to the index of the first bitmap seen
	// with that hash, used only when unique coalescing is enabled.
	DupLookup map[uint64]int

	placed []rect // expanded placement rects, for ContactPointRule scoring
}

// New creates an empty Packer targeting a width x height atlas, with the
// given inter-bitmap padding and edge-stretch amounts.
func New(width, height, pad, stretch int) *Packer {
	return &Packer{
		Width:     width,
		Height:    height,
		Pad:       pad,
		Stretch:   stretch,
		DupLookup: make(map[uint64]int),
	}
}

// Pack consumes bitmaps from the tail of the slice, placing each into the
// page (or, with unique set, coalescing it onto an equal bitmap already
// placed) and stopping at the first one that doesn't fit. It returns the
// bitmaps that were not placed, in their original relative order, for the
// driver to feed to the next Packer.
func (p *Packer) Pack(bitmaps []*bitmap.Bitmap, unique, rotate bool, heuristic options.Heuristic) []*bitmap.Bitmap {
	free := []rect{{0, 0, p.Width + p.Pad, p.Height + p.Pad}}
	binW, binH := p.Width+p.Pad, p.Height+p.Pad
	expand := p.Pad + p.Stretch*2

	var ww, hh int

	for len(bitmaps) > 0 {
		bm := bitmaps[len(bitmaps)-1]

		if unique {
			if idx, ok := p.DupLookup[bm.HashValue]; ok && bm.Equals(p.Bitmaps[idx]) {
				pt := p.Points[idx]
				pt.DupID = idx
				p.Points = append(p.Points, pt)
				p.Bitmaps = append(p.Bitmaps, bm)
				bitmaps = bitmaps[:len(bitmaps)-1]
				continue
			}
		}

		w, h := bm.Width+expand, bm.Height+expand

		cand, ok := findBestFit(free, p.placed, binW, binH, w, h, rotate, heuristic)
		if !ok {
			break
		}

		placedRect := rect{cand.x, cand.y, cand.w, cand.h}

		if unique {
			p.DupLookup[bm.HashValue] = len(p.Points)
		}

		pt := Point{
			X:     cand.x + p.Stretch,
			Y:     cand.y + p.Stretch,
			DupID: -1,
			Rot:   rotate && cand.w != w,
		}
		p.Points = append(p.Points, pt)
		p.Bitmaps = append(p.Bitmaps, bm)
		p.placed = append(p.placed, placedRect)
		bitmaps = bitmaps[:len(bitmaps)-1]

		free = splitFreeRects(free, placedRect)
		free = pruneFreeRects(free)

		if x := placedRect.right() - p.Pad; x > ww {
			ww = x
		}
		if y := placedRect.bottom() - p.Pad; y > hh {
			hh = y
		}
	}

	// ww/hh stay 0 when nothing was placed (the first, largest bitmap
	// didn't even fit); guard against shrinking forever toward a 0 width.
	for ww > 0 && p.Width/2 >= ww {
		p.Width /= 2
	}
	for hh > 0 && p.Height/2 >= hh {
		p.Height /= 2
	}

	return bitmaps
}

// Render draws every independently-placed bitmap (and, for stretch > 0,
// its replicated border) into a fresh RGBA image sized to the packer's
// final Width x Height.
func (p *Packer) Render() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p.Width, p.Height))
	for i, bm := range p.Bitmaps {
		pt := p.Points[i]
		if pt.DupID >= 0 {
			continue
		}

		if pt.Rot {
			bm.CopyPixelsRot(img, pt.X, pt.Y)
		} else {
			bm.CopyPixels(img, pt.X, pt.Y)
		}

		if p.Stretch != 0 {
			w, h := bm.Width, bm.Height
			if pt.Rot {
				w, h = h, w
			}
			bitmap.StretchPixels(img, pt.X, pt.Y, w, h, p.Stretch)
		}
	}
	return img
}
