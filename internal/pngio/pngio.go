// Package pngio is the thin adapter over the PNG codec: an external
// collaborator named only by the interface it presents (decode to RGBA,
// encode an RGBA buffer). Nothing upstream of this package knows it's PNG
// specifically.
package pngio

import (
	"image"
	"image/png"
	"os"
)

// Decode reads path and returns its pixels as an image.Image in straight
// (non-premultiplied) alpha, the contract bitmap.FromImage expects.
func Decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// Encode writes img to path as a PNG.
func Encode(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(f, img); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
