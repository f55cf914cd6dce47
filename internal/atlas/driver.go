// Package atlas is the build driver: content-addressed incremental
// rebuild, the per-page pack loop, file naming, split-by-subdirectory
// mode, and sidecar emission. It ties together ingest, pack, bitmap, and
// sidecar into the single end-to-end "build one atlas" operation.
package atlas

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/Nebulaxin/crunch/internal/bitmap"
	"github.com/Nebulaxin/crunch/internal/clierr"
	"github.com/Nebulaxin/crunch/internal/hashutil"
	"github.com/Nebulaxin/crunch/internal/ingest"
	"github.com/Nebulaxin/crunch/internal/logging"
	"github.com/Nebulaxin/crunch/internal/options"
	"github.com/Nebulaxin/crunch/internal/pack"
	"github.com/Nebulaxin/crunch/internal/pngio"
	"github.com/Nebulaxin/crunch/internal/sidecar"
)

// maxStalePages bounds the pre-rebuild cleanup sweep to <name>0.png ..
// <name>15.png, matching the original tool. An atlas that ever needed
// more than 16 pages leaves stale PNGs from a prior, larger build on
// disk; this limit is not lifted here.
const maxStalePages = 16

// Driver runs atlas builds for one resolved options.Options value.
type Driver struct {
	Opts   options.Options
	Source *ingest.Source
}

// New builds a Driver ready to run builds with opts.
func New(opts options.Options) *Driver {
	return &Driver{Opts: opts, Source: ingest.NewSource()}
}

// Result reports what a build actually did.
type Result int

const (
	Built Result = iota
	Skipped
)

// Build runs a full crunch invocation: output is "<dir>/<name>" (extension
// stripped by the caller), inputs is the comma-split input list, and args
// is every user-supplied CLI token (used only to seed the fingerprint).
func (d *Driver) Build(output string, inputs []string, args []string) (Result, error) {
	outputDir := filepath.Dir(output)
	name := filepath.Base(output)

	var fingerprint uint64
	for _, a := range args {
		fingerprint = hashutil.String(fingerprint, a)
	}

	if !d.Opts.SplitSubdirectories {
		return d.buildOne(fingerprint, outputDir, name, inputs, "", false)
	}
	return d.buildSplit(fingerprint, outputDir, name, inputs)
}

// buildOne builds a single atlas (or, in split mode, one sub-atlas) named
// name under outputDir from inputs, with every bitmap name prefixed by
// prefix. omitWrapper suppresses the sidecar root wrapper, used for
// split-mode sub-atlases whose bodies get concatenated into an aggregate.
func (d *Driver) buildOne(fingerprint uint64, outputDir, name string, inputs []string, prefix string, omitWrapper bool) (Result, error) {
	outputName := filepath.Join(outputDir, name)
	opts := d.Opts

	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return Built, clierr.Wrap(clierr.Input, err, "input not found: %s", input)
		}
		if info.IsDir() {
			fingerprint, err = hashutil.Files(fingerprint, input, opts.UseTimeForHash)
		} else {
			fingerprint, err = hashutil.File(fingerprint, input, opts.UseTimeForHash)
		}
		if err != nil {
			return Built, clierr.Wrap(clierr.Input, err, "failed to hash input: %s", input)
		}
	}

	if old, ok := hashutil.Load(outputName + ".hash"); !opts.Force && ok && old == fingerprint {
		if omitWrapper {
			return Skipped, nil
		}
		fmt.Printf("atlas is unchanged: %s\n", name)
		return Built, nil
	}

	if opts.Verbose {
		logging.Log().Debug("rebuilding, removing stale outputs",
			slog.String("name", name), slog.Int("max_stale_pages", maxStalePages))
	}
	removeStaleOutputs(outputName)

	files, err := ingest.Enumerate(inputs, prefix)
	if err != nil {
		return Built, err
	}

	bitmaps, err := d.Source.Load(files, opts.Premultiply, opts.Trim, opts.Verbose)
	if err != nil {
		return Built, err
	}

	sort.SliceStable(bitmaps, func(i, j int) bool {
		return area(bitmaps[i]) < area(bitmaps[j])
	})

	var pages []*pack.Packer
	for len(bitmaps) > 0 {
		before := len(bitmaps)
		lastName := bitmaps[len(bitmaps)-1].Name

		p := pack.New(opts.Width, opts.Height, opts.Padding, opts.Stretch)
		bitmaps = p.Pack(bitmaps, opts.Unique, opts.Rotate, opts.Heuristic)
		pages = append(pages, p)

		if len(p.Bitmaps) == 0 {
			return Built, clierr.New(clierr.Packing, "packing failed, could not fit bitmap: %s", lastName)
		}
		if opts.Verbose {
			logging.Log().Debug("packed page", slog.Int("remaining_before", before), slog.Int("placed", len(p.Bitmaps)))
		}
	}

	noZero := opts.NoZero && len(pages) == 1

	if err := writePNGs(outputName, pages, noZero, opts.Verbose); err != nil {
		return Built, err
	}

	header := sidecar.Header{Trim: opts.Trim, Rotate: opts.Rotate, BinStr: opts.BinaryStringFormat}

	if opts.Binary {
		if err := writeBinarySidecar(outputName, name, header, pages, noZero, omitWrapper); err != nil {
			return Built, err
		}
	}
	if opts.XML {
		if err := writeXMLSidecar(outputName, name, header, pages, noZero, omitWrapper); err != nil {
			return Built, err
		}
	}
	if opts.JSON {
		if err := writeJSONSidecar(outputName, name, header, pages, noZero, omitWrapper); err != nil {
			return Built, err
		}
	}

	if err := hashutil.Save(outputName+".hash", fingerprint); err != nil {
		return Built, clierr.Wrap(clierr.Output, err, "failed to write hash file: %s", outputName+".hash")
	}

	return Built, nil
}

func area(b *bitmap.Bitmap) int { return b.Width * b.Height }

func removeStaleOutputs(outputName string) {
	os.Remove(outputName + ".hash")
	os.Remove(outputName + ".bin")
	os.Remove(outputName + ".xml")
	os.Remove(outputName + ".json")
	os.Remove(outputName + ".png")
	for i := 0; i < maxStalePages; i++ {
		os.Remove(outputName + strconv.Itoa(i) + ".png")
	}
}

func pageName(base string, i int, noZero bool) string {
	if noZero {
		return base
	}
	return base + strconv.Itoa(i)
}

func writePNGs(outputName string, pages []*pack.Packer, noZero bool, verbose bool) error {
	for i, p := range pages {
		path := pageName(outputName, i, noZero) + ".png"
		if verbose {
			logging.Log().Debug("writing png", slog.String("path", path))
		}
		if err := pngio.Encode(path, p.Render()); err != nil {
			return clierr.Wrap(clierr.Output, err, "failed to write png: %s", path)
		}
	}
	return nil
}

func toSidecarPage(name string, p *pack.Packer) sidecar.Page {
	page := sidecar.Page{Name: name, Images: make([]sidecar.Image, len(p.Bitmaps))}
	for i, bm := range p.Bitmaps {
		pt := p.Points[i]
		page.Images[i] = sidecar.Image{
			Name: bm.Name,
			X:    pt.X, Y: pt.Y,
			W: bm.Width, H: bm.Height,
			FX: bm.FrameX, FY: bm.FrameY,
			FW: bm.FrameW, FH: bm.FrameH,
			Rot: pt.Rot,
		}
	}
	return page
}

func writeBinarySidecar(outputName, name string, header sidecar.Header, pages []*pack.Packer, noZero, omitWrapper bool) error {
	path := outputName + ".bin"
	f, err := os.Create(path)
	if err != nil {
		return clierr.Wrap(clierr.Output, err, "failed to write bin: %s", path)
	}
	defer f.Close()

	if !omitWrapper {
		if err := sidecar.WriteHeader(f, header); err != nil {
			return clierr.Wrap(clierr.Output, err, "failed to write bin: %s", path)
		}
	}
	if err := sidecar.WriteShort(f, int16(len(pages))); err != nil {
		return clierr.Wrap(clierr.Output, err, "failed to write bin: %s", path)
	}
	for i, p := range pages {
		page := toSidecarPage(pageName(name, i, noZero), p)
		if err := sidecar.WriteBinary(f, header, page); err != nil {
			return clierr.Wrap(clierr.Output, err, "failed to write bin: %s", path)
		}
	}
	return nil
}

func writeXMLSidecar(outputName, name string, header sidecar.Header, pages []*pack.Packer, noZero, omitWrapper bool) error {
	path := outputName + ".xml"
	f, err := os.Create(path)
	if err != nil {
		return clierr.Wrap(clierr.Output, err, "failed to write xml: %s", path)
	}
	defer f.Close()

	if !omitWrapper {
		if err := sidecar.WriteXMLHeader(f, header); err != nil {
			return clierr.Wrap(clierr.Output, err, "failed to write xml: %s", path)
		}
	}
	for i, p := range pages {
		page := toSidecarPage(pageName(name, i, noZero), p)
		if err := sidecar.WriteXMLPage(f, header, page); err != nil {
			return clierr.Wrap(clierr.Output, err, "failed to write xml: %s", path)
		}
	}
	if !omitWrapper {
		if err := sidecar.WriteXMLFooter(f); err != nil {
			return clierr.Wrap(clierr.Output, err, "failed to write xml: %s", path)
		}
	}
	return nil
}

func writeJSONSidecar(outputName, name string, header sidecar.Header, pages []*pack.Packer, noZero, omitWrapper bool) error {
	path := outputName + ".json"
	f, err := os.Create(path)
	if err != nil {
		return clierr.Wrap(clierr.Output, err, "failed to write json: %s", path)
	}
	defer f.Close()

	if !omitWrapper {
		if err := sidecar.WriteJSONHeader(f, header); err != nil {
			return clierr.Wrap(clierr.Output, err, "failed to write json: %s", path)
		}
	}
	for i, p := range pages {
		page := toSidecarPage(pageName(name, i, noZero), p)
		if err := sidecar.WriteJSONPage(f, header, page, i == len(pages)-1); err != nil {
			return clierr.Wrap(clierr.Output, err, "failed to write json: %s", path)
		}
	}
	if !omitWrapper {
		if err := sidecar.WriteJSONFooter(f); err != nil {
			return clierr.Wrap(clierr.Output, err, "failed to write json: %s", path)
		}
	}
	return nil
}
