// Package ingest enumerates input paths into logical bitmap names and
// decodes+preprocesses each into a bitmap.Bitmap, memoizing decode work
// across repeated paths within one process lifetime.
package ingest

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Nebulaxin/crunch/internal/bitmap"
	"github.com/Nebulaxin/crunch/internal/clierr"
	"github.com/Nebulaxin/crunch/internal/logging"
	"github.com/Nebulaxin/crunch/internal/pngio"
)

// decodeCacheSize bounds the bitmap memoization cache; a miss always falls
// back to a fresh decode, so this is purely an optimization knob.
const decodeCacheSize = 256

// Source loads decoded, preprocessed bitmaps for a set of input paths
// (files or directories), matching the teacher's on-disk decode, but with
// a bounded LRU cache in front of it, keyed by the path as given, so that
// a path loaded twice through the same Source is only decoded once. A
// cached bitmap is reused only when it is requested under the same
// logical name; a different name (for example a split-mode prefix)
// decodes the file again.
type Source struct {
	cache *lru.Cache[string, *bitmap.Bitmap]
}

// NewSource builds a Source with its decode cache ready to use.
func NewSource() *Source {
	c, _ := lru.New[string, *bitmap.Bitmap](decodeCacheSize)
	return &Source{cache: c}
}

// Named pairs a filesystem path with the logical name it should be packed
// under.
type Named struct {
	Path string
	Name string
}

// Enumerate walks inputs (each a .png file or a directory to recurse into)
// and returns the logical name each file should be packed under, forward
// slash separated and without extension, prefixed by prefix.
func Enumerate(inputs []string, prefix string) ([]Named, error) {
	var out []Named
	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return nil, clierr.Wrap(clierr.Input, err, "input not found: %s", input)
		}

		if !info.IsDir() {
			name := prefix + stemOf(input)
			out = append(out, Named{Path: input, Name: name})
			continue
		}

		err = filepath.WalkDir(input, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if strings.ToLower(filepath.Ext(path)) != ".png" {
				return nil
			}
			rel, err := filepath.Rel(input, path)
			if err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)
			rel = strings.TrimSuffix(rel, filepath.Ext(rel))
			out = append(out, Named{Path: path, Name: prefix + rel})
			return nil
		})
		if err != nil {
			return nil, clierr.Wrap(clierr.Input, err, "failed to walk input directory: %s", input)
		}
	}
	return out, nil
}

func stemOf(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Load decodes and preprocesses every enumerated file into a bitmap.Bitmap.
func (s *Source) Load(files []Named, premultiply, trim, verbose bool) ([]*bitmap.Bitmap, error) {
	bitmaps := make([]*bitmap.Bitmap, 0, len(files))
	for _, f := range files {
		if verbose {
			logging.Log().Debug("loading image", slog.String("path", f.Path), slog.String("name", f.Name))
		}

		if cached, ok := s.cache.Get(f.Path); ok && cached.Name == f.Name {
			bitmaps = append(bitmaps, cached)
			continue
		}

		img, err := pngio.Decode(f.Path)
		if err != nil {
			return nil, clierr.Wrap(clierr.Input, err, "failed to decode png: %s", f.Path)
		}

		bm := bitmap.FromImage(img, f.Name, premultiply, trim)
		s.cache.Add(f.Path, bm)
		bitmaps = append(bitmaps, bm)
	}
	return bitmaps, nil
}
