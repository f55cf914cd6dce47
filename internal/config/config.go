// Package config loads default build options from an optional TOML file,
// letting a project check in a repeatable crunch invocation instead of
// repeating a long flag list. This is additive: its absence leaves the
// CLI's documented flag-only behavior unchanged.
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/Nebulaxin/crunch/internal/options"
)

// DefaultPath is where crunch looks for a config file when --config isn't
// given: a dotfile in the current working directory, like noisetorch's own
// settings file.
const DefaultPath = ".crunch.toml"

// File mirrors options.Options with TOML tags; every field is optional and
// only overrides the built-in default, never an explicit CLI flag.
type File struct {
	XML    *bool `toml:"xml"`
	JSON   *bool `toml:"json"`
	Binary *bool `toml:"binary"`

	Width   *int `toml:"width"`
	Height  *int `toml:"height"`
	Padding *int `toml:"padding"`
	Stretch *int `toml:"stretch"`

	Premultiply *bool   `toml:"premultiply"`
	Unique      *bool   `toml:"unique"`
	Trim        *bool   `toml:"trim"`
	Rotate      *bool   `toml:"rotate"`
	Heuristic   *string `toml:"heuristic"`

	BinaryStringFormat  *int  `toml:"binstr"`
	Force               *bool `toml:"force"`
	Verbose             *bool `toml:"verbose"`
	UseTimeForHash      *bool `toml:"time"`
	SplitSubdirectories *bool `toml:"split"`
	NoZero              *bool `toml:"nozero"`
}

// Load parses a TOML file at path, if it exists. A missing file is not an
// error; it simply yields a zero-value File with no overrides.
func Load(path string) (File, error) {
	var f File
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return f, nil
		}
		return f, err
	}
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return f, err
	}
	return f, nil
}

// Apply overlays the config file's set fields onto base, returning the
// merged Options. CLI flags are applied on top of this result by the
// caller, so flags always win.
func Apply(base options.Options, f File) (options.Options, error) {
	if f.XML != nil {
		base.XML = *f.XML
	}
	if f.JSON != nil {
		base.JSON = *f.JSON
	}
	if f.Binary != nil {
		base.Binary = *f.Binary
	}
	if f.Width != nil {
		base.Width = *f.Width
	}
	if f.Height != nil {
		base.Height = *f.Height
	}
	if f.Padding != nil {
		base.Padding = *f.Padding
	}
	if f.Stretch != nil {
		base.Stretch = *f.Stretch
	}
	if f.Premultiply != nil {
		base.Premultiply = *f.Premultiply
	}
	if f.Unique != nil {
		base.Unique = *f.Unique
	}
	if f.Trim != nil {
		base.Trim = *f.Trim
	}
	if f.Rotate != nil {
		base.Rotate = *f.Rotate
	}
	if f.Heuristic != nil {
		h, err := options.ParseHeuristic(*f.Heuristic)
		if err != nil {
			return base, err
		}
		base.Heuristic = h
	}
	if f.BinaryStringFormat != nil {
		bs, err := options.ParseBinaryStringFormat(*f.BinaryStringFormat)
		if err != nil {
			return base, err
		}
		base.BinaryStringFormat = bs
	}
	if f.Force != nil {
		base.Force = *f.Force
	}
	if f.Verbose != nil {
		base.Verbose = *f.Verbose
	}
	if f.UseTimeForHash != nil {
		base.UseTimeForHash = *f.UseTimeForHash
	}
	if f.SplitSubdirectories != nil {
		base.SplitSubdirectories = *f.SplitSubdirectories
	}
	if f.NoZero != nil {
		base.NoZero = *f.NoZero
	}
	return base, nil
}
