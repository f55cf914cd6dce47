package cli

import (
	"testing"

	"github.com/Nebulaxin/crunch/internal/options"
)

func TestParsePositionalsAndDefaults(t *testing.T) {
	p, err := Parse([]string{"bin/atlas", "assets"})
	if err != nil {
		t.Fatal(err)
	}
	if p.Output != "bin/atlas" || p.InputsCSV != "assets" {
		t.Errorf("got %+v", p)
	}
	if p.Options.Width != 4096 {
		t.Errorf("expected default width 4096, got %d", p.Options.Width)
	}
}

func TestParseDefaultFlagExpansion(t *testing.T) {
	p, err := Parse([]string{"out", "in", "--default"})
	if err != nil {
		t.Fatal(err)
	}
	if !p.Options.XML || !p.Options.Premultiply || !p.Options.Trim || !p.Options.Unique {
		t.Errorf("--default should set xml, premultiply, trim, and unique, got %+v", p.Options)
	}
}

func TestParseWidthOverridesSizeRegardlessOfOrder(t *testing.T) {
	p, err := Parse([]string{"out", "in", "--width", "512", "--size", "2048"})
	if err != nil {
		t.Fatal(err)
	}
	if p.Options.Width != 512 {
		t.Errorf("--width should win over --size even when --size appears later, got %d", p.Options.Width)
	}
	if p.Options.Height != 2048 {
		t.Errorf("--size should still set height, got %d", p.Options.Height)
	}
}

func TestParseSizeThenWidthOrderStillHonorsWidth(t *testing.T) {
	p, err := Parse([]string{"out", "in", "--size", "2048", "--width", "512"})
	if err != nil {
		t.Fatal(err)
	}
	if p.Options.Width != 512 {
		t.Errorf("--width should override --size regardless of flag order, got %d", p.Options.Width)
	}
}

func TestParseHeightShortFlag(t *testing.T) {
	p, err := Parse([]string{"out", "in", "-h", "2048"})
	if err != nil {
		t.Fatal(err)
	}
	if p.Options.Height != 2048 {
		t.Errorf("-h should set height, got %d", p.Options.Height)
	}
}

func TestParseRejectsInvalidSize(t *testing.T) {
	if _, err := Parse([]string{"out", "in", "--size", "100"}); err == nil {
		t.Fatal("expected an error for an invalid --size")
	}
}

func TestParseRejectsOutOfRangePadding(t *testing.T) {
	if _, err := Parse([]string{"out", "in", "--padding", "17"}); err == nil {
		t.Fatal("expected an error for padding > 16")
	}
}

func TestParseHeuristicFlag(t *testing.T) {
	p, err := Parse([]string{"out", "in", "--heuristic", "cpr"})
	if err != nil {
		t.Fatal(err)
	}
	if p.Options.Heuristic != options.ContactPointRule {
		t.Errorf("got %v, want ContactPointRule", p.Options.Heuristic)
	}
}

func TestParseRejectsUnknownFlag(t *testing.T) {
	if _, err := Parse([]string{"out", "in", "--bogus"}); err == nil {
		t.Fatal("expected an error for an unknown flag")
	}
}

func TestParseHelpShortCircuits(t *testing.T) {
	_, err := Parse([]string{"--help"})
	if !IsHelpRequested(err) {
		t.Fatalf("expected help to be requested, got %v", err)
	}
}

func TestParseVersionShortCircuits(t *testing.T) {
	_, err := Parse([]string{"--version"})
	if !IsVersionRequested(err) {
		t.Fatalf("expected version to be requested, got %v", err)
	}
}

func TestParseRejectsTooFewArguments(t *testing.T) {
	if _, err := Parse([]string{"onlyoutput"}); err == nil {
		t.Fatal("expected an error when only one positional argument is given")
	}
}

func TestParseConfigFlagCapturesPath(t *testing.T) {
	p, err := Parse([]string{"out", "in", "--config", "crunch.toml"})
	if err != nil {
		t.Fatal(err)
	}
	if p.ConfigPath != "crunch.toml" {
		t.Errorf("got %q", p.ConfigPath)
	}
}

func TestPeekConfigPath(t *testing.T) {
	if got := PeekConfigPath([]string{"out", "in", "-c", "crunch.toml"}); got != "crunch.toml" {
		t.Errorf("got %q, want crunch.toml", got)
	}
	if got := PeekConfigPath([]string{"out", "in", "--verbose"}); got != "" {
		t.Errorf("got %q, want empty when no --config is present", got)
	}
}

func TestParseWithBaseSeedsUnsetFieldsFromBase(t *testing.T) {
	base := options.Default()
	base.Width = 256
	base.Premultiply = true

	p, err := ParseWithBase([]string{"out", "in", "--trim"}, base)
	if err != nil {
		t.Fatal(err)
	}
	if p.Options.Width != 256 {
		t.Errorf("base width should survive when no CLI flag overrides it, got %d", p.Options.Width)
	}
	if !p.Options.Premultiply {
		t.Errorf("base premultiply should survive")
	}
	if !p.Options.Trim {
		t.Errorf("explicit --trim should still apply on top of the base")
	}
}

func TestParseWithBaseCLIFlagWinsOverBase(t *testing.T) {
	base := options.Default()
	base.Width = 256

	p, err := ParseWithBase([]string{"out", "in", "--width", "1024"}, base)
	if err != nil {
		t.Fatal(err)
	}
	if p.Options.Width != 1024 {
		t.Errorf("explicit CLI flag should win over the config-seeded base, got %d", p.Options.Width)
	}
}
