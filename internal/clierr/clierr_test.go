package clierr

import (
	"errors"
	"testing"
)

func TestNewFormatsMessage(t *testing.T) {
	err := New(Usage, "unknown flag: %s", "--bogus")
	if err.Error() != "unknown flag: --bogus" {
		t.Errorf("got %q", err.Error())
	}
	if err.Kind != Usage {
		t.Errorf("got kind %v, want Usage", err.Kind)
	}
}

func TestWrapPreservesUnderlyingError(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(Output, cause, "failed to write: %s", "atlas.png")
	if !errors.Is(err, cause) {
		t.Errorf("errors.Is should find the wrapped cause")
	}
	if err.Error() != "failed to write: atlas.png" {
		t.Errorf("got %q", err.Error())
	}
}

func TestExitCodeAlwaysOne(t *testing.T) {
	for _, k := range []Kind{Usage, Input, Packing, Output, Internal} {
		if k.ExitCode() != 1 {
			t.Errorf("Kind(%v).ExitCode() = %d, want 1", k, k.ExitCode())
		}
	}
}

func TestKindString(t *testing.T) {
	if Usage.String() != "usage error" {
		t.Errorf("got %q", Usage.String())
	}
}
