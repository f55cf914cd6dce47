// Package options holds the resolved configuration for one crunch build:
// the immutable value threaded through the driver and packer, in place of
// the process-wide globals the original tool relied on.
package options

import "fmt"

// Heuristic selects the MaxRects free-rectangle scoring rule.
type Heuristic int

const (
	BestShortSideFit Heuristic = iota
	BestLongSideFit
	BestAreaFit
	BottomLeftRule
	ContactPointRule
)

func (h Heuristic) String() string {
	switch h {
	case BestShortSideFit:
		return "bssf"
	case BestLongSideFit:
		return "blsf"
	case BestAreaFit:
		return "baf"
	case BottomLeftRule:
		return "blr"
	case ContactPointRule:
		return "cpr"
	default:
		return "unknown"
	}
}

func ParseHeuristic(s string) (Heuristic, error) {
	switch s {
	case "bssf":
		return BestShortSideFit, nil
	case "blsf":
		return BestLongSideFit, nil
	case "baf":
		return BestAreaFit, nil
	case "blr":
		return BottomLeftRule, nil
	case "cpr":
		return ContactPointRule, nil
	default:
		return 0, fmt.Errorf("unknown heuristic %q (want bssf, blsf, baf, blr, or cpr)", s)
	}
}

// BinaryStringFormat selects how strings are length-prefixed in the binary
// sidecar.
type BinaryStringFormat byte

const (
	NullTerminated BinaryStringFormat = 0
	Prefix16       BinaryStringFormat = 1
	Prefix7        BinaryStringFormat = 2
)

func (b BinaryStringFormat) String() string {
	switch b {
	case NullTerminated:
		return "null-terminated"
	case Prefix16:
		return "int16-prefixed"
	case Prefix7:
		return "7-bit-prefixed"
	default:
		return "unknown"
	}
}

func ParseBinaryStringFormat(n int) (BinaryStringFormat, error) {
	switch n {
	case 0:
		return NullTerminated, nil
	case 16:
		return Prefix16, nil
	case 7:
		return Prefix7, nil
	default:
		return 0, fmt.Errorf("unknown binary string format %d (want 0, 16, or 7)", n)
	}
}

// ValidSizes are the atlas extents the original tool allows for --size,
// --width, and --height.
var ValidSizes = map[int]bool{
	64: true, 128: true, 256: true, 512: true, 1024: true, 2048: true, 4096: true,
}

// Options is the full set of knobs a single atlas build is run with. A zero
// Options is not meaningful; use Default to get sane starting values.
type Options struct {
	XML    bool
	JSON   bool
	Binary bool

	Width   int
	Height  int
	Padding int
	Stretch int

	Premultiply bool
	Unique      bool
	Trim        bool
	Rotate      bool
	Heuristic   Heuristic

	BinaryStringFormat  BinaryStringFormat
	Force               bool
	Verbose             bool
	UseTimeForHash      bool
	SplitSubdirectories bool
	NoZero              bool
}

// Default mirrors the original tool's built-in defaults.
func Default() Options {
	return Options{
		Width:     4096,
		Height:    4096,
		Padding:   1,
		Heuristic: BestShortSideFit,
	}
}

// String dumps the resolved options on a single line of key=value pairs,
// for --verbose. The Verbose flag itself is not included.
func (o Options) String() string {
	return fmt.Sprintf(
		"xml=%v json=%v binary=%v width=%d height=%d padding=%d stretch=%d "+
			"premultiply=%v unique=%v trim=%v rotate=%v heuristic=%s binstr=%s "+
			"force=%v time=%v split=%v nozero=%v",
		o.XML, o.JSON, o.Binary, o.Width, o.Height, o.Padding, o.Stretch,
		o.Premultiply, o.Unique, o.Trim, o.Rotate, o.Heuristic, o.BinaryStringFormat,
		o.Force, o.UseTimeForHash, o.SplitSubdirectories, o.NoZero)
}

// Validate checks that width and height are positive and that padding and
// stretch lie in 0..16. It does not check width or height against
// ValidSizes; the CLI parser does that for --size, --width and --height.
func (o Options) Validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("width and height must be positive, got %dx%d", o.Width, o.Height)
	}
	if o.Padding < 0 || o.Padding > 16 {
		return fmt.Errorf("padding must be between 0 and 16, got %d", o.Padding)
	}
	if o.Stretch < 0 || o.Stretch > 16 {
		return fmt.Errorf("stretch must be between 0 and 16, got %d", o.Stretch)
	}
	return nil
}
