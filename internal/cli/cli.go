// Package cli is crunch's argument parser: a hand-rolled long/short flag
// loop over os.Args, matching the external, out-of-scope "CLI argument
// parsing" collaborator named in the spec. There is no positional/flag
// mixing here -- output and inputs always come first, flags after -- so a
// generic flag library would fight the grammar rather than help it.
package cli

import (
	"fmt"

	"github.com/Nebulaxin/crunch/internal/clierr"
	"github.com/Nebulaxin/crunch/internal/options"
)

// Version is the crunch build version, overridable at link time with
// -ldflags "-X github.com/Nebulaxin/crunch/internal/cli.Version=...".
var Version = "dev"

const helpMessage = `
usage:
  crunch [OUTPUT] [INPUT1,INPUT2,INPUT3...] [OPTIONS...]

example:
  crunch bin/atlases/atlas assets/characters,assets/tiles -p -t -v -u -r

options:
  --default      -d     use default settings (-x -p -t -u)
  --xml          -x     save the atlas data as a .xml file
  --json         -j     save the atlas data as a .json file
  --binary       -b     save the atlas data as a .bin file
  --size N       -s     max atlas size (N: 64, 128, 256, 512, 1024, 2048, or 4096)
  --width N      -w     max atlas width (overrides --size)
  --height N     -h     max atlas height (overrides --size)
  --padding N    -pd    padding between images (0-16)
  --stretch N    -st    stretch images' edges by N pixels (0-16)
  --premultiply  -p     premultiply pixels by their alpha channel
  --unique       -u     remove duplicate bitmaps from the atlas
  --trim         -t     trim excess transparency off the bitmaps
  --rotate       -r     allow rotating bitmaps 90 degrees clockwise
  --heuristic H  -hr    packing heuristic: bssf, blsf, baf, blr, or cpr
  --binstr T     -bs    binary string type: 0 (null), 16 (int16), or 7 (7-bit)
  --config PATH  -c     load default options from a TOML config file
  --force        -f     ignore the cached hash, forcing a repack
  --verbose      -v     print progress as the packer works
  --time         -tm    hash by file mtime instead of content
  --split        -sp    split output textures by subdirectory
  --nozero       -nz    omit a trailing 0 from single-page output names
  --version             print the crunch version and exit
  --help         -?     print this message and exit
`

var (
	expectedSize             = "4096, 2048, 1024, 512, 256, 128, or 64"
	expectedPaddingOrStretch = "an integer from 0 to 16"
	expectedEnum             = "one of its documented values"
)

// Parsed holds the result of a successful parse: the two positional
// arguments plus every flag folded into an Options value, and the raw
// config-file path if --config was given.
type Parsed struct {
	Output     string
	InputsCSV  string
	Options    options.Options
	ConfigPath string
}

// Parse parses args (os.Args[1:]) with options.Default() as the flag
// baseline. It recognizes --help/-? and --version as special
// single-argument invocations; otherwise it expects exactly
// [output, inputsCSV, flags...].
func Parse(args []string) (Parsed, error) {
	return ParseWithBase(args, options.Default())
}

// ParseWithBase is Parse with an explicit baseline Options, letting a
// caller seed defaults from a config file before CLI flags are applied on
// top -- so built-in defaults < config file < explicit CLI flags.
func ParseWithBase(args []string, base options.Options) (Parsed, error) {
	if len(args) == 1 {
		switch args[0] {
		case "--help", "-?", "-h":
			return Parsed{}, &helpRequested{}
		case "--version":
			return Parsed{}, &versionRequested{}
		}
	}

	if len(args) < 2 {
		return Parsed{}, clierr.New(clierr.Usage, "invalid input, expected: \"crunch [OUTPUT] [INPUT1,INPUT2,INPUT3...] [OPTIONS...]\"")
	}

	p := Parsed{Output: args[0], InputsCSV: args[1], Options: base}

	var width, height = -1, -1

	rest := args[2:]
	for i := 0; i < len(rest); i++ {
		arg := rest[i]
		hasNext := i+1 < len(rest)
		var next string
		if hasNext {
			next = rest[i+1]
		}

		need := func(expected string) (string, error) {
			if !hasNext {
				return "", clierr.New(clierr.Usage, "expected %s for argument %s", expected, arg)
			}
			i++
			return next, nil
		}

		switch arg {
		case "--default", "-d":
			p.Options.XML = true
			p.Options.Premultiply = true
			p.Options.Trim = true
			p.Options.Unique = true

		case "--xml", "-x":
			p.Options.XML = true
		case "--json", "-j":
			p.Options.JSON = true
		case "--binary", "-b":
			p.Options.Binary = true

		case "--size", "-s":
			v, err := need(expectedSize)
			if err != nil {
				return Parsed{}, err
			}
			n, err := packSize(v)
			if err != nil {
				return Parsed{}, err
			}
			p.Options.Width, p.Options.Height = n, n

		case "--width", "-w":
			v, err := need(expectedSize)
			if err != nil {
				return Parsed{}, err
			}
			n, err := packSize(v)
			if err != nil {
				return Parsed{}, err
			}
			width = n

		case "--height", "-h":
			v, err := need(expectedSize)
			if err != nil {
				return Parsed{}, err
			}
			n, err := packSize(v)
			if err != nil {
				return Parsed{}, err
			}
			height = n

		case "--padding", "-pd":
			v, err := need(expectedPaddingOrStretch)
			if err != nil {
				return Parsed{}, err
			}
			n, err := rangeInt(v, 0, 16)
			if err != nil {
				return Parsed{}, err
			}
			p.Options.Padding = n

		case "--stretch", "-st":
			v, err := need(expectedPaddingOrStretch)
			if err != nil {
				return Parsed{}, err
			}
			n, err := rangeInt(v, 0, 16)
			if err != nil {
				return Parsed{}, err
			}
			p.Options.Stretch = n

		case "--premultiply", "-p":
			p.Options.Premultiply = true
		case "--unique", "-u":
			p.Options.Unique = true
		case "--trim", "-t":
			p.Options.Trim = true
		case "--rotate", "-r":
			p.Options.Rotate = true

		case "--heuristic", "-hr":
			v, err := need(expectedEnum)
			if err != nil {
				return Parsed{}, err
			}
			h, err := options.ParseHeuristic(v)
			if err != nil {
				return Parsed{}, clierr.New(clierr.Usage, "invalid heuristic: %s", v)
			}
			p.Options.Heuristic = h

		case "--binstr", "-bs":
			v, err := need(expectedEnum)
			if err != nil {
				return Parsed{}, err
			}
			n, err := parseIntStrict(v)
			if err != nil {
				return Parsed{}, clierr.New(clierr.Usage, "invalid binary string format: %s", v)
			}
			bs, err := options.ParseBinaryStringFormat(n)
			if err != nil {
				return Parsed{}, clierr.New(clierr.Usage, "invalid binary string format: %s", v)
			}
			p.Options.BinaryStringFormat = bs

		case "--config", "-c":
			v, err := need("a file path")
			if err != nil {
				return Parsed{}, err
			}
			p.ConfigPath = v

		case "--force", "-f":
			p.Options.Force = true
		case "--verbose", "-v":
			p.Options.Verbose = true
		case "--time", "-tm":
			p.Options.UseTimeForHash = true
		case "--split", "-sp":
			p.Options.SplitSubdirectories = true
		case "--nozero", "-nz":
			p.Options.NoZero = true

		default:
			return Parsed{}, clierr.New(clierr.Usage, "unexpected argument: %s", arg)
		}
	}

	if width != -1 {
		p.Options.Width = width
	}
	if height != -1 {
		p.Options.Height = height
	}

	return p, nil
}

// HelpText returns the usage message printed for --help.
func HelpText() string { return helpMessage }

// PeekConfigPath scans args for --config/-c without validating anything
// else, so the caller can load a config file's defaults before the real
// parse runs ParseWithBase on top of them.
func PeekConfigPath(args []string) string {
	if len(args) <= 2 {
		return ""
	}
	rest := args[2:]
	for i, arg := range rest {
		if (arg == "--config" || arg == "-c") && i+1 < len(rest) {
			return rest[i+1]
		}
	}
	return ""
}

func packSize(s string) (int, error) {
	n, err := parseIntStrict(s)
	if err != nil || !options.ValidSizes[n] {
		return 0, clierr.New(clierr.Usage, "invalid size: %s", s)
	}
	return n, nil
}

func rangeInt(s string, lo, hi int) (int, error) {
	n, err := parseIntStrict(s)
	if err != nil || n < lo || n > hi {
		return 0, clierr.New(clierr.Usage, "invalid value: %s (expected %d to %d)", s, lo, hi)
	}
	return n, nil
}

func parseIntStrict(s string) (int, error) {
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil {
		return 0, err
	}
	return n, nil
}

// helpRequested and versionRequested signal a successful, exit-0 request
// for --help/--version rather than a usage error.
type helpRequested struct{}

func (*helpRequested) Error() string { return "help requested" }

type versionRequested struct{}

func (*versionRequested) Error() string { return "version requested" }

// IsHelpRequested reports whether err signals --help was requested.
func IsHelpRequested(err error) bool { _, ok := err.(*helpRequested); return ok }

// IsVersionRequested reports whether err signals --version was requested.
func IsVersionRequested(err error) bool { _, ok := err.(*versionRequested); return ok }
