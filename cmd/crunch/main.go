// Command crunch packs a directory of PNG images into one or more texture
// atlases, with optional XML, JSON, or binary sidecar metadata.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Nebulaxin/crunch/internal/atlas"
	"github.com/Nebulaxin/crunch/internal/cli"
	"github.com/Nebulaxin/crunch/internal/clierr"
	"github.com/Nebulaxin/crunch/internal/config"
	"github.com/Nebulaxin/crunch/internal/logging"
	"github.com/Nebulaxin/crunch/internal/options"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if ce, ok := err.(*clierr.Error); ok {
			os.Exit(ce.Kind.ExitCode())
		}
		os.Exit(1)
	}
}

func run(args []string) error {
	base := options.Default()
	path := cli.PeekConfigPath(args)
	if path == "" {
		path = config.DefaultPath
	}
	file, err := config.Load(path)
	if err != nil {
		return clierr.Wrap(clierr.Input, err, "failed to load config: %s", path)
	}
	base, err = config.Apply(base, file)
	if err != nil {
		return err
	}

	parsed, err := cli.ParseWithBase(args, base)
	if err != nil {
		if cli.IsHelpRequested(err) {
			fmt.Print(cli.HelpText())
			return nil
		}
		if cli.IsVersionRequested(err) {
			fmt.Printf("crunch %s\n", cli.Version)
			return nil
		}
		return err
	}

	opts := parsed.Options
	if opts.Verbose {
		logging.EnableVerbose()
		fmt.Printf("options: %s\n", opts)
	}

	if err := opts.Validate(); err != nil {
		return clierr.Wrap(clierr.Usage, err, "%s", err)
	}

	inputs := strings.Split(parsed.InputsCSV, ",")
	for i := range inputs {
		inputs[i] = strings.TrimSpace(inputs[i])
	}

	output := strings.TrimSuffix(parsed.Output, filepath.Ext(parsed.Output))

	driver := atlas.New(opts)
	result, err := driver.Build(output, inputs, args)
	if err != nil {
		return err
	}
	if opts.Verbose {
		logging.Log().Debug("build finished", slog.Any("result", result))
	}
	return nil
}
