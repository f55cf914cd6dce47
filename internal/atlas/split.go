package atlas

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Nebulaxin/crunch/internal/clierr"
	"github.com/Nebulaxin/crunch/internal/sidecar"
)

// buildSplit implements --split: it builds one sub-atlas per immediate
// subdirectory of the first non-.png input, then concatenates whichever
// sub-atlas sidecars exist on disk (freshly built this run, or still
// valid from a prior run) into a top-level aggregate.
func (d *Driver) buildSplit(fingerprint uint64, outputDir, name string, inputs []string) (Result, error) {
	root, err := firstDirInput(inputs)
	if err != nil {
		return Built, err
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return Built, clierr.Wrap(clierr.Input, err, "could not read split root: %s", root)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	namePrefix := name + "_"
	anyBuilt := false

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		subName := entry.Name()
		prefixedName := namePrefix + subName
		subInput := filepath.Join(root, subName)

		result, err := d.buildOne(fingerprint, outputDir, prefixedName, []string{subInput}, subName+"/", true)
		if err != nil {
			return Built, err
		}
		if result == Built {
			anyBuilt = true
		}
	}

	if !anyBuilt {
		fmt.Printf("atlas is unchanged: %s\n", name)
		return Skipped, nil
	}

	outputName := filepath.Join(outputDir, name)
	os.Remove(outputName + ".bin")
	os.Remove(outputName + ".xml")
	os.Remove(outputName + ".json")

	header := sidecar.Header{Trim: d.Opts.Trim, Rotate: d.Opts.Rotate, BinStr: d.Opts.BinaryStringFormat}

	if d.Opts.Binary {
		subs, err := findSidecars(outputDir, namePrefix, ".bin")
		if err != nil {
			return Built, err
		}
		if err := concatBinary(outputName+".bin", header, subs); err != nil {
			return Built, err
		}
	}
	if d.Opts.XML {
		subs, err := findSidecars(outputDir, namePrefix, ".xml")
		if err != nil {
			return Built, err
		}
		if err := concatXML(outputName+".xml", header, subs); err != nil {
			return Built, err
		}
	}
	if d.Opts.JSON {
		subs, err := findSidecars(outputDir, namePrefix, ".json")
		if err != nil {
			return Built, err
		}
		if err := concatJSON(outputName+".json", header, subs); err != nil {
			return Built, err
		}
	}

	return Built, nil
}

// firstDirInput returns the first input that isn't a .png file, which
// split mode treats as the directory whose immediate children become
// sub-atlases.
func firstDirInput(inputs []string) (string, error) {
	for _, in := range inputs {
		if !strings.HasSuffix(in, ".png") {
			return in, nil
		}
	}
	return "", clierr.New(clierr.Usage, "could not find directories in input")
}

// findSidecars lists outputDir for files named "<namePrefix>*<ext>", the
// sidecar files left behind by each sub-atlas build (fresh or cached),
// sorted for deterministic concatenation order.
func findSidecars(outputDir, namePrefix, ext string) ([]string, error) {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return nil, clierr.Wrap(clierr.Input, err, "could not read output directory: %s", outputDir)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		n := e.Name()
		if strings.HasPrefix(n, namePrefix) && strings.HasSuffix(n, ext) {
			out = append(out, filepath.Join(outputDir, n))
		}
	}
	sort.Strings(out)
	return out, nil
}

func concatBinary(path string, header sidecar.Header, subs []string) error {
	f, err := os.Create(path)
	if err != nil {
		return clierr.Wrap(clierr.Output, err, "failed to write bin: %s", path)
	}
	defer f.Close()

	if err := sidecar.WriteHeader(f, header); err != nil {
		return clierr.Wrap(clierr.Output, err, "failed to write bin: %s", path)
	}

	bodies := make([][]byte, len(subs))
	var total int32
	for i, sp := range subs {
		data, err := os.ReadFile(sp)
		if err != nil {
			return clierr.Wrap(clierr.Output, err, "failed to read sub-atlas bin: %s", sp)
		}
		if len(data) < 2 {
			return clierr.New(clierr.Internal, "truncated sub-atlas bin: %s", sp)
		}
		total += int32(binary.LittleEndian.Uint16(data[:2]))
		bodies[i] = data[2:]
	}
	if err := sidecar.WriteShort(f, int16(total)); err != nil {
		return clierr.Wrap(clierr.Output, err, "failed to write bin: %s", path)
	}
	for _, body := range bodies {
		if _, err := f.Write(body); err != nil {
			return clierr.Wrap(clierr.Output, err, "failed to write bin: %s", path)
		}
	}
	return nil
}

func concatXML(path string, header sidecar.Header, subs []string) error {
	f, err := os.Create(path)
	if err != nil {
		return clierr.Wrap(clierr.Output, err, "failed to write xml: %s", path)
	}
	defer f.Close()

	if err := sidecar.WriteXMLHeader(f, header); err != nil {
		return clierr.Wrap(clierr.Output, err, "failed to write xml: %s", path)
	}
	for _, sp := range subs {
		data, err := os.ReadFile(sp)
		if err != nil {
			return clierr.Wrap(clierr.Output, err, "failed to read sub-atlas xml: %s", sp)
		}
		if _, err := f.Write(data); err != nil {
			return clierr.Wrap(clierr.Output, err, "failed to write xml: %s", path)
		}
	}
	return sidecar.WriteXMLFooter(f)
}

func concatJSON(path string, header sidecar.Header, subs []string) error {
	f, err := os.Create(path)
	if err != nil {
		return clierr.Wrap(clierr.Output, err, "failed to write json: %s", path)
	}
	defer f.Close()

	if err := sidecar.WriteJSONHeader(f, header); err != nil {
		return clierr.Wrap(clierr.Output, err, "failed to write json: %s", path)
	}
	for i, sp := range subs {
		data, err := os.ReadFile(sp)
		if err != nil {
			return clierr.Wrap(clierr.Output, err, "failed to read sub-atlas json: %s", sp)
		}
		if _, err := f.Write(data); err != nil {
			return clierr.Wrap(clierr.Output, err, "failed to write json: %s", path)
		}
		if i != len(subs)-1 {
			if _, err := fmt.Fprintln(f, ","); err != nil {
				return clierr.Wrap(clierr.Output, err, "failed to write json: %s", path)
			}
		}
	}
	return sidecar.WriteJSONFooter(f)
}
