package sidecar

import (
	"fmt"
	"io"
	"strings"
)

// WriteJSONHeader writes the root object's opening and the "textures"
// array start.
func WriteJSONHeader(w io.Writer, h Header) error {
	if _, err := fmt.Fprintln(w, "{"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "\t\"trim\": %s,\n", boolWord(h.Trim)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "\t\"rotate\": %s,\n", boolWord(h.Rotate)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "\t\"textures\": [")
	return err
}

// WriteJSONFooter closes the "textures" array and the root object.
func WriteJSONFooter(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "\t]"); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "}")
	return err
}

// WriteJSONPage writes one page's { "<name>": { "<img>": {...}, ... } }
// object. last controls whether a trailing comma separates it from the
// next page in the array.
func WriteJSONPage(w io.Writer, h Header, p Page, last bool) error {
	if _, err := fmt.Fprintf(w, "\t\t{ \"%s\": {\n", p.Name); err != nil {
		return err
	}
	for i, img := range p.Images {
		var b strings.Builder
		fmt.Fprintf(&b, "\t\t\t\"%s\": { \"x\": %d, \"y\": %d, \"w\": %d, \"h\": %d",
			img.Name, img.X, img.Y, img.W, img.H)
		if h.Trim {
			fmt.Fprintf(&b, ", \"fx\": %d, \"fy\": %d, \"fw\": %d, \"fh\": %d",
				img.FX, img.FY, img.FW, img.FH)
		}
		if h.Rotate {
			fmt.Fprintf(&b, ", \"r\": %s", boolWord(img.Rot))
		}
		b.WriteString(" }")
		if i != len(p.Images)-1 {
			b.WriteString(",")
		}
		if _, err := fmt.Fprintln(w, b.String()); err != nil {
			return err
		}
	}
	if last {
		_, err := fmt.Fprintln(w, "\t\t} }")
		return err
	}
	_, err := fmt.Fprintln(w, "\t\t} },")
	return err
}
