package sidecar

import (
	"fmt"
	"io"
)

// WriteXMLHeader writes the root <atlas> element's opening tags.
//
// Preserved quirk: the original tool closes the <rotate> element with a
// </trim> tag instead of </rotate>. A faithful re-implementation keeps
// this rather than silently correcting a consumer-visible wire format.
func WriteXMLHeader(w io.Writer, h Header) error {
	if _, err := fmt.Fprintln(w, "<atlas>"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "\t<trim>%s</trim>\n", boolWord(h.Trim)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\t<rotate>%s</trim>\n", boolWord(h.Rotate))
	return err
}

// WriteXMLFooter closes the root <atlas> element.
func WriteXMLFooter(w io.Writer) error {
	_, err := fmt.Fprintln(w, "</atlas>")
	return err
}

// WriteXMLPage writes one <tex n="..."> block with its <img> children.
func WriteXMLPage(w io.Writer, h Header, p Page) error {
	if _, err := fmt.Fprintf(w, "\t<tex n=\"%s\">\n", p.Name); err != nil {
		return err
	}
	for _, img := range p.Images {
		if _, err := fmt.Fprintf(w, "\t\t<img n=\"%s\" x=\"%d\" y=\"%d\" w=\"%d\" h=\"%d\" ",
			img.Name, img.X, img.Y, img.W, img.H); err != nil {
			return err
		}
		if h.Trim {
			if _, err := fmt.Fprintf(w, "fx=\"%d\" fy=\"%d\" fw=\"%d\" fh=\"%d\" ",
				img.FX, img.FY, img.FW, img.FH); err != nil {
				return err
			}
		}
		if h.Rotate {
			if _, err := fmt.Fprintf(w, "r=\"%d\" ", boolInt(img.Rot)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, "/>"); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "\t</tex>")
	return err
}

func boolWord(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
