// Package pdftest builds small, uncompressed PDF documents for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"strings"
)

// Font describes a font resource shared by every page of a Document.
type Font struct {
	Name     string // resource name, without the slash
	BaseFont string

	// ToUnicode is a CMap program. When set the font is written as a Type0
	// font with a CIDFontType2 descendant.
	ToUnicode string

	// AvgWidth is written to the font descriptor when non-zero.
	AvgWidth float64
}

// Stream formats a stream object with the given extra dictionary entries.
func Stream(dict, data string) string {
	return fmt.Sprintf("<< %s/Length %d >>\nstream\n%s\nendstream", dict, len(data), data)
}

// Build assembles objects, numbered from 1, into a PDF with a correct xref
// table. Object 1 must be the catalog.
func Build(objects ...string) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n")

	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	return buf.Bytes()
}

// Document builds a PDF with one page per content stream. Every page uses
// the same fonts.
func Document(fonts []Font, contents ...string) []byte {
	// 1 catalog, 2 page tree, then pages and their content, then fonts
	objects := []string{"<< /Type /Catalog /Pages 2 0 R >>", ""}

	firstFont := 3 + 2*len(contents)
	var fontRefs, kids []string
	next := firstFont
	for _, f := range fonts {
		fontRefs = append(fontRefs, fmt.Sprintf("/%s %d 0 R", f.Name, next))
		if f.ToUnicode != "" {
			next += 4 // font, ToUnicode, descendant, descriptor
		} else {
			next += 2 // font, descriptor
		}
	}
	resources := fmt.Sprintf("<< /Font << %s >> >>", strings.Join(fontRefs, " "))

	for i, content := range contents {
		pageObj := 3 + 2*i
		kids = append(kids, fmt.Sprintf("%d 0 R", pageObj))
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents %d 0 R /Resources %s >>", pageObj+1, resources),
			Stream("", content),
		)
	}
	objects[1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(contents))

	for _, f := range fonts {
		n := len(objects) + 1
		if f.ToUnicode != "" {
			objects = append(objects,
				fmt.Sprintf("<< /Type /Font /Subtype /Type0 /BaseFont /%s /Encoding /Identity-H /ToUnicode %d 0 R /DescendantFonts [%d 0 R] >>", f.BaseFont, n+1, n+2),
				Stream("", f.ToUnicode),
				fmt.Sprintf("<< /Type /Font /Subtype /CIDFontType2 /BaseFont /%s /CIDSystemInfo << /Registry (Adobe) /Ordering (Identity) /Supplement 0 >> /FontDescriptor %d 0 R >>", f.BaseFont, n+3),
				descriptor(f),
			)
			continue
		}
		objects = append(objects,
			fmt.Sprintf("<< /Type /Font /Subtype /TrueType /BaseFont /%s /FontDescriptor %d 0 R >>", f.BaseFont, n+1),
			descriptor(f),
		)
	}

	return Build(objects...)
}

func descriptor(f Font) string {
	var width string
	if f.AvgWidth != 0 {
		width = fmt.Sprintf(" /AvgWidth %g", f.AvgWidth)
	}
	return fmt.Sprintf("<< /Type /FontDescriptor /FontName /%s /Flags 32 /FontBBox [0 0 1000 1000] /ItalicAngle 0 /Ascent 800 /Descent -200 /CapHeight 700 /StemV 80%s >>", f.BaseFont, width)
}
