// Package reader opens PDF documents and hands out what text extraction
// needs from each page: its content stream operations and its fonts.
//
// The container format is read with pdfcpu in relaxed validation mode.
//
//	r, err := reader.Open("document.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	ops, err := r.PageOperations(1)   // pages are 1-based
//	fonts, err := r.PageFonts(1)      // implements font.Table
//	strs, err := text.ExtractStrings(ops, fonts, text.DefaultOptions())
//
// Font dictionaries are resolved lazily: a [FontTable] loads a font's
// ToUnicode stream and descriptor metrics the first time the font is used,
// then keeps the result. Composite (Type0) fonts take their descriptor from
// the first descendant font.
package reader
