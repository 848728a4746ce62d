// Package textrun provides a fluent API for extracting reading-order strings
// from PDF pages.
//
// Basic usage:
//
//	pages, err := textrun.Open("document.pdf").Strings()
//	if err != nil {
//	    // handle error
//	}
//	for _, p := range pages {
//	    fmt.Println(p.Page, p.Strings)
//	}
//
// With options:
//
//	pages, err := textrun.Open("report.pdf").
//	    Pages(1, 2, 3).
//	    WithOptions(text.Options{MaxAdvanceGap: 30}).
//	    Strings()
//
// Decoding failures abort the page and are reported as a *PageError that
// wraps the underlying *text.RunError. For lower-level control use the
// reader and text packages directly.
package textrun

import (
	"github.com/tsawler/textrun/reader"
)

// Open opens a PDF file and returns an Extractor for fluent configuration.
// The file is opened on first use. Terminal operations (Strings, Runs)
// close it; otherwise call Close.
//
// Example:
//
//	pages, err := textrun.Open("document.pdf").Strings()
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromReader creates an Extractor from an already-opened reader.Reader.
// The caller is responsible for closing the reader.
//
// Example:
//
//	r, err := reader.Open("document.pdf")
//	if err != nil {
//	    // handle error
//	}
//	defer r.Close()
//	pages, err := textrun.FromReader(r).Pages(1).Strings()
func FromReader(r *reader.Reader) *Extractor {
	return &Extractor{
		reader:       r,
		ownsReader:   false,
		readerOpened: true,
		options:      defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	count := textrun.Must(textrun.Open("document.pdf").PageCount())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
