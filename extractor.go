package textrun

import (
	"fmt"
	"sort"

	"github.com/tsawler/textrun/logging"
	"github.com/tsawler/textrun/reader"
	"github.com/tsawler/textrun/text"
)

// PageStrings is the clustered text of one page.
type PageStrings struct {
	Page    int      `json:"page" yaml:"page"`
	Strings []string `json:"strings" yaml:"strings"`
}

// PageRuns is the decoded runs of one page, in reading order.
type PageRuns struct {
	Page int                    `json:"page" yaml:"page"`
	Runs []text.DecodedGlyphRun `json:"runs" yaml:"runs"`
}

// Extractor provides a fluent interface for extracting text from a PDF.
// Each configuration method returns a new Extractor instance, allowing
// method chaining without affecting the original.
type Extractor struct {
	// Source
	filename string
	reader   *reader.Reader

	// Lifecycle
	ownsReader   bool // true if we opened the reader and should close it
	readerOpened bool // true if reader has been opened

	// Configuration
	options ExtractOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Extractor with a deep copy of options.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		filename:     e.filename,
		reader:       e.reader,
		ownsReader:   e.ownsReader,
		readerOpened: e.readerOpened,
		options:      e.options.clone(),
		err:          e.err,
	}
}

// ensureReader opens the reader if not already open.
func (e *Extractor) ensureReader() error {
	if e.readerOpened {
		return nil
	}
	if e.filename == "" {
		return fmt.Errorf("no filename specified")
	}

	r, err := reader.Open(e.filename)
	if err != nil {
		return fmt.Errorf("failed to open PDF: %w", err)
	}
	e.reader = r
	e.ownsReader = true
	e.readerOpened = true
	return nil
}

// Close releases resources associated with the Extractor.
// It is safe to call Close multiple times.
func (e *Extractor) Close() error {
	if e.ownsReader && e.reader != nil {
		err := e.reader.Close()
		e.reader = nil
		e.ownsReader = false
		e.readerOpened = false
		return err
	}
	return nil
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// Pages specifies which pages to extract from (1-indexed).
// Multiple calls are cumulative.
//
// Example:
//
//	pages, err := textrun.Open("doc.pdf").Pages(1, 3, 5).Strings()
func (e *Extractor) Pages(pages ...int) *Extractor {
	newExt := e.clone()
	newExt.options.pages = append(newExt.options.pages, pages...)
	return newExt
}

// PageRange specifies a range of pages to extract (1-indexed, inclusive).
//
// Example:
//
//	pages, err := textrun.Open("doc.pdf").PageRange(5, 10).Strings()
func (e *Extractor) PageRange(start, end int) *Extractor {
	newExt := e.clone()
	if start > end {
		newExt.err = fmt.Errorf("invalid page range %d-%d", start, end)
		return newExt
	}
	for i := start; i <= end; i++ {
		newExt.options.pages = append(newExt.options.pages, i)
	}
	return newExt
}

// WithOptions replaces the decoding and clustering tolerances. Zero fields
// take the defaults.
//
// Example:
//
//	pages, err := textrun.Open("doc.pdf").
//	    WithOptions(text.Options{MaxAdvanceGap: 30}).
//	    Strings()
func (e *Extractor) WithOptions(opts text.Options) *Extractor {
	newExt := e.clone()
	newExt.options.text = opts
	return newExt
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Strings extracts the clustered strings of the selected pages.
// This is a terminal operation that closes the underlying reader.
//
// Extraction stops at the first page that fails; the error is a
// *PageError.
func (e *Extractor) Strings() ([]PageStrings, error) {
	if e.err != nil {
		return nil, e.err
	}
	if err := e.ensureReader(); err != nil {
		return nil, err
	}
	defer e.Close()

	pages, err := e.resolvePages()
	if err != nil {
		return nil, err
	}

	result := make([]PageStrings, 0, len(pages))
	for _, page := range pages {
		strs, err := e.pageStrings(page)
		if err != nil {
			return nil, err
		}
		result = append(result, PageStrings{Page: page, Strings: strs})
	}

	return result, nil
}

// Runs extracts the decoded runs of the selected pages without clustering.
// This is a terminal operation that closes the underlying reader.
func (e *Extractor) Runs() ([]PageRuns, error) {
	if e.err != nil {
		return nil, e.err
	}
	if err := e.ensureReader(); err != nil {
		return nil, err
	}
	defer e.Close()

	pages, err := e.resolvePages()
	if err != nil {
		return nil, err
	}

	result := make([]PageRuns, 0, len(pages))
	for _, page := range pages {
		runs, err := e.pageRuns(page)
		if err != nil {
			return nil, err
		}
		result = append(result, PageRuns{Page: page, Runs: runs})
	}

	return result, nil
}

// PageStrings extracts the clustered strings of a single page (1-indexed),
// ignoring any page selection. Unlike Strings it leaves the reader open,
// so it can be called repeatedly; call Close when done.
func (e *Extractor) PageStrings(page int) ([]string, error) {
	if e.err != nil {
		return nil, e.err
	}
	if err := e.ensureReader(); err != nil {
		return nil, err
	}
	return e.pageStrings(page)
}

// PageCount returns the number of pages in the document.
func (e *Extractor) PageCount() (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	if err := e.ensureReader(); err != nil {
		return 0, err
	}
	return e.reader.PageCount()
}

// ============================================================================
// Internal helpers
// ============================================================================

func (e *Extractor) pageStrings(page int) ([]string, error) {
	runs, err := e.pageRuns(page)
	if err != nil {
		return nil, err
	}
	strs := text.ClusterStrings(runs, e.options.text)
	logging.Logger().Debug("extracted page", "page", page, "runs", len(runs), "strings", len(strs))
	return strs, nil
}

func (e *Extractor) pageRuns(page int) ([]text.DecodedGlyphRun, error) {
	ops, err := e.reader.PageOperations(page)
	if err != nil {
		return nil, &PageError{Page: page, Err: err}
	}

	fonts, err := e.reader.PageFonts(page)
	if err != nil {
		return nil, &PageError{Page: page, Err: err}
	}

	runs, err := text.ExtractRuns(ops, fonts, e.options.text)
	if err != nil {
		return nil, &PageError{Page: page, Err: err}
	}
	return runs, nil
}

// resolvePages returns the selected pages, validated, deduplicated and
// sorted (1-indexed).
func (e *Extractor) resolvePages() ([]int, error) {
	pageCount, err := e.reader.PageCount()
	if err != nil {
		return nil, fmt.Errorf("failed to get page count: %w", err)
	}

	// If no pages specified, use all pages
	if len(e.options.pages) == 0 {
		pages := make([]int, pageCount)
		for i := range pages {
			pages[i] = i + 1
		}
		return pages, nil
	}

	seen := make(map[int]bool)
	var pages []int
	for _, p := range e.options.pages {
		if p < 1 || p > pageCount {
			return nil, fmt.Errorf("page %d out of range (1-%d)", p, pageCount)
		}
		if !seen[p] {
			seen[p] = true
			pages = append(pages, p)
		}
	}

	sort.Ints(pages)
	return pages, nil
}
