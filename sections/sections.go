package sections

import (
	"errors"
	"fmt"
	"slices"

	"github.com/tsawler/textrun/logging"
)

var (
	// ErrNoTableOfContents is returned when no page contains the table of
	// contents marker.
	ErrNoTableOfContents = errors.New("table of contents not found")

	// ErrEntryNotFound is returned when the table of contents does not list
	// the requested entry, or lists it without a page label.
	ErrEntryNotFound = errors.New("entry not found in table of contents")

	// ErrLabelNotFound is returned when no page ends with the entry's page
	// label.
	ErrLabelNotFound = errors.New("no page carries the label")

	// ErrEmptyPage is returned when a page has too few strings to hold the
	// expected layout.
	ErrEmptyPage = errors.New("page has too few strings")
)

// Source supplies the clustered strings of a document's pages.
// *textrun.Extractor implements it.
type Source interface {
	PageCount() (int, error)
	PageStrings(page int) ([]string, error)
}

// Options describes where a section is listed and how its pages are laid
// out. Pages are lists of clustered strings in reading order.
type Options struct {
	// TOCMarker identifies the table of contents page.
	TOCMarker string

	// Entry is the table of contents line naming the section. The string
	// after it is the section's page label.
	Entry string

	// FirstSkip strings are dropped from the start of the section's first
	// page (headings and column titles).
	FirstSkip int

	// ContinuationSkip strings are dropped from the start of each
	// continuation page.
	ContinuationSkip int

	// TrailerSkip strings are dropped from the end of every page (footer
	// and page label).
	TrailerSkip int

	// A page continues the section while its string at MarkerIndex equals
	// ContinuationMarker.
	MarkerIndex        int
	ContinuationMarker string
}

// DefaultOptions returns the layout of an Index of Locations.
func DefaultOptions() Options {
	return Options{
		TOCMarker:          "Table of Contents",
		Entry:              "Index of Locations",
		FirstSkip:          5,
		ContinuationSkip:   4,
		TrailerSkip:        2,
		MarkerIndex:        2,
		ContinuationMarker: "Location",
	}
}

// Index is a section collected across pages.
type Index struct {
	Label     string   `json:"label" yaml:"label"` // page label printed in the table of contents
	TOCPage   int      `json:"toc_page" yaml:"toc_page"`
	FirstPage int      `json:"first_page" yaml:"first_page"`
	LastPage  int      `json:"last_page" yaml:"last_page"`
	Entries   []string `json:"entries" yaml:"entries"`
}

// FindTOCEntry finds the first page containing opts.TOCMarker and returns
// the string that follows opts.Entry on that page.
func FindTOCEntry(src Source, opts Options) (label string, tocPage int, err error) {
	count, err := src.PageCount()
	if err != nil {
		return "", 0, fmt.Errorf("failed to get page count: %w", err)
	}

	for page := 1; page <= count; page++ {
		strs, err := src.PageStrings(page)
		if err != nil {
			return "", 0, fmt.Errorf("page %d: %w", page, err)
		}
		if !slices.Contains(strs, opts.TOCMarker) {
			continue
		}

		i := slices.Index(strs, opts.Entry)
		if i < 0 || i+1 >= len(strs) {
			return "", page, fmt.Errorf("%w: %q on page %d", ErrEntryNotFound, opts.Entry, page)
		}

		logging.Logger().Debug("found table of contents entry", "page", page, "entry", opts.Entry, "label", strs[i+1])
		return strs[i+1], page, nil
	}

	return "", 0, ErrNoTableOfContents
}

// FindLabelledPage returns the first page, starting at from, whose last
// string equals label. Pages without strings are skipped.
func FindLabelledPage(src Source, label string, from int) (int, error) {
	count, err := src.PageCount()
	if err != nil {
		return 0, fmt.Errorf("failed to get page count: %w", err)
	}

	for page := max(from, 1); page <= count; page++ {
		strs, err := src.PageStrings(page)
		if err != nil {
			return 0, fmt.Errorf("page %d: %w", page, err)
		}
		if len(strs) > 0 && strs[len(strs)-1] == label {
			return page, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrLabelNotFound, label)
}

// CollectIndex locates the section named by opts.Entry through the table
// of contents and gathers its strings. The section starts on the page
// labelled as the table of contents says and continues over following
// pages while they carry the continuation marker.
func CollectIndex(src Source, opts Options) (*Index, error) {
	label, tocPage, err := FindTOCEntry(src, opts)
	if err != nil {
		return nil, err
	}

	first, err := FindLabelledPage(src, label, tocPage+1)
	if err != nil {
		return nil, err
	}

	strs, err := src.PageStrings(first)
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", first, err)
	}
	entries, ok := trim(strs, opts.FirstSkip, opts.TrailerSkip)
	if !ok {
		return nil, fmt.Errorf("page %d: %w (%d)", first, ErrEmptyPage, len(strs))
	}

	idx := &Index{Label: label, TOCPage: tocPage, FirstPage: first, LastPage: first, Entries: entries}

	count, err := src.PageCount()
	if err != nil {
		return nil, fmt.Errorf("failed to get page count: %w", err)
	}

	for page := first + 1; page <= count; page++ {
		strs, err := src.PageStrings(page)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		if len(strs) <= opts.MarkerIndex || strs[opts.MarkerIndex] != opts.ContinuationMarker {
			break
		}

		more, ok := trim(strs, opts.ContinuationSkip, opts.TrailerSkip)
		if !ok {
			return nil, fmt.Errorf("page %d: %w (%d)", page, ErrEmptyPage, len(strs))
		}
		idx.Entries = append(idx.Entries, more...)
		idx.LastPage = page
	}

	logging.Logger().Debug("collected index",
		"entry", opts.Entry, "first", idx.FirstPage, "last", idx.LastPage, "entries", len(idx.Entries))
	return idx, nil
}

// trim drops head strings from the front and tail from the back.
func trim(strs []string, head, tail int) ([]string, bool) {
	if head < 0 || tail < 0 || head+tail > len(strs) {
		return nil, false
	}
	return slices.Clone(strs[head : len(strs)-tail]), true
}
