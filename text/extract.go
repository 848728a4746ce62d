package text

import (
	"fmt"

	"github.com/tsawler/textrun/contentstream"
	"github.com/tsawler/textrun/font"
)

// RunError reports a run that could not be decoded. Err is one of the font
// package error kinds.
type RunError struct {
	Run RawGlyphRun
	Err error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("run %s: %v", e.Run, e.Err)
}

func (e *RunError) Unwrap() error { return e.Err }

// ExtractRuns scans a page's operations and decodes every run, returning
// them in reading order. The first run that fails to decode aborts the page
// with a *RunError.
func ExtractRuns(ops []contentstream.Operation, table font.Table, opts Options) ([]DecodedGlyphRun, error) {
	raw := ScanRuns(ops)
	SortReadingOrder(raw)

	resolver := NewResolver(table, opts)
	runs := make([]DecodedGlyphRun, 0, len(raw))
	for _, r := range raw {
		d, err := resolver.Resolve(r)
		if err != nil {
			return nil, &RunError{Run: r, Err: err}
		}
		runs = append(runs, d)
	}

	return runs, nil
}

// ExtractStrings returns a page's text as clustered strings in reading
// order.
func ExtractStrings(ops []contentstream.Operation, table font.Table, opts Options) ([]string, error) {
	runs, err := ExtractRuns(ops, table, opts)
	if err != nil {
		return nil, err
	}
	return ClusterStrings(runs, opts), nil
}

// ExtractStringsFromBytes parses a decoded content stream and returns its
// clustered strings.
func ExtractStringsFromBytes(data []byte, table font.Table, opts Options) ([]string, error) {
	ops, err := contentstream.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse content stream: %w", err)
	}
	return ExtractStrings(ops, table, opts)
}
