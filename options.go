package textrun

import "github.com/tsawler/textrun/text"

// ExtractOptions holds configuration for extraction.
type ExtractOptions struct {
	// Page selection (1-indexed); nil means all pages
	pages []int

	// Decoding and clustering tolerances
	text text.Options
}

// defaultOptions returns the default extraction options.
func defaultOptions() ExtractOptions {
	return ExtractOptions{
		pages: nil,
		text:  text.DefaultOptions(),
	}
}

// clone creates a deep copy of ExtractOptions.
func (o ExtractOptions) clone() ExtractOptions {
	newOpts := ExtractOptions{text: o.text}

	if o.pages != nil {
		newOpts.pages = make([]int, len(o.pages))
		copy(newOpts.pages, o.pages)
	}

	return newOpts
}
