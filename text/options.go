package text

import "github.com/tsawler/textrun/font"

const (
	// DefaultMaxAdvanceGap is the largest horizontal distance between the
	// expected end of one run and the start of the next for them to merge.
	DefaultMaxAdvanceGap = 22.0

	// DefaultMaxBaselineDrift is the largest vertical distance between two
	// runs that still counts as the same baseline.
	DefaultMaxBaselineDrift = 0.05
)

// Options tunes decoding and clustering.
//
// Every field must be positive. A field that is zero or negative takes its
// default, so the zero Options behaves like DefaultOptions; zero never
// means "no merging". The tolerances are strict upper bounds, so a tiny
// positive value such as math.SmallestNonzeroFloat64 merges only runs that
// continue exactly where the previous one is expected to end.
type Options struct {
	MaxAdvanceGap    float64
	MaxBaselineDrift float64

	// FallbackAvgWidth is used for fonts whose descriptor declares no
	// average glyph width.
	FallbackAvgWidth float64
}

// DefaultOptions returns the tolerances tuned for single-column documents.
func DefaultOptions() Options {
	return Options{
		MaxAdvanceGap:    DefaultMaxAdvanceGap,
		MaxBaselineDrift: DefaultMaxBaselineDrift,
		FallbackAvgWidth: font.DefaultAvgWidth,
	}
}

// withDefaults fills zero or negative fields from DefaultOptions.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MaxAdvanceGap <= 0 {
		o.MaxAdvanceGap = d.MaxAdvanceGap
	}
	if o.MaxBaselineDrift <= 0 {
		o.MaxBaselineDrift = d.MaxBaselineDrift
	}
	if o.FallbackAvgWidth <= 0 {
		o.FallbackAvgWidth = d.FallbackAvgWidth
	}
	return o
}
