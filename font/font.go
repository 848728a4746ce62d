package font

import "errors"

// DefaultAvgWidth is the average glyph width assumed for fonts whose
// descriptor does not declare /AvgWidth. It is expressed in the same glyph
// space units as a descriptor value.
const DefaultAvgWidth = 0.521

// ErrFontNotFound is returned by a Table when a font reference is absent.
var ErrFontNotFound = errors.New("font not found in page resources")

// Descriptor holds the font descriptor fields relevant to text extraction.
type Descriptor struct {
	FontName     string
	Flags        int
	AvgWidth     float64
	MaxWidth     float64
	MissingWidth float64

	// HasAvgWidth reports whether /AvgWidth was present in the descriptor.
	// A declared width of 0 is still a declared width.
	HasAvgWidth bool
}

// Resource is the subset of a PDF font dictionary needed to decode text.
type Resource struct {
	Name     string // resource name used by Tf, without the slash
	BaseFont string
	Subtype  string

	// ToUnicode is the decoded ToUnicode CMap program, or nil when the
	// font has none.
	ToUnicode []byte

	// Descriptor is nil when the font (and, for Type0 fonts, its
	// descendant) has no /FontDescriptor.
	Descriptor *Descriptor
}

// HasToUnicode reports whether the font carries a custom character map.
func (r *Resource) HasToUnicode() bool {
	return r != nil && r.ToUnicode != nil
}

// AvgWidth returns the descriptor's declared average glyph width, or
// fallback when none is declared.
func (r *Resource) AvgWidth(fallback float64) float64 {
	if r == nil || r.Descriptor == nil || !r.Descriptor.HasAvgWidth {
		return fallback
	}
	return r.Descriptor.AvgWidth
}

// Table maps font resource names to fonts for one page.
// Implementations may load fonts lazily; a font that cannot be loaded
// reports an error.
type Table interface {
	Font(name string) (*Resource, error)
}

// MapTable is an in-memory Table.
type MapTable map[string]*Resource

// Font implements Table.
func (t MapTable) Font(name string) (*Resource, error) {
	r, ok := t[name]
	if !ok || r == nil {
		return nil, ErrFontNotFound
	}
	return r, nil
}
