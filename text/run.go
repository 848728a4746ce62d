package text

import "fmt"

// RawGlyphRun is the output of one text object: the show-text bytes drawn
// between BT and ET, with the position, font and size in effect.
type RawGlyphRun struct {
	X, Y     float64 // text-space origin, always finite
	Raw      []byte  // show-text payload, still encoded
	FontSize float64
	Font     string // font resource name, without the slash
}

func (r RawGlyphRun) String() string {
	return fmt.Sprintf("/%s %g at (%g, %g) <%X>", r.Font, r.FontSize, r.X, r.Y, r.Raw)
}

// DecodedGlyphRun is a RawGlyphRun whose bytes have been decoded.
type DecodedGlyphRun struct {
	RawGlyphRun

	Text string

	// AvgWidth is the font's average glyph width in glyph-space units
	// (1000 units per em).
	AvgWidth float64
}

// advance estimates the horizontal distance covered by the run's text.
func (r DecodedGlyphRun) advance() float64 {
	return float64(len([]rune(r.Text))) * r.FontSize * r.AvgWidth / 1000.0
}

// merge returns r extended with next's text. Position, font, size and width
// are r's.
func (r DecodedGlyphRun) merge(next DecodedGlyphRun) DecodedGlyphRun {
	out := r
	out.Text = r.Text + next.Text
	out.Raw = append(append(make([]byte, 0, len(r.Raw)+len(next.Raw)), r.Raw...), next.Raw...)
	return out
}
