package text

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/textrun/font"
)

const twoByteCMap = `/CIDInit /ProcSet findresource begin
12 dict begin
begincmap
/CMapName /Custom-UCS def
1 begincodespacerange
<0000> <FFFF>
endcodespacerange
2 beginbfchar
<0041> <0041>
<0042> <0042>
endbfchar
endcmap
end
end
`

func testFonts() font.MapTable {
	return font.MapTable{
		"F1": {Name: "F1", BaseFont: "Helvetica", Subtype: "Type1"},
		"F2": {
			Name:       "F2",
			BaseFont:   "ABCDEF+Custom",
			Subtype:    "Type0",
			ToUnicode:  []byte(twoByteCMap),
			Descriptor: &font.Descriptor{FontName: "ABCDEF+Custom", AvgWidth: 500, HasAvgWidth: true},
		},
		"F3": {Name: "F3", ToUnicode: []byte("not a cmap")},
	}
}

func TestResolveRoundTrip(t *testing.T) {
	r := NewResolver(testFonts(), DefaultOptions())

	d, err := r.Resolve(RawGlyphRun{X: 1, Y: 2, Raw: []byte{0x00, 0x41}, FontSize: 10, Font: "F2"})
	require.NoError(t, err)
	assert.Equal(t, "A", d.Text)
	assert.Equal(t, 500.0, d.AvgWidth)
	assert.Equal(t, 1.0, d.X)
}

func TestResolveFallback(t *testing.T) {
	r := NewResolver(testFonts(), DefaultOptions())

	d, err := r.Resolve(RawGlyphRun{Raw: []byte{0x48, 0x49}, FontSize: 12, Font: "F1"})
	require.NoError(t, err)
	assert.Equal(t, "HI", d.Text)
	assert.Equal(t, font.DefaultAvgWidth, d.AvgWidth)
}

func TestResolveFallbackWidthOption(t *testing.T) {
	opts := DefaultOptions()
	opts.FallbackAvgWidth = 600

	d, err := NewResolver(testFonts(), opts).Resolve(RawGlyphRun{Raw: []byte("x"), Font: "F1"})
	require.NoError(t, err)
	assert.Equal(t, 600.0, d.AvgWidth)
}

func TestResolveErrors(t *testing.T) {
	r := NewResolver(testFonts(), DefaultOptions())

	_, err := r.Resolve(RawGlyphRun{Raw: []byte{0xFF, 0xFF}, Font: "F2"})
	var uce *font.UnmappedCharacterError
	require.ErrorAs(t, err, &uce)
	assert.Equal(t, []byte{0xFF, 0xFF}, uce.Code)

	_, err = r.Resolve(RawGlyphRun{Raw: []byte("x"), Font: "F9"})
	var fle *font.FontLookupError
	require.ErrorAs(t, err, &fle)
	assert.Equal(t, "F9", fle.Font)
	assert.ErrorIs(t, err, font.ErrFontNotFound)

	_, err = r.Resolve(RawGlyphRun{Raw: []byte("x"), Font: "F3"})
	var mpe *font.MapParseError
	require.ErrorAs(t, err, &mpe)
	assert.Equal(t, "F3", mpe.Font)
}

type countingTable struct {
	font.MapTable
	calls map[string]int
	fail  error
}

func (t *countingTable) Font(name string) (*font.Resource, error) {
	t.calls[name]++
	if t.fail != nil {
		return nil, t.fail
	}
	return t.MapTable.Font(name)
}

func TestResolveCachesFonts(t *testing.T) {
	table := &countingTable{MapTable: testFonts(), calls: map[string]int{}}
	r := NewResolver(table, DefaultOptions())

	for i := 0; i < 3; i++ {
		_, err := r.Resolve(RawGlyphRun{Raw: []byte{0x00, 0x42}, Font: "F2"})
		require.NoError(t, err)
	}
	assert.Equal(t, 1, table.calls["F2"])
}

func TestResolveLoadFailure(t *testing.T) {
	cause := errors.New("stream is corrupt")
	table := &countingTable{MapTable: testFonts(), calls: map[string]int{}, fail: cause}

	_, err := NewResolver(table, DefaultOptions()).Resolve(RawGlyphRun{Raw: []byte("x"), Font: "F1"})
	var fle *font.FontLookupError
	require.ErrorAs(t, err, &fle)
	assert.ErrorIs(t, err, cause)
}

func TestResolveNamesUnnamedResources(t *testing.T) {
	table := font.MapTable{"F7": {ToUnicode: []byte(twoByteCMap)}}

	_, err := NewResolver(table, DefaultOptions()).Resolve(RawGlyphRun{Raw: []byte{0x00, 0x43}, Font: "F7"})
	var uce *font.UnmappedCharacterError
	require.ErrorAs(t, err, &uce)
	assert.Equal(t, "F7", uce.Font)
}
