package font

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const identityHeader = `/CIDInit /ProcSet findresource begin
12 dict begin
begincmap
/CIDSystemInfo << /Registry (Adobe) /Ordering (UCS) /Supplement 0 >> def
/CMapName /Adobe-Identity-UCS def
/CMapType 2 def
`

const identityTrailer = `endcmap
CMapName currentdict /CMap defineresource pop
end
end
`

func cmapProgram(body string) []byte {
	return []byte(identityHeader + body + identityTrailer)
}

func TestParseCMapBfChar(t *testing.T) {
	cm, err := ParseCMap(cmapProgram(`1 begincodespacerange
<0000> <FFFF>
endcodespacerange
4 beginbfchar
<0003> <0020>
<0004> <0041>
<0005> <0042>
<0006> <D835DC9C>
endbfchar
`))
	require.NoError(t, err)

	assert.Equal(t, "Adobe-Identity-UCS", cm.Name)
	require.Len(t, cm.Codespace, 1)
	assert.Equal(t, 2, cm.Codespace[0].Width())
	assert.Equal(t, 4, cm.Len())

	units, ok := cm.Lookup([]byte{0x00, 0x04})
	require.True(t, ok)
	assert.Equal(t, []uint16{0x0041}, units)

	units, ok = cm.Lookup([]byte{0x00, 0x06})
	require.True(t, ok)
	assert.Equal(t, []uint16{0xD835, 0xDC9C}, units)

	_, ok = cm.Lookup([]byte{0x00, 0x07})
	assert.False(t, ok)
}

func TestParseCMapBfRange(t *testing.T) {
	cm, err := ParseCMap(cmapProgram(`1 begincodespacerange
<0000> <FFFF>
endcodespacerange
3 beginbfrange
<0020> <0022> <0041>
<00FE> <0101> <00E0>
<0030> <0032> [<0078> <0066006C> <0079>]
endbfrange
`))
	require.NoError(t, err)

	tests := []struct {
		code []byte
		want []uint16
	}{
		{[]byte{0x00, 0x20}, []uint16{0x41}},
		{[]byte{0x00, 0x22}, []uint16{0x43}},
		{[]byte{0x00, 0xFE}, []uint16{0xE0}},
		{[]byte{0x01, 0x00}, []uint16{0xE2}},
		{[]byte{0x01, 0x01}, []uint16{0xE3}},
		{[]byte{0x00, 0x30}, []uint16{0x78}},
		{[]byte{0x00, 0x31}, []uint16{0x66, 0x6C}},
		{[]byte{0x00, 0x32}, []uint16{0x79}},
	}

	for _, tt := range tests {
		units, ok := cm.Lookup(tt.code)
		require.True(t, ok, "code %X", tt.code)
		assert.Equal(t, tt.want, units, "code %X", tt.code)
	}
	assert.Equal(t, 10, cm.Len())
}

func TestParseCMapSkipsCIDSections(t *testing.T) {
	cm, err := ParseCMap(cmapProgram(`1 begincodespacerange
<00> <FF>
endcodespacerange
1 begincidrange
<00> <FF> 0
endcidrange
1 beginnotdefrange
<00> <1F> 1
endnotdefrange
1 beginbfchar
<41> <0041>
endbfchar
`))
	require.NoError(t, err)
	assert.Equal(t, 1, cm.Len())
	assert.Equal(t, 1, cm.Codespace[0].Width())
}

func TestParseCMapMultipleSections(t *testing.T) {
	cm, err := ParseCMap(cmapProgram(`2 begincodespacerange
<00> <80>
<8140> <FFFF>
endcodespacerange
1 beginbfchar
<41> <0041>
endbfchar
1 beginbfchar
<42> <0042>
endbfchar
`))
	require.NoError(t, err)
	require.Len(t, cm.Codespace, 2)
	assert.Equal(t, 1, cm.Codespace[0].Width())
	assert.Equal(t, 2, cm.Codespace[1].Width())
	assert.Equal(t, 2, cm.Len())
}

func TestParseCMapErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no codespace", "1 beginbfchar\n<0041> <0041>\nendbfchar\n"},
		{"mismatched codespace", "1 begincodespacerange\n<00> <FFFF>\nendcodespacerange\n"},
		{"unterminated codespace", "1 begincodespacerange\n<0000> <FFFF>\n"},
		{"bad hex", "1 begincodespacerange\n<00G0> <FFFF>\nendcodespacerange\n"},
		{"odd destination", "1 begincodespacerange\n<0000> <FFFF>\nendcodespacerange\n1 beginbfchar\n<0041> <004142>\nendbfchar\n"},
		{"inverted range", "1 begincodespacerange\n<0000> <FFFF>\nendcodespacerange\n1 beginbfrange\n<0050> <0040> <0041>\nendbfrange\n"},
		{"range too large", "1 begincodespacerange\n<0000> <FFFF>\nendcodespacerange\n1 beginbfrange\n<000000> <010000> <0041>\nendbfrange\n"},
		{"range span overflows int64", "1 begincodespacerange\n<0000> <FFFF>\nendcodespacerange\n1 beginbfrange\n<00000000000000000000> <00010000000000000000> <0041>\nendbfrange\n"},
		{"bad range destination", "1 begincodespacerange\n<0000> <FFFF>\nendcodespacerange\n1 beginbfrange\n<0040> <0041> 65\nendbfrange\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCMap(cmapProgram(tt.body))
			require.Error(t, err)

			var mpe *MapParseError
			assert.True(t, errors.As(err, &mpe))
		})
	}
}

func TestParseCMapEmpty(t *testing.T) {
	_, err := ParseCMap(nil)
	var mpe *MapParseError
	require.ErrorAs(t, err, &mpe)
	assert.Contains(t, err.Error(), "no codespace")
}

func TestUnitsFromBytes(t *testing.T) {
	units, err := unitsFromBytes([]byte{0x41})
	require.NoError(t, err)
	assert.Equal(t, []uint16{0x41}, units)

	units, err = unitsFromBytes([]byte{0x01, 0x02, 0xAB, 0xCD})
	require.NoError(t, err)
	assert.Equal(t, []uint16{0x0102, 0xABCD}, units)

	_, err = unitsFromBytes(nil)
	assert.Error(t, err)
}
