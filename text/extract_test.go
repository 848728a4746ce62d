package text

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/textrun/contentstream"
	"github.com/tsawler/textrun/core"
	"github.com/tsawler/textrun/font"
)

func textObject(fontName string, x, y float64, s string) []contentstream.Operation {
	return []contentstream.Operation{
		op("BT"),
		op("Tf", core.Name(fontName), core.Int(10)),
		tm(x, y),
		op("Tj", core.String(s)),
		op("ET"),
	}
}

func pageOps(objects ...[]contentstream.Operation) []contentstream.Operation {
	var ops []contentstream.Operation
	for _, o := range objects {
		ops = append(ops, o...)
	}
	return ops
}

func TestExtractStrings(t *testing.T) {
	ops := pageOps(
		textObject("F1", 72, 100, "Footer"),
		textObject("F2", 100, 200, "\x00\x41\x00\x42"),
		textObject("F2", 102, 200, "\x00\x41"),
		textObject("F1", 72, 700, "Title"),
		textObject("F1", 300, 700, "Page 1"),
	)

	strs, err := ExtractStrings(ops, testFonts(), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"Title", "Page 1", "ABA", "Footer"}, strs)
}

func TestExtractStringsFromBytes(t *testing.T) {
	content := []byte(`BT /F1 10 Tf 1 0 0 1 100 200 Tm (LOC) Tj ET
BT /F1 10 Tf 1 0 0 1 115.6 200 Tm [(AT) -50 (ION)] TJ ET
BT /F1 10 Tf 1 0 0 1 100 180 Tm (next line) Tj ET`)

	strs, err := ExtractStringsFromBytes(content, testFonts(), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"LOCATION", "next line"}, strs)

	_, err = ExtractStringsFromBytes([]byte("BT (unterminated Tj ET"), testFonts(), DefaultOptions())
	assert.Error(t, err)
}

func TestExtractAbortsPageOnUnmapped(t *testing.T) {
	ops := pageOps(
		textObject("F1", 72, 700, "fine"),
		textObject("F2", 100, 200, "\xff\xff"),
	)

	strs, err := ExtractStrings(ops, testFonts(), DefaultOptions())
	assert.Nil(t, strs)

	var re *RunError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "F2", re.Run.Font)
	assert.Equal(t, 100.0, re.Run.X)
	assert.Equal(t, []byte{0xFF, 0xFF}, re.Run.Raw)

	var uce *font.UnmappedCharacterError
	assert.True(t, errors.As(err, &uce))
	assert.Contains(t, err.Error(), "/F2")
}

func TestExtractMissingFont(t *testing.T) {
	_, err := ExtractRuns(textObject("F9", 1, 1, "x"), testFonts(), DefaultOptions())

	var fle *font.FontLookupError
	require.ErrorAs(t, err, &fle)
	assert.Equal(t, "F9", fle.Font)
}

func TestExtractDeterministic(t *testing.T) {
	var objects [][]contentstream.Operation
	for i := 0; i < 40; i++ {
		fontName := "F1"
		if i%3 == 0 {
			fontName = "F2"
		}
		s := fmt.Sprintf("w%d", i)
		if fontName == "F2" {
			s = "\x00\x41\x00\x42"
		}
		objects = append(objects, textObject(fontName, float64((i*37)%400), float64(700-(i%7)*12), s))
	}
	ops := pageOps(objects...)

	first, err := ExtractStrings(ops, testFonts(), DefaultOptions())
	require.NoError(t, err)
	require.NotEmpty(t, first)

	for i := 0; i < 10; i++ {
		again, err := ExtractStrings(ops, testFonts(), DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestExtractReadingOrder(t *testing.T) {
	ops := pageOps(
		textObject("F1", 400, 300, "d"),
		textObject("F1", 10, 500, "a"),
		textObject("F1", 10, 300, "c"),
		textObject("F1", 300, 500, "b"),
		textObject("F1", 10, 100, "e"),
	)

	runs, err := ExtractRuns(ops, testFonts(), DefaultOptions())
	require.NoError(t, err)
	require.Len(t, runs, 5)

	for i := 1; i < len(runs); i++ {
		prev, cur := runs[i-1], runs[i]
		above := prev.Y > cur.Y
		leftOnLine := prev.Y == cur.Y && prev.X < cur.X
		assert.True(t, above || leftOnLine, "run %d (%s) out of order after %s", i, cur.Text, prev.Text)
	}

	strs, err := ExtractStrings(ops, testFonts(), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, strs)
}

func TestExtractEmptyPage(t *testing.T) {
	strs, err := ExtractStrings(nil, testFonts(), DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, strs)
}
