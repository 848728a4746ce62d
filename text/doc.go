// Package text turns a page's content stream operations into positioned,
// decoded text and clusters it into reading-order strings.
//
// Extraction runs in three stages:
//
//  1. [Scanner] (built on the [Step] reducer) reduces BT ... ET text objects
//     to [RawGlyphRun] values: position, font, size and the still-encoded
//     show-text bytes.
//  2. [Resolver] decodes each run with its font's ToUnicode CMap, or one
//     byte per character when the font has none, producing a
//     [DecodedGlyphRun].
//  3. [Cluster] merges runs sorted by [SortReadingOrder] into words and
//     lines using an average-glyph-width advance estimate.
//
// [ExtractStrings] runs the whole pipeline for one page:
//
//	ops, err := contentstream.Parse(data)
//	strs, err := text.ExtractStrings(ops, fonts, text.DefaultOptions())
//
// A character that cannot be decoded fails the page with a [RunError]
// rather than being dropped.
package text
