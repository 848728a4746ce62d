// Package font describes the font resources a page's text is drawn with and
// decodes show-text bytes into Unicode.
//
// # Resources
//
// A [Resource] carries the parts of a PDF font dictionary that text
// extraction needs: the raw ToUnicode CMap program and the font descriptor
// metrics. Resources are looked up by the name used in the Tf operator
// through a [Table]; [MapTable] is the in-memory implementation.
//
// # Encodings
//
// [NewEncoding] picks one of two decoders for a resource:
//
//   - Direct: no ToUnicode map. Each byte is one Latin-1 character.
//   - Map-backed: the ToUnicode CMap is parsed with [ParseCMap]. Character
//     codes have a fixed width taken from the first codespace range, shorter
//     codes are left-padded with zero bytes, and the mapped UTF-16 code units
//     are decoded strictly.
//
//	enc, err := font.NewEncoding(res)
//	s, err := enc.Decode([]byte{0x00, 0x41})
//
// # Errors
//
// Failures are reported with [FontLookupError], [MapParseError],
// [UnmappedCharacterError] and [InvalidEncodingError]. All of them can be
// matched with errors.As.
package font
