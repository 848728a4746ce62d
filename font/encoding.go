package font

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf16"

	"golang.org/x/text/encoding/charmap"

	"github.com/tsawler/textrun/logging"
)

// Encoding decodes the raw bytes of a show-text operand into Unicode.
//
// A direct encoding takes each byte as one Latin-1 character. A map-backed
// encoding splits the bytes into fixed-width codes and looks each one up in
// the font's ToUnicode CMap.
type Encoding struct {
	font  string
	cmap  *CMap
	width int

	// table is keyed by codes of exactly width bytes
	table map[string][]uint16
}

// DirectEncoding returns the one-byte-per-character encoding used for fonts
// without a ToUnicode CMap.
func DirectEncoding(font string) *Encoding {
	return &Encoding{font: font, width: 1}
}

// NewEncoding builds the encoding for a font resource: map-backed when the
// font carries a ToUnicode CMap, direct otherwise.
func NewEncoding(res *Resource) (*Encoding, error) {
	if !res.HasToUnicode() {
		return DirectEncoding(res.Name), nil
	}

	cm, err := ParseCMap(res.ToUnicode)
	if err != nil {
		var mpe *MapParseError
		if errors.As(err, &mpe) {
			mpe.Font = res.Name
		}
		return nil, err
	}

	return NewCMapEncoding(res.Name, cm)
}

// NewCMapEncoding builds a map-backed encoding from a parsed CMap.
//
// The code width is the byte length of the first codespace range's bounds.
// Mapped codes shorter than the code width are left-padded with zero bytes;
// codes longer than the code width do not fit the fixed-width model and are
// rejected.
func NewCMapEncoding(font string, cm *CMap) (*Encoding, error) {
	if cm == nil || len(cm.Codespace) == 0 {
		return nil, &MapParseError{Font: font, Reason: "no codespace range declared"}
	}

	width := cm.Codespace[0].Width()
	for _, r := range cm.Codespace[1:] {
		if r.Width() != width {
			logging.Logger().Warn("CMap declares codespace ranges of mixed widths; using the first",
				"font", font, "cmap", cm.Name, "width", width, "other", r.Width())
			break
		}
	}

	table := make(map[string][]uint16, len(cm.mappings))
	declared := make(map[string]int, len(cm.mappings))
	for src, units := range cm.mappings {
		if len(src) > width {
			return nil, &MapParseError{
				Font:   font,
				Reason: fmt.Sprintf("source code <%X> is wider than the %d-byte codespace", src, width),
			}
		}

		key := string(padCode([]byte(src), width))

		// An exact-width declaration beats a shorter one padded onto the same code
		if n, ok := declared[key]; ok && n >= len(src) {
			continue
		}
		table[key] = units
		declared[key] = len(src)
	}

	return &Encoding{font: font, cmap: cm, width: width, table: table}, nil
}

// IsDirect reports whether the encoding has no character map.
func (e *Encoding) IsDirect() bool {
	return e.cmap == nil
}

// CodeWidth returns the number of bytes per character code.
func (e *Encoding) CodeWidth() int {
	return e.width
}

// CMap returns the parsed character map, or nil for a direct encoding.
func (e *Encoding) CMap() *CMap {
	return e.cmap
}

// Decode converts raw show-text bytes to a string.
//
// With a character map, a code that has no mapping fails the whole string
// with *UnmappedCharacterError, and a malformed UTF-16 result fails with
// *InvalidEncodingError.
func (e *Encoding) Decode(raw []byte) (string, error) {
	if e.IsDirect() {
		logging.Logger().Debug("decoding without ToUnicode map", "font", e.font, "bytes", len(raw))
		out, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
		if err != nil {
			return "", fmt.Errorf("font /%s: latin-1 decode: %w", e.font, err)
		}
		return string(out), nil
	}

	units := make([]uint16, 0, len(raw)/e.width+1)
	for start := 0; start < len(raw); start += e.width {
		end := min(start+e.width, len(raw))
		code := padCode(raw[start:end], e.width)

		mapped, ok := e.table[string(code)]
		if !ok {
			return "", &UnmappedCharacterError{Font: e.font, Code: code}
		}
		units = append(units, mapped...)
	}

	return decodeUTF16(e.font, units)
}

// padCode left-pads code with zero bytes to width. The input is never
// modified.
func padCode(code []byte, width int) []byte {
	if len(code) >= width {
		return append([]byte(nil), code...)
	}
	out := make([]byte, width)
	copy(out[width-len(code):], code)
	return out
}

// decodeUTF16 decodes units strictly: an unpaired surrogate is an error
// rather than a replacement character.
func decodeUTF16(font string, units []uint16) (string, error) {
	runes := make([]rune, 0, len(units))

	for i := 0; i < len(units); i++ {
		u := rune(units[i])
		switch {
		case utf16.IsSurrogate(u) && u < 0xDC00:
			if i+1 >= len(units) {
				return "", &InvalidEncodingError{Font: font, Units: units, Offset: i, Reason: "high surrogate at end of sequence"}
			}
			r := utf16.DecodeRune(u, rune(units[i+1]))
			if r == unicode.ReplacementChar {
				return "", &InvalidEncodingError{Font: font, Units: units, Offset: i, Reason: "high surrogate not followed by low surrogate"}
			}
			runes = append(runes, r)
			i++
		case utf16.IsSurrogate(u):
			return "", &InvalidEncodingError{Font: font, Units: units, Offset: i, Reason: "unpaired low surrogate"}
		default:
			runes = append(runes, u)
		}
	}

	return string(runes), nil
}
