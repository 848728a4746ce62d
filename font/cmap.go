package font

import (
	"bytes"
	"fmt"
	"math/big"
)

// maxRangeSize bounds the expansion of a single bfrange entry.
const maxRangeSize = 1 << 16

// CodespaceRange is one entry of a begincodespacerange section. Low and High
// always have the same length.
type CodespaceRange struct {
	Low  []byte
	High []byte
}

// Width returns the number of bytes in a character code of this range.
func (r CodespaceRange) Width() int {
	return len(r.Low)
}

// CMap is a parsed ToUnicode character map: source code bytes to UTF-16
// code units.
type CMap struct {
	Name      string
	Codespace []CodespaceRange

	// mappings is keyed by the source code bytes exactly as declared
	mappings map[string][]uint16
}

// Lookup returns the UTF-16 code units for a source code as declared in the
// map (no padding is applied).
func (cm *CMap) Lookup(code []byte) ([]uint16, bool) {
	units, ok := cm.mappings[string(code)]
	return units, ok
}

// Len returns the number of mapped source codes.
func (cm *CMap) Len() int {
	return len(cm.mappings)
}

// ParseCMap parses a ToUnicode CMap program. It reads the CMap name, the
// codespace ranges and every bfchar and bfrange section. Other sections
// (cidchar, cidrange, notdefrange) are skipped.
//
// A program without a codespace declaration is rejected.
func ParseCMap(data []byte) (*CMap, error) {
	p := &cmapParser{lex: newCMapLexer(data)}
	cm := &CMap{mappings: make(map[string][]uint16)}

	if err := p.parse(cm); err != nil {
		return nil, &MapParseError{Err: err}
	}

	if len(cm.Codespace) == 0 {
		return nil, &MapParseError{Reason: "no codespace range declared"}
	}

	return cm, nil
}

type cmapParser struct {
	lex *cmapLexer
}

func (p *cmapParser) parse(cm *CMap) error {
	var prev cmapToken

	for {
		tok, err := p.lex.next()
		if err != nil {
			return err
		}
		if tok.kind == tokEOF {
			return nil
		}

		if tok.kind == tokName && prev.kind == tokName && prev.text == "CMapName" {
			cm.Name = tok.text
		}

		if tok.kind == tokKeyword {
			switch tok.text {
			case "begincodespacerange":
				err = p.parseCodespace(cm)
			case "beginbfchar":
				err = p.parseBfChar(cm)
			case "beginbfrange":
				err = p.parseBfRange(cm)
			case "begincidchar", "begincidrange", "beginnotdefrange":
				err = p.skipTo("end" + tok.text[len("begin"):])
			}
			if err != nil {
				return err
			}
		}

		prev = tok
	}
}

// parseCodespace reads <low> <high> pairs up to endcodespacerange.
func (p *cmapParser) parseCodespace(cm *CMap) error {
	for {
		low, done, err := p.hexOrEnd("endcodespacerange")
		if err != nil || done {
			return err
		}
		high, err := p.hex("codespace high bound")
		if err != nil {
			return err
		}
		if len(low) == 0 || len(low) != len(high) {
			return fmt.Errorf("codespace range <%X> <%X> has mismatched widths", low, high)
		}
		cm.Codespace = append(cm.Codespace, CodespaceRange{Low: low, High: high})
	}
}

// parseBfChar reads <src> <dst> pairs up to endbfchar.
func (p *cmapParser) parseBfChar(cm *CMap) error {
	for {
		src, done, err := p.hexOrEnd("endbfchar")
		if err != nil || done {
			return err
		}
		dst, err := p.hex("bfchar destination")
		if err != nil {
			return err
		}
		units, err := unitsFromBytes(dst)
		if err != nil {
			return err
		}
		cm.mappings[string(src)] = units
	}
}

// parseBfRange reads <lo> <hi> <dst> and <lo> <hi> [<d1> <d2> ...] entries
// up to endbfrange.
func (p *cmapParser) parseBfRange(cm *CMap) error {
	for {
		lo, done, err := p.hexOrEnd("endbfrange")
		if err != nil || done {
			return err
		}
		hi, err := p.hex("bfrange high bound")
		if err != nil {
			return err
		}
		if len(lo) != len(hi) {
			return fmt.Errorf("bfrange <%X> <%X> has mismatched widths", lo, hi)
		}

		start := new(big.Int).SetBytes(lo)
		end := new(big.Int).SetBytes(hi)
		if end.Cmp(start) < 0 {
			return fmt.Errorf("bfrange <%X> <%X> is inverted", lo, hi)
		}
		span := new(big.Int).Sub(end, start)
		if span.Cmp(big.NewInt(maxRangeSize)) >= 0 {
			return fmt.Errorf("bfrange <%X> <%X> exceeds %d codes", lo, hi, maxRangeSize)
		}
		count := span.Int64() + 1

		tok, err := p.lex.next()
		if err != nil {
			return err
		}

		switch tok.kind {
		case tokHex:
			base, err := unitsFromBytes(tok.data)
			if err != nil {
				return err
			}
			for i := int64(0); i < count; i++ {
				units := append([]uint16(nil), base...)
				units[len(units)-1] += uint16(i)
				cm.mappings[string(codeAt(start, i, len(lo)))] = units
			}

		case tokArrayStart:
			for i := int64(0); ; i++ {
				el, err := p.lex.next()
				if err != nil {
					return err
				}
				if el.kind == tokArrayEnd {
					break
				}
				if el.kind != tokHex {
					return fmt.Errorf("bfrange array: expected hex string, got %s", el)
				}
				if i >= count {
					continue
				}
				units, err := unitsFromBytes(el.data)
				if err != nil {
					return err
				}
				cm.mappings[string(codeAt(start, i, len(lo)))] = units
			}

		default:
			return fmt.Errorf("bfrange destination: expected hex string or array, got %s", tok)
		}
	}
}

// hexOrEnd reads either a hex string or the section's end keyword.
func (p *cmapParser) hexOrEnd(end string) ([]byte, bool, error) {
	tok, err := p.lex.next()
	if err != nil {
		return nil, false, err
	}
	switch {
	case tok.kind == tokKeyword && tok.text == end:
		return nil, true, nil
	case tok.kind == tokHex:
		return tok.data, false, nil
	case tok.kind == tokEOF:
		return nil, false, fmt.Errorf("missing %s", end)
	default:
		return nil, false, fmt.Errorf("expected hex string or %s, got %s", end, tok)
	}
}

func (p *cmapParser) hex(what string) ([]byte, error) {
	tok, err := p.lex.next()
	if err != nil {
		return nil, err
	}
	if tok.kind != tokHex {
		return nil, fmt.Errorf("%s: expected hex string, got %s", what, tok)
	}
	return tok.data, nil
}

func (p *cmapParser) skipTo(end string) error {
	for {
		tok, err := p.lex.next()
		if err != nil {
			return err
		}
		if tok.kind == tokEOF {
			return fmt.Errorf("missing %s", end)
		}
		if tok.kind == tokKeyword && tok.text == end {
			return nil
		}
	}
}

// codeAt returns start+offset encoded big-endian in width bytes.
func codeAt(start *big.Int, offset int64, width int) []byte {
	v := new(big.Int).Add(start, big.NewInt(offset))
	return v.FillBytes(make([]byte, width))
}

// unitsFromBytes interprets a destination string as big-endian UTF-16 code
// units. A single byte is taken as one unit.
func unitsFromBytes(b []byte) ([]uint16, error) {
	switch {
	case len(b) == 0:
		return nil, fmt.Errorf("empty destination string")
	case len(b) == 1:
		return []uint16{uint16(b[0])}, nil
	case len(b)%2 != 0:
		return nil, fmt.Errorf("destination <%X> has odd length", b)
	}

	units := make([]uint16, len(b)/2)
	for i := range units {
		units[i] = 256*uint16(b[2*i]) + uint16(b[2*i+1])
	}
	return units, nil
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokHex
	tokName
	tokNumber
	tokKeyword
	tokString
	tokArrayStart
	tokArrayEnd
	tokDictStart
	tokDictEnd
)

type cmapToken struct {
	kind tokenKind
	text string
	data []byte
}

func (t cmapToken) String() string {
	switch t.kind {
	case tokEOF:
		return "end of data"
	case tokHex:
		return fmt.Sprintf("<%X>", t.data)
	case tokName:
		return "/" + t.text
	default:
		return fmt.Sprintf("%q", t.text)
	}
}

// cmapLexer splits a CMap program (a PostScript subset) into tokens.
type cmapLexer struct {
	data []byte
	pos  int
}

func newCMapLexer(data []byte) *cmapLexer {
	return &cmapLexer{data: data}
}

func (l *cmapLexer) next() (cmapToken, error) {
	l.skipWhitespaceAndComments()
	if l.pos >= len(l.data) {
		return cmapToken{kind: tokEOF}, nil
	}

	c := l.data[l.pos]
	switch {
	case c == '<' && l.peek(1) == '<':
		l.pos += 2
		return cmapToken{kind: tokDictStart, text: "<<"}, nil
	case c == '>' && l.peek(1) == '>':
		l.pos += 2
		return cmapToken{kind: tokDictEnd, text: ">>"}, nil
	case c == '<':
		return l.readHex()
	case c == '[':
		l.pos++
		return cmapToken{kind: tokArrayStart, text: "["}, nil
	case c == ']':
		l.pos++
		return cmapToken{kind: tokArrayEnd, text: "]"}, nil
	case c == '(':
		return l.readString()
	case c == '/':
		l.pos++
		return cmapToken{kind: tokName, text: l.readRegular()}, nil
	case c == '{' || c == '}':
		// Procedure braces carry no mapping data
		l.pos++
		return cmapToken{kind: tokKeyword, text: string(c)}, nil
	case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
		return cmapToken{kind: tokNumber, text: l.readRegular()}, nil
	case isCMapDelimiter(c):
		return cmapToken{}, fmt.Errorf("unexpected %q at offset %d", c, l.pos)
	default:
		return cmapToken{kind: tokKeyword, text: l.readRegular()}, nil
	}
}

func (l *cmapLexer) peek(n int) byte {
	if l.pos+n < len(l.data) {
		return l.data[l.pos+n]
	}
	return 0
}

func (l *cmapLexer) readRegular() string {
	start := l.pos
	for l.pos < len(l.data) && !isCMapWhitespace(l.data[l.pos]) && !isCMapDelimiter(l.data[l.pos]) {
		l.pos++
	}
	return string(l.data[start:l.pos])
}

func (l *cmapLexer) readHex() (cmapToken, error) {
	start := l.pos
	l.pos++ // skip '<'

	var digits []byte
	for {
		if l.pos >= len(l.data) {
			return cmapToken{}, fmt.Errorf("unterminated hex string at offset %d", start)
		}
		c := l.data[l.pos]
		l.pos++
		if c == '>' {
			break
		}
		if isCMapWhitespace(c) {
			continue
		}
		if !isHex(c) {
			return cmapToken{}, fmt.Errorf("invalid hex digit %q at offset %d", c, l.pos-1)
		}
		digits = append(digits, c)
	}

	if len(digits)%2 != 0 {
		digits = append(digits, '0')
	}

	out := make([]byte, len(digits)/2)
	for i := range out {
		out[i] = hexNibble(digits[2*i])<<4 | hexNibble(digits[2*i+1])
	}
	return cmapToken{kind: tokHex, data: out}, nil
}

func (l *cmapLexer) readString() (cmapToken, error) {
	start := l.pos
	l.pos++ // skip '('

	var buf bytes.Buffer
	depth := 1
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		l.pos++
		switch c {
		case '\\':
			if l.pos < len(l.data) {
				buf.WriteByte(l.data[l.pos])
				l.pos++
			}
			continue
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return cmapToken{kind: tokString, text: buf.String()}, nil
			}
		}
		buf.WriteByte(c)
	}
	return cmapToken{}, fmt.Errorf("unterminated string at offset %d", start)
}

func (l *cmapLexer) skipWhitespaceAndComments() {
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		switch {
		case isCMapWhitespace(c):
			l.pos++
		case c == '%':
			for l.pos < len(l.data) && l.data[l.pos] != '\n' && l.data[l.pos] != '\r' {
				l.pos++
			}
		default:
			return
		}
	}
}

func isCMapWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0
}

func isCMapDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexNibble(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
