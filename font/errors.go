package font

import "fmt"

// FontLookupError reports a font reference that is missing from the page's
// font table or whose resource could not be loaded.
type FontLookupError struct {
	Font string
	Err  error
}

func (e *FontLookupError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("font /%s: lookup failed", e.Font)
	}
	return fmt.Sprintf("font /%s: %v", e.Font, e.Err)
}

func (e *FontLookupError) Unwrap() error { return e.Err }

// MapParseError reports a ToUnicode CMap that could not be parsed or that
// does not fit the fixed-width codespace model.
type MapParseError struct {
	Font   string
	Reason string
	Err    error
}

func (e *MapParseError) Error() string {
	msg := "parse ToUnicode CMap"
	if e.Font != "" {
		msg = fmt.Sprintf("font /%s: %s", e.Font, msg)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MapParseError) Unwrap() error { return e.Err }

// UnmappedCharacterError reports a character code with no entry in the
// font's character map. Code is the zero-padded chunk that was looked up.
type UnmappedCharacterError struct {
	Font string
	Code []byte
}

func (e *UnmappedCharacterError) Error() string {
	return fmt.Sprintf("font /%s: no unicode mapping for character code <%X>", e.Font, e.Code)
}

// InvalidEncodingError reports a malformed UTF-16 sequence produced by a
// character map, such as an unpaired surrogate.
type InvalidEncodingError struct {
	Font   string
	Units  []uint16
	Offset int // index into Units of the offending code unit
	Reason string
}

func (e *InvalidEncodingError) Error() string {
	return fmt.Sprintf("font /%s: invalid UTF-16 at unit %d (%04X): %s",
		e.Font, e.Offset, e.Units[e.Offset], e.Reason)
}
