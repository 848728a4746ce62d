package text

import (
	"github.com/tsawler/textrun/contentstream"
	"github.com/tsawler/textrun/core"
)

// ScanState is the pending run between a BT and an ET operator. The zero
// value is the state at the start of a page.
//
// Only translation is tracked: rotation and scaling in Tm are ignored.
type ScanState struct {
	x, y   float64
	hasPos bool

	// line origin that Td, TD and T* move relative to
	lineX, lineY float64
	leading      float64

	text    []byte
	hasText bool

	fontSize float64
	font     string
	hasFont  bool
}

// Step applies one operation to state. It returns the new state and, for an
// ET that closes a complete text object, the emitted run.
//
// Step never fails: operators it does not handle and operators with
// malformed operands leave the state unchanged.
func Step(state ScanState, op contentstream.Operation) (ScanState, *RawGlyphRun) {
	switch op.Operator {
	case "BT":
		state.hasPos = false
		state.text, state.hasText = nil, false
		state.lineX, state.lineY = 0, 0

	case "ET":
		// Every ET consumes the pending run, complete or not
		pending := state
		state.hasPos = false
		state.text, state.hasText = nil, false
		state.font, state.fontSize, state.hasFont = "", 0, false

		if !pending.hasPos || !pending.hasText || !pending.hasFont {
			return state, nil
		}
		return state, &RawGlyphRun{
			X:        pending.x,
			Y:        pending.y,
			Raw:      pending.text,
			FontSize: pending.fontSize,
			Font:     pending.font,
		}

	case "Tf":
		if len(op.Operands) != 2 {
			break
		}
		name, ok := op.Operands[0].(core.Name)
		if !ok {
			break
		}
		if size, ok := core.Number(op.Operands[1]); ok {
			state.font, state.fontSize, state.hasFont = string(name), size, true
		}

	case "Tm":
		if len(op.Operands) != 6 {
			break
		}
		if m, ok := core.Numbers(op.Operands); ok {
			state.moveTo(m[4], m[5])
		}

	case "Td", "TD":
		if len(op.Operands) != 2 {
			break
		}
		if t, ok := core.Numbers(op.Operands); ok {
			if op.Operator == "TD" {
				state.leading = -t[1]
			}
			state.moveTo(state.lineX+t[0], state.lineY+t[1])
		}

	case "TL":
		if len(op.Operands) != 1 {
			break
		}
		if leading, ok := core.Number(op.Operands[0]); ok {
			state.leading = leading
		}

	case "T*":
		state.nextLine()

	case "Tj":
		if len(op.Operands) != 1 {
			break
		}
		if s, ok := op.Operands[0].(core.String); ok {
			state.show(s.Bytes())
		}

	case "TJ":
		if len(op.Operands) != 1 {
			break
		}
		arr, ok := op.Operands[0].(core.Array)
		if !ok {
			break
		}
		for _, item := range arr {
			// Numbers only adjust spacing
			if s, ok := item.(core.String); ok {
				state.show(s.Bytes())
			}
		}

	case "'":
		if len(op.Operands) != 1 {
			break
		}
		if s, ok := op.Operands[0].(core.String); ok {
			state.nextLine()
			state.show(s.Bytes())
		}

	case "\"":
		if len(op.Operands) != 3 {
			break
		}
		if s, ok := op.Operands[2].(core.String); ok {
			state.nextLine()
			state.show(s.Bytes())
		}
	}

	return state, nil
}

func (s *ScanState) moveTo(x, y float64) {
	s.lineX, s.lineY = x, y
	s.x, s.y, s.hasPos = x, y, true
}

func (s *ScanState) nextLine() {
	s.moveTo(s.lineX, s.lineY-s.leading)
}

// show appends b to the pending text. The backing array is never shared
// with an earlier state.
func (s *ScanState) show(b []byte) {
	s.text = append(s.text[:len(s.text):len(s.text)], b...)
	s.hasText = true
}

// Scanner yields the runs of an operation sequence in stream order. It is
// finite and cannot be restarted.
type Scanner struct {
	ops   []contentstream.Operation
	pos   int
	state ScanState
}

// NewScanner creates a scanner over ops.
func NewScanner(ops []contentstream.Operation) *Scanner {
	return &Scanner{ops: ops}
}

// Next returns the next run. It returns false once the operations are
// exhausted; a text object left open at the end is dropped.
func (s *Scanner) Next() (RawGlyphRun, bool) {
	for s.pos < len(s.ops) {
		op := s.ops[s.pos]
		s.pos++

		var run *RawGlyphRun
		s.state, run = Step(s.state, op)
		if run != nil {
			return *run, true
		}
	}
	return RawGlyphRun{}, false
}

// ScanRuns collects every run in ops.
func ScanRuns(ops []contentstream.Operation) []RawGlyphRun {
	var runs []RawGlyphRun
	sc := NewScanner(ops)
	for {
		run, ok := sc.Next()
		if !ok {
			return runs
		}
		runs = append(runs, run)
	}
}
