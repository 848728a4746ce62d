package core

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Object is a content stream operand. String renders it in PDF syntax.
//
// The set of operand kinds is closed; only this package implements Object.
type Object interface {
	fmt.Stringer
	operand()
}

// Null is the PDF null object.
type Null struct{}

// Bool is a PDF boolean.
type Bool bool

// Int is a PDF integer.
type Int int64

// Real is a PDF real number. The tokenizer never produces non-finite
// values, but operands built by hand may carry them; see Number.
type Real float64

// String is a literal or hexadecimal string after escape decoding. It holds
// the raw bytes shown by a text operator and is usually not UTF-8.
type String string

// Name is a PDF name without its leading slash.
type Name string

// Array is a PDF array, such as the operand of TJ.
type Array []Object

// Dict is a PDF dictionary. In content streams these are marked-content
// properties and inline image parameters.
type Dict map[string]Object

func (Null) operand()   {}
func (Bool) operand()   {}
func (Int) operand()    {}
func (Real) operand()   {}
func (String) operand() {}
func (Name) operand()   {}
func (Array) operand()  {}
func (Dict) operand()   {}

func (Null) String() string   { return "null" }
func (b Bool) String() string { return strconv.FormatBool(bool(b)) }
func (i Int) String() string  { return strconv.FormatInt(int64(i), 10) }
func (r Real) String() string { return strconv.FormatFloat(float64(r), 'f', -1, 64) }
func (n Name) String() string { return "/" + string(n) }

// String renders the payload as a hex string, since it is rarely text.
func (s String) String() string { return fmt.Sprintf("<%X>", string(s)) }

// Bytes returns a copy of the raw payload.
func (s String) Bytes() []byte { return []byte(s) }

func (a Array) String() string {
	parts := make([]string, len(a))
	for i, obj := range a {
		parts[i] = obj.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// String renders the entries sorted by key.
func (d Dict) String() string {
	var b strings.Builder
	b.WriteString("<<")
	for i, k := range slices.Sorted(maps.Keys(d)) {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "/%s %s", k, d[k])
	}
	b.WriteString(">>")
	return b.String()
}

// Number returns the value of an Int or Real operand. Other objects and
// non-finite reals report false, so a position derived from an operand is
// always ordered.
func Number(obj Object) (float64, bool) {
	switch v := obj.(type) {
	case Int:
		return float64(v), true
	case Real:
		if f := float64(v); !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f, true
		}
	}
	return 0, false
}

// Numbers converts every operand to a number, failing if any is not numeric.
func Numbers(objs []Object) ([]float64, bool) {
	vals := make([]float64, len(objs))
	for i, obj := range objs {
		v, ok := Number(obj)
		if !ok {
			return nil, false
		}
		vals[i] = v
	}
	return vals, true
}
