// Package core provides the PDF object types that appear as content stream
// operands.
//
// Container-level parsing (cross-reference tables, object streams, filters)
// is delegated to pdfcpu through the reader package; this package only models
// the values a content stream tokenizer can produce:
//
//   - [Null] - the PDF null object
//   - [Bool] - boolean values (true/false)
//   - [Int] - integers
//   - [Real] - real numbers
//   - [String] - literal or hexadecimal strings, holding raw bytes
//   - [Name] - names such as /F1
//   - [Array] - arrays, e.g. the operand of TJ
//   - [Dict] - dictionaries, e.g. marked-content properties
//
// [Number] and [Numbers] convert numeric operands to float64 and reject
// non-finite values, so positions derived from them are always ordered.
package core
