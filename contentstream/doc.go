// Package contentstream tokenizes decoded PDF page content streams.
//
// A content stream is a flat postfix program: operands are pushed, then an
// operator consumes them. [Parse] turns the stream into a slice of
// [Operation] values in stream order:
//
//	ops, err := contentstream.Parse(data)
//	for _, op := range ops {
//	    fmt.Println(op.Operator, op.Operands)
//	}
//
// Operators are kept as their literal tags ("BT", "Tf", "TJ", "'", ...);
// interpreting them is left to consumers such as the text package, which
// ignores everything it does not recognise.
//
// The tokenizer understands numbers, literal and hex strings, names, arrays,
// dictionaries, booleans, null and comments. The binary payload of inline
// images (BI ... ID <data> EI) is skipped.
package contentstream
