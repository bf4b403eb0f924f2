package format

import (
	"encoding"

	"github.com/apex-dev-tools/apex-parser/apex/parser"
)

// TreeEncoder writes a concrete syntax tree.
type TreeEncoder interface {
	encoding.TextMarshaler
	Encode(node *parser.Node) error
}

// ErrorEncoder writes syntax errors, one call per defect.
type ErrorEncoder interface {
	Encode(err parser.SyntaxError) error
}

var (
	_ TreeEncoder  = (*ASTJSONEncoder)(nil)
	_ ErrorEncoder = (*ErrorJSONEncoder)(nil)
	_ ErrorEncoder = (*TextReporter)(nil)
)
