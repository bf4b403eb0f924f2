package format

import (
	"encoding/json"
	"io"

	"github.com/apex-dev-tools/apex-parser/apex/parser"
)

// ASTJSONEncoder writes a tree as indented JSON.
type ASTJSONEncoder struct {
	w         io.Writer
	node      *parser.Node
	positions bool
}

func NewASTJSONEncoder(w io.Writer) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w, positions: true}
}

// WithoutPositions drops spans from the output.
func (e *ASTJSONEncoder) WithoutPositions() *ASTJSONEncoder {
	e.positions = false
	return e
}

func (e *ASTJSONEncoder) Encode(node *parser.Node) error {
	e.node = node
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *ASTJSONEncoder) MarshalText() ([]byte, error) {
	if e.node == nil {
		return []byte("null"), nil
	}
	return json.MarshalIndent(e.nodeToJSON(e.node), "", "  ")
}

type astJSONNode struct {
	Kind      string         `json:"kind"`
	Span      *astJSONSpan   `json:"span,omitempty"`
	Token     *string        `json:"token,omitempty"`
	TokenKind string         `json:"tokenKind,omitempty"`
	Value     string         `json:"value,omitempty"`
	Error     *astJSONError  `json:"error,omitempty"`
	Children  []*astJSONNode `json:"children,omitempty"`
}

type astJSONSpan struct {
	Start astJSONPosition `json:"start"`
	End   astJSONPosition `json:"end"`
}

type astJSONPosition struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

type astJSONError struct {
	Message  string   `json:"message"`
	Expected []string `json:"expected,omitempty"`
	Got      string   `json:"got,omitempty"`
}

func (e *ASTJSONEncoder) nodeToJSON(n *parser.Node) *astJSONNode {
	jn := &astJSONNode{Kind: n.Kind.String()}

	if e.positions && n.Span.Start.Line != 0 {
		jn.Span = &astJSONSpan{
			Start: toJSONPosition(n.Span.Start),
			End:   toJSONPosition(n.Span.End),
		}
	}

	if n.Token != nil {
		literal := n.Token.Literal
		jn.Token = &literal
		jn.TokenKind = n.Token.Kind.String()
		if n.Token.Value != "" && n.Token.Value != literal {
			jn.Value = n.Token.Value
		}
	}

	if n.Error != nil {
		jn.Error = &astJSONError{Message: n.Error.Message}
		for _, kind := range n.Error.Expected {
			jn.Error.Expected = append(jn.Error.Expected, kind.String())
		}
		if n.Error.Got != nil {
			jn.Error.Got = n.Error.Got.String()
		}
	}

	for _, child := range n.Children {
		jn.Children = append(jn.Children, e.nodeToJSON(child))
	}
	return jn
}

func toJSONPosition(p parser.Position) astJSONPosition {
	return astJSONPosition{Offset: p.Offset, Line: p.Line, Column: p.Column}
}
