package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/apex-dev-tools/apex-parser/apex/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorJSONEncoder(t *testing.T) {
	var buf bytes.Buffer
	enc := NewErrorJSONEncoder(&buf)

	require.NoError(t, enc.Encode(parser.SyntaxError{
		Column:  20,
		Line:    1,
		Message: "missing '}' at '<EOF>'",
		Path:    "classes/Hello.cls",
	}))
	require.NoError(t, enc.Encode(parser.SyntaxError{Line: 3, Message: "x"}))

	want := `{"column":20,"line":1,"message":"missing '}' at '<EOF>'","path":"classes/Hello.cls"}` + "\n" +
		`{"column":0,"line":3,"message":"x","path":""}` + "\n"
	assert.Equal(t, want, buf.String())
}

func TestErrorJSONEncoderFromParse(t *testing.T) {
	_, errs := parser.Parse(parser.EntryCompilationUnit, "public class Hello {")
	require.Len(t, errs, 1)

	var buf bytes.Buffer
	require.NoError(t, NewErrorJSONEncoder(&buf).Encode(errs[0]))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, float64(1), decoded["line"])
	assert.Equal(t, float64(20), decoded["column"])
	assert.Equal(t, "missing '}' at '<EOF>'", decoded["message"])
}

func TestTextReporter(t *testing.T) {
	src := "public class Hello {\n\tInteger x = 1 +;\n}"
	var buf bytes.Buffer
	r := NewTextReporter(&buf, []byte(src))

	require.NoError(t, r.Encode(parser.SyntaxError{Line: 2, Column: 16, Message: "bad", Path: "Hello.cls"}))

	want := "Hello.cls:2:16: bad\n" +
		"      Integer x = 1 +;\n" +
		"  " + strings.Repeat(" ", 19) + "^\n"
	assert.Equal(t, want, buf.String())
}

func TestTextReporterWideCharacters(t *testing.T) {
	src := "'日本' x"
	var buf bytes.Buffer
	require.NoError(t, NewTextReporter(&buf, []byte(src)).Encode(parser.SyntaxError{Line: 1, Column: 4, Message: "m"}))

	lines := strings.Split(buf.String(), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "  "+strings.Repeat(" ", 6)+"^", lines[2])
}

func TestTextReporterWithoutSource(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTextReporter(&buf, nil).Encode(parser.SyntaxError{Line: 7, Column: 1, Message: "m"}))
	assert.Equal(t, "7:1: m\n", buf.String())
}

func TestTextReporterLineOffset(t *testing.T) {
	var buf bytes.Buffer
	r := NewTextReporter(&buf, []byte("a b"))
	r.LineOffset = 9
	require.NoError(t, r.Encode(parser.SyntaxError{Line: 10, Column: 2, Message: "m"}))
	assert.Equal(t, "10:2: m\n  a b\n    ^\n", buf.String())
}

func TestASTJSONEncoder(t *testing.T) {
	node, errs := parser.Parse(parser.EntryExpression, "a + 1")
	require.Empty(t, errs)

	var buf bytes.Buffer
	require.NoError(t, NewASTJSONEncoder(&buf).WithoutPositions().Encode(node))

	var decoded struct {
		Kind     string `json:"kind"`
		Span     any    `json:"span"`
		Children []struct {
			Kind      string `json:"kind"`
			Token     string `json:"token"`
			TokenKind string `json:"tokenKind"`
		} `json:"children"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, "BinaryExpr", decoded.Kind)
	assert.Nil(t, decoded.Span)
	require.Len(t, decoded.Children, 3)
	assert.Equal(t, "Identifier", decoded.Children[0].Kind)
	assert.Equal(t, "Identifier", decoded.Children[0].TokenKind)
	assert.Equal(t, "+", decoded.Children[1].Token)
	assert.Equal(t, "1", decoded.Children[2].Token)
}

func TestASTJSONEncoderErrorNodes(t *testing.T) {
	node, _ := parser.Parse(parser.EntryStatement, "if (x == 3); else { ; }")

	text, err := (&ASTJSONEncoder{node: node, positions: true}).MarshalText()
	require.NoError(t, err)
	assert.Contains(t, string(text), `"got": ";"`)
	assert.Contains(t, string(text), `"line": 1`)
}

func TestTokenLineEncoder(t *testing.T) {
	toks := parser.NewLexer([]byte("a = 'x';"), "").All()

	var buf bytes.Buffer
	require.NoError(t, NewTokenLineEncoder(&buf).EncodeAll(toks))
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "1:0\tIdentifier\tdefault\t\"a\"", lines[0])
	assert.Equal(t, "1:4\tStringLiteral\tdefault\t\"'x'\"", lines[2])
	assert.Equal(t, "1:8\tEOF\tdefault\t\"<EOF>\"", lines[4])

	buf.Reset()
	require.NoError(t, NewTokenLineEncoder(&buf).WithHidden().EncodeAll(toks))
	assert.Equal(t, 7, strings.Count(buf.String(), "\n"))
	assert.Contains(t, buf.String(), "1:1\tWhitespace\thidden\t\" \"")
}
