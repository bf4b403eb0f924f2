package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/apex-dev-tools/apex-parser/apex/parser"
	"github.com/rivo/uniseg"
)

const tabWidth = 4

// TextReporter writes syntax errors for people: a location line, the
// offending source line and a caret under the reported column.
type TextReporter struct {
	w     io.Writer
	lines []string
	// LineOffset is added to error lines before looking up source text,
	// for parses started with WithStartLine.
	LineOffset int
}

// NewTextReporter writes to w. src is the text the errors refer to; when
// it is nil only the location lines are written.
func NewTextReporter(w io.Writer, src []byte) *TextReporter {
	r := &TextReporter{w: w}
	if src != nil {
		text := strings.ReplaceAll(string(src), "\r\n", "\n")
		r.lines = strings.Split(text, "\n")
	}
	return r
}

func (r *TextReporter) Encode(err parser.SyntaxError) error {
	if _, e := fmt.Fprintf(r.w, "%s\n", err.Error()); e != nil {
		return e
	}

	index := err.Line - 1 - r.LineOffset
	if index < 0 || index >= len(r.lines) {
		return nil
	}
	line := r.lines[index]
	_, e := fmt.Fprintf(r.w, "  %s\n  %s^\n", expandTabs(line), strings.Repeat(" ", caretColumn(line, err.Column)))
	return e
}

// caretColumn converts a character column into a display column, so
// wide characters and tabs before the error keep the caret aligned.
func caretColumn(line string, column int) int {
	runes := []rune(line)
	if column > len(runes) {
		column = len(runes)
	}
	if column < 0 {
		column = 0
	}
	return uniseg.StringWidth(expandTabs(string(runes[:column])))
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}
