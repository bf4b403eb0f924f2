package parser

import (
	"fmt"
	"strings"
	"sync"
)

// SyntaxError is a single lexical or syntactic defect. Line is 1-based and
// Column is 0-based. Path is left empty by the parser and filled in by
// callers that know which file the text came from.
type SyntaxError struct {
	Column  int    `json:"column"`
	Line    int    `json:"line"`
	Message string `json:"message"`
	Path    string `json:"path"`
}

func (e SyntaxError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// ErrorListener receives defects as they are found. Listeners are attached
// per parse; with none attached defects are only recorded on the Parser.
type ErrorListener interface {
	SyntaxError(line, column int, msg string)
}

type ErrorListenerFunc func(line, column int, msg string)

func (f ErrorListenerFunc) SyntaxError(line, column int, msg string) {
	f(line, column, msg)
}

// ErrorCollector accumulates every reported defect. It is safe to share
// between concurrent parses.
type ErrorCollector struct {
	mu     sync.Mutex
	path   string
	errors []SyntaxError
}

// NewErrorCollector returns a collector stamping path on each record.
func NewErrorCollector(path string) *ErrorCollector {
	return &ErrorCollector{path: path}
}

func (c *ErrorCollector) SyntaxError(line, column int, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors = append(c.errors, SyntaxError{Line: line, Column: column, Message: msg, Path: c.path})
}

func (c *ErrorCollector) Errors() []SyntaxError {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]SyntaxError, len(c.errors))
	copy(out, c.errors)
	return out
}

func (c *ErrorCollector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.errors)
}

type listeners []ErrorListener

func (ls listeners) report(line, column int, msg string) {
	for _, l := range ls {
		l.SyntaxError(line, column, msg)
	}
}

func quoteToken(tok Token) string {
	return "'" + tok.String() + "'"
}

func quoteKind(kind TokenKind) string {
	if kind == TokenEOF {
		return "<EOF>"
	}
	if kind.IsKeyword() {
		return "'" + strings.ToLower(kind.String()) + "'"
	}
	switch kind {
	case TokenIdent, TokenIntegerLiteral, TokenLongLiteral, TokenNumberLiteral, TokenStringLiteral:
		return kind.String()
	}
	return "'" + kind.String() + "'"
}
