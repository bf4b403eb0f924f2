package parser

import (
	"fmt"
	"io"
	"strings"
)

type Option func(*Parser)

func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

func WithStartLine(line int) Option {
	return func(p *Parser) {
		p.startLine = line
	}
}

// WithComments keeps hidden comment tokens, available from Comments.
func WithComments() Option {
	return func(p *Parser) {
		p.includeComments = true
	}
}

// WithErrorListener attaches a listener for lexical and syntactic errors.
// It may be given more than once.
func WithErrorListener(l ErrorListener) Option {
	return func(p *Parser) {
		p.listeners = append(p.listeners, l)
	}
}

// WithStopOnFirstError makes the parser give up after the first defect.
// The returned tree is truncated at that point.
func WithStopOnFirstError() Option {
	return func(p *Parser) {
		p.stopOnFirst = true
	}
}

// Entry selects the grammar production a parse starts from.
type Entry int

const (
	EntryCompilationUnit Entry = iota
	EntryTriggerUnit
	EntryAnonymousUnit
	EntryExpression
	EntryStatement
	EntryQuery
	EntrySoqlLiteral
	EntrySoslLiteral
	EntrySoslLiteralAlt
	EntryLiteral
)

var entryNames = map[Entry]string{
	EntryCompilationUnit: "compilationUnit",
	EntryTriggerUnit:     "triggerUnit",
	EntryAnonymousUnit:   "anonymousUnit",
	EntryExpression:      "expression",
	EntryStatement:       "statement",
	EntryQuery:           "query",
	EntrySoqlLiteral:     "soqlLiteral",
	EntrySoslLiteral:     "soslLiteral",
	EntrySoslLiteralAlt:  "soslLiteralAlt",
	EntryLiteral:         "literal",
}

func (e Entry) String() string {
	if name, ok := entryNames[e]; ok {
		return name
	}
	return "Unknown"
}

// LookupEntry returns the entry whose name matches, ignoring case.
func LookupEntry(name string) (Entry, bool) {
	for entry, entryName := range entryNames {
		if strings.EqualFold(entryName, name) {
			return entry, true
		}
	}
	return 0, false
}

type parseFunc func(*Parser) *Node

var entryFuncs = map[Entry]parseFunc{
	EntryCompilationUnit: (*Parser).parseCompilationUnit,
	EntryTriggerUnit:     (*Parser).parseTriggerUnit,
	EntryAnonymousUnit:   (*Parser).parseAnonymousUnit,
	EntryExpression:      (*Parser).parseExpression,
	EntryStatement:       (*Parser).parseStatement,
	EntryQuery:           (*Parser).parseQuery,
	EntrySoqlLiteral:     (*Parser).parseSoqlLiteral,
	EntrySoslLiteral:     (*Parser).parseSoslLiteral,
	EntrySoslLiteralAlt:  (*Parser).parseSoslLiteralAlt,
	EntryLiteral:         (*Parser).parseLiteral,
}

// Parser is a single-use recursive descent parser. A Parser must not be
// used from more than one goroutine; independent parses share nothing.
type Parser struct {
	file            string
	startLine       int
	includeComments bool
	stopOnFirst     bool
	listeners       listeners
	reader          io.Reader
	input           []byte
	src             *Source
	lexer           *Lexer
	tokens          []Token
	comments        []Token
	errors          []SyntaxError
	pos             int
	entry           parseFunc

	// recovering suppresses reports until the next token is matched, so a
	// single defect does not cascade into a burst of follow-on errors.
	recovering  bool
	speculating int
	halted      bool
	queryDepth  int
}

// New returns a parser that reads r and starts at entry when finished.
func New(entry Entry, r io.Reader, opts ...Option) *Parser {
	fn, ok := entryFuncs[entry]
	if !ok {
		fn = (*Parser).parseCompilationUnit
	}
	p := &Parser{
		startLine: 1,
		reader:    r,
		entry:     fn,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func ParseCompilationUnit(r io.Reader, opts ...Option) *Parser {
	return New(EntryCompilationUnit, r, opts...)
}

func ParseTriggerUnit(r io.Reader, opts ...Option) *Parser {
	return New(EntryTriggerUnit, r, opts...)
}

func ParseAnonymousUnit(r io.Reader, opts ...Option) *Parser {
	return New(EntryAnonymousUnit, r, opts...)
}

func ParseExpression(r io.Reader, opts ...Option) *Parser {
	return New(EntryExpression, r, opts...)
}

func ParseStatement(r io.Reader, opts ...Option) *Parser {
	return New(EntryStatement, r, opts...)
}

func ParseQuery(r io.Reader, opts ...Option) *Parser {
	return New(EntryQuery, r, opts...)
}

func ParseSoqlLiteral(r io.Reader, opts ...Option) *Parser {
	return New(EntrySoqlLiteral, r, opts...)
}

// ParseSoslLiteral parses [FIND 'term' ...]. The brace-delimited term
// form is a syntax error here.
func ParseSoslLiteral(r io.Reader, opts ...Option) *Parser {
	return New(EntrySoslLiteral, r, opts...)
}

// ParseSoslLiteralAlt parses [FIND {term} ...]. The quoted term form is a
// syntax error here.
func ParseSoslLiteralAlt(r io.Reader, opts ...Option) *Parser {
	return New(EntrySoslLiteralAlt, r, opts...)
}

func ParseLiteral(r io.Reader, opts ...Option) *Parser {
	return New(EntryLiteral, r, opts...)
}

// Parse runs entry over src and returns the tree with every defect found.
func Parse(entry Entry, src string, opts ...Option) (*Node, []SyntaxError) {
	p := New(entry, strings.NewReader(src), opts...)
	node := p.Finish()
	return node, p.Errors()
}

func (p *Parser) readAll() error {
	if p.input != nil {
		return nil
	}
	data, err := io.ReadAll(p.reader)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}
	p.input = data
	return nil
}

// Finish reads the whole input and parses it. It returns nil only when the
// input cannot be read; malformed text still yields a tree, with defects
// available from Errors.
func (p *Parser) Finish() *Node {
	if err := p.readAll(); err != nil {
		return nil
	}
	p.src = NewSource(p.input)
	p.lexer = newLexer(p.src, p.file)
	p.lexer.line = p.startLine
	p.lexer.AddErrorListener(ErrorListenerFunc(p.record))
	p.tokens = nil
	p.comments = nil
	p.errors = nil
	p.pos = 0
	p.recovering = false
	p.speculating = 0
	p.halted = false
	p.queryDepth = 0
	p.tokenize()
	return p.entry(p)
}

func (p *Parser) Reset(r io.Reader) {
	p.reader = r
	p.input = nil
	p.src = nil
	p.lexer = nil
	p.tokens = nil
	p.comments = nil
	p.errors = nil
	p.pos = 0
}

// Errors returns the defects found by the last Finish, in source order of
// detection.
func (p *Parser) Errors() []SyntaxError {
	return p.errors
}

// Tokens returns the default-channel tokens of the last Finish, ending
// with EOF.
func (p *Parser) Tokens() []Token {
	return p.tokens
}

func (p *Parser) Comments() []Token {
	return p.comments
}

// Source returns the bytes the last Finish parsed.
func (p *Parser) Source() []byte {
	return p.input
}

func (p *Parser) tokenize() {
	for {
		tok := p.lexer.NextToken()
		if tok.Channel == HiddenChannel {
			if p.includeComments && (tok.Kind == TokenComment || tok.Kind == TokenLineComment) {
				p.comments = append(p.comments, tok)
			}
			continue
		}
		p.tokens = append(p.tokens, tok)
		if tok.Kind == TokenEOF {
			break
		}
	}
}

func (p *Parser) record(line, column int, msg string) {
	if p.halted {
		return
	}
	p.errors = append(p.errors, SyntaxError{Line: line, Column: column, Message: msg})
	p.listeners.report(line, column, msg)
	if p.stopOnFirst {
		p.halted = true
	}
}

// report records a syntax error at tok unless one is already being
// recovered from or the parser is only looking ahead.
func (p *Parser) report(tok Token, msg string) {
	if p.speculating > 0 || p.recovering {
		return
	}
	p.recovering = true
	p.record(tok.Span.Start.Line, tok.Span.Start.Column, msg)
}

func (p *Parser) eofToken() Token {
	if n := len(p.tokens); n > 0 {
		return p.tokens[n-1]
	}
	return Token{Kind: TokenEOF}
}

func (p *Parser) peek() Token {
	if p.halted || p.pos >= len(p.tokens) {
		return p.eofToken()
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekN(n int) Token {
	if p.halted || p.pos+n >= len(p.tokens) {
		return p.eofToken()
	}
	return p.tokens[p.pos+n]
}

// advance consumes the current token as a successful match.
func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) && tok.Kind != TokenEOF {
		p.pos++
	}
	p.recovering = false
	return tok
}

// skip discards the current token during error recovery.
func (p *Parser) skip() {
	if p.pos < len(p.tokens) && p.peek().Kind != TokenEOF {
		p.pos++
	}
}

func (p *Parser) expect(kind TokenKind) *Token {
	tok := p.peek()
	if tok.Kind == kind {
		p.advance()
		return &tok
	}
	if tok.Kind != TokenEOF && p.peekN(1).Kind == kind {
		p.report(tok, fmt.Sprintf("extraneous input %s expecting %s", quoteToken(tok), quoteKind(kind)))
		p.skip()
		next := p.advance()
		return &next
	}
	p.report(tok, fmt.Sprintf("missing %s at %s", quoteKind(kind), quoteToken(tok)))
	return nil
}

// expectIdentifier consumes an identifier or a contextual keyword.
func (p *Parser) expectIdentifier() *Node {
	if p.isIdentifierLike() {
		return p.terminal(KindIdentifier)
	}
	tok := p.peek()
	p.report(tok, fmt.Sprintf("mismatched input %s expecting Identifier", quoteToken(tok)))
	return nil
}

// expectAnyIdentifier accepts any word, reserved or not, as in member
// names after a dot (Database.insert, Trigger.new).
func (p *Parser) expectAnyIdentifier() *Node {
	if p.isAnyIdentifier() {
		return p.terminal(KindIdentifier)
	}
	tok := p.peek()
	p.report(tok, fmt.Sprintf("mismatched input %s expecting Identifier", quoteToken(tok)))
	return nil
}

func (p *Parser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) match(kinds ...TokenKind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			return true
		}
	}
	return false
}

// mustProgress returns a function that checks if the parser has advanced.
// Call it at the start of a loop iteration, then call the returned function
// at the end to break if no progress was made.
func (p *Parser) mustProgress() func() bool {
	saved := p.pos
	return func() bool {
		if p.pos == saved {
			p.skip()
			return false
		}
		return true
	}
}

func (p *Parser) isIdentifierLike() bool {
	return isIdentifierKind(p.peek())
}

func (p *Parser) isAnyIdentifier() bool {
	tok := p.peek()
	return isIdentifierKind(tok) || tok.Kind.IsKeyword()
}

func isIdentifierKind(tok Token) bool {
	switch {
	case tok.Kind == TokenIdent, tok.Kind.IsContextual():
		return true
	case tok.Kind == TokenCurrencyLiteral:
		// A variable named like USD1 lexes as currency.
		return !strings.Contains(tok.Literal, ".")
	}
	return false
}

// terminal consumes the current token into a leaf node of the given kind.
func (p *Parser) terminal(kind NodeKind) *Node {
	tok := p.advance()
	return &Node{Kind: kind, Token: &tok, Span: tok.Span}
}

func (p *Parser) startNode(kind NodeKind) *Node {
	return &Node{
		Kind: kind,
		Span: Span{Start: p.peek().Span.Start, End: p.peek().Span.Start},
	}
}

func (p *Parser) finishNode(n *Node) *Node {
	if p.pos > 0 && p.pos <= len(p.tokens) {
		end := p.tokens[p.pos-1].Span.End
		if end.Offset >= n.Span.Start.Offset {
			n.Span.End = end
		}
	}
	return n
}

// errorNode reports msg at the current token and builds an error node. The
// offending token is consumed unless it closes an enclosing construct,
// then tokens are skipped up to one of recoverTo.
func (p *Parser) errorNode(msg string, recoverTo ...TokenKind) *Node {
	tok := p.peek()
	p.report(tok, msg)
	node := &Node{
		Kind: KindError,
		Span: Span{Start: tok.Span.Start, End: tok.Span.Start},
		Error: &Error{
			Message:  msg,
			Expected: recoverTo,
			Got:      &tok,
		},
	}
	if !isCloser(tok.Kind) {
		p.skip()
		node.Span.End = tok.Span.End
	}
	p.recoverTo(recoverTo)
	return node
}

func (p *Parser) recoverTo(kinds []TokenKind) {
	if len(kinds) == 0 {
		return
	}
	for !p.check(TokenEOF) {
		if p.match(kinds...) || isCloser(p.peek().Kind) {
			return
		}
		p.skip()
	}
}

func isCloser(kind TokenKind) bool {
	switch kind {
	case TokenRParen, TokenRBrace, TokenRBracket, TokenSemicolon, TokenEOF:
		return true
	}
	return false
}

func noViableAlt(tok Token) string {
	return fmt.Sprintf("no viable alternative at input %s", quoteToken(tok))
}

func mismatched(tok Token, expecting string) string {
	return fmt.Sprintf("mismatched input %s expecting %s", quoteToken(tok), expecting)
}

// mark starts a speculative lookahead. Reports are suppressed until the
// returned function restores the position.
func (p *Parser) mark() func() {
	savedPos := p.pos
	savedRecovering := p.recovering
	p.speculating++
	return func() {
		p.pos = savedPos
		p.recovering = savedRecovering
		p.speculating--
	}
}

// adjacent reports whether the tokens at offsets i and i+1 touch.
func (p *Parser) adjacent(i int) bool {
	a, b := p.peekN(i), p.peekN(i+1)
	return a.Span.End.Offset == b.Span.Start.Offset
}
