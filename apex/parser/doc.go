// Package parser tokenizes and parses Apex source, including embedded
// SOQL queries and SOSL searches.
//
// # Overview
//
// A parse reads the whole input, tokenizes it once and builds a concrete
// syntax tree (CST) with a hand-written recursive-descent grammar. Keywords
// are matched case-insensitively while token text keeps its original case.
// Malformed input never stops the parse: defects are collected with their
// positions and a best-effort tree is returned alongside them.
//
// # Architecture
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Source    │────▶│   Lexer     │────▶│   Parser    │
//	│ (text+fold) │     │  (tokens)   │     │   (CST)     │
//	└─────────────┘     └─────────────┘     └─────────────┘
//	                           │                   │
//	                           ▼                   ▼
//	                    ┌─────────────┐     ┌─────────────┐
//	                    │   Error     │     │ Walk/Visit  │
//	                    │  Listeners  │     │             │
//	                    └─────────────┘     └─────────────┘
//
// # Entry Points
//
// The caller picks the production to parse; the grammar never guesses
// which kind of unit it was given.
//
//	// .cls files: one class, interface or enum.
//	func ParseCompilationUnit(r io.Reader, opts ...Option) *Parser
//
//	// .trigger files: trigger Name on SObject (before insert, ...) { ... }
//	func ParseTriggerUnit(r io.Reader, opts ...Option) *Parser
//
//	// Execute-anonymous scripts: statements and members with no
//	// enclosing type.
//	func ParseAnonymousUnit(r io.Reader, opts ...Option) *Parser
//
//	// Fragments.
//	func ParseExpression(r io.Reader, opts ...Option) *Parser
//	func ParseStatement(r io.Reader, opts ...Option) *Parser
//	func ParseQuery(r io.Reader, opts ...Option) *Parser        // SELECT ...
//	func ParseSoqlLiteral(r io.Reader, opts ...Option) *Parser  // [SELECT ...]
//	func ParseSoslLiteral(r io.Reader, opts ...Option) *Parser  // [FIND '...' ...]
//	func ParseSoslLiteralAlt(r io.Reader, opts ...Option) *Parser // [FIND {...} ...]
//
// The two SOSL forms are exclusive: each entry rejects the other's term
// delimiters with one syntax error. Parse is a shorthand taking a string
// and an Entry.
//
// # Tokens
//
// Comments and unrecognised characters are tokenized on the hidden
// channel. A few lexical ambiguities are settled in the lexer:
//
//   - USD100.50 is a currency literal, while USD100.name is an identifier
//     followed by a member access.
//   - 2024-01-31 and 2024-01-31T10:00:00Z are date literals, not
//     subtractions.
//   - >> and >>> are never single tokens. The parser joins adjacent >
//     tokens into shifts so that List<List<String>> closes two type
//     argument lists.
//
// # Error Recovery
//
// Every defect is reported as a SyntaxError with a 1-based line and a
// 0-based column. Recovery follows these rules:
//
//  1. A missing token is reported and assumed present.
//  2. One stray token before the expected one is reported and skipped.
//  3. A construct that cannot start is replaced by an error node and
//     tokens are skipped up to a statement or member boundary.
//
// Only the first defect of a run is reported; further ones are suppressed
// until a token is matched again. WithStopOnFirstError ends the parse at
// the first defect.
//
// # Traversal
//
// Walk calls Enter and Exit around every node, children in source order.
// KindListener routes those calls by node kind. Visitor computes a value
// per node, with handlers for chosen kinds and a fold over children for
// the rest:
//
//	v := &parser.Visitor[int]{Combine: func(a, b int) int { return a + b }}
//	v.Handle(parser.KindMethodDecl, func(v *parser.Visitor[int], n *parser.Node) int {
//	    return 1 + v.VisitChildren(n)
//	})
//	methods := v.Visit(tree)
//
// # Thread Safety
//
// A Parser is not safe for concurrent use. Separate parsers share no
// state and may run in parallel.
package parser
