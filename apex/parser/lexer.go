package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexer turns Apex source into tokens. Whitespace and comments are
// produced on the hidden channel; everything else on the default one.
// Malformed input is reported to the attached listeners and lexing
// continues with a best-effort token.
type Lexer struct {
	src       *Source
	file      string
	pos       int
	line      int
	column    int
	listeners listeners
}

func NewLexer(input []byte, file string) *Lexer {
	return newLexer(NewSource(input), file)
}

func newLexer(src *Source, file string) *Lexer {
	return &Lexer{
		src:  src,
		file: file,
		line: 1,
	}
}

// AddErrorListener attaches a listener for lexical errors.
func (l *Lexer) AddErrorListener(el ErrorListener) {
	l.listeners = append(l.listeners, el)
}

func (l *Lexer) Position() Position {
	return Position{
		File:   l.file,
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

func (l *Lexer) peek() byte {
	return l.src.At(l.pos)
}

func (l *Lexer) peekN(n int) byte {
	return l.src.At(l.pos + n)
}

func (l *Lexer) advance() byte {
	if l.pos >= l.src.Len() {
		return 0
	}
	ch := l.src.At(l.pos)
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 0
	} else if ch&0xC0 != 0x80 {
		l.column++
	}
	return ch
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

func (l *Lexer) advanceTo(offset int) {
	for l.pos < offset && l.pos < l.src.Len() {
		l.advance()
	}
}

func (l *Lexer) errorAt(pos Position, msg string) {
	l.listeners.report(pos.Line, pos.Column, msg)
}

// All returns every remaining token, hidden ones included, ending with EOF.
func (l *Lexer) All() []Token {
	var toks []Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Kind == TokenEOF {
			return toks
		}
	}
}

func (l *Lexer) NextToken() Token {
	start := l.Position()
	if l.pos >= l.src.Len() {
		return Token{Kind: TokenEOF, Span: Span{Start: start, End: start}}
	}

	ch := l.peek()
	switch {
	case isWhitespace(ch):
		for isWhitespace(l.peek()) {
			l.advance()
		}
		return l.hiddenToken(TokenWhitespace, start)
	case ch == '/' && l.peekN(1) == '/':
		return l.scanLineComment(start)
	case ch == '/' && l.peekN(1) == '*':
		return l.scanBlockComment(start)
	case ch == '\'':
		return l.scanStringLiteral(start)
	case ch == '[':
		if tok, ok := l.scanFindLiteral(start); ok {
			return tok
		}
		l.advance()
		return l.token(TokenLBracket, start)
	case isDigit(ch):
		return l.scanNumber(start)
	case ch == '.' && isDigit(l.peekN(1)):
		return l.scanNumber(start)
	case isIdentStart(l.runeAt(l.pos)):
		return l.scanIdentOrKeyword(start)
	default:
		return l.scanOperator(start)
	}
}

func (l *Lexer) token(kind TokenKind, start Position) Token {
	return Token{
		Kind:    kind,
		Span:    Span{Start: start, End: l.Position()},
		Literal: l.src.Text(start.Offset, l.pos),
	}
}

func (l *Lexer) hiddenToken(kind TokenKind, start Position) Token {
	tok := l.token(kind, start)
	tok.Channel = HiddenChannel
	return tok
}

func (l *Lexer) scanLineComment(start Position) Token {
	for l.pos < l.src.Len() && l.peek() != '\n' && l.peek() != '\r' {
		l.advance()
	}
	return l.hiddenToken(TokenLineComment, start)
}

func (l *Lexer) scanBlockComment(start Position) Token {
	l.advanceN(2)
	for l.pos < l.src.Len() {
		if l.peek() == '*' && l.peekN(1) == '/' {
			l.advanceN(2)
			return l.hiddenToken(TokenComment, start)
		}
		l.advance()
	}
	l.errorAt(start, "token recognition error at: '/*' (unterminated comment)")
	return l.hiddenToken(TokenComment, start)
}

func (l *Lexer) runeAt(i int) rune {
	if i >= l.src.Len() {
		return utf8.RuneError
	}
	b := l.src.At(i)
	if b < utf8.RuneSelf {
		return rune(b)
	}
	r, _ := utf8.DecodeRune(l.src.Bytes()[i:])
	return r
}

func (l *Lexer) scanIdentOrKeyword(start Position) Token {
	for l.pos < l.src.Len() {
		r := l.runeAt(l.pos)
		if !isIdentPart(r) {
			break
		}
		l.advanceN(utf8.RuneLen(r))
	}
	upper := l.src.Folded(start.Offset, l.pos)

	if upper == "SYSTEM" && l.src.HasFoldedPrefix(l.pos, ".RUNAS") && !isIdentPart(l.runeAt(l.pos+6)) {
		l.advanceN(6)
		return l.token(TokenSystemRunAs, start)
	}
	if end, ok := l.currencyEnd(upper); ok {
		l.advanceTo(end)
		return l.token(TokenCurrencyLiteral, start)
	}
	return l.token(LookupKeyword(upper), start)
}

// currencyEnd reports whether the identifier just scanned is a currency
// literal such as USD100 or USD100.01 and where it ends. A trailing
// member access like USD100.name keeps it an identifier.
func (l *Lexer) currencyEnd(upper string) (int, bool) {
	if len(upper) < 4 || !isoCurrencyCodes[upper[:3]] {
		return 0, false
	}
	for i := 3; i < len(upper); i++ {
		if !isDigit(upper[i]) {
			return 0, false
		}
	}
	end := l.pos
	if l.src.At(end) == '.' {
		next := l.src.At(end + 1)
		switch {
		case isDigit(next):
			end++
			for isDigit(l.src.At(end)) {
				end++
			}
			if isIdentPart(l.runeAt(end)) {
				return 0, false
			}
		case isIdentStart(l.runeAt(end + 1)):
			return 0, false
		}
	}
	return end, true
}

func (l *Lexer) scanNumber(start Position) Token {
	if end, kind, ok := l.temporalEnd(); ok {
		l.advanceTo(end)
		return l.token(kind, start)
	}

	for isDigit(l.peek()) {
		l.advance()
	}
	if l.peek() == '.' && isDigit(l.peekN(1)) {
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
		if c := l.peek(); c == 'd' || c == 'D' {
			l.advance()
		}
		return l.token(TokenNumberLiteral, start)
	}
	if c := l.peek(); c == 'l' || c == 'L' {
		l.advance()
		return l.token(TokenLongLiteral, start)
	}
	return l.token(TokenIntegerLiteral, start)
}

// temporalEnd matches the date, datetime and time literal shapes
// (2020-01-31, 2020-01-31T10:00:00Z, 10:00:00.000Z) at the current offset.
func (l *Lexer) temporalEnd() (int, TokenKind, bool) {
	i := l.pos
	if n := l.matchDigits(i, 4); n == 4 && l.src.At(i+4) == '-' &&
		l.matchDigits(i+5, 2) == 2 && l.src.At(i+7) == '-' && l.matchDigits(i+8, 2) == 2 {
		end := i + 10
		if l.src.FoldedAt(end) == 'T' {
			if t, ok := l.timeEnd(end + 1); ok {
				return t, TokenDateTimeLiteral, true
			}
		}
		if isIdentPart(l.runeAt(end)) {
			return 0, 0, false
		}
		return end, TokenDateLiteral, true
	}
	if end, ok := l.timeEnd(i); ok {
		return end, TokenTimeLiteral, true
	}
	return 0, 0, false
}

// timeEnd matches HH:MM:SS, optional fraction, then Z or a +HH:MM offset.
func (l *Lexer) timeEnd(i int) (int, bool) {
	if l.matchDigits(i, 2) != 2 || l.src.At(i+2) != ':' ||
		l.matchDigits(i+3, 2) != 2 || l.src.At(i+5) != ':' || l.matchDigits(i+6, 2) != 2 {
		return 0, false
	}
	end := i + 8
	if l.src.At(end) == '.' && isDigit(l.src.At(end+1)) {
		end++
		for isDigit(l.src.At(end)) {
			end++
		}
	}
	switch c := l.src.FoldedAt(end); {
	case c == 'Z':
		end++
	case c == '+' || c == '-':
		if l.matchDigits(end+1, 2) != 2 || l.src.At(end+3) != ':' || l.matchDigits(end+4, 2) != 2 {
			return 0, false
		}
		end += 6
	default:
		return 0, false
	}
	if isIdentPart(l.runeAt(end)) {
		return 0, false
	}
	return end, true
}

func (l *Lexer) matchDigits(i, n int) int {
	count := 0
	for count < n && isDigit(l.src.At(i+count)) {
		count++
	}
	return count
}

func (l *Lexer) scanStringLiteral(start Position) Token {
	l.advance()
	var value strings.Builder
	for {
		ch := l.peek()
		switch {
		case l.pos >= l.src.Len() || ch == '\n' || ch == '\r':
			l.errorAt(start, "token recognition error at: "+quoteRaw(l.src.Text(start.Offset, l.pos))+" (unterminated string literal)")
			tok := l.token(TokenStringLiteral, start)
			tok.Value = value.String()
			return tok
		case ch == '\'':
			l.advance()
			tok := l.token(TokenStringLiteral, start)
			tok.Value = value.String()
			return tok
		case ch == '\\':
			l.scanEscape(&value)
		default:
			r := l.runeAt(l.pos)
			value.WriteRune(r)
			l.advanceN(max(utf8.RuneLen(r), 1))
		}
	}
}

// scanEscape consumes one backslash escape, writing the decoded character.
func (l *Lexer) scanEscape(value *strings.Builder) {
	escStart := l.Position()
	l.advance()
	ch := l.peek()
	switch ch {
	case 'b':
		value.WriteByte('\b')
	case 't':
		value.WriteByte('\t')
	case 'n':
		value.WriteByte('\n')
	case 'f':
		value.WriteByte('\f')
	case 'r':
		value.WriteByte('\r')
	case '"', '\'', '\\':
		value.WriteByte(ch)
	case 'u', 'U':
		l.advance()
		var code rune
		for i := 0; i < 4; i++ {
			h := l.peek()
			if !isHexDigit(h) {
				l.errorAt(escStart, "token recognition error at: "+quoteRaw(l.src.Text(escStart.Offset, l.pos))+" (invalid unicode escape)")
				return
			}
			code = code*16 + rune(hexValue(h))
			l.advance()
		}
		value.WriteRune(code)
		return
	default:
		if l.pos >= l.src.Len() || ch == '\n' || ch == '\r' {
			return
		}
		l.errorAt(escStart, "token recognition error at: "+quoteRaw("\\"+string(ch))+" (invalid escape sequence)")
		value.WriteByte(ch)
	}
	l.advance()
}

// scanFindLiteral matches the bracketed search-term prefix of a search
// literal: [FIND 'term' or [FIND {term}.
func (l *Lexer) scanFindLiteral(start Position) (Token, bool) {
	i := l.pos + 1
	for isWhitespace(l.src.At(i)) {
		i++
	}
	if !l.src.HasFoldedPrefix(i, "FIND") || isIdentPart(l.runeAt(i+4)) {
		return Token{}, false
	}
	i += 4
	for isWhitespace(l.src.At(i)) {
		i++
	}

	var kind TokenKind
	var closing byte
	switch l.src.At(i) {
	case '\'':
		kind, closing = TokenFindLiteral, '\''
	case '{':
		kind, closing = TokenFindLiteralAlt, '}'
	default:
		return Token{}, false
	}
	termStart := i + 1
	end := -1
	for j := termStart; j < l.src.Len(); j++ {
		c := l.src.At(j)
		if c == '\\' {
			j++
			continue
		}
		if closing == '\'' && (c == '\n' || c == '\r') {
			break
		}
		if c == closing {
			end = j
			break
		}
	}
	if end < 0 {
		return Token{}, false
	}

	l.advanceTo(termStart)
	var value strings.Builder
	for l.pos < end {
		if l.peek() == '\\' && kind == TokenFindLiteral {
			l.scanEscape(&value)
			continue
		}
		r := l.runeAt(l.pos)
		value.WriteRune(r)
		l.advanceN(max(utf8.RuneLen(r), 1))
	}
	l.advance()
	tok := l.token(kind, start)
	tok.Value = value.String()
	return tok, true
}

func (l *Lexer) scanOperator(start Position) Token {
	ch := l.peek()
	next := l.peekN(1)
	emit := func(kind TokenKind, n int) Token {
		l.advanceN(n)
		return l.token(kind, start)
	}

	switch ch {
	case '(':
		return emit(TokenLParen, 1)
	case ')':
		return emit(TokenRParen, 1)
	case '{':
		return emit(TokenLBrace, 1)
	case '}':
		return emit(TokenRBrace, 1)
	case ']':
		return emit(TokenRBracket, 1)
	case ';':
		return emit(TokenSemicolon, 1)
	case ',':
		return emit(TokenComma, 1)
	case '.':
		return emit(TokenDot, 1)
	case '@':
		return emit(TokenAt, 1)
	case '~':
		return emit(TokenTilde, 1)
	case ':':
		return emit(TokenColon, 1)
	case '?':
		if next == '?' {
			return emit(TokenCoalesce, 2)
		}
		if next == '.' && !isDigit(l.peekN(2)) {
			return emit(TokenQuestionDot, 2)
		}
		return emit(TokenQuestion, 1)
	case '=':
		if next == '=' {
			if l.peekN(2) == '=' {
				return emit(TokenTripleEQ, 3)
			}
			return emit(TokenEQ, 2)
		}
		if next == '>' {
			return emit(TokenMapsTo, 2)
		}
		return emit(TokenAssign, 1)
	case '!':
		if next == '=' {
			if l.peekN(2) == '=' {
				return emit(TokenTripleNE, 3)
			}
			return emit(TokenNE, 2)
		}
		return emit(TokenBang, 1)
	case '<':
		switch next {
		case '=':
			return emit(TokenLE, 2)
		case '>':
			return emit(TokenLtGt, 2)
		case '<':
			if l.peekN(2) == '=' {
				return emit(TokenShlAssign, 3)
			}
			return emit(TokenShl, 2)
		}
		return emit(TokenLT, 1)
	case '>':
		switch next {
		case '=':
			return emit(TokenGE, 2)
		case '>':
			// Shifts are assembled by the parser from adjacent '>'
			// tokens so that nested type arguments close cleanly.
			if l.peekN(2) == '>' && l.peekN(3) == '=' {
				return emit(TokenUShrAssign, 4)
			}
			if l.peekN(2) == '=' {
				return emit(TokenShrAssign, 3)
			}
		}
		return emit(TokenGT, 1)
	case '&':
		if next == '&' {
			return emit(TokenAnd, 2)
		}
		if next == '=' {
			return emit(TokenAmpAssign, 2)
		}
		return emit(TokenAmp, 1)
	case '|':
		if next == '|' {
			return emit(TokenOr, 2)
		}
		if next == '=' {
			return emit(TokenPipeAssign, 2)
		}
		return emit(TokenPipe, 1)
	case '^':
		if next == '=' {
			return emit(TokenCaretAssign, 2)
		}
		return emit(TokenCaret, 1)
	case '+':
		if next == '+' {
			return emit(TokenIncrement, 2)
		}
		if next == '=' {
			return emit(TokenPlusAssign, 2)
		}
		return emit(TokenPlus, 1)
	case '-':
		if next == '-' {
			return emit(TokenDecrement, 2)
		}
		if next == '=' {
			return emit(TokenMinusAssign, 2)
		}
		return emit(TokenMinus, 1)
	case '*':
		if next == '=' {
			return emit(TokenStarAssign, 2)
		}
		return emit(TokenStar, 1)
	case '/':
		if next == '=' {
			return emit(TokenSlashAssign, 2)
		}
		return emit(TokenSlash, 1)
	case '%':
		if next == '=' {
			return emit(TokenPercentAssign, 2)
		}
		return emit(TokenPercent, 1)
	}

	r := l.runeAt(l.pos)
	l.advanceN(max(utf8.RuneLen(r), 1))
	l.errorAt(start, "token recognition error at: "+quoteRaw(l.src.Text(start.Offset, l.pos)))
	return l.hiddenToken(TokenError, start)
}

func quoteRaw(s string) string {
	return "'" + s + "'"
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func hexValue(ch byte) int {
	switch {
	case ch >= '0' && ch <= '9':
		return int(ch - '0')
	case ch >= 'a' && ch <= 'f':
		return int(ch-'a') + 10
	default:
		return int(ch-'A') + 10
	}
}

func isIdentStart(r rune) bool {
	if r < utf8.RuneSelf {
		return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
	}
	return r != utf8.RuneError && unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	if r < utf8.RuneSelf {
		return isIdentStart(r) || (r >= '0' && r <= '9')
	}
	return r != utf8.RuneError && (unicode.IsLetter(r) || unicode.IsDigit(r))
}
