package parser

func (p *Parser) parseExpression() *Node {
	return p.parseAssignmentExpr()
}

func isAssignOp(kind TokenKind) bool {
	switch kind {
	case TokenAssign, TokenPlusAssign, TokenMinusAssign, TokenStarAssign, TokenSlashAssign,
		TokenAmpAssign, TokenPipeAssign, TokenCaretAssign, TokenPercentAssign,
		TokenShlAssign, TokenShrAssign, TokenUShrAssign:
		return true
	}
	return false
}

func (p *Parser) parseAssignmentExpr() *Node {
	left := p.parseTernaryExpr()
	if !isAssignOp(p.peek().Kind) {
		return left
	}
	node := p.startNodeFrom(KindAssignExpr, left)
	node.AddChild(left)
	node.AddChild(p.terminal(KindOperator))
	node.AddChild(p.parseAssignmentExpr())
	return p.finishNode(node)
}

func (p *Parser) parseTernaryExpr() *Node {
	cond := p.parseCoalesceExpr()
	if !p.check(TokenQuestion) {
		return cond
	}
	node := p.startNodeFrom(KindTernaryExpr, cond)
	node.AddChild(cond)
	p.advance()
	node.AddChild(p.parseExpression())
	p.expect(TokenColon)
	node.AddChild(p.parseTernaryExpr())
	return p.finishNode(node)
}

// parseCoalesceExpr binds ?? looser than || and left to right, so
// a ?? b - c ?? d reads as (a ?? (b - c)) ?? d.
func (p *Parser) parseCoalesceExpr() *Node {
	left := p.parseOrExpr()
	for p.check(TokenCoalesce) {
		left = p.binary(KindCoalesceExpr, left, p.parseOrExpr)
	}
	return left
}

// binary consumes the operator at the current token and the right operand.
func (p *Parser) binary(kind NodeKind, left *Node, right func() *Node) *Node {
	node := p.startNodeFrom(kind, left)
	node.AddChild(left)
	node.AddChild(p.terminal(KindOperator))
	node.AddChild(right())
	return p.finishNode(node)
}

func (p *Parser) parseOrExpr() *Node {
	left := p.parseAndExpr()
	for p.check(TokenOr) {
		left = p.binary(KindBinaryExpr, left, p.parseAndExpr)
	}
	return left
}

func (p *Parser) parseAndExpr() *Node {
	left := p.parseBitOrExpr()
	for p.check(TokenAnd) {
		left = p.binary(KindBinaryExpr, left, p.parseBitOrExpr)
	}
	return left
}

func (p *Parser) parseBitOrExpr() *Node {
	left := p.parseBitXorExpr()
	for p.check(TokenPipe) {
		left = p.binary(KindBinaryExpr, left, p.parseBitXorExpr)
	}
	return left
}

func (p *Parser) parseBitXorExpr() *Node {
	left := p.parseBitAndExpr()
	for p.check(TokenCaret) {
		left = p.binary(KindBinaryExpr, left, p.parseBitAndExpr)
	}
	return left
}

func (p *Parser) parseBitAndExpr() *Node {
	left := p.parseEqualityExpr()
	for p.check(TokenAmp) {
		left = p.binary(KindBinaryExpr, left, p.parseEqualityExpr)
	}
	return left
}

func (p *Parser) parseEqualityExpr() *Node {
	left := p.parseRelationalExpr()
	for p.match(TokenEQ, TokenNE, TokenTripleEQ, TokenTripleNE, TokenLtGt) {
		left = p.binary(KindBinaryExpr, left, p.parseRelationalExpr)
	}
	return left
}

func (p *Parser) parseRelationalExpr() *Node {
	left := p.parseShiftExpr()
	for {
		switch {
		case p.match(TokenLT, TokenGT, TokenLE, TokenGE):
			left = p.binary(KindBinaryExpr, left, p.parseShiftExpr)
		case p.check(TokenInstanceof):
			node := p.startNodeFrom(KindInstanceofExpr, left)
			node.AddChild(left)
			node.AddChild(p.terminal(KindOperator))
			node.AddChild(p.parseType())
			left = p.finishNode(node)
		default:
			return left
		}
	}
}

func (p *Parser) parseShiftExpr() *Node {
	left := p.parseAdditiveExpr()
	for {
		op, ok := p.shiftOperator()
		if !ok {
			return left
		}
		node := p.startNodeFrom(KindBinaryExpr, left)
		node.AddChild(left)
		node.AddChild(op)
		node.AddChild(p.parseAdditiveExpr())
		left = p.finishNode(node)
	}
}

// shiftOperator consumes <<, or >> and >>> written as adjacent '>' tokens,
// returning a single operator terminal for them.
func (p *Parser) shiftOperator() (*Node, bool) {
	if p.check(TokenShl) {
		return p.terminal(KindOperator), true
	}
	if !p.check(TokenGT) || p.peekN(1).Kind != TokenGT || !p.adjacent(0) {
		return nil, false
	}
	kind, n := TokenShr, 2
	if p.peekN(2).Kind == TokenGT && p.adjacent(1) {
		kind, n = TokenUShr, 3
	}
	first := p.peek()
	last := p.peekN(n - 1)
	for i := 0; i < n; i++ {
		p.advance()
	}
	tok := Token{
		Kind:    kind,
		Span:    Span{Start: first.Span.Start, End: last.Span.End},
		Literal: p.src.Text(first.Span.Start.Offset, last.Span.End.Offset),
	}
	return &Node{Kind: KindOperator, Token: &tok, Span: tok.Span}, true
}

func (p *Parser) parseAdditiveExpr() *Node {
	left := p.parseMultiplicativeExpr()
	for p.match(TokenPlus, TokenMinus) {
		left = p.binary(KindBinaryExpr, left, p.parseMultiplicativeExpr)
	}
	return left
}

func (p *Parser) parseMultiplicativeExpr() *Node {
	left := p.parseUnaryExpr()
	for p.match(TokenStar, TokenSlash, TokenPercent) {
		left = p.binary(KindBinaryExpr, left, p.parseUnaryExpr)
	}
	return left
}

func (p *Parser) parseUnaryExpr() *Node {
	switch p.peek().Kind {
	case TokenPlus, TokenMinus, TokenBang, TokenTilde, TokenIncrement, TokenDecrement:
		node := p.startNode(KindUnaryExpr)
		node.AddChild(p.terminal(KindOperator))
		node.AddChild(p.parseUnaryExpr())
		return p.finishNode(node)
	case TokenLParen:
		if p.isCast() {
			return p.parseCastExpr()
		}
	}
	return p.parsePostfixExpr()
}

func (p *Parser) isCast() bool {
	defer p.mark()()
	p.advance()
	if !p.skipType() || !p.check(TokenRParen) {
		return false
	}
	p.advance()
	tok := p.peek()
	switch tok.Kind {
	case TokenIdent:
		return true
	case TokenIntegerLiteral, TokenLongLiteral, TokenNumberLiteral, TokenStringLiteral,
		TokenTrue, TokenFalse, TokenNull, TokenLParen, TokenBang, TokenTilde,
		TokenThis, TokenSuper, TokenNew, TokenLBracket, TokenFindLiteral:
		return true
	}
	// Query words after a parenthesised bind are clause keywords, not
	// cast operands.
	return p.queryDepth == 0 && isIdentifierKind(tok)
}

func (p *Parser) parseCastExpr() *Node {
	node := p.startNode(KindCastExpr)
	p.expect(TokenLParen)
	node.AddChild(p.parseType())
	p.expect(TokenRParen)
	node.AddChild(p.parseUnaryExpr())
	return p.finishNode(node)
}

func (p *Parser) parsePostfixExpr() *Node {
	expr := p.parsePrimaryExpr()
	for {
		progress := p.mustProgress()
		next := p.parsePostfixSuffix(expr)
		if next == nil {
			return expr
		}
		expr = next
		if !progress() {
			return expr
		}
	}
}

// parsePostfixSuffix extends expr with one member access, call, index or
// postfix operator, or returns nil when none follows.
func (p *Parser) parsePostfixSuffix(expr *Node) *Node {
	switch p.peek().Kind {
	case TokenDot, TokenQuestionDot:
		if p.peek().Kind == TokenDot && p.peekN(1).Kind == TokenClass {
			node := p.startNodeFrom(KindClassLiteral, expr)
			node.AddChild(expr)
			p.advance()
			p.advance()
			return p.finishNode(node)
		}
		node := p.startNodeFrom(KindFieldAccess, expr)
		node.AddChild(expr)
		node.AddChild(p.terminal(KindOperator))
		node.AddChild(p.expectAnyIdentifier())
		access := p.finishNode(node)
		if p.check(TokenLParen) {
			return p.parseCall(access)
		}
		return access
	case TokenLBracket:
		node := p.startNodeFrom(KindArrayAccess, expr)
		node.AddChild(expr)
		p.advance()
		node.AddChild(p.parseExpression())
		p.expect(TokenRBracket)
		return p.finishNode(node)
	case TokenIncrement, TokenDecrement:
		node := p.startNodeFrom(KindPostfixExpr, expr)
		node.AddChild(expr)
		node.AddChild(p.terminal(KindOperator))
		return p.finishNode(node)
	}
	return nil
}

func (p *Parser) parseCall(callee *Node) *Node {
	node := p.startNodeFrom(KindCallExpr, callee)
	node.AddChild(callee)
	node.AddChild(p.parseArguments())
	return p.finishNode(node)
}

func (p *Parser) parseArguments() *Node {
	node := p.startNode(KindArguments)
	p.expect(TokenLParen)
	if !p.check(TokenRParen) {
		p.parseExpressionList(node)
	}
	p.expect(TokenRParen)
	return p.finishNode(node)
}

func isLiteralKind(kind TokenKind) bool {
	switch kind {
	case TokenIntegerLiteral, TokenLongLiteral, TokenNumberLiteral, TokenStringLiteral,
		TokenTrue, TokenFalse, TokenNull:
		return true
	}
	return false
}

func (p *Parser) parsePrimaryExpr() *Node {
	tok := p.peek()
	switch {
	case isLiteralKind(tok.Kind):
		return p.terminal(KindLiteral)
	case tok.Kind == TokenThis:
		return p.callIfArgs(p.terminal(KindThis))
	case tok.Kind == TokenSuper:
		return p.callIfArgs(p.terminal(KindSuper))
	case tok.Kind == TokenLParen:
		node := p.startNode(KindParenExpr)
		p.advance()
		node.AddChild(p.parseExpression())
		p.expect(TokenRParen)
		return p.finishNode(node)
	case tok.Kind == TokenNew:
		return p.parseNewExpr()
	case tok.Kind == TokenFindLiteral:
		return p.parseSoslLiteral()
	case tok.Kind == TokenLBracket:
		switch p.peekN(1).Kind {
		case TokenSelect:
			return p.parseSoqlLiteral()
		case TokenFind:
			return p.parseSoslLiteral()
		}
	case tok.Kind == TokenVoid && p.peekN(1).Kind == TokenDot && p.peekN(2).Kind == TokenClass:
		return p.terminal(KindIdentifier)
	case isIdentifierKind(tok) && p.isTypeClassLiteral():
		node := p.startNode(KindClassLiteral)
		node.AddChild(p.parseType())
		p.expect(TokenDot)
		p.expect(TokenClass)
		return p.finishNode(node)
	case isIdentifierKind(tok):
		return p.callIfArgs(p.terminal(KindIdentifier))
	}
	return p.errorNode(noViableAlt(tok))
}

// isTypeClassLiteral looks for a type followed by .class, as in
// List<Account>.class or String[].class.
func (p *Parser) isTypeClassLiteral() bool {
	defer p.mark()()
	return p.skipType() && p.check(TokenDot) && p.peekN(1).Kind == TokenClass
}

func (p *Parser) callIfArgs(callee *Node) *Node {
	if p.check(TokenLParen) {
		return p.parseCall(callee)
	}
	return callee
}

// parseNewExpr parses object, sized array, and list, set, map or array
// initialiser creation.
func (p *Parser) parseNewExpr() *Node {
	node := p.startNode(KindNewExpr)
	p.expect(TokenNew)
	typ := p.parseType()
	node.AddChild(typ)

	switch {
	case p.check(TokenLParen):
		node.AddChild(p.parseArguments())
	case p.check(TokenLBracket):
		p.advance()
		node.AddChild(p.parseExpression())
		p.expect(TokenRBracket)
	case p.check(TokenLBrace):
		node.AddChild(p.parseCollectionInit())
	default:
		tok := p.peek()
		p.report(tok, mismatched(tok, "{'(', '[', '{'}"))
	}
	return p.finishNode(node)
}

func (p *Parser) parseCollectionInit() *Node {
	node := p.startNode(KindArrayInit)
	p.expect(TokenLBrace)
	if p.check(TokenRBrace) {
		p.advance()
		return p.finishNode(node)
	}

	first := p.parseExpression()
	if p.check(TokenMapsTo) {
		node.Kind = KindMapInit
		node.AddChild(p.parseMapEntry(first))
		for p.check(TokenComma) {
			progress := p.mustProgress()
			p.advance()
			node.AddChild(p.parseMapEntry(p.parseExpression()))
			if !progress() {
				break
			}
		}
	} else {
		node.AddChild(first)
		for p.check(TokenComma) {
			progress := p.mustProgress()
			p.advance()
			node.AddChild(p.parseExpression())
			if !progress() {
				break
			}
		}
	}
	p.expect(TokenRBrace)
	return p.finishNode(node)
}

func (p *Parser) parseMapEntry(key *Node) *Node {
	node := p.startNodeFrom(KindMapEntry, key)
	node.AddChild(key)
	p.expect(TokenMapsTo)
	node.AddChild(p.parseExpression())
	return p.finishNode(node)
}

func (p *Parser) parseLiteral() *Node {
	if isLiteralKind(p.peek().Kind) {
		return p.terminal(KindLiteral)
	}
	tok := p.peek()
	return p.errorNode(mismatched(tok, "literal"))
}
