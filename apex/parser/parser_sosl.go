package parser

// parseSoslLiteral parses [FIND 'term' ...] or [FIND :term ...].
func (p *Parser) parseSoslLiteral() *Node {
	return p.parseSosl(TokenFindLiteral)
}

// parseSoslLiteralAlt parses [FIND {term} ...].
func (p *Parser) parseSoslLiteralAlt() *Node {
	return p.parseSosl(TokenFindLiteralAlt)
}

// parseSosl parses a search whose term uses the given literal form. The
// other form is reported once and then parsed through so the clauses that
// follow still produce a tree.
func (p *Parser) parseSosl(form TokenKind) *Node {
	p.queryDepth++
	defer func() { p.queryDepth-- }()

	node := p.startNode(KindSoslLiteral)
	switch tok := p.peek(); {
	case tok.Kind == form:
		node.AddChild(p.terminal(KindLiteral))
	case tok.Kind == TokenFindLiteral || tok.Kind == TokenFindLiteralAlt:
		p.report(tok, mismatched(tok, quoteKind(form)))
		node.AddChild(p.terminal(KindLiteral))
	case form == TokenFindLiteral && tok.Kind == TokenLBracket && p.peekN(1).Kind == TokenFind:
		p.advance()
		p.advance()
		node.AddChild(p.parseBoundExpr())
	default:
		node.AddChild(p.errorNode(mismatched(tok, "'[find'")))
		return p.finishNode(node)
	}

	if p.check(TokenIn) {
		group := p.startNode(KindSearchGroup)
		p.advance()
		if p.match(TokenAll, TokenEmail, TokenName, TokenPhone, TokenSidebar) {
			group.AddChild(p.terminal(KindIdentifier))
		} else {
			p.report(p.peek(), mismatched(p.peek(), "{'all', 'email', 'name', 'phone', 'sidebar'}"))
		}
		p.expect(TokenFields)
		node.AddChild(p.finishNode(group))
	}
	if p.check(TokenReturning) {
		node.AddChild(p.parseReturningClause())
	}
	for {
		switch {
		case p.check(TokenWith):
			node.AddChild(p.parseWithClause())
			continue
		case p.check(TokenLimit):
			node.AddChild(p.parseLimitClause(KindLimitClause))
			continue
		case p.check(TokenUpdate):
			node.AddChild(p.parseUpdateClause())
			continue
		}
		break
	}
	p.expect(TokenRBracket)
	return p.finishNode(node)
}

func (p *Parser) parseReturningClause() *Node {
	node := p.startNode(KindReturningClause)
	p.expect(TokenReturning)
	for {
		progress := p.mustProgress()
		node.AddChild(p.parseFieldSpec())
		if !p.check(TokenComma) {
			break
		}
		p.advance()
		if !progress() {
			break
		}
	}
	return p.finishNode(node)
}

// parseFieldSpec parses one object of a RETURNING list with its optional
// parenthesised field list and filters.
func (p *Parser) parseFieldSpec() *Node {
	node := p.startNode(KindFieldSpec)
	node.AddChild(p.expectIdentifier())
	if !p.check(TokenLParen) {
		return p.finishNode(node)
	}
	p.advance()
	node.AddChild(p.parseSelectList(KindSelectList))
	if p.check(TokenWhere) {
		node.AddChild(p.parseWhereClause())
	}
	if p.check(TokenUsing) {
		scope := p.startNode(KindUsingScope)
		p.advance()
		p.expect(TokenListView)
		p.expect(TokenAssign)
		scope.AddChild(p.expectIdentifier())
		node.AddChild(p.finishNode(scope))
	}
	if p.check(TokenOrder) {
		node.AddChild(p.parseOrderByClause())
	}
	if p.check(TokenLimit) {
		node.AddChild(p.parseLimitClause(KindLimitClause))
	}
	if p.check(TokenOffset) {
		node.AddChild(p.parseLimitClause(KindOffsetClause))
	}
	p.expect(TokenRParen)
	return p.finishNode(node)
}
