package parser

func (p *Parser) parseBlock() *Node {
	node := p.startNode(KindBlock)
	p.expect(TokenLBrace)
	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		node.AddChild(p.parseBlockStatement())
		progress()
	}
	p.expect(TokenRBrace)
	return p.finishNode(node)
}

// parseBlockStatement parses one entry of a statement list. A lone
// semicolon is allowed here, unlike in statement position.
func (p *Parser) parseBlockStatement() *Node {
	if p.check(TokenSemicolon) {
		return p.terminal(KindEmptyStmt)
	}
	return p.parseStatement()
}

func (p *Parser) parseStatement() *Node {
	switch p.peek().Kind {
	case TokenLBrace:
		return p.parseBlock()
	case TokenSemicolon:
		return p.errorNode(mismatched(p.peek(), "statement"))
	case TokenIf:
		return p.parseIfStmt()
	case TokenWhile:
		return p.parseWhileStmt()
	case TokenFor:
		return p.parseForStmt()
	case TokenDo:
		return p.parseDoStmt()
	case TokenSwitch:
		return p.parseSwitchStmt()
	case TokenTry:
		return p.parseTryStmt()
	case TokenReturn:
		return p.parseReturnStmt()
	case TokenThrow:
		return p.parseThrowStmt()
	case TokenBreak:
		return p.parseJumpStmt(KindBreakStmt)
	case TokenContinue:
		return p.parseJumpStmt(KindContinueStmt)
	case TokenInsert:
		return p.parseDmlStmt(KindInsertStmt)
	case TokenUpdate:
		return p.parseDmlStmt(KindUpdateStmt)
	case TokenDelete:
		return p.parseDmlStmt(KindDeleteStmt)
	case TokenUndelete:
		return p.parseDmlStmt(KindUndeleteStmt)
	case TokenUpsert:
		return p.parseDmlStmt(KindUpsertStmt)
	case TokenMerge:
		return p.parseDmlStmt(KindMergeStmt)
	case TokenSystemRunAs:
		return p.parseRunAsStmt()
	}
	if p.isLocalVarDecl() {
		return p.parseLocalVarDecl()
	}
	return p.parseExprStmt()
}

// parseLoopBody accepts a statement or a bare semicolon.
func (p *Parser) parseLoopBody() *Node {
	if p.check(TokenSemicolon) {
		return p.terminal(KindEmptyStmt)
	}
	return p.parseStatement()
}

func (p *Parser) parseParExpression() *Node {
	p.expect(TokenLParen)
	expr := p.parseExpression()
	p.expect(TokenRParen)
	return expr
}

func (p *Parser) parseIfStmt() *Node {
	node := p.startNode(KindIfStmt)
	p.expect(TokenIf)
	node.AddChild(p.parseParExpression())
	node.AddChild(p.parseIfBody())
	if p.check(TokenElse) {
		p.advance()
		node.AddChild(p.parseIfBody())
	}
	return p.finishNode(node)
}

// parseIfBody parses a branch of an if statement. A bare semicolon is
// reported and consumed so a following else still attaches.
func (p *Parser) parseIfBody() *Node {
	if !p.check(TokenSemicolon) {
		return p.parseStatement()
	}
	tok := p.peek()
	node := p.errorNode(mismatched(tok, "statement"))
	p.skip()
	node.Span.End = tok.Span.End
	return node
}

func (p *Parser) parseWhileStmt() *Node {
	node := p.startNode(KindWhileStmt)
	p.expect(TokenWhile)
	node.AddChild(p.parseParExpression())
	node.AddChild(p.parseLoopBody())
	return p.finishNode(node)
}

// parseDoStmt requires a braced body. When the trailing while is missing
// the statement ends there and the enclosing list carries on.
func (p *Parser) parseDoStmt() *Node {
	node := p.startNode(KindDoStmt)
	p.expect(TokenDo)
	node.AddChild(p.parseBlock())
	if p.expect(TokenWhile) == nil {
		return p.finishNode(node)
	}
	node.AddChild(p.parseParExpression())
	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseForStmt() *Node {
	start := p.startNode(KindForStmt)
	p.expect(TokenFor)
	p.expect(TokenLParen)

	if p.isEnhancedFor() {
		node := start
		node.Kind = KindEnhancedForStmt
		node.AddChild(p.parseModifiers())
		node.AddChild(p.parseType())
		node.AddChild(p.expectIdentifier())
		p.expect(TokenColon)
		node.AddChild(p.parseExpression())
		p.expect(TokenRParen)
		node.AddChild(p.parseLoopBody())
		return p.finishNode(node)
	}

	node := start
	if !p.check(TokenSemicolon) {
		init := p.startNode(KindForInit)
		if p.isLocalVarDeclHead() {
			decl := p.startNode(KindLocalVarDecl)
			decl.AddChild(p.parseModifiers())
			decl.AddChild(p.parseType())
			p.parseVariableDeclarators(decl)
			init.AddChild(p.finishNode(decl))
		} else {
			p.parseExpressionList(init)
		}
		node.AddChild(p.finishNode(init))
	}
	p.expect(TokenSemicolon)
	if !p.check(TokenSemicolon) {
		node.AddChild(p.parseExpression())
	}
	p.expect(TokenSemicolon)
	if !p.check(TokenRParen) {
		update := p.startNode(KindForUpdate)
		p.parseExpressionList(update)
		node.AddChild(p.finishNode(update))
	}
	p.expect(TokenRParen)
	node.AddChild(p.parseLoopBody())
	return p.finishNode(node)
}

func (p *Parser) parseExpressionList(owner *Node) {
	for {
		progress := p.mustProgress()
		owner.AddChild(p.parseExpression())
		if !p.check(TokenComma) {
			break
		}
		p.advance()
		if !progress() {
			break
		}
	}
}

func (p *Parser) isEnhancedFor() bool {
	defer p.mark()()
	for p.check(TokenFinal) || p.check(TokenAt) {
		if p.check(TokenAt) {
			p.parseAnnotation()
		} else {
			p.advance()
		}
	}
	if !p.skipType() || !p.isIdentifierLike() {
		return false
	}
	p.advance()
	return p.check(TokenColon)
}

func (p *Parser) parseSwitchStmt() *Node {
	node := p.startNode(KindSwitchStmt)
	p.expect(TokenSwitch)
	p.expect(TokenOn)
	node.AddChild(p.parseExpression())
	p.expect(TokenLBrace)
	for p.check(TokenWhen) {
		progress := p.mustProgress()
		node.AddChild(p.parseWhenClause())
		if !progress() {
			break
		}
	}
	p.expect(TokenRBrace)
	return p.finishNode(node)
}

func (p *Parser) parseWhenClause() *Node {
	node := p.startNode(KindWhenClause)
	p.expect(TokenWhen)
	switch {
	case p.check(TokenElse):
		node.AddChild(p.terminal(KindWhenElse))
	case p.isWhenType():
		typ := p.startNode(KindWhenType)
		typ.AddChild(p.parseType())
		typ.AddChild(p.expectIdentifier())
		node.AddChild(p.finishNode(typ))
	default:
		for {
			progress := p.mustProgress()
			value := p.startNode(KindWhenValue)
			value.AddChild(p.parseWhenLiteral())
			node.AddChild(p.finishNode(value))
			if !p.check(TokenComma) {
				break
			}
			p.advance()
			if !progress() {
				break
			}
		}
	}
	node.AddChild(p.parseBlock())
	return p.finishNode(node)
}

func (p *Parser) isWhenType() bool {
	defer p.mark()()
	return p.skipType() && p.isIdentifierLike()
}

// parseWhenLiteral parses a when value: a literal or enum name, under any
// number of parentheses and sign prefixes, as in (-+-3).
func (p *Parser) parseWhenLiteral() *Node {
	switch tok := p.peek(); {
	case tok.Kind == TokenLParen:
		node := p.startNode(KindParenExpr)
		p.advance()
		node.AddChild(p.parseWhenLiteral())
		p.expect(TokenRParen)
		return p.finishNode(node)
	case tok.Kind == TokenPlus || tok.Kind == TokenMinus:
		node := p.startNode(KindUnaryExpr)
		node.AddChild(p.terminal(KindOperator))
		node.AddChild(p.parseWhenLiteral())
		return p.finishNode(node)
	case tok.Kind == TokenIntegerLiteral, tok.Kind == TokenLongLiteral,
		tok.Kind == TokenNumberLiteral, tok.Kind == TokenStringLiteral, tok.Kind == TokenNull:
		return p.terminal(KindLiteral)
	case isIdentifierKind(tok):
		return p.terminal(KindIdentifier)
	}
	return p.errorNode(noViableAlt(p.peek()), TokenComma, TokenLBrace)
}

func (p *Parser) parseTryStmt() *Node {
	node := p.startNode(KindTryStmt)
	p.expect(TokenTry)
	node.AddChild(p.parseBlock())
	for p.check(TokenCatch) {
		node.AddChild(p.parseCatchClause())
	}
	if p.check(TokenFinally) {
		finally := p.startNode(KindFinallyClause)
		p.advance()
		finally.AddChild(p.parseBlock())
		node.AddChild(p.finishNode(finally))
	}
	if node.FirstChildOfKind(KindCatchClause) == nil && node.FirstChildOfKind(KindFinallyClause) == nil {
		p.report(p.peek(), mismatched(p.peek(), "{'catch', 'finally'}"))
	}
	return p.finishNode(node)
}

func (p *Parser) parseCatchClause() *Node {
	node := p.startNode(KindCatchClause)
	p.expect(TokenCatch)
	p.expect(TokenLParen)
	node.AddChild(p.parseModifiers())
	node.AddChild(p.parseQualifiedName())
	node.AddChild(p.expectIdentifier())
	p.expect(TokenRParen)
	node.AddChild(p.parseBlock())
	return p.finishNode(node)
}

func (p *Parser) parseReturnStmt() *Node {
	node := p.startNode(KindReturnStmt)
	p.expect(TokenReturn)
	if !p.check(TokenSemicolon) {
		node.AddChild(p.parseExpression())
	}
	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseThrowStmt() *Node {
	node := p.startNode(KindThrowStmt)
	p.expect(TokenThrow)
	node.AddChild(p.parseExpression())
	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseJumpStmt(kind NodeKind) *Node {
	node := p.startNode(kind)
	p.advance()
	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

// parseDmlStmt parses insert, update, delete, undelete, upsert and merge,
// each with an optional `as user` or `as system` access level.
func (p *Parser) parseDmlStmt(kind NodeKind) *Node {
	node := p.startNode(kind)
	p.advance()
	if p.check(TokenAs) && (p.peekN(1).Kind == TokenUser || p.peekN(1).Kind == TokenSystem) {
		level := p.startNode(KindAccessLevel)
		p.advance()
		level.AddChild(p.terminal(KindIdentifier))
		node.AddChild(p.finishNode(level))
	}
	node.AddChild(p.parseExpression())
	switch kind {
	case KindUpsertStmt:
		if !p.check(TokenSemicolon) {
			node.AddChild(p.parseQualifiedName())
		}
	case KindMergeStmt:
		node.AddChild(p.parseExpression())
	}
	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseRunAsStmt() *Node {
	node := p.startNode(KindRunAsStmt)
	p.expect(TokenSystemRunAs)
	node.AddChild(p.parseArguments())
	node.AddChild(p.parseBlock())
	return p.finishNode(node)
}

// isLocalVarDecl looks for `Type name` followed by a declarator end.
func (p *Parser) isLocalVarDecl() bool {
	defer p.mark()()
	if !p.skipLocalVarHead() {
		return false
	}
	switch p.peekN(1).Kind {
	case TokenAssign, TokenSemicolon, TokenComma:
		return true
	}
	return false
}

func (p *Parser) isLocalVarDeclHead() bool {
	defer p.mark()()
	return p.skipLocalVarHead()
}

func (p *Parser) skipLocalVarHead() bool {
	for p.check(TokenFinal) || p.check(TokenAt) || p.check(TokenTransient) {
		if p.check(TokenAt) {
			p.parseAnnotation()
		} else {
			p.advance()
		}
	}
	return p.skipType() && p.isIdentifierLike()
}

func (p *Parser) parseLocalVarDecl() *Node {
	node := p.startNode(KindLocalVarDecl)
	node.AddChild(p.parseModifiers())
	node.AddChild(p.parseType())
	p.parseVariableDeclarators(node)
	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseExprStmt() *Node {
	node := p.startNode(KindExprStmt)
	node.AddChild(p.parseExpression())
	p.expect(TokenSemicolon)
	return p.finishNode(node)
}
