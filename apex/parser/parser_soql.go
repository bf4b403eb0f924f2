package parser

// parseSoqlLiteral parses a bracketed query, [SELECT ... FROM ...].
func (p *Parser) parseSoqlLiteral() *Node {
	node := p.startNode(KindSoqlLiteral)
	p.expect(TokenLBracket)
	node.AddChild(p.parseQuery())
	p.expect(TokenRBracket)
	return p.finishNode(node)
}

func (p *Parser) parseQuery() *Node {
	return p.parseSelect(KindQuery)
}

// parseSelect parses a top-level query or a parenthesised subquery; both
// share one clause grammar.
func (p *Parser) parseSelect(kind NodeKind) *Node {
	p.queryDepth++
	defer func() { p.queryDepth-- }()

	node := p.startNode(kind)
	p.expect(TokenSelect)
	node.AddChild(p.parseSelectList(KindSelectList))
	p.expect(TokenFrom)
	node.AddChild(p.parseFromList())

	if p.check(TokenUsing) {
		scope := p.startNode(KindUsingScope)
		p.advance()
		p.expect(TokenScope)
		scope.AddChild(p.expectIdentifier())
		node.AddChild(p.finishNode(scope))
	}
	if p.check(TokenWhere) {
		node.AddChild(p.parseWhereClause())
	}
	for p.check(TokenWith) {
		node.AddChild(p.parseWithClause())
	}
	if p.check(TokenGroup) {
		node.AddChild(p.parseGroupByClause())
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
	if p.check(TokenAll) && p.peekN(1).Kind == TokenRows {
		rows := p.startNode(KindAllRows)
		p.advance()
		p.advance()
		node.AddChild(p.finishNode(rows))
	}
	for p.check(TokenFor) {
		clause := p.startNode(KindForClause)
		p.advance()
		if p.match(TokenView, TokenUpdate, TokenReference) {
			clause.AddChild(p.terminal(KindIdentifier))
		} else {
			p.report(p.peek(), mismatched(p.peek(), "{'view', 'update', 'reference'}"))
		}
		node.AddChild(p.finishNode(clause))
	}
	if p.check(TokenUpdate) {
		node.AddChild(p.parseUpdateClause())
	}
	return p.finishNode(node)
}

func (p *Parser) parseSelectList(kind NodeKind) *Node {
	node := p.startNode(kind)
	for {
		progress := p.mustProgress()
		node.AddChild(p.parseSelectEntry())
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

// parseSelectEntry parses a field, function call, TYPEOF or subquery with
// an optional alias.
func (p *Parser) parseSelectEntry() *Node {
	node := p.startNode(KindSelectField)
	switch {
	case p.check(TokenLParen):
		p.advance()
		node.AddChild(p.parseSelect(KindSubQuery))
		p.expect(TokenRParen)
	case p.check(TokenTypeOf):
		node.AddChild(p.parseTypeOf())
	case p.isSoqlFunction():
		node.AddChild(p.parseSoqlFunction())
	default:
		node.AddChild(p.parseFieldName())
	}
	if p.isAlias() {
		node.AddChild(p.terminal(KindAlias))
	}
	return p.finishNode(node)
}

// isAlias reports whether the current word names an alias rather than
// starting the next clause.
func (p *Parser) isAlias() bool {
	tok := p.peek()
	if !isIdentifierKind(tok) {
		return false
	}
	switch tok.Kind {
	case TokenFrom, TokenWhere, TokenWith, TokenGroup, TokenOrder, TokenLimit, TokenOffset,
		TokenUsing, TokenHaving, TokenSoqlAnd, TokenSoqlOr, TokenNot, TokenAsc, TokenDesc,
		TokenNulls, TokenIn, TokenLike, TokenIncludes, TokenExcludes, TokenReturning,
		TokenAll, TokenRows, TokenWhen, TokenThen, TokenEnd:
		return false
	}
	return true
}

func (p *Parser) parseFieldName() *Node {
	node := p.startNode(KindFieldName)
	node.AddChild(p.expectIdentifier())
	for p.check(TokenDot) {
		p.advance()
		node.AddChild(p.expectAnyIdentifier())
	}
	return p.finishNode(node)
}

func (p *Parser) parseFieldNameList(owner *Node) {
	for {
		progress := p.mustProgress()
		owner.AddChild(p.parseFieldName())
		if !p.check(TokenComma) {
			break
		}
		p.advance()
		if !progress() {
			break
		}
	}
}

func isSoqlFunctionKind(kind TokenKind) bool {
	switch kind {
	case TokenAvg, TokenCount, TokenCountDistinct, TokenMin, TokenMax, TokenSum,
		TokenToLabel, TokenFormat, TokenConvertCurrency, TokenConvertTimezone,
		TokenFields, TokenDistance, TokenGeolocation, TokenGrouping,
		TokenCalendarMonth, TokenCalendarQuarter, TokenCalendarYear,
		TokenDayInMonth, TokenDayInWeek, TokenDayInYear, TokenDayOnly,
		TokenFiscalMonth, TokenFiscalQuarter, TokenFiscalYear,
		TokenHourInDay, TokenWeekInMonth, TokenWeekInYear:
		return true
	}
	return false
}

func (p *Parser) isSoqlFunction() bool {
	return isSoqlFunctionKind(p.peek().Kind) && p.peekN(1).Kind == TokenLParen
}

func (p *Parser) parseSoqlFunction() *Node {
	node := p.startNode(KindSoqlFunction)
	name := p.terminal(KindIdentifier)
	node.AddChild(name)
	p.expect(TokenLParen)

	switch name.Token.Kind {
	case TokenCount:
		if !p.check(TokenRParen) {
			node.AddChild(p.parseFieldName())
		}
	case TokenFields:
		if p.match(TokenAll, TokenCustom, TokenStandard) {
			node.AddChild(p.terminal(KindIdentifier))
		} else {
			p.report(p.peek(), mismatched(p.peek(), "{'all', 'custom', 'standard'}"))
		}
	case TokenDistance:
		node.AddChild(p.parseLocationValue())
		p.expect(TokenComma)
		node.AddChild(p.parseLocationValue())
		p.expect(TokenComma)
		if p.check(TokenStringLiteral) {
			node.AddChild(p.terminal(KindLiteral))
		} else {
			p.report(p.peek(), mismatched(p.peek(), "StringLiteral"))
		}
	case TokenGeolocation:
		node.AddChild(p.parseCoordinate())
		p.expect(TokenComma)
		node.AddChild(p.parseCoordinate())
	default:
		if p.isSoqlFunction() {
			node.AddChild(p.parseSoqlFunction())
		} else {
			node.AddChild(p.parseFieldName())
		}
	}
	p.expect(TokenRParen)
	return p.finishNode(node)
}

func (p *Parser) parseLocationValue() *Node {
	switch {
	case p.check(TokenColon):
		return p.parseBoundExpr()
	case p.isSoqlFunction():
		return p.parseSoqlFunction()
	}
	return p.parseFieldName()
}

func (p *Parser) parseCoordinate() *Node {
	if p.check(TokenColon) {
		return p.parseBoundExpr()
	}
	return p.parseSignedNumber()
}

func (p *Parser) parseSignedNumber() *Node {
	if !p.match(TokenPlus, TokenMinus) {
		if p.match(TokenIntegerLiteral, TokenNumberLiteral) {
			return p.terminal(KindLiteral)
		}
		return p.errorNode(mismatched(p.peek(), "number"))
	}
	node := p.startNode(KindSignedNumber)
	node.AddChild(p.terminal(KindOperator))
	if p.match(TokenIntegerLiteral, TokenNumberLiteral) {
		node.AddChild(p.terminal(KindLiteral))
	} else {
		p.report(p.peek(), mismatched(p.peek(), "number"))
	}
	return p.finishNode(node)
}

func (p *Parser) parseBoundExpr() *Node {
	node := p.startNode(KindBoundExpr)
	p.expect(TokenColon)
	node.AddChild(p.parseExpression())
	return p.finishNode(node)
}

func (p *Parser) parseTypeOf() *Node {
	node := p.startNode(KindTypeOf)
	p.expect(TokenTypeOf)
	node.AddChild(p.parseFieldName())
	for p.check(TokenWhen) {
		when := p.startNode(KindTypeOfWhen)
		p.advance()
		when.AddChild(p.parseFieldName())
		p.expect(TokenThen)
		p.parseFieldNameList(when)
		node.AddChild(p.finishNode(when))
	}
	if p.check(TokenElse) {
		elseNode := p.startNode(KindTypeOfElse)
		p.advance()
		p.parseFieldNameList(elseNode)
		node.AddChild(p.finishNode(elseNode))
	}
	p.expect(TokenEnd)
	return p.finishNode(node)
}

func (p *Parser) parseFromList() *Node {
	node := p.startNode(KindFromList)
	for {
		progress := p.mustProgress()
		entry := p.startNode(KindFromEntry)
		entry.AddChild(p.parseFieldName())
		if p.isAlias() {
			entry.AddChild(p.terminal(KindAlias))
		}
		node.AddChild(p.finishNode(entry))
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

func (p *Parser) parseWhereClause() *Node {
	node := p.startNode(KindWhereClause)
	p.expect(TokenWhere)
	node.AddChild(p.parseLogicalExpr())
	return p.finishNode(node)
}

// parseLogicalExpr parses conditions joined by AND or by OR. Mixing the
// two without parentheses is not allowed, so the chain keeps to the first
// operator it sees.
func (p *Parser) parseLogicalExpr() *Node {
	first := p.parseConditionalExpr()
	if !p.match(TokenSoqlAnd, TokenSoqlOr) {
		return first
	}
	op := p.peek().Kind
	node := p.startNodeFrom(KindLogicalExpr, first)
	node.AddChild(first)
	for p.check(op) {
		progress := p.mustProgress()
		node.AddChild(p.terminal(KindOperator))
		node.AddChild(p.parseConditionalExpr())
		if !progress() {
			break
		}
	}
	return p.finishNode(node)
}

func (p *Parser) parseConditionalExpr() *Node {
	switch {
	case p.check(TokenNot):
		node := p.startNode(KindNotExpr)
		p.advance()
		node.AddChild(p.parseConditionalExpr())
		return p.finishNode(node)
	case p.check(TokenLParen):
		node := p.startNode(KindParenExpr)
		p.advance()
		node.AddChild(p.parseLogicalExpr())
		p.expect(TokenRParen)
		return p.finishNode(node)
	}
	return p.parseComparison()
}

func (p *Parser) parseComparison() *Node {
	node := p.startNode(KindComparison)
	if p.isSoqlFunction() {
		node.AddChild(p.parseSoqlFunction())
	} else {
		node.AddChild(p.parseFieldName())
	}
	node.AddChild(p.parseComparisonOperator())
	node.AddChild(p.parseValue())
	return p.finishNode(node)
}

func (p *Parser) parseComparisonOperator() *Node {
	switch tok := p.peek(); tok.Kind {
	case TokenAssign, TokenNE, TokenLtGt, TokenLT, TokenGT, TokenLE, TokenGE,
		TokenLike, TokenIn, TokenIncludes, TokenExcludes:
		return p.terminal(KindOperator)
	case TokenNot:
		if p.peekN(1).Kind == TokenIn {
			first := p.advance()
			last := p.advance()
			op := Token{
				Kind:    TokenNot,
				Span:    Span{Start: first.Span.Start, End: last.Span.End},
				Literal: p.src.Text(first.Span.Start.Offset, last.Span.End.Offset),
			}
			return &Node{Kind: KindOperator, Token: &op, Span: op.Span}
		}
	}
	tok := p.peek()
	p.report(tok, mismatched(tok, "comparison operator"))
	return nil
}

func (p *Parser) parseValue() *Node {
	tok := p.peek()
	switch {
	case tok.Kind == TokenNull, tok.Kind == TokenTrue, tok.Kind == TokenFalse,
		tok.Kind == TokenIntegerLiteral, tok.Kind == TokenLongLiteral, tok.Kind == TokenNumberLiteral,
		tok.Kind == TokenStringLiteral, tok.Kind == TokenDateLiteral, tok.Kind == TokenDateTimeLiteral,
		tok.Kind == TokenTimeLiteral, tok.Kind == TokenCurrencyLiteral:
		return p.terminal(KindLiteral)
	case tok.Kind == TokenPlus, tok.Kind == TokenMinus:
		return p.parseSignedNumber()
	case tok.Kind.IsRelativeDate():
		return p.parseDateFormula()
	case tok.Kind == TokenColon:
		return p.parseBoundExpr()
	case tok.Kind == TokenLParen:
		if p.peekN(1).Kind == TokenSelect {
			p.advance()
			sub := p.parseSelect(KindSubQuery)
			p.expect(TokenRParen)
			return sub
		}
		return p.parseValueList()
	}
	return p.errorNode(noViableAlt(tok), TokenSoqlAnd, TokenSoqlOr)
}

func (p *Parser) parseValueList() *Node {
	node := p.startNode(KindValueList)
	p.expect(TokenLParen)
	for {
		progress := p.mustProgress()
		node.AddChild(p.parseValue())
		if !p.check(TokenComma) {
			break
		}
		p.advance()
		if !progress() {
			break
		}
	}
	p.expect(TokenRParen)
	return p.finishNode(node)
}

// parseDateFormula parses a relative date such as LAST_QUARTER or
// LAST_N_DAYS:30.
func (p *Parser) parseDateFormula() *Node {
	node := p.startNode(KindDateFormula)
	name := p.terminal(KindIdentifier)
	node.AddChild(name)
	if name.Token.Kind.takesDateArgument() {
		p.expect(TokenColon)
		if p.check(TokenIntegerLiteral) {
			node.AddChild(p.terminal(KindLiteral))
		} else {
			node.AddChild(p.parseSignedNumber())
		}
	}
	return p.finishNode(node)
}

// parseWithClause parses one WITH clause. Query and search forms share a
// parser; each is only meaningful where its host statement allows it.
func (p *Parser) parseWithClause() *Node {
	node := p.startNode(KindWithClause)
	p.expect(TokenWith)

	switch p.peek().Kind {
	case TokenSecurityEnforced, TokenSystemMode, TokenUserMode:
		node.AddChild(p.terminal(KindIdentifier))
	case TokenData:
		p.advance()
		p.expect(TokenCategory)
		node.AddChild(p.parseDataCategoryFilter())
	case TokenDivision, TokenPricebookID, TokenMetadata, TokenSpellCorrection:
		node.AddChild(p.terminal(KindIdentifier))
		p.expect(TokenAssign)
		if p.match(TokenStringLiteral, TokenTrue, TokenFalse) {
			node.AddChild(p.terminal(KindLiteral))
		} else {
			p.report(p.peek(), mismatched(p.peek(), "StringLiteral"))
		}
	case TokenSnippet:
		node.AddChild(p.terminal(KindIdentifier))
		if p.check(TokenLParen) {
			p.advance()
			p.expect(TokenTargetLength)
			p.expect(TokenAssign)
			if p.check(TokenIntegerLiteral) {
				node.AddChild(p.terminal(KindLiteral))
			}
			p.expect(TokenRParen)
		}
	case TokenNetwork:
		node.AddChild(p.terminal(KindIdentifier))
		if p.check(TokenIn) {
			p.advance()
			node.AddChild(p.parseValueList())
		} else {
			p.expect(TokenAssign)
			if p.check(TokenStringLiteral) {
				node.AddChild(p.terminal(KindLiteral))
			}
		}
	default:
		node.AddChild(p.parseLogicalExpr())
	}
	return p.finishNode(node)
}

func (p *Parser) parseDataCategoryFilter() *Node {
	node := p.startNode(KindDataCategoryFilter)
	for {
		progress := p.mustProgress()
		sel := p.startNode(KindDataCategorySelection)
		sel.AddChild(p.expectIdentifier())
		if p.match(TokenAtKw, TokenAbove, TokenBelow, TokenAboveOrBelow) {
			sel.AddChild(p.terminal(KindOperator))
		} else {
			p.report(p.peek(), mismatched(p.peek(), "{'at', 'above', 'below', 'above_or_below'}"))
		}
		if p.check(TokenLParen) {
			p.advance()
			for {
				sel.AddChild(p.expectIdentifier())
				if !p.check(TokenComma) {
					break
				}
				p.advance()
			}
			p.expect(TokenRParen)
		} else {
			sel.AddChild(p.expectIdentifier())
		}
		node.AddChild(p.finishNode(sel))
		if !p.check(TokenSoqlAnd) {
			break
		}
		p.advance()
		if !progress() {
			break
		}
	}
	return p.finishNode(node)
}

func (p *Parser) parseGroupByClause() *Node {
	node := p.startNode(KindGroupByClause)
	p.expect(TokenGroup)
	p.expect(TokenBy)
	if p.match(TokenRollup, TokenCube) && p.peekN(1).Kind == TokenLParen {
		node.AddChild(p.terminal(KindIdentifier))
		p.advance()
		p.parseFieldNameList(node)
		p.expect(TokenRParen)
	} else {
		node.AddChild(p.parseSelectList(KindSelectList))
	}
	if p.check(TokenHaving) {
		having := p.startNode(KindHavingClause)
		p.advance()
		having.AddChild(p.parseLogicalExpr())
		node.AddChild(p.finishNode(having))
	}
	return p.finishNode(node)
}

func (p *Parser) parseOrderByClause() *Node {
	node := p.startNode(KindOrderByClause)
	p.expect(TokenOrder)
	p.expect(TokenBy)
	for {
		progress := p.mustProgress()
		field := p.startNode(KindOrderField)
		if p.isSoqlFunction() {
			field.AddChild(p.parseSoqlFunction())
		} else {
			field.AddChild(p.parseFieldName())
		}
		if p.match(TokenAsc, TokenDesc) {
			field.AddChild(p.terminal(KindIdentifier))
		}
		if p.check(TokenNulls) {
			p.advance()
			if p.match(TokenFirst, TokenLast) {
				field.AddChild(p.terminal(KindIdentifier))
			} else {
				p.report(p.peek(), mismatched(p.peek(), "{'first', 'last'}"))
			}
		}
		node.AddChild(p.finishNode(field))
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

// parseLimitClause parses LIMIT or OFFSET with a number or a bind.
func (p *Parser) parseLimitClause(kind NodeKind) *Node {
	node := p.startNode(kind)
	p.advance()
	switch {
	case p.check(TokenIntegerLiteral):
		node.AddChild(p.terminal(KindLiteral))
	case p.check(TokenColon):
		node.AddChild(p.parseBoundExpr())
	default:
		p.report(p.peek(), mismatched(p.peek(), "IntegerLiteral"))
	}
	return p.finishNode(node)
}

func (p *Parser) parseUpdateClause() *Node {
	node := p.startNode(KindUpdateClause)
	p.expect(TokenUpdate)
	for {
		if !p.match(TokenTracking, TokenViewStat) {
			p.report(p.peek(), mismatched(p.peek(), "{'tracking', 'viewstat'}"))
			break
		}
		node.AddChild(p.terminal(KindIdentifier))
		if !p.check(TokenComma) {
			break
		}
		p.advance()
	}
	return p.finishNode(node)
}
