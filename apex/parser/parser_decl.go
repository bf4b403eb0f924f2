package parser

// startNodeFrom starts a node whose span begins at first, when present,
// rather than at the current token.
func (p *Parser) startNodeFrom(kind NodeKind, first *Node) *Node {
	node := p.startNode(kind)
	if first != nil {
		node.Span.Start = first.Span.Start
	}
	return node
}

func (p *Parser) expectEOF() *Node {
	if p.check(TokenEOF) {
		return nil
	}
	tok := p.peek()
	node := p.errorNode(mismatched(tok, "<EOF>"))
	for !p.check(TokenEOF) {
		p.skip()
	}
	return p.finishNode(node)
}

func (p *Parser) parseCompilationUnit() *Node {
	node := p.startNode(KindCompilationUnit)
	// The type declaration is optional; modifiers alone still need one.
	if p.check(TokenEOF) {
		return p.finishNode(node)
	}
	node.AddChild(p.parseTypeDecl())
	node.AddChild(p.expectEOF())
	return p.finishNode(node)
}

func (p *Parser) parseTypeDecl() *Node {
	modifiers := p.parseModifiers()
	switch p.peek().Kind {
	case TokenClass:
		return p.parseClassDecl(modifiers)
	case TokenInterface:
		return p.parseInterfaceDecl(modifiers)
	case TokenEnum:
		return p.parseEnumDecl(modifiers)
	}
	tok := p.peek()
	node := p.errorNode(mismatched(tok, "{'class', 'interface', 'enum'}"))
	node.AddChild(modifiers)
	return node
}

// parseTriggerUnit parses
//
//	trigger Name on SObject (before insert, after update, ...) { ... }
func (p *Parser) parseTriggerUnit() *Node {
	node := p.startNode(KindTriggerUnit)
	p.expect(TokenTrigger)
	node.AddChild(p.expectIdentifier())
	p.expect(TokenOn)
	node.AddChild(p.expectIdentifier())
	p.expect(TokenLParen)
	for {
		progress := p.mustProgress()
		node.AddChild(p.parseTriggerCase())
		if !p.check(TokenComma) {
			break
		}
		p.advance()
		if !progress() {
			break
		}
	}
	p.expect(TokenRParen)
	node.AddChild(p.parseMemberBlock(KindBlock))
	node.AddChild(p.expectEOF())
	return p.finishNode(node)
}

func (p *Parser) parseTriggerCase() *Node {
	node := p.startNode(KindTriggerCase)
	if p.match(TokenBefore, TokenAfter) {
		node.AddChild(p.terminal(KindIdentifier))
	} else {
		tok := p.peek()
		p.report(tok, mismatched(tok, "{'before', 'after'}"))
	}
	if p.match(TokenInsert, TokenUpdate, TokenDelete, TokenUndelete) {
		node.AddChild(p.terminal(KindIdentifier))
	} else {
		tok := p.peek()
		p.report(tok, mismatched(tok, "{'insert', 'update', 'delete', 'undelete'}"))
	}
	return p.finishNode(node)
}

// parseMemberBlock parses a braced mix of member declarations and
// statements, as in a trigger body.
func (p *Parser) parseMemberBlock(kind NodeKind) *Node {
	node := p.startNode(kind)
	p.expect(TokenLBrace)
	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		node.AddChild(p.parseBlockMember())
		progress()
	}
	p.expect(TokenRBrace)
	return p.finishNode(node)
}

// parseAnonymousUnit parses an anonymous block: statements and member
// declarations in any order. Empty input is valid.
func (p *Parser) parseAnonymousUnit() *Node {
	node := p.startNode(KindAnonymousUnit)
	for !p.check(TokenEOF) {
		progress := p.mustProgress()
		node.AddChild(p.parseBlockMember())
		progress()
	}
	return p.finishNode(node)
}

func (p *Parser) parseBlockMember() *Node {
	if p.isMemberDecl() {
		return p.parseMemberDecl(p.parseModifiers())
	}
	return p.parseBlockStatement()
}

// isMemberDecl decides between a member declaration and a statement in
// trigger and anonymous bodies. Unmodified `Type name = ...;` stays a
// local variable statement.
func (p *Parser) isMemberDecl() bool {
	defer p.mark()()

	hasModifiers := false
	for {
		if p.check(TokenAt) {
			p.parseAnnotation()
		} else if p.isModifierStart() {
			p.parseModifier()
		} else {
			break
		}
		hasModifiers = true
	}
	switch p.peek().Kind {
	case TokenClass, TokenInterface, TokenEnum, TokenVoid:
		return true
	}
	if !p.skipType() {
		return false
	}
	if !p.isIdentifierLike() {
		return false
	}
	switch p.peekN(1).Kind {
	case TokenLParen, TokenLBrace:
		return true
	case TokenSemicolon, TokenAssign, TokenComma:
		return hasModifiers
	}
	return false
}

func (p *Parser) isModifierStart() bool {
	switch p.peek().Kind {
	case TokenGlobal, TokenPublic, TokenProtected, TokenPrivate, TokenTransient,
		TokenStatic, TokenAbstract, TokenFinal, TokenWebService, TokenOverride,
		TokenVirtual, TokenTestMethod:
		return true
	case TokenWith, TokenWithout, TokenInherited:
		return p.peekN(1).Kind == TokenSharing
	}
	return false
}

func (p *Parser) parseModifiers() *Node {
	node := p.startNode(KindModifiers)
	for {
		switch {
		case p.check(TokenAt):
			node.AddChild(p.parseAnnotation())
		case p.isModifierStart():
			node.AddChild(p.parseModifier())
		default:
			if len(node.Children) == 0 {
				return nil
			}
			return p.finishNode(node)
		}
	}
}

// parseModifier consumes one modifier. The two-word sharing modifiers
// become a single terminal spanning both words.
func (p *Parser) parseModifier() *Node {
	first := p.advance()
	if first.Kind == TokenWith || first.Kind == TokenWithout || first.Kind == TokenInherited {
		last := p.advance()
		first.Span.End = last.Span.End
		first.Literal = p.src.Text(first.Span.Start.Offset, last.Span.End.Offset)
	}
	return &Node{Kind: KindModifier, Token: &first, Span: first.Span}
}

func (p *Parser) parseAnnotation() *Node {
	node := p.startNode(KindAnnotation)
	p.expect(TokenAt)
	node.AddChild(p.parseQualifiedName())
	if !p.check(TokenLParen) {
		return p.finishNode(node)
	}
	p.advance()
	if p.isAnyIdentifier() && p.peekN(1).Kind == TokenAssign {
		for p.isAnyIdentifier() && p.peekN(1).Kind == TokenAssign {
			node.AddChild(p.parseAnnotationElement())
			if p.check(TokenComma) {
				p.advance()
			}
		}
	} else if !p.check(TokenRParen) {
		node.AddChild(p.parseAnnotationValue())
	}
	p.expect(TokenRParen)
	return p.finishNode(node)
}

func (p *Parser) parseAnnotationElement() *Node {
	node := p.startNode(KindAnnotationElement)
	node.AddChild(p.expectAnyIdentifier())
	p.expect(TokenAssign)
	node.AddChild(p.parseAnnotationValue())
	return p.finishNode(node)
}

func (p *Parser) parseAnnotationValue() *Node {
	switch p.peek().Kind {
	case TokenAt:
		return p.parseAnnotation()
	case TokenLBrace:
		node := p.startNode(KindAnnotationArray)
		p.advance()
		for !p.check(TokenRBrace) && !p.check(TokenEOF) {
			progress := p.mustProgress()
			node.AddChild(p.parseAnnotationValue())
			if !p.check(TokenComma) {
				break
			}
			p.advance()
			if !progress() {
				break
			}
		}
		p.expect(TokenRBrace)
		return p.finishNode(node)
	}
	return p.parseTernaryExpr()
}

func (p *Parser) parseQualifiedName() *Node {
	node := p.startNode(KindQualifiedName)
	node.AddChild(p.expectIdentifier())
	for p.check(TokenDot) {
		p.advance()
		node.AddChild(p.expectAnyIdentifier())
	}
	return p.finishNode(node)
}

func (p *Parser) parseClassDecl(modifiers *Node) *Node {
	node := p.startNodeFrom(KindClassDecl, modifiers)
	node.AddChild(modifiers)
	p.expect(TokenClass)
	node.AddChild(p.expectIdentifier())

	if p.check(TokenExtends) {
		ext := p.startNode(KindExtendsClause)
		p.advance()
		ext.AddChild(p.parseType())
		node.AddChild(p.finishNode(ext))
	}
	if p.check(TokenImplements) {
		node.AddChild(p.parseTypeListClause(KindImplementsClause))
	}

	p.parseClassBody(node)
	return p.finishNode(node)
}

func (p *Parser) parseTypeListClause(kind NodeKind) *Node {
	node := p.startNode(kind)
	p.advance()
	for {
		progress := p.mustProgress()
		node.AddChild(p.parseType())
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

// parseClassBody adds the members between braces directly to owner.
func (p *Parser) parseClassBody(owner *Node) {
	p.expect(TokenLBrace)
	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		owner.AddChild(p.parseClassMember())
		progress()
	}
	p.expect(TokenRBrace)
}

func (p *Parser) parseClassMember() *Node {
	switch {
	case p.check(TokenSemicolon):
		return p.terminal(KindEmptyStmt)
	case p.check(TokenLBrace):
		node := p.startNode(KindInitializerBlock)
		node.AddChild(p.parseBlock())
		return p.finishNode(node)
	case p.check(TokenStatic) && p.peekN(1).Kind == TokenLBrace:
		node := p.startNode(KindInitializerBlock)
		node.AddChild(p.terminal(KindModifier))
		node.AddChild(p.parseBlock())
		return p.finishNode(node)
	}
	return p.parseMemberDecl(p.parseModifiers())
}

var memberRecovery = []TokenKind{
	TokenAt, TokenGlobal, TokenPublic, TokenProtected, TokenPrivate, TokenStatic,
	TokenAbstract, TokenFinal, TokenOverride, TokenVirtual, TokenTestMethod,
	TokenWebService, TokenTransient, TokenClass, TokenInterface, TokenEnum, TokenVoid,
}

func (p *Parser) parseMemberDecl(modifiers *Node) *Node {
	switch p.peek().Kind {
	case TokenClass:
		return p.parseClassDecl(modifiers)
	case TokenInterface:
		return p.parseInterfaceDecl(modifiers)
	case TokenEnum:
		return p.parseEnumDecl(modifiers)
	case TokenVoid:
		void := p.startNode(KindType)
		void.AddChild(p.terminal(KindIdentifier))
		return p.parseMethod(modifiers, p.finishNode(void))
	}

	if p.isIdentifierLike() && p.peekN(1).Kind == TokenLParen {
		return p.parseConstructor(modifiers)
	}
	if !p.isIdentifierLike() {
		node := p.errorNode(noViableAlt(p.peek()), memberRecovery...)
		node.AddChild(modifiers)
		return node
	}

	typ := p.parseType()
	if p.isIdentifierLike() {
		switch p.peekN(1).Kind {
		case TokenLParen:
			return p.parseMethod(modifiers, typ)
		case TokenLBrace:
			return p.parseProperty(modifiers, typ)
		}
	}
	return p.parseField(modifiers, typ)
}

func (p *Parser) parseInterfaceDecl(modifiers *Node) *Node {
	node := p.startNodeFrom(KindInterfaceDecl, modifiers)
	node.AddChild(modifiers)
	p.expect(TokenInterface)
	node.AddChild(p.expectIdentifier())
	if p.check(TokenExtends) {
		node.AddChild(p.parseTypeListClause(KindExtendsClause))
	}
	p.parseClassBody(node)
	return p.finishNode(node)
}

func (p *Parser) parseEnumDecl(modifiers *Node) *Node {
	node := p.startNodeFrom(KindEnumDecl, modifiers)
	node.AddChild(modifiers)
	p.expect(TokenEnum)
	node.AddChild(p.expectIdentifier())
	p.expect(TokenLBrace)
	for p.isIdentifierLike() {
		progress := p.mustProgress()
		constant := p.startNode(KindEnumConstant)
		constant.AddChild(p.expectIdentifier())
		node.AddChild(p.finishNode(constant))
		if !p.check(TokenComma) {
			break
		}
		p.advance()
		if !progress() {
			break
		}
	}
	p.expect(TokenRBrace)
	return p.finishNode(node)
}

func (p *Parser) parseConstructor(modifiers *Node) *Node {
	node := p.startNodeFrom(KindConstructorDecl, modifiers)
	node.AddChild(modifiers)
	node.AddChild(p.expectIdentifier())
	node.AddChild(p.parseParameters())
	node.AddChild(p.parseBlock())
	return p.finishNode(node)
}

func (p *Parser) parseMethod(modifiers, returnType *Node) *Node {
	node := p.startNodeFrom(KindMethodDecl, modifiers)
	if modifiers == nil {
		node.Span.Start = returnType.Span.Start
	}
	node.AddChild(modifiers)
	node.AddChild(returnType)
	node.AddChild(p.expectIdentifier())
	node.AddChild(p.parseParameters())
	if p.check(TokenSemicolon) {
		p.advance()
	} else {
		node.AddChild(p.parseBlock())
	}
	return p.finishNode(node)
}

func (p *Parser) parseProperty(modifiers, typ *Node) *Node {
	node := p.startNodeFrom(KindPropertyDecl, modifiers)
	if modifiers == nil {
		node.Span.Start = typ.Span.Start
	}
	node.AddChild(modifiers)
	node.AddChild(typ)
	node.AddChild(p.expectIdentifier())
	p.expect(TokenLBrace)
	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		node.AddChild(p.parsePropertyAccessor())
		progress()
	}
	p.expect(TokenRBrace)
	return p.finishNode(node)
}

func (p *Parser) parsePropertyAccessor() *Node {
	node := p.startNode(KindPropertyAccessor)
	node.AddChild(p.parseModifiers())
	if !p.match(TokenGet, TokenSet) {
		return p.errorNode(mismatched(p.peek(), "{'get', 'set'}"), TokenGet, TokenSet)
	}
	node.AddChild(p.terminal(KindIdentifier))
	if p.check(TokenSemicolon) {
		p.advance()
	} else {
		node.AddChild(p.parseBlock())
	}
	return p.finishNode(node)
}

func (p *Parser) parseField(modifiers, typ *Node) *Node {
	node := p.startNodeFrom(KindFieldDecl, modifiers)
	if modifiers == nil {
		node.Span.Start = typ.Span.Start
	}
	node.AddChild(modifiers)
	node.AddChild(typ)
	p.parseVariableDeclarators(node)
	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseVariableDeclarators(owner *Node) {
	for {
		progress := p.mustProgress()
		decl := p.startNode(KindVariableDeclarator)
		decl.AddChild(p.expectIdentifier())
		if p.check(TokenAssign) {
			p.advance()
			decl.AddChild(p.parseExpression())
		}
		owner.AddChild(p.finishNode(decl))
		if !p.check(TokenComma) {
			break
		}
		p.advance()
		if !progress() {
			break
		}
	}
}

func (p *Parser) parseParameters() *Node {
	node := p.startNode(KindParameters)
	p.expect(TokenLParen)
	for !p.check(TokenRParen) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		param := p.startNode(KindParameter)
		param.AddChild(p.parseModifiers())
		param.AddChild(p.parseType())
		param.AddChild(p.expectIdentifier())
		node.AddChild(p.finishNode(param))
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

// parseType parses a type reference such as Map<Id, List<Account>>,
// Schema.SObjectType or String[].
func (p *Parser) parseType() *Node {
	node := p.startNode(KindType)
	for {
		name := p.startNode(KindTypeName)
		name.AddChild(p.expectIdentifier())
		if p.check(TokenLT) {
			name.AddChild(p.parseTypeArguments())
		}
		node.AddChild(p.finishNode(name))
		if !p.check(TokenDot) || !isIdentifierKind(p.peekN(1)) {
			break
		}
		p.advance()
	}
	if p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket {
		dims := p.startNode(KindArrayDims)
		for p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket {
			p.advance()
			p.advance()
		}
		node.AddChild(p.finishNode(dims))
	}
	return p.finishNode(node)
}

func (p *Parser) parseTypeArguments() *Node {
	node := p.startNode(KindTypeArguments)
	p.expect(TokenLT)
	for {
		progress := p.mustProgress()
		node.AddChild(p.parseType())
		if !p.check(TokenComma) {
			break
		}
		p.advance()
		if !progress() {
			break
		}
	}
	p.expect(TokenGT)
	return p.finishNode(node)
}

// skipType consumes a type reference during lookahead and reports
// whether one was there.
func (p *Parser) skipType() bool {
	for {
		if !p.isIdentifierLike() {
			return false
		}
		p.advance()
		if p.check(TokenLT) && !p.skipTypeArguments() {
			return false
		}
		if !p.check(TokenDot) || !isIdentifierKind(p.peekN(1)) {
			break
		}
		p.advance()
	}
	for p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket {
		p.advance()
		p.advance()
	}
	return true
}

func (p *Parser) skipTypeArguments() bool {
	p.advance()
	for {
		if !p.skipType() {
			return false
		}
		if !p.check(TokenComma) {
			break
		}
		p.advance()
	}
	if !p.check(TokenGT) {
		return false
	}
	p.advance()
	return true
}
