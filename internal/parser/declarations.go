package parser

import (
	"github.com/tsgoscript/tscore/internal/ast"
	"github.com/tsgoscript/tscore/internal/token"
)

func (p *Parser) parseFunctionDecl(isAsync bool) *ast.FunctionDecl {
	tok := p.expect(token.FUNCTION)
	name := p.expect(token.IDENT)
	fd := &ast.FunctionDecl{Tok: tok, Name: &ast.Identifier{Tok: name, Value: name.Literal}, IsAsync: isAsync}
	if p.at(token.LT) {
		fd.TypeParams = p.parseTypeParams()
	}
	fd.Params = p.parseParamList()
	if p.accept(token.COLON) {
		fd.ReturnType = p.parseType()
	}
	if p.at(token.LBRACE) {
		fd.Body = p.parseBlockStatement()
	} else {
		fd.IsOverload = true
		p.skipSemi()
	}
	return fd
}

func (p *Parser) parseClassDecl(isAbstract bool) *ast.ClassDecl {
	cd := p.parseClassBody(isAbstract)
	return cd
}

func (p *Parser) parseClassExpression() ast.Expression {
	isAbstract := p.accept(token.ABSTRACT)
	cd := p.parseClassBody(isAbstract)
	return &ast.ClassExpression{ClassDecl: *cd}
}

func (p *Parser) parseClassBody(isAbstract bool) *ast.ClassDecl {
	tok := p.expect(token.CLASS)
	cd := &ast.ClassDecl{Tok: tok, IsAbstract: isAbstract}
	if p.at(token.IDENT) {
		name := p.advance()
		cd.Name = &ast.Identifier{Tok: name, Value: name.Literal}
	}
	if p.at(token.LT) {
		cd.TypeParams = p.parseTypeParams()
	}
	if p.accept(token.EXTENDS) {
		cd.Super = p.parseHeritageType()
	}
	if p.accept(token.IMPLEMENTS) {
		cd.Interfaces = append(cd.Interfaces, p.parseHeritageType())
		for p.accept(token.COMMA) {
			cd.Interfaces = append(cd.Interfaces, p.parseHeritageType())
		}
	}
	p.expect(token.LBRACE)
	for !p.at(token.RBRACE) {
		if p.accept(token.SEMICOLON) {
			continue
		}
		cd.Members = append(cd.Members, p.parseClassMember())
	}
	p.expect(token.RBRACE)
	return cd
}

func (p *Parser) parseHeritageType() *ast.HeritageType {
	name := p.expect(token.IDENT).Literal
	ht := &ast.HeritageType{Name: name}
	for p.accept(token.DOT) {
		ht.Name += "." + p.expect(token.IDENT).Literal
	}
	if p.at(token.LT) {
		save := p.save()
		if args, ok := p.tryParseTypeArgs(); ok {
			ht.TypeArgs = args
		} else {
			p.restore(save)
		}
	}
	return ht
}

func (p *Parser) parseClassMember() ast.ClassMember {
	tok := p.cur()
	access := ast.AccessNone
	isStatic, isReadonly, isAbstract, isOverride, isAsync := false, false, false, false, false
	kind := ast.MethodPlain

loop:
	for {
		switch p.cur().Kind {
		case token.PUBLIC:
			p.advance()
			access = ast.AccessPublic
		case token.PRIVATE:
			p.advance()
			access = ast.AccessPrivate
		case token.PROTECTED:
			p.advance()
			access = ast.AccessProtected
		case token.STATIC:
			p.advance()
			isStatic = true
		case token.READONLY:
			p.advance()
			isReadonly = true
		case token.ABSTRACT:
			p.advance()
			isAbstract = true
		case token.ASYNC:
			p.advance()
			isAsync = true
		default:
			break loop
		}
	}

	if p.at(token.GET) && p.peek().Kind != token.LPAREN && p.peek().Kind != token.ASSIGN && p.peek().Kind != token.COLON {
		p.advance()
		kind = ast.MethodGetter
	} else if p.at(token.SET) && p.peek().Kind != token.LPAREN && p.peek().Kind != token.ASSIGN && p.peek().Kind != token.COLON {
		p.advance()
		kind = ast.MethodSetter
	}

	var name *ast.Identifier
	var privateName *ast.PrivateIdentifier
	if p.at(token.HASH) {
		p.advance()
		n := p.expect(token.IDENT)
		privateName = &ast.PrivateIdentifier{Tok: n, Value: "#" + n.Literal}
	} else {
		n := p.advance()
		name = &ast.Identifier{Tok: n, Value: n.Literal}
		if n.Literal == "constructor" {
			kind = ast.MethodConstructor
		}
	}

	if p.at(token.LPAREN) || p.at(token.LT) {
		md := &ast.MethodDecl{Tok: tok, Name: name, PrivateName: privateName, Kind: kind, Access: access, IsStatic: isStatic, IsAbstract: isAbstract, IsOverride: isOverride, IsAsync: isAsync}
		if p.at(token.LT) {
			md.TypeParams = p.parseTypeParams()
		}
		md.Params = p.parseParamList()
		if p.accept(token.COLON) {
			md.ReturnType = p.parseType()
		}
		if p.at(token.LBRACE) {
			md.Body = p.parseBlockStatement()
		} else {
			p.skipSemi()
		}
		return md
	}

	fd := &ast.FieldDecl{Tok: tok, Name: name, PrivateName: privateName, Access: access, IsStatic: isStatic, IsReadonly: isReadonly, IsAbstract: isAbstract}
	if p.accept(token.QUESTION) {
		// optional field; tracked via nil Init and the checker's contextual narrowing
	}
	if p.accept(token.BANG) {
		// definite-assignment field marker, same relaxation as let x!: T
	}
	if p.accept(token.COLON) {
		fd.Type = p.parseType()
	}
	if p.accept(token.ASSIGN) {
		fd.Init = p.parseAssignExpression()
	}
	p.skipSemi()
	return fd
}

func (p *Parser) parseInterfaceDecl() *ast.InterfaceDecl {
	tok := p.expect(token.INTERFACE)
	name := p.expect(token.IDENT)
	id := &ast.InterfaceDecl{Tok: tok, Name: &ast.Identifier{Tok: name, Value: name.Literal}}
	if p.at(token.LT) {
		id.TypeParams = p.parseTypeParams()
	}
	if p.accept(token.EXTENDS) {
		id.Extends = append(id.Extends, p.parseHeritageType())
		for p.accept(token.COMMA) {
			id.Extends = append(id.Extends, p.parseHeritageType())
		}
	}
	p.expect(token.LBRACE)
	for !p.at(token.RBRACE) {
		if p.at(token.LBRACKET) && p.peek().Kind == token.IDENT && p.peekAt(2).Kind == token.COLON {
			p.advance()
			p.advance()
			p.expect(token.COLON)
			keyType := p.expect(token.IDENT).Literal
			p.expect(token.RBRACKET)
			p.expect(token.COLON)
			valType := p.parseType()
			if keyType == "number" {
				id.NumberIndex = valType
			} else {
				id.StringIndex = valType
			}
			p.acceptSeparator()
			continue
		}
		if p.at(token.LPAREN) {
			id.CallSigs = append(id.CallSigs, p.parseMethodSignatureType().(*ast.FunctionTypeExpr))
			p.acceptSeparator()
			continue
		}
		readonly := p.accept(token.READONLY)
		m := &ast.InterfaceMember{Name: p.parsePropertyName(), IsReadonly: readonly}
		if p.accept(token.QUESTION) {
			m.Optional = true
		}
		if p.at(token.LPAREN) {
			m.IsMethod = true
			m.Type = p.parseMethodSignatureType()
		} else {
			p.expect(token.COLON)
			m.Type = p.parseType()
		}
		id.Members = append(id.Members, m)
		p.acceptSeparator()
	}
	p.expect(token.RBRACE)
	return id
}

func (p *Parser) parseEnumDecl(isConst bool) *ast.EnumDecl {
	tok := p.expect(token.ENUM)
	name := p.expect(token.IDENT)
	ed := &ast.EnumDecl{Tok: tok, Name: &ast.Identifier{Tok: name, Value: name.Literal}, IsConst: isConst}
	p.expect(token.LBRACE)
	for !p.at(token.RBRACE) {
		mName := p.advance()
		m := &ast.EnumMember{Name: &ast.Identifier{Tok: mName, Value: mName.Literal}}
		if p.accept(token.ASSIGN) {
			m.Init = p.parseAssignExpression()
		}
		ed.Members = append(ed.Members, m)
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACE)
	return ed
}

func (p *Parser) parseTypeAliasDecl() *ast.TypeAliasDecl {
	tok := p.expect(token.TYPE)
	name := p.expect(token.IDENT)
	td := &ast.TypeAliasDecl{Tok: tok, Name: &ast.Identifier{Tok: name, Value: name.Literal}}
	if p.at(token.LT) {
		td.TypeParams = p.parseTypeParams()
	}
	p.expect(token.ASSIGN)
	td.Value = p.parseType()
	p.skipSemi()
	return td
}

func (p *Parser) parseNamespaceDecl() *ast.NamespaceDecl {
	tok := p.expect(token.NAMESPACE)
	name := p.expect(token.IDENT)
	nd := &ast.NamespaceDecl{Tok: tok, Name: &ast.Identifier{Tok: name, Value: name.Literal}}
	p.expect(token.LBRACE)
	for !p.at(token.RBRACE) {
		nd.Body = append(nd.Body, p.parseStatement())
	}
	p.expect(token.RBRACE)
	return nd
}
