package parser

import (
	"github.com/tsgoscript/tscore/internal/ast"
	"github.com/tsgoscript/tscore/internal/token"
)

func (p *Parser) parseStatement() ast.Statement {
	switch p.cur().Kind {
	case token.CONST:
		if p.peek().Kind == token.ENUM {
			p.advance()
			return p.parseEnumDecl(true)
		}
		return p.parseVariableStatement()
	case token.VAR, token.LET:
		return p.parseVariableStatement()
	case token.FUNCTION:
		return p.parseFunctionDecl(false)
	case token.ASYNC:
		if p.peek().Kind == token.FUNCTION {
			p.advance()
			return p.parseFunctionDecl(true)
		}
		return p.parseExpressionStatement()
	case token.CLASS:
		return p.parseClassDecl(false)
	case token.ABSTRACT:
		if p.peek().Kind == token.CLASS {
			p.advance()
			return p.parseClassDecl(true)
		}
		return p.parseExpressionStatement()
	case token.INTERFACE:
		return p.parseInterfaceDecl()
	case token.ENUM:
		return p.parseEnumDecl(false)
	case token.TYPE:
		if p.peek().Kind == token.IDENT {
			return p.parseTypeAliasDecl()
		}
		return p.parseExpressionStatement()
	case token.NAMESPACE:
		return p.parseNamespaceDecl()
	case token.DECLARE:
		p.advance()
		return p.parseStatement()
	case token.LBRACE:
		return p.parseBlockStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement("")
	case token.DO:
		return p.parseDoWhileStatement("")
	case token.FOR:
		return p.parseForStatement("")
	case token.BREAK:
		return p.parseBreakStatement()
	case token.CONTINUE:
		return p.parseContinueStatement()
	case token.SWITCH:
		return p.parseSwitchStatement()
	case token.TRY:
		return p.parseTryStatement()
	case token.THROW:
		return p.parseThrowStatement()
	case token.SEMICOLON:
		tok := p.advance()
		return &ast.EmptyStatement{Tok: tok}
	case token.EXPORT:
		p.advance()
		if p.at(token.DEFAULT) {
			p.advance()
		}
		return p.parseStatement()
	case token.IDENT:
		if p.peek().Kind == token.COLON {
			return p.parseLabeledStatement()
		}
		return p.parseExpressionStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	tok := p.expect(token.LBRACE)
	block := &ast.BlockStatement{Tok: tok}
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		block.Statements = append(block.Statements, p.parseStatement())
	}
	p.expect(token.RBRACE)
	return block
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	tok := p.cur()
	expr := p.parseExpression()
	p.skipSemi()
	return &ast.ExpressionStatement{Tok: tok, Expr: expr}
}

func (p *Parser) parseVariableStatement() *ast.VariableStatement {
	tok := p.advance()
	kind := ast.VarVar
	switch tok.Kind {
	case token.LET:
		kind = ast.VarLet
	case token.CONST:
		kind = ast.VarConst
	}
	stmt := &ast.VariableStatement{Tok: tok, Kind: kind}
	for {
		d := &ast.VariableDeclarator{}
		name := p.expect(token.IDENT)
		d.Name = &ast.Identifier{Tok: name, Value: name.Literal}
		if p.accept(token.BANG) {
			d.DefiniteAssign = true
		}
		if p.accept(token.COLON) {
			d.Type = p.parseType()
		}
		if p.accept(token.ASSIGN) {
			d.Init = p.parseAssignExpression()
		}
		stmt.Declarators = append(stmt.Declarators, d)
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.skipSemi()
	return stmt
}

func (p *Parser) parseReturnStatement() *ast.ReturnStatement {
	tok := p.advance()
	if p.at(token.SEMICOLON) || p.at(token.RBRACE) || p.at(token.EOF) {
		p.skipSemi()
		return &ast.ReturnStatement{Tok: tok}
	}
	val := p.parseExpression()
	p.skipSemi()
	return &ast.ReturnStatement{Tok: tok, Value: val}
}

func (p *Parser) parseIfStatement() *ast.IfStatement {
	tok := p.advance()
	p.expect(token.LPAREN)
	cond := p.parseExpression()
	p.expect(token.RPAREN)
	then := p.parseStatement()
	stmt := &ast.IfStatement{Tok: tok, Condition: cond, Then: then}
	if p.accept(token.ELSE) {
		stmt.Else = p.parseStatement()
	}
	return stmt
}

func (p *Parser) parseWhileStatement(label string) *ast.WhileStatement {
	tok := p.advance()
	p.expect(token.LPAREN)
	cond := p.parseExpression()
	p.expect(token.RPAREN)
	body := p.parseStatement()
	return &ast.WhileStatement{Tok: tok, Condition: cond, Body: body, Label: label}
}

func (p *Parser) parseDoWhileStatement(label string) *ast.DoWhileStatement {
	tok := p.advance()
	body := p.parseStatement()
	p.expect(token.WHILE)
	p.expect(token.LPAREN)
	cond := p.parseExpression()
	p.expect(token.RPAREN)
	p.skipSemi()
	return &ast.DoWhileStatement{Tok: tok, Body: body, Condition: cond, Label: label}
}

// parseForStatement disambiguates classic C-style `for`, `for...of`, and
// `for...in` by speculatively parsing the init clause and checking what
// follows it.
func (p *Parser) parseForStatement(label string) ast.Statement {
	tok := p.advance()
	p.expect(token.LPAREN)

	if p.at(token.SEMICOLON) {
		p.advance()
		return p.finishForStatement(tok, nil, label)
	}

	declKind := ast.VarVar
	hasDecl := false
	switch p.cur().Kind {
	case token.VAR:
		declKind, hasDecl = ast.VarVar, true
		p.advance()
	case token.LET:
		declKind, hasDecl = ast.VarLet, true
		p.advance()
	case token.CONST:
		declKind, hasDecl = ast.VarConst, true
		p.advance()
	}

	if hasDecl {
		name := p.expect(token.IDENT)
		ident := &ast.Identifier{Tok: name, Value: name.Literal}
		var declaredType ast.TypeExpression
		if p.accept(token.COLON) {
			declaredType = p.parseType()
		}
		if p.accept(token.OF) {
			iterable := p.parseAssignExpression()
			p.expect(token.RPAREN)
			body := p.parseStatement()
			return &ast.ForOfStatement{Tok: tok, DeclKind: declKind, Declarator: ident, DeclaredType: declaredType, Iterable: iterable, Body: body, Label: label}
		}
		if p.accept(token.IN) {
			object := p.parseExpression()
			p.expect(token.RPAREN)
			body := p.parseStatement()
			return &ast.ForInStatement{Tok: tok, DeclKind: declKind, Declarator: ident, Object: object, Body: body, Label: label}
		}
		varStmt := &ast.VariableStatement{Tok: tok, Kind: declKind}
		d := &ast.VariableDeclarator{Name: ident, Type: declaredType}
		if p.accept(token.ASSIGN) {
			d.Init = p.parseAssignExpression()
		}
		varStmt.Declarators = append(varStmt.Declarators, d)
		for p.accept(token.COMMA) {
			n2 := p.expect(token.IDENT)
			d2 := &ast.VariableDeclarator{Name: &ast.Identifier{Tok: n2, Value: n2.Literal}}
			if p.accept(token.COLON) {
				d2.Type = p.parseType()
			}
			if p.accept(token.ASSIGN) {
				d2.Init = p.parseAssignExpression()
			}
			varStmt.Declarators = append(varStmt.Declarators, d2)
		}
		p.expect(token.SEMICOLON)
		return p.finishForStatement(tok, varStmt, label)
	}

	initExpr := p.parseExpression()
	if p.accept(token.OF) {
		iterable := p.parseAssignExpression()
		p.expect(token.RPAREN)
		body := p.parseStatement()
		ident, _ := initExpr.(*ast.Identifier)
		return &ast.ForOfStatement{Tok: tok, Declarator: ident, IsExisting: true, Iterable: iterable, Body: body, Label: label}
	}
	if p.accept(token.IN) {
		object := p.parseExpression()
		p.expect(token.RPAREN)
		body := p.parseStatement()
		ident, _ := initExpr.(*ast.Identifier)
		return &ast.ForInStatement{Tok: tok, Declarator: ident, Object: object, Body: body, Label: label}
	}
	p.expect(token.SEMICOLON)
	return p.finishForStatement(tok, initExpr, label)
}

func (p *Parser) finishForStatement(tok token.Token, init ast.Node, label string) *ast.ForStatement {
	stmt := &ast.ForStatement{Tok: tok, Init: init, Label: label}
	if !p.at(token.SEMICOLON) {
		stmt.Condition = p.parseExpression()
	}
	p.expect(token.SEMICOLON)
	if !p.at(token.RPAREN) {
		stmt.Update = p.parseExpression()
	}
	p.expect(token.RPAREN)
	stmt.Body = p.parseStatement()
	return stmt
}

func (p *Parser) parseBreakStatement() *ast.BreakStatement {
	tok := p.advance()
	label := ""
	if p.at(token.IDENT) {
		label = p.advance().Literal
	}
	p.skipSemi()
	return &ast.BreakStatement{Tok: tok, Label: label}
}

func (p *Parser) parseContinueStatement() *ast.ContinueStatement {
	tok := p.advance()
	label := ""
	if p.at(token.IDENT) {
		label = p.advance().Literal
	}
	p.skipSemi()
	return &ast.ContinueStatement{Tok: tok, Label: label}
}

func (p *Parser) parseLabeledStatement() *ast.LabeledStatement {
	tok := p.cur()
	label := p.advance().Literal
	p.expect(token.COLON)
	var body ast.Statement
	switch p.cur().Kind {
	case token.WHILE:
		body = p.parseWhileStatement(label)
	case token.DO:
		body = p.parseDoWhileStatement(label)
	case token.FOR:
		body = p.parseForStatement(label)
	default:
		body = p.parseStatement()
	}
	return &ast.LabeledStatement{Tok: tok, Label: label, Body: body}
}

func (p *Parser) parseSwitchStatement() *ast.SwitchStatement {
	tok := p.advance()
	p.expect(token.LPAREN)
	disc := p.parseExpression()
	p.expect(token.RPAREN)
	p.expect(token.LBRACE)
	stmt := &ast.SwitchStatement{Tok: tok, Discriminant: disc}
	for !p.at(token.RBRACE) {
		c := &ast.SwitchCase{}
		if p.accept(token.CASE) {
			c.Test = p.parseExpression()
		} else {
			p.expect(token.DEFAULT)
		}
		p.expect(token.COLON)
		for !p.at(token.CASE) && !p.at(token.DEFAULT) && !p.at(token.RBRACE) {
			c.Consequent = append(c.Consequent, p.parseStatement())
		}
		stmt.Cases = append(stmt.Cases, c)
	}
	p.expect(token.RBRACE)
	return stmt
}

func (p *Parser) parseTryStatement() *ast.TryStatement {
	tok := p.advance()
	block := p.parseBlockStatement()
	stmt := &ast.TryStatement{Tok: tok, Block: block}
	if p.accept(token.CATCH) {
		cc := &ast.CatchClause{}
		if p.accept(token.LPAREN) {
			name := p.expect(token.IDENT)
			cc.Param = &ast.Identifier{Tok: name, Value: name.Literal}
			if p.accept(token.COLON) {
				cc.Type = p.parseType()
			}
			p.expect(token.RPAREN)
		}
		cc.Body = p.parseBlockStatement()
		stmt.Catch = cc
	}
	if p.accept(token.FINALLY) {
		stmt.Finally = p.parseBlockStatement()
	}
	return stmt
}

func (p *Parser) parseThrowStatement() *ast.ThrowStatement {
	tok := p.advance()
	val := p.parseExpression()
	p.skipSemi()
	return &ast.ThrowStatement{Tok: tok, Value: val}
}
