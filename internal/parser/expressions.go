package parser

import (
	"strconv"
	"strings"

	"github.com/tsgoscript/tscore/internal/ast"
	"github.com/tsgoscript/tscore/internal/token"
)

// precedence levels, lowest to highest.
const (
	precLowest = iota
	precAssign
	precConditional
	precNullish
	precLogicalOr
	precLogicalAnd
	precBitOr
	precBitXor
	precBitAnd
	precEquality
	precRelational
	precShift
	precAdditive
	precMultiplicative
	precExponent
	precUnary
	precPostfix
	precCall
)

var binPrec = map[token.Kind]int{
	token.QUESTIONQUESTION: precNullish,
	token.PIPEPIPE:         precLogicalOr,
	token.AMPAMP:           precLogicalAnd,
	token.PIPE:             precBitOr,
	token.CARET:            precBitXor,
	token.AMP:              precBitAnd,
	token.EQ:               precEquality,
	token.NEQ:              precEquality,
	token.EQEQEQ:           precEquality,
	token.NEQEQ:            precEquality,
	token.LT:               precRelational,
	token.LTE:              precRelational,
	token.GT:               precRelational,
	token.GTE:              precRelational,
	token.INSTANCEOF:       precRelational,
	token.IN:               precRelational,
	token.SHL:              precShift,
	token.SHR:              precShift,
	token.USHR:             precShift,
	token.PLUS:             precAdditive,
	token.MINUS:            precAdditive,
	token.STAR:             precMultiplicative,
	token.SLASH:            precMultiplicative,
	token.PERCENT:          precMultiplicative,
	token.STARSTAR:         precExponent,
}

var assignOps = map[token.Kind]bool{
	token.ASSIGN: true, token.PLUSEQ: true, token.MINUSEQ: true,
	token.STAREQ: true, token.SLASHEQ: true, token.PERCENTEQ: true,
	token.AMPEQ: true, token.PIPEEQ: true, token.CARETEQ: true,
	token.SHLEQ: true, token.SHREQ: true, token.USHREQ: true,
	token.AMPAMPEQ: true, token.PIPEPIPEEQ: true, token.QUESTIONQUESTIONEQ: true,
	token.STARSTAREQ: true,
}

func (p *Parser) parseExpression() ast.Expression {
	return p.parseAssignExpression()
}

func (p *Parser) parseAssignExpression() ast.Expression {
	if p.at(token.LPAREN) || p.at(token.LT) || p.at(token.IDENT) || p.at(token.ASYNC) {
		if arrow, ok := p.tryParseArrowFunction(); ok {
			return arrow
		}
	}
	left := p.parseConditionalExpression()
	if assignOps[p.cur().Kind] {
		tok := p.advance()
		right := p.parseAssignExpression()
		return &ast.AssignmentExpression{Tok: tok, Left: left, Operator: tok.Literal, Right: right}
	}
	return left
}

func (p *Parser) parseConditionalExpression() ast.Expression {
	cond := p.parseBinaryExpression(precLowest + 1)
	if p.at(token.QUESTION) {
		tok := p.advance()
		then := p.parseAssignExpression()
		p.expect(token.COLON)
		els := p.parseAssignExpression()
		return &ast.ConditionalExpression{Tok: tok, Condition: cond, Then: then, Else: els}
	}
	return cond
}

func (p *Parser) parseBinaryExpression(minPrec int) ast.Expression {
	left := p.parseUnaryExpression()
	for {
		prec, ok := binPrec[p.cur().Kind]
		if !ok || prec < minPrec {
			return left
		}
		tok := p.advance()
		nextMin := prec + 1
		if tok.Kind == token.STARSTAR {
			nextMin = prec // right-associative
		}
		right := p.parseBinaryExpression(nextMin)
		left = &ast.InfixExpression{Tok: tok, Left: left, Operator: tok.Literal, Right: right}
	}
}

var unaryOps = map[token.Kind]bool{
	token.BANG: true, token.MINUS: true, token.PLUS: true, token.TILDE: true,
	token.TYPEOF: true, token.VOID: true, token.DELETE: true,
	token.PLUSPLUS: true, token.MINUSMINUS: true,
}

func (p *Parser) parseUnaryExpression() ast.Expression {
	if p.at(token.AWAIT) {
		tok := p.advance()
		return &ast.AwaitExpression{Tok: tok, Value: p.parseUnaryExpression()}
	}
	if unaryOps[p.cur().Kind] {
		tok := p.advance()
		right := p.parseUnaryExpression()
		return &ast.PrefixExpression{Tok: tok, Operator: tok.Literal, Right: right}
	}
	return p.parsePostfixExpression()
}

func (p *Parser) parsePostfixExpression() ast.Expression {
	left := p.parseCallOrMemberExpression(p.parsePrimaryExpression())
	if p.at(token.PLUSPLUS) || p.at(token.MINUSMINUS) {
		tok := p.advance()
		return &ast.PostfixExpression{Tok: tok, Operator: tok.Literal, Left: left}
	}
	return left
}

func (p *Parser) parseCallOrMemberExpression(callee ast.Expression) ast.Expression {
	for {
		switch {
		case p.at(token.DOT):
			tok := p.advance()
			var prop ast.Expression
			if p.at(token.HASH) {
				p.advance()
				name := p.expect(token.IDENT)
				prop = &ast.PrivateIdentifier{Tok: name, Value: "#" + name.Literal}
			} else {
				name := p.advance()
				prop = &ast.Identifier{Tok: name, Value: name.Literal}
			}
			callee = &ast.MemberExpression{Tok: tok, Object: callee, Property: prop}
		case p.at(token.QUESTIONDOT):
			tok := p.advance()
			if p.at(token.LPAREN) {
				args := p.parseArguments()
				callee = &ast.CallExpression{Tok: tok, Callee: callee, Arguments: args, Optional: true}
				continue
			}
			if p.at(token.LBRACKET) {
				p.advance()
				idx := p.parseExpression()
				p.expect(token.RBRACKET)
				callee = &ast.MemberExpression{Tok: tok, Object: callee, Property: idx, Computed: true, Optional: true}
				continue
			}
			name := p.advance()
			callee = &ast.MemberExpression{Tok: tok, Object: callee, Property: &ast.Identifier{Tok: name, Value: name.Literal}, Optional: true}
		case p.at(token.LBRACKET):
			tok := p.advance()
			idx := p.parseExpression()
			p.expect(token.RBRACKET)
			callee = &ast.MemberExpression{Tok: tok, Object: callee, Property: idx, Computed: true}
		case p.at(token.LPAREN):
			tok := p.cur()
			args := p.parseArguments()
			callee = &ast.CallExpression{Tok: tok, Callee: callee, Arguments: args}
		case p.at(token.BANG):
			tok := p.advance()
			callee = &ast.NonNullExpression{Tok: tok, Value: callee}
		case p.at(token.AS):
			tok := p.advance()
			if p.at(token.CONST) {
				p.advance()
				callee = &ast.AsExpression{Tok: tok, Value: callee, AsConst: true}
				continue
			}
			t := p.parseType()
			callee = &ast.AsExpression{Tok: tok, Value: callee, Type: t}
		case p.at(token.SATISFIES):
			tok := p.advance()
			t := p.parseType()
			callee = &ast.SatisfiesExpression{Tok: tok, Value: callee, Type: t}
		case p.at(token.LT):
			save := p.save()
			if args, ok := p.tryParseTypeArgs(); ok && p.at(token.LPAREN) {
				callTok := p.cur()
				callArgs := p.parseArguments()
				callee = &ast.CallExpression{Tok: callTok, Callee: callee, Arguments: callArgs, TypeArgs: args}
				continue
			}
			p.restore(save)
			return callee
		default:
			return callee
		}
	}
}

func (p *Parser) parseArguments() []ast.Argument {
	p.expect(token.LPAREN)
	var args []ast.Argument
	for !p.at(token.RPAREN) {
		a := ast.Argument{}
		if p.at(token.DOTDOTDOT) {
			p.advance()
			a.Spread = true
		}
		a.Expr = p.parseAssignExpression()
		args = append(args, a)
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)
	return args
}

func (p *Parser) parsePrimaryExpression() ast.Expression {
	tok := p.cur()
	switch tok.Kind {
	case token.NUMBER:
		p.advance()
		return numberLiteral(tok)
	case token.STRING:
		p.advance()
		return &ast.StringLiteral{Tok: tok, Value: tok.Literal}
	case token.TEMPLATE_STRING:
		return p.parseTemplateLiteral()
	case token.TRUE, token.FALSE:
		p.advance()
		return &ast.BooleanLiteral{Tok: tok, Value: tok.Kind == token.TRUE}
	case token.NULL:
		p.advance()
		return &ast.NullLiteral{Tok: tok}
	case token.UNDEFINED:
		p.advance()
		return &ast.UndefinedLiteral{Tok: tok}
	case token.THIS:
		p.advance()
		return &ast.ThisExpression{Tok: tok}
	case token.SUPER:
		p.advance()
		return &ast.SuperExpression{Tok: tok}
	case token.HASH:
		p.advance()
		name := p.expect(token.IDENT)
		return &ast.PrivateIdentifier{Tok: name, Value: "#" + name.Literal}
	case token.IDENT, token.GET, token.SET, token.OF, token.STATIC,
		token.TYPE, token.AS, token.IS, token.NAMESPACE, token.DECLARE,
		token.READONLY, token.ABSTRACT, token.ASSERTS, token.SATISFIES, token.INFER:
		p.advance()
		return &ast.Identifier{Tok: tok, Value: tok.Literal}
	case token.LPAREN:
		p.advance()
		expr := p.parseExpression()
		p.expect(token.RPAREN)
		return &ast.GroupedExpression{Tok: tok, Value: expr}
	case token.LBRACKET:
		return p.parseArrayLiteral()
	case token.LBRACE:
		return p.parseObjectLiteral()
	case token.FUNCTION:
		return p.parseFunctionExpression(false)
	case token.ASYNC:
		p.advance()
		if !p.at(token.FUNCTION) {
			return &ast.Identifier{Tok: tok, Value: tok.Literal}
		}
		p.expect(token.FUNCTION)
		return p.parseFunctionExpressionBody(true)
	case token.NEW:
		return p.parseNewExpression()
	case token.CLASS:
		return p.parseClassExpression()
	}
	panic(&SyntaxError{Pos: tok.Pos, Message: "unexpected token in expression: " + tok.Kind.String()})
}

func numberLiteral(tok token.Token) *ast.NumberLiteral {
	raw := tok.Literal
	isBig := strings.HasSuffix(raw, "n")
	literal := strings.TrimSuffix(raw, "n")
	var v float64
	if strings.HasPrefix(literal, "0x") || strings.HasPrefix(literal, "0X") {
		if n, err := strconv.ParseInt(literal[2:], 16, 64); err == nil {
			v = float64(n)
		}
	} else if f, err := strconv.ParseFloat(literal, 64); err == nil {
		v = f
	}
	return &ast.NumberLiteral{Tok: tok, Value: v, Raw: raw, IsBig: isBig}
}

func (p *Parser) parseTemplateLiteral() ast.Expression {
	tok := p.advance()
	quasis, exprs := splitTemplate(tok.Literal)
	t := &ast.TemplateLiteral{Tok: tok, Quasis: quasis}
	for _, e := range exprs {
		sub := New(e, p.file)
		t.Expressions = append(t.Expressions, sub.parseExpression())
	}
	return t
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	tok := p.expect(token.LBRACKET)
	arr := &ast.ArrayLiteral{Tok: tok}
	for !p.at(token.RBRACKET) {
		el := ast.ArrayElement{}
		if p.at(token.DOTDOTDOT) {
			p.advance()
			el.Spread = true
		}
		el.Expr = p.parseAssignExpression()
		arr.Elements = append(arr.Elements, el)
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACKET)
	return arr
}

func (p *Parser) parseObjectLiteral() ast.Expression {
	tok := p.expect(token.LBRACE)
	obj := &ast.ObjectLiteral{Tok: tok}
	for !p.at(token.RBRACE) {
		prop := ast.ObjectProperty{}
		if p.at(token.DOTDOTDOT) {
			p.advance()
			prop.Spread = true
			prop.Value = p.parseAssignExpression()
			obj.Properties = append(obj.Properties, prop)
			if !p.accept(token.COMMA) {
				break
			}
			continue
		}
		isAsync, isGetter, isSetter := false, false, false
		if p.at(token.ASYNC) && p.peek().Kind != token.COLON && p.peek().Kind != token.COMMA && p.peek().Kind != token.RBRACE {
			p.advance()
			isAsync = true
		}
		if p.at(token.GET) && p.peek().Kind != token.COLON && p.peek().Kind != token.COMMA && p.peek().Kind != token.RBRACE && p.peek().Kind != token.LPAREN {
			p.advance()
			isGetter = true
		} else if p.at(token.SET) && p.peek().Kind != token.COLON && p.peek().Kind != token.COMMA && p.peek().Kind != token.RBRACE && p.peek().Kind != token.LPAREN {
			p.advance()
			isSetter = true
		}
		if p.at(token.LBRACKET) {
			p.advance()
			prop.Key = p.parseAssignExpression()
			p.expect(token.RBRACKET)
			prop.Computed = true
		} else {
			keyTok := p.advance()
			if keyTok.Kind == token.STRING {
				prop.Key = &ast.StringLiteral{Tok: keyTok, Value: keyTok.Literal}
			} else if keyTok.Kind == token.NUMBER {
				prop.Key = numberLiteral(keyTok)
			} else {
				prop.Key = &ast.Identifier{Tok: keyTok, Value: keyTok.Literal}
			}
		}
		switch {
		case p.at(token.LPAREN):
			prop.Method = true
			prop.Value = p.parseFunctionLike(isAsync)
			_ = isGetter
			_ = isSetter
		case p.accept(token.COLON):
			prop.Value = p.parseAssignExpression()
		default:
			prop.Shorthand = true
			if id, ok := prop.Key.(*ast.Identifier); ok {
				prop.Value = id
			}
		}
		obj.Properties = append(obj.Properties, prop)
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACE)
	return obj
}

// parseFunctionLike parses `(params): T { body }` as used for object-literal
// methods, returning it wrapped as a FunctionExpression.
func (p *Parser) parseFunctionLike(isAsync bool) *ast.FunctionExpression {
	tok := p.cur()
	fe := &ast.FunctionExpression{Tok: tok, IsAsync: isAsync}
	if p.at(token.LT) {
		fe.TypeParams = p.parseTypeParams()
	}
	fe.Params = p.parseParamList()
	if p.accept(token.COLON) {
		fe.ReturnType = p.parseType()
	}
	fe.Body = p.parseBlockStatement()
	return fe
}

func (p *Parser) parseFunctionExpression(isAsync bool) ast.Expression {
	p.expect(token.FUNCTION)
	return p.parseFunctionExpressionBody(isAsync)
}

func (p *Parser) parseFunctionExpressionBody(isAsync bool) ast.Expression {
	tok := p.cur()
	fe := &ast.FunctionExpression{Tok: tok, IsAsync: isAsync}
	if p.at(token.IDENT) {
		name := p.advance()
		fe.Name = &ast.Identifier{Tok: name, Value: name.Literal}
	}
	if p.at(token.LT) {
		fe.TypeParams = p.parseTypeParams()
	}
	fe.Params = p.parseParamList()
	if p.accept(token.COLON) {
		fe.ReturnType = p.parseType()
	}
	fe.Body = p.parseBlockStatement()
	return fe
}

func (p *Parser) parseNewExpression() ast.Expression {
	tok := p.expect(token.NEW)
	callee := p.parseCallOrMemberExpressionNoCall(p.parsePrimaryExpression())
	ne := &ast.NewExpression{Tok: tok, Callee: callee}
	if p.at(token.LT) {
		save := p.save()
		if args, ok := p.tryParseTypeArgs(); ok {
			ne.TypeArgs = args
		} else {
			p.restore(save)
		}
	}
	if p.at(token.LPAREN) {
		ne.Arguments = p.parseArguments()
	}
	return p.parseCallOrMemberExpression(ne)
}

// parseCallOrMemberExpressionNoCall parses member access only, stopping
// before a call so `new Foo(...)`'s parens attach to NewExpression rather
// than being consumed as a plain call on Foo.
func (p *Parser) parseCallOrMemberExpressionNoCall(callee ast.Expression) ast.Expression {
	for p.at(token.DOT) {
		tok := p.advance()
		name := p.advance()
		callee = &ast.MemberExpression{Tok: tok, Object: callee, Property: &ast.Identifier{Tok: name, Value: name.Literal}}
	}
	return callee
}

// tryParseArrowFunction attempts to parse `(params): T => body`,
// `ident => body`, or `async (params) => body`, restoring the cursor and
// reporting failure if the lookahead does not resolve to an arrow.
func (p *Parser) tryParseArrowFunction() (ast.Expression, bool) {
	save := p.save()
	isAsync := false
	if p.at(token.ASYNC) && p.peek().Kind != token.FUNCTION && (p.peek().Kind == token.LPAREN || p.peek().Kind == token.IDENT) {
		// only consume `async` if what follows can start an arrow param list
		asyncSave := p.save()
		p.advance()
		if !p.canStartArrowAfterAsync() {
			p.restore(asyncSave)
		} else {
			isAsync = true
		}
	}
	tok := p.cur()
	if p.at(token.IDENT) {
		name := p.cur()
		if p.peek().Kind == token.ARROW {
			p.advance()
			p.advance()
			body := p.parseArrowBody()
			return &ast.ArrowFunction{Tok: tok, Params: []*ast.Param{{Name: name.Literal, Pos: name.Pos}}, Body: body, IsAsync: isAsync}, true
		}
		p.restore(save)
		return nil, false
	}
	if !p.at(token.LPAREN) && !p.at(token.LT) {
		p.restore(save)
		return nil, false
	}
	ok := true
	var typeParams []*ast.TypeParamDecl
	var params []*ast.Param
	var retType ast.TypeExpression
	func() {
		defer func() {
			if r := recover(); r != nil {
				ok = false
			}
		}()
		if p.at(token.LT) {
			typeParams = p.parseTypeParams()
		}
		params = p.parseParamList()
		if p.accept(token.COLON) {
			retType = p.parseType()
		}
		if !p.at(token.ARROW) {
			ok = false
		}
	}()
	if !ok {
		p.restore(save)
		return nil, false
	}
	p.expect(token.ARROW)
	body := p.parseArrowBody()
	return &ast.ArrowFunction{Tok: tok, TypeParams: typeParams, Params: params, ReturnType: retType, Body: body, IsAsync: isAsync}, true
}

func (p *Parser) canStartArrowAfterAsync() bool {
	return p.at(token.LPAREN) || p.at(token.IDENT)
}

func (p *Parser) parseArrowBody() ast.Node {
	if p.at(token.LBRACE) {
		return p.parseBlockStatement()
	}
	return p.parseAssignExpression()
}

func (p *Parser) parseParamList() []*ast.Param {
	p.expect(token.LPAREN)
	var params []*ast.Param
	for !p.at(token.RPAREN) {
		params = append(params, p.parseParam())
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)
	return params
}

func (p *Parser) parseParam() *ast.Param {
	pos := p.cur().Pos
	param := &ast.Param{Pos: pos}
	for {
		switch p.cur().Kind {
		case token.PUBLIC:
			p.advance()
			param.AccessLevel = ast.AccessPublic
		case token.PRIVATE:
			p.advance()
			param.AccessLevel = ast.AccessPrivate
		case token.PROTECTED:
			p.advance()
			param.AccessLevel = ast.AccessProtected
		case token.READONLY:
			p.advance()
		default:
			goto modDone
		}
	}
modDone:
	if p.at(token.DOTDOTDOT) {
		p.advance()
		param.Rest = true
	}
	param.Name = p.advance().Literal
	if p.accept(token.QUESTION) {
		param.Optional = true
	}
	if p.accept(token.COLON) {
		param.Type = p.parseType()
	}
	if p.accept(token.ASSIGN) {
		param.Default = p.parseAssignExpression()
	}
	return param
}

func (p *Parser) parseTypeParams() []*ast.TypeParamDecl {
	p.expect(token.LT)
	var params []*ast.TypeParamDecl
	for !p.at(token.GT) {
		tp := &ast.TypeParamDecl{Name: p.expect(token.IDENT).Literal}
		if p.accept(token.EXTENDS) {
			tp.Constraint = p.parseType()
		}
		if p.accept(token.ASSIGN) {
			tp.Default = p.parseType()
		}
		params = append(params, tp)
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.GT)
	return params
}
