package parser

import (
	"github.com/tsgoscript/tscore/internal/ast"
	"github.com/tsgoscript/tscore/internal/token"
)

// parseType parses a type expression at the lowest precedence (conditional),
// per spec §4.2's precedence order: atoms/brackets, indexed access T[K],
// array T[], intersection, union, conditional.
func (p *Parser) parseType() ast.TypeExpression {
	return p.parseConditionalType()
}

func (p *Parser) parseConditionalType() ast.TypeExpression {
	check := p.parseUnionType()
	if p.at(token.EXTENDS) {
		tok := p.advance()
		extends := p.parseUnionType()
		p.expect(token.QUESTION)
		trueBranch := p.parseType()
		p.expect(token.COLON)
		falseBranch := p.parseType()
		return &ast.ConditionalTypeExpr{Tok: tok, Check: check, Extends: extends, True: trueBranch, False: falseBranch}
	}
	return check
}

func (p *Parser) parseUnionType() ast.TypeExpression {
	tok := p.cur()
	p.accept(token.PIPE) // tolerate a leading `|`
	first := p.parseIntersectionType()
	if !p.at(token.PIPE) {
		return first
	}
	types := []ast.TypeExpression{first}
	for p.accept(token.PIPE) {
		types = append(types, p.parseIntersectionType())
	}
	return &ast.UnionTypeExpr{Tok: tok, Types: types}
}

func (p *Parser) parseIntersectionType() ast.TypeExpression {
	tok := p.cur()
	p.accept(token.AMP)
	first := p.parseArrayType()
	if !p.at(token.AMP) {
		return first
	}
	types := []ast.TypeExpression{first}
	for p.accept(token.AMP) {
		types = append(types, p.parseArrayType())
	}
	return &ast.IntersectionTypeExpr{Tok: tok, Types: types}
}

func (p *Parser) parseArrayType() ast.TypeExpression {
	readonly := false
	if p.at(token.READONLY) {
		readonly = true
		p.advance()
	}
	t := p.parseIndexedAccessType()
	for p.at(token.LBRACKET) && p.peek().Kind == token.RBRACKET {
		tok := p.advance()
		p.advance() // ]
		t = &ast.ArrayTypeExpr{Tok: tok, Element: t, Readonly: readonly}
		readonly = false
	}
	if tt, ok := t.(*ast.TupleTypeExpr); ok && readonly {
		tt.Readonly = true
	}
	return t
}

func (p *Parser) parseIndexedAccessType() ast.TypeExpression {
	t := p.parseTypeAtom()
	for p.at(token.LBRACKET) && p.peek().Kind != token.RBRACKET {
		tok := p.advance()
		idx := p.parseType()
		p.expect(token.RBRACKET)
		t = &ast.IndexedAccessTypeExpr{Tok: tok, Object: t, Index: idx}
	}
	return t
}

func (p *Parser) parseTypeAtom() ast.TypeExpression {
	tok := p.cur()
	switch tok.Kind {
	case token.LPAREN:
		if ft, ok := p.tryParseFunctionType(); ok {
			return ft
		}
		p.advance()
		inner := p.parseType()
		p.expect(token.RPAREN)
		return &ast.ParenTypeExpr{Tok: tok, Inner: inner}
	case token.LBRACKET:
		return p.parseTupleType(false)
	case token.LBRACE:
		return p.parseObjectOrMappedType()
	case token.STRING:
		p.advance()
		return &ast.LiteralTypeExpr{Tok: tok, Kind: token.STRING, Raw: "\"" + tok.Literal + "\""}
	case token.TEMPLATE_STRING:
		return p.parseTemplateLiteralType()
	case token.NUMBER:
		p.advance()
		return &ast.LiteralTypeExpr{Tok: tok, Kind: token.NUMBER, Raw: tok.Literal}
	case token.MINUS:
		p.advance()
		n := p.expect(token.NUMBER)
		return &ast.LiteralTypeExpr{Tok: tok, Kind: token.NUMBER, Raw: "-" + n.Literal}
	case token.TRUE, token.FALSE:
		p.advance()
		return &ast.LiteralTypeExpr{Tok: tok, Kind: tok.Kind, Raw: tok.Literal}
	case token.KEYOF:
		p.advance()
		return &ast.KeyOfTypeExpr{Tok: tok, Inner: p.parseArrayType()}
	case token.TYPEOF:
		p.advance()
		path := []string{p.expect(token.IDENT).Literal}
		for p.accept(token.DOT) {
			path = append(path, p.expect(token.IDENT).Literal)
		}
		return &ast.TypeQueryExpr{Tok: tok, Path: path}
	case token.INFER:
		p.advance()
		name := p.expect(token.IDENT).Literal
		return &ast.InferTypeExpr{Tok: tok, Name: name}
	case token.VOID:
		p.advance()
		return &ast.TypeRefExpr{Tok: tok, Name: "void"}
	case token.NULL:
		p.advance()
		return &ast.TypeRefExpr{Tok: tok, Name: "null"}
	case token.UNDEFINED:
		p.advance()
		return &ast.TypeRefExpr{Tok: tok, Name: "undefined"}
	case token.THIS:
		p.advance()
		return &ast.TypeRefExpr{Tok: tok, Name: "this"}
	case token.NEW:
		// constructor type `new (params) => R`; treated as a function type
		p.advance()
		ft, ok := p.tryParseFunctionType()
		if !ok {
			panic(&SyntaxError{Pos: tok.Pos, Message: "expected constructor signature after 'new'"})
		}
		return ft
	case token.IS, token.ASSERTS:
		return p.parsePredicateType()
	case token.IDENT:
		return p.parseTypeRefOrPredicate()
	}
	panic(&SyntaxError{Pos: tok.Pos, Message: "expected type, got " + tok.Kind.String()})
}

func (p *Parser) parsePredicateType() ast.TypeExpression {
	tok := p.cur()
	if tok.Kind == token.ASSERTS {
		p.advance()
		param := p.expect(token.IDENT).Literal
		if p.accept(token.IS) {
			t := p.parseUnionType()
			return &ast.PredicateTypeExpr{Tok: tok, ParamName: param, Type: t, IsAssertion: true}
		}
		return &ast.PredicateTypeExpr{Tok: tok, ParamName: param, IsAssertion: true}
	}
	p.advance() // `is`
	t := p.parseUnionType()
	return &ast.PredicateTypeExpr{Tok: tok, Type: t}
}

// parseTypeRefOrPredicate handles `x is T`, `Name`, `Name.Path`, `Name<Args>`.
func (p *Parser) parseTypeRefOrPredicate() ast.TypeExpression {
	tok := p.cur()
	name := p.advance().Literal
	if p.at(token.IS) {
		p.advance()
		t := p.parseUnionType()
		return &ast.PredicateTypeExpr{Tok: tok, ParamName: name, Type: t}
	}
	ref := &ast.TypeRefExpr{Tok: tok, Name: name}
	for p.accept(token.DOT) {
		ref.Path = append(ref.Path, p.expect(token.IDENT).Literal)
	}
	if p.at(token.LT) {
		save := p.save()
		if args, ok := p.tryParseTypeArgs(); ok {
			ref.TypeArgs = args
			return ref
		}
		p.restore(save)
	}
	return ref
}

func (p *Parser) tryParseTypeArgs() (args []ast.TypeExpression, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()
	p.expect(token.LT)
	for !p.at(token.GT) {
		args = append(args, p.parseType())
		if !p.accept(token.COMMA) {
			break
		}
	}
	if !p.at(token.GT) {
		return nil, false
	}
	p.advance()
	return args, true
}

func (p *Parser) parseTupleType(readonly bool) ast.TypeExpression {
	tok := p.expect(token.LBRACKET)
	var elems []*ast.TupleElementExpr
	for !p.at(token.RBRACKET) {
		el := &ast.TupleElementExpr{}
		if p.at(token.DOTDOTDOT) {
			p.advance()
			el.Spread = true
		}
		if p.at(token.IDENT) && (p.peek().Kind == token.COLON || (p.peek().Kind == token.QUESTION && p.peekAt(2).Kind == token.COLON)) {
			el.Label = p.advance().Literal
			if p.accept(token.QUESTION) {
				el.Optional = true
			}
			p.expect(token.COLON)
		}
		el.Type = p.parseType()
		if p.accept(token.QUESTION) {
			el.Optional = true
		}
		elems = append(elems, el)
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACKET)
	return &ast.TupleTypeExpr{Tok: tok, Elements: elems, Readonly: readonly}
}

func (p *Parser) tryParseFunctionType() (result ast.TypeExpression, ok bool) {
	save := p.save()
	ok = func() (ok bool) {
		defer func() {
			if r := recover(); r != nil {
				ok = false
			}
		}()
		tok := p.cur()
		p.expect(token.LPAREN)
		ft := &ast.FunctionTypeExpr{Tok: tok}
		for !p.at(token.RPAREN) {
			fp := &ast.FunctionParamExpr{}
			if p.at(token.THIS) {
				p.advance()
				p.expect(token.COLON)
				ft.ThisType = p.parseType()
				if !p.accept(token.COMMA) {
					break
				}
				continue
			}
			if p.at(token.DOTDOTDOT) {
				p.advance()
				fp.Rest = true
			}
			fp.Name = p.expect(token.IDENT).Literal
			if p.accept(token.QUESTION) {
				fp.Optional = true
			}
			p.expect(token.COLON)
			fp.Type = p.parseType()
			ft.Params = append(ft.Params, fp)
			if !p.accept(token.COMMA) {
				break
			}
		}
		p.expect(token.RPAREN)
		if !p.at(token.ARROW) {
			return false
		}
		p.advance()
		ft.Return = p.parseType()
		result = ft
		return true
	}()
	if !ok {
		p.restore(save)
		return nil, false
	}
	return result, true
}

func (p *Parser) parseObjectOrMappedType() ast.TypeExpression {
	save := p.save()
	if mt, ok := p.tryParseMappedType(); ok {
		return mt
	}
	p.restore(save)
	return p.parseObjectType()
}

func (p *Parser) tryParseMappedType() (ast.TypeExpression, bool) {
	var result ast.TypeExpression
	ok := func() (ok bool) {
		defer func() {
			if r := recover(); r != nil {
				ok = false
			}
		}()
		tok := p.expect(token.LBRACE)
		mt := &ast.MappedTypeExpr{Tok: tok}
		if p.at(token.PLUS) || p.at(token.MINUS) {
			if p.advance().Kind == token.PLUS {
				mt.ReadonlyModifier = ast.ModifierAdd
			} else {
				mt.ReadonlyModifier = ast.ModifierRemove
			}
			p.expect(token.READONLY)
		} else if p.at(token.READONLY) {
			p.advance()
			mt.ReadonlyModifier = ast.ModifierAdd
		}
		p.expect(token.LBRACKET)
		mt.Param = p.expect(token.IDENT).Literal
		p.expect(token.IN)
		mt.Constraint = p.parseType()
		if p.accept(token.AS) {
			mt.As = p.parseType()
		}
		p.expect(token.RBRACKET)
		if p.at(token.PLUS) || p.at(token.MINUS) {
			if p.advance().Kind == token.PLUS {
				mt.OptionalModifier = ast.ModifierAdd
			} else {
				mt.OptionalModifier = ast.ModifierRemove
			}
			p.expect(token.QUESTION)
		} else if p.accept(token.QUESTION) {
			mt.OptionalModifier = ast.ModifierAdd
		}
		p.expect(token.COLON)
		mt.Value = p.parseType()
		p.skipSemi()
		p.expect(token.RBRACE)
		result = mt
		return true
	}()
	return result, ok
}

func (p *Parser) parseObjectType() ast.TypeExpression {
	tok := p.expect(token.LBRACE)
	ot := &ast.ObjectTypeExpr{Tok: tok}
	for !p.at(token.RBRACE) {
		if p.at(token.LBRACKET) && p.peek().Kind == token.IDENT && p.peekAt(2).Kind == token.COLON {
			p.advance()
			p.advance() // index name
			p.expect(token.COLON)
			keyType := p.expect(token.IDENT).Literal
			p.expect(token.RBRACKET)
			p.expect(token.COLON)
			valType := p.parseType()
			if keyType == "number" {
				ot.NumberIndex = valType
			} else {
				ot.StringIndex = valType
			}
			p.acceptSeparator()
			continue
		}
		readonly := p.accept(token.READONLY)
		name := p.parsePropertyName()
		m := &ast.ObjectTypeMember{Name: name, Readonly: readonly}
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
		ot.Members = append(ot.Members, m)
		p.acceptSeparator()
	}
	p.expect(token.RBRACE)
	return ot
}

func (p *Parser) acceptSeparator() {
	if !p.accept(token.SEMICOLON) {
		p.accept(token.COMMA)
	}
}

func (p *Parser) parsePropertyName() string {
	if p.at(token.STRING) {
		return p.advance().Literal
	}
	return p.advance().Literal
}

func (p *Parser) parseMethodSignatureType() ast.TypeExpression {
	tok := p.cur()
	p.expect(token.LPAREN)
	ft := &ast.FunctionTypeExpr{Tok: tok}
	for !p.at(token.RPAREN) {
		fp := &ast.FunctionParamExpr{}
		if p.at(token.DOTDOTDOT) {
			p.advance()
			fp.Rest = true
		}
		fp.Name = p.advance().Literal
		if p.accept(token.QUESTION) {
			fp.Optional = true
		}
		p.expect(token.COLON)
		fp.Type = p.parseType()
		ft.Params = append(ft.Params, fp)
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)
	if p.accept(token.COLON) {
		ft.Return = p.parseType()
	} else {
		ft.Return = &ast.TypeRefExpr{Tok: tok, Name: "any"}
	}
	return ft
}

// parseTemplateLiteralType converts a lexed TEMPLATE_STRING chunk into a
// TemplateLiteralTypeExpr by splitting on `${...}` boundaries and
// re-parsing each interpolation as a type expression (spec §4.2).
func (p *Parser) parseTemplateLiteralType() ast.TypeExpression {
	tok := p.advance()
	quasis, exprs := splitTemplate(tok.Literal)
	t := &ast.TemplateLiteralTypeExpr{Tok: tok, Quasis: quasis}
	for _, e := range exprs {
		sub := New(e, p.file)
		t.Interpolated = append(t.Interpolated, sub.parseType())
	}
	return t
}

// splitTemplate splits the raw `${...}`-delimited text the lexer captured
// into literal quasis and the raw text of each interpolation.
func splitTemplate(raw string) (quasis []string, exprs []string) {
	var cur []byte
	i := 0
	for i < len(raw) {
		if raw[i] == '$' && i+1 < len(raw) && raw[i+1] == '{' {
			quasis = append(quasis, string(cur))
			cur = nil
			i += 2
			depth := 1
			start := i
			for i < len(raw) && depth > 0 {
				if raw[i] == '{' {
					depth++
				} else if raw[i] == '}' {
					depth--
					if depth == 0 {
						break
					}
				}
				i++
			}
			exprs = append(exprs, raw[start:i])
			i++ // skip closing }
			continue
		}
		if raw[i] == '\\' && i+1 < len(raw) {
			cur = append(cur, raw[i], raw[i+1])
			i += 2
			continue
		}
		cur = append(cur, raw[i])
		i++
	}
	quasis = append(quasis, string(cur))
	return quasis, exprs
}
