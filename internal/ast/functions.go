package ast

import (
	"strings"

	"github.com/tsgoscript/tscore/internal/token"
)

// Param is one function/method/arrow parameter.
type Param struct {
	Name         string
	Type         TypeExpression // nil if untyped (contextual typing fills it)
	Default      Expression
	Optional     bool
	Rest         bool
	Modifier     ParamModifier // var/const/lazy-style byref modifiers (spec §9 OverloadedFunction)
	AccessLevel  AccessLevel   // non-None when this is a constructor-parameter property
	Pos          token.Position
}

// ParamModifier mirrors the teacher's var/const/lazy parameter distinction,
// generalized to TypeScript's closest analogue: plain, readonly destructured
// binding is out of scope, so this only tracks "lazy" (thunked) parameters,
// used by the interpreter/emitter to decide eager vs. deferred evaluation.
type ParamModifier int

const (
	ParamPlain ParamModifier = iota
	ParamLazy
)

// FunctionDecl is a top-level or nested named function declaration. Sibling
// declarations sharing a name with no body are overload signatures; the
// bodied one is the implementation (spec §3, OverloadedFunction).
type FunctionDecl struct {
	Tok        token.Token
	Name       *Identifier
	TypeParams []*TypeParamDecl
	Params     []*Param
	ReturnType TypeExpression
	Body       *BlockStatement // nil for an overload signature
	IsAsync    bool
	IsOverload bool // explicit `overload` marker on a signature-only declaration
}

func (f *FunctionDecl) statementNode()     {}
func (f *FunctionDecl) TokenLiteral() string { return f.Tok.Literal }
func (f *FunctionDecl) String() string {
	var sb strings.Builder
	if f.IsAsync {
		sb.WriteString("async ")
	}
	sb.WriteString("function ")
	sb.WriteString(f.Name.Value)
	sb.WriteString("(...)")
	return sb.String()
}
func (f *FunctionDecl) Pos() token.Position { return f.Tok.Pos }

// ArrowFunction is `(params): T => body` or `(params) => expr`.
type ArrowFunction struct {
	Tok        token.Token
	TypeParams []*TypeParamDecl
	Params     []*Param
	ReturnType TypeExpression
	Body       Node // *BlockStatement or an Expression
	IsAsync    bool
}

func (a *ArrowFunction) expressionNode()      {}
func (a *ArrowFunction) TokenLiteral() string { return a.Tok.Literal }
func (a *ArrowFunction) String() string       { return "(...) => ..." }
func (a *ArrowFunction) Pos() token.Position  { return a.Tok.Pos }

// FunctionExpression is an (optionally named) function expression.
type FunctionExpression struct {
	Tok        token.Token
	Name       *Identifier // nil if anonymous
	TypeParams []*TypeParamDecl
	Params     []*Param
	ReturnType TypeExpression
	Body       *BlockStatement
	IsAsync    bool
}

func (f *FunctionExpression) expressionNode()      {}
func (f *FunctionExpression) TokenLiteral() string { return f.Tok.Literal }
func (f *FunctionExpression) String() string       { return "function(...) {...}" }
func (f *FunctionExpression) Pos() token.Position  { return f.Tok.Pos }

// TypeParamDecl is one `<T extends C = D>` generic parameter declaration.
type TypeParamDecl struct {
	Name       string
	Constraint TypeExpression
	Default    TypeExpression
}
