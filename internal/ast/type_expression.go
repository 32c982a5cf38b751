package ast

import (
	"strings"

	"github.com/tsgoscript/tscore/internal/token"
)

// TypeRefExpr is a named type reference, optionally generic:
// `Foo` or `Foo<A, B>`.
type TypeRefExpr struct {
	Tok      token.Token
	Name     string
	Path     []string // qualified path segments after Name, e.g. NS.Foo -> ["Foo"] under namespace NS
	TypeArgs []TypeExpression
}

func (t *TypeRefExpr) typeExpressionNode()  {}
func (t *TypeRefExpr) TokenLiteral() string { return t.Tok.Literal }
func (t *TypeRefExpr) Pos() token.Position  { return t.Tok.Pos }
func (t *TypeRefExpr) String() string {
	name := t.Name
	if len(t.Path) > 0 {
		name = name + "." + strings.Join(t.Path, ".")
	}
	if len(t.TypeArgs) == 0 {
		return name
	}
	parts := make([]string, len(t.TypeArgs))
	for i, a := range t.TypeArgs {
		parts[i] = a.String()
	}
	return name + "<" + strings.Join(parts, ", ") + ">"
}

// LiteralTypeExpr is a string/number/boolean literal used as a type:
// `"a"`, `42`, `true`.
type LiteralTypeExpr struct {
	Tok   token.Token
	Kind  token.Kind // STRING, NUMBER, TRUE, or FALSE
	Raw   string
}

func (t *LiteralTypeExpr) typeExpressionNode()  {}
func (t *LiteralTypeExpr) TokenLiteral() string { return t.Tok.Literal }
func (t *LiteralTypeExpr) Pos() token.Position  { return t.Tok.Pos }
func (t *LiteralTypeExpr) String() string       { return t.Raw }

// UnionTypeExpr is `A | B | C`.
type UnionTypeExpr struct {
	Tok   token.Token
	Types []TypeExpression
}

func (t *UnionTypeExpr) typeExpressionNode()  {}
func (t *UnionTypeExpr) TokenLiteral() string { return t.Tok.Literal }
func (t *UnionTypeExpr) Pos() token.Position  { return t.Tok.Pos }
func (t *UnionTypeExpr) String() string       { return join(t.Types, " | ") }

// IntersectionTypeExpr is `A & B & C`.
type IntersectionTypeExpr struct {
	Tok   token.Token
	Types []TypeExpression
}

func (t *IntersectionTypeExpr) typeExpressionNode()  {}
func (t *IntersectionTypeExpr) TokenLiteral() string { return t.Tok.Literal }
func (t *IntersectionTypeExpr) Pos() token.Position  { return t.Tok.Pos }
func (t *IntersectionTypeExpr) String() string       { return join(t.Types, " & ") }

func join(ts []TypeExpression, sep string) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, sep)
}

// ArrayTypeExpr is `T[]`, optionally `readonly T[]` (spec §6 supplement).
type ArrayTypeExpr struct {
	Tok      token.Token
	Element  TypeExpression
	Readonly bool
}

func (t *ArrayTypeExpr) typeExpressionNode()  {}
func (t *ArrayTypeExpr) TokenLiteral() string { return t.Tok.Literal }
func (t *ArrayTypeExpr) Pos() token.Position  { return t.Tok.Pos }
func (t *ArrayTypeExpr) String() string {
	if t.Readonly {
		return "readonly " + t.Element.String() + "[]"
	}
	return t.Element.String() + "[]"
}

// TupleElementExpr is one element of a tuple type.
type TupleElementExpr struct {
	Label    string // optional leading label, e.g. `x: string`
	Type     TypeExpression
	Optional bool
	Spread   bool
}

// TupleTypeExpr is `[A, B?, ...C[]]`.
type TupleTypeExpr struct {
	Tok      token.Token
	Elements []*TupleElementExpr
	Readonly bool
}

func (t *TupleTypeExpr) typeExpressionNode()  {}
func (t *TupleTypeExpr) TokenLiteral() string { return t.Tok.Literal }
func (t *TupleTypeExpr) Pos() token.Position  { return t.Tok.Pos }
func (t *TupleTypeExpr) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		s := e.Type.String()
		if e.Spread {
			s = "..." + s
		}
		if e.Optional {
			s += "?"
		}
		parts[i] = s
	}
	prefix := ""
	if t.Readonly {
		prefix = "readonly "
	}
	return prefix + "[" + strings.Join(parts, ", ") + "]"
}

// FunctionParamExpr is one parameter of a function type expression.
type FunctionParamExpr struct {
	Name     string
	Type     TypeExpression
	Optional bool
	Rest     bool
}

// FunctionTypeExpr is `(params) => R`, optionally with a `this:` parameter.
type FunctionTypeExpr struct {
	Tok        token.Token
	TypeParams []*TypeParamDecl
	ThisType   TypeExpression
	Params     []*FunctionParamExpr
	Return     TypeExpression
}

func (t *FunctionTypeExpr) typeExpressionNode()  {}
func (t *FunctionTypeExpr) TokenLiteral() string { return t.Tok.Literal }
func (t *FunctionTypeExpr) Pos() token.Position  { return t.Tok.Pos }
func (t *FunctionTypeExpr) String() string       { return "(...) => " + t.Return.String() }

// ObjectTypeMember is one member of an inline `{ k: T }` object type.
type ObjectTypeMember struct {
	Name     string
	Type     TypeExpression
	Optional bool
	Readonly bool
	IsMethod bool
}

// ObjectTypeExpr is an inline object type `{ k: T; k2?: T; [string]: V }`.
type ObjectTypeExpr struct {
	Tok         token.Token
	Members     []*ObjectTypeMember
	StringIndex TypeExpression
	NumberIndex TypeExpression
}

func (t *ObjectTypeExpr) typeExpressionNode()  {}
func (t *ObjectTypeExpr) TokenLiteral() string { return t.Tok.Literal }
func (t *ObjectTypeExpr) Pos() token.Position  { return t.Tok.Pos }
func (t *ObjectTypeExpr) String() string       { return "{...}" }

// IndexedAccessTypeExpr is `T[K]`.
type IndexedAccessTypeExpr struct {
	Tok    token.Token
	Object TypeExpression
	Index  TypeExpression
}

func (t *IndexedAccessTypeExpr) typeExpressionNode()  {}
func (t *IndexedAccessTypeExpr) TokenLiteral() string { return t.Tok.Literal }
func (t *IndexedAccessTypeExpr) Pos() token.Position  { return t.Tok.Pos }
func (t *IndexedAccessTypeExpr) String() string {
	return t.Object.String() + "[" + t.Index.String() + "]"
}

// KeyOfTypeExpr is `keyof T`.
type KeyOfTypeExpr struct {
	Tok   token.Token
	Inner TypeExpression
}

func (t *KeyOfTypeExpr) typeExpressionNode()  {}
func (t *KeyOfTypeExpr) TokenLiteral() string { return t.Tok.Literal }
func (t *KeyOfTypeExpr) Pos() token.Position  { return t.Tok.Pos }
func (t *KeyOfTypeExpr) String() string       { return "keyof " + t.Inner.String() }

// TypeQueryExpr is `typeof x.path`.
type TypeQueryExpr struct {
	Tok  token.Token
	Path []string
}

func (t *TypeQueryExpr) typeExpressionNode()  {}
func (t *TypeQueryExpr) TokenLiteral() string { return t.Tok.Literal }
func (t *TypeQueryExpr) Pos() token.Position  { return t.Tok.Pos }
func (t *TypeQueryExpr) String() string       { return "typeof " + strings.Join(t.Path, ".") }

// ConditionalTypeExpr is `Check extends Extends ? True : False`, with
// `infer` parameters bound in Extends, scoped to True (spec §3, §4.2).
type ConditionalTypeExpr struct {
	Tok     token.Token
	Check   TypeExpression
	Extends TypeExpression
	True    TypeExpression
	False   TypeExpression
}

func (t *ConditionalTypeExpr) typeExpressionNode()  {}
func (t *ConditionalTypeExpr) TokenLiteral() string { return t.Tok.Literal }
func (t *ConditionalTypeExpr) Pos() token.Position  { return t.Tok.Pos }
func (t *ConditionalTypeExpr) String() string {
	return t.Check.String() + " extends " + t.Extends.String() + " ? " + t.True.String() + " : " + t.False.String()
}

// InferTypeExpr is `infer U`, legal only within a ConditionalTypeExpr.Extends.
type InferTypeExpr struct {
	Tok  token.Token
	Name string
}

func (t *InferTypeExpr) typeExpressionNode()  {}
func (t *InferTypeExpr) TokenLiteral() string { return t.Tok.Literal }
func (t *InferTypeExpr) Pos() token.Position  { return t.Tok.Pos }
func (t *InferTypeExpr) String() string       { return "infer " + t.Name }

// TemplateLiteralTypeExpr is `` `a${T}b` `` at the type level.
type TemplateLiteralTypeExpr struct {
	Tok         token.Token
	Quasis      []string
	Interpolated []TypeExpression
}

func (t *TemplateLiteralTypeExpr) typeExpressionNode()  {}
func (t *TemplateLiteralTypeExpr) TokenLiteral() string { return t.Tok.Literal }
func (t *TemplateLiteralTypeExpr) Pos() token.Position  { return t.Tok.Pos }
func (t *TemplateLiteralTypeExpr) String() string {
	var sb strings.Builder
	sb.WriteByte('`')
	for i, q := range t.Quasis {
		sb.WriteString(q)
		if i < len(t.Interpolated) {
			sb.WriteString("${" + t.Interpolated[i].String() + "}")
		}
	}
	sb.WriteByte('`')
	return sb.String()
}

// MappedTypeModifier is the `+`/`-`/absent prefix on `readonly`/`?` in a
// mapped type.
type MappedTypeModifier int

const (
	ModifierNone MappedTypeModifier = iota
	ModifierAdd
	ModifierRemove
)

// MappedTypeExpr is `{ [K in C as A]?: V }` with readonly/optional
// modifiers (spec §4.2).
type MappedTypeExpr struct {
	Tok              token.Token
	Param            string
	Constraint       TypeExpression
	As               TypeExpression // `as` re-key clause, nil if absent
	Value            TypeExpression
	ReadonlyModifier MappedTypeModifier
	OptionalModifier MappedTypeModifier
}

func (t *MappedTypeExpr) typeExpressionNode()  {}
func (t *MappedTypeExpr) TokenLiteral() string { return t.Tok.Literal }
func (t *MappedTypeExpr) Pos() token.Position  { return t.Tok.Pos }
func (t *MappedTypeExpr) String() string       { return "{ [" + t.Param + " in ...]: ... }" }

// PredicateTypeExpr is a function return-type predicate: `x is T`,
// `asserts x`, or `asserts x is T`.
type PredicateTypeExpr struct {
	Tok        token.Token
	ParamName  string
	Type       TypeExpression // nil for bare `asserts x`
	IsAssertion bool
}

func (t *PredicateTypeExpr) typeExpressionNode()  {}
func (t *PredicateTypeExpr) TokenLiteral() string { return t.Tok.Literal }
func (t *PredicateTypeExpr) Pos() token.Position  { return t.Tok.Pos }
func (t *PredicateTypeExpr) String() string {
	if t.IsAssertion {
		if t.Type == nil {
			return "asserts " + t.ParamName
		}
		return "asserts " + t.ParamName + " is " + t.Type.String()
	}
	return t.ParamName + " is " + t.Type.String()
}

// ParenTypeExpr is a parenthesized type expression, preserved so the
// printer can round-trip grouping around union/intersection precedence.
type ParenTypeExpr struct {
	Tok   token.Token
	Inner TypeExpression
}

func (t *ParenTypeExpr) typeExpressionNode()  {}
func (t *ParenTypeExpr) TokenLiteral() string { return t.Tok.Literal }
func (t *ParenTypeExpr) Pos() token.Position  { return t.Tok.Pos }
func (t *ParenTypeExpr) String() string       { return "(" + t.Inner.String() + ")" }
