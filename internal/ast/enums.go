package ast

import "github.com/tsgoscript/tscore/internal/token"

// EnumMember is one `Name` or `Name = initializer` entry.
type EnumMember struct {
	Name *Identifier
	Init Expression // nil for an auto-incremented numeric member
}

// EnumDecl is an enum declaration (spec §4.4: Numeric/String/Heterogeneous,
// optionally `const`).
type EnumDecl struct {
	Tok      token.Token
	Name     *Identifier
	Members  []*EnumMember
	IsConst  bool
}

func (e *EnumDecl) statementNode()      {}
func (e *EnumDecl) TokenLiteral() string { return e.Tok.Literal }
func (e *EnumDecl) String() string       { return "enum " + e.Name.Value + " {...}" }
func (e *EnumDecl) Pos() token.Position  { return e.Tok.Pos }
