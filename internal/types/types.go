// Package types implements the TypeInfo tagged sum: the structural and
// nominal type representation used by the checker, the type environment,
// and the dispatch and operator helpers.
package types

import (
	"fmt"
	"sort"
	"strings"
)

// TypeInfo is the central tagged-sum interface. Every variant renders to
// text, participates in assignability, and drives emission choices.
type TypeInfo interface {
	typeInfoNode()
	String() string
}

// nullary singleton types. Held as package-level vars so identity
// comparison (`==`) works for the variants that carry no payload,
// matching the teacher's INTEGER/FLOAT/... singleton pattern.
type nullary struct{ name string }

func (n *nullary) typeInfoNode() {}
func (n *nullary) String() string { return n.name }

var (
	NUMBER_TYPE    = &nullary{"number"}
	BOOLEAN_TYPE   = &nullary{"boolean"}
	STRING_TYPE    = &nullary{"string"}
	BIGINT         = &nullary{"bigint"}
	SYMBOL         = &nullary{"symbol"}
	VOID           = &nullary{"void"}
	NULL           = &nullary{"null"}
	UNDEFINED      = &nullary{"undefined"}
	UNKNOWN        = &nullary{"unknown"}
	NEVER          = &nullary{"never"}
	ANY            = &nullary{"any"}
	OBJECT         = &nullary{"object"}
)

// Primitive distinguishes Number/Boolean from the other nullary kinds per
// spec §3; String is held as its own StringType variant (also nullary
// here: STRING_TYPE).
func IsPrimitive(t TypeInfo) bool {
	switch t {
	case NUMBER_TYPE, BOOLEAN_TYPE, STRING_TYPE:
		return true
	}
	return false
}

// StringLiteral, NumberLiteral, BooleanLiteral are singleton literal types,
// each a subtype of its widened primitive.
type StringLiteral struct{ Value string }

func (l *StringLiteral) typeInfoNode()  {}
func (l *StringLiteral) String() string { return fmt.Sprintf("%q", l.Value) }

type NumberLiteral struct{ Value float64 }

func (l *NumberLiteral) typeInfoNode()  {}
func (l *NumberLiteral) String() string { return trimFloat(l.Value) }

type BooleanLiteral struct{ Value bool }

func (l *BooleanLiteral) typeInfoNode() {}
func (l *BooleanLiteral) String() string {
	if l.Value {
		return "true"
	}
	return "false"
}

func trimFloat(f float64) string {
	s := fmt.Sprintf("%g", f)
	return s
}

// Widen returns the literal's base primitive, or t unchanged if it is not
// a literal.
func Widen(t TypeInfo) TypeInfo {
	switch t.(type) {
	case *StringLiteral:
		return STRING_TYPE
	case *NumberLiteral:
		return NUMBER_TYPE
	case *BooleanLiteral:
		return BOOLEAN_TYPE
	}
	return t
}

// Array is a homogeneous array type, optionally readonly (spec §6 supplement).
type Array struct {
	Element  TypeInfo
	Readonly bool
}

func (a *Array) typeInfoNode() {}
func (a *Array) String() string {
	if a.Readonly {
		return "readonly " + a.Element.String() + "[]"
	}
	return a.Element.String() + "[]"
}

// TupleElementKind classifies one tuple slot.
type TupleElementKind int

const (
	TupleRequired TupleElementKind = iota
	TupleOptional
	TupleSpread
)

type TupleElement struct {
	Type  TypeInfo
	Kind  TupleElementKind
	Label string
}

// Tuple is a fixed-shape heterogeneous array.
type Tuple struct {
	Elements     []TupleElement
	RequiredCount int
	Readonly     bool
}

func (t *Tuple) typeInfoNode() {}
func (t *Tuple) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		s := e.Type.String()
		if e.Kind == TupleSpread {
			s = "..." + s
		} else if e.Kind == TupleOptional {
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

// Record is a structural object type.
type Record struct {
	Fields      map[string]TypeInfo
	Optional    map[string]bool
	StringIndex TypeInfo
	NumberIndex TypeInfo
	SymbolIndex TypeInfo
}

func NewRecord() *Record {
	return &Record{Fields: map[string]TypeInfo{}, Optional: map[string]bool{}}
}

func (r *Record) typeInfoNode() {}
func (r *Record) String() string {
	names := make([]string, 0, len(r.Fields))
	for n := range r.Fields {
		names = append(names, n)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, n := range names {
		suffix := ""
		if r.Optional[n] {
			suffix = "?"
		}
		parts = append(parts, n+suffix+": "+r.Fields[n].String())
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}

// Function is a concrete call signature.
type Function struct {
	Params   []TypeInfo
	Return   TypeInfo
	MinArity int
	HasRest  bool
	ThisType TypeInfo
}

func (f *Function) typeInfoNode() {}
func (f *Function) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	ret := "void"
	if f.Return != nil {
		ret = f.Return.String()
	}
	return "(" + strings.Join(parts, ", ") + ") => " + ret
}

// OverloadedFunction groups call-visible signatures with the single
// realizable implementation.
type OverloadedFunction struct {
	Signatures     []*Function
	Implementation *Function
}

func (f *OverloadedFunction) typeInfoNode() {}
func (f *OverloadedFunction) String() string {
	parts := make([]string, len(f.Signatures))
	for i, s := range f.Signatures {
		parts[i] = s.String()
	}
	return strings.Join(parts, " & ")
}

// GenericFunction is a Function with unbound type parameters.
type GenericFunction struct {
	TypeParams []*TypeParameter
	Params     []TypeInfo
	Return     TypeInfo
	MinArity   int
	HasRest    bool
	ThisType   TypeInfo
}

func (f *GenericFunction) typeInfoNode() {}
func (f *GenericFunction) String() string {
	names := make([]string, len(f.TypeParams))
	for i, tp := range f.TypeParams {
		names[i] = tp.Name
	}
	return "<" + strings.Join(names, ", ") + ">(...)"
}

// GenericOverloadedFunction is the generic analogue of OverloadedFunction.
type GenericOverloadedFunction struct {
	TypeParams     []*TypeParameter
	Signatures     []*GenericFunction
	Implementation *GenericFunction
}

func (f *GenericOverloadedFunction) typeInfoNode()  {}
func (f *GenericOverloadedFunction) String() string { return "<...>(...)" }

// CallableSignature returns the Function/GenericFunction a back-end should
// treat as callable: t itself if not overloaded, else the implementation
// (spec §9, OverloadedFunction vs. Function).
func CallableSignature(t TypeInfo) TypeInfo {
	switch f := t.(type) {
	case *OverloadedFunction:
		return f.Implementation
	case *GenericOverloadedFunction:
		return f.Implementation
	default:
		return t
	}
}

// Class is a nominal reference type.
type Class struct {
	Name               string
	Superclass         *Class
	Methods            map[string]TypeInfo // Function or OverloadedFunction
	StaticMethods      map[string]TypeInfo
	StaticProperties   map[string]TypeInfo
	MethodAccess       map[string]AccessLevel
	FieldAccess        map[string]AccessLevel
	ReadonlyFields      map[string]bool
	Getters            map[string]TypeInfo
	Setters            map[string]TypeInfo
	DeclaredFieldTypes map[string]TypeInfo
	IsAbstract         bool
	AbstractMethods    map[string]TypeInfo
	AbstractGetters    map[string]TypeInfo
	AbstractSetters    map[string]TypeInfo
	Interfaces         []*Interface
}

func NewClass(name string) *Class {
	return &Class{
		Name:               name,
		Methods:            map[string]TypeInfo{},
		StaticMethods:      map[string]TypeInfo{},
		StaticProperties:   map[string]TypeInfo{},
		MethodAccess:       map[string]AccessLevel{},
		FieldAccess:        map[string]AccessLevel{},
		ReadonlyFields:     map[string]bool{},
		Getters:            map[string]TypeInfo{},
		Setters:            map[string]TypeInfo{},
		DeclaredFieldTypes: map[string]TypeInfo{},
		AbstractMethods:    map[string]TypeInfo{},
		AbstractGetters:    map[string]TypeInfo{},
		AbstractSetters:    map[string]TypeInfo{},
	}
}

func (c *Class) typeInfoNode() {}
func (c *Class) String() string { return c.Name }

// AccessLevel mirrors ast.AccessLevel for the resolved type model.
type AccessLevel int

const (
	AccessPublic AccessLevel = iota
	AccessPrivate
	AccessProtected
)

// MutableClass is the transient placeholder used while resolving a class's
// own self-referential members (spec §9, Cyclic class references). It is
// replaced by *Class once member collection completes.
type MutableClass struct {
	Name   string
	frozen *Class
}

func (m *MutableClass) typeInfoNode() {}
func (m *MutableClass) String() string { return m.Name }

// Freeze finalizes the placeholder into a concrete Class; subsequent calls
// to Resolve return the frozen class.
func (m *MutableClass) Freeze(c *Class) { m.frozen = c }

// Resolve dereferences a MutableClass to its frozen Class, or nil if not
// yet frozen.
func (m *MutableClass) Resolve() *Class { return m.frozen }

// GenericClass is a Class with unbound type parameters.
type GenericClass struct {
	Class
	TypeParams []*TypeParameter
}

func (c *GenericClass) typeInfoNode() {}

// Interface is a structural contract.
type Interface struct {
	Name          string
	Members       map[string]TypeInfo
	OptionalMembers map[string]bool
	StringIndex   TypeInfo
	NumberIndex   TypeInfo
	SymbolIndex   TypeInfo
	CallSignatures []*Function
	Extends       []*Interface
}

func NewInterface(name string) *Interface {
	return &Interface{Name: name, Members: map[string]TypeInfo{}, OptionalMembers: map[string]bool{}}
}

func (i *Interface) typeInfoNode() {}
func (i *Interface) String() string { return i.Name }

// GenericInterface is an Interface with unbound type parameters.
type GenericInterface struct {
	Interface
	TypeParams []*TypeParameter
}

func (i *GenericInterface) typeInfoNode() {}

// InstantiatedGeneric is a Class/Interface/Function instantiated with
// concrete type arguments; the arguments are stored as given and are not
// substituted into the definition.
type InstantiatedGeneric struct {
	Definition    TypeInfo // *GenericClass, *GenericInterface, or *GenericFunction
	TypeArguments []TypeInfo
}

func (g *InstantiatedGeneric) typeInfoNode() {}
func (g *InstantiatedGeneric) String() string {
	parts := make([]string, len(g.TypeArguments))
	for i, a := range g.TypeArguments {
		parts[i] = a.String()
	}
	return g.Definition.String() + "<" + strings.Join(parts, ", ") + ">"
}

// Instance is the value produced by `new C(...)`, distinct from the
// constructor type C itself.
type Instance struct {
	ClassType TypeInfo // *Class, *MutableClass, or *InstantiatedGeneric
}

func (i *Instance) typeInfoNode() {}
func (i *Instance) String() string {
	if i.ClassType == nil {
		return "instance"
	}
	return i.ClassType.String()
}

// ResolvedClass dereferences Instance(MutableClass) lazily to Instance(Class)
// at use sites, per spec §9.
func (i *Instance) ResolvedClass() *Class {
	switch c := i.ClassType.(type) {
	case *Class:
		return c
	case *MutableClass:
		return c.Resolve()
	case *InstantiatedGeneric:
		if gc, ok := c.Definition.(*GenericClass); ok {
			return &gc.Class
		}
	}
	return nil
}

// EnumKind distinguishes the three enum shapes (spec §4.4).
type EnumKind int

const (
	EnumNumeric EnumKind = iota
	EnumString
	EnumHeterogeneous
)

// Enum is a closed set of named constant members.
type Enum struct {
	Name    string
	Members map[string]interface{} // float64 or string
	Order   []string
	Kind    EnumKind
	IsConst bool
}

func (e *Enum) typeInfoNode() {}
func (e *Enum) String() string { return e.Name }

// Namespace holds two frozen, declaration-merged mappings: nested types and
// nested values (spec §3, §6 MergeNamespace).
type Namespace struct {
	Name   string
	Types  map[string]TypeInfo
	Values map[string]TypeInfo
}

func NewNamespace(name string) *Namespace {
	return &Namespace{Name: name, Types: map[string]TypeInfo{}, Values: map[string]TypeInfo{}}
}

func (n *Namespace) typeInfoNode() {}
func (n *Namespace) String() string { return n.Name }

// TypeParameter is an unbound generic parameter.
type TypeParameter struct {
	Name       string
	Constraint TypeInfo
	Default    TypeInfo
}

func (t *TypeParameter) typeInfoNode() {}
func (t *TypeParameter) String() string { return t.Name }

// KeyOf is `keyof T`.
type KeyOf struct{ Inner TypeInfo }

func (k *KeyOf) typeInfoNode() {}
func (k *KeyOf) String() string { return "keyof " + k.Inner.String() }

// IndexedAccess is `T[K]`.
type IndexedAccess struct {
	Object TypeInfo
	Index  TypeInfo
}

func (a *IndexedAccess) typeInfoNode() {}
func (a *IndexedAccess) String() string {
	return a.Object.String() + "[" + a.Index.String() + "]"
}

// MappedTypeModifier mirrors ast.MappedTypeModifier for resolved types.
type MappedTypeModifier int

const (
	ModifierNone MappedTypeModifier = iota
	ModifierAdd
	ModifierRemove
)

// MappedType is `{ [K in constraint as as]: value }`.
type MappedType struct {
	Param            string
	Constraint       TypeInfo
	As               TypeInfo
	Value            TypeInfo
	ReadonlyModifier MappedTypeModifier
	OptionalModifier MappedTypeModifier
}

func (m *MappedType) typeInfoNode() {}
func (m *MappedType) String() string { return "{ [" + m.Param + " in ...]: ... }" }

// ConditionalType is `check extends extends ? then : els`. IsNakedCheck
// records whether Check was written as a bare type-parameter reference in
// source (e.g. `T extends U ? X : Y`) as opposed to built from one (e.g.
// `T[] extends U ? X : Y`); only the former distributes over unions.
type ConditionalType struct {
	Check        TypeInfo
	Extends      TypeInfo
	True         TypeInfo
	False        TypeInfo
	IsNakedCheck bool
}

func (c *ConditionalType) typeInfoNode() {}
func (c *ConditionalType) String() string {
	return c.Check.String() + " extends " + c.Extends.String() + " ? " + c.True.String() + " : " + c.False.String()
}

// InferredTypeParameter is `infer U`, legal only within a ConditionalType's
// Extends branch.
type InferredTypeParameter struct{ Name string }

func (i *InferredTypeParameter) typeInfoNode() {}
func (i *InferredTypeParameter) String() string { return "infer " + i.Name }

// TypePredicate is a user-defined type guard's return type: `x is T`.
type TypePredicate struct {
	ParamName  string
	Type       TypeInfo
	IsAssertion bool
}

func (p *TypePredicate) typeInfoNode() {}
func (p *TypePredicate) String() string {
	if p.IsAssertion {
		return "asserts " + p.ParamName + " is " + p.Type.String()
	}
	return p.ParamName + " is " + p.Type.String()
}

// AssertsNonNull is the bare `asserts x` return type.
type AssertsNonNull struct{ ParamName string }

func (a *AssertsNonNull) typeInfoNode() {}
func (a *AssertsNonNull) String() string { return "asserts " + a.ParamName }

// TemplateLiteralType is `` `a${T}b` `` when it can't be expanded to a
// union of string literals (spec §4.2 normalization).
type TemplateLiteralType struct {
	Strings      []string
	Interpolated []TypeInfo
}

func (t *TemplateLiteralType) typeInfoNode() {}
func (t *TemplateLiteralType) String() string {
	var sb strings.Builder
	sb.WriteByte('`')
	for i, s := range t.Strings {
		sb.WriteString(s)
		if i < len(t.Interpolated) {
			sb.WriteString("${" + t.Interpolated[i].String() + "}")
		}
	}
	sb.WriteByte('`')
	return sb.String()
}

// RecursiveTypeAlias is the deferred placeholder produced by the type
// parser when a type alias re-enters its own expansion (spec §4.2).
type RecursiveTypeAlias struct{ Name string }

func (r *RecursiveTypeAlias) typeInfoNode() {}
func (r *RecursiveTypeAlias) String() string { return r.Name }

// Built-ins opaque to the checker beyond their declared shape.
type Promise struct{ Value TypeInfo }

func (p *Promise) typeInfoNode() {}
func (p *Promise) String() string { return "Promise<" + p.Value.String() + ">" }

type MapType struct{ Key, Value TypeInfo }

func (m *MapType) typeInfoNode() {}
func (m *MapType) String() string { return "Map<" + m.Key.String() + ", " + m.Value.String() + ">" }

type SetType struct{ Element TypeInfo }

func (s *SetType) typeInfoNode() {}
func (s *SetType) String() string { return "Set<" + s.Element.String() + ">" }

type WeakMapType struct{ Key, Value TypeInfo }

func (w *WeakMapType) typeInfoNode() {}
func (w *WeakMapType) String() string { return "WeakMap<" + w.Key.String() + ", " + w.Value.String() + ">" }

type WeakSetType struct{ Element TypeInfo }

func (w *WeakSetType) typeInfoNode() {}
func (w *WeakSetType) String() string { return "WeakSet<" + w.Element.String() + ">" }

type DateType struct{}

func (DateType) typeInfoNode() {}
func (DateType) String() string { return "Date" }

type RegExpType struct{}

func (RegExpType) typeInfoNode() {}
func (RegExpType) String() string { return "RegExp" }

type BufferType struct{}

func (BufferType) typeInfoNode() {}
func (BufferType) String() string { return "Buffer" }

type TimeoutType struct{}

func (TimeoutType) typeInfoNode() {}
func (TimeoutType) String() string { return "Timeout" }

type ErrorType struct{ Name string }

func (e *ErrorType) typeInfoNode() {}
func (e *ErrorType) String() string { return e.Name }

var (
	DATE    = &DateType{}
	REGEXP  = &RegExpType{}
	BUFFER  = &BufferType{}
	TIMEOUT = &TimeoutType{}
)
