// Package interpreter implements the tree-walking evaluator back-end: one
// of the two consumers of the checker's TypeMap and the internal/dispatch
// lowering kernel (spec §4.6). It evaluates the already-type-checked AST
// directly, with no separate IR — the interpreter back-end's own analogue
// of the bytecode emitter's Chunk.
//
// Grounded on the teacher's internal/interp.Value: runtime values are a
// closed tagged-sum interface rather than interface{}, so a type-confused
// value is a compile error in this package, not a runtime panic three
// frames later.
package interpreter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tsgoscript/tscore/internal/ast"
)

// Value is the runtime value interface every evaluated expression
// produces.
type Value interface {
	Type() string
	String() string
}

// NumberValue is every numeric runtime value; the spec's Number type has
// no int/float split, matching JavaScript's own single numeric type.
type NumberValue struct{ Value float64 }

func (v *NumberValue) Type() string { return "number" }
func (v *NumberValue) String() string {
	return strconv.FormatFloat(v.Value, 'g', -1, 64)
}

// StringValue is a runtime string.
type StringValue struct{ Value string }

func (v *StringValue) Type() string   { return "string" }
func (v *StringValue) String() string { return v.Value }

// BooleanValue is a runtime boolean.
type BooleanValue struct{ Value bool }

func (v *BooleanValue) Type() string { return "boolean" }
func (v *BooleanValue) String() string {
	if v.Value {
		return "true"
	}
	return "false"
}

// NullValue is the single `null` value.
type NullValue struct{}

func (v *NullValue) Type() string   { return "null" }
func (v *NullValue) String() string { return "null" }

// UndefinedValue is the single `undefined` value, also the result of a
// function falling off the end of its body with no return.
type UndefinedValue struct{}

func (v *UndefinedValue) Type() string   { return "undefined" }
func (v *UndefinedValue) String() string { return "undefined" }

// ArrayValue is a dynamically-sized runtime array.
type ArrayValue struct{ Elements []Value }

func (v *ArrayValue) Type() string { return "array" }
func (v *ArrayValue) String() string {
	parts := make([]string, len(v.Elements))
	for i, e := range v.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// ObjectValue is a plain object-literal value: an ordered set of
// string-keyed properties.
type ObjectValue struct {
	Keys   []string
	Values map[string]Value
}

// NewObjectValue creates an empty object value.
func NewObjectValue() *ObjectValue {
	return &ObjectValue{Values: map[string]Value{}}
}

// Set assigns key, appending it to Keys the first time it's written so
// String() renders insertion order like a real JS object.
func (o *ObjectValue) Set(key string, v Value) {
	if _, ok := o.Values[key]; !ok {
		o.Keys = append(o.Keys, key)
	}
	o.Values[key] = v
}

func (o *ObjectValue) Get(key string) (Value, bool) {
	v, ok := o.Values[key]
	return v, ok
}

func (o *ObjectValue) Type() string { return "object" }
func (o *ObjectValue) String() string {
	parts := make([]string, len(o.Keys))
	for i, k := range o.Keys {
		parts[i] = k + ": " + o.Values[k].String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// FunctionValue is a runtime function/arrow closure: the declaring
// Environment is captured at creation time so free identifiers resolve
// against the scope the function was defined in, not the scope it's
// called from.
type FunctionValue struct {
	Name    string // "" for an anonymous arrow/function expression
	Params  []*Param
	Body    ast.Node // *ast.BlockStatement, or an Expression for a concise-body arrow
	Closure *Environment
	IsAsync bool
	// BoundThis is non-nil for a method value bound to a specific
	// receiver instance.
	BoundThis *InstanceValue
}

// Param is the interpreter's own lightweight parameter shape, decoupled
// from ast.Param. Default is kept as an unevaluated expression, since a
// default like `function f(a, b = a)` must see the call's own bound
// argument values and so can only be evaluated once callEnv exists.
type Param struct {
	Name     string
	Default  ast.Expression // nil if the parameter has no default
	Optional bool
	Rest     bool
}

func (f *FunctionValue) Type() string { return "function" }
func (f *FunctionValue) String() string {
	if f.Name != "" {
		return fmt.Sprintf("function %s", f.Name)
	}
	return "function (anonymous)"
}

// ClassValue is the runtime constructor: the class's own metadata plus a
// link to the superclass constructor.
type ClassValue struct {
	Name        string
	Super       *ClassValue
	Fields      []FieldInit
	Methods     map[string]*FunctionValue
	StaticProps map[string]Value
	Constructor *FunctionValue // nil if the class has no explicit constructor
	Brand       *brandRegistryEntry
	// DefiningEnv is the scope the class declaration itself was
	// evaluated in; field initializers run against it (with "this"
	// added) regardless of whether the class declares a constructor.
	DefiningEnv *Environment
}

// FieldInit is one instance field's declared initializer, evaluated fresh
// against the new instance's environment every time the class is
// instantiated.
type FieldInit struct {
	Name    string
	Private bool
	Init    ast.Expression // nil for an uninitialized field
}

func (c *ClassValue) Type() string   { return "class" }
func (c *ClassValue) String() string { return "class " + c.Name }

// PromiseValue is the interpreter's settled-promise value. Since the
// interpreter has no event loop, every async function call runs to
// completion synchronously and its result is wrapped here immediately —
// the only thing an `await` does (promise.go's resolvePromise) is unwrap
// it again, or re-raise the rejection as a thrown value.
type PromiseValue struct {
	Value     Value
	Rejected  bool
	Rejection Value
}

func (p *PromiseValue) Type() string { return "promise" }
func (p *PromiseValue) String() string {
	if p.Rejected {
		return "Promise {<rejected>}"
	}
	return "Promise {" + p.Value.String() + "}"
}

// InstanceValue is a `new C(...)` result.
type InstanceValue struct {
	Class  *ClassValue
	Fields map[string]Value
}

func (i *InstanceValue) Type() string   { return i.Class.Name }
func (i *InstanceValue) String() string { return "[object " + i.Class.Name + "]" }
