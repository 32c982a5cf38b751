// Package typeenv implements the TypeEnvironment: a scope chain rooted at
// module scope, carrying type aliases, type parameters, value bindings (for
// `typeof`), and namespaces. Grounded on the teacher's runtime.Environment
// scope-chain shape, generalized from case-insensitive variable storage to
// TypeScript's case-sensitive type/value namespaces.
package typeenv

import "github.com/tsgoscript/tscore/internal/types"

// TypeEnvironment is a lexical scope for type names, distinct from the
// value-name scope the interpreter/emitter track separately.
type TypeEnvironment struct {
	typeAliases map[string]types.TypeInfo
	values      map[string]types.TypeInfo
	namespaces  map[string]*types.Namespace
	outer       *TypeEnvironment
}

// New creates a root TypeEnvironment with no outer scope.
func New() *TypeEnvironment {
	return &TypeEnvironment{
		typeAliases: map[string]types.TypeInfo{},
		values:      map[string]types.TypeInfo{},
		namespaces:  map[string]*types.Namespace{},
	}
}

// NewEnclosed creates a nested scope, used for function bodies, class
// bodies and block statements carrying their own type parameters.
func NewEnclosed(outer *TypeEnvironment) *TypeEnvironment {
	return &TypeEnvironment{
		typeAliases: map[string]types.TypeInfo{},
		values:      map[string]types.TypeInfo{},
		namespaces:  map[string]*types.Namespace{},
		outer:       outer,
	}
}

// DefineType binds name to t in the current scope (type alias, class,
// interface, enum, or type parameter).
func (e *TypeEnvironment) DefineType(name string, t types.TypeInfo) {
	e.typeAliases[name] = t
}

// LookupType resolves a type name up the scope chain.
func (e *TypeEnvironment) LookupType(name string) (types.TypeInfo, bool) {
	if t, ok := e.typeAliases[name]; ok {
		return t, true
	}
	if e.outer != nil {
		return e.outer.LookupType(name)
	}
	return nil, false
}

// DefineValue records a value binding's static type, consulted by
// `typeof x` type queries.
func (e *TypeEnvironment) DefineValue(name string, t types.TypeInfo) {
	e.values[name] = t
}

// LookupValue resolves a value name's static type up the scope chain.
func (e *TypeEnvironment) LookupValue(name string) (types.TypeInfo, bool) {
	if t, ok := e.values[name]; ok {
		return t, true
	}
	if e.outer != nil {
		return e.outer.LookupValue(name)
	}
	return nil, false
}

// DefineNamespace declares ns in the current scope, or merges its members
// into an existing namespace of the same name (declaration merging, spec
// §6 supplement).
func (e *TypeEnvironment) DefineNamespace(ns *types.Namespace) *types.Namespace {
	if existing, ok := e.namespaces[ns.Name]; ok {
		MergeNamespace(existing, ns)
		return existing
	}
	e.namespaces[ns.Name] = ns
	e.typeAliases[ns.Name] = ns
	return ns
}

// LookupNamespace resolves a namespace name up the scope chain.
func (e *TypeEnvironment) LookupNamespace(name string) (*types.Namespace, bool) {
	if ns, ok := e.namespaces[name]; ok {
		return ns, true
	}
	if e.outer != nil {
		return e.outer.LookupNamespace(name)
	}
	return nil, false
}

// MergeNamespace folds addition's types and values into target in place,
// the way two `namespace N { ... }` blocks with the same name combine.
// Later declarations win on name collision.
func MergeNamespace(target, addition *types.Namespace) {
	for name, t := range addition.Types {
		target.Types[name] = t
	}
	for name, v := range addition.Values {
		target.Values[name] = v
	}
}

// Outer returns the enclosing scope, or nil at module scope.
func (e *TypeEnvironment) Outer() *TypeEnvironment {
	return e.outer
}

// OwnTypesAndValues returns shallow copies of this scope's own type-alias
// and value bindings (not the outer chain), used by the checker to
// materialize a namespace's merged member set after hoisting its body into
// a nested scope.
func (e *TypeEnvironment) OwnTypesAndValues() (map[string]types.TypeInfo, map[string]types.TypeInfo) {
	typesOut := make(map[string]types.TypeInfo, len(e.typeAliases))
	for k, v := range e.typeAliases {
		typesOut[k] = v
	}
	valuesOut := make(map[string]types.TypeInfo, len(e.values))
	for k, v := range e.values {
		valuesOut[k] = v
	}
	return typesOut, valuesOut
}
