package interpreter

import (
	"github.com/tsgoscript/tscore/internal/ast"
	"github.com/tsgoscript/tscore/internal/dispatch"
)

// setter is returned alongside a member access's current value so
// assignTo can write back through the same resolution path without
// re-running property-key evaluation.
type setter func(Value) error

// evalMember resolves obj.prop / obj[computed] / obj?.prop, consulting
// internal/dispatch for the direct-vs-dynamic classification spec §4.6
// requires of every member access (the interpreter has no separate
// code path for each — unlike the bytecode emitter, it always performs
// the same map lookup either way, but routes private (#name) access
// through the owning class's BrandRegistry regardless of classification,
// since a brand slot never lives in the generic Fields map).
func (ip *Interpreter) evalMember(e *ast.MemberExpression, env *Environment) (Value, setter, error) {
	obj, err := ip.eval(e.Object, env)
	if err != nil {
		return nil, nil, err
	}
	if e.Optional && isNullish(obj) {
		return &UndefinedValue{}, nil, nil
	}

	if priv, ok := e.Property.(*ast.PrivateIdentifier); ok {
		return ip.evalPrivateMember(e, obj, priv, env)
	}

	key, err := ip.propertyKey(e.Property, e.Computed, env)
	if err != nil {
		return nil, nil, err
	}

	switch o := obj.(type) {
	case *ObjectValue:
		v, ok := o.Get(key)
		if !ok {
			v = &UndefinedValue{}
		}
		return v, func(nv Value) error { o.Set(key, nv); return nil }, nil

	case *ArrayValue:
		return ip.evalArrayMember(o, key, e)

	case *InstanceValue:
		return ip.evalInstanceMember(o, key, e)

	case *ClassValue:
		return ip.evalStaticMember(o, key, e)

	case *StringValue:
		if key == "length" {
			return &NumberValue{Value: float64(len([]rune(o.Value)))}, nil, nil
		}
		return &UndefinedValue{}, nil, nil
	}
	if isNullish(obj) {
		return nil, nil, newRuntimeError(e.Pos(), "cannot read properties of %s (reading %q)", obj.Type(), key)
	}
	return &UndefinedValue{}, nil, nil
}

func (ip *Interpreter) evalArrayMember(a *ArrayValue, key string, e *ast.MemberExpression) (Value, setter, error) {
	if key == "length" {
		return &NumberValue{Value: float64(len(a.Elements))}, func(nv Value) error {
			n := int(toNumber(nv))
			if n < len(a.Elements) {
				a.Elements = a.Elements[:n]
			}
			for len(a.Elements) < n {
				a.Elements = append(a.Elements, &UndefinedValue{})
			}
			return nil
		}, nil
	}
	if idx, ok := arrayIndex(key); ok {
		if idx < 0 || idx >= len(a.Elements) {
			return &UndefinedValue{}, func(nv Value) error {
				for len(a.Elements) <= idx {
					a.Elements = append(a.Elements, &UndefinedValue{})
				}
				a.Elements[idx] = nv
				return nil
			}, nil
		}
		idx := idx
		return a.Elements[idx], func(nv Value) error { a.Elements[idx] = nv; return nil }, nil
	}
	return &UndefinedValue{}, nil, nil
}

func arrayIndex(key string) (int, bool) {
	if key == "" {
		return 0, false
	}
	n := 0
	for _, c := range key {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

// evalInstanceMember looks up a field, method, getter, or setter on an
// instance. When the checker's TypeMap pins e.Object to a specific
// Instance(C) that declares the member, internal/dispatch.
// ClassifyMemberAccess resolves the owning class directly instead of
// walking the superclass chain — the same classification the bytecode
// emitter uses to decide whether it can bind a call site statically.
func (ip *Interpreter) evalInstanceMember(inst *InstanceValue, key string, e *ast.MemberExpression) (Value, setter, error) {
	if v, ok := inst.Fields[key]; ok {
		return v, func(nv Value) error { inst.Fields[key] = nv; return nil }, nil
	}

	start := inst.Class
	if kind, owner := dispatch.ClassifyMemberAccess(ip.typeMap, e.Object, key); kind == dispatch.DirectDispatch && owner != nil {
		if direct, ok := ip.classes[owner.Name]; ok {
			start = direct
		}
	}

	for c := start; c != nil; c = c.Super {
		if getter, ok := c.Methods["get "+key]; ok {
			v, err := ip.callFunction(getter, inst, nil, e.Pos())
			return v, nil, err
		}
		if m, ok := c.Methods[key]; ok {
			bound := *m
			bound.BoundThis = inst
			return &bound, nil, nil
		}
	}
	return &UndefinedValue{}, func(nv Value) error { inst.Fields[key] = nv; return nil }, nil
}

func (ip *Interpreter) evalStaticMember(cls *ClassValue, key string, e *ast.MemberExpression) (Value, setter, error) {
	for c := cls; c != nil; c = c.Super {
		if m, ok := c.Methods[key]; ok {
			return m, nil, nil
		}
		if v, ok := c.StaticProps[key]; ok {
			return v, func(nv Value) error { c.StaticProps[key] = nv; return nil }, nil
		}
	}
	return &UndefinedValue{}, nil, nil
}

func (ip *Interpreter) evalPrivateMember(e *ast.MemberExpression, obj Value, priv *ast.PrivateIdentifier, env *Environment) (Value, setter, error) {
	inst, ok := obj.(*InstanceValue)
	if !ok {
		return nil, nil, newRuntimeError(e.Pos(), "cannot access private member %s on a non-instance value", priv.Value)
	}
	owner := inst.Class
	for owner != nil && owner.Brand == nil {
		owner = owner.Super
	}
	if owner == nil {
		return nil, nil, newRuntimeError(e.Pos(), "private member %s is not declared on %s", priv.Value, inst.Class.Name)
	}
	v, err := getPrivate(owner, inst, priv.Value)
	if err != nil {
		return nil, nil, err
	}
	return v, func(nv Value) error { return setPrivate(owner, inst, priv.Value, nv) }, nil
}
