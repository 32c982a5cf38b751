package interpreter

import (
	"github.com/tsgoscript/tscore/internal/ast"
)

func (ip *Interpreter) evalCall(e *ast.CallExpression, env *Environment) (Value, error) {
	// A call through a member expression (obj.method(...)) needs to
	// resolve `this` from the receiver, so it's handled separately from
	// a bare identifier/expression call.
	if m, ok := e.Callee.(*ast.MemberExpression); ok {
		if sup, ok := m.Object.(*ast.SuperExpression); ok {
			return ip.evalSuperCall(sup, m, e, env)
		}
		recv, err := ip.eval(m.Object, env)
		if err != nil {
			return nil, err
		}
		if e.Optional && isNullish(recv) {
			return &UndefinedValue{}, nil
		}
		if m.Optional && isNullish(recv) {
			return &UndefinedValue{}, nil
		}
		fnVal, _, err := ip.evalMember(m, env)
		if err != nil {
			return nil, err
		}
		fn, ok := fnVal.(*FunctionValue)
		if !ok {
			return nil, newRuntimeError(e.Pos(), "value is not callable")
		}
		args, err := ip.evalArgs(e.Arguments, env)
		if err != nil {
			return nil, err
		}
		if inst, ok := recv.(*InstanceValue); ok {
			return ip.callFunction(fn, inst, args, e.Pos())
		}
		return ip.callFunction(fn, nil, args, e.Pos())
	}

	callee, err := ip.eval(e.Callee, env)
	if err != nil {
		return nil, err
	}
	if e.Optional && isNullish(callee) {
		return &UndefinedValue{}, nil
	}
	args, err := ip.evalArgs(e.Arguments, env)
	if err != nil {
		return nil, err
	}
	fn, ok := callee.(*FunctionValue)
	if !ok {
		return nil, newRuntimeError(e.Pos(), "value is not callable")
	}
	return ip.callFunction(fn, fn.BoundThis, args, e.Pos())
}

func (ip *Interpreter) evalSuperCall(sup *ast.SuperExpression, m *ast.MemberExpression, call *ast.CallExpression, env *Environment) (Value, error) {
	thisVal, ok := env.Get("this")
	if !ok {
		return nil, newRuntimeError(sup.Pos(), "super call outside of a method")
	}
	inst, ok := thisVal.(*InstanceValue)
	if !ok {
		return nil, newRuntimeError(sup.Pos(), "super call outside of a method")
	}
	if inst.Class.Super == nil {
		return nil, newRuntimeError(sup.Pos(), "class has no superclass")
	}
	key, err := ip.propertyKey(m.Property, m.Computed, env)
	if err != nil {
		return nil, err
	}
	fn, ok := inst.Class.Super.Methods[key]
	if !ok {
		return nil, newRuntimeError(sup.Pos(), "superclass has no method %q", key)
	}
	args, err := ip.evalArgs(call.Arguments, env)
	if err != nil {
		return nil, err
	}
	return ip.callFunction(fn, inst, args, call.Pos())
}

func (ip *Interpreter) evalArgs(args []ast.Argument, env *Environment) ([]Value, error) {
	var out []Value
	for _, a := range args {
		v, err := ip.eval(a.Expr, env)
		if err != nil {
			return nil, err
		}
		if a.Spread {
			arr, ok := v.(*ArrayValue)
			if !ok {
				return nil, newRuntimeError(a.Expr.Pos(), "cannot spread a non-array value into arguments")
			}
			out = append(out, arr.Elements...)
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (ip *Interpreter) evalNew(e *ast.NewExpression, env *Environment) (Value, error) {
	calleeVal, err := ip.eval(e.Callee, env)
	if err != nil {
		return nil, err
	}
	cls, ok := calleeVal.(*ClassValue)
	if !ok {
		return nil, newRuntimeError(e.Pos(), "value is not a constructor")
	}
	args, err := ip.evalArgs(e.Arguments, env)
	if err != nil {
		return nil, err
	}
	return ip.instantiate(cls, args, e.Pos())
}
