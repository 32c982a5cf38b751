package interpreter

import (
	"github.com/tsgoscript/tscore/internal/ast"
	"github.com/tsgoscript/tscore/internal/token"
)

// makeFunction builds a FunctionValue closing over env. The interpreter
// always keeps the reference (Go's own closures work the same way) and
// runs no capture analysis, so a non-capturing arrow retains env too.
func (ip *Interpreter) makeFunction(name string, params []*ast.Param, body ast.Node, isAsync bool, env *Environment) *FunctionValue {
	ps := make([]*Param, len(params))
	for i, p := range params {
		ps[i] = &Param{Name: p.Name, Default: p.Default, Optional: p.Optional || p.Default != nil, Rest: p.Rest}
	}
	return &FunctionValue{Name: name, Params: ps, Body: body, Closure: env, IsAsync: isAsync}
}

// callFunction invokes fn with args bound positionally to its
// parameters, this bound to receiver (nil for a free function), and runs
// its body to completion or to its first return/throw.
func (ip *Interpreter) callFunction(fn *FunctionValue, receiver *InstanceValue, args []Value, pos token.Position) (Value, error) {
	callEnv := NewEnclosedEnvironment(fn.Closure)
	if receiver != nil {
		callEnv.Define("this", receiver, true)
	} else if fn.BoundThis != nil {
		callEnv.Define("this", fn.BoundThis, true)
	}

	if err := ip.bindParams(fn, args, callEnv, pos); err != nil {
		return nil, err
	}

	result, err := ip.runFunctionBody(fn.Body, callEnv)
	if err != nil {
		return nil, err
	}
	if fn.IsAsync {
		return &PromiseValue{Value: result}, nil
	}
	return result, nil
}

// bindParams binds args to fn's declared parameters, evaluating default
// expressions (against callEnv, so later defaults can reference earlier
// parameters) for any argument position left unsupplied, and collecting
// the remainder into a rest parameter's ArrayValue.
func (ip *Interpreter) bindParams(fn *FunctionValue, args []Value, callEnv *Environment, pos token.Position) error {
	for i, p := range fn.Params {
		if p.Rest {
			rest := &ArrayValue{}
			if i < len(args) {
				rest.Elements = append(rest.Elements, args[i:]...)
			}
			callEnv.Define(p.Name, rest, false)
			return nil
		}
		if i < len(args) && !isUndefinedArg(args[i]) {
			callEnv.Define(p.Name, args[i], false)
			continue
		}
		if p.Default != nil {
			v, err := ip.eval(p.Default, callEnv)
			if err != nil {
				return err
			}
			callEnv.Define(p.Name, v, false)
			continue
		}
		callEnv.Define(p.Name, &UndefinedValue{}, false)
	}
	return nil
}

func isUndefinedArg(v Value) bool {
	_, ok := v.(*UndefinedValue)
	return ok
}

// runFunctionBody evaluates a concise-body arrow's expression, or
// executes a block body's statements until a return signal or the end of
// the block.
func (ip *Interpreter) runFunctionBody(body ast.Node, env *Environment) (Value, error) {
	if expr, ok := body.(ast.Expression); ok {
		return ip.eval(expr, env)
	}
	block, ok := body.(*ast.BlockStatement)
	if !ok {
		return &UndefinedValue{}, nil
	}
	sig, err := ip.execBlock(block, env)
	if err != nil {
		return nil, err
	}
	if sig != nil && sig.kind == signalReturn {
		return sig.value, nil
	}
	return &UndefinedValue{}, nil
}
