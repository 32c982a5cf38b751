package interpreter

import (
	"fmt"

	"github.com/tsgoscript/tscore/internal/ast"
)

// eval evaluates a single expression node against env.
func (ip *Interpreter) eval(expr ast.Expression, env *Environment) (Value, error) {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return &NumberValue{Value: e.Value}, nil
	case *ast.StringLiteral:
		return &StringValue{Value: e.Value}, nil
	case *ast.BooleanLiteral:
		return &BooleanValue{Value: e.Value}, nil
	case *ast.NullLiteral:
		return &NullValue{}, nil
	case *ast.UndefinedLiteral:
		return &UndefinedValue{}, nil

	case *ast.Identifier:
		if v, ok := env.Get(e.Value); ok {
			return v, nil
		}
		return nil, newRuntimeError(e.Pos(), "undefined variable %q", e.Value)

	case *ast.ThisExpression:
		if v, ok := env.Get("this"); ok {
			return v, nil
		}
		return &UndefinedValue{}, nil

	case *ast.TemplateLiteral:
		return ip.evalTemplateLiteral(e, env)

	case *ast.ArrayLiteral:
		return ip.evalArrayLiteral(e, env)

	case *ast.ObjectLiteral:
		return ip.evalObjectLiteral(e, env)

	case *ast.GroupedExpression:
		return ip.eval(e.Value, env)

	case *ast.AsExpression:
		return ip.eval(e.Value, env)

	case *ast.SatisfiesExpression:
		return ip.eval(e.Value, env)

	case *ast.NonNullExpression:
		v, err := ip.eval(e.Value, env)
		if err != nil {
			return nil, err
		}
		if isNullish(v) {
			return nil, newRuntimeError(e.Pos(), "non-null assertion failed: value was %s", v.Type())
		}
		return v, nil

	case *ast.PrefixExpression:
		return ip.evalPrefix(e, env)

	case *ast.PostfixExpression:
		return ip.evalPostfix(e, env)

	case *ast.InfixExpression:
		return ip.evalInfix(e, env)

	case *ast.AssignmentExpression:
		return ip.evalAssignment(e, env)

	case *ast.ConditionalExpression:
		cond, err := ip.eval(e.Condition, env)
		if err != nil {
			return nil, err
		}
		if truthy(cond) {
			return ip.eval(e.Then, env)
		}
		return ip.eval(e.Else, env)

	case *ast.MemberExpression:
		v, _, err := ip.evalMember(e, env)
		return v, err

	case *ast.CallExpression:
		return ip.evalCall(e, env)

	case *ast.NewExpression:
		return ip.evalNew(e, env)

	case *ast.AwaitExpression:
		v, err := ip.eval(e.Value, env)
		if err != nil {
			return nil, err
		}
		return resolvePromise(v, e.Pos())

	case *ast.ArrowFunction:
		return ip.makeFunction("", e.Params, e.Body, e.IsAsync, env), nil

	case *ast.FunctionExpression:
		name := ""
		if e.Name != nil {
			name = e.Name.Value
		}
		return ip.makeFunction(name, e.Params, e.Body, e.IsAsync, env), nil
	}
	return nil, newRuntimeError(expr.Pos(), "interpreter: unsupported expression %T", expr)
}

func (ip *Interpreter) evalTemplateLiteral(e *ast.TemplateLiteral, env *Environment) (Value, error) {
	var sb []byte
	for i, q := range e.Quasis {
		sb = append(sb, q...)
		if i < len(e.Expressions) {
			v, err := ip.eval(e.Expressions[i], env)
			if err != nil {
				return nil, err
			}
			sb = append(sb, v.String()...)
		}
	}
	return &StringValue{Value: string(sb)}, nil
}

func (ip *Interpreter) evalArrayLiteral(e *ast.ArrayLiteral, env *Environment) (Value, error) {
	arr := &ArrayValue{}
	for _, el := range e.Elements {
		v, err := ip.eval(el.Expr, env)
		if err != nil {
			return nil, err
		}
		if el.Spread {
			spread, ok := v.(*ArrayValue)
			if !ok {
				return nil, newRuntimeError(e.Pos(), "cannot spread a non-array value")
			}
			arr.Elements = append(arr.Elements, spread.Elements...)
			continue
		}
		arr.Elements = append(arr.Elements, v)
	}
	return arr, nil
}

func (ip *Interpreter) evalObjectLiteral(e *ast.ObjectLiteral, env *Environment) (Value, error) {
	obj := NewObjectValue()
	for _, p := range e.Properties {
		if p.Spread {
			v, err := ip.eval(p.Value, env)
			if err != nil {
				return nil, err
			}
			src, ok := v.(*ObjectValue)
			if !ok {
				return nil, newRuntimeError(e.Pos(), "cannot spread a non-object value")
			}
			for _, k := range src.Keys {
				obj.Set(k, src.Values[k])
			}
			continue
		}
		key, err := ip.propertyKey(p.Key, p.Computed, env)
		if err != nil {
			return nil, err
		}
		v, err := ip.eval(p.Value, env)
		if err != nil {
			return nil, err
		}
		obj.Set(key, v)
	}
	return obj, nil
}

// propertyKey resolves an ObjectProperty/MemberExpression key to its
// string form: an Identifier's literal name, a string/number literal's
// text, or a computed expression's evaluated string representation.
func (ip *Interpreter) propertyKey(key ast.Expression, computed bool, env *Environment) (string, error) {
	if !computed {
		switch k := key.(type) {
		case *ast.Identifier:
			return k.Value, nil
		case *ast.StringLiteral:
			return k.Value, nil
		case *ast.NumberLiteral:
			return fmt.Sprintf("%g", k.Value), nil
		}
	}
	v, err := ip.eval(key, env)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

func (ip *Interpreter) evalPrefix(e *ast.PrefixExpression, env *Environment) (Value, error) {
	if e.Operator == "typeof" {
		v, err := ip.eval(e.Right, env)
		if err != nil {
			return nil, err
		}
		return &StringValue{Value: jsTypeof(v)}, nil
	}
	if e.Operator == "delete" {
		if m, ok := e.Right.(*ast.MemberExpression); ok {
			return ip.evalDelete(m, env)
		}
		return &BooleanValue{Value: true}, nil
	}
	if e.Operator == "++" || e.Operator == "--" {
		return ip.evalIncDec(e.Right, e.Operator, env, false)
	}

	v, err := ip.eval(e.Right, env)
	if err != nil {
		return nil, err
	}
	switch e.Operator {
	case "!":
		return &BooleanValue{Value: !truthy(v)}, nil
	case "-":
		return &NumberValue{Value: -toNumber(v)}, nil
	case "+":
		return &NumberValue{Value: toNumber(v)}, nil
	case "~":
		return &NumberValue{Value: float64(^int64(toNumber(v)))}, nil
	case "void":
		return &UndefinedValue{}, nil
	}
	return nil, newRuntimeError(e.Pos(), "interpreter: unsupported prefix operator %q", e.Operator)
}

func (ip *Interpreter) evalDelete(m *ast.MemberExpression, env *Environment) (Value, error) {
	obj, err := ip.eval(m.Object, env)
	if err != nil {
		return nil, err
	}
	key, err := ip.propertyKey(m.Property, m.Computed, env)
	if err != nil {
		return nil, err
	}
	if o, ok := obj.(*ObjectValue); ok {
		delete(o.Values, key)
		for i, k := range o.Keys {
			if k == key {
				o.Keys = append(o.Keys[:i], o.Keys[i+1:]...)
				break
			}
		}
	}
	return &BooleanValue{Value: true}, nil
}

func (ip *Interpreter) evalPostfix(e *ast.PostfixExpression, env *Environment) (Value, error) {
	return ip.evalIncDec(e.Left, e.Operator, env, true)
}

// evalIncDec implements both prefix and postfix ++/--, returning the
// pre-update value for postfix and the post-update value for prefix.
func (ip *Interpreter) evalIncDec(target ast.Expression, op string, env *Environment, postfix bool) (Value, error) {
	old, err := ip.eval(target, env)
	if err != nil {
		return nil, err
	}
	oldNum := toNumber(old)
	newNum := oldNum + 1
	if op == "--" {
		newNum = oldNum - 1
	}
	if err := ip.assignTo(target, &NumberValue{Value: newNum}, env); err != nil {
		return nil, err
	}
	if postfix {
		return &NumberValue{Value: oldNum}, nil
	}
	return &NumberValue{Value: newNum}, nil
}

func (ip *Interpreter) evalInfix(e *ast.InfixExpression, env *Environment) (Value, error) {
	// && || ?? short-circuit, so the right side must not be evaluated
	// eagerly.
	switch e.Operator {
	case "&&":
		l, err := ip.eval(e.Left, env)
		if err != nil {
			return nil, err
		}
		if !truthy(l) {
			return l, nil
		}
		return ip.eval(e.Right, env)
	case "||":
		l, err := ip.eval(e.Left, env)
		if err != nil {
			return nil, err
		}
		if truthy(l) {
			return l, nil
		}
		return ip.eval(e.Right, env)
	case "??":
		l, err := ip.eval(e.Left, env)
		if err != nil {
			return nil, err
		}
		if !isNullish(l) {
			return l, nil
		}
		return ip.eval(e.Right, env)
	}

	l, err := ip.eval(e.Left, env)
	if err != nil {
		return nil, err
	}
	if e.Operator == "instanceof" {
		return ip.evalInstanceof(l, e.Right, env)
	}
	if e.Operator == "in" {
		return ip.evalIn(l, e.Right, env)
	}
	r, err := ip.eval(e.Right, env)
	if err != nil {
		return nil, err
	}
	return evalBinaryOp(e.Operator, l, r, e.Pos())
}

func (ip *Interpreter) evalInstanceof(l Value, rhs ast.Expression, env *Environment) (Value, error) {
	classVal, err := ip.eval(rhs, env)
	if err != nil {
		return nil, err
	}
	target, ok := classVal.(*ClassValue)
	if !ok {
		return nil, newRuntimeError(rhs.Pos(), "right-hand side of instanceof is not a class")
	}
	inst, ok := l.(*InstanceValue)
	if !ok {
		return &BooleanValue{Value: false}, nil
	}
	for c := inst.Class; c != nil; c = c.Super {
		if c == target {
			return &BooleanValue{Value: true}, nil
		}
	}
	return &BooleanValue{Value: false}, nil
}

func (ip *Interpreter) evalIn(l Value, rhs ast.Expression, env *Environment) (Value, error) {
	obj, err := ip.eval(rhs, env)
	if err != nil {
		return nil, err
	}
	key := l.String()
	switch o := obj.(type) {
	case *ObjectValue:
		_, ok := o.Get(key)
		return &BooleanValue{Value: ok}, nil
	case *InstanceValue:
		_, ok := o.Fields[key]
		return &BooleanValue{Value: ok}, nil
	}
	return &BooleanValue{Value: false}, nil
}

func (ip *Interpreter) evalAssignment(e *ast.AssignmentExpression, env *Environment) (Value, error) {
	if e.Operator == "=" {
		v, err := ip.eval(e.Right, env)
		if err != nil {
			return nil, err
		}
		if err := ip.assignTo(e.Left, v, env); err != nil {
			return nil, err
		}
		return v, nil
	}

	// Compound assignment: &&=, ||=, ??= short-circuit; the rest desugar
	// to `left = left OP right`.
	switch e.Operator {
	case "&&=":
		cur, err := ip.eval(e.Left, env)
		if err != nil {
			return nil, err
		}
		if !truthy(cur) {
			return cur, nil
		}
		v, err := ip.eval(e.Right, env)
		if err != nil {
			return nil, err
		}
		return v, ip.assignTo(e.Left, v, env)
	case "||=":
		cur, err := ip.eval(e.Left, env)
		if err != nil {
			return nil, err
		}
		if truthy(cur) {
			return cur, nil
		}
		v, err := ip.eval(e.Right, env)
		if err != nil {
			return nil, err
		}
		return v, ip.assignTo(e.Left, v, env)
	case "??=":
		cur, err := ip.eval(e.Left, env)
		if err != nil {
			return nil, err
		}
		if !isNullish(cur) {
			return cur, nil
		}
		v, err := ip.eval(e.Right, env)
		if err != nil {
			return nil, err
		}
		return v, ip.assignTo(e.Left, v, env)
	}

	cur, err := ip.eval(e.Left, env)
	if err != nil {
		return nil, err
	}
	rhs, err := ip.eval(e.Right, env)
	if err != nil {
		return nil, err
	}
	baseOp := e.Operator[:len(e.Operator)-1]
	result, err := evalBinaryOp(baseOp, cur, rhs, e.Pos())
	if err != nil {
		return nil, err
	}
	return result, ip.assignTo(e.Left, result, env)
}

// assignTo writes v to the location denoted by target: an identifier, or
// a member expression on an object/instance.
func (ip *Interpreter) assignTo(target ast.Expression, v Value, env *Environment) error {
	switch t := target.(type) {
	case *ast.Identifier:
		return env.Assign(t.Value, v)
	case *ast.MemberExpression:
		_, setter, err := ip.evalMember(t, env)
		if err != nil {
			return err
		}
		if setter == nil {
			return newRuntimeError(t.Pos(), "interpreter: member expression is not assignable")
		}
		return setter(v)
	}
	return newRuntimeError(target.Pos(), "interpreter: invalid assignment target")
}
