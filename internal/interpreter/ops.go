package interpreter

import (
	"math"
	"strconv"
	"strings"

	"github.com/tsgoscript/tscore/internal/token"
)

// truthy implements JavaScript's ToBoolean coercion for the value shapes
// this interpreter produces.
func truthy(v Value) bool {
	switch val := v.(type) {
	case *BooleanValue:
		return val.Value
	case *NumberValue:
		return val.Value != 0
	case *StringValue:
		return val.Value != ""
	case *NullValue, *UndefinedValue:
		return false
	}
	return true
}

func isNullish(v Value) bool {
	switch v.(type) {
	case *NullValue, *UndefinedValue:
		return true
	}
	return false
}

// toNumber implements ToNumber for the subset of coercions the checked
// subset of the language can actually produce (a statically number-typed
// expression is already a NumberValue; this only has to cover the
// `string + number` / unary-on-any cases the checker's `any` escape hatch
// allows through).
func toNumber(v Value) float64 {
	switch val := v.(type) {
	case *NumberValue:
		return val.Value
	case *BooleanValue:
		if val.Value {
			return 1
		}
		return 0
	case *StringValue:
		trimmed := strings.TrimSpace(val.Value)
		if trimmed == "" {
			return 0
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	}
	return math.NaN()
}

// jsTypeof mirrors the `typeof` operator's reported type names, which
// diverge from Value.Type() for functions/classes (both report
// "function" under typeof) and for objects/arrays/instances (all
// "object").
func jsTypeof(v Value) string {
	switch v.(type) {
	case *NumberValue:
		return "number"
	case *StringValue:
		return "string"
	case *BooleanValue:
		return "boolean"
	case *UndefinedValue:
		return "undefined"
	case *FunctionValue, *ClassValue:
		return "function"
	default:
		return "object"
	}
}

// evalBinaryOp evaluates every non-short-circuiting infix operator over
// two already-evaluated operands.
func evalBinaryOp(op string, l, r Value, pos token.Position) (Value, error) {
	switch op {
	case "+":
		if isString(l) || isString(r) {
			return &StringValue{Value: l.String() + r.String()}, nil
		}
		return &NumberValue{Value: toNumber(l) + toNumber(r)}, nil
	case "-":
		return &NumberValue{Value: toNumber(l) - toNumber(r)}, nil
	case "*":
		return &NumberValue{Value: toNumber(l) * toNumber(r)}, nil
	case "/":
		return &NumberValue{Value: toNumber(l) / toNumber(r)}, nil
	case "%":
		return &NumberValue{Value: math.Mod(toNumber(l), toNumber(r))}, nil
	case "**":
		return &NumberValue{Value: math.Pow(toNumber(l), toNumber(r))}, nil
	case "==":
		return &BooleanValue{Value: looseEquals(l, r)}, nil
	case "!=":
		return &BooleanValue{Value: !looseEquals(l, r)}, nil
	case "===":
		return &BooleanValue{Value: strictEquals(l, r)}, nil
	case "!==":
		return &BooleanValue{Value: !strictEquals(l, r)}, nil
	case "<":
		return compare(l, r, func(a, b float64) bool { return a < b }, func(a, b string) bool { return a < b }), nil
	case "<=":
		return compare(l, r, func(a, b float64) bool { return a <= b }, func(a, b string) bool { return a <= b }), nil
	case ">":
		return compare(l, r, func(a, b float64) bool { return a > b }, func(a, b string) bool { return a > b }), nil
	case ">=":
		return compare(l, r, func(a, b float64) bool { return a >= b }, func(a, b string) bool { return a >= b }), nil
	case "&":
		return &NumberValue{Value: float64(int64(toNumber(l)) & int64(toNumber(r)))}, nil
	case "|":
		return &NumberValue{Value: float64(int64(toNumber(l)) | int64(toNumber(r)))}, nil
	case "^":
		return &NumberValue{Value: float64(int64(toNumber(l)) ^ int64(toNumber(r)))}, nil
	case "<<":
		return &NumberValue{Value: float64(int64(toNumber(l)) << uint(int64(toNumber(r))%32))}, nil
	case ">>":
		return &NumberValue{Value: float64(int64(toNumber(l)) >> uint(int64(toNumber(r))%32))}, nil
	}
	return nil, newRuntimeError(pos, "interpreter: unsupported operator %q", op)
}

func isString(v Value) bool {
	_, ok := v.(*StringValue)
	return ok
}

func compare(l, r Value, numCmp func(a, b float64) bool, strCmp func(a, b string) bool) Value {
	if ls, ok := l.(*StringValue); ok {
		if rs, ok := r.(*StringValue); ok {
			return &BooleanValue{Value: strCmp(ls.Value, rs.Value)}
		}
	}
	return &BooleanValue{Value: numCmp(toNumber(l), toNumber(r))}
}

func strictEquals(l, r Value) bool {
	if l.Type() != r.Type() {
		return false
	}
	switch lv := l.(type) {
	case *NumberValue:
		return lv.Value == r.(*NumberValue).Value
	case *StringValue:
		return lv.Value == r.(*StringValue).Value
	case *BooleanValue:
		return lv.Value == r.(*BooleanValue).Value
	case *NullValue:
		return true
	case *UndefinedValue:
		return true
	}
	return l == r
}

func looseEquals(l, r Value) bool {
	if isNullish(l) && isNullish(r) {
		return true
	}
	if isNullish(l) != isNullish(r) {
		return false
	}
	if l.Type() == r.Type() {
		return strictEquals(l, r)
	}
	return toNumber(l) == toNumber(r)
}
