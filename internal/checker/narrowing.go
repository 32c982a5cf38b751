package checker

import (
	"github.com/tsgoscript/tscore/internal/ast"
	"github.com/tsgoscript/tscore/internal/typeenv"
	"github.com/tsgoscript/tscore/internal/types"
)

// narrowByCondition implements spec §4.3 narrowing: given the expression
// guarding an if/while/ternary, it returns two child scopes in which a
// narrowed identifier's looked-up type reflects what's statically known to
// be true (thenEnv) or false (elseEnv) about the condition. Unrecognized
// conditions simply return two plain enclosed scopes — narrowing is a
// refinement, never a requirement for soundness elsewhere in the checker.
func (c *Checker) narrowByCondition(cond ast.Expression, env *typeenv.TypeEnvironment) (*typeenv.TypeEnvironment, *typeenv.TypeEnvironment) {
	thenEnv := typeenv.NewEnclosed(env)
	elseEnv := typeenv.NewEnclosed(env)
	c.applyNarrowing(cond, thenEnv, elseEnv)
	return thenEnv, elseEnv
}

func (c *Checker) applyNarrowing(cond ast.Expression, thenEnv, elseEnv *typeenv.TypeEnvironment) {
	switch e := cond.(type) {
	case *ast.GroupedExpression:
		c.applyNarrowing(e.Value, thenEnv, elseEnv)
	case *ast.PrefixExpression:
		if e.Operator == "!" {
			c.applyNarrowing(e.Right, elseEnv, thenEnv)
		}
	case *ast.InfixExpression:
		switch e.Operator {
		case "&&":
			c.applyNarrowing(e.Left, thenEnv, elseEnv)
			c.applyNarrowing(e.Right, thenEnv, elseEnv)
		case "||":
			c.applyNarrowing(e.Left, thenEnv, elseEnv)
			c.applyNarrowing(e.Right, thenEnv, elseEnv)
		case "===", "==":
			c.narrowEquality(e, thenEnv, elseEnv, true)
		case "!==", "!=":
			c.narrowEquality(e, thenEnv, elseEnv, false)
		case "instanceof":
			c.narrowInstanceof(e, thenEnv, elseEnv)
		}
	case *ast.Identifier:
		c.narrowTruthy(e.Value, thenEnv, elseEnv)
	case *ast.CallExpression:
		c.narrowPredicateCall(e, thenEnv, elseEnv)
	}
}

// narrowEquality recognizes `typeof x === "kind"` and `x === null` style
// guards (in either operand order) and narrows the named identifier
// accordingly.
func (c *Checker) narrowEquality(e *ast.InfixExpression, thenEnv, elseEnv *typeenv.TypeEnvironment, isEq bool) {
	if ident, lit := typeofGuard(e.Left, e.Right); ident != nil {
		c.narrowByTypeofLiteral(ident, lit, thenEnv, elseEnv, isEq)
		return
	}
	if ident, lit := typeofGuard(e.Right, e.Left); ident != nil {
		c.narrowByTypeofLiteral(ident, lit, thenEnv, elseEnv, isEq)
		return
	}
	if ident, ok := e.Left.(*ast.Identifier); ok && isNullish(e.Right) {
		c.narrowNullable(ident.Value, thenEnv, elseEnv, isEq)
		return
	}
	if ident, ok := e.Right.(*ast.Identifier); ok && isNullish(e.Left) {
		c.narrowNullable(ident.Value, thenEnv, elseEnv, isEq)
	}
}

// typeofGuard reports the identifier and literal operand of a
// `typeof x === "kind"`-shaped comparison, or (nil, nil) if a does not have
// that shape.
func typeofGuard(a, b ast.Expression) (*ast.Identifier, *ast.StringLiteral) {
	prefix, ok := a.(*ast.PrefixExpression)
	if !ok || prefix.Operator != "typeof" {
		return nil, nil
	}
	ident, ok := prefix.Right.(*ast.Identifier)
	if !ok {
		return nil, nil
	}
	lit, ok := b.(*ast.StringLiteral)
	if !ok {
		return nil, nil
	}
	return ident, lit
}

func (c *Checker) narrowByTypeofLiteral(ident *ast.Identifier, lit *ast.StringLiteral, thenEnv, elseEnv *typeenv.TypeEnvironment, isEq bool) {
	cur, ok := thenEnv.LookupValue(ident.Value)
	if !ok {
		cur = types.ANY
	}

	var match, rest types.TypeInfo
	if lit.Value == "function" {
		// Function values can be represented by any of four distinct
		// TypeInfo shapes (plain, overloaded, generic, generic-overloaded),
		// so there's no single sentinel to match against like the other
		// typeof kinds; split the union by shape instead.
		match, rest = splitByPredicate(cur, isFunctionShaped)
	} else {
		target := typeofKindToType(lit.Value)
		if target == nil {
			return
		}
		match, rest = target, excludeFromUnion(cur, target)
	}

	if isEq {
		thenEnv.DefineValue(ident.Value, match)
		elseEnv.DefineValue(ident.Value, rest)
	} else {
		elseEnv.DefineValue(ident.Value, match)
		thenEnv.DefineValue(ident.Value, rest)
	}
}

func typeofKindToType(kind string) types.TypeInfo {
	switch kind {
	case "string":
		return types.STRING_TYPE
	case "number":
		return types.NUMBER_TYPE
	case "boolean":
		return types.BOOLEAN_TYPE
	case "bigint":
		return types.BIGINT
	case "symbol":
		return types.SYMBOL
	case "undefined":
		return types.UNDEFINED
	case "object":
		return types.OBJECT
	default:
		return nil
	}
}

func isFunctionShaped(t types.TypeInfo) bool {
	switch t.(type) {
	case *types.Function, *types.OverloadedFunction, *types.GenericFunction, *types.GenericOverloadedFunction:
		return true
	default:
		return false
	}
}

// splitByPredicate partitions t (or, if t is a Union, its members) into the
// members pred accepts and the members it doesn't, each collapsed back into
// a single TypeInfo the way NewUnion does.
func splitByPredicate(t types.TypeInfo, pred func(types.TypeInfo) bool) (matched, rest types.TypeInfo) {
	if u, ok := t.(*types.Union); ok {
		var matchedMembers, restMembers []types.TypeInfo
		for _, m := range u.Types {
			if pred(m) {
				matchedMembers = append(matchedMembers, m)
			} else {
				restMembers = append(restMembers, m)
			}
		}
		return types.NewUnion(matchedMembers...), types.NewUnion(restMembers...)
	}
	if pred(t) {
		return t, types.NEVER
	}
	return types.NEVER, t
}

func isNullish(e ast.Expression) bool {
	switch e.(type) {
	case *ast.NullLiteral, *ast.UndefinedLiteral:
		return true
	}
	return false
}

func (c *Checker) narrowNullable(name string, thenEnv, elseEnv *typeenv.TypeEnvironment, isEq bool) {
	cur, ok := thenEnv.LookupValue(name)
	if !ok {
		return
	}
	nonNull := excludeNullish(cur)
	if isEq {
		elseEnv.DefineValue(name, nonNull)
	} else {
		thenEnv.DefineValue(name, nonNull)
	}
}

func (c *Checker) narrowTruthy(name string, thenEnv, elseEnv *typeenv.TypeEnvironment) {
	cur, ok := thenEnv.LookupValue(name)
	if !ok {
		return
	}
	thenEnv.DefineValue(name, excludeNullish(cur))
}

// narrowInstanceof narrows `x instanceof C` to Instance(C) in thenEnv; the
// else branch keeps the declared type since a failed instanceof check
// doesn't rule out other union members precisely enough to be worth
// tracking here.
func (c *Checker) narrowInstanceof(e *ast.InfixExpression, thenEnv, elseEnv *typeenv.TypeEnvironment) {
	ident, ok := e.Left.(*ast.Identifier)
	if !ok {
		return
	}
	ctorIdent, ok := e.Right.(*ast.Identifier)
	if !ok {
		return
	}
	ctorType, ok := thenEnv.LookupValue(ctorIdent.Value)
	if !ok {
		return
	}
	thenEnv.DefineValue(ident.Value, &types.Instance{ClassType: ctorType})
}

// narrowPredicateCall handles `fn(x)` calls where fn's signature is a
// user-defined type predicate (`x is T`), narrowing the argument named by
// the predicate's parameter (spec §3, TypePredicate).
func (c *Checker) narrowPredicateCall(call *ast.CallExpression, thenEnv, elseEnv *typeenv.TypeEnvironment) {
	calleeType, ok := c.typeMap.Get(call.Callee)
	if !ok {
		return
	}
	fn, ok := types.CallableSignature(calleeType).(*types.Function)
	if !ok {
		return
	}
	pred, ok := fn.Return.(*types.TypePredicate)
	if !ok {
		return
	}
	for _, a := range call.Arguments {
		ident, ok := a.Expr.(*ast.Identifier)
		if !ok || ident.Value != pred.ParamName {
			continue
		}
		thenEnv.DefineValue(ident.Value, pred.Type)
	}
}

// excludeNullish strips null/undefined from t, the way a truthiness or
// `!= null` guard does.
func excludeNullish(t types.TypeInfo) types.TypeInfo {
	return excludeFromUnion(excludeFromUnion(t, types.NULL), types.UNDEFINED)
}

// excludeFromUnion removes members matching remove from t, collapsing back
// to a single type (or `never`) the way NewUnion does.
func excludeFromUnion(t types.TypeInfo, remove types.TypeInfo) types.TypeInfo {
	if u, ok := t.(*types.Union); ok {
		var kept []types.TypeInfo
		for _, m := range u.Types {
			if !matchesNarrowTarget(m, remove) {
				kept = append(kept, m)
			}
		}
		return types.NewUnion(kept...)
	}
	if matchesNarrowTarget(t, remove) {
		return types.NEVER
	}
	return t
}

// matchesNarrowTarget reports whether member should be excluded when
// narrowing away `target`, treating a primitive target as also covering its
// literal-type refinements (StringLiteral under STRING_TYPE, and so on).
func matchesNarrowTarget(member, target types.TypeInfo) bool {
	if types.Equal(member, target) {
		return true
	}
	switch target {
	case types.STRING_TYPE:
		_, ok := member.(*types.StringLiteral)
		return ok
	case types.NUMBER_TYPE:
		_, ok := member.(*types.NumberLiteral)
		return ok
	case types.BOOLEAN_TYPE:
		_, ok := member.(*types.BooleanLiteral)
		return ok
	}
	return false
}
