package checker

import (
	"strings"

	"github.com/tsgoscript/tscore/internal/ast"
	"github.com/tsgoscript/tscore/internal/diag"
	"github.com/tsgoscript/tscore/internal/operators"
	"github.com/tsgoscript/tscore/internal/token"
	"github.com/tsgoscript/tscore/internal/typeenv"
	"github.com/tsgoscript/tscore/internal/types"
)

// binaryOpKind maps the parser's string operator spelling back to the
// token.Kind the operators package classifies by. The lexer/parser are out
// of this package's scope (spec Non-goals) but still hand the checker
// string operators, so this table is the seam between the two.
var binaryOpKind = map[string]token.Kind{
	"+": token.PLUS, "-": token.MINUS, "*": token.STAR, "/": token.SLASH,
	"%": token.PERCENT, "**": token.STARSTAR,
	"<": token.LT, "<=": token.LTE, ">": token.GT, ">=": token.GTE,
	"==": token.EQ, "!=": token.NEQ, "===": token.EQEQEQ, "!==": token.NEQEQ,
	"&": token.AMP, "|": token.PIPE, "^": token.CARET,
	"<<": token.SHL, ">>": token.SHR, ">>>": token.USHR,
	"in": token.IN, "instanceof": token.INSTANCEOF,
}

// checkExpr is the checker's expression entry point: it computes expr's
// static type (using ctx, if non-nil, for bidirectional contextual typing
// of literals and function expressions per spec §4.3) and records it in the
// TypeMap before returning it.
func (c *Checker) checkExpr(expr ast.Expression, env *typeenv.TypeEnvironment, ctx types.TypeInfo) types.TypeInfo {
	t := c.computeExprType(expr, env, ctx)
	c.typeMap.Set(expr, t)
	return t
}

func (c *Checker) computeExprType(expr ast.Expression, env *typeenv.TypeEnvironment, ctx types.TypeInfo) types.TypeInfo {
	switch e := expr.(type) {
	case *ast.Identifier:
		if t, ok := env.LookupValue(e.Value); ok {
			return t
		}
		if ns, ok := env.LookupNamespace(e.Value); ok {
			return ns
		}
		c.fail(diag.ResolutionErrorKind, e.Pos(), "cannot find name %q", e.Value)
	case *ast.PrivateIdentifier:
		if frame := c.currentClass(); frame != nil {
			if t, ok := frame.class.DeclaredFieldTypes[e.Value]; ok {
				return t
			}
			if t, ok := frame.class.Methods[e.Value]; ok {
				return t
			}
		}
		c.fail(diag.ResolutionErrorKind, e.Pos(), "cannot find private member %q", e.Value)
	case *ast.NumberLiteral:
		if e.IsBig {
			return types.BIGINT
		}
		return &types.NumberLiteral{Value: e.Value}
	case *ast.StringLiteral:
		return &types.StringLiteral{Value: e.Value}
	case *ast.BooleanLiteral:
		return &types.BooleanLiteral{Value: e.Value}
	case *ast.NullLiteral:
		return types.NULL
	case *ast.UndefinedLiteral:
		return types.UNDEFINED
	case *ast.ThisExpression:
		frame := c.currentClass()
		if frame == nil {
			c.fail(diag.StructuralErrorKind, e.Pos(), "'this' used outside of a class method")
		}
		return &types.Instance{ClassType: frame.class}
	case *ast.SuperExpression:
		frame := c.currentClass()
		if frame == nil || frame.class.Superclass == nil {
			c.fail(diag.StructuralErrorKind, e.Pos(), "'super' used outside of a derived class method")
		}
		return &types.Instance{ClassType: frame.class.Superclass}
	case *ast.TemplateLiteral:
		for _, sub := range e.Expressions {
			c.checkExpr(sub, env, nil)
		}
		return types.STRING_TYPE
	case *ast.ArrayLiteral:
		return c.checkArrayLiteral(e, env, ctx)
	case *ast.ObjectLiteral:
		return c.checkObjectLiteral(e, env, ctx)
	case *ast.PrefixExpression:
		return c.checkPrefix(e, env)
	case *ast.PostfixExpression:
		return c.checkExpr(e.Left, env, nil)
	case *ast.InfixExpression:
		return c.checkInfix(e, env)
	case *ast.AssignmentExpression:
		return c.checkAssignment(e, env)
	case *ast.ConditionalExpression:
		return c.checkConditional(e, env, ctx)
	case *ast.MemberExpression:
		return c.checkMember(e, env)
	case *ast.CallExpression:
		return c.checkCall(e, env)
	case *ast.NewExpression:
		return c.checkNew(e, env)
	case *ast.AwaitExpression:
		val := c.checkExpr(e.Value, env, nil)
		if p, ok := val.(*types.Promise); ok {
			return p.Value
		}
		return val
	case *ast.AsExpression:
		return c.checkAs(e, env)
	case *ast.SatisfiesExpression:
		val := c.checkExpr(e.Value, env, nil)
		target := c.resolveTypeExpr(env, e.Type)
		c.checkSatisfies(target, val, e.Pos())
		return val
	case *ast.NonNullExpression:
		return excludeNullish(c.checkExpr(e.Value, env, nil))
	case *ast.GroupedExpression:
		return c.checkExpr(e.Value, env, ctx)
	case *ast.ArrowFunction:
		return c.checkArrowFunction(e, env)
	case *ast.FunctionExpression:
		return c.checkFunctionExpression(e, env)
	default:
		c.fail(diag.StructuralErrorKind, expr.Pos(), "checker: unhandled expression type %T", expr)
	}
	return types.ANY
}

func (c *Checker) checkArrayLiteral(e *ast.ArrayLiteral, env *typeenv.TypeEnvironment, ctx types.TypeInfo) types.TypeInfo {
	if tup, ok := ctx.(*types.Tuple); ok {
		return c.checkTupleLiteral(e, env, tup)
	}

	var elemCtx types.TypeInfo
	if arr, ok := ctx.(*types.Array); ok {
		elemCtx = arr.Element
	}
	var elems []types.TypeInfo
	for _, el := range e.Elements {
		if el.Spread {
			spread := c.checkExpr(el.Expr, env, nil)
			elems = append(elems, elementTypeOf(spread))
			continue
		}
		elems = append(elems, c.checkExpr(el.Expr, env, elemCtx))
	}
	if len(elems) == 0 {
		if elemCtx != nil {
			return &types.Array{Element: elemCtx}
		}
		return &types.Array{Element: types.ANY}
	}
	widened := make([]types.TypeInfo, len(elems))
	for i, t := range elems {
		widened[i] = types.Widen(t)
	}
	return &types.Array{Element: types.NewUnion(widened...)}
}

// checkTupleLiteral checks an array literal against a positional Tuple
// contextual type (spec §4.3, §8 Scenario A), type-checking each element
// against its own slot instead of widening the whole literal into a single
// Array element union.
func (c *Checker) checkTupleLiteral(e *ast.ArrayLiteral, env *typeenv.TypeEnvironment, tup *types.Tuple) types.TypeInfo {
	elements := make([]types.TupleElement, 0, len(e.Elements))
	slot := 0
	for _, el := range e.Elements {
		var slotCtx types.TypeInfo
		kind := types.TupleRequired
		advanceSlot := true
		if slot < len(tup.Elements) {
			declared := tup.Elements[slot]
			kind = declared.Kind
			if kind == types.TupleSpread {
				// A rest slot (`...number[]`) absorbs every remaining
				// literal element against its own element type, so the
				// declared slot index doesn't advance past it.
				if arr, ok := declared.Type.(*types.Array); ok {
					slotCtx = arr.Element
				}
				advanceSlot = false
			} else {
				slotCtx = declared.Type
			}
		}

		if el.Spread {
			spread := c.checkExpr(el.Expr, env, nil)
			if st, ok := spread.(*types.Tuple); ok {
				elements = append(elements, st.Elements...)
				if advanceSlot {
					slot += len(st.Elements)
				}
				continue
			}
			elemType := elementTypeOf(spread)
			elements = append(elements, types.TupleElement{Type: elemType, Kind: types.TupleSpread})
			if advanceSlot {
				slot++
			}
			continue
		}

		t := c.checkExpr(el.Expr, env, slotCtx)
		if kind == types.TupleOptional {
			elements = append(elements, types.TupleElement{Type: t, Kind: types.TupleOptional})
		} else {
			elements = append(elements, types.TupleElement{Type: t, Kind: types.TupleRequired})
		}
		if advanceSlot {
			slot++
		}
	}

	required := 0
	for _, el := range elements {
		if el.Kind == types.TupleRequired {
			required++
		}
	}
	return &types.Tuple{Elements: elements, RequiredCount: required}
}

func (c *Checker) checkObjectLiteral(e *ast.ObjectLiteral, env *typeenv.TypeEnvironment, ctx types.TypeInfo) types.TypeInfo {
	ctxRecord, _ := ctx.(*types.Record)
	rec := types.NewRecord()
	for _, p := range e.Properties {
		if p.Spread {
			spread := c.checkExpr(p.Value, env, nil)
			if sr, ok := spread.(*types.Record); ok {
				for name, ft := range sr.Fields {
					rec.Fields[name] = ft
					rec.Optional[name] = sr.Optional[name]
				}
			}
			continue
		}
		name := propertyKeyName(p.Key)
		var fieldCtx types.TypeInfo
		if ctxRecord != nil {
			fieldCtx = ctxRecord.Fields[name]
		}
		rec.Fields[name] = c.checkExpr(p.Value, env, fieldCtx)
	}
	return rec
}

func propertyKeyName(key ast.Expression) string {
	switch k := key.(type) {
	case *ast.Identifier:
		return k.Value
	case *ast.StringLiteral:
		return k.Value
	case *ast.NumberLiteral:
		return k.Raw
	default:
		return ""
	}
}

func (c *Checker) checkPrefix(e *ast.PrefixExpression, env *typeenv.TypeEnvironment) types.TypeInfo {
	switch e.Operator {
	case "typeof":
		c.checkExpr(e.Right, env, nil)
		return types.STRING_TYPE
	case "void":
		c.checkExpr(e.Right, env, nil)
		return types.UNDEFINED
	case "delete":
		c.checkExpr(e.Right, env, nil)
		return types.BOOLEAN_TYPE
	case "!":
		c.checkExpr(e.Right, env, types.BOOLEAN_TYPE)
		return types.BOOLEAN_TYPE
	case "++", "--":
		return c.checkExpr(e.Right, env, nil)
	default: // "-", "+", "~"
		right := c.checkExpr(e.Right, env, nil)
		if right == types.BIGINT {
			return types.BIGINT
		}
		return types.NUMBER_TYPE
	}
}

func (c *Checker) checkInfix(e *ast.InfixExpression, env *typeenv.TypeEnvironment) types.TypeInfo {
	switch e.Operator {
	case "&&":
		left := c.checkExpr(e.Left, env, nil)
		thenEnv, _ := c.narrowByCondition(e.Left, env)
		right := c.checkExpr(e.Right, thenEnv, nil)
		return types.NewUnion(left, right)
	case "||":
		left := c.checkExpr(e.Left, env, nil)
		_, elseEnv := c.narrowByCondition(e.Left, env)
		right := c.checkExpr(e.Right, elseEnv, nil)
		return types.NewUnion(left, right)
	case "??":
		left := c.checkExpr(e.Left, env, nil)
		right := c.checkExpr(e.Right, env, nil)
		return types.NewUnion(excludeNullish(left), right)
	}
	left := c.checkExpr(e.Left, env, nil)
	right := c.checkExpr(e.Right, env, nil)
	kind, ok := binaryOpKind[e.Operator]
	if !ok {
		c.fail(diag.StructuralErrorKind, e.Pos(), "checker: unrecognized binary operator %q", e.Operator)
	}
	return operators.ResultType(kind, e.Pos(), left, right)
}

func (c *Checker) checkAssignment(e *ast.AssignmentExpression, env *typeenv.TypeEnvironment) types.TypeInfo {
	leftType := c.checkExpr(e.Left, env, nil)
	if e.Operator == "=" {
		rightType := c.checkExpr(e.Right, env, leftType)
		if !types.IsAssignable(leftType, rightType) {
			c.fail(diag.TypeErrorKind, e.Right.Pos(), "cannot assign %s to %s", rightType.String(), leftType.String())
		}
		return rightType
	}
	if e.Operator == "&&=" || e.Operator == "||=" || e.Operator == "??=" {
		rightType := c.checkExpr(e.Right, env, leftType)
		return types.NewUnion(leftType, rightType)
	}
	op := strings.TrimSuffix(e.Operator, "=")
	kind, ok := binaryOpKind[op]
	if !ok {
		c.fail(diag.StructuralErrorKind, e.Pos(), "checker: unrecognized compound assignment operator %q", e.Operator)
	}
	rightType := c.checkExpr(e.Right, env, nil)
	result := operators.ResultType(kind, e.Pos(), leftType, rightType)
	if !types.IsAssignable(leftType, result) {
		c.fail(diag.TypeErrorKind, e.Pos(), "cannot assign %s to %s", result.String(), leftType.String())
	}
	return result
}

func (c *Checker) checkConditional(e *ast.ConditionalExpression, env *typeenv.TypeEnvironment, ctx types.TypeInfo) types.TypeInfo {
	c.checkExpr(e.Condition, env, types.BOOLEAN_TYPE)
	thenEnv, elseEnv := c.narrowByCondition(e.Condition, env)
	thenType := c.checkExpr(e.Then, thenEnv, ctx)
	elseType := c.checkExpr(e.Else, elseEnv, ctx)
	return types.NewUnion(thenType, elseType)
}

// checkMember resolves `obj.prop` / `obj[expr]` / `obj?.prop`, enforcing
// access-level visibility for class members (spec §4.3 structural checks).
func (c *Checker) checkMember(e *ast.MemberExpression, env *typeenv.TypeEnvironment) types.TypeInfo {
	objType := c.checkExpr(e.Object, env, nil)
	if e.Optional {
		objType = excludeNullish(objType)
	}
	if e.Computed {
		idxType := c.checkExpr(e.Property, env, nil)
		result := c.resolveIndexedMember(objType, idxType, e.Pos())
		if e.Optional {
			return types.NewUnion(result, types.UNDEFINED)
		}
		return result
	}
	if priv, ok := e.Property.(*ast.PrivateIdentifier); ok {
		result := c.resolvePrivateMember(objType, priv.Value, e.Pos())
		if e.Optional {
			return types.NewUnion(result, types.UNDEFINED)
		}
		return result
	}
	ident, ok := e.Property.(*ast.Identifier)
	if !ok {
		c.fail(diag.StructuralErrorKind, e.Pos(), "checker: member property is neither an identifier nor computed")
	}
	result := c.resolveDottedMember(objType, ident.Value, e.Pos())
	if e.Optional {
		return types.NewUnion(result, types.UNDEFINED)
	}
	return result
}

func (c *Checker) resolvePrivateMember(objType types.TypeInfo, name string, pos token.Position) types.TypeInfo {
	cls := resolvedClassOf(objType)
	if cls == nil {
		c.fail(diag.StructuralErrorKind, pos, "type %s has no private member %q", objType.String(), name)
	}
	if frame := c.currentClass(); frame == nil || frame.class != cls {
		c.fail(diag.StructuralErrorKind, pos, "private member %q is not accessible here", name)
	}
	if t, ok := cls.DeclaredFieldTypes[name]; ok {
		return t
	}
	if t, ok := cls.Methods[name]; ok {
		return t
	}
	c.fail(diag.StructuralErrorKind, pos, "type %s has no private member %q", objType.String(), name)
	return types.ANY
}

func resolvedClassOf(t types.TypeInfo) *types.Class {
	switch v := t.(type) {
	case *types.Instance:
		return v.ResolvedClass()
	case *types.Class:
		return v
	case *types.MutableClass:
		return v.Resolve()
	}
	return nil
}

// resolveDottedMember looks up name on objType, covering class instances
// (with access-level enforcement), the class/constructor object itself
// (static members), interfaces, records, namespaces, enums, and the
// handful of Array/Tuple built-in properties this subset models.
func (c *Checker) resolveDottedMember(objType types.TypeInfo, name string, pos token.Position) types.TypeInfo {
	switch v := objType.(type) {
	case *types.Instance:
		cls := v.ResolvedClass()
		if cls == nil {
			return types.ANY
		}
		return c.resolveInstanceMember(cls, name, pos)
	case *types.Class:
		if t, ok := v.StaticMethods[name]; ok {
			return t
		}
		if t, ok := v.StaticProperties[name]; ok {
			return t
		}
		c.fail(diag.StructuralErrorKind, pos, "class %q has no static member %q", v.Name, name)
	case *types.MutableClass:
		return c.resolveDottedMember(v.Resolve(), name, pos)
	case *types.Interface:
		if t, ok := v.Members[name]; ok {
			return t
		}
		for _, parent := range v.Extends {
			if t, ok := parent.Members[name]; ok {
				return t
			}
		}
		c.fail(diag.StructuralErrorKind, pos, "interface %q has no member %q", v.Name, name)
	case *types.Record:
		if t, ok := v.Fields[name]; ok {
			return t
		}
		if v.StringIndex != nil {
			return v.StringIndex
		}
		c.fail(diag.StructuralErrorKind, pos, "type %s has no member %q", v.String(), name)
	case *types.Namespace:
		if t, ok := v.Values[name]; ok {
			return t
		}
		if t, ok := v.Types[name]; ok {
			return t
		}
		c.fail(diag.ResolutionErrorKind, pos, "namespace %q has no member %q", v.Name, name)
	case *types.Enum:
		if _, ok := v.Members[name]; ok {
			return v
		}
		c.fail(diag.ResolutionErrorKind, pos, "enum %q has no member %q", v.Name, name)
	case *types.Array:
		if name == "length" {
			return types.NUMBER_TYPE
		}
		return v.Element
	case *types.Tuple:
		if name == "length" {
			return &types.NumberLiteral{Value: float64(len(v.Elements))}
		}
	case *types.Union:
		var parts []types.TypeInfo
		for _, member := range v.Types {
			parts = append(parts, c.resolveDottedMember(member, name, pos))
		}
		return types.NewUnion(parts...)
	}
	if objType == types.ANY || objType == types.UNKNOWN {
		return types.ANY
	}
	c.fail(diag.StructuralErrorKind, pos, "type %s has no member %q", objType.String(), name)
	return types.ANY
}

func (c *Checker) resolveInstanceMember(cls *types.Class, name string, pos token.Position) types.TypeInfo {
	for cur := cls; cur != nil; cur = cur.Superclass {
		access, hasAccess := cur.MethodAccess[name]
		if fieldAccess, ok := cur.FieldAccess[name]; ok {
			access, hasAccess = fieldAccess, true
		}
		if hasAccess {
			c.checkAccess(cur, access, name, pos)
		}
		if t, ok := cur.Getters[name]; ok {
			return t
		}
		if t, ok := cur.Methods[name]; ok {
			return t
		}
		if t, ok := cur.DeclaredFieldTypes[name]; ok {
			return t
		}
	}
	c.fail(diag.StructuralErrorKind, pos, "class %q has no member %q", cls.Name, name)
	return types.ANY
}

// checkAccess enforces spec §4.3 access-level visibility: private members
// are visible only from methods of the declaring class; protected members
// are visible from the declaring class and its subclasses.
func (c *Checker) checkAccess(owner *types.Class, access types.AccessLevel, name string, pos token.Position) {
	if access == types.AccessPublic {
		return
	}
	frame := c.currentClass()
	if frame == nil {
		c.fail(diag.StructuralErrorKind, pos, "member %q of class %q is not accessible here", name, owner.Name)
	}
	if access == types.AccessPrivate {
		if frame.class != owner {
			c.fail(diag.StructuralErrorKind, pos, "private member %q of class %q is not accessible here", name, owner.Name)
		}
		return
	}
	// protected
	for cur := frame.class; cur != nil; cur = cur.Superclass {
		if cur == owner {
			return
		}
	}
	c.fail(diag.StructuralErrorKind, pos, "protected member %q of class %q is not accessible here", name, owner.Name)
}

func (c *Checker) resolveIndexedMember(objType, idxType types.TypeInfo, pos token.Position) types.TypeInfo {
	switch v := objType.(type) {
	case *types.Array:
		return v.Element
	case *types.Tuple:
		if lit, ok := idxType.(*types.NumberLiteral); ok {
			i := int(lit.Value)
			if i >= 0 && i < len(v.Elements) {
				return v.Elements[i].Type
			}
		}
		var parts []types.TypeInfo
		for _, e := range v.Elements {
			parts = append(parts, e.Type)
		}
		return types.NewUnion(parts...)
	case *types.Record:
		if lit, ok := idxType.(*types.StringLiteral); ok {
			if t, ok := v.Fields[lit.Value]; ok {
				return t
			}
		}
		if v.StringIndex != nil {
			return v.StringIndex
		}
		return types.ANY
	case *types.MapType:
		return types.NewUnion(v.Value, types.UNDEFINED)
	}
	if objType == types.ANY || objType == types.UNKNOWN {
		return types.ANY
	}
	c.fail(diag.StructuralErrorKind, pos, "type %s cannot be indexed", objType.String())
	return types.ANY
}

func (c *Checker) checkCall(e *ast.CallExpression, env *typeenv.TypeEnvironment) types.TypeInfo {
	calleeType := c.checkExpr(e.Callee, env, nil)
	if _, ok := e.Callee.(*ast.SuperExpression); ok {
		// super(...) is checked against the nearest constructor up the
		// superclass chain; with none, it accepts zero arguments.
		for k := resolvedClassOf(calleeType); k != nil; k = k.Superclass {
			if ctor, ok := k.Methods["constructor"]; ok {
				c.resolveCallSignature(ctor, c.checkArguments(e.Arguments, env), nil, e.Pos())
				return types.VOID
			}
		}
		if len(e.Arguments) > 0 {
			c.fail(diag.TypeErrorKind, e.Pos(), "superclass has no constructor accepting arguments")
		}
		return types.VOID
	}
	if e.Optional {
		calleeType = excludeNullish(calleeType)
	}
	args := c.checkArguments(e.Arguments, env)
	typeArgs := c.resolveTypeArgs(env, e.TypeArgs)
	fn := c.resolveCallSignature(calleeType, args, typeArgs, e.Pos())
	if fn == nil {
		return types.ANY
	}
	if e.Optional {
		return types.NewUnion(fn.Return, types.UNDEFINED)
	}
	return fn.Return
}

func (c *Checker) checkArguments(args []ast.Argument, env *typeenv.TypeEnvironment) []types.TypeInfo {
	var out []types.TypeInfo
	for _, a := range args {
		if a.Spread {
			spread := c.checkExpr(a.Expr, env, nil)
			if arr, ok := spread.(*types.Array); ok {
				out = append(out, arr.Element)
				continue
			}
			out = append(out, elementTypeOf(spread))
			continue
		}
		out = append(out, c.checkExpr(a.Expr, env, nil))
	}
	return out
}

func (c *Checker) resolveTypeArgs(env *typeenv.TypeEnvironment, exprs []ast.TypeExpression) []types.TypeInfo {
	if len(exprs) == 0 {
		return nil
	}
	out := make([]types.TypeInfo, len(exprs))
	for i, te := range exprs {
		out[i] = c.resolveTypeExpr(env, te)
	}
	return out
}

// checkNew resolves a constructor call: the callee must name a class (or a
// generic class instantiation), and its `constructor` signature (or else
// the nearest one inherited from a superclass) governs argument checking;
// a class chain with no declared constructor accepts zero arguments,
// matching an implicit default constructor.
func (c *Checker) checkNew(e *ast.NewExpression, env *typeenv.TypeEnvironment) types.TypeInfo {
	calleeType := c.checkExpr(e.Callee, env, nil)
	cls := resolvedClassOf(calleeType)
	args := c.checkArguments(e.Arguments, env)
	if cls == nil {
		return &types.Instance{ClassType: calleeType}
	}
	for k := cls; k != nil; k = k.Superclass {
		if ctor, ok := k.Methods["constructor"]; ok {
			c.resolveCallSignature(ctor, args, c.resolveTypeArgs(env, e.TypeArgs), e.Pos())
			return &types.Instance{ClassType: cls}
		}
	}
	if len(args) > 0 {
		c.fail(diag.TypeErrorKind, e.Pos(), "class %q has no constructor accepting arguments", cls.Name)
	}
	return &types.Instance{ClassType: cls}
}

// checkAs validates a type assertion. Per spec §9 the conversion is
// permissive rather than TypeScript's exact comparability rule: either
// direction of assignability between the asserted type and the expression's
// static type is accepted, catching only assertions between clearly
// unrelated types.
func (c *Checker) checkAs(e *ast.AsExpression, env *typeenv.TypeEnvironment) types.TypeInfo {
	val := c.checkExpr(e.Value, env, nil)
	if e.AsConst || e.Type == nil {
		return val
	}
	target := c.resolveTypeExpr(env, e.Type)
	if !types.IsAssignable(target, val) && !types.IsAssignable(val, target) {
		c.fail(diag.TypeErrorKind, e.Pos(), "conversion of type %s to type %s may be a mistake", val.String(), target.String())
	}
	return target
}

func (c *Checker) checkArrowFunction(e *ast.ArrowFunction, env *typeenv.TypeEnvironment) types.TypeInfo {
	sig := c.buildFunctionSignature(env, e.TypeParams, e.Params, e.ReturnType, e.IsAsync)
	fn, _ := sig.(*types.Function)
	bodyEnv := typeenv.NewEnclosed(env)
	c.bindParams(bodyEnv, e.Params, fn)
	var ret types.TypeInfo
	if fn != nil {
		ret = fn.Return
	}
	c.funcStack = append(c.funcStack, &funcFrame{returnType: ret, isAsync: e.IsAsync})
	switch body := e.Body.(type) {
	case *ast.BlockStatement:
		c.checkStatementsIn(body.Statements, bodyEnv)
	case ast.Expression:
		actual := c.checkExpr(body, bodyEnv, ret)
		if ret != nil && e.ReturnType != nil && !types.IsAssignable(ret, actual) {
			c.fail(diag.TypeErrorKind, body.Pos(), "cannot return %s, arrow function declares return type %s", actual.String(), ret.String())
		}
		if fn != nil && e.ReturnType == nil {
			fn.Return = types.Widen(actual)
			if e.IsAsync {
				fn.Return = &types.Promise{Value: fn.Return}
			}
		}
	}
	c.funcStack = c.funcStack[:len(c.funcStack)-1]
	return sig
}

func (c *Checker) checkFunctionExpression(e *ast.FunctionExpression, env *typeenv.TypeEnvironment) types.TypeInfo {
	sig := c.buildFunctionSignature(env, e.TypeParams, e.Params, e.ReturnType, e.IsAsync)
	fn, _ := sig.(*types.Function)
	bodyEnv := typeenv.NewEnclosed(env)
	if e.Name != nil {
		bodyEnv.DefineValue(e.Name.Value, sig)
	}
	c.bindParams(bodyEnv, e.Params, fn)
	var ret types.TypeInfo
	if fn != nil {
		ret = fn.Return
	}
	c.funcStack = append(c.funcStack, &funcFrame{returnType: ret, isAsync: e.IsAsync})
	if e.Body != nil {
		c.checkStatementsIn(e.Body.Statements, bodyEnv)
	}
	c.funcStack = c.funcStack[:len(c.funcStack)-1]
	return sig
}
