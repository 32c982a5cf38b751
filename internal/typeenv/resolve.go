package typeenv

import (
	"strconv"
	"strings"

	"github.com/tsgoscript/tscore/internal/ast"
	"github.com/tsgoscript/tscore/internal/diag"
	"github.com/tsgoscript/tscore/internal/types"
)

// MaxTemplateCombinations and MaxAliasExpansionDepth are the template
// literal expansion cap and type-alias expansion depth cap spec §4.2 names
// as constants; internal/config.Options makes them CLI/YAML-configurable,
// overriding these package defaults from checker.New.
var (
	MaxTemplateCombinations = 10000
	MaxAliasExpansionDepth  = 100
)

// utilityNames is the closed set of built-in generic utility types (spec
// §6 supplement) that resolveRef evaluates by name through
// types.ApplyUtility; they are not bound in any TypeEnvironment.
var utilityNames = map[string]bool{
	"Partial": true, "Required": true, "Readonly": true, "Pick": true,
	"Omit": true, "Record": true, "Exclude": true, "Extract": true,
	"NonNullable": true, "ReturnType": true, "Parameters": true,
	"InstanceType": true, "Uppercase": true, "Lowercase": true,
	"Capitalize": true, "Uncapitalize": true,
}

// resolver tracks recursive type-alias expansion per Resolve call chain.
// Resolve is not reentrant-safe across goroutines; the checker resolves
// one compilation unit at a time (spec §9 global-state-avoidance note
// applies to the checker's TypeMap, not to this transient counter).
type resolver struct {
	env         *TypeEnvironment
	aliasStack  []string
	inferScope  map[string]bool
}

// Resolve converts a parsed TypeExpression into a TypeInfo, expanding type
// aliases and generic references against env. Panics with a *diag.Diagnostic
// on the first violation, per the checker's no-recovery propagation policy.
func (e *TypeEnvironment) Resolve(expr ast.TypeExpression) types.TypeInfo {
	r := &resolver{env: e, inferScope: map[string]bool{}}
	return r.resolve(expr)
}

// ResolveAlias resolves a `type name = value` declaration's right-hand
// side. stack carries the names of enclosing alias declarations currently
// being resolved, so a reference to name (or an ancestor) found inside
// value becomes a RecursiveTypeAlias placeholder instead of looping; the
// checker decides afterward whether the result is legally indirected
// (wrapped in a Record/Array/Tuple/Function/Interface/Instance) or is a
// bare union/intersection of placeholders, which is a StructuralError.
func (e *TypeEnvironment) ResolveAlias(name string, value ast.TypeExpression, stack []string) types.TypeInfo {
	if len(stack) >= MaxAliasExpansionDepth {
		panic(diag.New(diag.OverflowErrorKind, value.Pos(), "type alias expansion depth exceeded for "+name))
	}
	r := &resolver{env: e, aliasStack: append(append([]string{}, stack...), name), inferScope: map[string]bool{}}
	return r.resolve(value)
}

func (r *resolver) resolve(expr ast.TypeExpression) types.TypeInfo {
	switch t := expr.(type) {
	case *ast.TypeRefExpr:
		return r.resolveRef(t)
	case *ast.LiteralTypeExpr:
		return r.resolveLiteral(t)
	case *ast.UnionTypeExpr:
		members := make([]types.TypeInfo, len(t.Types))
		for i, m := range t.Types {
			members[i] = r.resolve(m)
		}
		return types.NewUnion(members...)
	case *ast.IntersectionTypeExpr:
		members := make([]types.TypeInfo, len(t.Types))
		for i, m := range t.Types {
			members[i] = r.resolve(m)
		}
		return types.NewIntersection(members...)
	case *ast.ArrayTypeExpr:
		return &types.Array{Element: r.resolve(t.Element), Readonly: t.Readonly}
	case *ast.TupleTypeExpr:
		return r.resolveTuple(t)
	case *ast.FunctionTypeExpr:
		return r.resolveFunctionType(t)
	case *ast.ObjectTypeExpr:
		return r.resolveObjectType(t)
	case *ast.IndexedAccessTypeExpr:
		return r.resolveIndexedAccess(t)
	case *ast.KeyOfTypeExpr:
		return resolveKeyOf(r.resolve(t.Inner))
	case *ast.TypeQueryExpr:
		return r.resolveTypeQuery(t)
	case *ast.ConditionalTypeExpr:
		return r.resolveConditional(t)
	case *ast.InferTypeExpr:
		r.inferScope[t.Name] = true
		return &types.InferredTypeParameter{Name: t.Name}
	case *ast.TemplateLiteralTypeExpr:
		return r.resolveTemplateLiteral(t)
	case *ast.MappedTypeExpr:
		return r.resolveMapped(t)
	case *ast.PredicateTypeExpr:
		return r.resolvePredicate(t)
	case *ast.ParenTypeExpr:
		return r.resolve(t.Inner)
	}
	panic(diag.New(diag.ResolutionErrorKind, expr.Pos(), "cannot resolve type expression"))
}

func (r *resolver) resolveLiteral(t *ast.LiteralTypeExpr) types.TypeInfo {
	return literalFromRaw(t)
}

func (r *resolver) resolveRef(t *ast.TypeRefExpr) types.TypeInfo {
	switch t.Name {
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
	case "void":
		return types.VOID
	case "null":
		return types.NULL
	case "undefined":
		return types.UNDEFINED
	case "unknown":
		return types.UNKNOWN
	case "never":
		return types.NEVER
	case "any":
		return types.ANY
	case "object":
		return types.OBJECT
	case "Date":
		return types.DATE
	case "RegExp":
		return types.REGEXP
	case "Buffer":
		return types.BUFFER
	case "Timeout":
		return types.TIMEOUT
	}

	if r.inferScope[t.Name] {
		return &types.InferredTypeParameter{Name: t.Name}
	}

	if base, ok := r.builtinGeneric(t); ok {
		return base
	}

	if _, isKnownUtility := utilityNames[t.Name]; isKnownUtility {
		args := make([]types.TypeInfo, len(t.TypeArgs))
		for i, a := range t.TypeArgs {
			args[i] = r.resolve(a)
		}
		if result, ok := types.ApplyUtility(t.Name, args); ok {
			return result
		}
	}

	if result, isAliasLoop := r.expandAlias(t); isAliasLoop {
		return result
	}

	resolved, ok := r.env.LookupType(t.Name)
	if !ok {
		panic(diag.New(diag.ResolutionErrorKind, t.Pos(), "unknown type "+t.Name))
	}

	if len(t.TypeArgs) == 0 {
		return resolved
	}
	args := make([]types.TypeInfo, len(t.TypeArgs))
	for i, a := range t.TypeArgs {
		args[i] = r.resolve(a)
	}
	return &types.InstantiatedGeneric{Definition: resolved, TypeArguments: args}
}

// builtinGeneric resolves the handful of built-in generic container types
// that are spelled like ordinary type references (Promise<T>, Map<K,V>,
// Set<T>, WeakMap<K,V>, WeakSet<T>) rather than routed through the module
// TypeEnvironment.
func (r *resolver) builtinGeneric(t *ast.TypeRefExpr) (types.TypeInfo, bool) {
	arg := func(i int) types.TypeInfo {
		if i < len(t.TypeArgs) {
			return r.resolve(t.TypeArgs[i])
		}
		return types.ANY
	}
	switch t.Name {
	case "Promise":
		return &types.Promise{Value: arg(0)}, true
	case "Map":
		return &types.MapType{Key: arg(0), Value: arg(1)}, true
	case "Set":
		return &types.SetType{Element: arg(0)}, true
	case "WeakMap":
		return &types.WeakMapType{Key: arg(0), Value: arg(1)}, true
	case "WeakSet":
		return &types.WeakSetType{Element: arg(0)}, true
	case "Error", "TypeError", "RangeError", "SyntaxError":
		return &types.ErrorType{Name: t.Name}, true
	}
	return nil, false
}

// expandAlias handles recursive type-alias expansion with a depth cap,
// returning RecursiveTypeAlias placeholders on direct re-entrance.
func (r *resolver) expandAlias(t *ast.TypeRefExpr) (types.TypeInfo, bool) {
	for _, name := range r.aliasStack {
		if name == t.Name {
			return &types.RecursiveTypeAlias{Name: t.Name}, true
		}
	}
	if len(r.aliasStack) >= MaxAliasExpansionDepth {
		panic(diag.New(diag.OverflowErrorKind, t.Pos(), "type alias expansion depth exceeded for "+t.Name))
	}
	return nil, false
}

func (r *resolver) resolveTuple(t *ast.TupleTypeExpr) types.TypeInfo {
	elems := make([]types.TupleElement, len(t.Elements))
	required := 0
	seenOptionalOrSpread := false
	for i, e := range t.Elements {
		kind := types.TupleRequired
		switch {
		case e.Spread:
			kind = types.TupleSpread
			seenOptionalOrSpread = true
		case e.Optional:
			kind = types.TupleOptional
			seenOptionalOrSpread = true
		default:
			if !seenOptionalOrSpread {
				required++
			}
		}
		elems[i] = types.TupleElement{Type: r.resolve(e.Type), Kind: kind, Label: e.Label}
	}
	return &types.Tuple{Elements: elems, RequiredCount: required, Readonly: t.Readonly}
}

func (r *resolver) resolveFunctionType(t *ast.FunctionTypeExpr) types.TypeInfo {
	params := make([]types.TypeInfo, len(t.Params))
	minArity := 0
	hasRest := false
	seenOptional := false
	for i, p := range t.Params {
		params[i] = r.resolve(p.Type)
		if p.Rest {
			hasRest = true
			continue
		}
		if p.Optional {
			seenOptional = true
		} else if !seenOptional {
			minArity++
		}
	}
	var ret types.TypeInfo = types.VOID
	if t.Return != nil {
		ret = r.resolve(t.Return)
	}
	fn := &types.Function{Params: params, Return: ret, MinArity: minArity, HasRest: hasRest}
	if t.ThisType != nil {
		fn.ThisType = r.resolve(t.ThisType)
	}
	if len(t.TypeParams) == 0 {
		return fn
	}
	tps := r.resolveTypeParams(t.TypeParams)
	return &types.GenericFunction{TypeParams: tps, Params: params, Return: ret, MinArity: minArity, HasRest: hasRest, ThisType: fn.ThisType}
}

func (r *resolver) resolveTypeParams(decls []*ast.TypeParamDecl) []*types.TypeParameter {
	out := make([]*types.TypeParameter, len(decls))
	for i, d := range decls {
		tp := &types.TypeParameter{Name: d.Name}
		if d.Constraint != nil {
			tp.Constraint = r.resolve(d.Constraint)
		}
		if d.Default != nil {
			tp.Default = r.resolve(d.Default)
		}
		out[i] = tp
		r.env.DefineType(d.Name, tp)
	}
	return out
}

func (r *resolver) resolveObjectType(t *ast.ObjectTypeExpr) types.TypeInfo {
	rec := types.NewRecord()
	for _, m := range t.Members {
		rec.Fields[m.Name] = r.resolve(m.Type)
		rec.Optional[m.Name] = m.Optional
	}
	if t.StringIndex != nil {
		rec.StringIndex = r.resolve(t.StringIndex)
	}
	if t.NumberIndex != nil {
		rec.NumberIndex = r.resolve(t.NumberIndex)
	}
	return rec
}

func (r *resolver) resolveIndexedAccess(t *ast.IndexedAccessTypeExpr) types.TypeInfo {
	obj := r.resolve(t.Object)
	idx := r.resolve(t.Index)
	return evaluateIndexedAccess(obj, idx)
}

// evaluateIndexedAccess implements T[K] for records/tuples/arrays once K
// is a concrete literal or keyof-derived union; otherwise returns the
// symbolic IndexedAccess node for the checker to carry forward.
func evaluateIndexedAccess(obj, idx types.TypeInfo) types.TypeInfo {
	if lit, ok := idx.(*types.StringLiteral); ok {
		if rec, ok := obj.(*types.Record); ok {
			if ft, ok := rec.Fields[lit.Value]; ok {
				return ft
			}
		}
	}
	if lit, ok := idx.(*types.NumberLiteral); ok {
		if tup, ok := obj.(*types.Tuple); ok {
			i := int(lit.Value)
			if i >= 0 && i < len(tup.Elements) {
				return tup.Elements[i].Type
			}
		}
		if arr, ok := obj.(*types.Array); ok {
			return arr.Element
		}
	}
	if arr, ok := obj.(*types.Array); ok {
		return arr.Element
	}
	if u, ok := idx.(*types.Union); ok {
		members := make([]types.TypeInfo, len(u.Types))
		for i, m := range u.Types {
			members[i] = evaluateIndexedAccess(obj, m)
		}
		return types.NewUnion(members...)
	}
	return &types.IndexedAccess{Object: obj, Index: idx}
}

func resolveKeyOf(t types.TypeInfo) types.TypeInfo {
	switch v := t.(type) {
	case *types.Record:
		members := make([]types.TypeInfo, 0, len(v.Fields))
		for name := range v.Fields {
			members = append(members, &types.StringLiteral{Value: name})
		}
		if v.StringIndex != nil {
			members = append(members, types.STRING_TYPE)
		}
		if v.NumberIndex != nil {
			members = append(members, types.NUMBER_TYPE)
		}
		return types.NewUnion(members...)
	case *types.Interface:
		members := make([]types.TypeInfo, 0, len(v.Members))
		for name := range v.Members {
			members = append(members, &types.StringLiteral{Value: name})
		}
		return types.NewUnion(members...)
	case *types.Class:
		members := make([]types.TypeInfo, 0, len(v.DeclaredFieldTypes)+len(v.Methods))
		for name := range v.DeclaredFieldTypes {
			members = append(members, &types.StringLiteral{Value: name})
		}
		for name := range v.Methods {
			members = append(members, &types.StringLiteral{Value: name})
		}
		return types.NewUnion(members...)
	}
	return &types.KeyOf{Inner: t}
}

func (r *resolver) resolveTypeQuery(t *ast.TypeQueryExpr) types.TypeInfo {
	if len(t.Path) == 0 {
		panic(diag.New(diag.ResolutionErrorKind, t.Pos(), "empty typeof path"))
	}
	resolved, ok := r.env.LookupValue(t.Path[0])
	if !ok {
		panic(diag.New(diag.ResolutionErrorKind, t.Pos(), "unknown value "+t.Path[0]+" in typeof"))
	}
	for _, seg := range t.Path[1:] {
		resolved = evaluateIndexedAccess(resolved, &types.StringLiteral{Value: seg})
	}
	return resolved
}

func (r *resolver) resolveConditional(t *ast.ConditionalTypeExpr) types.TypeInfo {
	_, naked := t.Check.(*ast.TypeRefExpr)
	check := r.resolve(t.Check)
	extends := r.resolve(t.Extends)
	trueT := r.resolve(t.True)
	falseT := r.resolve(t.False)
	naked = naked && isTypeParamLike(check)
	return types.EvaluateConditional(&types.ConditionalType{
		Check: check, Extends: extends, True: trueT, False: falseT, IsNakedCheck: naked,
	})
}

func isTypeParamLike(t types.TypeInfo) bool {
	_, ok := t.(*types.TypeParameter)
	return ok
}

func (r *resolver) resolveTemplateLiteral(t *ast.TemplateLiteralTypeExpr) types.TypeInfo {
	interpolated := make([]types.TypeInfo, len(t.Interpolated))
	for i, e := range t.Interpolated {
		interpolated[i] = r.resolve(e)
	}

	combos := [][]string{{}}
	for _, it := range interpolated {
		options := templateOptions(it)
		var next [][]string
		for _, combo := range combos {
			for _, opt := range options {
				n := append(append([]string{}, combo...), opt)
				next = append(next, n)
				if len(next) > MaxTemplateCombinations {
					panic(diag.New(diag.OverflowErrorKind, t.Pos(), "template literal expansion exceeds "+strconv.Itoa(MaxTemplateCombinations)+" combinations"))
				}
			}
		}
		combos = next
	}

	if !hasSymbolicInterpolation(interpolated) {
		members := make([]types.TypeInfo, 0, len(combos))
		for _, combo := range combos {
			members = append(members, &types.StringLiteral{Value: renderTemplate(t.Quasis, combo)})
		}
		return types.NewUnion(members...)
	}
	return &types.TemplateLiteralType{Strings: t.Quasis, Interpolated: interpolated}
}

func hasSymbolicInterpolation(parts []types.TypeInfo) bool {
	for _, p := range parts {
		switch p.(type) {
		case *types.StringLiteral, *types.NumberLiteral, *types.BooleanLiteral:
		default:
			if u, ok := p.(*types.Union); ok {
				allLiteral := true
				for _, m := range u.Types {
					switch m.(type) {
					case *types.StringLiteral, *types.NumberLiteral, *types.BooleanLiteral:
					default:
						allLiteral = false
					}
				}
				if allLiteral {
					continue
				}
			}
			return true
		}
	}
	return false
}

func templateOptions(t types.TypeInfo) []string {
	switch v := t.(type) {
	case *types.StringLiteral:
		return []string{v.Value}
	case *types.NumberLiteral:
		return []string{v.String()}
	case *types.BooleanLiteral:
		if v.Value {
			return []string{"true"}
		}
		return []string{"false"}
	case *types.Union:
		var out []string
		for _, m := range v.Types {
			out = append(out, templateOptions(m)...)
		}
		return out
	}
	return []string{"${string}"}
}

func renderTemplate(quasis []string, parts []string) string {
	var sb strings.Builder
	for i, q := range quasis {
		sb.WriteString(q)
		if i < len(parts) {
			sb.WriteString(parts[i])
		}
	}
	return sb.String()
}

func (r *resolver) resolveMapped(t *ast.MappedTypeExpr) types.TypeInfo {
	constraint := r.resolve(t.Constraint)
	inner := NewEnclosed(r.env)
	inner.DefineType(t.Param, &types.TypeParameter{Name: t.Param, Constraint: constraint})
	innerResolver := &resolver{env: inner, aliasStack: r.aliasStack, inferScope: r.inferScope}

	mt := &types.MappedType{
		Param:            t.Param,
		Constraint:       constraint,
		Value:            innerResolver.resolve(t.Value),
		ReadonlyModifier: types.MappedTypeModifier(t.ReadonlyModifier),
		OptionalModifier: types.MappedTypeModifier(t.OptionalModifier),
	}
	if t.As != nil {
		mt.As = innerResolver.resolve(t.As)
	}
	return ExpandMapped(mt, constraint)
}

// ExpandMapped materializes a MappedType into a concrete Record when the
// constraint resolves to a set of known string-literal keys (the common
// `{ [K in keyof T]: ... }` case); otherwise leaves it symbolic.
func ExpandMapped(mt *types.MappedType, keys types.TypeInfo) types.TypeInfo {
	lits, ok := literalKeys(keys)
	if !ok {
		return mt
	}
	rec := types.NewRecord()
	for _, key := range lits {
		name := key
		value := substituteMappedParam(mt.Value, mt.Param, &types.StringLiteral{Value: name})
		outName := name
		if mt.As != nil {
			if s, ok := substituteMappedParam(mt.As, mt.Param, &types.StringLiteral{Value: name}).(*types.StringLiteral); ok {
				outName = s.Value
			}
		}
		rec.Fields[outName] = value
		rec.Optional[outName] = mt.OptionalModifier == types.ModifierAdd
	}
	return rec
}

func literalKeys(t types.TypeInfo) ([]string, bool) {
	switch v := t.(type) {
	case *types.StringLiteral:
		return []string{v.Value}, true
	case *types.Union:
		var out []string
		for _, m := range v.Types {
			ls, ok := literalKeys(m)
			if !ok {
				return nil, false
			}
			out = append(out, ls...)
		}
		return out, true
	}
	return nil, false
}

func substituteMappedParam(t types.TypeInfo, param string, key types.TypeInfo) types.TypeInfo {
	switch v := t.(type) {
	case *types.TypeParameter:
		if v.Name == param {
			return key
		}
	case *types.IndexedAccess:
		return evaluateIndexedAccess(substituteMappedParam(v.Object, param, key), substituteMappedParam(v.Index, param, key))
	}
	return t
}

func (r *resolver) resolvePredicate(t *ast.PredicateTypeExpr) types.TypeInfo {
	if t.IsAssertion && t.Type == nil {
		return &types.AssertsNonNull{ParamName: t.ParamName}
	}
	return &types.TypePredicate{ParamName: t.ParamName, Type: r.resolve(t.Type), IsAssertion: t.IsAssertion}
}

func literalFromRaw(t *ast.LiteralTypeExpr) types.TypeInfo {
	switch {
	case t.Raw == "true":
		return &types.BooleanLiteral{Value: true}
	case t.Raw == "false":
		return &types.BooleanLiteral{Value: false}
	case len(t.Raw) > 0 && (t.Raw[0] == '"' || t.Raw[0] == '\''):
		return &types.StringLiteral{Value: t.Raw[1 : len(t.Raw)-1]}
	default:
		return parseNumberLiteralType(t.Raw)
	}
}

func parseNumberLiteralType(raw string) types.TypeInfo {
	neg := strings.HasPrefix(raw, "-")
	trimmed := strings.TrimPrefix(raw, "-")
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return types.NUMBER_TYPE
	}
	if neg {
		f = -f
	}
	return &types.NumberLiteral{Value: f}
}
