package checker

import (
	"github.com/tsgoscript/tscore/internal/diag"
	"github.com/tsgoscript/tscore/internal/token"
	"github.com/tsgoscript/tscore/internal/types"
)

// resolveCallSignature picks the concrete Function a call site should bind
// to, implementing spec §4.3's overload-resolution and generic-inference
// steps: collect every candidate signature whose parameters accept the
// supplied argument types, then select the most specific by the
// per-parameter specificity score (step 3), breaking ties by declaration
// order; any unbound generic type parameters are inferred structurally
// from the argument types first.
func (c *Checker) resolveCallSignature(callee types.TypeInfo, args []types.TypeInfo, explicitTypeArgs []types.TypeInfo, pos token.Position) *types.Function {
	switch f := callee.(type) {
	case *types.Function:
		c.checkArity(f, len(args), pos)
		return f
	case *types.OverloadedFunction:
		if sig := mostSpecificSignature(f.Signatures, args); sig != nil {
			return sig
		}
		// A declared-but-bodyless signature list is the public call surface
		// (spec §4.3): callers bind only to one of those, never to the wider
		// implementation signature, matching TypeScript's own
		// overload-resolution rule. The implementation is used directly
		// only when it is the function's sole signature (no overloads
		// declared at all).
		if len(f.Signatures) == 0 && f.Implementation != nil {
			c.checkArity(f.Implementation, len(args), pos)
			return f.Implementation
		}
		c.fail(diag.TypeErrorKind, pos, "no overload matches this call")
	case *types.GenericFunction:
		return c.instantiateGenericFunction(f, args, explicitTypeArgs, pos)
	case *types.GenericOverloadedFunction:
		var candidates []*types.Function
		for _, sig := range f.Signatures {
			inst := c.instantiateGenericFunction(sig, args, explicitTypeArgs, pos)
			if signatureAccepts(inst, args) {
				candidates = append(candidates, inst)
			}
		}
		if best := mostSpecificOf(candidates); best != nil {
			return best
		}
		if len(f.Signatures) == 0 && f.Implementation != nil {
			return c.instantiateGenericFunction(f.Implementation, args, explicitTypeArgs, pos)
		}
		c.fail(diag.TypeErrorKind, pos, "no generic overload matches this call")
	case *types.InstantiatedGeneric:
		if gf, ok := f.Definition.(*types.GenericFunction); ok {
			bindings := map[string]types.TypeInfo{}
			for i, p := range gf.TypeParams {
				if i < len(f.TypeArguments) {
					bindings[p.Name] = f.TypeArguments[i]
				}
			}
			fn := &types.Function{
				Params:   substituteAll(gf.Params, bindings),
				Return:   substituteTypeParams(gf.Return, bindings),
				MinArity: gf.MinArity,
				HasRest:  gf.HasRest,
			}
			c.checkArity(fn, len(args), pos)
			return fn
		}
	}
	c.fail(diag.TypeErrorKind, pos, "value of type %s is not callable", callee.String())
	return nil
}

func (c *Checker) checkArity(f *types.Function, argc int, pos token.Position) {
	if argc < f.MinArity {
		c.fail(diag.TypeErrorKind, pos, "expected at least %d arguments, got %d", f.MinArity, argc)
	}
	if !f.HasRest && argc > len(f.Params) {
		c.fail(diag.TypeErrorKind, pos, "expected at most %d arguments, got %d", len(f.Params), argc)
	}
}

// signatureAccepts reports whether every argument is assignable to its
// corresponding declared parameter (extra trailing args are accepted only
// through a rest parameter), without raising a diagnostic — used to probe
// candidate overloads silently.
func signatureAccepts(sig *types.Function, args []types.TypeInfo) bool {
	if len(args) < sig.MinArity {
		return false
	}
	if !sig.HasRest && len(args) > len(sig.Params) {
		return false
	}
	for i, a := range args {
		var want types.TypeInfo
		switch {
		case i < len(sig.Params):
			want = sig.Params[i]
		case sig.HasRest && len(sig.Params) > 0:
			if arr, ok := sig.Params[len(sig.Params)-1].(*types.Array); ok {
				want = arr.Element
			}
		}
		if want == nil {
			continue
		}
		if !types.IsAssignable(want, a) {
			return false
		}
	}
	return true
}

// mostSpecificSignature filters sigs to those signatureAccepts approves of
// and returns the most specific per mostSpecificOf, or nil if none match.
func mostSpecificSignature(sigs []*types.Function, args []types.TypeInfo) *types.Function {
	var candidates []*types.Function
	for _, sig := range sigs {
		if signatureAccepts(sig, args) {
			candidates = append(candidates, sig)
		}
	}
	return mostSpecificOf(candidates)
}

// mostSpecificOf implements spec §4.3 step 3: among already-matching
// candidates, the one with the highest summed per-parameter specificity
// score wins; a strict improvement is required to replace the current
// best, so the first (earliest-declared) candidate wins all ties.
func mostSpecificOf(candidates []*types.Function) *types.Function {
	var best *types.Function
	bestScore := -1
	for _, sig := range candidates {
		if score := specificityScore(sig); score > bestScore {
			best = sig
			bestScore = score
		}
	}
	return best
}

func specificityScore(sig *types.Function) int {
	score := 0
	for _, p := range sig.Params {
		score += paramSpecificity(p)
	}
	return score
}

// paramSpecificity ranks a declared parameter type's own shape: literal >
// primitive > union containing it, non-nullable > nullable, and
// derived class > base class among instance types.
func paramSpecificity(t types.TypeInfo) int {
	switch v := t.(type) {
	case *types.StringLiteral, *types.NumberLiteral, *types.BooleanLiteral:
		return 400
	case *types.Instance:
		return 200 + classDepth(v.ClassType)
	case *types.Union:
		score := 100
		if unionHasNullish(v) {
			score -= 10
		}
		return score
	default:
		return 300
	}
}

func unionHasNullish(u *types.Union) bool {
	for _, m := range u.Types {
		if m == types.NULL || m == types.UNDEFINED {
			return true
		}
	}
	return false
}

// classDepth counts superclass links, so a deeper (more derived) class
// scores higher than one of its ancestors.
func classDepth(t types.TypeInfo) int {
	c, ok := t.(*types.Class)
	if !ok {
		return 0
	}
	depth := 0
	for cur := c.Superclass; cur != nil; cur = cur.Superclass {
		depth++
	}
	return depth
}

// instantiateGenericFunction binds gf's type parameters to explicitTypeArgs
// when given, otherwise infers them structurally from args, then
// substitutes into a concrete Function.
func (c *Checker) instantiateGenericFunction(gf *types.GenericFunction, args []types.TypeInfo, explicitTypeArgs []types.TypeInfo, pos token.Position) *types.Function {
	bindings := map[string]types.TypeInfo{}
	if len(explicitTypeArgs) > 0 {
		for i, p := range gf.TypeParams {
			if i < len(explicitTypeArgs) {
				bindings[p.Name] = explicitTypeArgs[i]
			}
		}
	} else {
		names := map[string]bool{}
		for _, p := range gf.TypeParams {
			names[p.Name] = true
		}
		for i, want := range gf.Params {
			if i < len(args) {
				unify(want, args[i], names, bindings)
			}
		}
	}
	for _, p := range gf.TypeParams {
		if _, ok := bindings[p.Name]; ok {
			continue
		}
		switch {
		case p.Default != nil:
			bindings[p.Name] = p.Default
		case p.Constraint != nil:
			bindings[p.Name] = p.Constraint
		default:
			bindings[p.Name] = types.UNKNOWN
		}
	}
	c.trace("infer-generic", pos, gf.String())
	fn := &types.Function{
		Params:   substituteAll(gf.Params, bindings),
		Return:   substituteTypeParams(gf.Return, bindings),
		MinArity: gf.MinArity,
		HasRest:  gf.HasRest,
	}
	c.checkArity(fn, len(args), pos)
	return fn
}

// unify performs one step of structural type-parameter inference: matching
// want (a declared parameter type, possibly containing names from the
// enclosing generic's type-parameter list) against got (the argument's
// actual type). The first occurrence of a type parameter binds it to the
// argument type; every subsequent occurrence unifies with the existing
// binding by taking the common supertype (spec §4.3.1): if the existing
// binding already accepts got, or got already accepts the existing
// binding, the wider of the two is kept, otherwise they're unioned.
func unify(want, got types.TypeInfo, names map[string]bool, bindings map[string]types.TypeInfo) {
	switch w := want.(type) {
	case *types.TypeParameter:
		if names[w.Name] {
			if existing, bound := bindings[w.Name]; bound {
				bindings[w.Name] = widenBinding(existing, got)
			} else {
				bindings[w.Name] = got
			}
		}
	case *types.Array:
		if g, ok := got.(*types.Array); ok {
			unify(w.Element, g.Element, names, bindings)
		}
	case *types.Tuple:
		if g, ok := got.(*types.Tuple); ok {
			for i := range w.Elements {
				if i < len(g.Elements) {
					unify(w.Elements[i].Type, g.Elements[i].Type, names, bindings)
				}
			}
		}
	case *types.Promise:
		if g, ok := got.(*types.Promise); ok {
			unify(w.Value, g.Value, names, bindings)
		}
	case *types.SetType:
		if g, ok := got.(*types.SetType); ok {
			unify(w.Element, g.Element, names, bindings)
		}
	case *types.MapType:
		if g, ok := got.(*types.MapType); ok {
			unify(w.Key, g.Key, names, bindings)
			unify(w.Value, g.Value, names, bindings)
		}
	case *types.Function:
		if g, ok := got.(*types.Function); ok {
			for i := range w.Params {
				if i < len(g.Params) {
					unify(w.Params[i], g.Params[i], names, bindings)
				}
			}
			unify(w.Return, g.Return, names, bindings)
		}
	case *types.Record:
		if g, ok := got.(*types.Record); ok {
			for name, ft := range w.Fields {
				if gt, ok := g.Fields[name]; ok {
					unify(ft, gt, names, bindings)
				}
			}
		}
	case *types.Instance:
		if g, ok := got.(*types.Instance); ok {
			unify(w.ClassType, g.ClassType, names, bindings)
		}
	case *types.InstantiatedGeneric:
		if g, ok := got.(*types.InstantiatedGeneric); ok {
			for i := range w.TypeArguments {
				if i < len(g.TypeArguments) {
					unify(w.TypeArguments[i], g.TypeArguments[i], names, bindings)
				}
			}
		}
	}
}

// widenBinding combines an existing type-parameter binding with a newly
// observed occurrence's type: if one already subsumes the other, the wider
// type is kept; otherwise the two are unioned.
func widenBinding(existing, got types.TypeInfo) types.TypeInfo {
	if existing == got {
		return existing
	}
	if types.IsAssignable(existing, got) {
		return existing
	}
	if types.IsAssignable(got, existing) {
		return got
	}
	if eu, ok := existing.(*types.Union); ok {
		return types.NewUnion(append(append([]types.TypeInfo{}, eu.Types...), got)...)
	}
	return types.NewUnion(existing, got)
}

// substituteTypeParams replaces bound *TypeParameter references inside t
// with their inferred/explicit type argument, recursing into every
// compound TypeInfo variant a generic signature can mention.
func substituteTypeParams(t types.TypeInfo, bindings map[string]types.TypeInfo) types.TypeInfo {
	switch v := t.(type) {
	case *types.TypeParameter:
		if bound, ok := bindings[v.Name]; ok {
			return bound
		}
		return v
	case *types.Array:
		return &types.Array{Element: substituteTypeParams(v.Element, bindings), Readonly: v.Readonly}
	case *types.Tuple:
		elems := make([]types.TupleElement, len(v.Elements))
		for i, e := range v.Elements {
			elems[i] = types.TupleElement{Type: substituteTypeParams(e.Type, bindings), Kind: e.Kind, Label: e.Label}
		}
		return &types.Tuple{Elements: elems, RequiredCount: v.RequiredCount, Readonly: v.Readonly}
	case *types.Union:
		return types.NewUnion(substituteAll(v.Types, bindings)...)
	case *types.Intersection:
		return types.NewIntersection(substituteAll(v.Types, bindings)...)
	case *types.Promise:
		return &types.Promise{Value: substituteTypeParams(v.Value, bindings)}
	case *types.SetType:
		return &types.SetType{Element: substituteTypeParams(v.Element, bindings)}
	case *types.MapType:
		return &types.MapType{Key: substituteTypeParams(v.Key, bindings), Value: substituteTypeParams(v.Value, bindings)}
	case *types.Function:
		return &types.Function{Params: substituteAll(v.Params, bindings), Return: substituteTypeParams(v.Return, bindings), MinArity: v.MinArity, HasRest: v.HasRest}
	case *types.Record:
		out := types.NewRecord()
		for name, ft := range v.Fields {
			out.Fields[name] = substituteTypeParams(ft, bindings)
			out.Optional[name] = v.Optional[name]
		}
		return out
	case *types.InstantiatedGeneric:
		return &types.InstantiatedGeneric{Definition: v.Definition, TypeArguments: substituteAll(v.TypeArguments, bindings)}
	case *types.Instance:
		return &types.Instance{ClassType: substituteTypeParams(v.ClassType, bindings)}
	default:
		return t
	}
}

func substituteAll(ts []types.TypeInfo, bindings map[string]types.TypeInfo) []types.TypeInfo {
	out := make([]types.TypeInfo, len(ts))
	for i, t := range ts {
		out[i] = substituteTypeParams(t, bindings)
	}
	return out
}
