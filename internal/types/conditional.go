package types

// EvaluateConditional resolves a ConditionalType against a concrete check
// type. Per the recorded Open Question decision, naked type-parameter check
// types distribute over unions (TypeScript's rule); any other check type
// does not distribute and is tested as a whole.
func EvaluateConditional(c *ConditionalType) TypeInfo {
	if u, ok := c.Check.(*Union); ok && c.IsNakedCheck {
		var branches []TypeInfo
		for _, member := range u.Types {
			branch := &ConditionalType{Check: member, Extends: c.Extends, True: c.True, False: c.False}
			branches = append(branches, evaluateOne(branch))
		}
		return NewUnion(branches...)
	}
	return evaluateOne(c)
}

func evaluateOne(c *ConditionalType) TypeInfo {
	bindings := map[string]TypeInfo{}
	if matchExtends(c.Check, c.Extends, bindings) {
		return substituteInferred(c.True, bindings)
	}
	return c.False
}

// matchExtends reports whether check is assignable to extends, recording
// any InferredTypeParameter encountered in extends as bound to the
// corresponding position in check.
func matchExtends(check, extends TypeInfo, bindings map[string]TypeInfo) bool {
	switch e := extends.(type) {
	case *InferredTypeParameter:
		bindings[e.Name] = check
		return true
	case *Array:
		if ca, ok := check.(*Array); ok {
			return matchExtends(ca.Element, e.Element, bindings)
		}
		return IsAssignable(extends, check)
	case *Function:
		if cf, ok := check.(*Function); ok {
			if len(cf.Params) != len(e.Params) {
				return IsAssignable(extends, check)
			}
			for i := range e.Params {
				if !matchExtends(cf.Params[i], e.Params[i], bindings) {
					return false
				}
			}
			return matchExtends(cf.Return, e.Return, bindings)
		}
		return IsAssignable(extends, check)
	case *Promise:
		if cp, ok := check.(*Promise); ok {
			return matchExtends(cp.Value, e.Value, bindings)
		}
		return IsAssignable(extends, check)
	}
	return IsAssignable(extends, check)
}

func substituteInferred(t TypeInfo, bindings map[string]TypeInfo) TypeInfo {
	switch v := t.(type) {
	case *InferredTypeParameter:
		if bound, ok := bindings[v.Name]; ok {
			return bound
		}
		return UNDEFINED
	case *Array:
		return &Array{Element: substituteInferred(v.Element, bindings), Readonly: v.Readonly}
	case *Union:
		out := make([]TypeInfo, len(v.Types))
		for i, m := range v.Types {
			out[i] = substituteInferred(m, bindings)
		}
		return NewUnion(out...)
	case *Promise:
		return &Promise{Value: substituteInferred(v.Value, bindings)}
	}
	return t
}
