package types

// IsAssignable returns true iff a value typed actual may be stored in a
// slot typed expected. Rules are applied in the order spec §4.1 mandates.
func IsAssignable(expected, actual TypeInfo) bool {
	if expected == ANY || actual == ANY {
		return true
	}

	if ep, ok := expected.(*TypeParameter); ok {
		if ap, ok := actual.(*TypeParameter); ok && ep.Name == ap.Name {
			return true
		}
		if ep.Constraint != nil {
			return IsAssignable(ep.Constraint, actual)
		}
		return true
	}
	if ap, ok := actual.(*TypeParameter); ok && ap.Constraint != nil {
		return IsAssignable(expected, ap.Constraint)
	}

	if actual == NEVER {
		return true
	}
	if expected == NEVER {
		return actual == NEVER
	}

	if expected == UNKNOWN {
		return true
	}
	if actual == UNKNOWN {
		return expected == UNKNOWN || expected == ANY
	}

	if actual == NULL || actual == UNDEFINED {
		if expected == actual {
			return true
		}
		if u, ok := expected.(*Union); ok {
			return containsType(u.Types, actual)
		}
		return false
	}

	if Equal(expected, actual) {
		return true
	}
	if isLiteralOf(expected, actual) {
		return true
	}

	_, actualIsUnion := actual.(*Union)
	if eu, ok := expected.(*Union); ok && !actualIsUnion {
		for _, m := range eu.Types {
			if IsAssignable(m, actual) {
				return true
			}
		}
		return false
	}
	if au, ok := actual.(*Union); ok {
		for _, m := range au.Types {
			if !IsAssignable(expected, m) {
				return false
			}
		}
		return true
	}

	if ei, ok := expected.(*Intersection); ok {
		for _, m := range ei.Types {
			if !IsAssignable(m, actual) {
				return false
			}
		}
		return true
	}
	if ai, ok := actual.(*Intersection); ok {
		for _, m := range ai.Types {
			if IsAssignable(expected, m) {
				return true
			}
		}
		return false
	}

	if ae, ok := expected.(*Enum); ok {
		return isAssignableEnum(ae, actual, true)
	}
	if ae, ok := actual.(*Enum); ok {
		return isAssignableEnum(ae, expected, false)
	}

	if ec, ok := expected.(*Class); ok {
		if ac, ok := actual.(*Class); ok {
			return classExtends(ac, ec)
		}
		return false
	}

	if ei, ok := expected.(*Interface); ok {
		return satisfiesInterface(ei, actual)
	}

	if eg, ok := expected.(*InstantiatedGeneric); ok {
		ag, ok := actual.(*InstantiatedGeneric)
		if !ok || definitionIdentity(eg.Definition) != definitionIdentity(ag.Definition) {
			return false
		}
		if len(eg.TypeArguments) != len(ag.TypeArguments) {
			return false
		}
		for i := range eg.TypeArguments {
			if !IsAssignable(eg.TypeArguments[i], ag.TypeArguments[i]) {
				return false
			}
		}
		return true
	}

	if ea, ok := expected.(*Array); ok {
		aa, ok := actual.(*Array)
		if !ok {
			return false
		}
		return IsAssignable(ea.Element, aa.Element)
	}

	if et, ok := expected.(*Tuple); ok {
		return isTupleAssignable(et, actual)
	}

	if ef, ok := expected.(*Function); ok {
		af, ok := actual.(*Function)
		if !ok {
			return false
		}
		return isFunctionAssignable(ef, af)
	}

	if er, ok := expected.(*Record); ok {
		return isRecordAssignable(er, actual)
	}

	return false
}

func isLiteralOf(expected, actual TypeInfo) bool {
	switch actual.(type) {
	case *StringLiteral:
		return expected == STRING_TYPE
	case *NumberLiteral:
		return expected == NUMBER_TYPE
	case *BooleanLiteral:
		return expected == BOOLEAN_TYPE
	}
	return false
}

func isAssignableEnum(e *Enum, other TypeInfo, expectedIsEnum bool) bool {
	widened := NUMBER_TYPE
	if e.Kind == EnumString {
		widened = STRING_TYPE
	}
	if expectedIsEnum {
		return Equal(other, e) || IsAssignable(widened, other)
	}
	return Equal(other, e) || IsAssignable(other, widened)
}

func classExtends(c, target *Class) bool {
	for cur := c; cur != nil; cur = cur.Superclass {
		if cur == target || cur.Name == target.Name {
			return true
		}
	}
	return false
}

func definitionIdentity(t TypeInfo) string {
	switch d := t.(type) {
	case *GenericClass:
		return "class:" + d.Name
	case *GenericInterface:
		return "interface:" + d.Name
	case *GenericFunction:
		return "function"
	}
	return ""
}

// satisfiesInterface checks actual structurally against every interface
// member (fields/getters/methods, recursing); optional members may be
// absent (spec §4.1 rule 11).
func satisfiesInterface(iface *Interface, actual TypeInfo) bool {
	members, optional, ok := memberSetOf(actual)
	if !ok {
		return false
	}
	for _, parent := range iface.Extends {
		if !satisfiesInterfaceMembers(parent.Members, parent.OptionalMembers, members, optional) {
			return false
		}
	}
	return satisfiesInterfaceMembers(iface.Members, iface.OptionalMembers, members, optional)
}

func satisfiesInterfaceMembers(want map[string]TypeInfo, wantOptional map[string]bool, have map[string]TypeInfo, haveOptional map[string]bool) bool {
	for name, wt := range want {
		ht, ok := have[name]
		if !ok {
			if wantOptional[name] {
				continue
			}
			return false
		}
		if !IsAssignable(wt, ht) {
			return false
		}
	}
	return true
}

// memberSetOf extracts a flat name->type map for structural comparison
// from a Record, Instance(Class), Class, or Interface.
func memberSetOf(t TypeInfo) (map[string]TypeInfo, map[string]bool, bool) {
	switch v := t.(type) {
	case *Record:
		return v.Fields, v.Optional, true
	case *Instance:
		c := v.ResolvedClass()
		if c == nil {
			return nil, nil, false
		}
		return classMemberSet(c), map[string]bool{}, true
	case *Class:
		return classMemberSet(v), map[string]bool{}, true
	case *Interface:
		return v.Members, v.OptionalMembers, true
	}
	return nil, nil, false
}

func classMemberSet(c *Class) map[string]TypeInfo {
	out := map[string]TypeInfo{}
	for cur := c; cur != nil; cur = cur.Superclass {
		for name, ft := range cur.DeclaredFieldTypes {
			if _, exists := out[name]; !exists {
				out[name] = ft
			}
		}
		for name, mt := range cur.Methods {
			if _, exists := out[name]; !exists {
				out[name] = mt
			}
		}
		for name, gt := range cur.Getters {
			if _, exists := out[name]; !exists {
				out[name] = gt
			}
		}
	}
	return out
}

func isTupleAssignable(expected *Tuple, actual TypeInfo) bool {
	if at, ok := actual.(*Tuple); ok {
		if at.RequiredCount < expected.RequiredCount {
			return false
		}
		for i, ee := range expected.Elements {
			if i >= len(at.Elements) {
				return ee.Kind != TupleRequired
			}
			if !IsAssignable(ee.Type, at.Elements[i].Type) {
				return false
			}
		}
		return true
	}
	if aa, ok := actual.(*Array); ok {
		for _, ee := range expected.Elements {
			if !IsAssignable(ee.Type, aa.Element) {
				return false
			}
		}
		return true
	}
	return false
}

func isFunctionAssignable(expected, actual *Function) bool {
	if len(actual.Params) > len(expected.Params) && !actual.HasRest {
		return false
	}
	for i, ap := range actual.Params {
		if i >= len(expected.Params) {
			break
		}
		if !IsAssignable(expected.Params[i], ap) {
			return false
		}
	}
	if expected.Return == nil || expected.Return == VOID {
		return true
	}
	if actual.Return == nil {
		return false
	}
	return IsAssignable(expected.Return, actual.Return)
}

func isRecordAssignable(expected *Record, actual TypeInfo) bool {
	members, optional, ok := memberSetOf(actual)
	if !ok {
		return false
	}
	return satisfiesInterfaceMembers(expected.Fields, expected.Optional, members, optional)
}
