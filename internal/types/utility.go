package types

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ApplyUtility evaluates the built-in generic utility types (spec §6
// supplement) against concrete type arguments. name is the bare
// identifier as written in source (`Partial`, `Pick`, ...).
func ApplyUtility(name string, args []TypeInfo) (TypeInfo, bool) {
	switch name {
	case "Partial":
		return mapRecord(args, func(r *Record) { setAllOptional(r, true) }), true
	case "Required":
		return mapRecord(args, func(r *Record) { setAllOptional(r, false) }), true
	case "Readonly":
		if len(args) == 1 {
			if a, ok := args[0].(*Array); ok {
				return &Array{Element: a.Element, Readonly: true}, true
			}
			if t, ok := args[0].(*Tuple); ok {
				return &Tuple{Elements: t.Elements, RequiredCount: t.RequiredCount, Readonly: true}, true
			}
		}
		return mapRecord(args, func(r *Record) {}), true
	case "Pick":
		return pick(args), true
	case "Omit":
		return omit(args), true
	case "Record":
		return recordUtility(args), true
	case "Exclude":
		return exclude(args), true
	case "Extract":
		return extract(args), true
	case "NonNullable":
		return nonNullable(args), true
	case "ReturnType":
		return returnTypeOf(args), true
	case "Parameters":
		return parametersOf(args), true
	case "InstanceType":
		return instanceTypeOf(args), true
	case "Uppercase":
		return caseTransform(args, cases.Upper(language.Und)), true
	case "Lowercase":
		return caseTransform(args, cases.Lower(language.Und)), true
	case "Capitalize":
		return capitalizeTransform(args, true), true
	case "Uncapitalize":
		return capitalizeTransform(args, false), true
	}
	return nil, false
}

func mapRecord(args []TypeInfo, mutate func(*Record)) TypeInfo {
	if len(args) != 1 {
		return UNKNOWN
	}
	r, ok := args[0].(*Record)
	if !ok {
		return args[0]
	}
	out := cloneRecord(r)
	mutate(out)
	return out
}

func setAllOptional(r *Record, optional bool) {
	for name := range r.Fields {
		r.Optional[name] = optional
	}
}

func cloneRecord(r *Record) *Record {
	out := NewRecord()
	for name, t := range r.Fields {
		out.Fields[name] = t
		out.Optional[name] = r.Optional[name]
	}
	out.StringIndex = r.StringIndex
	out.NumberIndex = r.NumberIndex
	out.SymbolIndex = r.SymbolIndex
	return out
}

func pick(args []TypeInfo) TypeInfo {
	if len(args) != 2 {
		return UNKNOWN
	}
	r, ok := args[0].(*Record)
	if !ok {
		return UNKNOWN
	}
	keys := literalStringSet(args[1])
	out := NewRecord()
	for name, t := range r.Fields {
		if keys[name] {
			out.Fields[name] = t
			out.Optional[name] = r.Optional[name]
		}
	}
	return out
}

func omit(args []TypeInfo) TypeInfo {
	if len(args) != 2 {
		return UNKNOWN
	}
	r, ok := args[0].(*Record)
	if !ok {
		return UNKNOWN
	}
	keys := literalStringSet(args[1])
	out := NewRecord()
	for name, t := range r.Fields {
		if !keys[name] {
			out.Fields[name] = t
			out.Optional[name] = r.Optional[name]
		}
	}
	return out
}

func recordUtility(args []TypeInfo) TypeInfo {
	if len(args) != 2 {
		return UNKNOWN
	}
	out := NewRecord()
	keys := literalStringSet(args[0])
	if len(keys) == 0 {
		out.StringIndex = args[1]
		return out
	}
	for k := range keys {
		out.Fields[k] = args[1]
	}
	return out
}

func exclude(args []TypeInfo) TypeInfo {
	if len(args) != 2 {
		return UNKNOWN
	}
	members := flattenUnion(args[0])
	var out []TypeInfo
	for _, m := range members {
		if !isAssignableToAny(args[1], m) {
			out = append(out, m)
		}
	}
	return NewUnion(out...)
}

func extract(args []TypeInfo) TypeInfo {
	if len(args) != 2 {
		return UNKNOWN
	}
	members := flattenUnion(args[0])
	var out []TypeInfo
	for _, m := range members {
		if isAssignableToAny(args[1], m) {
			out = append(out, m)
		}
	}
	return NewUnion(out...)
}

// isAssignableToAny reports whether m is assignable to any member of
// (possibly union) target; used by Exclude/Extract which test membership
// against each branch of the second type argument.
func isAssignableToAny(target, m TypeInfo) bool {
	for _, t := range flattenUnion(target) {
		if IsAssignable(t, m) {
			return true
		}
	}
	return false
}

func nonNullable(args []TypeInfo) TypeInfo {
	if len(args) != 1 {
		return UNKNOWN
	}
	var out []TypeInfo
	for _, m := range flattenUnion(args[0]) {
		if m != NULL && m != UNDEFINED {
			out = append(out, m)
		}
	}
	return NewUnion(out...)
}

func returnTypeOf(args []TypeInfo) TypeInfo {
	if len(args) != 1 {
		return UNKNOWN
	}
	switch fn := CallableSignature(args[0]).(type) {
	case *Function:
		return fn.Return
	case *GenericFunction:
		return fn.Return
	}
	return UNKNOWN
}

func parametersOf(args []TypeInfo) TypeInfo {
	if len(args) != 1 {
		return &Tuple{}
	}
	var params []TypeInfo
	switch fn := CallableSignature(args[0]).(type) {
	case *Function:
		params = fn.Params
	case *GenericFunction:
		params = fn.Params
	default:
		return &Tuple{}
	}
	elems := make([]TupleElement, len(params))
	for i, p := range params {
		elems[i] = TupleElement{Type: p, Kind: TupleRequired}
	}
	return &Tuple{Elements: elems, RequiredCount: len(elems)}
}

func instanceTypeOf(args []TypeInfo) TypeInfo {
	if len(args) != 1 {
		return UNKNOWN
	}
	switch c := args[0].(type) {
	case *Class:
		return &Instance{ClassType: c}
	case *GenericClass:
		return &Instance{ClassType: c}
	case *InstantiatedGeneric:
		return &Instance{ClassType: c}
	}
	return UNKNOWN
}

func literalStringSet(t TypeInfo) map[string]bool {
	out := map[string]bool{}
	for _, m := range flattenUnion(t) {
		if s, ok := m.(*StringLiteral); ok {
			out[s.Value] = true
		}
	}
	return out
}

func caseTransform(args []TypeInfo, caser cases.Caser) TypeInfo {
	if len(args) != 1 {
		return STRING_TYPE
	}
	if s, ok := args[0].(*StringLiteral); ok {
		return &StringLiteral{Value: caser.String(s.Value)}
	}
	return STRING_TYPE
}

func capitalizeTransform(args []TypeInfo, upper bool) TypeInfo {
	if len(args) != 1 {
		return STRING_TYPE
	}
	s, ok := args[0].(*StringLiteral)
	if !ok || len(s.Value) == 0 {
		return STRING_TYPE
	}
	var caser cases.Caser
	if upper {
		caser = cases.Upper(language.Und)
	} else {
		caser = cases.Lower(language.Und)
	}
	head := caser.String(s.Value[:1])
	return &StringLiteral{Value: head + s.Value[1:]}
}
