package types

import "strings"

// Union is a flattened, de-duplicated, order-preserving sum type.
type Union struct{ Types []TypeInfo }

func (u *Union) typeInfoNode() {}
func (u *Union) String() string {
	parts := make([]string, len(u.Types))
	for i, t := range u.Types {
		parts[i] = t.String()
	}
	return strings.Join(parts, " | ")
}

// NewUnion flattens nested unions, removes never, de-duplicates, and
// collapses to Any/Unknown per spec §3 invariants and §4.1 union flattening.
func NewUnion(members ...TypeInfo) TypeInfo {
	var flat []TypeInfo
	for _, m := range members {
		flat = append(flat, flattenUnion(m)...)
	}
	var out []TypeInfo
	for _, m := range flat {
		if m == ANY {
			return ANY
		}
		if m == NEVER {
			continue
		}
		if !containsType(out, m) {
			out = append(out, m)
		}
	}
	hasUnknown := false
	for _, m := range out {
		if m == UNKNOWN {
			hasUnknown = true
		}
	}
	if hasUnknown {
		return UNKNOWN
	}
	if len(out) == 0 {
		return NEVER
	}
	if len(out) == 1 {
		return out[0]
	}
	return &Union{Types: out}
}

func flattenUnion(t TypeInfo) []TypeInfo {
	if u, ok := t.(*Union); ok {
		var out []TypeInfo
		for _, m := range u.Types {
			out = append(out, flattenUnion(m)...)
		}
		return out
	}
	return []TypeInfo{t}
}

func containsType(list []TypeInfo, t TypeInfo) bool {
	for _, l := range list {
		if Equal(l, t) {
			return true
		}
	}
	return false
}

// Equal reports structural equality for the purposes of union
// de-duplication and type-parameter matching.
func Equal(a, b TypeInfo) bool {
	if a == b {
		return true
	}
	switch x := a.(type) {
	case *StringLiteral:
		y, ok := b.(*StringLiteral)
		return ok && x.Value == y.Value
	case *NumberLiteral:
		y, ok := b.(*NumberLiteral)
		return ok && x.Value == y.Value
	case *BooleanLiteral:
		y, ok := b.(*BooleanLiteral)
		return ok && x.Value == y.Value
	case *TypeParameter:
		y, ok := b.(*TypeParameter)
		return ok && x.Name == y.Name
	case *Class:
		y, ok := b.(*Class)
		return ok && x.Name == y.Name
	case *Instance:
		y, ok := b.(*Instance)
		return ok && Equal(x.ClassType, y.ClassType)
	case *Array:
		y, ok := b.(*Array)
		return ok && Equal(x.Element, y.Element) && x.Readonly == y.Readonly
	case *Union:
		y, ok := b.(*Union)
		if !ok || len(x.Types) != len(y.Types) {
			return false
		}
		for _, xt := range x.Types {
			if !containsType(y.Types, xt) {
				return false
			}
		}
		return true
	}
	return false
}

// Intersection is a simplified product type (see NewIntersection).
type Intersection struct{ Types []TypeInfo }

func (i *Intersection) typeInfoNode() {}
func (i *Intersection) String() string {
	parts := make([]string, len(i.Types))
	for idx, t := range i.Types {
		parts[idx] = t.String()
	}
	return strings.Join(parts, " & ")
}

// scalarKind identifies the mutually-exclusive primitive families used by
// intersection conflict detection (spec §4.1).
func scalarKind(t TypeInfo) (string, bool) {
	switch t {
	case STRING_TYPE:
		return "string", true
	case NUMBER_TYPE:
		return "number", true
	case BOOLEAN_TYPE:
		return "boolean", true
	case NULL:
		return "null", true
	case UNDEFINED:
		return "undefined", true
	case SYMBOL:
		return "symbol", true
	case BIGINT:
		return "bigint", true
	}
	return "", false
}

// NewIntersection simplifies a set of types per spec §4.1: never wins, any
// wins, unknown is the identity, conflicting primitives collapse to never,
// object-like members merge field-wise.
func NewIntersection(members ...TypeInfo) TypeInfo {
	var flat []TypeInfo
	for _, m := range members {
		flat = append(flat, flattenIntersection(m)...)
	}
	var kept []TypeInfo
	var kind string
	haveKind := false
	for _, m := range flat {
		if m == NEVER {
			return NEVER
		}
		if m == ANY {
			return ANY
		}
		if m == UNKNOWN {
			continue
		}
		if k, ok := scalarKind(m); ok {
			if haveKind && k != kind {
				return NEVER
			}
			kind = k
			haveKind = true
		}
		kept = append(kept, m)
	}
	if len(kept) == 0 {
		return UNKNOWN
	}
	merged, rest := mergeRecords(kept)
	if merged != nil && len(rest) == 0 {
		return merged
	}
	if merged != nil {
		rest = append(rest, merged)
	}
	if len(rest) == 1 {
		return rest[0]
	}
	return &Intersection{Types: rest}
}

func flattenIntersection(t TypeInfo) []TypeInfo {
	if i, ok := t.(*Intersection); ok {
		var out []TypeInfo
		for _, m := range i.Types {
			out = append(out, flattenIntersection(m)...)
		}
		return out
	}
	return []TypeInfo{t}
}

// mergeRecords field-wise merges every Record among members into one,
// returning it plus the remaining non-Record members.
func mergeRecords(members []TypeInfo) (*Record, []TypeInfo) {
	var records []*Record
	var rest []TypeInfo
	for _, m := range members {
		if r, ok := m.(*Record); ok {
			records = append(records, r)
		} else {
			rest = append(rest, m)
		}
	}
	if len(records) == 0 {
		return nil, rest
	}
	out := NewRecord()
	for _, r := range records {
		for name, ft := range r.Fields {
			if existing, ok := out.Fields[name]; ok {
				if !Equal(existing, ft) {
					out.Fields[name] = NEVER
				}
			} else {
				out.Fields[name] = ft
			}
		}
	}
	for name := range out.Fields {
		optionalEverywhere := true
		for _, r := range records {
			if _, declared := r.Fields[name]; declared && !r.Optional[name] {
				optionalEverywhere = false
			}
		}
		out.Optional[name] = optionalEverywhere
	}
	return out, rest
}
