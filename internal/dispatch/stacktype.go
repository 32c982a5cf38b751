// Package dispatch implements the lowering kernel shared by the interpreter
// and bytecode back-ends (spec §4.6): stack-type classification, direct-vs-
// dynamic member dispatch, closure capture analysis, async await-point
// planning, and the private-slot brand model. Both back-ends call into
// these pure decision helpers and own their own AST traversal; dispatch
// itself never walks a back-end's emitted output.
//
// Grounded on the teacher's internal/bytecode instruction categorization
// (internal/bytecode/instruction.go) for the stack-type enum, and on
// internal/interp's Value tagging for the coarse runtime-shape distinction
// a back-end needs before it can pick an opcode or a Go type.
package dispatch

import "github.com/tsgoscript/tscore/internal/types"

// StackType is the coarse runtime shape a value occupies once lowered,
// independent of its static TypeInfo. Spec §4.6 keeps this deliberately
// coarse: everything that isn't a primitive collapses to Unknown, since
// both back-ends treat object/array/instance values as boxed references.
type StackType int

const (
	Unknown StackType = iota
	Double
	Boolean
	String
	Null
)

func (s StackType) String() string {
	switch s {
	case Double:
		return "double"
	case Boolean:
		return "boolean"
	case String:
		return "string"
	case Null:
		return "null"
	default:
		return "unknown"
	}
}

// StackTypeOf classifies t per spec §4.6. Unions/intersections/generics and
// every object-shaped type fall through to Unknown; undefined widens to
// Null since both back-ends represent the empty value identically.
func StackTypeOf(t types.TypeInfo) StackType {
	switch t {
	case types.NUMBER_TYPE:
		return Double
	case types.BOOLEAN_TYPE:
		return Boolean
	case types.STRING_TYPE:
		return String
	case types.NULL, types.UNDEFINED:
		return Null
	}
	switch t.(type) {
	case *types.NumberLiteral:
		return Double
	case *types.BooleanLiteral:
		return Boolean
	case *types.StringLiteral:
		return String
	}
	return Unknown
}
