// Package operators implements the single source of truth classifying
// binary operators into categories, used by the checker (spec §4.5).
package operators

import (
	"github.com/tsgoscript/tscore/internal/diag"
	"github.com/tsgoscript/tscore/internal/token"
	"github.com/tsgoscript/tscore/internal/types"
)

// Category is one of the closed set of binary-operator classifications.
type Category int

const (
	Plus Category = iota
	Arithmetic
	Power
	Comparison
	Equality
	Bitwise
	BitwiseShift
	UnsignedRightShift
	InOperator
	InstanceofOperator
)

func (c Category) String() string {
	switch c {
	case Plus:
		return "Plus"
	case Arithmetic:
		return "Arithmetic"
	case Power:
		return "Power"
	case Comparison:
		return "Comparison"
	case Equality:
		return "Equality"
	case Bitwise:
		return "Bitwise"
	case BitwiseShift:
		return "BitwiseShift"
	case UnsignedRightShift:
		return "UnsignedRightShift"
	case InOperator:
		return "In"
	case InstanceofOperator:
		return "Instanceof"
	default:
		return "Unknown"
	}
}

// OperatorDescriptor is the result of classifying a single binary operator
// token: its category and the static facts the checker needs to validate
// operand types and compute a result type.
type OperatorDescriptor struct {
	Category      Category
	RequiresNumeric bool
	AllowsBigInt  bool
	IsStrict      bool // ===, !== vs. ==, !=
	IsNegated     bool // !=, !==
}

var descriptors = map[token.Kind]OperatorDescriptor{
	token.PLUS:     {Category: Plus, RequiresNumeric: false, AllowsBigInt: true},
	token.MINUS:    {Category: Arithmetic, RequiresNumeric: true, AllowsBigInt: true},
	token.STAR:     {Category: Arithmetic, RequiresNumeric: true, AllowsBigInt: true},
	token.SLASH:    {Category: Arithmetic, RequiresNumeric: true, AllowsBigInt: true},
	token.PERCENT:  {Category: Arithmetic, RequiresNumeric: true, AllowsBigInt: true},
	token.STARSTAR: {Category: Power, RequiresNumeric: true, AllowsBigInt: true},

	token.LT:  {Category: Comparison, RequiresNumeric: true, AllowsBigInt: true},
	token.LTE: {Category: Comparison, RequiresNumeric: true, AllowsBigInt: true},
	token.GT:  {Category: Comparison, RequiresNumeric: true, AllowsBigInt: true},
	token.GTE: {Category: Comparison, RequiresNumeric: true, AllowsBigInt: true},

	token.EQ:     {Category: Equality, IsStrict: false, IsNegated: false, AllowsBigInt: true},
	token.NEQ:    {Category: Equality, IsStrict: false, IsNegated: true, AllowsBigInt: true},
	token.EQEQEQ: {Category: Equality, IsStrict: true, IsNegated: false, AllowsBigInt: true},
	token.NEQEQ:  {Category: Equality, IsStrict: true, IsNegated: true, AllowsBigInt: true},

	token.AMP:    {Category: Bitwise, RequiresNumeric: true, AllowsBigInt: true},
	token.PIPE:   {Category: Bitwise, RequiresNumeric: true, AllowsBigInt: true},
	token.CARET:  {Category: Bitwise, RequiresNumeric: true, AllowsBigInt: true},
	token.SHL:    {Category: BitwiseShift, RequiresNumeric: true, AllowsBigInt: true},
	token.SHR:    {Category: BitwiseShift, RequiresNumeric: true, AllowsBigInt: true},
	token.USHR:   {Category: UnsignedRightShift, RequiresNumeric: true, AllowsBigInt: false},

	token.IN:         {Category: InOperator},
	token.INSTANCEOF: {Category: InstanceofOperator},
}

// Resolve classifies a binary operator token. Per spec testable property 8,
// the category for a given token is constant across calls.
func Resolve(op token.Kind) (OperatorDescriptor, bool) {
	d, ok := descriptors[op]
	return d, ok
}

// ResultType computes the static result type of applying op to operands of
// the given types, per the operator semantics table in spec §6. Panics
// with a *diag.Diagnostic (TypeError) if the operands are incompatible
// with the operator's category.
func ResultType(op token.Kind, pos token.Position, left, right types.TypeInfo) types.TypeInfo {
	desc, ok := Resolve(op)
	if !ok {
		panic(diag.New(diag.TypeErrorKind, pos, "unknown operator"))
	}

	switch desc.Category {
	case Plus:
		if isStringLike(left) || isStringLike(right) {
			return types.STRING_TYPE
		}
		if isBigIntLike(left) && isBigIntLike(right) {
			return types.BIGINT
		}
		requireNumeric(op, pos, left, right)
		return types.NUMBER_TYPE
	case Arithmetic, Power:
		requireNumeric(op, pos, left, right)
		if isBigIntLike(left) && isBigIntLike(right) {
			return types.BIGINT
		}
		return types.NUMBER_TYPE
	case Comparison:
		requireNumeric(op, pos, left, right)
		return types.BOOLEAN_TYPE
	case Equality:
		return types.BOOLEAN_TYPE
	case Bitwise, BitwiseShift:
		requireNumeric(op, pos, left, right)
		if isBigIntLike(left) && isBigIntLike(right) {
			return types.BIGINT
		}
		return types.NUMBER_TYPE
	case UnsignedRightShift:
		if isBigIntLike(left) || isBigIntLike(right) {
			panic(diag.New(diag.TypeErrorKind, pos, "BigInt operands are not allowed with >>>"))
		}
		requireNumeric(op, pos, left, right)
		return types.NUMBER_TYPE
	case InOperator, InstanceofOperator:
		return types.BOOLEAN_TYPE
	}
	panic(diag.New(diag.TypeErrorKind, pos, "unresolvable operator category"))
}

func requireNumeric(op token.Kind, pos token.Position, left, right types.TypeInfo) {
	if !isNumericLike(left) || !isNumericLike(right) {
		panic(diag.New(diag.TypeErrorKind, pos, "operator requires numeric operands"))
	}
}

func isStringLike(t types.TypeInfo) bool {
	if t == types.STRING_TYPE {
		return true
	}
	_, ok := t.(*types.StringLiteral)
	return ok
}

func isNumericLike(t types.TypeInfo) bool {
	if t == types.NUMBER_TYPE || t == types.BIGINT {
		return true
	}
	switch t.(type) {
	case *types.NumberLiteral:
		return true
	}
	if e, ok := t.(*types.Enum); ok {
		return e.Kind == types.EnumNumeric
	}
	return false
}

func isBigIntLike(t types.TypeInfo) bool {
	return t == types.BIGINT
}
