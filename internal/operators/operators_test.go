package operators

import (
	"testing"

	"github.com/tsgoscript/tscore/internal/diag"
	"github.com/tsgoscript/tscore/internal/token"
	"github.com/tsgoscript/tscore/internal/types"
)

func mustPanicDiagnostic(t *testing.T, kind diag.Kind) {
	t.Helper()
	r := recover()
	if r == nil {
		t.Fatalf("expected a panic, got none")
	}
	d, ok := r.(*diag.Diagnostic)
	if !ok {
		t.Fatalf("expected *diag.Diagnostic panic, got %T: %v", r, r)
	}
	if d.Kind != kind {
		t.Errorf("diagnostic kind = %v, want %v", d.Kind, kind)
	}
}

func TestResolveKnownOperators(t *testing.T) {
	tests := []struct {
		op   token.Kind
		want Category
	}{
		{token.PLUS, Plus},
		{token.MINUS, Arithmetic},
		{token.STARSTAR, Power},
		{token.LT, Comparison},
		{token.EQEQEQ, Equality},
		{token.AMP, Bitwise},
		{token.SHL, BitwiseShift},
		{token.USHR, UnsignedRightShift},
		{token.IN, InOperator},
		{token.INSTANCEOF, InstanceofOperator},
	}
	for _, tt := range tests {
		desc, ok := Resolve(tt.op)
		if !ok {
			t.Errorf("Resolve(%v) not found", tt.op)
			continue
		}
		if desc.Category != tt.want {
			t.Errorf("Resolve(%v).Category = %v, want %v", tt.op, desc.Category, tt.want)
		}
	}
}

func TestResolveUnknownOperator(t *testing.T) {
	if _, ok := Resolve(token.ARROW); ok {
		t.Error("expected ARROW to not resolve as a binary operator")
	}
}

func TestResultTypePlusStringConcat(t *testing.T) {
	pos := token.Position{}
	got := ResultType(token.PLUS, pos, types.STRING_TYPE, types.NUMBER_TYPE)
	if got != types.STRING_TYPE {
		t.Errorf("string + number = %v, want string", got)
	}
}

func TestResultTypePlusNumericAddition(t *testing.T) {
	pos := token.Position{}
	got := ResultType(token.PLUS, pos, types.NUMBER_TYPE, types.NUMBER_TYPE)
	if got != types.NUMBER_TYPE {
		t.Errorf("number + number = %v, want number", got)
	}
}

func TestResultTypePlusBigIntAddition(t *testing.T) {
	pos := token.Position{}
	got := ResultType(token.PLUS, pos, types.BIGINT, types.BIGINT)
	if got != types.BIGINT {
		t.Errorf("bigint + bigint = %v, want bigint", got)
	}
}

func TestResultTypeComparisonYieldsBoolean(t *testing.T) {
	pos := token.Position{}
	got := ResultType(token.LT, pos, types.NUMBER_TYPE, types.NUMBER_TYPE)
	if got != types.BOOLEAN_TYPE {
		t.Errorf("number < number = %v, want boolean", got)
	}
}

func TestResultTypeEqualityAllowsAnyOperands(t *testing.T) {
	pos := token.Position{}
	got := ResultType(token.EQEQEQ, pos, types.STRING_TYPE, types.NUMBER_TYPE)
	if got != types.BOOLEAN_TYPE {
		t.Errorf("string === number = %v, want boolean", got)
	}
}

func TestResultTypeArithmeticRejectsNonNumeric(t *testing.T) {
	defer mustPanicDiagnostic(t, diag.TypeErrorKind)
	ResultType(token.MINUS, token.Position{}, types.STRING_TYPE, types.NUMBER_TYPE)
}

func TestResultTypeUnsignedShiftRejectsBigInt(t *testing.T) {
	defer mustPanicDiagnostic(t, diag.TypeErrorKind)
	ResultType(token.USHR, token.Position{}, types.BIGINT, types.NUMBER_TYPE)
}

func TestResultTypeInAndInstanceofYieldBoolean(t *testing.T) {
	pos := token.Position{}
	if got := ResultType(token.IN, pos, types.STRING_TYPE, types.OBJECT); got != types.BOOLEAN_TYPE {
		t.Errorf("in = %v, want boolean", got)
	}
	if got := ResultType(token.INSTANCEOF, pos, types.OBJECT, types.OBJECT); got != types.BOOLEAN_TYPE {
		t.Errorf("instanceof = %v, want boolean", got)
	}
}

func TestResultTypeNumericLiteralsAreNumericLike(t *testing.T) {
	pos := token.Position{}
	lit := &types.NumberLiteral{Value: 42}
	got := ResultType(token.LT, pos, lit, types.NUMBER_TYPE)
	if got != types.BOOLEAN_TYPE {
		t.Errorf("NumberLiteral < number = %v, want boolean", got)
	}
}

func TestResultTypeNumericEnumIsNumericLike(t *testing.T) {
	pos := token.Position{}
	e := &types.Enum{Name: "Color", Kind: types.EnumNumeric}
	got := ResultType(token.MINUS, pos, e, types.NUMBER_TYPE)
	if got != types.NUMBER_TYPE {
		t.Errorf("numeric enum - number = %v, want number", got)
	}
}
