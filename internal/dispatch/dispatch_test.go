package dispatch

import (
	"testing"

	"github.com/tsgoscript/tscore/internal/ast"
	"github.com/tsgoscript/tscore/internal/checker"
	"github.com/tsgoscript/tscore/internal/parser"
	"github.com/tsgoscript/tscore/internal/types"
)

func TestStackTypeOfPrimitives(t *testing.T) {
	cases := []struct {
		in   types.TypeInfo
		want StackType
	}{
		{types.NUMBER_TYPE, Double},
		{types.BOOLEAN_TYPE, Boolean},
		{types.STRING_TYPE, String},
		{types.NULL, Null},
		{types.UNDEFINED, Null},
		{types.ANY, Unknown},
		{&types.NumberLiteral{Value: 1}, Double},
		{&types.StringLiteral{Value: "x"}, String},
	}
	for _, c := range cases {
		if got := StackTypeOf(c.in); got != c.want {
			t.Errorf("StackTypeOf(%s) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestClassifyMemberAccessDirect(t *testing.T) {
	cls := types.NewClass("Dog")
	cls.Methods["bark"] = &types.Function{}

	tm := checker.NewTypeMap()
	obj := &ast.Identifier{Value: "a"}
	tm.Set(obj, &types.Instance{ClassType: cls})

	kind, owner := ClassifyMemberAccess(tm, obj, "bark")
	if kind != DirectDispatch {
		t.Fatalf("expected DirectDispatch, got %v", kind)
	}
	if owner != cls {
		t.Fatalf("expected owner %v, got %v", cls, owner)
	}
}

func TestClassifyMemberAccessDirectViaSuperclass(t *testing.T) {
	base := types.NewClass("Animal")
	base.Methods["move"] = &types.Function{}
	derived := types.NewClass("Dog")
	derived.Superclass = base

	tm := checker.NewTypeMap()
	obj := &ast.Identifier{Value: "a"}
	tm.Set(obj, &types.Instance{ClassType: derived})

	kind, owner := ClassifyMemberAccess(tm, obj, "move")
	if kind != DirectDispatch || owner != base {
		t.Fatalf("expected direct dispatch owned by base, got %v/%v", kind, owner)
	}
}

func TestClassifyMemberAccessDynamicWhenUntyped(t *testing.T) {
	tm := checker.NewTypeMap()
	obj := &ast.Identifier{Value: "a"}
	// No TypeMap entry at all: dispatcher has nothing to pin dispatch to.
	kind, owner := ClassifyMemberAccess(tm, obj, "bark")
	if kind != DynamicDispatch || owner != nil {
		t.Fatalf("expected dynamic dispatch with no owner, got %v/%v", kind, owner)
	}
}

func TestClassifyMemberAccessDynamicWhenNotInstance(t *testing.T) {
	tm := checker.NewTypeMap()
	obj := &ast.Identifier{Value: "a"}
	tm.Set(obj, types.NUMBER_TYPE)

	kind, _ := ClassifyMemberAccess(tm, obj, "toFixed")
	if kind != DynamicDispatch {
		t.Fatalf("expected dynamic dispatch for a non-instance receiver")
	}
}

func parseProgram(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := parser.Parse(src, "test.ts")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return prog
}

func firstArrowInit(t *testing.T, prog *ast.Program) *ast.ArrowFunction {
	t.Helper()
	for _, stmt := range prog.Statements {
		vs, ok := stmt.(*ast.VariableStatement)
		if !ok || len(vs.Declarators) == 0 {
			continue
		}
		if arrow, ok := vs.Declarators[0].Init.(*ast.ArrowFunction); ok {
			return arrow
		}
	}
	t.Fatalf("expected a variable statement with an arrow function initializer")
	return nil
}

func TestAnalyzeCapturesNonCapturing(t *testing.T) {
	prog := parseProgram(t, `let f = (x: number) => x + 1;`)
	arrow := firstArrowInit(t, prog)

	cs := AnalyzeCaptures(arrow.Params, arrow.Body)
	if cs.Capturing() {
		t.Fatalf("expected no captures, got %v", cs.Names)
	}
}

func TestAnalyzeCapturesCapturesOuterVariable(t *testing.T) {
	prog := parseProgram(t, `let total = 0; let f = (x: number) => x + total;`)
	arrow := firstArrowInit(t, prog)

	cs := AnalyzeCaptures(arrow.Params, arrow.Body)
	if !cs.Capturing() {
		t.Fatalf("expected a capture of 'total'")
	}
	if len(cs.Names) != 1 || cs.Names[0] != "total" {
		t.Fatalf("expected [total], got %v", cs.Names)
	}
}

func TestAnalyzeCapturesParamShadowsOuter(t *testing.T) {
	prog := parseProgram(t, `let x = 1; let f = (x: number) => x + 1;`)
	arrow := firstArrowInit(t, prog)

	cs := AnalyzeCaptures(arrow.Params, arrow.Body)
	if cs.Capturing() {
		t.Fatalf("parameter x should shadow the outer x, got captures %v", cs.Names)
	}
}

func TestAnalyzeCapturesLocalDeclarationIsNotCaptured(t *testing.T) {
	prog := parseProgram(t, `
		let f = (x: number) => {
			let y = x * 2;
			return y + 1;
		};
	`)
	arrow := firstArrowInit(t, prog)

	cs := AnalyzeCaptures(arrow.Params, arrow.Body)
	if cs.Capturing() {
		t.Fatalf("expected no captures, got %v", cs.Names)
	}
}

func TestPlanAsyncCountsAwaitsAndHoistsLocals(t *testing.T) {
	prog := parseProgram(t, `
		async function f() {
			let a = await g();
			let b = await h();
			return a + b;
		}
	`)
	fn, ok := prog.Statements[0].(*ast.FunctionDecl)
	if !ok {
		t.Fatalf("expected a function declaration, got %T", prog.Statements[0])
	}

	plan := PlanAsync(fn.Body)
	if len(plan.AwaitPoints) != 2 {
		t.Fatalf("expected 2 await points, got %d", len(plan.AwaitPoints))
	}
	if plan.StateCount != 3 {
		t.Fatalf("expected 3 states, got %d", plan.StateCount)
	}
	if len(plan.HoistedLocals) != 2 || plan.HoistedLocals[0] != "a" || plan.HoistedLocals[1] != "b" {
		t.Fatalf("expected hoisted locals [a b], got %v", plan.HoistedLocals)
	}
}

func TestPlanAsyncNoAwaits(t *testing.T) {
	prog := parseProgram(t, `
		async function f() {
			return 1;
		}
	`)
	fn := prog.Statements[0].(*ast.FunctionDecl)

	plan := PlanAsync(fn.Body)
	if len(plan.AwaitPoints) != 0 {
		t.Fatalf("expected no await points, got %d", len(plan.AwaitPoints))
	}
	if plan.StateCount != 1 {
		t.Fatalf("expected 1 state, got %d", plan.StateCount)
	}
}

func TestBrandRegistryRoundTrip(t *testing.T) {
	reg := NewBrandRegistry("Counter")
	instance := &struct{ tag string }{tag: "instance-a"}
	reg.Init(instance)

	if !reg.Has(instance) {
		t.Fatalf("expected instance to carry the brand after Init")
	}
	reg.Set(instance, "count", 5)
	if got := reg.Get(instance, "count"); got != 5 {
		t.Fatalf("expected 5, got %v", got)
	}
}

func TestBrandRegistryRejectsUnbrandedInstance(t *testing.T) {
	reg := NewBrandRegistry("Counter")
	other := &struct{ tag string }{tag: "instance-b"}

	if reg.Has(other) {
		t.Fatalf("expected Has to be false for an un-Init'd instance")
	}
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected Get on an unbranded instance to panic")
		}
	}()
	reg.Get(other, "count")
}
