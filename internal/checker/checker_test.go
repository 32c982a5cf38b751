package checker

import (
	"strings"
	"testing"

	"github.com/tsgoscript/tscore/internal/diag"
	"github.com/tsgoscript/tscore/internal/parser"
)

// checkSource parses and checks input, returning the diagnostic (if any)
// and the checker that produced it, mirroring the teacher's
// analyzeSource(t, input) helper.
func checkSource(t *testing.T, input string) (*Checker, *diag.Diagnostic) {
	t.Helper()
	prog, err := parser.Parse(input, "test.ts")
	if err != nil {
		t.Fatalf("parser error: %v", err)
	}
	c := New(DefaultOptions(), nil)
	d := c.Check(prog)
	return c, d
}

func expectNoErrors(t *testing.T, input string) *Checker {
	t.Helper()
	c, d := checkSource(t, input)
	if d != nil {
		t.Errorf("expected no errors, got: %v", d)
	}
	return c
}

func expectError(t *testing.T, input string, want string) {
	t.Helper()
	_, d := checkSource(t, input)
	if d == nil {
		t.Errorf("expected error containing %q, got no error", want)
		return
	}
	if !strings.Contains(d.Message, want) {
		t.Errorf("expected error containing %q, got: %v", want, d.Message)
	}
}

func TestSimpleVariableDeclaration(t *testing.T) {
	expectNoErrors(t, `let x: number = 1;`)
}

func TestVariableDeclarationMismatch(t *testing.T) {
	expectError(t, `let x: number = "hi";`, "cannot assign")
}

func TestUndeclaredIdentifier(t *testing.T) {
	expectError(t, `let x = y;`, "cannot find name")
}

func TestFunctionReturnTypeMismatch(t *testing.T) {
	expectError(t, `
		function f(): number {
			return "hi";
		}
	`, "cannot return")
}

func TestFunctionCallArity(t *testing.T) {
	expectNoErrors(t, `
		function add(a: number, b: number): number {
			return a + b;
		}
		let r: number = add(1, 2);
	`)
}

func TestCallOnNonCallable(t *testing.T) {
	expectError(t, `
		let x: number = 1;
		x();
	`, "not callable")
}
