package diag

import (
	"strings"
	"testing"

	"github.com/tsgoscript/tscore/internal/token"
)

func TestKindString(t *testing.T) {
	tests := map[Kind]string{
		SyntaxErrorKind:     "SyntaxError",
		TypeErrorKind:       "TypeError",
		ResolutionErrorKind: "ResolutionError",
		StructuralErrorKind: "StructuralError",
		OverflowErrorKind:   "OverflowError",
	}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}

func TestDiagnosticErrorMatchesFormat(t *testing.T) {
	d := New(TypeErrorKind, token.Position{File: "a.ts", Line: 3, Column: 5}, "bad type")
	if d.Error() != d.Format("", false) {
		t.Error("Error() should equal Format(\"\", false)")
	}
	if !strings.Contains(d.Error(), "bad type") {
		t.Errorf("Error() missing message: %s", d.Error())
	}
}

func TestFormatIncludesSourceLineAndCaret(t *testing.T) {
	source := "let x: number = \"oops\";\n"
	d := New(TypeErrorKind, token.Position{File: "a.ts", Line: 1, Column: 17}, "type mismatch")
	out := d.Format(source, false)
	if !strings.Contains(out, "let x: number") {
		t.Errorf("expected source line in output, got:\n%s", out)
	}
	if !strings.Contains(out, "^") {
		t.Errorf("expected caret in output, got:\n%s", out)
	}
}

func TestFormatWithoutSourceOmitsCaret(t *testing.T) {
	d := New(TypeErrorKind, token.Position{File: "a.ts", Line: 1, Column: 1}, "oops")
	out := d.Format("", false)
	if strings.Contains(out, "^") {
		t.Errorf("expected no caret when no source is given, got:\n%s", out)
	}
}

func TestFormatColorWrapsCaretInAnsiCodes(t *testing.T) {
	source := "x;\n"
	d := New(TypeErrorKind, token.Position{File: "a.ts", Line: 1, Column: 1}, "oops")
	out := d.Format(source, true)
	if !strings.Contains(out, "\033[1;31m") {
		t.Errorf("expected ANSI color code in output, got:\n%s", out)
	}
}

func TestFormatAllSingleDiagnostic(t *testing.T) {
	d := New(TypeErrorKind, token.Position{}, "oops")
	out := FormatAll([]*Diagnostic{d}, "", false)
	if out != d.Format("", false) {
		t.Error("FormatAll with one diagnostic should equal that diagnostic's Format output")
	}
}

func TestFormatAllMultipleDiagnosticsNumbered(t *testing.T) {
	d1 := New(TypeErrorKind, token.Position{Line: 1}, "first")
	d2 := New(ResolutionErrorKind, token.Position{Line: 2}, "second")
	out := FormatAll([]*Diagnostic{d1, d2}, "", false)
	if !strings.Contains(out, "[1/2]") || !strings.Contains(out, "[2/2]") {
		t.Errorf("expected numbered diagnostics, got:\n%s", out)
	}
}

func TestFormatAllEmpty(t *testing.T) {
	if out := FormatAll(nil, "", false); out != "" {
		t.Errorf("FormatAll(nil) = %q, want empty string", out)
	}
}

func TestToJSONRoundTripsThroughFromJSON(t *testing.T) {
	diags := []*Diagnostic{
		New(TypeErrorKind, token.Position{File: "a.ts", Line: 4, Column: 2}, "bad"),
		New(OverflowErrorKind, token.Position{File: "b.ts", Line: 9, Column: 1}, "deep"),
	}
	diags[0].Type = "string"

	out, err := ToJSON(diags)
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	decoded := FromJSON(out)
	if len(decoded) != 2 {
		t.Fatalf("FromJSON decoded %d diagnostics, want 2", len(decoded))
	}
	if decoded[0].Kind != TypeErrorKind || decoded[0].Message != "bad" || decoded[0].Pos.File != "a.ts" {
		t.Errorf("first diagnostic decoded incorrectly: %+v", decoded[0])
	}
	if decoded[0].Type != "string" {
		t.Errorf("expected decoded Type field to round-trip, got %q", decoded[0].Type)
	}
	if decoded[1].Kind != OverflowErrorKind || decoded[1].Pos.Line != 9 {
		t.Errorf("second diagnostic decoded incorrectly: %+v", decoded[1])
	}
}

func TestFromJSONUnknownKindDefaultsToSyntaxError(t *testing.T) {
	decoded := FromJSON(`[{"kind":"NotARealKind","message":"x"}]`)
	if len(decoded) != 1 || decoded[0].Kind != SyntaxErrorKind {
		t.Errorf("expected unknown kind to default to SyntaxError, got %+v", decoded)
	}
}
