// Package diag implements the checker's structured diagnostics: the five
// error kinds, source-context formatting, and JSON snapshot encoding.
package diag

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/tsgoscript/tscore/internal/token"
)

// Kind classifies a Diagnostic per the checker's error taxonomy.
type Kind int

const (
	// SyntaxErrorKind never reaches diag in practice: the parser panics its
	// own SyntaxError before the checker is invoked on a source file.
	SyntaxErrorKind Kind = iota
	TypeErrorKind
	ResolutionErrorKind
	StructuralErrorKind
	OverflowErrorKind
)

func (k Kind) String() string {
	switch k {
	case SyntaxErrorKind:
		return "SyntaxError"
	case TypeErrorKind:
		return "TypeError"
	case ResolutionErrorKind:
		return "ResolutionError"
	case StructuralErrorKind:
		return "StructuralError"
	case OverflowErrorKind:
		return "OverflowError"
	default:
		return "UnknownError"
	}
}

// Diagnostic is a single checker-reported error or warning.
type Diagnostic struct {
	Kind    Kind
	Message string
	Pos     token.Position
	Type    string // rendered TypeInfo implicated in the diagnostic, if any
}

func New(kind Kind, pos token.Position, message string) *Diagnostic {
	return &Diagnostic{Kind: kind, Message: message, Pos: pos}
}

func (d *Diagnostic) Error() string {
	return d.Format("", false)
}

// Format renders the diagnostic with source-line and caret context,
// matching the teacher's compiler error presentation.
func (d *Diagnostic) Format(source string, color bool) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s: %s: %s\n", d.Pos, d.Kind, d.Message))

	line := sourceLine(source, d.Pos.Line)
	if line == "" {
		return strings.TrimRight(sb.String(), "\n")
	}
	lineNumStr := fmt.Sprintf("%4d | ", d.Pos.Line)
	sb.WriteString(lineNumStr)
	sb.WriteString(line)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat(" ", len(lineNumStr)+max0(d.Pos.Column-1)))
	if color {
		sb.WriteString("\033[1;31m")
	}
	sb.WriteString("^")
	if color {
		sb.WriteString("\033[0m")
	}
	return sb.String()
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func sourceLine(source string, n int) string {
	if source == "" || n < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if n > len(lines) {
		return ""
	}
	return lines[n-1]
}

// FormatAll renders a batch of diagnostics the way the checker reports a
// failed Check/CheckAll call.
func FormatAll(diags []*Diagnostic, source string, color bool) string {
	if len(diags) == 0 {
		return ""
	}
	if len(diags) == 1 {
		return diags[0].Format(source, color)
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d diagnostics:\n\n", len(diags)))
	for i, d := range diags {
		sb.WriteString(fmt.Sprintf("[%d/%d] ", i+1, len(diags)))
		sb.WriteString(d.Format(source, color))
		if i < len(diags)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}

// ToJSON encodes a diagnostic batch for the check subcommand's --json output, built
// incrementally with sjson so callers can stream diagnostics without
// building the whole tree up front.
func ToJSON(diags []*Diagnostic) (string, error) {
	json := "[]"
	var err error
	for i, d := range diags {
		base := fmt.Sprintf("%d", i)
		json, err = sjson.Set(json, base+".kind", d.Kind.String())
		if err != nil {
			return "", err
		}
		json, err = sjson.Set(json, base+".message", d.Message)
		if err != nil {
			return "", err
		}
		json, err = sjson.Set(json, base+".pos.line", d.Pos.Line)
		if err != nil {
			return "", err
		}
		json, err = sjson.Set(json, base+".pos.column", d.Pos.Column)
		if err != nil {
			return "", err
		}
		json, err = sjson.Set(json, base+".pos.file", d.Pos.File)
		if err != nil {
			return "", err
		}
		if d.Type != "" {
			json, err = sjson.Set(json, base+".type", d.Type)
			if err != nil {
				return "", err
			}
		}
	}
	return json, nil
}

// FromJSON decodes a diagnostic batch previously produced by ToJSON,
// used by the round-trip test in diag_test.go.
func FromJSON(data string) []*Diagnostic {
	var out []*Diagnostic
	gjson.Parse(data).ForEach(func(_, value gjson.Result) bool {
		out = append(out, &Diagnostic{
			Kind:    kindFromString(value.Get("kind").String()),
			Message: value.Get("message").String(),
			Pos: token.Position{
				File:   value.Get("pos.file").String(),
				Line:   int(value.Get("pos.line").Int()),
				Column: int(value.Get("pos.column").Int()),
			},
			Type: value.Get("type").String(),
		})
		return true
	})
	return out
}

func kindFromString(s string) Kind {
	switch s {
	case "TypeError":
		return TypeErrorKind
	case "ResolutionError":
		return ResolutionErrorKind
	case "StructuralError":
		return StructuralErrorKind
	case "OverflowError":
		return OverflowErrorKind
	default:
		return SyntaxErrorKind
	}
}
