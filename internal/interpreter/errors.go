package interpreter

import (
	"fmt"

	"github.com/tsgoscript/tscore/internal/token"
)

// RuntimeError is a script-level error raised while evaluating an already
// type-checked program: a thrown value, a null-reference deref the
// checker's narrowing didn't catch because it leaned on an `as`
// assertion, or a brand-check failure. It implements Go's error interface
// rather than the teacher's Value-shaped error, since every eval
// function here returns (Value, error) the idiomatic Go way instead of
// folding failure into the value channel.
type RuntimeError struct {
	Message string
	Pos     token.Position
	// Thrown is the original thrown value for a `throw expr;` that
	// propagated uncaught, so a `catch (e)` clause further up the call
	// stack can bind it.
	Thrown Value
}

func (e *RuntimeError) Error() string {
	if e.Pos.Line != 0 {
		return fmt.Sprintf("%s: %s", e.Pos.String(), e.Message)
	}
	return e.Message
}

func newRuntimeError(pos token.Position, format string, args ...any) *RuntimeError {
	return &RuntimeError{Message: fmt.Sprintf(format, args...), Pos: pos}
}
