package checker

import (
	"github.com/tsgoscript/tscore/internal/diag"
	"github.com/tsgoscript/tscore/internal/token"
	"github.com/tsgoscript/tscore/internal/types"
)

// checkSatisfies implements the `expr satisfies T` operation (spec §6
// supplement): unlike `as`, it never changes the expression's static type,
// it only validates that the expression's inferred type is assignable to T,
// so literal types and excess-property narrowing survive into later use.
func (c *Checker) checkSatisfies(target, actual types.TypeInfo, pos token.Position) {
	if !types.IsAssignable(target, actual) {
		c.fail(diag.TypeErrorKind, pos, "type %s does not satisfy %s", actual.String(), target.String())
	}
}
