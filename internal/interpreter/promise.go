package interpreter

import "github.com/tsgoscript/tscore/internal/token"

// resolvePromise implements `await`. The interpreter runs async
// functions synchronously to completion (see callFunction), so awaiting
// one of its own PromiseValues only ever unwraps an already-settled
// result; awaiting a plain (non-Promise) value is also legal in
// JavaScript and simply yields that value back.
func resolvePromise(v Value, pos token.Position) (Value, error) {
	p, ok := v.(*PromiseValue)
	if !ok {
		return v, nil
	}
	if p.Rejected {
		return nil, &RuntimeError{Message: "uncaught (in promise) " + p.Rejection.String(), Pos: pos, Thrown: p.Rejection}
	}
	return p.Value, nil
}
