package interpreter

import (
	"github.com/tsgoscript/tscore/internal/ast"
	"github.com/tsgoscript/tscore/internal/checker"
)

// Interpreter evaluates an already-checked *ast.Program directly, using
// the Checker's TypeMap only where static knowledge changes runtime
// behavior: member-dispatch classification (internal/dispatch). Operators,
// including mixed numeric/string `+`, are decided from runtime values.
type Interpreter struct {
	typeMap *checker.TypeMap
	global  *Environment
	classes map[string]*ClassValue
}

// New creates an Interpreter over a checked program's TypeMap. Pass the
// same TypeMap the Checker produced for the program about to be run.
func New(tm *checker.TypeMap) *Interpreter {
	return &Interpreter{
		typeMap: tm,
		global:  NewEnvironment(),
		classes: map[string]*ClassValue{},
	}
}

// Run evaluates every top-level statement of prog in the interpreter's
// global environment, in source order, stopping at the first runtime
// error. A bare value produced by the final ExpressionStatement (if any)
// is returned for REPL-style callers; cmd/tscore's `run` subcommand
// discards it.
func (ip *Interpreter) Run(prog *ast.Program) (Value, error) {
	ip.hoistTopLevel(prog.Statements, ip.global)

	var last Value = &UndefinedValue{}
	for _, stmt := range prog.Statements {
		v, sig, err := ip.execTopLevel(stmt, ip.global)
		if err != nil {
			return nil, err
		}
		if sig != nil && sig.kind == signalReturn {
			return nil, newRuntimeError(stmt.Pos(), "return statement outside of a function")
		}
		if v != nil {
			last = v
		}
	}
	return last, nil
}

// execTopLevel runs one top-level statement and, for an
// ExpressionStatement, also returns its value so Run can report the
// program's trailing expression result.
func (ip *Interpreter) execTopLevel(stmt ast.Statement, env *Environment) (Value, *signal, error) {
	if es, ok := stmt.(*ast.ExpressionStatement); ok {
		v, err := ip.eval(es.Expr, env)
		return v, nil, err
	}
	sig, err := ip.exec(stmt, env)
	return nil, sig, err
}

// hoistTopLevel pre-declares every function and class at module scope
// before any statement runs, matching JavaScript's function-declaration
// hoisting (spec §4.6 assumes class/function declarations are visible to
// code textually before them, the same way the checker's own hoisting
// pass works).
func (ip *Interpreter) hoistTopLevel(stmts []ast.Statement, env *Environment) {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.FunctionDecl:
			if s.Body == nil {
				continue // overload signature, no implementation to hoist
			}
			env.Define(s.Name.Value, ip.makeFunction(s.Name.Value, s.Params, s.Body, s.IsAsync, env), false)
		case *ast.ClassDecl:
			cls, err := ip.defineClass(s, env)
			if err == nil {
				env.Define(s.Name.Value, cls, false)
			}
		}
	}
}
