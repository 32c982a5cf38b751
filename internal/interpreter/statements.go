package interpreter

import (
	"github.com/tsgoscript/tscore/internal/ast"
	"github.com/tsgoscript/tscore/internal/token"
)

// exec runs one statement, reporting any non-local control transfer
// (return/break/continue) via a *signal rather than Go panic/recover —
// see control.go for the rationale. A non-nil error always means an
// uncaught runtime error or thrown value; callers need not also check
// sig in that case.
func (ip *Interpreter) exec(stmt ast.Statement, env *Environment) (*signal, error) {
	switch s := stmt.(type) {
	case *ast.EmptyStatement:
		return nil, nil

	case *ast.ExpressionStatement:
		_, err := ip.eval(s.Expr, env)
		return nil, err

	case *ast.VariableStatement:
		return nil, ip.execVariableStatement(s, env)

	case *ast.BlockStatement:
		return ip.execBlock(s, NewEnclosedEnvironment(env))

	case *ast.IfStatement:
		cond, err := ip.eval(s.Condition, env)
		if err != nil {
			return nil, err
		}
		if truthy(cond) {
			return ip.exec(s.Then, env)
		}
		if s.Else != nil {
			return ip.exec(s.Else, env)
		}
		return nil, nil

	case *ast.WhileStatement:
		return ip.execWhile(s, env)

	case *ast.DoWhileStatement:
		return ip.execDoWhile(s, env)

	case *ast.ForStatement:
		return ip.execFor(s, env)

	case *ast.ForOfStatement:
		return ip.execForOf(s, env)

	case *ast.ForInStatement:
		return ip.execForIn(s, env)

	case *ast.BreakStatement:
		return &signal{kind: signalBreak, label: s.Label}, nil

	case *ast.ContinueStatement:
		return &signal{kind: signalContinue, label: s.Label}, nil

	case *ast.ReturnStatement:
		var v Value = &UndefinedValue{}
		if s.Value != nil {
			val, err := ip.eval(s.Value, env)
			if err != nil {
				return nil, err
			}
			v = val
		}
		return &signal{kind: signalReturn, value: v}, nil

	case *ast.LabeledStatement:
		return ip.execLabeled(s, env)

	case *ast.SwitchStatement:
		return ip.execSwitch(s, env)

	case *ast.TryStatement:
		return ip.execTry(s, env)

	case *ast.ThrowStatement:
		v, err := ip.eval(s.Value, env)
		if err != nil {
			return nil, err
		}
		return nil, &RuntimeError{Message: "uncaught " + v.String(), Pos: s.Pos(), Thrown: v}

	case *ast.FunctionDecl:
		if s.Body == nil {
			return nil, nil // overload signature
		}
		env.Define(s.Name.Value, ip.makeFunction(s.Name.Value, s.Params, s.Body, s.IsAsync, env), false)
		return nil, nil

	case *ast.ClassDecl:
		_, err := ip.defineClass(s, env)
		return nil, err
	}
	return nil, newRuntimeError(stmt.Pos(), "interpreter: unsupported statement %T", stmt)
}

// execBlock runs a block's statements in env (already a fresh scope for
// a bare BlockStatement; callers that supply their own scope, like a
// function body or a for-loop's per-iteration scope, pass it directly).
func (ip *Interpreter) execBlock(b *ast.BlockStatement, env *Environment) (*signal, error) {
	for _, stmt := range b.Statements {
		sig, err := ip.exec(stmt, env)
		if err != nil {
			return nil, err
		}
		if sig != nil {
			return sig, nil
		}
	}
	return nil, nil
}

func (ip *Interpreter) execVariableStatement(s *ast.VariableStatement, env *Environment) error {
	for _, d := range s.Declarators {
		var v Value = &UndefinedValue{}
		if d.Init != nil {
			val, err := ip.eval(d.Init, env)
			if err != nil {
				return err
			}
			v = val
		}
		env.Define(d.Name.Value, v, s.Kind == ast.VarConst)
	}
	return nil
}

func (ip *Interpreter) execWhile(s *ast.WhileStatement, env *Environment) (*signal, error) {
	for {
		cond, err := ip.eval(s.Condition, env)
		if err != nil {
			return nil, err
		}
		if !truthy(cond) {
			return nil, nil
		}
		sig, err := ip.exec(s.Body, NewEnclosedEnvironment(env))
		if err != nil {
			return nil, err
		}
		if sig == nil {
			continue
		}
		if sig.isBreakFor(s.Label) {
			return nil, nil
		}
		if sig.isContinueFor(s.Label) {
			continue
		}
		return sig, nil
	}
}

func (ip *Interpreter) execDoWhile(s *ast.DoWhileStatement, env *Environment) (*signal, error) {
	for {
		sig, err := ip.exec(s.Body, NewEnclosedEnvironment(env))
		if err != nil {
			return nil, err
		}
		if sig != nil {
			if sig.isBreakFor(s.Label) {
				return nil, nil
			}
			if !sig.isContinueFor(s.Label) {
				return sig, nil
			}
		}
		cond, err := ip.eval(s.Condition, env)
		if err != nil {
			return nil, err
		}
		if !truthy(cond) {
			return nil, nil
		}
	}
}

func (ip *Interpreter) execFor(s *ast.ForStatement, env *Environment) (*signal, error) {
	loopEnv := NewEnclosedEnvironment(env)
	switch init := s.Init.(type) {
	case *ast.VariableStatement:
		if err := ip.execVariableStatement(init, loopEnv); err != nil {
			return nil, err
		}
	case ast.Expression:
		if _, err := ip.eval(init, loopEnv); err != nil {
			return nil, err
		}
	}

	for {
		if s.Condition != nil {
			cond, err := ip.eval(s.Condition, loopEnv)
			if err != nil {
				return nil, err
			}
			if !truthy(cond) {
				return nil, nil
			}
		}

		sig, err := ip.exec(s.Body, NewEnclosedEnvironment(loopEnv))
		if err != nil {
			return nil, err
		}
		if sig != nil {
			if sig.isBreakFor(s.Label) {
				return nil, nil
			}
			if !sig.isContinueFor(s.Label) {
				return sig, nil
			}
		}

		if s.Update != nil {
			if _, err := ip.eval(s.Update, loopEnv); err != nil {
				return nil, err
			}
		}
	}
}

func (ip *Interpreter) execForOf(s *ast.ForOfStatement, env *Environment) (*signal, error) {
	iterable, err := ip.eval(s.Iterable, env)
	if err != nil {
		return nil, err
	}
	elements, err := iterate(iterable, s.Pos())
	if err != nil {
		return nil, err
	}
	for _, el := range elements {
		iterEnv := NewEnclosedEnvironment(env)
		if s.IsExisting {
			if err := ip.assignTo(s.Declarator, el, iterEnv); err != nil {
				return nil, err
			}
		} else {
			iterEnv.Define(s.Declarator.Value, el, s.DeclKind == ast.VarConst)
		}
		sig, err := ip.exec(s.Body, iterEnv)
		if err != nil {
			return nil, err
		}
		if sig != nil {
			if sig.isBreakFor(s.Label) {
				return nil, nil
			}
			if sig.isContinueFor(s.Label) {
				continue
			}
			return sig, nil
		}
	}
	return nil, nil
}

func (ip *Interpreter) execForIn(s *ast.ForInStatement, env *Environment) (*signal, error) {
	obj, err := ip.eval(s.Object, env)
	if err != nil {
		return nil, err
	}
	var keys []string
	switch o := obj.(type) {
	case *ObjectValue:
		keys = o.Keys
	case *InstanceValue:
		for k := range o.Fields {
			keys = append(keys, k)
		}
	}
	for _, k := range keys {
		iterEnv := NewEnclosedEnvironment(env)
		iterEnv.Define(s.Declarator.Value, &StringValue{Value: k}, s.DeclKind == ast.VarConst)
		sig, err := ip.exec(s.Body, iterEnv)
		if err != nil {
			return nil, err
		}
		if sig != nil {
			if sig.isBreakFor(s.Label) {
				return nil, nil
			}
			if sig.isContinueFor(s.Label) {
				continue
			}
			return sig, nil
		}
	}
	return nil, nil
}

// iterate implements the iterable protocol for the value shapes this
// interpreter actually produces: arrays element-by-element, and strings
// code-point by code-point.
func iterate(v Value, pos token.Position) ([]Value, error) {
	switch val := v.(type) {
	case *ArrayValue:
		return val.Elements, nil
	case *StringValue:
		runes := []rune(val.Value)
		out := make([]Value, len(runes))
		for i, r := range runes {
			out[i] = &StringValue{Value: string(r)}
		}
		return out, nil
	}
	return nil, newRuntimeError(pos, "value of type %s is not iterable", v.Type())
}

func (ip *Interpreter) execLabeled(s *ast.LabeledStatement, env *Environment) (*signal, error) {
	sig, err := ip.exec(s.Body, env)
	if err != nil {
		return nil, err
	}
	if sig != nil && sig.kind == signalBreak && sig.label == s.Label {
		return nil, nil
	}
	return sig, nil
}

func (ip *Interpreter) execSwitch(s *ast.SwitchStatement, env *Environment) (*signal, error) {
	disc, err := ip.eval(s.Discriminant, env)
	if err != nil {
		return nil, err
	}
	switchEnv := NewEnclosedEnvironment(env)

	matched := -1
	defaultIdx := -1
	for i, c := range s.Cases {
		if c.Test == nil {
			defaultIdx = i
			continue
		}
		tv, err := ip.eval(c.Test, switchEnv)
		if err != nil {
			return nil, err
		}
		if strictEquals(disc, tv) {
			matched = i
			break
		}
	}
	if matched == -1 {
		matched = defaultIdx
	}
	if matched == -1 {
		return nil, nil
	}

	for i := matched; i < len(s.Cases); i++ {
		for _, stmt := range s.Cases[i].Consequent {
			sig, err := ip.exec(stmt, switchEnv)
			if err != nil {
				return nil, err
			}
			if sig != nil {
				if sig.isBreakFor("") {
					return nil, nil
				}
				return sig, nil
			}
		}
	}
	return nil, nil
}

func (ip *Interpreter) execTry(s *ast.TryStatement, env *Environment) (*signal, error) {
	sig, err := ip.execBlock(s.Block, NewEnclosedEnvironment(env))

	if err != nil && s.Catch != nil {
		var thrown Value
		if rerr, ok := err.(*RuntimeError); ok && rerr.Thrown != nil {
			thrown = rerr.Thrown
		} else {
			thrown = &StringValue{Value: err.Error()}
		}
		catchEnv := NewEnclosedEnvironment(env)
		if s.Catch.Param != nil {
			catchEnv.Define(s.Catch.Param.Value, thrown, false)
		}
		sig, err = ip.execBlock(s.Catch.Body, catchEnv)
	}

	if s.Finally != nil {
		finSig, finErr := ip.execBlock(s.Finally, NewEnclosedEnvironment(env))
		if finErr != nil {
			return nil, finErr
		}
		if finSig != nil {
			return finSig, nil
		}
	}

	return sig, err
}
