package checker

import (
	"github.com/tsgoscript/tscore/internal/ast"
	"github.com/tsgoscript/tscore/internal/diag"
	"github.com/tsgoscript/tscore/internal/token"
	"github.com/tsgoscript/tscore/internal/typeenv"
	"github.com/tsgoscript/tscore/internal/types"
)

// checkStatements walks a statement list in the root scope, used for both
// the top-level program and (via checkStatementsIn) nested blocks.
func (c *Checker) checkStatements(stmts []ast.Statement) {
	c.checkStatementsIn(stmts, c.env)
}

func (c *Checker) checkStatementsIn(stmts []ast.Statement, env *typeenv.TypeEnvironment) {
	for _, s := range stmts {
		c.checkStatement(s, env)
	}
}

func (c *Checker) checkStatement(stmt ast.Statement, env *typeenv.TypeEnvironment) {
	switch s := stmt.(type) {
	case *ast.VariableStatement:
		c.checkVariableStatement(s, env)
	case *ast.ExpressionStatement:
		c.checkExpr(s.Expr, env, nil)
	case *ast.BlockStatement:
		c.checkStatementsIn(s.Statements, typeenv.NewEnclosed(env))
	case *ast.ReturnStatement:
		c.checkReturn(s, env)
	case *ast.IfStatement:
		c.checkIf(s, env)
	case *ast.WhileStatement:
		c.checkExpr(s.Condition, env, types.BOOLEAN_TYPE)
		c.withLoop(s.Label, func() { c.checkStatement(s.Body, typeenv.NewEnclosed(env)) })
	case *ast.DoWhileStatement:
		c.withLoop(s.Label, func() { c.checkStatement(s.Body, typeenv.NewEnclosed(env)) })
		c.checkExpr(s.Condition, env, types.BOOLEAN_TYPE)
	case *ast.ForStatement:
		c.checkFor(s, env)
	case *ast.ForOfStatement:
		c.checkForOf(s, env)
	case *ast.ForInStatement:
		c.checkForIn(s, env)
	case *ast.BreakStatement:
		c.checkBreak(s)
	case *ast.ContinueStatement:
		c.checkContinue(s)
	case *ast.LabeledStatement:
		c.withLabel(s.Label, s.Pos(), func() { c.checkStatement(s.Body, env) })
	case *ast.SwitchStatement:
		c.checkSwitch(s, env)
	case *ast.TryStatement:
		c.checkTry(s, env)
	case *ast.ThrowStatement:
		c.checkExpr(s.Value, env, nil)
	case *ast.EmptyStatement:
		// nothing to check
	case *ast.FunctionDecl:
		c.checkFunctionDecl(s, env)
	case *ast.ClassDecl:
		c.checkClassDecl(s, env)
	case *ast.InterfaceDecl, *ast.EnumDecl, *ast.TypeAliasDecl:
		// fully handled during hoisting; no body to walk
	case *ast.NamespaceDecl:
		if inner, ok := c.namespaceEnvs[s]; ok {
			c.checkStatementsIn(s.Body, inner)
		}
	default:
		c.fail(diag.StructuralErrorKind, stmt.Pos(), "checker: unhandled statement type %T", stmt)
	}
}

func (c *Checker) checkVariableStatement(s *ast.VariableStatement, env *typeenv.TypeEnvironment) {
	for _, d := range s.Declarators {
		var declared types.TypeInfo
		if d.Type != nil {
			declared = c.resolveTypeExpr(env, d.Type)
		}
		var final types.TypeInfo
		switch {
		case d.Init != nil:
			actual := c.checkExpr(d.Init, env, declared)
			if declared != nil {
				if !types.IsAssignable(declared, actual) {
					c.fail(diag.TypeErrorKind, d.Init.Pos(), "cannot assign %s to %s", actual.String(), declared.String())
				}
				final = declared
			} else {
				final = types.Widen(actual)
				if s.Kind == ast.VarConst {
					final = actual
				}
			}
		case d.DefiniteAssign, s.Kind == ast.VarVar:
			if declared == nil {
				declared = types.ANY
			}
			final = declared
		default:
			if declared == nil {
				c.fail(diag.TypeErrorKind, d.Name.Pos(), "variable %q needs a type annotation or initializer", d.Name.Value)
			}
			final = declared
		}
		env.DefineValue(d.Name.Value, final)
	}
}

func (c *Checker) checkReturn(s *ast.ReturnStatement, env *typeenv.TypeEnvironment) {
	frame := c.currentFunc()
	if frame == nil {
		c.fail(diag.StructuralErrorKind, s.Pos(), "return statement outside of a function")
	}
	frame.sawReturn = true
	want := frame.returnType
	if frame.isAsync {
		if p, ok := want.(*types.Promise); ok {
			want = p.Value
		}
	}
	if s.Value == nil {
		if want != nil && want != types.VOID && want != types.ANY && want != types.UNDEFINED {
			if !types.IsAssignable(want, types.UNDEFINED) {
				c.fail(diag.TypeErrorKind, s.Pos(), "function expects a return value of type %s", want.String())
			}
		}
		return
	}
	actual := c.checkExpr(s.Value, env, want)
	if want != nil && !types.IsAssignable(want, actual) {
		c.fail(diag.TypeErrorKind, s.Value.Pos(), "cannot return %s, function declares return type %s", actual.String(), want.String())
	}
}

func (c *Checker) checkIf(s *ast.IfStatement, env *typeenv.TypeEnvironment) {
	c.checkExpr(s.Condition, env, types.BOOLEAN_TYPE)
	thenEnv, elseEnv := c.narrowByCondition(s.Condition, env)
	c.checkStatement(s.Then, thenEnv)
	if s.Else != nil {
		c.checkStatement(s.Else, elseEnv)
	}
}

func (c *Checker) checkFor(s *ast.ForStatement, env *typeenv.TypeEnvironment) {
	inner := typeenv.NewEnclosed(env)
	switch init := s.Init.(type) {
	case *ast.VariableStatement:
		c.checkVariableStatement(init, inner)
	case ast.Expression:
		c.checkExpr(init, inner, nil)
	}
	if s.Condition != nil {
		c.checkExpr(s.Condition, inner, types.BOOLEAN_TYPE)
	}
	if s.Update != nil {
		c.checkExpr(s.Update, inner, nil)
	}
	c.withLoop(s.Label, func() { c.checkStatement(s.Body, typeenv.NewEnclosed(inner)) })
}

func (c *Checker) checkForOf(s *ast.ForOfStatement, env *typeenv.TypeEnvironment) {
	inner := typeenv.NewEnclosed(env)
	iterable := c.checkExpr(s.Iterable, inner, nil)
	elem := elementTypeOf(iterable)
	if s.DeclaredType != nil {
		declared := c.resolveTypeExpr(inner, s.DeclaredType)
		if !types.IsAssignable(declared, elem) {
			c.fail(diag.TypeErrorKind, s.Pos(), "for-of element type %s is not assignable to %s", elem.String(), declared.String())
		}
		elem = declared
	}
	if !s.IsExisting {
		inner.DefineValue(s.Declarator.Value, elem)
	}
	c.withLoop(s.Label, func() { c.checkStatement(s.Body, typeenv.NewEnclosed(inner)) })
}

func elementTypeOf(t types.TypeInfo) types.TypeInfo {
	switch a := t.(type) {
	case *types.Array:
		return a.Element
	case *types.SetType:
		return a.Element
	case *types.Tuple:
		var parts []types.TypeInfo
		for _, e := range a.Elements {
			parts = append(parts, e.Type)
		}
		return types.NewUnion(parts...)
	case *types.MapType:
		return &types.Tuple{Elements: []types.TupleElement{{Type: a.Key, Kind: types.TupleRequired}, {Type: a.Value, Kind: types.TupleRequired}}, RequiredCount: 2}
	}
	return types.ANY
}

func (c *Checker) checkForIn(s *ast.ForInStatement, env *typeenv.TypeEnvironment) {
	inner := typeenv.NewEnclosed(env)
	c.checkExpr(s.Object, inner, nil)
	inner.DefineValue(s.Declarator.Value, types.STRING_TYPE)
	c.withLoop(s.Label, func() { c.checkStatement(s.Body, typeenv.NewEnclosed(inner)) })
}

func (c *Checker) checkBreak(s *ast.BreakStatement) {
	if s.Label == "" {
		if !c.inLoopOrSwitch() {
			c.fail(diag.StructuralErrorKind, s.Pos(), "break statement outside of a loop or switch")
		}
		return
	}
	if !c.hasLabel(s.Label) {
		c.fail(diag.StructuralErrorKind, s.Pos(), "break target %q not found", s.Label)
	}
}

func (c *Checker) checkContinue(s *ast.ContinueStatement) {
	if s.Label == "" {
		if !c.inLoop() {
			c.fail(diag.StructuralErrorKind, s.Pos(), "continue statement outside of a loop")
		}
		return
	}
	lbl := c.findLabel(s.Label)
	if lbl == nil {
		c.fail(diag.StructuralErrorKind, s.Pos(), "continue target %q not found", s.Label)
	}
	if !lbl.isLoop {
		c.fail(diag.StructuralErrorKind, s.Pos(), "continue target %q does not label a loop", s.Label)
	}
}

func (c *Checker) checkSwitch(s *ast.SwitchStatement, env *typeenv.TypeEnvironment) {
	discType := c.checkExpr(s.Discriminant, env, nil)
	c.loopStack = append(c.loopStack, &loopLabel{isSwitch: true})
	defer func() { c.loopStack = c.loopStack[:len(c.loopStack)-1] }()
	for _, kase := range s.Cases {
		caseEnv := typeenv.NewEnclosed(env)
		if kase.Test != nil {
			c.checkExpr(kase.Test, caseEnv, discType)
		}
		c.checkStatementsIn(kase.Consequent, caseEnv)
	}
}

func (c *Checker) checkTry(s *ast.TryStatement, env *typeenv.TypeEnvironment) {
	c.checkStatement(s.Block, env)
	if s.Catch != nil {
		catchEnv := typeenv.NewEnclosed(env)
		if s.Catch.Param != nil {
			pt := types.TypeInfo(types.UNKNOWN)
			if s.Catch.Type != nil {
				pt = c.resolveTypeExpr(catchEnv, s.Catch.Type)
			}
			catchEnv.DefineValue(s.Catch.Param.Value, pt)
		}
		c.checkStatement(s.Catch.Body, catchEnv)
	}
	if s.Finally != nil {
		c.checkStatement(s.Finally, env)
	}
}

func (c *Checker) checkFunctionDecl(s *ast.FunctionDecl, env *typeenv.TypeEnvironment) {
	if s.Body == nil {
		return
	}
	sig, _ := c.buildFunctionSignature(env, s.TypeParams, s.Params, s.ReturnType, s.IsAsync).(*types.Function)
	bodyEnv := typeenv.NewEnclosed(env)
	c.bindParams(bodyEnv, s.Params, sig)
	var ret types.TypeInfo
	if sig != nil {
		ret = sig.Return
	}
	c.funcStack = append(c.funcStack, &funcFrame{returnType: ret, isAsync: s.IsAsync})
	c.checkStatementsIn(s.Body.Statements, bodyEnv)
	c.funcStack = c.funcStack[:len(c.funcStack)-1]
}

// bindParams defines each parameter name in scope, resolving defaults and
// binding the widened default-initializer type when no annotation is
// present, mirroring the behavior buildFunctionSignature used to compute
// the declared Function's Params slice.
func (c *Checker) bindParams(scope *typeenv.TypeEnvironment, params []*ast.Param, sig *types.Function) {
	for i, p := range params {
		var pt types.TypeInfo
		if sig != nil && i < len(sig.Params) {
			pt = sig.Params[i]
		} else {
			pt = types.ANY
		}
		if p.Default != nil {
			defType := c.checkExpr(p.Default, scope, pt)
			if p.Type == nil {
				pt = types.Widen(defType)
			}
		}
		scope.DefineValue(p.Name, pt)
	}
}

func (c *Checker) checkClassDecl(s *ast.ClassDecl, env *typeenv.TypeEnvironment) {
	mc, ok := c.classes[s.Name.Value]
	if !ok {
		return
	}
	cls := mc.Resolve()
	if cls == nil {
		return
	}
	scope := env
	if generics, ok := c.classGenerics[s.Name.Value]; ok {
		scope = typeenv.NewEnclosed(env)
		for _, g := range generics {
			scope.DefineType(g.Name, g)
		}
	}
	c.classStack = append(c.classStack, &classFrame{class: cls})
	for _, member := range s.Members {
		if m, ok := member.(*ast.MethodDecl); ok {
			c.checkMethodBody(m, cls, scope)
		}
		if f, ok := member.(*ast.FieldDecl); ok && f.Init != nil {
			fieldScope := typeenv.NewEnclosed(scope)
			var declared types.TypeInfo
			if f.Type != nil {
				declared = c.resolveTypeExpr(fieldScope, f.Type)
			}
			actual := c.checkExpr(f.Init, fieldScope, declared)
			if declared != nil && !types.IsAssignable(declared, actual) {
				c.fail(diag.TypeErrorKind, f.Init.Pos(), "field %q initializer of type %s is not assignable to declared type %s", fieldKey(f), actual.String(), declared.String())
			}
		}
	}
	c.classStack = c.classStack[:len(c.classStack)-1]
}

func (c *Checker) checkMethodBody(m *ast.MethodDecl, cls *types.Class, scope *typeenv.TypeEnvironment) {
	if m.Body == nil {
		return
	}
	methodScope := typeenv.NewEnclosed(scope)
	sig, _ := c.buildFunctionSignature(methodScope, m.TypeParams, m.Params, m.ReturnType, m.IsAsync).(*types.Function)
	c.bindParams(methodScope, m.Params, sig)
	var ret types.TypeInfo
	if sig != nil {
		ret = sig.Return
	}
	if m.Kind == ast.MethodConstructor {
		ret = types.VOID
	}
	c.funcStack = append(c.funcStack, &funcFrame{returnType: ret, isAsync: m.IsAsync})
	c.checkStatementsIn(m.Body.Statements, methodScope)
	c.funcStack = c.funcStack[:len(c.funcStack)-1]
}

// --- cursor stack helpers ---

func (c *Checker) currentFunc() *funcFrame {
	if len(c.funcStack) == 0 {
		return nil
	}
	return c.funcStack[len(c.funcStack)-1]
}

func (c *Checker) currentClass() *classFrame {
	if len(c.classStack) == 0 {
		return nil
	}
	return c.classStack[len(c.classStack)-1]
}

func (c *Checker) withLoop(label string, body func()) {
	c.loopStack = append(c.loopStack, &loopLabel{name: label, isLoop: true})
	body()
	c.loopStack = c.loopStack[:len(c.loopStack)-1]
}

func (c *Checker) withLabel(label string, pos token.Position, body func()) {
	for _, l := range c.loopStack {
		if l.name == label {
			c.fail(diag.StructuralErrorKind, pos, "label %q is already in use in an enclosing scope", label)
		}
	}
	c.loopStack = append(c.loopStack, &loopLabel{name: label})
	body()
	c.loopStack = c.loopStack[:len(c.loopStack)-1]
}

func (c *Checker) inLoop() bool {
	for _, l := range c.loopStack {
		if l.isLoop {
			return true
		}
	}
	return false
}

func (c *Checker) inLoopOrSwitch() bool {
	for _, l := range c.loopStack {
		if l.isLoop || l.isSwitch {
			return true
		}
	}
	return false
}

func (c *Checker) hasLabel(name string) bool { return c.findLabel(name) != nil }

func (c *Checker) findLabel(name string) *loopLabel {
	for i := len(c.loopStack) - 1; i >= 0; i-- {
		if c.loopStack[i].name == name {
			return c.loopStack[i]
		}
	}
	return nil
}
