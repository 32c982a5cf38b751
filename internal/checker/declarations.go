package checker

import (
	"github.com/tsgoscript/tscore/internal/ast"
	"github.com/tsgoscript/tscore/internal/diag"
	"github.com/tsgoscript/tscore/internal/typeenv"
	"github.com/tsgoscript/tscore/internal/types"
)

// resolveTypeExpr resolves a type annotation against scope, treating a nil
// expression (an absent annotation) as `any` rather than forcing every
// call site to nil-check first.
func (c *Checker) resolveTypeExpr(scope *typeenv.TypeEnvironment, expr ast.TypeExpression) types.TypeInfo {
	if expr == nil {
		return types.ANY
	}
	return scope.Resolve(expr)
}

// hoist is the checker's first pass: it registers every class, interface,
// enum, type alias, namespace, and function name in scope before any
// statement body is checked, so mutually recursive declarations (two
// classes implementing each other's interfaces, functions calling each
// other out of order) resolve without requiring declaration order.
// Grounded on the teacher's analyzer.go pattern of pre-registering classes
// into a name->*ClassType map ahead of member resolution
// (validateClassForwardDeclarations' forward-declare/define split).
func (c *Checker) hoist(stmts []ast.Statement, env *typeenv.TypeEnvironment) {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.ClassDecl:
			c.hoistClass(s, env)
		case *ast.InterfaceDecl:
			c.hoistInterface(s, env)
		case *ast.EnumDecl:
			c.hoistEnum(s, env)
		case *ast.TypeAliasDecl:
			c.hoistTypeAlias(s, env)
		case *ast.FunctionDecl:
			c.hoistFunction(s, env)
		case *ast.NamespaceDecl:
			c.hoistNamespace(s, env)
		}
	}
}

func (c *Checker) hoistClass(s *ast.ClassDecl, env *typeenv.TypeEnvironment) {
	mc := &types.MutableClass{Name: s.Name.Value}
	c.classes[s.Name.Value] = mc
	c.classDecls[s.Name.Value] = s
	env.DefineType(s.Name.Value, mc)
	env.DefineValue(s.Name.Value, mc)
}

func (c *Checker) hoistInterface(s *ast.InterfaceDecl, env *typeenv.TypeEnvironment) {
	existing, ok := c.interfaces[s.Name.Value]
	if !ok {
		existing = types.NewInterface(s.Name.Value)
		c.interfaces[s.Name.Value] = existing
		env.DefineType(s.Name.Value, existing)
	}
	for _, m := range s.Members {
		existing.Members[m.Name] = c.resolveTypeExpr(env, m.Type)
		existing.OptionalMembers[m.Name] = m.Optional
	}
	if s.StringIndex != nil {
		existing.StringIndex = c.resolveTypeExpr(env, s.StringIndex)
	}
	if s.NumberIndex != nil {
		existing.NumberIndex = c.resolveTypeExpr(env, s.NumberIndex)
	}
	for _, extend := range s.Extends {
		parent, ok := c.interfaces[extend.Name]
		if !ok {
			c.fail(diag.ResolutionErrorKind, s.Pos(), "cannot find interface %q", extend.Name)
		}
		existing.Extends = append(existing.Extends, parent)
	}
}

func (c *Checker) hoistEnum(s *ast.EnumDecl, env *typeenv.TypeEnvironment) {
	e := &types.Enum{Name: s.Name.Value, Members: map[string]interface{}{}, IsConst: s.IsConst}
	kind := types.EnumNumeric
	nextNumeric := 0.0
	sawString := false
	sawNumeric := false
	for _, m := range s.Members {
		var value interface{}
		if m.Init == nil {
			value = nextNumeric
			nextNumeric++
			sawNumeric = true
		} else {
			switch lit := m.Init.(type) {
			case *ast.NumberLiteral:
				value = lit.Value
				nextNumeric = lit.Value + 1
				sawNumeric = true
			case *ast.StringLiteral:
				value = lit.Value
				sawString = true
			default:
				v := c.evalConstEnumExpr(env, m.Init)
				switch v.(type) {
				case float64:
					sawNumeric = true
				case string:
					sawString = true
				}
				value = v
				if f, ok := v.(float64); ok {
					nextNumeric = f + 1
				}
			}
		}
		e.Members[m.Name.Value] = value
		e.Order = append(e.Order, m.Name.Value)
	}
	switch {
	case sawString && sawNumeric:
		kind = types.EnumHeterogeneous
	case sawString:
		kind = types.EnumString
	default:
		kind = types.EnumNumeric
	}
	e.Kind = kind
	c.enums[s.Name.Value] = e
	env.DefineType(s.Name.Value, e)
	env.DefineValue(s.Name.Value, e)
}

// evalConstEnumExpr evaluates a restricted constant-expression subset
// legal inside an enum initializer: numeric/string literals and binary
// `+`/`-`/`*`/`/`/`**` over them. Per the recorded Open Question decision,
// `**` is only legal when both operands are numeric; applying it to strings
// is a TypeError.
func (c *Checker) evalConstEnumExpr(env *typeenv.TypeEnvironment, expr ast.Expression) interface{} {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return e.Value
	case *ast.StringLiteral:
		return e.Value
	case *ast.PrefixExpression:
		v := c.evalConstEnumExpr(env, e.Right)
		if f, ok := v.(float64); ok && e.Operator == "-" {
			return -f
		}
		return v
	case *ast.InfixExpression:
		l := c.evalConstEnumExpr(env, e.Left)
		r := c.evalConstEnumExpr(env, e.Right)
		lf, lok := l.(float64)
		rf, rok := r.(float64)
		if e.Operator == "+" {
			if ls, ok := l.(string); ok {
				if rs, ok := r.(string); ok {
					return ls + rs
				}
			}
		}
		if !lok || !rok {
			c.fail(diag.TypeErrorKind, expr.Pos(), "const enum initializer requires numeric operands for %q", e.Operator)
		}
		switch e.Operator {
		case "+":
			return lf + rf
		case "-":
			return lf - rf
		case "*":
			return lf * rf
		case "/":
			return lf / rf
		case "**":
			result := 1.0
			for i := 0; i < int(rf); i++ {
				result *= lf
			}
			return result
		}
	}
	c.fail(diag.TypeErrorKind, expr.Pos(), "unsupported const enum initializer expression")
	return nil
}

func (c *Checker) hoistTypeAlias(s *ast.TypeAliasDecl, env *typeenv.TypeEnvironment) {
	if len(s.TypeParams) == 0 {
		resolved := env.ResolveAlias(s.Name.Value, s.Value, nil)
		env.DefineType(s.Name.Value, resolved)
		return
	}
	// A generic alias is resolved lazily at each instantiation site; record
	// the type parameters themselves so `Name<T>` references can bind them.
	inner := typeenv.NewEnclosed(env)
	params := make([]*types.TypeParameter, len(s.TypeParams))
	for i, tp := range s.TypeParams {
		p := &types.TypeParameter{Name: tp.Name}
		if tp.Constraint != nil {
			p.Constraint = c.resolveTypeExpr(inner, tp.Constraint)
		}
		params[i] = p
		inner.DefineType(tp.Name, p)
	}
	body := inner.ResolveAlias(s.Name.Value, s.Value, nil)
	env.DefineType(s.Name.Value, &types.GenericFunction{TypeParams: params, Return: body})
}

func (c *Checker) hoistFunction(s *ast.FunctionDecl, env *typeenv.TypeEnvironment) {
	sig := c.buildFunctionSignature(env, s.TypeParams, s.Params, s.ReturnType, s.IsAsync)
	fn, isPlain := sig.(*types.Function)
	group, ok := c.functions[s.Name.Value]
	if !ok {
		group = &funcGroup{}
		c.functions[s.Name.Value] = group
	}
	if s.Body == nil {
		if isPlain {
			group.signatures = append(group.signatures, fn)
		}
		return
	}
	if isPlain {
		group.implementation = fn
	}
	c.finalizeFunctionGroup(env, s.Name.Value, group, sig)
}

func (c *Checker) finalizeFunctionGroup(env *typeenv.TypeEnvironment, name string, group *funcGroup, bodied types.TypeInfo) {
	if len(group.signatures) == 0 {
		env.DefineValue(name, bodied)
		return
	}
	impl := group.implementation
	if impl == nil {
		if f, ok := bodied.(*types.Function); ok {
			impl = f
		}
	}
	env.DefineValue(name, &types.OverloadedFunction{Signatures: group.signatures, Implementation: impl})
}

// buildFunctionSignature converts a function/method/arrow parameter list
// and return-type annotation into a Function or GenericFunction, sharing
// the parameter-resolution logic across FunctionDecl, MethodDecl, and
// ArrowFunction.
func (c *Checker) buildFunctionSignature(env *typeenv.TypeEnvironment, typeParamDecls []*ast.TypeParamDecl, params []*ast.Param, retType ast.TypeExpression, isAsync bool) types.TypeInfo {
	scope := env
	var genericParams []*types.TypeParameter
	if len(typeParamDecls) > 0 {
		scope = typeenv.NewEnclosed(env)
		genericParams = make([]*types.TypeParameter, len(typeParamDecls))
		for i, tp := range typeParamDecls {
			p := &types.TypeParameter{Name: tp.Name}
			if tp.Constraint != nil {
				p.Constraint = c.resolveTypeExpr(scope, tp.Constraint)
			}
			if tp.Default != nil {
				p.Default = c.resolveTypeExpr(scope, tp.Default)
			}
			genericParams[i] = p
			scope.DefineType(tp.Name, p)
		}
	}

	paramTypes := make([]types.TypeInfo, len(params))
	minArity := 0
	hasRest := false
	for i, p := range params {
		var pt types.TypeInfo
		if p.Type != nil {
			pt = c.resolveTypeExpr(scope, p.Type)
		} else {
			pt = types.ANY
		}
		if p.Rest {
			hasRest = true
			pt = &types.Array{Element: pt}
		}
		if !p.Optional && p.Default == nil && !p.Rest {
			minArity++
		}
		paramTypes[i] = pt
	}

	var ret types.TypeInfo
	if retType != nil {
		ret = c.resolveTypeExpr(scope, retType)
	} else {
		ret = types.ANY
	}
	if isAsync {
		if _, ok := ret.(*types.Promise); !ok {
			ret = &types.Promise{Value: ret}
		}
	}

	if len(genericParams) > 0 {
		return &types.GenericFunction{TypeParams: genericParams, Params: paramTypes, Return: ret, MinArity: minArity, HasRest: hasRest}
	}
	return &types.Function{Params: paramTypes, Return: ret, MinArity: minArity, HasRest: hasRest}
}

func (c *Checker) hoistNamespace(s *ast.NamespaceDecl, env *typeenv.TypeEnvironment) {
	inner := typeenv.NewEnclosed(env)
	c.hoist(s.Body, inner)
	ns := types.NewNamespace(s.Name.Value)
	nsTypes, nsValues := inner.OwnTypesAndValues()
	ns.Types = nsTypes
	ns.Values = nsValues
	env.DefineNamespace(ns)
	c.namespaceEnvs[s] = inner
}

// resolveClasses is the checker's second pass: it walks every hoisted
// class declaration, resolving its superclass chain, implemented
// interfaces, and member types against the root environment (where every
// other class's MutableClass placeholder is already visible, making
// mutual recursion safe), then freezes the placeholder.
func (c *Checker) resolveClasses() {
	for name, mc := range c.classes {
		if mc.Resolve() != nil {
			continue
		}
		c.resolveClass(name, mc)
	}
}

func (c *Checker) resolveClass(name string, mc *types.MutableClass) *types.Class {
	if resolved := mc.Resolve(); resolved != nil {
		return resolved
	}
	decl := c.classDecls[name]
	cls := types.NewClass(name)
	// Freeze immediately with the (still-being-populated) struct so a
	// self-referential field/method type resolves to the same pointer
	// rather than recursing forever.
	mc.Freeze(cls)

	scope := c.env
	var generics []*types.TypeParameter
	if len(decl.TypeParams) > 0 {
		scope = typeenv.NewEnclosed(c.env)
		generics = make([]*types.TypeParameter, len(decl.TypeParams))
		for i, tp := range decl.TypeParams {
			p := &types.TypeParameter{Name: tp.Name}
			if tp.Constraint != nil {
				p.Constraint = c.resolveTypeExpr(scope, tp.Constraint)
			}
			generics[i] = p
			scope.DefineType(tp.Name, p)
		}
	}

	if decl.Super != nil {
		superMC, ok := c.classes[decl.Super.Name]
		if !ok {
			c.fail(diag.ResolutionErrorKind, decl.Pos(), "cannot find superclass %q", decl.Super.Name)
		}
		cls.Superclass = c.resolveClass(decl.Super.Name, superMC)
	}
	for _, impl := range decl.Interfaces {
		iface, ok := c.interfaces[impl.Name]
		if !ok {
			c.fail(diag.ResolutionErrorKind, decl.Pos(), "cannot find interface %q", impl.Name)
		}
		cls.Interfaces = append(cls.Interfaces, iface)
	}
	cls.IsAbstract = decl.IsAbstract

	overloadGroups := map[string]*funcGroup{}
	for _, member := range decl.Members {
		switch m := member.(type) {
		case *ast.FieldDecl:
			c.resolveClassField(scope, cls, m)
		case *ast.MethodDecl:
			c.resolveClassMethod(scope, cls, m, overloadGroups)
		}
	}
	for methodName, group := range overloadGroups {
		if len(group.signatures) == 0 {
			continue
		}
		cls.Methods[methodName] = &types.OverloadedFunction{Signatures: group.signatures, Implementation: group.implementation}
	}

	if len(generics) > 0 {
		c.classGenerics[name] = generics
	}
	return cls
}

func (c *Checker) resolveClassField(scope *typeenv.TypeEnvironment, cls *types.Class, m *ast.FieldDecl) {
	name := fieldKey(m)
	access := accessOf(m.Access)
	var ft types.TypeInfo
	if m.Type != nil {
		ft = c.resolveTypeExpr(scope, m.Type)
	} else if m.Init != nil {
		ft = c.inferConstInitType(scope, m.Init)
	} else {
		ft = types.ANY
	}
	if m.IsAbstract {
		cls.AbstractMethods[name] = ft
		return
	}
	cls.DeclaredFieldTypes[name] = ft
	cls.FieldAccess[name] = access
	cls.ReadonlyFields[name] = m.IsReadonly
	if m.IsStatic {
		cls.StaticProperties[name] = ft
	}
}

// inferConstInitType gives a field with no declared annotation a best-
// effort type from its initializer without running the full expression
// checker (which needs a `this`-bound class frame not yet available during
// member resolution); literals and `new`/array/object shapes are common
// enough to special-case, everything else widens to any.
func (c *Checker) inferConstInitType(scope *typeenv.TypeEnvironment, expr ast.Expression) types.TypeInfo {
	switch e := expr.(type) {
	case *ast.StringLiteral:
		return types.STRING_TYPE
	case *ast.NumberLiteral:
		return types.NUMBER_TYPE
	case *ast.BooleanLiteral:
		return types.BOOLEAN_TYPE
	case *ast.NullLiteral:
		return types.NULL
	case *ast.UndefinedLiteral:
		return types.UNDEFINED
	case *ast.ArrayLiteral:
		if len(e.Elements) == 0 {
			return &types.Array{Element: types.ANY}
		}
		return &types.Array{Element: c.inferConstInitType(scope, e.Elements[0].Expr)}
	}
	return types.ANY
}

func (c *Checker) resolveClassMethod(scope *typeenv.TypeEnvironment, cls *types.Class, m *ast.MethodDecl, overloadGroups map[string]*funcGroup) {
	name := methodKey(m)
	methodScope := typeenv.NewEnclosed(scope)
	sig := c.buildFunctionSignature(methodScope, m.TypeParams, m.Params, m.ReturnType, m.IsAsync)
	fn, isPlain := sig.(*types.Function)
	access := accessOf(m.Access)

	switch m.Kind {
	case ast.MethodGetter:
		if m.IsAbstract {
			cls.AbstractGetters[name] = sig
		} else if fn != nil {
			cls.Getters[name] = fn.Return
		}
		cls.MethodAccess[name] = access
		return
	case ast.MethodSetter:
		if m.IsAbstract {
			cls.AbstractSetters[name] = sig
		} else if fn != nil && len(fn.Params) > 0 {
			cls.Setters[name] = fn.Params[0]
		}
		cls.MethodAccess[name] = access
		return
	}

	if m.IsAbstract {
		cls.AbstractMethods[name] = sig
		cls.MethodAccess[name] = access
		return
	}
	if m.IsStatic {
		if isPlain {
			cls.StaticMethods[name] = fn
		}
		cls.MethodAccess[name] = access
		return
	}

	group, ok := overloadGroups[name]
	if !ok {
		group = &funcGroup{}
		overloadGroups[name] = group
	}
	if m.Body == nil {
		if isPlain {
			group.signatures = append(group.signatures, fn)
		}
	} else if isPlain {
		group.implementation = fn
		if len(group.signatures) == 0 {
			cls.Methods[name] = fn
		}
	}
	cls.MethodAccess[name] = access
}

// validateClasses is the checker's third pass: abstract-member coverage
// and interface satisfaction, run once every class is frozen so
// superclass/interface lookups see complete data (grounded on the
// teacher's validateMethodImplementations/validateClassForwardDeclarations
// post-passes).
func (c *Checker) validateClasses() {
	for name, mc := range c.classes {
		cls := mc.Resolve()
		if cls == nil {
			continue
		}
		decl := c.classDecls[name]
		if !cls.IsAbstract {
			c.validateAbstractMembersImplemented(decl, cls)
		}
		for _, iface := range cls.Interfaces {
			if !types.IsAssignable(iface, &types.Instance{ClassType: cls}) {
				c.fail(diag.StructuralErrorKind, decl.Pos(), "class %q does not correctly implement interface %q", cls.Name, iface.Name)
			}
		}
	}
}

func (c *Checker) validateAbstractMembersImplemented(decl *ast.ClassDecl, cls *types.Class) {
	cur := cls.Superclass
	for cur != nil {
		for name := range cur.AbstractMethods {
			if _, ok := cls.Methods[name]; !ok {
				if _, ok := cls.StaticMethods[name]; !ok {
					c.fail(diag.StructuralErrorKind, decl.Pos(), "non-abstract class %q does not implement abstract method %q", cls.Name, name)
				}
			}
		}
		for name := range cur.AbstractGetters {
			if _, ok := cls.Getters[name]; !ok {
				c.fail(diag.StructuralErrorKind, decl.Pos(), "non-abstract class %q does not implement abstract getter %q", cls.Name, name)
			}
		}
		for name := range cur.AbstractSetters {
			if _, ok := cls.Setters[name]; !ok {
				c.fail(diag.StructuralErrorKind, decl.Pos(), "non-abstract class %q does not implement abstract setter %q", cls.Name, name)
			}
		}
		cur = cur.Superclass
	}
}

func fieldKey(f *ast.FieldDecl) string {
	if f.PrivateName != nil {
		return f.PrivateName.Value
	}
	return f.Name.Value
}

func methodKey(m *ast.MethodDecl) string {
	if m.PrivateName != nil {
		return m.PrivateName.Value
	}
	return m.Name.Value
}

func accessOf(a ast.AccessLevel) types.AccessLevel {
	switch a {
	case ast.AccessPrivate:
		return types.AccessPrivate
	case ast.AccessProtected:
		return types.AccessProtected
	default:
		return types.AccessPublic
	}
}
