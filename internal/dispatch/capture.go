package dispatch

import (
	"sort"

	"github.com/tsgoscript/tscore/internal/ast"
)

// CaptureSet is the result of closure capture analysis: the free variable
// names an arrow/function body reads or writes from an enclosing scope.
type CaptureSet struct {
	Names []string
}

// Capturing reports whether the closure reads anything from outside its
// own parameter/local scope. Spec §4.6 requires the dispatcher to tell
// capturing arrows (which need a heap-allocated closure environment) apart
// from non-capturing ones (which a back-end can lower to a plain function
// value with no captured environment at all).
func (c CaptureSet) Capturing() bool { return len(c.Names) > 0 }

// AnalyzeCaptures walks body, with the function/arrow's own parameter
// names bound up front, and returns every identifier referenced but not
// bound by a parameter, a local declaration, or a nested declaration's
// own name.
func AnalyzeCaptures(params []*ast.Param, body ast.Node) CaptureSet {
	bound := map[string]bool{}
	for _, p := range params {
		bound[p.Name] = true
	}
	free := map[string]bool{}
	walkCapture(body, bound, free)

	names := make([]string, 0, len(free))
	for n := range free {
		names = append(names, n)
	}
	sort.Strings(names)
	return CaptureSet{Names: names}
}

func cloneBound(bound map[string]bool) map[string]bool {
	out := make(map[string]bool, len(bound)+4)
	for k, v := range bound {
		out[k] = v
	}
	return out
}

// walkCapture records any Identifier not present in bound into free, and
// extends bound (on a per-branch clone) as declarations come into scope.
// It is not an exhaustive AST visitor — spec §4.6 scopes capture analysis
// to the constructs that actually introduce bindings or read identifiers;
// type-only nodes are never traversed since they never capture a runtime
// value.
func walkCapture(n ast.Node, bound map[string]bool, free map[string]bool) {
	if n == nil {
		return
	}
	switch node := n.(type) {
	case *ast.Identifier:
		if !bound[node.Value] {
			free[node.Value] = true
		}

	case *ast.MemberExpression:
		walkCapture(node.Object, bound, free)
		if node.Computed {
			walkCapture(node.Property, bound, free)
		}

	case *ast.CallExpression:
		walkCapture(node.Callee, bound, free)
		for _, a := range node.Arguments {
			walkCapture(a.Expr, bound, free)
		}

	case *ast.NewExpression:
		walkCapture(node.Callee, bound, free)
		for _, a := range node.Arguments {
			walkCapture(a.Expr, bound, free)
		}

	case *ast.InfixExpression:
		walkCapture(node.Left, bound, free)
		walkCapture(node.Right, bound, free)

	case *ast.PrefixExpression:
		walkCapture(node.Right, bound, free)

	case *ast.PostfixExpression:
		walkCapture(node.Left, bound, free)

	case *ast.AssignmentExpression:
		walkCapture(node.Left, bound, free)
		walkCapture(node.Right, bound, free)

	case *ast.ConditionalExpression:
		walkCapture(node.Condition, bound, free)
		walkCapture(node.Then, bound, free)
		walkCapture(node.Else, bound, free)

	case *ast.ArrayLiteral:
		for _, el := range node.Elements {
			walkCapture(el.Expr, bound, free)
		}

	case *ast.ObjectLiteral:
		for _, p := range node.Properties {
			if p.Computed {
				walkCapture(p.Key, bound, free)
			}
			walkCapture(p.Value, bound, free)
		}

	case *ast.TemplateLiteral:
		for _, e := range node.Expressions {
			walkCapture(e, bound, free)
		}

	case *ast.GroupedExpression:
		walkCapture(node.Value, bound, free)

	case *ast.AsExpression:
		walkCapture(node.Value, bound, free)

	case *ast.SatisfiesExpression:
		walkCapture(node.Value, bound, free)

	case *ast.NonNullExpression:
		walkCapture(node.Value, bound, free)

	case *ast.AwaitExpression:
		walkCapture(node.Value, bound, free)

	case *ast.ArrowFunction:
		inner := cloneBound(bound)
		for _, p := range node.Params {
			inner[p.Name] = true
		}
		walkCapture(node.Body, inner, free)

	case *ast.FunctionExpression:
		inner := cloneBound(bound)
		for _, p := range node.Params {
			inner[p.Name] = true
		}
		walkCapture(node.Body, inner, free)

	case *ast.BlockStatement:
		inner := cloneBound(bound)
		for _, s := range node.Statements {
			walkCapture(s, inner, free)
		}

	case *ast.VariableStatement:
		for _, d := range node.Declarators {
			walkCapture(d.Init, bound, free)
			bound[d.Name.Value] = true
		}

	case *ast.ExpressionStatement:
		walkCapture(node.Expr, bound, free)

	case *ast.ReturnStatement:
		walkCapture(node.Value, bound, free)

	case *ast.IfStatement:
		walkCapture(node.Condition, bound, free)
		walkCapture(node.Then, bound, free)
		walkCapture(node.Else, bound, free)

	case *ast.WhileStatement:
		walkCapture(node.Condition, bound, free)
		walkCapture(node.Body, bound, free)

	case *ast.DoWhileStatement:
		walkCapture(node.Body, bound, free)
		walkCapture(node.Condition, bound, free)

	case *ast.ForStatement:
		inner := cloneBound(bound)
		walkCapture(node.Init, inner, free)
		walkCapture(node.Condition, inner, free)
		walkCapture(node.Update, inner, free)
		walkCapture(node.Body, inner, free)

	case *ast.ForOfStatement:
		inner := cloneBound(bound)
		if node.Declarator != nil {
			inner[node.Declarator.Value] = true
		}
		walkCapture(node.Iterable, inner, free)
		walkCapture(node.Body, inner, free)

	case *ast.ForInStatement:
		inner := cloneBound(bound)
		if node.Declarator != nil {
			inner[node.Declarator.Value] = true
		}
		walkCapture(node.Object, inner, free)
		walkCapture(node.Body, inner, free)

	case *ast.LabeledStatement:
		walkCapture(node.Body, bound, free)

	case *ast.SwitchStatement:
		walkCapture(node.Discriminant, bound, free)
		for _, c := range node.Cases {
			walkCapture(c.Test, bound, free)
			for _, s := range c.Consequent {
				walkCapture(s, bound, free)
			}
		}

	case *ast.TryStatement:
		walkCapture(node.Block, bound, free)
		if node.Catch != nil {
			inner := cloneBound(bound)
			if node.Catch.Param != nil {
				inner[node.Catch.Param.Value] = true
			}
			walkCapture(node.Catch.Body, inner, free)
		}
		walkCapture(node.Finally, bound, free)

	case *ast.ThrowStatement:
		walkCapture(node.Value, bound, free)

	case *ast.FunctionDecl:
		bound[node.Name.Value] = true
		inner := cloneBound(bound)
		for _, p := range node.Params {
			inner[p.Name] = true
		}
		walkCapture(node.Body, inner, free)

	case *ast.ClassDecl:
		bound[node.Name.Value] = true
	}
}
