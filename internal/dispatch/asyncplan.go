package dispatch

import "github.com/tsgoscript/tscore/internal/ast"

// AsyncPlan is the structural description of an async function's lowering
// to a state machine, per spec §4.6: hoisted locals live in a per-call
// struct, a resumable-state integer selects where MoveNext resumes, and
// each await splits the body into two states. This package only plans the
// shape; internal/interpreter and internal/bytecode each generate their
// own MoveNext representation (a Go closure chain and a jump table,
// respectively) from the same plan.
type AsyncPlan struct {
	// HoistedLocals are every local declared anywhere in the function body
	// (including inside nested blocks), since a suspended function's
	// locals must survive across a MoveNext resume and so cannot live on
	// a transient Go/interpreter call stack.
	HoistedLocals []string
	// AwaitPoints is the ordered list of await expressions found at the
	// function's own scope (nested function/arrow bodies are excluded —
	// they plan their own, separate, state machine).
	AwaitPoints []*ast.AwaitExpression
	// StateCount is len(AwaitPoints)+1: one state per await plus the
	// initial entry state.
	StateCount int
}

// PlanAsync walks body and produces its AsyncPlan. params seed the locals
// list is not included here deliberately — parameters are already part of
// the call's activation record under both back-ends, hoisting only
// applies to var/let/const locals declared within the body.
func PlanAsync(body ast.Node) *AsyncPlan {
	p := &AsyncPlan{}
	walkAsync(body, p)
	p.StateCount = len(p.AwaitPoints) + 1
	return p
}

// walkAsync collects hoisted locals and await points without descending
// into nested function/arrow bodies, which plan their own AsyncPlan
// independently when they are themselves async.
func walkAsync(n ast.Node, p *AsyncPlan) {
	if n == nil {
		return
	}
	switch node := n.(type) {
	case *ast.AwaitExpression:
		p.AwaitPoints = append(p.AwaitPoints, node)
		walkAsync(node.Value, p)

	case *ast.VariableStatement:
		for _, d := range node.Declarators {
			p.HoistedLocals = append(p.HoistedLocals, d.Name.Value)
			walkAsync(d.Init, p)
		}

	case *ast.BlockStatement:
		for _, s := range node.Statements {
			walkAsync(s, p)
		}

	case *ast.ExpressionStatement:
		walkAsync(node.Expr, p)

	case *ast.ReturnStatement:
		walkAsync(node.Value, p)

	case *ast.ThrowStatement:
		walkAsync(node.Value, p)

	case *ast.IfStatement:
		walkAsync(node.Condition, p)
		walkAsync(node.Then, p)
		walkAsync(node.Else, p)

	case *ast.WhileStatement:
		walkAsync(node.Condition, p)
		walkAsync(node.Body, p)

	case *ast.DoWhileStatement:
		walkAsync(node.Body, p)
		walkAsync(node.Condition, p)

	case *ast.ForStatement:
		walkAsync(node.Init, p)
		walkAsync(node.Condition, p)
		walkAsync(node.Update, p)
		walkAsync(node.Body, p)

	case *ast.ForOfStatement:
		if node.Declarator != nil {
			p.HoistedLocals = append(p.HoistedLocals, node.Declarator.Value)
		}
		walkAsync(node.Iterable, p)
		walkAsync(node.Body, p)

	case *ast.ForInStatement:
		if node.Declarator != nil {
			p.HoistedLocals = append(p.HoistedLocals, node.Declarator.Value)
		}
		walkAsync(node.Object, p)
		walkAsync(node.Body, p)

	case *ast.LabeledStatement:
		walkAsync(node.Body, p)

	case *ast.SwitchStatement:
		walkAsync(node.Discriminant, p)
		for _, c := range node.Cases {
			walkAsync(c.Test, p)
			for _, s := range c.Consequent {
				walkAsync(s, p)
			}
		}

	case *ast.TryStatement:
		walkAsync(node.Block, p)
		if node.Catch != nil {
			if node.Catch.Param != nil {
				p.HoistedLocals = append(p.HoistedLocals, node.Catch.Param.Value)
			}
			walkAsync(node.Catch.Body, p)
		}
		walkAsync(node.Finally, p)

	case *ast.AssignmentExpression:
		walkAsync(node.Left, p)
		walkAsync(node.Right, p)

	case *ast.InfixExpression:
		walkAsync(node.Left, p)
		walkAsync(node.Right, p)

	case *ast.PrefixExpression:
		walkAsync(node.Right, p)

	case *ast.PostfixExpression:
		walkAsync(node.Left, p)

	case *ast.ConditionalExpression:
		walkAsync(node.Condition, p)
		walkAsync(node.Then, p)
		walkAsync(node.Else, p)

	case *ast.CallExpression:
		walkAsync(node.Callee, p)
		for _, a := range node.Arguments {
			walkAsync(a.Expr, p)
		}

	case *ast.NewExpression:
		walkAsync(node.Callee, p)
		for _, a := range node.Arguments {
			walkAsync(a.Expr, p)
		}

	case *ast.MemberExpression:
		walkAsync(node.Object, p)
		if node.Computed {
			walkAsync(node.Property, p)
		}

	case *ast.GroupedExpression:
		walkAsync(node.Value, p)

	case *ast.AsExpression:
		walkAsync(node.Value, p)

	case *ast.SatisfiesExpression:
		walkAsync(node.Value, p)

	case *ast.NonNullExpression:
		walkAsync(node.Value, p)

	case *ast.ArrayLiteral:
		for _, el := range node.Elements {
			walkAsync(el.Expr, p)
		}

	case *ast.ObjectLiteral:
		for _, prop := range node.Properties {
			if prop.Computed {
				walkAsync(prop.Key, p)
			}
			walkAsync(prop.Value, p)
		}

	case *ast.TemplateLiteral:
		for _, e := range node.Expressions {
			walkAsync(e, p)
		}

		// *ast.ArrowFunction and *ast.FunctionExpression: deliberately not
		// descended into — each plans its own, independent state machine
		// if and when it is itself async.
	}
}
