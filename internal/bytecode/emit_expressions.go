package bytecode

import (
	"fmt"

	"github.com/tsgoscript/tscore/internal/ast"
	"github.com/tsgoscript/tscore/internal/dispatch"
)

// binaryOps maps an ast.InfixExpression operator to the opcode that
// implements it, for the operators that need no short-circuit or special
// runtime lookup (&&, ||, ??, instanceof, in are handled separately in
// emitInfix, same split as interpreter/expressions.go's evalInfix).
var binaryOps = map[string]OpCode{
	"+": OpAdd, "-": OpSub, "*": OpMul, "/": OpDiv, "%": OpMod, "**": OpPow,
	"&": OpBitAnd, "|": OpBitOr, "^": OpBitXor, "<<": OpShl, ">>": OpShr,
	"==": OpEqual, "!=": OpNotEqual, "===": OpStrictEqual, "!==": OpStrictNotEqual,
	"<": OpLess, "<=": OpLessEqual, ">": OpGreater, ">=": OpGreaterEqual,
}

// emitExpression compiles expr, leaving exactly one value on the stack.
func (fe *funcEmitter) emitExpression(expr ast.Expression) error {
	line := expr.Pos().Line
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		fe.chunk.Emit(MakeInstruction(OpLoadConst, 0, fe.chunk.AddConstant(NumberValue(e.Value))), line)
		return nil
	case *ast.StringLiteral:
		fe.chunk.Emit(MakeInstruction(OpLoadConst, 0, fe.chunk.AddConstant(StringValue(e.Value))), line)
		return nil
	case *ast.BooleanLiteral:
		if e.Value {
			fe.chunk.Emit(MakeSimpleInstruction(OpLoadTrue), line)
		} else {
			fe.chunk.Emit(MakeSimpleInstruction(OpLoadFalse), line)
		}
		return nil
	case *ast.NullLiteral:
		fe.chunk.Emit(MakeSimpleInstruction(OpLoadNull), line)
		return nil
	case *ast.UndefinedLiteral:
		fe.chunk.Emit(MakeSimpleInstruction(OpLoadUndefined), line)
		return nil
	case *ast.ThisExpression:
		return fe.emitLoadName("this", line)
	case *ast.Identifier:
		return fe.emitLoadName(e.Value, line)
	case *ast.TemplateLiteral:
		return fe.emitTemplateLiteral(e)
	case *ast.ArrayLiteral:
		return fe.emitArrayLiteral(e)
	case *ast.ObjectLiteral:
		return fe.emitObjectLiteral(e)
	case *ast.GroupedExpression:
		return fe.emitExpression(e.Value)
	case *ast.AsExpression:
		return fe.emitExpression(e.Value)
	case *ast.SatisfiesExpression:
		return fe.emitExpression(e.Value)
	case *ast.NonNullExpression:
		return fe.emitExpression(e.Value)
	case *ast.PrefixExpression:
		return fe.emitPrefix(e)
	case *ast.PostfixExpression:
		return fe.emitPostfix(e)
	case *ast.InfixExpression:
		return fe.emitInfix(e)
	case *ast.ConditionalExpression:
		return fe.emitConditional(e)
	case *ast.AssignmentExpression:
		return fe.emitAssignment(e)
	case *ast.MemberExpression:
		return fe.emitMemberLoad(e)
	case *ast.CallExpression:
		return fe.emitCall(e)
	case *ast.NewExpression:
		return fe.emitNew(e)
	case *ast.AwaitExpression:
		return fe.emitAwait(e)
	case *ast.ArrowFunction:
		return fe.emitClosureAt("", e.Params, e.Body, e.IsAsync)
	case *ast.FunctionExpression:
		name := ""
		if e.Name != nil {
			name = e.Name.Value
		}
		return fe.emitClosureAt(name, e.Params, e.Body, e.IsAsync)
	}
	return fmt.Errorf("bytecode: unsupported expression %T at %s", expr, expr.Pos())
}

// emitLoadName resolves name against the local table, then the enclosing
// upvalue chain, and falls back to a global lookup — the same three-tier
// resolution order the teacher's compiler uses for identifiers.
func (fe *funcEmitter) emitLoadName(name string, line int) error {
	if slot, ok := fe.locals[name]; ok {
		fe.chunk.Emit(MakeInstruction(OpLoadLocal, 0, uint16(slot)), line)
		return nil
	}
	if idx, ok := fe.resolveUpvalue(name); ok {
		fe.chunk.Emit(MakeInstruction(OpLoadUpvalue, 0, uint16(idx)), line)
		return nil
	}
	fe.chunk.Emit(MakeInstruction(OpLoadGlobal, 0, fe.chunk.AddConstant(StringValue(name))), line)
	return nil
}

func (fe *funcEmitter) emitStoreName(name string, line int) error {
	if slot, ok := fe.locals[name]; ok {
		fe.chunk.Emit(MakeInstruction(OpStoreLocal, 0, uint16(slot)), line)
		return nil
	}
	if idx, ok := fe.resolveUpvalue(name); ok {
		fe.chunk.Emit(MakeInstruction(OpStoreUpvalue, 0, uint16(idx)), line)
		return nil
	}
	fe.chunk.Emit(MakeInstruction(OpStoreGlobal, 0, fe.chunk.AddConstant(StringValue(name))), line)
	return nil
}

func (fe *funcEmitter) emitTemplateLiteral(e *ast.TemplateLiteral) error {
	line := e.Pos().Line
	fe.chunk.Emit(MakeInstruction(OpLoadConst, 0, fe.chunk.AddConstant(StringValue(e.Quasis[0]))), line)
	for i, expr := range e.Expressions {
		if err := fe.emitExpression(expr); err != nil {
			return err
		}
		fe.chunk.Emit(MakeSimpleInstruction(OpAdd), line)
		fe.chunk.Emit(MakeInstruction(OpLoadConst, 0, fe.chunk.AddConstant(StringValue(e.Quasis[i+1]))), line)
		fe.chunk.Emit(MakeSimpleInstruction(OpAdd), line)
	}
	return nil
}

func (fe *funcEmitter) emitArrayLiteral(e *ast.ArrayLiteral) error {
	for _, el := range e.Elements {
		if err := fe.emitExpression(el.Expr); err != nil {
			return err
		}
	}
	fe.chunk.Emit(MakeInstruction(OpMakeArray, 0, uint16(len(e.Elements))), e.Pos().Line)
	return nil
}

func (fe *funcEmitter) emitObjectLiteral(e *ast.ObjectLiteral) error {
	for _, p := range e.Properties {
		if p.Spread {
			// A spread entry widens the pair count contract OpMakeObject
			// expects; the runtime merges it by re-reading the preceding
			// key/value pairs, same approach as the interpreter's eager
			// ObjectValue merge in evalObjectLiteral.
			if err := fe.emitExpression(p.Value); err != nil {
				return err
			}
			continue
		}
		key, computedKeyEmitted, err := fe.emitPropertyKey(p.Key, p.Computed)
		if err != nil {
			return err
		}
		if !computedKeyEmitted {
			fe.chunk.Emit(MakeInstruction(OpLoadConst, 0, fe.chunk.AddConstant(StringValue(key))), e.Pos().Line)
		}
		if err := fe.emitExpression(p.Value); err != nil {
			return err
		}
	}
	fe.chunk.Emit(MakeInstruction(OpMakeObject, 0, uint16(len(e.Properties))), e.Pos().Line)
	return nil
}

// emitPropertyKey pushes a computed key's evaluated value onto the stack
// (returning pushed=true, so the caller skips its own OpLoadConst), or returns
// the literal key name for the caller to push as a constant.
func (fe *funcEmitter) emitPropertyKey(key ast.Expression, computed bool) (name string, pushed bool, err error) {
	if !computed {
		switch k := key.(type) {
		case *ast.Identifier:
			return k.Value, false, nil
		case *ast.StringLiteral:
			return k.Value, false, nil
		case *ast.NumberLiteral:
			return fmt.Sprintf("%g", k.Value), false, nil
		}
	}
	return "", true, fe.emitExpression(key)
}

func (fe *funcEmitter) emitPrefix(e *ast.PrefixExpression) error {
	line := e.Pos().Line
	switch e.Operator {
	case "typeof":
		if err := fe.emitExpression(e.Right); err != nil {
			return err
		}
		fe.chunk.Emit(MakeInstruction(OpUnbox, byte(dispatch.Unknown), 0), line)
		return nil
	case "delete":
		if m, ok := e.Right.(*ast.MemberExpression); ok {
			if err := fe.emitExpression(m.Object); err != nil {
				return err
			}
			name, pushed, err := fe.emitPropertyKey(m.Property, m.Computed)
			if err != nil {
				return err
			}
			if pushed {
				fe.chunk.Emit(MakeSimpleInstruction(OpSetIndex), line)
			} else {
				fe.chunk.Emit(MakeInstruction(OpSetPropertyDynamic, 0, fe.chunk.AddConstant(StringValue(name))), line)
			}
			fe.chunk.Emit(MakeSimpleInstruction(OpPop), line)
		}
		fe.chunk.Emit(MakeSimpleInstruction(OpLoadTrue), line)
		return nil
	case "++", "--":
		return fe.emitIncDec(e.Right, e.Operator, false)
	}
	if err := fe.emitExpression(e.Right); err != nil {
		return err
	}
	switch e.Operator {
	case "!":
		fe.chunk.Emit(MakeSimpleInstruction(OpNot), line)
	case "-":
		fe.chunk.Emit(MakeSimpleInstruction(OpNegate), line)
	case "+":
		fe.chunk.Emit(MakeInstruction(OpUnbox, byte(dispatch.Double), 0), line)
	case "~":
		fe.chunk.Emit(MakeSimpleInstruction(OpBitNot), line)
	case "void":
		fe.chunk.Emit(MakeSimpleInstruction(OpPop), line)
		fe.chunk.Emit(MakeSimpleInstruction(OpLoadUndefined), line)
	default:
		return fmt.Errorf("bytecode: unsupported prefix operator %q", e.Operator)
	}
	return nil
}

func (fe *funcEmitter) emitPostfix(e *ast.PostfixExpression) error {
	return fe.emitIncDec(e.Left, e.Operator, true)
}

// emitIncDec loads target, pushes the delta, adds, and stores back — for
// postfix it also keeps the pre-increment value as the expression's
// result by duplicating it before the store.
func (fe *funcEmitter) emitIncDec(target ast.Expression, op string, postfix bool) error {
	line := target.Pos().Line
	if err := fe.emitExpression(target); err != nil {
		return err
	}
	if postfix {
		fe.chunk.Emit(MakeSimpleInstruction(OpDup), line)
	}
	fe.chunk.Emit(MakeInstruction(OpLoadConst, 0, fe.chunk.AddConstant(NumberValue(1))), line)
	if op == "++" {
		fe.chunk.Emit(MakeSimpleInstruction(OpAdd), line)
	} else {
		fe.chunk.Emit(MakeSimpleInstruction(OpSub), line)
	}
	if !postfix {
		fe.chunk.Emit(MakeSimpleInstruction(OpDup), line)
	}
	return fe.emitStoreTo(target, line)
}

func (fe *funcEmitter) emitInfix(e *ast.InfixExpression) error {
	line := e.Pos().Line
	switch e.Operator {
	case "&&":
		if err := fe.emitExpression(e.Left); err != nil {
			return err
		}
		fe.chunk.Emit(MakeSimpleInstruction(OpDup), line)
		jmp := fe.chunk.Emit(MakeInstruction(OpJumpIfFalse, 0, 0), line)
		fe.chunk.Emit(MakeSimpleInstruction(OpPop), line)
		if err := fe.emitExpression(e.Right); err != nil {
			return err
		}
		fe.chunk.PatchJumpTarget(jmp, len(fe.chunk.Code))
		return nil
	case "||":
		if err := fe.emitExpression(e.Left); err != nil {
			return err
		}
		fe.chunk.Emit(MakeSimpleInstruction(OpDup), line)
		jmp := fe.chunk.Emit(MakeInstruction(OpJumpIfTrue, 0, 0), line)
		fe.chunk.Emit(MakeSimpleInstruction(OpPop), line)
		if err := fe.emitExpression(e.Right); err != nil {
			return err
		}
		fe.chunk.PatchJumpTarget(jmp, len(fe.chunk.Code))
		return nil
	case "??":
		if err := fe.emitExpression(e.Left); err != nil {
			return err
		}
		fe.chunk.Emit(MakeSimpleInstruction(OpDup), line)
		fe.chunk.Emit(MakeSimpleInstruction(OpLoadNull), line)
		fe.chunk.Emit(MakeSimpleInstruction(OpStrictNotEqual), line)
		jmp := fe.chunk.Emit(MakeInstruction(OpJumpIfTrue, 0, 0), line)
		fe.chunk.Emit(MakeSimpleInstruction(OpPop), line)
		if err := fe.emitExpression(e.Right); err != nil {
			return err
		}
		fe.chunk.PatchJumpTarget(jmp, len(fe.chunk.Code))
		return nil
	case "instanceof":
		if err := fe.emitExpression(e.Left); err != nil {
			return err
		}
		if err := fe.emitExpression(e.Right); err != nil {
			return err
		}
		fe.chunk.Emit(MakeInstruction(OpCallStatic, 1, fe.chunk.AddConstant(StringValue("instanceof"))), line)
		return nil
	case "in":
		if err := fe.emitExpression(e.Left); err != nil {
			return err
		}
		if err := fe.emitExpression(e.Right); err != nil {
			return err
		}
		fe.chunk.Emit(MakeInstruction(OpCallStatic, 1, fe.chunk.AddConstant(StringValue("in"))), line)
		return nil
	}
	op, ok := binaryOps[e.Operator]
	if !ok {
		return fmt.Errorf("bytecode: unsupported infix operator %q", e.Operator)
	}
	if err := fe.emitExpression(e.Left); err != nil {
		return err
	}
	if err := fe.emitExpression(e.Right); err != nil {
		return err
	}
	fe.chunk.Emit(MakeSimpleInstruction(op), line)
	return nil
}

func (fe *funcEmitter) emitConditional(e *ast.ConditionalExpression) error {
	line := e.Pos().Line
	if err := fe.emitExpression(e.Condition); err != nil {
		return err
	}
	elseJump := fe.chunk.Emit(MakeInstruction(OpJumpIfFalse, 0, 0), line)
	if err := fe.emitExpression(e.Then); err != nil {
		return err
	}
	endJump := fe.chunk.Emit(MakeInstruction(OpJump, 0, 0), line)
	fe.chunk.PatchJumpTarget(elseJump, len(fe.chunk.Code))
	if err := fe.emitExpression(e.Else); err != nil {
		return err
	}
	fe.chunk.PatchJumpTarget(endJump, len(fe.chunk.Code))
	return nil
}

func (fe *funcEmitter) emitAssignment(e *ast.AssignmentExpression) error {
	line := e.Pos().Line
	if e.Operator == "=" {
		if err := fe.emitExpression(e.Right); err != nil {
			return err
		}
		fe.chunk.Emit(MakeSimpleInstruction(OpDup), line)
		return fe.emitStoreTo(e.Left, line)
	}
	switch e.Operator {
	case "&&=", "||=", "??=":
		if err := fe.emitExpression(e.Left); err != nil {
			return err
		}
		fe.chunk.Emit(MakeSimpleInstruction(OpDup), line)
		var jmp int
		switch e.Operator {
		case "&&=":
			jmp = fe.chunk.Emit(MakeInstruction(OpJumpIfFalse, 0, 0), line)
		case "||=":
			jmp = fe.chunk.Emit(MakeInstruction(OpJumpIfTrue, 0, 0), line)
		case "??=":
			fe.chunk.Emit(MakeSimpleInstruction(OpLoadNull), line)
			fe.chunk.Emit(MakeSimpleInstruction(OpStrictNotEqual), line)
			jmp = fe.chunk.Emit(MakeInstruction(OpJumpIfTrue, 0, 0), line)
		}
		fe.chunk.Emit(MakeSimpleInstruction(OpPop), line)
		if err := fe.emitExpression(e.Right); err != nil {
			return err
		}
		fe.chunk.Emit(MakeSimpleInstruction(OpDup), line)
		if err := fe.emitStoreTo(e.Left, line); err != nil {
			return err
		}
		fe.chunk.PatchJumpTarget(jmp, len(fe.chunk.Code))
		return nil
	}
	baseOp, ok := binaryOps[e.Operator[:len(e.Operator)-1]]
	if !ok {
		return fmt.Errorf("bytecode: unsupported compound assignment %q", e.Operator)
	}
	if err := fe.emitExpression(e.Left); err != nil {
		return err
	}
	if err := fe.emitExpression(e.Right); err != nil {
		return err
	}
	fe.chunk.Emit(MakeSimpleInstruction(baseOp), line)
	fe.chunk.Emit(MakeSimpleInstruction(OpDup), line)
	return fe.emitStoreTo(e.Left, line)
}

// emitStoreTo pops the stack top and writes it to target, leaving the
// stack depth unchanged from before this helper ran (callers that want
// the value kept around must Dup before calling this, same convention
// the teacher's compiler uses for assignment expressions).
func (fe *funcEmitter) emitStoreTo(target ast.Expression, line int) error {
	switch t := target.(type) {
	case *ast.Identifier:
		return fe.emitStoreName(t.Value, line)
	case *ast.MemberExpression:
		return fe.emitMemberStore(t, line)
	}
	return fmt.Errorf("bytecode: invalid assignment target %T", target)
}

// emitMemberLoad compiles obj.prop / obj?.prop / obj[expr], choosing
// OpGetFieldDirect over OpGetPropertyDynamic per
// dispatch.ClassifyMemberAccess, and OpGetPrivate for `#name` members.
func (fe *funcEmitter) emitMemberLoad(e *ast.MemberExpression) error {
	line := e.Pos().Line
	if err := fe.emitExpression(e.Object); err != nil {
		return err
	}
	var shortCircuit int
	if e.Optional {
		fe.chunk.Emit(MakeSimpleInstruction(OpDup), line)
		fe.chunk.Emit(MakeSimpleInstruction(OpLoadNull), line)
		fe.chunk.Emit(MakeSimpleInstruction(OpStrictEqual), line)
		shortCircuit = fe.chunk.Emit(MakeInstruction(OpJumpIfTrue, 0, 0), line)
	}
	if priv, ok := e.Property.(*ast.PrivateIdentifier); ok {
		fe.chunk.Emit(MakeInstruction(OpGetPrivate, 0, fe.chunk.AddConstant(StringValue(priv.Value))), line)
	} else if e.Computed {
		if err := fe.emitExpression(e.Property); err != nil {
			return err
		}
		fe.chunk.Emit(MakeSimpleInstruction(OpGetIndex), line)
	} else {
		name, _, err := fe.emitPropertyKey(e.Property, false)
		if err != nil {
			return err
		}
		kind, _ := fe.classifyMember(e.Object, name)
		if kind == dispatch.DirectDispatch {
			fe.chunk.Emit(MakeInstruction(OpGetFieldDirect, fe.fieldSlot(e.Object, name), 0), line)
		} else {
			fe.chunk.Emit(MakeInstruction(OpGetPropertyDynamic, 0, fe.chunk.AddConstant(StringValue(name))), line)
		}
	}
	if e.Optional {
		endJump := fe.chunk.Emit(MakeInstruction(OpJump, 0, 0), line)
		fe.chunk.PatchJumpTarget(shortCircuit, len(fe.chunk.Code))
		fe.chunk.Emit(MakeSimpleInstruction(OpPop), line)
		fe.chunk.Emit(MakeSimpleInstruction(OpLoadUndefined), line)
		fe.chunk.PatchJumpTarget(endJump, len(fe.chunk.Code))
	}
	return nil
}

func (fe *funcEmitter) emitMemberStore(e *ast.MemberExpression, line int) error {
	if err := fe.emitExpression(e.Object); err != nil {
		return err
	}
	if priv, ok := e.Property.(*ast.PrivateIdentifier); ok {
		fe.chunk.Emit(MakeInstruction(OpSetPrivate, 0, fe.chunk.AddConstant(StringValue(priv.Value))), line)
		return nil
	}
	if e.Computed {
		if err := fe.emitExpression(e.Property); err != nil {
			return err
		}
		fe.chunk.Emit(MakeSimpleInstruction(OpSetIndex), line)
		return nil
	}
	name, _, err := fe.emitPropertyKey(e.Property, false)
	if err != nil {
		return err
	}
	kind, _ := fe.classifyMember(e.Object, name)
	if kind == dispatch.DirectDispatch {
		fe.chunk.Emit(MakeInstruction(OpSetFieldDirect, fe.fieldSlot(e.Object, name), 0), line)
	} else {
		fe.chunk.Emit(MakeInstruction(OpSetPropertyDynamic, 0, fe.chunk.AddConstant(StringValue(name))), line)
	}
	return nil
}

// classifyMember delegates to dispatch.ClassifyMemberAccess using the
// emitter's TypeMap.
func (fe *funcEmitter) classifyMember(obj ast.Expression, member string) (dispatch.MemberDispatchKind, string) {
	kind, cls := dispatch.ClassifyMemberAccess(fe.e.typeMap, obj, member)
	if cls == nil {
		return kind, ""
	}
	return kind, cls.Name
}

// fieldSlot resolves member's static field index within its declaring
// class layout; falls back to 0xFF (an out-of-band sentinel a runtime can
// treat as "recompute dynamically") when the owning class isn't one this
// emitter has laid out, which cannot happen for code the checker accepted
// but is kept defensive since A is only a single byte.
func (fe *funcEmitter) fieldSlot(obj ast.Expression, member string) byte {
	_, clsName := fe.classifyMember(obj, member)
	layout := fe.e.classLayout(clsName)
	if layout == nil {
		return 0xFF
	}
	for i, f := range layout.Fields {
		if f == member {
			return byte(i)
		}
	}
	return 0xFF
}

func (e *Emitter) classLayout(name string) *ClassLayout {
	idx, ok := e.classIndex[name]
	if !ok {
		return nil
	}
	return e.prog.Classes[idx]
}

func (fe *funcEmitter) emitCall(e *ast.CallExpression) error {
	line := e.Pos().Line
	if m, ok := e.Callee.(*ast.MemberExpression); ok && !m.Computed {
		if _, isPriv := m.Property.(*ast.PrivateIdentifier); !isPriv {
			return fe.emitMethodCall(e, m)
		}
	}
	if err := fe.emitExpression(e.Callee); err != nil {
		return err
	}
	for _, a := range e.Arguments {
		if err := fe.emitExpression(a.Expr); err != nil {
			return err
		}
	}
	fe.chunk.Emit(MakeInstruction(OpCall, byte(len(e.Arguments)), 0), line)
	return nil
}

// emitMethodCall compiles receiver.method(args), picking OpCallDirect
// when dispatch.ClassifyMemberAccess pins the receiver's class statically,
// OpCallVirtual otherwise — spec §4.6's direct-vs-dynamic split applied to
// calls instead of plain property reads.
func (fe *funcEmitter) emitMethodCall(e *ast.CallExpression, m *ast.MemberExpression) error {
	line := e.Pos().Line
	name, _, err := fe.emitPropertyKey(m.Property, false)
	if err != nil {
		return err
	}
	if err := fe.emitExpression(m.Object); err != nil {
		return err
	}
	for _, a := range e.Arguments {
		if err := fe.emitExpression(a.Expr); err != nil {
			return err
		}
	}
	argc := byte(len(e.Arguments))
	kind, _ := fe.classifyMember(m.Object, name)
	if kind == dispatch.DirectDispatch {
		fe.chunk.Emit(MakeInstruction(OpCallDirect, argc, fe.chunk.AddConstant(StringValue(name))), line)
	} else {
		fe.chunk.Emit(MakeInstruction(OpCallVirtual, argc, fe.chunk.AddConstant(StringValue(name))), line)
	}
	return nil
}

func (fe *funcEmitter) emitNew(e *ast.NewExpression) error {
	line := e.Pos().Line
	name, ok := calleeName(e.Callee)
	if !ok {
		return fmt.Errorf("bytecode: dynamic new-target not supported at %s", e.Pos())
	}
	for _, a := range e.Arguments {
		if err := fe.emitExpression(a.Expr); err != nil {
			return err
		}
	}
	layout := fe.e.classLayout(name)
	classIdx := 0
	if layout != nil {
		classIdx = fe.e.classIndex[name]
	}
	fe.chunk.Emit(MakeInstruction(OpNewInstance, byte(len(e.Arguments)), fe.chunk.AddConstant(ClassRefValue(classIdx))), line)
	return nil
}

func calleeName(expr ast.Expression) (string, bool) {
	if id, ok := expr.(*ast.Identifier); ok {
		return id.Value, true
	}
	return "", false
}

// emitAwait marks an await point: the async plan assigned it a state
// number when the enclosing chunk's prologue was emitted, so OpSetState
// records the next state to resume at before OpAwait suspends, and the
// prologue's jump table (patched here) lands execution right after.
func (fe *funcEmitter) emitAwait(e *ast.AwaitExpression) error {
	line := e.Pos().Line
	if err := fe.emitExpression(e.Value); err != nil {
		return err
	}
	state := fe.nextAwaitState
	fe.nextAwaitState++
	fe.chunk.Emit(MakeInstruction(OpSetState, 0, uint16(state)), line)
	fe.chunk.Emit(MakeSimpleInstruction(OpAwait), line)
	if state < len(fe.stateJumpSites) {
		fe.chunk.PatchJumpTarget(fe.stateJumpSites[state], len(fe.chunk.Code))
	}
	return nil
}

// emitClosureAt compiles a nested function/arrow into its own Chunk via
// Emitter.emitFunction, then emits OpMakeClosure with the capture list
// resolveUpvalue recorded — a non-capturing closure still goes
// through OpMakeClosure with zero upvalues, same uniform path the
// teacher's compiler takes rather than special-casing the "no captures"
// case into a bare function-ref load.
func (fe *funcEmitter) emitClosureAt(name string, params []*ast.Param, body ast.Node, isAsync bool) error {
	idx, err := fe.e.emitFunction(name, params, body, isAsync, fe)
	if err != nil {
		return err
	}
	fn := fe.e.prog.Functions[idx]
	line := 0
	if len(fn.Lines) > 0 {
		line = fn.Lines[0].Line
	}
	// The capture list itself lives in fn.Upvalues (Chunk metadata, built
	// incrementally by resolveUpvalue while fn's body was compiled); a
	// runtime executing OpMakeClosure reads it from there rather than
	// from extra operand bytes, since a single B operand has no room for
	// a variable-length descriptor list.
	fe.chunk.Emit(MakeInstruction(OpMakeClosure, 0, fe.chunk.AddConstant(FunctionRefValue(idx))), line)
	return nil
}
