package bytecode

import (
	"fmt"

	"github.com/tsgoscript/tscore/internal/ast"
)

// emitStatement compiles one statement. Unlike emitExpression, a
// statement leaves the stack exactly as deep as it found it.
func (fe *funcEmitter) emitStatement(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.EmptyStatement:
		return nil
	case *ast.ExpressionStatement:
		if err := fe.emitExpression(s.Expr); err != nil {
			return err
		}
		fe.chunk.Emit(MakeSimpleInstruction(OpPop), s.Pos().Line)
		return nil
	case *ast.VariableStatement:
		return fe.emitVariableStatement(s)
	case *ast.BlockStatement:
		return fe.emitBlock(s)
	case *ast.IfStatement:
		return fe.emitIf(s)
	case *ast.WhileStatement:
		return fe.emitWhile(s)
	case *ast.DoWhileStatement:
		return fe.emitDoWhile(s)
	case *ast.ForStatement:
		return fe.emitFor(s)
	case *ast.ForOfStatement:
		return fe.emitForOf(s)
	case *ast.ForInStatement:
		return fe.emitForIn(s)
	case *ast.BreakStatement:
		return fe.emitBreak(s.Label, s.Pos().Line)
	case *ast.ContinueStatement:
		return fe.emitContinue(s.Label, s.Pos().Line)
	case *ast.ReturnStatement:
		if s.Value != nil {
			if err := fe.emitExpression(s.Value); err != nil {
				return err
			}
		} else {
			fe.chunk.Emit(MakeSimpleInstruction(OpLoadUndefined), s.Pos().Line)
		}
		fe.chunk.Emit(MakeSimpleInstruction(OpReturn), s.Pos().Line)
		return nil
	case *ast.LabeledStatement:
		return fe.emitLabeled(s)
	case *ast.SwitchStatement:
		return fe.emitSwitch(s)
	case *ast.TryStatement:
		return fe.emitTry(s)
	case *ast.ThrowStatement:
		if err := fe.emitExpression(s.Value); err != nil {
			return err
		}
		fe.chunk.Emit(MakeSimpleInstruction(OpThrow), s.Pos().Line)
		return nil
	case *ast.FunctionDecl:
		if s.Body == nil {
			return nil // overload signature
		}
		slot := fe.declareLocal(s.Name.Value)
		if err := fe.emitClosureAt(s.Name.Value, s.Params, s.Body, s.IsAsync); err != nil {
			return err
		}
		fe.chunk.Emit(MakeInstruction(OpStoreLocal, 0, uint16(slot)), s.Pos().Line)
		return nil
	case *ast.ClassDecl:
		fe.e.registerClass(s)
		return fe.e.emitClass(s)
	case *ast.InterfaceDecl, *ast.TypeAliasDecl:
		return nil // type-only, erased before this stage
	}
	return fmt.Errorf("bytecode: unsupported statement %T at %s", stmt, stmt.Pos())
}

func (fe *funcEmitter) emitBlock(b *ast.BlockStatement) error {
	for _, stmt := range b.Statements {
		if err := fe.emitStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (fe *funcEmitter) emitVariableStatement(s *ast.VariableStatement) error {
	for _, d := range s.Declarators {
		if d.Init != nil {
			if err := fe.emitExpression(d.Init); err != nil {
				return err
			}
		} else {
			fe.chunk.Emit(MakeSimpleInstruction(OpLoadUndefined), s.Pos().Line)
		}
		slot := fe.declareLocal(d.Name.Value)
		fe.chunk.Emit(MakeInstruction(OpStoreLocal, 0, uint16(slot)), s.Pos().Line)
	}
	return nil
}

func (fe *funcEmitter) emitIf(s *ast.IfStatement) error {
	line := s.Pos().Line
	if err := fe.emitExpression(s.Condition); err != nil {
		return err
	}
	elseJump := fe.chunk.Emit(MakeInstruction(OpJumpIfFalse, 0, 0), line)
	if err := fe.emitStatement(s.Then); err != nil {
		return err
	}
	if s.Else == nil {
		fe.chunk.PatchJumpTarget(elseJump, len(fe.chunk.Code))
		return nil
	}
	endJump := fe.chunk.Emit(MakeInstruction(OpJump, 0, 0), line)
	fe.chunk.PatchJumpTarget(elseJump, len(fe.chunk.Code))
	if err := fe.emitStatement(s.Else); err != nil {
		return err
	}
	fe.chunk.PatchJumpTarget(endJump, len(fe.chunk.Code))
	return nil
}

// pushLoop/popLoop bracket a loop or switch body, tracking the label so
// emitBreak/emitContinue can patch the right jump list once the loop's
// real exit/continue offsets are known — the emit-time analogue of the
// interpreter's signal.isBreakFor/isContinueFor label matching.
func (fe *funcEmitter) pushLoop(label string) *loopContext {
	lc := &loopContext{label: label, continueTarget: -1}
	fe.loopLabels = append(fe.loopLabels, lc)
	return lc
}

func (fe *funcEmitter) popLoop() *loopContext {
	lc := fe.loopLabels[len(fe.loopLabels)-1]
	fe.loopLabels = fe.loopLabels[:len(fe.loopLabels)-1]
	return lc
}

func (fe *funcEmitter) emitBreak(label string, line int) error {
	for i := len(fe.loopLabels) - 1; i >= 0; i-- {
		lc := fe.loopLabels[i]
		if label == "" || lc.label == label {
			jmp := fe.chunk.Emit(MakeInstruction(OpJump, 0, 0), line)
			lc.breakJumps = append(lc.breakJumps, jmp)
			return nil
		}
	}
	return fmt.Errorf("bytecode: break with no enclosing loop at line %d", line)
}

func (fe *funcEmitter) emitContinue(label string, line int) error {
	for i := len(fe.loopLabels) - 1; i >= 0; i-- {
		lc := fe.loopLabels[i]
		if label == "" || lc.label == label {
			jmp := fe.chunk.Emit(MakeInstruction(OpJump, 0, 0), line)
			lc.continueJumps = append(lc.continueJumps, jmp)
			return nil
		}
	}
	return fmt.Errorf("bytecode: continue with no enclosing loop at line %d", line)
}

func (fe *funcEmitter) patchLoopExits(lc *loopContext, continueTarget, breakTarget int) {
	for _, j := range lc.continueJumps {
		fe.chunk.PatchJumpTarget(j, continueTarget)
	}
	for _, j := range lc.breakJumps {
		fe.chunk.PatchJumpTarget(j, breakTarget)
	}
}

func (fe *funcEmitter) emitWhile(s *ast.WhileStatement) error {
	line := s.Pos().Line
	lc := fe.pushLoop(s.Label)
	condStart := len(fe.chunk.Code)
	if err := fe.emitExpression(s.Condition); err != nil {
		return err
	}
	exitJump := fe.chunk.Emit(MakeInstruction(OpJumpIfFalse, 0, 0), line)
	if err := fe.emitStatement(s.Body); err != nil {
		return err
	}
	fe.chunk.Emit(MakeInstruction(OpJump, 0, uint16(condStart)), line)
	end := len(fe.chunk.Code)
	fe.chunk.PatchJumpTarget(exitJump, end)
	fe.popLoop()
	fe.patchLoopExits(lc, condStart, end)
	return nil
}

func (fe *funcEmitter) emitDoWhile(s *ast.DoWhileStatement) error {
	line := s.Pos().Line
	lc := fe.pushLoop(s.Label)
	bodyStart := len(fe.chunk.Code)
	if err := fe.emitStatement(s.Body); err != nil {
		return err
	}
	condStart := len(fe.chunk.Code)
	if err := fe.emitExpression(s.Condition); err != nil {
		return err
	}
	fe.chunk.Emit(MakeInstruction(OpJumpIfTrue, 0, uint16(bodyStart)), line)
	end := len(fe.chunk.Code)
	fe.popLoop()
	fe.patchLoopExits(lc, condStart, end)
	return nil
}

func (fe *funcEmitter) emitFor(s *ast.ForStatement) error {
	line := s.Pos().Line
	switch init := s.Init.(type) {
	case *ast.VariableStatement:
		if err := fe.emitVariableStatement(init); err != nil {
			return err
		}
	case ast.Expression:
		if err := fe.emitExpression(init); err != nil {
			return err
		}
		fe.chunk.Emit(MakeSimpleInstruction(OpPop), line)
	}

	lc := fe.pushLoop(s.Label)
	condStart := len(fe.chunk.Code)
	var exitJump int
	hasCond := s.Condition != nil
	if hasCond {
		if err := fe.emitExpression(s.Condition); err != nil {
			return err
		}
		exitJump = fe.chunk.Emit(MakeInstruction(OpJumpIfFalse, 0, 0), line)
	}
	if err := fe.emitStatement(s.Body); err != nil {
		return err
	}
	updateStart := len(fe.chunk.Code)
	if s.Update != nil {
		if err := fe.emitExpression(s.Update); err != nil {
			return err
		}
		fe.chunk.Emit(MakeSimpleInstruction(OpPop), line)
	}
	fe.chunk.Emit(MakeInstruction(OpJump, 0, uint16(condStart)), line)
	end := len(fe.chunk.Code)
	if hasCond {
		fe.chunk.PatchJumpTarget(exitJump, end)
	}
	fe.popLoop()
	fe.patchLoopExits(lc, updateStart, end)
	return nil
}

// emitForOf lowers `for (const x of iterable)` using an index-driven loop
// over a materialized iterator: OpCallStatic "iterator.next" is the hook
// a runtime would wire to its own Symbol.iterator protocol, mirroring
// interpreter/statements.go's iterate() helper's array/string handling
// but phrased for a runtime that hasn't executed anything yet.
func (fe *funcEmitter) emitForOf(s *ast.ForOfStatement) error {
	line := s.Pos().Line
	if err := fe.emitExpression(s.Iterable); err != nil {
		return err
	}
	fe.chunk.Emit(MakeInstruction(OpCallStatic, 1, fe.chunk.AddConstant(StringValue("iterator.from"))), line)
	iterSlot := fe.declareLocal(fmt.Sprintf("%%iter%d", line))

	fe.chunk.Emit(MakeInstruction(OpStoreLocal, 0, uint16(iterSlot)), line)

	lc := fe.pushLoop(s.Label)
	condStart := len(fe.chunk.Code)
	fe.chunk.Emit(MakeInstruction(OpLoadLocal, 0, uint16(iterSlot)), line)
	fe.chunk.Emit(MakeInstruction(OpCallStatic, 1, fe.chunk.AddConstant(StringValue("iterator.hasNext"))), line)
	exitJump := fe.chunk.Emit(MakeInstruction(OpJumpIfFalse, 0, 0), line)

	fe.chunk.Emit(MakeInstruction(OpLoadLocal, 0, uint16(iterSlot)), line)
	fe.chunk.Emit(MakeInstruction(OpCallStatic, 1, fe.chunk.AddConstant(StringValue("iterator.next"))), line)
	if s.IsExisting {
		if err := fe.emitStoreTo(s.Declarator, line); err != nil {
			return err
		}
	} else {
		slot := fe.declareLocal(s.Declarator.Value)
		fe.chunk.Emit(MakeInstruction(OpStoreLocal, 0, uint16(slot)), line)
	}

	if err := fe.emitStatement(s.Body); err != nil {
		return err
	}
	fe.chunk.Emit(MakeInstruction(OpJump, 0, uint16(condStart)), line)
	end := len(fe.chunk.Code)
	fe.chunk.PatchJumpTarget(exitJump, end)
	fe.popLoop()
	fe.patchLoopExits(lc, condStart, end)
	return nil
}

// emitForIn lowers `for (const k in obj)` to an enumerate-keys runtime
// call, one key per iteration — the bytecode analogue of
// interpreter/statements.go's execForIn map-key walk.
func (fe *funcEmitter) emitForIn(s *ast.ForInStatement) error {
	line := s.Pos().Line
	if err := fe.emitExpression(s.Object); err != nil {
		return err
	}
	fe.chunk.Emit(MakeInstruction(OpCallStatic, 1, fe.chunk.AddConstant(StringValue("keys.iterator"))), line)
	iterSlot := fe.declareLocal(fmt.Sprintf("%%keys%d", line))
	fe.chunk.Emit(MakeInstruction(OpStoreLocal, 0, uint16(iterSlot)), line)

	lc := fe.pushLoop(s.Label)
	condStart := len(fe.chunk.Code)
	fe.chunk.Emit(MakeInstruction(OpLoadLocal, 0, uint16(iterSlot)), line)
	fe.chunk.Emit(MakeInstruction(OpCallStatic, 1, fe.chunk.AddConstant(StringValue("iterator.hasNext"))), line)
	exitJump := fe.chunk.Emit(MakeInstruction(OpJumpIfFalse, 0, 0), line)

	fe.chunk.Emit(MakeInstruction(OpLoadLocal, 0, uint16(iterSlot)), line)
	fe.chunk.Emit(MakeInstruction(OpCallStatic, 1, fe.chunk.AddConstant(StringValue("iterator.next"))), line)
	slot := fe.declareLocal(s.Declarator.Value)
	fe.chunk.Emit(MakeInstruction(OpStoreLocal, 0, uint16(slot)), line)

	if err := fe.emitStatement(s.Body); err != nil {
		return err
	}
	fe.chunk.Emit(MakeInstruction(OpJump, 0, uint16(condStart)), line)
	end := len(fe.chunk.Code)
	fe.chunk.PatchJumpTarget(exitJump, end)
	fe.popLoop()
	fe.patchLoopExits(lc, condStart, end)
	return nil
}

// emitLabeled wraps a labeled non-loop statement (e.g. `outer: { ...
// break outer; }`) in a loopContext of its own, so a break naming the
// label has somewhere to jump to even when the body isn't itself a loop
// construct. A labeled loop is handed straight to emitStatement: the
// parser also stores the label on the loop node, so emitWhile/emitFor's
// own pushLoop carries it.
func (fe *funcEmitter) emitLabeled(s *ast.LabeledStatement) error {
	switch s.Body.(type) {
	case *ast.WhileStatement, *ast.DoWhileStatement, *ast.ForStatement, *ast.ForOfStatement, *ast.ForInStatement:
		return fe.emitStatement(s.Body)
	}
	lc := fe.pushLoop(s.Label)
	if err := fe.emitStatement(s.Body); err != nil {
		return err
	}
	end := len(fe.chunk.Code)
	fe.popLoop()
	fe.patchLoopExits(lc, end, end)
	return nil
}

// emitSwitch lowers a switch into a chain of strict-equality comparisons
// against the discriminant, falling through consequents the same way the
// interpreter's execSwitch does by running cases in order from the match
// point without an intervening jump, until a break (or the end) is hit.
func (fe *funcEmitter) emitSwitch(s *ast.SwitchStatement) error {
	line := s.Pos().Line
	if err := fe.emitExpression(s.Discriminant); err != nil {
		return err
	}
	discSlot := fe.declareLocal(fmt.Sprintf("%%disc%d", line))
	fe.chunk.Emit(MakeInstruction(OpStoreLocal, 0, uint16(discSlot)), line)

	// switch has no label of its own in this grammar; an unlabeled break
	// inside it matches here same as isBreakFor("") does in the
	// interpreter's execSwitch.
	lc := fe.pushLoop("")
	var caseJumps []int
	defaultIdx := -1
	for i, c := range s.Cases {
		if c.Test == nil {
			defaultIdx = i
			caseJumps = append(caseJumps, -1)
			continue
		}
		fe.chunk.Emit(MakeInstruction(OpLoadLocal, 0, uint16(discSlot)), line)
		if err := fe.emitExpression(c.Test); err != nil {
			return err
		}
		fe.chunk.Emit(MakeSimpleInstruction(OpStrictEqual), line)
		caseJumps = append(caseJumps, fe.chunk.Emit(MakeInstruction(OpJumpIfTrue, 0, 0), line))
	}
	fallthroughToDefault := fe.chunk.Emit(MakeInstruction(OpJump, 0, 0), line)

	bodyStarts := make([]int, len(s.Cases))
	for i, c := range s.Cases {
		bodyStarts[i] = len(fe.chunk.Code)
		for _, stmt := range c.Consequent {
			if err := fe.emitStatement(stmt); err != nil {
				return err
			}
		}
	}
	end := len(fe.chunk.Code)

	for i, jmp := range caseJumps {
		if jmp == -1 {
			continue
		}
		fe.chunk.PatchJumpTarget(jmp, bodyStarts[i])
	}
	if defaultIdx >= 0 {
		fe.chunk.PatchJumpTarget(fallthroughToDefault, bodyStarts[defaultIdx])
	} else {
		fe.chunk.PatchJumpTarget(fallthroughToDefault, end)
	}

	fe.popLoop()
	fe.patchLoopExits(lc, end, end)
	return nil
}

// emitTry lowers a try/catch/finally into an ExceptionRegion spanning the
// try body, recorded on the chunk for a runtime's unwinder to consult —
// grounded on the teacher's TryInfo, generalized to a range (see
// ExceptionRegion's doc in chunk.go).
func (fe *funcEmitter) emitTry(s *ast.TryStatement) error {
	line := s.Pos().Line
	region := ExceptionRegion{CatchTarget: -1, FinallyTarget: -1, CatchLocalSlot: -1}
	region.Start = len(fe.chunk.Code)
	if err := fe.emitBlock(s.Block); err != nil {
		return err
	}
	afterTry := fe.chunk.Emit(MakeInstruction(OpJump, 0, 0), line)
	region.End = len(fe.chunk.Code)

	if s.Catch != nil {
		region.HasCatch = true
		region.CatchTarget = len(fe.chunk.Code)
		if s.Catch.Param != nil {
			region.CatchLocalSlot = fe.declareLocal(s.Catch.Param.Value)
			fe.chunk.Emit(MakeInstruction(OpStoreLocal, 0, uint16(region.CatchLocalSlot)), line)
		} else {
			fe.chunk.Emit(MakeSimpleInstruction(OpPop), line)
		}
		if err := fe.emitBlock(s.Catch.Body); err != nil {
			return err
		}
	}
	fe.chunk.PatchJumpTarget(afterTry, len(fe.chunk.Code))

	if s.Finally != nil {
		region.HasFinally = true
		region.FinallyTarget = len(fe.chunk.Code)
		if err := fe.emitBlock(s.Finally); err != nil {
			return err
		}
	}

	fe.chunk.Regions = append(fe.chunk.Regions, region)
	return nil
}
