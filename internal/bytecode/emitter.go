package bytecode

import (
	"fmt"

	"github.com/tsgoscript/tscore/internal/ast"
	"github.com/tsgoscript/tscore/internal/checker"
	"github.com/tsgoscript/tscore/internal/dispatch"
)

// Emitter lowers an already-checked *ast.Program into a Program of
// compiled Chunks. It is the bytecode back-end's analogue of
// internal/interpreter.Interpreter: both consume the same TypeMap and
// the same internal/dispatch member-dispatch classification (this one
// also uses dispatch.PlanAsync for async chunks), but this one never
// runs the program — it only emits instructions for a runtime that would.
type Emitter struct {
	typeMap    *checker.TypeMap
	prog       *Program
	classIndex map[string]int
	funcIndex  map[string]int // qualified "Class.method" or bare function name -> Functions index
}

// Emit compiles prog into a Program. tm must be the TypeMap the checker
// produced for the same prog.
func Emit(prog *ast.Program, tm *checker.TypeMap) (*Program, error) {
	e := &Emitter{
		typeMap:    tm,
		prog:       &Program{},
		classIndex: map[string]int{},
		funcIndex:  map[string]int{},
	}

	// Classes are registered (name -> slot) before any chunk is
	// compiled, so a forward reference (a method that constructs its
	// own class, or a subclass declared before its use) resolves.
	for _, stmt := range prog.Statements {
		if cd, ok := stmt.(*ast.ClassDecl); ok {
			e.registerClass(cd)
		}
	}
	for _, stmt := range prog.Statements {
		if cd, ok := stmt.(*ast.ClassDecl); ok {
			if err := e.emitClass(cd); err != nil {
				return nil, err
			}
		}
	}

	script := NewChunk("<script>")
	fe := newFuncEmitter(e, script, nil)
	for _, stmt := range prog.Statements {
		if _, ok := stmt.(*ast.ClassDecl); ok {
			continue // already emitted above
		}
		if fd, ok := stmt.(*ast.FunctionDecl); ok && fd.Body != nil {
			idx, err := e.emitFunction(fd.Name.Value, fd.Params, fd.Body, fd.IsAsync, nil)
			if err != nil {
				return nil, err
			}
			e.funcIndex[fd.Name.Value] = idx
			slot := fe.declareLocal(fd.Name.Value)
			fe.chunk.Emit(MakeInstruction(OpMakeClosure, 0, fe.chunk.AddConstant(FunctionRefValue(idx))), fd.Pos().Line)
			fe.chunk.Emit(MakeInstruction(OpStoreLocal, 0, uint16(slot)), fd.Pos().Line)
			continue
		}
		if err := fe.emitStatement(stmt); err != nil {
			return nil, err
		}
	}
	fe.chunk.Emit(MakeSimpleInstruction(OpReturn), 0)
	script.LocalCount = fe.localCount

	e.prog.Script = script
	return e.prog, nil
}

func (e *Emitter) registerClass(cd *ast.ClassDecl) {
	if _, exists := e.classIndex[cd.Name.Value]; exists {
		return
	}
	layout := &ClassLayout{
		Name:          cd.Name.Value,
		SuperIndex:    -1,
		PrivateFields: map[string]bool{},
		Methods:       map[string]int{},
		StaticMethods: map[string]int{},
		Constructor:   -1,
	}
	e.classIndex[cd.Name.Value] = len(e.prog.Classes)
	e.prog.Classes = append(e.prog.Classes, layout)
}

// emitFunction compiles one function/method body into its own Chunk,
// appended to Program.Functions, returning its index. enclosing is the
// lexically surrounding funcEmitter (non-nil for a nested
// arrow/function expression), used to resolve upvalue captures.
func (e *Emitter) emitFunction(name string, params []*ast.Param, body ast.Node, isAsync bool, enclosing *funcEmitter) (int, error) {
	chunk := NewChunk(name)
	chunk.IsAsync = isAsync
	chunk.ParamCount = len(params)
	fe := newFuncEmitter(e, chunk, enclosing)
	for _, p := range params {
		fe.declareLocal(p.Name)
	}

	if isAsync {
		plan := dispatch.PlanAsync(body)
		chunk.HoistedLocals = plan.HoistedLocals
		fe.asyncPlan = plan
		fe.nextAwaitState = 1
		fe.emitAsyncPrologue(plan.StateCount)
	}

	switch b := body.(type) {
	case *ast.BlockStatement:
		if err := fe.emitBlock(b); err != nil {
			return 0, err
		}
		fe.chunk.Emit(MakeSimpleInstruction(OpLoadUndefined), 0)
		fe.chunk.Emit(MakeSimpleInstruction(OpReturn), 0)
	case ast.Expression:
		if err := fe.emitExpression(b); err != nil {
			return 0, err
		}
		fe.chunk.Emit(MakeSimpleInstruction(OpReturn), 0)
	default:
		return 0, fmt.Errorf("bytecode: unsupported function body %T", body)
	}

	chunk.LocalCount = fe.localCount
	idx := len(e.prog.Functions)
	e.prog.Functions = append(e.prog.Functions, chunk)
	return idx, nil
}

// funcEmitter holds one function/chunk's emission state: its local-slot
// table, the enclosing funcEmitter (for upvalue resolution), and the
// loop/switch/try control-flow bookkeeping used while emitting
// statements.
type funcEmitter struct {
	e          *Emitter
	chunk      *Chunk
	locals     map[string]int
	localCount int
	enclosing  *funcEmitter
	upvalueIdx map[string]int

	// loopLabels tracks break/continue targets for the innermost
	// enclosing loops/switches, keyed by label ("" for the nearest
	// unlabeled one), so break/continue statements can patch the right
	// jump list once the loop's exit offset is known.
	loopLabels []*loopContext

	// stateJumpSites holds the offset of each OpJumpIfTrue emitted by
	// emitAsyncPrologue, patched by emitAwait once a resume point's real
	// offset is known.
	stateJumpSites []int
	// nextAwaitState is the state number emitAwait will assign to the
	// await point it's currently emitting; starts at 1 since state 0 is
	// "not yet started."
	nextAwaitState int
	// asyncPlan is the dispatch.AsyncPlan this chunk was compiled from,
	// nil for a non-async chunk.
	asyncPlan *dispatch.AsyncPlan
}

type loopContext struct {
	label          string
	breakJumps     []int
	continueJumps  []int
	continueTarget int // patched once known; -1 until then
}

func newFuncEmitter(e *Emitter, chunk *Chunk, enclosing *funcEmitter) *funcEmitter {
	return &funcEmitter{
		e:          e,
		chunk:      chunk,
		locals:     map[string]int{},
		enclosing:  enclosing,
		upvalueIdx: map[string]int{},
	}
}

func (fe *funcEmitter) declareLocal(name string) int {
	slot := fe.localCount
	fe.locals[name] = slot
	fe.localCount++
	return slot
}

// resolveUpvalue finds name in an enclosing funcEmitter's locals (or its
// own upvalues, transitively), registering a new UpvalueDef on fe.chunk
// the first time it's captured. Returns (-1, false) if name isn't found
// anywhere in the enclosing chain (a global).
func (fe *funcEmitter) resolveUpvalue(name string) (int, bool) {
	if fe.enclosing == nil {
		return -1, false
	}
	if idx, ok := fe.upvalueIdx[name]; ok {
		return idx, true
	}
	if slot, ok := fe.enclosing.locals[name]; ok {
		idx := len(fe.chunk.Upvalues)
		fe.chunk.Upvalues = append(fe.chunk.Upvalues, UpvalueDef{Name: name, IsLocal: true, Index: slot})
		fe.upvalueIdx[name] = idx
		return idx, true
	}
	if outerIdx, ok := fe.enclosing.resolveUpvalue(name); ok {
		idx := len(fe.chunk.Upvalues)
		fe.chunk.Upvalues = append(fe.chunk.Upvalues, UpvalueDef{Name: name, IsLocal: false, Index: outerIdx})
		fe.upvalueIdx[name] = idx
		return idx, true
	}
	return -1, false
}

// emitAsyncPrologue emits the resumable-state dispatch spec §4.6
// describes as a MoveNext switch: a chain of state comparisons, each
// jumping to the resume point OpSetState last recorded before
// suspending at the matching await. Jump targets are patched by
// emitAwait once each resume point's real offset is known.
func (fe *funcEmitter) emitAsyncPrologue(stateCount int) {
	fe.stateJumpSites = make([]int, stateCount)
	fe.chunk.Emit(MakeSimpleInstruction(OpLoadState), 0)
	for i := 0; i < stateCount; i++ {
		fe.chunk.Emit(MakeInstruction(OpLoadConst, 0, fe.chunk.AddConstant(NumberValue(float64(i)))), 0)
		fe.chunk.Emit(MakeSimpleInstruction(OpStrictEqual), 0)
		fe.stateJumpSites[i] = fe.chunk.Emit(MakeInstruction(OpJumpIfTrue, 0, 0), 0)
	}
}
