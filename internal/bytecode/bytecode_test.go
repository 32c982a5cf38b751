package bytecode

import (
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/tsgoscript/tscore/internal/checker"
	"github.com/tsgoscript/tscore/internal/parser"
)

func compile(t *testing.T, src string) *Program {
	t.Helper()
	prog, err := parser.Parse(src, "test.ts")
	if err != nil {
		t.Fatalf("parser error: %v", err)
	}
	c := checker.New(checker.DefaultOptions(), nil)
	if d := c.Check(prog); d != nil {
		t.Fatalf("checker error: %v", d)
	}
	p, err := Emit(prog, c.TypeMap())
	if err != nil {
		t.Fatalf("emit error: %v", err)
	}
	return p
}

func TestInstructionEncodeDecode(t *testing.T) {
	inst := MakeInstruction(OpLoadLocal, 3, 517)
	if inst.OpCode() != OpLoadLocal {
		t.Errorf("OpCode() = %v, want OpLoadLocal", inst.OpCode())
	}
	if inst.A() != 3 {
		t.Errorf("A() = %d, want 3", inst.A())
	}
	if inst.B() != 517 {
		t.Errorf("B() = %d, want 517", inst.B())
	}
}

func TestChunkAddConstantDedups(t *testing.T) {
	c := NewChunk("test")
	i1 := c.AddConstant(NumberValue(42))
	i2 := c.AddConstant(StringValue("x"))
	i3 := c.AddConstant(NumberValue(42))
	if i1 != i3 {
		t.Errorf("expected constant dedup, got indices %d and %d", i1, i3)
	}
	if i2 == i1 {
		t.Errorf("distinct constants got the same index")
	}
	if len(c.Constants) != 2 {
		t.Errorf("expected 2 constants, got %d", len(c.Constants))
	}
}

func TestChunkPatchJumpTarget(t *testing.T) {
	c := NewChunk("test")
	jmp := c.Emit(MakeInstruction(OpJump, 0, 0), 1)
	c.Emit(MakeSimpleInstruction(OpPop), 1)
	c.PatchJumpTarget(jmp, 7)
	if c.Code[jmp].B() != 7 {
		t.Errorf("PatchJumpTarget did not rewrite B, got %d", c.Code[jmp].B())
	}
}

func TestEmitArithmeticExpression(t *testing.T) {
	prog := compile(t, `1 + 2 * 3;`)
	ops := opcodeSequence(prog.Script)
	wantContains := []OpCode{OpLoadConst, OpLoadConst, OpLoadConst, OpMul, OpAdd, OpPop}
	assertContainsSequence(t, ops, wantContains)
}

func TestEmitIfElseBranches(t *testing.T) {
	prog := compile(t, `
		let x: number = 1;
		if (x > 0) { x = 1; } else { x = -1; }
	`)
	ops := opcodeSequence(prog.Script)
	assertContainsSequence(t, ops, []OpCode{OpGreater, OpJumpIfFalse})
}

func TestEmitWhileLoopHasBackwardJump(t *testing.T) {
	prog := compile(t, `
		let i: number = 0;
		while (i < 10) { i = i + 1; }
	`)
	foundBackwardJump := false
	for offset, inst := range prog.Script.Code {
		if inst.OpCode() == OpJump && int(inst.B()) < offset {
			foundBackwardJump = true
		}
	}
	if !foundBackwardJump {
		t.Error("expected a backward OpJump closing the while loop")
	}
}

func TestEmitFunctionDeclProducesChunk(t *testing.T) {
	prog := compile(t, `
		function add(a: number, b: number): number {
			return a + b;
		}
		add(1, 2);
	`)
	if len(prog.Functions) != 1 {
		t.Fatalf("expected 1 function chunk, got %d", len(prog.Functions))
	}
	fn := prog.Functions[0]
	if fn.ParamCount != 2 {
		t.Errorf("ParamCount = %d, want 2", fn.ParamCount)
	}
	ops := opcodeSequence(fn)
	assertContainsSequence(t, ops, []OpCode{OpAdd, OpReturn})
}

func TestEmitClassLayoutRecordsFieldsAndConstructor(t *testing.T) {
	prog := compile(t, `
		class Point {
			x: number;
			y: number;
			constructor(x: number, y: number) {
				this.x = x;
				this.y = y;
			}
			sum(): number {
				return this.x + this.y;
			}
		}
		const p = new Point(1, 2);
		p.sum();
	`)
	if len(prog.Classes) != 1 {
		t.Fatalf("expected 1 class layout, got %d", len(prog.Classes))
	}
	cls := prog.Classes[0]
	if cls.Name != "Point" {
		t.Errorf("class name = %q, want Point", cls.Name)
	}
	if cls.Constructor < 0 {
		t.Error("expected a constructor chunk index to be recorded")
	}
	if _, ok := cls.Methods["sum"]; !ok {
		t.Error("expected method table to contain \"sum\"")
	}
	if len(cls.Fields) != 2 {
		t.Errorf("expected 2 fields, got %v", cls.Fields)
	}
}

func TestEmitPrivateFieldUsesPrivateOpcodes(t *testing.T) {
	prog := compile(t, `
		class Wallet {
			#balance: number = 0;
			deposit(n: number): number {
				this.#balance = this.#balance + n;
				return this.#balance;
			}
		}
	`)
	var depositChunk *Chunk
	for _, fn := range prog.Functions {
		if strings.HasSuffix(fn.Name, ".deposit") {
			depositChunk = fn
		}
	}
	if depositChunk == nil {
		t.Fatal("expected a Wallet.deposit chunk")
	}
	ops := opcodeSequence(depositChunk)
	foundGet, foundSet := false, false
	for _, op := range ops {
		if op == OpGetPrivate {
			foundGet = true
		}
		if op == OpSetPrivate {
			foundSet = true
		}
	}
	if !foundGet || !foundSet {
		t.Errorf("expected OpGetPrivate and OpSetPrivate in deposit chunk, ops=%v", ops)
	}
}

func TestEmitAsyncFunctionHasStateOpcodes(t *testing.T) {
	prog := compile(t, `
		async function fetchTwice(): Promise<number> {
			const a = await Promise.resolve(1);
			const b = await Promise.resolve(2);
			return a + b;
		}
	`)
	fn := prog.Functions[0]
	if !fn.IsAsync {
		t.Error("expected chunk.IsAsync")
	}
	ops := opcodeSequence(fn)
	var awaitCount int
	for _, op := range ops {
		if op == OpAwait {
			awaitCount++
		}
	}
	if awaitCount != 2 {
		t.Errorf("expected 2 OpAwait, got %d", awaitCount)
	}
}

func TestEmitTryCatchFinallyRecordsRegion(t *testing.T) {
	prog := compile(t, `
		let log: string = "";
		try {
			throw "boom";
		} catch (e) {
			log = "caught";
		} finally {
			log = log + ":done";
		}
	`)
	if len(prog.Script.Regions) != 1 {
		t.Fatalf("expected 1 exception region, got %d", len(prog.Script.Regions))
	}
	r := prog.Script.Regions[0]
	if !r.HasCatch || !r.HasFinally {
		t.Errorf("expected region to have both catch and finally, got %+v", r)
	}
}

func TestDisassembleSimpleChunk(t *testing.T) {
	chunk := NewChunk("test")
	c1 := chunk.AddConstant(NumberValue(10))
	c2 := chunk.AddConstant(NumberValue(32))
	chunk.Emit(MakeInstruction(OpLoadConst, 0, c1), 1)
	chunk.Emit(MakeInstruction(OpLoadConst, 0, c2), 1)
	chunk.Emit(MakeSimpleInstruction(OpAdd), 2)
	chunk.Emit(MakeSimpleInstruction(OpReturn), 3)

	out := DisassembleToString(chunk)
	for _, want := range []string{"== test ==", "LOAD_CONST", "ADD", "RETURN"} {
		if !strings.Contains(out, want) {
			t.Errorf("disassembly missing %q\noutput:\n%s", want, out)
		}
	}
}

func TestDisassembleProgramSnapshot(t *testing.T) {
	prog := compile(t, `
		class Counter {
			value: number = 0;
			increment(): number {
				this.value = this.value + 1;
				return this.value;
			}
		}
		const c = new Counter();
		c.increment();
	`)
	snaps.MatchSnapshot(t, DisassembleProgram(prog))
}

func opcodeSequence(c *Chunk) []OpCode {
	ops := make([]OpCode, len(c.Code))
	for i, inst := range c.Code {
		ops[i] = inst.OpCode()
	}
	return ops
}

// assertContainsSequence checks that want appears, in order (not
// necessarily contiguous), somewhere within got.
func assertContainsSequence(t *testing.T, got, want []OpCode) {
	t.Helper()
	wi := 0
	for _, op := range got {
		if wi < len(want) && op == want[wi] {
			wi++
		}
	}
	if wi != len(want) {
		t.Errorf("expected opcode subsequence %v, got %v", want, got)
	}
}
