package bytecode

import (
	"fmt"
	"io"
	"strings"
)

// Disassembler renders a Chunk's constant pool and instruction stream as
// human-readable text. Grounded on the teacher's
// internal/bytecode/disasm.go category-dispatch shape, trimmed to this
// package's much smaller opcode set — one switch per operand shape
// instead of the teacher's ten tryDisassemble* category helpers, since
// there's no array/record/variant instruction family here to split out.
type Disassembler struct {
	writer io.Writer
	chunk  *Chunk
}

// NewDisassembler creates a disassembler for chunk, writing to w.
func NewDisassembler(chunk *Chunk, w io.Writer) *Disassembler {
	return &Disassembler{writer: w, chunk: chunk}
}

// Disassemble prints the chunk's header, constant pool, and every
// instruction in order.
func (d *Disassembler) Disassemble() {
	fmt.Fprintf(d.writer, "== %s ==\n", d.chunk.Name)
	fmt.Fprintf(d.writer, "params=%d locals=%d async=%t instructions=%d constants=%d\n",
		d.chunk.ParamCount, d.chunk.LocalCount, d.chunk.IsAsync, len(d.chunk.Code), len(d.chunk.Constants))

	if len(d.chunk.Constants) > 0 {
		fmt.Fprintf(d.writer, "\nConstants:\n")
		for i, c := range d.chunk.Constants {
			fmt.Fprintf(d.writer, "  [%04d] %s %s\n", i, c.Type, c.String())
		}
	}

	if len(d.chunk.Upvalues) > 0 {
		fmt.Fprintf(d.writer, "\nUpvalues:\n")
		for i, uv := range d.chunk.Upvalues {
			kind := "upvalue"
			if uv.IsLocal {
				kind = "local"
			}
			fmt.Fprintf(d.writer, "  [%04d] %s <- %s #%d\n", i, uv.Name, kind, uv.Index)
		}
	}

	if len(d.chunk.Regions) > 0 {
		fmt.Fprintf(d.writer, "\nExceptionRegions:\n")
		for i, r := range d.chunk.Regions {
			fmt.Fprintf(d.writer, "  [%04d] try=%04d..%04d catch=%04d finally=%04d\n",
				i, r.Start, r.End, r.CatchTarget, r.FinallyTarget)
		}
	}

	fmt.Fprintf(d.writer, "\nBytecode:\n")
	for offset := 0; offset < len(d.chunk.Code); offset++ {
		d.DisassembleInstruction(offset)
	}
}

// DisassembleInstruction prints the single instruction at offset.
func (d *Disassembler) DisassembleInstruction(offset int) {
	if offset < 0 || offset >= len(d.chunk.Code) {
		fmt.Fprintf(d.writer, "invalid offset %d\n", offset)
		return
	}
	inst := d.chunk.Code[offset]
	d.printHeader(offset)

	switch inst.OpCode() {
	case OpLoadConst:
		idx := int(inst.B())
		fmt.Fprintf(d.writer, "%-22s %4d '%s'\n", inst.OpCode(), idx, d.constantAt(idx))
	case OpLoadLocal, OpStoreLocal:
		fmt.Fprintf(d.writer, "%-22s %4d  ; local slot\n", inst.OpCode(), inst.B())
	case OpLoadGlobal, OpStoreGlobal:
		idx := int(inst.B())
		fmt.Fprintf(d.writer, "%-22s %4d '%s'\n", inst.OpCode(), idx, d.constantAt(idx))
	case OpLoadUpvalue, OpStoreUpvalue:
		fmt.Fprintf(d.writer, "%-22s %4d  ; upvalue slot\n", inst.OpCode(), inst.B())
	case OpBox, OpUnbox:
		fmt.Fprintf(d.writer, "%-22s %4d  ; stack type\n", inst.OpCode(), inst.A())
	case OpGetFieldDirect, OpSetFieldDirect:
		fmt.Fprintf(d.writer, "%-22s %4d  ; field slot\n", inst.OpCode(), inst.A())
	case OpGetPropertyDynamic, OpSetPropertyDynamic, OpGetPrivate, OpSetPrivate:
		idx := int(inst.B())
		fmt.Fprintf(d.writer, "%-22s %4d '%s'\n", inst.OpCode(), idx, d.constantAt(idx))
	case OpCallDirect, OpCallVirtual, OpCallStatic:
		idx := int(inst.B())
		fmt.Fprintf(d.writer, "%-22s args=%d %4d '%s'\n", inst.OpCode(), inst.A(), idx, d.constantAt(idx))
	case OpCall:
		fmt.Fprintf(d.writer, "%-22s args=%d\n", inst.OpCode(), inst.A())
	case OpNewInstance:
		idx := int(inst.B())
		fmt.Fprintf(d.writer, "%-22s args=%d %4d '%s'\n", inst.OpCode(), inst.A(), idx, d.constantAt(idx))
	case OpMakeClosure:
		idx := int(inst.B())
		fmt.Fprintf(d.writer, "%-22s %4d '%s'\n", inst.OpCode(), idx, d.constantAt(idx))
	case OpMakeArray, OpMakeObject:
		fmt.Fprintf(d.writer, "%-22s %4d  ; element count\n", inst.OpCode(), inst.B())
	case OpJump, OpJumpIfFalse, OpJumpIfTrue:
		target := int(inst.B())
		fmt.Fprintf(d.writer, "%-22s %04d -> %04d\n", inst.OpCode(), offset, target)
	case OpSetState:
		fmt.Fprintf(d.writer, "%-22s %4d  ; new state\n", inst.OpCode(), inst.B())
	default:
		fmt.Fprintf(d.writer, "%s\n", inst.OpCode())
	}
}

func (d *Disassembler) constantAt(idx int) string {
	if idx < 0 || idx >= len(d.chunk.Constants) {
		return "?"
	}
	return d.chunk.Constants[idx].String()
}

func (d *Disassembler) printHeader(offset int) {
	line := d.chunk.LineFor(offset)
	if offset > 0 && line == d.chunk.LineFor(offset-1) {
		fmt.Fprintf(d.writer, "%04d    | ", offset)
	} else {
		fmt.Fprintf(d.writer, "%04d %4d ", offset, line)
	}
}

// DisassembleProgram renders every chunk (script, functions, and a class
// table) of prog, for the `tscore emit` CLI subcommand and the snapshot
// test in bytecode_test.go.
func DisassembleProgram(prog *Program) string {
	var sb strings.Builder
	if prog.Script != nil {
		NewDisassembler(prog.Script, &sb).Disassemble()
		sb.WriteByte('\n')
	}
	for _, fn := range prog.Functions {
		NewDisassembler(fn, &sb).Disassemble()
		sb.WriteByte('\n')
	}
	if len(prog.Classes) > 0 {
		fmt.Fprintf(&sb, "== classes ==\n")
		for i, c := range prog.Classes {
			fmt.Fprintf(&sb, "  [%04d] %s super=%d fields=%v ctor=%d\n", i, c.Name, c.SuperIndex, c.Fields, c.Constructor)
		}
	}
	return sb.String()
}

// DisassembleToString renders a single chunk, for quick inline debugging.
func DisassembleToString(chunk *Chunk) string {
	var sb strings.Builder
	NewDisassembler(chunk, &sb).Disassemble()
	return sb.String()
}
