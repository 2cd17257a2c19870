package backend

import (
	"fmt"
	"strings"

	"rvcc/ir"
	"rvcc/report"
)

// Options configures one backend run.
type Options struct {
	Strategy Strategy
}

// Generate lowers an optimized IR program to RV32IM assembly text: one
// Generator instance per function, a per-opcode lowering dispatch, and
// peephole cleanup applied to the emitted lines before the final join.
func Generate(prog *ir.Program, opts Options) string {
	var sb strings.Builder
	sb.WriteString(".text\n")

	alloc := NewAllocator(opts.Strategy)
	for i, fn := range prog.Functions {
		if i > 0 {
			sb.WriteByte('\n')
		}
		g := newGenerator(fn, alloc.Allocate(fn))
		sb.WriteString(strings.Join(peephole(g.generateFunction()), "\n"))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Generator lowers one function's IR into assembly lines. Its counters and
// buffers are instance state, never global, so two functions (or two
// compilations) never interfere.
type Generator struct {
	fn      *ir.Function
	alloc   Allocation
	frame   Frame
	lines   []string
	pending []ir.Operand // operands enqueued by PARAM since the last CALL
}

func newGenerator(fn *ir.Function, alloc Allocation) *Generator {
	return &Generator{fn: fn, alloc: alloc, frame: buildFrame(fn, alloc)}
}

func (g *Generator) emit(format string, args ...interface{}) {
	g.lines = append(g.lines, "\t"+fmt.Sprintf(format, args...))
}

func (g *Generator) label(name string) {
	g.lines = append(g.lines, name+":")
}

func (g *Generator) generateFunction() []string {
	g.lines = append(g.lines, ".global "+g.fn.Name)
	g.label(g.fn.Name)
	g.emitPrologue()

	for _, in := range g.fn.Instrs {
		g.generateInstr(in)
	}

	g.label(g.fn.Name + "_epilogue")
	g.emitEpilogue()
	return g.lines
}

// --- prologue / epilogue -----------------------------------------------

func (g *Generator) emitPrologue() {
	fs := g.frame.Size
	if fs > 0 {
		g.materializeOffset("sp", "sp", -fs)
		g.emitStoreAt("ra", "sp", g.frame.RAOffset)
		g.emitStoreAt("s0", "sp", g.frame.OldFPOffset)
		g.materializeOffset("s0", "sp", fs)
		for _, reg := range g.alloc.CalleeSaved {
			g.emitStoreAt(reg, "sp", g.frame.CalleeSavedOffset[reg])
		}
	}

	for i, pname := range g.fn.Params {
		dst := g.destRegFor(pname)
		if i < 8 {
			g.emit("mv %s, %s", dst, ArgRegs[i])
		} else {
			g.emitLoadAt(dst, "s0", ParamStackOffset(i))
		}
		g.storeIfMem(pname, dst)
	}
}

func (g *Generator) emitEpilogue() {
	fs := g.frame.Size
	if fs > 0 {
		for _, reg := range g.alloc.CalleeSaved {
			g.emitLoadAt(reg, "sp", g.frame.CalleeSavedOffset[reg])
		}
		g.emitLoadAt("ra", "sp", g.frame.RAOffset)
		g.emitLoadAt("s0", "sp", g.frame.OldFPOffset)
		g.materializeOffset("sp", "sp", fs)
	}
	g.emit("ret")
}

// materializeOffset emits `addi dst, base, imm`, using a li+add sequence
// instead when imm falls outside the signed 12-bit immediate range.
func (g *Generator) materializeOffset(dst, base string, imm int) {
	if fitsImm12(imm) {
		g.emit("addi %s, %s, %d", dst, base, imm)
		return
	}
	g.emit("li t0, %d", imm)
	g.emit("add %s, %s, t0", dst, base)
}

// --- memory access with immediate materialization -----------------------

func (g *Generator) emitLoadAt(dst, base string, offset int) {
	if fitsImm12(offset) {
		g.emit("lw %s, %d(%s)", dst, offset, base)
		return
	}
	g.emit("li t0, %d", offset)
	g.emit("add t0, %s, t0", base)
	g.emit("lw %s, 0(t0)", dst)
}

func (g *Generator) emitStoreAt(src, base string, offset int) {
	if fitsImm12(offset) {
		g.emit("sw %s, %d(%s)", src, offset, base)
		return
	}
	g.emit("li t0, %d", offset)
	g.emit("add t0, %s, t0", base)
	g.emit("sw %s, 0(t0)", src)
}

// --- operand materialization ---------------------------------------------

// loadOperand returns a register holding op's value, materializing it into
// scratch first if op is a constant or a memory-resident name.
func (g *Generator) loadOperand(op ir.Operand, scratch string) string {
	if op.Kind == ir.OpConst {
		g.emit("li %s, %d", scratch, op.Value)
		return scratch
	}
	if loc, ok := g.alloc.Locations[op.Name]; ok && loc.Reg != "" {
		return loc.Reg
	}
	g.emitLoadAt(scratch, "sp", g.spillOffset(op.Name))
	return scratch
}

// destRegFor returns the register a definition of name should be computed
// into: its permanent home if register-resident, else scratch t2 (the
// caller must then call storeIfMem to commit the value to memory).
func (g *Generator) destRegFor(name string) string {
	if loc, ok := g.alloc.Locations[name]; ok && loc.Reg != "" {
		return loc.Reg
	}
	return "t2"
}

// storeIfMem commits reg to name's home slot when name is memory-resident;
// a no-op when name already lives in reg (the register-resident case).
func (g *Generator) storeIfMem(name string, reg string) {
	if loc, ok := g.alloc.Locations[name]; ok && loc.InMem {
		g.emitStoreAt(reg, "sp", g.frame.SpillOffset[name])
		_ = loc
	}
}

func (g *Generator) spillOffset(name string) int {
	off, ok := g.frame.SpillOffset[name]
	if !ok {
		report.RaiseICE("backend: operand %q has no frame slot", name)
	}
	return off
}

// defOperand lowers a def-producing instruction's typical shape: compute
// into destRegFor(dst), then storeIfMem. Callers fill in the actual opcode
// via compute.
func (g *Generator) defOperand(dst ir.Operand, compute func(destReg string)) {
	d := g.destRegFor(dst.Name)
	compute(d)
	g.storeIfMem(dst.Name, d)
}
