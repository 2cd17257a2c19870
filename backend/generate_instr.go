package backend

import (
	"rvcc/ir"
	"rvcc/report"
)

// generateInstr lowers one three-address instruction.
// FUNCTION_BEGIN/FUNCTION_END carry no code of their own: the
// prologue/epilogue around the instruction stream already cover them.
func (g *Generator) generateInstr(in ir.Instr) {
	switch in.Op {
	case ir.FUNCTION_BEGIN, ir.FUNCTION_END:
		return

	case ir.ADD, ir.SUB, ir.MUL, ir.DIV, ir.MOD:
		g.generateArith(in)
	case ir.LT, ir.GT, ir.LE, ir.GE, ir.EQ, ir.NE:
		g.generateCompare(in)
	case ir.AND, ir.OR:
		g.generateLogical(in)
	case ir.NEG, ir.NOT:
		g.generateUnary(in)
	case ir.ASSIGN:
		g.generateAssign(in)

	case ir.GOTO:
		g.emit("j %s", in.Target)
	case ir.IF_GOTO:
		cond := g.loadOperand(in.Src1, "t0")
		g.emit("bnez %s, %s", cond, in.Target)

	case ir.PARAM:
		g.pending = append(g.pending, in.Src1)
	case ir.CALL:
		g.generateCall(in)

	case ir.RETURN:
		if in.HasReturnValue() {
			v := g.loadOperand(in.Src1, "t0")
			if v != "a0" {
				g.emit("mv a0, %s", v)
			}
		}
		g.emit("j %s_epilogue", g.fn.Name)

	case ir.LABEL:
		g.label(in.Target)

	default:
		report.RaiseICE("backend: unreachable opcode %s", in.Op)
	}
}

var arithMnemonic = map[ir.Op]string{
	ir.ADD: "add", ir.SUB: "sub", ir.MUL: "mul", ir.DIV: "div", ir.MOD: "rem",
}

func (g *Generator) generateArith(in ir.Instr) {
	l := g.loadOperand(in.Src1, "t0")
	r := g.loadOperand(in.Src2, "t1")
	g.defOperand(in.Dst, func(d string) {
		g.emit("%s %s, %s, %s", arithMnemonic[in.Op], d, l, r)
	})
}

// generateCompare lowers the six comparison opcodes: LT/GT map straight
// to slt (operand order swapped for GT); LE/GE add an xori flip; EQ/NE
// test the xor of the operands via seqz/snez.
func (g *Generator) generateCompare(in ir.Instr) {
	l := g.loadOperand(in.Src1, "t0")
	r := g.loadOperand(in.Src2, "t1")
	g.defOperand(in.Dst, func(d string) {
		switch in.Op {
		case ir.LT:
			g.emit("slt %s, %s, %s", d, l, r)
		case ir.GT:
			g.emit("slt %s, %s, %s", d, r, l)
		case ir.LE:
			g.emit("slt %s, %s, %s", d, r, l)
			g.emit("xori %s, %s, 1", d, d)
		case ir.GE:
			g.emit("slt %s, %s, %s", d, l, r)
			g.emit("xori %s, %s, 1", d, d)
		case ir.EQ:
			g.emit("xor %s, %s, %s", d, l, r)
			g.emit("seqz %s, %s", d, d)
		case ir.NE:
			g.emit("xor %s, %s, %s", d, l, r)
			g.emit("snez %s, %s", d, d)
		}
	})
}

// generateLogical covers the high-level AND/OR opcodes. irgen pre-expands
// short-circuit operators into branches and never emits these, but they
// are part of the closed opcode set, so the backend still lowers them:
// normalize each operand to 0/1 first so the bitwise op also serves as
// the logical one.
func (g *Generator) generateLogical(in ir.Instr) {
	l := g.loadOperand(in.Src1, "t0")
	r := g.loadOperand(in.Src2, "t1")
	g.emit("snez t0, %s", l)
	g.emit("snez t1, %s", r)
	g.defOperand(in.Dst, func(d string) {
		mnemonic := "and"
		if in.Op == ir.OR {
			mnemonic = "or"
		}
		g.emit("%s %s, t0, t1", mnemonic, d)
	})
}

func (g *Generator) generateUnary(in ir.Instr) {
	v := g.loadOperand(in.Src1, "t0")
	g.defOperand(in.Dst, func(d string) {
		if in.Op == ir.NEG {
			g.emit("neg %s, %s", d, v)
		} else {
			g.emit("seqz %s, %s", d, v)
		}
	})
}

func (g *Generator) generateAssign(in ir.Instr) {
	v := g.loadOperand(in.Src1, "t2")
	if loc, ok := g.alloc.Locations[in.Dst.Name]; ok && loc.Reg != "" {
		if loc.Reg != v {
			g.emit("mv %s, %s", loc.Reg, v)
		}
		return
	}
	g.emitStoreAt(v, "sp", g.spillOffset(in.Dst.Name))
}

// generateCall lowers a CALL: first 8 args in a0..a7, the rest spilled to
// this function's outgoing-argument area (frame.go's OutArgBase region,
// 0(sp).. up), `call name`, then a0 moved to the result's home if the
// callee is non-void.
func (g *Generator) generateCall(in ir.Instr) {
	args := g.pending
	g.pending = nil

	for i, a := range args {
		if i < 8 {
			v := g.loadOperand(a, ScratchRegs[i%len(ScratchRegs)])
			if v != ArgRegs[i] {
				g.emit("mv %s, %s", ArgRegs[i], v)
			}
		} else {
			v := g.loadOperand(a, "t0")
			g.emitStoreAt(v, "sp", g.frame.OutArgBase+(i-8)*wordSize)
		}
	}

	g.emit("call %s", in.FuncName)

	if in.HasDst {
		d := g.destRegFor(in.Dst.Name)
		if d != "a0" {
			g.emit("mv %s, a0", d)
		}
		g.storeIfMem(in.Dst.Name, d)
	}
}
