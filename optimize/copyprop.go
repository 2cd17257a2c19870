package optimize

import "rvcc/ir"

// CopyProp performs conservative block-local copy propagation. For each
// `ASSIGN x, y` with y a variable or temp, subsequent uses of x within
// the same block are replaced by y, until x or y is redefined or the
// block ends. Cross-block propagation would need reaching-definitions;
// the block-local form catches what the other passes expose in practice.
func CopyProp(fn *ir.Function) bool {
	g := Build(fn)
	changed := false

	for _, b := range g.Blocks {
		copies := map[string]ir.Operand{} // x -> y, valid until x or y redefined
		for i := b.Start; i < b.End; i++ {
			instr := fn.Instrs[i]
			rewriteCopyUses(&instr, copies)

			for _, name := range instr.Defs() {
				delete(copies, name)
				for x, y := range copies {
					if y.Kind != ir.OpConst && y.Name == name {
						delete(copies, x)
					}
				}
			}

			if instr.Op == ir.ASSIGN && (instr.Src1.Kind == ir.OpVar || instr.Src1.Kind == ir.OpTemp) {
				copies[instr.Dst.Name] = instr.Src1
			}

			if !instrEqual(instr, fn.Instrs[i]) {
				changed = true
			}
			fn.Instrs[i] = instr
		}
	}
	return changed
}

func rewriteCopyUses(in *ir.Instr, copies map[string]ir.Operand) {
	resolve := func(o ir.Operand) ir.Operand {
		if o.Kind != ir.OpVar && o.Kind != ir.OpTemp {
			return o
		}
		if src, ok := copies[o.Name]; ok {
			return src
		}
		return o
	}

	switch in.Op {
	case ir.ASSIGN, ir.NEG, ir.NOT, ir.PARAM:
		in.Src1 = resolve(in.Src1)
	case ir.IF_GOTO:
		in.Src1 = resolve(in.Src1)
	case ir.RETURN:
		if in.HasReturnValue() {
			in.Src1 = resolve(in.Src1)
		}
	default:
		if ir.BinaryOps[in.Op] {
			in.Src1 = resolve(in.Src1)
			in.Src2 = resolve(in.Src2)
		}
	}
}
