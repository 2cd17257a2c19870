package optimize

import (
	"fmt"

	"rvcc/ir"
)

// cseEntry records one available computation: the operand already holding
// its result, and the operand names it reads (for invalidation when any
// of them is redefined).
type cseEntry struct {
	result ir.Operand
	uses   []string
}

// CSE eliminates common subexpressions within a block: hash each
// non-side-effecting computation to its first computed destination and
// rewrite identical subsequent computations to a copy from that
// destination. Commutative operators are canonicalized so `a+b` and `b+a`
// hash identically. An entry dies as soon as its result or any of its
// operands is redefined.
func CSE(fn *ir.Function) bool {
	g := Build(fn)
	changed := false

	commutative := map[ir.Op]bool{ir.ADD: true, ir.MUL: true, ir.EQ: true, ir.NE: true, ir.AND: true, ir.OR: true}

	for _, b := range g.Blocks {
		seen := map[string]cseEntry{}
		for i := b.Start; i < b.End; i++ {
			instr := fn.Instrs[i]

			for _, name := range instr.Defs() {
				for k, e := range seen {
					if e.result.Kind != ir.OpConst && e.result.Name == name {
						delete(seen, k)
						continue
					}
					for _, u := range e.uses {
						if u == name {
							delete(seen, k)
							break
						}
					}
				}
			}

			if instr.HasSideEffect() || !instr.HasDst {
				continue
			}

			key, ok := cseKey(instr, commutative)
			if !ok {
				continue
			}
			if prior, found := seen[key]; found {
				fn.Instrs[i] = ir.Assign(instr.Dst, prior.result)
				changed = true
				continue
			}

			// An instruction like `x = a + x` reads the value its own
			// destination is about to overwrite; its key would describe a
			// computation no later instruction can repeat.
			selfRef := false
			for _, u := range instr.Uses() {
				if u == instr.Dst.Name {
					selfRef = true
					break
				}
			}
			if !selfRef {
				seen[key] = cseEntry{result: instr.Dst, uses: instr.Uses()}
			}
		}
	}
	return changed
}

func cseKey(in ir.Instr, commutative map[ir.Op]bool) (string, bool) {
	switch {
	case ir.BinaryOps[in.Op]:
		a, b := in.Src1.String(), in.Src2.String()
		if commutative[in.Op] && a > b {
			a, b = b, a
		}
		return fmt.Sprintf("%s(%s,%s)", in.Op, a, b), true
	case ir.UnaryOps[in.Op]:
		return fmt.Sprintf("%s(%s)", in.Op, in.Src1.String()), true
	default:
		return "", false
	}
}
