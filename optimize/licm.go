package optimize

import (
	"fmt"

	"rvcc/ir"
)

// dominators computes, for every block, the set of blocks that dominate it
// (classic iterative dataflow: dom[entry] = {entry}; dom[n] = {n} ∪
// ∩ dom[pred] over preds of n, to a fixed point).
func dominators(g *CFG) []map[int]bool {
	n := len(g.Blocks)
	all := map[int]bool{}
	for i := 0; i < n; i++ {
		all[i] = true
	}

	dom := make([]map[int]bool, n)
	dom[0] = map[int]bool{0: true}
	for i := 1; i < n; i++ {
		dom[i] = all
	}

	changed := true
	for changed {
		changed = false
		for _, b := range g.Blocks {
			if b.ID == 0 {
				continue
			}
			var newDom map[int]bool
			for _, p := range b.Preds {
				if newDom == nil {
					newDom = copySet(dom[p])
				} else {
					newDom = intersect(newDom, dom[p])
				}
			}
			if newDom == nil {
				newDom = map[int]bool{}
			}
			newDom[b.ID] = true
			if !setEqual(newDom, dom[b.ID]) {
				dom[b.ID] = newDom
				changed = true
			}
		}
	}
	return dom
}

func copySet(s map[int]bool) map[int]bool {
	c := make(map[int]bool, len(s))
	for k := range s {
		c[k] = true
	}
	return c
}

func intersect(a, b map[int]bool) map[int]bool {
	out := map[int]bool{}
	for k := range a {
		if b[k] {
			out[k] = true
		}
	}
	return out
}

func setEqual(a, b map[int]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

// natural loop of back edge u->v (v dominates u): the set of blocks that
// reach u by walking predecessors without stepping outside {v, ...}.
func naturalLoop(g *CFG, u, v int) map[int]bool {
	loop := map[int]bool{v: true, u: true}
	worklist := []int{u}
	for len(worklist) > 0 {
		n := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		for _, p := range g.Blocks[n].Preds {
			if !loop[p] {
				loop[p] = true
				worklist = append(worklist, p)
			}
		}
	}
	return loop
}

// LICM hoists loop-invariant code. For each natural loop with exactly one
// entry edge from outside the loop, invariant instructions (no side
// effects, every used operand constant or defined entirely outside the
// loop) are moved to a preheader on that entry edge. The preheader lives
// on the edge itself: when the entry predecessor ends in a conditional
// branch, the hoisted code is placed so that only the path into the loop
// executes it, never the branch that bypasses the loop. Loops whose header
// has more than one outside predecessor are left untouched — synthesizing
// a preheader for them would require edge-splitting this pass does not
// implement.
func LICM(fn *ir.Function) bool {
	changed := false

	for {
		g := Build(fn)
		dom := dominators(g)

		// Try every back edge against the current CFG snapshot; the first
		// successful hoist invalidates the snapshot, so restart from a
		// fresh Build. Stop once no loop has anything left to move.
		hoistedAny := false
		for _, b := range g.Blocks {
			for _, s := range b.Succs {
				if dom[b.ID][s] && hoistLoopInvariants(fn, g, b.ID, s) {
					hoistedAny = true
					break
				}
			}
			if hoistedAny {
				break
			}
		}
		if !hoistedAny {
			break
		}
		changed = true
	}

	return changed
}

func hoistLoopInvariants(fn *ir.Function, g *CFG, u, v int) bool {
	loop := naturalLoop(g, u, v)

	var outsidePreds []int
	for _, p := range g.Blocks[v].Preds {
		if !loop[p] {
			outsidePreds = append(outsidePreds, p)
		}
	}
	if len(outsidePreds) != 1 {
		return false
	}
	entryPred := outsidePreds[0]

	// Loop blocks in ascending ID (instruction) order, so hoisted
	// instructions keep their def-before-use ordering in the preheader.
	var loopIDs []int
	for _, b := range g.Blocks {
		if loop[b.ID] {
			loopIDs = append(loopIDs, b.ID)
		}
	}

	definedInLoop := map[string]bool{}
	defCount := map[string]int{}
	for _, id := range loopIDs {
		for _, in := range g.Blocks[id].Instrs(fn) {
			for _, name := range in.Defs() {
				definedInLoop[name] = true
				defCount[name]++
			}
		}
	}

	// Decide, over absolute instruction indices, which ones to hoist —
	// without mutating fn.Instrs yet, so every block's [Start,End) from the
	// current CFG snapshot stays valid until the single rebuild at the end.
	remove := map[int]bool{}
	var hoisted []ir.Instr
	for _, id := range loopIDs {
		b := g.Blocks[id]
		for i := b.Start; i < b.End; i++ {
			in := fn.Instrs[i]
			// A destination written more than once in the loop is not a
			// single loop-invariant value; hoisting one of its defs would
			// reorder it against the others.
			if defs := in.Defs(); len(defs) == 1 && defCount[defs[0]] > 1 {
				continue
			}
			if isInvariant(in, definedInLoop) {
				remove[i] = true
				hoisted = append(hoisted, in)
				for _, name := range in.Defs() {
					delete(definedInLoop, name)
				}
			}
		}
	}
	if len(hoisted) == 0 {
		return false
	}

	pred := g.Blocks[entryPred]
	header := g.Blocks[v]

	var insertBefore int
	switch {
	case len(pred.Succs) == 1:
		// The whole predecessor block is the preheader: everything in it
		// runs exactly when the loop is entered.
		insertBefore = pred.End
		if pred.End > pred.Start && fn.Instrs[pred.End-1].IsTerminator() {
			insertBefore = pred.End - 1
		}

	case fn.Instrs[header.Start].Op != ir.LABEL:
		return false

	case pred.End == header.Start && fn.Instrs[pred.End-1].Target != fn.Instrs[header.Start].Target:
		// The predecessor is a conditional that falls through into the
		// header. The hoisted code goes between its branch and the header
		// label: the taken branch bypasses it, and the back edges jump to
		// the label past it.
		insertBefore = header.Start

	default:
		// The entry edge is the taken side of the predecessor's branch.
		// Splice a fresh preheader block in front of the header and
		// retarget only that branch to it; every other jump to the header
		// label is a back edge and must keep skipping the hoisted code.
		if header.Start == 0 || !fn.Instrs[header.Start-1].IsTerminator() {
			return false
		}
		label := freshLabel(fn, fn.Instrs[header.Start].Target)
		fn.Instrs[pred.End-1].Target = label
		hoisted = append([]ir.Instr{ir.LabelInstr(label)}, hoisted...)
		insertBefore = header.Start
	}

	var out []ir.Instr
	for i, in := range fn.Instrs {
		if i == insertBefore {
			out = append(out, hoisted...)
		}
		if remove[i] {
			continue
		}
		out = append(out, in)
	}
	if insertBefore == len(fn.Instrs) {
		out = append(out, hoisted...)
	}
	fn.Instrs = out

	return true
}

func freshLabel(fn *ir.Function, base string) string {
	used := map[string]bool{}
	for _, in := range fn.Instrs {
		if in.Target != "" {
			used[in.Target] = true
		}
	}
	name := base + "_pre"
	for n := 2; used[name]; n++ {
		name = fmt.Sprintf("%s_pre%d", base, n)
	}
	return name
}

func isInvariant(in ir.Instr, definedInLoop map[string]bool) bool {
	if in.HasSideEffect() || !in.HasDst {
		return false
	}
	if !ir.BinaryOps[in.Op] && !ir.UnaryOps[in.Op] && in.Op != ir.ASSIGN {
		return false
	}
	for _, name := range in.Uses() {
		if definedInLoop[name] {
			return false
		}
	}
	return true
}
