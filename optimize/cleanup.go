package optimize

import "rvcc/ir"

// Cleanup tidies the control-flow skeleton: collapse chains of unconditional
// GOTOs, drop blocks unreachable from FUNCTION_BEGIN, and remove LABELs no
// edge references.
func Cleanup(fn *ir.Function) bool {
	changed := collapseGotoChains(fn)
	if removeUnreachableBlocks(fn) {
		changed = true
	}
	if dropUnreferencedLabels(fn) {
		changed = true
	}
	return changed
}

// collapseGotoChains retargets every jump through a block that is nothing
// but a forwarding GOTO straight to that GOTO's own target.
func collapseGotoChains(fn *ir.Function) bool {
	g := Build(fn)

	labelOf := map[string]*Block{}
	for _, b := range g.Blocks {
		first := fn.Instrs[b.Start]
		if first.Op == ir.LABEL {
			labelOf[first.Target] = b
		}
	}

	resolve := func(label string) string {
		visited := map[string]bool{}
		cur := label
		for !visited[cur] {
			visited[cur] = true
			b, ok := labelOf[cur]
			if !ok {
				return cur
			}
			body := b.Instrs(fn)
			// A pure forwarding block is exactly [LABEL, GOTO] (nothing else).
			if len(body) == 2 && body[0].Op == ir.LABEL && body[1].Op == ir.GOTO {
				cur = body[1].Target
				continue
			}
			return cur
		}
		return cur
	}

	changed := false
	for i, in := range fn.Instrs {
		if in.Op == ir.GOTO || in.Op == ir.IF_GOTO {
			target := resolve(in.Target)
			if target != in.Target {
				fn.Instrs[i].Target = target
				changed = true
			}
		}
	}
	return changed
}

func removeUnreachableBlocks(fn *ir.Function) bool {
	g := Build(fn)
	if len(g.Blocks) == 0 {
		return false
	}

	reached := make([]bool, len(g.Blocks))
	stack := []int{0}
	reached[0] = true
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, s := range g.Blocks[id].Succs {
			if !reached[s] {
				reached[s] = true
				stack = append(stack, s)
			}
		}
	}

	// The block holding FUNCTION_END is a structural boundary, not a real
	// control-flow target; a function that ends in an unconditional
	// RETURN has no edge into it, but it must never be dropped.
	last := g.Blocks[len(g.Blocks)-1]
	reached[last.ID] = true

	var order []*Block
	removed := false
	for _, b := range g.Blocks {
		if reached[b.ID] {
			order = append(order, b)
		} else {
			removed = true
		}
	}
	if removed {
		Rebuild(fn, order)
	}
	return removed
}

func dropUnreferencedLabels(fn *ir.Function) bool {
	referenced := map[string]bool{}
	for _, in := range fn.Instrs {
		if in.Op == ir.GOTO || in.Op == ir.IF_GOTO {
			referenced[in.Target] = true
		}
	}

	var out []ir.Instr
	changed := false
	for _, in := range fn.Instrs {
		if in.Op == ir.LABEL && !referenced[in.Target] {
			changed = true
			continue
		}
		out = append(out, in)
	}
	if changed {
		fn.Instrs = out
	}
	return changed
}
