package optimize

import "rvcc/ir"

// constEnv is the constant-propagation lattice for one program point: a
// variable maps to a known constant, or is absent (⊤, not yet constrained)
// or explicitly Bottom (⊥, provably non-constant).
type constEnv map[string]int32

// constState bundles the "is this name bottom" flag alongside the env,
// since a plain map cannot distinguish "unknown" from "known non-constant."
type constState struct {
	vals   constEnv
	bottom map[string]bool
}

func newConstState() *constState {
	return &constState{vals: constEnv{}, bottom: map[string]bool{}}
}

func (s *constState) clone() *constState {
	c := newConstState()
	for k, v := range s.vals {
		c.vals[k] = v
	}
	for k := range s.bottom {
		c.bottom[k] = true
	}
	return c
}

// meet computes the intersection of two states per the classic
// meet-over-constants lattice: a name survives with a value only if both
// inputs agree on that exact constant.
func meet(a, b *constState) *constState {
	m := newConstState()
	for k, v := range a.vals {
		if bv, ok := b.vals[k]; ok && bv == v {
			m.vals[k] = v
		} else {
			m.bottom[k] = true
		}
	}
	for k := range a.bottom {
		m.bottom[k] = true
	}
	for k := range b.bottom {
		m.bottom[k] = true
	}
	return m
}

func equalStates(a, b *constState) bool {
	if len(a.vals) != len(b.vals) || len(a.bottom) != len(b.bottom) {
		return false
	}
	for k, v := range a.vals {
		if bv, ok := b.vals[k]; !ok || bv != v {
			return false
		}
	}
	for k := range a.bottom {
		if !b.bottom[k] {
			return false
		}
	}
	return true
}

// resolveOperand rewrites a Var/Temp operand to its known constant, if any.
func (s *constState) resolveOperand(o ir.Operand) ir.Operand {
	if o.Kind != ir.OpVar && o.Kind != ir.OpTemp {
		return o
	}
	if v, ok := s.vals[o.Name]; ok {
		return ir.Const(v)
	}
	return o
}

// ConstProp performs standard forward dataflow constant propagation over
// the CFG. Operand uses are rewritten to literals where the analysis
// proves a single constant reaches that point. Propagation does not cross
// CALL: a call invalidates every tracked name.
func ConstProp(fn *ir.Function) bool {
	g := Build(fn)
	if len(g.Blocks) == 0 {
		return false
	}

	in := make([]*constState, len(g.Blocks))
	out := make([]*constState, len(g.Blocks))
	for i := range g.Blocks {
		in[i] = newConstState()
		out[i] = newConstState()
	}

	changed := true
	for changed {
		changed = false
		for _, b := range g.Blocks {
			var merged *constState
			if len(b.Preds) == 0 {
				merged = newConstState()
			} else {
				merged = out[b.Preds[0]].clone()
				for _, p := range b.Preds[1:] {
					merged = meet(merged, out[p])
				}
			}
			if !equalStates(merged, in[b.ID]) {
				in[b.ID] = merged
				changed = true
			}

			cur := in[b.ID].clone()
			for _, instr := range b.Instrs(fn) {
				stepConstState(cur, instr)
			}
			if !equalStates(cur, out[b.ID]) {
				out[b.ID] = cur
				changed = true
			}
		}
	}

	rewritten := false
	for _, b := range g.Blocks {
		cur := in[b.ID].clone()
		for i := b.Start; i < b.End; i++ {
			instr := fn.Instrs[i]
			rewriteUses(&instr, cur)
			if !instrEqual(instr, fn.Instrs[i]) {
				rewritten = true
			}
			fn.Instrs[i] = instr
			stepConstState(cur, instr)
		}
	}
	return rewritten
}

func rewriteUses(in *ir.Instr, s *constState) {
	switch in.Op {
	case ir.ASSIGN, ir.NEG, ir.NOT, ir.PARAM:
		in.Src1 = s.resolveOperand(in.Src1)
	case ir.IF_GOTO:
		in.Src1 = s.resolveOperand(in.Src1)
	case ir.RETURN:
		if in.HasReturnValue() {
			in.Src1 = s.resolveOperand(in.Src1)
		}
	default:
		if ir.BinaryOps[in.Op] {
			in.Src1 = s.resolveOperand(in.Src1)
			in.Src2 = s.resolveOperand(in.Src2)
		}
	}
}

// stepConstState advances the abstract state across one instruction.
func stepConstState(s *constState, in ir.Instr) {
	if in.Op == ir.CALL {
		for k := range s.vals {
			s.bottom[k] = true
		}
		s.vals = constEnv{}
		return
	}

	defs := in.Defs()
	if len(defs) == 0 {
		return
	}
	name := defs[0]

	if in.Op == ir.ASSIGN {
		src := s.resolveOperand(in.Src1)
		if src.Kind == ir.OpConst {
			s.vals[name] = src.Value
			delete(s.bottom, name)
			return
		}
	}
	delete(s.vals, name)
	s.bottom[name] = true
}

func instrEqual(a, b ir.Instr) bool {
	return a.Op == b.Op && a.Src1.Equal(b.Src1) && a.Src2.Equal(b.Src2) && a.Target == b.Target
}
