package optimize

import (
	"fmt"
	"rvcc/ir"
)

// InlineSizeThreshold bounds the body size (instruction count, excluding
// FUNCTION_BEGIN/FUNCTION_END) of an inlineable function.
const InlineSizeThreshold = 12

// inlineCounter is bumped on every splice so cloned temporaries and labels
// never collide with the caller's or with another splice's.
type inlineCounter struct{ n int }

func (c *inlineCounter) next() int { c.n++; return c.n }

// Inline splices small callee bodies into their call sites. It is only
// invoked when the caller's inline option is enabled (inlining is
// optional and off by default). A function is inlineable if
// its body contains no LABEL, calls no other function, and has at most
// InlineSizeThreshold instructions. Having no LABEL excludes loops, and it
// also excludes every function with an if, an else or a short-circuit
// `&&`/`||`, since each of those lowers to labels. Recursive functions are therefore never
// inlineable (a call to oneself fails the "calls no functions" test), which
// also rules out non-termination from repeated inlining.
func Inline(prog *ir.Program) bool {
	inlineable := map[string]*ir.Function{}
	for _, fn := range prog.Functions {
		if isInlineable(fn) {
			inlineable[fn.Name] = fn
		}
	}

	changed := false
	counter := &inlineCounter{}
	for _, fn := range prog.Functions {
		if inlineCallsIn(fn, inlineable, counter) {
			changed = true
		}
	}

	if changed {
		removeUnusedFunctions(prog)
	}
	return changed
}

func isInlineable(fn *ir.Function) bool {
	body := fn.Instrs[1 : len(fn.Instrs)-1] // strip FUNCTION_BEGIN/FUNCTION_END
	if len(body) > InlineSizeThreshold {
		return false
	}
	for _, in := range body {
		if in.Op == ir.LABEL || in.Op == ir.CALL {
			return false
		}
	}
	return true
}

func inlineCallsIn(fn *ir.Function, inlineable map[string]*ir.Function, counter *inlineCounter) bool {
	changed := false
	var out []ir.Instr
	var pendingParams []ir.Operand

	for _, in := range fn.Instrs {
		switch in.Op {
		case ir.PARAM:
			pendingParams = append(pendingParams, in.Src1)
			out = append(out, in)

		case ir.CALL:
			callee, ok := inlineable[in.FuncName]
			if !ok || callee.Name == fn.Name {
				out = append(out, in)
				pendingParams = nil
				continue
			}
			// Drop the PARAM instructions just appended; they're replaced
			// by direct ASSIGNs into the callee's renamed parameters.
			out = out[:len(out)-len(pendingParams)]
			out = append(out, spliceCall(callee, pendingParams, in, counter)...)
			pendingParams = nil
			changed = true

		default:
			out = append(out, in)
			pendingParams = nil
		}
	}

	if changed {
		fn.Instrs = out
	}
	return changed
}

// spliceCall clones callee's body with fresh temporary/label names,
// replaces its parameters with args, and rewrites `RETURN v` into
// `ASSIGN dst, v; GOTO Lend`.
func spliceCall(callee *ir.Function, args []ir.Operand, call ir.Instr, counter *inlineCounter) []ir.Instr {
	suffix := fmt.Sprintf("_inl%d", counter.next())
	rename := map[string]string{}
	for _, p := range callee.Params {
		rename[p] = p + suffix
	}

	endLabel := "Lend" + suffix

	var out []ir.Instr
	for i, p := range callee.Params {
		out = append(out, ir.Assign(ir.Var(rename[p]), args[i]))
	}

	renameOperand := func(o ir.Operand) ir.Operand {
		if o.Kind != ir.OpVar && o.Kind != ir.OpTemp {
			return o
		}
		if o.Kind == ir.OpTemp {
			return ir.Temp(o.Name + suffix)
		}
		if mapped, ok := rename[o.Name]; ok {
			return ir.Var(mapped)
		}
		return ir.Var(o.Name + suffix)
	}

	body := callee.Instrs[1 : len(callee.Instrs)-1]
	for _, in := range body {
		if in.Op == ir.RETURN {
			if in.HasReturnValue() && call.HasDst {
				out = append(out, ir.Assign(call.Dst, renameOperand(in.Src1)))
			}
			out = append(out, ir.Goto(endLabel))
			continue
		}

		cloned := in
		cloned.Src1 = renameOperand(in.Src1)
		if cloned.HasSrc2 {
			cloned.Src2 = renameOperand(in.Src2)
		}
		if cloned.HasDst {
			cloned.Dst = renameOperand(in.Dst)
		}
		if cloned.Op == ir.LABEL || cloned.Op == ir.GOTO || cloned.Op == ir.IF_GOTO {
			cloned.Target = cloned.Target + suffix
		}
		out = append(out, cloned)
	}
	out = append(out, ir.LabelInstr(endLabel))
	return out
}

func removeUnusedFunctions(prog *ir.Program) {
	used := map[string]bool{"main": true}
	changed := true
	for changed {
		changed = false
		for _, fn := range prog.Functions {
			if !used[fn.Name] {
				continue
			}
			for _, in := range fn.Instrs {
				if in.Op == ir.CALL && !used[in.FuncName] {
					used[in.FuncName] = true
					changed = true
				}
			}
		}
	}

	var kept []*ir.Function
	for _, fn := range prog.Functions {
		if used[fn.Name] {
			kept = append(kept, fn)
		}
	}
	prog.Functions = kept
}
