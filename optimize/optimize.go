package optimize

import "rvcc/ir"

// Options selects which of the optional passes run. The per-function
// passes always run to a fixed point when the optimizer is on; Inline is
// additionally gated on InlineEnabled (off by default).
type Options struct {
	InlineEnabled bool
	MaxIterations int // bounded iteration cap; 0 means DefaultMaxIterations
}

const DefaultMaxIterations = 16

// Run applies the per-function passes to every function in prog, then the
// whole-program inliner if enabled, then one more per-function sweep to
// clean up what inlining exposed.
func Run(prog *ir.Program, opts Options) *ir.Program {
	max := opts.MaxIterations
	if max == 0 {
		max = DefaultMaxIterations
	}

	for _, fn := range prog.Functions {
		runFixedPoint(fn, max)
	}

	if opts.InlineEnabled {
		if Inline(prog) {
			for _, fn := range prog.Functions {
				runFixedPoint(fn, max)
			}
		}
	}

	return prog
}

func runFixedPoint(fn *ir.Function, max int) {
	for i := 0; i < max; i++ {
		changed := false
		if Fold(fn) {
			changed = true
		}
		if ConstProp(fn) {
			changed = true
		}
		if CopyProp(fn) {
			changed = true
		}
		if CSE(fn) {
			changed = true
		}
		if DCE(fn) {
			changed = true
		}
		if LICM(fn) {
			changed = true
		}
		if Cleanup(fn) {
			changed = true
		}
		if !changed {
			break
		}
	}
}
