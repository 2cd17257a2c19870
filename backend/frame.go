package backend

import "rvcc/ir"

const wordSize = 4 // RV32IM: int is 32 bits.

// Frame is one function's stack-frame layout, built once from its
// Allocation and its own call sites. All offsets are measured from the
// post-prologue stack pointer (the lowest
// address of the frame); fp is set to sp+Size, "the address just above the
// frame".
type Frame struct {
	Size int

	RAOffset    int // ra save slot
	OldFPOffset int // caller's fp save slot

	CalleeSavedOffset map[string]int // callee-saved reg -> its save slot

	SpillOffset map[string]int // memory-resident operand name -> its slot

	// OutArgBase is always 0: the area this function reserves at the
	// bottom of its own frame for the 9th+ arguments of its own outgoing
	// calls.
	OutArgBase int
}

// ParamStackOffset returns the offset from fp at which the (0-based)
// paramIdx-th parameter was placed by the caller, valid only for
// paramIdx >= 8 (the caller stores those immediately above its own sp).
func ParamStackOffset(paramIdx int) int {
	return (paramIdx - 8) * wordSize
}

// buildFrame computes the frame layout for fn given its Allocation.
func buildFrame(fn *ir.Function, alloc Allocation) Frame {
	maxOutArgs := 0
	argc := 0
	for _, in := range fn.Instrs {
		switch in.Op {
		case ir.PARAM:
			argc++
		case ir.CALL:
			if argc > maxOutArgs {
				maxOutArgs = argc
			}
			argc = 0
		}
	}

	outArgWords := 0
	if maxOutArgs > 8 {
		outArgWords = maxOutArgs - 8
	}

	f := Frame{
		CalleeSavedOffset: map[string]int{},
		SpillOffset:       map[string]int{},
		OutArgBase:        0,
	}

	// Lay out, from the bottom of the frame upward: outgoing-arg area,
	// locals/spill region, callee-saved save region, old-fp, ra.
	offset := outArgWords * wordSize
	for i, name := range alloc.SpillOrder {
		f.SpillOffset[name] = outArgWords*wordSize + i*wordSize
	}
	offset += len(alloc.SpillOrder) * wordSize

	for _, reg := range alloc.CalleeSaved {
		f.CalleeSavedOffset[reg] = offset
		offset += wordSize
	}

	f.OldFPOffset = offset
	offset += wordSize
	f.RAOffset = offset
	offset += wordSize

	f.Size = roundUp16(offset)
	return f
}

func roundUp16(n int) int {
	return (n + 15) &^ 15
}
