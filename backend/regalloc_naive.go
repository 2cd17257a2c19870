package backend

import "rvcc/ir"

// naiveAllocator keeps every operand in memory, with values loaded into
// scratch registers around each use. It hands out no persistent register
// to any operand; lower.go does the load-before-use / store-after-def
// dance against the scratch set.
type naiveAllocator struct{}

func (naiveAllocator) Allocate(fn *ir.Function) Allocation {
	alloc := newAllocation()
	for _, iv := range computeIntervals(fn) {
		alloc.assignMemory(iv.Name)
	}
	return alloc
}
