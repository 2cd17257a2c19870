package backend

import "rvcc/ir"

// Strategy selects one of the three interchangeable register allocators.
// The caller picks one per compilation (cmd's -alloc flag).
type Strategy string

const (
	StrategyNaive      Strategy = "naive"
	StrategyLinearScan Strategy = "linear"
	StrategyGraphColor Strategy = "graph"
)

// Location is where one named operand (variable, temp, or parameter) lives
// for the whole of its lifetime in a function: either a register, or a
// memory slot in the frame's locals region (frame.go assigns the concrete
// offset once every operand's Location is known).
type Location struct {
	Reg     string // "" when memory-resident
	InMem   bool
	SlotIdx int // index into the function's spill-slot area, valid iff InMem
}

// Allocation is the result of running one allocator over a function: a map
// from every operand name appearing in the function to its Location, plus
// the distinct callee-saved registers actually handed out (the only ones
// the prologue/epilogue need to save).
type Allocation struct {
	Locations   map[string]Location
	CalleeSaved []string // deduplicated, only regs actually assigned
	SpillSlots  int      // count of distinct memory-resident names
	SpillOrder  []string // memory-resident names in slot-index order
}

// Allocator maps every operand name live in fn to a Location.
type Allocator interface {
	Allocate(fn *ir.Function) Allocation
}

// NewAllocator returns the allocator for strategy; an unrecognized
// strategy defaults to naive, the always-correct fallback.
func NewAllocator(s Strategy) Allocator {
	switch s {
	case StrategyLinearScan:
		return linearScanAllocator{}
	case StrategyGraphColor:
		return graphColorAllocator{}
	default:
		return naiveAllocator{}
	}
}

// newAllocation builds an empty Allocation ready for assignRegister/
// assignMemory calls.
func newAllocation() Allocation {
	return Allocation{Locations: map[string]Location{}}
}

func (a *Allocation) assignRegister(name, reg string) {
	a.Locations[name] = Location{Reg: reg}
	if IsCalleeSaved(reg) {
		for _, r := range a.CalleeSaved {
			if r == reg {
				return
			}
		}
		a.CalleeSaved = append(a.CalleeSaved, reg)
	}
}

func (a *Allocation) assignMemory(name string) {
	if _, ok := a.Locations[name]; ok {
		return
	}
	idx := a.SpillSlots
	a.Locations[name] = Location{InMem: true, SlotIdx: idx}
	a.SpillSlots++
	a.SpillOrder = append(a.SpillOrder, name)
}
