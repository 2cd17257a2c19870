package backend

import "rvcc/ir"

// linearScanAllocator assigns registers by linear scan: live intervals
// computed by one forward scan (liveness.go), intervals expired in start
// order, and the active interval with the latest end spilled when the free
// register set is empty.
//
// One addition beyond the bare algorithm: an interval that spans a CALL
// must get a callee-saved (`s*`) register, since a caller-saved register
// holding a live value across a call would be clobbered by the callee.
// When no callee-saved register is free the interval goes to memory. This
// keeps the register assignment itself correct without requiring lower.go
// to spill live values around every call.
type linearScanAllocator struct{}

type activeInterval struct {
	iv  interval
	reg string
}

func (linearScanAllocator) Allocate(fn *ir.Function) Allocation {
	alloc := newAllocation()
	intervals := computeIntervals(fn) // already sorted by Start, see liveness.go
	sites := callSites(fn)

	avail := append([]string{}, Allocatable...)
	var active []activeInterval

	pickReg := func(mustCallee bool) (string, bool) {
		for _, r := range avail {
			if !mustCallee || IsCalleeSaved(r) {
				return r, true
			}
		}
		return "", false
	}

	removeAvail := func(reg string) {
		for i, r := range avail {
			if r == reg {
				avail = append(avail[:i], avail[i+1:]...)
				return
			}
		}
	}

	for _, iv := range intervals {
		// Expire every active interval that ends before iv starts,
		// returning its register to the free set.
		kept := active[:0]
		for _, e := range active {
			if e.iv.End < iv.Start {
				avail = append(avail, e.reg)
			} else {
				kept = append(kept, e)
			}
		}
		active = kept

		needsCallee := spansCall(iv, sites)
		reg, ok := pickReg(needsCallee)
		if !ok && !needsCallee {
			// No free register: spill whichever active interval ends
			// latest, if that is later than iv's own end; else spill iv.
			worst := -1
			for i, e := range active {
				if worst == -1 || e.iv.End > active[worst].iv.End {
					worst = i
				}
			}
			if worst >= 0 && active[worst].iv.End > iv.End {
				victim := active[worst]
				delete(alloc.Locations, victim.iv.Name)
				alloc.assignMemory(victim.iv.Name)
				reg = victim.reg
				active = append(active[:worst], active[worst+1:]...)
				ok = true
			}
		} else if ok {
			removeAvail(reg)
		}

		if !ok {
			alloc.assignMemory(iv.Name)
			continue
		}

		alloc.assignRegister(iv.Name, reg)
		active = append(active, activeInterval{iv: iv, reg: reg})
	}

	return alloc
}
