package backend

import "rvcc/ir"

// graphColorAllocator assigns registers by graph coloring: build an
// interference graph from live intervals (two intervals
// interfere iff they overlap), simplify by repeatedly removing a
// least-degree node onto a stack, then pop and assign each node the
// lowest-numbered color (register) unused by its already-colored
// neighbors, spilling on failure.
//
// As in the linear-scan allocator, an interval spanning a CALL only takes
// a callee-saved color; when none is free the value goes to memory, so a
// single color assignment is enough to keep it correct across the call.
type graphColorAllocator struct{}

func intervalsOverlap(a, b interval) bool {
	return a.Start <= b.End && b.Start <= a.End
}

func (graphColorAllocator) Allocate(fn *ir.Function) Allocation {
	alloc := newAllocation()
	intervals := computeIntervals(fn)
	sites := callSites(fn)
	n := len(intervals)
	K := len(Allocatable)

	adj := make([][]bool, n)
	for i := range adj {
		adj[i] = make([]bool, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if intervalsOverlap(intervals[i], intervals[j]) {
				adj[i][j] = true
				adj[j][i] = true
			}
		}
	}

	degree := make([]int, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if adj[i][j] {
				degree[i]++
			}
		}
	}

	// Simplify: repeatedly pop the least-degree remaining node onto a
	// stack, decrementing its neighbors' degrees.
	removed := make([]bool, n)
	stack := make([]int, 0, n)
	for remaining := n; remaining > 0; remaining-- {
		best := -1
		for i := 0; i < n; i++ {
			if !removed[i] && (best == -1 || degree[i] < degree[best]) {
				best = i
			}
		}
		removed[best] = true
		stack = append(stack, best)
		for j := 0; j < n; j++ {
			if adj[best][j] && !removed[j] {
				degree[j]--
			}
		}
	}

	// Select: pop the stack and color, lowest-numbered free color first.
	colorOf := make([]int, n)
	for i := range colorOf {
		colorOf[i] = -1
	}
	for i := len(stack) - 1; i >= 0; i-- {
		node := stack[i]
		used := make([]bool, K)
		for j := 0; j < n; j++ {
			if adj[node][j] && colorOf[j] >= 0 {
				used[colorOf[j]] = true
			}
		}

		chosen := -1
		if spansCall(intervals[node], sites) {
			for c := 0; c < K; c++ {
				if !used[c] && IsCalleeSaved(Allocatable[c]) {
					chosen = c
					break
				}
			}
		} else {
			for c := 0; c < K; c++ {
				if !used[c] {
					chosen = c
					break
				}
			}
		}

		if chosen == -1 {
			alloc.assignMemory(intervals[node].Name)
		} else {
			colorOf[node] = chosen
		}
	}

	for i, c := range colorOf {
		if c >= 0 {
			alloc.assignRegister(intervals[i].Name, Allocatable[c])
		}
	}

	return alloc
}
