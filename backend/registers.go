// Package backend lowers the optimized three-address IR of package ir into
// RV32IM assembly text: register allocation, stack-frame layout,
// per-instruction lowering, and a peephole cleanup pass over the emitted
// text. It treats its *ir.Program input as read-only.
package backend

import "rvcc/util"

// ArgRegs holds the integer argument/return registers, a0-a7, in ABI order.
// The first 8 integer parameters live here; the rest are stack-passed.
var ArgRegs = []string{"a0", "a1", "a2", "a3", "a4", "a5", "a6", "a7"}

// ScratchRegs are never handed to the allocator: lower.go always keeps
// t0-t2 free to materialize a memory-resident operand or a constant right
// before its use. Every strategy relies on them for the same purpose
// (spilled operands, constants, multi-step comparison sequences).
var ScratchRegs = []string{"t0", "t1", "t2"}

// TempRegs are the caller-saved registers the allocator may hand out as a
// value's persistent home for its whole live range.
var TempRegs = []string{"t3", "t4", "t5", "t6"}

// SavedRegs are callee-saved registers the allocator may hand out; a
// function that uses one must save/restore it in its prologue/epilogue.
var SavedRegs = []string{"s1", "s2", "s3", "s4", "s5", "s6", "s7", "s8", "s9", "s10", "s11"}

// Allocatable is the full pool persistent assignments are drawn from, temps
// first so short-lived values prefer caller-saved slots and avoid forcing a
// save/restore pair for a register the function barely uses.
var Allocatable = append(append([]string{}, TempRegs...), SavedRegs...)

// IsCalleeSaved reports whether reg must be preserved across a call by the
// function that uses it (the `s*` class plus `sp`/`s0`/`ra` under the
// ILP32 calling convention).
func IsCalleeSaved(reg string) bool {
	switch reg {
	case "sp", "s0", "ra":
		return true
	}
	return util.Contains(SavedRegs, reg)
}

// maxImm12 is the largest signed value an I-type immediate (addi, lw, sw,
// ...) can encode; offsets outside it need a materialized li+add sequence.
const maxImm12 = 2047
const minImm12 = -2048

func fitsImm12(v int) bool { return v >= minImm12 && v <= maxImm12 }
