package backend

import (
	"fmt"
	"strconv"
	"strings"
)

// rvMachine is a minimal RV32IM simulator over the textual assembly this
// backend emits. It exists only so the end-to-end tests can execute a
// compiled program and observe its exit status without shelling out to an
// external assembler and emulator. It understands exactly the mnemonic
// subset lower.go and peephole.go produce, nothing more.
type rvMachine struct {
	regs  map[string]int32
	mem   map[int32]int32
	lines []rvLine
	// labelAt maps a label name to the index of the line following it.
	labelAt map[string]int
}

type rvLine struct {
	op   string
	args []string
}

const (
	rvStackTop  = int32(0x7ffffff0)
	rvReturnEnd = int32(-1)
	rvMaxSteps  = 5_000_000
)

// newRVMachine parses the assembly text into an executable line list,
// recording label positions and skipping directives and blank lines.
func newRVMachine(asm string) (*rvMachine, error) {
	m := &rvMachine{
		regs:    map[string]int32{},
		mem:     map[int32]int32{},
		labelAt: map[string]int{},
	}

	for _, raw := range strings.Split(asm, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, ".") || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasSuffix(line, ":") {
			m.labelAt[strings.TrimSuffix(line, ":")] = len(m.lines)
			continue
		}
		fields := strings.Fields(strings.ReplaceAll(line, ",", " "))
		m.lines = append(m.lines, rvLine{op: fields[0], args: fields[1:]})
	}

	if _, ok := m.labelAt["main"]; !ok {
		return nil, fmt.Errorf("no main label in assembly")
	}
	return m, nil
}

func (m *rvMachine) get(reg string) int32 {
	if reg == "zero" {
		return 0
	}
	return m.regs[reg]
}

func (m *rvMachine) set(reg string, v int32) {
	if reg == "zero" {
		return
	}
	m.regs[reg] = v
}

// memRef parses an "off(base)" operand into an absolute address.
func (m *rvMachine) memRef(ref string) (int32, error) {
	open := strings.IndexByte(ref, '(')
	close := strings.IndexByte(ref, ')')
	if open < 0 || close < open {
		return 0, fmt.Errorf("malformed memory operand %q", ref)
	}
	off, err := strconv.ParseInt(ref[:open], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("malformed offset in %q", ref)
	}
	return m.get(ref[open+1:close]) + int32(off), nil
}

func parseImm(s string) (int32, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	return int32(v), err
}

// run executes from the main label until main's ret fires with the entry
// sentinel in ra, returning a0 as the program's exit value.
func (m *rvMachine) run() (int32, error) {
	m.set("sp", rvStackTop)
	m.set("ra", rvReturnEnd)
	pc := m.labelAt["main"]

	for steps := 0; steps < rvMaxSteps; steps++ {
		if pc == int(rvReturnEnd) {
			return m.get("a0"), nil
		}
		if pc < 0 || pc >= len(m.lines) {
			return 0, fmt.Errorf("pc %d out of range", pc)
		}
		next, err := m.step(pc)
		if err != nil {
			return 0, err
		}
		pc = next
	}
	return 0, fmt.Errorf("step limit exceeded (infinite loop?)")
}

func (m *rvMachine) step(pc int) (int, error) {
	in := m.lines[pc]
	a := in.args

	binop := func(f func(x, y int32) int32) (int, error) {
		m.set(a[0], f(m.get(a[1]), m.get(a[2])))
		return pc + 1, nil
	}

	switch in.op {
	case "add":
		return binop(func(x, y int32) int32 { return x + y })
	case "sub":
		return binop(func(x, y int32) int32 { return x - y })
	case "mul":
		return binop(func(x, y int32) int32 { return x * y })
	case "div":
		return binop(func(x, y int32) int32 {
			// RV32M defines division by zero as all-ones, no trap.
			if y == 0 {
				return -1
			}
			return x / y
		})
	case "rem":
		return binop(func(x, y int32) int32 {
			if y == 0 {
				return x
			}
			return x % y
		})
	case "slt":
		return binop(func(x, y int32) int32 {
			if x < y {
				return 1
			}
			return 0
		})
	case "xor":
		return binop(func(x, y int32) int32 { return x ^ y })
	case "and":
		return binop(func(x, y int32) int32 { return x & y })
	case "or":
		return binop(func(x, y int32) int32 { return x | y })

	case "addi", "xori":
		imm, err := parseImm(a[2])
		if err != nil {
			return 0, err
		}
		if in.op == "addi" {
			m.set(a[0], m.get(a[1])+imm)
		} else {
			m.set(a[0], m.get(a[1])^imm)
		}
		return pc + 1, nil

	case "li":
		imm, err := parseImm(a[1])
		if err != nil {
			return 0, err
		}
		m.set(a[0], imm)
		return pc + 1, nil

	case "mv":
		m.set(a[0], m.get(a[1]))
		return pc + 1, nil

	case "neg":
		m.set(a[0], -m.get(a[1]))
		return pc + 1, nil
	case "seqz":
		m.set(a[0], boolReg(m.get(a[1]) == 0))
		return pc + 1, nil
	case "snez":
		m.set(a[0], boolReg(m.get(a[1]) != 0))
		return pc + 1, nil

	case "lw":
		addr, err := m.memRef(a[1])
		if err != nil {
			return 0, err
		}
		m.set(a[0], m.mem[addr])
		return pc + 1, nil
	case "sw":
		addr, err := m.memRef(a[1])
		if err != nil {
			return 0, err
		}
		m.mem[addr] = m.get(a[0])
		return pc + 1, nil

	case "j":
		return m.jumpTo(a[0])
	case "bnez":
		if m.get(a[0]) != 0 {
			return m.jumpTo(a[1])
		}
		return pc + 1, nil
	case "beqz":
		if m.get(a[0]) == 0 {
			return m.jumpTo(a[1])
		}
		return pc + 1, nil

	case "call":
		m.set("ra", int32(pc+1))
		return m.jumpTo(a[0])
	case "ret":
		return int(m.get("ra")), nil

	default:
		return 0, fmt.Errorf("unrecognized mnemonic %q at line %d", in.op, pc)
	}
}

func (m *rvMachine) jumpTo(label string) (int, error) {
	target, ok := m.labelAt[label]
	if !ok {
		return 0, fmt.Errorf("jump to undefined label %q", label)
	}
	return target, nil
}

func boolReg(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
