package backend

import "strings"

// peephole applies three local rewrites to a fixed point: (a) a store
// immediately undoing the load that produced its value, (b) a `li r,0`
// feeding straight into a zero-test branch collapses to testing the zero
// register instead, (c) a no-op self-move. None of these firing is
// required for correctness; they only shrink the emitted text.
func peephole(lines []string) []string {
	for {
		next, changed := peepholePass(lines)
		lines = next
		if !changed {
			return lines
		}
	}
}

func peepholePass(lines []string) ([]string, bool) {
	out := make([]string, 0, len(lines))
	changed := false

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if i+1 < len(lines) {
			// (a) lw r,m immediately followed by sw r,m with the same r
			// and m: the store just re-writes what the load just read.
			if reg, mem, ok := parseLoad(line); ok {
				if reg2, mem2, ok2 := parseStore(lines[i+1]); ok2 && reg == reg2 && mem == mem2 {
					i++
					changed = true
					continue
				}
			}

			// (b) li r,0 immediately consumed by a zero-test branch on r:
			// test the zero register directly instead of materializing 0.
			if reg, ok := parseLiZero(line); ok {
				if rewritten, ok2 := rewriteBranchReg(lines[i+1], reg, "zero"); ok2 {
					out = append(out, rewritten)
					i++
					changed = true
					continue
				}
			}
		}

		// (c) mv r,r is a no-op.
		if isSelfMove(line) {
			changed = true
			continue
		}

		out = append(out, line)
	}

	return out, changed
}

func trimmed(line string) string { return strings.TrimSpace(line) }

func parseLoad(line string) (reg, mem string, ok bool) {
	fields := strings.Fields(trimmed(line))
	if len(fields) == 3 && fields[0] == "lw" {
		return strings.TrimSuffix(fields[1], ","), fields[2], true
	}
	return "", "", false
}

func parseStore(line string) (reg, mem string, ok bool) {
	fields := strings.Fields(trimmed(line))
	if len(fields) == 3 && fields[0] == "sw" {
		return strings.TrimSuffix(fields[1], ","), fields[2], true
	}
	return "", "", false
}

func parseLiZero(line string) (reg string, ok bool) {
	fields := strings.Fields(trimmed(line))
	if len(fields) == 3 && fields[0] == "li" && fields[2] == "0" {
		return strings.TrimSuffix(fields[1], ","), true
	}
	return "", false
}

func rewriteBranchReg(line, reg, replacement string) (string, bool) {
	fields := strings.Fields(trimmed(line))
	if len(fields) == 3 && (fields[0] == "bnez" || fields[0] == "beqz") {
		if strings.TrimSuffix(fields[1], ",") == reg {
			return "\t" + fields[0] + " " + replacement + ", " + fields[2], true
		}
	}
	return line, false
}

func isSelfMove(line string) bool {
	fields := strings.Fields(trimmed(line))
	return len(fields) == 3 && fields[0] == "mv" && strings.TrimSuffix(fields[1], ",") == fields[2]
}
