package optimize

import "rvcc/ir"

// Fold performs constant folding: a binary or unary instruction whose
// operands are all constants is replaced by an ASSIGN of the evaluated
// result. Division and modulo by a literal zero are left untouched so the
// emitted code keeps the hardware's division-by-zero behavior.
func Fold(fn *ir.Function) bool {
	changed := false
	for i, in := range fn.Instrs {
		switch {
		case ir.BinaryOps[in.Op] && in.Src1.Kind == ir.OpConst && in.Src2.Kind == ir.OpConst:
			if (in.Op == ir.DIV || in.Op == ir.MOD) && in.Src2.Value == 0 {
				continue
			}
			v, ok := evalBinary(in.Op, in.Src1.Value, in.Src2.Value)
			if !ok {
				continue
			}
			fn.Instrs[i] = ir.Assign(in.Dst, ir.Const(v))
			changed = true

		case ir.UnaryOps[in.Op] && in.Src1.Kind == ir.OpConst:
			fn.Instrs[i] = ir.Assign(in.Dst, ir.Const(evalUnary(in.Op, in.Src1.Value)))
			changed = true
		}
	}
	return changed
}

func evalBinary(op ir.Op, a, b int32) (int32, bool) {
	switch op {
	case ir.ADD:
		return a + b, true
	case ir.SUB:
		return a - b, true
	case ir.MUL:
		return a * b, true
	case ir.DIV:
		return a / b, true
	case ir.MOD:
		return a % b, true
	case ir.LT:
		return boolInt(a < b), true
	case ir.GT:
		return boolInt(a > b), true
	case ir.LE:
		return boolInt(a <= b), true
	case ir.GE:
		return boolInt(a >= b), true
	case ir.EQ:
		return boolInt(a == b), true
	case ir.NE:
		return boolInt(a != b), true
	case ir.AND:
		return boolInt(a != 0 && b != 0), true
	case ir.OR:
		return boolInt(a != 0 || b != 0), true
	default:
		return 0, false
	}
}

func evalUnary(op ir.Op, a int32) int32 {
	switch op {
	case ir.NEG:
		return -a
	case ir.NOT:
		return boolInt(a == 0)
	default:
		return a
	}
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
