package irgen

import (
	"rvcc/ast"
	"rvcc/ir"
	"rvcc/report"
)

// genExpr lowers expr, emitting whatever instructions are needed, and
// returns the operand holding its value: a constant, a resolved variable,
// or a fresh temporary.
func (g *Generator) genExpr(expr ast.Expr) ir.Operand {
	switch n := expr.(type) {
	case *ast.IntLit:
		return ir.Const(n.Value)

	case *ast.Name:
		return g.resolve(n.Ident)

	case *ast.Unary:
		return g.genUnary(n)

	case *ast.Binary:
		return g.genBinary(n)

	case *ast.Call:
		return g.genCall(n)

	default:
		report.RaiseICE("irgen: unreachable expression kind %T", n)
		return ir.Const(0)
	}
}

func (g *Generator) genUnary(n *ast.Unary) ir.Operand {
	operand := g.genExpr(n.Operand)
	switch n.Op {
	case ast.OpPos:
		return operand
	case ast.OpNeg:
		t := g.newTemp()
		g.emit(ir.Unary(ir.NEG, t, operand))
		return t
	case ast.OpNot:
		t := g.newTemp()
		g.emit(ir.Unary(ir.NOT, t, operand))
		return t
	default:
		report.RaiseICE("irgen: unreachable unary operator %v", n.Op)
		return ir.Const(0)
	}
}

var binaryOpcodes = map[ast.BinOp]ir.Op{
	ast.OpAdd: ir.ADD, ast.OpSub: ir.SUB, ast.OpMul: ir.MUL,
	ast.OpDiv: ir.DIV, ast.OpMod: ir.MOD,
	ast.OpLt: ir.LT, ast.OpGt: ir.GT, ast.OpLe: ir.LE, ast.OpGe: ir.GE,
	ast.OpEq: ir.EQ, ast.OpNe: ir.NE,
}

func (g *Generator) genBinary(n *ast.Binary) ir.Operand {
	switch n.Op {
	case ast.OpLAnd:
		return g.genShortCircuit(n, false)
	case ast.OpLOr:
		return g.genShortCircuit(n, true)
	}

	op, ok := binaryOpcodes[n.Op]
	if !ok {
		report.RaiseICE("irgen: unreachable binary operator %v", n.Op)
	}
	lhs := g.genExpr(n.Lhs)
	rhs := g.genExpr(n.Rhs)
	t := g.newTemp()
	g.emit(ir.Binary(op, t, lhs, rhs))
	return t
}

// genShortCircuit lowers `&&` (isOr == false) and `||` (isOr == true),
// pre-expanding into branches rather than carrying a high-level AND/OR
// opcode through to the backend.
func (g *Generator) genShortCircuit(n *ast.Binary, isOr bool) ir.Operand {
	result := g.newTemp()
	shortLabel := g.newLabel()
	endLabel := g.newLabel()

	lhs := g.genExpr(n.Lhs)
	if isOr {
		// `a || b`: short-circuit to true as soon as a is nonzero.
		g.emit(ir.IfGoto(lhs, shortLabel))
	} else {
		// `a && b`: short-circuit to false as soon as a is zero.
		notLhs := g.newTemp()
		g.emit(ir.Unary(ir.NOT, notLhs, lhs))
		g.emit(ir.IfGoto(notLhs, shortLabel))
	}

	rhs := g.genExpr(n.Rhs)
	g.emit(ir.Binary(ir.NE, result, rhs, ir.Const(0)))
	g.emit(ir.Goto(endLabel))

	g.emit(ir.LabelInstr(shortLabel))
	if isOr {
		g.emit(ir.Assign(result, ir.Const(1)))
	} else {
		g.emit(ir.Assign(result, ir.Const(0)))
	}

	g.emit(ir.LabelInstr(endLabel))
	return result
}

// genCall evaluates arguments left-to-right, then emits the PARAM run as
// one contiguous block just before the CALL. Emitting each PARAM as its
// argument finishes would let a nested call consume the outer call's
// already-queued PARAMs.
func (g *Generator) genCall(n *ast.Call) ir.Operand {
	vals := make([]ir.Operand, len(n.Args))
	for i, arg := range n.Args {
		vals[i] = g.genExpr(arg)
	}
	for _, v := range vals {
		g.emit(ir.ParamInstr(v))
	}

	retVoid := g.voidFuncs[n.Callee]
	if retVoid {
		g.emit(ir.CallInstr(nil, n.Callee, len(n.Args)))
		return ir.Const(0)
	}

	dst := g.newTemp()
	g.emit(ir.CallInstr(&dst, n.Callee, len(n.Args)))
	return dst
}
