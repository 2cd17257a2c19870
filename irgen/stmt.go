package irgen

import (
	"rvcc/ast"
	"rvcc/ir"
	"rvcc/report"
)

func (g *Generator) genBlock(b *ast.Block) {
	g.pushScope()
	for _, s := range b.Stmts {
		g.genStmt(s)
	}
	g.popScope()
}

func (g *Generator) genStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.Block:
		g.genBlock(n)

	case *ast.VarDecl:
		val := g.genExpr(n.Init)
		qualified := g.define(n.Name)
		g.emit(ir.Assign(ir.Var(qualified), val))

	case *ast.Assign:
		val := g.genExpr(n.Rhs)
		target := g.resolve(n.Name)
		g.emit(ir.Assign(target, val))

	case *ast.ExprStmt:
		if n.Expr != nil {
			g.genExpr(n.Expr)
		}

	case *ast.If:
		g.genIf(n)

	case *ast.While:
		g.genWhile(n)

	case *ast.Break:
		g.emit(ir.Goto(g.currentLoop().breakLabel))

	case *ast.Continue:
		g.emit(ir.Goto(g.currentLoop().continueLabel))

	case *ast.Return:
		if n.Value != nil {
			v := g.genExpr(n.Value)
			g.emit(ir.ReturnInstr(&v))
		} else {
			g.emit(ir.ReturnInstr(nil))
		}

	default:
		report.RaiseICE("irgen: unreachable statement kind %T", n)
	}
}

func (g *Generator) genIf(n *ast.If) {
	cond := g.genExpr(n.Cond)
	notCond := g.newTemp()
	g.emit(ir.Unary(ir.NOT, notCond, cond))

	endLabel := g.newLabel()
	if n.Else == nil {
		g.emit(ir.IfGoto(notCond, endLabel))
		g.genStmt(n.Then)
		g.emit(ir.LabelInstr(endLabel))
		return
	}

	elseLabel := g.newLabel()
	g.emit(ir.IfGoto(notCond, elseLabel))
	g.genStmt(n.Then)
	g.emit(ir.Goto(endLabel))
	g.emit(ir.LabelInstr(elseLabel))
	g.genStmt(n.Else)
	g.emit(ir.LabelInstr(endLabel))
}

func (g *Generator) genWhile(n *ast.While) {
	condLabel := g.newLabel()
	bodyLabel := g.newLabel()
	endLabel := g.newLabel()

	g.emit(ir.LabelInstr(condLabel))
	cond := g.genExpr(n.Cond)
	notCond := g.newTemp()
	g.emit(ir.Unary(ir.NOT, notCond, cond))
	g.emit(ir.IfGoto(notCond, endLabel))

	g.emit(ir.LabelInstr(bodyLabel))
	g.pushLoop(endLabel, condLabel)
	g.genStmt(n.Body)
	g.popLoop()

	g.emit(ir.Goto(condLabel))
	g.emit(ir.LabelInstr(endLabel))
}
