package sem

import (
	"rvcc/ast"
	"rvcc/report"
)

// checkBlock opens a fresh scope and checks each statement in order.
// retType is the enclosing function's declared return type, threaded
// through for `return` checks.
func (a *Analyzer) checkBlock(b *ast.Block, parent *Scope, retType Type) bool {
	scope := NewScope(parent)
	ok := true
	for _, s := range b.Stmts {
		if !a.checkStmt(s, scope, retType) {
			ok = false
		}
	}
	return ok
}

func (a *Analyzer) checkStmt(s ast.Stmt, scope *Scope, retType Type) bool {
	switch n := s.(type) {
	case *ast.Block:
		return a.checkBlock(n, scope, retType)

	case *ast.VarDecl:
		ok := a.checkExpr(n.Init, scope) != TypeVoid || a.reportVoidValue(n.Init, scope)
		if _, exists := scope.LookupLocal(n.Name); exists {
			span := report.Span{Start: n.NamePos, End: n.NamePos}
			a.rep.Error(report.KindRedefinedVar, &span, "variable %q is already defined in this scope", n.Name)
			ok = false
		}
		scope.DefineLocal(&Symbol{Name: n.Name, Kind: KindVariable, Type: TypeInt, DefPos: n.NamePos})
		return ok

	case *ast.Assign:
		sym, found := scope.Lookup(n.Name)
		ok := true
		if !found {
			span := report.Span{Start: n.NamePos, End: n.NamePos}
			a.rep.Error(report.KindUndefinedVar, &span, "undefined variable %q", n.Name)
			ok = false
		} else if sym.Kind == KindFunction {
			span := report.Span{Start: n.NamePos, End: n.NamePos}
			a.rep.Error(report.KindTypeMismatch, &span, "%q is a function, not a variable", n.Name)
			ok = false
		}
		if n.Rhs != nil {
			a.checkExpr(n.Rhs, scope)
		}
		return ok

	case *ast.ExprStmt:
		if n.Expr == nil {
			return true
		}
		a.checkExpr(n.Expr, scope)
		return true

	case *ast.If:
		ok := a.checkExpr(n.Cond, scope) != TypeVoid || a.reportVoidValue(n.Cond, scope)
		if !a.checkStmt(n.Then, scope, retType) {
			ok = false
		}
		if n.Else != nil && !a.checkStmt(n.Else, scope, retType) {
			ok = false
		}
		return ok

	case *ast.While:
		ok := a.checkExpr(n.Cond, scope) != TypeVoid || a.reportVoidValue(n.Cond, scope)
		a.loopDepth++
		if !a.checkStmt(n.Body, scope, retType) {
			ok = false
		}
		a.loopDepth--
		return ok

	case *ast.Break:
		return a.checkLoopKeyword(n.Span(), "break")

	case *ast.Continue:
		return a.checkLoopKeyword(n.Span(), "continue")

	case *ast.Return:
		return a.checkReturn(n, scope, retType)

	default:
		report.RaiseICE("sem: unreachable statement kind %T", n)
		return false
	}
}

func (a *Analyzer) checkLoopKeyword(span report.Span, word string) bool {
	if a.loopDepth == 0 {
		a.rep.Error(report.KindLoopKeyword, &span, "%q outside of a loop", word)
		return false
	}
	return true
}

func (a *Analyzer) checkReturn(n *ast.Return, scope *Scope, retType Type) bool {
	span := n.Span()
	if retType == TypeVoid {
		if n.Value != nil {
			a.rep.Error(report.KindReturnInVoid, &span, "void function must not return a value")
			a.checkExpr(n.Value, scope)
			return false
		}
		return true
	}

	if n.Value == nil {
		a.rep.Error(report.KindMissingReturn, &span, "non-void function must return a value")
		return false
	}
	t := a.checkExpr(n.Value, scope)
	if t == TypeVoid {
		a.rep.Error(report.KindTypeMismatch, &span, "cannot return a void value from a non-void function")
		return false
	}
	return true
}

// reportVoidValue reports that expr (already type-checked) was used where
// a value was required but yields void; it always returns true so callers
// can fold it into a `||` without masking the earlier check's own result.
func (a *Analyzer) reportVoidValue(expr ast.Expr, _ *Scope) bool {
	span := expr.Span()
	a.rep.Error(report.KindTypeMismatch, &span, "expression does not yield a value")
	return true
}
