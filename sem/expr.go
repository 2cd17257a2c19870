package sem

import (
	"rvcc/ast"
	"rvcc/report"
)

// checkExpr type-checks expr and returns its yielded type. It always
// returns a type (defaulting to TypeInt on error) so callers can keep
// checking and one run can accumulate several diagnostics.
func (a *Analyzer) checkExpr(expr ast.Expr, scope *Scope) Type {
	switch n := expr.(type) {
	case *ast.IntLit:
		return TypeInt

	case *ast.Name:
		sym, found := scope.Lookup(n.Ident)
		if !found {
			span := n.Span()
			a.rep.Error(report.KindUndefinedVar, &span, "undefined name %q", n.Ident)
			return TypeInt
		}
		if sym.Kind == KindFunction {
			span := n.Span()
			a.rep.Error(report.KindTypeMismatch, &span, "%q is a function; call it with ()", n.Ident)
			return TypeInt
		}
		return sym.Type

	case *ast.Unary:
		operand := a.checkExpr(n.Operand, scope)
		if operand == TypeVoid {
			span := n.Operand.Span()
			a.rep.Error(report.KindTypeMismatch, &span, "operand does not yield a value")
		}
		return TypeInt

	case *ast.Binary:
		return a.checkBinary(n, scope)

	case *ast.Call:
		return a.checkCall(n, scope)

	default:
		report.RaiseICE("sem: unreachable expression kind %T", n)
		return TypeInt
	}
}

func (a *Analyzer) checkBinary(n *ast.Binary, scope *Scope) Type {
	lt := a.checkExpr(n.Lhs, scope)
	rt := a.checkExpr(n.Rhs, scope)
	if lt == TypeVoid {
		span := n.Lhs.Span()
		a.rep.Error(report.KindTypeMismatch, &span, "left operand does not yield a value")
	}
	if rt == TypeVoid {
		span := n.Rhs.Span()
		a.rep.Error(report.KindTypeMismatch, &span, "right operand does not yield a value")
	}

	if n.Op == ast.OpDiv || n.Op == ast.OpMod {
		if lit, ok := n.Rhs.(*ast.IntLit); ok && lit.Value == 0 {
			span := n.Rhs.Span()
			a.rep.Error(report.KindDivideByZero, &span, "division by literal zero")
		}
	}

	return TypeInt
}

func (a *Analyzer) checkCall(n *ast.Call, scope *Scope) Type {
	sym, found := scope.Lookup(n.Callee)
	for _, arg := range n.Args {
		a.checkExpr(arg, scope)
	}

	if !found {
		span := report.Span{Start: n.CalleePos, End: n.CalleePos}
		a.rep.Error(report.KindUndefinedFunc, &span, "undefined function %q", n.Callee)
		return TypeInt
	}
	if sym.Kind != KindFunction {
		span := report.Span{Start: n.CalleePos, End: n.CalleePos}
		a.rep.Error(report.KindTypeMismatch, &span, "%q is not a function", n.Callee)
		return TypeInt
	}
	if len(n.Args) != sym.Arity() {
		span := n.Span()
		a.rep.Error(report.KindArgCountMismatch, &span,
			"function %q expects %d argument(s), got %d", n.Callee, sym.Arity(), len(n.Args))
	}
	return sym.Type
}
