package sem

import "rvcc/ast"

// terminates implements the structural definite-return check: a return
// terminates, a block terminates iff its last statement terminates, an if
// terminates iff both arms terminate. No dataflow is needed since the
// dialect's control constructs make this a pure syntactic property. A
// `while` never counts as terminating: its body may run zero times.
func terminates(s ast.Stmt) bool {
	switch n := s.(type) {
	case *ast.Return:
		return true
	case *ast.Block:
		if len(n.Stmts) == 0 {
			return false
		}
		return terminates(n.Stmts[len(n.Stmts)-1])
	case *ast.If:
		return n.Else != nil && terminates(n.Then) && terminates(n.Else)
	default:
		return false
	}
}
