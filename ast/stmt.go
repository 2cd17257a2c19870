package ast

import "rvcc/report"

// Stmt is implemented by every statement node: block, var-decl,
// assign, expr-stmt, if, while, break, continue, return.
type Stmt interface {
	Node
}

// VarDecl is a local variable declaration with a mandatory initializer
// (the dialect has no uninitialized declarations).
type VarDecl struct {
	Base
	Name    string
	NamePos report.Position
	Init    Expr
}

// Assign is an assignment statement, `name = expr;`.
type Assign struct {
	Base
	Name    string
	NamePos report.Position
	Rhs     Expr
}

// ExprStmt is an expression evaluated for its side effect (a call), or an
// empty statement (`;`) when Expr is nil.
type ExprStmt struct {
	Base
	Expr Expr
}

// If is an if/else statement; Else is nil when there is no else clause.
type If struct {
	Base
	Cond Expr
	Then Stmt
	Else Stmt
}

// While is a while loop.
type While struct {
	Base
	Cond Expr
	Body Stmt
}

// Break is a `break;` statement.
type Break struct {
	Base
}

// Continue is a `continue;` statement.
type Continue struct {
	Base
}

// Return is a `return [expr];` statement; Value is nil for a bare return.
type Return struct {
	Base
	Value Expr
}
