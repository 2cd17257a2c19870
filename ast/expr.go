package ast

import "rvcc/report"

// Expr is implemented by every expression node: integer literal, name
// reference, unary, binary, and call.
type Expr interface {
	Node
}

// BinOp is one of the thirteen binary operators the grammar supports:
// arithmetic, comparison, and short-circuit logical.
type BinOp int

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpLt
	OpGt
	OpLe
	OpGe
	OpEq
	OpNe
	OpLAnd
	OpLOr
)

func (op BinOp) String() string {
	return [...]string{"+", "-", "*", "/", "%", "<", ">", "<=", ">=", "==", "!=", "&&", "||"}[op]
}

// UnOp is one of the three unary operators the grammar supports.
type UnOp int

const (
	OpPos UnOp = iota
	OpNeg
	OpNot
)

func (op UnOp) String() string {
	return [...]string{"+", "-", "!"}[op]
}

// IntLit is an integer literal expression.
type IntLit struct {
	Base
	Value int32
}

// Name is a reference to a variable, parameter, or function by name.
type Name struct {
	Base
	Ident string
}

// Unary is a unary operator applied to an operand expression.
type Unary struct {
	Base
	Op      UnOp
	Operand Expr
}

// Binary is a binary operator applied to two operand expressions.
type Binary struct {
	Base
	Op       BinOp
	Lhs, Rhs Expr
}

// Call is a function call expression: a callee name applied to by-value
// int arguments.
type Call struct {
	Base
	Callee    string
	CalleePos report.Position
	Args      []Expr
}
