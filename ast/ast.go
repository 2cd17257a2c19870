// Package ast defines the typed tree of declarations, statements, and
// expressions produced by the parser. Every node carries its source span;
// the tree is owned by a single root and children are never shared. The
// tree is read-only after parsing: semantic analysis and IR generation
// only read it.
package ast

import "rvcc/report"

// Node is implemented by every AST node.
type Node interface {
	Span() report.Span
}

// Base is embedded by every concrete node to provide its source span.
type Base struct {
	span report.Span
}

// NewBase constructs the embeddable position-holding base for a node.
func NewBase(span report.Span) Base { return Base{span: span} }

// NewBaseOver constructs a base spanning from start's beginning to end's end.
func NewBaseOver(start, end Node) Base {
	return Base{span: report.SpanOver(start.Span(), end.Span())}
}

func (b Base) Span() report.Span { return b.span }

// Program is the root of the tree: one compilation unit, an ordered list
// of function definitions.
type Program struct {
	Funcs []*FuncDecl
}

// RetKind is the return-type kind of a function: the dialect has exactly
// two, `int` and `void`.
type RetKind int

const (
	RetInt RetKind = iota
	RetVoid
)

func (k RetKind) String() string {
	if k == RetVoid {
		return "void"
	}
	return "int"
}

// Param is one function parameter: the dialect requires every parameter to
// be typed `int`, so Param only needs to carry its name.
type Param struct {
	Name string
	Pos  report.Position
}

// FuncDecl is a top-level function definition.
type FuncDecl struct {
	Base
	RetKind RetKind
	Name    string
	NamePos report.Position
	Params  []Param
	Body    *Block
}
