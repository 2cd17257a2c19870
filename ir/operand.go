// Package ir defines the compiler's three-address intermediate
// representation: operands (constant, variable, temporary, label), the
// closed instruction opcode set, and the ordered instruction list that
// makes up a function/program. It is built by package irgen and mutated
// in place by package optimize; package backend treats it as read-only
// input.
package ir

import "fmt"

// OperandKind distinguishes the four kinds of IR operand.
type OperandKind int

const (
	OpConst OperandKind = iota
	OpVar
	OpTemp
	OpLabel
)

// Operand is a value-type IR operand, identified by (Kind, Name) for
// Var/Temp/Label or by (Kind, Value) for Const.
type Operand struct {
	Kind  OperandKind
	Name  string // Var, Temp ("t<k>"), Label ("L<k>")
	Value int32  // Const
}

// Const builds a constant operand.
func Const(v int32) Operand { return Operand{Kind: OpConst, Value: v} }

// Var builds a named-variable operand (possibly scope-qualified).
func Var(name string) Operand { return Operand{Kind: OpVar, Name: name} }

// Temp builds a fresh-temporary operand.
func Temp(name string) Operand { return Operand{Kind: OpTemp, Name: name} }

// Label builds a label operand.
func Label(name string) Operand { return Operand{Kind: OpLabel, Name: name} }

// IsValue reports whether the operand denotes a runtime value (Const, Var,
// or Temp) as opposed to a jump target (Label).
func (o Operand) IsValue() bool { return o.Kind != OpLabel }

func (o Operand) String() string {
	switch o.Kind {
	case OpConst:
		return fmt.Sprintf("%d", o.Value)
	case OpVar, OpTemp, OpLabel:
		return o.Name
	default:
		return "?"
	}
}

// Equal reports whether two operands have the same identity.
func (o Operand) Equal(other Operand) bool {
	if o.Kind != other.Kind {
		return false
	}
	if o.Kind == OpConst {
		return o.Value == other.Value
	}
	return o.Name == other.Name
}
