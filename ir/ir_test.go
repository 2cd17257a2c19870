package ir

import (
	"strings"
	"testing"
)

func TestOperandEquality(t *testing.T) {
	if !Const(5).Equal(Const(5)) {
		t.Fatal("equal constants must compare equal")
	}
	if Const(5).Equal(Const(6)) {
		t.Fatal("distinct constants must not compare equal")
	}
	if Var("x").Equal(Temp("x")) {
		t.Fatal("a Var and a Temp sharing a name must not compare equal")
	}
	if !Var("x").Equal(Var("x")) {
		t.Fatal("equal vars must compare equal")
	}
}

func TestOperandIsValue(t *testing.T) {
	if !Const(0).IsValue() || !Var("x").IsValue() || !Temp("t0").IsValue() {
		t.Fatal("Const, Var, and Temp must be values")
	}
	if Label("L0").IsValue() {
		t.Fatal("Label must not be a value")
	}
}

func TestBinaryInstrDefsAndUses(t *testing.T) {
	in := Binary(ADD, Temp("t0"), Var("a"), Const(1))
	if got := in.Defs(); len(got) != 1 || got[0] != "t0" {
		t.Fatalf("Defs() = %v, want [t0]", got)
	}
	uses := in.Uses()
	if len(uses) != 1 || uses[0] != "a" {
		t.Fatalf("Uses() = %v, want [a] (constant operand must not appear)", uses)
	}
}

func TestAssignDefsAndUses(t *testing.T) {
	in := Assign(Var("x"), Var("y"))
	if got := in.Defs(); len(got) != 1 || got[0] != "x" {
		t.Fatalf("Defs() = %v, want [x]", got)
	}
	if got := in.Uses(); len(got) != 1 || got[0] != "y" {
		t.Fatalf("Uses() = %v, want [y]", got)
	}
}

func TestIfGotoUsesConditionOnly(t *testing.T) {
	in := IfGoto(Var("c"), "L1")
	if got := in.Defs(); got != nil {
		t.Fatalf("IF_GOTO must not define anything, got %v", got)
	}
	if got := in.Uses(); len(got) != 1 || got[0] != "c" {
		t.Fatalf("Uses() = %v, want [c]", got)
	}
}

func TestReturnWithAndWithoutValue(t *testing.T) {
	v := Var("x")
	withVal := ReturnInstr(&v)
	if !withVal.HasReturnValue() {
		t.Fatal("expected HasReturnValue() true")
	}
	if got := withVal.Uses(); len(got) != 1 || got[0] != "x" {
		t.Fatalf("Uses() = %v, want [x]", got)
	}

	noVal := ReturnInstr(nil)
	if noVal.HasReturnValue() {
		t.Fatal("expected HasReturnValue() false")
	}
	if got := noVal.Uses(); got != nil {
		t.Fatalf("Uses() = %v, want nil", got)
	}
}

func TestCallInstrDefsOptional(t *testing.T) {
	dst := Temp("t0")
	withDst := CallInstr(&dst, "f", 2)
	if got := withDst.Defs(); len(got) != 1 || got[0] != "t0" {
		t.Fatalf("Defs() = %v, want [t0]", got)
	}

	noDst := CallInstr(nil, "f", 0)
	if got := noDst.Defs(); got != nil {
		t.Fatalf("Defs() = %v, want nil", got)
	}
}

func TestIsTerminatorAndSideEffect(t *testing.T) {
	if !Goto("L0").IsTerminator() {
		t.Fatal("GOTO must be a terminator")
	}
	if Binary(ADD, Temp("t0"), Const(1), Const(2)).IsTerminator() {
		t.Fatal("ADD must not be a terminator")
	}
	if !ReturnInstr(nil).HasSideEffect() {
		t.Fatal("RETURN must have a side effect")
	}
	if Assign(Var("x"), Const(0)).HasSideEffect() {
		t.Fatal("ASSIGN alone must not be treated as having a side effect")
	}
}

func TestFunctionRepr(t *testing.T) {
	fn := &Function{
		Name:   "main",
		Params: nil,
		Instrs: []Instr{
			FuncBegin("main", false, nil),
			Binary(ADD, Temp("t0"), Const(1), Const(2)),
			LabelInstr("L0"),
			Goto("L0"),
			FuncEnd("main"),
		},
	}
	repr := fn.Repr()
	if !strings.Contains(repr, "t0 = ADD 1, 2") {
		t.Fatalf("Repr() missing ADD instruction:\n%s", repr)
	}
	if !strings.Contains(repr, "LABEL L0") {
		t.Fatalf("Repr() missing label:\n%s", repr)
	}
}

func TestProgramWalkVisitsEveryInstruction(t *testing.T) {
	prog := &Program{Functions: []*Function{
		{Name: "f", Instrs: []Instr{FuncBegin("f", false, nil), ReturnInstr(nil), FuncEnd("f")}},
		{Name: "g", Instrs: []Instr{FuncBegin("g", false, nil), ReturnInstr(nil), FuncEnd("g")}},
	}}

	count := 0
	prog.Walk(func(fn *Function, idx int, in Instr) { count++ })
	if count != 6 {
		t.Fatalf("Walk visited %d instructions, want 6", count)
	}
}
