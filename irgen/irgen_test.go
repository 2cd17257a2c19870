package irgen

import (
	"strings"
	"testing"

	"rvcc/ast"
	"rvcc/ir"
	"rvcc/lexer"
	"rvcc/parser"
	"rvcc/report"
	"rvcc/sem"
)

func checkedProgram(t *testing.T, src string) *ast.Program {
	t.Helper()
	rep := report.NewReporter(report.LogLevelSilent)
	prog := parser.New(lexer.New(strings.NewReader(src)), rep).Parse()
	if prog == nil || rep.AnyErrors() {
		t.Fatalf("parse failed for %q: %v", src, rep.Diagnostics())
	}
	if ok := sem.New(rep).Analyze(prog); !ok {
		t.Fatalf("semantic analysis failed for %q: %v", src, rep.Diagnostics())
	}
	return prog
}

func funcByName(prog *ir.Program, name string) *ir.Function {
	for _, fn := range prog.Functions {
		if fn.Name == name {
			return fn
		}
	}
	return nil
}

func opsOf(fn *ir.Function) []ir.Op {
	var ops []ir.Op
	for _, in := range fn.Instrs {
		ops = append(ops, in.Op)
	}
	return ops
}

func TestGenerateLiteralReturn(t *testing.T) {
	prog := Generate(checkedProgram(t, "int main() { return 42; }"))
	main := funcByName(prog, "main")
	if main == nil {
		t.Fatal("missing main")
	}
	if main.Instrs[0].Op != ir.FUNCTION_BEGIN || main.Instrs[len(main.Instrs)-1].Op != ir.FUNCTION_END {
		t.Fatal("function must be bracketed by FUNCTION_BEGIN/FUNCTION_END")
	}
	found := false
	for _, in := range main.Instrs {
		if in.Op == ir.RETURN && in.HasReturnValue() && in.Src1.Kind == ir.OpConst && in.Src1.Value == 42 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected RETURN 42, got:\n%s", main.Repr())
	}
}

func TestGenerateArithmeticPrecedence(t *testing.T) {
	prog := Generate(checkedProgram(t, "int main() { return 1+2*3-4/2; }"))
	main := funcByName(prog, "main")
	var hasMul, hasDiv, hasAdd, hasSub bool
	for _, in := range main.Instrs {
		switch in.Op {
		case ir.MUL:
			hasMul = true
		case ir.DIV:
			hasDiv = true
		case ir.ADD:
			hasAdd = true
		case ir.SUB:
			hasSub = true
		}
	}
	if !hasMul || !hasDiv || !hasAdd || !hasSub {
		t.Fatalf("expected ADD/SUB/MUL/DIV all present, got:\n%s", main.Repr())
	}
}

func TestGenerateVarDeclIsScopeQualified(t *testing.T) {
	prog := Generate(checkedProgram(t,
		"int main() { int x = 1; if (x) { int x = 2; return x; } return x; }"))
	main := funcByName(prog, "main")
	repr := main.Repr()
	if !strings.Contains(repr, "x_scope1") {
		t.Fatalf("expected outer x qualified as x_scope1, got:\n%s", repr)
	}
	if !strings.Contains(repr, "x_scope2") {
		t.Fatalf("expected inner (shadowing) x qualified as x_scope2, got:\n%s", repr)
	}
}

func TestGenerateCallEmitsParamsThenCall(t *testing.T) {
	prog := Generate(checkedProgram(t,
		"int add(int a,int b){ return a+b; } int main(){ return add(7,35); }"))
	main := funcByName(prog, "main")
	ops := opsOf(main)

	var paramCount int
	var callIdx, lastParamIdx int
	for i, op := range ops {
		if op == ir.PARAM {
			paramCount++
			lastParamIdx = i
		}
		if op == ir.CALL {
			callIdx = i
		}
	}
	if paramCount != 2 {
		t.Fatalf("expected 2 PARAM instructions, got %d", paramCount)
	}
	if callIdx <= lastParamIdx {
		t.Fatalf("CALL must follow its PARAMs, got ops %v", ops)
	}
	for _, in := range main.Instrs {
		if in.Op == ir.CALL && in.FuncName == "add" && in.Argc != 2 {
			t.Fatalf("expected CALL add,2, got argc=%d", in.Argc)
		}
	}
}

func TestGenerateShortCircuitAndAvoidsSecondOperandEval(t *testing.T) {
	prog := Generate(checkedProgram(t,
		"int side(int x){ return x; } int main(){ int a=0; if (a!=0 && side(1/a)) return 1; return 0; }"))
	main := funcByName(prog, "main")

	// The short-circuit lowering must branch around the call to `side`
	// before evaluating it: an IF_GOTO must precede the CALL in program
	// order, whatever its polarity.
	var ifGotoIdx, callIdx int = -1, -1
	for i, in := range main.Instrs {
		if in.Op == ir.IF_GOTO && ifGotoIdx == -1 {
			ifGotoIdx = i
		}
		if in.Op == ir.CALL && in.FuncName == "side" {
			callIdx = i
		}
	}
	if ifGotoIdx == -1 || callIdx == -1 || ifGotoIdx >= callIdx {
		t.Fatalf("expected a branch guarding the call to side, ops:\n%s", main.Repr())
	}
}

func TestGenerateWhileLoopHasBreakContinueTargets(t *testing.T) {
	prog := Generate(checkedProgram(t,
		"int main(){ int s=0; int i=0; while(i<10){ i=i+1; if(i==5) continue; if(i==8) break; s=s+i; } return s; }"))
	main := funcByName(prog, "main")

	var gotoCount int
	for _, in := range main.Instrs {
		if in.Op == ir.GOTO {
			gotoCount++
		}
	}
	// At least: break's GOTO, continue's GOTO, and the loop-back GOTO. The
	// two nested ifs have no else arm, so they add no GOTO of their own.
	if gotoCount < 3 {
		t.Fatalf("expected several GOTOs for break/continue/loop-back, got %d:\n%s", gotoCount, main.Repr())
	}
}

func TestGenerateVoidCallEmitsNoDestination(t *testing.T) {
	prog := Generate(checkedProgram(t,
		"void f(){ return; } int main(){ f(); return 0; }"))
	main := funcByName(prog, "main")
	for _, in := range main.Instrs {
		if in.Op == ir.CALL && in.FuncName == "f" && in.HasDst {
			t.Fatalf("void call must not bind a destination, got: %s", in.String())
		}
	}
}

func TestGenerateVoidFunctionGetsImplicitReturn(t *testing.T) {
	prog := Generate(checkedProgram(t, "void f(){ } int main(){ f(); return 0; }"))
	f := funcByName(prog, "f")
	last := f.Instrs[len(f.Instrs)-2] // before FUNCTION_END
	if last.Op != ir.RETURN {
		t.Fatalf("expected an implicit RETURN before FUNCTION_END, got %s", last.Op)
	}
}
