package parser

import (
	"strings"
	"testing"

	"rvcc/ast"
	"rvcc/lexer"
	"rvcc/report"
)

func parse(t *testing.T, src string) (*ast.Program, *report.Reporter) {
	t.Helper()
	rep := report.NewReporter(report.LogLevelSilent)
	p := New(lexer.New(strings.NewReader(src)), rep)
	return p.Parse(), rep
}

func TestParseSimpleFunction(t *testing.T) {
	prog, rep := parse(t, "int main() { return 42; }")
	if rep.AnyErrors() {
		t.Fatalf("unexpected errors: %v", rep.Diagnostics())
	}
	if len(prog.Funcs) != 1 {
		t.Fatalf("expected 1 function, got %d", len(prog.Funcs))
	}
	fn := prog.Funcs[0]
	if fn.Name != "main" || fn.RetKind != ast.RetInt {
		t.Errorf("unexpected function header: %+v", fn)
	}
	if len(fn.Body.Stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(fn.Body.Stmts))
	}
	ret, ok := fn.Body.Stmts[0].(*ast.Return)
	if !ok {
		t.Fatalf("expected *ast.Return, got %T", fn.Body.Stmts[0])
	}
	lit, ok := ret.Value.(*ast.IntLit)
	if !ok || lit.Value != 42 {
		t.Errorf("expected literal 42, got %+v", ret.Value)
	}
}

func TestParsePrecedence(t *testing.T) {
	prog, rep := parse(t, "int main() { return 1+2*3-4/2; }")
	if rep.AnyErrors() {
		t.Fatalf("unexpected errors: %v", rep.Diagnostics())
	}
	ret := prog.Funcs[0].Body.Stmts[0].(*ast.Return)
	top, ok := ret.Value.(*ast.Binary)
	if !ok || top.Op != ast.OpSub {
		t.Fatalf("expected top-level '-', got %+v", ret.Value)
	}
}

func TestParseCallWithArgs(t *testing.T) {
	prog, rep := parse(t, "int add(int a, int b) { return a+b; } int main() { return add(7,35); }")
	if rep.AnyErrors() {
		t.Fatalf("unexpected errors: %v", rep.Diagnostics())
	}
	if len(prog.Funcs) != 2 {
		t.Fatalf("expected 2 functions, got %d", len(prog.Funcs))
	}
	add := prog.Funcs[0]
	if len(add.Params) != 2 || add.Params[0].Name != "a" || add.Params[1].Name != "b" {
		t.Errorf("unexpected params: %+v", add.Params)
	}
	main := prog.Funcs[1]
	ret := main.Body.Stmts[0].(*ast.Return)
	call, ok := ret.Value.(*ast.Call)
	if !ok || call.Callee != "add" || len(call.Args) != 2 {
		t.Fatalf("expected call to add with 2 args, got %+v", ret.Value)
	}
}

func TestParseIfWhileBreakContinue(t *testing.T) {
	src := `int main() {
		int s = 0;
		int i = 0;
		while (i < 10) {
			i = i + 1;
			if (i == 5) continue;
			if (i == 8) break;
			s = s + i;
		}
		return s;
	}`
	_, rep := parse(t, src)
	if rep.AnyErrors() {
		t.Fatalf("unexpected errors: %v", rep.Diagnostics())
	}
}

func TestParseMissingSemiReportsAndRecovers(t *testing.T) {
	prog, rep := parse(t, "int main() { int x = 1 return x; }")
	if !rep.AnyErrors() {
		t.Fatal("expected a missing-token error")
	}
	if prog != nil {
		t.Error("expected nil program when parse errors occurred")
	}
}

func TestParseMultipleErrorsAccumulate(t *testing.T) {
	_, rep := parse(t, "int main( { return ; } int f(int { return 1; }")
	diags := rep.Diagnostics()
	if len(diags) < 2 {
		t.Fatalf("expected multiple diagnostics, got %d: %v", len(diags), diags)
	}
}
