package sem

import (
	"strings"
	"testing"

	"rvcc/ast"
	"rvcc/lexer"
	"rvcc/parser"
	"rvcc/report"
)

func analyze(t *testing.T, src string) (*ast.Program, *report.Reporter, bool) {
	t.Helper()
	rep := report.NewReporter(report.LogLevelSilent)
	prog := parser.New(lexer.New(strings.NewReader(src)), rep).Parse()
	if prog == nil {
		t.Fatalf("parse failed: %v", rep.Diagnostics())
	}
	ok := New(rep).Analyze(prog)
	return prog, rep, ok
}

func TestAnalyzeValidProgram(t *testing.T) {
	_, rep, ok := analyze(t, "int add(int a, int b) { return a+b; } int main() { return add(7,35); }")
	if !ok || rep.AnyErrors() {
		t.Fatalf("expected success, got errors: %v", rep.Diagnostics())
	}
}

func TestAnalyzeMissingMainFails(t *testing.T) {
	_, rep, ok := analyze(t, "int f() { return 1; }")
	if ok || !rep.AnyErrors() {
		t.Fatal("expected failure for missing main")
	}
}

func TestAnalyzeBreakOutsideLoopFails(t *testing.T) {
	_, rep, ok := analyze(t, "int main() { break; return 0; }")
	if ok || !rep.AnyErrors() {
		t.Fatal("expected failure for break outside loop")
	}
}

func TestAnalyzeArityMismatchFails(t *testing.T) {
	_, rep, ok := analyze(t, "int f(int a) { return a; } int main() { return f(1,2); }")
	if ok || !rep.AnyErrors() {
		t.Fatal("expected failure for arity mismatch")
	}
}

func TestAnalyzeMissingReturnFails(t *testing.T) {
	_, rep, ok := analyze(t, "int main() { int x = 1; if (x) return 1; }")
	if ok || !rep.AnyErrors() {
		t.Fatal("expected failure for missing return on some path")
	}
}

func TestAnalyzeRedefinitionInSameScopeFails(t *testing.T) {
	_, rep, ok := analyze(t, "int main() { int x = 1; int x = 2; return x; }")
	if ok || !rep.AnyErrors() {
		t.Fatal("expected failure for redefinition")
	}
}

func TestAnalyzeShadowingAcrossScopesOK(t *testing.T) {
	_, rep, ok := analyze(t, "int main() { int x = 1; if (x) { int x = 2; return x; } return x; }")
	if !ok || rep.AnyErrors() {
		t.Fatalf("expected success, got: %v", rep.Diagnostics())
	}
}

func TestAnalyzeReturnValueInVoidFails(t *testing.T) {
	_, rep, ok := analyze(t, "void f() { return 1; } int main() { f(); return 0; }")
	if ok || !rep.AnyErrors() {
		t.Fatal("expected failure for returning a value from void function")
	}
}

func TestAnalyzeVoidCallAsValueFails(t *testing.T) {
	_, rep, ok := analyze(t, "void f() { return; } int main() { return f(); }")
	if ok || !rep.AnyErrors() {
		t.Fatal("expected failure for using a void call as a value")
	}
}
