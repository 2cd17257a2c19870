package sem

import (
	"rvcc/ast"
	"rvcc/report"
)

// Analyzer performs the two-pass semantic analysis over a parsed
// ast.Program: the checked-AST output of this pass is the very same tree
// (the dialect is simple enough that no type-decoration step is needed),
// paired with a success flag that is the AND of every check.
type Analyzer struct {
	rep       *report.Reporter
	top       *Scope
	funcs     map[string]*Symbol
	loopDepth int
}

// New creates an Analyzer reporting diagnostics to rep.
func New(rep *report.Reporter) *Analyzer {
	return &Analyzer{rep: rep, top: NewScope(nil), funcs: map[string]*Symbol{}}
}

// Analyze runs both passes over prog. It returns whether analysis
// succeeded; on success the caller may proceed to IR generation.  prog may
// be non-nil even on failure (partial results are not meaningful downstream,
// so callers should treat a false return as "do not generate IR").
func (a *Analyzer) Analyze(prog *ast.Program) bool {
	defer a.rep.CatchPhase()

	a.collectSignatures(prog)
	ok := !a.rep.AnyErrors()

	for _, fn := range prog.Funcs {
		if !a.checkFunc(fn) {
			ok = false
		}
	}

	return ok && !a.rep.AnyErrors()
}

// collectSignatures is pass 1: register every top-level function in the
// top scope and require a `main: () -> int`.
func (a *Analyzer) collectSignatures(prog *ast.Program) {
	for _, fn := range prog.Funcs {
		if _, exists := a.top.LookupLocal(fn.Name); exists {
			span := report.Span{Start: fn.NamePos, End: fn.NamePos}
			a.rep.Error(report.KindRedefinedFunc, &span, "function %q is already defined", fn.Name)
			continue
		}

		retType := TypeInt
		if fn.RetKind == ast.RetVoid {
			retType = TypeVoid
		}

		paramTypes := make([]Type, len(fn.Params))
		for i := range fn.Params {
			paramTypes[i] = TypeInt
		}

		sym := &Symbol{
			Name:       fn.Name,
			Kind:       KindFunction,
			Type:       retType,
			DefPos:     fn.NamePos,
			ParamTypes: paramTypes,
		}
		a.top.DefineLocal(sym)
		a.funcs[fn.Name] = sym
	}

	main, ok := a.funcs["main"]
	if !ok {
		a.rep.Error(report.KindUndefinedFunc, nil, "program must define 'int main()'")
		return
	}
	if main.Type != TypeInt || main.Arity() != 0 {
		span := report.Span{Start: main.DefPos, End: main.DefPos}
		a.rep.Error(report.KindInvalidRetType, &span, "'main' must have signature 'int main()'")
	}
}

// checkFunc is pass 2 for a single function body.
func (a *Analyzer) checkFunc(fn *ast.FuncDecl) bool {
	scope := NewScope(a.top)
	ok := true

	for _, p := range fn.Params {
		if _, exists := scope.LookupLocal(p.Name); exists {
			span := report.Span{Start: p.Pos, End: p.Pos}
			a.rep.Error(report.KindRedefinedVar, &span, "parameter %q is already defined", p.Name)
			ok = false
			continue
		}
		scope.DefineLocal(&Symbol{Name: p.Name, Kind: KindParameter, Type: TypeInt, DefPos: p.Pos})
	}

	retKind := TypeInt
	if fn.RetKind == ast.RetVoid {
		retKind = TypeVoid
	}

	if !a.checkBlock(fn.Body, scope, retKind) {
		ok = false
	}

	if retKind == TypeInt && !terminates(fn.Body) {
		span := report.Span{Start: fn.NamePos, End: fn.NamePos}
		a.rep.Error(report.KindMissingReturn, &span,
			"function %q does not return a value on every path", fn.Name)
		ok = false
	}

	return ok
}
