package ast

import (
	"testing"

	"rvcc/report"
)

func TestSpanOverJoinsChildSpans(t *testing.T) {
	lhs := &IntLit{Base: NewBase(report.Span{Start: report.Position{Line: 1, Col: 1}, End: report.Position{Line: 1, Col: 1}})}
	rhs := &IntLit{Base: NewBase(report.Span{Start: report.Position{Line: 1, Col: 5}, End: report.Position{Line: 1, Col: 5}})}

	bin := &Binary{Base: NewBaseOver(lhs, rhs), Op: OpAdd, Lhs: lhs, Rhs: rhs}

	if bin.Span().Start.Col != 1 || bin.Span().End.Col != 5 {
		t.Errorf("unexpected span: %+v", bin.Span())
	}
}

func TestBlockSatisfiesStmt(t *testing.T) {
	var s Stmt = &Block{}
	if _, ok := s.(*Block); !ok {
		t.Fatal("Block does not satisfy Stmt")
	}
}
