package parser

import (
	"rvcc/ast"
	"rvcc/report"
	"rvcc/token"
)

// parseBlock parses `"{" { stmt } "}"`. Every block introduces a new scope
// at the semantic-analysis stage; the parser only builds the tree.
func (p *Parser) parseBlock() *ast.Block {
	start, ok := p.expect(token.LBRACE)
	if !ok {
		p.synchronize()
		return nil
	}

	var stmts []ast.Stmt
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		if s := p.parseStmt(); s != nil {
			stmts = append(stmts, s)
		}
	}

	end, ok := p.expect(token.RBRACE)
	if !ok {
		// Missing closing brace: still return what was parsed so callers
		// upstream (eg. parseFuncDecl) have a span to work with, but the
		// missing-token diagnostic was already recorded by expect.
		end = start
	}

	return &ast.Block{
		Base:  ast.NewBase(report.Span{Start: start.Pos, End: end.Pos}),
		Stmts: stmts,
	}
}
