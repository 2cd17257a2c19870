package parser

import (
	"rvcc/ast"
	"rvcc/report"
	"rvcc/token"
)

// parseFuncDecl parses:
//
//	funcDef = ("int" | "void") ident "(" [param {"," param}] ")" block
//
// It returns nil (having reported an error and resynchronized) if the
// definition could not be parsed.
func (p *Parser) parseFuncDecl() *ast.FuncDecl {
	startPos := p.cur.Pos

	var retKind ast.RetKind
	switch {
	case p.at(token.INT):
		retKind = ast.RetInt
		p.advance()
	case p.at(token.VOID):
		retKind = ast.RetVoid
		p.advance()
	default:
		p.errorf(report.KindInvalidRetType, "expected function return type 'int' or 'void', found %s", p.cur.Kind)
		p.synchronize()
		return nil
	}

	name, ok := p.expect(token.IDENT)
	if !ok {
		p.synchronize()
		return nil
	}

	if _, ok := p.expect(token.LPAREN); !ok {
		p.synchronize()
		return nil
	}

	var params []ast.Param
	if !p.at(token.RPAREN) {
		for {
			if _, ok := p.expect(token.INT); !ok {
				p.synchronize()
				return nil
			}
			pname, ok := p.expect(token.IDENT)
			if !ok {
				p.synchronize()
				return nil
			}
			params = append(params, ast.Param{Name: pname.Lexeme, Pos: pname.Pos})

			if p.at(token.COMMA) {
				p.advance()
				continue
			}
			break
		}
	}

	if _, ok := p.expect(token.RPAREN); !ok {
		p.synchronize()
		return nil
	}

	body := p.parseBlock()
	if body == nil {
		return nil
	}

	endPos := body.Span().End
	return &ast.FuncDecl{
		Base:    ast.NewBase(report.Span{Start: startPos, End: endPos}),
		RetKind: retKind,
		Name:    name.Lexeme,
		NamePos: name.Pos,
		Params:  params,
		Body:    body,
	}
}
