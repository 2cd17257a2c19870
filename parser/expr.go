package parser

import (
	"strconv"

	"rvcc/ast"
	"rvcc/report"
	"rvcc/token"
)

// parseExpr parses the full expression grammar, from lowest to highest
// precedence: lor > land > rel (flat) > add > mul > unary > primary.
// Every level returns nil (without reporting twice) on a failure already
// reported by a deeper call.
func (p *Parser) parseExpr() ast.Expr { return p.parseLOr() }

func (p *Parser) parseLOr() ast.Expr {
	lhs := p.parseLAnd()
	if lhs == nil {
		return nil
	}
	for p.at(token.OR) {
		p.advance()
		rhs := p.parseLAnd()
		if rhs == nil {
			return nil
		}
		lhs = &ast.Binary{Base: ast.NewBaseOver(lhs, rhs), Op: ast.OpLOr, Lhs: lhs, Rhs: rhs}
	}
	return lhs
}

func (p *Parser) parseLAnd() ast.Expr {
	lhs := p.parseRel()
	if lhs == nil {
		return nil
	}
	for p.at(token.AND) {
		p.advance()
		rhs := p.parseRel()
		if rhs == nil {
			return nil
		}
		lhs = &ast.Binary{Base: ast.NewBaseOver(lhs, rhs), Op: ast.OpLAnd, Lhs: lhs, Rhs: rhs}
	}
	return lhs
}

var relOps = map[token.Kind]ast.BinOp{
	token.LT: ast.OpLt, token.GT: ast.OpGt, token.LE: ast.OpLe,
	token.GE: ast.OpGe, token.EQ: ast.OpEq, token.NE: ast.OpNe,
}

// parseRel parses the flat, left-associative relational/equality level:
// `a < b <= c` chains left-to-right rather than nesting comparisons.
func (p *Parser) parseRel() ast.Expr {
	lhs := p.parseAdd()
	if lhs == nil {
		return nil
	}
	for {
		op, ok := relOps[p.cur.Kind]
		if !ok {
			return lhs
		}
		p.advance()
		rhs := p.parseAdd()
		if rhs == nil {
			return nil
		}
		lhs = &ast.Binary{Base: ast.NewBaseOver(lhs, rhs), Op: op, Lhs: lhs, Rhs: rhs}
	}
}

func (p *Parser) parseAdd() ast.Expr {
	lhs := p.parseMul()
	if lhs == nil {
		return nil
	}
	for p.atAny(token.PLUS, token.MINUS) {
		op := ast.OpAdd
		if p.cur.Kind == token.MINUS {
			op = ast.OpSub
		}
		p.advance()
		rhs := p.parseMul()
		if rhs == nil {
			return nil
		}
		lhs = &ast.Binary{Base: ast.NewBaseOver(lhs, rhs), Op: op, Lhs: lhs, Rhs: rhs}
	}
	return lhs
}

var mulOps = map[token.Kind]ast.BinOp{
	token.STAR: ast.OpMul, token.SLASH: ast.OpDiv, token.PERCENT: ast.OpMod,
}

func (p *Parser) parseMul() ast.Expr {
	lhs := p.parseUnary()
	if lhs == nil {
		return nil
	}
	for {
		op, ok := mulOps[p.cur.Kind]
		if !ok {
			return lhs
		}
		p.advance()
		rhs := p.parseUnary()
		if rhs == nil {
			return nil
		}
		lhs = &ast.Binary{Base: ast.NewBaseOver(lhs, rhs), Op: op, Lhs: lhs, Rhs: rhs}
	}
}

var unaryOps = map[token.Kind]ast.UnOp{
	token.PLUS: ast.OpPos, token.MINUS: ast.OpNeg, token.NOT: ast.OpNot,
}

// parseUnary is right-recursive: `--x` and `!!x` both parse, mirroring the
// grammar's `unary = ["+"|"-"|"!"] unary | primary`.
func (p *Parser) parseUnary() ast.Expr {
	if op, ok := unaryOps[p.cur.Kind]; ok {
		start := p.cur.Pos
		p.advance()
		operand := p.parseUnary()
		if operand == nil {
			return nil
		}
		return &ast.Unary{
			Base:    ast.NewBase(report.Span{Start: start, End: operand.Span().End}),
			Op:      op,
			Operand: operand,
		}
	}
	return p.parsePrimary()
}

// parsePrimary parses `intConst | ident ["(" [expr {"," expr}] ")"] | "(" expr ")"`.
func (p *Parser) parsePrimary() ast.Expr {
	switch {
	case p.at(token.INTLIT):
		tok := p.cur
		p.advance()
		v, err := strconv.ParseInt(tok.Lexeme, 10, 64)
		if err != nil || v > 0xFFFFFFFF {
			p.errorf(report.KindTypeMismatch, "integer literal %q out of range", tok.Lexeme)
			return nil
		}
		return &ast.IntLit{Base: ast.NewBase(report.Span{Start: tok.Pos, End: tok.Pos}), Value: int32(uint32(v))}

	case p.at(token.IDENT):
		tok := p.cur
		p.advance()
		if p.at(token.LPAREN) {
			return p.parseCallArgs(tok)
		}
		return &ast.Name{Base: ast.NewBase(report.Span{Start: tok.Pos, End: tok.Pos}), Ident: tok.Lexeme}

	case p.at(token.LPAREN):
		p.advance()
		inner := p.parseExpr()
		if inner == nil {
			return nil
		}
		if _, ok := p.expect(token.RPAREN); !ok {
			return nil
		}
		return inner

	default:
		p.errorf(report.KindUnexpectedToken, "unexpected %s in expression", p.cur.Kind)
		return nil
	}
}

func (p *Parser) parseCallArgs(name token.Token) ast.Expr {
	p.advance() // "("

	var args []ast.Expr
	if !p.at(token.RPAREN) {
		for {
			arg := p.parseExpr()
			if arg == nil {
				return nil
			}
			args = append(args, arg)
			if p.at(token.COMMA) {
				p.advance()
				continue
			}
			break
		}
	}

	rparen, ok := p.expect(token.RPAREN)
	if !ok {
		return nil
	}

	return &ast.Call{
		Base:      ast.NewBase(report.Span{Start: name.Pos, End: rparen.Pos}),
		Callee:    name.Lexeme,
		CalleePos: name.Pos,
		Args:      args,
	}
}
