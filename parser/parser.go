// Package parser implements the recursive-descent, error-recovering
// token→AST parser. It consumes a token.Token stream from any source
// satisfying the tokenStream interface (normally a *lexer.Lexer) and
// produces an *ast.Program.
package parser

import (
	"rvcc/ast"
	"rvcc/lexer"
	"rvcc/report"
	"rvcc/token"
)

// tokenStream is the only contract the parser needs from a lexer: a
// method returning the next token. This indirection lets tests feed the
// parser a canned token slice without going through the real lexer.
type tokenStream interface {
	Next() token.Token
}

// Parser is a recursive-descent parser with one token of lookahead plus one
// extra slot of look-ahead-by-index, used to disambiguate `IDENT =` from an
// identifier-started expression statement.
type Parser struct {
	lex  tokenStream
	rep  *report.Reporter
	cur  token.Token
	peek token.Token

	recovering bool
}

// New creates a Parser reading tokens from lex and reporting diagnostics to
// rep.
func New(lex tokenStream, rep *report.Reporter) *Parser {
	p := &Parser{lex: lex, rep: rep}
	p.cur = p.lex.Next()
	p.peek = p.lex.Next()
	return p
}

// declStmtLeaders are the token kinds that begin a declaration or
// statement; error recovery resynchronizes to the next one of these (or a
// statement terminator).
var declStmtLeaders = map[token.Kind]bool{
	token.INT: true, token.VOID: true, token.IF: true, token.ELSE: true,
	token.WHILE: true, token.BREAK: true, token.CONTINUE: true,
	token.RETURN: true, token.LBRACE: true, token.RBRACE: true,
}

// Parse parses a full compilation unit. The returned Program is nil if any
// error was reported during parsing; a partial tree is never handed to
// later phases.
func (p *Parser) Parse() *ast.Program {
	var funcs []*ast.FuncDecl
	for p.cur.Kind != token.EOF {
		before := p.cur
		if fn := p.parseFuncDecl(); fn != nil {
			funcs = append(funcs, fn)
		}
		// Guarantee forward progress: a stray top-level '}' (or any other
		// token synchronize declines to consume because it also looks like
		// a valid leader) must not spin the loop forever.
		if p.cur == before && p.cur.Kind != token.EOF {
			p.advance()
		}
	}

	if src, ok := p.lex.(interface{ Errors() []lexer.Error }); ok {
		for _, e := range src.Errors() {
			pos := report.Span{Start: e.Pos, End: e.Pos}
			p.rep.Error(report.KindUnexpectedToken, &pos, "%s", e.Message)
		}
	}

	if p.rep.AnyErrors() {
		return nil
	}
	return &ast.Program{Funcs: funcs}
}

// -----------------------------------------------------------------------------
// token stream primitives

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.lex.Next()
}

func (p *Parser) at(kind token.Kind) bool { return p.cur.Kind == kind }

func (p *Parser) atAny(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.cur.Kind == k {
			return true
		}
	}
	return false
}

// expect consumes the current token if it matches kind, reporting a missing-
// token diagnostic and entering recovery otherwise. It returns the consumed
// token and whether the match succeeded.
func (p *Parser) expect(kind token.Kind) (token.Token, bool) {
	if p.at(kind) {
		tok := p.cur
		p.advance()
		return tok, true
	}

	p.reportUnexpected(kind)
	return token.Token{}, false
}

func (p *Parser) reportUnexpected(want token.Kind) {
	pos := report.Span{Start: p.cur.Pos, End: p.cur.Pos}
	p.rep.Error(report.KindMissingToken, &pos,
		"expected %s, found %s", want, p.cur.Kind)
}

func (p *Parser) errorf(kind report.Kind, format string, args ...interface{}) {
	pos := report.Span{Start: p.cur.Pos, End: p.cur.Pos}
	p.rep.Error(kind, &pos, format, args...)
}

// synchronize resynchronizes after a parse error by advancing until just
// after the next `;`, or to the next `}` (left unconsumed for the enclosing
// block) or declaration/statement leader.
func (p *Parser) synchronize() {
	for !p.at(token.EOF) {
		if p.at(token.SEMI) {
			p.advance()
			return
		}
		if p.at(token.RBRACE) {
			return
		}
		p.advance()
		if declStmtLeaders[p.cur.Kind] {
			return
		}
	}
}
