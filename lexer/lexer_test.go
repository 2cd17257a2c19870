package lexer

import (
	"strings"
	"testing"

	"rvcc/token"
)

func tokenKinds(src string) []token.Kind {
	l := New(strings.NewReader(src))
	var kinds []token.Kind
	for {
		tok := l.Next()
		kinds = append(kinds, tok.Kind)
		if tok.Kind == token.EOF {
			return kinds
		}
	}
}

func TestLexBasicProgram(t *testing.T) {
	src := "int main() { return 1+2*3; }"
	got := tokenKinds(src)
	want := []token.Kind{
		token.INT, token.IDENT, token.LPAREN, token.RPAREN, token.LBRACE,
		token.RETURN, token.INTLIT, token.PLUS, token.INTLIT, token.STAR,
		token.INTLIT, token.SEMI, token.RBRACE, token.EOF,
	}
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLexTwoCharOperators(t *testing.T) {
	got := tokenKinds("a<=b && c!=d || e>=f")
	want := []token.Kind{
		token.IDENT, token.LE, token.IDENT, token.AND, token.IDENT, token.NE,
		token.IDENT, token.OR, token.IDENT, token.GE, token.IDENT, token.EOF,
	}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLexCommentsAreSkipped(t *testing.T) {
	src := "// line comment\nint /* block\ncomment */ x;"
	got := tokenKinds(src)
	want := []token.Kind{token.INT, token.IDENT, token.SEMI, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
}

func TestLexPositions(t *testing.T) {
	l := New(strings.NewReader("int\n  x"))
	first := l.Next()
	if first.Pos.Line != 1 || first.Pos.Col != 1 {
		t.Errorf("got pos %v", first.Pos)
	}
	second := l.Next()
	if second.Pos.Line != 2 || second.Pos.Col != 3 {
		t.Errorf("got pos %v", second.Pos)
	}
}

func TestLexUnknownCharacterRecorded(t *testing.T) {
	l := New(strings.NewReader("x @ y"))
	for {
		tok := l.Next()
		if tok.Kind == token.EOF {
			break
		}
	}
	if len(l.Errors()) != 1 {
		t.Fatalf("expected 1 lex error, got %d", len(l.Errors()))
	}
}
