package lexer

import (
	"testing"

	"github.com/funvibe/funxy-types/internal/token"
)

func collect(src string) []token.Token {
	l := New(src)
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks
		}
	}
}

func TestLexesFunctionDeclaration(t *testing.T) {
	toks := collect("add(x: Int, y: Int) -> Int = x + y")
	want := []token.Type{
		token.IDENT, token.LPAREN, token.IDENT, token.COLON, token.TYPEIDENT, token.COMMA,
		token.IDENT, token.COLON, token.TYPEIDENT, token.RPAREN, token.ARROW, token.TYPEIDENT,
		token.ASSIGN, token.IDENT, token.PLUS, token.IDENT, token.EOF,
	}
	if len(toks) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(toks), toks)
	}
	for i, w := range want {
		if toks[i].Type != w {
			t.Fatalf("token %d: expected %s, got %s (%q)", i, w, toks[i].Type, toks[i].Lexeme)
		}
	}
}

func TestLexesConstDeclarationAndKeywords(t *testing.T) {
	toks := collect("pi :- 3.14")
	want := []token.Type{token.IDENT, token.COLONMINUS, token.FLOAT, token.EOF}
	for i, w := range want {
		if toks[i].Type != w {
			t.Fatalf("token %d: expected %s, got %s", i, w, toks[i].Type)
		}
	}
}

func TestLexesNatAndStringLiterals(t *testing.T) {
	toks := collect(`3_u "hi\"there"`)
	if toks[0].Type != token.NAT || toks[0].Lexeme != "3_u" {
		t.Fatalf("expected NAT 3_u, got %v", toks[0])
	}
	if toks[1].Type != token.STRING || toks[1].Lexeme != `hi"there` {
		t.Fatalf("expected unescaped string literal, got %q", toks[1].Lexeme)
	}
}

func TestLexerTracksLineAndColumn(t *testing.T) {
	toks := collect("x\ny")
	if toks[0].Line != 1 {
		t.Fatalf("expected x on line 1, got %d", toks[0].Line)
	}
	// toks[1] is NEWLINE, toks[2] is y on line 2
	if toks[2].Line != 2 {
		t.Fatalf("expected y on line 2, got %d", toks[2].Line)
	}
}

func TestIllegalCharacterIsReported(t *testing.T) {
	toks := collect("@")
	if toks[0].Type != token.ILLEGAL {
		t.Fatalf("expected ILLEGAL, got %s", toks[0].Type)
	}
}
