package lexer

import (
	"testing"

	"github.com/lumen-lang/lumen/internal/token"
)

type expectedToken struct {
	typ    token.Type
	lexeme string
}

func expectTokens(t *testing.T, input string, want []expectedToken) {
	t.Helper()
	toks := New(input).Tokens()
	if toks[len(toks)-1].Type != token.EOF {
		t.Fatal("token stream must end with EOF")
	}
	toks = toks[:len(toks)-1]
	if len(toks) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(toks), toks)
	}
	for i, w := range want {
		if toks[i].Type != w.typ || toks[i].Lexeme != w.lexeme {
			t.Errorf("token %d: expected %s %q, got %s %q",
				i, w.typ, w.lexeme, toks[i].Type, toks[i].Lexeme)
		}
	}
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	expectTokens(t, "module Main exposing let in case of", []expectedToken{
		{token.MODULE, "module"},
		{token.UPPER_IDENT, "Main"},
		{token.EXPOSING, "exposing"},
		{token.LET, "let"},
		{token.IN, "in"},
		{token.CASE, "case"},
		{token.OF, "of"},
	})
}

func TestUpperLowerSplit(t *testing.T) {
	expectTokens(t, "List map Maybe justValue", []expectedToken{
		{token.UPPER_IDENT, "List"},
		{token.LOWER_IDENT, "map"},
		{token.UPPER_IDENT, "Maybe"},
		{token.LOWER_IDENT, "justValue"},
	})
}

func TestNumbers(t *testing.T) {
	expectTokens(t, "42 3.14 1e3 2.5e-1", []expectedToken{
		{token.INT, "42"},
		{token.FLOAT, "3.14"},
		{token.FLOAT, "1e3"},
		{token.FLOAT, "2.5e-1"},
	})
}

func TestDotAfterIntIsNotAFloat(t *testing.T) {
	// `1..10` style ranges and qualified access keep the dot separate.
	expectTokens(t, "1.x", []expectedToken{
		{token.INT, "1"},
		{token.DOT, "."},
		{token.LOWER_IDENT, "x"},
	})
}

func TestOperatorRuns(t *testing.T) {
	expectTokens(t, "a |> b :: c ++ d", []expectedToken{
		{token.LOWER_IDENT, "a"},
		{token.OPERATOR, "|>"},
		{token.LOWER_IDENT, "b"},
		{token.OPERATOR, "::"},
		{token.LOWER_IDENT, "c"},
		{token.OPERATOR, "++"},
		{token.LOWER_IDENT, "d"},
	})
}

func TestStructuralOperators(t *testing.T) {
	expectTokens(t, "= -> : | . ..", []expectedToken{
		{token.EQUALS, "="},
		{token.ARROW, "->"},
		{token.COLON, ":"},
		{token.PIPE, "|"},
		{token.DOT, "."},
		{token.DOTDOT, ".."},
	})
}

func TestPunctuationAndUnderscore(t *testing.T) {
	expectTokens(t, `( ) { } [ ] , \ _ _x`, []expectedToken{
		{token.LPAREN, "("},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.RBRACE, "}"},
		{token.LBRACKET, "["},
		{token.RBRACKET, "]"},
		{token.COMMA, ","},
		{token.BACKSLASH, `\`},
		{token.UNDERSCORE, "_"},
		{token.LOWER_IDENT, "_x"},
	})
}

func TestStringLiteral(t *testing.T) {
	expectTokens(t, `"hello\nworld"`, []expectedToken{
		{token.STRING, "hello\nworld"},
	})
}

func TestUnterminatedStringIsIllegal(t *testing.T) {
	toks := New("\"abc\nx = 1").Tokens()
	if toks[0].Type != token.ILLEGAL {
		t.Errorf("expected ILLEGAL for unterminated string, got %s", toks[0].Type)
	}
}

func TestCharLiteral(t *testing.T) {
	expectTokens(t, `'a' '\n'`, []expectedToken{
		{token.CHAR, "a"},
		{token.CHAR, "\n"},
	})
}

func TestLineCommentSkipped(t *testing.T) {
	expectTokens(t, "x -- the rest is ignored\ny", []expectedToken{
		{token.LOWER_IDENT, "x"},
		{token.LOWER_IDENT, "y"},
	})
}

func TestNestedBlockCommentSkipped(t *testing.T) {
	expectTokens(t, "x {- outer {- inner -} still outer -} y", []expectedToken{
		{token.LOWER_IDENT, "x"},
		{token.LOWER_IDENT, "y"},
	})
}

func TestPositions(t *testing.T) {
	toks := New("add x =\n  x + 1").Tokens()

	wantPos := []struct {
		lexeme string
		line   int
		column int
	}{
		{"add", 1, 1},
		{"x", 1, 5},
		{"=", 1, 7},
		{"x", 2, 3},
		{"+", 2, 5},
		{"1", 2, 7},
	}
	for i, w := range wantPos {
		got := toks[i]
		if got.Lexeme != w.lexeme || got.Line != w.line || got.Column != w.column {
			t.Errorf("token %d: expected %q at %d:%d, got %q at %d:%d",
				i, w.lexeme, w.line, w.column, got.Lexeme, got.Line, got.Column)
		}
	}
}

func TestIllegalRune(t *testing.T) {
	toks := New("x # y").Tokens()
	if toks[1].Type != token.ILLEGAL || toks[1].Lexeme != "#" {
		t.Errorf("expected ILLEGAL #, got %s %q", toks[1].Type, toks[1].Lexeme)
	}
}
