package lexer

import (
	"errors"
	"io"
	"strings"
	"testing"
	"unicode/utf8"
)

func kindsOf(tokens []Token) []Kind {
	kinds := make([]Kind, len(tokens))
	for i, tok := range tokens {
		kinds[i] = tok.Kind
	}
	return kinds
}

func equalKinds(a, b []Kind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestTokenizeMinimal(t *testing.T) {
	tests := []struct {
		input    string
		expected []Kind
	}{
		{"", []Kind{EOF}},
		{"int x; x = 3 + 5 * (2 + 1);", []Kind{TYPE, ID, SC, ID, EQ, NUM, PLUS, NUM, MUL, LP, NUM, PLUS, NUM, RP, SC, EOF}},
		{"float y;\ny = x / 2;", []Kind{TYPE, ID, SC, ID, EQ, ID, DIV, NUM, SC, EOF}},
		{"1x = 2;", []Kind{NUM, ID, EQ, NUM, SC, EOF}},
		{"Juan come manzanas.", []Kind{ID, ID, ID, EOF}},
		{"a <= b >= c == d != e < f > g", []Kind{ID, LE, ID, GE, ID, EQEQ, ID, NEQ, ID, LT, ID, GT, ID, EOF}},
		{"if while for else return main printf", []Kind{IF, WHILE, FOR, ELSE, RETURN, MAIN, PRINTF, EOF}},
		{"integer iffy mainly", []Kind{ID, ID, ID, EOF}},
		{"x = 1; // trailing\n/* block\ncomment */ y = 2;", []Kind{ID, EQ, NUM, SC, ID, EQ, NUM, SC, EOF}},
		{"3.14 3. 7", []Kind{NUM, NUM, NUM, EOF}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, err := Tokenize(tt.input, Minimal)
			if err != nil {
				t.Fatalf("Tokenize: %v", err)
			}
			if got := kindsOf(tokens); !equalKinds(got, tt.expected) {
				t.Errorf("kinds = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestTokenizeExtended(t *testing.T) {
	tests := []struct {
		input    string
		expected []Kind
	}{
		{"#include <stdio.h>\nint main() { return 0; }", []Kind{PREPROC, INT, MAIN, LP, RP, LB, RETURN, NUM, SC, RB, EOF}},
		{`#include "local.h"`, []Kind{PREPROC, EOF}},
		{"int float char", []Kind{INT, TYPE, TYPE, EOF}},
		{`char s[10] = "hi\"there";`, []Kind{TYPE, ID, LBR, NUM, RBR, EQ, STR, SC, EOF}},
		{`char c = '\n'; char d = 'a';`, []Kind{TYPE, ID, EQ, CHR, SC, TYPE, ID, EQ, CHR, SC, EOF}},
		{`printf("%d, %d", a, b);`, []Kind{PRINTF, LP, STR, COMMA, ID, COMMA, ID, RP, SC, EOF}},
		{"for (i = 0; i < 10; i = i + 1) {}", []Kind{FOR, LP, ID, EQ, NUM, SC, ID, LT, NUM, SC, ID, EQ, ID, PLUS, NUM, RP, LB, RB, EOF}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, err := Tokenize(tt.input, Extended)
			if err != nil {
				t.Fatalf("Tokenize: %v", err)
			}
			if got := kindsOf(tokens); !equalKinds(got, tt.expected) {
				t.Errorf("kinds = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestTokenPositions(t *testing.T) {
	tokens, err := Tokenize("int x;\n  x = 10;", Minimal)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}

	expected := []struct {
		kind   Kind
		lexeme string
		line   int
		column int
	}{
		{TYPE, "int", 1, 1},
		{ID, "x", 1, 5},
		{SC, ";", 1, 6},
		{ID, "x", 2, 3},
		{EQ, "=", 2, 5},
		{NUM, "10", 2, 7},
		{SC, ";", 2, 9},
		{EOF, "", 2, 10},
	}

	if len(tokens) != len(expected) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(expected))
	}
	for i, want := range expected {
		tok := tokens[i]
		if tok.Kind != want.kind || tok.Lexeme != want.lexeme {
			t.Errorf("token %d = %s %q, want %s %q", i, tok.Kind, tok.Lexeme, want.kind, want.lexeme)
		}
		if tok.Pos.Line != want.line || tok.Pos.Column != want.column {
			t.Errorf("token %d at %d:%d, want %d:%d", i, tok.Pos.Line, tok.Pos.Column, want.line, want.column)
		}
	}
}

func TestBlockCommentAdvancesLines(t *testing.T) {
	tokens, err := Tokenize("/* one\ntwo\nthree */ x", Extended)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if tokens[0].Kind != ID {
		t.Fatalf("first token = %v, want ID", tokens[0].Kind)
	}
	if tokens[0].Pos.Line != 3 || tokens[0].Pos.Column != 10 {
		t.Errorf("x at %s, want 3:10", tokens[0].Pos)
	}
}

func TestLexicalErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		lx     *Lexicon
		char   rune
		line   int
		column int
		reason string
	}{
		{"unknown character", "x = 1 @ 2;", Minimal, '@', 1, 7, ""},
		{"second line", "x = 1;\ny = $;", Minimal, '$', 2, 5, ""},
		{"non-ascii", "año = 1;", Minimal, 'ñ', 1, 2, ""},
		{"string in minimal", `x = "a";`, Minimal, '"', 1, 5, ""},
		{"unterminated string", `char s = "abc`, Extended, '"', 1, 10, "unterminated string literal"},
		{"unterminated comment", "x = 1; /* never", Extended, '/', 1, 8, "unterminated block comment"},
		{"bad char literal", "char c = 'ab';", Extended, '\'', 1, 10, "unterminated character literal"},
		{"bare hash", "#define X 1", Extended, '#', 1, 1, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.input, tt.lx)
			var lexErr *LexicalError
			if !errors.As(err, &lexErr) {
				t.Fatalf("err = %v, want *LexicalError", err)
			}
			if lexErr.Char != tt.char {
				t.Errorf("Char = %q, want %q", lexErr.Char, tt.char)
			}
			if lexErr.Pos.Line != tt.line || lexErr.Pos.Column != tt.column {
				t.Errorf("Pos = %s, want %d:%d", lexErr.Pos, tt.line, tt.column)
			}
			if lexErr.Reason != tt.reason {
				t.Errorf("Reason = %q, want %q", lexErr.Reason, tt.reason)
			}
		})
	}
}

func TestLexicalErrorMessage(t *testing.T) {
	_, err := Tokenize("x @", Minimal, WithFile("prog.c"))
	if err == nil {
		t.Fatal("expected error")
	}
	want := `prog.c:1:3: unexpected character '@'`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestScannerIsSinglePass(t *testing.T) {
	s := NewScanner("x", Minimal)
	for _, want := range []Kind{ID, EOF} {
		tok, err := s.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if tok.Kind != want {
			t.Fatalf("Kind = %v, want %v", tok.Kind, want)
		}
	}
	for i := 0; i < 2; i++ {
		if _, err := s.Next(); err != io.EOF {
			t.Errorf("Next after EOF = %v, want io.EOF", err)
		}
	}
}

func TestScannerRepeatsError(t *testing.T) {
	s := NewScanner("@", Minimal)
	_, first := s.Next()
	_, second := s.Next()
	if first == nil || first != second {
		t.Errorf("errors = %v, %v; want the same error twice", first, second)
	}
}

func TestTokenizeIsDeterministic(t *testing.T) {
	src := "#include <stdio.h>\nint main() {\n  int i;\n  for (i = 0; i < 3; i = i + 1) printf(\"%d\\n\", i);\n  return 0;\n}\n"
	first, err := Tokenize(src, Extended)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	for run := 0; run < 5; run++ {
		again, err := Tokenize(src, Extended)
		if err != nil {
			t.Fatalf("Tokenize: %v", err)
		}
		if len(again) != len(first) {
			t.Fatalf("run %d: %d tokens, want %d", run, len(again), len(first))
		}
		for i := range first {
			if again[i] != first[i] {
				t.Errorf("run %d token %d = %v, want %v", run, i, again[i], first[i])
			}
		}
	}
}

// Every byte of every line is covered by exactly one emitted lexeme when
// trivia is kept.
func TestPositionAccounting(t *testing.T) {
	sources := []string{
		"int x;\nx = 3 + 5 * (2 + 1);\n",
		"Juan come manzanas.",
		"#include <stdio.h>\r\nint main() {\r\n\tprintf(\"hi\");  // done\r\n}\r\n",
		"x = 1;   \n\n   y = x!!?;",
	}

	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			tokens, err := Tokenize(src, Extended, WithTrivia())
			if err != nil {
				t.Fatalf("Tokenize: %v", err)
			}
			perLine := make(map[int]int)
			for _, tok := range tokens {
				if tok.Kind == NEWLINE {
					continue
				}
				perLine[tok.Pos.Line] += utf8.RuneCountInString(tok.Lexeme)
			}
			for i, line := range strings.Split(src, "\n") {
				line = strings.TrimSuffix(line, "\r")
				if got, want := perLine[i+1], utf8.RuneCountInString(line); got != want {
					t.Errorf("line %d: accounted %d runes, want %d", i+1, got, want)
				}
			}
		})
	}
}

func TestTriviaKinds(t *testing.T) {
	tokens, err := Tokenize("x. // c\n", Extended, WithTrivia())
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	want := []Kind{ID, PUNCT, WS, COMMENT, NEWLINE, EOF}
	if got := kindsOf(tokens); !equalKinds(got, want) {
		t.Errorf("kinds = %v, want %v", got, want)
	}
}

func TestAllStopsEarly(t *testing.T) {
	count := 0
	for range All("a b c d", Minimal) {
		count++
		if count == 2 {
			break
		}
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestParseKind(t *testing.T) {
	for k := EOF; k < kindCount; k++ {
		got, ok := ParseKind(k.String())
		if !ok || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, ok)
		}
	}
	if _, ok := ParseKind("NOPE"); ok {
		t.Error("ParseKind(NOPE) succeeded")
	}
}

func TestSliceSource(t *testing.T) {
	src := NewSliceSource([]Token{{Kind: ID, Lexeme: "x"}})
	if tok, err := src.Next(); err != nil || tok.Kind != ID {
		t.Fatalf("Next = %v, %v", tok, err)
	}
	if _, err := src.Next(); err != io.EOF {
		t.Errorf("Next = %v, want io.EOF", err)
	}
}
