package ast

import (
	"bytes"
	"encoding/json"
	"errors"
	"slices"
	"testing"

	"github.com/dhamidi/minic/lexer"
)

func TestParseSource(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"empty", "", "(program)"},
		{"declaration", "int x;", "(program (decl int x))"},
		{"precedence", "x = 3 + 5 * (2 + 1);", "(program (assign x (+ 3 (* 5 (+ 2 1)))))"},
		{"left associative", "y = a - b - c;", "(program (assign y (- (- a b) c)))"},
		{"division chain", "z = 8 / 4 / 2;", "(program (assign z (/ (/ 8 4) 2)))"},
		{"several statements", "float f; f = 1.5; char c;", "(program (decl float f) (assign f 1.5) (decl char c))"},
		{"comments ignored", "x = 1; // one\n/* two */ y = x;", "(program (assign x 1) (assign y x))"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := ParseSource(tt.source)
			if err != nil {
				t.Fatalf("ParseSource(%q): %v", tt.source, err)
			}
			if got := prog.String(); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseSourceErrors(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		pos      lexer.Position
		expected []lexer.Kind
	}{
		{"missing identifier", "int ;", lexer.Position{Offset: 4, Line: 1, Column: 5}, []lexer.Kind{lexer.ID}},
		{"operator as factor", "x = + 2;", lexer.Position{Offset: 4, Line: 1, Column: 5}, []lexer.Kind{lexer.ID, lexer.LP, lexer.NUM}},
		{"number as statement", "1x = 2;", lexer.Position{Line: 1, Column: 1}, []lexer.Kind{lexer.ID, lexer.TYPE}},
		{"two identifiers", "Juan come manzanas.", lexer.Position{Offset: 5, Line: 1, Column: 6}, []lexer.Kind{lexer.EQ}},
		{"unclosed parenthesis", "x = (1 + 2;", lexer.Position{Offset: 10, Line: 1, Column: 11}, []lexer.Kind{lexer.RP}},
		{"missing semicolon", "x = 1", lexer.Position{Offset: 5, Line: 1, Column: 6}, []lexer.Kind{lexer.SC}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSource(tt.source)
			var aerr *Error
			if !errors.As(err, &aerr) {
				t.Fatalf("ParseSource(%q) = %v, want *Error", tt.source, err)
			}
			if aerr.Position() != tt.pos {
				t.Errorf("Position = %+v, want %+v", aerr.Position(), tt.pos)
			}
			if !slices.Equal(aerr.Expected, tt.expected) {
				t.Errorf("Expected = %v, want %v", aerr.Expected, tt.expected)
			}
		})
	}
}

func TestParseSourceLexicalError(t *testing.T) {
	_, err := ParseSource("x = 1 @ 2;")
	var lerr *lexer.LexicalError
	if !errors.As(err, &lerr) {
		t.Fatalf("err = %v, want *lexer.LexicalError", err)
	}
}

func TestNodePositions(t *testing.T) {
	prog, err := ParseSource("int x;\nx = a * 2;")
	if err != nil {
		t.Fatal(err)
	}
	decl := prog.Stmts[0].(*Decl)
	if decl.Pos() != (lexer.Position{Line: 1, Column: 1}) {
		t.Errorf("decl at %+v", decl.Pos())
	}
	assign := prog.Stmts[1].(*Assign)
	if got := assign.Pos(); got.Line != 2 || got.Column != 1 {
		t.Errorf("assign at %+v", got)
	}
	bin := assign.Value.(*Binary)
	if got := bin.Pos(); got.Line != 2 || got.Column != 7 {
		t.Errorf("binary at %+v, want operator position 2:7", got)
	}
	if v := bin.Left.(*Var); v.Pos().Column != 5 {
		t.Errorf("var at %+v", v.Pos())
	}
}

func TestJSONEncoder(t *testing.T) {
	prog, err := ParseSource("int x; x = x + 1;")
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := NewJSONEncoder(&buf).Encode(prog); err != nil {
		t.Fatal(err)
	}

	var got jsonNode
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if got.Kind != "program" || len(got.Children) != 2 {
		t.Fatalf("root = %+v", got)
	}
	decl := got.Children[0]
	if decl.Kind != "decl" || decl.Type != "int" || decl.Name != "x" || decl.Pos == nil {
		t.Errorf("decl = %+v", decl)
	}
	assign := got.Children[1]
	if assign.Kind != "assign" || len(assign.Children) != 1 {
		t.Fatalf("assign = %+v", assign)
	}
	bin := assign.Children[0]
	if bin.Kind != "binary" || bin.Op != "+" || len(bin.Children) != 2 {
		t.Errorf("binary = %+v", bin)
	}
	if bin.Children[1].Kind != "number" || bin.Children[1].Text != "1" {
		t.Errorf("right operand = %+v", bin.Children[1])
	}
}
