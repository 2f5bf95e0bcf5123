package lexer

import "fmt"

// Position is a location in source text. Line and Column are 1-based;
// Column counts runes, Offset counts bytes.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Kind is the terminal category of a token.
type Kind int

const (
	EOF Kind = iota

	PREPROC

	// Keywords
	INT
	TYPE
	MAIN
	RETURN
	IF
	ELSE
	WHILE
	FOR
	PRINTF

	// Literals
	ID
	NUM
	STR
	CHR

	// Relational operators
	LE
	GE
	EQEQ
	NEQ
	LT
	GT

	// Assignment and arithmetic
	EQ
	PLUS
	MIN
	MUL
	DIV

	// Brackets and separators
	LP
	RP
	LB
	RB
	LBR
	RBR
	SC
	COMMA

	// Trivia, only emitted by scanners created WithTrivia.
	WS
	NEWLINE
	PUNCT
	COMMENT

	kindCount
)

var kindNames = [kindCount]string{
	EOF:     "EOF",
	PREPROC: "PREPROC",
	INT:     "INT",
	TYPE:    "TYPE",
	MAIN:    "MAIN",
	RETURN:  "RETURN",
	IF:      "IF",
	ELSE:    "ELSE",
	WHILE:   "WHILE",
	FOR:     "FOR",
	PRINTF:  "PRINTF",
	ID:      "ID",
	NUM:     "NUM",
	STR:     "STR",
	CHR:     "CHR",
	LE:      "LE",
	GE:      "GE",
	EQEQ:    "EQEQ",
	NEQ:     "NEQ",
	LT:      "LT",
	GT:      "GT",
	EQ:      "EQ",
	PLUS:    "PLUS",
	MIN:     "MIN",
	MUL:     "MUL",
	DIV:     "DIV",
	LP:      "LP",
	RP:      "RP",
	LB:      "LB",
	RB:      "RB",
	LBR:     "LBR",
	RBR:     "RBR",
	SC:      "SC",
	COMMA:   "COMMA",
	WS:      "WS",
	NEWLINE: "NEWLINE",
	PUNCT:   "PUNCT",
	COMMENT: "COMMENT",
}

func (k Kind) String() string {
	if k >= 0 && k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsTrivia reports whether tokens of this kind are suppressed from the
// default token stream.
func (k Kind) IsTrivia() bool {
	return k == WS || k == NEWLINE || k == PUNCT || k == COMMENT
}

// ParseKind returns the kind with the given name, as printed by String.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return 0, false
}

// Token is a classified lexeme with the position of its first character.
type Token struct {
	Kind   Kind
	Lexeme string
	Pos    Position
}

func (t Token) String() string {
	if t.Kind == EOF {
		return fmt.Sprintf("%s %s", t.Pos, t.Kind)
	}
	return fmt.Sprintf("%s %s %q", t.Pos, t.Kind, t.Lexeme)
}

// Describe renders the token for diagnostics, e.g. `SC (";")`.
func (t Token) Describe() string {
	if t.Kind == EOF {
		return "end of input"
	}
	return fmt.Sprintf("%s (%q)", t.Kind, t.Lexeme)
}
