package ll1

import (
	"fmt"
	"strings"

	"github.com/dhamidi/minic/lexer"
)

// NonTerminal names a grammar symbol that expands through the table.
// Both grammars draw from the same set of names.
type NonTerminal int

const (
	Program NonTerminal = iota + 1
	PreprocList
	Unit
	IntUnit
	LooseStmt
	StmtList
	Stmt
	Block
	Decl
	DeclTail
	ArraySize
	ArrayInit
	Value
	Assign
	ReturnStmt
	ReturnValue
	IfStmt
	ElseOpt
	WhileStmt
	ForStmt
	ForInit
	ForCond
	ForStep
	PrintStmt
	ArgList
	Bool
	RelP
	Expr
	ExprP
	Term
	TermP
	Factor

	nonTerminalEnd
)

var nonTerminalNames = [nonTerminalEnd]string{
	Program:     "Program",
	PreprocList: "PreprocList",
	Unit:        "Unit",
	IntUnit:     "IntUnit",
	LooseStmt:   "LooseStmt",
	StmtList:    "StmtList",
	Stmt:        "Stmt",
	Block:       "Block",
	Decl:        "Decl",
	DeclTail:    "DeclTail",
	ArraySize:   "ArraySize",
	ArrayInit:   "ArrayInit",
	Value:       "Value",
	Assign:      "Assign",
	ReturnStmt:  "ReturnStmt",
	ReturnValue: "ReturnValue",
	IfStmt:      "IfStmt",
	ElseOpt:     "ElseOpt",
	WhileStmt:   "WhileStmt",
	ForStmt:     "ForStmt",
	ForInit:     "ForInit",
	ForCond:     "ForCond",
	ForStep:     "ForStep",
	PrintStmt:   "PrintStmt",
	ArgList:     "ArgList",
	Bool:        "Bool",
	RelP:        "RelP",
	Expr:        "Expr",
	ExprP:       "ExprP",
	Term:        "Term",
	TermP:       "TermP",
	Factor:      "Factor",
}

func (n NonTerminal) String() string {
	if n > 0 && n < nonTerminalEnd {
		return nonTerminalNames[n]
	}
	return fmt.Sprintf("NonTerminal(%d)", int(n))
}

type symbolClass uint8

const (
	classTerminal symbolClass = iota + 1
	classNonTerminal
	classEpsilon
)

// Symbol is a terminal, a non-terminal or the empty-production marker.
// The zero Symbol is invalid.
type Symbol struct {
	class    symbolClass
	terminal lexer.Kind
	name     NonTerminal
}

// Epsilon marks an empty production. It is never matched against input.
var Epsilon = Symbol{class: classEpsilon}

// EndMarker is the terminal matched by the end-of-input token.
var EndMarker = T(lexer.EOF)

// T returns the terminal symbol for a token kind.
func T(kind lexer.Kind) Symbol {
	return Symbol{class: classTerminal, terminal: kind}
}

// N returns the symbol for a non-terminal.
func N(name NonTerminal) Symbol {
	return Symbol{class: classNonTerminal, name: name}
}

func (s Symbol) IsTerminal() bool    { return s.class == classTerminal }
func (s Symbol) IsNonTerminal() bool { return s.class == classNonTerminal }
func (s Symbol) IsEpsilon() bool     { return s.class == classEpsilon }

// Terminal returns the token kind of a terminal symbol.
func (s Symbol) Terminal() lexer.Kind { return s.terminal }

// NonTerminal returns the name of a non-terminal symbol.
func (s Symbol) NonTerminal() NonTerminal { return s.name }

func (s Symbol) String() string {
	switch s.class {
	case classTerminal:
		return terminalName(s.terminal)
	case classNonTerminal:
		return s.name.String()
	case classEpsilon:
		return "ε"
	}
	return "?"
}

// terminalName prints EOF as the end marker "$".
func terminalName(kind lexer.Kind) string {
	if kind == lexer.EOF {
		return "$"
	}
	return kind.String()
}

// Production is the right-hand side one non-terminal rewrites to.
type Production []Symbol

// IsEmpty reports whether the production derives only ε.
func (p Production) IsEmpty() bool {
	for _, s := range p {
		if !s.IsEpsilon() {
			return false
		}
	}
	return true
}

func (p Production) String() string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = s.String()
	}
	return strings.Join(parts, " ")
}

func (p Production) equal(q Production) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}
