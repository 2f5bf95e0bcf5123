// Package ast builds a syntax tree for programs of the minimal grammar:
// declarations, assignments and arithmetic expressions.
package ast

import (
	"fmt"
	"strings"

	"github.com/dhamidi/minic/lexer"
)

type Node interface {
	Pos() lexer.Position
	String() string
}

type Stmt interface {
	Node
	stmt()
}

type Expr interface {
	Node
	expr()
}

type Program struct {
	Stmts []Stmt
}

func (p *Program) String() string {
	var b strings.Builder
	b.WriteString("(program")
	for _, s := range p.Stmts {
		b.WriteString(" ")
		b.WriteString(s.String())
	}
	b.WriteString(")")
	return b.String()
}

// Decl is `TYPE ID ;`.
type Decl struct {
	Type     string
	Name     string
	Position lexer.Position
}

// Assign is `ID = Expr ;`.
type Assign struct {
	Name     string
	Value    Expr
	Position lexer.Position
}

type Binary struct {
	Op       string
	Left     Expr
	Right    Expr
	Position lexer.Position
}

type Number struct {
	Text     string
	Position lexer.Position
}

type Var struct {
	Name     string
	Position lexer.Position
}

func (d *Decl) Pos() lexer.Position   { return d.Position }
func (a *Assign) Pos() lexer.Position { return a.Position }
func (b *Binary) Pos() lexer.Position { return b.Position }
func (n *Number) Pos() lexer.Position { return n.Position }
func (v *Var) Pos() lexer.Position    { return v.Position }

func (*Decl) stmt()   {}
func (*Assign) stmt() {}

func (*Binary) expr() {}
func (*Number) expr() {}
func (*Var) expr()    {}

func (d *Decl) String() string {
	return fmt.Sprintf("(decl %s %s)", d.Type, d.Name)
}

func (a *Assign) String() string {
	return fmt.Sprintf("(assign %s %s)", a.Name, a.Value)
}

func (b *Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Op, b.Left, b.Right)
}

func (n *Number) String() string {
	return n.Text
}

func (v *Var) String() string {
	return v.Name
}
