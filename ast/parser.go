package ast

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dhamidi/minic/lexer"
)

// Error is the first token the builder could not fit into the tree.
type Error struct {
	Message  string
	Expected []lexer.Kind
	Found    lexer.Token
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Found.Pos, e.Message)
}

func (e *Error) Position() lexer.Position {
	return e.Found.Pos
}

type parser struct {
	tokens []lexer.Token
	pos    int
}

// Parse builds a Program from minimal-lexicon tokens. Trivia tokens are
// ignored and a missing trailing EOF is assumed.
func Parse(tokens []lexer.Token) (*Program, error) {
	p := &parser{}
	for _, tok := range tokens {
		if !tok.Kind.IsTrivia() {
			p.tokens = append(p.tokens, tok)
		}
	}
	return p.parseProgram()
}

// ParseSource tokenizes src with the minimal lexicon and builds its tree.
// Empty input yields a program without statements.
func ParseSource(src string) (*Program, error) {
	tokens, err := lexer.Tokenize(src, lexer.Minimal)
	if err != nil {
		return nil, err
	}
	return Parse(tokens)
}

func (p *parser) peek() lexer.Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	var end lexer.Position
	if n := len(p.tokens); n > 0 {
		last := p.tokens[n-1]
		end = last.Pos
		end.Offset += len(last.Lexeme)
		end.Column += utf8.RuneCountInString(last.Lexeme)
	} else {
		end = lexer.Position{Line: 1, Column: 1}
	}
	return lexer.Token{Kind: lexer.EOF, Pos: end}
}

func (p *parser) advance() lexer.Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *parser) check(kinds ...lexer.Kind) bool {
	k := p.peek().Kind
	for _, want := range kinds {
		if k == want {
			return true
		}
	}
	return false
}

func (p *parser) expect(kind lexer.Kind) (lexer.Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}
	return lexer.Token{}, p.errorf([]lexer.Kind{kind}, "expected %s, found %s", kind, p.peek().Describe())
}

func (p *parser) errorf(expected []lexer.Kind, format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), Expected: expected, Found: p.peek()}
}

func (p *parser) parseProgram() (*Program, error) {
	prog := &Program{}
	for !p.check(lexer.EOF) {
		s, err := p.parseStmt()
		if err != nil {
			return prog, err
		}
		prog.Stmts = append(prog.Stmts, s)
	}
	return prog, nil
}

func (p *parser) parseStmt() (Stmt, error) {
	switch p.peek().Kind {
	case lexer.TYPE:
		return p.parseDecl()
	case lexer.ID:
		return p.parseAssign()
	}
	return nil, p.errorf([]lexer.Kind{lexer.ID, lexer.TYPE}, "invalid statement start %s", p.peek().Describe())
}

func (p *parser) parseDecl() (*Decl, error) {
	typ := p.advance()
	name, err := p.expect(lexer.ID)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.SC); err != nil {
		return nil, err
	}
	return &Decl{Type: typ.Lexeme, Name: name.Lexeme, Position: typ.Pos}, nil
}

func (p *parser) parseAssign() (*Assign, error) {
	name := p.advance()
	if _, err := p.expect(lexer.EQ); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.SC); err != nil {
		return nil, err
	}
	return &Assign{Name: name.Lexeme, Value: value, Position: name.Pos}, nil
}

// parseBinary parses a left-associative chain of operand separated by ops.
func (p *parser) parseBinary(operand func() (Expr, error), ops ...lexer.Kind) (Expr, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for p.check(ops...) {
		op := p.advance()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op.Lexeme, Left: left, Right: right, Position: op.Pos}
	}
	return left, nil
}

func (p *parser) parseExpr() (Expr, error) {
	return p.parseBinary(p.parseTerm, lexer.PLUS, lexer.MIN)
}

func (p *parser) parseTerm() (Expr, error) {
	return p.parseBinary(p.parseFactor, lexer.MUL, lexer.DIV)
}

func (p *parser) parseFactor() (Expr, error) {
	tok := p.peek()
	switch tok.Kind {
	case lexer.ID:
		p.advance()
		return &Var{Name: tok.Lexeme, Position: tok.Pos}, nil
	case lexer.NUM:
		p.advance()
		return &Number{Text: tok.Lexeme, Position: tok.Pos}, nil
	case lexer.LP:
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RP); err != nil {
			return nil, err
		}
		return e, nil
	}
	expected := []lexer.Kind{lexer.ID, lexer.LP, lexer.NUM}
	names := make([]string, len(expected))
	for i, k := range expected {
		names[i] = k.String()
	}
	return nil, p.errorf(expected, "invalid factor %s; expected one of %s", tok.Describe(), strings.Join(names, ", "))
}
