package ll1

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/dhamidi/minic/lexer"
)

// TokenSource yields tokens one at a time and io.EOF once exhausted.
// *lexer.Scanner and *lexer.SliceSource implement it.
type TokenSource interface {
	Next() (lexer.Token, error)
}

// Reason classifies a SyntaxError.
type Reason int

const (
	// MismatchedTerminal: the terminal on top of the stack differs from
	// the lookahead.
	MismatchedTerminal Reason = iota + 1
	// NoProduction: the table has no entry for the non-terminal on top of
	// the stack and the lookahead.
	NoProduction
	// TrailingInput: the start symbol was fully derived but tokens remain.
	TrailingInput
)

func (r Reason) String() string {
	switch r {
	case MismatchedTerminal:
		return "mismatched terminal"
	case NoProduction:
		return "no viable production"
	case TrailingInput:
		return "trailing input"
	}
	return fmt.Sprintf("Reason(%d)", int(r))
}

// SyntaxError is the first violation found by Parse.
type SyntaxError struct {
	File   string
	Reason Reason
	// NonTerminal is set for NoProduction.
	NonTerminal NonTerminal
	// Expected holds the single expected terminal for MismatchedTerminal
	// and the terminals with a table entry for NoProduction.
	Expected []lexer.Kind
	Found    lexer.Token
}

func (e *SyntaxError) Position() lexer.Position {
	return e.Found.Pos
}

func (e *SyntaxError) Line() int {
	return e.Found.Pos.Line
}

func (e *SyntaxError) Column() int {
	return e.Found.Pos.Column
}

// ExpectedNames returns Expected as printed in messages, with EOF as "$".
func (e *SyntaxError) ExpectedNames() []string {
	names := make([]string, len(e.Expected))
	for i, k := range e.Expected {
		names[i] = terminalName(k)
	}
	return names
}

func (e *SyntaxError) Error() string {
	where := e.Found.Pos.String()
	if e.File != "" {
		where = e.File + ":" + where
	}
	return where + ": " + e.Detail()
}

// Detail is the message without its location.
func (e *SyntaxError) Detail() string {
	switch e.Reason {
	case MismatchedTerminal:
		return fmt.Sprintf("expected %s, found %s", strings.Join(e.ExpectedNames(), ", "), e.Found.Describe())
	case NoProduction:
		expected := "nothing"
		if len(e.Expected) > 0 {
			expected = "one of " + strings.Join(e.ExpectedNames(), ", ")
		}
		return fmt.Sprintf("no production for %s on %s; expected %s", e.NonTerminal, e.Found.Describe(), expected)
	case TrailingInput:
		return fmt.Sprintf("unconsumed input starting at %s", e.Found.Describe())
	}
	return fmt.Sprintf("syntax error at %s", e.Found.Describe())
}

// Action is what one step of the engine did.
type Action int

const (
	ActionExpand Action = iota + 1
	ActionMatch
	ActionSkipEpsilon
)

func (a Action) String() string {
	switch a {
	case ActionExpand:
		return "expand"
	case ActionMatch:
		return "match"
	case ActionSkipEpsilon:
		return "skip ε"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// Step describes one successful engine step for tracing.
type Step struct {
	// Stack is a snapshot before the step, bottom first.
	Stack      []Symbol
	Top        Symbol
	Lookahead  lexer.Token
	Action     Action
	Production Production
}

type options struct {
	file  string
	trace func(Step)
}

type Option func(*options)

// WithFile sets the file name reported in errors.
func WithFile(name string) Option {
	return func(o *options) {
		o.file = name
	}
}

// WithTrace calls fn before every step the engine takes.
func WithTrace(fn func(Step)) Option {
	return func(o *options) {
		o.trace = fn
	}
}

// parser is the working state of one Parse call.
type parser struct {
	src      TokenSource
	opts     options
	look     lexer.Token
	have     bool
	end      lexer.Position
	consumed int
}

// Parse runs the predictive parser over tokens pulled from src. It returns
// nil when the input is accepted, a *SyntaxError on the first violation, or
// the error src produced (typically a *lexer.LexicalError). Tokens are pulled
// only when needed, so whichever error comes first in the input is the one
// reported. Trivia tokens are skipped. A source that runs out without an EOF
// token is treated as if one followed its last token.
func Parse(src TokenSource, t *Table, opts ...Option) error {
	p := &parser{src: src, end: lexer.Position{Line: 1, Column: 1}}
	for _, opt := range opts {
		opt(&p.opts)
	}
	return p.run(t)
}

func (p *parser) run(t *Table) error {
	stack := []Symbol{EndMarker, N(t.start)}
	for len(stack) > 0 {
		top := stack[len(stack)-1]

		if top.IsEpsilon() {
			p.trace(stack, top, lexer.Token{}, ActionSkipEpsilon, nil)
			stack = stack[:len(stack)-1]
			continue
		}

		look, err := p.peek()
		if err != nil {
			return err
		}

		if top.IsTerminal() {
			if top.Terminal() != look.Kind {
				return &SyntaxError{
					File:     p.opts.file,
					Reason:   MismatchedTerminal,
					Expected: []lexer.Kind{top.Terminal()},
					Found:    look,
				}
			}
			p.trace(stack, top, look, ActionMatch, nil)
			stack = stack[:len(stack)-1]
			p.advance()
			continue
		}

		nt := top.NonTerminal()
		prod, ok := t.Lookup(nt, look.Kind)
		if !ok {
			return &SyntaxError{
				File:        p.opts.file,
				Reason:      NoProduction,
				NonTerminal: nt,
				Expected:    t.Expected(nt),
				Found:       look,
			}
		}
		p.trace(stack, top, look, ActionExpand, prod)
		stack = stack[:len(stack)-1]
		for i := len(prod) - 1; i >= 0; i-- {
			stack = append(stack, prod[i])
		}
	}

	extra, err := p.next()
	switch {
	case err == io.EOF:
		return nil
	case err != nil:
		return err
	}
	return &SyntaxError{File: p.opts.file, Reason: TrailingInput, Found: extra}
}

func (p *parser) trace(stack []Symbol, top Symbol, look lexer.Token, action Action, prod Production) {
	if p.opts.trace == nil {
		return
	}
	snapshot := make([]Symbol, len(stack))
	copy(snapshot, stack)
	p.opts.trace(Step{Stack: snapshot, Top: top, Lookahead: look, Action: action, Production: prod})
}

// next returns the next non-trivia token from the source.
func (p *parser) next() (lexer.Token, error) {
	for {
		tok, err := p.src.Next()
		if err != nil {
			return tok, err
		}
		if tok.Kind.IsTrivia() {
			continue
		}
		return tok, nil
	}
}

func (p *parser) peek() (lexer.Token, error) {
	if p.have {
		return p.look, nil
	}
	tok, err := p.next()
	if err == io.EOF {
		tok, err = lexer.Token{Kind: lexer.EOF, Pos: p.end}, nil
	}
	if err != nil {
		return lexer.Token{}, err
	}
	p.look, p.have = tok, true
	p.end = tok.Pos
	p.end.Offset += len(tok.Lexeme)
	p.end.Column += utf8.RuneCountInString(tok.Lexeme)
	return tok, nil
}

func (p *parser) advance() {
	p.have = false
	p.consumed++
}

// Recognize reports whether source is a program of grammar g: nil when it
// is accepted, otherwise a *lexer.LexicalError or *SyntaxError.
func Recognize(g Grammar, source string, opts ...Option) error {
	t := g.Table()
	if t == nil {
		return fmt.Errorf("recognize: %w: %s", ErrUnknownGrammar, g)
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	var lexOpts []lexer.Option
	if o.file != "" {
		lexOpts = append(lexOpts, lexer.WithFile(o.file))
	}
	return Parse(lexer.NewScanner(source, g.Lexicon(), lexOpts...), t, opts...)
}
