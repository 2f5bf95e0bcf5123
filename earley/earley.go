// Package earley recognizes programs with an Earley chart parser driven by
// the productions of an ll1.Table. It accepts any context-free grammar, so it
// serves as an independent check on the predictive parser: for the built-in
// grammars both must agree on every input, including where the first error
// is reported.
package earley

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/dhamidi/minic/lexer"
	"github.com/dhamidi/minic/ll1"
)

// Error reports the first token that no item of the chart could scan.
type Error struct {
	File string
	// Expected lists the terminals the chart was waiting for.
	Expected []lexer.Kind
	Found    lexer.Token
}

func (e *Error) Position() lexer.Position {
	return e.Found.Pos
}

func (e *Error) Error() string {
	where := e.Found.Pos.String()
	if e.File != "" {
		where = e.File + ":" + where
	}
	return where + ": " + e.Detail()
}

func (e *Error) Detail() string {
	names := make([]string, len(e.Expected))
	for i, k := range e.Expected {
		names[i] = k.String()
	}
	if len(names) == 0 {
		return fmt.Sprintf("unexpected %s", e.Found.Describe())
	}
	return fmt.Sprintf("unexpected %s; expected one of %s", e.Found.Describe(), strings.Join(names, ", "))
}

// item is a production with a dot position and the chart index it started at.
type item struct {
	nt     ll1.NonTerminal
	prod   int
	dot    int
	origin int
}

type itemSet struct {
	items []item
	seen  map[item]bool
}

func newItemSet() *itemSet {
	return &itemSet{seen: make(map[item]bool)}
}

func (s *itemSet) add(it item) {
	if s.seen[it] {
		return
	}
	s.seen[it] = true
	s.items = append(s.items, it)
}

// Recognizer holds the productions of one table with ε removed.
type Recognizer struct {
	start    ll1.NonTerminal
	rules    map[ll1.NonTerminal][]ll1.Production
	nullable map[ll1.NonTerminal]bool
}

// New prepares a recognizer for the language of t. Only the distinct
// productions of t are used, never its cells.
func New(t *ll1.Table) *Recognizer {
	r := &Recognizer{
		start:    t.Start(),
		rules:    make(map[ll1.NonTerminal][]ll1.Production),
		nullable: ll1.Analyze(t).Nullable,
	}
	for _, nt := range t.NonTerminals() {
		for _, p := range t.Productions(nt) {
			var body ll1.Production
			for _, s := range p {
				if !s.IsEpsilon() {
					body = append(body, s)
				}
			}
			r.rules[nt] = append(r.rules[nt], body)
		}
	}
	return r
}

// next returns the symbol after the dot, or false when it is complete.
func (r *Recognizer) next(it item) (ll1.Symbol, bool) {
	body := r.rules[it.nt][it.prod]
	if it.dot < len(body) {
		return body[it.dot], true
	}
	return ll1.Symbol{}, false
}

func advance(it item) item {
	it.dot++
	return it
}

// Parse recognizes the tokens of src. Tokens are pulled one at a time, and
// the chart stops at the first one it cannot scan, so errors are reported
// in the same order as ll1.Parse reports them.
func (r *Recognizer) Parse(src ll1.TokenSource, file string) error {
	chart := []*itemSet{newItemSet()}
	for i := range r.rules[r.start] {
		chart[0].add(item{nt: r.start, prod: i})
	}

	end := lexer.Position{Line: 1, Column: 1}
	for i := 0; ; i++ {
		set := chart[i]
		for j := 0; j < len(set.items); j++ {
			it := set.items[j]
			sym, ok := r.next(it)
			switch {
			case !ok:
				r.complete(chart, i, it)
			case sym.IsNonTerminal():
				r.predict(set, i, it, sym.NonTerminal())
			}
		}

		tok, err := nextToken(src, end)
		if err != nil {
			return err
		}
		end = tok.Pos
		end.Offset += len(tok.Lexeme)
		end.Column += utf8.RuneCountInString(tok.Lexeme)

		if tok.Kind == lexer.EOF {
			if r.accepted(set) {
				return nil
			}
			return &Error{File: file, Expected: r.expected(set), Found: tok}
		}

		scanned := newItemSet()
		for _, it := range set.items {
			if sym, ok := r.next(it); ok && sym.IsTerminal() && sym.Terminal() == tok.Kind {
				scanned.add(advance(it))
			}
		}
		if len(scanned.items) == 0 {
			return &Error{File: file, Expected: r.expected(set), Found: tok}
		}
		chart = append(chart, scanned)
	}
}

// predict adds the productions of nt at position i. A nullable nt is also
// stepped over at once, since its completion may already have happened.
func (r *Recognizer) predict(set *itemSet, i int, it item, nt ll1.NonTerminal) {
	for k := range r.rules[nt] {
		set.add(item{nt: nt, prod: k, origin: i})
	}
	if r.nullable[nt] {
		set.add(advance(it))
	}
}

func (r *Recognizer) complete(chart []*itemSet, i int, done item) {
	origin := chart[done.origin]
	for k := 0; k < len(origin.items); k++ {
		waiting := origin.items[k]
		if sym, ok := r.next(waiting); ok && sym.IsNonTerminal() && sym.NonTerminal() == done.nt {
			chart[i].add(advance(waiting))
		}
	}
}

func (r *Recognizer) accepted(set *itemSet) bool {
	for _, it := range set.items {
		if _, more := r.next(it); it.nt == r.start && it.origin == 0 && !more {
			return true
		}
	}
	return false
}

// expected returns the terminals some item of set can scan next, plus the
// end marker when set already holds a complete parse.
func (r *Recognizer) expected(set *itemSet) []lexer.Kind {
	seen := make(map[lexer.Kind]bool)
	var kinds []lexer.Kind
	if r.accepted(set) {
		seen[lexer.EOF] = true
		kinds = append(kinds, lexer.EOF)
	}
	for _, it := range set.items {
		if sym, ok := r.next(it); ok && sym.IsTerminal() && !seen[sym.Terminal()] {
			seen[sym.Terminal()] = true
			kinds = append(kinds, sym.Terminal())
		}
	}
	sortKinds(kinds)
	return kinds
}

func sortKinds(kinds []lexer.Kind) {
	slices.SortFunc(kinds, func(a, b lexer.Kind) int {
		return strings.Compare(a.String(), b.String())
	})
}

func nextToken(src ll1.TokenSource, end lexer.Position) (lexer.Token, error) {
	for {
		tok, err := src.Next()
		if errors.Is(err, io.EOF) {
			return lexer.Token{Kind: lexer.EOF, Pos: end}, nil
		}
		if err != nil {
			return tok, err
		}
		if !tok.Kind.IsTrivia() {
			return tok, nil
		}
	}
}

// Recognize tokenizes source with the lexicon of g and runs the chart
// parser over the productions of g.
func Recognize(g ll1.Grammar, source, file string) error {
	t := g.Table()
	if t == nil {
		return fmt.Errorf("earley: %w: %s", ll1.ErrUnknownGrammar, g)
	}
	var opts []lexer.Option
	if file != "" {
		opts = append(opts, lexer.WithFile(file))
	}
	return New(t).Parse(lexer.NewScanner(source, g.Lexicon(), opts...), file)
}
