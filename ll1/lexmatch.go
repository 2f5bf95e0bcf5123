package ll1

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/minic/lexer"
)

// lexicalSamples are lexemes each class terminal must accept, both in the
// EBNF rendering and in the lexicon.
var lexicalSamples = map[lexer.Kind][]string{
	lexer.ID:      {"x", "_tmp", "a1", "total_2", "Main"},
	lexer.NUM:     {"0", "42", "3.14", "007"},
	lexer.STR:     {`""`, `"hi"`, `"%d\n"`, `"say \"x\""`},
	lexer.CHR:     {`'c'`, `'\n'`, `'\''`, `' '`},
	lexer.PREPROC: {"#include <stdio.h>", `#include "lib.h"`, "#include\t<sys/types.h>", "#include<x.h>"},
}

var parsedEBNF = map[Grammar]func() (ebnf.Grammar, error){
	Minimal:  sync.OnceValues(func() (ebnf.Grammar, error) { return parseEBNF(Minimal) }),
	Extended: sync.OnceValues(func() (ebnf.Grammar, error) { return parseEBNF(Extended) }),
}

func parseEBNF(g Grammar) (ebnf.Grammar, error) {
	return ebnf.Parse(g.String()+".ebnf", strings.NewReader(g.EBNF()))
}

// MatchLexeme returns the length of the longest prefix of text that the EBNF
// rendering of g derives for terminal kind, or -1 when there is none.
func (g Grammar) MatchLexeme(kind lexer.Kind, text string) (int, error) {
	parse, ok := parsedEBNF[g]
	if !ok {
		return -1, fmt.Errorf("match lexeme: %w: %s", ErrUnknownGrammar, g)
	}
	grammar, err := parse()
	if err != nil {
		return -1, err
	}
	expr, err := terminalExpr(g.Lexicon(), grammar, kind)
	if err != nil {
		return -1, err
	}
	m := &lexemeMatcher{
		grammar:  grammar,
		input:    text,
		memo:     make(map[memoKey]int),
		visiting: make(map[memoKey]bool),
	}
	return m.match(expr, 0), nil
}

// terminalExpr is the EBNF expression a terminal renders as: its lexical
// production for a class, otherwise the alternatives of its spellings.
func terminalExpr(lx *lexer.Lexicon, grammar ebnf.Grammar, kind lexer.Kind) (ebnf.Expression, error) {
	if name, ok := classProduction[kind]; ok {
		prod := grammar[name]
		if prod == nil {
			return nil, fmt.Errorf("%s: no lexical production %s", kind, name)
		}
		return prod.Expr, nil
	}
	spellings := lx.Spellings(kind)
	switch len(spellings) {
	case 0:
		return nil, fmt.Errorf("%s: no spelling in the %s lexicon", kind, lx.Name())
	case 1:
		return &ebnf.Token{String: spellings[0]}, nil
	}
	alt := make(ebnf.Alternative, len(spellings))
	for i, s := range spellings {
		alt[i] = &ebnf.Token{String: s}
	}
	return alt, nil
}

// VerifyLexicon checks that the EBNF rendering and the lexicon of g agree:
// every spelling of a fixed terminal, and every sample lexeme of a class
// terminal, must be matched whole by both and classified as that terminal
// by the scanner.
func (g Grammar) VerifyLexicon() error {
	t := g.Table()
	if t == nil {
		return fmt.Errorf("verify lexicon: %w: %s", ErrUnknownGrammar, g)
	}
	lx := g.Lexicon()
	var errs []error
	for _, kind := range t.Terminals() {
		if kind == lexer.EOF {
			continue
		}
		samples, ok := lexicalSamples[kind]
		if !ok {
			samples = lx.Spellings(kind)
		}
		for _, s := range samples {
			n, err := g.MatchLexeme(kind, s)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if n != len(s) {
				errs = append(errs, fmt.Errorf("%s: EBNF matches %d of %d bytes of %q", kind, n, len(s), s))
			}
			tokens, err := lexer.Tokenize(s, lx)
			switch {
			case err != nil:
				errs = append(errs, fmt.Errorf("%s: scanning %q: %w", kind, s, err))
			case len(tokens) != 2 || tokens[0].Kind != kind:
				errs = append(errs, fmt.Errorf("%s: scanner splits %q into %v", kind, s, tokens))
			}
		}
	}
	return errors.Join(errs...)
}

type memoKey struct {
	name   string
	offset int
}

// lexemeMatcher interprets EBNF expressions over a string. Alternatives take
// their longest match and repetitions are greedy, which is enough for the
// lexical productions the grammars render.
type lexemeMatcher struct {
	grammar  ebnf.Grammar
	input    string
	memo     map[memoKey]int
	visiting map[memoKey]bool
}

// match returns the length matched by expr at offset, or -1.
func (m *lexemeMatcher) match(expr ebnf.Expression, offset int) int {
	switch e := expr.(type) {
	case *ebnf.Token:
		if strings.HasPrefix(m.input[offset:], e.String) {
			return len(e.String)
		}
		return -1

	case *ebnf.Range:
		if offset >= len(m.input) || len(e.Begin.String) != 1 || len(e.End.String) != 1 {
			return -1
		}
		if ch := m.input[offset]; ch >= e.Begin.String[0] && ch <= e.End.String[0] {
			return 1
		}
		return -1

	case ebnf.Sequence:
		total := 0
		for _, item := range e {
			n := m.match(item, offset+total)
			if n < 0 {
				return -1
			}
			total += n
		}
		return total

	case ebnf.Alternative:
		best := -1
		for _, alt := range e {
			best = max(best, m.match(alt, offset))
		}
		return best

	case *ebnf.Repetition:
		total := 0
		for {
			n := m.match(e.Body, offset+total)
			if n <= 0 {
				return total
			}
			total += n
		}

	case *ebnf.Option:
		return max(m.match(e.Body, offset), 0)

	case *ebnf.Group:
		return m.match(e.Body, offset)

	case *ebnf.Name:
		return m.matchName(e.String, offset)
	}
	return -1
}

func (m *lexemeMatcher) matchName(name string, offset int) int {
	key := memoKey{name: name, offset: offset}
	if n, ok := m.memo[key]; ok {
		return n
	}
	prod := m.grammar[name]
	if m.visiting[key] || prod == nil || prod.Expr == nil {
		return -1
	}

	m.visiting[key] = true
	n := m.match(prod.Expr, offset)
	delete(m.visiting, key)

	m.memo[key] = n
	return n
}
