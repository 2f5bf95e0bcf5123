package ll1

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/dhamidi/minic/lexer"
)

// Table maps (non-terminal, lookahead) to exactly one production. Tables are
// built once and never mutated, so one Table may serve any number of
// concurrent parses.
type Table struct {
	name  string
	start NonTerminal
	rows  map[NonTerminal]map[lexer.Kind]Production
}

func (t *Table) Name() string {
	return t.name
}

func (t *Table) Start() NonTerminal {
	return t.start
}

// Lookup returns the production for nt under lookahead kind.
func (t *Table) Lookup(nt NonTerminal, kind lexer.Kind) (Production, bool) {
	p, ok := t.rows[nt][kind]
	return p, ok
}

// Expected returns the lookaheads that have an entry in nt's row, sorted by
// name.
func (t *Table) Expected(nt NonTerminal) []lexer.Kind {
	row := t.rows[nt]
	kinds := make([]lexer.Kind, 0, len(row))
	for k := range row {
		kinds = append(kinds, k)
	}
	sortKinds(kinds)
	return kinds
}

// NonTerminals returns the non-terminals with a row, start symbol first.
func (t *Table) NonTerminals() []NonTerminal {
	out := []NonTerminal{t.start}
	for nt := NonTerminal(1); nt < nonTerminalEnd; nt++ {
		if _, ok := t.rows[nt]; ok && nt != t.start {
			out = append(out, nt)
		}
	}
	return out
}

// Terminals returns every terminal that appears as a lookahead or inside a
// production, sorted by name.
func (t *Table) Terminals() []lexer.Kind {
	seen := make(map[lexer.Kind]bool)
	for _, row := range t.rows {
		for k, p := range row {
			seen[k] = true
			for _, s := range p {
				if s.IsTerminal() {
					seen[s.Terminal()] = true
				}
			}
		}
	}
	kinds := make([]lexer.Kind, 0, len(seen))
	for k := range seen {
		kinds = append(kinds, k)
	}
	sortKinds(kinds)
	return kinds
}

// Productions returns the distinct productions of nt in the order their
// first lookahead sorts.
func (t *Table) Productions(nt NonTerminal) []Production {
	var out []Production
	for _, k := range t.Expected(nt) {
		p := t.rows[nt][k]
		if !slices.ContainsFunc(out, p.equal) {
			out = append(out, p)
		}
	}
	return out
}

// String renders the table one entry per line, e.g. "Expr, ID -> Term ExprP".
func (t *Table) String() string {
	var b strings.Builder
	for _, nt := range t.NonTerminals() {
		for _, k := range t.Expected(nt) {
			fmt.Fprintf(&b, "%s, %s -> %s\n", nt, terminalName(k), t.rows[nt][k])
		}
	}
	return b.String()
}

func sortKinds(kinds []lexer.Kind) {
	sort.Slice(kinds, func(i, j int) bool {
		return terminalName(kinds[i]) < terminalName(kinds[j])
	})
}

// Grammar selects one of the two built-in grammars together with the
// lexicon whose terminals its table uses.
type Grammar int

const (
	Minimal Grammar = iota + 1
	Extended
)

var ErrUnknownGrammar = errors.New("unknown grammar")

// Grammars lists the built-in grammars.
func Grammars() []Grammar {
	return []Grammar{Minimal, Extended}
}

func ParseGrammar(name string) (Grammar, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "minimal":
		return Minimal, nil
	case "extended":
		return Extended, nil
	}
	return 0, fmt.Errorf("%w: %q (want minimal or extended)", ErrUnknownGrammar, name)
}

func (g Grammar) String() string {
	switch g {
	case Minimal:
		return "minimal"
	case Extended:
		return "extended"
	}
	return fmt.Sprintf("Grammar(%d)", int(g))
}

// Table returns the grammar's predictive table, or nil for an unknown
// grammar.
func (g Grammar) Table() *Table {
	switch g {
	case Minimal:
		return minimalTable()
	case Extended:
		return extendedTable()
	}
	return nil
}

// Lexicon returns the tokenizer patterns matching the grammar's terminals.
func (g Grammar) Lexicon() *lexer.Lexicon {
	switch g {
	case Minimal:
		return lexer.Minimal
	case Extended:
		return lexer.Extended
	}
	return nil
}

var (
	minimalTable  = sync.OnceValue(newMinimalTable)
	extendedTable = sync.OnceValue(newExtendedTable)
)
