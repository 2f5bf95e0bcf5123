package ll1

import (
	"errors"
	"fmt"

	"github.com/dhamidi/minic/lexer"
)

type kindSet map[lexer.Kind]bool

func (s kindSet) addAll(o kindSet) bool {
	changed := false
	for k := range o {
		if !s[k] {
			s[k] = true
			changed = true
		}
	}
	return changed
}

func (s kindSet) sorted() []lexer.Kind {
	out := make([]lexer.Kind, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sortKinds(out)
	return out
}

// Conflict is a table cell where more than one production of the row is
// predicted. Chosen is the production the table actually holds.
type Conflict struct {
	NonTerminal NonTerminal
	Lookahead   lexer.Kind
	Productions []Production
	Chosen      Production
}

func (c Conflict) String() string {
	return fmt.Sprintf("%s on %s: %d candidates, table holds %q", c.NonTerminal, terminalName(c.Lookahead), len(c.Productions), c.Chosen)
}

// Analysis is the result of recomputing a table from its own productions.
type Analysis struct {
	Nullable map[NonTerminal]bool
	First    map[NonTerminal][]lexer.Kind
	Follow   map[NonTerminal][]lexer.Kind
	// Conflicts lists cells predicted by several productions.
	Conflicts []Conflict
	// Errors lists every disagreement between the table and the sets
	// derived from its productions.
	Errors []error
}

type analyzer struct {
	t        *Table
	prods    map[NonTerminal][]Production
	nullable map[NonTerminal]bool
	first    map[NonTerminal]kindSet
	follow   map[NonTerminal]kindSet
}

// Analyze derives nullable, FIRST and FOLLOW from the distinct productions
// of t and checks every cell of t against the prediction sets.
func Analyze(t *Table) *Analysis {
	a := &analyzer{
		t:        t,
		prods:    make(map[NonTerminal][]Production),
		nullable: make(map[NonTerminal]bool),
		first:    make(map[NonTerminal]kindSet),
		follow:   make(map[NonTerminal]kindSet),
	}
	for _, nt := range t.NonTerminals() {
		a.prods[nt] = t.Productions(nt)
		a.first[nt] = kindSet{}
		a.follow[nt] = kindSet{}
	}
	a.computeFirst()
	a.computeFollow()

	res := &Analysis{
		Nullable: a.nullable,
		First:    make(map[NonTerminal][]lexer.Kind),
		Follow:   make(map[NonTerminal][]lexer.Kind),
	}
	for nt := range a.prods {
		res.First[nt] = a.first[nt].sorted()
		res.Follow[nt] = a.follow[nt].sorted()
	}
	res.Errors = append(res.Errors, a.checkSymbols()...)
	conflicts, errs := a.checkCells()
	res.Conflicts = conflicts
	res.Errors = append(res.Errors, errs...)
	return res
}

// Verify returns nil when every cell of t is exactly what its productions
// predict, apart from conflicting cells that hold one of the candidates.
func Verify(t *Table) error {
	return errors.Join(Analyze(t).Errors...)
}

// firstOf returns FIRST of a symbol sequence and whether it is nullable.
func (a *analyzer) firstOf(seq []Symbol) (kindSet, bool) {
	out := kindSet{}
	for _, s := range seq {
		switch {
		case s.IsEpsilon():
			continue
		case s.IsTerminal():
			out[s.Terminal()] = true
			return out, false
		default:
			nt := s.NonTerminal()
			out.addAll(a.first[nt])
			if !a.nullable[nt] {
				return out, false
			}
		}
	}
	return out, true
}

func (a *analyzer) computeFirst() {
	for changed := true; changed; {
		changed = false
		for nt, prods := range a.prods {
			for _, p := range prods {
				first, nullable := a.firstOf(p)
				if a.first[nt].addAll(first) {
					changed = true
				}
				if nullable && !a.nullable[nt] {
					a.nullable[nt] = true
					changed = true
				}
			}
		}
	}
}

func (a *analyzer) computeFollow() {
	a.follow[a.t.start][lexer.EOF] = true
	for changed := true; changed; {
		changed = false
		for nt, prods := range a.prods {
			for _, p := range prods {
				for i, s := range p {
					if !s.IsNonTerminal() {
						continue
					}
					target, ok := a.follow[s.NonTerminal()]
					if !ok {
						continue
					}
					rest, nullable := a.firstOf(p[i+1:])
					if target.addAll(rest) {
						changed = true
					}
					if nullable && target.addAll(a.follow[nt]) {
						changed = true
					}
				}
			}
		}
	}
}

// checkSymbols reports references to non-terminals without a row and rows
// that cannot be reached from the start symbol.
func (a *analyzer) checkSymbols() []error {
	var errs []error
	reached := map[NonTerminal]bool{a.t.start: true}
	queue := []NonTerminal{a.t.start}
	for len(queue) > 0 {
		nt := queue[0]
		queue = queue[1:]
		for _, p := range a.prods[nt] {
			for _, s := range p {
				if !s.IsNonTerminal() {
					continue
				}
				ref := s.NonTerminal()
				if _, ok := a.prods[ref]; !ok {
					errs = append(errs, fmt.Errorf("%s: production %q uses %s, which has no row", nt, p, ref))
					continue
				}
				if !reached[ref] {
					reached[ref] = true
					queue = append(queue, ref)
				}
			}
		}
	}
	for _, nt := range a.t.NonTerminals() {
		if !reached[nt] {
			errs = append(errs, fmt.Errorf("%s: unreachable from %s", nt, a.t.start))
		}
	}
	return errs
}

// predict returns the lookaheads that select p for nt.
func (a *analyzer) predict(nt NonTerminal, p Production) kindSet {
	first, nullable := a.firstOf(p)
	if nullable {
		first.addAll(a.follow[nt])
	}
	return first
}

func (a *analyzer) checkCells() ([]Conflict, []error) {
	var (
		conflicts []Conflict
		errs      []error
	)
	for _, nt := range a.t.NonTerminals() {
		candidates := make(map[lexer.Kind][]Production)
		for _, p := range a.prods[nt] {
			for k := range a.predict(nt, p) {
				candidates[k] = append(candidates[k], p)
			}
		}
		for _, k := range a.t.Expected(nt) {
			if _, ok := candidates[k]; !ok {
				errs = append(errs, fmt.Errorf("%s on %s: entry %q is not predicted by any production", nt, terminalName(k), a.t.rows[nt][k]))
			}
		}
		keys := make(kindSet, len(candidates))
		for k := range candidates {
			keys[k] = true
		}
		for _, k := range keys.sorted() {
			ps := candidates[k]
			chosen, ok := a.t.Lookup(nt, k)
			if !ok {
				errs = append(errs, fmt.Errorf("%s on %s: missing entry, %q predicts it", nt, terminalName(k), ps[0]))
				continue
			}
			held := false
			for _, p := range ps {
				if p.equal(chosen) {
					held = true
				}
			}
			if !held {
				errs = append(errs, fmt.Errorf("%s on %s: entry %q is not predicted here", nt, terminalName(k), chosen))
				continue
			}
			if len(ps) > 1 {
				conflicts = append(conflicts, Conflict{NonTerminal: nt, Lookahead: k, Productions: ps, Chosen: chosen})
			}
		}
	}
	return conflicts, errs
}
