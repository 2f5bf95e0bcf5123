package ll1

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/minic/lexer"
)

// lexical productions for terminals that are classes rather than fixed
// spellings, and the helpers they build on. Names are lowercase so that
// ebnf.Verify treats them as lexical.
var lexicalProductions = map[string]struct {
	body string
	uses []string
}{
	"identifier":   {`letter { letter | digit }`, []string{"letter", "digit"}},
	"number":       {`digit { digit } [ "." digit { digit } ]`, []string{"digit"}},
	"string_lit":   {`"\"" { string_char | escaped } "\""`, []string{"string_char", "escaped"}},
	"char_lit":     {`"'" ( char_char | escaped ) "'"`, []string{"char_char", "escaped"}},
	"include_line": {`"#include" { blank } ( "<" header_char { header_char } ">" | "\"" string_char { string_char } "\"" )`, []string{"blank", "header_char", "string_char"}},
	"letter":       {`"a" … "z" | "A" … "Z" | "_"`, nil},
	"digit":        {`"0" … "9"`, nil},
	"string_char":  {`" " … "!" | "#" … "[" | "]" … "~"`, nil},
	"char_char":    {`" " … "&" | "(" … "[" | "]" … "~"`, nil},
	"escaped":      {`"\\" " " … "~"`, nil},
	"blank":        {`" " | "\t"`, nil},
	"header_char":  {`" " … "=" | "?" … "~"`, nil},
}

var classProduction = map[lexer.Kind]string{
	lexer.ID:      "identifier",
	lexer.NUM:     "number",
	lexer.STR:     "string_lit",
	lexer.CHR:     "char_lit",
	lexer.PREPROC: "include_line",
}

// ebnfWriter renders one grammar and collects the lexical productions its
// terminals refer to.
type ebnfWriter struct {
	lx       *lexer.Lexicon
	b        strings.Builder
	lexical  []string
	multiple map[lexer.Kind]string
}

// EBNF renders the grammar in the notation accepted by golang.org/x/exp/ebnf.
// Keywords and operators appear as quoted spellings, token classes as
// lowercase lexical productions.
func (g Grammar) EBNF() string {
	t := g.Table()
	if t == nil {
		return ""
	}
	w := &ebnfWriter{lx: g.Lexicon(), multiple: make(map[lexer.Kind]string)}

	width := 0
	for _, nt := range t.NonTerminals() {
		width = max(width, len(nt.String()))
	}
	for _, nt := range t.NonTerminals() {
		w.production(nt.String(), width, w.alternatives(t.Productions(nt)))
	}

	for _, kind := range w.multipleKinds() {
		name := w.multiple[kind]
		var spellings []string
		for _, s := range w.lx.Spellings(kind) {
			spellings = append(spellings, strconv.Quote(s))
		}
		w.b.WriteString("\n")
		w.production(name, 0, strings.Join(spellings, " | "))
	}

	for _, name := range w.lexicalClosure() {
		w.b.WriteString("\n")
		w.production(name, 0, lexicalProductions[name].body)
	}
	return w.b.String()
}

// VerifyEBNF parses the rendered grammar and checks that every production is
// defined and reachable from the start symbol.
func (g Grammar) VerifyEBNF() error {
	t := g.Table()
	if t == nil {
		return fmt.Errorf("verify ebnf: %w: %s", ErrUnknownGrammar, g)
	}
	grammar, err := ebnf.Parse(g.String()+".ebnf", strings.NewReader(g.EBNF()))
	if err != nil {
		return err
	}
	return ebnf.Verify(grammar, t.Start().String())
}

func (w *ebnfWriter) production(name string, width int, body string) {
	fmt.Fprintf(&w.b, "%-*s = %s .\n", width, name, body)
}

func (w *ebnfWriter) alternatives(prods []Production) string {
	var alts []string
	optional := false
	for _, p := range prods {
		if p.IsEmpty() {
			optional = true
			continue
		}
		alts = append(alts, w.sequence(p))
	}
	body := strings.Join(alts, " | ")
	if optional && body != "" {
		body = "[ " + body + " ]"
	}
	return body
}

func (w *ebnfWriter) sequence(p Production) string {
	parts := make([]string, 0, len(p))
	for _, s := range p {
		switch {
		case s.IsEpsilon():
		case s.IsNonTerminal():
			parts = append(parts, s.NonTerminal().String())
		default:
			parts = append(parts, w.terminal(s.Terminal()))
		}
	}
	return strings.Join(parts, " ")
}

func (w *ebnfWriter) terminal(kind lexer.Kind) string {
	if name, ok := classProduction[kind]; ok {
		w.use(name)
		return name
	}
	spellings := w.lx.Spellings(kind)
	switch len(spellings) {
	case 0:
		return strings.ToLower(kind.String())
	case 1:
		return strconv.Quote(spellings[0])
	}
	name := strings.ToLower(kind.String()) + "_name"
	w.multiple[kind] = name
	return name
}

func (w *ebnfWriter) use(name string) {
	if !slices.Contains(w.lexical, name) {
		w.lexical = append(w.lexical, name)
	}
}

func (w *ebnfWriter) multipleKinds() []lexer.Kind {
	kinds := make([]lexer.Kind, 0, len(w.multiple))
	for k := range w.multiple {
		kinds = append(kinds, k)
	}
	sortKinds(kinds)
	return kinds
}

// lexicalClosure returns the used lexical productions followed by the
// helpers they depend on, each once, in first-use order.
func (w *ebnfWriter) lexicalClosure() []string {
	out := slices.Clone(w.lexical)
	for i := 0; i < len(out); i++ {
		for _, dep := range lexicalProductions[out[i]].uses {
			if !slices.Contains(out, dep) {
				out = append(out, dep)
			}
		}
	}
	return out
}
