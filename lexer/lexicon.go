package lexer

import (
	"strings"
	"unicode/utf8"
)

// A matcher reports how many bytes at the start of s belong to its pattern.
// Zero means no match. A negative result means the pattern opened here but
// was never closed, which the scanner turns into a LexicalError.
type matcher func(s string) int

const unterminated = -1

// Pattern is one entry of a Lexicon. Words lists the fixed spellings of
// keyword and operator patterns and is nil for classes like identifiers.
type Pattern struct {
	Name  string
	Kind  Kind
	Words []string
	match matcher
}

// Lexicon is an ordered list of patterns. At every position the scanner
// commits to the first pattern that matches, so order encodes precedence:
// keywords before identifiers, two-character operators before their
// one-character prefixes, comments before the division operator.
type Lexicon struct {
	name     string
	patterns []Pattern
}

func (lx *Lexicon) Name() string {
	return lx.name
}

// Patterns returns a copy of the pattern list in match order.
func (lx *Lexicon) Patterns() []Pattern {
	out := make([]Pattern, len(lx.patterns))
	copy(out, lx.patterns)
	return out
}

// Kinds returns the non-trivia kinds this lexicon can produce, plus EOF.
func (lx *Lexicon) Kinds() []Kind {
	seen := make(map[Kind]bool)
	kinds := []Kind{EOF}
	seen[EOF] = true
	for _, p := range lx.patterns {
		if p.Kind.IsTrivia() || seen[p.Kind] {
			continue
		}
		seen[p.Kind] = true
		kinds = append(kinds, p.Kind)
	}
	return kinds
}

// Extended is the full lexicon: preprocessor lines, control-flow keywords,
// printf, string and character literals.
var Extended = &Lexicon{
	name: "extended",
	patterns: concat(
		[]Pattern{
			class("include line", PREPROC, matchInclude),
			keyword(INT, "int"),
		},
		reserved,
		[]Pattern{
			keyword(TYPE, "float", "char"),
			class("identifier", ID, matchIdentifier),
			class("number", NUM, matchNumber),
			class("string literal", STR, matchString),
			class("character literal", CHR, matchChar),
		},
		operators,
		suppressed,
	),
}

// Minimal is the lexicon of the minimal grammar. All three type names
// classify as TYPE and there are no literals besides numbers. Control-flow
// keywords stay reserved so they never become identifiers.
var Minimal = &Lexicon{
	name: "minimal",
	patterns: concat(
		reserved,
		[]Pattern{
			keyword(TYPE, "int", "float", "char"),
			class("identifier", ID, matchIdentifier),
			class("number", NUM, matchNumber),
		},
		operators,
		suppressed,
	),
}

var reserved = []Pattern{
	keyword(MAIN, "main"),
	keyword(RETURN, "return"),
	keyword(IF, "if"),
	keyword(ELSE, "else"),
	keyword(WHILE, "while"),
	keyword(FOR, "for"),
	keyword(PRINTF, "printf"),
}

// Comments come first so that "//" and "/*" never scan as DIV.
var operators = []Pattern{
	class("line comment", COMMENT, matchLineComment),
	class("block comment", COMMENT, matchBlockComment),

	operator(LE, "<="),
	operator(GE, ">="),
	operator(EQEQ, "=="),
	operator(NEQ, "!="),
	operator(LT, "<"),
	operator(GT, ">"),

	operator(EQ, "="),
	operator(PLUS, "+"),
	operator(MIN, "-"),
	operator(MUL, "*"),
	operator(DIV, "/"),

	operator(LP, "("),
	operator(RP, ")"),
	operator(LB, "{"),
	operator(RB, "}"),
	operator(LBR, "["),
	operator(RBR, "]"),
	operator(SC, ";"),
	operator(COMMA, ","),
}

var suppressed = []Pattern{
	class("punctuation", PUNCT, matchPunct),
	class("newline", NEWLINE, matchNewline),
	class("whitespace", WS, matchWhitespace),
}

func concat(lists ...[]Pattern) []Pattern {
	var out []Pattern
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

func keyword(kind Kind, spellings ...string) Pattern {
	return Pattern{Name: strings.Join(spellings, "|"), Kind: kind, Words: spellings, match: words(spellings...)}
}

func operator(kind Kind, text string) Pattern {
	return Pattern{Name: text, Kind: kind, Words: []string{text}, match: literal(text)}
}

func class(name string, kind Kind, m matcher) Pattern {
	return Pattern{Name: name, Kind: kind, match: m}
}

// Spellings returns every fixed spelling the lexicon accepts for kind, or
// nil when kind is a class such as ID or NUM.
func (lx *Lexicon) Spellings(kind Kind) []string {
	var out []string
	for _, p := range lx.patterns {
		if p.Kind != kind {
			continue
		}
		if p.Words == nil {
			return nil
		}
		out = append(out, p.Words...)
	}
	return out
}

func isLetter(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentChar(ch byte) bool {
	return isLetter(ch) || isDigit(ch)
}

func literal(text string) matcher {
	return func(s string) int {
		if strings.HasPrefix(s, text) {
			return len(text)
		}
		return 0
	}
}

// word matches a keyword that is not the prefix of a longer identifier.
func word(kw string) matcher {
	return func(s string) int {
		if !strings.HasPrefix(s, kw) {
			return 0
		}
		if len(s) > len(kw) && isIdentChar(s[len(kw)]) {
			return 0
		}
		return len(kw)
	}
}

func words(kws ...string) matcher {
	ms := make([]matcher, len(kws))
	for i, kw := range kws {
		ms[i] = word(kw)
	}
	return func(s string) int {
		for _, m := range ms {
			if n := m(s); n > 0 {
				return n
			}
		}
		return 0
	}
}

func matchIdentifier(s string) int {
	if len(s) == 0 || !isLetter(s[0]) {
		return 0
	}
	i := 1
	for i < len(s) && isIdentChar(s[i]) {
		i++
	}
	return i
}

func matchDigits(s string) int {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return i
}

func matchNumber(s string) int {
	n := matchDigits(s)
	if n == 0 {
		return 0
	}
	if n+1 < len(s) && s[n] == '.' && isDigit(s[n+1]) {
		n += 1 + matchDigits(s[n+1:])
	}
	return n
}

// matchInclude consumes a whole `#include <file>` or `#include "file"` line
// head. Anything else starting with '#' is left unmatched.
func matchInclude(s string) int {
	const directive = "#include"
	if !strings.HasPrefix(s, directive) {
		return 0
	}
	i := len(directive)
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	if i >= len(s) {
		return 0
	}
	var closer byte
	switch s[i] {
	case '<':
		closer = '>'
	case '"':
		closer = '"'
	default:
		return 0
	}
	start := i + 1
	for j := start; j < len(s); j++ {
		switch s[j] {
		case closer:
			if j == start {
				return 0
			}
			return j + 1
		case '\n', '\r':
			return 0
		}
	}
	return 0
}

func matchString(s string) int {
	if len(s) == 0 || s[0] != '"' {
		return 0
	}
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if i+1 < len(s) && s[i+1] != '\n' {
				i++
				continue
			}
			return unterminated
		case '"':
			return i + 1
		case '\n':
			return unterminated
		}
	}
	return unterminated
}

func matchChar(s string) int {
	if len(s) == 0 || s[0] != '\'' {
		return 0
	}
	i := 1
	if i >= len(s) {
		return unterminated
	}
	switch s[i] {
	case '\'', '\n':
		return unterminated
	case '\\':
		i++
		if i >= len(s) || s[i] == '\n' {
			return unterminated
		}
	}
	_, size := utf8.DecodeRuneInString(s[i:])
	i += size
	if i < len(s) && s[i] == '\'' {
		return i + 1
	}
	return unterminated
}

func matchLineComment(s string) int {
	if !strings.HasPrefix(s, "//") {
		return 0
	}
	if end := strings.IndexByte(s, '\n'); end >= 0 {
		n := end
		if n > 0 && s[n-1] == '\r' {
			n--
		}
		return n
	}
	return len(s)
}

func matchBlockComment(s string) int {
	if !strings.HasPrefix(s, "/*") {
		return 0
	}
	end := strings.Index(s[2:], "*/")
	if end < 0 {
		return unterminated
	}
	return 2 + end + 2
}

func matchPunct(s string) int {
	i := 0
	for i < len(s) && (s[i] == '.' || s[i] == '!' || s[i] == '?') {
		i++
	}
	return i
}

func matchNewline(s string) int {
	if strings.HasPrefix(s, "\r\n") {
		return 2
	}
	if strings.HasPrefix(s, "\n") {
		return 1
	}
	return 0
}

func matchWhitespace(s string) int {
	i := 0
	for i < len(s) {
		switch s[i] {
		case ' ', '\t', '\f', '\v':
			i++
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				return i
			}
			i++
		default:
			return i
		}
	}
	return i
}
