package lexer

import (
	"fmt"
	"io"
	"iter"
	"strings"
	"unicode/utf8"
)

// LexicalError reports a position that no pattern of the lexicon matches,
// or a literal or comment that is never closed.
type LexicalError struct {
	File   string
	Char   rune
	Pos    Position
	Reason string
}

func (e *LexicalError) Error() string {
	where := e.Pos.String()
	if e.File != "" {
		where = e.File + ":" + where
	}
	return where + ": " + e.Detail()
}

// Detail is the message without its location.
func (e *LexicalError) Detail() string {
	if e.Reason != "" {
		return e.Reason
	}
	return fmt.Sprintf("unexpected character %q", e.Char)
}

func (e *LexicalError) Position() Position {
	return e.Pos
}

type Option func(*Scanner)

// WithTrivia makes the scanner emit whitespace, newline, punctuation and
// comment tokens instead of suppressing them.
func WithTrivia() Option {
	return func(s *Scanner) {
		s.trivia = true
	}
}

// WithFile sets the file name reported in lexical errors.
func WithFile(name string) Option {
	return func(s *Scanner) {
		s.file = name
	}
}

// Scanner produces the tokens of one source text, one at a time. It makes a
// single pass and cannot be rewound; scan the same text again with a new
// Scanner.
type Scanner struct {
	src    string
	lx     *Lexicon
	file   string
	trivia bool
	pos    Position
	done   bool
	err    error
}

func NewScanner(src string, lx *Lexicon, opts ...Option) *Scanner {
	s := &Scanner{
		src: src,
		lx:  lx,
		pos: Position{Offset: 0, Line: 1, Column: 1},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Position returns the position of the next unscanned character.
func (s *Scanner) Position() Position {
	return s.pos
}

// Next returns the next token. The last token is always EOF; after it Next
// returns io.EOF. A lexical error is returned again on every later call.
func (s *Scanner) Next() (Token, error) {
	if s.err != nil {
		return Token{}, s.err
	}
	if s.done {
		return Token{}, io.EOF
	}
	for {
		if s.pos.Offset >= len(s.src) {
			s.done = true
			return Token{Kind: EOF, Pos: s.pos}, nil
		}
		rest := s.src[s.pos.Offset:]
		pattern, n := s.match(rest)
		if n <= 0 {
			s.err = s.fail(rest, pattern, n)
			return Token{}, s.err
		}
		text := rest[:n]
		tok := Token{Kind: pattern.Kind, Lexeme: text, Pos: s.pos}
		s.advance(text)
		if tok.Kind.IsTrivia() && !s.trivia {
			continue
		}
		return tok, nil
	}
}

func (s *Scanner) match(rest string) (Pattern, int) {
	for _, p := range s.lx.patterns {
		if n := p.match(rest); n != 0 {
			return p, n
		}
	}
	return Pattern{}, 0
}

func (s *Scanner) fail(rest string, p Pattern, n int) error {
	ch, _ := utf8.DecodeRuneInString(rest)
	err := &LexicalError{File: s.file, Char: ch, Pos: s.pos}
	if n == unterminated {
		err.Reason = "unterminated " + p.Name
	}
	return err
}

// advance moves past text. Newlines bump the line and reset the column;
// everything else adds its rune count to the column.
func (s *Scanner) advance(text string) {
	s.pos.Offset += len(text)
	if i := strings.LastIndexByte(text, '\n'); i >= 0 {
		s.pos.Line += strings.Count(text, "\n")
		s.pos.Column = 1 + utf8.RuneCountInString(text[i+1:])
		return
	}
	s.pos.Column += utf8.RuneCountInString(text)
}

// All returns the tokens of src as a sequence. Iteration stops after EOF or
// after the first error, which is yielded with a zero token.
func All(src string, lx *Lexicon, opts ...Option) iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		s := NewScanner(src, lx, opts...)
		for {
			tok, err := s.Next()
			if err == io.EOF {
				return
			}
			if !yield(tok, err) || err != nil {
				return
			}
		}
	}
}

// Tokenize scans all of src. On success the last token is EOF.
func Tokenize(src string, lx *Lexicon, opts ...Option) ([]Token, error) {
	var tokens []Token
	for tok, err := range All(src, lx, opts...) {
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

// SliceSource replays a token slice through the same Next contract as a
// Scanner.
type SliceSource struct {
	tokens []Token
	pos    int
}

func NewSliceSource(tokens []Token) *SliceSource {
	return &SliceSource{tokens: tokens}
}

func (s *SliceSource) Next() (Token, error) {
	if s.pos >= len(s.tokens) {
		return Token{}, io.EOF
	}
	tok := s.tokens[s.pos]
	s.pos++
	return tok, nil
}
