// Package diag renders tokenizer and parser errors for people: a one-line
// summary for tables and a numbered source snippet with a caret under the
// offending column.
//
//	SYNTAX ERROR in prog.c at 2:5: expected ID, found SC (";")
//
//	   1 | x = 1;
//	   2 | int ;
//	     |     ^
//	   3 | y = 2;
package diag

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dhamidi/minic/ast"
	"github.com/dhamidi/minic/earley"
	"github.com/dhamidi/minic/lexer"
	"github.com/dhamidi/minic/ll1"
)

// Locate returns the source position carried by err, if any.
func Locate(err error) (lexer.Position, bool) {
	_, pos, _, ok := classify(err)
	return pos, ok
}

// Summary renders err on one line as "line:col: message". Errors without a
// position render as their message.
func Summary(err error) string {
	if err == nil {
		return ""
	}
	_, pos, msg, ok := classify(err)
	if !ok {
		return err.Error()
	}
	return fmt.Sprintf("%s: %s", pos, msg)
}

// Snippet renders err with up to one line of context on each side of the
// error line. name may be empty. Errors without a position render as their
// message.
func Snippet(err error, name, src string) string {
	if err == nil {
		return ""
	}
	header, pos, msg, ok := classify(err)
	if !ok {
		return err.Error()
	}
	return snippet(src, header, name, pos.Line, pos.Column, msg)
}

func classify(err error) (header string, pos lexer.Position, msg string, ok bool) {
	var lerr *lexer.LexicalError
	if errors.As(err, &lerr) {
		return "LEXICAL ERROR", lerr.Pos, lerr.Detail(), true
	}
	var serr *ll1.SyntaxError
	if errors.As(err, &serr) {
		return "SYNTAX ERROR", serr.Position(), serr.Detail(), true
	}
	var aerr *ast.Error
	if errors.As(err, &aerr) {
		return "SYNTAX ERROR", aerr.Position(), aerr.Message, true
	}
	var eerr *earley.Error
	if errors.As(err, &eerr) {
		return "SYNTAX ERROR", eerr.Position(), eerr.Detail(), true
	}
	return "", lexer.Position{}, "", false
}

// snippet clamps line and col to the source so that any position renders.
func snippet(src, header, name string, line, col int, msg string) string {
	lines := strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n")
	line = min(max(line, 1), len(lines))
	col = max(col, 1)

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s in %s at %d:%d: %s\n\n", header, name, line, col, msg)
	} else {
		fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lines[line-1])
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
