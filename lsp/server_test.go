package lsp

import (
	"testing"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/minic/ll1"
)

func TestDiagnose(t *testing.T) {
	tests := []struct {
		name    string
		grammar ll1.Grammar
		text    string
		start   protocol.Position
		end     protocol.Position
		code    string
		message string
	}{
		{
			name:    "accepted",
			grammar: ll1.Minimal,
			text:    "int x; x = 1;",
		},
		{
			name:    "mismatched terminal",
			grammar: ll1.Minimal,
			text:    "int ;",
			start:   protocol.Position{Line: 0, Character: 4},
			end:     protocol.Position{Line: 0, Character: 5},
			code:    "mismatched terminal",
			message: `expected ID, found SC (";")`,
		},
		{
			name:    "second line",
			grammar: ll1.Minimal,
			text:    "int x;\nx = + 2;",
			start:   protocol.Position{Line: 1, Character: 4},
			end:     protocol.Position{Line: 1, Character: 5},
			code:    "no viable production",
		},
		{
			name:    "end of input",
			grammar: ll1.Minimal,
			text:    "int x",
			start:   protocol.Position{Line: 0, Character: 5},
			end:     protocol.Position{Line: 0, Character: 5},
			code:    "mismatched terminal",
		},
		{
			name:    "lexical error",
			grammar: ll1.Minimal,
			text:    "int x;\n#include <stdio.h>",
			start:   protocol.Position{Line: 1, Character: 0},
			end:     protocol.Position{Line: 1, Character: 1},
			code:    "lexical error",
			message: "unexpected character '#'",
		},
		{
			name:    "utf16 columns",
			grammar: ll1.Minimal,
			text:    "/* \U0001F600 */ int ;",
			start:   protocol.Position{Line: 0, Character: 13},
			end:     protocol.Position{Line: 0, Character: 14},
			code:    "mismatched terminal",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diagnose(tt.grammar, tt.text)
			if tt.code == "" {
				if got == nil || len(got) != 0 {
					t.Fatalf("Diagnose = %#v, want empty non-nil slice", got)
				}
				return
			}
			if len(got) != 1 {
				t.Fatalf("Diagnose returned %d diagnostics, want 1", len(got))
			}
			d := got[0]
			if d.Range.Start != tt.start || d.Range.End != tt.end {
				t.Errorf("Range = %+v, want %+v..%+v", d.Range, tt.start, tt.end)
			}
			if d.Severity == nil || *d.Severity != protocol.DiagnosticSeverityError {
				t.Errorf("Severity = %v, want error", d.Severity)
			}
			if d.Code == nil || d.Code.Value != tt.code {
				t.Errorf("Code = %+v, want %q", d.Code, tt.code)
			}
			if tt.message != "" && d.Message != tt.message {
				t.Errorf("Message = %q, want %q", d.Message, tt.message)
			}
		})
	}
}

type notification struct {
	method string
	params protocol.PublishDiagnosticsParams
}

func recorder(t *testing.T, sent *[]notification) *glsp.Context {
	t.Helper()
	return &glsp.Context{
		Notify: func(method string, params any) {
			p, ok := params.(protocol.PublishDiagnosticsParams)
			if !ok {
				t.Fatalf("notify %s with %T", method, params)
			}
			*sent = append(*sent, notification{method, p})
		},
	}
}

func TestDocumentLifecycle(t *testing.T) {
	var sent []notification
	ctx := recorder(t, &sent)
	s := NewServer(ll1.Extended, "test")
	uri := protocol.DocumentUri("file:///tmp/prog.c")

	steps := []struct {
		name  string
		run   func() error
		count int
	}{
		{"open rejected", func() error {
			return s.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
				TextDocument: protocol.TextDocumentItem{URI: uri, Text: "int main() {"},
			})
		}, 1},
		{"change accepted", func() error {
			return s.textDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
				TextDocument: protocol.VersionedTextDocumentIdentifier{
					TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
				},
				ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: "int main() { }"}},
			})
		}, 0},
		{"save without text rechecks", func() error {
			return s.textDocumentDidSave(ctx, &protocol.DidSaveTextDocumentParams{
				TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			})
		}, 0},
		{"save with text", func() error {
			text := "x = ;"
			return s.textDocumentDidSave(ctx, &protocol.DidSaveTextDocumentParams{
				TextDocument: protocol.TextDocumentIdentifier{URI: uri},
				Text:         &text,
			})
		}, 1},
		{"close clears", func() error {
			return s.textDocumentDidClose(ctx, &protocol.DidCloseTextDocumentParams{
				TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			})
		}, 0},
	}
	for i, step := range steps {
		if err := step.run(); err != nil {
			t.Fatalf("%s: %v", step.name, err)
		}
		if len(sent) != i+1 {
			t.Fatalf("%s: %d notifications so far, want %d", step.name, len(sent), i+1)
		}
		n := sent[i]
		if n.method != protocol.ServerTextDocumentPublishDiagnostics || n.params.URI != uri {
			t.Errorf("%s: notification = %+v", step.name, n)
		}
		if len(n.params.Diagnostics) != step.count {
			t.Errorf("%s: %d diagnostics, want %d", step.name, len(n.params.Diagnostics), step.count)
		}
	}
	if len(s.docs) != 0 {
		t.Errorf("docs after close = %v", s.docs)
	}
}

func TestInitializeAdvertisesFullSync(t *testing.T) {
	s := NewServer(ll1.Minimal, "1.2.3")
	res, err := s.initialize(&glsp.Context{}, &protocol.InitializeParams{})
	if err != nil {
		t.Fatal(err)
	}
	result, ok := res.(protocol.InitializeResult)
	if !ok {
		t.Fatalf("initialize returned %T", res)
	}
	opts, ok := result.Capabilities.TextDocumentSync.(*protocol.TextDocumentSyncOptions)
	if !ok || opts.Change == nil || *opts.Change != protocol.TextDocumentSyncKindFull {
		t.Errorf("TextDocumentSync = %#v", result.Capabilities.TextDocumentSync)
	}
	if result.ServerInfo == nil || result.ServerInfo.Name != "minic" || *result.ServerInfo.Version != "1.2.3" {
		t.Errorf("ServerInfo = %+v", result.ServerInfo)
	}
}
