package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dhamidi/minic/config"
)

// run executes a fresh root command and returns what it wrote to stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&app{})
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	return 1
}

func setup(t *testing.T, files map[string]string) string {
	t.Helper()
	samples, err := filepath.Abs("../../classify/testdata/samples")
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(config.EnvVar, "")
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return samples
}

func TestCommands(t *testing.T) {
	samples := setup(t, map[string]string{
		"ok.c":         "int x;\nx = 3 + 5;",
		"bad.c":        "int ;",
		"main.c":       "#include <stdio.h>\nint main() { return 0; }",
		"good.ebnf":    "Program = \"a\" { \"b\" } .\n",
		"broken.ebnf":  "Program = Missing .\n",
		"minimal.toml": "grammar = \"minimal\"\n",
	})

	tests := []struct {
		name string
		args []string
		code int
		want []string
	}{
		{"tokens", []string{"tokens", "--grammar", "minimal", "ok.c"}, 0, []string{`1:1 TYPE "int"`, `2:9 NUM "5"`, "2:11 EOF"}},
		{"tokens with trivia", []string{"tokens", "--trivia", "ok.c"}, 0, []string{`1:7 NEWLINE`}},
		{"tokens lexical error", []string{"tokens", "--grammar", "minimal", "main.c"}, 1, []string{"LEXICAL ERROR in main.c at 1:1"}},
		{"check accepted", []string{"check", "--grammar", "minimal", "ok.c"}, 0, []string{"ok.c: accepted by the minimal grammar"}},
		{"check rejected", []string{"check", "ok.c", "bad.c"}, 1, []string{"ok.c: accepted", "SYNTAX ERROR in bad.c at 1:5", "     |     ^"}},
		{"check from config", []string{"--config", "minimal.toml", "check", "main.c"}, 1, []string{"LEXICAL ERROR"}},
		{"check trace", []string{"check", "--trace", "--grammar", "minimal", "ok.c"}, 0, []string{"expand Program ->", "match"}},
		{"check cross-checked", []string{"check", "--earley", "ok.c", "bad.c"}, 1, []string{"SYNTAX ERROR in bad.c"}},
		{"classify missing dir", []string{"classify", "nowhere"}, 2, nil},
		{"classify unknown format", []string{"classify", "-f", "xml", samples}, 1, nil},
		{"ast sexp", []string{"ast", "ok.c"}, 0, []string{"(program (decl int x) (assign x (+ 3 5)))"}},
		{"ast json", []string{"ast", "-f", "json", "ok.c"}, 0, []string{`"kind": "program"`}},
		{"ast rejected", []string{"ast", "bad.c"}, 1, []string{"SYNTAX ERROR"}},
		{"grammar show ebnf", []string{"grammar", "show", "--grammar", "minimal"}, 0, []string{`type_name = "int" | "float" | "char" .`}},
		{"grammar show table", []string{"grammar", "show", "-f", "table", "--grammar", "minimal"}, 0, []string{"Program, TYPE ->"}},
		{"grammar check builtin", []string{"grammar", "check"}, 0, []string{"minimal: ok", "extended: ok", "resolved ElseOpt on ELSE"}},
		{"grammar check file", []string{"grammar", "check", "--start", "Program", "good.ebnf"}, 0, []string{"good.ebnf: ok, 1 productions"}},
		{"grammar check broken file", []string{"grammar", "check", "--start", "Program", "broken.ebnf"}, 1, []string{"Missing"}},
		{"config", []string{"--config", "minimal.toml", "config", "-f", "yaml"}, 0, []string{"grammar: minimal", "timeout: 10s"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			if got := exitCode(err); got != tt.code {
				t.Fatalf("exit code = %d (%v), want %d\n%s", got, err, tt.code, out)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output lacks %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestClassifyCommandJSON(t *testing.T) {
	samples := setup(t, nil)
	out, err := run(t, "classify", "-f", "json", "-e", ".c", "-e", "txt", samples)
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Grammar string `json:"grammar"`
		Summary struct {
			Total    int `json:"total"`
			Accepted int `json:"accepted"`
			Rejected int `json:"rejected"`
		} `json:"summary"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if doc.Grammar != "extended" || doc.Summary.Total != 5 || doc.Summary.Accepted != 3 || doc.Summary.Rejected != 2 {
		t.Errorf("doc = %+v", doc)
	}
}
