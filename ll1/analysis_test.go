package ll1

import (
	"slices"
	"strings"
	"testing"

	"github.com/dhamidi/minic/lexer"
)

func TestBuiltinTablesVerify(t *testing.T) {
	for _, g := range Grammars() {
		t.Run(g.String(), func(t *testing.T) {
			if err := Verify(g.Table()); err != nil {
				t.Fatalf("Verify:\n%v", err)
			}
		})
	}
}

func TestDanglingElseIsTheOnlyConflict(t *testing.T) {
	if c := Analyze(Minimal.Table()).Conflicts; len(c) != 0 {
		t.Errorf("minimal conflicts = %v, want none", c)
	}

	conflicts := Analyze(Extended.Table()).Conflicts
	if len(conflicts) != 1 {
		t.Fatalf("extended conflicts = %v, want exactly one", conflicts)
	}
	c := conflicts[0]
	if c.NonTerminal != ElseOpt || c.Lookahead != lexer.ELSE {
		t.Errorf("conflict at %s on %s, want ElseOpt on ELSE", c.NonTerminal, c.Lookahead)
	}
	if !c.Chosen.equal(seq(tELSE, N(Stmt))) {
		t.Errorf("chosen = %q, want ELSE Stmt", c.Chosen)
	}
}

func TestFirstAndFollow(t *testing.T) {
	tests := []struct {
		grammar Grammar
		nt      NonTerminal
		first   []lexer.Kind
		follow  []lexer.Kind
	}{
		{Minimal, Expr, []lexer.Kind{lexer.ID, lexer.LP, lexer.NUM}, []lexer.Kind{lexer.RP, lexer.SC}},
		{Minimal, StmtList, []lexer.Kind{lexer.ID, lexer.TYPE}, []lexer.Kind{lexer.EOF}},
		{Extended, Expr, []lexer.Kind{lexer.ID, lexer.LP, lexer.NUM},
			[]lexer.Kind{lexer.COMMA, lexer.EQEQ, lexer.GE, lexer.GT, lexer.LE, lexer.LT, lexer.NEQ, lexer.RP, lexer.SC}},
		{Extended, DeclTail, []lexer.Kind{lexer.EQ, lexer.LBR}, []lexer.Kind{lexer.SC}},
		{Extended, ArgList, []lexer.Kind{lexer.COMMA}, []lexer.Kind{lexer.RP}},
	}
	for _, tt := range tests {
		t.Run(tt.grammar.String()+"/"+tt.nt.String(), func(t *testing.T) {
			a := Analyze(tt.grammar.Table())
			if !slices.Equal(a.First[tt.nt], tt.first) {
				t.Errorf("FIRST = %v, want %v", a.First[tt.nt], tt.first)
			}
			if !slices.Equal(a.Follow[tt.nt], tt.follow) {
				t.Errorf("FOLLOW = %v, want %v", a.Follow[tt.nt], tt.follow)
			}
		})
	}
}

func TestFollowOfStmtIncludesElse(t *testing.T) {
	a := Analyze(Extended.Table())
	if !slices.Contains(a.Follow[Stmt], lexer.ELSE) {
		t.Errorf("FOLLOW(Stmt) = %v, want it to contain ELSE", a.Follow[Stmt])
	}
	if !a.Nullable[ElseOpt] || a.Nullable[Stmt] {
		t.Errorf("nullable ElseOpt=%v Stmt=%v", a.Nullable[ElseOpt], a.Nullable[Stmt])
	}
}

func TestVerifyFindsBrokenTables(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Table)
		want   string
	}{
		{
			name:   "missing epsilon entry",
			mutate: func(t *Table) { delete(t.rows[ExprP], lexer.SC) },
			want:   "ExprP on SC: missing entry",
		},
		{
			name:   "entry outside prediction",
			mutate: func(t *Table) { t.rows[Factor][lexer.PLUS] = seq(tNUM) },
			want:   "Factor on PLUS",
		},
		{
			name:   "undefined non-terminal",
			mutate: func(t *Table) { t.rows[Stmt][lexer.TYPE] = seq(N(Block), tSC) },
			want:   "uses Block, which has no row",
		},
		{
			name: "unreachable row",
			mutate: func(t *Table) {
				t.rows[WhileStmt] = row(WhileStmt, when(seq(tWHILE), kinds(lexer.WHILE)))
			},
			want: "WhileStmt: unreachable",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := newMinimalTable()
			tt.mutate(table)
			err := Verify(table)
			if err == nil {
				t.Fatal("Verify = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Verify = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestTableString(t *testing.T) {
	s := Minimal.Table().String()
	for _, line := range []string{
		"Program, ID -> Stmt StmtList",
		"StmtList, $ -> ε",
		"Factor, LP -> LP Expr RP",
	} {
		if !strings.Contains(s, line+"\n") {
			t.Errorf("table listing lacks %q", line)
		}
	}
}
