package ll1

import (
	"fmt"

	"github.com/dhamidi/minic/lexer"
)

// alternative is one production together with the lookaheads that select it.
type alternative struct {
	prod Production
	on   []lexer.Kind
}

func when(prod Production, on ...[]lexer.Kind) alternative {
	return alternative{prod: prod, on: union(on...)}
}

func seq(syms ...Symbol) Production {
	return Production(syms)
}

var empty = seq(Epsilon)

func kinds(ks ...lexer.Kind) []lexer.Kind {
	return ks
}

func union(sets ...[]lexer.Kind) []lexer.Kind {
	var out []lexer.Kind
	for _, s := range sets {
		out = append(out, s...)
	}
	return out
}

// row panics on a repeated lookahead: two entries for one cell would make
// the table ambiguous.
func row(nt NonTerminal, alts ...alternative) map[lexer.Kind]Production {
	r := make(map[lexer.Kind]Production)
	for _, alt := range alts {
		for _, k := range alt.on {
			if prev, ok := r[k]; ok {
				panic(fmt.Sprintf("ll1: %s on %s maps to both %q and %q", nt, terminalName(k), prev, alt.prod))
			}
			r[k] = alt.prod
		}
	}
	return r
}

type rule struct {
	nt   NonTerminal
	alts []alternative
}

func newTable(name string, start NonTerminal, rules ...rule) *Table {
	t := &Table{name: name, start: start, rows: make(map[NonTerminal]map[lexer.Kind]Production)}
	for _, r := range rules {
		t.rows[r.nt] = row(r.nt, r.alts...)
	}
	return t
}

func def(nt NonTerminal, alts ...alternative) rule {
	return rule{nt: nt, alts: alts}
}

// Shorthands for terminals used in productions.
var (
	tPREPROC = T(lexer.PREPROC)
	tINT     = T(lexer.INT)
	tTYPE    = T(lexer.TYPE)
	tMAIN    = T(lexer.MAIN)
	tRETURN  = T(lexer.RETURN)
	tIF      = T(lexer.IF)
	tELSE    = T(lexer.ELSE)
	tWHILE   = T(lexer.WHILE)
	tFOR     = T(lexer.FOR)
	tPRINTF  = T(lexer.PRINTF)
	tID      = T(lexer.ID)
	tNUM     = T(lexer.NUM)
	tSTR     = T(lexer.STR)
	tCHR     = T(lexer.CHR)
	tEQ      = T(lexer.EQ)
	tPLUS    = T(lexer.PLUS)
	tMIN     = T(lexer.MIN)
	tMUL     = T(lexer.MUL)
	tDIV     = T(lexer.DIV)
	tLP      = T(lexer.LP)
	tRP      = T(lexer.RP)
	tLB      = T(lexer.LB)
	tRB      = T(lexer.RB)
	tLBR     = T(lexer.LBR)
	tRBR     = T(lexer.RBR)
	tSC      = T(lexer.SC)
	tCOMMA   = T(lexer.COMMA)
)

// Lookahead sets shared by both tables.
var (
	exprStart = kinds(lexer.ID, lexer.NUM, lexer.LP)
	relOps    = kinds(lexer.LT, lexer.LE, lexer.GT, lexer.GE, lexer.EQEQ, lexer.NEQ)
)

// arithmetic returns the shared expression sub-grammar. followExpr is what
// may follow a complete expression in the enclosing grammar.
func arithmetic(followExpr []lexer.Kind) []rule {
	followTerm := union(kinds(lexer.PLUS, lexer.MIN), followExpr)
	return []rule{
		def(Expr,
			when(seq(N(Term), N(ExprP)), exprStart)),
		def(ExprP,
			when(seq(tPLUS, N(Term), N(ExprP)), kinds(lexer.PLUS)),
			when(seq(tMIN, N(Term), N(ExprP)), kinds(lexer.MIN)),
			when(empty, followExpr)),
		def(Term,
			when(seq(N(Factor), N(TermP)), exprStart)),
		def(TermP,
			when(seq(tMUL, N(Factor), N(TermP)), kinds(lexer.MUL)),
			when(seq(tDIV, N(Factor), N(TermP)), kinds(lexer.DIV)),
			when(empty, followTerm)),
		def(Factor,
			when(seq(tID), kinds(lexer.ID)),
			when(seq(tNUM), kinds(lexer.NUM)),
			when(seq(tLP, N(Expr), tRP), kinds(lexer.LP))),
	}
}

// newMinimalTable covers declarations, assignments and arithmetic:
//
//	Program  -> Stmt StmtList
//	StmtList -> Stmt StmtList | ε
//	Stmt     -> Decl SC | Assign SC
//	Decl     -> TYPE ID
//	Assign   -> ID EQ Expr
func newMinimalTable() *Table {
	stmtStart := kinds(lexer.TYPE, lexer.ID)
	rules := []rule{
		def(Program,
			when(seq(N(Stmt), N(StmtList)), stmtStart)),
		def(StmtList,
			when(seq(N(Stmt), N(StmtList)), stmtStart),
			when(empty, kinds(lexer.EOF))),
		def(Stmt,
			when(seq(N(Decl), tSC), kinds(lexer.TYPE)),
			when(seq(N(Assign), tSC), kinds(lexer.ID))),
		def(Decl,
			when(seq(tTYPE, tID), kinds(lexer.TYPE))),
		def(Assign,
			when(seq(tID, tEQ, N(Expr)), kinds(lexer.ID))),
	}
	rules = append(rules, arithmetic(kinds(lexer.SC, lexer.RP))...)
	return newTable("minimal", Program, rules...)
}

// newExtendedTable builds the canonical grammar listed in the package
// documentation. Each ε entry is keyed by the FOLLOW set of its row.
func newExtendedTable() *Table {
	looseStart := kinds(lexer.TYPE, lexer.ID, lexer.RETURN, lexer.IF, lexer.WHILE, lexer.FOR, lexer.LB, lexer.PRINTF)
	stmtStart := union(kinds(lexer.INT), looseStart)
	followStmt := union(stmtStart, kinds(lexer.RB, lexer.EOF))
	followExpr := union(kinds(lexer.RP, lexer.SC, lexer.COMMA), relOps)

	rules := []rule{
		def(Program,
			when(seq(N(PreprocList), N(Unit)), kinds(lexer.PREPROC), stmtStart)),
		def(PreprocList,
			when(seq(tPREPROC, N(PreprocList)), kinds(lexer.PREPROC)),
			when(empty, stmtStart)),
		def(Unit,
			when(seq(tINT, N(IntUnit)), kinds(lexer.INT)),
			when(seq(N(LooseStmt), N(StmtList)), looseStart)),
		def(IntUnit,
			when(seq(tMAIN, tLP, tRP, N(Block)), kinds(lexer.MAIN)),
			when(seq(tID, N(DeclTail), tSC, N(StmtList)), kinds(lexer.ID))),
		def(LooseStmt,
			when(seq(tTYPE, tID, N(DeclTail), tSC), kinds(lexer.TYPE)),
			when(seq(N(Assign), tSC), kinds(lexer.ID)),
			when(seq(N(ReturnStmt)), kinds(lexer.RETURN)),
			when(seq(N(IfStmt)), kinds(lexer.IF)),
			when(seq(N(WhileStmt)), kinds(lexer.WHILE)),
			when(seq(N(ForStmt)), kinds(lexer.FOR)),
			when(seq(N(Block)), kinds(lexer.LB)),
			when(seq(N(PrintStmt)), kinds(lexer.PRINTF))),
		def(StmtList,
			when(seq(N(Stmt), N(StmtList)), stmtStart),
			when(empty, kinds(lexer.RB, lexer.EOF))),
		def(Stmt,
			when(seq(N(Decl), tSC), kinds(lexer.INT, lexer.TYPE)),
			when(seq(N(Assign), tSC), kinds(lexer.ID)),
			when(seq(N(ReturnStmt)), kinds(lexer.RETURN)),
			when(seq(N(IfStmt)), kinds(lexer.IF)),
			when(seq(N(WhileStmt)), kinds(lexer.WHILE)),
			when(seq(N(ForStmt)), kinds(lexer.FOR)),
			when(seq(N(Block)), kinds(lexer.LB)),
			when(seq(N(PrintStmt)), kinds(lexer.PRINTF))),
		def(Block,
			when(seq(tLB, N(StmtList), tRB), kinds(lexer.LB))),
		def(Decl,
			when(seq(tINT, tID, N(DeclTail)), kinds(lexer.INT)),
			when(seq(tTYPE, tID, N(DeclTail)), kinds(lexer.TYPE))),
		def(DeclTail,
			when(seq(tEQ, N(Value)), kinds(lexer.EQ)),
			when(seq(tLBR, N(ArraySize), tRBR, N(ArrayInit)), kinds(lexer.LBR)),
			when(empty, kinds(lexer.SC))),
		def(ArraySize,
			when(seq(tNUM), kinds(lexer.NUM)),
			when(empty, kinds(lexer.RBR))),
		def(ArrayInit,
			when(seq(tEQ, N(Value)), kinds(lexer.EQ)),
			when(empty, kinds(lexer.SC))),
		def(Value,
			when(seq(N(Expr)), exprStart),
			when(seq(tSTR), kinds(lexer.STR)),
			when(seq(tCHR), kinds(lexer.CHR))),
		def(Assign,
			when(seq(tID, tEQ, N(Value)), kinds(lexer.ID))),
		def(ReturnStmt,
			when(seq(tRETURN, N(ReturnValue), tSC), kinds(lexer.RETURN))),
		def(ReturnValue,
			when(seq(N(Expr)), exprStart),
			when(empty, kinds(lexer.SC))),
		def(IfStmt,
			when(seq(tIF, tLP, N(Bool), tRP, N(Stmt), N(ElseOpt)), kinds(lexer.IF))),
		// ELSE is also in FOLLOW(ElseOpt); the entry binds it to the nearest IF.
		def(ElseOpt,
			when(seq(tELSE, N(Stmt)), kinds(lexer.ELSE)),
			when(empty, followStmt)),
		def(WhileStmt,
			when(seq(tWHILE, tLP, N(Bool), tRP, N(Stmt)), kinds(lexer.WHILE))),
		def(ForStmt,
			when(seq(tFOR, tLP, N(ForInit), tSC, N(ForCond), tSC, N(ForStep), tRP, N(Stmt)), kinds(lexer.FOR))),
		def(ForInit,
			when(seq(N(Decl)), kinds(lexer.INT, lexer.TYPE)),
			when(seq(N(Assign)), kinds(lexer.ID)),
			when(empty, kinds(lexer.SC))),
		def(ForCond,
			when(seq(N(Bool)), exprStart),
			when(empty, kinds(lexer.SC))),
		def(ForStep,
			when(seq(N(Assign)), kinds(lexer.ID)),
			when(empty, kinds(lexer.RP))),
		def(PrintStmt,
			when(seq(tPRINTF, tLP, tSTR, N(ArgList), tRP, tSC), kinds(lexer.PRINTF))),
		def(ArgList,
			when(seq(tCOMMA, N(Value), N(ArgList)), kinds(lexer.COMMA)),
			when(empty, kinds(lexer.RP))),
		def(Bool,
			when(seq(N(Expr), N(RelP)), exprStart)),
		def(RelP,
			when(seq(T(lexer.LT), N(Expr)), kinds(lexer.LT)),
			when(seq(T(lexer.LE), N(Expr)), kinds(lexer.LE)),
			when(seq(T(lexer.GT), N(Expr)), kinds(lexer.GT)),
			when(seq(T(lexer.GE), N(Expr)), kinds(lexer.GE)),
			when(seq(T(lexer.EQEQ), N(Expr)), kinds(lexer.EQEQ)),
			when(seq(T(lexer.NEQ), N(Expr)), kinds(lexer.NEQ)),
			when(empty, kinds(lexer.RP, lexer.SC))),
	}
	rules = append(rules, arithmetic(followExpr)...)
	return newTable("extended", Program, rules...)
}
