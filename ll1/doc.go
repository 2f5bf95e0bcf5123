// Package ll1 recognizes programs of a small C-like language with a
// table-driven predictive parser.
//
// Two grammars share one engine. The extended grammar is canonical:
//
//	Program     -> PreprocList Unit
//	PreprocList -> PREPROC PreprocList | ε
//	Unit        -> INT IntUnit | LooseStmt StmtList
//	IntUnit     -> MAIN LP RP Block | ID DeclTail SC StmtList
//	LooseStmt   -> TYPE ID DeclTail SC | Assign SC | ReturnStmt | IfStmt
//	             | WhileStmt | ForStmt | Block | PrintStmt
//	StmtList    -> Stmt StmtList | ε
//	Stmt        -> Decl SC | Assign SC | ReturnStmt | IfStmt | WhileStmt
//	             | ForStmt | Block | PrintStmt
//	Block       -> LB StmtList RB
//	Decl        -> INT ID DeclTail | TYPE ID DeclTail
//	DeclTail    -> EQ Value | LBR ArraySize RBR ArrayInit | ε
//	ArraySize   -> NUM | ε
//	ArrayInit   -> EQ Value | ε
//	Value       -> Expr | STR | CHR
//	Assign      -> ID EQ Value
//	ReturnStmt  -> RETURN ReturnValue SC
//	ReturnValue -> Expr | ε
//	IfStmt      -> IF LP Bool RP Stmt ElseOpt
//	ElseOpt     -> ELSE Stmt | ε
//	WhileStmt   -> WHILE LP Bool RP Stmt
//	ForStmt     -> FOR LP ForInit SC ForCond SC ForStep RP Stmt
//	ForInit     -> Decl | Assign | ε
//	ForCond     -> Bool | ε
//	ForStep     -> Assign | ε
//	PrintStmt   -> PRINTF LP STR ArgList RP SC
//	ArgList     -> COMMA Value ArgList | ε
//	Bool        -> Expr RelP
//	RelP        -> (LT | LE | GT | GE | EQEQ | NEQ) Expr | ε
//	Expr        -> Term ExprP
//	ExprP       -> PLUS Term ExprP | MIN Term ExprP | ε
//	Term        -> Factor TermP
//	TermP       -> MUL Factor TermP | DIV Factor TermP | ε
//	Factor      -> ID | NUM | LP Expr RP
//
// A program is either a main function, optionally preceded by include
// lines, or a non-empty list of statements. The only cell with two
// candidate productions is ElseOpt on ELSE, which the table resolves to
// ELSE Stmt so an else binds to the nearest if.
//
// The minimal grammar keeps declarations, assignments and arithmetic:
//
//	Program  -> Stmt StmtList
//	StmtList -> Stmt StmtList | ε
//	Stmt     -> Decl SC | Assign SC
//	Decl     -> TYPE ID
//	Assign   -> ID EQ Expr
//
// with the same Expr sub-grammar. Every program accepted by Minimal is
// accepted by Extended.
//
// Tables are built by hand. Analyze recomputes FIRST and FOLLOW from a
// table's own productions and reports any cell that disagrees with them.
package ll1
