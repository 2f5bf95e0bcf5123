package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/minic/ll1"
)

func newGrammarCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grammar",
		Short: "Inspect and verify grammars",
	}

	cmd.AddCommand(newGrammarShowCmd(a))
	cmd.AddCommand(newGrammarCheckCmd(a))

	return cmd
}

func newGrammarShowCmd(a *app) *cobra.Command {
	var grammarName string
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print a built-in grammar as EBNF or as its predictive table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.grammar(grammarName)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch outputFormat {
			case "ebnf":
				fmt.Fprint(out, g.EBNF())
			case "table":
				fmt.Fprint(out, g.Table())
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&grammarName, "grammar", "", "grammar to print: minimal or extended (default from config)")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "ebnf", "output format (ebnf, table)")

	return cmd
}

func newGrammarCheckCmd(a *app) *cobra.Command {
	var startProduction string

	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Verify the built-in tables, or parse and verify an EBNF grammar file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				return checkEBNFFile(cmd, args[0], startProduction)
			}

			failed := false
			for _, g := range ll1.Grammars() {
				t := g.Table()
				analysis := ll1.Analyze(t)
				if err := ll1.Verify(t); err != nil {
					fmt.Fprintf(out, "%s: table does not match its productions\n", g)
					printErrors(out, err)
					failed = true
					continue
				}
				if err := g.VerifyEBNF(); err != nil {
					fmt.Fprintf(out, "%s: EBNF rendering is invalid\n", g)
					printErrors(out, err)
					failed = true
					continue
				}
				if err := g.VerifyLexicon(); err != nil {
					fmt.Fprintf(out, "%s: EBNF lexical productions disagree with the scanner\n", g)
					printErrors(out, err)
					failed = true
					continue
				}
				fmt.Fprintf(out, "%s: ok, %d non-terminals, %d terminals\n", g, len(t.NonTerminals()), len(t.Terminals()))
				for _, c := range analysis.Conflicts {
					fmt.Fprintf(out, "  resolved %s\n", c)
				}
			}
			if failed {
				return &exitError{code: 1, err: fmt.Errorf("grammar verification failed")}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&startProduction, "start", "", "start production for verification of a file (if empty, only checks syntax)")

	return cmd
}

func checkEBNFFile(cmd *cobra.Command, filename, start string) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	grammar, err := ebnf.Parse(filename, f)
	if err != nil {
		printErrors(cmd.OutOrStdout(), err)
		return &exitError{code: 1, err: fmt.Errorf("parse %s: invalid grammar", filename)}
	}

	if start != "" {
		if err := ebnf.Verify(grammar, start); err != nil {
			printErrors(cmd.OutOrStdout(), err)
			return &exitError{code: 1, err: fmt.Errorf("verify %s: invalid grammar", filename)}
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: ok, %d productions\n", filename, len(grammar))
	return nil
}
