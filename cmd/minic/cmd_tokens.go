package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/minic/diag"
	"github.com/dhamidi/minic/lexer"
)

func newTokensCmd(a *app) *cobra.Command {
	var grammarName string
	var trivia bool

	cmd := &cobra.Command{
		Use:   "tokens <file>",
		Short: "Print the token stream of a source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.grammar(grammarName)
			if err != nil {
				return err
			}
			filename := args[0]
			src, err := readSource(filename)
			if err != nil {
				return err
			}

			opts := []lexer.Option{lexer.WithFile(filename)}
			if trivia {
				opts = append(opts, lexer.WithTrivia())
			}
			out := cmd.OutOrStdout()
			for tok, err := range lexer.All(src, g.Lexicon(), opts...) {
				if err != nil {
					fmt.Fprint(out, diag.Snippet(err, filename, src))
					return &exitError{code: 1, err: err}
				}
				fmt.Fprintln(out, tok)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&grammarName, "grammar", "", "lexicon to use: minimal or extended (default from config)")
	cmd.Flags().BoolVar(&trivia, "trivia", false, "include whitespace, newlines and comments")

	return cmd
}
