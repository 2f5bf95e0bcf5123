package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/minic/ast"
	"github.com/dhamidi/minic/diag"
)

func newASTCmd(a *app) *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "ast <file>",
		Short: "Build and print the syntax tree of a minimal-grammar program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			src, err := readSource(filename)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			prog, err := ast.ParseSource(src)
			if err != nil {
				fmt.Fprint(out, diag.Snippet(err, filename, src))
				return &exitError{code: 1, err: err}
			}

			switch outputFormat {
			case "json":
				if err := ast.NewJSONEncoder(out).Encode(prog); err != nil {
					return fmt.Errorf("encode json: %w", err)
				}
			case "sexp":
				fmt.Fprintln(out, prog)
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "sexp", "output format (json, sexp)")

	return cmd
}
