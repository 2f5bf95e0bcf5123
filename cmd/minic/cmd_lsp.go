package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/minic/lsp"
)

func newLSPCmd(a *app) *cobra.Command {
	var grammarName string

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.grammar(grammarName)
			if err != nil {
				return err
			}
			log.Infof("starting language server with the %s grammar", g)
			return lsp.NewServer(g, version).RunStdio()
		},
	}

	cmd.Flags().StringVar(&grammarName, "grammar", "", "grammar to check documents against (default from config)")

	return cmd
}
