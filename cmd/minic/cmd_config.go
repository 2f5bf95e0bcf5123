package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/minic/config"
)

func newConfigCmd(a *app) *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var format config.Format
			switch outputFormat {
			case "toml":
				format = config.FormatTOML
			case "yaml":
				format = config.FormatYAML
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}
			data, err := a.cfg.Encode(format)
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			if p := a.cfg.Path(); p != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "# loaded from %s\n", p)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "toml", "output format (toml, yaml)")

	return cmd
}
