package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dhamidi/minic/classify"
	"github.com/dhamidi/minic/config"
)

func newClassifyCmd(a *app) *cobra.Command {
	var grammarName string
	var exts []string
	var timeout time.Duration
	var format string

	cmd := &cobra.Command{
		Use:   "classify [dir]",
		Short: "Recognize every matching file below a directory and report the verdicts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.grammar(grammarName)
			if err != nil {
				return err
			}
			dir := a.cfg.Dir
			if len(args) == 1 {
				dir = args[0]
			}
			if len(exts) == 0 {
				exts = a.cfg.Extensions
			}
			if timeout == 0 {
				timeout = a.cfg.Timeout.Duration
			}
			if format == "" {
				format = a.cfg.Format
			}
			if !slices.Contains(config.Formats, format) {
				return fmt.Errorf("unknown format %q, want one of %s", format, strings.Join(config.Formats, ", "))
			}

			info, err := os.Stat(dir)
			if err != nil || !info.IsDir() {
				if err == nil {
					err = &fs.PathError{Op: "classify", Path: dir, Err: errors.New("not a directory")}
				}
				return &exitError{code: 2, err: fmt.Errorf("directory %s is not usable: %w", dir, err)}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			runner := &classify.Runner{
				Grammar:  g,
				Timeout:  timeout,
				Progress: cmd.ErrOrStderr(),
			}
			report, runErr := runner.Run(ctx, dir, exts)
			if report == nil {
				return runErr
			}
			if err := classify.Encode(cmd.OutOrStdout(), report, format); err != nil {
				return fmt.Errorf("encode report: %w", err)
			}
			return runErr
		},
	}

	cmd.Flags().StringVar(&grammarName, "grammar", "", "grammar to classify with: minimal or extended (default from config)")
	cmd.Flags().StringSliceVarP(&exts, "ext", "e", nil, "file extension to include (repeatable, default from config)")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 0, "timeout per file (default from config)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "report format: table, json or yaml (default from config)")

	return cmd
}
