package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/minic/diag"
	"github.com/dhamidi/minic/earley"
	"github.com/dhamidi/minic/ll1"
)

func newCheckCmd(a *app) *cobra.Command {
	var grammarName string
	var trace bool
	var crossCheck bool

	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "Recognize source files and report the first error of each",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.grammar(grammarName)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			rejected := 0
			for _, filename := range args {
				src, err := readSource(filename)
				if err != nil {
					return err
				}
				opts := []ll1.Option{ll1.WithFile(filename)}
				if trace {
					opts = append(opts, ll1.WithTrace(traceWriter(out)))
				}
				err = ll1.Recognize(g, src, opts...)
				if crossCheck {
					if msg := disagreement(err, earley.Recognize(g, src, filename)); msg != "" {
						log.Errorf("%s: %s", filename, msg)
						return fmt.Errorf("%s: %s", filename, msg)
					}
				}
				if err != nil {
					log.Infof("%s: rejected: %s", filename, diag.Summary(err))
					fmt.Fprint(out, diag.Snippet(err, filename, src))
					rejected++
					continue
				}
				fmt.Fprintf(out, "%s: accepted by the %s grammar\n", filename, g)
			}

			if rejected > 0 {
				return &exitError{code: 1, err: fmt.Errorf("%d of %d files rejected", rejected, len(args))}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&grammarName, "grammar", "", "grammar to check against: minimal or extended (default from config)")
	cmd.Flags().BoolVar(&trace, "trace", false, "print every engine step")
	cmd.Flags().BoolVar(&crossCheck, "earley", false, "also run the Earley recognizer and fail if the verdicts differ")

	return cmd
}

// disagreement describes how the predictive and chart verdicts differ, or
// returns "" when they agree on acceptance and error position.
func disagreement(predictive, chart error) string {
	if (predictive == nil) != (chart == nil) {
		return fmt.Sprintf("predictive parser says %v, Earley recognizer says %v", verdict(predictive), verdict(chart))
	}
	if predictive == nil {
		return ""
	}
	pp, _ := diag.Locate(predictive)
	cp, _ := diag.Locate(chart)
	if pp != cp {
		return fmt.Sprintf("predictive parser stops at %s, Earley recognizer at %s", pp, cp)
	}
	return ""
}

func verdict(err error) string {
	if err == nil {
		return "accepted"
	}
	return "rejected (" + err.Error() + ")"
}

func traceWriter(w io.Writer) func(ll1.Step) {
	return func(step ll1.Step) {
		stack := make([]string, len(step.Stack))
		for i, s := range step.Stack {
			stack[i] = s.String()
		}
		action := step.Action.String()
		if step.Action == ll1.ActionExpand {
			action = fmt.Sprintf("%s %s -> %s", action, step.Top, step.Production)
		}
		fmt.Fprintf(w, "%-48s %-14s %s\n", strings.Join(stack, " "), step.Lookahead.Kind, action)
	}
}
