package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/minic/config"
	"github.com/dhamidi/minic/ll1"
)

const version = "0.1.0"

var log = commonlog.GetLogger("minic.cli")

// exitError carries a process exit status out of a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

type app struct {
	configPath string
	verbose    int
	cfg        *config.Config
}

func main() {
	rootCmd := newRootCmd(&app{})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "minic:", err)
		var exit *exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "minic",
		Short:         "Table-driven LL(1) recognizer for a small C subset",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ./minic.toml, ./minic.yaml or $"+config.EnvVar+")")
	rootCmd.PersistentFlags().CountVarP(&a.verbose, "verbose", "v", "increase log verbosity (repeatable)")

	rootCmd.AddCommand(newTokensCmd(a))
	rootCmd.AddCommand(newCheckCmd(a))
	rootCmd.AddCommand(newClassifyCmd(a))
	rootCmd.AddCommand(newASTCmd(a))
	rootCmd.AddCommand(newGrammarCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))
	rootCmd.AddCommand(newLSPCmd(a))

	return rootCmd
}

func (a *app) setup() error {
	var err error
	if a.configPath != "" {
		a.cfg, err = config.Load(a.configPath)
	} else {
		a.cfg, err = config.LoadDefault()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	verbosity := a.cfg.Log.Verbosity + a.verbose
	var path *string
	if a.cfg.Log.File != "" {
		path = &a.cfg.Log.File
	}
	commonlog.Configure(verbosity, path)

	if p := a.cfg.Path(); p != "" {
		log.Debugf("loaded config from %s", p)
	}
	return nil
}

// grammar resolves a --grammar flag, falling back to the configured grammar.
func (a *app) grammar(flag string) (ll1.Grammar, error) {
	if flag == "" {
		return a.cfg.GrammarValue(), nil
	}
	return ll1.ParseGrammar(flag)
}

func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read source: %w", err)
	}
	return string(data), nil
}

// printErrors writes each error of a joined or list-valued error on its own
// line.
func printErrors(w io.Writer, err error) {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			printErrors(w, e)
		}
		return
	}
	v := reflect.ValueOf(err)
	if v.Kind() == reflect.Slice {
		for i := 0; i < v.Len(); i++ {
			fmt.Fprintln(w, v.Index(i).Interface())
		}
	} else {
		fmt.Fprintln(w, err)
	}
}
