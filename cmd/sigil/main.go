// Command sigil runs Sigil scripts and hosts an interactive REPL.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"sigil/pkg/config"
	"sigil/pkg/driver"
	"sigil/pkg/errors"
)

func main() {
	var evalSrc string
	var logLevel string

	rootCmd := &cobra.Command{
		Use:   "sigil [file]",
		Short: "Sigil language interpreter",
		Long:  "Runs a Sigil script, evaluates an expression with -e, or starts a REPL.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Discover(afero.NewOsFs())
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			if !cfg.Color || !isatty.IsTerminal(os.Stdout.Fd()) {
				color.NoColor = true
			}

			session := driver.NewSigil(driver.WithLogLevel(cfg.LogLevel))

			switch {
			case evalSrc != "":
				return runSource(session, evalSrc)
			case len(args) == 1:
				return runFile(session, args[0])
			default:
				return runREPL(session, cfg)
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.Flags().StringVarP(&evalSrc, "eval", "e", "", "evaluate the given source and print the result")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runSource(session *driver.Sigil, src string) error {
	value, errs := session.RunCode(src)
	if len(errs) > 0 {
		errors.DisplayErrors(os.Stderr, src, errs)
		return fmt.Errorf("evaluation failed")
	}
	session.DisplayResult(os.Stdout, value)
	return nil
}

func runFile(session *driver.Sigil, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	src := string(data)
	_, errs := session.RunCode(src)
	if len(errs) > 0 {
		errors.DisplayErrors(os.Stderr, src, errs)
		return fmt.Errorf("%s: evaluation failed", path)
	}
	return nil
}
