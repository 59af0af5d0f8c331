package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"sigil/pkg/config"
	"sigil/pkg/driver"
	"sigil/pkg/errors"
)

func runREPL(session *driver.Sigil, cfg config.Config) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	if cfg.HistoryFile != "" {
		if f, err := os.Open(cfg.HistoryFile); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
	}

	banner := color.New(color.FgCyan)
	banner.Fprintln(os.Stdout, "sigil repl (ctrl-d to exit)")

	for {
		input, err := line.Prompt(cfg.Prompt)
		if err == liner.ErrPromptAborted {
			continue
		}
		if err != nil {
			break
		}
		if strings.TrimSpace(input) == "" {
			continue
		}
		line.AppendHistory(input)

		value, errs := session.RunCode(input)
		if len(errs) > 0 {
			errors.DisplayErrors(os.Stderr, input, errs)
			continue
		}
		session.DisplayResult(os.Stdout, value)
	}

	if cfg.HistoryFile != "" {
		if f, err := os.Create(cfg.HistoryFile); err == nil {
			line.WriteHistory(f)
			f.Close()
		} else {
			fmt.Fprintf(os.Stderr, "could not save history: %s\n", err)
		}
	}
	return nil
}
