// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"gopkg.in/urfave/cli.v1"

	"github.com/probechain/probescript/integration"
	"github.com/probechain/probescript/lang/lexer"
	"github.com/probechain/probescript/lang/parser"
	"github.com/probechain/probescript/log"
)

const (
	continuePrompt = "... "
	shellHelp      = `Commands:
  :help    Show this help
  :scope   List the names bound in the session scope
  :quit    Exit the shell`
)

// shell is the interactive read-eval-print loop. All input shares one
// engine, so definitions persist between lines.
func shell(ctx *cli.Context) error {
	eng, cfg, err := newEngine(ctx)
	if err != nil {
		return cli.NewExitError(red(err.Error()), 1)
	}
	fmt.Printf("probescript %s\nCtrl+C cancels input, Ctrl+D exits. Type :help for commands.\n", version)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := historyPath(cfg.Shell.HistoryFile)
	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			ln.ReadHistory(f)
			f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				ln.WriteHistory(f)
				f.Close()
			} else {
				log.Warn("Failed to save shell history", "path", histPath, "err", err)
			}
		}()
	}

	for {
		src, ok := readInput(ln, cfg.Shell.Prompt)
		if !ok {
			fmt.Println()
			return nil
		}
		input := strings.TrimSpace(src)
		if input == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))

		if strings.HasPrefix(input, ":") {
			if quit := shellCommandLine(eng, input); quit {
				return nil
			}
			continue
		}
		v, err := eng.Eval(src)
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			continue
		}
		fmt.Println(render(eng, v))
	}
}

// shellCommandLine handles a colon command and reports whether to exit.
func shellCommandLine(eng *integration.Engine, input string) bool {
	switch strings.ToLower(input) {
	case ":quit", ":exit":
		return true
	case ":help":
		fmt.Println(shellHelp)
	case ":scope":
		for _, name := range eng.Globals() {
			v, _ := eng.Lookup(name)
			fmt.Printf("%-16s %s\n", name, render(eng, v))
		}
	default:
		fmt.Println("unknown command. Type :help for a list.")
	}
	return false
}

// readInput reads lines until they form a complete program, or until the
// input is rejected for a reason more lines cannot fix. It returns false at
// end of input.
func readInput(ln *liner.State, prompt string) (string, bool) {
	var b strings.Builder
	for {
		p := prompt
		if b.Len() > 0 {
			p = continuePrompt
		}
		line, err := ln.Prompt(p)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			log.Error("Failed to read input", "err", err)
			return "", false
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		if _, err := parser.ParseSource(src); err == nil || !incomplete(err) {
			return src, true
		}
	}
}

// incomplete reports whether err was caused by the source ending early.
func incomplete(err error) bool {
	var lerr *lexer.Error
	if errors.As(err, &lerr) {
		return lerr.Msg == "unterminated string" ||
			strings.HasPrefix(lerr.Msg, "unexpected end of input")
	}
	var perr *parser.Error
	if errors.As(err, &perr) {
		return strings.HasSuffix(perr.Msg, "end of input")
	}
	return false
}

// historyPath places relative history files in the user's home directory.
func historyPath(file string) string {
	if file == "" || filepath.IsAbs(file) {
		return file
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, file)
}
