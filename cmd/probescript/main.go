// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.

// Command probescript runs probescript programs.
//
// Usage:
//
//	probescript [global flags] [repl]            interactive shell
//	probescript [global flags] run <file>        evaluate a source file
//	probescript [global flags] eval <source>     evaluate source given inline
//	probescript [global flags] tokens <file>     print the token stream
//	probescript [global flags] ast [--raw] <file> print the syntax tree
//	probescript [global flags] dumpconfig        print the effective config
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/urfave/cli.v1"

	"github.com/probechain/probescript/integration"
	"github.com/probechain/probescript/lang/value"
	"github.com/probechain/probescript/log"
)

const version = "0.1.0"

var (
	red  = color.New(color.FgRed).SprintFunc()
	cyan = color.New(color.FgCyan).SprintFunc()
)

var app = newApp()

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "probescript"
	app.Usage = "the probescript interpreter"
	app.Version = version
	app.Action = shell
	app.Flags = []cli.Flag{
		configFileFlag,
		verbosityFlag,
		noColorFlag,
		cacheSizeFlag,
		maxDepthFlag,
		maxIterationsFlag,
	}
	app.Commands = []cli.Command{
		runCommand,
		evalCommand,
		replCommand,
		tokensCommand,
		astCommand,
		dumpConfigCommand,
	}
	app.Before = func(ctx *cli.Context) error {
		cfg, err := makeConfig(ctx)
		if err != nil {
			return err
		}
		setupOutput(cfg.Shell)
		return nil
	}
	return app
}

var (
	runCommand = cli.Command{
		Action:    runFile,
		Name:      "run",
		Usage:     "Evaluate a source file and print its result",
		ArgsUsage: "<file>",
	}
	evalCommand = cli.Command{
		Action:    evalSource,
		Name:      "eval",
		Usage:     "Evaluate source given on the command line",
		ArgsUsage: "<source>",
	}
	replCommand = cli.Command{
		Action: shell,
		Name:   "repl",
		Usage:  "Start an interactive shell (default)",
	}
)

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		os.Exit(1)
	}
}

// setupOutput configures the root log handler and terminal colors.
func setupOutput(cfg shellConfig) {
	if cfg.NoColor {
		color.NoColor = true
	}
	log.Root().SetHandler(log.TerminalHandler(log.Lvl(cfg.Verbosity), !cfg.NoColor))
}

// newEngine builds an engine from the effective configuration.
func newEngine(ctx *cli.Context) (*integration.Engine, probescriptConfig, error) {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return nil, cfg, err
	}
	eng, err := integration.New(cfg.Engine)
	if err != nil {
		return nil, cfg, err
	}
	log.Debug("Engine ready", "session", eng.ID())
	return eng, cfg, nil
}

func runFile(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.NewExitError("usage: probescript run <file>", 2)
	}
	src, err := os.ReadFile(ctx.Args().First())
	if err != nil {
		return cli.NewExitError(red(err.Error()), 1)
	}
	return evalAndPrint(ctx, string(src))
}

func evalSource(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return cli.NewExitError("usage: probescript eval <source>", 2)
	}
	return evalAndPrint(ctx, strings.Join(ctx.Args(), " "))
}

func evalAndPrint(ctx *cli.Context, src string) error {
	eng, _, err := newEngine(ctx)
	if err != nil {
		return cli.NewExitError(red(err.Error()), 1)
	}
	v, err := eng.Eval(src)
	if err != nil {
		return cli.NewExitError(red(err.Error()), 1)
	}
	fmt.Println(render(eng, v))
	return nil
}

// render prints v, highlighting everything but null.
func render(eng *integration.Engine, v value.Value) string {
	s := eng.Print(v)
	if v == nil || v.Kind() == value.KindNull {
		return s
	}
	return cyan(s)
}
