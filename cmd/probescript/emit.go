// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.

package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/davecgh/go-spew/spew"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/urfave/cli.v1"

	"github.com/probechain/probescript/lang/ast"
	"github.com/probechain/probescript/lang/lexer"
	"github.com/probechain/probescript/lang/parser"
	"github.com/probechain/probescript/lang/token"
)

var (
	rawFlag = cli.BoolFlag{
		Name:  "raw",
		Usage: "Dump the tree structure instead of its source form",
	}

	tokensCommand = cli.Command{
		Action:    emitTokens,
		Name:      "tokens",
		Usage:     "Print the token stream of a source file",
		ArgsUsage: "<file>",
		Category:  "DEBUG COMMANDS",
	}
	astCommand = cli.Command{
		Action:    emitAST,
		Name:      "ast",
		Usage:     "Print the syntax tree of a source file",
		ArgsUsage: "<file>",
		Flags:     []cli.Flag{rawFlag},
		Category:  "DEBUG COMMANDS",
		Description: `The ast command prints one statement per line, fully parenthesised.
With --raw the node structure is dumped instead.`,
	}
)

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	DisableMethods:          true,
	SortKeys:                true,
}

func readSource(ctx *cli.Context, command string) (string, error) {
	if ctx.NArg() != 1 {
		return "", cli.NewExitError(fmt.Sprintf("usage: probescript %s <file>", command), 2)
	}
	src, err := os.ReadFile(ctx.Args().First())
	if err != nil {
		return "", cli.NewExitError(red(err.Error()), 1)
	}
	return string(src), nil
}

func emitTokens(ctx *cli.Context) error {
	src, err := readSource(ctx, "tokens")
	if err != nil {
		return err
	}
	toks, err := lexer.Tokenize(src)
	if err != nil {
		return cli.NewExitError(red(syntaxError(err)), 1)
	}
	writeTokens(os.Stdout, toks)
	return nil
}

// writeTokens renders toks as a table, one row per token.
func writeTokens(w io.Writer, toks []token.Token) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Pos", "Type", "Literal"})
	table.SetAutoWrapText(false)
	for _, tok := range toks {
		lit := tok.Literal
		if tok.Type == token.STRING {
			lit = strconv.Quote(lit)
		}
		table.Append([]string{tok.Pos.String(), tok.Type.String(), lit})
	}
	table.Render()
}

func emitAST(ctx *cli.Context) error {
	src, err := readSource(ctx, "ast")
	if err != nil {
		return err
	}
	prog, err := parser.ParseSource(src)
	if err != nil {
		return cli.NewExitError(red(syntaxError(err)), 1)
	}
	writeAST(os.Stdout, prog, ctx.Bool(rawFlag.Name))
	return nil
}

func writeAST(w io.Writer, prog *ast.StatementBlock, raw bool) {
	if raw {
		dumper.Fdump(w, prog)
		return
	}
	for _, stmt := range prog.Statements {
		fmt.Fprintln(w, stmt.String())
	}
}

// syntaxError prefixes err with the position it carries.
func syntaxError(err error) string {
	switch err := err.(type) {
	case *lexer.Error:
		return fmt.Sprintf("%s: %s", err.Pos, err.Msg)
	case *parser.Error:
		return fmt.Sprintf("%s: %s", err.Pos, err.Msg)
	}
	return err.Error()
}
