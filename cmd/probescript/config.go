// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/naoina/toml"
	"gopkg.in/urfave/cli.v1"

	"github.com/probechain/probescript/integration"
	"github.com/probechain/probescript/log"
)

var (
	dumpConfigCommand = cli.Command{
		Action:      dumpConfig,
		Name:        "dumpconfig",
		Usage:       "Show configuration values",
		ArgsUsage:   "",
		Category:    "MISCELLANEOUS COMMANDS",
		Description: `The dumpconfig command shows configuration values after flags are applied.`,
	}

	configFileFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity: 0=crit, 1=error, 2=warn, 3=info, 4=debug, 5=trace",
		Value: int(log.LvlInfo),
	}
	noColorFlag = cli.BoolFlag{
		Name:  "nocolor",
		Usage: "Disable colored output",
	}
	cacheSizeFlag = cli.IntFlag{
		Name:  "cache",
		Usage: "Number of parsed programs to keep (0 disables the cache)",
		Value: integration.DefaultConfig.ParseCacheSize,
	}
	maxDepthFlag = cli.IntFlag{
		Name:  "maxdepth",
		Usage: "Maximum nested function calls (0 = unlimited)",
		Value: integration.DefaultConfig.MaxCallDepth,
	}
	maxIterationsFlag = cli.IntFlag{
		Name:  "maxiterations",
		Usage: "Maximum iterations of a single while loop (0 = unlimited)",
		Value: integration.DefaultConfig.MaxIterations,
	}
)

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		return fmt.Errorf("field '%s' is not defined in %s", field, rt.String())
	},
}

type shellConfig struct {
	Prompt      string
	HistoryFile string
	Verbosity   int
	NoColor     bool
}

type probescriptConfig struct {
	Engine integration.Config
	Shell  shellConfig
}

var defaultShellConfig = shellConfig{
	Prompt:      "> ",
	HistoryFile: ".probescript_history",
	Verbosity:   int(log.LvlInfo),
}

func loadConfig(file string, cfg *probescriptConfig) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	return decodeConfig(file, f, cfg)
}

func decodeConfig(name string, r io.Reader, cfg *probescriptConfig) error {
	err := tomlSettings.NewDecoder(bufio.NewReader(r)).Decode(cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(name + ", " + err.Error())
	}
	return err
}

// makeConfig loads defaults, then the config file, then applies flags.
func makeConfig(ctx *cli.Context) (probescriptConfig, error) {
	cfg := probescriptConfig{
		Engine: integration.DefaultConfig,
		Shell:  defaultShellConfig,
	}
	if file := ctx.GlobalString(configFileFlag.Name); file != "" {
		if err := loadConfig(file, &cfg); err != nil {
			return cfg, err
		}
	}

	if ctx.GlobalIsSet(verbosityFlag.Name) {
		cfg.Shell.Verbosity = ctx.GlobalInt(verbosityFlag.Name)
	}
	if ctx.GlobalIsSet(noColorFlag.Name) {
		cfg.Shell.NoColor = ctx.GlobalBool(noColorFlag.Name)
	}
	if ctx.GlobalIsSet(cacheSizeFlag.Name) {
		cfg.Engine.ParseCacheSize = ctx.GlobalInt(cacheSizeFlag.Name)
	}
	if ctx.GlobalIsSet(maxDepthFlag.Name) {
		cfg.Engine.MaxCallDepth = ctx.GlobalInt(maxDepthFlag.Name)
	}
	if ctx.GlobalIsSet(maxIterationsFlag.Name) {
		cfg.Engine.MaxIterations = ctx.GlobalInt(maxIterationsFlag.Name)
	}
	return cfg, cfg.Engine.Validate()
}

// dumpConfig is the dumpconfig command.
func dumpConfig(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	out, err := tomlSettings.Marshal(&cfg)
	if err != nil {
		return err
	}
	io.WriteString(os.Stdout, "# Generated by probescript\n\n")
	os.Stdout.Write(out)
	return nil
}
