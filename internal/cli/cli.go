// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - Command line flags for msgcmd.
package cli

import (
	"fmt"
	"io"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/pflag"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Options holds parsed command line flags.
type Options struct {
	Definitions string
	ConfigPath  string
	Watch       bool
	JSON        bool
	DryRun      bool
	Debug       bool
	NoColor     bool
	Version     bool
	Help        bool

	// Message is the positional words after the flags
	Message []string
}

const usageText = `msgcmd - parse and dispatch command messages

Usage:
  msgcmd [flags] [message...]

With a message, msgcmd parses it once and exits. Without one it starts an
interactive prompt on a terminal, or reads one message per line from stdin.

Flags stop at the first word of the message; use -- to pass a message that
starts with a dash.

Examples:
  msgcmd echo --upper hello world
  msgcmd --dry-run 'flags sub --level=3 "quoted arg"'
  msgcmd --definitions ./bot.toml --watch
  printf 'echo a\necho b\n' | msgcmd --json

Flags:
`

// NewFlagSet returns the msgcmd flag set bound to opts.
func NewFlagSet(opts *Options) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet("msgcmd", pflag.ContinueOnError)
	flagSet.SetInterspersed(false)
	flagSet.StringVarP(&opts.Definitions, "definitions", "d", "", "command definitions file (.toml, .yaml, .json, .jsonc)")
	flagSet.StringVarP(&opts.ConfigPath, "config", "c", "", "config file (default ~/.msgcmd/config.toml)")
	flagSet.BoolVarP(&opts.Watch, "watch", "w", false, "reload definitions when the file changes")
	flagSet.BoolVar(&opts.JSON, "json", false, "print results as JSON")
	flagSet.BoolVarP(&opts.DryRun, "dry-run", "n", false, "classify messages without running handlers")
	flagSet.BoolVar(&opts.Debug, "debug", false, "enable debug logging")
	flagSet.BoolVar(&opts.NoColor, "no-color", false, "disable colored output")
	flagSet.BoolVar(&opts.Version, "version", false, "print version information")
	flagSet.BoolVarP(&opts.Help, "help", "h", false, "show help")
	return flagSet
}

// ParseFlags parses args (without the program name). Help output goes to w.
// A pflag.ErrHelp result means help was printed.
func ParseFlags(args []string, w io.Writer) (Options, error) {
	var opts Options
	flagSet := NewFlagSet(&opts)
	flagSet.SetOutput(io.Discard)

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			PrintUsage(w, flagSet)
			return opts, err
		}
		return opts, NewUsageError("invalid flags", err)
	}
	if opts.Help {
		PrintUsage(w, flagSet)
		return opts, pflag.ErrHelp
	}

	opts.Message = flagSet.Args()
	return opts, nil
}

// PrintUsage prints the usage text followed by the flag defaults.
func PrintUsage(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprint(w, usageText)
	fmt.Fprint(w, flagSet.FlagUsages())
}

// PrintVersion prints version information.
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "msgcmd version %s\n", Version)
	fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(w, "  Build date: %s\n", BuildDate)
}

// MessageFromArgs rebuilds a message from positional arguments. A single
// argument is taken verbatim so quoting inside it is preserved. Several
// arguments were already split by the shell and are re-quoted so the
// tokenizer sees the same words.
func MessageFromArgs(args []string) string {
	switch len(args) {
	case 0:
		return ""
	case 1:
		return args[0]
	default:
		return shellquote.Join(args...)
	}
}
