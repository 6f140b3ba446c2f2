// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/pflag"

	"github.com/jeranaias/msgcmd/internal/cli"
	"github.com/jeranaias/msgcmd/internal/commands"
)

const (
	exitOK     = 0
	exitIssues = 1
	exitUsage  = 2
)

var (
	fileStyle    = lipgloss.NewStyle().Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pathStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprint(w, `defcheck - lint msgcmd command definition files

Reports duplicate command names, alias collisions, shadowed flag forms,
flags that can never match, and handler names msgcmd does not provide.
Exits 1 when any file has an error, or a warning with --strict.

Usage:
  defcheck [flags] FILE...

Flags:
`)
	fmt.Fprint(w, flagSet.FlagUsages())
}

// run lints every file named in args and returns the exit code.
func run(args []string, stdout, stderr io.Writer) int {
	var strict, quiet, noHandlers bool

	flagSet := pflag.NewFlagSet("defcheck", pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.BoolVar(&strict, "strict", false, "treat warnings as errors")
	flagSet.BoolVarP(&quiet, "quiet", "q", false, "only print files with issues")
	flagSet.BoolVar(&noHandlers, "no-handlers", false, "skip checking handler names against the msgcmd built-ins")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			printHelp(stdout, flagSet)
			return exitOK
		}
		fmt.Fprintf(stderr, "%s %v\n", errorStyle.Render("error:"), err)
		return exitUsage
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(stdout, flagSet)
		return exitOK
	}
	if flagSet.NArg() == 0 {
		printHelp(stderr, flagSet)
		return exitUsage
	}

	var handlers commands.HandlerSet
	if !noHandlers {
		handlers = make(commands.HandlerSet)
		for _, name := range cli.BuiltinNames() {
			handlers[name] = nil
		}
	}

	failed := false
	for _, path := range flagSet.Args() {
		if !checkFile(stdout, path, handlers, strict, quiet) {
			failed = true
		}
	}
	if failed {
		return exitIssues
	}
	return exitOK
}

// checkFile lints one file and reports whether it passed.
func checkFile(w io.Writer, path string, handlers commands.HandlerSet, strict, quiet bool) bool {
	defs, err := commands.LoadDefinitions(path)
	if err != nil {
		fmt.Fprintf(w, "%s %s\n  %s %v\n", fileStyle.Render(path), errorStyle.Render("FAIL"), errorStyle.Render("error:"), err)
		return false
	}

	issues := commands.Lint(defs, handlers)
	passed := !commands.HasErrors(issues) && !(strict && len(issues) > 0)

	if len(issues) == 0 {
		if !quiet {
			fmt.Fprintf(w, "%s %s\n", fileStyle.Render(path), okStyle.Render("ok"))
		}
		return true
	}

	status := okStyle.Render("ok")
	if !passed {
		status = errorStyle.Render("FAIL")
	}
	fmt.Fprintf(w, "%s %s\n", fileStyle.Render(path), status)

	for _, issue := range issues {
		label := warningStyle.Render(issue.Severity.String() + ":")
		if issue.Severity == commands.SeverityError {
			label = errorStyle.Render(issue.Severity.String() + ":")
		}
		fmt.Fprintf(w, "  %s %s %s\n", label, pathStyle.Render(issue.Path), issue.Message)
	}
	return passed
}
