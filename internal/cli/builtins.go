// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// builtins.go - Built-in handlers and the default command definitions.
package cli

import (
	"fmt"
	"strings"

	"github.com/jeranaias/msgcmd/internal/commands"
)

// Handler names that definition files may reference.
const (
	HandlerEcho     = "echo"
	HandlerFlags    = "flags"
	HandlerHelp     = "help"
	HandlerComplete = "complete"
	HandlerCommands = "commands"
	HandlerQuit     = "quit"
)

// registryKey is the Context.Extra key holding the dispatching registry.
const registryKey = "registry"

// BuiltinNames returns the names of all built-in handlers.
func BuiltinNames() []string {
	return []string{HandlerEcho, HandlerFlags, HandlerHelp, HandlerComplete, HandlerCommands, HandlerQuit}
}

// DefaultDefinitions is the command tree used when no definitions file is
// configured.
func DefaultDefinitions() []commands.CommandDef {
	return []commands.CommandDef{
		{
			Name:        "echo",
			Aliases:     []string{"say"},
			Description: "Print the arguments",
			HandlerName: HandlerEcho,
			Flags: []commands.FlagDef{
				{Name: "upper", ShortName: "u", DefaultPresent: true, DefaultAbsent: false},
				{Name: "separator", ShortName: "s", AcceptsInput: true, DefaultPresent: " ", DefaultAbsent: " "},
			},
		},
		{
			Name:        "flags",
			Aliases:     []string{"inspect"},
			Description: "Show how a message was classified and what each flag resolved to",
			HandlerName: HandlerFlags,
			Flags: []commands.FlagDef{
				{Name: "verbose", ShortName: "v", LongAliases: []string{"loud"}, DefaultPresent: true, DefaultAbsent: false},
				{Name: "name", ShortName: "n", AcceptsInput: true, DefaultPresent: "world"},
			},
			SubCommands: []commands.CommandDef{
				{
					Name:        "sub",
					Aliases:     []string{"s"},
					Description: "Nested scope with its own flags",
					HandlerName: HandlerFlags,
					Flags: []commands.FlagDef{
						{Name: "level", ShortName: "l", AcceptsInput: true, DefaultPresent: "1", DefaultAbsent: "0"},
					},
				},
			},
		},
		{
			Name:        "help",
			Aliases:     []string{"h", "?"},
			Description: "Show help for a command path, or list all commands",
			HandlerName: HandlerHelp,
		},
		{
			Name:        "complete",
			Description: "List completions for a partial message",
			HandlerName: HandlerComplete,
			Flags: []commands.FlagDef{
				{Name: "next", ShortName: "x", DefaultPresent: true, DefaultAbsent: false},
			},
		},
		{
			Name:        "commands",
			Aliases:     []string{"ls"},
			Description: "List top-level commands",
			HandlerName: HandlerCommands,
		},
		{
			Name:        "quit",
			Aliases:     []string{"exit", "q"},
			Description: "Leave the interactive prompt",
			HandlerName: HandlerQuit,
		},
	}
}

// Handlers returns the built-in handler set bound to a.
func (a *App) Handlers() commands.HandlerSet {
	return commands.HandlerSet{
		HandlerEcho:     a.handleEcho,
		HandlerFlags:    a.handleFlags,
		HandlerHelp:     a.handleHelp,
		HandlerComplete: a.handleComplete,
		HandlerCommands: a.handleCommands,
		HandlerQuit:     a.handleQuit,
	}
}

// registryFor returns the registry that dispatched ctx, falling back to
// the live one.
func (a *App) registryFor(ctx *commands.Context) *commands.Registry {
	if v, ok := ctx.Get(registryKey); ok {
		if r, ok := v.(*commands.Registry); ok {
			return r
		}
	}
	return a.live.Load()
}

func stringArgs(args []any) []string {
	out := make([]string, 0, len(args))
	for _, arg := range args {
		out = append(out, fmt.Sprint(arg))
	}
	return out
}

// echo joins its arguments. Commands from definition files may lack the
// separator flag, in which case a space is used.
func (a *App) handleEcho(ctx *commands.Context, args []any) (any, error) {
	sep := " "
	if _, ok := ctx.Flag("separator"); ok {
		sep = ctx.String("separator")
	}
	out := strings.Join(stringArgs(args), sep)
	if ctx.Bool("upper") {
		out = strings.ToUpper(out)
	}
	return out, nil
}

func (a *App) handleFlags(ctx *commands.Context, args []any) (any, error) {
	return ctx, nil
}

func (a *App) handleHelp(ctx *commands.Context, args []any) (any, error) {
	registry := a.registryFor(ctx)
	path := stringArgs(args)
	if len(path) == 0 {
		return helpText{Text: commands.Overview(registry.Commands())}, nil
	}
	cmd := registry.Find(path...)
	if cmd == nil {
		return nil, &commands.CommandNotRecognizedError{Token: strings.Join(path, " ")}
	}
	return helpText{Text: commands.Usage(cmd), Markdown: commands.UsageMarkdown(cmd)}, nil
}

func (a *App) handleComplete(ctx *commands.Context, args []any) (any, error) {
	completer := commands.NewCompleter(a.registryFor(ctx))
	partial := strings.Join(stringArgs(args), " ")
	if ctx.Bool("next") && partial != "" {
		partial += " "
	}
	return completer.Complete(partial), nil
}

func (a *App) handleCommands(ctx *commands.Context, args []any) (any, error) {
	registry := a.registryFor(ctx)
	names := make([]string, 0, len(registry.Commands()))
	for _, cmd := range registry.Commands() {
		names = append(names, cmd.Name)
	}
	return names, nil
}

func (a *App) handleQuit(ctx *commands.Context, args []any) (any, error) {
	a.quit.Store(true)
	return "bye", nil
}
