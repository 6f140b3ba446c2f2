// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the message command system.
//
// A single line of text is tokenized shell-style, each token is classified
// as a command, sub-command, flag or argument, and the result is folded
// into a Context that is handed to the resolved command's handler.
//
// # Key Types
//
//   - Registry: immutable command tree built from definitions
//   - Command / Flag: nodes of the tree
//   - Token: a classified token
//   - Context: invocation record passed to handlers
//   - Completer: next-token suggestions for partial messages
//   - Live / Watcher: hot-reloaded registry backed by a definitions file
//
// # Classification
//
// The first token must name a top-level command. A token directly after a
// command or sub-command may name a child. A token directly after a
// command, sub-command or flag may be a flag of the deepest command seen.
// Anything else is an argument, and once an argument appears the rest of
// the message is arguments.
//
// Flags are written --long, --long=value, -s or -s=value. A flag that does
// not accept input, or is given without a value, resolves to its
// DefaultPresent value. Flags never mentioned resolve to DefaultAbsent.
//
// # Usage
//
// Build a registry and parse a message:
//
//	registry := commands.New([]commands.CommandDef{{
//	    Name:    "greet",
//	    Handler: greet,
//	    Flags: []commands.FlagDef{
//	        {Name: "loud", ShortName: "l", DefaultPresent: true, DefaultAbsent: false},
//	    },
//	}})
//	result, err := registry.Parse("greet -l world")
//
// Return a fallback instead of failing on unknown input:
//
//	result, err := registry.ParseOr("hello there", nil)
package commands
