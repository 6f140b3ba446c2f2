// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the message command system.
package commands

import (
	"slices"
	"strings"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// HandlerFunc executes a resolved command. args holds the values forwarded
// by the caller followed by the arguments extracted from the message.
// Whatever it returns becomes the result of Registry.Parse.
type HandlerFunc func(ctx *Context, args []any) (any, error)

// Command is a node of the command tree. Commands are built by New and must
// be treated as read-only once the registry exists.
type Command struct {
	// Name is the primary command name (e.g., "deploy")
	Name string

	// Aliases are alternative names (e.g., "d", "ship")
	Aliases []string

	// Description is shown in help and completion
	Description string

	// Handler executes the command; nil means no handler was assigned
	Handler HandlerFunc

	// Flags are searched in order, first match wins
	Flags []*Flag

	// SubCommands are searched in order, name before alias
	SubCommands []*Command

	// MetaData is carried along untouched
	MetaData map[string]any

	parent *Command
}

// Parent returns the command this one is nested under, or nil at the top level.
func (c *Command) Parent() *Command {
	return c.parent
}

// Path returns the names from the top-level command down to c,
// e.g. "remote add".
func (c *Command) Path() string {
	var names []string
	for cmd := c; cmd != nil; cmd = cmd.parent {
		names = append(names, cmd.Name)
	}
	slices.Reverse(names)
	return strings.Join(names, " ")
}

// Matches reports whether token is the command's name or one of its aliases.
func (c *Command) Matches(token string) bool {
	return token == c.Name || slices.Contains(c.Aliases, token)
}

// SubCommand returns the child named token. Names are tried across all
// children before aliases are.
func (c *Command) SubCommand(token string) *Command {
	return lookupCommand(c.SubCommands, token)
}

// Flag returns the flag with the given long name, or nil.
func (c *Command) Flag(longName string) *Flag {
	for _, flag := range c.Flags {
		if flag.LongName == longName {
			return flag
		}
	}
	return nil
}

// ResolveFlag returns the value token resolves to as a flag of c, or nil
// when token is not one of c's flags.
func (c *Command) ResolveFlag(token string) *FlagValue {
	return resolveFlag(c.Flags, token)
}

// HasHandler reports whether a handler was assigned.
func (c *Command) HasHandler() bool {
	return c.Handler != nil
}

// Run invokes the handler. A command without one fails with a
// *HandlerNotAssignedError. Handler errors are returned as-is.
func (c *Command) Run(ctx *Context, args []any) (any, error) {
	if c.Handler == nil {
		return nil, &HandlerNotAssignedError{Path: c.Path()}
	}
	return c.Handler(ctx, args)
}

// lookupCommand finds a command by name, then by alias, in declaration order.
func lookupCommand(cmds []*Command, token string) *Command {
	for _, cmd := range cmds {
		if cmd.Name == token {
			return cmd
		}
	}
	for _, cmd := range cmds {
		if slices.Contains(cmd.Aliases, token) {
			return cmd
		}
	}
	return nil
}
