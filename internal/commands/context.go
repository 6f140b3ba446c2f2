// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the message command system.
package commands

import (
	"fmt"
	"strconv"
)

// =============================================================================
// CONTEXT TYPE
// =============================================================================

// Context is the invocation record built for every parsed message and
// handed to the command's handler. It is created fresh per call and never
// retained by the registry.
//
// Example usage in a handler:
//
//	func greet(ctx *commands.Context, args []any) (any, error) {
//	    if ctx.Bool("loud") {
//	        return strings.ToUpper(fmt.Sprint(args...)), nil
//	    }
//	    return fmt.Sprint(args...), nil
//	}
type Context struct {
	// ID uniquely identifies this invocation
	ID string

	// Command is the deepest command or sub-command named in the message
	Command *Command

	// Flags holds a value for every flag declared on Command, keyed by long name
	Flags map[string]FlagValue

	// Tokens is the full classified token stream
	Tokens []Token

	// Message is the raw input
	Message string

	// Args are the arguments extracted from the message, without forwarded values
	Args []string

	// Extra is the keyword data forwarded by the caller
	Extra map[string]any
}

// Flag returns the resolved value of the named flag. ok is false if the
// command declares no such flag.
func (c *Context) Flag(name string) (FlagValue, bool) {
	v, ok := c.Flags[name]
	return v, ok
}

// Value returns the resolved value of the named flag, or nil.
func (c *Context) Value(name string) any {
	return c.Flags[name].Value
}

// Present reports whether the named flag appeared in the message.
func (c *Context) Present(name string) bool {
	return c.Flags[name].Present
}

// String returns the named flag's value formatted as a string.
func (c *Context) String(name string) string {
	v, ok := c.Flags[name]
	if !ok || v.Value == nil {
		return ""
	}
	return formatValue(v.Value)
}

// Bool interprets the named flag's value as a boolean. Strings are parsed
// with strconv.ParseBool; anything unparseable is false.
func (c *Context) Bool(name string) bool {
	switch v := c.Flags[name].Value.(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(v)
		return err == nil && b
	default:
		return false
	}
}

// Get returns forwarded keyword data.
func (c *Context) Get(key string) (any, bool) {
	v, ok := c.Extra[key]
	return v, ok
}

// formatValue renders a flag value for display.
func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "<nil>"
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
