// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the message command system.
package commands

import (
	"slices"
	"strings"
)

// =============================================================================
// FLAG DEFINITION
// =============================================================================

// Flag describes a named switch owned by a command. Flags are built once
// by New and never modified afterwards.
type Flag struct {
	// LongName is the key of the flag within its command (e.g., "verbose")
	LongName string

	// LongAliases are alternative long names (e.g., "info")
	LongAliases []string

	// ShortName is the short form without the dash (e.g., "v"); empty means none
	ShortName string

	// ShortAliases are alternative short names
	ShortAliases []string

	// AcceptsInput allows an inline value via --name=value
	AcceptsInput bool

	// DefaultPresent is used when the flag appears without an inline value,
	// or always when AcceptsInput is false
	DefaultPresent any

	// DefaultAbsent is used when the flag is never mentioned
	DefaultAbsent any
}

// matchLong reports whether name is the flag's long name or a long alias.
func (f *Flag) matchLong(name string) bool {
	return name == f.LongName || slices.Contains(f.LongAliases, name)
}

// matchShort reports whether name is the flag's short name or a short alias.
func (f *Flag) matchShort(name string) bool {
	return (f.ShortName != "" && name == f.ShortName) || slices.Contains(f.ShortAliases, name)
}

// Forms returns every spelling that selects the flag, dashes included.
func (f *Flag) Forms() []string {
	forms := make([]string, 0, 2+len(f.LongAliases)+len(f.ShortAliases))
	forms = append(forms, "--"+f.LongName)
	for _, alias := range f.LongAliases {
		forms = append(forms, "--"+alias)
	}
	if f.ShortName != "" {
		forms = append(forms, "-"+f.ShortName)
	}
	for _, alias := range f.ShortAliases {
		forms = append(forms, "-"+alias)
	}
	return forms
}

// =============================================================================
// FLAG VALUE
// =============================================================================

// FlagValue pairs a flag with the value it resolved to for one parse.
type FlagValue struct {
	Flag *Flag

	// Value is the inline value, DefaultPresent or DefaultAbsent
	Value any

	// Present is true if the flag appeared in the message
	Present bool

	// Explicit is true if Value came from an inline =value
	Explicit bool
}

// String returns the value formatted for display.
func (v FlagValue) String() string {
	return formatValue(v.Value)
}

// =============================================================================
// FLAG MATCHING
// =============================================================================

// flagForm is the dash style a token was written in.
type flagForm int

const (
	formNone flagForm = iota
	formLong
	formShort
)

// splitFlagToken breaks a token into its form, name and inline value.
// The name boundary is the first '=' of the dash-stripped body. An empty
// inline value is treated as no value at all.
func splitFlagToken(token string) (form flagForm, name string, value string, hasValue bool) {
	var body string
	switch {
	case len(token) >= 3 && strings.HasPrefix(token, "--"):
		form, body = formLong, token[2:]
	case len(token) >= 2 && token[0] == '-':
		form, body = formShort, token[1:]
	default:
		return formNone, "", "", false
	}

	name, value, found := strings.Cut(body, "=")
	return form, name, value, found && value != ""
}

// resolveFlag matches token against flags in declaration order. It returns
// nil if the token is not a flag of this set.
func resolveFlag(flags []*Flag, token string) *FlagValue {
	form, name, value, hasValue := splitFlagToken(token)
	if form == formNone {
		return nil
	}

	for _, flag := range flags {
		var matched bool
		if form == formLong {
			matched = flag.matchLong(name)
		} else {
			matched = flag.matchShort(name)
		}
		if !matched {
			continue
		}

		if !flag.AcceptsInput || !hasValue {
			return &FlagValue{Flag: flag, Value: flag.DefaultPresent, Present: true}
		}
		return &FlagValue{Flag: flag, Value: value, Present: true, Explicit: true}
	}
	return nil
}
