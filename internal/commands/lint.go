// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the message command system.
package commands

import (
	"fmt"
	"strings"
)

// =============================================================================
// LINT ISSUES
// =============================================================================

// Severity ranks a lint issue.
type Severity int

const (
	SeverityWarning Severity = iota // Works, but resolution depends on order
	SeverityError                   // Something can never be reached
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Issue is one problem found in a set of definitions.
type Issue struct {
	Severity Severity
	Path     string // Command path, e.g. "remote add"
	Message  string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// =============================================================================
// LINT
// =============================================================================

// Lint checks definitions for names that shadow each other. New accepts
// everything Lint complains about; the first declaration simply wins.
// handlers may be nil, in which case handler names are not checked.
func Lint(defs []CommandDef, handlers HandlerSet) []Issue {
	var issues []Issue
	lintCommands(defs, "", handlers, &issues)
	return issues
}

func lintCommands(defs []CommandDef, parent string, handlers HandlerSet, issues *[]Issue) {
	seen := make(map[string]string) // name or alias -> owning command
	for _, def := range defs {
		path := strings.TrimSpace(parent + " " + def.Name)
		if def.Name == "" {
			*issues = append(*issues, Issue{SeverityError, orRoot(parent), "command with empty name"})
		}

		if owner, ok := seen[def.Name]; ok && def.Name != "" {
			*issues = append(*issues, Issue{SeverityError, path, fmt.Sprintf("name %q already used by %q", def.Name, owner)})
		} else {
			seen[def.Name] = def.Name
		}
		for _, alias := range def.Aliases {
			if owner, ok := seen[alias]; ok {
				*issues = append(*issues, Issue{SeverityError, path, fmt.Sprintf("alias %q already used by %q", alias, owner)})
				continue
			}
			seen[alias] = def.Name
		}

		if def.Handler == nil && def.HandlerName != "" && handlers != nil {
			if _, ok := handlers[def.HandlerName]; !ok {
				*issues = append(*issues, Issue{SeverityWarning, path, fmt.Sprintf("handler %q is not registered", def.HandlerName)})
			}
		}

		lintFlags(def.Flags, path, issues)
		lintCommands(def.SubCommands, path, handlers, issues)
	}
}

func lintFlags(defs []FlagDef, path string, issues *[]Issue) {
	longs := make(map[string]string)
	shorts := make(map[string]string)
	names := make(map[string]bool)

	claim := func(table map[string]string, form, owner string) {
		if prev, ok := table[form]; ok {
			*issues = append(*issues, Issue{SeverityWarning, path, fmt.Sprintf("flag form %q of %q is shadowed by %q", form, owner, prev)})
			return
		}
		table[form] = owner
	}

	for _, def := range defs {
		if def.Name == "" {
			*issues = append(*issues, Issue{SeverityError, path, "flag with empty name"})
			continue
		}
		if names[def.Name] {
			*issues = append(*issues, Issue{SeverityError, path, fmt.Sprintf("duplicate flag %q", def.Name)})
			continue
		}
		names[def.Name] = true

		forms := append([]string{def.Name}, def.LongAliases...)
		for _, form := range forms {
			if strings.Contains(form, "=") {
				*issues = append(*issues, Issue{SeverityError, path, fmt.Sprintf("flag form %q contains '=' and can never match", form)})
			}
			claim(longs, form, def.Name)
		}

		forms = def.ShortAliases
		if def.ShortName != "" {
			forms = append([]string{def.ShortName}, forms...)
		}
		for _, form := range forms {
			if strings.Contains(form, "=") {
				*issues = append(*issues, Issue{SeverityError, path, fmt.Sprintf("flag form %q contains '=' and can never match", form)})
			}
			claim(shorts, form, def.Name)
		}

		if !def.AcceptsInput && def.DefaultPresent == nil && def.DefaultAbsent == nil {
			*issues = append(*issues, Issue{SeverityWarning, path, fmt.Sprintf("flag %q has no defaults; present and absent both resolve to nil", def.Name)})
		}
	}
}

func orRoot(path string) string {
	if path == "" {
		return "<root>"
	}
	return path
}
