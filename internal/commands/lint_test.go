// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLint_Clean(t *testing.T) {
	issues := Lint(testDefs(nil), nil)
	for _, issue := range issues {
		assert.NotEqual(t, SeverityError, issue.Severity, issue.String())
	}
}

func TestLint_Problems(t *testing.T) {
	defs := []CommandDef{
		{Name: "a", Aliases: []string{"x"}},
		{Name: "a"},
		{Name: "b", Aliases: []string{"x"}, HandlerName: "unknown"},
		{Name: ""},
		{
			Name: "flags",
			Flags: []FlagDef{
				{Name: "one", ShortName: "o", DefaultPresent: true},
				{Name: "one", DefaultPresent: true},
				{Name: "two", ShortName: "o", DefaultPresent: true},
				{Name: "bad=name", DefaultPresent: true},
				{Name: "nil"},
			},
		},
	}

	issues := Lint(defs, HandlerSet{})
	assert.True(t, HasErrors(issues))

	var messages []string
	for _, issue := range issues {
		messages = append(messages, issue.String())
	}
	all := strings.Join(messages, "\n")

	assert.Contains(t, all, `error: a: name "a" already used`)
	assert.Contains(t, all, `error: b: alias "x" already used by "a"`)
	assert.Contains(t, all, `warning: b: handler "unknown" is not registered`)
	assert.Contains(t, all, "error: <root>: command with empty name")
	assert.Contains(t, all, `error: flags: duplicate flag "one"`)
	assert.Contains(t, all, `warning: flags: flag form "o" of "two" is shadowed by "one"`)
	assert.Contains(t, all, `error: flags: flag form "bad=name" contains '='`)
	assert.Contains(t, all, `warning: flags: flag "nil" has no defaults`)
}

func TestLint_NestedPaths(t *testing.T) {
	defs := []CommandDef{{
		Name: "remote",
		SubCommands: []CommandDef{
			{Name: "add"},
			{Name: "rm", Aliases: []string{"add"}},
		},
	}}

	issues := Lint(defs, nil)
	if assert.Len(t, issues, 1) {
		assert.Equal(t, "remote rm", issues[0].Path)
		assert.Equal(t, SeverityError, issues[0].Severity)
	}
}
