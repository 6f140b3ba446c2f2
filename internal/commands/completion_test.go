// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func completionValues(completions []Completion) []string {
	values := make([]string, 0, len(completions))
	for _, c := range completions {
		values = append(values, c.Value)
	}
	return values
}

// TestCompleterComplete tests completion at each position of a message
func TestCompleterComplete(t *testing.T) {
	r, _ := newTestRegistry(t)
	completer := NewCompleter(r)

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "empty input",
			input: "",
			want:  []string{"cmd", "nohandler", "c", "command"},
		},
		{
			name:  "partial command",
			input: "c",
			want:  []string{"c", "cmd", "command"},
		},
		{
			name:  "partial sub-command",
			input: "cmd s",
			want:  []string{"s", "sub"},
		},
		{
			name:  "partial long flag",
			input: "cmd --o",
			want:  []string{"--output"},
		},
		{
			name:  "flags of the deepest scope",
			input: "cmd sub --",
			want:  []string{"--level", "--verbose"},
		},
		{
			name:  "after an argument",
			input: "cmd x ",
			want:  []string{},
		},
		{
			name:  "inline value",
			input: "cmd --output=",
			want:  []string{},
		},
		{
			name:  "unknown command",
			input: "nope ",
			want:  []string{},
		},
		{
			name:  "open quote",
			input: `cmd "abc `,
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := completionValues(completer.Complete(tt.input))
			if tt.name == "empty input" {
				assert.ElementsMatch(t, tt.want, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompleterComplete_AfterFlag(t *testing.T) {
	r, _ := newTestRegistry(t)
	completer := NewCompleter(r)

	// Only flags may follow a flag
	got := completer.Complete("cmd --verbose ")
	assert.Len(t, got, 6)
	for _, c := range got {
		assert.Equal(t, TokenFlag, c.Kind)
	}

	// Sub-commands and flags after a command
	got = completer.Complete("cmd ")
	assert.Len(t, got, 9)
}

func TestCompleterCompleteLine(t *testing.T) {
	r, _ := newTestRegistry(t)
	completer := NewCompleter(r)

	assert.Equal(t, []string{"cmd sub --level"}, completer.CompleteLine("cmd sub --le"))
	assert.Equal(t, []string{"cmd   --output"}, completer.CompleteLine("cmd   --out"))
	assert.Empty(t, completer.CompleteLine("cmd x --out"))
}

func TestCalculateScore(t *testing.T) {
	exact := calculateScore("cmd", "cmd")
	prefix := calculateScore("cmd", "c")
	longer := calculateScore("command", "c")

	if exact <= prefix {
		t.Errorf("exact match score %d should beat prefix score %d", exact, prefix)
	}
	if prefix <= longer {
		t.Errorf("shorter completion score %d should beat longer %d", prefix, longer)
	}
}
