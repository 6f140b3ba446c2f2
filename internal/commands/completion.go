// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the message command system.
package commands

import (
	"sort"
	"strings"
	"unicode"
)

// =============================================================================
// COMPLETION TYPE
// =============================================================================

// Completion represents a completion suggestion.
type Completion struct {
	// Value to insert in place of the partial token
	Value string

	// Kind is the role the value would be classified as
	Kind TokenType

	// Description shown alongside
	Description string

	// Score for ranking (higher = better match)
	Score int
}

// =============================================================================
// COMPLETER
// =============================================================================

// Completer suggests the next token of a partially typed message. It
// follows the classification rules, so it never offers a sub-command or
// flag where Classify would read an argument.
type Completer struct {
	registry *Registry
}

// NewCompleter creates a new completer over the given registry.
func NewCompleter(registry *Registry) *Completer {
	return &Completer{registry: registry}
}

// Complete returns suggestions for the last token of input. A trailing
// space means a new token is being started.
func (c *Completer) Complete(input string) []Completion {
	head, partial := splitPartial(input)

	words, err := c.registry.Tokenize(head)
	if err != nil {
		return nil
	}
	if len(words) == 0 {
		return c.completeCommands(c.registry.commands, partial, TokenCommand)
	}

	tokens, err := c.registry.classifyWords(words)
	if err != nil {
		return nil
	}

	var scope *Command
	for _, tok := range tokens {
		if tok.Type.isCommand() {
			scope = tok.Command
		}
	}
	prev := tokens[len(tokens)-1].Type

	var completions []Completion
	if prev.isCommand() && !strings.HasPrefix(partial, "-") {
		completions = append(completions, c.completeCommands(scope.SubCommands, partial, TokenSubCommand)...)
	}
	if (prev.isCommand() || prev == TokenFlag) && !strings.Contains(partial, "=") {
		completions = append(completions, c.completeFlags(scope, partial)...)
	}

	sortCompletions(completions)
	return completions
}

// CompleteLine returns whole lines with the last token completed, suitable
// for line editors.
func (c *Completer) CompleteLine(input string) []string {
	head, _ := splitPartial(input)
	completions := c.Complete(input)
	lines := make([]string, 0, len(completions))
	for _, comp := range completions {
		lines = append(lines, head+comp.Value)
	}
	return lines
}

// splitPartial separates input into the finished part and the token being
// typed. The finished part keeps its trailing whitespace.
func splitPartial(input string) (head, partial string) {
	idx := strings.LastIndexFunc(input, unicode.IsSpace)
	return input[:idx+1], input[idx+1:]
}

// =============================================================================
// COMMAND AND FLAG COMPLETION
// =============================================================================

// completeCommands returns completions for command names and aliases.
func (c *Completer) completeCommands(cmds []*Command, partial string, kind TokenType) []Completion {
	var completions []Completion

	lower := strings.ToLower(partial)
	for _, cmd := range cmds {
		if strings.HasPrefix(strings.ToLower(cmd.Name), lower) {
			completions = append(completions, Completion{
				Value:       cmd.Name,
				Kind:        kind,
				Description: cmd.Description,
				Score:       calculateScore(cmd.Name, partial),
			})
		}

		for _, alias := range cmd.Aliases {
			if strings.HasPrefix(strings.ToLower(alias), lower) {
				completions = append(completions, Completion{
					Value:       alias,
					Kind:        kind,
					Description: cmd.Description + " (alias for " + cmd.Name + ")",
					// Aliases rank slightly below names
					Score: calculateScore(alias, partial) - 5,
				})
			}
		}
	}

	sortCompletions(completions)
	return completions
}

// completeFlags returns completions for every spelling of the scope's flags.
func (c *Completer) completeFlags(scope *Command, partial string) []Completion {
	var completions []Completion

	for _, flag := range scope.Flags {
		for _, form := range flag.Forms() {
			if !strings.HasPrefix(form, partial) {
				continue
			}
			desc := "--" + flag.LongName
			if flag.AcceptsInput {
				desc += "=<value>"
			}
			completions = append(completions, Completion{
				Value:       form,
				Kind:        TokenFlag,
				Description: desc,
				Score:       calculateScore(form, partial),
			})
		}
	}
	return completions
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// calculateScore calculates a match score for completion ranking.
// Higher score = better match.
func calculateScore(value, partial string) int {
	value = strings.ToLower(value)
	partial = strings.ToLower(partial)

	score := 100

	// Exact match
	if value == partial {
		return score + 100
	}

	// Prefix match bonus
	if strings.HasPrefix(value, partial) {
		score += 50
		score += 20 - len(value)
	}

	score -= len(value) / 2

	return score
}

// sortCompletions sorts completions by score (descending), then alphabetically.
func sortCompletions(completions []Completion) {
	sort.SliceStable(completions, func(i, j int) bool {
		if completions[i].Score != completions[j].Score {
			return completions[i].Score > completions[j].Score
		}
		return completions[i].Value < completions[j].Value
	})
}
