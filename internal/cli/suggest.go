// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// suggest.go - Command suggestion for typo correction.
package cli

import (
	"strings"

	"github.com/jeranaias/msgcmd/internal/commands"
)

// SuggestCommand returns the top-level command name or alias closest to
// input, or "" when nothing is close enough. Uses Levenshtein distance with
// a threshold based on input length.
func SuggestCommand(registry *commands.Registry, input string) string {
	input = strings.ToLower(input)

	// Don't suggest for very short inputs (likely intentional)
	if len(input) < 2 {
		return ""
	}

	// <=3 chars: 1 edit, 4-8 chars: 2 edits (catches "hepl" -> "help"),
	// longer: 3 edits
	maxDistance := 1
	if len(input) >= 4 {
		maxDistance = 2
	}
	if len(input) > 8 {
		maxDistance = 3
	}

	bestMatch := ""
	bestDistance := -1

	for _, cmd := range registry.Commands() {
		candidates := append([]string{cmd.Name}, cmd.Aliases...)
		for _, candidate := range candidates {
			distance := levenshteinDistance(input, strings.ToLower(candidate))
			if distance == 0 {
				// Matched case-insensitively; the message was a case mismatch
				return candidate
			}
			if distance <= maxDistance && (bestDistance == -1 || distance < bestDistance) {
				bestDistance = distance
				bestMatch = candidate
			}
		}
	}

	return bestMatch
}

// levenshteinDistance calculates the edit distance between two strings.
func levenshteinDistance(s1, s2 string) int {
	r1, r2 := []rune(s1), []rune(s2)
	if len(r1) == 0 {
		return len(r2)
	}
	if len(r2) == 0 {
		return len(r1)
	}

	// Two rows instead of the full matrix
	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(r2)]
}
