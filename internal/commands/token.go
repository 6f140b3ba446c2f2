// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the message command system.
package commands

import "fmt"

// =============================================================================
// TOKEN TYPES
// =============================================================================

// TokenType is the role a token plays in a message.
type TokenType int

const (
	TokenCommand    TokenType = iota // Top-level command
	TokenSubCommand                  // Command nested under the previous one
	TokenFlag                        // Flag of the current command scope
	TokenArgument                    // Anything else
)

// String returns the human-readable token type.
func (t TokenType) String() string {
	switch t {
	case TokenCommand:
		return "Command"
	case TokenSubCommand:
		return "SubCommand"
	case TokenFlag:
		return "Flag"
	case TokenArgument:
		return "Argument"
	default:
		return "Unknown"
	}
}

// MarshalText lets token types appear by name in JSON output.
func (t TokenType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText parses a token type name written by MarshalText.
func (t *TokenType) UnmarshalText(text []byte) error {
	for _, candidate := range []TokenType{TokenCommand, TokenSubCommand, TokenFlag, TokenArgument} {
		if candidate.String() == string(text) {
			*t = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown token type %q", text)
}

// isCommand reports whether t names a command scope.
func (t TokenType) isCommand() bool {
	return t == TokenCommand || t == TokenSubCommand
}

// =============================================================================
// CLASSIFIED TOKEN
// =============================================================================

// Token is one classified unit of a message. Exactly one of Command and Flag
// is set for command and flag tokens; arguments only carry Raw.
type Token struct {
	Type TokenType

	// Raw is the token as it appeared after tokenization
	Raw string

	// Command is set for TokenCommand and TokenSubCommand
	Command *Command

	// Flag is set for TokenFlag
	Flag *FlagValue
}

// Object returns the token's resolved object: the *Command, the *FlagValue,
// or the raw string for arguments.
func (t Token) Object() any {
	switch t.Type {
	case TokenCommand, TokenSubCommand:
		return t.Command
	case TokenFlag:
		return t.Flag
	default:
		return t.Raw
	}
}

// Types returns the type of every token, in order.
func Types(tokens []Token) []TokenType {
	types := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.Type
	}
	return types
}
