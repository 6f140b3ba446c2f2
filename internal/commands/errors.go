// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the message command system.
package commands

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

var (
	// ErrCommandNotRecognized is returned when the first token of a message
	// is not a top-level command name or alias, or the message is empty.
	ErrCommandNotRecognized = errors.New("command not recognized")

	// ErrHandlerNotAssigned is returned when a command without a handler runs.
	ErrHandlerNotAssigned = errors.New("handler not assigned")

	// ErrTokenize is returned when a message cannot be split into tokens,
	// e.g. because of an unterminated quote.
	ErrTokenize = errors.New("cannot tokenize message")
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// CommandNotRecognizedError carries the token that failed to resolve.
type CommandNotRecognizedError struct {
	Token string // Empty when the message had no tokens
}

func (e *CommandNotRecognizedError) Error() string {
	if e.Token == "" {
		return "command not recognized: empty message"
	}
	return fmt.Sprintf("command not recognized: %q", e.Token)
}

// Is matches ErrCommandNotRecognized.
func (e *CommandNotRecognizedError) Is(target error) bool {
	return target == ErrCommandNotRecognized
}

// HandlerNotAssignedError names the command that was run without a handler.
type HandlerNotAssignedError struct {
	Path string // Full command path, e.g. "remote add"
}

func (e *HandlerNotAssignedError) Error() string {
	return fmt.Sprintf("command %q was run but has no handler assigned", e.Path)
}

// Is matches ErrHandlerNotAssigned.
func (e *HandlerNotAssignedError) Is(target error) bool {
	return target == ErrHandlerNotAssigned
}
