// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Error types and exit codes for the msgcmd CLI.
//
// Commands always return errors and let the caller decide how to show
// them. Exit codes are derived from the error chain, never from printing.

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/jeranaias/msgcmd/internal/commands"
	"github.com/jeranaias/msgcmd/internal/config"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error, including handler failures
	ExitGeneralError = 1
	// ExitUsageError indicates invalid flags or an unparseable message
	ExitUsageError = 2
	// ExitConfigError indicates a config or definitions file error
	ExitConfigError = 3
	// ExitNotFoundError indicates the message named no known command
	ExitNotFoundError = 7
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// UsageError reports invalid command line usage.
type UsageError struct {
	Reason string
	Err    error
}

func (e *UsageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("usage: %s: %v", e.Reason, e.Err)
	}
	return "usage: " + e.Reason
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// ConfigError reports a configuration or definitions file that could not
// be loaded.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("config %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("config: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewUsageError creates a new usage error.
func NewUsageError(reason string, err error) error {
	return &UsageError{Reason: reason, Err: err}
}

// NewConfigError creates a new config error.
func NewConfigError(path string, err error) error {
	return &ConfigError{Path: path, Err: err}
}

// =============================================================================
// EXIT CODE MAPPING
// =============================================================================

// GetExitCode determines the exit code for an error.
//   - ExitUsageError (2): UsageError, tokenize failures
//   - ExitConfigError (3): ConfigError, config validation errors
//   - ExitNotFoundError (7): unrecognized command
//   - ExitGeneralError (1): everything else, including handler errors
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var usageErr *UsageError
	if errors.As(err, &usageErr) || errors.Is(err, commands.ErrTokenize) {
		return ExitUsageError
	}

	var configErr *ConfigError
	var validateErrs config.ValidateErrors
	if errors.As(err, &configErr) || errors.As(err, &validateErrs) {
		return ExitConfigError
	}

	if errors.Is(err, commands.ErrCommandNotRecognized) {
		return ExitNotFoundError
	}

	return ExitGeneralError
}

// errorKind names the error category in JSON output.
func errorKind(err error) string {
	var notAssigned *commands.HandlerNotAssignedError
	switch {
	case errors.As(err, &notAssigned):
		return "handler_not_assigned"
	case errors.Is(err, commands.ErrCommandNotRecognized):
		return "command_not_recognized"
	case errors.Is(err, commands.ErrTokenize):
		return "tokenize_error"
	}
	switch GetExitCode(err) {
	case ExitUsageError:
		return "usage_error"
	case ExitConfigError:
		return "config_error"
	default:
		return "handler_error"
	}
}

// =============================================================================
// ERROR DISPLAY
// =============================================================================

// DisplayError writes err to w. In JSON mode the error is written as a
// JSONResponse so scripted callers always receive one document per line
// of input.
func DisplayError(w io.Writer, err error, jsonMode bool) {
	if err == nil {
		return
	}

	if jsonMode {
		resp := NewJSONErrorResponse("", err)
		data, _ := json.MarshalIndent(resp, "", "  ")
		fmt.Fprintln(w, string(data))
		return
	}

	fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("[ERROR]"), err.Error())
}
