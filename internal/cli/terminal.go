// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// terminal.go - Terminal detection for the msgcmd CLI.
//
// Interactive terminals get the line editor and colors. Piped input is read
// line by line and piped output is left uncolored.

package cli

import (
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// =============================================================================
// TTY DETECTION
// =============================================================================

// IsTTY returns true if stdin is a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// IsStdoutTTY returns true if stdout is a terminal.
func IsStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

const (
	// DefaultTerminalWidth is the fallback width when detection fails
	DefaultTerminalWidth = 80

	// MinTerminalWidth is the minimum width used for wrapping
	MinTerminalWidth = 40
)

// GetTerminalWidth returns the current terminal width, or
// DefaultTerminalWidth when it cannot be determined.
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return DefaultTerminalWidth
	}
	if width < MinTerminalWidth {
		return MinTerminalWidth
	}
	return width
}

// =============================================================================
// COLOR OUTPUT CONTROL
// =============================================================================

var (
	colorsEnabled     bool
	colorsEnabledOnce sync.Once
	colorsMu          sync.RWMutex
)

// ColorsEnabled returns true if colored output should be used.
// NO_COLOR (https://no-color.org/) wins over FORCE_COLOR, which wins over
// TTY detection.
func ColorsEnabled() bool {
	colorsEnabledOnce.Do(func() {
		enabled := IsStdoutTTY()
		if os.Getenv("FORCE_COLOR") != "" {
			enabled = true
		}
		if os.Getenv("NO_COLOR") != "" {
			enabled = false
		}
		colorsMu.Lock()
		colorsEnabled = enabled
		colorsMu.Unlock()
	})
	colorsMu.RLock()
	defer colorsMu.RUnlock()
	return colorsEnabled
}

// DisableColors turns colored output off for the rest of the process and
// resets the lipgloss profile to match.
func DisableColors() {
	SetColorsEnabled(false)
}

// SetColorsEnabled overrides color detection. Used by --no-color and tests.
func SetColorsEnabled(enabled bool) {
	colorsEnabledOnce.Do(func() {})
	colorsMu.Lock()
	colorsEnabled = enabled
	colorsMu.Unlock()
	lipgloss.SetColorProfile(GetColorProfile())
}

// GetColorProfile returns the termenv color profile to render with.
// Returns Ascii (no colors) when colors are disabled.
func GetColorProfile() termenv.Profile {
	if !ColorsEnabled() {
		return termenv.Ascii
	}
	return termenv.ColorProfile()
}
