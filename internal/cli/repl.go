// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// repl.go - Interactive prompt with history and tab completion.
package cli

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeranaias/msgcmd/internal/util"
)

// =============================================================================
// LINE READER
// =============================================================================

// LineReader provides line editing, history and completion for the
// interactive prompt.
type LineReader struct {
	line        *liner.State
	historyFile string
	maxEntries  int
}

// NewLineReader creates a LineReader. An empty historyFile disables
// history persistence. complete may be nil.
func NewLineReader(historyFile string, maxEntries int, complete func(string) []string) *LineReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	if complete != nil {
		line.SetCompleter(complete)
	}

	r := &LineReader{
		line:        line,
		historyFile: historyFile,
		maxEntries:  maxEntries,
	}
	r.LoadHistory()
	return r
}

// LoadHistory loads history from the history file, if any.
func (r *LineReader) LoadHistory() {
	if r.historyFile == "" {
		return
	}
	if f, err := os.Open(r.historyFile); err == nil {
		r.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line with the given prompt. Non-empty lines are
// appended to history.
func (r *LineReader) ReadInput(prompt string) (string, error) {
	input, err := r.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		r.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory writes the newest maxEntries history lines with mode 0600.
func (r *LineReader) SaveHistory() error {
	if r.historyFile == "" {
		return nil
	}

	var buf bytes.Buffer
	if _, err := r.line.WriteHistory(&buf); err != nil {
		return fmt.Errorf("failed to collect history: %w", err)
	}
	data := trimHistory(buf.Bytes(), r.maxEntries)

	if err := util.AtomicWriteFileWithDir(r.historyFile, data, 0600, 0700); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}

// Close saves history and restores the terminal.
func (r *LineReader) Close() error {
	err := r.SaveHistory()
	if cerr := r.line.Close(); err == nil {
		err = cerr
	}
	return err
}

// trimHistory keeps the last max lines of data. max <= 0 keeps everything.
func trimHistory(data []byte, max int) []byte {
	if max <= 0 {
		return data
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) <= max {
		return data
	}
	return []byte(strings.Join(lines[len(lines)-max:], "\n") + "\n")
}

// =============================================================================
// LOOPS
// =============================================================================

// runInteractive runs the prompt loop until quit, Ctrl+C or Ctrl+D.
// Message failures are printed and the loop continues.
func (a *App) runInteractive() error {
	historyFile := ""
	if a.cfg.History.Enabled {
		path, err := a.cfg.HistoryPath()
		if err != nil {
			a.logger.Warn("history disabled", "error", err)
		} else {
			historyFile = path
		}
	}

	reader := NewLineReader(historyFile, a.cfg.History.MaxEntries, a.completeLine)
	defer func() {
		if err := reader.Close(); err != nil {
			a.logger.Warn("could not save history", "error", err)
		}
	}()

	a.printer.Notice("msgcmd %s - type 'help' for commands, 'quit' to exit", Version)

	for !a.quit.Load() {
		input, err := reader.ReadInput(a.cfg.Output.Prompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(a.printer.Out)
				return nil
			}
			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		_ = a.Execute(input, SourceInteractive)
	}
	return nil
}

// runLines parses one message per line of in. Every line is attempted;
// the last failure is returned so the exit code reflects it.
func (a *App) runLines(in io.Reader) error {
	var lastErr error

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() && !a.quit.Load() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := a.Execute(line, SourceStdin); err != nil {
			lastErr = err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return lastErr
}
