// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/msgcmd/internal/commands"
	"github.com/jeranaias/msgcmd/internal/config"
)

// lockedBuffer is a bytes.Buffer safe for the watcher goroutine to write to.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func isolateHome(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("MSGCMD_DEFINITIONS", "")
	t.Setenv("MSGCMD_LOG_LEVEL", "")
	t.Setenv("MSGCMD_DEBUG", "")
	config.ResetGlobalForTesting()
}

func newTestApp(t *testing.T, opts Options, cfg *config.Config) (*App, *lockedBuffer, *lockedBuffer) {
	t.Helper()
	if cfg == nil {
		cfg = config.Default()
	}
	if opts.JSON {
		cfg.Output.Format = config.OutputJSON
	}
	if opts.Definitions != "" {
		cfg.Definitions.Path = opts.Definitions
	}
	cfg.Output.NoColor = true

	out, errOut := &lockedBuffer{}, &lockedBuffer{}
	app, err := NewApp(cfg, opts, out, errOut)
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })
	return app, out, errOut
}

func decodeResponse(t *testing.T, s string) (JSONResponse, json.RawMessage) {
	t.Helper()
	var raw struct {
		JSONResponse
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(s), &raw))
	return raw.JSONResponse, raw.Data
}

// =============================================================================
// FLAG PARSING TESTS
// =============================================================================

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		validate func(*testing.T, Options)
	}{
		{
			name: "flags stop at the message",
			args: []string{"--json", "echo", "--upper", "hi"},
			validate: func(t *testing.T, o Options) {
				assert.True(t, o.JSON)
				assert.Equal(t, []string{"echo", "--upper", "hi"}, o.Message)
			},
		},
		{
			name: "short flags",
			args: []string{"-n", "-d", "defs.yaml", "-w", "flags"},
			validate: func(t *testing.T, o Options) {
				assert.True(t, o.DryRun)
				assert.True(t, o.Watch)
				assert.Equal(t, "defs.yaml", o.Definitions)
				assert.Equal(t, []string{"flags"}, o.Message)
			},
		},
		{
			name: "double dash",
			args: []string{"--", "-x"},
			validate: func(t *testing.T, o Options) {
				assert.Equal(t, []string{"-x"}, o.Message)
			},
		},
		{
			name: "no message",
			args: []string{"--debug", "--no-color"},
			validate: func(t *testing.T, o Options) {
				assert.True(t, o.Debug)
				assert.True(t, o.NoColor)
				assert.Empty(t, o.Message)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var help bytes.Buffer
			opts, err := ParseFlags(tt.args, &help)
			require.NoError(t, err)
			tt.validate(t, opts)
		})
	}
}

func TestParseFlags_Errors(t *testing.T) {
	var help bytes.Buffer
	_, err := ParseFlags([]string{"--bogus"}, &help)
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, GetExitCode(err))

	help.Reset()
	_, err = ParseFlags([]string{"-h"}, &help)
	assert.True(t, errors.Is(err, pflag.ErrHelp))
	assert.Contains(t, help.String(), "Usage:")
	assert.Contains(t, help.String(), "--definitions")
}

func TestMessageFromArgs(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{nil, ""},
		{[]string{`echo "a b" c`}, `echo "a b" c`},
		{[]string{"echo", "a b", "c"}, `echo 'a b' c`},
	}
	for _, tt := range tests {
		if got := MessageFromArgs(tt.args); got != tt.want {
			t.Errorf("MessageFromArgs(%q) = %q, want %q", tt.args, got, tt.want)
		}
	}
}

// =============================================================================
// EXECUTE TESTS
// =============================================================================

func TestExecute_Echo(t *testing.T) {
	app, out, _ := newTestApp(t, Options{}, nil)

	require.NoError(t, app.Execute("echo -u hello world", SourceArgs))
	require.NoError(t, app.Execute("say --separator=, a b", SourceArgs))
	require.NoError(t, app.Execute(`echo "a  b"`, SourceArgs))

	assert.Equal(t, "HELLO WORLD\na,b\na  b\n", out.String())
}

func TestExecute_JSON(t *testing.T) {
	app, out, _ := newTestApp(t, Options{JSON: true}, nil)

	require.NoError(t, app.Execute("echo hi", SourceArgs))

	resp, data := decodeResponse(t, out.String())
	assert.True(t, resp.Success)
	assert.Equal(t, "echo", resp.Command)
	assert.Nil(t, resp.Error)
	assert.JSONEq(t, `"hi"`, string(data))
}

func TestExecute_Unrecognized(t *testing.T) {
	app, _, errOut := newTestApp(t, Options{}, nil)

	err := app.Execute("ecko hi", SourceArgs)
	require.ErrorIs(t, err, commands.ErrCommandNotRecognized)
	assert.Equal(t, ExitNotFoundError, GetExitCode(err))
	assert.Contains(t, errOut.String(), `command not recognized: "ecko"`)
	assert.Contains(t, errOut.String(), `Did you mean "echo"?`)
}

func TestExecute_UnrecognizedJSON(t *testing.T) {
	app, out, _ := newTestApp(t, Options{JSON: true}, nil)

	require.Error(t, app.Execute("nope", SourceArgs))

	resp, _ := decodeResponse(t, out.String())
	assert.False(t, resp.Success)
	assert.Equal(t, "command_not_recognized", resp.ErrorKind)
	require.NotNil(t, resp.Error)
}

func TestExecute_TokenizeError(t *testing.T) {
	app, _, _ := newTestApp(t, Options{}, nil)

	err := app.Execute(`echo "open`, SourceArgs)
	require.ErrorIs(t, err, commands.ErrTokenize)
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

func TestExecute_DryRun(t *testing.T) {
	app, out, _ := newTestApp(t, Options{JSON: true, DryRun: true}, nil)

	require.NoError(t, app.Execute("flags sub --level=3 x --verbose", SourceArgs))

	resp, data := decodeResponse(t, out.String())
	assert.Equal(t, "flags sub", resp.Command)

	var view ContextView
	require.NoError(t, json.Unmarshal(data, &view))
	assert.Equal(t, "flags sub", view.Command)
	assert.Equal(t, "3", view.Flags["level"])
	assert.Equal(t, []string{"x", "--verbose"}, view.Args)
	require.Len(t, view.Tokens, 5)
	assert.Equal(t, commands.TokenSubCommand, view.Tokens[1].Type)
	assert.Equal(t, commands.TokenArgument, view.Tokens[4].Type)
	assert.NotEmpty(t, view.ID)
}

func TestExecute_FlagsText(t *testing.T) {
	app, out, _ := newTestApp(t, Options{}, nil)

	require.NoError(t, app.Execute("inspect -v --name", SourceArgs))

	text := out.String()
	assert.Contains(t, text, "flags")
	assert.Contains(t, text, "--name = world")
	assert.Contains(t, text, "--verbose = true")
	assert.Contains(t, text, "-v(Flag)")
}

func TestExecute_Help(t *testing.T) {
	app, out, _ := newTestApp(t, Options{}, nil)

	require.NoError(t, app.Execute("help flags sub", SourceArgs))
	assert.Contains(t, out.String(), "Usage: flags sub [flags] [arguments...]")

	out.buf.Reset()
	require.NoError(t, app.Execute("?", SourceArgs))
	assert.Contains(t, out.String(), "Commands:")
	assert.Contains(t, out.String(), "echo (say)")

	err := app.Execute("help nope", SourceArgs)
	assert.Equal(t, ExitNotFoundError, GetExitCode(err))
}

func TestExecute_CompleteAndCommands(t *testing.T) {
	app, out, _ := newTestApp(t, Options{}, nil)

	require.NoError(t, app.Execute("complete flags --ver", SourceArgs))
	assert.True(t, strings.HasPrefix(out.String(), "--verbose"))

	out.buf.Reset()
	require.NoError(t, app.Execute("complete --next flags", SourceArgs))
	assert.Contains(t, out.String(), "sub")
	assert.Contains(t, out.String(), "--name")

	out.buf.Reset()
	require.NoError(t, app.Execute("ls", SourceArgs))
	assert.Equal(t, "echo\nflags\nhelp\ncomplete\ncommands\nquit\n", out.String())
}

// =============================================================================
// INPUT LOOP TESTS
// =============================================================================

func TestRunLines_Quit(t *testing.T) {
	app, out, _ := newTestApp(t, Options{}, nil)

	err := app.runLines(strings.NewReader("echo a\n\n# comment\nquit\necho b\n"))
	require.NoError(t, err)
	assert.Equal(t, "a\nbye\n", out.String())
}

func TestRunLines_ReturnsLastError(t *testing.T) {
	app, out, _ := newTestApp(t, Options{}, nil)

	err := app.runLines(strings.NewReader("nope\necho ok\n"))
	require.ErrorIs(t, err, commands.ErrCommandNotRecognized)
	assert.Equal(t, "ok\n", out.String())
}

func TestRun(t *testing.T) {
	isolateHome(t)

	tests := []struct {
		name     string
		args     []string
		stdin    string
		wantCode int
		wantOut  string
	}{
		{"message", []string{"--no-color", "echo", "hi", "there"}, "", ExitSuccess, "hi there\n"},
		{"quoted message", []string{"--no-color", `echo "a  b"`}, "", ExitSuccess, "a  b\n"},
		{"stdin", []string{"--no-color"}, "echo one\necho two\n", ExitSuccess, "one\ntwo\n"},
		{"not found", []string{"--no-color", "nope"}, "", ExitNotFoundError, ""},
		{"bad flag", []string{"--nope"}, "", ExitUsageError, ""},
		{"bad definitions", []string{"--definitions", "defs.ini", "echo"}, "", ExitConfigError, ""},
		{"missing definitions", []string{"--definitions", "missing.toml", "echo"}, "", ExitConfigError, ""},
		{"version", []string{"--version"}, "", ExitSuccess, "msgcmd version " + Version + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			code := Run(tt.args, strings.NewReader(tt.stdin), &out, &errOut)
			assert.Equal(t, tt.wantCode, code, errOut.String())
			if tt.wantOut != "" {
				assert.True(t, strings.HasPrefix(out.String(), tt.wantOut), out.String())
			}
		})
	}
}

// =============================================================================
// DEFINITIONS FILE TESTS
// =============================================================================

const botDefs = `
[[command]]
name = "shout"
handler = "echo"

  [[command.flag]]
  name = "upper"
  short_name = "u"
  default_value_present = true
  default_value_absent = true

[[command]]
name = "broken"
handler = "missing"
`

func TestDefinitionsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.toml")
	require.NoError(t, os.WriteFile(path, []byte(botDefs), 0644))

	app, out, errOut := newTestApp(t, Options{Definitions: path}, nil)
	assert.Contains(t, errOut.String(), "definition issue")

	require.NoError(t, app.Execute("shout hey", SourceArgs))
	assert.Equal(t, "HEY\n", out.String())

	err := app.Execute("broken", SourceArgs)
	require.ErrorIs(t, err, commands.ErrHandlerNotAssigned)
	assert.Equal(t, ExitGeneralError, GetExitCode(err))

	// Built-in names are only reachable through the file's commands
	require.Error(t, app.Execute("echo hi", SourceArgs))
}

func TestNewApp_BadDefinitions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("commands: [\n"), 0644))

	cfg := config.Default()
	cfg.Definitions.Path = path
	_, err := NewApp(cfg, Options{}, &bytes.Buffer{}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Equal(t, ExitConfigError, GetExitCode(err))
}

func TestWatch_ReloadsDefinitions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.toml")
	require.NoError(t, os.WriteFile(path, []byte(botDefs), 0644))

	cfg := config.Default()
	cfg.Definitions.Watch = true
	cfg.Definitions.DebounceMs = 20
	app, _, errOut := newTestApp(t, Options{Definitions: path}, cfg)

	updated := botDefs + "\n[[command]]\nname = \"late\"\nhandler = \"echo\"\n"
	require.NoError(t, os.WriteFile(path, []byte(updated), 0644))

	require.Eventually(t, func() bool {
		return app.Registry().Get("late") != nil
	}, 5*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool {
		return strings.Contains(errOut.String(), "definitions reloaded")
	}, time.Second, 10*time.Millisecond)
}

// =============================================================================
// HELPER TESTS
// =============================================================================

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, ExitSuccess},
		{errors.New("boom"), ExitGeneralError},
		{NewUsageError("bad", nil), ExitUsageError},
		{fmt.Errorf("wrapped: %w", commands.ErrTokenize), ExitUsageError},
		{NewConfigError("x.toml", errors.New("bad")), ExitConfigError},
		{fmt.Errorf("invalid config: %w", config.ValidateErrors{{Field: "a", Message: "b"}}), ExitConfigError},
		{&commands.CommandNotRecognizedError{Token: "x"}, ExitNotFoundError},
		{&commands.HandlerNotAssignedError{Path: "x"}, ExitGeneralError},
	}
	for _, tt := range tests {
		if got := GetExitCode(tt.err); got != tt.want {
			t.Errorf("GetExitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestSuggestCommand(t *testing.T) {
	registry := commands.New(DefaultDefinitions())

	tests := []struct {
		input string
		want  string
	}{
		{"ecko", "echo"},
		{"hepl", "help"},
		{"ECHO", "echo"},
		{"comands", "commands"},
		{"x", ""},
		{"zzzzzz", ""},
	}
	for _, tt := range tests {
		if got := SuggestCommand(registry, tt.input); got != tt.want {
			t.Errorf("SuggestCommand(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "abc", 3},
		{"abc", "abc", 0},
		{"kitten", "sitting", 3},
		{"café", "cafe", 1},
	}
	for _, tt := range tests {
		if got := levenshteinDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("levenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestTrimHistory(t *testing.T) {
	data := []byte("a\nb\nc\nd\n")
	assert.Equal(t, "c\nd\n", string(trimHistory(data, 2)))
	assert.Equal(t, string(data), string(trimHistory(data, 10)))
	assert.Equal(t, string(data), string(trimHistory(data, 0)))
}

func TestHighlightJSON(t *testing.T) {
	src := `{"success": true}`
	highlighted := highlightJSON(src, "monokai")
	assert.Contains(t, highlighted, "\x1b[")
	assert.Contains(t, highlighted, "success")
}

func TestPrinter_CompletionsJSON(t *testing.T) {
	var out bytes.Buffer
	p := &Printer{Out: &out, Err: &out, JSON: true}

	require.NoError(t, p.Result("complete", []commands.Completion{{Value: "--verbose", Kind: commands.TokenFlag}}))

	_, data := decodeResponse(t, out.String())
	assert.JSONEq(t, `[{"value":"--verbose","kind":"Flag"}]`, string(data))
}
