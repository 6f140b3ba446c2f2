// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// app.go - Wiring of config, registry, watcher and output for msgcmd.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/spf13/pflag"

	"github.com/jeranaias/msgcmd/internal/commands"
	"github.com/jeranaias/msgcmd/internal/config"
)

// Message sources passed to handlers under the "source" Extra key.
const (
	SourceArgs        = "args"
	SourceInteractive = "interactive"
	SourceStdin       = "stdin"
)

// App is a configured msgcmd instance.
type App struct {
	cfg     *config.Config
	opts    Options
	live    *commands.Live
	watcher *commands.Watcher
	printer *Printer
	logger  *slog.Logger
	quit    atomic.Bool
}

// Run is the msgcmd entry point. It returns the process exit code.
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := ParseFlags(args, stdout)
	if errors.Is(err, pflag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		DisplayError(stderr, err, false)
		return GetExitCode(err)
	}
	if opts.Version {
		PrintVersion(stdout)
		return ExitSuccess
	}

	cfg, err := LoadConfig(opts, stderr)
	if err != nil {
		DisplayError(stderr, err, opts.JSON)
		return GetExitCode(err)
	}

	app, err := NewApp(cfg, opts, stdout, stderr)
	if err != nil {
		DisplayError(stderr, err, cfg.Output.Format == config.OutputJSON)
		return GetExitCode(err)
	}
	defer app.Close()

	return GetExitCode(app.Run(stdin))
}

// LoadConfig loads the config file named by opts, or the default one, and
// applies flag overrides on top. A broken default config file is reported
// on w and defaults are used; a broken explicit one is an error.
func LoadConfig(opts Options, w io.Writer) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if opts.ConfigPath != "" {
		cfg, err = config.LoadFromPath(opts.ConfigPath)
		if err != nil {
			return nil, NewConfigError(opts.ConfigPath, err)
		}
	} else {
		cfg, err = config.Load()
		if cfg == nil {
			return nil, NewConfigError("", err)
		}
		if err != nil {
			fmt.Fprintf(w, "Warning: %v (using defaults)\n", err)
		}
	}

	if opts.Definitions != "" {
		cfg.Definitions.Path = opts.Definitions
	}
	if opts.Watch {
		cfg.Definitions.Watch = true
	}
	if opts.JSON {
		cfg.Output.Format = config.OutputJSON
	}
	if opts.NoColor {
		cfg.Output.NoColor = true
	}
	if opts.Debug {
		cfg.Logging.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, NewConfigError(opts.ConfigPath, err)
	}
	config.SetGlobal(cfg)
	return cfg, nil
}

// NewApp builds the registry from the configured definitions and, when
// asked to, starts watching the definitions file.
func NewApp(cfg *config.Config, opts Options, stdout, stderr io.Writer) (*App, error) {
	if cfg.Output.NoColor {
		DisableColors()
	}

	a := &App{
		cfg:  cfg,
		opts: opts,
		logger: slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
			Level: cfg.Logging.SlogLevel(),
		})),
	}
	a.printer = &Printer{
		Out:      stdout,
		Err:      stderr,
		JSON:     cfg.Output.Format == config.OutputJSON,
		Color:    ColorsEnabled() && !cfg.Output.NoColor,
		Style:    cfg.Output.Style,
		WordWrap: cfg.Output.WordWrap,
	}

	registry, err := a.loadRegistry()
	if err != nil {
		return nil, err
	}
	a.live = commands.NewLive(registry)

	path := cfg.DefinitionsPath()
	if cfg.Definitions.Watch && path != "" {
		debounce := time.Duration(cfg.Definitions.DebounceMs) * time.Millisecond
		watcher, err := commands.NewWatcher(a.live, path, a.loadRegistry, debounce, a.logger)
		if err != nil {
			return nil, NewConfigError(path, err)
		}
		watcher.OnReload = a.onReload
		if err := watcher.Watch(); err != nil {
			watcher.Close()
			return nil, NewConfigError(path, err)
		}
		a.watcher = watcher
	}

	return a, nil
}

// loadRegistry reads the definitions, lints them and builds a registry.
// Lint findings are logged, never fatal.
func (a *App) loadRegistry() (*commands.Registry, error) {
	path := a.cfg.DefinitionsPath()

	defs := DefaultDefinitions()
	if path != "" {
		loaded, err := commands.LoadDefinitions(path)
		if err != nil {
			return nil, NewConfigError(path, err)
		}
		defs = loaded
	}

	handlers := a.Handlers()
	for _, issue := range commands.Lint(defs, handlers) {
		a.logger.Warn("definition issue",
			"severity", issue.Severity.String(),
			"command", issue.Path,
			"issue", issue.Message)
	}

	return commands.New(defs,
		commands.WithLogger(a.logger),
		commands.WithHandlers(handlers),
		commands.WithUnicodeNormalization(a.cfg.Definitions.NormalizeUnicode),
	), nil
}

func (a *App) onReload(_ *commands.Registry, err error) {
	if err != nil {
		a.printer.Warn("definitions reload failed, keeping previous commands: %v", err)
		return
	}
	a.printer.Notice("definitions reloaded from %s", a.cfg.DefinitionsPath())
}

// Registry returns the current registry.
func (a *App) Registry() *commands.Registry {
	return a.live.Load()
}

// Run handles the message from the command line, or reads messages from
// stdin: interactively on a terminal, line by line otherwise.
func (a *App) Run(stdin io.Reader) error {
	if len(a.opts.Message) > 0 {
		return a.Execute(MessageFromArgs(a.opts.Message), SourceArgs)
	}
	if f, ok := stdin.(*os.File); ok && f == os.Stdin && IsTTY() {
		return a.runInteractive()
	}
	return a.runLines(stdin)
}

// Execute resolves and dispatches one message and prints the outcome.
// In dry-run mode the resolved Context is printed instead of running the
// handler. The returned error has already been printed.
func (a *App) Execute(message, source string) error {
	registry := a.live.Load()

	ctx, err := registry.Resolve(message)
	if err != nil {
		a.printer.Error("", err)
		a.suggest(registry, err)
		return err
	}
	path := ctx.Command.Path()

	if a.opts.DryRun {
		return a.printer.Result(path, ctx)
	}

	result, err := registry.Dispatch(ctx,
		commands.WithValue("source", source),
		commands.WithValue(registryKey, registry),
	)
	if err != nil {
		a.printer.Error(path, err)
		return err
	}
	return a.printer.Result(path, result)
}

// suggest prints a "did you mean" hint for unrecognized commands.
func (a *App) suggest(registry *commands.Registry, err error) {
	var notFound *commands.CommandNotRecognizedError
	if a.printer.JSON || !errors.As(err, &notFound) || notFound.Token == "" {
		return
	}
	if s := SuggestCommand(registry, notFound.Token); s != "" {
		a.printer.Notice("Did you mean %q?", s)
	}
}

// completeLine feeds the line editor's tab completion.
func (a *App) completeLine(line string) []string {
	return commands.NewCompleter(a.live.Load()).CompleteLine(line)
}

// Close stops the definitions watcher.
func (a *App) Close() error {
	if a.watcher != nil {
		return a.watcher.Close()
	}
	return nil
}
