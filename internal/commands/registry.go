// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the message command system.
package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/kballard/go-shellquote"
	"golang.org/x/text/unicode/norm"
)

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Registry holds an immutable tree of commands. All methods are safe for
// concurrent use; handlers are responsible for their own synchronization.
type Registry struct {
	commands  []*Command
	logger    *slog.Logger
	handlers  HandlerSet
	normalize bool
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for debug tracing. The default discards.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithHandlers binds CommandDef.HandlerName references. Names missing from
// the set leave the command without a handler.
func WithHandlers(handlers HandlerSet) Option {
	return func(r *Registry) {
		r.handlers = handlers
	}
}

// WithUnicodeNormalization NFC-normalizes messages before tokenizing, so
// visually identical names typed with combining marks still resolve.
func WithUnicodeNormalization(enabled bool) Option {
	return func(r *Registry) {
		r.normalize = enabled
	}
}

// New builds a registry from definitions. It never fails: missing fields
// take their zero-value defaults.
func New(defs []CommandDef, opts ...Option) *Registry {
	r := &Registry{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.commands = buildCommands(defs, nil, r.handlers)

	cmdCount, flagCount := 0, 0
	Walk(r.commands, func(cmd *Command) {
		cmdCount++
		flagCount += len(cmd.Flags)
	})
	r.logger.Debug("command registry built",
		"top_level", len(r.commands),
		"commands", cmdCount,
		"flags", flagCount)
	return r
}

// Get retrieves a top-level command by name or alias.
func (r *Registry) Get(name string) *Command {
	return lookupCommand(r.commands, name)
}

// Commands returns the top-level commands in declaration order.
func (r *Registry) Commands() []*Command {
	out := make([]*Command, len(r.commands))
	copy(out, r.commands)
	return out
}

// Find follows a path of names/aliases from the top level, e.g.
// Find("remote", "add"). Returns nil if any step fails.
func (r *Registry) Find(path ...string) *Command {
	if len(path) == 0 {
		return nil
	}
	cmd := r.Get(path[0])
	for _, name := range path[1:] {
		if cmd == nil {
			return nil
		}
		cmd = cmd.SubCommand(name)
	}
	return cmd
}

// Walk visits every command depth-first, parents before children.
func Walk(cmds []*Command, fn func(*Command)) {
	for _, cmd := range cmds {
		fn(cmd)
		Walk(cmd.SubCommands, fn)
	}
}

// =============================================================================
// TOKENIZATION
// =============================================================================

// Tokenize splits a message into shell-style words. Quotes group words and
// escapes are honored; an unterminated quote fails with ErrTokenize.
// Empty or whitespace-only messages yield no tokens.
func (r *Registry) Tokenize(message string) ([]string, error) {
	if r.normalize {
		message = norm.NFC.String(message)
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return []string{}, nil
	}
	tokens, err := shellquote.Split(message)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenize, err)
	}
	return tokens, nil
}

// =============================================================================
// CLASSIFICATION
// =============================================================================

// Classify tokenizes message and labels every token, left to right with no
// backtracking:
//
//  1. The first token must be a top-level command, otherwise the message
//     is rejected with ErrCommandNotRecognized.
//  2. Right after a command or sub-command, a child name makes a sub-command
//     and moves the scope down.
//  3. Right after a command, sub-command or flag, a flag of the scope makes
//     a flag.
//  4. Anything else is an argument.
//
// Because arguments satisfy neither precondition, everything after the
// first argument is an argument too.
func (r *Registry) Classify(message string) ([]Token, error) {
	words, err := r.Tokenize(message)
	if err != nil {
		return nil, err
	}
	return r.classifyWords(words)
}

// classifyWords runs the classification state machine over words.
func (r *Registry) classifyWords(words []string) ([]Token, error) {
	tokens := make([]Token, 0, len(words))
	var scope *Command
	var prev TokenType

	for _, word := range words {
		if scope == nil {
			cmd := r.Get(word)
			if cmd == nil {
				return nil, &CommandNotRecognizedError{Token: word}
			}
			tokens = append(tokens, Token{Type: TokenCommand, Raw: word, Command: cmd})
			scope, prev = cmd, TokenCommand
			continue
		}

		if prev.isCommand() {
			if sub := scope.SubCommand(word); sub != nil {
				tokens = append(tokens, Token{Type: TokenSubCommand, Raw: word, Command: sub})
				scope, prev = sub, TokenSubCommand
				continue
			}
		}

		if prev.isCommand() || prev == TokenFlag {
			if fv := scope.ResolveFlag(word); fv != nil {
				tokens = append(tokens, Token{Type: TokenFlag, Raw: word, Flag: fv})
				prev = TokenFlag
				continue
			}
		}

		tokens = append(tokens, Token{Type: TokenArgument, Raw: word})
		prev = TokenArgument
	}

	return tokens, nil
}

// =============================================================================
// PARSING
// =============================================================================

// callOptions carries data forwarded verbatim to the handler.
type callOptions struct {
	args  []any
	extra map[string]any
}

// CallOption forwards caller data to a handler.
type CallOption func(*callOptions)

// WithArgs prepends values to the handler's positional arguments.
func WithArgs(args ...any) CallOption {
	return func(o *callOptions) {
		o.args = append(o.args, args...)
	}
}

// WithExtra merges keyword data into Context.Extra.
func WithExtra(extra map[string]any) CallOption {
	return func(o *callOptions) {
		for k, v := range extra {
			o.set(k, v)
		}
	}
}

// WithValue adds a single keyword to Context.Extra.
func WithValue(key string, value any) CallOption {
	return func(o *callOptions) {
		o.set(key, value)
	}
}

func (o *callOptions) set(key string, value any) {
	if o.extra == nil {
		o.extra = make(map[string]any)
	}
	o.extra[key] = value
}

// Resolve classifies message and folds the tokens into a Context without
// running anything. An empty message fails with ErrCommandNotRecognized.
func (r *Registry) Resolve(message string) (*Context, error) {
	tokens, err := r.Classify(message)
	if err != nil {
		return nil, err
	}

	last := -1
	for i, tok := range tokens {
		if tok.Type.isCommand() {
			last = i
		}
	}
	if last < 0 {
		return nil, &CommandNotRecognizedError{}
	}
	cmd := tokens[last].Command

	flags := make(map[string]FlagValue, len(cmd.Flags))
	for _, flag := range cmd.Flags {
		flags[flag.LongName] = FlagValue{Flag: flag, Value: flag.DefaultAbsent}
	}
	for _, tok := range tokens {
		if tok.Type == TokenFlag {
			flags[tok.Flag.Flag.LongName] = *tok.Flag
		}
	}

	args := []string{}
	for i, tok := range tokens {
		if tok.Type == TokenArgument {
			for _, rest := range tokens[i:] {
				args = append(args, rest.Raw)
			}
			break
		}
	}

	ctx := &Context{
		ID:      uuid.New().String(),
		Command: cmd,
		Flags:   flags,
		Tokens:  tokens,
		Message: message,
		Args:    args,
		Extra:   map[string]any{},
	}
	r.logger.Debug("message resolved",
		"invocation_id", ctx.ID,
		"command", cmd.Path(),
		"tokens", len(tokens),
		"args", len(args))
	return ctx, nil
}

// Parse resolves message and runs the resolved command's handler with the
// forwarded arguments followed by the extracted ones. It returns the
// handler's result. Handler errors are returned unchanged.
func (r *Registry) Parse(message string, opts ...CallOption) (any, error) {
	ctx, err := r.Resolve(message)
	if err != nil {
		return nil, err
	}
	return r.Dispatch(ctx, opts...)
}

// ParseOr is Parse, except that a message naming no command returns
// fallback instead of failing. No handler runs in that case.
func (r *Registry) ParseOr(message string, fallback any, opts ...CallOption) (any, error) {
	ctx, err := r.Resolve(message)
	if errors.Is(err, ErrCommandNotRecognized) {
		return fallback, nil
	}
	if err != nil {
		return nil, err
	}
	return r.Dispatch(ctx, opts...)
}

// Dispatch runs a resolved Context's command.
func (r *Registry) Dispatch(ctx *Context, opts ...CallOption) (any, error) {
	var o callOptions
	for _, opt := range opts {
		opt(&o)
	}
	if ctx.Extra == nil {
		ctx.Extra = make(map[string]any, len(o.extra))
	}
	for k, v := range o.extra {
		ctx.Extra[k] = v
	}

	args := make([]any, 0, len(o.args)+len(ctx.Args))
	args = append(args, o.args...)
	for _, arg := range ctx.Args {
		args = append(args, arg)
	}

	r.logger.Debug("dispatching command",
		"invocation_id", ctx.ID,
		"command", ctx.Command.Path())
	return ctx.Command.Run(ctx, args)
}
