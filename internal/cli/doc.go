// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the msgcmd command line front-end.
//
// It loads configuration, builds a commands.Registry from a definitions
// file (or the built-in defaults), and feeds it messages from one of three
// sources:
//
//   - the positional arguments, parsed once
//   - an interactive prompt with history and tab completion (stdin is a TTY)
//   - stdin, one message per line
//
// # Built-in Handlers
//
// Definition files bind commands to these handlers by name:
//
//   - echo: join the arguments, honoring optional upper and separator flags
//   - flags: return the resolved Context for inspection
//   - help: usage for a command path, or an overview of all commands
//   - complete: completions for a partial message
//   - commands: names of the top-level commands
//   - quit: leave the interactive prompt
//
// # Exit Codes
//
//   - 0: success
//   - 1: handler failure or other error
//   - 2: invalid flags or an unparseable message
//   - 3: config or definitions file error
//   - 7: the message named no known command
package cli
