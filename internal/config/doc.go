// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for msgcmd.
//
// Supports both TOML and JSON configuration formats, with defaults,
// environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: main configuration structure
//   - DefinitionsConfig: where command definitions live and whether to watch them
//   - HistoryConfig: interactive prompt history
//   - OutputConfig: result format, prompt and colors
//   - LoggingConfig: diagnostic log level
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Command line flags (applied by the cli package)
//   - Environment variables (MSGCMD_*)
//   - ~/.msgcmd/config.toml
//   - ~/.msgcmd/config.json
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	path := cfg.DefinitionsPath()
package config
