// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small file helpers shared by msgcmd packages.
//
// # Key Functions
//
//   - AtomicWriteFile: crash-safe file writing with fsync and rename
//   - ExpandHome: "~/" expansion for paths taken from config and flags
//   - FileExists: regular-file existence check
//
// # Usage
//
//	// Persist the config without ever leaving a half-written file
//	err := util.AtomicWriteFile(path, data, 0600)
//
//	// Resolve a definitions path from the config file
//	path := util.ExpandHome(cfg.Definitions.Path)
package util
