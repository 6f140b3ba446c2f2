// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the message command system.
package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// DEFINITION FORMATS
// =============================================================================

// Format identifies a definitions file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatJSON Format = "json" // JSON with comments and trailing commas allowed
	FormatYAML Format = "yaml"
)

// FormatFromPath picks a format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".json", ".jsonc":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported definitions file extension %q (want .toml, .json, .jsonc, .yaml or .yml)", filepath.Ext(path))
	}
}

// =============================================================================
// LOADING
// =============================================================================

// LoadDefinitions reads a definitions file, choosing the decoder by extension.
//
// A TOML file looks like:
//
//	[[command]]
//	name = "greet"
//	aliases = ["hi"]
//	handler = "echo"
//
//	  [[command.flag]]
//	  name = "loud"
//	  short_name = "l"
//	  default_value_present = true
//	  default_value_absent = false
func LoadDefinitions(path string) ([]CommandDef, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading definitions %s: %w", path, err)
	}

	defs, err := ParseDefinitions(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return defs, nil
}

// ParseDefinitions decodes definitions from data in the given format.
func ParseDefinitions(data []byte, format Format) ([]CommandDef, error) {
	var defs Definitions

	switch format {
	case FormatTOML:
		if _, err := toml.Decode(string(data), &defs); err != nil {
			return nil, fmt.Errorf("parsing TOML definitions: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(jsonc.ToJSON(data), &defs); err != nil {
			return nil, fmt.Errorf("parsing JSON definitions: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &defs); err != nil {
			return nil, fmt.Errorf("parsing YAML definitions: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown definitions format %q", format)
	}

	return defs.Commands, nil
}
