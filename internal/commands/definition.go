// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the message command system.
package commands

import (
	"maps"
	"slices"
)

// =============================================================================
// DECLARATIVE DEFINITIONS
// =============================================================================

// Definitions is the top level of a definitions file.
type Definitions struct {
	Commands []CommandDef `toml:"command" json:"commands" yaml:"commands"`
}

// CommandDef declares a command. Every field is optional except Name; the
// zero value of each field is its default.
type CommandDef struct {
	Name        string   `toml:"name" json:"name" yaml:"name"`
	Aliases     []string `toml:"aliases" json:"aliases" yaml:"aliases"`
	Description string   `toml:"description" json:"description" yaml:"description"`

	// Handler binds a function directly and wins over HandlerName
	Handler HandlerFunc `toml:"-" json:"-" yaml:"-"`

	// HandlerName is looked up in the registry's HandlerSet
	HandlerName string `toml:"handler" json:"handler" yaml:"handler"`

	Flags       []FlagDef      `toml:"flag" json:"flags" yaml:"flags"`
	SubCommands []CommandDef   `toml:"sub_command" json:"sub_commands" yaml:"sub_commands"`
	MetaData    map[string]any `toml:"meta_data" json:"meta_data" yaml:"meta_data"`
}

// FlagDef declares a flag. Name becomes the flag's long name.
type FlagDef struct {
	Name           string   `toml:"name" json:"name" yaml:"name"`
	ShortName      string   `toml:"short_name" json:"short_name" yaml:"short_name"`
	LongAliases    []string `toml:"long_aliases" json:"long_aliases" yaml:"long_aliases"`
	ShortAliases   []string `toml:"short_aliases" json:"short_aliases" yaml:"short_aliases"`
	AcceptsInput   bool     `toml:"accepts_input" json:"accepts_input" yaml:"accepts_input"`
	DefaultPresent any      `toml:"default_value_present" json:"default_value_present" yaml:"default_value_present"`
	DefaultAbsent  any      `toml:"default_value_absent" json:"default_value_absent" yaml:"default_value_absent"`
}

// HandlerSet maps handler names used in definition files to functions.
type HandlerSet map[string]HandlerFunc

// =============================================================================
// TREE BUILDING
// =============================================================================

// buildCommands turns definitions into commands, top-down. Slices and maps
// are copied so later changes to defs cannot reach the tree.
func buildCommands(defs []CommandDef, parent *Command, handlers HandlerSet) []*Command {
	cmds := make([]*Command, 0, len(defs))
	for _, def := range defs {
		cmd := &Command{
			Name:        def.Name,
			Aliases:     slices.Clone(def.Aliases),
			Description: def.Description,
			Handler:     def.Handler,
			Flags:       buildFlags(def.Flags),
			MetaData:    maps.Clone(def.MetaData),
			parent:      parent,
		}
		if cmd.Handler == nil && def.HandlerName != "" {
			cmd.Handler = handlers[def.HandlerName]
		}
		if cmd.MetaData == nil {
			cmd.MetaData = map[string]any{}
		}
		cmd.SubCommands = buildCommands(def.SubCommands, cmd, handlers)
		cmds = append(cmds, cmd)
	}
	return cmds
}

// buildFlags turns flag definitions into flags, keeping declaration order.
func buildFlags(defs []FlagDef) []*Flag {
	flags := make([]*Flag, 0, len(defs))
	for _, def := range defs {
		flags = append(flags, &Flag{
			LongName:       def.Name,
			LongAliases:    slices.Clone(def.LongAliases),
			ShortName:      def.ShortName,
			ShortAliases:   slices.Clone(def.ShortAliases),
			AcceptsInput:   def.AcceptsInput,
			DefaultPresent: def.DefaultPresent,
			DefaultAbsent:  def.DefaultAbsent,
		})
	}
	return flags
}
