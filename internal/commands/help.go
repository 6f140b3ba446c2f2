// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the message command system.
package commands

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// maxDescWidth bounds description columns in usage tables.
const maxDescWidth = 60

// =============================================================================
// PLAIN TEXT USAGE
// =============================================================================

// Usage renders help for cmd as aligned plain text.
func Usage(cmd *Command) string {
	var b strings.Builder

	b.WriteString("Usage: ")
	b.WriteString(usageLine(cmd))
	b.WriteString("\n")

	if len(cmd.Aliases) > 0 {
		b.WriteString("Aliases: ")
		b.WriteString(strings.Join(cmd.Aliases, ", "))
		b.WriteString("\n")
	}
	if cmd.Description != "" {
		b.WriteString("\n")
		b.WriteString(cmd.Description)
		b.WriteString("\n")
	}

	if len(cmd.SubCommands) > 0 {
		rows := make([][2]string, 0, len(cmd.SubCommands))
		for _, sub := range cmd.SubCommands {
			rows = append(rows, [2]string{commandLabel(sub), sub.Description})
		}
		b.WriteString("\nSub-commands:\n")
		writeTable(&b, rows)
	}

	if len(cmd.Flags) > 0 {
		rows := make([][2]string, 0, len(cmd.Flags))
		for _, flag := range cmd.Flags {
			rows = append(rows, [2]string{flagLabel(flag), flagSummary(flag)})
		}
		b.WriteString("\nFlags:\n")
		writeTable(&b, rows)
	}

	return b.String()
}

// Overview renders a one-line summary of every top-level command.
func Overview(cmds []*Command) string {
	var b strings.Builder
	rows := make([][2]string, 0, len(cmds))
	for _, cmd := range cmds {
		rows = append(rows, [2]string{commandLabel(cmd), cmd.Description})
	}
	b.WriteString("Commands:\n")
	writeTable(&b, rows)
	return b.String()
}

// writeTable writes two columns, padding the first by display width so
// wide characters line up.
func writeTable(b *strings.Builder, rows [][2]string) {
	width := 0
	for _, row := range rows {
		width = max(width, runewidth.StringWidth(row[0]))
	}
	for _, row := range rows {
		b.WriteString("  ")
		if row[1] == "" {
			b.WriteString(row[0])
		} else {
			b.WriteString(runewidth.FillRight(row[0], width))
			b.WriteString("  ")
			b.WriteString(runewidth.Truncate(firstLine(row[1]), maxDescWidth, "..."))
		}
		b.WriteString("\n")
	}
}

// =============================================================================
// MARKDOWN USAGE
// =============================================================================

// UsageMarkdown renders help for cmd as Markdown.
func UsageMarkdown(cmd *Command) string {
	var b strings.Builder

	b.WriteString("# ")
	b.WriteString(cmd.Path())
	b.WriteString("\n\n")
	if cmd.Description != "" {
		b.WriteString(cmd.Description)
		b.WriteString("\n\n")
	}
	b.WriteString("```\n")
	b.WriteString(usageLine(cmd))
	b.WriteString("\n```\n")

	if len(cmd.Aliases) > 0 {
		b.WriteString("\n**Aliases:** `")
		b.WriteString(strings.Join(cmd.Aliases, "`, `"))
		b.WriteString("`\n")
	}

	if len(cmd.SubCommands) > 0 {
		b.WriteString("\n## Sub-commands\n\n| Name | Description |\n|---|---|\n")
		for _, sub := range cmd.SubCommands {
			b.WriteString("| `" + commandLabel(sub) + "` | " + escapeCell(firstLine(sub.Description)) + " |\n")
		}
	}

	if len(cmd.Flags) > 0 {
		b.WriteString("\n## Flags\n\n| Flag | Details |\n|---|---|\n")
		for _, flag := range cmd.Flags {
			b.WriteString("| `" + flagLabel(flag) + "` | " + escapeCell(flagSummary(flag)) + " |\n")
		}
	}

	return b.String()
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func usageLine(cmd *Command) string {
	line := cmd.Path()
	if len(cmd.SubCommands) > 0 {
		line += " [sub-command]"
	}
	if len(cmd.Flags) > 0 {
		line += " [flags]"
	}
	return line + " [arguments...]"
}

func commandLabel(cmd *Command) string {
	if len(cmd.Aliases) == 0 {
		return cmd.Name
	}
	return cmd.Name + " (" + strings.Join(cmd.Aliases, ", ") + ")"
}

func flagLabel(flag *Flag) string {
	label := strings.Join(flag.Forms(), ", ")
	if flag.AcceptsInput {
		label += "=<value>"
	}
	return label
}

func flagSummary(flag *Flag) string {
	summary := "present: " + formatValue(flag.DefaultPresent) + ", absent: " + formatValue(flag.DefaultAbsent)
	if flag.AcceptsInput {
		summary = "accepts input; " + summary
	}
	return summary
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
