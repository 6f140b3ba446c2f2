// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUsage(t *testing.T) {
	r, _ := newTestRegistry(t)

	usage := Usage(r.Get("cmd"))
	assert.Contains(t, usage, "Usage: cmd [sub-command] [flags] [arguments...]")
	assert.Contains(t, usage, "Aliases: c, command")
	assert.Contains(t, usage, "Test command")
	assert.Contains(t, usage, "sub (s)")
	assert.Contains(t, usage, "--verbose, --loud, -v, -V")
	assert.Contains(t, usage, "--output, -o=<value>")
	assert.Contains(t, usage, "accepts input; present: stdout, absent: none")

	leaf := Usage(r.Find("cmd", "bare"))
	assert.Contains(t, leaf, "Usage: cmd bare [arguments...]")
	assert.NotContains(t, leaf, "Flags:")
}

func TestUsage_AlignsWideNames(t *testing.T) {
	r := New([]CommandDef{
		{Name: "日本", Description: "wide"},
		{Name: "abcd", Description: "narrow"},
	})

	lines := strings.Split(strings.TrimSpace(Overview(r.Commands())), "\n")
	assert.Equal(t, "  日本  wide", lines[1])
	assert.Equal(t, "  abcd  narrow", lines[2])
}

func TestUsageMarkdown(t *testing.T) {
	r, _ := newTestRegistry(t)

	md := UsageMarkdown(r.Find("cmd", "sub"))
	assert.True(t, strings.HasPrefix(md, "# cmd sub\n"))
	assert.Contains(t, md, "**Aliases:** `s`")
	assert.Contains(t, md, "## Flags")
	assert.Contains(t, md, "| `--level, -lv=<value>` |")
	assert.NotContains(t, md, "## Sub-commands")
}
