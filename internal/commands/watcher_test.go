// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDefs(t *testing.T, path, name string) {
	t.Helper()
	data := "[[command]]\nname = \"" + name + "\"\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
}

func fileLoader(path string) LoadFunc {
	return func() (*Registry, error) {
		defs, err := LoadDefinitions(path)
		if err != nil {
			return nil, err
		}
		return New(defs), nil
	}
}

func TestLive_Swap(t *testing.T) {
	first := New([]CommandDef{{Name: "one"}})
	second := New([]CommandDef{{Name: "two"}})

	live := NewLive(first)
	assert.Same(t, first, live.Load())

	live.Store(second)
	assert.Same(t, second, live.Load())
	assert.Nil(t, live.Load().Get("one"))
}

func TestWatcher_ReloadKeepsPreviousOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "defs.toml")
	writeDefs(t, path, "first")

	initial, err := fileLoader(path)()
	require.NoError(t, err)
	live := NewLive(initial)

	w, err := NewWatcher(live, path, fileLoader(path), 10*time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("[[command]\n"), 0o644))
	require.Error(t, w.Reload())
	assert.Same(t, initial, live.Load())

	writeDefs(t, path, "second")
	require.NoError(t, w.Reload())
	assert.NotNil(t, live.Load().Get("second"))
}

func TestWatcher_ReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "defs.toml")
	writeDefs(t, path, "before")

	initial, err := fileLoader(path)()
	require.NoError(t, err)
	live := NewLive(initial)

	w, err := NewWatcher(live, path, fileLoader(path), 20*time.Millisecond, nil)
	require.NoError(t, err)

	var mu sync.Mutex
	reloads := 0
	w.OnReload = func(r *Registry, err error) {
		mu.Lock()
		reloads++
		mu.Unlock()
	}

	require.NoError(t, w.Watch())
	defer w.Close()

	writeDefs(t, path, "after")

	require.Eventually(t, func() bool {
		return live.Load().Get("after") != nil
	}, 5*time.Second, 10*time.Millisecond)

	mu.Lock()
	assert.GreaterOrEqual(t, reloads, 1)
	mu.Unlock()
}
