package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openniri/openniri/internal/config"
)

func TestIpcCmdName_ConvertsHyphensToUnderscores(t *testing.T) {
	assert.Equal(t, "focus_left", ipcCmdName("focus-left"))
	assert.Equal(t, "move_window_to_monitor_left", ipcCmdName("move-window-to-monitor-left"))
	assert.Equal(t, "stop", ipcCmdName("stop"))
}

func TestRunInit_WritesDefaultConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	rc := runInit([]string{"-o", path})
	require.Equal(t, 0, rc)

	cfg, err := config.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default().Layout.Gap, cfg.Layout.Gap)
}

func TestRunInit_RefusesToOverwriteWithoutForce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[layout]\ngap = 5\n"), 0o644))

	rc := runInit([]string{"-o", path})
	assert.NotEqual(t, 0, rc)

	cfg, err := config.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Layout.Gap)
}

func TestRunInit_ForceOverwritesExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[layout]\ngap = 5\n"), 0o644))

	rc := runInit([]string{"-o", path, "--force"})
	require.Equal(t, 0, rc)

	cfg, err := config.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default().Layout.Gap, cfg.Layout.Gap)
}

func TestRunSimple_RejectsExtraArguments(t *testing.T) {
	rc := runSimple("stop", []string{"unexpected"})
	assert.Equal(t, 2, rc)
}

func TestRunDelta_RejectsNonNumericArgument(t *testing.T) {
	rc := runDelta("scroll", []string{"not-a-number"})
	assert.Equal(t, 2, rc)
}
