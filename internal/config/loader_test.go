package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveThenLoadFromPath_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := Default()
	cfg.Layout.Gap = 25
	cfg.Gestures.Enabled = true
	require.NoError(t, Save(cfg, path))

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, 25, loaded.Layout.Gap)
	assert.True(t, loaded.Gestures.Enabled)
}

func TestSave_RejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := Default()
	cfg.Layout.Gap = -5
	assert.Error(t, Save(cfg, path))
}

func TestLoadFromPath_RejectsMalformedTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, writeFile(path, "this is not [ toml"))

	_, err := LoadFromPath(path)
	assert.Error(t, err)
}

func TestLoadFromPath_MergesPartialDocumentOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, writeFile(path, "[layout]\ngap = 42\n"))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.Layout.Gap)
	assert.Equal(t, Default().Layout.DefaultColumnWidth, cfg.Layout.DefaultColumnWidth)
}

func TestLoad_FallsBackToDefaultsWhenNoFileExists(t *testing.T) {
	t.Setenv("APPDATA", t.TempDir())
	cfg, path, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "", path)
	assert.Equal(t, Default(), cfg)
}

func TestWatchFile_NotifiesOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, writeFile(path, "[layout]\ngap = 10\n"))

	changed := make(chan *Config, 1)
	w, err := WatchFile(path, func(cfg *Config, err error) {
		if err == nil {
			changed <- cfg
		}
	})
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, writeFile(path, "[layout]\ngap = 77\n"))

	select {
	case cfg := <-changed:
		assert.Equal(t, 77, cfg.Layout.Gap)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for watcher notification")
	}
}

func writeFile(path, contents string) error {
	return os.WriteFile(path, []byte(contents), 0o644)
}
