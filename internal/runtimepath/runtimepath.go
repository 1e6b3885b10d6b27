// Package runtimepath resolves the daemon's per-user runtime locations:
// the named-pipe address IPC clients connect to, and the directory the
// persistence snapshot is written under.
package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
)

const pipeName = `\\.\pipe\openniri`

// PipePath returns the daemon's IPC named-pipe address. It never varies
// per-user the way a Unix socket path does: Windows named pipes are
// already namespaced to the session by the OS, and go-winio's
// DialPipe/ListenPipe do not need a filesystem directory to exist first.
func PipePath() string {
	return pipeName
}

// Dir returns the per-user directory the persistence snapshot lives
// under. Priority:
// 1) LOCALAPPDATA (the conventional home for per-user, non-roaming app state)
// 2) os.UserCacheDir() as a cross-platform fallback
func Dir() (string, error) {
	base := os.Getenv("LOCALAPPDATA")
	if base == "" {
		var err error
		base, err = os.UserCacheDir()
		if err != nil {
			return "", fmt.Errorf("runtimepath: no usable cache directory: %w", err)
		}
	}
	dir := filepath.Join(base, "openniri")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("runtimepath: failed to create %s: %w", dir, err)
	}
	return dir, nil
}

// SnapshotPath returns the path the persistence snapshot is read from and
// atomically written to.
func SnapshotPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "state.json"), nil
}
