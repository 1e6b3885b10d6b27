package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"
)

const configFileName = "config.toml"
const appDirName = "openniri"

// SearchPaths returns the config file locations checked in order: the
// user-scope app-data directory, the user config directory, then the
// current working directory.
func SearchPaths() []string {
	var paths []string

	if appData := os.Getenv("APPDATA"); appData != "" {
		paths = append(paths, filepath.Join(appData, appDirName, configFileName))
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(userConfigDir, appDirName, configFileName))
	}
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, configFileName))
	}

	return paths
}

// DefaultConfigPath returns the path init writes to when none is given
// explicitly: the first entry of the search order.
func DefaultConfigPath() (string, error) {
	paths := SearchPaths()
	if len(paths) == 0 {
		return "", fmt.Errorf("config: no candidate config directory available")
	}
	return paths[0], nil
}

// Load walks SearchPaths in order and parses the first file found,
// merging it over Default(). If no file exists anywhere in the search
// order, Default() is returned with an empty path.
func Load() (*Config, string, error) {
	for _, path := range SearchPaths() {
		exists, err := pathExists(path)
		if err != nil {
			return nil, "", err
		}
		if exists {
			cfg, err := LoadFromPath(path)
			if err != nil {
				return nil, "", err
			}
			return cfg, path, nil
		}
	}
	return Default(), "", nil
}

// LoadFromPath parses a single TOML file, merges it over the built-in
// defaults, and validates the result.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	mergeDefaults(cfg, Default())

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save atomically writes cfg to path (write-then-rename), creating parent
// directories as needed.
func Save(cfg *Config, path string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: failed to create directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: failed to marshal: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".config-*.toml")
	if err != nil {
		return fmt.Errorf("config: failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("config: failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("config: failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("config: failed to rename into place: %w", err)
	}
	return nil
}

func pathExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// Watcher notifies a callback whenever the on-disk config file changes.
// The daemon does not start one; a running daemon picks up config edits
// only through the reload command.
type Watcher struct {
	fsw  *fsnotify.Watcher
	done chan struct{}
}

// WatchFile starts watching path for writes/renames, invoking onChange
// (with the freshly loaded config, or an error) on each event. The
// teacher's own config watcher coalesces rapid successive writes from the
// same editor save; callers here do not need that since config reloads
// are already idempotent and cheap.
func WatchFile(path string, onChange func(*Config, error)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: failed to start watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("config: failed to watch %s: %w", filepath.Dir(path), err)
	}

	w := &Watcher{fsw: fsw, done: make(chan struct{})}
	go func() {
		defer close(w.done)
		for {
			select {
			case event, ok := <-fsw.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(path) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				cfg, err := LoadFromPath(path)
				onChange(cfg, err)
			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				onChange(nil, err)
			}
		}
	}()

	return w, nil
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	err := w.fsw.Close()
	<-w.done
	return err
}
