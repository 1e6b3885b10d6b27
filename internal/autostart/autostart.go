//go:build windows

// Package autostart registers and unregisters the daemon as a per-user
// startup entry via the standard Run registry key, the same mechanism
// Windows itself uses for user-scope autostart entries.
package autostart

import (
	"fmt"

	"golang.org/x/sys/windows/registry"
)

const (
	runKeyPath = `Software\Microsoft\Windows\CurrentVersion\Run`
	valueName  = "openniri"
)

// Enable writes a Run-key entry that launches exePath with "run" every
// time the user logs in.
func Enable(exePath string) error {
	key, _, err := registry.CreateKey(registry.CURRENT_USER, runKeyPath, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("autostart: opening Run key: %w", err)
	}
	defer key.Close()

	command := fmt.Sprintf("%q run", exePath)
	if err := key.SetStringValue(valueName, command); err != nil {
		return fmt.Errorf("autostart: writing Run entry: %w", err)
	}
	return nil
}

// Disable removes the Run-key entry, if present.
func Disable() error {
	key, err := registry.OpenKey(registry.CURRENT_USER, runKeyPath, registry.SET_VALUE)
	if err != nil {
		if err == registry.ErrNotExist {
			return nil
		}
		return fmt.Errorf("autostart: opening Run key: %w", err)
	}
	defer key.Close()

	if err := key.DeleteValue(valueName); err != nil && err != registry.ErrNotExist {
		return fmt.Errorf("autostart: removing Run entry: %w", err)
	}
	return nil
}

// Enabled reports whether the Run-key entry currently exists.
func Enabled() (bool, error) {
	key, err := registry.OpenKey(registry.CURRENT_USER, runKeyPath, registry.QUERY_VALUE)
	if err != nil {
		if err == registry.ErrNotExist {
			return false, nil
		}
		return false, fmt.Errorf("autostart: opening Run key: %w", err)
	}
	defer key.Close()

	if _, _, err := key.GetStringValue(valueName); err != nil {
		if err == registry.ErrNotExist {
			return false, nil
		}
		return false, fmt.Errorf("autostart: reading Run entry: %w", err)
	}
	return true, nil
}
