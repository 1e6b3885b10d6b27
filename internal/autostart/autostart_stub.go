//go:build !windows

package autostart

import "fmt"

// Enable, Disable, and Enabled are unsupported outside Windows: there is
// no Run key to write to, and the daemon itself only runs against the
// stub backend off Windows.
func Enable(exePath string) error { return fmt.Errorf("autostart: unsupported on this platform") }

func Disable() error { return fmt.Errorf("autostart: unsupported on this platform") }

func Enabled() (bool, error) { return false, fmt.Errorf("autostart: unsupported on this platform") }
