// Package xdg resolves XDG Base Directory paths for mealtrack.
// It determines the appropriate locations for configuration files and state
// data on Unix-like systems, falling back to the traditional dot-directories
// when the XDG environment variables are not set.
//
// All directories are created on first use with private permissions, since
// they may hold security-sensitive material such as the encrypted file
// keyring fallback.
package xdg

import (
	"os"
	"path/filepath"
)

const appDir = "mealtrack"

// ConfigDir returns the XDG config directory for mealtrack
// (~/.config/mealtrack when XDG_CONFIG_HOME is unset).
func ConfigDir() (string, error) {
	return resolve("XDG_CONFIG_HOME", ".config")
}

// StateDir returns the XDG state directory for mealtrack
// (~/.local/state/mealtrack when XDG_STATE_HOME is unset).
func StateDir() (string, error) {
	return resolve("XDG_STATE_HOME", ".local", "state")
}

// resolve picks the base directory from env or the home fallback and ensures
// the app subdirectory exists with 0700 permissions.
func resolve(envVar string, fallback ...string) (string, error) {
	base := os.Getenv(envVar)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(append([]string{home}, fallback...)...)
	}
	dir := filepath.Join(base, appDir)
	if err := os.MkdirAll(dir, 0o700); err != nil { // private dir
		return "", err
	}
	return dir, nil
}
