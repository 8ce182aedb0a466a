// Package config loads and stores CLI configuration in the XDG config dir.
// Only non-secret settings are kept here; secrets go to OS keychain.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"mealtrack/cli/internal/xdg"
)

// DefaultAPIBaseURL is the production service endpoint used when neither the
// environment nor the config file overrides it.
const DefaultAPIBaseURL = "https://api.mealtrack.app/api/v1"

// Config holds non-sensitive CLI settings.
type Config struct {
	APIBaseURL string `json:"api_base_url"`
	LogLevel   string `json:"log_level"`
}

// path returns the path to the config file.
func path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads configuration; missing file returns defaults.
func Load() (Config, error) {
	var c Config
	p, err := path()
	if err != nil {
		return c, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaults(), nil
		}
		return c, err
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return c, err
	}
	// Partial files keep their written values, holes fall back.
	if c.APIBaseURL == "" {
		c.APIBaseURL = DefaultAPIBaseURL
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	return c, nil
}

func defaults() Config {
	return Config{
		APIBaseURL: DefaultAPIBaseURL,
		LogLevel:   "info",
	}
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := path()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}
