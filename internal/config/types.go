// SPDX-License-Identifier: MPL-2.0

package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

type (
	// Config is the fully resolved tool configuration.
	Config struct {
		// DataDir holds the persistent collections (registry, settings).
		DataDir string `mapstructure:"data_dir"`
		// SteamCmd is the path or name of the steamcmd binary.
		SteamCmd string `mapstructure:"steamcmd"`

		Catalog CatalogConfig `mapstructure:"catalog"`
		UI      UIConfig      `mapstructure:"ui"`
	}

	// CatalogConfig configures the workshop catalog client.
	CatalogConfig struct {
		BaseURL    string `mapstructure:"base_url"`
		MaxRetries uint   `mapstructure:"max_retries"`
	}

	// UIConfig configures output behavior.
	UIConfig struct {
		Verbose   bool `mapstructure:"verbose"`
		AssumeYes bool `mapstructure:"assume_yes"`
	}
)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		DataDir:  filepath.Join(xdg.DataHome, AppName),
		SteamCmd: "steamcmd",
		Catalog: CatalogConfig{
			BaseURL:    "https://steamcommunity.com",
			MaxRetries: 3,
		},
		UI: UIConfig{},
	}
}

// RegistryPath is the location of the installed-item collection.
func (c *Config) RegistryPath() string {
	return filepath.Join(c.DataDir, "registry.json")
}

// SettingsPath is the location of the settings collection.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.DataDir, "settings.json")
}
