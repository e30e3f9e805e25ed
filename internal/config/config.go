// Package config handles global loam configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the global loam configuration.
type Config struct {
	// DefaultStore is the name of the default store (from Stores map).
	DefaultStore string `toml:"default_store"`

	// Stores maps store names to locations. A location ending in ".db"
	// is a SQLite store; anything else is a markdown directory.
	Stores map[string]string `toml:"stores"`

	// UI controls optional CLI theming preferences.
	UI UIConfig `toml:"ui"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an optional accent color for CLI output and markdown
	// rendering. Supported values are ANSI color codes ("0" to "255")
	// or hex colors ("#RRGGBB").
	Accent string `toml:"accent"`

	// CodeTheme sets the Glamour/Chroma theme used for rendered markdown
	// code blocks. Example values: "monokai", "dracula", "github".
	CodeTheme string `toml:"code_theme"`
}

// GetStorePath returns the location for a named store.
// If name is empty, returns the default store's location.
func (c *Config) GetStorePath(name string) (string, error) {
	if name == "" {
		name = c.DefaultStore
	}
	if name == "" {
		return "", fmt.Errorf("no default store configured")
	}
	if c.Stores != nil {
		if path, ok := c.Stores[name]; ok {
			return path, nil
		}
	}
	return "", fmt.Errorf("store '%s' not found in config", name)
}

// ListStores returns all configured stores with their locations.
func (c *Config) ListStores() map[string]string {
	result := make(map[string]string)
	for name, path := range c.Stores {
		result[name] = path
	}
	return result
}

// Load loads the configuration from the default location.
// Returns a default config if the file doesn't exist.
func Load() (*Config, error) {
	configPath := DefaultPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &Config{}, nil
	}

	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &config, nil
}

// DefaultPath returns the default config file path.
// Checks ~/.config/loam/config.toml first (XDG style),
// then falls back to OS-specific location.
func DefaultPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		xdgPath := filepath.Join(home, ".config", "loam", "config.toml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "loam", "config.toml")
	}

	return filepath.Join(".", "config.toml")
}

// CreateDefault creates a default config file if it doesn't exist.
func CreateDefault() (string, error) {
	configPath := DefaultPath()

	if _, err := os.Stat(configPath); err == nil {
		return configPath, nil // Already exists
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	defaultConfig := `# Loam configuration

# Default store name (must exist in [stores] below)
# default_store = "personal"

# Named stores. A location ending in .db is a SQLite store;
# anything else is a directory of markdown files.
# [stores]
# personal = "/path/to/your/notes"
# work = "/path/to/work/notes.db"

# Optional UI accent color for headers/links in terminal output.
# Supports ANSI color codes (0-255) or hex (#RRGGBB).
# [ui]
# accent = "39"
# code_theme = "monokai"
`

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return configPath, nil
}
