// Package config manages the grabbit CLI's local configuration.
// Credentials live in ~/.grabbit/config.json; optional CLI settings live in
// ~/.grabbit/settings.yaml.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

const (
	// ConfigDirName is the directory under $HOME that holds all local state.
	ConfigDirName = ".grabbit"

	// ProductionAPIURL is used when neither the environment nor config.json
	// names an API server.
	ProductionAPIURL = "https://www.grabbit.dev"

	configFileName = "config.json"
)

// Config holds the persisted credentials.
type Config struct {
	Token  string `json:"token"`
	APIURL string `json:"apiUrl"`
	UserID string `json:"userId,omitempty"`
}

// HasToken reports whether the config carries an auth token.
func (c *Config) HasToken() bool {
	return c != nil && c.Token != ""
}

// Home returns the grabbit home directory.
// GRABBIT_HOME overrides the default of ~/.grabbit.
func Home() string {
	if home := os.Getenv("GRABBIT_HOME"); home != "" {
		return home
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ConfigDirName
	}
	return filepath.Join(homeDir, ConfigDirName)
}

// Path returns the path to config.json.
func Path() string {
	return filepath.Join(Home(), configFileName)
}

// Load reads config.json. A missing file yields an empty config.
func Load() (*Config, error) {
	data, err := os.ReadFile(Path())
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// Save writes config.json, normalizing the API URL.
func Save(cfg *Config) error {
	cfg.APIURL = trimSlashes(cfg.APIURL)

	if err := os.MkdirAll(Home(), 0700); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(Path(), data, 0600)
}

// Clear removes config.json. Removing a missing file is not an error.
func Clear() error {
	if err := os.Remove(Path()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ResolveAPIURL picks the API base URL.
// Priority: override (--api-url) > GRABBIT_API_URL > config apiUrl > production.
// A localhost apiUrl left over in config.json from development is ignored.
func ResolveAPIURL(cfg *Config, override string) string {
	if override != "" {
		return trimSlashes(override)
	}
	if env := os.Getenv("GRABBIT_API_URL"); env != "" {
		return trimSlashes(env)
	}
	if cfg != nil && cfg.APIURL != "" {
		u := trimSlashes(cfg.APIURL)
		if !isLocalhost(u) {
			return u
		}
	}
	return ProductionAPIURL
}

func trimSlashes(s string) string {
	return strings.TrimRight(s, "/")
}

func isLocalhost(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Hostname()) {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	return false
}
