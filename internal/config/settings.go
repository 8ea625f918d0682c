package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const settingsFileName = "settings.yaml"

// Settings is the optional ~/.grabbit/settings.yaml file.
type Settings struct {
	Browser BrowserSettings `yaml:"browser" json:"browser"`
	API     APISettings     `yaml:"api" json:"api"`
	Log     LogSettings     `yaml:"log" json:"log"`
}

// BrowserSettings controls how grabbit-browse is launched.
type BrowserSettings struct {
	// Runtime is the interpreter used to run Path. Empty runs Path directly.
	Runtime string `yaml:"runtime" json:"runtime"`

	// Path to grabbit-browse.js. Empty means search the usual install locations.
	Path string `yaml:"path" json:"path"`

	// SettleDelay is how long to wait after closing stale sessions before
	// launching a new one. It must outlast the daemon's own shutdown delay.
	SettleDelay time.Duration `yaml:"settle_delay" json:"settle_delay"`

	// FollowActiveSession sends commands without --session to the session
	// the last navigation started instead of a fresh temporary one.
	FollowActiveSession bool `yaml:"follow_active_session" json:"follow_active_session"`
}

// APISettings controls the remote service client.
type APISettings struct {
	Timeout time.Duration `yaml:"timeout" json:"timeout"`

	// Multipart enables multipart uploads. When false every submission has
	// to use the JSON transport.
	Multipart bool `yaml:"multipart" json:"multipart"`
}

// LogSettings controls the debug log under ~/.grabbit/logs.
type LogSettings struct {
	Level      string `yaml:"level" json:"level"`
	File       string `yaml:"file" json:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" json:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" json:"max_backups"`
}

const (
	DefaultRuntime     = "node"
	DefaultSettleDelay = 200 * time.Millisecond
	DefaultAPITimeout  = 10 * time.Minute
	DefaultLogLevel    = "info"
	DefaultLogMaxSize  = 10
	DefaultLogBackups  = 3
)

// DefaultSettings returns the settings used when settings.yaml is absent.
func DefaultSettings() *Settings {
	return &Settings{
		Browser: BrowserSettings{
			Runtime:     DefaultRuntime,
			SettleDelay: DefaultSettleDelay,
		},
		API: APISettings{
			Timeout:   DefaultAPITimeout,
			Multipart: true,
		},
		Log: LogSettings{
			Level:      DefaultLogLevel,
			File:       filepath.Join("logs", "grabbit.log"),
			MaxSizeMB:  DefaultLogMaxSize,
			MaxBackups: DefaultLogBackups,
		},
	}
}

// SettingsPath returns the path to settings.yaml.
func SettingsPath() string {
	return filepath.Join(Home(), settingsFileName)
}

// LoadSettings reads settings.yaml over the defaults and applies
// environment overrides.
func LoadSettings() (*Settings, error) {
	s := DefaultSettings()

	data, err := os.ReadFile(SettingsPath())
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, s); err != nil {
			return nil, fmt.Errorf("failed to parse settings: %w", err)
		}
	}

	if err := s.applyEnv(); err != nil {
		return nil, err
	}
	s.Browser.Path = expandPath(s.Browser.Path)
	s.Log.File = resolveLogFile(s.Log.File)

	return s, s.Validate()
}

func (s *Settings) applyEnv() error {
	if v := os.Getenv("GRABBIT_BROWSE_PATH"); v != "" {
		s.Browser.Path = v
	}
	if v, ok := os.LookupEnv("GRABBIT_BROWSE_RUNTIME"); ok {
		s.Browser.Runtime = v
	}
	if v := os.Getenv("GRABBIT_SETTLE_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid GRABBIT_SETTLE_DELAY: %w", err)
		}
		s.Browser.SettleDelay = d
	}
	if v := os.Getenv("GRABBIT_LOG_LEVEL"); v != "" {
		s.Log.Level = v
	}
	return nil
}

// Validate checks the settings for errors
func (s *Settings) Validate() error {
	var errs []string

	if s.Browser.SettleDelay < 0 {
		errs = append(errs, "browser.settle_delay must not be negative")
	}
	if s.API.Timeout < 0 {
		errs = append(errs, "api.timeout must not be negative")
	}
	if s.Log.MaxSizeMB < 0 || s.Log.MaxBackups < 0 {
		errs = append(errs, "log.max_size_mb and log.max_backups must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("settings validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func expandPath(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, path[1:])
}

func resolveLogFile(path string) string {
	path = expandPath(path)
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(Home(), path)
}
