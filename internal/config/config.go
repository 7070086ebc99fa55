package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents ~/.config/kotae/config.toml.
type Config struct {
	// ServerURL is the base URL of the triage backend API,
	// including the /api prefix.
	ServerURL string `toml:"server_url"`

	// PollIntervalSeconds is how often the inbox reloads in the background.
	PollIntervalSeconds int `toml:"poll_interval_seconds"`

	// RequestTimeoutSeconds bounds each backend call. 0 means no timeout.
	RequestTimeoutSeconds int `toml:"request_timeout_seconds"`

	// PageLimit caps how many messages a single list request returns.
	PageLimit int `toml:"page_limit"`

	// LogPath is where the client writes its log file. The TUI owns the
	// terminal, so nothing is logged to stderr while it runs.
	LogPath string `toml:"log_path"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		ServerURL:           "http://localhost:8000/api",
		PollIntervalSeconds: 30,
		PageLimit:           100,
		LogPath:             DefaultLogPath(),
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "kotae", "config.toml")
}

// DefaultLogPath returns the default log file location.
func DefaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "kotae.log"
	}
	return filepath.Join(home, ".local", "state", "kotae", "kotae.log")
}

// Load reads config from the given path. Missing file is not an error:
// defaults are returned so a fresh install works without setup.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}

// applyDefaults fills zero values left by a partial config file.
func (c *Config) applyDefaults() {
	d := Default()
	if c.ServerURL == "" {
		c.ServerURL = d.ServerURL
	}
	if c.PollIntervalSeconds <= 0 {
		c.PollIntervalSeconds = d.PollIntervalSeconds
	}
	if c.PageLimit <= 0 {
		c.PageLimit = d.PageLimit
	}
	if c.LogPath == "" {
		c.LogPath = d.LogPath
	}
}
