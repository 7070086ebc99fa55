package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.toml")

	cfg := &Config{
		ServerURL:           "http://10.0.0.5:8000/api",
		PollIntervalSeconds: 15,
		PageLimit:           50,
		LogPath:             filepath.Join(tmpDir, "kotae.log"),
	}
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.ServerURL != cfg.ServerURL {
		t.Errorf("ServerURL = %q, want %q", loaded.ServerURL, cfg.ServerURL)
	}
	if loaded.PollIntervalSeconds != 15 {
		t.Errorf("PollIntervalSeconds = %d, want 15", loaded.PollIntervalSeconds)
	}
	if loaded.PageLimit != 50 {
		t.Errorf("PageLimit = %d, want 50", loaded.PageLimit)
	}
}

func TestLoadMissingReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ServerURL != "http://localhost:8000/api" {
		t.Errorf("ServerURL = %q, want default", cfg.ServerURL)
	}
	if cfg.PollIntervalSeconds != 30 {
		t.Errorf("PollIntervalSeconds = %d, want 30", cfg.PollIntervalSeconds)
	}
	if cfg.PageLimit != 100 {
		t.Errorf("PageLimit = %d, want 100", cfg.PageLimit)
	}
}

func TestLoadPartialFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("server_url = \"http://backend:9000/api\"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ServerURL != "http://backend:9000/api" {
		t.Errorf("ServerURL = %q, want override", cfg.ServerURL)
	}
	if cfg.PollIntervalSeconds != 30 {
		t.Errorf("PollIntervalSeconds = %d, want default 30", cfg.PollIntervalSeconds)
	}
}

func TestSavePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	if err := Save(path, Default()); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("file permission = %o, want 0600", perm)
	}
}
