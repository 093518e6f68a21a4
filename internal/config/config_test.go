package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `{}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BasicConfig.SessionStore != "sqlite3" {
		t.Fatalf("session store default = %q", cfg.BasicConfig.SessionStore)
	}
	if cfg.Canvas.ImageSize != 1024 || cfg.Canvas.FrameRate != 1 {
		t.Fatalf("canvas defaults = %+v", cfg.Canvas)
	}
	if cfg.Canvas.CooldownSeconds == nil || *cfg.Canvas.CooldownSeconds != 0.4 {
		t.Fatalf("cooldown default = %v", cfg.Canvas.CooldownSeconds)
	}
	if cfg.Generation.URL == "" {
		t.Fatalf("generation url default missing")
	}
	if !filepath.IsAbs(cfg.BasicConfig.DataDir) {
		t.Fatalf("data dir not resolved: %q", cfg.BasicConfig.DataDir)
	}
}

func TestLoadKeepsExplicitValues(t *testing.T) {
	path := writeConfig(t, `{
		"basic_config": {"server_address": ":9000", "session_store": "memory"},
		"canvas": {"image_size": 256, "cooldown_seconds": -1}
	}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BasicConfig.ServerAddress != ":9000" || cfg.BasicConfig.SessionStore != "memory" {
		t.Fatalf("basic config = %+v", cfg.BasicConfig)
	}
	if cfg.Canvas.ImageSize != 256 {
		t.Fatalf("image size = %d", cfg.Canvas.ImageSize)
	}
	// a negative cooldown disables the gate
	if cfg.Canvas.CooldownSeconds == nil || *cfg.Canvas.CooldownSeconds != -1 {
		t.Fatalf("cooldown = %v", cfg.Canvas.CooldownSeconds)
	}
}

func TestLoadZeroCooldownDisablesGate(t *testing.T) {
	path := writeConfig(t, `{"canvas": {"cooldown_seconds": 0}}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	// an explicit zero must not be mistaken for "unset" and defaulted
	if cfg.Canvas.CooldownSeconds == nil || *cfg.Canvas.CooldownSeconds != 0 {
		t.Fatalf("cooldown = %v", cfg.Canvas.CooldownSeconds)
	}
}

func TestLoadRelativeDataDir(t *testing.T) {
	path := writeConfig(t, `{"basic_config": {"data_dir": "state"}}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := filepath.Join(filepath.Dir(path), "state")
	if cfg.BasicConfig.DataDir != want {
		t.Fatalf("data dir = %q, want %q", cfg.BasicConfig.DataDir, want)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatalf("expected error for missing config")
	}
}
