package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "tfoods.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RegistryDir != "registry" {
		t.Errorf("RegistryDir = %q, want registry", cfg.RegistryDir)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Server.Port)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tfoods.yaml")
	data := []byte("registry_dir: content/registry\nserver:\n  port: \"9090\"\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RegistryDir != "content/registry" {
		t.Errorf("RegistryDir = %q", cfg.RegistryDir)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("Port = %q", cfg.Server.Port)
	}
	// Untouched keys keep defaults.
	if cfg.LogMode != "dev" {
		t.Errorf("LogMode = %q, want dev", cfg.LogMode)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tfoods.yaml")
	if err := os.WriteFile(path, []byte("registry_dir: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("TFOODS_PORT", "7777")
	path := filepath.Join(t.TempDir(), "tfoods.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: \"9090\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "7777" {
		t.Errorf("Port = %q, want env override 7777", cfg.Server.Port)
	}
}
