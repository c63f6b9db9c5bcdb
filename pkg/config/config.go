// Package config loads the project configuration file (tfoods.yaml) that
// describes the content repository layout and deploy targets.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the tfoods.yaml structure.
type Config struct {
	// Name labels the content project.
	Name string `yaml:"name"`
	// RegistryDir is the registry root (contains nodes/ and generated/).
	RegistryDir string `yaml:"registry_dir"`
	// ContentFolders are the relative folders the deploy mirrors into a
	// game instance.
	ContentFolders []string `yaml:"content_folders"`
	// Sync inputs.
	EdiblesPath string   `yaml:"edibles_path"`
	ScanInputs  []string `yaml:"scan_inputs"`
	// Server settings for the dev inspection server.
	Server ServerConfig `yaml:"server"`
	// LogMode selects the zap encoder: "dev" (default) or "prod".
	LogMode string `yaml:"log_mode"`
}

// ServerConfig holds dev server settings.
type ServerConfig struct {
	Port string `yaml:"port"`
	// InstancesDir is the directory the dev server scans for game
	// instances.
	InstancesDir string `yaml:"instances_dir"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Name:        "timeglass-foods",
		RegistryDir: "registry",
		ContentFolders: []string{
			"kubejs/server_scripts",
			"kubejs/client_scripts",
			"registry",
		},
		EdiblesPath: "generated/edible_items.json",
		Server: ServerConfig{
			Port:         "8080",
			InstancesDir: "./instances",
		},
		LogMode: "dev",
	}
}

// Load reads path over the defaults. A missing file is not an error, the
// defaults apply; a malformed file is.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	// Env overrides for the settings that differ per developer machine.
	if port := os.Getenv("TFOODS_PORT"); port != "" {
		cfg.Server.Port = port
	}
	if dir := os.Getenv("TFOODS_INSTANCES_DIR"); dir != "" {
		cfg.Server.InstancesDir = dir
	}
	return cfg, nil
}
