// Package config provides functionality for loading, saving, and managing
// application configuration settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"learnmap/local-app/internal/model"
)

// DefaultPath is where the configuration lives unless overridden.
const DefaultPath = "./data/config.yaml"

// Environment variables that override file settings.
const (
	EnvStorageDriver = "LEARNMAP_STORAGE_DRIVER"
	EnvRedisAddr     = "LEARNMAP_REDIS_ADDR"
	EnvLogLevel      = "LEARNMAP_LOG_LEVEL"
)

// Global variables to store the current configuration and its file path.
var (
	currentConfig *model.Config
	configPath    = DefaultPath
)

// Default returns the built-in configuration.
func Default() *model.Config {
	return &model.Config{
		Storage: model.StorageConfig{
			Driver:       "sqlite",
			DatabaseDir:  "./data",
			DatabaseFile: "learnmap.db",
			RedisAddr:    "localhost:6379",
			Key:          "bioinformatics-roadmap",
		},
		Log: model.LogConfig{
			Folder:     "./logs",
			File:       "learnmap.log",
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Export: model.ExportConfig{File: "bioinformatics-roadmap.json"},
		UI: model.UIConfig{
			Color:       "auto",
			HistoryFile: "./data/history",
		},
	}
}

// SetPath changes the file used by ConfigLoad and ConfigSave.
func SetPath(path string) {
	if path == "" {
		path = DefaultPath
	}
	configPath = path
}

// ConfigLoad loads the configuration from the YAML file.
// If the file doesn't exist, it creates a default configuration.
func ConfigLoad() error {
	// Ensure the data directory exists
	dataDir := filepath.Dir(configPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	// Check if the config file exists, if not create a default one
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		defaultConfig := Default()
		if err := ConfigSave(defaultConfig); err != nil {
			return fmt.Errorf("failed to create default config: %w", err)
		}
		applyEnv(defaultConfig)
		currentConfig = defaultConfig
		return nil
	}

	file, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	// Start from defaults so keys missing from the file keep sane values
	cfg := Default()
	if err := yaml.Unmarshal(file, cfg); err != nil {
		return fmt.Errorf("error parsing config file: %w", err)
	}
	applyEnv(cfg)

	if err := Validate(cfg); err != nil {
		return err
	}

	currentConfig = cfg
	return nil
}

// ConfigSave saves the provided configuration to the YAML file.
func ConfigSave(cfg *model.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// ConfigGet returns the current configuration.
func ConfigGet() *model.Config {
	return currentConfig
}

// Validate checks settings that cannot be defaulted.
func Validate(cfg *model.Config) error {
	switch cfg.Storage.Driver {
	case "sqlite", "redis", "memory":
	default:
		return fmt.Errorf("unsupported storage driver: %s", cfg.Storage.Driver)
	}
	if strings.TrimSpace(cfg.Storage.Key) == "" {
		return fmt.Errorf("storage key must not be empty")
	}
	switch cfg.UI.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("unsupported color mode: %s", cfg.UI.Color)
	}
	return nil
}

func applyEnv(cfg *model.Config) {
	if v := strings.TrimSpace(os.Getenv(EnvStorageDriver)); v != "" {
		cfg.Storage.Driver = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvRedisAddr)); v != "" {
		cfg.Storage.RedisAddr = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Log.Level = v
	}
}
