// Package config loads service configuration from an optional YAML file and
// environment variables. Precedence: environment variables, then the config
// file, then defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage backends selectable via storage.backend.
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// DefaultMaxUploadSize caps uploaded text files at 16 MiB.
const DefaultMaxUploadSize = 16 * 1024 * 1024

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Server struct {
		Port            string        `yaml:"port"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`

	// Logging configuration
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`

	// Storage configuration
	Storage struct {
		Backend string `yaml:"backend"` // sqlite or memory
		Path    string `yaml:"path"`    // sqlite database file
	} `yaml:"storage"`

	// Upload limits
	Upload struct {
		MaxFileSize int64 `yaml:"max_file_size"`
	} `yaml:"upload"`

	// Web UI
	Web struct {
		StaticDir string `yaml:"static_dir"`
	} `yaml:"web"`
}

// Load loads configuration from a file (if specified) and environment
// variables.
func Load(configFile string) (*Config, error) {
	cfg := &Config{}

	// Defaults first
	cfg.Server.Port = "8080"
	cfg.Server.ShutdownTimeout = 10 * time.Second
	cfg.Logging.Level = "info"
	cfg.Logging.Format = "json"
	cfg.Storage.Backend = BackendSQLite
	cfg.Storage.Path = "./data/reading_assistant.db"
	cfg.Upload.MaxFileSize = DefaultMaxUploadSize
	cfg.Web.StaticDir = "./web/static"

	// Config file next
	if configFile != "" {
		if absConfigFile, err := filepath.Abs(configFile); err == nil {
			configFile = absConfigFile
		}

		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Environment variables win
	loadFromEnv(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadFromEnv(cfg *Config) {
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = port
	}
	if timeout := getDurationFromEnv("SHUTDOWN_TIMEOUT"); timeout > 0 {
		cfg.Server.ShutdownTimeout = timeout
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		cfg.Logging.Format = format
	}
	if backend := os.Getenv("STORAGE_BACKEND"); backend != "" {
		cfg.Storage.Backend = backend
	}
	if path := os.Getenv("DATABASE_PATH"); path != "" {
		cfg.Storage.Path = path
	}
	if size := getInt64FromEnv("MAX_UPLOAD_SIZE"); size > 0 {
		cfg.Upload.MaxFileSize = size
	}
	if dir := os.Getenv("STATIC_DIR"); dir != "" {
		cfg.Web.StaticDir = dir
	}
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("unknown storage backend %q (want %q or %q)",
			c.Storage.Backend, BackendSQLite, BackendMemory)
	}

	if c.Storage.Backend == BackendSQLite && c.Storage.Path == "" {
		return fmt.Errorf("storage.path is required for the sqlite backend")
	}

	if c.Upload.MaxFileSize <= 0 {
		return fmt.Errorf("upload.max_file_size must be positive")
	}

	return nil
}

// getDurationFromEnv returns a duration from an environment variable, or 0
// if unset or unparseable.
func getDurationFromEnv(key string) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return 0
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

// getInt64FromEnv returns an int64 from an environment variable, or 0 if
// unset or unparseable.
func getInt64FromEnv(key string) int64 {
	value := os.Getenv(key)
	if value == "" {
		return 0
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
