// Package config loads fossflow settings from defaults, an optional YAML file
// and FOSSFLOW_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

const (
	// FileName is the config file looked up inside the base directory
	FileName = "config.yaml"

	// HomeEnv overrides the default base directory
	HomeEnv = "FOSSFLOW_HOME"

	envPrefix = "FOSSFLOW_"
)

// Backend selects the key-value store implementation.
type Backend string

const (
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
	BackendMemory Backend = "memory"
)

// DefaultCapacity approximates the per-origin quota of browser storage.
const DefaultCapacity int64 = 5 * 1024 * 1024

// Config holds global configuration settings
type Config struct {
	// BaseDir is the root directory for fossflow storage
	BaseDir       string        `yaml:"base_dir" koanf:"base_dir"`
	Backend       Backend       `yaml:"backend" koanf:"backend"`
	CapacityBytes int64         `yaml:"capacity_bytes" koanf:"capacity_bytes"`
	AutoSaveDelay time.Duration `yaml:"autosave_delay" koanf:"autosave_delay"`
	Addr          string        `yaml:"addr" koanf:"addr"`
	LogLevel      string        `yaml:"log_level" koanf:"log_level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		BaseDir:       getDefaultBaseDir(),
		Backend:       BackendFile,
		CapacityBytes: DefaultCapacity,
		AutoSaveDelay: 5 * time.Second,
		Addr:          "127.0.0.1:3000",
		LogLevel:      "info",
	}
}

// getDefaultBaseDir returns the default base directory path
func getDefaultBaseDir() string {
	if envDir := os.Getenv(HomeEnv); envDir != "" {
		return envDir
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		// If we can't get the home directory, use current directory
		return ".fossflow"
	}
	return filepath.Join(homeDir, ".fossflow")
}

// LoadConfig builds the configuration for baseDir (the default base directory
// when empty): defaults, then <baseDir>/config.yaml if present, then
// FOSSFLOW_* environment variables. The result is validated.
func LoadConfig(baseDir string) (*Config, error) {
	cfg := DefaultConfig()
	if baseDir != "" {
		cfg.BaseDir = baseDir
	}

	k := koanf.New(".")

	path := filepath.Join(cfg.BaseDir, FileName)
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to access config %s: %w", path, err)
	}

	// FOSSFLOW_AUTOSAVE_DELAY -> autosave_delay, etc. FOSSFLOW_HOME is handled
	// above and must not leak into the struct.
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		if s == HomeEnv {
			return ""
		}
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// A flag-supplied directory wins over anything in the file.
	if baseDir != "" {
		cfg.BaseDir = baseDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.BaseDir == "" {
		return fmt.Errorf("base directory cannot be empty")
	}

	absPath, err := filepath.Abs(c.BaseDir)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}
	c.BaseDir = absPath

	switch c.Backend {
	case BackendFile, BackendSQLite, BackendMemory:
	case "":
		c.Backend = BackendFile
	default:
		return fmt.Errorf("invalid backend %q: must be one of file, sqlite, memory", c.Backend)
	}

	if c.CapacityBytes < 0 {
		return fmt.Errorf("capacity_bytes must be non-negative")
	}

	if c.AutoSaveDelay <= 0 {
		return fmt.Errorf("autosave_delay must be positive")
	}

	return nil
}

// Path returns the config file path inside the base directory
func (c *Config) Path() string {
	return filepath.Join(c.BaseDir, FileName)
}

// LogPath returns the log file used by long-running commands
func (c *Config) LogPath() string {
	return filepath.Join(c.BaseDir, "fossflow.log")
}

// EnsureDirectories creates necessary directories if they don't exist
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.BaseDir,
		filepath.Join(c.BaseDir, "storage"),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// Save writes the configuration as YAML to path
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config to %s: %w", path, err)
	}
	return nil
}
