package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultLogLevel   = "info"
	DefaultDBFileName = ".snip.sqlite3"
	ConfigFileName    = ".snip.toml"
	configDirEnvKey   = "SNIP_CONFIG_DIR"
	dbPathEnvKey      = "SNIP_DB"
)

// ErrNoHome is returned when a default path needs the home directory and
// none is available.
var ErrNoHome = errors.New("cannot determine home directory")

// Config defines runtime configuration for snip.
type Config struct {
	DBPath   string `toml:"db_path"`
	LogLevel string `toml:"log_level"`
}

// Default returns default configuration values.
func Default() Config {
	return Config{
		DBPath:   "",
		LogLevel: DefaultLogLevel,
	}
}

func loadFile(path string, cfg *Config) error {
	_, err := loadFileIfExists(path, cfg)
	return err
}

func loadFileIfExists(path string, cfg *Config) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if info.IsDir() {
		return false, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return false, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return true, nil
}

func overrideConfigPath() (string, bool) {
	dir := strings.TrimSpace(os.Getenv(configDirEnvKey))
	if dir == "" {
		return "", false
	}
	return filepath.Join(dir, ConfigFileName), true
}

func homeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoHome, err)
	}
	if strings.TrimSpace(home) == "" {
		return "", ErrNoHome
	}
	return home, nil
}

var allowedKeys = []string{
	"db_path",
	"log_level",
}

var validLogLevels = []string{"debug", "info", "warn", "error"}

// AllowedKeys returns the set of valid config keys.
func AllowedKeys() []string {
	return allowedKeys
}

// IsAllowedKey checks if a key is a valid config key.
func IsAllowedKey(key string) bool {
	for _, k := range allowedKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Get returns the value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "db_path":
		return c.DBPath, nil
	case "log_level":
		return c.LogLevel, nil
	default:
		return "", fmt.Errorf("unknown key: %s", key)
	}
}

// GlobalPath returns the path to the global config file.
func GlobalPath() (string, error) {
	if path, ok := overrideConfigPath(); ok {
		return path, nil
	}
	home, err := homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ConfigFileName), nil
}

// SetKey reads the TOML file at path, sets key=value, and writes it back.
func SetKey(path, key, value string) error {
	if !IsAllowedKey(key) {
		return fmt.Errorf("unknown key: %s", key)
	}

	data := make(map[string]any)
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &data); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}

	parsedValue, err := parseSetValue(key, value)
	if err != nil {
		return err
	}
	data[key] = parsedValue

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(data)
}

// Load reads the global config file. A missing home directory only
// matters once a default path is needed, so it is not an error here.
func Load() (*Config, error) {
	cfg := Default()

	if overridePath, ok := overrideConfigPath(); ok {
		if err := loadFile(overridePath, &cfg); err != nil {
			return nil, err
		}
	} else if home, err := homeDir(); err == nil {
		if err := loadFile(filepath.Join(home, ConfigFileName), &cfg); err != nil {
			return nil, err
		}
	}

	if strings.TrimSpace(cfg.LogLevel) == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	return &cfg, nil
}

// ResolveDBPath picks the database location: flagValue, then SNIP_DB,
// then the configured db_path, then ~/.snip.sqlite3.
func (c *Config) ResolveDBPath(flagValue string) (string, error) {
	if path := strings.TrimSpace(flagValue); path != "" {
		return path, nil
	}
	if path := strings.TrimSpace(os.Getenv(dbPathEnvKey)); path != "" {
		return path, nil
	}
	if path := strings.TrimSpace(c.DBPath); path != "" {
		return path, nil
	}
	return DefaultDBPath()
}

// DefaultDBPath returns ~/.snip.sqlite3.
func DefaultDBPath() (string, error) {
	home, err := homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultDBFileName), nil
}

func parseSetValue(key, value string) (any, error) {
	value = strings.TrimSpace(value)
	switch key {
	case "log_level":
		normalized := strings.ToLower(value)
		for _, level := range validLogLevels {
			if normalized == level {
				return normalized, nil
			}
		}
		return nil, fmt.Errorf("%s must be one of %s", key, strings.Join(validLogLevels, ", "))
	case "db_path":
		if value == "" {
			return nil, fmt.Errorf("%s must not be empty", key)
		}
		return value, nil
	default:
		return value, nil
	}
}
