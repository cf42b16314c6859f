// Package config provides configuration loading for personal-crm.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigDir is the directory under $HOME for crm state.
	DefaultConfigDir = ".personal-crm"
	// DefaultConfigFile is the config file name inside DefaultConfigDir.
	DefaultConfigFile = "config.yaml"
)

// Config holds all personal-crm configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server,omitempty"`
	Database DatabaseConfig `yaml:"database,omitempty"`
}

type ServerConfig struct {
	Bind string `yaml:"bind,omitempty"`
	Port int    `yaml:"port,omitempty"`
}

type DatabaseConfig struct {
	// Path to the SQLite database file. Empty means
	// ~/.personal-crm/crm.db, resolved at runtime.
	Path string `yaml:"path,omitempty"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Bind: "127.0.0.1",
			Port: 8420,
		},
	}
}

// Load reads the config file under the user's home directory, falling back
// to defaults when the file does not exist. Fields absent from the file
// keep their default values.
func Load() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Default(), fmt.Errorf("get home dir: %w", err)
	}
	return LoadFile(filepath.Join(home, DefaultConfigDir, DefaultConfigFile))
}

// LoadFile reads a config file from an explicit path. A missing file is
// not an error; malformed YAML is.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Server.Bind == "" {
		cfg.Server.Bind = Default().Server.Bind
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = Default().Server.Port
	}
	return cfg, nil
}

// ListenAddr returns the bind:port address string.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}
