// Package config loads the tag database's YAML configuration: the
// store path, default query namespace, expansion dictionary, and the
// named templates/conventions available to `tdb convention enforce`.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/jra3/tdb/internal/convention"
	"github.com/jra3/tdb/internal/store"
)

// Config is the top-level shape of a tdb config file.
type Config struct {
	DBPath           string                           `yaml:"db_path"`
	DefaultNamespace string                           `yaml:"default_namespace"`
	Dictionary       map[string]string                `yaml:"dictionary"`
	Templates        map[string]convention.Template   `yaml:"templates"`
	Conventions      map[string]convention.Convention  `yaml:"conventions"`
}

// DefaultConfig returns a Config with no file or environment overlay
// applied: the store's own default path, no default namespace, and
// empty dictionary/templates/conventions maps.
func DefaultConfig() *Config {
	return &Config{
		DBPath:      store.DefaultDBPath(),
		Dictionary:  map[string]string{},
		Templates:   map[string]convention.Template{},
		Conventions: map[string]convention.Convention{},
	}
}

// Load resolves and loads configuration using the real environment and
// no explicit --config override.
func Load() (*Config, error) {
	return LoadWithEnv(os.Getenv, "")
}

// LoadWithEnv loads configuration using the provided environment
// lookup function and an optional explicit path (the --config flag),
// which takes precedence over $TDB_CONFIG, which takes precedence
// over the XDG default location. A config file that does not exist at
// the resolved path is not an error: defaults are returned as-is.
func LoadWithEnv(getenv func(string) string, explicitPath string) (*Config, error) {
	cfg := DefaultConfig()

	path := resolvePath(getenv, explicitPath)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = store.DefaultDBPath()
	}
	return cfg, nil
}

func resolvePath(getenv func(string) string, explicitPath string) string {
	if explicitPath != "" {
		return explicitPath
	}
	if envPath := getenv("TDB_CONFIG"); envPath != "" {
		return envPath
	}
	if xdgConfig := getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "tdb", "config.yaml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "tdb", "config.yaml")
}
