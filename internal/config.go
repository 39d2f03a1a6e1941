package internal

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds user-tunable settings read from
// ~/.config/codehist/config.toml. Every field has a working default; the
// file is optional.
type Config struct {
	Agent         string   `toml:"agent"`
	ExtraRoots    []string `toml:"extra_roots"`
	IndexPath     string   `toml:"index_path"`
	DefaultFormat string   `toml:"default_format"`
}

// LoadConfig reads the config file from its default location, applying
// defaults for anything unset.
func LoadConfig() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return LoadConfigFrom(filepath.Join(home, ".config", "codehist", "config.toml"), home)
}

// LoadConfigFrom reads the config file at path if it exists. home is used to
// expand "~/" prefixes in configured paths.
func LoadConfigFrom(path, home string) (*Config, error) {
	cfg := &Config{
		Agent:         AgentCopilot,
		IndexPath:     filepath.Join(home, ".config", "codehist", "index.db"),
		DefaultFormat: "json",
	}

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.IndexPath = expandHome(cfg.IndexPath, home)
	for i, root := range cfg.ExtraRoots {
		cfg.ExtraRoots[i] = expandHome(root, home)
	}

	return cfg, nil
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
