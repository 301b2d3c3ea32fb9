// Package config loads lorekeeper's JSON configuration file. Every field
// has a sensible default; a missing file is not an error.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the root of the configuration file.
type Config struct {
	// DataDir holds the database, logs, and anything else persistent.
	DataDir string        `json:"data_dir"`
	Logging LoggingConfig `json:"logging"`
	Engine  EngineConfig  `json:"engine"`
}

// LoggingConfig mirrors logging.Options.
type LoggingConfig struct {
	DebugMode  bool            `json:"debug_mode"`
	Level      string          `json:"level"`
	Categories map[string]bool `json:"categories"`
}

// EngineConfig tunes the repository and dispatcher bounds.
type EngineConfig struct {
	RecentMax       int `json:"recent_max"`
	UndoMax         int `json:"undo_max"`
	AutocompleteMax int `json:"autocomplete_max"`
}

// Default returns the built-in configuration, rooted under the user's home
// directory.
func Default() Config {
	dataDir := ".lorekeeper"
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".lorekeeper")
	}
	return Config{
		DataDir: dataDir,
		Logging: LoggingConfig{Level: "info"},
		Engine: EngineConfig{
			RecentMax:       100,
			UndoMax:         10,
			AutocompleteMax: 10,
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults; a
// malformed one is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}

	if err := json.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	if cfg.Engine.RecentMax <= 0 {
		cfg.Engine.RecentMax = Default().Engine.RecentMax
	}
	if cfg.Engine.UndoMax <= 0 {
		cfg.Engine.UndoMax = Default().Engine.UndoMax
	}
	if cfg.Engine.AutocompleteMax <= 0 {
		cfg.Engine.AutocompleteMax = Default().Engine.AutocompleteMax
	}
	return cfg, nil
}

// DatabasePath returns the SQLite file location under the data dir.
func (c Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "journal.db")
}

// Path returns the conventional config file location for a data dir.
func Path(dataDir string) string {
	return filepath.Join(dataDir, "config.json")
}
