// Package file loads CLI configuration from a TOML file.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/profiledex/profiledex-cli/internal/core/domain"
)

// Config holds the persisted configuration. Flags override any value
// set here; the file is optional.
type Config struct {
	// Store is the settings for the profile database.
	Store StoreConfig `toml:"store"`

	// Index is the settings for vector index artifacts.
	Index IndexConfig `toml:"index"`

	// Embedding is the settings for the embedding provider.
	Embedding EmbeddingConfig `toml:"embedding"`
}

// StoreConfig configures the SQLite profile store.
type StoreConfig struct {
	// Path is the database file path.
	Path string `toml:"path"`
}

// IndexConfig configures index artifact storage.
type IndexConfig struct {
	// Dir is the directory artifacts are written to.
	Dir string `toml:"dir"`
}

// EmbeddingConfig configures the embedding provider.
type EmbeddingConfig struct {
	// Model is the embedding model name.
	Model string `toml:"model"`

	// BatchSize is the maximum texts per provider call.
	BatchSize int `toml:"batch_size"`

	// RequestsPerSecond paces provider calls.
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// DefaultPath returns the default configuration file path,
// ~/.profiledex/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".profiledex", "config.toml"), nil
}

// Load reads configuration from the given TOML file. An empty path uses
// the default location. A missing file yields an empty Config; flags
// and environment cover the rest.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, fmt.Errorf("resolving config path: %w", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: parsing config %s: %v", domain.ErrInvalidInput, path, err)
	}
	return &cfg, nil
}

// Save writes configuration to the given TOML file, creating the parent
// directory if needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return fmt.Errorf("resolving config path: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}
