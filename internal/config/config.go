// Package config loads the server configuration from an optional TOML
// file, falling back to defaults and allowing environment overrides for
// the settings operators most often flip.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the server's startup settings.
type Config struct {
	Port     string // listen port
	Storage  string // "sqlite", "postgres" or "memory"
	DSN      string // sqlite file path or postgres connection string
	BlobKey  string // well-known key the todo collection lives under
}

const (
	defaultPort    = "8080"
	defaultStorage = "sqlite"
	defaultDSN     = "todomon.db"
	defaultBlobKey = "todo-app-todos"
)

// Load parses the TOML config at path. A missing file yields the
// defaults; environment variables override either.
func Load(path string) (Config, error) {
	cfg := Config{
		Port:    defaultPort,
		Storage: defaultStorage,
		DSN:     defaultDSN,
		BlobKey: defaultBlobKey,
	}

	raw, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err == nil {
		var file struct {
			Port    string `toml:"port"`
			Storage string `toml:"storage"`
			DSN     string `toml:"dsn"`
			BlobKey string `toml:"blob_key"`
		}
		if err := toml.Unmarshal(raw, &file); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
		apply(&cfg.Port, file.Port)
		apply(&cfg.Storage, file.Storage)
		apply(&cfg.DSN, file.DSN)
		apply(&cfg.BlobKey, file.BlobKey)
	}

	apply(&cfg.Port, os.Getenv("PORT"))
	apply(&cfg.Storage, os.Getenv("STORAGE_BACKEND"))
	apply(&cfg.DSN, os.Getenv("STORAGE_DSN"))
	apply(&cfg.BlobKey, os.Getenv("STORAGE_BLOB_KEY"))

	switch cfg.Storage {
	case "sqlite", "postgres", "memory":
	default:
		return Config{}, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}

	return cfg, nil
}

func apply(target *string, value string) {
	value = strings.TrimSpace(value)
	if value != "" {
		*target = value
	}
}
