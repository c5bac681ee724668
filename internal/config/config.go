package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Cache struct {
		Capacity int `yaml:"capacity"`
	} `yaml:"cache"`
	Navigation struct {
		// IncludeTagsWithAttributes merges tag boundaries into
		// attribute navigation.
		IncludeTagsWithAttributes bool `yaml:"include_tags_with_attributes"`
	} `yaml:"navigation"`
	Store struct {
		Path    string `yaml:"path"`
		MaxRows int    `yaml:"max_rows"`
	} `yaml:"store"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.Cache.Capacity = 64
	cfg.Navigation.IncludeTagsWithAttributes = true
	cfg.Store.Path = "tagnav.db"
	cfg.Store.MaxRows = 256
	cfg.Log.Level = "info"
	return cfg
}

// Load reads configuration from path, layered over defaults. A missing file
// yields the defaults. Environment variables override both.
func Load(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := Default()

	// 2. Overlay YAML config when present
	file, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	// 3. Override with environment variables if present
	if level := os.Getenv("TAGNAV_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if storePath := os.Getenv("TAGNAV_STORE_PATH"); storePath != "" {
		cfg.Store.Path = storePath
	}
	if capacity := os.Getenv("TAGNAV_CACHE_CAPACITY"); capacity != "" {
		n, err := strconv.Atoi(capacity)
		if err != nil {
			return nil, fmt.Errorf("invalid TAGNAV_CACHE_CAPACITY %q: %w", capacity, err)
		}
		cfg.Cache.Capacity = n
	}

	return cfg, nil
}
