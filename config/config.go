package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"scorecast/artifact"
)

const (
	SourceDir    = artifact.SourceDir
	SourceSQLite = artifact.SourceSQLite
)

// Config is the YAML configuration shared by the server and the CLI.
type Config struct {
	Http struct {
		Port           int           `yaml:"port"`
		Timeout        time.Duration `yaml:"timeout"`
		AllowedOrigins []string      `yaml:"allowed_origins"`
	} `yaml:"http"`
	Artifacts struct {
		Source       string `yaml:"source"`
		Dir          string `yaml:"dir"`
		DBPath       string `yaml:"db_path"`
		AllowPartial bool   `yaml:"allow_partial"`
	} `yaml:"artifacts"`
	Cache struct {
		Size int `yaml:"size"`
	} `yaml:"cache"`
	Log struct {
		Level      string `yaml:"level"`
		File       string `yaml:"file"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
	} `yaml:"log"`
	Report struct {
		Language string `yaml:"language"`
	} `yaml:"report"`
}

// Default returns the settings used when no config file exists.
func Default() *Config {
	c := &Config{}
	c.Http.Port = 8080
	c.Http.Timeout = 30 * time.Second
	c.Http.AllowedOrigins = []string{"*"}
	c.Artifacts.Source = SourceDir
	c.Artifacts.Dir = "artifacts"
	c.Artifacts.DBPath = "artifacts.db"
	c.Cache.Size = 1024
	c.Log.Level = "info"
	c.Report.Language = "en"
	return c
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	c := Default()
	payload, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(payload, c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return c, nil
}

// Validate checks ranges and that the chosen artifact source has its path.
func (c *Config) Validate() error {
	if c.Http.Port <= 0 || c.Http.Port > 65535 {
		return fmt.Errorf("http.port %d out of range", c.Http.Port)
	}
	if c.Http.Timeout <= 0 {
		return errors.New("http.timeout must be positive")
	}
	switch c.Artifacts.Source {
	case SourceDir:
		if c.Artifacts.Dir == "" {
			return errors.New("artifacts.dir is required for source dir")
		}
	case SourceSQLite:
		if c.Artifacts.DBPath == "" {
			return errors.New("artifacts.db_path is required for source sqlite")
		}
	default:
		return fmt.Errorf("artifacts.source %q must be %s or %s", c.Artifacts.Source, SourceDir, SourceSQLite)
	}
	if c.Cache.Size < 0 {
		return errors.New("cache.size must not be negative")
	}
	return nil
}
