// Package config assembles the client configuration from, in
// increasing precedence: built-in defaults, environment variables
// (optionally from a .env file), and the saved config.json.
package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config is the fully resolved client configuration.
type Config struct {
	APIURL         string        `env:"ATLAS_API_URL" envDefault:"http://127.0.0.1:8000" validate:"required,url"`
	TopK           int           `env:"ATLAS_TOP_K" envDefault:"3" validate:"min=1,max=20"`
	Timeout        time.Duration `env:"ATLAS_TIMEOUT" envDefault:"60s"`
	HistoryBackend string        `env:"ATLAS_HISTORY_BACKEND" envDefault:"file" validate:"oneof=file sqlite"`
	HistoryPath    string        `env:"ATLAS_HISTORY_PATH"`
	LogLevel       string        `env:"ATLAS_LOG_LEVEL" envDefault:"warn"`
	LogFile        string        `env:"ATLAS_LOG_FILE"`
}

// Load resolves the configuration. A missing .env and a missing
// config.json are both fine; validation failures are not.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	m, err := NewManager()
	if err != nil {
		return nil, err
	}
	fileCfg, err := m.Load()
	if err != nil {
		// A broken config file shouldn't brick the CLI; env values stand.
		fileCfg = &FileConfig{}
	}
	cfg.apply(fileCfg)

	if cfg.HistoryPath == "" {
		cfg.HistoryPath = defaultHistoryPath(m, cfg.HistoryBackend)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// apply overlays non-zero file values onto the env-derived config.
func (c *Config) apply(f *FileConfig) {
	if f.APIURL != "" {
		c.APIURL = f.APIURL
	}
	if f.TopK > 0 {
		c.TopK = f.TopK
	}
	if f.HistoryBackend != "" {
		c.HistoryBackend = f.HistoryBackend
	}
	if f.HistoryPath != "" {
		c.HistoryPath = f.HistoryPath
	}
	if f.LogLevel != "" {
		c.LogLevel = f.LogLevel
	}
	if f.LogFile != "" {
		c.LogFile = f.LogFile
	}
}

func defaultHistoryPath(m *Manager, backend string) string {
	name := "history.json"
	if backend == "sqlite" {
		name = "history.db"
	}
	return filepath.Join(m.Dir(), name)
}
