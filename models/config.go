package models

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds runtime configuration. Values come from retrocat.yaml when
// present, with CLI flags overriding individual fields.
type Config struct {
	BaseURL     string `yaml:"base_url"`
	UserAgent   string `yaml:"user_agent"`
	OutputPath  string `yaml:"output"`
	StatePath   string `yaml:"state"`
	HistoryDB   string `yaml:"history_db"`
	DownloadDir string `yaml:"download_dir"`
	CacheDir    string `yaml:"cache_dir"`

	// Durations are written as Go duration strings in YAML ("500ms", "30s").
	RawRequestDelay string `yaml:"request_delay"`
	RawHTTPTimeout  string `yaml:"http_timeout"`
	RawCacheMaxAge  string `yaml:"cache_max_age"`

	RequestDelay time.Duration `yaml:"-"`
	HTTPTimeout  time.Duration `yaml:"-"`
	CacheMaxAge  time.Duration `yaml:"-"`
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:      "https://www.retrosium.org",
		UserAgent:    "retrocat/1.0",
		OutputPath:   "catalog.json",
		StatePath:    ".retrocat-ids.json",
		HistoryDB:    "retrocat.db",
		DownloadDir:  "downloads",
		CacheDir:     "",
		RequestDelay: 500 * time.Millisecond,
		HTTPTimeout:  30 * time.Second,
		CacheMaxAge:  24 * time.Hour,
	}
}

// LoadConfig reads a YAML config file. A missing file is not an error and
// yields the defaults; a malformed file is a setup error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.RawRequestDelay != "" {
		d, err := time.ParseDuration(cfg.RawRequestDelay)
		if err != nil {
			return nil, fmt.Errorf("invalid request_delay: %w", err)
		}
		cfg.RequestDelay = d
	}
	if cfg.RawHTTPTimeout != "" {
		d, err := time.ParseDuration(cfg.RawHTTPTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid http_timeout: %w", err)
		}
		cfg.HTTPTimeout = d
	}
	if cfg.RawCacheMaxAge != "" {
		d, err := time.ParseDuration(cfg.RawCacheMaxAge)
		if err != nil {
			return nil, fmt.Errorf("invalid cache_max_age: %w", err)
		}
		cfg.CacheMaxAge = d
	}
	return cfg, nil
}
