// Package config handles lgshelf configuration from YAML files with
// programmatic defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level scrape configuration.
type Config struct {
	BaseURL string        `yaml:"base_url"`
	Browser BrowserConfig `yaml:"browser"`
	Reveal  RevealConfig  `yaml:"reveal"`
	Product ProductConfig `yaml:"product"`
	Output  OutputConfig  `yaml:"output"`
}

// BrowserConfig controls Chrome lifecycle.
type BrowserConfig struct {
	Remote           string   `yaml:"remote"`
	Headful          bool     `yaml:"headful"`
	ResourceBlocking []string `yaml:"resource_blocking"`
}

// RevealConfig bounds the listing reveal interaction loop.
type RevealConfig struct {
	NavTimeout      time.Duration `yaml:"nav_timeout"`
	RetryNavTimeout time.Duration `yaml:"retry_nav_timeout"`
	MaxIterations   int           `yaml:"max_iterations"`
	StallLimit      int           `yaml:"stall_limit"`
	Pause           time.Duration `yaml:"pause"`
}

// ProductConfig controls per-product page visits.
type ProductConfig struct {
	NavTimeout      time.Duration `yaml:"nav_timeout"`
	RetryNavTimeout time.Duration `yaml:"retry_nav_timeout"`
	Pause           time.Duration `yaml:"pause"` // courtesy delay between products
}

// OutputConfig defines where records go.
type OutputConfig struct {
	Dir    string `yaml:"dir"`     // JSON file output directory; empty = no file
	DBPath string `yaml:"db_path"` // SQLite archive; empty = no archive
	Stdout bool   `yaml:"stdout"`  // NDJSON to stdout
}

// LoadFile reads a YAML configuration file and applies defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero values with production defaults.
func (c *Config) ApplyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://www.lg.com/us/"
	}
	if c.Browser.ResourceBlocking == nil {
		c.Browser.ResourceBlocking = []string{"images", "fonts", "media"}
	}
	if c.Reveal.NavTimeout <= 0 {
		c.Reveal.NavTimeout = 60 * time.Second
	}
	if c.Reveal.RetryNavTimeout <= 0 {
		c.Reveal.RetryNavTimeout = 90 * time.Second
	}
	if c.Reveal.MaxIterations <= 0 {
		c.Reveal.MaxIterations = 25
	}
	if c.Reveal.StallLimit <= 0 {
		c.Reveal.StallLimit = 3
	}
	if c.Reveal.Pause <= 0 {
		c.Reveal.Pause = 2 * time.Second
	}
	if c.Product.NavTimeout <= 0 {
		c.Product.NavTimeout = 45 * time.Second
	}
	if c.Product.RetryNavTimeout <= 0 {
		c.Product.RetryNavTimeout = 60 * time.Second
	}
	if c.Product.Pause <= 0 {
		c.Product.Pause = time.Second
	}
}
