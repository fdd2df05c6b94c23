package scrape

import (
	"github.com/hazyhaar/lgshelf/scrape/internal/config"
)

// Config is the top-level scrape configuration. Re-exported from internal.
type Config = config.Config

// BrowserConfig controls Chrome lifecycle.
type BrowserConfig = config.BrowserConfig

// RevealConfig bounds the listing reveal loop.
type RevealConfig = config.RevealConfig

// ProductConfig controls per-product page visits.
type ProductConfig = config.ProductConfig

// OutputConfig defines where records go.
type OutputConfig = config.OutputConfig

// LoadConfigFile reads a YAML configuration file.
func LoadConfigFile(path string) (*Config, error) {
	return config.LoadFile(path)
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return config.Default()
}
