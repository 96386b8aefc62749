// Package models defines data structures for configuration and search results.
package models

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default configuration values.
const (
	DefaultIndexURL           = "https://web.uaf.edu.pk/Downloads/MeritListsView"
	DefaultUserAgent          = "MeritScan/1.0 (+merit list CNIC lookup)"
	DefaultMaxDocuments       = 50
	DefaultMaxMatches         = 5
	DefaultPerDocumentTimeout = 30 * time.Second
	DefaultMaxWallTime        = 5 * time.Minute
	DefaultWorkers            = 1
	DefaultMaxDocumentBytes   = 25 << 20
	DefaultCacheTTL           = 5 * time.Minute
	DefaultRequestsPerSecond  = 2.0
)

// SearchConfig holds the budgets for a single search.
type SearchConfig struct {
	MaxDocuments       int           `yaml:"max_documents"`
	MaxMatches         int           `yaml:"max_matches"`
	PerDocumentTimeout time.Duration `yaml:"per_document_timeout"`
	MaxWallTime        time.Duration `yaml:"max_wall_time"`
	Workers            int           `yaml:"workers"`
	MaxDocumentBytes   int64         `yaml:"max_document_bytes"`
}

// WithDefaults returns a copy of the config with default values applied for zero-value fields.
func (c SearchConfig) WithDefaults() SearchConfig {
	if c.MaxDocuments <= 0 {
		c.MaxDocuments = DefaultMaxDocuments
	}
	if c.MaxMatches <= 0 {
		c.MaxMatches = DefaultMaxMatches
	}
	if c.PerDocumentTimeout <= 0 {
		c.PerDocumentTimeout = DefaultPerDocumentTimeout
	}
	if c.MaxWallTime <= 0 {
		c.MaxWallTime = DefaultMaxWallTime
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.MaxDocumentBytes <= 0 {
		c.MaxDocumentBytes = DefaultMaxDocumentBytes
	}
	return c
}

// AppConfig holds the process-level settings shared by all commands.
type AppConfig struct {
	IndexURL          string        `yaml:"index_url"`
	UserAgent         string        `yaml:"user_agent"`
	CacheDir          string        `yaml:"cache_dir"`
	CacheTTL          time.Duration `yaml:"cache_ttl"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	DBPath            string        `yaml:"db_path"`
	Search            SearchConfig  `yaml:"search"`
}

// WithDefaults returns a copy of the config with default values applied for zero-value fields.
// CacheDir and DBPath stay empty when unset; an empty value disables that feature.
func (c AppConfig) WithDefaults() AppConfig {
	if c.IndexURL == "" {
		c.IndexURL = DefaultIndexURL
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = DefaultCacheTTL
	}
	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = DefaultRequestsPerSecond
	}
	c.Search = c.Search.WithDefaults()
	return c
}

// LoadConfig reads an AppConfig from a YAML file. Missing fields keep their zero values.
func LoadConfig(path string) (AppConfig, error) {
	var cfg AppConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}
