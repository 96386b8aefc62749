package common

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dtnitsch/merit-scan/models"
	"github.com/urfave/cli/v2"
)

// ResolveConfig loads --config (if given), applies flag overrides and defaults,
// and validates the result. Errors here are configuration defects.
func ResolveConfig(c *cli.Context) (models.AppConfig, error) {
	var cfg models.AppConfig
	if path := c.String("config"); path != "" {
		loaded, err := models.LoadConfig(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if c.IsSet("index-url") {
		cfg.IndexURL = c.String("index-url")
	}
	if c.IsSet("user-agent") {
		cfg.UserAgent = c.String("user-agent")
	}
	if c.IsSet("cache-dir") {
		cfg.CacheDir = c.String("cache-dir")
	}
	if c.IsSet("cache-ttl") {
		cfg.CacheTTL = c.Duration("cache-ttl")
	}
	if c.IsSet("rps") {
		cfg.RequestsPerSecond = c.Float64("rps")
	}
	if c.IsSet("db") {
		cfg.DBPath = c.String("db")
	}
	if c.IsSet("max-docs") {
		cfg.Search.MaxDocuments = c.Int("max-docs")
	}
	if c.IsSet("max-matches") {
		cfg.Search.MaxMatches = c.Int("max-matches")
	}
	if c.IsSet("timeout") {
		cfg.Search.PerDocumentTimeout = c.Duration("timeout")
	}
	if c.IsSet("max-wall-time") {
		cfg.Search.MaxWallTime = c.Duration("max-wall-time")
	}
	if c.IsSet("workers") {
		cfg.Search.Workers = c.Int("workers")
	}
	if c.IsSet("max-bytes") {
		cfg.Search.MaxDocumentBytes = c.Int64("max-bytes")
	}

	cfg = cfg.WithDefaults()

	indexURL, err := ValidateAbsoluteURL(cfg.IndexURL)
	if err != nil {
		return cfg, fmt.Errorf("invalid index URL: %w", err)
	}
	cfg.IndexURL = indexURL

	if cfg.CacheDir == "" {
		if dir, err := os.UserCacheDir(); err == nil {
			cfg.CacheDir = filepath.Join(dir, "meritscan", "index")
		}
	}
	return cfg, nil
}
