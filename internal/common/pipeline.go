package common

import (
	"log/slog"

	"github.com/dtnitsch/merit-scan/models"
	"github.com/dtnitsch/merit-scan/pkg/caching"
	"github.com/dtnitsch/merit-scan/pkg/db"
	"github.com/dtnitsch/merit-scan/pkg/extractor"
	"github.com/dtnitsch/merit-scan/pkg/fetcher"
	"github.com/dtnitsch/merit-scan/pkg/listing"
	"github.com/dtnitsch/merit-scan/pkg/scanner"
)

// Pipeline bundles the components a command needs.
type Pipeline struct {
	Fetcher *fetcher.Fetcher
	Lists   *listing.Fetcher
	Engine  *scanner.Engine
}

// NewPipeline wires the HTTP fetcher, index fetcher (behind the read-through
// cache unless useCache is false) and the PDF scan engine.
func NewPipeline(cfg models.AppConfig, logger *slog.Logger, useCache bool) *Pipeline {
	f := fetcher.NewFetcher(fetcher.Options{
		UserAgent:         cfg.UserAgent,
		RequestsPerSecond: cfg.RequestsPerSecond,
	})

	opts := []listing.Option{listing.WithLogger(logger)}
	if useCache && cfg.CacheDir != "" {
		cache, err := caching.NewCache(cfg.CacheDir, cfg.CacheTTL)
		if err != nil {
			logger.Warn("Index cache disabled", "dir", cfg.CacheDir, "error", err)
		} else {
			opts = append(opts, listing.WithCache(cache))
		}
	}

	return &Pipeline{
		Fetcher: f,
		Lists:   listing.NewFetcher(cfg.IndexURL, f, opts...),
		Engine:  scanner.NewEngine(f, extractor.PDFExtractor{}, logger),
	}
}

// OpenAccessLog opens the fetch access log at cfg.DBPath, or next to the binary when unset.
func OpenAccessLog(cfg models.AppConfig) (*db.DB, error) {
	path := cfg.DBPath
	if path == "" {
		p, err := db.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return db.Open(path)
}
