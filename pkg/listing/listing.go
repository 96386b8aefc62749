// Package listing fetches and parses the merit list index page.
package listing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dtnitsch/merit-scan/models"
	"github.com/dtnitsch/merit-scan/pkg/parser"
)

// ErrUpstreamUnavailable is returned when the index page cannot be retrieved.
// Callers treat it as "no entries", not as a fatal error.
var ErrUpstreamUnavailable = errors.New("upstream unavailable")

const defaultTimeout = 20 * time.Second

// PageGetter retrieves a raw HTML page.
type PageGetter interface {
	GetHtmlBytes(ctx context.Context, url string, timeout time.Duration) ([]byte, error)
}

// PageCache is a read-through cache keyed by the index page URL.
type PageCache interface {
	Get(url string) ([]byte, bool)
	Set(url string, data []byte) error
	Invalidate(url string) error
}

// Fetcher produces ListEntry records from the index page.
type Fetcher struct {
	indexURL string
	pages    PageGetter
	cache    PageCache
	timeout  time.Duration
	logger   *slog.Logger
}

// Option customizes a Fetcher.
type Option func(*Fetcher)

// WithCache puts a read-through cache in front of the index page request.
func WithCache(c PageCache) Option {
	return func(f *Fetcher) { f.cache = c }
}

// WithTimeout overrides the index request timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithLogger sets the logger used for cache and parse diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(f *Fetcher) { f.logger = l }
}

// NewFetcher returns a Fetcher for indexURL.
func NewFetcher(indexURL string, pages PageGetter, opts ...Option) *Fetcher {
	f := &Fetcher{
		indexURL: indexURL,
		pages:    pages,
		timeout:  defaultTimeout,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// IndexURL returns the page this Fetcher scrapes.
func (f *Fetcher) IndexURL() string {
	return f.indexURL
}

// Fetch returns the entries in page order. Only a page that yields at least one
// entry is cached, so a maintenance page is never served from the cache.
func (f *Fetcher) Fetch(ctx context.Context) ([]models.ListEntry, error) {
	if f.cache != nil {
		if data, ok := f.cache.Get(f.indexURL); ok {
			entries, err := parser.ParseIndex(bytes.NewReader(data), f.indexURL)
			if err == nil && len(entries) > 0 {
				f.logger.Debug("Index page served from cache", "url", f.indexURL, "entries", len(entries))
				return entries, nil
			}
			f.logger.Warn("Dropping cached index page without entries", "url", f.indexURL)
			if err := f.cache.Invalidate(f.indexURL); err != nil {
				f.logger.Warn("Failed to invalidate cached index page", "url", f.indexURL, "error", err)
			}
		}
	}

	data, err := f.pages.GetHtmlBytes(ctx, f.indexURL, f.timeout)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}

	entries, err := parser.ParseIndex(bytes.NewReader(data), f.indexURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}
	f.logger.Debug("Parsed merit list index", "url", f.indexURL, "entries", len(entries))

	if f.cache != nil && len(entries) > 0 {
		if err := f.cache.Set(f.indexURL, data); err != nil {
			f.logger.Warn("Failed to cache index page", "url", f.indexURL, "error", err)
		}
	}
	return entries, nil
}
