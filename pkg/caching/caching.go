// Package caching provides a file-backed read-through cache for the merit list index page.
package caching

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Cache stores page bodies on disk and expires them after a TTL.
type Cache struct {
	path string
	ttl  time.Duration
}

// NewCache creates a new Cache instance.
// The cache path will be created if it doesn't exist.
func NewCache(path string, ttl time.Duration) (*Cache, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Cache{
		path: path,
		ttl:  ttl,
	}, nil
}

// key generates a SHA256 hash of the URL to use as a filename.
func (c *Cache) key(url string) string {
	hash := sha256.Sum256([]byte(url))
	return fmt.Sprintf("%x.html", hash)
}

// Get returns the cached body for url if present and younger than the TTL.
func (c *Cache) Get(url string) ([]byte, bool) {
	filePath := filepath.Join(c.path, c.key(url))

	info, err := os.Stat(filePath)
	if err != nil {
		return nil, false
	}
	if time.Since(info.ModTime()) > c.ttl {
		return nil, false
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set stores data for url, replacing any previous body.
// The write goes through a temp file so concurrent readers never see a partial page.
func (c *Cache) Set(url string, data []byte) error {
	filePath := filepath.Join(c.path, c.key(url))
	tmp, err := os.CreateTemp(c.path, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), filePath); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached body for url. A missing entry is not an error.
func (c *Cache) Invalidate(url string) error {
	err := os.Remove(filepath.Join(c.path, c.key(url)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to invalidate cache entry: %w", err)
	}
	return nil
}
