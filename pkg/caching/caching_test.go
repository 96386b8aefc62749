package caching

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const pageURL = "https://web.example.edu.pk/Downloads/MeritListsView"

func TestCacheRoundTrip(t *testing.T) {
	c, err := NewCache(filepath.Join(t.TempDir(), "index"), time.Minute)
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}

	if _, ok := c.Get(pageURL); ok {
		t.Fatal("expected miss on empty cache")
	}

	if err := c.Set(pageURL, []byte("<table></table>")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	data, ok := c.Get(pageURL)
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if string(data) != "<table></table>" {
		t.Errorf("Get() = %q", data)
	}

	if _, ok := c.Get(pageURL + "?page=2"); ok {
		t.Error("different URL should miss")
	}
}

func TestCacheExpiry(t *testing.T) {
	dir := t.TempDir()
	c, err := NewCache(dir, time.Minute)
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}
	if err := c.Set(pageURL, []byte("old")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	old := time.Now().Add(-2 * time.Minute)
	if err := os.Chtimes(filepath.Join(dir, c.key(pageURL)), old, old); err != nil {
		t.Fatalf("Chtimes() error = %v", err)
	}
	if _, ok := c.Get(pageURL); ok {
		t.Error("expected miss for expired entry")
	}
}

func TestCacheInvalidate(t *testing.T) {
	c, err := NewCache(t.TempDir(), time.Minute)
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}
	if err := c.Invalidate(pageURL); err != nil {
		t.Errorf("Invalidate() on missing entry error = %v", err)
	}
	if err := c.Set(pageURL, []byte("x")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := c.Invalidate(pageURL); err != nil {
		t.Fatalf("Invalidate() error = %v", err)
	}
	if _, ok := c.Get(pageURL); ok {
		t.Error("expected miss after Invalidate")
	}
}
