// Package caching provides a file-based TTL cache for fetched detail
// pages. Listing pages are never cached: the fallback-page stop condition
// depends on seeing the source's current listing content.
package caching

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Cache stores page bodies on disk keyed by a hash of their URL.
type Cache struct {
	dir    string
	maxAge time.Duration
}

// NewCache creates a cache rooted at dir. Entries older than maxAge are
// treated as misses; a maxAge of zero disables reads entirely, forcing
// fresh fetches while still recording the responses.
func NewCache(dir string, maxAge time.Duration) (*Cache, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Cache{dir: dir, maxAge: maxAge}, nil
}

func (c *Cache) key(url string) string {
	hash := sha256.Sum256([]byte(url))
	return fmt.Sprintf("%x.html", hash[:8])
}

// Get returns the cached body for a URL, or false when the entry is
// missing, expired or unreadable.
func (c *Cache) Get(url string) ([]byte, bool) {
	path := filepath.Join(c.dir, c.key(url))

	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	if c.maxAge <= 0 || time.Since(info.ModTime()) > c.maxAge {
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set stores a page body for a URL, overwriting any prior entry.
func (c *Cache) Set(url string, data []byte) error {
	path := filepath.Join(c.dir, c.key(url))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}
