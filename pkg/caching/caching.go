// Package caching keeps fetched API pages on disk so an interrupted crawl
// can resume without refetching.
package caching

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const entryExt = ".json"

// Cache is a file-based page cache keyed by request URL. A zero TTL
// keeps entries forever.
type Cache struct {
	path string
	ttl  time.Duration
}

// NewCache creates the cache directory if it doesn't exist.
func NewCache(path string, ttl time.Duration) (*Cache, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Cache{
		path: path,
		ttl:  ttl,
	}, nil
}

func (c *Cache) file(url string) string {
	return filepath.Join(c.path, fmt.Sprintf("%x", sha256.Sum256([]byte(url)))+entryExt)
}

func (c *Cache) expired(modTime time.Time) bool {
	return c.ttl > 0 && time.Since(modTime) > c.ttl
}

// Get returns the cached body for url and true on a fresh hit.
func (c *Cache) Get(url string) ([]byte, bool) {
	filePath := c.file(url)

	info, err := os.Stat(filePath)
	if err != nil || c.expired(info.ModTime()) {
		return nil, false
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set stores body under url.
func (c *Cache) Set(url string, body []byte) error {
	if err := os.WriteFile(c.file(url), body, 0644); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	return nil
}

// Purge removes expired entries and returns how many were deleted.
func (c *Cache) Purge() (int, error) {
	entries, err := os.ReadDir(c.path)
	if err != nil {
		return 0, fmt.Errorf("failed to read cache directory: %w", err)
	}

	removed := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), entryExt) {
			continue
		}
		info, err := e.Info()
		if err != nil || !c.expired(info.ModTime()) {
			continue
		}
		if err := os.Remove(filepath.Join(c.path, e.Name())); err == nil {
			removed++
		}
	}
	return removed, nil
}
