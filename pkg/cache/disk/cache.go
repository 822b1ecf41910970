// Package disk is a best-effort response cache that stores one JSON
// document per key on the local filesystem. Freshness is judged at read
// time from the file's modification time; nothing is evicted eagerly.
//
// The cache is an optimization, never a correctness dependency: every
// read, parse, or filesystem error collapses to a miss, and write
// failures are swallowed. That policy lives here and only here —
// callers see a plain hit-or-miss surface.
package disk

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/alicanaksel/Cineseek/pkg/models"
)

// DefaultTTL is the freshness window applied when no TTL is configured.
const DefaultTTL = 24 * time.Hour

// Cache is a file-per-key JSON cache with a fixed TTL.
type Cache struct {
	dir    string
	ttl    time.Duration
	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a Cache rooted at dir, creating the directory if needed.
func New(dir string, ttl time.Duration) (*Cache, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &Cache{dir: dir, ttl: ttl}, nil
}

// path returns the file for a cache key. Keys are percent-encoded so
// distinct keys never alias on disk and any key is filesystem-safe.
func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, url.QueryEscape(key)+".json")
}

// Get returns the stored JSON document for key if a fresh, readable,
// parseable entry exists.
func (c *Cache) Get(key string) ([]byte, bool) {
	data, err := c.read(key)
	if err != nil {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return data, true
}

func (c *Cache) read(key string) ([]byte, error) {
	p := c.path(key)
	info, err := os.Stat(p)
	if err != nil {
		return nil, err
	}
	if time.Since(info.ModTime()) >= c.ttl {
		return nil, fmt.Errorf("entry expired: %s", key)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("corrupt entry: %s", key)
	}
	return data, nil
}

// Set stores a JSON document under key, best effort. Invalid JSON and
// write failures are dropped silently.
func (c *Cache) Set(key string, value []byte) {
	_ = c.write(key, value)
}

func (c *Cache) write(key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("not valid JSON: %s", key)
	}
	return os.WriteFile(c.path(key), value, 0o644)
}

// Stats returns entry count and process-lifetime hit/miss counters.
func (c *Cache) Stats() (models.CacheStats, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return models.CacheStats{}, fmt.Errorf("cache stats: %w", err)
	}
	var count int64
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			count++
		}
	}
	return models.CacheStats{
		Entries: count,
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}, nil
}

// Clear removes cache entries. If expiredOnly is true, only entries
// past the TTL are removed.
func (c *Cache) Clear(expiredOnly bool) error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("cache clear: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		p := filepath.Join(c.dir, e.Name())
		if expiredOnly {
			info, err := e.Info()
			if err != nil || time.Since(info.ModTime()) < c.ttl {
				continue
			}
		}
		if err := os.Remove(p); err != nil {
			return fmt.Errorf("cache clear: %w", err)
		}
	}
	return nil
}
