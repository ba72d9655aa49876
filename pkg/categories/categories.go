// Package categories resolves WordPress category ids to display names.
package categories

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/dtnitsch/wp-stylometry/pkg/fetcher"
)

// ErrMissingName is returned by HTTPLookup when the response has no name.
var ErrMissingName = errors.New("category response has no name")

// LookupFunc fetches the name of one category id.
type LookupFunc func(ctx context.Context, id int64) (string, error)

// FallbackName is the synthetic name used when a lookup fails.
func FallbackName(id int64) string {
	return fmt.Sprintf("Unknown-%d", id)
}

// Entry is one cached resolution.
type Entry struct {
	Name     string
	Fallback bool
}

// Cache maps category ids to names for the lifetime of the value. It never
// evicts; the category vocabulary of a site is small.
type Cache struct {
	mu      sync.RWMutex
	entries map[int64]Entry
}

func NewCache() *Cache {
	return &Cache{entries: make(map[int64]Entry)}
}

func (c *Cache) Get(id int64) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[id]
	return e, ok
}

func (c *Cache) Set(id int64, e Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[id] = e
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Load seeds the cache, e.g. from a durable store.
func (c *Cache) Load(entries map[int64]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, name := range entries {
		c.entries[id] = Entry{Name: name}
	}
}

// Snapshot returns the successfully resolved names. Fallback entries are
// left out so a later run tries them again.
func (c *Cache) Snapshot() map[int64]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[int64]string, len(c.entries))
	for id, e := range c.entries {
		if !e.Fallback {
			out[id] = e.Name
		}
	}
	return out
}

// Resolver answers name lookups from its cache, calling lookup at most once
// per id. A failed lookup caches FallbackName and is not retried.
type Resolver struct {
	cache  *Cache
	lookup LookupFunc
	logger *slog.Logger
}

func NewResolver(cache *Cache, lookup LookupFunc, logger *slog.Logger) *Resolver {
	if cache == nil {
		cache = NewCache()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{cache: cache, lookup: lookup, logger: logger}
}

// Cache exposes the underlying cache.
func (r *Resolver) Cache() *Cache {
	return r.cache
}

// Name resolves a single id.
func (r *Resolver) Name(ctx context.Context, id int64) string {
	if e, ok := r.cache.Get(id); ok {
		return e.Name
	}

	r.logger.Debug("Fetching category name", "category_id", id)
	name, err := r.lookup(ctx, id)
	if err == nil && strings.TrimSpace(name) == "" {
		err = ErrMissingName
	}
	if err != nil {
		r.logger.Warn("Category lookup failed, using fallback name", "category_id", id, "error", err)
		e := Entry{Name: FallbackName(id), Fallback: true}
		r.cache.Set(id, e)
		return e.Name
	}

	r.cache.Set(id, Entry{Name: name})
	return name
}

// Resolve maps ids to names in the same order.
func (r *Resolver) Resolve(ctx context.Context, ids []int64) []string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = r.Name(ctx, id)
	}
	return names
}

// Prefetch resolves every distinct uncached id using up to workers
// concurrent lookups. The cache contents afterwards are the same as with
// sequential resolution.
func (r *Resolver) Prefetch(ctx context.Context, ids []int64, workers int) {
	var pending []int64
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := r.cache.Get(id); !ok {
			pending = append(pending, id)
		}
	}
	if len(pending) == 0 {
		return
	}

	if workers < 1 {
		workers = 1
	}
	if workers > len(pending) {
		workers = len(pending)
	}

	jobs := make(chan int64, len(pending))
	var wg sync.WaitGroup
	for w := 1; w <= workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				r.Name(ctx, id)
			}
		}()
	}

	for _, id := range pending {
		jobs <- id
	}
	close(jobs)
	wg.Wait()

	r.logger.Info("Prefetched category names", "count", len(pending), "workers", workers)
}

// Unknown returns the ids that resolved to a fallback name, sorted.
func (r *Resolver) Unknown() []int64 {
	r.cache.mu.RLock()
	defer r.cache.mu.RUnlock()
	var ids []int64
	for id, e := range r.cache.entries {
		if e.Fallback {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

type categoryResponse struct {
	Name *string `json:"name"`
}

// HTTPLookup queries the WordPress categories endpoint. endpoint builds
// the URL for an id.
func HTTPLookup(f *fetcher.Fetcher, endpoint func(id int64) string) LookupFunc {
	return func(ctx context.Context, id int64) (string, error) {
		var resp categoryResponse
		if err := f.GetJSON(ctx, endpoint(id), &resp); err != nil {
			return "", err
		}
		if resp.Name == nil {
			return "", ErrMissingName
		}
		return *resp.Name, nil
	}
}
