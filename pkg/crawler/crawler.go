// Package crawler pages through a WordPress posts collection.
package crawler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/dtnitsch/wp-stylometry/pkg/caching"
	"github.com/dtnitsch/wp-stylometry/pkg/db"
	"github.com/dtnitsch/wp-stylometry/pkg/fetcher"
	"github.com/dtnitsch/wp-stylometry/pkg/storage"
	"golang.org/x/time/rate"
)

const (
	StopMaxPages  = "max pages reached"
	StopEmptyPage = "empty page"
)

type Options struct {
	PostsURL string
	PerPage  int
	MaxPages int
	// RequestsPerSecond <= 0 disables pacing.
	RequestsPerSecond float64
}

// Result is the outcome of a crawl. Posts are in API order.
type Result struct {
	CrawlID    int64
	Posts      []json.RawMessage
	Pages      int
	CacheHits  int
	StopReason string
}

type Crawler struct {
	fetcher *fetcher.Fetcher
	cache   *caching.Cache
	store   *db.DB
	limiter *rate.Limiter
	opts    Options
	logger  *slog.Logger
}

// New creates a Crawler. cache and store are optional.
func New(f *fetcher.Fetcher, cache *caching.Cache, store *db.DB, opts Options, logger *slog.Logger) *Crawler {
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	burst := int(math.Max(1, math.Ceil(opts.RequestsPerSecond)))
	if logger == nil {
		logger = slog.Default()
	}
	return &Crawler{
		fetcher: f,
		cache:   cache,
		store:   store,
		limiter: rate.NewLimiter(limit, burst),
		opts:    opts,
		logger:  logger,
	}
}

// PageURL is the collection URL for a 1-based page.
func (c *Crawler) PageURL(page int) string {
	return fmt.Sprintf("%s?per_page=%d&page=%d", c.opts.PostsURL, c.opts.PerPage, page)
}

// Run fetches pages 1..MaxPages and stops early at the first non-2xx
// response or empty page. Transport and decode errors abort the crawl.
func (c *Crawler) Run(ctx context.Context) (*Result, error) {
	res := &Result{}

	if c.store != nil {
		id, err := c.store.CreateCrawl(c.opts.PostsURL, c.opts.PerPage, c.opts.MaxPages)
		if err != nil {
			return nil, err
		}
		res.CrawlID = id
	}

	res.StopReason = StopMaxPages
	for page := 1; page <= c.opts.MaxPages; page++ {
		stop, err := c.crawlPage(ctx, page, res)
		if err != nil {
			res.StopReason = "error: " + err.Error()
			c.finish(res)
			return nil, err
		}
		if stop != "" {
			res.StopReason = stop
			break
		}
	}

	c.finish(res)
	c.logger.Info("Crawl finished", "posts", len(res.Posts), "pages", res.Pages, "cache_hits", res.CacheHits, "stop", res.StopReason)
	return res, nil
}

// crawlPage processes one page. A non-empty return ends the crawl.
func (c *Crawler) crawlPage(ctx context.Context, page int, res *Result) (string, error) {
	url := c.PageURL(page)
	record := db.CrawlPage{Page: page, URL: url}

	body, cached := c.fromCache(url)
	if cached {
		record.FromCache = true
		res.CacheHits++
	} else {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", err
		}
		var err error
		body, err = c.fetcher.GetBytes(ctx, url)
		var statusErr *fetcher.StatusError
		if errors.As(err, &statusErr) {
			record.StatusCode = statusErr.StatusCode
			c.record(res.CrawlID, record)
			c.logger.Info("Stopping crawl on non-success status", "page", page, "status", statusErr.StatusCode)
			return fmt.Sprintf("status %d", statusErr.StatusCode), nil
		}
		if err != nil {
			return "", fmt.Errorf("page %d: %w", page, err)
		}
	}
	record.StatusCode = 200

	posts, err := storage.DecodePosts(body)
	if err != nil {
		return "", fmt.Errorf("page %d: %w", page, err)
	}
	record.PostCount = len(posts)
	record.Success = true
	if len(posts) == 0 {
		c.record(res.CrawlID, record)
		return StopEmptyPage, nil
	}

	if !cached && c.cache != nil {
		if err := c.cache.Set(url, body); err != nil {
			c.logger.Warn("Failed to cache page", "page", page, "error", err)
		}
	}
	if c.store != nil {
		if err := c.store.UpsertPosts(res.CrawlID, posts); err != nil {
			return "", err
		}
	}
	c.record(res.CrawlID, record)

	for _, p := range posts {
		res.Posts = append(res.Posts, p.Raw)
	}
	res.Pages++
	c.logger.Info("Processed page", "page", page, "posts", len(posts), "cached", cached)
	return "", nil
}

func (c *Crawler) fromCache(url string) ([]byte, bool) {
	if c.cache == nil {
		return nil, false
	}
	return c.cache.Get(url)
}

func (c *Crawler) record(crawlID int64, p db.CrawlPage) {
	if c.store == nil {
		return
	}
	if err := c.store.RecordPage(crawlID, p); err != nil {
		c.logger.Warn("Failed to record crawl page", "page", p.Page, "error", err)
	}
}

func (c *Crawler) finish(res *Result) {
	if c.store == nil {
		return
	}
	if err := c.store.FinishCrawl(res.CrawlID, res.Pages, len(res.Posts), res.StopReason); err != nil {
		c.logger.Warn("Failed to finish crawl record", "crawl_id", res.CrawlID, "error", err)
	}
}
