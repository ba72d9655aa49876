package crawl

import (
	"encoding/json"
	"fmt"

	"github.com/dtnitsch/wp-stylometry/internal/common"
	"github.com/dtnitsch/wp-stylometry/models"
	"github.com/dtnitsch/wp-stylometry/pkg/caching"
	"github.com/dtnitsch/wp-stylometry/pkg/crawler"
	"github.com/dtnitsch/wp-stylometry/pkg/db"
	"github.com/dtnitsch/wp-stylometry/pkg/fetcher"
	"github.com/dtnitsch/wp-stylometry/pkg/storage"
	"github.com/urfave/cli/v2"
)

func applyFlags(c *cli.Context, cfg *models.Config) {
	if c.IsSet("out") {
		cfg.Crawl.Out = c.String("out")
	}
	if c.IsSet("db") {
		cfg.Crawl.DBPath = c.String("db")
	}
	if c.IsSet("max-pages") {
		cfg.Crawl.MaxPages = c.Int("max-pages")
	}
	if c.IsSet("per-page") {
		cfg.Crawl.PerPage = c.Int("per-page")
	}
	if c.IsSet("rate") {
		cfg.Crawl.RequestsPerSecond = c.Float64("rate")
	}
	if c.IsSet("cache-dir") {
		cfg.Crawl.CacheDir = c.String("cache-dir")
	}
	if c.IsSet("cache-ttl") {
		cfg.Crawl.CacheTTL = c.String("cache-ttl")
	}
}

// CrawlAction downloads every post into the JSON export and the store.
func CrawlAction(c *cli.Context) error {
	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}
	applyFlags(c, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	logger := common.NewLogger(c, cfg)
	ctx, stop := common.SignalContext(c)
	defer stop()

	var cache *caching.Cache
	if cfg.Crawl.CacheDir != "" {
		ttl, _ := cfg.Crawl.TTL()
		cache, err = caching.NewCache(cfg.Crawl.CacheDir, ttl)
		if err != nil {
			return err
		}
		if removed, err := cache.Purge(); err == nil && removed > 0 {
			logger.Info("Purged expired cache entries", "count", removed)
		}
	}

	var store *db.DB
	if cfg.Crawl.DBPath != "" {
		store, err = db.Open(cfg.Crawl.DBPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer store.Close()
	}

	f := fetcher.NewFetcher(cfg.Site.Timeout(), cfg.Site.UserAgent)
	cr := crawler.New(f, cache, store, crawler.Options{
		PostsURL:          cfg.Site.PostsURL(),
		PerPage:           cfg.Crawl.PerPage,
		MaxPages:          cfg.Crawl.MaxPages,
		RequestsPerSecond: cfg.Crawl.RequestsPerSecond,
	}, logger)

	logger.Info("Starting crawl", "endpoint", cfg.Site.PostsURL(), "max_pages", cfg.Crawl.MaxPages)
	res, err := cr.Run(ctx)
	if err != nil {
		return fmt.Errorf("crawl failed: %w", err)
	}

	s := &storage.Storage{}
	if err := s.SavePosts(cfg.Crawl.Out, res.Posts); err != nil {
		return err
	}

	fmt.Printf("Total posts collected: %d\n", len(res.Posts))
	logger.Info("Posts saved", "path", cfg.Crawl.Out, "crawl_id", res.CrawlID)
	return nil
}

// DumpAction writes every stored post, or the one selected by --id, to a
// JSON array.
func DumpAction(c *cli.Context) error {
	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}
	applyFlags(c, cfg)

	logger := common.NewLogger(c, cfg)

	store, err := db.Open(cfg.Crawl.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	var posts []json.RawMessage
	if id := c.Int64("id"); id > 0 {
		raw, ok, err := store.GetRawPost(id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("post %d is not in %s", id, store.Path())
		}
		posts = append(posts, raw)
	} else {
		posts, err = store.ListRawPosts()
		if err != nil {
			return err
		}
	}

	s := &storage.Storage{}
	if err := s.SavePosts(cfg.Crawl.Out, posts); err != nil {
		return err
	}
	logger.Info("Posts dumped", "count", len(posts), "path", cfg.Crawl.Out, "db", store.Path())
	return nil
}
