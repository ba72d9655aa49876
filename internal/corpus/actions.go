package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dtnitsch/wp-stylometry/internal/common"
	"github.com/dtnitsch/wp-stylometry/models"
	"github.com/dtnitsch/wp-stylometry/pkg/corpus"
	"github.com/dtnitsch/wp-stylometry/pkg/export"
	"github.com/dtnitsch/wp-stylometry/pkg/storage"
	"github.com/urfave/cli/v2"
)

// CountAction prints per-year article counts and saves the first record.
func CountAction(c *cli.Context) error {
	input, err := common.InputArg(c)
	if err != nil {
		return err
	}
	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}
	logger := common.NewLogger(c, cfg)

	s := &storage.Storage{}
	posts, err := s.LoadPosts(input)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", input, err)
	}

	articles := make([]models.Article, 0, len(posts))
	for _, p := range posts {
		articles = append(articles, p.Article)
	}
	counts, err := corpus.CountByYear(articles)
	if err != nil {
		return err
	}
	export.RenderYearCounts(os.Stdout, "Articles per year", counts)

	if len(posts) > 0 {
		out := c.String("first-out")
		if err := s.SaveJSON(out, posts[0].Raw); err != nil {
			return err
		}
		logger.Info("First article saved", "path", out, "article_id", posts[0].ID)
	}
	return nil
}

// NativeAdsAction extracts sponsored posts into their own export.
func NativeAdsAction(c *cli.Context) error {
	input, err := common.InputArg(c)
	if err != nil {
		return err
	}
	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}
	logger := common.NewLogger(c, cfg)

	s := &storage.Storage{}
	posts, err := s.LoadPosts(input)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", input, err)
	}
	logger.Info("Loaded articles", "count", len(posts))

	res, err := corpus.ExtractNativeAds(posts, c.String("slug"))
	if err != nil {
		return err
	}
	logger.Info("Extracted native ad articles", "count", len(res.Posts))
	export.RenderYearCounts(os.Stdout, "Native ad articles per year", res.PerYear)

	out := c.String("out")
	if err := s.SavePosts(out, res.Posts); err != nil {
		return err
	}
	logger.Info("Native ad articles saved", "path", out)
	return nil
}

// PubTimesAction renders the publication time heat map.
func PubTimesAction(c *cli.Context) error {
	input, err := common.InputArg(c)
	if err != nil {
		return err
	}
	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}
	if c.IsSet("timezone") {
		cfg.PubTimes.Timezone = c.String("timezone")
	}
	if c.IsSet("bin-minutes") {
		cfg.PubTimes.HourBinMins = c.Int("bin-minutes")
	}
	if c.IsSet("output-dir") {
		cfg.Output.Dir = c.String("output-dir")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	logger := common.NewLogger(c, cfg)

	loc, err := time.LoadLocation(cfg.PubTimes.Timezone)
	if err != nil {
		return err
	}

	s := &storage.Storage{}
	articles, err := s.LoadArticles(input)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", input, err)
	}

	grid, err := corpus.PublicationTimes(articles, loc, cfg.PubTimes.HourBinMins)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(cfg.Output.Dir, export.PublicationTimesFile)
	if err := export.PlotPublicationTimes(grid, path); err != nil {
		return err
	}

	if !c.Bool("quiet") {
		export.RenderPublicationSummary(os.Stdout, grid)
	}
	logger.Info("Publication times plotted", "path", path, "articles", grid.Total(), "days", len(grid.Days), "timezone", loc.String())
	return nil
}
