package analyze

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dtnitsch/wp-stylometry/internal/common"
	"github.com/dtnitsch/wp-stylometry/models"
	"github.com/dtnitsch/wp-stylometry/pkg/analytics"
	"github.com/dtnitsch/wp-stylometry/pkg/categories"
	"github.com/dtnitsch/wp-stylometry/pkg/db"
	"github.com/dtnitsch/wp-stylometry/pkg/export"
	"github.com/dtnitsch/wp-stylometry/pkg/fetcher"
	"github.com/dtnitsch/wp-stylometry/pkg/manifest"
	"github.com/dtnitsch/wp-stylometry/pkg/mapreduce"
	"github.com/dtnitsch/wp-stylometry/pkg/normalizer"
	"github.com/dtnitsch/wp-stylometry/pkg/storage"
	"github.com/urfave/cli/v2"
)

// applyFlags overrides configuration values with explicitly set flags.
func applyFlags(c *cli.Context, cfg *models.Config) {
	if c.IsSet("output-dir") {
		cfg.Output.Dir = c.String("output-dir")
	}
	if c.IsSet("format") {
		cfg.Output.Format = c.String("format")
	}
	if c.Bool("no-charts") {
		cfg.Output.Charts = false
	}
	if c.IsSet("stopwords-language") {
		cfg.Analysis.StopwordLanguage = c.String("stopwords-language")
	}
	if c.IsSet("tokenizer-language") {
		cfg.Analysis.TokenizerLanguage = c.String("tokenizer-language")
	}
	if c.IsSet("normalize-mode") {
		cfg.Analysis.NormalizeMode = c.String("normalize-mode")
	}
	if c.Bool("skip-malformed-dates") {
		cfg.Analysis.SkipMalformedDates = true
	}
	if c.Bool("detect-language") {
		cfg.Analysis.DetectLanguage = true
	}
	if c.IsSet("workers") {
		cfg.Categories.Workers = c.Int("workers")
	}
	if c.IsSet("category-db") {
		cfg.Categories.DBPath = c.String("category-db")
	}
}

func AnalyzeAction(c *cli.Context) error {
	input, err := common.InputArg(c)
	if err != nil {
		return err
	}

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

	stopwordLang, _ := models.ParseLanguage(cfg.Analysis.StopwordLanguage)
	tokenizerLang, _ := models.ParseLanguage(cfg.Analysis.TokenizerLanguage)
	a, err := analytics.New(analytics.Options{StopwordLanguage: stopwordLang, TokenizerLanguage: tokenizerLang})
	if err != nil {
		return err
	}
	if !a.LanguagesMatch() {
		logger.Warn("Tokenizer and stopword languages differ", "tokenizer", tokenizerLang, "stopwords", stopwordLang)
	}

	s := &storage.Storage{}
	articles, err := s.LoadArticles(input)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", input, err)
	}
	logger.Info("Loaded articles", "count", len(articles), "input", input)

	cache := categories.NewCache()
	var store *db.DB
	if cfg.Categories.DBPath != "" {
		store, err = db.Open(cfg.Categories.DBPath)
		if err != nil {
			return fmt.Errorf("failed to open category store: %w", err)
		}
		defer store.Close()

		names, err := store.LoadCategories()
		if err != nil {
			return err
		}
		cache.Load(names)
		logger.Info("Loaded cached category names", "count", len(names), "db", store.Path())
	}

	f := fetcher.NewFetcher(cfg.Site.Timeout(), cfg.Site.UserAgent)
	resolver := categories.NewResolver(cache, categories.HTTPLookup(f, cfg.Site.CategoryURL), logger)

	opts := mapreduce.Options{
		SkipMalformedDates: cfg.Analysis.SkipMalformedDates,
		PrefetchWorkers:    cfg.Categories.Workers,
	}
	if cfg.Analysis.DetectLanguage {
		opts.Detector = analytics.NewDetector()
	}

	ag := mapreduce.NewAggregator(resolver, normalizer.New(cfg.Analysis.NormalizeMode, cfg.Site.BaseURL), a, opts, logger)
	res, err := ag.Run(ctx, articles)
	if err != nil {
		return err
	}

	logger.Debug("Category names resolved", "cached", cache.Len(), "unknown", len(res.UnknownCategories))
	if store != nil {
		if err := store.SaveCategories(cache.Snapshot()); err != nil {
			logger.Warn("Failed to persist category names", "error", err)
		}
	}

	outputs, err := writeOutputs(cfg, res, logger)
	if err != nil {
		return err
	}

	settings := manifest.Settings{
		StopwordLanguage:   string(stopwordLang),
		TokenizerLanguage:  string(tokenizerLang),
		LanguagesMatch:     a.LanguagesMatch(),
		NormalizeMode:      cfg.Analysis.NormalizeMode,
		SkipMalformedDates: cfg.Analysis.SkipMalformedDates,
		Workers:            cfg.Categories.Workers,
		Format:             cfg.Output.Format,
	}
	manifestPath, err := manifest.Write(cfg.Output.Dir, manifest.Build(input, settings, res, outputs, s), s)
	if err != nil {
		return err
	}

	if !c.Bool("quiet") {
		export.RenderSummary(os.Stdout, res.Stats)
	}
	logger.Info("Analysis complete",
		"analyzed", res.Analyzed,
		"excluded", res.Excluded,
		"skipped", len(res.Skipped),
		"groups", res.Groups,
		"unknown_categories", len(res.UnknownCategories),
		"manifest", manifestPath,
	)
	return nil
}

// writeOutputs writes the table and, unless disabled, the metric charts.
func writeOutputs(cfg *models.Config, res *mapreduce.Result, logger *slog.Logger) ([]string, error) {
	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	tablePath := export.TablePath(cfg.Output.Dir, cfg.Output.Format)
	if err := export.WriteTable(res.Stats, tablePath, cfg.Output.Format); err != nil {
		return nil, err
	}
	logger.Info("Statistics saved", "path", tablePath)
	outputs := []string{tablePath}

	if !cfg.Output.Charts {
		return outputs, nil
	}
	charts, err := export.PlotMetrics(res.Stats, cfg.Output.Dir)
	if errors.Is(err, export.ErrNoData) {
		logger.Warn("No statistics to plot")
		return outputs, nil
	}
	if err != nil {
		return nil, err
	}
	logger.Info("Charts saved", "count", len(charts), "dir", cfg.Output.Dir)
	return append(outputs, charts...), nil
}
