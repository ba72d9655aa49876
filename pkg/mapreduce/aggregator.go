// Package mapreduce groups per-article metrics by month and category and
// reduces every group to its means.
package mapreduce

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/dtnitsch/wp-stylometry/models"
	"github.com/dtnitsch/wp-stylometry/pkg/analytics"
	"github.com/dtnitsch/wp-stylometry/pkg/categories"
	"github.com/dtnitsch/wp-stylometry/pkg/normalizer"
)

const defaultProgressEvery = 100

// Options tunes an Aggregator run.
type Options struct {
	// SkipMalformedDates reports and skips articles with unparseable
	// dates instead of failing the run.
	SkipMalformedDates bool
	// PrefetchWorkers > 1 resolves all category ids concurrently up front.
	PrefetchWorkers int
	// Detector, when set, counts articles whose detected language differs
	// from the stopword language.
	Detector *analytics.Detector
	// ProgressEvery is the article interval between progress logs.
	ProgressEvery int
}

// SkippedRecord is an article left out because of a malformed date.
type SkippedRecord struct {
	ArticleID int64  `json:"article_id"`
	Value     string `json:"value"`
}

// Result is the outcome of one aggregation run.
type Result struct {
	Stats              models.MonthlyStats
	Articles           int
	Analyzed           int
	Excluded           int
	Groups             int
	Skipped            []SkippedRecord
	UnknownCategories  []int64
	DetectedLanguages  map[models.Language]int
	LanguageMismatches int
	WordCounts         map[string]int
}

// Aggregator runs the map and reduce stages over a batch of articles.
type Aggregator struct {
	resolver   *categories.Resolver
	normalizer *normalizer.Normalizer
	analytics  *analytics.Analytics
	opts       Options
	logger     *slog.Logger
}

func NewAggregator(resolver *categories.Resolver, n *normalizer.Normalizer, a *analytics.Analytics, opts Options, logger *slog.Logger) *Aggregator {
	if opts.ProgressEvery <= 0 {
		opts.ProgressEvery = defaultProgressEvery
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{resolver: resolver, normalizer: n, analytics: a, opts: opts, logger: logger}
}

// Run folds all articles into (month, category) groups and reduces them.
// A malformed date aborts the run with a *models.DateError unless
// SkipMalformedDates is set. Articles whose cleaned text is empty
// contribute to no group.
func (ag *Aggregator) Run(ctx context.Context, articles []models.Article) (*Result, error) {
	res := &Result{
		Articles:          len(articles),
		DetectedLanguages: make(map[models.Language]int),
	}

	if ag.opts.PrefetchWorkers > 1 {
		var ids []int64
		for _, a := range articles {
			ids = append(ids, a.Categories...)
		}
		ag.resolver.Prefetch(ctx, ids, ag.opts.PrefetchWorkers)
	}

	ag.logger.Info("Analyzing articles by category and month", "articles", len(articles))

	groups := make(Groups)
	var counts []map[string]int
	for idx, article := range articles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		yearMonth, err := models.ArticleYearMonth(article)
		if err != nil {
			var dateErr *models.DateError
			if ag.opts.SkipMalformedDates && errors.As(err, &dateErr) {
				ag.logger.Warn("Skipping article with malformed date", "article_id", article.ID, "value", dateErr.Value)
				res.Skipped = append(res.Skipped, SkippedRecord{ArticleID: article.ID, Value: dateErr.Value})
				continue
			}
			return nil, err
		}

		names := ag.categoryNames(ctx, article)
		text := ag.normalizer.Clean(article.Content.Rendered)

		if strings.TrimSpace(text) == "" {
			res.Excluded++
		} else {
			metrics, wordCounts := ag.analytics.ExtractWithCounts(text)
			groups.Add(Map(yearMonth, names, metrics)...)
			counts = append(counts, wordCounts)
			res.Analyzed++
			ag.detect(article.ID, text, res)
		}

		if (idx+1)%ag.opts.ProgressEvery == 0 {
			ag.logger.Info("Processed articles", "count", idx+1)
		}
	}

	ag.logger.Info("Calculating statistics by category and month", "groups", len(groups))
	res.Stats = Reduce(groups)
	res.Groups = len(groups)
	res.WordCounts = MergeCounts(counts)
	res.UnknownCategories = ag.resolver.Unknown()

	for _, key := range sortedKeys(groups) {
		ag.logger.Debug("Group statistics calculated", "month", key.YearMonth, "category", key.Category, "articles", len(groups[key]))
	}

	return res, nil
}

// categoryNames resolves numeric categories, falling back to the
// class_list slugs for exports that carry no ids.
func (ag *Aggregator) categoryNames(ctx context.Context, a models.Article) []string {
	if len(a.Categories) > 0 {
		return ag.resolver.Resolve(ctx, a.Categories)
	}
	return a.CategorySlugs()
}

func (ag *Aggregator) detect(articleID int64, text string, res *Result) {
	if ag.opts.Detector == nil {
		return
	}
	lang, ok := ag.opts.Detector.Detect(text)
	if !ok {
		return
	}
	res.DetectedLanguages[lang]++
	if lang != ag.analytics.Options().StopwordLanguage {
		res.LanguageMismatches++
		ag.logger.Debug("Article language differs from stopword language",
			"article_id", articleID, "detected", lang, "stopwords", ag.analytics.Options().StopwordLanguage)
	}
}

// LanguageSummary renders detected language counts as "lang:count", sorted.
func (r *Result) LanguageSummary() []string {
	langs := make([]string, 0, len(r.DetectedLanguages))
	for lang := range r.DetectedLanguages {
		langs = append(langs, string(lang))
	}
	sort.Strings(langs)
	out := make([]string, len(langs))
	for i, lang := range langs {
		out[i] = fmt.Sprintf("%s:%d", lang, r.DetectedLanguages[models.Language(lang)])
	}
	return out
}
