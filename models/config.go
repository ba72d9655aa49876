// Package models defines data structures for configuration, articles and statistics.
package models

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata" // pubtimes zones must resolve on hosts without zoneinfo

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrMissingBaseURL      = errors.New("site.base_url is required")
	ErrInvalidTimeout      = errors.New("site.timeout_sec must be at least 1")
	ErrInvalidPerPage      = errors.New("crawl.per_page must be between 1 and 100")
	ErrInvalidMaxPages     = errors.New("crawl.max_pages must be at least 1")
	ErrInvalidRate         = errors.New("crawl.requests_per_second must be non-negative")
	ErrInvalidCacheTTL     = errors.New("crawl.cache_ttl must be a valid duration")
	ErrInvalidLanguage     = errors.New("unsupported language")
	ErrInvalidNormalize    = errors.New("analysis.normalize_mode must be 'plain' or 'readability'")
	ErrInvalidWorkers      = errors.New("categories.workers must be at least 1")
	ErrInvalidFormat       = errors.New("output.format must be 'xlsx' or 'csv'")
	ErrMissingOutputDir    = errors.New("output.dir is required")
	ErrInvalidTimezone     = errors.New("pubtimes.timezone is not a known IANA zone")
	ErrInvalidLogLevel     = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidHistogramBin = errors.New("pubtimes.hour_bin_minutes must divide 24*60 evenly")
)

// Normalizer modes.
const (
	NormalizePlain       = "plain"
	NormalizeReadability = "readability"
)

// Output formats for the statistics table.
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

// Config is the complete runtime configuration. Every field has a default,
// so the YAML file is optional and CLI flags override it.
type Config struct {
	Site       SiteConfig       `yaml:"site"`
	Crawl      CrawlConfig      `yaml:"crawl"`
	Analysis   AnalysisConfig   `yaml:"analysis"`
	Categories CategoriesConfig `yaml:"categories"`
	Output     OutputConfig     `yaml:"output"`
	PubTimes   PubTimesConfig   `yaml:"pubtimes"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// SiteConfig points at the WordPress REST API root.
type SiteConfig struct {
	BaseURL    string `yaml:"base_url"`
	UserAgent  string `yaml:"user_agent"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// CrawlConfig controls the post crawler.
type CrawlConfig struct {
	PerPage           int     `yaml:"per_page"`
	MaxPages          int     `yaml:"max_pages"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	CacheDir          string  `yaml:"cache_dir"`
	CacheTTL          string  `yaml:"cache_ttl"`
	Out               string  `yaml:"out"`
	DBPath            string  `yaml:"db_path"`
}

// AnalysisConfig controls text normalization and metric extraction.
type AnalysisConfig struct {
	StopwordLanguage   string `yaml:"stopword_language"`
	TokenizerLanguage  string `yaml:"tokenizer_language"`
	NormalizeMode      string `yaml:"normalize_mode"`
	SkipMalformedDates bool   `yaml:"skip_malformed_dates"`
	DetectLanguage     bool   `yaml:"detect_language"`
}

// CategoriesConfig controls category name resolution.
type CategoriesConfig struct {
	Workers int    `yaml:"workers"`
	DBPath  string `yaml:"db_path"` // empty disables the durable cache
}

// OutputConfig controls where and how results are written.
type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"`
	Charts bool   `yaml:"charts"`
}

// PubTimesConfig controls the publication time distribution.
type PubTimesConfig struct {
	Timezone    string `yaml:"timezone"`
	HourBinMins int    `yaml:"hour_bin_minutes"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the settings the historical exports were produced with.
func DefaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			BaseURL:    "https://exxpress.at/api/wp/v2",
			UserAgent:  "wp-stylometry/1.0",
			TimeoutSec: 30,
		},
		Crawl: CrawlConfig{
			PerPage:  100,
			MaxPages: 508,
			CacheTTL: "24h",
			Out:      "express.json",
			DBPath:   "wp-stylometry.db",
		},
		Analysis: AnalysisConfig{
			StopwordLanguage:  string(LanguageGerman),
			TokenizerLanguage: string(LanguageEnglish),
			NormalizeMode:     NormalizePlain,
		},
		Categories: CategoriesConfig{
			Workers: 1,
		},
		Output: OutputConfig{
			Dir:    ".",
			Format: FormatXLSX,
			Charts: true,
		},
		PubTimes: PubTimesConfig{
			Timezone:    "Europe/Vienna",
			HourBinMins: 30,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig reads a YAML file over the defaults. An empty path returns
// the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks every section of the configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Site.BaseURL) == "" {
		return ErrMissingBaseURL
	}
	if c.Site.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	if c.Crawl.PerPage < 1 || c.Crawl.PerPage > 100 {
		return ErrInvalidPerPage
	}
	if c.Crawl.MaxPages < 1 {
		return ErrInvalidMaxPages
	}
	if c.Crawl.RequestsPerSecond < 0 {
		return ErrInvalidRate
	}
	if _, err := c.Crawl.TTL(); err != nil {
		return err
	}

	if _, err := ParseLanguage(c.Analysis.StopwordLanguage); err != nil {
		return fmt.Errorf("analysis.stopword_language: %w", err)
	}
	if _, err := ParseLanguage(c.Analysis.TokenizerLanguage); err != nil {
		return fmt.Errorf("analysis.tokenizer_language: %w", err)
	}
	if c.Analysis.NormalizeMode != NormalizePlain && c.Analysis.NormalizeMode != NormalizeReadability {
		return ErrInvalidNormalize
	}

	if c.Categories.Workers < 1 {
		return ErrInvalidWorkers
	}

	if c.Output.Dir == "" {
		return ErrMissingOutputDir
	}
	if c.Output.Format != FormatXLSX && c.Output.Format != FormatCSV {
		return ErrInvalidFormat
	}

	if _, err := time.LoadLocation(c.PubTimes.Timezone); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidTimezone, c.PubTimes.Timezone)
	}
	if c.PubTimes.HourBinMins < 1 || (24*60)%c.PubTimes.HourBinMins != 0 {
		return ErrInvalidHistogramBin
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return ErrInvalidLogLevel
	}

	return nil
}

// TTL parses the crawl cache TTL. An empty value keeps cached pages forever.
func (cc CrawlConfig) TTL() (time.Duration, error) {
	if cc.CacheTTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(cc.CacheTTL)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCacheTTL, cc.CacheTTL)
	}
	return d, nil
}

// Timeout returns the HTTP timeout.
func (s SiteConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSec) * time.Second
}

// PostsURL is the paginated posts collection endpoint.
func (s SiteConfig) PostsURL() string {
	return strings.TrimRight(s.BaseURL, "/") + "/posts/"
}

// CategoryURL is the per-id category endpoint.
func (s SiteConfig) CategoryURL(id int64) string {
	return fmt.Sprintf("%s/categories/%d", strings.TrimRight(s.BaseURL, "/"), id)
}
