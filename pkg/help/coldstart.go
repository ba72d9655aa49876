// Package help holds the built-in quick start and config template.
package help

import (
	"fmt"

	"github.com/dtnitsch/wp-stylometry/models"
	"gopkg.in/yaml.v3"
)

const ColdstartYAML = `# stylometry Quick Start

pipeline:
  1_crawl: "Download every post of the site into express.json (and the sqlite store)"
  2_analyze: "Clean, measure and aggregate by category and month"

commands:
  crawl: |
    stylometry crawl --out express.json --cache-dir .cache/pages

  crawl_politely: |
    stylometry crawl --rate 2 --max-pages 10

  analyze: |
    stylometry analyze express.json --output-dir results

  analyze_csv_with_cached_categories: |
    stylometry analyze express.json --format csv --category-db categories.db --workers 8

  tolerate_bad_dates: |
    stylometry analyze express.json --skip-malformed-dates

  count_per_year: |
    stylometry count express.json

  native_ads: |
    stylometry nativeads express.json --out native-ad.json

  publication_times: |
    stylometry pubtimes express.json --timezone Europe/Vienna

  crawl_history: |
    stylometry crawls list

outputs:
  category_monthly_stats: "xlsx (sheet Stats) or csv, one row per month and category"
  charts: "<metric>_plot.png, one line per category"
  run-manifest.json: "settings, exclusions, unknown categories, top keywords"

metrics:
  avg_word_count: "non-stopword alphanumeric tokens"
  avg_sentence_count: "sentences"
  avg_sentence_length: "words per sentence"
  avg_lexical_diversity: "distinct words / words"
`

// ConfigTemplate renders the default configuration as YAML.
func ConfigTemplate() (string, error) {
	data, err := yaml.Marshal(models.DefaultConfig())
	if err != nil {
		return "", fmt.Errorf("failed to render config template: %w", err)
	}
	return "# stylometry configuration, all values are defaults\n" + string(data), nil
}
