package models

import "sort"

// ArticleMetrics holds the per-article stylometric measurements.
type ArticleMetrics struct {
	WordCount         int     `json:"word_count"`
	SentenceCount     int     `json:"sentence_count"`
	AvgSentenceLength float64 `json:"avg_sentence_length"`
	LexicalDiversity  float64 `json:"lexical_diversity"`
}

// AggregationKey groups metrics by publication month and category name.
type AggregationKey struct {
	YearMonth string
	Category  string
}

// AggregateStats is the mean of each metric across one group.
type AggregateStats struct {
	AvgWordCount        float64 `json:"avg_word_count"`
	AvgSentenceCount    float64 `json:"avg_sentence_count"`
	AvgSentenceLength   float64 `json:"avg_sentence_length"`
	AvgLexicalDiversity float64 `json:"avg_lexical_diversity"`
	Articles            int     `json:"articles"`
}

// Metric identifies one aggregated field. The identifier doubles as the
// column name and the chart file stem.
type Metric string

const (
	MetricWordCount        Metric = "avg_word_count"
	MetricSentenceCount    Metric = "avg_sentence_count"
	MetricSentenceLength   Metric = "avg_sentence_length"
	MetricLexicalDiversity Metric = "avg_lexical_diversity"
)

// Metrics lists the tracked metrics in column order.
var Metrics = []Metric{
	MetricWordCount,
	MetricSentenceCount,
	MetricSentenceLength,
	MetricLexicalDiversity,
}

// Value returns the field of s named by m.
func (s AggregateStats) Value(m Metric) float64 {
	switch m {
	case MetricWordCount:
		return s.AvgWordCount
	case MetricSentenceCount:
		return s.AvgSentenceCount
	case MetricSentenceLength:
		return s.AvgSentenceLength
	case MetricLexicalDiversity:
		return s.AvgLexicalDiversity
	}
	return 0
}

// MonthlyStats maps "YYYY-MM" to category name to aggregate.
type MonthlyStats map[string]map[string]AggregateStats

// StatsRow is one flattened (month, category) entry.
type StatsRow struct {
	Month    string
	Category string
	Stats    AggregateStats
}

// Set stores stats for the given key.
func (m MonthlyStats) Set(key AggregationKey, stats AggregateStats) {
	byCategory, ok := m[key.YearMonth]
	if !ok {
		byCategory = make(map[string]AggregateStats)
		m[key.YearMonth] = byCategory
	}
	byCategory[key.Category] = stats
}

// Get looks up the stats for a key.
func (m MonthlyStats) Get(month, category string) (AggregateStats, bool) {
	s, ok := m[month][category]
	return s, ok
}

// Months returns all months in chronological order.
func (m MonthlyStats) Months() []string {
	months := make([]string, 0, len(m))
	for month := range m {
		months = append(months, month)
	}
	sort.Strings(months)
	return months
}

// Categories returns every category seen in any month, sorted.
func (m MonthlyStats) Categories() []string {
	seen := make(map[string]struct{})
	for _, byCategory := range m {
		for c := range byCategory {
			seen[c] = struct{}{}
		}
	}
	categories := make([]string, 0, len(seen))
	for c := range seen {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return categories
}

// Rows flattens the stats, ordered by month then category.
func (m MonthlyStats) Rows() []StatsRow {
	var rows []StatsRow
	for _, month := range m.Months() {
		byCategory := m[month]
		names := make([]string, 0, len(byCategory))
		for c := range byCategory {
			names = append(names, c)
		}
		sort.Strings(names)
		for _, c := range names {
			rows = append(rows, StatsRow{Month: month, Category: c, Stats: byCategory[c]})
		}
	}
	return rows
}
