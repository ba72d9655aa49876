package mapreduce

import (
	"sort"

	"github.com/dtnitsch/wp-stylometry/models"
)

// Emission is one (key, metrics) pair produced by the map stage.
type Emission struct {
	Key     models.AggregationKey
	Metrics models.ArticleMetrics
}

// Map emits the article's metrics once per resolved category name. Two
// ids sharing a name add the article to that group twice.
func Map(yearMonth string, categoryNames []string, m models.ArticleMetrics) []Emission {
	out := make([]Emission, 0, len(categoryNames))
	for _, name := range categoryNames {
		out = append(out, Emission{
			Key:     models.AggregationKey{YearMonth: yearMonth, Category: name},
			Metrics: m,
		})
	}
	return out
}

// Groups collects emissions by key.
type Groups map[models.AggregationKey][]models.ArticleMetrics

// Add appends emissions to their groups.
func (g Groups) Add(emissions ...Emission) {
	for _, e := range emissions {
		g[e.Key] = append(g[e.Key], e.Metrics)
	}
}

// Reduce turns every non-empty group into its mean statistics.
func Reduce(groups Groups) models.MonthlyStats {
	stats := make(models.MonthlyStats)
	for key, members := range groups {
		if len(members) == 0 {
			continue
		}
		stats.Set(key, Mean(members))
	}
	return stats
}

// Mean averages each metric field over members with compensated
// summation. members must be non-empty.
func Mean(members []models.ArticleMetrics) models.AggregateStats {
	var words, sentences, length, diversity Sum
	for _, m := range members {
		words.Add(float64(m.WordCount))
		sentences.Add(float64(m.SentenceCount))
		length.Add(m.AvgSentenceLength)
		diversity.Add(m.LexicalDiversity)
	}
	n := float64(len(members))
	return models.AggregateStats{
		AvgWordCount:        words.Value() / n,
		AvgSentenceCount:    sentences.Value() / n,
		AvgSentenceLength:   length.Value() / n,
		AvgLexicalDiversity: diversity.Value() / n,
		Articles:            len(members),
	}
}

// MergeCounts aggregates a slice of word frequency maps into a single map.
func MergeCounts(intermediate []map[string]int) map[string]int {
	finalResults := make(map[string]int)

	for _, counts := range intermediate {
		for word, count := range counts {
			finalResults[word] += count
		}
	}

	return finalResults
}

// sortedKeys returns the group keys ordered by month then category.
func sortedKeys(groups Groups) []models.AggregationKey {
	keys := make([]models.AggregationKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].YearMonth != keys[j].YearMonth {
			return keys[i].YearMonth < keys[j].YearMonth
		}
		return keys[i].Category < keys[j].Category
	})
	return keys
}
