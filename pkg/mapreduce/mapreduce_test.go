package mapreduce

import (
	"math"
	"math/rand"
	"testing"

	"github.com/dtnitsch/wp-stylometry/models"
	"github.com/google/go-cmp/cmp"
)

func TestMean_ThreeArticles(t *testing.T) {
	members := []models.ArticleMetrics{
		{WordCount: 100, SentenceCount: 10, AvgSentenceLength: 10, LexicalDiversity: 0.5},
		{WordCount: 150, SentenceCount: 15, AvgSentenceLength: 10, LexicalDiversity: 0.6},
		{WordCount: 200, SentenceCount: 10, AvgSentenceLength: 20, LexicalDiversity: 0.7},
	}

	got := Mean(members)

	if got.AvgWordCount != 150.0 {
		t.Errorf("AvgWordCount = %v, want 150", got.AvgWordCount)
	}
	if math.Abs(got.AvgSentenceCount-11.67) > 0.01 {
		t.Errorf("AvgSentenceCount = %v, want ~11.67", got.AvgSentenceCount)
	}
	if math.Abs(got.AvgSentenceLength-40.0/3) > 1e-12 {
		t.Errorf("AvgSentenceLength = %v, want %v", got.AvgSentenceLength, 40.0/3)
	}
	if math.Abs(got.AvgLexicalDiversity-0.6) > 1e-12 {
		t.Errorf("AvgLexicalDiversity = %v, want 0.6", got.AvgLexicalDiversity)
	}
	if got.Articles != 3 {
		t.Errorf("Articles = %d, want 3", got.Articles)
	}
}

func TestMean_OrderIndependent(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	members := make([]models.ArticleMetrics, 500)
	for i := range members {
		members[i] = models.ArticleMetrics{
			WordCount:         rng.Intn(5000),
			SentenceCount:     rng.Intn(300),
			AvgSentenceLength: rng.Float64() * 40,
			LexicalDiversity:  rng.Float64(),
		}
	}

	want := Mean(members)
	for round := 0; round < 5; round++ {
		rng.Shuffle(len(members), func(i, j int) { members[i], members[j] = members[j], members[i] })
		got := Mean(members)
		for _, m := range models.Metrics {
			if diff := math.Abs(got.Value(m) - want.Value(m)); diff > 1e-12*math.Max(1, math.Abs(want.Value(m))) {
				t.Errorf("round %d: %s differs by %g after shuffle", round, m, diff)
			}
		}
	}
}

func TestMap_OneEmissionPerName(t *testing.T) {
	m := models.ArticleMetrics{WordCount: 3}
	got := Map("2024-01", []string{"News", "Sport", "News"}, m)

	want := []Emission{
		{Key: models.AggregationKey{YearMonth: "2024-01", Category: "News"}, Metrics: m},
		{Key: models.AggregationKey{YearMonth: "2024-01", Category: "Sport"}, Metrics: m},
		{Key: models.AggregationKey{YearMonth: "2024-01", Category: "News"}, Metrics: m},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Map() mismatch (-want +got):\n%s", diff)
	}
}

func TestReduce_SharedCategoryName(t *testing.T) {
	groups := make(Groups)
	groups.Add(Map("2024-01", []string{"Wien", "Wien"}, models.ArticleMetrics{WordCount: 3})...)
	groups.Add(Map("2024-01", []string{"Sport", "Wien"}, models.ArticleMetrics{WordCount: 5})...)

	got, ok := Reduce(groups).Get("2024-01", "Wien")
	if !ok {
		t.Fatal("Wien group missing")
	}
	if got.Articles != 3 {
		t.Errorf("Articles = %d, want 3", got.Articles)
	}
	if want := 11.0 / 3.0; math.Abs(got.AvgWordCount-want) > 1e-12 {
		t.Errorf("AvgWordCount = %v, want %v", got.AvgWordCount, want)
	}
}

func TestMap_NoCategories(t *testing.T) {
	if got := Map("2024-01", nil, models.ArticleMetrics{}); len(got) != 0 {
		t.Errorf("Map() with no categories = %v, want empty", got)
	}
}

func TestReduce(t *testing.T) {
	groups := make(Groups)
	groups.Add(Map("2024-01", []string{"A", "B"}, models.ArticleMetrics{WordCount: 10, SentenceCount: 2})...)
	groups.Add(Map("2024-01", []string{"A"}, models.ArticleMetrics{WordCount: 20, SentenceCount: 4})...)
	groups[models.AggregationKey{YearMonth: "2024-02", Category: "Empty"}] = nil

	stats := Reduce(groups)

	if _, ok := stats.Get("2024-02", "Empty"); ok {
		t.Error("empty group produced a row")
	}
	a, ok := stats.Get("2024-01", "A")
	if !ok || a.AvgWordCount != 15 || a.Articles != 2 {
		t.Errorf("group A = %+v, %v", a, ok)
	}
	b, ok := stats.Get("2024-01", "B")
	if !ok || b.AvgWordCount != 10 || b.Articles != 1 {
		t.Errorf("group B = %+v, %v", b, ok)
	}
}

func TestSortedKeys(t *testing.T) {
	groups := Groups{
		{YearMonth: "2024-02", Category: "A"}: nil,
		{YearMonth: "2024-01", Category: "B"}: nil,
		{YearMonth: "2024-01", Category: "A"}: nil,
	}
	want := []models.AggregationKey{
		{YearMonth: "2024-01", Category: "A"},
		{YearMonth: "2024-01", Category: "B"},
		{YearMonth: "2024-02", Category: "A"},
	}
	if diff := cmp.Diff(want, sortedKeys(groups)); diff != "" {
		t.Errorf("sortedKeys() mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeCounts(t *testing.T) {
	got := MergeCounts([]map[string]int{{"wien": 2, "graz": 1}, {"wien": 1}})
	want := map[string]int{"wien": 3, "graz": 1}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MergeCounts() mismatch (-want +got):\n%s", diff)
	}
}

func TestTopKeywords(t *testing.T) {
	counts := map[string]int{"wien": 3, "graz": 1, "linz": 3, "salzburg": 2}

	tests := []struct {
		name string
		n    int
		want []string
	}{
		{name: "ties alphabetical", n: 3, want: []string{"linz:3", "wien:3", "salzburg:2"}},
		{name: "n larger than map", n: 10, want: []string{"linz:3", "wien:3", "salzburg:2", "graz:1"}},
		{name: "zero", n: 0, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, TopKeywords(counts, tt.n)); diff != "" {
				t.Errorf("TopKeywords() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSum_Compensated(t *testing.T) {
	var s Sum
	s.Add(1e16)
	s.Add(1)
	s.Add(-1e16)
	if s.Value() != 1 {
		t.Errorf("Sum.Value() = %v, want 1", s.Value())
	}
}
