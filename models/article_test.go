package models

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    time.Time
		wantErr bool
	}{
		{name: "wordpress local", value: "2024-01-15T10:30:00", want: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)},
		{name: "fractional seconds", value: "2024-01-15T10:30:00.123", want: time.Date(2024, 1, 15, 10, 30, 0, 123000000, time.UTC)},
		{name: "space separated", value: "2024-01-15 10:30:00", want: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)},
		{name: "date only", value: "2024-01-15", want: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{name: "surrounding whitespace", value: "  2024-01-15T10:30:00 ", want: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)},
		{name: "empty", value: "", wantErr: true},
		{name: "words", value: "gestern", wantErr: true},
		{name: "impossible month", value: "2024-13-01T00:00:00", wantErr: true},
		{name: "unix seconds", value: "1700000000", wantErr: true},
		{name: "year only", value: "2024", wantErr: true},
		{name: "english prose date", value: "March 5, 2024", wantErr: true},
		{name: "rfc1123", value: "Tue, 05 Mar 2024 10:00:00 GMT", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.value)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedDate) {
					t.Errorf("ParseTimestamp(%q) error = %v, want ErrMalformedDate", tt.value, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTimestamp(%q) error = %v", tt.value, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestParseTimestamp_BasicFormat(t *testing.T) {
	got, err := ParseTimestamp("20240305")
	if err != nil {
		t.Fatalf("ParseTimestamp() error = %v", err)
	}
	if YearMonth(got) != "2024-03" {
		t.Errorf("YearMonth() = %q, want 2024-03", YearMonth(got))
	}
}

func TestParseTimestamp_KeepsOffsetWallClock(t *testing.T) {
	got, err := ParseTimestamp("2024-01-31T23:30:00+01:00")
	if err != nil {
		t.Fatal(err)
	}
	if YearMonth(got) != "2024-01" {
		t.Errorf("YearMonth() = %q, want 2024-01", YearMonth(got))
	}
}

func TestArticleYearMonth(t *testing.T) {
	ym, err := ArticleYearMonth(Article{ID: 1, Date: "2024-03-05T08:00:00", DateGMT: "2024-03-05T07:00:00"})
	if err != nil || ym != "2024-03" {
		t.Errorf("ArticleYearMonth() = %q, %v", ym, err)
	}

	ym, err = ArticleYearMonth(Article{ID: 2, DateGMT: "2023-11-30T23:00:00"})
	if err != nil || ym != "2023-11" {
		t.Errorf("ArticleYearMonth() with date_gmt only = %q, %v", ym, err)
	}

	_, err = ArticleYearMonth(Article{ID: 3, Date: "kaputt"})
	var dateErr *DateError
	if !errors.As(err, &dateErr) || dateErr.ArticleID != 3 || dateErr.Value != "kaputt" {
		t.Errorf("ArticleYearMonth() error = %v, want DateError for article 3", err)
	}
	if !errors.Is(err, ErrMalformedDate) {
		t.Error("DateError does not unwrap to ErrMalformedDate")
	}
}

func TestArticleCategories(t *testing.T) {
	a := Article{ClassList: []string{"post-1", "type-post", "category-Politik", "category-native-ad", "tag-wien"}}

	if diff := cmp.Diff([]string{"Politik", "native-ad"}, a.CategorySlugs()); diff != "" {
		t.Errorf("CategorySlugs() mismatch (-want +got):\n%s", diff)
	}
	if !a.HasCategory("NATIVE-AD") {
		t.Error("HasCategory() is not case-insensitive")
	}
	if a.HasCategory("wien") {
		t.Error("HasCategory() matched a tag")
	}
}

func TestMonthlyStats(t *testing.T) {
	stats := make(MonthlyStats)
	stats.Set(AggregationKey{YearMonth: "2024-02", Category: "B"}, AggregateStats{AvgWordCount: 2})
	stats.Set(AggregationKey{YearMonth: "2024-01", Category: "B"}, AggregateStats{AvgWordCount: 1})
	stats.Set(AggregationKey{YearMonth: "2024-01", Category: "A"}, AggregateStats{AvgWordCount: 3})

	if diff := cmp.Diff([]string{"2024-01", "2024-02"}, stats.Months()); diff != "" {
		t.Errorf("Months() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"A", "B"}, stats.Categories()); diff != "" {
		t.Errorf("Categories() mismatch (-want +got):\n%s", diff)
	}

	var order []string
	for _, r := range stats.Rows() {
		order = append(order, r.Month+"/"+r.Category)
	}
	if diff := cmp.Diff([]string{"2024-01/A", "2024-01/B", "2024-02/B"}, order); diff != "" {
		t.Errorf("Rows() order mismatch (-want +got):\n%s", diff)
	}

	if v := (AggregateStats{AvgLexicalDiversity: 0.4}).Value(MetricLexicalDiversity); v != 0.4 {
		t.Errorf("Value() = %v", v)
	}
}
