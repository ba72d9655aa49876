package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// CategoryClassPrefix marks category entries in a post's class_list.
const CategoryClassPrefix = "category-"

// ErrMalformedDate is returned when an article timestamp cannot be parsed.
var ErrMalformedDate = errors.New("malformed publish date")

// Rendered is the WordPress wrapper around rendered HTML fields.
type Rendered struct {
	Rendered string `json:"rendered"`
}

// Article is one post as returned by the WordPress REST API (/wp/v2/posts).
// Only the fields the pipeline reads are decoded.
type Article struct {
	ID         int64    `json:"id"`
	Date       string   `json:"date,omitempty"`
	DateGMT    string   `json:"date_gmt,omitempty"`
	Categories []int64  `json:"categories,omitempty"`
	ClassList  []string `json:"class_list,omitempty"`
	Content    Rendered `json:"content"`
}

// Post pairs the decoded article with the record exactly as received, so
// commands that rewrite posts keep every field the API sent.
type Post struct {
	Article
	Raw json.RawMessage
}

// PublishDate returns the raw publish timestamp, preferring the site-local
// "date" over "date_gmt".
func (a Article) PublishDate() string {
	if a.Date != "" {
		return a.Date
	}
	return a.DateGMT
}

// CategorySlugs returns the category slugs carried in class_list,
// with the "category-" prefix removed.
func (a Article) CategorySlugs() []string {
	var slugs []string
	for _, cls := range a.ClassList {
		if strings.HasPrefix(cls, CategoryClassPrefix) {
			slugs = append(slugs, strings.TrimPrefix(cls, CategoryClassPrefix))
		}
	}
	return slugs
}

// HasCategory reports whether class_list names the given slug (case-insensitive).
func (a Article) HasCategory(slug string) bool {
	for _, s := range a.CategorySlugs() {
		if strings.EqualFold(s, slug) {
			return true
		}
	}
	return false
}

// DateError reports an article whose timestamp could not be parsed.
type DateError struct {
	ArticleID int64
	Value     string
}

func (e *DateError) Error() string {
	return fmt.Sprintf("article %d: %s %q", e.ArticleID, ErrMalformedDate, e.Value)
}

func (e *DateError) Unwrap() error {
	return ErrMalformedDate
}

// timestampLayouts are the ISO-8601 shapes WordPress and its exports emit.
var timestampLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04",
	"2006-01-02",
}

// isoPrefix matches the calendar date of the ISO-8601 extended
// (YYYY-MM-DD) and basic (YYYYMMDD) forms.
var isoPrefix = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}|\d{8})([T ]|$)`)

// ParseTimestamp parses an ISO-8601 timestamp. Shapes outside
// timestampLayouts go through dateparse only when they start with an ISO
// calendar date. Values without a zone are returned in UTC with their
// wall clock untouched.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrMalformedDate
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	if isoPrefix.MatchString(value) {
		if t, err := dateparse.ParseStrict(value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDate, value)
}

// YearMonth formats t as "YYYY-MM" using t's own wall clock.
func YearMonth(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}

// ArticleYearMonth parses the article's publish date and returns its
// "YYYY-MM" key, or a *DateError.
func ArticleYearMonth(a Article) (string, error) {
	t, err := ParseTimestamp(a.PublishDate())
	if err != nil {
		return "", &DateError{ArticleID: a.ID, Value: a.PublishDate()}
	}
	return YearMonth(t), nil
}
