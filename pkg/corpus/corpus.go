// Package corpus holds whole-export utilities: per-year counts, native-ad
// extraction and the publication-time grid.
package corpus

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dtnitsch/wp-stylometry/models"
	"github.com/dtnitsch/wp-stylometry/pkg/normalizer"
)

// NativeAdSlug is the class_list category marking sponsored posts.
const NativeAdSlug = "native-ad"

func publishYear(a models.Article) (int, error) {
	t, err := models.ParseTimestamp(a.PublishDate())
	if err != nil {
		return 0, &models.DateError{ArticleID: a.ID, Value: a.PublishDate()}
	}
	return t.Year(), nil
}

// CountByYear counts articles per publish year. Any unparseable date
// fails the count.
func CountByYear(articles []models.Article) (map[int]int, error) {
	counts := make(map[int]int)
	for _, a := range articles {
		year, err := publishYear(a)
		if err != nil {
			return nil, err
		}
		counts[year]++
	}
	return counts, nil
}

// NativeAds is the result of ExtractNativeAds.
type NativeAds struct {
	// Posts are the matching raw records with content.rendered reduced
	// to plain text.
	Posts   []json.RawMessage
	PerYear map[int]int
}

// ExtractNativeAds selects posts whose class_list carries the given
// category slug, case-insensitively.
func ExtractNativeAds(posts []models.Post, slug string) (*NativeAds, error) {
	res := &NativeAds{PerYear: make(map[int]int)}
	for _, p := range posts {
		if !p.HasCategory(slug) {
			continue
		}

		raw, err := withPlainContent(p)
		if err != nil {
			return nil, err
		}
		year, err := publishYear(p.Article)
		if err != nil {
			return nil, err
		}

		res.Posts = append(res.Posts, raw)
		res.PerYear[year]++
	}
	return res, nil
}

// withPlainContent rewrites content.rendered of the raw record, keeping
// every other field and number literal untouched.
func withPlainContent(p models.Post) (json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(p.Raw))
	dec.UseNumber()

	var record map[string]interface{}
	if err := dec.Decode(&record); err != nil {
		return nil, fmt.Errorf("post %d: %w", p.ID, err)
	}

	content, _ := record["content"].(map[string]interface{})
	if content == nil {
		content = make(map[string]interface{})
	}
	content["rendered"] = normalizer.StripTags(p.Content.Rendered)
	record["content"] = content

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(record); err != nil {
		return nil, fmt.Errorf("post %d: %w", p.ID, err)
	}
	return json.RawMessage(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// PublicationTimes bins the GMT publish timestamps, converted to loc, by
// local day and time of day. Days between the first and last article
// are all present, empty ones with zero counts.
func PublicationTimes(articles []models.Article, loc *time.Location, binMinutes int) (*models.PublicationGrid, error) {
	grid := models.NewPublicationGrid(binMinutes)
	if grid.Bins() == 0 || (24*60)%binMinutes != 0 {
		return nil, fmt.Errorf("%w: %d", models.ErrInvalidHistogramBin, binMinutes)
	}
	if len(articles) == 0 {
		return grid, nil
	}

	locals := make([]time.Time, 0, len(articles))
	var first, last time.Time
	for i, a := range articles {
		t, err := models.ParseTimestamp(a.DateGMT)
		if err != nil {
			return nil, &models.DateError{ArticleID: a.ID, Value: a.DateGMT}
		}
		local := t.UTC().In(loc)
		day := startOfDay(local)
		if i == 0 || day.Before(first) {
			first = day
		}
		if i == 0 || day.After(last) {
			last = day
		}
		locals = append(locals, local)
	}

	index := make(map[string]int)
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		index[key] = len(grid.Days)
		grid.Days = append(grid.Days, key)
		grid.Counts = append(grid.Counts, make([]int, grid.Bins()))
	}

	for _, t := range locals {
		bin := (t.Hour()*60 + t.Minute()) / binMinutes
		grid.Counts[index[t.Format("2006-01-02")]][bin]++
	}
	return grid, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
