// Package manifest writes the run-manifest.json summary of an analyze run.
package manifest

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/dtnitsch/wp-stylometry/pkg/mapreduce"
	"github.com/dtnitsch/wp-stylometry/pkg/storage"
)

// FileName is the manifest written into the output directory.
const FileName = "run-manifest.json"

const topKeywords = 25

// Build assembles the manifest of a finished aggregation. Output sizes
// are read from disk when available.
func Build(input string, settings Settings, res *mapreduce.Result, outputs []string, s *storage.Storage) RunManifest {
	m := RunManifest{
		GeneratedAt:       time.Now().Format(time.RFC3339),
		Input:             input,
		Settings:          settings,
		Articles:          res.Articles,
		Analyzed:          res.Analyzed,
		ExcludedEmpty:     res.Excluded,
		Groups:            res.Groups,
		Months:            res.Stats.Months(),
		Categories:        res.Stats.Categories(),
		UnknownCategories: res.UnknownCategories,
		AggregateKeywords: mapreduce.TopKeywords(res.WordCounts, topKeywords),
	}

	for _, sk := range res.Skipped {
		m.SkippedDates = append(m.SkippedDates, SkippedDate{ArticleID: sk.ArticleID, Value: sk.Value})
	}
	if len(res.DetectedLanguages) > 0 {
		m.Languages = &LanguageReport{
			Detected:   res.LanguageSummary(),
			Mismatches: res.LanguageMismatches,
		}
	}

	for _, path := range outputs {
		out := OutputFile{Path: path}
		if stats, err := s.GetFileStats(path); err == nil {
			out.SizeBytes = stats.SizeBytes
		}
		m.Outputs = append(m.Outputs, out)
	}
	return m
}

// Write saves the manifest into dir and returns its path.
func Write(dir string, m RunManifest, s *storage.Storage) (string, error) {
	path := filepath.Join(dir, FileName)
	if err := s.SaveJSON(path, m); err != nil {
		return "", fmt.Errorf("error saving manifest: %w", err)
	}
	return path, nil
}
