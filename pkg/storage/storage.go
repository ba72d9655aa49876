// Package storage reads post exports and writes JSON artifacts.
package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dtnitsch/wp-stylometry/models"
)

// ErrMalformedInput is returned when an export is not a JSON array of posts.
var ErrMalformedInput = errors.New("malformed input file")

type Storage struct{}

// FileStats holds metadata about a file without reading its contents.
type FileStats struct {
	SizeBytes int64
	ModTime   time.Time
}

func (s *Storage) SaveFile(filePath string, content []byte) error {
	if err := os.WriteFile(filePath, content, 0644); err != nil {
		return fmt.Errorf("error saving file: %w", err)
	}
	return nil
}

func (s *Storage) ReadFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return data, nil
}

// GetFileStats returns metadata about a file using os.Stat.
func (s *Storage) GetFileStats(filePath string) (*FileStats, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("error getting file stats: %w", err)
	}

	return &FileStats{
		SizeBytes: info.Size(),
		ModTime:   info.ModTime(),
	}, nil
}

// LoadPosts reads a JSON array of posts, keeping each raw record.
func (s *Storage) LoadPosts(filePath string) ([]models.Post, error) {
	data, err := s.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return DecodePosts(data)
}

// DecodePosts parses a JSON array of posts. Any element that does not
// decode as a post fails the whole input.
func DecodePosts(data []byte) ([]models.Post, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	posts := make([]models.Post, 0, len(raws))
	for i, raw := range raws {
		var a models.Article
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrMalformedInput, i, err)
		}
		posts = append(posts, models.Post{Article: a, Raw: raw})
	}
	return posts, nil
}

// LoadArticles reads a JSON array of posts, decoding only the fields the
// analysis needs.
func (s *Storage) LoadArticles(filePath string) ([]models.Article, error) {
	posts, err := s.LoadPosts(filePath)
	if err != nil {
		return nil, err
	}
	articles := make([]models.Article, len(posts))
	for i, p := range posts {
		articles[i] = p.Article
	}
	return articles, nil
}

// SaveJSON writes v as four-space indented JSON.
func (s *Storage) SaveJSON(filePath string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode %s: %w", filePath, err)
	}
	return s.SaveFile(filePath, buf.Bytes())
}

// SavePosts writes the raw records back out as one JSON array.
func (s *Storage) SavePosts(filePath string, raws []json.RawMessage) error {
	if raws == nil {
		raws = []json.RawMessage{}
	}
	return s.SaveJSON(filePath, raws)
}
