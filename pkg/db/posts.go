package db

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dtnitsch/wp-stylometry/models"
)

// UpsertPosts stores posts in one transaction, replacing any earlier copy
// of the same post id. crawlID may be 0 for posts imported outside a crawl.
func (db *DB) UpsertPosts(crawlID int64, posts []models.Post) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
		INSERT INTO posts (post_id, published, published_gmt, raw, crawl_id)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(post_id) DO UPDATE SET
			published = excluded.published,
			published_gmt = excluded.published_gmt,
			raw = excluded.raw,
			crawl_id = excluded.crawl_id,
			fetched_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare post insert: %w", err)
	}
	defer stmt.Close()

	var crawl interface{}
	if crawlID > 0 {
		crawl = crawlID
	}

	for _, p := range posts {
		if _, err := stmt.Exec(p.ID, p.Date, p.DateGMT, string(p.Raw), crawl); err != nil {
			return fmt.Errorf("failed to upsert post %d: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit posts: %w", err)
	}
	return nil
}

// CountPosts returns the number of stored posts.
func (db *DB) CountPosts() (int, error) {
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM posts").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return n, nil
}

// ListRawPosts returns every stored post, newest first, as the API
// delivered it.
func (db *DB) ListRawPosts() ([]json.RawMessage, error) {
	rows, err := db.Query(`
		SELECT raw FROM posts
		ORDER BY published DESC, post_id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []json.RawMessage
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, json.RawMessage(raw))
	}
	return posts, rows.Err()
}

// GetRawPost returns one stored post. The bool is false when absent.
func (db *DB) GetRawPost(postID int64) (json.RawMessage, bool, error) {
	var raw string
	err := db.QueryRow("SELECT raw FROM posts WHERE post_id = ?", postID).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get post %d: %w", postID, err)
	}
	return json.RawMessage(raw), true, nil
}
