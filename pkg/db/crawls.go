package db

import (
	"database/sql"
	"fmt"
	"time"
)

// Crawl is one recorded crawl run.
type Crawl struct {
	CrawlID    int64
	CreatedAt  time.Time
	BaseURL    string
	PerPage    int
	MaxPages   int
	PageCount  int
	PostCount  int
	StopReason string
}

// CrawlPage is one page request within a crawl.
type CrawlPage struct {
	Page       int
	URL        string
	StatusCode int
	PostCount  int
	FromCache  bool
	Success    bool
}

// CreateCrawl records the start of a crawl and returns its id.
func (db *DB) CreateCrawl(baseURL string, perPage, maxPages int) (int64, error) {
	result, err := db.Exec(`
		INSERT INTO crawls (base_url, per_page, max_pages)
		VALUES (?, ?, ?)
	`, baseURL, perPage, maxPages)
	if err != nil {
		return 0, fmt.Errorf("failed to create crawl: %w", err)
	}

	crawlID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get crawl ID: %w", err)
	}
	return crawlID, nil
}

// RecordPage stores the outcome of one page request.
func (db *DB) RecordPage(crawlID int64, p CrawlPage) error {
	_, err := db.Exec(`
		INSERT INTO crawl_pages (crawl_id, page, url, status_code, post_count, from_cache, success)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(crawl_id, page) DO UPDATE SET
			status_code = excluded.status_code,
			post_count = excluded.post_count,
			from_cache = excluded.from_cache,
			success = excluded.success
	`, crawlID, p.Page, p.URL, p.StatusCode, p.PostCount, p.FromCache, p.Success)
	if err != nil {
		return fmt.Errorf("failed to record page %d: %w", p.Page, err)
	}
	return nil
}

// FinishCrawl stores the final counts of a crawl.
func (db *DB) FinishCrawl(crawlID int64, pageCount, postCount int, stopReason string) error {
	_, err := db.Exec(`
		UPDATE crawls
		SET page_count = ?, post_count = ?, stop_reason = ?
		WHERE crawl_id = ?
	`, pageCount, postCount, stopReason, crawlID)
	if err != nil {
		return fmt.Errorf("failed to finish crawl: %w", err)
	}
	return nil
}

// GetCrawlByID retrieves a crawl by its ID
func (db *DB) GetCrawlByID(crawlID int64) (*Crawl, error) {
	var c Crawl
	var stopReason sql.NullString
	err := db.QueryRow(`
		SELECT crawl_id, created_at, base_url, per_page, max_pages, page_count, post_count, stop_reason
		FROM crawls
		WHERE crawl_id = ?
	`, crawlID).Scan(
		&c.CrawlID,
		&c.CreatedAt,
		&c.BaseURL,
		&c.PerPage,
		&c.MaxPages,
		&c.PageCount,
		&c.PostCount,
		&stopReason,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("crawl %d not found", crawlID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get crawl: %w", err)
	}
	c.StopReason = stopReason.String
	return &c, nil
}

// GetCrawlPages lists the page requests of a crawl in page order.
func (db *DB) GetCrawlPages(crawlID int64) ([]CrawlPage, error) {
	rows, err := db.Query(`
		SELECT page, url, status_code, post_count, from_cache, success
		FROM crawl_pages
		WHERE crawl_id = ?
		ORDER BY page
	`, crawlID)
	if err != nil {
		return nil, fmt.Errorf("failed to get crawl pages: %w", err)
	}
	defer rows.Close()

	var pages []CrawlPage
	for rows.Next() {
		var p CrawlPage
		if err := rows.Scan(&p.Page, &p.URL, &p.StatusCode, &p.PostCount, &p.FromCache, &p.Success); err != nil {
			return nil, fmt.Errorf("failed to scan crawl page: %w", err)
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// ListCrawls returns the most recent crawls, newest first. limit <= 0
// returns all.
func (db *DB) ListCrawls(limit int) ([]Crawl, error) {
	query := `
		SELECT crawl_id, created_at, base_url, per_page, max_pages, page_count, post_count, stop_reason
		FROM crawls
		ORDER BY crawl_id DESC
	`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list crawls: %w", err)
	}
	defer rows.Close()

	var crawls []Crawl
	for rows.Next() {
		var c Crawl
		var stopReason sql.NullString
		if err := rows.Scan(&c.CrawlID, &c.CreatedAt, &c.BaseURL, &c.PerPage, &c.MaxPages,
			&c.PageCount, &c.PostCount, &stopReason); err != nil {
			return nil, fmt.Errorf("failed to scan crawl: %w", err)
		}
		c.StopReason = stopReason.String
		crawls = append(crawls, c)
	}
	return crawls, rows.Err()
}
