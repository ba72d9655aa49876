package db

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- Posts: one row per WordPress post, raw JSON kept verbatim
CREATE TABLE IF NOT EXISTS posts (
    post_id INTEGER PRIMARY KEY,
    published TEXT,
    published_gmt TEXT,
    raw TEXT NOT NULL,
    fetched_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    crawl_id INTEGER,
    FOREIGN KEY (crawl_id) REFERENCES crawls(crawl_id) ON DELETE SET NULL
);

CREATE INDEX IF NOT EXISTS idx_posts_published ON posts(published);

-- Categories: resolved id -> name, fallbacks are never stored
CREATE TABLE IF NOT EXISTS categories (
    category_id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- Crawls: one row per crawl invocation
CREATE TABLE IF NOT EXISTS crawls (
    crawl_id INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    base_url TEXT NOT NULL,
    per_page INTEGER NOT NULL,
    max_pages INTEGER NOT NULL,
    page_count INTEGER DEFAULT 0,
    post_count INTEGER DEFAULT 0,
    stop_reason TEXT
);

CREATE INDEX IF NOT EXISTS idx_crawls_created ON crawls(created_at DESC);

-- Crawl pages: every page request within a crawl
CREATE TABLE IF NOT EXISTS crawl_pages (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    crawl_id INTEGER NOT NULL,
    page INTEGER NOT NULL,
    url TEXT NOT NULL,
    status_code INTEGER,
    post_count INTEGER DEFAULT 0,
    from_cache BOOLEAN DEFAULT 0,
    success BOOLEAN NOT NULL,
    accessed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (crawl_id) REFERENCES crawls(crawl_id) ON DELETE CASCADE,
    UNIQUE(crawl_id, page)
);

CREATE INDEX IF NOT EXISTS idx_crawl_pages_crawl ON crawl_pages(crawl_id);
`
