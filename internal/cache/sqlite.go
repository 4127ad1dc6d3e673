package cache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"askweb/internal/logger"
)

// PageCache stores processed page text in SQLite, keyed by URL.
// Entries older than the TTL are treated as misses and removed lazily.
type PageCache struct {
	db  *sql.DB
	ttl time.Duration
}

// NewPageCache opens (or creates) the cache database.
func NewPageCache(dbPath string, ttl time.Duration) (*PageCache, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	if ttl <= 0 {
		ttl = time.Hour
	}

	cache := &PageCache{db: db, ttl: ttl}

	if err := cache.initTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize cache tables: %w", err)
	}

	return cache, nil
}

// initTables initializes database tables
func (c *PageCache) initTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS pages (
			url TEXT PRIMARY KEY,
			text TEXT NOT NULL,
			fetched_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_pages_fetched_at ON pages(fetched_at)`,
	}

	for _, query := range queries {
		if _, err := c.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute SQL: %s, error: %w", query, err)
		}
	}

	return nil
}

// Get returns the cached text for a URL when present and fresh.
func (c *PageCache) Get(url string) (string, bool) {
	var text string
	var fetchedAt time.Time

	err := c.db.QueryRow(
		"SELECT text, fetched_at FROM pages WHERE url = ?",
		url,
	).Scan(&text, &fetchedAt)
	if err == sql.ErrNoRows {
		return "", false
	}
	if err != nil {
		logger.Warn("page cache read failed for %s: %v", url, err)
		return "", false
	}

	if time.Since(fetchedAt) > c.ttl {
		if _, err := c.db.Exec("DELETE FROM pages WHERE url = ?", url); err != nil {
			logger.Warn("page cache eviction failed for %s: %v", url, err)
		}
		return "", false
	}

	return text, true
}

// Put stores the processed text for a URL, replacing any previous entry.
func (c *PageCache) Put(url, text string) {
	_, err := c.db.Exec(
		"INSERT OR REPLACE INTO pages (url, text, fetched_at) VALUES (?, ?, ?)",
		url, text, time.Now(),
	)
	if err != nil {
		logger.Warn("page cache write failed for %s: %v", url, err)
	}
}

// Prune removes all expired entries.
func (c *PageCache) Prune() error {
	_, err := c.db.Exec(
		"DELETE FROM pages WHERE fetched_at < ?",
		time.Now().Add(-c.ttl),
	)
	if err != nil {
		return fmt.Errorf("failed to prune page cache: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (c *PageCache) Close() error {
	return c.db.Close()
}
