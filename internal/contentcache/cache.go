// Package contentcache caches fetched file blobs in SQLite keyed by
// (repository, ref, path), so retried or resumed runs do not refetch
// identical content from the hosting service.
package contentcache

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/zeebo/xxh3"
)

const schema = `
CREATE TABLE IF NOT EXISTS blobs (
	repo    TEXT NOT NULL,
	ref     TEXT NOT NULL,
	path    TEXT NOT NULL,
	hash    TEXT NOT NULL,
	content BLOB NOT NULL,
	PRIMARY KEY (repo, ref, path)
);
`

// Cache wraps a SQLite connection storing fetched blobs.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at path.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	c := &Cache{db: db}
	if err := c.init(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

// OpenMemory opens an in-memory cache (for testing).
func OpenMemory() (*Cache, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open memory cache: %w", err)
	}
	c := &Cache{db: db}
	if err := c.init(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *Cache) init() error {
	if _, err := c.db.Exec(schema); err != nil {
		return fmt.Errorf("init cache schema: %w", err)
	}
	return nil
}

// Get returns the cached content for (repo, ref, path), with ok=false on a
// miss.
func (c *Cache) Get(repo, ref, path string) (content []byte, ok bool, err error) {
	row := c.db.QueryRow(`SELECT content FROM blobs WHERE repo = ? AND ref = ? AND path = ?`, repo, ref, path)
	if err := row.Scan(&content); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache get: %w", err)
	}
	return content, true, nil
}

// Put stores content for (repo, ref, path), replacing any previous entry.
func (c *Cache) Put(repo, ref, path string, content []byte) error {
	hash := fmt.Sprintf("%016x", xxh3.Hash(content))
	_, err := c.db.Exec(
		`INSERT OR REPLACE INTO blobs (repo, ref, path, hash, content) VALUES (?, ?, ?, ?, ?)`,
		repo, ref, path, hash, content,
	)
	if err != nil {
		return fmt.Errorf("cache put: %w", err)
	}
	return nil
}

// Len returns the number of cached blobs.
func (c *Cache) Len() (int, error) {
	var n int
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM blobs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("cache len: %w", err)
	}
	return n, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}
