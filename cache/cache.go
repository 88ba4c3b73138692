// Package cache stores generated JavaScript keyed by the content hash of
// the program it was generated from.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/tliron/commonlog"
	_ "modernc.org/sqlite"
)

var log = commonlog.GetLogger("uwu.cache")

// ErrNotFound indicates no artifact is stored under the requested hash.
var ErrNotFound = errors.New("artifact not found")

// MemoryPath opens a cache that lives only as long as the process.
const MemoryPath = ":memory:"

// Cache is a SQLite-backed artifact store. It is safe for concurrent use.
type Cache struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// Open opens (creating if needed) the cache database at path.
func Open(path string) (*Cache, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating cache dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if path == MemoryPath {
		// Each connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	// Set busy timeout for concurrent access
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS artifacts (
		hash BLOB PRIMARY KEY,
		entry BLOB NOT NULL,
		created_at INTEGER NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating table: %w", err)
	}

	log.Debugf("opened cache %s", path)
	return &Cache{db: db, path: path}, nil
}

// Path returns the database path the cache was opened with.
func (c *Cache) Path() string {
	return c.path
}

// Close closes the database connection.
func (c *Cache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Put stores an entry under its hash, replacing any previous entry.
func (c *Cache) Put(ctx context.Context, e *Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	data, err := MarshalEntry(e)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	_, err = c.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO artifacts (hash, entry, created_at) VALUES (?, ?, ?)",
		e.Hash[:], data, e.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("saving artifact: %w", err)
	}
	return nil
}

// Get returns the entry stored under h, or ErrNotFound.
func (c *Cache) Get(ctx context.Context, h [32]byte) (*Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var data []byte
	err := c.db.QueryRowContext(ctx, "SELECT entry FROM artifacts WHERE hash = ?", h[:]).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying artifact: %w", err)
	}
	return UnmarshalEntry(data)
}

// Has reports whether an entry is stored under h.
func (c *Cache) Has(ctx context.Context, h [32]byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	var n int
	err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM artifacts WHERE hash = ?", h[:]).Scan(&n)
	return err == nil && n > 0
}

// Len returns the number of stored entries.
func (c *Cache) Len(ctx context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var n int
	if err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM artifacts").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting artifacts: %w", err)
	}
	return n, nil
}

// Purge deletes entries created before cutoff and returns how many were
// removed. A zero cutoff removes everything.
func (c *Cache) Purge(ctx context.Context, cutoff time.Time) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var res sql.Result
	var err error
	if cutoff.IsZero() {
		res, err = c.db.ExecContext(ctx, "DELETE FROM artifacts")
	} else {
		res, err = c.db.ExecContext(ctx, "DELETE FROM artifacts WHERE created_at < ?", cutoff.Unix())
	}
	if err != nil {
		return 0, fmt.Errorf("purging artifacts: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purging artifacts: %w", err)
	}
	log.Infof("purged %d artifacts from %s", n, c.path)
	return int(n), nil
}
