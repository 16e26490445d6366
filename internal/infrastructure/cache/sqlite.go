package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/macrolens/platescan/internal/domain"
)

const defaultPurgeInterval = 10 * time.Minute

// SQLiteCache persists cache entries in a sqlite file so they survive restarts.
// Expired rows are purged when the file is opened and then periodically.
type SQLiteCache struct {
	db            *sql.DB
	purgeInterval time.Duration
	stop          chan struct{}
	done          chan struct{}
	once          sync.Once
}

var _ domain.CacheRepository = (*SQLiteCache)(nil)

// SQLiteOption configures a SQLiteCache.
type SQLiteOption func(*SQLiteCache)

// WithPurgeInterval sets how often expired rows are deleted.
func WithPurgeInterval(d time.Duration) SQLiteOption {
	return func(c *SQLiteCache) {
		if d > 0 {
			c.purgeInterval = d
		}
	}
}

// NewSQLiteCache opens (or creates) the cache database at path.
func NewSQLiteCache(path string, opts ...SQLiteOption) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	c := &SQLiteCache{
		db:            db,
		purgeInterval: defaultPurgeInterval,
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize cache schema: %w", err)
	}
	if _, err := c.Purge(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	go c.purgeExpired()

	return c, nil
}

func (c *SQLiteCache) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS cache_entries (
        key TEXT PRIMARY KEY,
        value BLOB NOT NULL,
        expires_at INTEGER NOT NULL
    );

    CREATE INDEX IF NOT EXISTS idx_cache_entries_expires_at ON cache_entries(expires_at);
    `

	if _, err := c.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Get retrieves a value that has not expired.
func (c *SQLiteCache) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := c.db.QueryRowContext(ctx,
		`SELECT value FROM cache_entries WHERE key = ? AND expires_at > ?`,
		key, time.Now().UnixNano(),
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache entry: %w", err)
	}
	return value, nil
}

// Set stores value under key until ttl elapses.
func (c *SQLiteCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := c.db.ExecContext(ctx, `
        INSERT INTO cache_entries (key, value, expires_at) VALUES (?, ?, ?)
        ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at
    `, key, value, time.Now().Add(ttl).UnixNano())
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// Delete removes key.
func (c *SQLiteCache) Delete(ctx context.Context, key string) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// Exists reports whether key holds an unexpired value.
func (c *SQLiteCache) Exists(ctx context.Context, key string) (bool, error) {
	_, err := c.Get(ctx, key)
	if errors.Is(err, domain.ErrCacheMiss) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Purge deletes expired entries and returns how many were removed.
func (c *SQLiteCache) Purge(ctx context.Context) (int64, error) {
	res, err := c.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE expires_at <= ?`, time.Now().UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to purge cache: %w", err)
	}
	return res.RowsAffected()
}

func (c *SQLiteCache) purgeExpired() {
	defer close(c.done)
	ticker := time.NewTicker(c.purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			// A failed purge is retried on the next tick
			_, _ = c.Purge(context.Background())
		}
	}
}

// Close stops the purge loop and closes the database. It is safe to call twice.
func (c *SQLiteCache) Close() error {
	var err error
	c.once.Do(func() {
		close(c.stop)
		<-c.done
		err = c.db.Close()
	})
	return err
}
