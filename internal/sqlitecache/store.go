// Package sqlitecache is a lyrics.Store backed by a local SQLite file, used
// when no PostgreSQL database is configured.
package sqlitecache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/justestif/go-spotify-lyric-mood/internal/lyrics"
)

const schema = `
CREATE TABLE IF NOT EXISTS lyrics (
	artist     TEXT    NOT NULL,
	title      TEXT    NOT NULL,
	lyrics     TEXT    NOT NULL DEFAULT '',
	source     TEXT    NOT NULL DEFAULT '',
	found      INTEGER NOT NULL DEFAULT 0,
	fetched_at INTEGER NOT NULL,
	PRIMARY KEY (artist, title)
)`

// Store caches lyric lookups in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the cache database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal=WAL&_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening sqlite cache: %w", err)
	}
	// A single writer avoids SQLITE_BUSY under the lyric worker pool.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating lyrics table: %w", err)
	}
	return &Store{db: db}, nil
}

// DefaultPath returns <user cache dir>/lyric-mood/lyrics.db.
func DefaultPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("getting user cache dir: %w", err)
	}
	return filepath.Join(dir, "lyric-mood", "lyrics.db"), nil
}

// Get implements lyrics.Store.
func (s *Store) Get(ctx context.Context, artist, title string) (lyrics.Entry, bool, error) {
	a, t := lyrics.CacheKey(artist, title)

	var (
		e       = lyrics.Entry{Artist: a, Title: t}
		found   int
		fetched int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT lyrics, source, found, fetched_at FROM lyrics WHERE artist = ? AND title = ?`,
		a, t,
	).Scan(&e.Text, &e.Source, &found, &fetched)
	if errors.Is(err, sql.ErrNoRows) {
		return lyrics.Entry{}, false, nil
	}
	if err != nil {
		return lyrics.Entry{}, false, fmt.Errorf("reading cached lyrics: %w", err)
	}

	e.Found = found == 1
	e.FetchedAt = time.Unix(fetched, 0)
	return e, true, nil
}

// Put implements lyrics.Store.
func (s *Store) Put(ctx context.Context, e lyrics.Entry) error {
	a, t := lyrics.CacheKey(e.Artist, e.Title)
	found := 0
	if e.Found {
		found = 1
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO lyrics (artist, title, lyrics, source, found, fetched_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		a, t, e.Text, e.Source, found, e.FetchedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("writing cached lyrics: %w", err)
	}
	return nil
}

// Stats returns the number of cached lookups and how many of them were hits.
func (s *Store) Stats(ctx context.Context) (total, found int, err error) {
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(found), 0) FROM lyrics`,
	).Scan(&total, &found)
	if err != nil {
		return 0, 0, fmt.Errorf("counting cached lyrics: %w", err)
	}
	return total, found, nil
}

// Purge deletes entries fetched before cutoff and returns how many were removed.
func (s *Store) Purge(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM lyrics WHERE fetched_at < ?`, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("purging cached lyrics: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
