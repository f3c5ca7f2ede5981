package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/justestif/go-spotify-lyric-mood/internal/lyrics"
)

// LyricsRepository is a lyrics.Store shared by every process using the database.
type LyricsRepository struct {
	pool *pgxpool.Pool
}

var _ lyrics.Store = (*LyricsRepository)(nil)

// Get implements lyrics.Store.
func (r *LyricsRepository) Get(ctx context.Context, artist, title string) (lyrics.Entry, bool, error) {
	a, t := lyrics.CacheKey(artist, title)
	query := `
		SELECT artist, title, lyrics, source, found, fetched_at
		FROM lyrics_cache
		WHERE artist = $1 AND title = $2
	`
	var e lyrics.Entry
	err := r.pool.QueryRow(ctx, query, a, t).Scan(
		&e.Artist,
		&e.Title,
		&e.Text,
		&e.Source,
		&e.Found,
		&e.FetchedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return lyrics.Entry{}, false, nil
	}
	if err != nil {
		return lyrics.Entry{}, false, fmt.Errorf("querying cached lyrics: %w", err)
	}
	return e, true, nil
}

// Put implements lyrics.Store.
func (r *LyricsRepository) Put(ctx context.Context, e lyrics.Entry) error {
	a, t := lyrics.CacheKey(e.Artist, e.Title)
	query := `
		INSERT INTO lyrics_cache (artist, title, lyrics, source, found, fetched_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (artist, title) DO UPDATE SET
			lyrics = EXCLUDED.lyrics,
			source = EXCLUDED.source,
			found = EXCLUDED.found,
			fetched_at = EXCLUDED.fetched_at
	`
	if _, err := r.pool.Exec(ctx, query, a, t, e.Text, e.Source, e.Found, e.FetchedAt); err != nil {
		return fmt.Errorf("upserting cached lyrics: %w", err)
	}
	return nil
}

// Stats returns the number of cached lookups and how many of them were hits.
func (r *LyricsRepository) Stats(ctx context.Context) (total, found int, err error) {
	err = r.pool.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE found) FROM lyrics_cache`,
	).Scan(&total, &found)
	if err != nil {
		return 0, 0, fmt.Errorf("counting cached lyrics: %w", err)
	}
	return total, found, nil
}

// Purge removes entries fetched before cutoff and returns how many were removed.
func (r *LyricsRepository) Purge(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM lyrics_cache WHERE fetched_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("deleting stale lyrics: %w", err)
	}
	return result.RowsAffected(), nil
}
