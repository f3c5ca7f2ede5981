package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/justestif/go-spotify-lyric-mood/internal/lyrics"
)

// execer is satisfied by both *pgxpool.Pool and pgx.Tx.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// TrackRepository handles track database operations.
type TrackRepository struct {
	pool *pgxpool.Pool
}

// upsertTracks inserts or updates tracks in one statement.
func upsertTracks(ctx context.Context, ex execer, tracks []lyrics.Track) error {
	if len(tracks) == 0 {
		return nil
	}

	// unnest cannot expand a text[][] per row, so artists are stored joined
	// and split back in SQL.
	query := `
		INSERT INTO tracks (id, name, artist, artists, album, duration_ms)
		SELECT id, name, artist, string_to_array(artists, E'\x1f'), NULLIF(album, ''), NULLIF(duration_ms, 0)
		FROM unnest($1::text[], $2::text[], $3::text[], $4::text[], $5::text[], $6::int[])
			AS t(id, name, artist, artists, album, duration_ms)
		WHERE id <> ''
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			artist = EXCLUDED.artist,
			artists = EXCLUDED.artists,
			album = EXCLUDED.album,
			duration_ms = EXCLUDED.duration_ms
	`

	ids := make([]string, len(tracks))
	names := make([]string, len(tracks))
	artists := make([]string, len(tracks))
	allArtists := make([]string, len(tracks))
	albums := make([]string, len(tracks))
	durations := make([]int32, len(tracks))

	for i, t := range tracks {
		ids[i] = t.ID
		names[i] = t.Name
		artists[i] = t.Artist
		allArtists[i] = joinArtists(t.Artists)
		albums[i] = t.Album
		durations[i] = int32(t.DurationMs)
	}

	_, err := ex.Exec(ctx, query, ids, names, artists, allArtists, albums, durations)
	if err != nil {
		return fmt.Errorf("batch upserting tracks: %w", err)
	}
	return nil
}

func joinArtists(names []string) string {
	return strings.Join(names, "\x1f")
}

// Get retrieves a track by ID.
func (r *TrackRepository) Get(ctx context.Context, id string) (*Track, error) {
	query := `
		SELECT id, name, artist, artists, album, duration_ms, created_at
		FROM tracks
		WHERE id = $1
	`
	var track Track
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&track.ID,
		&track.Name,
		&track.Artist,
		&track.Artists,
		&track.Album,
		&track.DurationMs,
		&track.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying track: %w", err)
	}
	return &track, nil
}
