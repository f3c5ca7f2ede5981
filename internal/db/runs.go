package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/justestif/go-spotify-lyric-mood/internal/lyrics"
)

// RunRepository handles ranking run database operations.
type RunRepository struct {
	pool *pgxpool.Pool
}

// Create inserts a run with its entries, upserting the tracks it ranked.
// A zero run ID is replaced with a new one.
func (r *RunRepository) Create(ctx context.Context, run *Run, tracks []lyrics.Track) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := upsertTracks(ctx, tx, tracks); err != nil {
		return err
	}

	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	runQuery := `
		INSERT INTO runs (id, playlist_id, playlist_name, provider, mood, result_limit,
			clean, threshold, track_count, missing_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		RETURNING created_at
	`
	err = tx.QueryRow(ctx, runQuery,
		run.ID,
		run.PlaylistID,
		run.PlaylistName,
		run.Provider,
		run.Mood,
		run.Limit,
		run.Clean,
		run.Threshold,
		run.TrackCount,
		run.MissingCount,
	).Scan(&run.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	if len(run.Entries) > 0 {
		positions := make([]int32, len(run.Entries))
		songs := make([]string, len(run.Entries))
		trackIDs := make([]string, len(run.Entries))
		scores := make([]float64, len(run.Entries))
		for i, e := range run.Entries {
			positions[i] = int32(e.Position)
			songs[i] = e.Song
			trackIDs[i] = e.TrackID
			scores[i] = e.Score
		}

		entriesQuery := `
			INSERT INTO run_entries (run_id, position, song, track_id, score)
			SELECT $1, position, song, NULLIF(track_id, ''), score
			FROM unnest($2::int[], $3::text[], $4::text[], $5::float8[]) AS e(position, song, track_id, score)
		`
		if _, err := tx.Exec(ctx, entriesQuery, run.ID, positions, songs, trackIDs, scores); err != nil {
			return fmt.Errorf("inserting run entries: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Get retrieves a run and its entries by ID.
func (r *RunRepository) Get(ctx context.Context, id uuid.UUID) (*Run, error) {
	query := `
		SELECT id, playlist_id, playlist_name, provider, mood, result_limit,
			clean, threshold, track_count, missing_count, created_at
		FROM runs
		WHERE id = $1
	`
	run, err := scanRun(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying run: %w", err)
	}

	entries, err := r.entries(ctx, id)
	if err != nil {
		return nil, err
	}
	run.Entries = entries
	return run, nil
}

// ListForPlaylist returns the most recent runs of a playlist, newest first,
// without their entries.
func (r *RunRepository) ListForPlaylist(ctx context.Context, playlistID string, limit int) ([]Run, error) {
	query := `
		SELECT id, playlist_id, playlist_name, provider, mood, result_limit,
			clean, threshold, track_count, missing_count, created_at
		FROM runs
		WHERE playlist_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, playlistID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying playlist runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// Delete removes a run and its entries.
func (r *RunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM runs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RunRepository) entries(ctx context.Context, runID uuid.UUID) ([]RunEntry, error) {
	query := `
		SELECT position, song, COALESCE(track_id, ''), score
		FROM run_entries
		WHERE run_id = $1
		ORDER BY position
	`
	rows, err := r.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("querying run entries: %w", err)
	}
	defer rows.Close()

	entries := []RunEntry{}
	for rows.Next() {
		var e RunEntry
		if err := rows.Scan(&e.Position, &e.Song, &e.TrackID, &e.Score); err != nil {
			return nil, fmt.Errorf("scanning run entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func scanRun(row pgx.Row) (*Run, error) {
	var run Run
	err := row.Scan(
		&run.ID,
		&run.PlaylistID,
		&run.PlaylistName,
		&run.Provider,
		&run.Mood,
		&run.Limit,
		&run.Clean,
		&run.Threshold,
		&run.TrackCount,
		&run.MissingCount,
		&run.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &run, nil
}
