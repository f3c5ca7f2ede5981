package db

import (
	"context"
	"errors"
	"os"
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/justestif/go-spotify-lyric-mood/internal/lyrics"
)

// testDB connects to TEST_DATABASE_URL, skipping the test when it is unset.
func testDB(t *testing.T) *DB {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	d, err := New(ctx, url)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(d.Close)

	if err := d.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	// Migrate must be repeatable.
	if err := d.Migrate(ctx); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}
	return d
}

func TestLyricsRepository(t *testing.T) {
	d := testDB(t)
	ctx := context.Background()
	repo := d.Lyrics()

	artist := "Test Artist " + uuid.NewString()
	fetched := time.Now().UTC().Truncate(time.Second)

	if _, ok, err := repo.Get(ctx, artist, "Song"); err != nil || ok {
		t.Fatalf("Get() before Put = ok %v, err %v", ok, err)
	}

	if err := repo.Put(ctx, lyrics.Entry{Artist: artist, Title: "Song", Found: false, FetchedAt: fetched}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := repo.Put(ctx, lyrics.Entry{Artist: artist, Title: "Song", Text: "words", Source: "genius", Found: true, FetchedAt: fetched}); err != nil {
		t.Fatalf("Put() overwrite error = %v", err)
	}

	got, ok, err := repo.Get(ctx, " "+artist, "SONG")
	if err != nil || !ok {
		t.Fatalf("Get() = ok %v, err %v", ok, err)
	}
	if !got.Found || got.Text != "words" || got.Source != "genius" {
		t.Errorf("Get() = %+v", got)
	}
	if !got.FetchedAt.Equal(fetched) {
		t.Errorf("FetchedAt = %v, want %v", got.FetchedAt, fetched)
	}

	total, found, err := repo.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if total < 1 || found < 1 || found > total {
		t.Errorf("Stats() = %d total, %d found", total, found)
	}

	removed, err := repo.Purge(ctx, fetched.Add(time.Second))
	if err != nil {
		t.Fatalf("Purge() error = %v", err)
	}
	if removed < 1 {
		t.Errorf("Purge() removed %d, want at least 1", removed)
	}
	if _, ok, _ := repo.Get(ctx, artist, "Song"); ok {
		t.Error("entry still cached after Purge()")
	}
}

func TestRunRepository(t *testing.T) {
	d := testDB(t)
	ctx := context.Background()
	repo := d.Runs()

	tracks := []lyrics.Track{
		{ID: "trk-" + uuid.NewString()[:8], Name: "Happy", Artist: "Pharrell Williams", Artists: []string{"Pharrell Williams"}, DurationMs: 233000},
		{ID: "trk-" + uuid.NewString()[:8], Name: "Hurt", Artist: "Johnny Cash", Artists: []string{"Johnny Cash", "Trent Reznor"}},
	}
	run := &Run{
		PlaylistID:   "pl-" + uuid.NewString()[:8],
		PlaylistName: "Mixed",
		Provider:     "lexicon",
		Mood:         "positive",
		Limit:        2,
		TrackCount:   3,
		MissingCount: 1,
		Entries: []RunEntry{
			{Position: 1, Song: "Happy", TrackID: tracks[0].ID, Score: 0.91},
			{Position: 2, Song: "Hurt", TrackID: tracks[1].ID, Score: -0.62},
		},
	}

	if err := repo.Create(ctx, run, tracks); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if run.ID == uuid.Nil || run.CreatedAt.IsZero() {
		t.Fatalf("Create() did not fill ID/CreatedAt: %+v", run)
	}

	got, err := repo.Get(ctx, run.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.PlaylistName != "Mixed" || got.MissingCount != 1 || len(got.Entries) != 2 {
		t.Errorf("Get() = %+v", got)
	}
	if got.Entries[1].Song != "Hurt" || got.Entries[1].Score != -0.62 {
		t.Errorf("second entry = %+v", got.Entries[1])
	}

	track, err := d.Tracks().Get(ctx, tracks[1].ID)
	if err != nil {
		t.Fatalf("Tracks().Get() error = %v", err)
	}
	if !slices.Equal(track.Artists, []string{"Johnny Cash", "Trent Reznor"}) || track.DurationMs != nil {
		t.Errorf("track = %+v", track)
	}

	runs, err := repo.ListForPlaylist(ctx, run.PlaylistID, 10)
	if err != nil || len(runs) != 1 {
		t.Fatalf("ListForPlaylist() = %v, %v", runs, err)
	}

	if err := repo.Delete(ctx, run.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.Get(ctx, run.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Delete error = %v, want ErrNotFound", err)
	}
	if err := repo.Delete(ctx, run.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestJoinArtists(t *testing.T) {
	if got := joinArtists([]string{"A", "B"}); got != "A\x1fB" {
		t.Errorf("joinArtists() = %q", got)
	}
	if got := joinArtists(nil); got != "" {
		t.Errorf("joinArtists(nil) = %q", got)
	}
}
