// Package pipeline ranks a playlist's songs by the mood of their lyrics.
//
// A run loads the playlist, retrieves lyrics for every track, optionally
// cleans them, scores them with one sentiment provider and ranks the scored
// songs against a mood. Runs are persisted when a RunStore is configured.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/justestif/go-spotify-lyric-mood/internal/db"
	"github.com/justestif/go-spotify-lyric-mood/internal/lyrics"
	"github.com/justestif/go-spotify-lyric-mood/internal/ranking"
	"github.com/justestif/go-spotify-lyric-mood/internal/sentiment"
)

// ErrNoRunStore is returned by GetRun when run history is not configured.
var ErrNoRunStore = errors.New("run history not configured")

// PlaylistSource lists the tracks of a playlist.
type PlaylistSource interface {
	PlaylistTracks(ctx context.Context, playlistID string) ([]lyrics.Track, error)
	PlaylistName(ctx context.Context, playlistID string) (string, error)
}

// RunStore persists ranking runs.
type RunStore interface {
	Create(ctx context.Context, run *db.Run, tracks []lyrics.Track) error
	Get(ctx context.Context, id uuid.UUID) (*db.Run, error)
	ListForPlaylist(ctx context.Context, playlistID string, limit int) ([]db.Run, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service runs the ranking pipeline.
type Service struct {
	playlists   PlaylistSource
	lyrics      lyrics.Source
	registry    *sentiment.Registry
	cleaner     *lyrics.Cleaner
	runs        RunStore
	logger      *log.Logger
	concurrency int
}

// Option configures a Service.
type Option func(*Service)

// WithRunStore enables run persistence.
func WithRunStore(rs RunStore) Option {
	return func(s *Service) {
		s.runs = rs
	}
}

// WithCleaner sets the cleaner used for requests with Clean set.
func WithCleaner(c *lyrics.Cleaner) Option {
	return func(s *Service) {
		s.cleaner = c
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithScoringConcurrency sets how many songs are scored at once.
func WithScoringConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// New creates a pipeline service.
func New(playlists PlaylistSource, source lyrics.Source, registry *sentiment.Registry, opts ...Option) *Service {
	s := &Service{
		playlists:   playlists,
		lyrics:      source,
		registry:    registry,
		cleaner:     lyrics.DefaultCleaner(),
		logger:      log.New(io.Discard),
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Request describes one ranking run.
type Request struct {
	PlaylistID string
	Provider   sentiment.Kind
	Mood       ranking.Mood
	Limit      int
	Clean      bool
	Threshold  bool // legacy threshold mode; only positive and negative apply
}

// Result is the outcome of a ranking run.
type Result struct {
	RunID        uuid.UUID       `json:"run_id"` // uuid.Nil when not persisted
	PlaylistID   string          `json:"playlist_id"`
	PlaylistName string          `json:"playlist_name"`
	Provider     sentiment.Kind  `json:"provider"`
	Mood         ranking.Mood    `json:"mood"`
	Threshold    bool            `json:"threshold"`
	Ranked       []ranking.Keyed `json:"ranked"`
	TrackIDs     []string        `json:"track_ids"` // parallel to Ranked
	Missing      []string        `json:"missing"`
	Unscorable   []string        `json:"unscorable,omitempty"` // lyrics cleaned down to nothing
	Total        int             `json:"total"`
	Scored       int             `json:"scored"`
}

// Songs returns the ranked song names.
func (r *Result) Songs() []string {
	out := make([]string, len(r.Ranked))
	for i, k := range r.Ranked {
		out[i] = k.Song
	}
	return out
}

// scored is a playlist carried through retrieval and scoring.
type scored struct {
	name    string
	tracks  []lyrics.Track
	lyrics  *lyrics.Map
	empty   []string
	scores  *sentiment.ScoreMap
	trackID map[string]string
}

// Run executes a ranking request. Moods are checked against the provider
// before any lyrics are fetched. An empty ranking is a success.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	if req.Threshold && req.Mood.IsEmotion() {
		return nil, fmt.Errorf("%w: %s has no threshold mode", ranking.ErrUnrecognizedMood, req.Mood)
	}
	if req.Mood.IsEmotion() && req.Provider != sentiment.KindEmotion {
		return nil, fmt.Errorf("%w: %s with %s provider", ranking.ErrIncompatibleMood, req.Mood, req.Provider)
	}

	sc, err := s.score(ctx, req.PlaylistID, req.Provider, req.Clean)
	if err != nil {
		return nil, err
	}

	var ranked []ranking.Keyed
	if req.Threshold {
		var ok bool
		ranked, ok = ranking.SuggestKeyed(sc.scores, req.Mood.String(), req.Limit)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ranking.ErrUnrecognizedMood, req.Mood)
		}
	} else {
		ranked, err = ranking.RankKeyed(sc.scores, req.Mood, req.Limit)
		if err != nil {
			return nil, fmt.Errorf("ranking songs: %w", err)
		}
	}

	res := &Result{
		PlaylistID:   req.PlaylistID,
		PlaylistName: sc.name,
		Provider:     req.Provider,
		Mood:         req.Mood,
		Threshold:    req.Threshold,
		Ranked:       ranked,
		TrackIDs:     make([]string, len(ranked)),
		Missing:      sc.lyrics.MissingNames(),
		Unscorable:   sc.empty,
		Total:        len(sc.tracks),
		Scored:       sc.scores.Len(),
	}
	for i, k := range ranked {
		res.TrackIDs[i] = sc.trackID[k.Song]
	}

	s.logger.Info("Ranked playlist",
		"playlist", sc.name,
		"mood", req.Mood,
		"provider", req.Provider,
		"scored", res.Scored,
		"missing", len(res.Missing),
	)

	if s.runs != nil {
		run := toDBRun(req, res)
		if err := s.runs.Create(ctx, &run, sc.tracks); err != nil {
			return nil, fmt.Errorf("saving run: %w", err)
		}
		res.RunID = run.ID
	}

	return res, nil
}

// GetRun retrieves a persisted run with its entries.
func (s *Service) GetRun(ctx context.Context, id uuid.UUID) (*db.Run, error) {
	if s.runs == nil {
		return nil, ErrNoRunStore
	}
	run, err := s.runs.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting run: %w", err)
	}
	return run, nil
}

// ListRuns returns the latest runs of a playlist, newest first, without entries.
func (s *Service) ListRuns(ctx context.Context, playlistID string, limit int) ([]db.Run, error) {
	if s.runs == nil {
		return nil, ErrNoRunStore
	}
	runs, err := s.runs.ListForPlaylist(ctx, playlistID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	if runs == nil {
		runs = []db.Run{}
	}
	return runs, nil
}

// DeleteRun removes a persisted run.
func (s *Service) DeleteRun(ctx context.Context, id uuid.UUID) error {
	if s.runs == nil {
		return ErrNoRunStore
	}
	if err := s.runs.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	return nil
}

// score loads a playlist, fetches its lyrics and scores every song that has them.
func (s *Service) score(ctx context.Context, playlistID string, kind sentiment.Kind, clean bool) (*scored, error) {
	provider, err := s.registry.Get(kind)
	if err != nil {
		return nil, err
	}

	tracks, err := s.playlists.PlaylistTracks(ctx, playlistID)
	if err != nil {
		return nil, fmt.Errorf("loading playlist tracks: %w", err)
	}

	name, err := s.playlists.PlaylistName(ctx, playlistID)
	if err != nil {
		s.logger.Warn("Could not load playlist name", "playlist", playlistID, "err", err)
		name = playlistID
	}

	s.logger.Debug("Fetching lyrics", "playlist", name, "tracks", len(tracks))
	m, err := s.lyrics.FetchLyrics(ctx, tracks)
	if err != nil {
		return nil, fmt.Errorf("fetching lyrics: %w", err)
	}
	toScore := m
	var empty []string
	if clean {
		m = s.cleaner.CleanMap(m)
		toScore, empty = withoutEmpty(m)
	}

	scores, err := sentiment.ScoreAll(ctx, provider, toScore,
		sentiment.WithConcurrency(s.concurrency),
		sentiment.WithLogger(s.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("scoring lyrics: %w", err)
	}

	// Later tracks with the same name overwrite earlier ones, as in the lyrics map.
	trackID := make(map[string]string, len(tracks))
	for _, t := range tracks {
		trackID[t.Name] = t.ID
	}

	return &scored{
		name:    name,
		tracks:  tracks,
		lyrics:  m,
		empty:   empty,
		scores:  scores,
		trackID: trackID,
	}, nil
}

// withoutEmpty marks songs whose cleaned lyrics are empty as Missing so they
// are not scored, and returns their names.
func withoutEmpty(m *lyrics.Map) (*lyrics.Map, []string) {
	out := lyrics.NewMap()
	var empty []string
	m.Each(func(name string, l lyrics.Lyrics) {
		if text, ok := l.Text(); ok && text == "" {
			empty = append(empty, name)
			l = lyrics.Missing
		}
		out.Set(name, l)
	})
	return out, empty
}

// toDBRun converts a result to its persisted form.
func toDBRun(req Request, res *Result) db.Run {
	entries := make([]db.RunEntry, len(res.Ranked))
	for i, k := range res.Ranked {
		entries[i] = db.RunEntry{
			Position: i + 1,
			Song:     k.Song,
			TrackID:  res.TrackIDs[i],
			Score:    k.Key,
		}
	}
	return db.Run{
		PlaylistID:   res.PlaylistID,
		PlaylistName: res.PlaylistName,
		Provider:     req.Provider.String(),
		Mood:         req.Mood.String(),
		Limit:        req.Limit,
		Clean:        req.Clean,
		Threshold:    req.Threshold,
		TrackCount:   res.Total,
		MissingCount: len(res.Missing),
		Entries:      entries,
	}
}
