package lyrics

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// DefaultConcurrency is the default number of concurrent lookups.
const DefaultConcurrency = 5

// Fetcher looks up lyrics for a single song.
// Implementations return ErrNotFound (possibly wrapped) when nothing matches.
type Fetcher interface {
	Fetch(ctx context.Context, artist, title string) (string, error)
}

// Source builds a lyrics map for a list of tracks.
type Source interface {
	FetchLyrics(ctx context.Context, tracks []Track) (*Map, error)
}

// Service implements Source over a Fetcher using a worker pool.
type Service struct {
	fetcher     Fetcher
	concurrency int
	logger      *log.Logger
	progress    func(done, total int)
}

// Option configures a Service.
type Option func(*Service)

// WithConcurrency sets the number of concurrent lyric lookups.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithLogger sets the logger used to report failed lookups.
func WithLogger(l *log.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithProgress registers a callback invoked after each lookup completes.
func WithProgress(fn func(done, total int)) Option {
	return func(s *Service) {
		s.progress = fn
	}
}

// NewService creates a new lyrics service.
func NewService(fetcher Fetcher, opts ...Option) *Service {
	s := &Service{
		fetcher:     fetcher,
		concurrency: DefaultConcurrency,
		logger:      log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchLyrics looks up lyrics for every track concurrently.
// Every track gets an entry in the returned map, in input order. Misses and
// lookup errors are recorded as Missing rather than failing the batch.
// If ctx is cancelled the partial map is returned with ctx.Err().
func (s *Service) FetchLyrics(ctx context.Context, tracks []Track) (*Map, error) {
	results := make([]Lyrics, len(tracks))
	if len(tracks) == 0 {
		return NewMap(), nil
	}

	type workItem struct {
		index int
		track Track
	}
	workCh := make(chan workItem, len(tracks))
	for i, t := range tracks {
		workCh <- workItem{index: i, track: t}
	}
	close(workCh)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		done int
	)
	for i := 0; i < s.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for work := range workCh {
				if ctx.Err() != nil {
					results[work.index] = Missing
					continue
				}

				results[work.index] = s.fetchOne(ctx, work.track)

				if s.progress != nil {
					mu.Lock()
					done++
					s.progress(done, len(tracks))
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	m := NewMap()
	for i, t := range tracks {
		m.Set(t.Name, results[i])
	}

	if ctx.Err() != nil {
		return m, ctx.Err()
	}
	return m, nil
}

func (s *Service) fetchOne(ctx context.Context, t Track) Lyrics {
	text, err := s.fetcher.Fetch(ctx, t.Artist, SearchTitle(t.Name))
	switch {
	case err == nil:
		return Found(text)
	case errors.Is(err, ErrNotFound):
		s.logger.Debug("no lyrics", "track", t.Name, "artist", t.Artist)
	default:
		s.logger.Warn("lyrics lookup failed", "track", t.Name, "artist", t.Artist, "err", err)
	}
	return Missing
}
