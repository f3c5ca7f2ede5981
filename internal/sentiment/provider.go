package sentiment

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/justestif/go-spotify-lyric-mood/internal/lyrics"
)

// Provider scores a piece of lyric text.
// Providers are constructed once and are safe for concurrent use.
type Provider interface {
	Kind() Kind
	Score(text string) (Record, error)
}

// Score runs p over l. It returns ok=false when l is Missing, when the
// provider fails, or when it panics. One bad song never affects another.
func Score(p Provider, l lyrics.Lyrics) (rec Record, ok bool) {
	text, found := l.Text()
	if !found {
		return nil, false
	}
	rec, err := safeScore(p, text)
	if err != nil {
		return nil, false
	}
	return rec, true
}

func safeScore(p Provider, text string) (rec Record, err error) {
	defer func() {
		if r := recover(); r != nil {
			rec, err = nil, fmt.Errorf("provider panic: %v", r)
		}
	}()
	rec, err = p.Score(text)
	if err == nil && (rec == nil || rec.Kind() != p.Kind()) {
		err = fmt.Errorf("%w: %s provider", ErrKindMismatch, p.Kind())
	}
	return rec, err
}

type scoreOptions struct {
	concurrency int
	logger      *log.Logger
}

// ScoreOption configures ScoreAll.
type ScoreOption func(*scoreOptions)

// WithConcurrency scores up to n songs in parallel. Output order is unaffected.
func WithConcurrency(n int) ScoreOption {
	return func(o *scoreOptions) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithLogger sets the logger used to report skipped songs.
func WithLogger(l *log.Logger) ScoreOption {
	return func(o *scoreOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// ScoreAll scores every entry of m with p. Missing entries and songs whose
// scoring fails are left out of the result. Entries keep the order of m.
// The only error returned is ctx's.
func ScoreAll(ctx context.Context, p Provider, m *lyrics.Map, opts ...ScoreOption) (*ScoreMap, error) {
	o := scoreOptions{concurrency: 1, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(&o)
	}

	names := m.Names()
	results := make([]Record, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)
	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			l, _ := m.Get(name)
			if l.IsMissing() {
				return nil
			}
			text, _ := l.Text()
			rec, err := safeScore(p, text)
			if err != nil {
				o.logger.Warn("skipping song", "song", name, "provider", p.Kind(), "err", err)
				return nil
			}
			results[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := NewScoreMap(p.Kind())
	for i, name := range names {
		if results[i] == nil {
			continue
		}
		if err := out.Set(name, results[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}
