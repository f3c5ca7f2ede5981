package lyrics

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

const (
	// CacheTTL is the duration after which cached lyrics are considered stale.
	CacheTTL = 30 * 24 * time.Hour // 30 days

	// MissTTL is how long a cached miss suppresses new lookups.
	MissTTL = 7 * 24 * time.Hour
)

// Entry is a cached lookup result. Found is false for a cached miss.
type Entry struct {
	Artist    string
	Title     string
	Text      string
	Source    string
	Found     bool
	FetchedAt time.Time
}

// Store persists lookup results.
// Get returns ok=false when nothing is stored for the key.
type Store interface {
	Get(ctx context.Context, artist, title string) (entry Entry, ok bool, err error)
	Put(ctx context.Context, entry Entry) error
}

// CacheKey normalizes an artist/title pair for storage.
func CacheKey(artist, title string) (string, string) {
	return strings.ToLower(strings.TrimSpace(artist)), strings.ToLower(strings.TrimSpace(title))
}

// CachedFetcher wraps a Fetcher with a Store.
// Both hits and misses are cached; stale entries are refetched lazily.
type CachedFetcher struct {
	store   Store
	fetcher Fetcher
	ttl     time.Duration
	missTTL time.Duration
	now     func() time.Time
	logger  *log.Logger
}

// CacheOption configures a CachedFetcher.
type CacheOption func(*CachedFetcher)

// WithTTL overrides the TTL for cached hits.
func WithTTL(d time.Duration) CacheOption {
	return func(c *CachedFetcher) {
		if d > 0 {
			c.ttl = d
		}
	}
}

// WithMissTTL overrides the TTL for cached misses.
func WithMissTTL(d time.Duration) CacheOption {
	return func(c *CachedFetcher) {
		if d > 0 {
			c.missTTL = d
		}
	}
}

// WithCacheLogger sets the logger used for store errors.
func WithCacheLogger(l *log.Logger) CacheOption {
	return func(c *CachedFetcher) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewCachedFetcher creates a CachedFetcher.
func NewCachedFetcher(store Store, fetcher Fetcher, opts ...CacheOption) *CachedFetcher {
	c := &CachedFetcher{
		store:   store,
		fetcher: fetcher,
		ttl:     CacheTTL,
		missTTL: MissTTL,
		now:     time.Now,
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch implements Fetcher.
// Store failures are logged and never fail the lookup.
func (c *CachedFetcher) Fetch(ctx context.Context, artist, title string) (string, error) {
	entry, ok, err := c.store.Get(ctx, artist, title)
	if err != nil {
		c.logger.Warn("reading lyrics cache", "artist", artist, "title", title, "err", err)
	}
	if ok && c.fresh(entry) {
		if !entry.Found {
			return "", ErrNotFound
		}
		return entry.Text, nil
	}

	text, source, err := c.fetch(ctx, artist, title)
	if err != nil && !errors.Is(err, ErrNotFound) {
		// Transient failures are not cached.
		return "", err
	}

	found := err == nil
	putErr := c.store.Put(ctx, Entry{
		Artist:    artist,
		Title:     title,
		Text:      text,
		Source:    source,
		Found:     found,
		FetchedAt: c.now(),
	})
	if putErr != nil {
		c.logger.Warn("writing lyrics cache", "artist", artist, "title", title, "err", putErr)
	}

	if !found {
		return "", ErrNotFound
	}
	return text, nil
}

func (c *CachedFetcher) fetch(ctx context.Context, artist, title string) (string, string, error) {
	type sourced interface {
		FetchWithSource(ctx context.Context, artist, title string) (string, string, error)
	}
	switch f := c.fetcher.(type) {
	case sourced:
		return f.FetchWithSource(ctx, artist, title)
	case NamedFetcher:
		text, err := f.Fetch(ctx, artist, title)
		return text, f.Name(), err
	default:
		text, err := f.Fetch(ctx, artist, title)
		return text, "", err
	}
}

func (c *CachedFetcher) fresh(e Entry) bool {
	ttl := c.ttl
	if !e.Found {
		ttl = c.missTTL
	}
	return c.now().Sub(e.FetchedAt) < ttl
}
