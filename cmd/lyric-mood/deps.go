package main

import (
	"context"
	"fmt"
	"time"

	"github.com/justestif/go-spotify-lyric-mood/internal/auth"
	"github.com/justestif/go-spotify-lyric-mood/internal/config"
	"github.com/justestif/go-spotify-lyric-mood/internal/db"
	"github.com/justestif/go-spotify-lyric-mood/internal/genius"
	"github.com/justestif/go-spotify-lyric-mood/internal/logging"
	"github.com/justestif/go-spotify-lyric-mood/internal/lrclib"
	"github.com/justestif/go-spotify-lyric-mood/internal/lyrics"
	"github.com/justestif/go-spotify-lyric-mood/internal/pipeline"
	"github.com/justestif/go-spotify-lyric-mood/internal/sentiment"
	"github.com/justestif/go-spotify-lyric-mood/internal/spotify"
	"github.com/justestif/go-spotify-lyric-mood/internal/sqlitecache"
)

// cacheAdmin is implemented by both lyric stores.
type cacheAdmin interface {
	lyrics.Store
	Stats(ctx context.Context) (total, found int, err error)
	Purge(ctx context.Context, cutoff time.Time) (int64, error)
}

var (
	_ cacheAdmin = (*db.LyricsRepository)(nil)
	_ cacheAdmin = (*sqlitecache.Store)(nil)
)

func (r *Runner) credentials() auth.Credentials {
	return auth.Credentials{
		ClientID:     r.cfg.Spotify.ClientID,
		ClientSecret: r.cfg.Spotify.ClientSecret,
		RedirectURI:  r.cfg.Spotify.RedirectURI,
	}
}

// spotifyClient returns a user client when needUser is set or a user token is
// cached, and an app-only client otherwise.
func (r *Runner) spotifyClient(ctx context.Context, needUser bool) (*spotify.Client, error) {
	authenticator, err := auth.New(r.credentials(),
		auth.WithLogger(r.logger),
		auth.WithOutput(r.errOut),
	)
	if err != nil {
		return nil, err
	}

	if needUser || authenticator.HasToken() {
		api, err := authenticator.Authenticate(ctx)
		if err != nil {
			return nil, fmt.Errorf("authenticating with Spotify: %w", err)
		}
		return spotify.New(api), nil
	}

	r.logger.Debug("No user token cached, using app credentials")
	api, err := auth.AppClient(ctx, r.credentials())
	if err != nil {
		return nil, err
	}
	return spotify.New(api), nil
}

// openStore opens the lyric store: PostgreSQL when a database URL is
// configured, the SQLite cache otherwise. runs is nil without PostgreSQL.
func (r *Runner) openStore(ctx context.Context) (store cacheAdmin, runs pipeline.RunStore, closeFn func(), err error) {
	if url := r.cfg.Database.URL; url != "" {
		database, err := db.New(ctx, url)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := database.Migrate(ctx); err != nil {
			database.Close()
			return nil, nil, nil, err
		}
		return database.Lyrics(), database.Runs(), database.Close, nil
	}

	path := r.cfg.Database.SQLitePath
	if path == "" {
		if path, err = sqlitecache.DefaultPath(); err != nil {
			return nil, nil, nil, err
		}
	}
	cache, err := sqlitecache.Open(path)
	if err != nil {
		return nil, nil, nil, err
	}
	r.logger.Debug("Using lyrics cache", "path", path)
	return cache, nil, func() {
		if err := cache.Close(); err != nil {
			r.logger.Warn("Closing lyrics cache", "err", err)
		}
	}, nil
}

// lyricsFetcher builds the provider chain in configured order.
func (r *Runner) lyricsFetcher() *lyrics.Chain {
	var providers []lyrics.NamedFetcher
	for _, name := range r.cfg.LyricsProviders() {
		switch name {
		case config.ProviderLRCLib:
			providers = append(providers, lrclib.New(lrclib.WithTimeout(r.cfg.Lyrics.Timeout)))
		case config.ProviderGenius:
			providers = append(providers, genius.New(r.cfg.Genius.AccessToken, genius.WithTimeout(r.cfg.Lyrics.Timeout)))
		}
	}
	return lyrics.NewChain(providers...)
}

// newPipeline wires a pipeline over the given Spotify client. The returned
// function releases the stores it opened.
func (r *Runner) newPipeline(ctx context.Context, sp *spotify.Client, showProgress bool) (*pipeline.Service, func(), error) {
	var (
		fetcher lyrics.Fetcher = r.lyricsFetcher()
		runs    pipeline.RunStore
		closeFn = func() {}
	)

	if r.cfg.Database.URL != "" || !r.noCache {
		store, rs, closer, err := r.openStore(ctx)
		if err != nil {
			return nil, nil, err
		}
		closeFn, runs = closer, rs
		if !r.noCache {
			fetcher = lyrics.NewCachedFetcher(store, fetcher,
				lyrics.WithTTL(r.cfg.Lyrics.CacheTTL),
				lyrics.WithCacheLogger(r.logger),
			)
		}
	}

	lyricOpts := []lyrics.Option{
		lyrics.WithConcurrency(r.cfg.Lyrics.Concurrency),
		lyrics.WithLogger(logging.With(r.logger, "component", "lyrics")),
	}
	if showProgress {
		lyricOpts = append(lyricOpts, lyrics.WithProgress(r.progress))
	}

	registry, err := sentiment.NewRegistry()
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("loading sentiment providers: %w", err)
	}

	opts := []pipeline.Option{
		pipeline.WithLogger(logging.With(r.logger, "component", "pipeline")),
		pipeline.WithScoringConcurrency(r.cfg.Scoring.Concurrency),
	}
	if runs != nil {
		opts = append(opts, pipeline.WithRunStore(runs))
	}

	svc := pipeline.New(sp, lyrics.NewService(fetcher, lyricOpts...), registry, opts...)
	return svc, closeFn, nil
}
