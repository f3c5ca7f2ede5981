package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/justestif/go-spotify-lyric-mood/internal/auth"
	"github.com/justestif/go-spotify-lyric-mood/internal/clustering"
	"github.com/justestif/go-spotify-lyric-mood/internal/config"
	"github.com/justestif/go-spotify-lyric-mood/internal/pipeline"
	"github.com/justestif/go-spotify-lyric-mood/internal/ranking"
	"github.com/justestif/go-spotify-lyric-mood/internal/sentiment"
	"github.com/justestif/go-spotify-lyric-mood/internal/spotify"
	"github.com/justestif/go-spotify-lyric-mood/internal/web"
)

var errUsage = errors.New("usage")

// Rank ranks a playlist against a mood.
func (r *Runner) Rank(ctx context.Context, cmd *cli.Command) error {
	playlistID, err := playlistArg(cmd)
	if err != nil {
		return err
	}
	req, err := r.request(cmd, playlistID)
	if err != nil {
		return err
	}
	req.Threshold = cmd.Bool("threshold")

	saveAs := cmd.String("save-as")
	return r.run(ctx, req, saveAs, cmd.Bool("json"))
}

// Suggest is the threshold mode: clearly positive or clearly negative songs.
func (r *Runner) Suggest(ctx context.Context, cmd *cli.Command) error {
	playlistID, err := playlistArg(cmd)
	if err != nil {
		return err
	}
	if cmd.Args().Len() < 2 {
		return fmt.Errorf("%w: suggest PLAYLIST positive|negative", errUsage)
	}
	req, err := r.request(cmd, playlistID)
	if err != nil {
		return err
	}
	if req.Mood, err = ranking.ParseMood(cmd.Args().Get(1)); err != nil {
		return err
	}
	req.Threshold = true

	return r.run(ctx, req, "", cmd.Bool("json"))
}

func (r *Runner) run(ctx context.Context, req pipeline.Request, saveAs string, asJSON bool) error {
	if err := r.cfg.Validate(); err != nil {
		return err
	}

	sp, err := r.spotifyClient(ctx, saveAs != "")
	if err != nil {
		return err
	}
	svc, closeFn, err := r.newPipeline(ctx, sp, !asJSON)
	if err != nil {
		return err
	}
	defer closeFn()

	res, err := svc.Run(ctx, req)
	if err != nil {
		return err
	}

	if saveAs != "" {
		if err := r.saveRanking(ctx, sp, saveAs, res); err != nil {
			return err
		}
	}

	if asJSON {
		return r.writeJSON(res)
	}
	r.printRanking(res)
	return nil
}

func (r *Runner) saveRanking(ctx context.Context, sp *spotify.Client, name string, res *pipeline.Result) error {
	ids := make([]string, 0, len(res.TrackIDs))
	for _, id := range res.TrackIDs {
		if id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		r.logger.Warn("Nothing to save, the ranking is empty")
		return nil
	}

	desc := fmt.Sprintf("Most %s songs from %s, ranked by lyric %s scores", res.Mood, res.PlaylistName, res.Provider)
	id, err := sp.SaveRanking(ctx, name, desc, ids)
	if err != nil {
		return fmt.Errorf("saving ranking: %w", err)
	}
	r.logger.Info("Saved ranking", "playlist", name, "id", id, "tracks", len(ids))
	return nil
}

// Groups clusters a playlist by emotion.
func (r *Runner) Groups(ctx context.Context, cmd *cli.Command) error {
	playlistID, err := playlistArg(cmd)
	if err != nil {
		return err
	}
	if err := r.cfg.Validate(); err != nil {
		return err
	}
	cfg := clustering.Config{
		NumGroups:    cmd.Int("k"),
		MinGroupSize: cmd.Int("min-size"),
	}
	if cfg.NumGroups < 1 {
		return fmt.Errorf("%w: --k must be at least 1", errUsage)
	}

	asJSON := cmd.Bool("json")
	sp, err := r.spotifyClient(ctx, false)
	if err != nil {
		return err
	}
	svc, closeFn, err := r.newPipeline(ctx, sp, !asJSON)
	if err != nil {
		return err
	}
	defer closeFn()

	res, err := svc.Groups(ctx, playlistID, r.cfg.Scoring.Clean || cmd.Bool("clean"), cfg)
	if err != nil {
		return err
	}

	if asJSON {
		return r.writeJSON(res)
	}
	r.printGroups(res)
	return nil
}

// History lists the stored runs of a playlist.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	playlistID, err := playlistArg(cmd)
	if err != nil {
		return err
	}
	if r.cfg.Database.URL == "" {
		return fmt.Errorf("%w: run history needs database.url or DATABASE_URL", pipeline.ErrNoRunStore)
	}

	_, runs, closeFn, err := r.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	list, err := pipeline.New(nil, nil, nil, pipeline.WithRunStore(runs)).ListRuns(ctx, playlistID, cmd.Int("limit"))
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(list)
	}
	r.printRuns(list)
	return nil
}

// Serve runs the HTTP API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if err := r.cfg.Validate(); err != nil {
		return err
	}
	defaults, err := r.defaults()
	if err != nil {
		return err
	}

	sp, err := r.spotifyClient(ctx, false)
	if err != nil {
		return err
	}
	svc, closeFn, err := r.newPipeline(ctx, sp, false)
	if err != nil {
		return err
	}
	defer closeFn()

	addr := r.cfg.Server.Addr
	if cmd.IsSet("addr") {
		addr = cmd.String("addr")
	}

	server := web.NewServer(web.ServerConfig{
		Addr:     addr,
		Defaults: defaults,
		Logger:   r.logger,
	}, svc)
	return server.Run(ctx)
}

// Login runs the authorization flow and caches the user token.
func (r *Runner) Login(ctx context.Context, cmd *cli.Command) error {
	if err := r.cfg.Validate(); err != nil {
		return err
	}
	sp, err := r.spotifyClient(ctx, true)
	if err != nil {
		return err
	}
	userID, err := sp.UserID(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "%s Logged in as %s\n", styles.ok.Render("✓"), userID)
	return nil
}

// Logout deletes the cached user token.
func (r *Runner) Logout(ctx context.Context, cmd *cli.Command) error {
	cache, err := auth.DefaultTokenCache()
	if err != nil {
		return err
	}
	if err := cache.Delete(); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "%s Logged out\n", styles.ok.Render("✓"))
	return nil
}

// Playlists lists the current user's playlists.
func (r *Runner) Playlists(ctx context.Context, cmd *cli.Command) error {
	if err := r.cfg.Validate(); err != nil {
		return err
	}
	sp, err := r.spotifyClient(ctx, true)
	if err != nil {
		return err
	}
	playlists, err := sp.UserPlaylists(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists)
	}
	r.printPlaylists(playlists)
	return nil
}

// Init writes an example config file.
func (r *Runner) Init(ctx context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		path = "config.toml"
	}
	if err := config.WriteExample(path); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "%s Wrote %s\n", styles.ok.Render("✓"), path)
	return nil
}

// CacheStats prints how many lookups are cached.
func (r *Runner) CacheStats(ctx context.Context, cmd *cli.Command) error {
	store, _, closeFn, err := r.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	total, found, err := store.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "%d cached lookups: %d with lyrics, %d misses\n", total, found, total-found)
	return nil
}

// CachePurge deletes old cache entries.
func (r *Runner) CachePurge(ctx context.Context, cmd *cli.Command) error {
	store, _, closeFn, err := r.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	removed, err := store.Purge(ctx, time.Now().Add(-cmd.Duration("older-than")))
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Removed %d cached lookups\n", removed)
	return nil
}

func playlistArg(cmd *cli.Command) (string, error) {
	if cmd.Args().Len() == 0 {
		return "", fmt.Errorf("%w: missing PLAYLIST (ID, URI or link)", errUsage)
	}
	return spotify.ParsePlaylistID(cmd.Args().First())
}

// defaults converts the [scoring] section into request defaults.
func (r *Runner) defaults() (web.Defaults, error) {
	kind, err := sentiment.ParseKind(r.cfg.Scoring.Provider)
	if err != nil {
		return web.Defaults{}, err
	}
	mood, err := ranking.ParseMood(r.cfg.Scoring.Mood)
	if err != nil {
		return web.Defaults{}, err
	}
	return web.Defaults{
		Provider: kind,
		Mood:     mood,
		Limit:    r.cfg.Scoring.Limit,
		Clean:    r.cfg.Scoring.Clean,
	}, nil
}

// request builds a pipeline request from the config, overridden by any flags set.
func (r *Runner) request(cmd *cli.Command, playlistID string) (pipeline.Request, error) {
	d, err := r.defaults()
	if err != nil {
		return pipeline.Request{}, err
	}
	req := pipeline.Request{
		PlaylistID: playlistID,
		Provider:   d.Provider,
		Mood:       d.Mood,
		Limit:      d.Limit,
		Clean:      d.Clean || cmd.Bool("clean"),
	}

	if cmd.IsSet("provider") {
		if req.Provider, err = sentiment.ParseKind(cmd.String("provider")); err != nil {
			return req, err
		}
	}
	if cmd.IsSet("mood") {
		if req.Mood, err = ranking.ParseMood(cmd.String("mood")); err != nil {
			return req, err
		}
	}
	if cmd.IsSet("limit") {
		req.Limit = cmd.Int("limit")
	}
	return req, nil
}
