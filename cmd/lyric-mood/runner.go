package main

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/justestif/go-spotify-lyric-mood/internal/config"
	"github.com/justestif/go-spotify-lyric-mood/internal/logging"
)

// Runner holds the loaded configuration and provides one method per command.
type Runner struct {
	cfg     *config.Config
	logger  *log.Logger
	out     io.Writer
	errOut  io.Writer
	noCache bool
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config *config.Config
	Logger *log.Logger
	Out    io.Writer
	ErrOut io.Writer
}

// NewRunner creates a Runner. Config and logger are normally filled in by Before.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.ErrOut == nil {
		opts.ErrOut = os.Stderr
	}
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Logger == nil {
		opts.Logger = logging.New(opts.ErrOut)
	}
	return &Runner{
		cfg:    opts.Config,
		logger: opts.Logger,
		out:    opts.Out,
		errOut: opts.ErrOut,
	}
}

// Before loads .env, the config file and the environment, and sets up logging.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	r.logger = logging.NewVerbose(r.errOut, cmd.Bool("verbose"))
	r.noCache = cmd.Bool("no-cache")

	if err := config.LoadDotEnv(cmd.String("env-file")); err != nil {
		return ctx, err
	}
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return ctx, err
	}
	r.cfg = cfg
	r.logger.Debug("Loaded configuration",
		"file", cmd.String("config"),
		"providers", cfg.LyricsProviders(),
		"database", cfg.Database.URL != "",
	)
	return ctx, nil
}
