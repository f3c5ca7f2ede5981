package main

import (
	"time"

	"github.com/urfave/cli/v3"
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Sources: cli.EnvVars("LYRIC_MOOD_CONFIG"),
		},
		&cli.StringFlag{
			Name:  "env-file",
			Usage: "Path to a .env file",
			Value: ".env",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Enable debug logging",
		},
		&cli.BoolFlag{
			Name:  "no-cache",
			Usage: "Skip the lyrics cache",
		},
	}
}

// scoringFlags are shared by rank and suggest.
func scoringFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "provider",
			Aliases: []string{"p"},
			Usage:   "Sentiment provider: lexicon, polarity or emotion",
		},
		&cli.IntFlag{
			Name:    "limit",
			Aliases: []string{"n"},
			Usage:   "Maximum number of songs to return",
		},
		&cli.BoolFlag{
			Name:  "clean",
			Usage: "Strip annotations and stopwords before scoring",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output JSON",
		},
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		rankCommand, suggestCommand, groupsCommand, historyCommand, serveCommand,
		loginCommand, logoutCommand, playlistsCommand, initCommand, cacheCommand,
	} {
		commands = append(commands, fn(r))
	}
	return commands
}

func rankCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "rank",
		Usage:     "Rank a playlist's songs against a mood",
		ArgsUsage: "PLAYLIST",
		Flags: append(scoringFlags(),
			&cli.StringFlag{
				Name:    "mood",
				Aliases: []string{"m"},
				Usage:   "positive, negative, happy, angry, surprise, sad or fear",
			},
			&cli.BoolFlag{
				Name:  "threshold",
				Usage: "Only keep songs past the ±0.5 cutoff (positive and negative moods)",
			},
			&cli.StringFlag{
				Name:  "save-as",
				Usage: "Save the ranking as a new private playlist with this name",
			},
		),
		Action: r.Rank,
	}
}

func suggestCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "suggest",
		Usage:     "Suggest clearly positive or negative songs from a playlist",
		ArgsUsage: "PLAYLIST positive|negative",
		Flags:     scoringFlags(),
		Action:    r.Suggest,
	}
}

func groupsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "groups",
		Usage:     "Group a playlist's songs by emotion",
		ArgsUsage: "PLAYLIST",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "k",
				Aliases: []string{"groups"},
				Usage:   "Number of groups",
				Value:   3,
			},
			&cli.IntFlag{
				Name:  "min-size",
				Usage: "Groups smaller than this are reported as outliers",
				Value: 2,
			},
			&cli.BoolFlag{
				Name:  "clean",
				Usage: "Strip annotations and stopwords before scoring",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output JSON",
			},
		},
		Action: r.Groups,
	}
}

func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "history",
		Usage:     "List stored rankings of a playlist (needs a database)",
		ArgsUsage: "PLAYLIST",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of runs",
				Value:   10,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output JSON",
			},
		},
		Action: r.History,
	}
}

func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve rankings over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address",
			},
		},
		Action: r.Serve,
	}
}

func loginCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "login",
		Usage:  "Authorize access to your Spotify account",
		Action: r.Login,
	}
}

func logoutCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "Delete the cached Spotify token",
		Action: r.Logout,
	}
}

func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "playlists",
		Usage: "List your Spotify playlists",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output JSON",
			},
		},
		Action: r.Playlists,
	}
}

func initCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "init",
		Usage:     "Write an example configuration file",
		ArgsUsage: "[PATH]",
		Action:    r.Init,
	}
}

func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect the lyrics cache",
		Commands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "Show how many lookups are cached",
				Action: r.CacheStats,
			},
			{
				Name:  "purge",
				Usage: "Delete cached lookups older than a duration",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "older-than",
						Usage: "Age cutoff",
						Value: 30 * 24 * time.Hour,
					},
				},
				Action: r.CachePurge,
			},
		},
	}
}
