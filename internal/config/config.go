// Package config loads application settings from a TOML file, a .env file
// and the process environment, in that order of increasing precedence.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/justestif/go-spotify-lyric-mood/internal/ranking"
	"github.com/justestif/go-spotify-lyric-mood/internal/sentiment"
)

//go:embed config.example.toml
var exampleConf []byte

var (
	// ErrMissingCredentials is returned when the Spotify client ID or secret is not set.
	ErrMissingCredentials = errors.New("missing Spotify client ID or secret (set SPOTIFY_ID and SPOTIFY_SECRET)")

	// ErrInvalidConfig is returned when a setting is out of range or unrecognized.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Lyric provider names accepted in [lyrics] providers.
const (
	ProviderLRCLib = "lrclib"
	ProviderGenius = "genius"
)

// Config is the full application configuration.
type Config struct {
	Spotify  SpotifyConfig  `toml:"spotify"`
	Genius   GeniusConfig   `toml:"genius"`
	Lyrics   LyricsConfig   `toml:"lyrics"`
	Database DatabaseConfig `toml:"database"`
	Scoring  ScoringConfig  `toml:"scoring"`
	Server   ServerConfig   `toml:"server"`
}

// SpotifyConfig contains Spotify API credentials.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
}

// GeniusConfig contains the Genius API token.
type GeniusConfig struct {
	AccessToken string `toml:"access_token"`
}

// LyricsConfig controls lyric retrieval.
type LyricsConfig struct {
	Providers   []string      `toml:"providers"`
	Concurrency int           `toml:"concurrency"`
	Timeout     time.Duration `toml:"timeout"`
	CacheTTL    time.Duration `toml:"cache_ttl"`
}

// DatabaseConfig selects the persistence backends.
type DatabaseConfig struct {
	URL        string `toml:"url"`
	SQLitePath string `toml:"sqlite_path"`
}

// ScoringConfig holds the defaults for a ranking run.
type ScoringConfig struct {
	Provider    string `toml:"provider"`
	Mood        string `toml:"mood"`
	Limit       int    `toml:"limit"`
	Clean       bool   `toml:"clean"`
	Concurrency int    `toml:"concurrency"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the configuration embedded in config.example.toml.
func Default() *Config {
	var cfg Config
	if err := toml.Unmarshal(exampleConf, &cfg); err != nil {
		panic(fmt.Sprintf("parsing embedded default config: %v", err))
	}
	return &cfg
}

// Load builds a Config from the defaults, the TOML file at path (skipped when
// path is empty) and the environment. It does not validate the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// LoadDotEnv loads variables from the given .env files (".env" when none are
// named) without overriding variables already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// WriteExample writes the example configuration to path. It refuses to
// overwrite an existing file.
func WriteExample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := os.WriteFile(path, exampleConf, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	overrides := []struct {
		env string
		dst *string
	}{
		{"SPOTIFY_ID", &c.Spotify.ClientID},
		{"SPOTIFY_SECRET", &c.Spotify.ClientSecret},
		{"GENIUS_ACCESS_TOKEN", &c.Genius.AccessToken},
		{"DATABASE_URL", &c.Database.URL},
		{"LYRICS_CACHE_PATH", &c.Database.SQLitePath},
		{"LYRIC_MOOD_ADDR", &c.Server.Addr},
	}
	for _, o := range overrides {
		if v := strings.TrimSpace(os.Getenv(o.env)); v != "" {
			*o.dst = v
		}
	}
}

// Validate checks credentials and the scoring and retrieval settings.
func (c *Config) Validate() error {
	if c.Spotify.ClientID == "" || c.Spotify.ClientSecret == "" {
		return ErrMissingCredentials
	}
	if _, err := sentiment.ParseKind(c.Scoring.Provider); err != nil {
		return fmt.Errorf("%w: scoring.provider: %w", ErrInvalidConfig, err)
	}
	if _, err := ranking.ParseMood(c.Scoring.Mood); err != nil {
		return fmt.Errorf("%w: scoring.mood: %w", ErrInvalidConfig, err)
	}
	if c.Scoring.Limit < 0 {
		return fmt.Errorf("%w: scoring.limit must not be negative", ErrInvalidConfig)
	}
	if c.Scoring.Concurrency < 1 {
		return fmt.Errorf("%w: scoring.concurrency must be at least 1", ErrInvalidConfig)
	}
	if c.Lyrics.Concurrency < 1 {
		return fmt.Errorf("%w: lyrics.concurrency must be at least 1", ErrInvalidConfig)
	}
	for _, p := range c.Lyrics.Providers {
		if p != ProviderLRCLib && p != ProviderGenius {
			return fmt.Errorf("%w: unknown lyrics provider %q", ErrInvalidConfig, p)
		}
	}
	if len(c.LyricsProviders()) == 0 {
		return fmt.Errorf("%w: no usable lyrics provider (genius needs GENIUS_ACCESS_TOKEN)", ErrInvalidConfig)
	}
	return nil
}

// LyricsProviders returns the configured providers that can actually run.
// Genius is dropped when no token is set, so a default config works with
// only Spotify credentials.
func (c *Config) LyricsProviders() []string {
	out := make([]string, 0, len(c.Lyrics.Providers))
	for _, p := range c.Lyrics.Providers {
		if p == ProviderGenius && c.Genius.AccessToken == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
