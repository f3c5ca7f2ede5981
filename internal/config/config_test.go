package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

func validConfig() *Config {
	cfg := Default()
	cfg.Spotify.ClientID = "id"
	cfg.Spotify.ClientSecret = "secret"
	return cfg
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Lyrics.Concurrency != 5 {
		t.Errorf("Lyrics.Concurrency = %d, want 5", cfg.Lyrics.Concurrency)
	}
	if cfg.Lyrics.Timeout != 10*time.Second {
		t.Errorf("Lyrics.Timeout = %v, want 10s", cfg.Lyrics.Timeout)
	}
	if cfg.Lyrics.CacheTTL != 720*time.Hour {
		t.Errorf("Lyrics.CacheTTL = %v, want 720h", cfg.Lyrics.CacheTTL)
	}
	if !slices.Equal(cfg.Lyrics.Providers, []string{"lrclib", "genius"}) {
		t.Errorf("Lyrics.Providers = %v", cfg.Lyrics.Providers)
	}
	if cfg.Scoring.Provider != "lexicon" || cfg.Scoring.Mood != "positive" || cfg.Scoring.Limit != 10 {
		t.Errorf("Scoring = %+v", cfg.Scoring)
	}
	if cfg.Spotify.RedirectURI != "http://127.0.0.1:8080/callback" {
		t.Errorf("Spotify.RedirectURI = %q", cfg.Spotify.RedirectURI)
	}
}

func TestLoad(t *testing.T) {
	t.Run("file overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		data := `[scoring]
provider = "emotion"
mood = "sad"

[lyrics]
providers = ["lrclib"]
timeout = "3s"
`
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Scoring.Provider != "emotion" || cfg.Scoring.Mood != "sad" {
			t.Errorf("Scoring = %+v", cfg.Scoring)
		}
		if cfg.Scoring.Limit != 10 {
			t.Errorf("Scoring.Limit = %d, want default 10", cfg.Scoring.Limit)
		}
		if cfg.Lyrics.Timeout != 3*time.Second {
			t.Errorf("Lyrics.Timeout = %v", cfg.Lyrics.Timeout)
		}
		if cfg.Lyrics.Concurrency != 5 {
			t.Errorf("Lyrics.Concurrency = %d, want default 5", cfg.Lyrics.Concurrency)
		}
	})

	t.Run("environment wins", func(t *testing.T) {
		t.Setenv("SPOTIFY_ID", "env-id")
		t.Setenv("SPOTIFY_SECRET", "env-secret")
		t.Setenv("DATABASE_URL", "postgres://localhost/lyrics")
		t.Setenv("LYRIC_MOOD_ADDR", ":9999")

		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Spotify.ClientID != "env-id" || cfg.Spotify.ClientSecret != "env-secret" {
			t.Errorf("Spotify = %+v", cfg.Spotify)
		}
		if cfg.Database.URL != "postgres://localhost/lyrics" {
			t.Errorf("Database.URL = %q", cfg.Database.URL)
		}
		if cfg.Server.Addr != ":9999" {
			t.Errorf("Server.Addr = %q", cfg.Server.Addr)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.toml")
		if err := os.WriteFile(path, []byte("[scoring\nlimit = "), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Error("expected error")
		}
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"valid", func(*Config) {}, nil},
		{"missing id", func(c *Config) { c.Spotify.ClientID = "" }, ErrMissingCredentials},
		{"missing secret", func(c *Config) { c.Spotify.ClientSecret = "" }, ErrMissingCredentials},
		{"unknown provider", func(c *Config) { c.Scoring.Provider = "bert" }, ErrInvalidConfig},
		{"provider alias", func(c *Config) { c.Scoring.Provider = "t2e" }, nil},
		{"unknown mood", func(c *Config) { c.Scoring.Mood = "wistful" }, ErrInvalidConfig},
		{"negative limit", func(c *Config) { c.Scoring.Limit = -1 }, ErrInvalidConfig},
		{"zero lyric workers", func(c *Config) { c.Lyrics.Concurrency = 0 }, ErrInvalidConfig},
		{"unknown lyrics provider", func(c *Config) { c.Lyrics.Providers = []string{"azlyrics"} }, ErrInvalidConfig},
		{"genius only without token", func(c *Config) { c.Lyrics.Providers = []string{"genius"} }, ErrInvalidConfig},
		{"genius only with token", func(c *Config) {
			c.Lyrics.Providers = []string{"genius"}
			c.Genius.AccessToken = "tok"
		}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLyricsProviders(t *testing.T) {
	cfg := validConfig()
	if got := cfg.LyricsProviders(); !slices.Equal(got, []string{"lrclib"}) {
		t.Errorf("without token = %v, want [lrclib]", got)
	}

	cfg.Genius.AccessToken = "tok"
	if got := cfg.LyricsProviders(); !slices.Equal(got, []string{"lrclib", "genius"}) {
		t.Errorf("with token = %v, want [lrclib genius]", got)
	}
}

func TestWriteExample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := WriteExample(path); err != nil {
		t.Fatalf("WriteExample() error = %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Addr != Default().Server.Addr {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}

	if err := WriteExample(path); err == nil {
		t.Error("second WriteExample() should fail")
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("GENIUS_ACCESS_TOKEN=from-dotenv\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GENIUS_ACCESS_TOKEN", "")
	os.Unsetenv("GENIUS_ACCESS_TOKEN")

	if err := LoadDotEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv() error = %v", err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Genius.AccessToken != "from-dotenv" {
		t.Errorf("Genius.AccessToken = %q", cfg.Genius.AccessToken)
	}
}
