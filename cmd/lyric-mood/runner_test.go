package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/justestif/go-spotify-lyric-mood/internal/config"
	"github.com/justestif/go-spotify-lyric-mood/internal/pipeline"
	"github.com/justestif/go-spotify-lyric-mood/internal/ranking"
	"github.com/justestif/go-spotify-lyric-mood/internal/sentiment"
	"github.com/justestif/go-spotify-lyric-mood/internal/spotify"
)

// parseRank runs the rank flag set over args and returns the resulting request.
func parseRank(t *testing.T, r *Runner, args ...string) (pipeline.Request, error) {
	t.Helper()
	var (
		req    pipeline.Request
		reqErr error
	)
	cmd := rankCommand(r)
	cmd.Action = func(ctx context.Context, cmd *cli.Command) error {
		id, err := playlistArg(cmd)
		if err != nil {
			reqErr = err
			return nil
		}
		req, reqErr = r.request(cmd, id)
		return nil
	}
	if err := cmd.Run(context.Background(), append([]string{"rank"}, args...)); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return req, reqErr
}

func TestRequest(t *testing.T) {
	cfg := config.Default()
	cfg.Scoring.Limit = 7
	r := NewRunner(RunnerOpts{Config: cfg, Out: &bytes.Buffer{}, ErrOut: &bytes.Buffer{}})

	tests := []struct {
		name string
		args []string
		want pipeline.Request
	}{
		{
			name: "config defaults",
			args: []string{"pl1"},
			want: pipeline.Request{PlaylistID: "pl1", Provider: sentiment.KindLexicon, Mood: ranking.Positive, Limit: 7},
		},
		{
			name: "flags override",
			args: []string{"--mood", "fear", "-p", "emotion", "-n", "3", "--clean", "spotify:playlist:pl2"},
			want: pipeline.Request{PlaylistID: "pl2", Provider: sentiment.KindEmotion, Mood: ranking.Fear, Limit: 3, Clean: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseRank(t, r, tt.args...)
			if err != nil {
				t.Fatalf("request() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("request() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRequest_Errors(t *testing.T) {
	r := NewRunner(RunnerOpts{Out: &bytes.Buffer{}, ErrOut: &bytes.Buffer{}})

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"missing playlist", nil, errUsage},
		{"bad playlist", []string{"not-an-id"}, spotify.ErrInvalidPlaylistID},
		{"bad mood", []string{"--mood", "wistful", "pl1"}, ranking.ErrUnrecognizedMood},
		{"bad provider", []string{"--provider", "bert", "pl1"}, sentiment.ErrUnknownKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseRank(t, r, tt.args...)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPrintRanking(t *testing.T) {
	var out bytes.Buffer
	r := NewRunner(RunnerOpts{Out: &out, ErrOut: &bytes.Buffer{}})

	r.printRanking(&pipeline.Result{
		PlaylistName: "Road Trip",
		Provider:     sentiment.KindLexicon,
		Mood:         ranking.Negative,
		Ranked:       []ranking.Keyed{{Song: "Hurt", Key: -0.91}, {Song: "Creep", Key: -0.5}},
		Missing:      []string{"Intro"},
		Total:        3,
	})

	got := out.String()
	for _, want := range []string{
		`most negative songs in "Road Trip" (lexicon scores)`,
		"  1. Hurt",
		"-0.910",
		"  2. Creep",
		"1 of 3 songs had no lyrics",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q\n%s", want, got)
		}
	}
	if strings.Contains(got, "run ") {
		t.Errorf("unsaved run should not print an ID\n%s", got)
	}
}

func TestPrintRanking_Empty(t *testing.T) {
	var out bytes.Buffer
	r := NewRunner(RunnerOpts{Out: &out, ErrOut: &bytes.Buffer{}})

	r.printRanking(&pipeline.Result{Mood: ranking.Positive, Threshold: true, Ranked: []ranking.Keyed{}})
	if got := out.String(); !strings.Contains(got, "clearly positive") || !strings.Contains(got, "No songs matched.") {
		t.Errorf("output = %q", got)
	}
}
