package db

import (
	"time"

	"github.com/google/uuid"
)

// Track represents a Spotify track that appeared in a ranking run.
type Track struct {
	ID         string
	Name       string
	Artist     string
	Artists    []string
	Album      *string // nullable
	DurationMs *int    // nullable
	CreatedAt  time.Time
}

// Run is one ranking of a playlist.
type Run struct {
	ID           uuid.UUID  `json:"id"`
	PlaylistID   string     `json:"playlist_id"`
	PlaylistName string     `json:"playlist_name"`
	Provider     string     `json:"provider"`
	Mood         string     `json:"mood"`
	Limit        int        `json:"limit"`
	Clean        bool       `json:"clean"`
	Threshold    bool       `json:"threshold"`
	TrackCount   int        `json:"track_count"`
	MissingCount int        `json:"missing_count"`
	CreatedAt    time.Time  `json:"created_at"`
	Entries      []RunEntry `json:"entries"`
}

// RunEntry is one ranked song of a run. Position starts at 1.
type RunEntry struct {
	Position int     `json:"position"`
	Song     string  `json:"song"`
	TrackID  string  `json:"track_id,omitempty"`
	Score    float64 `json:"score"`
}
