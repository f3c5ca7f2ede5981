package pipeline

import (
	"context"
	"fmt"

	"github.com/justestif/go-spotify-lyric-mood/internal/clustering"
	"github.com/justestif/go-spotify-lyric-mood/internal/sentiment"
)

// GroupsResult is the outcome of grouping a playlist by emotion.
type GroupsResult struct {
	PlaylistID   string             `json:"playlist_id"`
	PlaylistName string             `json:"playlist_name"`
	Groups       []clustering.Group `json:"groups"`
	Outliers     []string           `json:"outliers"`
	Missing      []string           `json:"missing"`
	Unscorable   []string           `json:"unscorable,omitempty"`
	Total        int                `json:"total"`
}

// Groups scores a playlist with the emotion provider and clusters the songs
// into emotion groups. Songs without lyrics are reported as missing, not as
// outliers.
func (s *Service) Groups(ctx context.Context, playlistID string, clean bool, cfg clustering.Config) (*GroupsResult, error) {
	sc, err := s.score(ctx, playlistID, sentiment.KindEmotion, clean)
	if err != nil {
		return nil, err
	}

	groups, outliers, err := clustering.EmotionGroups(sc.scores, cfg)
	if err != nil {
		return nil, fmt.Errorf("grouping songs: %w", err)
	}

	s.logger.Info("Grouped playlist",
		"playlist", sc.name,
		"groups", len(groups),
		"outliers", len(outliers),
	)

	return &GroupsResult{
		PlaylistID:   playlistID,
		PlaylistName: sc.name,
		Groups:       groups,
		Outliers:     outliers,
		Missing:      sc.lyrics.MissingNames(),
		Unscorable:   sc.empty,
		Total:        len(sc.tracks),
	}, nil
}
