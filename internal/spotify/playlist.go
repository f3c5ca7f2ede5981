package spotify

import (
	"context"
	"fmt"
	"slices"

	"github.com/zmb3/spotify/v2"
)

const maxTracksPerRequest = 100

// CreatePlaylist creates a new playlist for the current user and returns its ID.
func (c *Client) CreatePlaylist(ctx context.Context, name, description string, public bool) (string, error) {
	userID, err := c.UserID(ctx)
	if err != nil {
		return "", err
	}

	playlist, err := c.api.CreatePlaylistForUser(ctx, userID, name, description, public, false)
	if err != nil {
		return "", fmt.Errorf("creating playlist: %w", err)
	}

	return playlist.ID.String(), nil
}

// AddTracksToPlaylist appends tracks to a playlist in request-sized batches.
func (c *Client) AddTracksToPlaylist(ctx context.Context, playlistID string, trackIDs []string) error {
	if len(trackIDs) == 0 {
		return nil
	}

	ids := make([]spotify.ID, len(trackIDs))
	for i, id := range trackIDs {
		ids[i] = spotify.ID(id)
	}

	for batch := range slices.Chunk(ids, maxTracksPerRequest) {
		if _, err := c.api.AddTracksToPlaylist(ctx, spotify.ID(playlistID), batch...); err != nil {
			return playlistError("adding tracks to playlist", playlistID, err)
		}
	}

	return nil
}

// SaveRanking creates a private playlist holding the given tracks in order and
// returns its ID.
func (c *Client) SaveRanking(ctx context.Context, name, description string, trackIDs []string) (string, error) {
	id, err := c.CreatePlaylist(ctx, name, description, false)
	if err != nil {
		return "", err
	}
	if err := c.AddTracksToPlaylist(ctx, id, trackIDs); err != nil {
		return id, err
	}
	return id, nil
}
