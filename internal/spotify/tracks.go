package spotify

import (
	"context"
	"errors"
	"fmt"

	"github.com/zmb3/spotify/v2"

	"github.com/justestif/go-spotify-lyric-mood/internal/lyrics"
)

const maxItemsPerPage = 100

// Playlist summarizes a playlist visible to the current user.
type Playlist struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Owner      string `json:"owner"`
	TrackCount int    `json:"track_count"`
}

// PlaylistTracks returns every track of a playlist in playlist order.
// Podcast episodes and items without track data are skipped.
func (c *Client) PlaylistTracks(ctx context.Context, playlistID string) ([]lyrics.Track, error) {
	page, err := c.api.GetPlaylistItems(ctx, spotify.ID(playlistID), spotify.Limit(maxItemsPerPage))
	if err != nil {
		return nil, playlistError("fetching playlist", playlistID, err)
	}

	var tracks []lyrics.Track
	for {
		for _, item := range page.Items {
			if item.Track.Track == nil {
				continue
			}
			tracks = append(tracks, convertTrack(*item.Track.Track))
		}

		err = c.api.NextPage(ctx, page)
		if errors.Is(err, spotify.ErrNoMorePages) {
			break
		}
		if err != nil {
			return nil, playlistError("fetching next page of playlist", playlistID, err)
		}
	}

	return tracks, nil
}

// PlaylistName returns the display name of a playlist.
func (c *Client) PlaylistName(ctx context.Context, playlistID string) (string, error) {
	p, err := c.api.GetPlaylist(ctx, spotify.ID(playlistID))
	if err != nil {
		return "", playlistError("fetching playlist", playlistID, err)
	}
	return p.Name, nil
}

// UserPlaylists lists the current user's playlists, including followed ones.
func (c *Client) UserPlaylists(ctx context.Context) ([]Playlist, error) {
	page, err := c.api.CurrentUsersPlaylists(ctx, spotify.Limit(50))
	if err != nil {
		return nil, fmt.Errorf("fetching playlists: %w", err)
	}

	var out []Playlist
	for {
		for _, p := range page.Playlists {
			out = append(out, Playlist{
				ID:         p.ID.String(),
				Name:       p.Name,
				Owner:      p.Owner.DisplayName,
				TrackCount: int(p.Tracks.Total),
			})
		}

		err = c.api.NextPage(ctx, page)
		if errors.Is(err, spotify.ErrNoMorePages) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("fetching next page of playlists: %w", err)
		}
	}

	return out, nil
}

// convertTrack converts a Spotify track to the lookup form used for lyrics.
func convertTrack(t spotify.FullTrack) lyrics.Track {
	artists := make([]string, len(t.Artists))
	for i, a := range t.Artists {
		artists[i] = a.Name
	}

	var primary string
	if len(artists) > 0 {
		primary = artists[0]
	}

	return lyrics.Track{
		ID:         t.ID.String(),
		Name:       t.Name,
		Artist:     primary,
		Artists:    artists,
		Album:      t.Album.Name,
		DurationMs: int(t.Duration),
	}
}
