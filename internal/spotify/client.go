// Package spotify provides a wrapper around the Spotify Web API.
package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/zmb3/spotify/v2"
)

// ErrPlaylistNotFound is returned when Spotify has no playlist with the
// requested ID, or the caller may not see it.
var ErrPlaylistNotFound = errors.New("playlist not found")

// Client wraps the Spotify API client with convenience methods.
type Client struct {
	api *spotify.Client
}

// New creates a new Spotify client wrapper.
// The underlying client should already be authenticated.
func New(api *spotify.Client) *Client {
	return &Client{api: api}
}

// UserID returns the current user's Spotify ID.
func (c *Client) UserID(ctx context.Context) (string, error) {
	user, err := c.api.CurrentUser(ctx)
	if err != nil {
		return "", fmt.Errorf("getting current user: %w", err)
	}
	return user.ID, nil
}

// playlistError wraps err, translating a 404 from Spotify into ErrPlaylistNotFound.
func playlistError(op, id string, err error) error {
	var apiErr spotify.Error
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return fmt.Errorf("%s %s: %w", op, id, ErrPlaylistNotFound)
	}
	return fmt.Errorf("%s %s: %w", op, id, err)
}
