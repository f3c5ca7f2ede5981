package spotify

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidPlaylistID is returned for a playlist reference that holds no usable ID.
var ErrInvalidPlaylistID = errors.New("invalid playlist ID")

// ParsePlaylistID extracts a playlist ID from a bare ID, a spotify:playlist:
// URI or an open.spotify.com link.
func ParsePlaylistID(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: empty reference", ErrInvalidPlaylistID)
	}

	if rest, ok := strings.CutPrefix(s, "spotify:playlist:"); ok {
		return checkID(rest)
	}

	if strings.Contains(s, "://") {
		u, err := url.Parse(s)
		if err != nil {
			return "", fmt.Errorf("%w: parsing link: %v", ErrInvalidPlaylistID, err)
		}
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		for i := 0; i+1 < len(parts); i++ {
			if parts[i] == "playlist" {
				return checkID(parts[i+1])
			}
		}
		return "", fmt.Errorf("%w: no playlist in link %q", ErrInvalidPlaylistID, s)
	}

	return checkID(s)
}

func checkID(id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidPlaylistID)
	}
	for _, r := range id {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return "", fmt.Errorf("%w: %q", ErrInvalidPlaylistID, id)
		}
	}
	return id, nil
}
