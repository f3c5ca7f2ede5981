// Package lrclib fetches lyrics from the LRCLIB public API (https://lrclib.net).
package lrclib

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/justestif/go-spotify-lyric-mood/internal/lyrics"
)

const (
	defaultBaseURL = "https://lrclib.net/api"
	defaultTimeout = 10 * time.Second
	userAgent      = "lyric-mood/1.0 (+https://github.com/justestif/go-spotify-lyric-mood)"
	retryDelay     = 2 * time.Second
)

// timestampRe matches LRC time tags such as [01:23.45].
var timestampRe = regexp.MustCompile(`\[\d+:\d{2}(?:[.:]\d{1,3})?\]\s?`)

// Client is an LRCLIB API client. It implements lyrics.NamedFetcher.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
	baseURL    string
	retryDelay time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another API root (used in tests).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient replaces the HTTP client. Its own timeout is kept unless
// WithTimeout is also given.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// New creates a new LRCLIB client.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		retryDelay: retryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}

	switch {
	case c.httpClient == nil:
		timeout := c.timeout
		if timeout == 0 {
			timeout = defaultTimeout
		}
		c.httpClient = &http.Client{Timeout: timeout}
	case c.timeout > 0:
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

// Name returns "lrclib".
func (c *Client) Name() string {
	return "lrclib"
}

type record struct {
	TrackName    string `json:"trackName"`
	ArtistName   string `json:"artistName"`
	Instrumental bool   `json:"instrumental"`
	PlainLyrics  string `json:"plainLyrics"`
	SyncedLyrics string `json:"syncedLyrics"`
}

// text returns the plain lyrics, falling back to the synced lyrics with the
// time tags stripped. ok is false when the record has no lyrics at all.
func (r record) text() (string, bool) {
	if r.Instrumental {
		return "", true
	}
	if s := strings.TrimSpace(r.PlainLyrics); s != "" {
		return s, true
	}
	if s := strings.TrimSpace(timestampRe.ReplaceAllString(r.SyncedLyrics, "")); s != "" {
		return s, true
	}
	return "", false
}

// Fetch looks up lyrics by exact artist and title, then falls back to the
// closest search result with lyrics. Instrumental tracks yield empty text. Returns lyrics.ErrNotFound
// when LRCLIB has nothing usable.
func (c *Client) Fetch(ctx context.Context, artist, title string) (string, error) {
	params := url.Values{}
	params.Set("artist_name", artist)
	params.Set("track_name", title)

	var rec record
	found, err := c.getJSON(ctx, "/get", params, &rec)
	if err != nil {
		return "", err
	}
	if found {
		if text, ok := rec.text(); ok {
			return text, nil
		}
	}

	var results []record
	if _, err := c.getJSON(ctx, "/search", params, &results); err != nil {
		return "", err
	}
	var (
		best      string
		bestScore = -1
	)
	for _, r := range results {
		text, ok := r.text()
		if !ok {
			continue
		}
		if score := lyrics.MatchScore(artist, title, r.ArtistName, r.TrackName); score > bestScore {
			best, bestScore = text, score
		}
	}
	if bestScore >= lyrics.MinMatchScore {
		return best, nil
	}
	return "", fmt.Errorf("lrclib %s - %s: %w", artist, title, lyrics.ErrNotFound)
}

// getJSON decodes the response of a GET into dst. found is false on a 404.
// Network errors are retried once.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, dst any) (bool, error) {
	found, err := c.doGet(ctx, path, params, dst)
	if err == nil || !isTransient(err) {
		return found, err
	}

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case <-time.After(c.retryDelay):
	}
	return c.doGet(ctx, path, params, dst)
}

func (c *Client) doGet(ctx context.Context, path string, params url.Values, dst any) (bool, error) {
	reqURL := c.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("lrclib request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("lrclib returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return false, fmt.Errorf("decoding lrclib response: %w", err)
	}
	return true, nil
}

func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
