// Package genius fetches lyrics through the Genius search API and the
// lyrics pages it links to.
package genius

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/justestif/go-spotify-lyric-mood/internal/lyrics"
)

const (
	defaultBaseURL = "https://api.genius.com"
	// Genius serves a stripped page to unknown agents.
	pageUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

// Sentinel errors.
var (
	// ErrRateLimited is returned when the API rate limit is exceeded after retries.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrUnauthorized is returned when the access token is rejected.
	ErrUnauthorized = errors.New("invalid Genius access token")
)

// Client is a Genius API client. It implements lyrics.NamedFetcher.
type Client struct {
	token      string
	httpClient *http.Client
	baseURL    string
	delays     []time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another API root (used in tests).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// New creates a Genius client authorized with an API access token.
func New(token string, opts ...Option) *Client {
	c := &Client{
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
		delays:     []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns "genius".
func (c *Client) Name() string {
	return "genius"
}

// Fetch searches Genius for the song, picks the closest hit and scrapes its
// lyrics page. Returns lyrics.ErrNotFound when no hit is close enough or the
// page has no lyrics.
func (c *Client) Fetch(ctx context.Context, artist, title string) (string, error) {
	hits, err := c.Search(ctx, artist+" "+title)
	if err != nil {
		return "", fmt.Errorf("searching genius: %w", err)
	}

	hit, ok := bestHit(hits, artist, title)
	if !ok {
		return "", fmt.Errorf("genius %s - %s: %w", artist, title, lyrics.ErrNotFound)
	}

	text, err := c.scrape(ctx, hit.URL)
	if err != nil {
		return "", fmt.Errorf("scraping %s: %w", hit.URL, err)
	}
	return text, nil
}

// Search returns the song hits for a free-text query.
func (c *Client) Search(ctx context.Context, query string) ([]Hit, error) {
	params := url.Values{"q": {query}}
	body, err := c.doRequest(ctx, c.baseURL+"/search?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}

	hits := make([]Hit, 0, len(resp.Response.Hits))
	for _, h := range resp.Response.Hits {
		if h.Type != "song" {
			continue
		}
		hits = append(hits, Hit{
			ID:     h.Result.ID,
			Title:  h.Result.Title,
			Artist: h.Result.PrimaryArtist.Name,
			URL:    h.Result.URL,
		})
	}
	return hits, nil
}

// doRequest performs an authorized GET with retry on rate limit.
// Retries up to 3 times with exponential backoff (1s, 2s, 4s).
func (c *Client) doRequest(ctx context.Context, reqURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= len(c.delays); attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.delays[attempt-1]):
			}
		}

		body, err := c.doSingleRequest(ctx, reqURL)
		if err == nil {
			return body, nil
		}
		if !errors.Is(err, ErrRateLimited) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (c *Client) doSingleRequest(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	default:
		return nil, fmt.Errorf("genius returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return body, nil
}

// scrape extracts the lyric text from a Genius song page.
func (c *Client) scrape(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", pageUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", lyrics.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("lyrics page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parsing lyrics page: %w", err)
	}

	text := extractLyrics(doc)
	if text == "" {
		return "", lyrics.ErrNotFound
	}
	return text, nil
}

// extractLyrics joins the text of every lyrics container, keeping line breaks.
func extractLyrics(doc *goquery.Document) string {
	var parts []string
	doc.Find(`[data-lyrics-container="true"]`).Each(func(_ int, s *goquery.Selection) {
		s.Find(`[data-exclude-from-selection="true"]`).Remove()
		s.Find("br").ReplaceWithHtml("\n")
		if t := strings.TrimSpace(s.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, "\n")
}
