package genius

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/justestif/go-spotify-lyric-mood/internal/lyrics"
)

const lyricsPage = `<!DOCTYPE html><html><body>
<div data-lyrics-container="true"><span data-exclude-from-selection="true">12 Contributors</span>[Verse 1]<br>When you were here before<br/>Couldn't look you in the eye</div>
<div class="ad">buy things</div>
<div data-lyrics-container="true">[Chorus]<br>But I'm a creep</div>
</body></html>`

// geniusServer serves /search with the given JSON body and the song pages.
func geniusServer(t *testing.T, searchJSON func(base string) string) *httptest.Server {
	t.Helper()
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/search":
			if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, searchJSON(server.URL))
		case r.URL.Path == "/radiohead-creep-lyrics":
			fmt.Fprint(w, lyricsPage)
		case r.URL.Path == "/empty-lyrics":
			fmt.Fprint(w, `<html><body><p>Lyrics for this song have yet to be released.</p></body></html>`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func hitsJSON(base string, hits ...[3]string) string {
	var items []string
	for i, h := range hits {
		items = append(items, fmt.Sprintf(
			`{"type":"song","result":{"id":%d,"title":%q,"url":"%s%s","primary_artist":{"name":%q}}}`,
			i+1, h[0], base, h[2], h[1]))
	}
	return `{"meta":{"status":200},"response":{"hits":[` + strings.Join(items, ",") + `]}}`
}

func TestClient_Fetch(t *testing.T) {
	server := geniusServer(t, func(base string) string {
		return hitsJSON(base,
			[3]string{"Creep (Acoustic)", "Some Cover Band", "/cover"},
			[3]string{"Creep", "Radiohead", "/radiohead-creep-lyrics"},
		)
	})

	c := New("test-token", WithBaseURL(server.URL))
	got, err := c.Fetch(context.Background(), "Radiohead", "Creep")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	want := "[Verse 1]\nWhen you were here before\nCouldn't look you in the eye\n[Chorus]\nBut I'm a creep"
	if got != want {
		t.Errorf("Fetch() = %q, want %q", got, want)
	}
}

func TestClient_FetchNotFound(t *testing.T) {
	tests := []struct {
		name string
		hits func(base string) string
	}{
		{"no hits", func(string) string { return hitsJSON("") }},
		{"no close hit", func(base string) string {
			return hitsJSON(base, [3]string{"Totally Different", "Someone Else", "/radiohead-creep-lyrics"})
		}},
		{"page without lyrics", func(base string) string {
			return hitsJSON(base, [3]string{"Creep", "Radiohead", "/empty-lyrics"})
		}},
		{"page gone", func(base string) string {
			return hitsJSON(base, [3]string{"Creep", "Radiohead", "/deleted"})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := geniusServer(t, tt.hits)
			c := New("test-token", WithBaseURL(server.URL))

			_, err := c.Fetch(context.Background(), "Radiohead", "Creep")
			if !errors.Is(err, lyrics.ErrNotFound) {
				t.Errorf("Fetch() error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestClient_Unauthorized(t *testing.T) {
	server := geniusServer(t, func(string) string { return hitsJSON("") })
	c := New("wrong-token", WithBaseURL(server.URL))

	_, err := c.Fetch(context.Background(), "Radiohead", "Creep")
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("Fetch() error = %v, want ErrUnauthorized", err)
	}
	if errors.Is(err, lyrics.ErrNotFound) {
		t.Error("unauthorized must not look like a miss")
	}
}

func TestClient_SearchSkipsNonSongs(t *testing.T) {
	server := geniusServer(t, func(base string) string {
		return `{"response":{"hits":[
			{"type":"article","result":{"id":9,"title":"Top 10"}},
			{"type":"song","result":{"id":1,"title":"Creep","url":"x","primary_artist":{"name":"Radiohead"}}}
		]}}`
	})
	c := New("test-token", WithBaseURL(server.URL))

	hits, err := c.Search(context.Background(), "creep")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(hits) != 1 || hits[0].Artist != "Radiohead" || hits[0].ID != 1 {
		t.Errorf("Search() = %+v", hits)
	}
}

func TestClient_RateLimitRetry(t *testing.T) {
	var requestCount atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Fail first 2 requests with rate limit, succeed on 3rd
		if requestCount.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"response":{"hits":[]}}`)
	}))
	defer server.Close()

	c := New("test-token", WithBaseURL(server.URL))
	c.delays = []time.Duration{time.Millisecond, time.Millisecond, time.Millisecond}

	if _, err := c.Search(context.Background(), "q"); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if count := requestCount.Load(); count != 3 {
		t.Errorf("Expected 3 requests, got %d", count)
	}
}

func TestClient_RateLimitExhausted(t *testing.T) {
	var requestCount atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestCount.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := New("test-token", WithBaseURL(server.URL))
	c.delays = []time.Duration{time.Millisecond, time.Millisecond, time.Millisecond}

	_, err := c.Search(context.Background(), "q")
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("Search() error = %v, want ErrRateLimited", err)
	}

	// 1 initial + 3 retries
	if count := requestCount.Load(); count != 4 {
		t.Errorf("Expected 4 requests, got %d", count)
	}
}

func TestNew(t *testing.T) {
	c := New("tok")
	if c.baseURL != defaultBaseURL {
		t.Errorf("baseURL = %s, want %s", c.baseURL, defaultBaseURL)
	}
	if c.Name() != "genius" {
		t.Errorf("Name() = %s", c.Name())
	}
	var _ lyrics.NamedFetcher = c
}
