// Package lyrics retrieves, caches, and cleans song lyrics for playlist tracks.
package lyrics

import (
	"errors"
)

// ErrNotFound is returned by a Fetcher when no lyrics exist for a track.
var ErrNotFound = errors.New("lyrics not found")

// Track represents the track info needed for lyric lookup.
type Track struct {
	ID         string
	Name       string   // Song name, used as the map key
	Artist     string   // Primary artist
	Artists    []string // All credited artists
	Album      string
	DurationMs int
}

// Lyrics holds the lyric text of one song, or the missing marker.
// The zero value is Missing.
type Lyrics struct {
	text  string
	found bool
}

// Missing marks a song whose lyrics could not be retrieved.
// It is distinct from Found(""), which is a song with empty lyrics.
var Missing = Lyrics{}

// Found wraps retrieved lyric text.
func Found(text string) Lyrics {
	return Lyrics{text: text, found: true}
}

// Text returns the lyric text and whether lyrics were found.
func (l Lyrics) Text() (string, bool) {
	return l.text, l.found
}

// IsMissing reports whether l is the missing marker.
func (l Lyrics) IsMissing() bool {
	return !l.found
}

// Map is an insertion-ordered mapping from song name to lyrics.
// Setting an existing name replaces its lyrics and keeps its position.
type Map struct {
	names   []string
	entries map[string]Lyrics
}

// NewMap creates an empty Map.
func NewMap() *Map {
	return &Map{entries: make(map[string]Lyrics)}
}

// Set stores lyrics for a song name.
func (m *Map) Set(name string, l Lyrics) {
	if _, ok := m.entries[name]; !ok {
		m.names = append(m.names, name)
	}
	m.entries[name] = l
}

// Get returns the lyrics for a song name. The second result is false when the
// name was never looked up, which is different from a Missing entry.
func (m *Map) Get(name string) (Lyrics, bool) {
	l, ok := m.entries[name]
	return l, ok
}

// Names returns song names in first-seen order.
func (m *Map) Names() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Len returns the number of songs in the map.
func (m *Map) Len() int {
	return len(m.names)
}

// Each calls fn for every entry in first-seen order.
func (m *Map) Each(fn func(name string, l Lyrics)) {
	for _, name := range m.names {
		fn(name, m.entries[name])
	}
}

// MissingNames returns the names of songs without lyrics, in order.
func (m *Map) MissingNames() []string {
	var out []string
	for _, name := range m.names {
		if m.entries[name].IsMissing() {
			out = append(out, name)
		}
	}
	return out
}
