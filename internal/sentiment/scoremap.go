package sentiment

import "fmt"

// ScoreMap is an insertion-ordered mapping from song name to Record.
// All records in a map share one Kind.
type ScoreMap struct {
	kind    Kind
	names   []string
	records map[string]Record
}

// NewScoreMap creates an empty ScoreMap for records of the given kind.
func NewScoreMap(kind Kind) *ScoreMap {
	return &ScoreMap{kind: kind, records: make(map[string]Record)}
}

// Kind returns the record kind stored in the map.
func (m *ScoreMap) Kind() Kind {
	return m.kind
}

// Set stores a record. Setting an existing name replaces the record in place.
func (m *ScoreMap) Set(name string, r Record) error {
	if r == nil || r.Kind() != m.kind {
		return fmt.Errorf("%w: %s map", ErrKindMismatch, m.kind)
	}
	if _, ok := m.records[name]; !ok {
		m.names = append(m.names, name)
	}
	m.records[name] = r
	return nil
}

// Get returns the record for a song name.
func (m *ScoreMap) Get(name string) (Record, bool) {
	r, ok := m.records[name]
	return r, ok
}

// Names returns song names in first-seen order.
func (m *ScoreMap) Names() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Len returns the number of scored songs.
func (m *ScoreMap) Len() int {
	return len(m.names)
}

// Each calls fn for every record in first-seen order.
func (m *ScoreMap) Each(fn func(name string, r Record)) {
	for _, name := range m.names {
		fn(name, m.records[name])
	}
}
