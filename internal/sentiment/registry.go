package sentiment

import "fmt"

// Registry holds one constructed provider per Kind.
type Registry struct {
	providers map[Kind]Provider
}

// NewRegistry constructs every bundled provider.
func NewRegistry() (*Registry, error) {
	polarity, err := NewPolarityScorer()
	if err != nil {
		return nil, err
	}
	emotion, err := NewEmotionClassifier()
	if err != nil {
		return nil, err
	}
	return NewRegistryWith(NewLexicon(), polarity, emotion), nil
}

// NewRegistryWith builds a Registry from the given providers. A later
// provider replaces an earlier one of the same Kind.
func NewRegistryWith(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[Kind]Provider, len(providers))}
	for _, p := range providers {
		r.providers[p.Kind()] = p
	}
	return r
}

// Get returns the provider for k.
func (r *Registry) Get(k Kind) (Provider, error) {
	p, ok := r.providers[k]
	if !ok {
		return nil, fmt.Errorf("%w: %s not registered", ErrUnknownKind, k)
	}
	return p, nil
}
