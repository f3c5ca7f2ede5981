package lyrics

import (
	"context"
	"errors"
	"fmt"
)

// NamedFetcher is a Fetcher with a provider name, recorded in the cache.
type NamedFetcher interface {
	Fetcher
	Name() string
}

// Chain tries each provider in order and returns the first hit.
type Chain struct {
	providers []NamedFetcher
}

// NewChain creates a Chain over the given providers.
func NewChain(providers ...NamedFetcher) *Chain {
	return &Chain{providers: providers}
}

// Name returns "chain".
func (c *Chain) Name() string {
	return "chain"
}

// Fetch implements Fetcher.
func (c *Chain) Fetch(ctx context.Context, artist, title string) (string, error) {
	text, _, err := c.FetchWithSource(ctx, artist, title)
	return text, err
}

// FetchWithSource returns the lyrics and the name of the provider that had them.
// It returns ErrNotFound only when every provider reported a miss; otherwise
// the provider errors are joined.
func (c *Chain) FetchWithSource(ctx context.Context, artist, title string) (string, string, error) {
	var errs []error
	for _, p := range c.providers {
		if err := ctx.Err(); err != nil {
			return "", "", err
		}
		text, err := p.Fetch(ctx, artist, title)
		if err == nil {
			return text, p.Name(), nil
		}
		if !errors.Is(err, ErrNotFound) {
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
		}
	}
	if len(errs) > 0 {
		return "", "", errors.Join(errs...)
	}
	return "", "", ErrNotFound
}
