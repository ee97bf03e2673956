// Package search defines the provider contract and the keyed news/search API clients.
package search

import (
	"context"
	"time"

	"newsdash/types"
)

// Query is what every provider receives
type Query struct {
	Keyword string
	// Start and End are optional calendar-day hints; providers may ignore them
	Start *time.Time
	End   *time.Time
	// Language and Region are ISO codes, e.g. "ko" and "KR"
	Language   string
	Region     string
	MaxResults int
}

// Provider is a source of raw items for a keyword query
type Provider interface {
	// Name returns the provider identifier (e.g., "newsapi", "google_news_rss")
	Name() string

	// Search returns zero or more raw items. An error means the provider is unavailable.
	Search(ctx context.Context, q Query) ([]types.RawItem, error)
}

// ProviderFunc adapts a function to Provider
type ProviderFunc struct {
	ProviderName string
	Fn           func(ctx context.Context, q Query) ([]types.RawItem, error)
}

func (p ProviderFunc) Name() string { return p.ProviderName }

func (p ProviderFunc) Search(ctx context.Context, q Query) ([]types.RawItem, error) {
	return p.Fn(ctx, q)
}
