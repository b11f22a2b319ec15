package search

import (
	"context"
	"fmt"

	"TweetSentry/internal/domain"
)

// Request carries all parameters required to execute one mirror search.
type Request struct {
	Query    string
	SiteName string
	URL      string
}

// Searcher captures a single mirror-format strategy (Nitter timeline,
// API-backed mirrors, etc.).
type Searcher interface {
	Name() string
	Search(ctx context.Context, req Request) ([]domain.Tweet, error)
}

// Registry keeps a mapping from searcher names to their implementations.
type Registry struct {
	searchers map[string]Searcher
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{searchers: map[string]Searcher{}}
}

// Register adds or replaces a searcher implementation.
func (r *Registry) Register(searcher Searcher) {
	if r.searchers == nil {
		r.searchers = map[string]Searcher{}
	}
	r.searchers[searcher.Name()] = searcher
}

// Resolve returns a searcher by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Searcher, error) {
	if searcher, ok := r.searchers[name]; ok {
		return searcher, nil
	}
	return nil, fmt.Errorf("searcher %s is not registered", name)
}
