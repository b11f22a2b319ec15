package parser

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"TweetSentry/internal/config"
	"TweetSentry/internal/domain"
	"TweetSentry/internal/ports"
	"TweetSentry/internal/search"
)

// StrategySource implements TweetSource via registered search strategies,
// deduplicating tweets that several mirrors return for the same query.
type StrategySource struct {
	registry *search.Registry
	sites    []config.SiteConfig
	logger   *slog.Logger
}

var _ ports.TweetSource = (*StrategySource)(nil)

// NewStrategySource wires the search registry with config-defined mirrors.
func NewStrategySource(reg *search.Registry, sites []config.SiteConfig, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry: reg,
		sites:    sites,
		logger:   log,
	}
}

// FetchQuery iterates over configured mirrors and executes their searchers.
// The aggregate is returned newest first regardless of how many mirrors
// contributed, so consumers can rely on a single chronological order.
func (s *StrategySource) FetchQuery(ctx context.Context, query string) ([]domain.Tweet, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("search registry is not configured")
	}

	s.debug("fetch query", "sites", len(s.sites), "query", query)

	var aggregated []domain.Tweet
	seen := map[string]struct{}{}

	for _, site := range s.sites {
		s.debug("process site", "site", site.Name, "searcher", site.Scanner)
		strategy, err := s.registry.Resolve(site.Scanner)
		if err != nil {
			return nil, fmt.Errorf("site %s: %w", site.Name, err)
		}

		req := search.Request{
			Query:    query,
			SiteName: site.Name,
			URL:      site.URL,
		}

		results, err := strategy.Search(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("search site %s: %w", site.Name, err)
		}

		for _, tweet := range results {
			if _, ok := seen[tweet.ID]; ok {
				continue
			}
			seen[tweet.ID] = struct{}{}
			aggregated = append(aggregated, tweet)
		}
		s.debug("site produced tweets", "site", site.Name, "count", len(results))
	}

	sort.SliceStable(aggregated, func(i, j int) bool {
		return aggregated[i].PostedAt.After(aggregated[j].PostedAt)
	})

	s.debug("strategy source done", "total_tweets", len(aggregated))
	return aggregated, nil
}

func (s *StrategySource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
