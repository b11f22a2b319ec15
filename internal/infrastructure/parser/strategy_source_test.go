package parser

import (
	"context"
	"testing"
	"time"

	"TweetSentry/internal/config"
	"TweetSentry/internal/domain"
	"TweetSentry/internal/search"
)

type stubSearcher struct {
	name   string
	tweets []domain.Tweet
}

func (s *stubSearcher) Name() string { return s.name }

func (s *stubSearcher) Search(ctx context.Context, req search.Request) ([]domain.Tweet, error) {
	return s.tweets, nil
}

func timedTweet(id string, minute int) domain.Tweet {
	return domain.Tweet{
		ID:       id,
		Content:  "tweet " + id,
		URL:      "https://example.org/u/status/" + id,
		PostedAt: time.Date(2024, time.January, 1, 10, minute, 0, 0, time.UTC),
	}
}

func TestFetchQueryOrdersAcrossMirrors(t *testing.T) {
	t.Parallel()

	// Each mirror is newest-first on its own; their timelines interleave.
	reg := search.NewRegistry()
	reg.Register(&stubSearcher{name: "first", tweets: []domain.Tweet{
		timedTweet("D", 40),
		timedTweet("A", 10),
	}})
	reg.Register(&stubSearcher{name: "second", tweets: []domain.Tweet{
		timedTweet("C", 30),
		timedTweet("B", 20),
	}})

	source := NewStrategySource(reg, []config.SiteConfig{
		{Name: "m1", Scanner: "first", URL: "https://m1.example.org/search"},
		{Name: "m2", Scanner: "second", URL: "https://m2.example.org/search"},
	}, nil)

	got, err := source.FetchQuery(context.Background(), "chatgpt since:2024-01-01")
	if err != nil {
		t.Fatalf("FetchQuery error: %v", err)
	}

	want := []string{"D", "C", "B", "A"}
	if len(got) != len(want) {
		t.Fatalf("tweets = %d, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d = %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestFetchQueryDeduplicatesAcrossMirrors(t *testing.T) {
	t.Parallel()

	reg := search.NewRegistry()
	reg.Register(&stubSearcher{name: "first", tweets: []domain.Tweet{timedTweet("A", 10)}})
	reg.Register(&stubSearcher{name: "second", tweets: []domain.Tweet{timedTweet("A", 10)}})

	source := NewStrategySource(reg, []config.SiteConfig{
		{Name: "m1", Scanner: "first", URL: "https://m1.example.org/search"},
		{Name: "m2", Scanner: "second", URL: "https://m2.example.org/search"},
	}, nil)

	got, err := source.FetchQuery(context.Background(), "chatgpt since:2024-01-01")
	if err != nil {
		t.Fatalf("FetchQuery error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("tweets = %d, want 1 after dedupe", len(got))
	}
}

func TestFetchQueryUnknownScannerFails(t *testing.T) {
	t.Parallel()

	source := NewStrategySource(search.NewRegistry(), []config.SiteConfig{
		{Name: "m1", Scanner: "missing", URL: "https://m1.example.org/search"},
	}, nil)

	if _, err := source.FetchQuery(context.Background(), "chatgpt"); err == nil {
		t.Fatal("expected error for unregistered scanner")
	}
}
