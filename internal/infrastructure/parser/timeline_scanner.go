package parser

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"TweetSentry/internal/domain"
	"TweetSentry/internal/search"
)

const tweetDateLayout = "Jan 2, 2006 · 3:04 PM UTC"

var statusIDExpr = regexp.MustCompile(`/status/(\d+)`)

// TimelineScanner crawls Nitter-style search result pages and extracts
// tweets. Mirrors render the newest tweets first; the scanner preserves
// that order.
type TimelineScanner struct {
	client   *http.Client
	maxPages int
}

// NewTimelineScanner wires an HTTP client; pagination defaults to 3 pages.
func NewTimelineScanner(client *http.Client) *TimelineScanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &TimelineScanner{client: client, maxPages: 3}
}

// Name identifies the strategy inside the registry.
func (t *TimelineScanner) Name() string {
	return "timeline"
}

// Search walks the result pages for the query, following the show-more
// cursor until it runs out or the page budget is spent.
func (t *TimelineScanner) Search(ctx context.Context, req search.Request) ([]domain.Tweet, error) {
	if req.URL == "" {
		return nil, fmt.Errorf("no search url provided for site %s", req.SiteName)
	}

	pageURL, err := buildSearchURL(req.URL, req.Query)
	if err != nil {
		return nil, fmt.Errorf("site %s: %w", req.SiteName, err)
	}

	results := make([]domain.Tweet, 0)
	seen := map[string]struct{}{}

	for page := 0; page < t.maxPages && pageURL != ""; page++ {
		doc, err := t.fetchDocument(ctx, pageURL)
		if err != nil {
			return nil, fmt.Errorf("site %s: %w", req.SiteName, err)
		}

		tweets := extractTweets(doc, req.URL)
		for _, tweet := range tweets {
			if _, ok := seen[tweet.ID]; ok {
				continue
			}
			seen[tweet.ID] = struct{}{}
			results = append(results, tweet)
		}

		pageURL, err = nextPageURL(doc, pageURL)
		if err != nil {
			break
		}
	}

	return results, nil
}

func (t *TimelineScanner) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "TweetSentry/1.0")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mirror returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

func extractTweets(doc *goquery.Document, baseURL string) []domain.Tweet {
	var collected []domain.Tweet

	doc.Find(".timeline-item").Each(func(i int, item *goquery.Selection) {
		tweet, err := parseItem(item, baseURL)
		if err != nil {
			return
		}
		collected = append(collected, tweet)
	})

	return collected
}

func parseItem(item *goquery.Selection, baseURL string) (domain.Tweet, error) {
	href, _ := item.Find("a.tweet-link").First().Attr("href")
	if href == "" {
		return domain.Tweet{}, fmt.Errorf("item has no tweet link")
	}

	match := statusIDExpr.FindStringSubmatch(href)
	if match == nil {
		return domain.Tweet{}, fmt.Errorf("no status id in %s", href)
	}

	link := href
	if !strings.HasPrefix(link, "http") {
		link = mirrorRoot(baseURL) + link
	}
	link = strings.TrimSuffix(link, "#m")

	content := strings.TrimSpace(item.Find(".tweet-content").First().Text())

	postedAt := time.Now().UTC()
	if title, ok := item.Find(".tweet-date a").First().Attr("title"); ok {
		if parsed, err := time.Parse(tweetDateLayout, title); err == nil {
			postedAt = parsed
		}
	}

	return domain.Tweet{
		ID:       match[1],
		Content:  content,
		URL:      link,
		PostedAt: postedAt,
	}, nil
}

func nextPageURL(doc *goquery.Document, current string) (string, error) {
	href, ok := doc.Find(".show-more a").Last().Attr("href")
	if !ok {
		return "", fmt.Errorf("no show-more link")
	}

	base, err := url.Parse(current)
	if err != nil {
		return "", fmt.Errorf("invalid page url %s: %w", current, err)
	}

	next, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("invalid show-more href %s: %w", href, err)
	}

	return base.ResolveReference(next).String(), nil
}

func buildSearchURL(base, query string) (string, error) {
	parsed, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid search url %s: %w", base, err)
	}

	values := parsed.Query()
	values.Set("f", "tweets")
	values.Set("q", query)
	parsed.RawQuery = values.Encode()
	return parsed.String(), nil
}

func mirrorRoot(baseURL string) string {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return strings.TrimSuffix(baseURL, "/")
	}
	return parsed.Scheme + "://" + parsed.Host
}
