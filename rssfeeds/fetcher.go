// Package rssfeeds provides the feed-backed providers: Google News RSS search and user RSS feeds.
package rssfeeds

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"newsdash/config"
	types "newsdash/types"

	"github.com/mmcdole/gofeed"
)

// maxFeedBytes bounds how much of a feed document is read
const maxFeedBytes = 8 << 20

// FeedFetcher downloads and parses RSS/Atom feeds
type FeedFetcher struct {
	client    *http.Client
	userAgent string
}

// NewFeedFetcher creates a fetcher. A nil client gets the provider timeout.
func NewFeedFetcher(client *http.Client, userAgent string) *FeedFetcher {
	if client == nil {
		client = &http.Client{Timeout: config.ProviderTimeout}
	}
	if userAgent == "" {
		userAgent = config.DefaultUserAgent
	}
	return &FeedFetcher{client: client, userAgent: userAgent}
}

// FetchFeed retrieves and parses an RSS/Atom feed, returning at most maxCount entries
// tagged with the given provider name.
func (f *FeedFetcher) FetchFeed(ctx context.Context, feedURL, provider string, maxCount int) ([]types.FeedItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch feed: status %d", resp.StatusCode)
	}

	feed, err := gofeed.NewParser().Parse(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	count := len(feed.Items)
	if maxCount > 0 {
		count = min(count, maxCount)
	}
	items := make([]types.FeedItem, 0, count)

	for i := 0; i < count; i++ {
		item := feed.Items[i]
		if item == nil {
			continue
		}

		// Get description/summary
		description := item.Description
		if description == "" {
			description = item.Content
		}

		items = append(items, types.FeedItem{
			Feed:        provider,
			FeedTitle:   feed.Title,
			Title:       item.Title,
			Link:        item.Link,
			Description: description,
			Published:   copyTime(item.PublishedParsed),
			Updated:     copyTime(item.UpdatedParsed),
			DateText:    item.Published,
		})
	}

	return items, nil
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
