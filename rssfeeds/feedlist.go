package rssfeeds

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"newsdash/config"
	"newsdash/normalizer"
	"newsdash/search"
	types "newsdash/types"

	"github.com/rs/zerolog/log"
)

// FeedListName is the provider name recorded on user feed records
const FeedListName = "rss"

// FeedList scans a fixed set of RSS feeds for entries matching the keyword
type FeedList struct {
	fetcher    *FeedFetcher
	feeds      []string
	maxPerFeed int
}

// NewFeedList creates the provider. Feeds may be preset names or URLs.
func NewFeedList(fetcher *FeedFetcher, feeds []string, maxPerFeed int) *FeedList {
	if fetcher == nil {
		fetcher = NewFeedFetcher(nil, "")
	}
	if maxPerFeed <= 0 {
		maxPerFeed = config.MaxPerFeed
	}
	return &FeedList{fetcher: fetcher, feeds: ResolveFeeds(feeds), maxPerFeed: maxPerFeed}
}

func (l *FeedList) Name() string { return FeedListName }

// Feeds returns the resolved feed URLs
func (l *FeedList) Feeds() []string {
	return l.feeds
}

// Search scans the first maxPerFeed entries of each feed and keeps those whose
// title or description contains the keyword. A failing feed is skipped; the
// provider fails only when every feed failed.
func (l *FeedList) Search(ctx context.Context, q search.Query) ([]types.RawItem, error) {
	keyword := strings.ToLower(strings.TrimSpace(q.Keyword))
	var (
		items []types.RawItem
		errs  []error
	)

	for _, feedURL := range l.feeds {
		if q.MaxResults > 0 && len(items) >= q.MaxResults {
			break
		}
		if err := ctx.Err(); err != nil {
			return items, err
		}

		entries, err := l.fetcher.FetchFeed(ctx, feedURL, FeedListName, l.maxPerFeed)
		if err != nil {
			log.Warn().Err(err).Str("provider", FeedListName).Str("url", feedURL).Msg("skipping feed")
			errs = append(errs, fmt.Errorf("%s: %w", feedURL, err))
			continue
		}

		for _, e := range entries {
			haystack := strings.ToLower(e.Title + " " + e.Description)
			if keyword != "" && !strings.Contains(haystack, keyword) {
				continue
			}
			// the article's domain names the publisher; the feed title covers links without one
			if normalizer.Domain(e.Link) == "" {
				e.SourceTitle = e.FeedTitle
			}
			items = append(items, e)
			if q.MaxResults > 0 && len(items) >= q.MaxResults {
				break
			}
		}
	}

	if len(l.feeds) > 0 && len(errs) == len(l.feeds) {
		return nil, errors.Join(errs...)
	}
	return items, nil
}
