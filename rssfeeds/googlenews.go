package rssfeeds

import (
	"context"
	"net/url"
	"strings"

	"newsdash/search"
	types "newsdash/types"

	"github.com/rs/zerolog/log"
)

const (
	// GoogleNewsName is the provider name recorded on Google News records
	GoogleNewsName = "google_news_rss"

	googleNewsURL = "https://news.google.com/rss/search"

	// publisherSep separates headline and outlet in Google News titles
	publisherSep = " - "
)

// GoogleNews searches the Google News RSS endpoint
type GoogleNews struct {
	fetcher *FeedFetcher
	baseURL string
}

// NewGoogleNews creates the provider on top of a feed fetcher
func NewGoogleNews(fetcher *FeedFetcher) *GoogleNews {
	if fetcher == nil {
		fetcher = NewFeedFetcher(nil, "")
	}
	return &GoogleNews{fetcher: fetcher, baseURL: googleNewsURL}
}

// WithBaseURL points the provider at another endpoint
func (g *GoogleNews) WithBaseURL(u string) *GoogleNews {
	g.baseURL = u
	return g
}

func (g *GoogleNews) Name() string { return GoogleNewsName }

// Search builds the RSS search URL and returns up to MaxResults entries
func (g *GoogleNews) Search(ctx context.Context, q search.Query) ([]types.RawItem, error) {
	feedURL := g.searchURL(q)
	log.Debug().Str("provider", GoogleNewsName).Str("url", feedURL).Msg("searching")

	entries, err := g.fetcher.FetchFeed(ctx, feedURL, GoogleNewsName, q.MaxResults)
	if err != nil {
		return nil, err
	}

	items := make([]types.RawItem, 0, len(entries))
	for _, e := range entries {
		e.Title, e.SourceTitle = SplitPublisher(e.Title)
		items = append(items, e)
	}
	return items, nil
}

func (g *GoogleNews) searchURL(q search.Query) string {
	terms := strings.TrimSpace(q.Keyword)
	if q.Start != nil {
		terms += " after:" + q.Start.Format("2006-01-02")
	}
	if q.End != nil {
		// before: is exclusive
		terms += " before:" + q.End.AddDate(0, 0, 1).Format("2006-01-02")
	}

	lang := q.Language
	if lang == "" {
		lang = "ko"
	}
	region := strings.ToUpper(q.Region)
	if region == "" {
		region = "KR"
	}

	params := url.Values{}
	params.Set("q", terms)
	params.Set("hl", lang)
	params.Set("gl", region)
	params.Set("ceid", region+":"+lang)
	return g.baseURL + "?" + params.Encode()
}

// SplitPublisher splits a "Headline - Publisher" title on its last separator
func SplitPublisher(title string) (headline, publisher string) {
	title = strings.TrimSpace(title)
	i := strings.LastIndex(title, publisherSep)
	if i <= 0 {
		return title, ""
	}
	return strings.TrimSpace(title[:i]), strings.TrimSpace(title[i+len(publisherSep):])
}
