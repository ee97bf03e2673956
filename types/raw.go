package types

import "time"

// ProviderKind tags the shape of a raw provider item
type ProviderKind string

const (
	KindSearch ProviderKind = "search"
	KindFeed   ProviderKind = "rss"
	KindAPI    ProviderKind = "api"
)

// RawItem is a provider-specific result before normalization.
// The set of implementations is closed: SearchHit, FeedItem and APIArticle.
type RawItem interface {
	Kind() ProviderKind
	// Provider is the originating provider name, used as Record.Source
	Provider() string
	rawItem()
}

// SearchHit is one result from a search engine
type SearchHit struct {
	Engine   string `json:"engine"`
	Title    string `json:"title"`
	Link     string `json:"link"`
	Snippet  string `json:"snippet,omitempty"`
	Date     string `json:"date,omitempty"`
	Source   string `json:"source,omitempty"`
	Position int    `json:"position,omitempty"`
}

func (SearchHit) Kind() ProviderKind { return KindSearch }
func (h SearchHit) Provider() string { return h.Engine }
func (SearchHit) rawItem()           {}

// FeedItem is one entry of an RSS or Atom feed
type FeedItem struct {
	Feed        string     `json:"feed"`
	FeedTitle   string     `json:"feed_title,omitempty"`
	Title       string     `json:"title"`
	Link        string     `json:"link"`
	Description string     `json:"description,omitempty"`
	Published   *time.Time `json:"published,omitempty"`
	Updated     *time.Time `json:"updated,omitempty"`
	DateText    string     `json:"date_text,omitempty"`
	SourceTitle string     `json:"source_title,omitempty"`
}

func (FeedItem) Kind() ProviderKind { return KindFeed }
func (f FeedItem) Provider() string { return f.Feed }
func (FeedItem) rawItem()           {}

// APIArticle is one article returned by a news API
type APIArticle struct {
	API         string `json:"api"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
	SourceName  string `json:"source_name,omitempty"`
}

func (APIArticle) Kind() ProviderKind { return KindAPI }
func (a APIArticle) Provider() string { return a.API }
func (APIArticle) rawItem()           {}
