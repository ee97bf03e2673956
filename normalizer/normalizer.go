// Package normalizer turns provider-specific raw items into canonical records.
package normalizer

import (
	"fmt"
	"html"
	"strings"
	"time"
	"unicode/utf8"

	"newsdash/types"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
)

const (
	// PlaceholderTitle is used when a provider supplies no title
	PlaceholderTitle = "(untitled)"

	// maxSnippetRunes caps snippet text taken from feed descriptions
	maxSnippetRunes = 500
)

// Normalizer converts raw items. It has no side effects.
type Normalizer struct {
	loc *time.Location
}

// New returns a Normalizer that reads zone-less date text in loc.
func New(loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.UTC
	}
	return &Normalizer{loc: loc}
}

var defaultNormalizer = New(time.UTC)

// Normalize converts one raw item using UTC for zone-less dates.
func Normalize(item types.RawItem) (types.Record, error) {
	return defaultNormalizer.Normalize(item)
}

// Normalize converts one raw item into a Record. It returns ErrMalformedItem
// when no usable URL can be extracted.
func (n *Normalizer) Normalize(item types.RawItem) (types.Record, error) {
	var (
		rec     types.Record
		rawURL  string
		dateTxt string
	)

	switch it := item.(type) {
	case types.SearchHit:
		rawURL = it.Link
		rec.Title = it.Title
		rec.Publisher = it.Source
		rec.Snippet = cleanText(it.Snippet)
		dateTxt = it.Date
	case *types.SearchHit:
		return n.Normalize(*it)
	case types.FeedItem:
		rawURL = it.Link
		rec.Title = it.Title
		rec.Publisher = it.SourceTitle
		rec.Snippet = htmlToText(it.Description)
		switch {
		case it.Published != nil:
			rec.PublishedAt = copyTime(*it.Published)
		case it.Updated != nil:
			rec.PublishedAt = copyTime(*it.Updated)
		default:
			dateTxt = it.DateText
		}
	case *types.FeedItem:
		return n.Normalize(*it)
	case types.APIArticle:
		rawURL = it.URL
		rec.Title = it.Title
		rec.Publisher = it.SourceName
		rec.Snippet = cleanText(it.Description)
		dateTxt = it.PublishedAt
	case *types.APIArticle:
		return n.Normalize(*it)
	case nil:
		return types.Record{}, fmt.Errorf("%w: nil item", types.ErrMalformedItem)
	default:
		return types.Record{}, fmt.Errorf("%w: unknown item type %T", types.ErrMalformedItem, item)
	}

	u, err := NormalizeURL(rawURL)
	if err != nil {
		return types.Record{}, fmt.Errorf("%w: %v", types.ErrMalformedItem, err)
	}
	rec.URL = u
	rec.Source = item.Provider()

	rec.Title = cleanText(rec.Title)
	if rec.Title == "" {
		rec.Title = PlaceholderTitle
	}
	rec.Publisher = cleanText(rec.Publisher)
	if rec.Publisher == "" {
		rec.Publisher = Domain(u)
	}
	if rec.PublishedAt == nil {
		rec.PublishedAt = ParseDate(dateTxt, n.loc)
	}
	rec.Snippet = truncateRunes(rec.Snippet, maxSnippetRunes)

	return rec, nil
}

// NormalizeAll converts a batch in order, dropping malformed items.
// It returns the records and the number of items dropped.
func (n *Normalizer) NormalizeAll(items []types.RawItem) ([]types.Record, int) {
	records := make([]types.Record, 0, len(items))
	dropped := 0
	for _, item := range items {
		rec, err := n.Normalize(item)
		if err != nil {
			dropped++
			log.Debug().Err(err).Str("stage", "normalize").Msg("dropped item")
			continue
		}
		records = append(records, rec)
	}
	return records, dropped
}

// cleanText unescapes HTML entities and collapses whitespace
func cleanText(s string) string {
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}

// htmlToText extracts visible text from a feed description that may contain markup
func htmlToText(s string) string {
	if !strings.Contains(s, "<") {
		return cleanText(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return cleanText(s)
	}
	return cleanText(doc.Text())
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n])) + "…"
}

func copyTime(t time.Time) *time.Time {
	return &t
}
