package rssfeeds

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"newsdash/normalizer"
	"newsdash/search"
	"newsdash/types"
)

const googleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>"반도체" - Google 뉴스</title>
<item>
<title>삼성 반도체 실적 발표 - 한국경제</title>
<link>https://news.google.com/articles/abc</link>
<pubDate>Tue, 05 Mar 2024 01:00:00 GMT</pubDate>
<description>&lt;a href="https://example.com"&gt;삼성 반도체&lt;/a&gt;</description>
</item>
<item>
<title>Chip - war - Reuters</title>
<link>https://news.google.com/articles/def</link>
</item>
<item>
<title>Third</title>
<link>https://news.google.com/articles/ghi</link>
</item>
</channel>
</rss>`

const techFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>Tech Daily</title>
<item><title>AI chips surge</title><link>https://tech.example.com/1</link><description>markets</description></item>
<item><title>Weather today</title><link>https://tech.example.com/2</link><description>sunny</description></item>
<item><title>Budget news</title><link>https://tech.example.com/3</link><description>Spending on ai rises</description></item>
</channel>
</rss>`

func TestSplitPublisher(t *testing.T) {
	tests := []struct {
		in, headline, publisher string
	}{
		{"삼성 반도체 - 한국경제", "삼성 반도체", "한국경제"},
		{"Chip - war - Reuters", "Chip - war", "Reuters"},
		{"No publisher", "No publisher", ""},
		{" - Lead dash", "- Lead dash", ""},
	}
	for _, tt := range tests {
		h, p := SplitPublisher(tt.in)
		if h != tt.headline || p != tt.publisher {
			t.Errorf("SplitPublisher(%q) = (%q, %q); want (%q, %q)", tt.in, h, p, tt.headline, tt.publisher)
		}
	}
}

func TestGoogleNewsSearch(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(googleFeed))
	}))
	defer srv.Close()

	g := NewGoogleNews(NewFeedFetcher(srv.Client(), "")).WithBaseURL(srv.URL)
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	items, err := g.Search(context.Background(), search.Query{Keyword: "반도체", Start: &start, End: &end, MaxResults: 2})
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}

	for _, want := range []string{"hl=ko", "gl=KR", "ceid=KR%3Ako", "after%3A2024-03-01", "before%3A2024-03-06"} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}

	if len(items) != 2 {
		t.Fatalf("got %d items; want 2", len(items))
	}
	first := items[0].(types.FeedItem)
	if first.Title != "삼성 반도체 실적 발표" || first.SourceTitle != "한국경제" {
		t.Errorf("first = %q / %q", first.Title, first.SourceTitle)
	}
	if first.Feed != GoogleNewsName || first.Published == nil {
		t.Errorf("first feed=%q published=%v", first.Feed, first.Published)
	}
	second := items[1].(types.FeedItem)
	if second.Title != "Chip - war" || second.SourceTitle != "Reuters" {
		t.Errorf("second = %q / %q", second.Title, second.SourceTitle)
	}
}

func TestGoogleNewsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	g := NewGoogleNews(NewFeedFetcher(srv.Client(), "")).WithBaseURL(srv.URL)
	if _, err := g.Search(context.Background(), search.Query{Keyword: "x"}); err == nil {
		t.Fatalf("Search against 503 returned nil error")
	}
}

func TestFeedListSearch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/tech", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(techFeed))
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not a feed"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	l := NewFeedList(NewFeedFetcher(srv.Client(), ""), []string{srv.URL + "/broken", srv.URL + "/tech"}, 0)
	items, err := l.Search(context.Background(), search.Query{Keyword: "AI"})
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items; want 2", len(items))
	}
	norm := normalizer.New(time.UTC)
	for _, it := range items {
		fi := it.(types.FeedItem)
		if fi.Feed != FeedListName || fi.FeedTitle != "Tech Daily" {
			t.Errorf("item = %+v", fi)
		}
		rec, err := norm.Normalize(it)
		if err != nil {
			t.Fatalf("Normalize error: %v", err)
		}
		if rec.Publisher != "tech.example.com" {
			t.Errorf("Publisher = %q; want the article domain", rec.Publisher)
		}
	}
	if items[1].(types.FeedItem).Link != "https://tech.example.com/3" {
		t.Errorf("description match missing: %+v", items[1])
	}
}

func TestFeedListMatchesSubstrings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(techFeed))
	}))
	defer srv.Close()

	// "chip" is found inside "chips"; matching is not word-bounded
	l := NewFeedList(NewFeedFetcher(srv.Client(), ""), []string{srv.URL}, 0)
	items, err := l.Search(context.Background(), search.Query{Keyword: "CHIP"})
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(items) != 1 || items[0].(types.FeedItem).Link != "https://tech.example.com/1" {
		t.Fatalf("items = %+v", items)
	}
}

func TestFeedListPerFeedCapAndBudget(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(techFeed))
	}))
	defer srv.Close()

	// only the first entry of each feed is scanned
	l := NewFeedList(NewFeedFetcher(srv.Client(), ""), []string{srv.URL + "/a", srv.URL + "/b"}, 1)
	items, err := l.Search(context.Background(), search.Query{Keyword: "ai"})
	if err != nil || len(items) != 2 {
		t.Fatalf("Search = %d items, %v; want 2, nil", len(items), err)
	}

	l = NewFeedList(NewFeedFetcher(srv.Client(), ""), []string{srv.URL + "/a", srv.URL + "/b"}, 0)
	items, err = l.Search(context.Background(), search.Query{Keyword: "ai", MaxResults: 3})
	if err != nil || len(items) != 3 {
		t.Fatalf("Search = %d items, %v; want 3, nil", len(items), err)
	}
}

func TestFeedListAllFeedsFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	l := NewFeedList(NewFeedFetcher(srv.Client(), ""), []string{srv.URL + "/a", srv.URL + "/b"}, 0)
	if _, err := l.Search(context.Background(), search.Query{Keyword: "ai"}); err == nil {
		t.Fatalf("Search with every feed failing returned nil error")
	}
}

func TestResolveFeeds(t *testing.T) {
	if got := ResolveFeedURL("MK"); got != FeedPresets["mk"].URL {
		t.Errorf("ResolveFeedURL(MK) = %q", got)
	}
	if got := ResolveFeedURL("https://example.com/rss"); got != "https://example.com/rss" {
		t.Errorf("ResolveFeedURL(url) = %q", got)
	}

	got := ResolveFeeds([]string{"hn", "https://x.com/feed"}, []string{"hn", " ", "https://x.com/feed"})
	if len(got) != 2 || got[0] != FeedPresets["hn"].URL {
		t.Errorf("ResolveFeeds = %v", got)
	}
}

func TestSortedPresetNames(t *testing.T) {
	names := SortedPresetNames()
	if len(names) != len(FeedPresets) {
		t.Fatalf("got %d names; want %d", len(names), len(FeedPresets))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("names not sorted: %v", names)
		}
	}
}

func TestLoadFeedsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feeds.txt")
	content := "# my feeds\nhttps://a.com/rss\n\n  mk  \n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	feeds, err := LoadFeedsFile(path)
	if err != nil {
		t.Fatalf("LoadFeedsFile error: %v", err)
	}
	if len(feeds) != 2 || feeds[0] != "https://a.com/rss" || feeds[1] != "mk" {
		t.Errorf("feeds = %v", feeds)
	}

	feeds, err = LoadFeedsFile(filepath.Join(t.TempDir(), "missing.txt"))
	if err != nil || feeds != nil {
		t.Errorf("missing file = %v, %v; want nil, nil", feeds, err)
	}
}
