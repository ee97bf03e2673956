package rssfeeds

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
)

// FeedConfig represents the configuration for a single RSS feed
type FeedConfig struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// FeedPresets maps friendly keys to RSS feed configurations
var FeedPresets = map[string]FeedConfig{
	"hankyung":    {Name: "한국경제", URL: "https://www.hankyung.com/feed/all"},
	"mk":          {Name: "매일경제", URL: "https://www.mk.co.kr/rss/30000001/"},
	"koreatimes":  {Name: "The Korea Times", URL: "https://www.koreatimes.co.kr/www/rss/rss.xml"},
	"koreaherald": {Name: "The Korea Herald", URL: "https://www.koreaherald.com/rss/020000000000.xml"},
	"cna":         {Name: "Channel News Asia", URL: "https://www.channelnewsasia.com/api/v1/rss-outbound-feed?_format=xml"},
	"st":          {Name: "Straits Times", URL: "https://www.straitstimes.com/news/singapore/rss.xml"},
	"hn":          {Name: "Hacker News", URL: "https://hnrss.org/newest"},
	"tr":          {Name: "Technology Review", URL: "https://www.technologyreview.com/feed/"},
}

// DefaultFeeds are the presets used when no feeds are configured
var DefaultFeeds = []string{"hankyung", "mk", "koreatimes", "koreaherald"}

// ResolveFeedURL resolves a feed identifier to a URL.
// If the input is a preset name, returns the corresponding URL,
// otherwise returns the input as-is (assuming it's a direct URL).
func ResolveFeedURL(feedInput string) string {
	if preset, exists := FeedPresets[strings.ToLower(strings.TrimSpace(feedInput))]; exists {
		return preset.URL
	}
	return strings.TrimSpace(feedInput)
}

// SortedPresetNames returns preset names alphabetically for consistent output
func SortedPresetNames() []string {
	names := make([]string, 0, len(FeedPresets))
	for name := range FeedPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadFeedsFile reads one feed per line. Blank lines and lines starting with # are skipped.
// A missing file is not an error.
func LoadFeedsFile(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open feeds file: %w", err)
	}
	defer f.Close()

	var feeds []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		feeds = append(feeds, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read feeds file: %w", err)
	}
	return feeds, nil
}

// ResolveFeeds resolves presets, drops duplicates and keeps first-seen order
func ResolveFeeds(inputs ...[]string) []string {
	seen := make(map[string]struct{})
	var urls []string
	for _, list := range inputs {
		for _, in := range list {
			u := ResolveFeedURL(in)
			if u == "" {
				continue
			}
			if _, ok := seen[u]; ok {
				continue
			}
			seen[u] = struct{}{}
			urls = append(urls, u)
		}
	}
	return urls
}
