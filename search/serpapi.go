package search

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"newsdash/types"

	"github.com/rs/zerolog/log"
	g "github.com/serpapi/google-search-results-golang"
)

// SerpAPIName is the provider name recorded on SerpApi records
const SerpAPIName = "serpapi"

// serpSearchFunc runs one SerpApi request and returns the decoded JSON
type serpSearchFunc func(params map[string]string, apiKey string) (map[string]interface{}, error)

func defaultSerpSearch(params map[string]string, apiKey string) (map[string]interface{}, error) {
	search := g.NewGoogleSearch(params, apiKey)
	results, err := search.GetJSON()
	if err != nil {
		return nil, err
	}
	return map[string]interface{}(results), nil
}

// SerpAPI searches Google News through SerpApi
type SerpAPI struct {
	apiKey string
	search serpSearchFunc
}

// NewSerpAPI creates a new SerpApi provider
func NewSerpAPI(apiKey string) *SerpAPI {
	return &SerpAPI{apiKey: apiKey, search: defaultSerpSearch}
}

func (c *SerpAPI) Name() string { return SerpAPIName }

// Search performs a Google News search (tbm=nws) and returns news_results
func (c *SerpAPI) Search(ctx context.Context, q Query) ([]types.RawItem, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("SerpApi API key is not set")
	}

	parameter := map[string]string{
		"engine": "google",
		"tbm":    "nws",
		"q":      q.Keyword,
	}
	if q.Language != "" {
		parameter["hl"] = q.Language
	}
	if q.Region != "" {
		parameter["gl"] = strings.ToLower(q.Region)
	}
	if q.MaxResults > 0 {
		parameter["num"] = strconv.Itoa(min(q.MaxResults, 100))
	}
	if tbs := dateRangeTBS(q); tbs != "" {
		parameter["tbs"] = tbs
	}

	log.Debug().Str("provider", SerpAPIName).Str("query", q.Keyword).Msg("searching")

	type outcome struct {
		results map[string]interface{}
		err     error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := c.search(parameter, c.apiKey)
		done <- outcome{res, err}
	}()

	var out outcome
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case out = <-done:
	}
	if out.err != nil {
		return nil, fmt.Errorf("serpapi search failed: %w", out.err)
	}
	if msg, ok := out.results["error"].(string); ok && msg != "" {
		return nil, fmt.Errorf("serpapi search failed: %s", msg)
	}

	newsResults, ok := out.results["news_results"].([]interface{})
	if !ok {
		return []types.RawItem{}, nil
	}

	items := make([]types.RawItem, 0, len(newsResults))
	for i, entry := range newsResults {
		res, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		hit := types.SearchHit{
			Engine:   SerpAPIName,
			Title:    stringField(res, "title"),
			Link:     stringField(res, "link"),
			Snippet:  stringField(res, "snippet"),
			Date:     stringField(res, "date"),
			Source:   stringField(res, "source"),
			Position: i + 1,
		}
		if p, ok := res["position"].(float64); ok {
			hit.Position = int(p)
		}
		items = append(items, hit)
		if q.MaxResults > 0 && len(items) >= q.MaxResults {
			break
		}
	}
	return items, nil
}

// dateRangeTBS builds Google's custom date range parameter
func dateRangeTBS(q Query) string {
	if q.Start == nil && q.End == nil {
		return ""
	}
	parts := []string{"cdr:1"}
	if q.Start != nil {
		parts = append(parts, "cd_min:"+q.Start.Format("1/2/2006"))
	}
	if q.End != nil {
		parts = append(parts, "cd_max:"+q.End.Format("1/2/2006"))
	}
	return strings.Join(parts, ",")
}

func stringField(m map[string]interface{}, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case map[string]interface{}:
		// google_news style results nest the outlet as {"name": ...}
		if name, ok := v["name"].(string); ok {
			return name
		}
	}
	return ""
}
