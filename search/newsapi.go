package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"newsdash/config"
	"newsdash/types"

	"github.com/rs/zerolog/log"
)

const (
	// NewsAPIName is the provider name recorded on NewsAPI records
	NewsAPIName = "newsapi"

	newsAPIURL = "https://newsapi.org/v2/everything"

	// removedTitle marks articles NewsAPI has withdrawn
	removedTitle = "[Removed]"
)

// NewsAPI is a newsapi.org /v2/everything client
type NewsAPI struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewNewsAPI creates a new NewsAPI client
func NewNewsAPI(apiKey string) *NewsAPI {
	return &NewsAPI{
		apiKey:  apiKey,
		baseURL: newsAPIURL,
		client:  &http.Client{Timeout: config.ProviderTimeout},
	}
}

// WithBaseURL points the client at another endpoint
func (c *NewsAPI) WithBaseURL(u string) *NewsAPI {
	c.baseURL = u
	return c
}

// newsAPIResponse represents the NewsAPI response body
type newsAPIResponse struct {
	Status       string           `json:"status"`
	TotalResults int              `json:"totalResults"`
	Articles     []newsAPIArticle `json:"articles"`
	Code         string           `json:"code,omitempty"`
	Message      string           `json:"message,omitempty"`
}

type newsAPIArticle struct {
	Source struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
}

func (c *NewsAPI) Name() string { return NewsAPIName }

// Search queries /v2/everything sorted by publish time
func (c *NewsAPI) Search(ctx context.Context, q Query) ([]types.RawItem, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("newsapi key is not set")
	}

	pageSize := q.MaxResults
	if pageSize <= 0 || pageSize > config.NewsAPIMaxPageSize {
		pageSize = config.NewsAPIMaxPageSize
	}

	params := url.Values{}
	params.Set("q", q.Keyword)
	params.Set("pageSize", strconv.Itoa(pageSize))
	params.Set("sortBy", "publishedAt")
	if q.Language != "" {
		params.Set("language", q.Language)
	}
	if q.Start != nil {
		params.Set("from", q.Start.Format("2006-01-02"))
	}
	if q.End != nil {
		params.Set("to", q.End.Format("2006-01-02"))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	log.Debug().Str("provider", NewsAPIName).Str("query", q.Keyword).Int("page_size", pageSize).Msg("searching")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var parsed newsAPIResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("api error: %d: failed to decode response: %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || parsed.Status != "ok" {
		return nil, fmt.Errorf("api error: %d %s: %s", resp.StatusCode, parsed.Code, parsed.Message)
	}

	items := make([]types.RawItem, 0, len(parsed.Articles))
	for _, a := range parsed.Articles {
		if a.Title == removedTitle {
			continue
		}
		items = append(items, types.APIArticle{
			API:         NewsAPIName,
			Title:       a.Title,
			URL:         a.URL,
			Description: a.Description,
			PublishedAt: a.PublishedAt,
			SourceName:  a.Source.Name,
		})
		if len(items) >= pageSize {
			break
		}
	}
	return items, nil
}
