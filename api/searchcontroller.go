package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"newsdash/export"
	"newsdash/filter"
	"newsdash/orchestrator"
	"newsdash/rssfeeds"
	"newsdash/search"
	"newsdash/types"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// SearchResponse is the JSON body of GET /api/search
type SearchResponse struct {
	RunID       string                        `json:"run_id"`
	Keyword     string                        `json:"keyword"`
	Empty       bool                          `json:"empty"`
	EmptyReason string                        `json:"empty_reason,omitempty"`
	Counts      orchestrator.Counts           `json:"counts"`
	Providers   []orchestrator.ProviderReport `json:"providers"`
	Failures    []orchestrator.RecordFailure  `json:"failures,omitempty"`
	Records     []types.Record                `json:"records"`
}

// RegisterSearchRoutes registers search-related endpoints.
func (s *Server) RegisterSearchRoutes(g *gin.RouterGroup) {
	g.GET("/search", s.handleSearch)
	g.GET("/providers", s.handleProviders)
}

// handleSearch runs one query.
// GET /api/search?q=&start=&end=&domains=&fetch=&summarize=&sort=newest&max=&format=json|csv
func (s *Server) handleSearch(c *gin.Context) {
	q, opts, err := s.parseSearch(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	format := strings.ToLower(c.DefaultQuery("format", "json"))
	if format != "json" && format != "csv" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be json or csv"})
		return
	}

	res, err := s.searcher.Search(c.Request.Context(), q, opts)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, types.ErrEmptyQuery) {
			status = http.StatusBadRequest
		}
		log.Error().Err(err).Str("keyword", q.Keyword).Msg("search failed")
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	if format == "csv" {
		var buf bytes.Buffer
		if err := export.WriteCSV(&buf, res.Records, export.CSVOptions{BOM: true}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="newsdash-%s.csv"`, res.RunID))
		c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
		return
	}

	records := res.Records
	if records == nil {
		records = []types.Record{}
	}
	c.JSON(http.StatusOK, SearchResponse{
		RunID:       res.RunID,
		Keyword:     q.Keyword,
		Empty:       res.Empty(),
		EmptyReason: res.EmptyReason,
		Counts:      res.Counts,
		Providers:   res.Providers,
		Failures:    res.Failures,
		Records:     records,
	})
}

// parseSearch maps query parameters onto a provider query and pipeline options,
// starting from the configured defaults
func (s *Server) parseSearch(c *gin.Context) (search.Query, orchestrator.Options, error) {
	opts := orchestrator.OptionsFrom(s.cfg.Pipeline)
	q := orchestrator.QueryFrom(s.cfg.Query, strings.TrimSpace(c.Query("q")), nil, nil)
	if q.Keyword == "" {
		return q, opts, types.ErrEmptyQuery
	}

	for _, p := range []struct {
		name string
		dst  **time.Time
	}{{"start", &q.Start}, {"end", &q.End}} {
		if v := c.Query(p.name); v != "" {
			d, err := filter.ParseDay(v)
			if err != nil {
				return q, opts, err
			}
			*p.dst = &d
		}
	}
	if q.Start != nil && q.End != nil && q.Start.After(*q.End) {
		q.Start, q.End = q.End, q.Start
	}

	if v := c.Query("domains"); v != "" {
		opts.Criteria.Domains = filter.NewSet(strings.Split(v, ","))
	}
	if v := c.Query("publishers"); v != "" {
		opts.Criteria.Publishers = filter.NewSet(strings.Split(v, ","))
	}

	var err error
	if opts.EnableFetch, err = boolParam(c, "fetch", opts.EnableFetch); err != nil {
		return q, opts, err
	}
	if opts.EnableSummarize, err = boolParam(c, "summarize", opts.EnableSummarize); err != nil {
		return q, opts, err
	}
	if v := c.Query("sort"); v != "" {
		opts.SortNewest = v == "newest"
	}
	if v := c.Query("max"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return q, opts, fmt.Errorf("max must be a positive integer")
		}
		q.MaxResults = n
	}
	if v := c.Query("lang"); v != "" {
		q.Language = v
	}
	if v := c.Query("region"); v != "" {
		q.Region = v
	}
	return q, opts, nil
}

func boolParam(c *gin.Context, name string, def bool) (bool, error) {
	v := c.Query(name)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, fmt.Errorf("%s must be true or false", name)
	}
	return b, nil
}

// presetInfo is one feed preset in GET /api/providers
type presetInfo struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// handleProviders lists the configured providers and the known feed presets
func (s *Server) handleProviders(c *gin.Context) {
	presets := make([]presetInfo, 0, len(rssfeeds.FeedPresets))
	for _, key := range rssfeeds.SortedPresetNames() {
		p := rssfeeds.FeedPresets[key]
		presets = append(presets, presetInfo{Key: key, Name: p.Name, URL: p.URL})
	}
	c.JSON(http.StatusOK, gin.H{
		"providers":    s.searcher.ProviderNames(),
		"feed_presets": presets,
	})
}
