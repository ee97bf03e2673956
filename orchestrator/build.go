package orchestrator

import (
	"fmt"
	"net/http"
	"time"

	"newsdash/config"
	"newsdash/extractor"
	"newsdash/filter"
	"newsdash/normalizer"
	"newsdash/rssfeeds"
	"newsdash/search"
	"newsdash/summarizer"

	"github.com/rs/zerolog/log"
)

// NewRegistry registers the configured providers in budget order:
// Google News RSS, NewsAPI, SerpApi, then user RSS feeds.
func NewRegistry(cfg *config.Config) (*search.Registry, error) {
	reg := search.NewRegistry()
	feeds := rssfeeds.NewFeedFetcher(&http.Client{Timeout: config.ProviderTimeout}, cfg.Fetcher.UserAgent)

	if cfg.Providers.GoogleNews {
		reg.Register(rssfeeds.NewGoogleNews(feeds))
	}
	if cfg.Providers.NewsAPIKey != "" {
		reg.Register(search.NewNewsAPI(cfg.Providers.NewsAPIKey))
	}
	if cfg.Providers.SerpAPIKey != "" {
		reg.Register(search.NewSerpAPI(cfg.Providers.SerpAPIKey))
	}

	fromFile, err := rssfeeds.LoadFeedsFile(cfg.Providers.FeedsFile)
	if err != nil {
		return nil, err
	}
	userFeeds := append(append([]string{}, cfg.Providers.Feeds...), fromFile...)
	if len(userFeeds) > 0 {
		reg.Register(rssfeeds.NewFeedList(feeds, userFeeds, cfg.Providers.MaxPerFeed))
	}

	log.Debug().Strs("providers", reg.Names()).Msg("providers registered")
	return reg, nil
}

// Build wires a pipeline from configuration
func Build(cfg *config.Config) (*Pipeline, error) {
	loc, err := cfg.Pipeline.Location()
	if err != nil {
		return nil, err
	}
	reg, err := NewRegistry(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to register providers: %w", err)
	}

	fetcher := extractor.New(extractor.ConfigFrom(cfg.Fetcher))
	summ := summarizer.New(nil, summarizer.Config{
		Sentences:    cfg.Pipeline.SummarySentences,
		Keywords:     cfg.Pipeline.Keywords,
		MinBodyChars: cfg.Pipeline.MinBodyChars,
	})
	return New(normalizer.New(loc), fetcher, summ, reg), nil
}

// OptionsFrom maps the pipeline section of the configuration
func OptionsFrom(pc config.PipelineConfig) Options {
	loc, err := pc.Location()
	if err != nil {
		loc = time.UTC
	}
	return Options{
		Criteria: filter.Criteria{
			Domains:  filter.NewSet(pc.Domains),
			Location: loc,
		},
		EnableFetch:     pc.Fetch,
		EnableSummarize: pc.Summarize,
		Workers:         pc.Workers,
		SortNewest:      pc.SortNewest,
	}
}

// QueryFrom builds a provider query from the configured defaults
func QueryFrom(qc config.QueryConfig, keyword string, start, end *time.Time) search.Query {
	return search.Query{
		Keyword:    keyword,
		Start:      start,
		End:        end,
		Language:   qc.Language,
		Region:     qc.Region,
		MaxResults: qc.MaxResults,
	}
}
