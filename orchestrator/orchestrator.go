// Package orchestrator sequences the pipeline: normalize, filter, dedupe, then
// optionally fetch and summarize each surviving record.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"newsdash/deduplication"
	"newsdash/extractor"
	"newsdash/filter"
	"newsdash/logger"
	"newsdash/normalizer"
	"newsdash/search"
	"newsdash/summarizer"
	"newsdash/types"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Stage names used in failure reports
const (
	StageFetch     = "fetch"
	StageSummarize = "summarize"
)

// Summarizer reduces body text to a summary and keywords
type Summarizer interface {
	Summarize(body string) (summarizer.Summary, error)
}

// Options are the per-call flags and filter criteria
type Options struct {
	Criteria        filter.Criteria
	EnableFetch     bool
	EnableSummarize bool
	// Workers bounds concurrent enrichment. Values below 1 mean sequential.
	Workers int
	// SortNewest orders records newest first before enrichment; undated records go last.
	SortNewest bool
}

// Counts tallies what happened to a batch
type Counts struct {
	Input      int `json:"input"`
	Malformed  int `json:"malformed"`
	Filtered   int `json:"filtered"`
	Duplicates int `json:"duplicates"`
	Fetched    int `json:"fetched"`
	Summarized int `json:"summarized"`
}

// RecordFailure is an optional stage that came back unavailable for one record
type RecordFailure struct {
	Index int    `json:"index"`
	URL   string `json:"url"`
	Stage string `json:"stage"`
	Err   error  `json:"-"`
	Error string `json:"error"`
}

// Result is the output of one pipeline run
type Result struct {
	RunID     string           `json:"run_id"`
	Records   []types.Record   `json:"records"`
	Counts    Counts           `json:"counts"`
	Failures  []RecordFailure  `json:"failures,omitempty"`
	Providers []ProviderReport `json:"providers,omitempty"`
	// EmptyReason is set when no provider returned results
	EmptyReason string        `json:"empty_reason,omitempty"`
	Duration    time.Duration `json:"duration_ns"`
}

// Empty reports whether the run had nothing to work with
func (r Result) Empty() bool {
	return r.EmptyReason != ""
}

// Pipeline runs batches through the stages. Capabilities are fixed at construction.
type Pipeline struct {
	normalizer   *normalizer.Normalizer
	fetcher      extractor.Fetcher
	summarizer   Summarizer
	providers    *search.Registry
	canFetch     bool
	canSummarize bool
}

// New creates a pipeline. A nil fetcher or summarizer disables that stage for
// every run regardless of the per-call flags.
func New(norm *normalizer.Normalizer, fetcher extractor.Fetcher, summ Summarizer, providers *search.Registry) *Pipeline {
	if norm == nil {
		norm = normalizer.New(time.UTC)
	}
	if providers == nil {
		providers = search.NewRegistry()
	}
	return &Pipeline{
		normalizer:   norm,
		fetcher:      fetcher,
		summarizer:   summ,
		providers:    providers,
		canFetch:     fetcher != nil,
		canSummarize: summ != nil,
	}
}

// CanFetch reports whether a fetcher is configured
func (p *Pipeline) CanFetch() bool { return p.canFetch }

// CanSummarize reports whether a summarizer is configured
func (p *Pipeline) CanSummarize() bool { return p.canSummarize }

// ProviderNames returns the registered providers in query order
func (p *Pipeline) ProviderNames() []string { return p.providers.Names() }

// Run processes one batch of raw items. Per-record fetch or summarize failures
// never drop the record or abort the batch.
func (p *Pipeline) Run(ctx context.Context, batch []types.RawItem, opts Options) Result {
	started := time.Now()
	res := Result{RunID: uuid.NewString()}
	lg := logger.Component("orchestrator")
	res.Counts.Input = len(batch)
	if len(batch) == 0 {
		res.EmptyReason = "no input items"
	}

	records, malformed := p.normalizer.NormalizeAll(batch)
	res.Counts.Malformed = malformed

	passed := filter.Apply(records, opts.Criteria)
	res.Counts.Filtered = len(records) - len(passed)

	unique, dups := deduplication.Deduplicate(passed)
	res.Counts.Duplicates = dups

	if opts.SortNewest {
		SortNewest(unique)
	}

	// flags are checked once per batch
	doFetch := opts.EnableFetch && p.canFetch
	doSummarize := doFetch && opts.EnableSummarize && p.canSummarize
	if opts.EnableFetch && !p.canFetch {
		lg.Warn().Str("run_id", res.RunID).Msg("fetch requested but no fetcher is configured")
	}
	if opts.EnableSummarize && !p.canSummarize {
		lg.Warn().Str("run_id", res.RunID).Msg("summarize requested but no summarizer is configured")
	}

	if doFetch {
		res.Failures = p.enrich(ctx, unique, doSummarize, opts.Workers)
	}

	for _, r := range unique {
		if r.HasBody() {
			res.Counts.Fetched++
		}
		if r.HasSummary() {
			res.Counts.Summarized++
		}
	}

	res.Records = unique
	res.Duration = time.Since(started)

	lg.Info().
		Str("run_id", res.RunID).
		Int("input", res.Counts.Input).
		Int("malformed", res.Counts.Malformed).
		Int("filtered", res.Counts.Filtered).
		Int("duplicates", res.Counts.Duplicates).
		Int("records", len(res.Records)).
		Int("fetched", res.Counts.Fetched).
		Int("summarized", res.Counts.Summarized).
		Dur("duration", res.Duration).
		Msg("pipeline complete")

	return res
}

// enrich fetches and summarizes records in place. Each goroutine owns one slot.
func (p *Pipeline) enrich(ctx context.Context, records []types.Record, summarize bool, workers int) []RecordFailure {
	if workers < 1 {
		workers = 1
	}
	slots := make([][]RecordFailure, len(records))

	var g errgroup.Group
	g.SetLimit(workers)
	for i := range records {
		g.Go(func() error {
			slots[i] = p.enrichOne(ctx, i, &records[i], summarize)
			return nil
		})
	}
	_ = g.Wait()

	var failures []RecordFailure
	for _, s := range slots {
		failures = append(failures, s...)
	}
	return failures
}

func (p *Pipeline) enrichOne(ctx context.Context, idx int, rec *types.Record, summarize bool) []RecordFailure {
	fail := func(stage string, sentinel, err error) []RecordFailure {
		if !errors.Is(err, sentinel) {
			err = fmt.Errorf("%w: %v", sentinel, err)
		}
		lg := logger.Component("orchestrator")
		lg.Debug().Err(err).Str("stage", stage).Str("url", rec.URL).Msg("record unavailable")
		return []RecordFailure{{Index: idx, URL: rec.URL, Stage: stage, Err: err, Error: err.Error()}}
	}

	if err := ctx.Err(); err != nil {
		return fail(StageFetch, types.ErrFetchFailed, err)
	}
	body, err := p.fetcher.Fetch(ctx, rec.URL)
	if err != nil {
		return fail(StageFetch, types.ErrFetchFailed, err)
	}
	if body == "" {
		return fail(StageFetch, types.ErrFetchFailed, errors.New("empty body"))
	}
	rec.Body = body

	if !summarize {
		return nil
	}
	s, err := p.summarizer.Summarize(body)
	if err != nil {
		return fail(StageSummarize, types.ErrSummarizeFailed, err)
	}
	if s.Text == "" {
		return fail(StageSummarize, types.ErrSummarizeFailed, errors.New("empty summary"))
	}
	rec.Summary = s.Text
	rec.Keywords = s.Keywords
	return nil
}

// SortNewest orders records newest first. Undated records keep their relative order at the end.
func SortNewest(records []types.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i].PublishedAt, records[j].PublishedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
}
