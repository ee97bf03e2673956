package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"newsdash/config"
	"newsdash/logger"
	"newsdash/search"
	"newsdash/types"
)

// ProviderReport records how one provider did during collection
type ProviderReport struct {
	Name     string        `json:"name"`
	Items    int           `json:"items"`
	Skipped  bool          `json:"skipped,omitempty"`
	Err      error         `json:"-"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// Available reports whether the provider answered
func (r ProviderReport) Available() bool {
	return r.Err == nil
}

// Collect asks each provider in order for the remaining result budget. A
// provider error yields zero items and is recorded as ErrProviderUnavailable.
// Providers after the budget is spent are marked skipped.
func (p *Pipeline) Collect(ctx context.Context, q search.Query) ([]types.RawItem, []ProviderReport) {
	if q.MaxResults <= 0 {
		q.MaxResults = config.DefaultMaxResults
	}

	lg := logger.Component("collect")
	var items []types.RawItem
	reports := make([]ProviderReport, 0, p.providers.Count())

	for _, provider := range p.providers.GetAll() {
		report := ProviderReport{Name: provider.Name()}
		remaining := q.MaxResults - len(items)
		if remaining <= 0 {
			report.Skipped = true
			reports = append(reports, report)
			continue
		}

		pq := q
		pq.MaxResults = remaining

		started := time.Now()
		pctx, cancel := context.WithTimeout(ctx, config.ProviderTimeout)
		got, err := provider.Search(pctx, pq)
		cancel()
		report.Duration = time.Since(started)

		if err != nil {
			report.Err = fmt.Errorf("%w: %s: %v", types.ErrProviderUnavailable, provider.Name(), err)
			report.Error = report.Err.Error()
			lg.Warn().Err(err).Str("provider", provider.Name()).Msg("provider unavailable")
			reports = append(reports, report)
			continue
		}

		if len(got) > remaining {
			got = got[:remaining]
		}
		report.Items = len(got)
		items = append(items, got...)
		reports = append(reports, report)

		lg.Info().Str("provider", provider.Name()).Int("items", len(got)).Dur("duration", report.Duration).Msg("provider done")
	}

	return items, reports
}

// Search collects from every provider and runs the batch. Only an empty
// keyword is an error; no results at all is reported by Result.Empty.
func (p *Pipeline) Search(ctx context.Context, q search.Query, opts Options) (Result, error) {
	q.Keyword = strings.TrimSpace(q.Keyword)
	if q.Keyword == "" {
		return Result{}, types.ErrEmptyQuery
	}
	if opts.Criteria.Start == nil {
		opts.Criteria.Start = q.Start
	}
	if opts.Criteria.End == nil {
		opts.Criteria.End = q.End
	}

	batch, reports := p.Collect(ctx, q)
	res := p.Run(ctx, batch, opts)
	res.Providers = reports
	if len(batch) == 0 {
		res.EmptyReason = "no provider returned results"
	}
	return res, nil
}
