package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"newsdash/export"
	"newsdash/filter"
	"newsdash/orchestrator"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	searchStart      string
	searchEnd        string
	searchDays       int
	searchDomains    []string
	searchPublishers []string
	searchFetch      bool
	searchSummarize  bool
	searchNewest     bool
	searchMax        int
	searchFormat     string
	searchOutput     string
	searchBOM        bool
	searchSinks      bool
)

var searchCmd = &cobra.Command{
	Use:   "search [keyword]",
	Short: "Search providers and print the merged results",
	Long: `Collects results for a keyword from every configured provider, filters them
by date and domain, removes duplicate URLs and optionally fetches and summarizes
each article. Output is a terminal table, CSV or JSON.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	f := searchCmd.Flags()
	f.StringVar(&searchStart, "start", "", "first day, e.g. 2024-03-01 or 20240301")
	f.StringVar(&searchEnd, "end", "", "last day (inclusive)")
	f.IntVar(&searchDays, "days", 0, "search the last N days ending today (ignored when --start is set)")
	f.StringSliceVarP(&searchDomains, "domain", "d", nil, "only keep these domains (repeatable)")
	f.StringSliceVar(&searchPublishers, "publisher", nil, "also keep these publisher names (repeatable)")
	f.BoolVar(&searchFetch, "fetch", false, "fetch each article body")
	f.BoolVar(&searchSummarize, "summarize", true, "summarize fetched bodies")
	f.BoolVar(&searchNewest, "newest", false, "sort newest first")
	f.IntVarP(&searchMax, "max", "n", 0, "maximum raw results across providers")
	f.StringVarP(&searchFormat, "format", "f", "table", "output format: table, csv or json")
	f.StringVarP(&searchOutput, "output", "o", "", "write to this file instead of stdout")
	f.BoolVar(&searchBOM, "bom", false, "prefix CSV output with a UTF-8 BOM")
	f.BoolVar(&searchSinks, "sinks", false, "also send results to the configured S3/Kafka sinks")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	keyword := strings.TrimSpace(strings.Join(args, " "))
	format := strings.ToLower(searchFormat)
	if format != "table" && format != "csv" && format != "json" {
		return fmt.Errorf("unknown format %q: want table, csv or json", searchFormat)
	}

	loc, err := cfg.Pipeline.Location()
	if err != nil {
		return err
	}
	start, end, err := dateRange(searchStart, searchEnd, searchDays, time.Now().In(loc))
	if err != nil {
		return err
	}

	pipeline, err := orchestrator.Build(cfg)
	if err != nil {
		return err
	}

	q := orchestrator.QueryFrom(cfg.Query, keyword, start, end)
	if searchMax > 0 {
		q.MaxResults = searchMax
	}

	opts := orchestrator.OptionsFrom(cfg.Pipeline)
	if len(searchDomains) > 0 {
		opts.Criteria.Domains = filter.NewSet(searchDomains)
	}
	if len(searchPublishers) > 0 {
		opts.Criteria.Publishers = filter.NewSet(searchPublishers)
	}
	flags := cmd.Flags()
	if flags.Changed("fetch") {
		opts.EnableFetch = searchFetch
	}
	if flags.Changed("summarize") {
		opts.EnableSummarize = searchSummarize
	}
	if flags.Changed("newest") {
		opts.SortNewest = searchNewest
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := pipeline.Search(ctx, q, opts)
	if err != nil {
		return err
	}
	if res.Empty() {
		cmd.PrintErrf("No results found for %q (%s)\n", keyword, res.EmptyReason)
		return nil
	}

	var out io.Writer = cmd.OutOrStdout()
	if searchOutput != "" {
		file, err := os.Create(searchOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()
		out = file
	}

	switch format {
	case "csv":
		err = export.WriteCSV(out, res.Records, export.CSVOptions{BOM: searchBOM})
	case "json":
		err = export.WriteJSON(out, res.Records)
	default:
		err = export.WriteTable(out, res.Records, export.TableOptions{Summary: opts.EnableSummarize && opts.EnableFetch})
	}
	if err != nil {
		return err
	}
	if searchOutput != "" {
		log.Info().Str("file", searchOutput).Int("records", len(res.Records)).Msg("results written")
	}

	if searchSinks {
		sinks, err := export.SinksFrom(ctx, cfg.Sinks)
		if err != nil {
			return err
		}
		defer export.CloseAll(sinks)
		if len(sinks) == 0 {
			return errors.New("no sinks configured")
		}
		return export.SendAll(ctx, sinks, export.Batch{RunID: res.RunID, Keyword: keyword, Records: res.Records})
	}
	return nil
}

// dateRange resolves --start/--end/--days. Days counts back from today, inclusive.
func dateRange(startText, endText string, days int, now time.Time) (*time.Time, *time.Time, error) {
	var start, end *time.Time
	if startText != "" {
		d, err := filter.ParseDay(startText)
		if err != nil {
			return nil, nil, err
		}
		start = &d
	}
	if endText != "" {
		d, err := filter.ParseDay(endText)
		if err != nil {
			return nil, nil, err
		}
		end = &d
	}

	if start == nil && days > 0 {
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		if end == nil {
			end = &today
		}
		s := end.AddDate(0, 0, -(days - 1))
		start = &s
	}

	if start != nil && end != nil && start.After(*end) {
		start, end = end, start
	}
	return start, end, nil
}
