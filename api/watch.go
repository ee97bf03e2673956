package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"newsdash/config"
	"newsdash/export"
	"newsdash/filter"
	"newsdash/logger"
	"newsdash/orchestrator"
	"newsdash/search"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// State represents a watch job's state machine
type State string

const (
	StateIdle     State = "idle"
	StateRunning  State = "running"
	StateComplete State = "complete"
	StateError    State = "error"
)

// Watch is a configured query rerun on a schedule
type Watch struct {
	Config    config.WatchConfig `json:"config"`
	State     State              `json:"state"`
	LastRunID string             `json:"last_run_id,omitempty"`
	LastRunAt time.Time          `json:"last_run_at,omitempty"`
	Records   int                `json:"records"`
	Error     string             `json:"error,omitempty"`
	NextRunAt time.Time          `json:"next_run_at,omitempty"`

	entryID cron.EntryID
}

// RegisterWatchRoutes registers watch status and manual trigger endpoints.
func (s *Server) RegisterWatchRoutes(g *gin.RouterGroup) {
	g.GET("/watches", s.handleListWatches)
	g.POST("/watches/:name/run", s.handleRunWatch)
}

// AddWatch validates the schedule and registers the job
func (s *Server) AddWatch(wc config.WatchConfig) error {
	if wc.Name == "" {
		wc.Name = wc.Keyword
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.watches[wc.Name]; exists {
		return fmt.Errorf("duplicate watch name %q", wc.Name)
	}

	name := wc.Name
	id, err := s.cron.AddFunc(wc.Schedule, func() {
		log.Info().Str("watch", name).Msg("cron triggered watch")
		s.RunWatch(context.Background(), name)
	})
	if err != nil {
		return fmt.Errorf("failed to add watch %q: %w", wc.Name, err)
	}

	s.watches[wc.Name] = &Watch{Config: wc, State: StateIdle, entryID: id}
	s.order = append(s.order, wc.Name)
	log.Info().Str("watch", wc.Name).Str("schedule", wc.Schedule).Msg("watch scheduled")
	return nil
}

// RunWatch runs one watch now and pushes its records to the sinks.
// A watch that is already running is skipped.
func (s *Server) RunWatch(ctx context.Context, name string) (string, error) {
	s.mu.Lock()
	w, ok := s.watches[name]
	if !ok {
		s.mu.Unlock()
		return "", fmt.Errorf("unknown watch %q", name)
	}
	if w.State == StateRunning {
		s.mu.Unlock()
		log.Info().Str("watch", name).Msg("watch skipped: already running")
		return "", fmt.Errorf("watch %q is already running", name)
	}
	w.State = StateRunning
	wc := w.Config
	s.mu.Unlock()

	lg := logger.Component("watch")
	q, opts := s.watchQuery(wc)
	res, err := s.searcher.Search(ctx, q, opts)
	if err == nil && !res.Empty() {
		err = export.SendAll(ctx, s.sinks, export.Batch{RunID: res.RunID, Keyword: wc.Keyword, Records: res.Records})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	w.LastRunAt = s.now()
	w.LastRunID = res.RunID
	w.Records = len(res.Records)
	if err != nil {
		w.State = StateError
		w.Error = err.Error()
		lg.Error().Err(err).Str("watch", name).Msg("watch run failed")
		return res.RunID, err
	}
	w.State = StateComplete
	w.Error = ""
	lg.Info().Str("watch", name).Str("run_id", res.RunID).Int("records", w.Records).Msg("watch run complete")
	return res.RunID, nil
}

// watchQuery builds the query for a watch: the last Days calendar days ending today
func (s *Server) watchQuery(wc config.WatchConfig) (search.Query, orchestrator.Options) {
	opts := orchestrator.OptionsFrom(s.cfg.Pipeline)
	if len(wc.Domains) > 0 {
		opts.Criteria.Domains = filter.NewSet(wc.Domains)
	}

	var start, end *time.Time
	if wc.Days > 0 {
		loc := opts.Criteria.Location
		if loc == nil {
			loc = time.UTC
		}
		today := s.now().In(loc)
		e := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
		st := e.AddDate(0, 0, -(wc.Days - 1))
		start, end = &st, &e
	}
	return orchestrator.QueryFrom(s.cfg.Query, wc.Keyword, start, end), opts
}

// Watches returns a snapshot of every watch in registration order
func (s *Server) Watches() []Watch {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Watch, 0, len(s.order))
	for _, name := range s.order {
		w := *s.watches[name]
		if entry := s.cron.Entry(w.entryID); entry.Valid() {
			w.NextRunAt = entry.Next
		}
		out = append(out, w)
	}
	return out
}

func (s *Server) handleListWatches(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"watches": s.Watches()})
}

// handleRunWatch triggers a watch asynchronously and returns 202 Accepted immediately
func (s *Server) handleRunWatch(c *gin.Context) {
	name := c.Param("name")

	s.mu.Lock()
	w, ok := s.watches[name]
	running := ok && w.State == StateRunning
	s.mu.Unlock()

	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown watch"})
		return
	}
	if running {
		c.JSON(http.StatusConflict, gin.H{"error": "watch is already running"})
		return
	}

	go func() {
		_, _ = s.RunWatch(context.Background(), name)
	}()
	c.JSON(http.StatusAccepted, gin.H{"status": "watch started", "watch": name})
}
