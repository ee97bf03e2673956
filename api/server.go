// Package api serves search results over HTTP and runs scheduled watch queries.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"newsdash/config"
	"newsdash/export"
	"newsdash/logger"
	"newsdash/orchestrator"
	"newsdash/search"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Searcher is the pipeline surface the server needs
type Searcher interface {
	Search(ctx context.Context, q search.Query, opts orchestrator.Options) (orchestrator.Result, error)
	ProviderNames() []string
	CanFetch() bool
	CanSummarize() bool
}

// Server is the newsdash HTTP server
type Server struct {
	searcher   Searcher
	cfg        *config.Config
	sinks      []export.Sink
	limiter    *RateLimiter
	cron       *cron.Cron
	httpServer *http.Server
	now        func() time.Time

	mu      sync.Mutex
	watches map[string]*Watch
	order   []string
}

// NewServer creates a server. Sinks receive the results of watch runs.
func NewServer(searcher Searcher, cfg *config.Config, sinks []export.Sink) *Server {
	s := &Server{
		searcher: searcher,
		cfg:      cfg,
		sinks:    sinks,
		limiter:  NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst),
		cron:     cron.New(),
		now:      time.Now,
		watches:  make(map[string]*Watch),
	}
	s.httpServer = &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Router constructs a Gin engine with registered routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	RegisterHealthRoutes(r, s)

	g := r.Group("/api", s.limiter.Middleware())
	s.RegisterSearchRoutes(g)
	s.RegisterWatchRoutes(g)
	return r
}

// Start starts the HTTP server and the watch scheduler
func (s *Server) Start() error {
	if err := s.StartCron(); err != nil {
		return err
	}

	log.Info().Str("addr", s.httpServer.Addr).Msg("starting HTTP server")
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()
	return nil
}

// StartCron registers the configured watches and the limiter cleanup, then starts the scheduler
func (s *Server) StartCron() error {
	if _, err := s.cron.AddFunc("@every 1m", func() {
		s.limiter.Cleanup(5 * time.Minute)
	}); err != nil {
		return fmt.Errorf("failed to add cleanup job: %w", err)
	}

	for _, wc := range s.cfg.Server.Watches {
		if err := s.AddWatch(wc); err != nil {
			return err
		}
	}

	s.cron.Start()
	log.Info().Int("watches", len(s.cfg.Server.Watches)).Msg("cron scheduler started")
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("shutting down HTTP server")

	// waits for running watch jobs
	stopped := s.cron.Stop()
	select {
	case <-stopped.Done():
	case <-ctx.Done():
	}

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	return export.CloseAll(s.sinks)
}

// requestLogger logs each request through zerolog
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()
		lg := logger.Component("api")
		lg.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Str("ip", c.ClientIP()).
			Dur("latency", time.Since(started)).
			Msg("request")
	}
}
