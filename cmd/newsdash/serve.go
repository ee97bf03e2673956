package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"newsdash/api"
	"newsdash/export"
	"newsdash/orchestrator"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and scheduled watch queries",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, e.g. :8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	pipeline, err := orchestrator.Build(cfg)
	if err != nil {
		return err
	}

	ctx := context.Background()
	sinks, err := export.SinksFrom(ctx, cfg.Sinks)
	if err != nil {
		return err
	}

	server := api.NewServer(pipeline, cfg, sinks)
	if err := server.Start(); err != nil {
		return err
	}
	log.Info().Strs("providers", pipeline.ProviderNames()).Int("sinks", len(sinks)).Msg("newsdash server ready")

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
