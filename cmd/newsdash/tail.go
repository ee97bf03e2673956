package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"newsdash/export"
	"newsdash/shared/kafka"

	"github.com/spf13/cobra"
)

var (
	tailGroup      string
	tailFromOldest bool
)

var tailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Print records published to the Kafka sink topic",
	Args:  cobra.NoArgs,
	RunE:  runTail,
}

func init() {
	tailCmd.Flags().StringVar(&tailGroup, "group", "newsdash-tail", "consumer group ID")
	tailCmd.Flags().BoolVar(&tailFromOldest, "from-beginning", false, "start a new group at the oldest offset")
	rootCmd.AddCommand(tailCmd)
}

func runTail(cmd *cobra.Command, _ []string) error {
	if !cfg.Sinks.Kafka.Enabled() {
		return errors.New("kafka brokers are not configured")
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	// claims are consumed concurrently
	var mu sync.Mutex
	handler := kafka.RecordHandler(func(_ context.Context, msg *export.RecordMessage) error {
		mu.Lock()
		defer mu.Unlock()
		return enc.Encode(msg)
	})
	consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers:    cfg.Sinks.Kafka.Brokers,
		Topic:      cfg.Sinks.Kafka.Topic,
		GroupID:    tailGroup,
		FromOldest: tailFromOldest,
		Handler:    handler,
	})
	if err != nil {
		return err
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := consumer.Start(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
	<-ctx.Done()
	return nil
}
