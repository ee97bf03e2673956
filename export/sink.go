package export

import (
	"context"
	"errors"

	"newsdash/config"
	"newsdash/types"

	"github.com/rs/zerolog/log"
)

// Batch is what a sink receives for one run
type Batch struct {
	RunID   string
	Keyword string
	Records []types.Record
}

// Sink ships a finished batch somewhere outside the process
type Sink interface {
	Name() string
	Send(ctx context.Context, b Batch) error
	Close() error
}

// SendAll delivers the batch to every sink. A failing sink does not stop the others.
func SendAll(ctx context.Context, sinks []Sink, b Batch) error {
	var errs []error
	for _, s := range sinks {
		if err := s.Send(ctx, b); err != nil {
			log.Error().Err(err).Str("sink", s.Name()).Str("run_id", b.RunID).Msg("sink failed")
			errs = append(errs, err)
			continue
		}
		log.Info().Str("sink", s.Name()).Str("run_id", b.RunID).Int("records", len(b.Records)).Msg("batch delivered")
	}
	return errors.Join(errs...)
}

// CloseAll closes every sink and joins the errors
func CloseAll(sinks []Sink) error {
	var errs []error
	for _, s := range sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SinksFrom builds the sinks enabled in configuration
func SinksFrom(ctx context.Context, cfg config.SinksConfig) ([]Sink, error) {
	var sinks []Sink
	if cfg.S3.Enabled() {
		s, err := NewS3Sink(ctx, S3Config{
			Bucket:       cfg.S3.Bucket,
			Prefix:       cfg.S3.Prefix,
			Region:       cfg.S3.Region,
			Profile:      cfg.S3.Profile,
			UsePathStyle: cfg.S3.UsePathStyle,
			BOM:          true,
		})
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s)
	}
	if cfg.Kafka.Enabled() {
		k, err := NewKafkaSink(KafkaConfig{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.Topic})
		if err != nil {
			_ = CloseAll(sinks)
			return nil, err
		}
		sinks = append(sinks, k)
	}
	return sinks, nil
}
