package export

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"newsdash/types"

	"github.com/IBM/sarama"
)

// KafkaConfig holds Kafka producer configuration
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// RecordMessage is the JSON value of each Kafka message
type RecordMessage struct {
	RunID   string       `json:"run_id"`
	Keyword string       `json:"keyword"`
	SentAt  time.Time    `json:"sent_at"`
	Record  types.Record `json:"record"`
}

// KafkaSink publishes one message per record, keyed by URL
type KafkaSink struct {
	producer sarama.SyncProducer
	topic    string
}

// NewProducerConfig returns the sarama settings used by the sink
func NewProducerConfig() *sarama.Config {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V3_6_0_0
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner
	return saramaConfig
}

// NewKafkaSink connects a sync producer to the brokers
func NewKafkaSink(cfg KafkaConfig) (*KafkaSink, error) {
	if len(cfg.Brokers) == 0 || cfg.Topic == "" {
		return nil, fmt.Errorf("kafka brokers and topic are required")
	}
	producer, err := sarama.NewSyncProducer(cfg.Brokers, NewProducerConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return NewKafkaSinkWithProducer(producer, cfg.Topic), nil
}

// NewKafkaSinkWithProducer wraps an existing producer
func NewKafkaSinkWithProducer(producer sarama.SyncProducer, topic string) *KafkaSink {
	return &KafkaSink{producer: producer, topic: topic}
}

func (k *KafkaSink) Name() string { return "kafka" }

// Send publishes the batch. Messages for one batch are sent together.
func (k *KafkaSink) Send(ctx context.Context, b Batch) error {
	if len(b.Records) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	now := time.Now().UTC()
	msgs := make([]*sarama.ProducerMessage, 0, len(b.Records))
	for _, r := range b.Records {
		value, err := json.Marshal(RecordMessage{RunID: b.RunID, Keyword: b.Keyword, SentAt: now, Record: r})
		if err != nil {
			return fmt.Errorf("failed to encode record %s: %w", r.URL, err)
		}
		msgs = append(msgs, &sarama.ProducerMessage{
			Topic: k.topic,
			Key:   sarama.StringEncoder(r.URL),
			Value: sarama.ByteEncoder(value),
		})
	}

	if err := k.producer.SendMessages(msgs); err != nil {
		return fmt.Errorf("kafka publish failed: %w", err)
	}
	return nil
}

// Close flushes and shuts down the producer
func (k *KafkaSink) Close() error {
	return k.producer.Close()
}
