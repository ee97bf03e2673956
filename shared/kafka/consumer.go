// Package kafka consumes record messages published by the Kafka sink.
package kafka

import (
	"context"
	"encoding/json"
	"errors"

	"newsdash/export"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog/log"
)

// MessageHandler defines the interface for handling consumed messages
type MessageHandler interface {
	// HandleMessage processes a Kafka message and returns whether to mark it as processed.
	// If shouldMark is false, the message will not be marked (allowing retry).
	HandleMessage(ctx context.Context, message []byte) (shouldMark bool, err error)
}

// Consumer handles Kafka message consumption with pluggable message handling
type Consumer struct {
	consumer sarama.ConsumerGroup
	handler  MessageHandler
	topic    string
	groupID  string
	ready    chan bool
}

// ConsumerConfig holds Kafka consumer configuration
type ConsumerConfig struct {
	Brokers []string
	Topic   string
	GroupID string
	// FromOldest starts a new group at the beginning of the topic
	FromOldest bool
	Handler    MessageHandler
}

// NewConsumerConfig returns the sarama settings used by the consumer
func NewConsumerConfig(fromOldest bool) *sarama.Config {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V3_6_0_0
	saramaConfig.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	if fromOldest {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	}
	saramaConfig.Consumer.Return.Errors = true
	return saramaConfig
}

// NewConsumer creates a new Kafka consumer
func NewConsumer(config ConsumerConfig) (*Consumer, error) {
	if config.Handler == nil {
		return nil, errors.New("kafka consumer handler is required")
	}
	client, err := sarama.NewConsumerGroup(config.Brokers, config.GroupID, NewConsumerConfig(config.FromOldest))
	if err != nil {
		return nil, err
	}

	return &Consumer{
		consumer: client,
		handler:  config.Handler,
		topic:    config.Topic,
		groupID:  config.GroupID,
		ready:    make(chan bool),
	}, nil
}

// Start begins consuming messages and returns once the first session is set up
func (c *Consumer) Start(ctx context.Context) error {
	handler := &consumerGroupHandler{
		messageHandler: c.handler,
		ready:          c.ready,
	}

	go func() {
		for {
			if err := c.consumer.Consume(ctx, []string{c.topic}, handler); err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, sarama.ErrClosedConsumerGroup) {
					return
				}
				log.Error().Err(err).Str("topic", c.topic).Msg("kafka consume failed")
			}

			if ctx.Err() != nil {
				return
			}
			handler.ready = make(chan bool)
		}
	}()

	select {
	case <-c.ready:
	case <-ctx.Done():
		return ctx.Err()
	}
	log.Info().Str("group", c.groupID).Str("topic", c.topic).Msg("kafka consumer started")

	go func() {
		for err := range c.consumer.Errors() {
			log.Error().Err(err).Msg("kafka consumer error")
		}
	}()

	return nil
}

// Close gracefully shuts down the consumer
func (c *Consumer) Close() error {
	return c.consumer.Close()
}

// consumerGroupHandler implements sarama.ConsumerGroupHandler
type consumerGroupHandler struct {
	messageHandler MessageHandler
	ready          chan bool
}

// Setup is run at the beginning of a new session, before ConsumeClaim
func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error {
	close(h.ready)
	return nil
}

// Cleanup is run at the end of a session, once all ConsumeClaim goroutines have exited
func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

// ConsumeClaim must start a consumer loop of ConsumerGroupClaim's Messages()
func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok || message == nil {
				return nil
			}
			if deliver(session.Context(), h.messageHandler, message) {
				session.MarkMessage(message, "")
			}
		case <-session.Context().Done():
			return nil
		}
	}
}

// deliver hands one message to the handler and reports whether to mark it
func deliver(ctx context.Context, handler MessageHandler, message *sarama.ConsumerMessage) bool {
	log.Debug().Int32("partition", message.Partition).Int64("offset", message.Offset).
		Str("key", string(message.Key)).Msg("received kafka message")

	shouldMark, err := handler.HandleMessage(ctx, message.Value)
	if err != nil {
		log.Error().Err(err).Str("key", string(message.Key)).Msg("failed to handle message")
	}
	return shouldMark
}

// TypedMessageHandler is a generic helper that handles type conversion
type TypedMessageHandler[T any] struct {
	// Validate checks if the message should be processed
	Validate func(msg *T) bool
	// Process handles the actual message processing
	Process func(ctx context.Context, msg *T) error
	// AlwaysMark determines if messages should be marked even on validation failure
	AlwaysMark bool
}

// HandleMessage implements MessageHandler interface
func (h *TypedMessageHandler[T]) HandleMessage(ctx context.Context, message []byte) (bool, error) {
	var msg T
	if err := json.Unmarshal(message, &msg); err != nil {
		log.Warn().Err(err).Msg("failed to unmarshal message")
		return h.AlwaysMark, nil
	}

	if h.Validate != nil && !h.Validate(&msg) {
		return h.AlwaysMark, nil
	}

	if err := h.Process(ctx, &msg); err != nil {
		return false, err
	}

	return true, nil
}

// RecordHandler decodes messages written by export.KafkaSink
func RecordHandler(process func(ctx context.Context, msg *export.RecordMessage) error) *TypedMessageHandler[export.RecordMessage] {
	return &TypedMessageHandler[export.RecordMessage]{
		Validate: func(msg *export.RecordMessage) bool {
			return msg.Record.URL != ""
		},
		Process:    process,
		AlwaysMark: true,
	}
}
