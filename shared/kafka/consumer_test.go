package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"newsdash/export"
	"newsdash/types"

	"github.com/IBM/sarama"
)

func TestRecordHandler(t *testing.T) {
	var got []string
	h := RecordHandler(func(ctx context.Context, msg *export.RecordMessage) error {
		got = append(got, msg.Record.URL)
		return nil
	})

	valid, _ := json.Marshal(export.RecordMessage{RunID: "r", Record: types.Record{Title: "t", URL: "https://x.com/a"}})
	tests := []struct {
		name     string
		payload  []byte
		wantMark bool
	}{
		{"valid record", valid, true},
		{"not json", []byte("{oops"), true},
		{"missing url", []byte(`{"run_id":"r","record":{"title":"t"}}`), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mark, err := h.HandleMessage(context.Background(), tt.payload)
			if err != nil || mark != tt.wantMark {
				t.Errorf("HandleMessage = %v, %v; want %v, nil", mark, err, tt.wantMark)
			}
		})
	}
	if len(got) != 1 || got[0] != "https://x.com/a" {
		t.Errorf("processed = %v", got)
	}
}

func TestProcessFailureIsNotMarked(t *testing.T) {
	h := RecordHandler(func(ctx context.Context, msg *export.RecordMessage) error {
		return errors.New("sink full")
	})
	payload, _ := json.Marshal(export.RecordMessage{Record: types.Record{URL: "https://x.com/a"}})

	msg := &sarama.ConsumerMessage{Key: []byte("https://x.com/a"), Value: payload}
	if deliver(context.Background(), h, msg) {
		t.Errorf("failed message was marked")
	}
}

func TestNewConsumerConfig(t *testing.T) {
	if cfg := NewConsumerConfig(true); cfg.Consumer.Offsets.Initial != sarama.OffsetOldest {
		t.Errorf("fromOldest offset = %d", cfg.Consumer.Offsets.Initial)
	}
	if cfg := NewConsumerConfig(false); cfg.Consumer.Offsets.Initial != sarama.OffsetNewest {
		t.Errorf("default offset = %d", cfg.Consumer.Offsets.Initial)
	}
	if _, err := NewConsumer(ConsumerConfig{Brokers: []string{"localhost:9092"}}); err == nil {
		t.Errorf("NewConsumer without handler returned nil error")
	}
}
