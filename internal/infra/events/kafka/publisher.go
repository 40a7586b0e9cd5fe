// Package kafka publishes batch events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"customerdesk/pkg/domain"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes one message per processed batch, keyed by batch id.
type Publisher struct {
	writer messageWriter
	topic  string
}

// NewPublisher returns a synchronous producer that waits for all replicas.
func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			RequiredAcks: kafka.RequireAll,
			Async:        false,
			BatchTimeout: 10 * time.Millisecond,
		},
		topic: topic,
	}
}

// Topic returns the destination topic.
func (p *Publisher) Topic() string { return p.topic }

// PublishBatch encodes event as JSON and writes it.
func (p *Publisher) PublishBatch(ctx context.Context, event domain.BatchEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode batch event: %w", err)
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.BatchID),
		Value: value,
		Time:  event.ProcessedAt,
	}); err != nil {
		return fmt.Errorf("write batch event to %s: %w", p.topic, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
