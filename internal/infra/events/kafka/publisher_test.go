package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"customerdesk/pkg/domain"
)

type recordingWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestNewPublisherConfiguresWriter(t *testing.T) {
	p := NewPublisher([]string{"broker-1:9092", "broker-2:9092"}, "customer-batches")
	w, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, "customer-batches", w.Topic)
	assert.Equal(t, kafka.RequireAll, w.RequiredAcks)
	assert.False(t, w.Async)
	assert.Equal(t, "customer-batches", p.Topic())
}

func TestPublishBatchWritesKeyedJSON(t *testing.T) {
	rec := &recordingWriter{}
	p := &Publisher{writer: rec, topic: "customer-batches"}
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	event := domain.BatchEvent{BatchID: "b-1", Received: 3, Accepted: 1, Rejected: 2, Total: 1, ProcessedAt: at}

	require.NoError(t, p.PublishBatch(context.Background(), event))
	require.Len(t, rec.msgs, 1)
	assert.Equal(t, "b-1", string(rec.msgs[0].Key))
	assert.Equal(t, at, rec.msgs[0].Time)

	var decoded domain.BatchEvent
	require.NoError(t, json.Unmarshal(rec.msgs[0].Value, &decoded))
	assert.Equal(t, event, decoded)

	require.NoError(t, p.Close())
	assert.True(t, rec.closed)
}

func TestPublishBatchWrapsWriterError(t *testing.T) {
	boom := errors.New("leader not available")
	p := &Publisher{writer: &recordingWriter{err: boom}, topic: "customer-batches"}
	err := p.PublishBatch(context.Background(), domain.BatchEvent{BatchID: "b-2"})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "customer-batches")
}
