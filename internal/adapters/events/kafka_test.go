package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medexjob/medexjob-api/internal/ports"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := newKafkaPublisher(w, "medexjob", nil)
	at := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)

	err := p.Publish(context.Background(), ports.Event{
		Entity:     "application",
		Action:     "submitted",
		ResourceID: "app-1",
		Metadata:   map[string]string{"job_id": "job-1"},
		OccurredAt: at,
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "medexjob.application.submitted", msg.Topic)
	assert.Equal(t, []byte("app-1"), msg.Key)
	assert.Equal(t, at, msg.Time)

	var got wireEvent
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, "application", got.Entity)
	assert.Equal(t, "submitted", got.Action)
	assert.Equal(t, "app-1", got.ResourceID)
	assert.Equal(t, "medexjob.application.submitted", got.Topic)
	assert.Equal(t, "job-1", got.Metadata["job_id"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_NoPrefix(t *testing.T) {
	w := &fakeWriter{}
	p := newKafkaPublisher(w, "", nil)
	require.NoError(t, p.Publish(context.Background(), ports.Event{Entity: "job", Action: "published", ResourceID: "j"}))
	assert.Equal(t, "job.published", w.msgs[0].Topic)
	assert.False(t, w.msgs[0].Time.IsZero())
}

func TestKafkaPublisher_Errors(t *testing.T) {
	p := newKafkaPublisher(&fakeWriter{}, "medexjob", nil)
	require.Error(t, p.Publish(context.Background(), ports.Event{Action: "published"}))

	failing := newKafkaPublisher(&fakeWriter{err: errors.New("broker down")}, "medexjob", nil)
	err := failing.Publish(context.Background(), ports.Event{Entity: "job", Action: "published"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "medexjob.job.published")
}

func TestNewKafkaPublisher_RequiresBrokers(t *testing.T) {
	_, err := NewKafkaPublisher(KafkaPublisherOptions{})
	require.Error(t, err)

	p, err := NewKafkaPublisher(KafkaPublisherOptions{Brokers: []string{"localhost:9092"}, TopicPrefix: "medexjob"})
	require.NoError(t, err)
	require.NoError(t, p.Close())
}

func TestNoopPublisher(t *testing.T) {
	require.NoError(t, NoopPublisher{}.Publish(context.Background(), ports.Event{Entity: "job", Action: "closed"}))
}
