// Package events publishes domain events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/medexjob/medexjob-api/internal/ports"
)

// messageWriter is the subset of *kafka.Writer used by the publisher.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisherOptions configures a KafkaPublisher.
type KafkaPublisherOptions struct {
	Brokers      []string
	TopicPrefix  string
	WriteTimeout time.Duration
	Logger       *slog.Logger
}

// KafkaPublisher writes each event to "<prefix>.<entity>.<action>", keyed by resource ID.
type KafkaPublisher struct {
	writer messageWriter
	prefix string
	logger *slog.Logger
}

// wireEvent is the JSON value of a message; consumers read the same shape.
type wireEvent struct {
	Entity     string            `json:"entity"`
	Action     string            `json:"action"`
	ResourceID string            `json:"resourceId"`
	Topic      string            `json:"topic"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Data       any               `json:"data,omitempty"`
	OccurredAt time.Time         `json:"occurredAt"`
}

// NewKafkaPublisher builds a publisher backed by a kafka.Writer.
func NewKafkaPublisher(opts KafkaPublisherOptions) (*KafkaPublisher, error) {
	if len(opts.Brokers) == 0 {
		return nil, errors.New("kafka publisher: at least one broker is required")
	}
	timeout := opts.WriteTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(opts.Brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		WriteTimeout:           timeout,
		BatchTimeout:           50 * time.Millisecond,
	}
	return newKafkaPublisher(w, opts.TopicPrefix, opts.Logger), nil
}

func newKafkaPublisher(w messageWriter, prefix string, logger *slog.Logger) *KafkaPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &KafkaPublisher{writer: w, prefix: prefix, logger: logger.With("component", "kafka_publisher")}
}

// Publish writes evt synchronously.
func (p *KafkaPublisher) Publish(ctx context.Context, evt ports.Event) error {
	msg, err := p.message(evt)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka write %s: %w", msg.Topic, err)
	}
	p.logger.DebugContext(ctx, "event published",
		slog.String("topic", msg.Topic),
		slog.String("resourceId", evt.ResourceID),
	)
	return nil
}

func (p *KafkaPublisher) message(evt ports.Event) (kafka.Message, error) {
	if evt.Entity == "" || evt.Action == "" {
		return kafka.Message{}, errors.New("event entity and action are required")
	}
	topic := evt.Topic()
	if p.prefix != "" {
		topic = p.prefix + "." + topic
	}
	occurred := evt.OccurredAt
	if occurred.IsZero() {
		occurred = time.Now().UTC()
	}
	value, err := json.Marshal(wireEvent{
		Entity:     evt.Entity,
		Action:     evt.Action,
		ResourceID: evt.ResourceID,
		Topic:      topic,
		Metadata:   evt.Metadata,
		Data:       evt.Data,
		OccurredAt: occurred,
	})
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal event: %w", err)
	}
	return kafka.Message{
		Topic: topic,
		Key:   []byte(evt.ResourceID),
		Value: value,
		Time:  occurred,
	}, nil
}

// Close flushes and closes the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher drops events. Used when no brokers are configured.
type NoopPublisher struct {
	Logger *slog.Logger
}

func (n NoopPublisher) Publish(ctx context.Context, evt ports.Event) error {
	if n.Logger != nil {
		n.Logger.DebugContext(ctx, "event dropped (no brokers)", slog.String("topic", evt.Topic()))
	}
	return nil
}
