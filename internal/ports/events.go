package ports

import (
	"context"
	"io"
	"time"
)

// Event is a domain event emitted after a state change.
// Entity and Action form the topic suffix (e.g. "application.submitted").
type Event struct {
	Entity     string            `json:"entity"`
	Action     string            `json:"action"`
	ResourceID string            `json:"resourceId"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Data       any               `json:"data,omitempty"`
	OccurredAt time.Time         `json:"occurredAt"`
}

// Topic returns the "entity.action" name of the event.
func (e Event) Topic() string { return e.Entity + "." + e.Action }

// EventPublisher delivers domain events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, evt Event) error
}

// AdminAlert is a message for the moderation team (e.g. a new KYC submission).
type AdminAlert struct {
	Title      string
	Severity   string
	Fields     map[string]string
	LinkPath   string
	OccurredAt time.Time
}

// AdminAlerter fans admin alerts out to chat or paging tools.
type AdminAlerter interface {
	SendAdminAlert(ctx context.Context, alert AdminAlert) error
}

// FileStore persists uploaded file bodies under relative paths.
type FileStore interface {
	Save(ctx context.Context, relPath string, r io.Reader) (int64, error)
	Open(ctx context.Context, relPath string) (io.ReadSeekCloser, error)
	Remove(ctx context.Context, relPath string) error
}

// TextExtractor pulls plain text out of a stored document.
type TextExtractor interface {
	ExtractText(ctx context.Context, relPath string) (string, error)
}
