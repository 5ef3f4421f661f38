// Package service holds the business logic behind the HTTP handlers and the
// background reaper. Services depend on the repository ports in internal/core
// and the adapter ports in internal/ports, never on concrete adapters.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/medexjob/medexjob-api/internal/core"
	"github.com/medexjob/medexjob-api/internal/domain/model"
	"github.com/medexjob/medexjob-api/internal/ports"
)

func componentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With("component", component)
}

func clockOrDefault(now func() time.Time) func() time.Time {
	if now == nil {
		return time.Now
	}
	return now
}

// eventEmitter publishes domain events after the state change has been
// committed. Publish failures are logged and never fail the request.
type eventEmitter struct {
	publisher ports.EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

func (e eventEmitter) emit(ctx context.Context, evt ports.Event) {
	if e.publisher == nil {
		return
	}
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = e.now().UTC()
	}
	if err := e.publisher.Publish(ctx, evt); err != nil {
		e.logger.WarnContext(ctx, "publish event failed",
			"topic", evt.Topic(),
			"resource_id", evt.ResourceID,
			"error", err,
		)
	}
}

// notifier writes in-app notifications on behalf of other services.
// A failed notification is logged; the triggering operation still succeeds.
type notifier struct {
	repo   core.NotificationRepository
	logger *slog.Logger
}

func (n notifier) notify(ctx context.Context, req model.CreateNotificationRequest) {
	if n.repo == nil {
		return
	}
	if err := req.Validate(); err != nil {
		n.logger.WarnContext(ctx, "dropping invalid notification", "type", req.Type, "error", err)
		return
	}
	if _, err := n.repo.Create(ctx, req); err != nil {
		n.logger.WarnContext(ctx, "create notification failed",
			"user_id", req.UserID,
			"type", req.Type,
			"error", err,
		)
	}
}

func strPtr(s string) *string { return &s }

func derefOr(p *string, fallback string) string {
	if p == nil || *p == "" {
		return fallback
	}
	return *p
}
