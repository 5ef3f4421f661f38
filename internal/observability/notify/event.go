// Package notify fans admin alerts out to the configured chat sinks.
package notify

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"github.com/medexjob/medexjob-api/internal/ports"
)

// Severity constants recognised by downstream sinks.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// AlerterFunc adapts a function to ports.AdminAlerter (useful for tests).
type AlerterFunc func(ctx context.Context, alert ports.AdminAlert) error

// SendAdminAlert implements ports.AdminAlerter.
func (f AlerterFunc) SendAdminAlert(ctx context.Context, alert ports.AdminAlert) error {
	if f == nil {
		return nil
	}
	return f(ctx, alert)
}

// Fanout delivers each alert to every sink and always logs it.
// Sink errors are joined; one failing sink does not stop the others.
type Fanout struct {
	sinks  []ports.AdminAlerter
	logger *slog.Logger
}

// NewFanout builds a Fanout. Nil sinks are skipped.
func NewFanout(logger *slog.Logger, sinks ...ports.AdminAlerter) *Fanout {
	if logger == nil {
		logger = slog.Default()
	}
	kept := make([]ports.AdminAlerter, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			kept = append(kept, s)
		}
	}
	return &Fanout{sinks: kept, logger: logger.With("component", "admin_alerts")}
}

// Len returns the number of sinks.
func (f *Fanout) Len() int { return len(f.sinks) }

func (f *Fanout) SendAdminAlert(ctx context.Context, alert ports.AdminAlert) error {
	if alert.Severity == "" {
		alert.Severity = SeverityInfo
	}
	attrs := []any{slog.String("title", alert.Title), slog.String("severity", alert.Severity)}
	keys := make([]string, 0, len(alert.Fields))
	for k := range alert.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		attrs = append(attrs, slog.String(k, alert.Fields[k]))
	}
	f.logger.InfoContext(ctx, "admin alert", attrs...)

	var errs []error
	for _, s := range f.sinks {
		if err := s.SendAdminAlert(ctx, alert); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
