// Package pagerduty pages the on-call moderator for critical admin alerts.
package pagerduty

import (
	"context"
	"errors"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/medexjob/medexjob-api/internal/observability/notify"
	"github.com/medexjob/medexjob-api/internal/ports"
)

// APIEndpoint is the Events API v2 ingest URL.
const APIEndpoint = "https://events.pagerduty.com/v2/enqueue"

type Config struct {
	RoutingKey string
	Source     string
	Component  string
	// MinSeverity drops quieter alerts. Defaults to critical so routine
	// moderation traffic stays in chat.
	MinSeverity string
	Timeout     time.Duration
	RetryLimit  int
	Endpoint    string
}

type Client struct {
	hook       *notify.Webhook
	routingKey string
	source     string
	component  string
	threshold  int
}

var _ ports.AdminAlerter = (*Client)(nil)

type event struct {
	RoutingKey  string  `json:"routing_key"`
	EventAction string  `json:"event_action"`
	DedupKey    string  `json:"dedup_key"`
	Payload     payload `json:"payload"`
}

type payload struct {
	Summary       string            `json:"summary"`
	Severity      string            `json:"severity"`
	Source        string            `json:"source"`
	Component     string            `json:"component"`
	Timestamp     string            `json:"timestamp"`
	CustomDetails map[string]string `json:"custom_details,omitempty"`
}

func NewClient(cfg Config) (*Client, error) {
	key := strings.TrimSpace(cfg.RoutingKey)
	if key == "" {
		return nil, errors.New("pagerduty routing key is required")
	}
	hook, err := notify.NewWebhook(notify.WebhookConfig{
		Name:    "pagerduty",
		URL:     notify.Or(cfg.Endpoint, APIEndpoint),
		Timeout: cfg.Timeout,
		Retries: cfg.RetryLimit,
	})
	if err != nil {
		return nil, err
	}
	return &Client{
		hook:       hook,
		routingKey: key,
		source:     notify.Or(strings.TrimSpace(cfg.Source), "medexjob"),
		component:  notify.Or(strings.TrimSpace(cfg.Component), "moderation"),
		threshold:  rank(notify.Or(cfg.MinSeverity, notify.SeverityCritical)),
	}, nil
}

// SendAdminAlert triggers an incident when the alert meets the threshold
// and is a no-op otherwise.
func (c *Client) SendAdminAlert(ctx context.Context, alert ports.AdminAlert) error {
	if rank(alert.Severity) < c.threshold {
		return nil
	}
	return c.hook.Post(ctx, c.trigger(alert))
}

func rank(severity string) int {
	switch strings.ToLower(strings.TrimSpace(severity)) {
	case notify.SeverityCritical:
		return 2
	case notify.SeverityWarning:
		return 1
	}
	return 0
}

func (c *Client) trigger(alert ports.AdminAlert) event {
	details := maps.Clone(alert.Fields)
	if alert.LinkPath != "" {
		if details == nil {
			details = map[string]string{}
		}
		details["link_path"] = alert.LinkPath
	}
	return event{
		RoutingKey:  c.routingKey,
		EventAction: "trigger",
		DedupKey:    dedupKey(alert),
		Payload: payload{
			Summary:       notify.Or(strings.TrimSpace(alert.Title), "Admin alert"),
			Severity:      strings.ToLower(notify.Or(alert.Severity, notify.SeverityCritical)),
			Source:        c.source,
			Component:     c.component,
			Timestamp:     notify.OccurredAt(alert.OccurredAt).Format(time.RFC3339),
			CustomDetails: details,
		},
	}
}

// dedupKey folds repeats about the same resource into one incident.
func dedupKey(alert ports.AdminAlert) string {
	if alert.LinkPath != "" {
		return alert.Title + ":" + alert.LinkPath
	}
	parts := []string{alert.Title}
	for _, k := range slices.Sorted(maps.Keys(alert.Fields)) {
		parts = append(parts, k+"="+alert.Fields[k])
	}
	return strings.Join(parts, ":")
}
