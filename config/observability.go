package config

import (
	"log/slog"
	"slices"
	"strings"
	"time"
)

const (
	defaultObservabilityName = "medexjob"
	defaultSinkTimeout       = 5 * time.Second
)

// ObservabilityConfig covers logs, StatsD metrics, Kafka domain events and
// outbound admin alerts.
type ObservabilityConfig struct {
	Logging       LoggingConfig
	Metrics       ObservabilityMetricsConfig
	Events        EventsConfig `envPrefix:"KAFKA_"`
	Notifications ObservabilityNotificationsConfig
}

func (c *ObservabilityConfig) Sanitize() {
	c.Logging.Sanitize()
	c.Metrics.Sanitize()
	c.Events.Sanitize()
	c.Notifications.Sanitize()
}

type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  envDefault:"info"` // debug, info, warn or error
	Format string `env:"LOG_FORMAT" envDefault:"json"` // json, or text for colored console output
}

func (c *LoggingConfig) Sanitize() {
	c.Level = normalize(c.Level)
	if c.Format = normalize(c.Format); c.Format != "text" {
		c.Format = "json"
	}
}

var slogLevels = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// SlogLevel maps Level onto slog; anything unrecognised is info.
func (c LoggingConfig) SlogLevel() slog.Level {
	if lvl, ok := slogLevels[c.Level]; ok {
		return lvl
	}
	return slog.LevelInfo
}

type ObservabilityMetricsConfig struct {
	Enabled       bool   `env:"OBSERVABILITY_METRICS_ENABLED"        envDefault:"false"`
	StatsdAddress string `env:"OBSERVABILITY_METRICS_STATSD_ADDRESS" envDefault:"127.0.0.1:8125"`
}

func (c *ObservabilityMetricsConfig) Sanitize() {
	c.StatsdAddress = strings.TrimSpace(c.StatsdAddress)
	c.Enabled = c.Enabled && c.StatsdAddress != ""
}

func (c *ObservabilityMetricsConfig) IsEnabled() bool {
	return c.Enabled && c.StatsdAddress != ""
}

// EventsConfig enables Kafka publishing when at least one broker is set.
type EventsConfig struct {
	Brokers      []string      `env:"BROKERS"       envSeparator:","`
	TopicPrefix  string        `env:"TOPIC_PREFIX"  envDefault:"medexjob"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"5s"`
}

func (c *EventsConfig) Sanitize() {
	for i := range c.Brokers {
		c.Brokers[i] = strings.TrimSpace(c.Brokers[i])
	}
	c.Brokers = slices.DeleteFunc(c.Brokers, func(b string) bool { return b == "" })
	c.TopicPrefix = strings.Trim(strings.TrimSpace(c.TopicPrefix), ".")
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = defaultSinkTimeout
	}
}

func (c *EventsConfig) IsEnabled() bool {
	return len(c.Brokers) > 0
}

// ObservabilityNotificationsConfig gates every admin alert sink. A sink is
// live only when both the master switch and its own switch are on and its
// credential is present.
type ObservabilityNotificationsConfig struct {
	Enabled    bool                        `env:"OBSERVABILITY_NOTIFICATIONS_ENABLED"     envDefault:"false"`
	Timeout    time.Duration               `env:"OBSERVABILITY_NOTIFICATIONS_TIMEOUT"     envDefault:"5s"`
	RetryLimit int                         `env:"OBSERVABILITY_NOTIFICATIONS_RETRY_LIMIT" envDefault:"3"`
	Slack      SlackNotificationConfig     `envPrefix:"OBSERVABILITY_NOTIFICATIONS_SLACK_"`
	PagerDuty  PagerDutyNotificationConfig `envPrefix:"OBSERVABILITY_NOTIFICATIONS_PAGERDUTY_"`
}

func (c *ObservabilityNotificationsConfig) Sanitize() {
	if c.Timeout <= 0 {
		c.Timeout = defaultSinkTimeout
	}
	c.RetryLimit = max(c.RetryLimit, 0)

	c.Slack.sanitize()
	c.PagerDuty.sanitize()
	c.Slack.Enabled = c.Enabled && c.Slack.Enabled && c.Slack.WebhookURL != ""
	c.PagerDuty.Enabled = c.Enabled && c.PagerDuty.Enabled && c.PagerDuty.RoutingKey != ""
}

type SlackNotificationConfig struct {
	Enabled        bool   `env:"ENABLED"          envDefault:"false"`
	WebhookURL     string `env:"WEBHOOK_URL"`
	Channel        string `env:"CHANNEL"`
	Username       string `env:"USERNAME"         envDefault:"medexjob"`
	AdminURLPrefix string `env:"ADMIN_URL_PREFIX"` // joined with an alert's link path
}

func (c *SlackNotificationConfig) sanitize() {
	c.WebhookURL = strings.TrimSpace(c.WebhookURL)
	c.Channel = strings.TrimSpace(c.Channel)
	c.AdminURLPrefix = trimURL(c.AdminURLPrefix)
	if c.Username = strings.TrimSpace(c.Username); c.Username == "" {
		c.Username = defaultObservabilityName
	}
}

// PagerDutyNotificationConfig pages for alerts at or above MinSeverity.
type PagerDutyNotificationConfig struct {
	Enabled     bool   `env:"ENABLED"      envDefault:"false"`
	RoutingKey  string `env:"ROUTING_KEY"`
	Source      string `env:"SOURCE"       envDefault:"medexjob"`
	Component   string `env:"COMPONENT"    envDefault:"moderation"`
	MinSeverity string `env:"MIN_SEVERITY" envDefault:"critical"` // info, warning or critical
}

func (c *PagerDutyNotificationConfig) sanitize() {
	c.RoutingKey = strings.TrimSpace(c.RoutingKey)
	c.Source = strings.TrimSpace(c.Source)
	c.Component = strings.TrimSpace(c.Component)
	switch c.MinSeverity = normalize(c.MinSeverity); c.MinSeverity {
	case "info", "warning", "critical":
	default:
		c.MinSeverity = "critical"
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
