// Package slack posts admin alerts to a Slack incoming webhook.
package slack

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/medexjob/medexjob-api/internal/observability/notify"
	"github.com/medexjob/medexjob-api/internal/ports"
)

type Config struct {
	WebhookURL string
	Channel    string
	Username   string
	Timeout    time.Duration
	RetryLimit int
	// AdminURLPrefix turns an alert's LinkPath into a clickable title.
	AdminURLPrefix string
}

type Client struct {
	hook     *notify.Webhook
	channel  string
	username string
	console  *url.URL
}

var _ ports.AdminAlerter = (*Client)(nil)

// message is the incoming-webhook body. Text uses Slack mrkdwn.
type message struct {
	Text     string `json:"text"`
	Username string `json:"username"`
	Channel  string `json:"channel,omitempty"`
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func NewClient(cfg Config) (*Client, error) {
	hook, err := notify.NewWebhook(notify.WebhookConfig{
		Name:    "slack webhook",
		URL:     cfg.WebhookURL,
		Timeout: cfg.Timeout,
		Retries: cfg.RetryLimit,
	})
	if err != nil {
		return nil, err
	}
	c := &Client{
		hook:     hook,
		channel:  strings.TrimSpace(cfg.Channel),
		username: notify.Or(strings.TrimSpace(cfg.Username), "medexjob"),
	}
	if u, perr := url.Parse(strings.TrimSpace(cfg.AdminURLPrefix)); perr == nil && u.Scheme != "" && u.Host != "" {
		c.console = u
	}
	return c, nil
}

func (c *Client) SendAdminAlert(ctx context.Context, alert ports.AdminAlert) error {
	return c.hook.Post(ctx, c.render(alert))
}

func (c *Client) render(alert ports.AdminAlert) message {
	var b strings.Builder

	title := escaper.Replace(notify.Or(strings.TrimSpace(alert.Title), "Admin alert"))
	if link := c.link(alert.LinkPath); link != "" {
		title = "<" + link + "|" + title + ">"
	}
	fmt.Fprintf(&b, "*%s*\n", title)
	fmt.Fprintf(&b, "• Severity: %s\n", notify.Or(alert.Severity, notify.SeverityInfo))

	keys := make([]string, 0, len(alert.Fields))
	for k := range alert.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if v := strings.TrimSpace(alert.Fields[k]); v != "" {
			fmt.Fprintf(&b, "• %s: %s\n", k, escaper.Replace(v))
		}
	}
	fmt.Fprintf(&b, "• Timestamp: %s", notify.OccurredAt(alert.OccurredAt).Format(time.RFC3339))

	return message{Text: b.String(), Username: c.username, Channel: c.channel}
}

// link resolves path against the admin console, or returns "" when either
// is missing.
func (c *Client) link(path string) string {
	path = strings.Trim(strings.TrimSpace(path), "/")
	if c.console == nil || path == "" {
		return ""
	}
	return c.console.JoinPath(strings.Split(path, "/")...).String()
}
