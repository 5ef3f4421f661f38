package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultWebhookTimeout = 5 * time.Second
	retryStep             = 200 * time.Millisecond
	maxErrorBody          = 4 << 10
)

// Webhook POSTs JSON documents to a single endpoint. Failed attempts are
// retried with a linearly growing pause (200ms, 400ms, ...).
type Webhook struct {
	name    string
	url     string
	retries int
	client  *http.Client
	sleep   func(ctx context.Context, d time.Duration) error
}

// WebhookConfig configures NewWebhook. Name prefixes error messages.
type WebhookConfig struct {
	Name    string
	URL     string
	Timeout time.Duration
	Retries int
	Client  *http.Client
}

func NewWebhook(cfg WebhookConfig) (*Webhook, error) {
	url := strings.TrimSpace(cfg.URL)
	if url == "" {
		return nil, fmt.Errorf("%s: url is required", cfg.Name)
	}
	hc := cfg.Client
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultWebhookTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Webhook{
		name:    cfg.Name,
		url:     url,
		retries: max(cfg.Retries, 0),
		client:  hc,
		sleep:   sleepCtx,
	}, nil
}

// Post encodes doc once and delivers it, returning the last failure.
func (w *Webhook) Post(ctx context.Context, doc any) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%s: encode payload: %w", w.name, err)
	}

	var lastErr error
	for attempt := 0; attempt <= w.retries; attempt++ {
		if attempt > 0 {
			if err := w.sleep(ctx, time.Duration(attempt)*retryStep); err != nil {
				return err
			}
		}
		if lastErr = w.send(ctx, body); lastErr == nil {
			return nil
		}
	}
	return lastErr
}

func (w *Webhook) send(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: build request: %w", w.name, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", w.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	detail, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return errors.Join(
		fmt.Errorf("%s: %s: %s", w.name, resp.Status, strings.TrimSpace(string(detail))),
		readErr,
	)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Or returns fallback when value is blank.
func Or(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

// OccurredAt returns t in UTC, or the current time when t is zero.
func OccurredAt(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}
