package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noSleep(context.Context, time.Duration) error { return nil }

func TestNewWebhookRequiresURL(t *testing.T) {
	_, err := NewWebhook(WebhookConfig{Name: "slack"})
	require.EqualError(t, err, "slack: url is required")
}

func TestWebhookPostRetriesUntilSuccess(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var doc map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&doc))
		assert.Equal(t, "hi", doc["text"])
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	var pauses []time.Duration
	hook, err := NewWebhook(WebhookConfig{Name: "test", URL: srv.URL, Retries: 2})
	require.NoError(t, err)
	hook.sleep = func(_ context.Context, d time.Duration) error {
		pauses = append(pauses, d)
		return nil
	}

	require.NoError(t, hook.Post(context.Background(), map[string]string{"text": "hi"}))
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, []time.Duration{200 * time.Millisecond, 400 * time.Millisecond}, pauses)
}

func TestWebhookPostReportsLastFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "invalid_token", http.StatusForbidden)
	}))
	defer srv.Close()

	hook, err := NewWebhook(WebhookConfig{Name: "test", URL: srv.URL, Retries: 1})
	require.NoError(t, err)
	hook.sleep = noSleep

	err = hook.Post(context.Background(), struct{}{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "test: 403 Forbidden: invalid_token")
}

func TestWebhookPostStopsOnCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	hook, err := NewWebhook(WebhookConfig{Name: "test", URL: srv.URL, Retries: 5})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	hook.sleep = func(context.Context, time.Duration) error {
		cancel()
		return ctx.Err()
	}
	require.ErrorIs(t, hook.Post(ctx, struct{}{}), context.Canceled)
}

func TestOrAndOccurredAt(t *testing.T) {
	assert.Equal(t, "x", Or("  ", "x"))
	assert.Equal(t, "y", Or("y", "x"))

	ist := time.FixedZone("IST", 5*60*60+30*60)
	at := time.Date(2026, 1, 2, 8, 0, 0, 0, ist)
	assert.Equal(t, time.UTC, OccurredAt(at).Location())
	assert.WithinDuration(t, time.Now(), OccurredAt(time.Time{}), time.Minute)
}
