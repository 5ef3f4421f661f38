// Package statsd emits DogStatsD-formatted metrics over UDP.
package statsd

import (
	"io"
	"log/slog"
	"net"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Sink is the metrics surface services depend on.
type Sink interface {
	Count(name string, value int64, tags map[string]string)
	Gauge(name string, value float64, tags map[string]string)
	Timing(name string, value time.Duration, tags map[string]string)
}

// Config describes the StatsD endpoint.
type Config struct {
	Enabled bool
	Address string
	// Prefix is prepended to every metric name with a dot.
	Prefix string
	// Tags are attached to every metric; per-call tags override them.
	Tags   map[string]string
	Logger *slog.Logger
}

const dialTimeout = 5 * time.Second

// Client writes one datagram per metric. Write failures are logged at debug
// level and otherwise ignored. Safe for concurrent use.
type Client struct {
	prefix string
	tags   map[string]string
	logger *slog.Logger

	mu   sync.Mutex
	conn net.Conn // nil when disabled or closed
}

var _ Sink = (*Client)(nil)

// NewClient dials addr over UDP. A disabled config or blank address yields a
// client that drops everything.
func NewClient(cfg Config) (*Client, error) {
	c := &Client{
		prefix: cleanName(cfg.Prefix),
		tags:   copyTags(cfg.Tags),
		logger: cfg.Logger,
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	addr := strings.TrimSpace(cfg.Address)
	if !cfg.Enabled || addr == "" {
		return c, nil
	}
	conn, err := net.DialTimeout("udp", addr, dialTimeout)
	if err != nil {
		return nil, &DialError{Address: addr, Err: err}
	}
	c.conn = conn
	return c, nil
}

// DialError reports an unreachable or malformed StatsD address.
type DialError struct {
	Address string
	Err     error
}

func (e *DialError) Error() string { return "statsd dial " + e.Address + ": " + e.Err.Error() }
func (e *DialError) Unwrap() error { return e.Err }

// Enabled reports whether metrics are being sent.
func (c *Client) Enabled() bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Count adds value to a counter.
func (c *Client) Count(name string, value int64, tags map[string]string) {
	c.send(name, strconv.FormatInt(value, 10), "c", tags)
}

// Gauge sets a gauge.
func (c *Client) Gauge(name string, value float64, tags map[string]string) {
	c.send(name, strconv.FormatFloat(value, 'f', -1, 64), "g", tags)
}

// Timing records a duration in milliseconds.
func (c *Client) Timing(name string, value time.Duration, tags map[string]string) {
	ms := float64(value) / float64(time.Millisecond)
	c.send(name, strconv.FormatFloat(ms, 'f', -1, 64), "ms", tags)
}

// Close stops sending. Calling it more than once is safe.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

func (c *Client) send(name, value, kind string, tags map[string]string) {
	if c == nil {
		return
	}
	line := c.format(name, value, kind, tags)
	if line == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return
	}
	if _, err := io.WriteString(c.conn, line); err != nil {
		c.logger.Debug("statsd write failed", "metric", name, "error", err)
	}
}

// format renders "prefix.name:value|kind|#k:v,..." with tag keys sorted.
func (c *Client) format(name, value, kind string, tags map[string]string) string {
	metric := cleanName(name)
	if metric == "" {
		return ""
	}
	if c.prefix != "" {
		metric = c.prefix + "." + metric
	}

	var b strings.Builder
	b.WriteString(metric)
	b.WriteByte(':')
	b.WriteString(value)
	b.WriteByte('|')
	b.WriteString(kind)

	merged := copyTags(c.tags)
	for k, v := range copyTags(tags) {
		merged[k] = v
	}
	if len(merged) == 0 {
		return b.String()
	}
	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	b.WriteString("|#")
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k)
		b.WriteByte(':')
		b.WriteString(merged[k])
	}
	return b.String()
}

// protocolChars would split a line or tag list if left in names or values.
var protocolChars = strings.NewReplacer(" ", "_", "/", "_", ":", "_", "|", "_", ",", "_", "#", "_", "\n", "_")

// cleanName replaces protocol characters, collapses repeated dots and trims
// leading and trailing dots.
func cleanName(s string) string {
	s = protocolChars.Replace(strings.TrimSpace(s))
	for strings.Contains(s, "..") {
		s = strings.ReplaceAll(s, "..", ".")
	}
	return strings.Trim(s, ".")
}

// copyTags returns a cleaned copy of tags without blank keys.
func copyTags(tags map[string]string) map[string]string {
	out := make(map[string]string, len(tags))
	for k, v := range tags {
		if k = protocolChars.Replace(strings.TrimSpace(k)); k != "" {
			out[k] = protocolChars.Replace(strings.TrimSpace(v))
		}
	}
	return out
}
