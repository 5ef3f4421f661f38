package httpx

import (
	"compress/gzip"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"sync"
)

// CompressionConfig configures the gzip middleware.
type CompressionConfig struct {
	// Level is a gzip level from 1 to 9. Out-of-range values use the
	// library default.
	Level int
	// MinSize holds back responses smaller than this many bytes and sends
	// them uncompressed. Zero compresses everything eligible.
	MinSize int
	// Types overrides the compressible media types.
	Types  []string
	Logger *slog.Logger
}

// API responses are JSON; uploaded text and SVG logos are the only other
// payloads worth compressing. PDFs and raster images are already compressed.
var defaultCompressibleTypes = []string{
	"application/json",
	"application/problem+json",
	"text/plain",
	"text/csv",
	"image/svg+xml",
}

type compressor struct {
	minSize int
	types   map[string]struct{}
	logger  *slog.Logger
	pool    sync.Pool
}

// Compression gzips eligible responses for clients that accept it. HEAD
// requests, bodiless statuses, already-encoded bodies and non-compressible
// media types pass through untouched.
func Compression(cfg CompressionConfig) func(http.Handler) http.Handler {
	level := cfg.Level
	if level < gzip.BestSpeed || level > gzip.BestCompression {
		level = gzip.DefaultCompression
	}
	types := cfg.Types
	if len(types) == 0 {
		types = defaultCompressibleTypes
	}
	c := &compressor{
		minSize: max(cfg.MinSize, 0),
		types:   make(map[string]struct{}, len(types)),
		logger:  cfg.Logger,
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	for _, t := range types {
		c.types[strings.ToLower(t)] = struct{}{}
	}
	c.pool.New = func() any {
		w, _ := gzip.NewWriterLevel(io.Discard, level) // level validated above
		return w
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodHead || !acceptsGzip(r.Header.Get("Accept-Encoding")) {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Add("Vary", "Accept-Encoding")

			gw := &gzipResponseWriter{ResponseWriter: w, c: c}
			next.ServeHTTP(gw, r)
			if err := gw.finish(); err != nil {
				c.logger.ErrorContext(r.Context(), "finishing compressed response failed", "error", err)
			}
		})
	}
}

func (c *compressor) compressible(contentType string) bool {
	media, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	_, ok := c.types[media]
	return ok
}

// acceptsGzip reports whether the Accept-Encoding header allows gzip with a
// non-zero quality, either by name or through "*".
func acceptsGzip(header string) bool {
	wildcard := false
	for _, part := range strings.Split(header, ",") {
		name, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "gzip" && name != "*" {
			continue
		}
		ok := qualityAllows(params)
		if name == "gzip" {
			return ok
		}
		wildcard = ok
	}
	return wildcard
}

func qualityAllows(params string) bool {
	for _, p := range strings.Split(params, ";") {
		k, v, found := strings.Cut(strings.TrimSpace(p), "=")
		if !found || !strings.EqualFold(strings.TrimSpace(k), "q") {
			continue
		}
		q, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return err == nil && q > 0
	}
	return true
}

type writerState int

const (
	stateUndecided writerState = iota
	statePassthrough
	stateBuffering
	stateCompressing
)

type gzipResponseWriter struct {
	http.ResponseWriter
	c      *compressor
	state  writerState
	status int
	buf    []byte
	gz     *gzip.Writer
}

func (w *gzipResponseWriter) WriteHeader(status int) {
	if w.state != stateUndecided {
		return
	}
	w.status = status

	h := w.Header()
	if status < http.StatusOK || status == http.StatusNoContent || status == http.StatusNotModified ||
		h.Get("Content-Encoding") != "" || !w.c.compressible(h.Get("Content-Type")) {
		w.state = statePassthrough
		w.ResponseWriter.WriteHeader(status)
		return
	}
	if w.c.minSize > 0 {
		w.state = stateBuffering
		return
	}
	w.startGzip()
}

func (w *gzipResponseWriter) Write(b []byte) (int, error) {
	if w.state == stateUndecided {
		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", http.DetectContentType(b))
		}
		w.WriteHeader(http.StatusOK)
	}

	switch w.state {
	case stateCompressing:
		return w.gz.Write(b)
	case stateBuffering:
		w.buf = append(w.buf, b...)
		if len(w.buf) < w.c.minSize {
			return len(b), nil
		}
		w.startGzip()
		if err := w.flushBuffer(w.gz); err != nil {
			return 0, err
		}
		return len(b), nil
	default:
		return w.ResponseWriter.Write(b)
	}
}

// Flush commits a buffered response to gzip so streaming handlers are not
// held back by MinSize.
func (w *gzipResponseWriter) Flush() {
	if w.state == stateBuffering {
		w.startGzip()
		if err := w.flushBuffer(w.gz); err != nil {
			w.c.logger.Error("writing buffered response failed", "error", err)
			return
		}
	}
	if w.gz != nil {
		if err := w.gz.Flush(); err != nil {
			w.c.logger.Error("flushing gzip writer failed", "error", err)
		}
	}
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (w *gzipResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func (w *gzipResponseWriter) startGzip() {
	w.state = stateCompressing
	w.gz, _ = w.c.pool.Get().(*gzip.Writer)
	w.gz.Reset(w.ResponseWriter)

	h := w.Header()
	h.Set("Content-Encoding", "gzip")
	h.Del("Content-Length")
	w.ResponseWriter.WriteHeader(w.status)
}

func (w *gzipResponseWriter) flushBuffer(dst io.Writer) error {
	buf := w.buf
	w.buf = nil
	_, err := dst.Write(buf)
	return err
}

// finish sends whatever is still pending. Bodies that never reached MinSize
// go out uncompressed.
func (w *gzipResponseWriter) finish() error {
	switch w.state {
	case stateBuffering:
		w.state = statePassthrough
		w.ResponseWriter.WriteHeader(w.status)
		return w.flushBuffer(w.ResponseWriter)
	case stateCompressing:
		err := w.gz.Close()
		w.gz.Reset(io.Discard)
		w.c.pool.Put(w.gz)
		w.gz = nil
		return err
	default:
		return nil
	}
}
