package config

import "strings"

// HTTPConfig covers the listener, public URLs, cookies and response
// compression.
type HTTPConfig struct {
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// BaseURL is the API's public origin, e.g. https://api.medexjob.com.
	BaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`
	// FrontendURL receives the browser after an SSO callback.
	FrontendURL string `env:"APP_FRONTEND_URL" envDefault:"http://localhost:3000"`
	// CookieDomain is left empty to scope cookies to the request host.
	CookieDomain string `env:"APP_COOKIE_DOMAIN"`

	CORSAllowedOrigins []string `env:"HTTP_CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`

	CompressionEnabled bool `env:"HTTP_COMPRESSION_ENABLED" envDefault:"false"`
	CompressionLevel   int  `env:"HTTP_COMPRESSION_LEVEL"   envDefault:"6"`
	// CompressionMinSize leaves smaller bodies uncompressed.
	CompressionMinSize int `env:"HTTP_COMPRESSION_MIN_SIZE" envDefault:"1024"`
}

func (h *HTTPConfig) Sanitize() {
	h.CompressionLevel = min(max(h.CompressionLevel, 1), 9)
	h.CompressionMinSize = max(h.CompressionMinSize, 0)
	h.BaseURL = trimURL(h.BaseURL)
	h.FrontendURL = trimURL(h.FrontendURL)

	origins := h.CORSAllowedOrigins[:0]
	for _, o := range h.CORSAllowedOrigins {
		if o = trimURL(o); o != "" {
			origins = append(origins, o)
		}
	}
	h.CORSAllowedOrigins = origins
}

func trimURL(s string) string {
	return strings.TrimRight(strings.TrimSpace(s), "/")
}
