package config

import "strings"

const defaultMaxUploadBytes int64 = 5 << 20

// FilesConfig controls where uploads are stored and how their URLs are built.
type FilesConfig struct {
	// Dir is the root directory for uploaded files.
	Dir string `env:"DIR" envDefault:"./data/uploads"`

	// PublicBaseURL prefixes relative file references in API responses.
	PublicBaseURL string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`

	// MaxUploadBytes caps a single upload.
	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES" envDefault:"5242880"`
}

// Sanitize applies guardrails to file configuration values.
func (f *FilesConfig) Sanitize() {
	if f.Dir = strings.TrimSpace(f.Dir); f.Dir == "" {
		f.Dir = "./data/uploads"
	}
	f.PublicBaseURL = strings.TrimRight(strings.TrimSpace(f.PublicBaseURL), "/")
	if f.MaxUploadBytes <= 0 {
		f.MaxUploadBytes = defaultMaxUploadBytes
	}
	if f.MaxUploadBytes > 50<<20 {
		f.MaxUploadBytes = 50 << 20
	}
}
