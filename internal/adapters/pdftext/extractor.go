// Package pdftext extracts plain text from stored PDF files.
package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// DefaultMaxChars caps the stored resume text.
const DefaultMaxChars = 100_000

// Extractor implements ports.TextExtractor for files under Dir.
type Extractor struct {
	Dir      string
	MaxChars int
}

// ExtractText returns the plain text of the PDF at relPath.
func (e Extractor) ExtractText(ctx context.Context, relPath string) (text string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	clean := filepath.Clean(filepath.FromSlash(relPath))
	if !filepath.IsLocal(clean) {
		return "", fmt.Errorf("pdf text: invalid path %q", relPath)
	}

	// The parser panics on some malformed documents.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("pdf text: malformed document: %v", r)
		}
	}()

	f, r, err := pdf.Open(filepath.Join(e.Dir, clean))
	if err != nil {
		return "", fmt.Errorf("pdf open: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	b, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("pdf text: %w", err)
	}
	if _, err := buf.ReadFrom(b); err != nil {
		return "", fmt.Errorf("pdf read: %w", err)
	}

	maxChars := e.MaxChars
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	return truncate(normalizeSpace(buf.String()), maxChars), nil
}

// normalizeSpace collapses runs of whitespace into single spaces.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, maxChars int) string {
	if utf8.RuneCountInString(s) <= maxChars {
		return s
	}
	return string([]rune(s)[:maxChars])
}
