// Package textextract turns PDF files into cleaned plain text using the
// poppler pdftotext binary.
package textextract

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"docintel/internal/config"
	"docintel/internal/domain"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	// keep letters, digits, underscore, whitespace and @.$,;:()-/
	disallowed = regexp.MustCompile(`[^\p{L}\p{N}_\s@.$,;:()\-/]`)
)

// PDFExtractor implements port.TextExtractor with pdftotext.
type PDFExtractor struct {
	binary  string
	timeout time.Duration
	runner  Runner
}

// NewPDFExtractor creates an extractor from config.
func NewPDFExtractor(cfg *config.ExtractConfig) *PDFExtractor {
	return NewPDFExtractorWithRunner(cfg, execRunner{})
}

// NewPDFExtractorWithRunner creates an extractor with a custom command runner (for testing).
func NewPDFExtractorWithRunner(cfg *config.ExtractConfig, runner Runner) *PDFExtractor {
	bin := cfg.Pdftotext
	if bin == "" {
		bin = "pdftotext"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &PDFExtractor{binary: bin, timeout: timeout, runner: runner}
}

// Extract returns the cleaned text of the PDF at path.
func (e *PDFExtractor) Extract(ctx context.Context, path string) (string, error) {
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedFileType, filepath.Ext(path))
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	out, _, err := e.runner.Run(ctx, e.binary, "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return "", fmt.Errorf("pdftotext %s: %w", filepath.Base(path), err)
	}
	return Clean(string(out)), nil
}

// Clean collapses whitespace and strips non-essential punctuation.
func Clean(text string) string {
	text = whitespaceRun.ReplaceAllString(text, " ")
	text = disallowed.ReplaceAllString(text, "")
	text = whitespaceRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
