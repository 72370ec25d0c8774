// Package pdf provides a normaliser that extracts text from PDF knowledge files.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/nexova-agent/internal/core/domain"
	"github.com/custodia-labs/nexova-agent/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// ErrNoText is returned when a PDF contains no extractable text,
// typically a scanned document.
var ErrNoText = errors.New("pdf: no extractable text")

// PageExtractor returns the plain text of each page of a PDF.
type PageExtractor func(content []byte) ([]string, error)

// Normaliser handles PDF corpora. Each page becomes at least one paragraph.
type Normaliser struct {
	extract PageExtractor
}

// New creates a new PDF normaliser backed by ledongthuc/pdf.
func New() *Normaliser {
	return &Normaliser{extract: extractPages}
}

// NewWithExtractor creates a PDF normaliser with a custom page extractor.
func NewWithExtractor(extract PageExtractor) *Normaliser {
	return &Normaliser{extract: extract}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"application/pdf"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise extracts page text and joins pages with blank lines.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (string, error) {
	if raw == nil {
		return "", domain.ErrInvalidInput
	}

	pages, err := n.extract(raw.Content)
	if err != nil {
		return "", fmt.Errorf("pdf: extract %s: %w", raw.URI, err)
	}

	var parts []string
	for _, page := range pages {
		if page = strings.TrimSpace(strings.ReplaceAll(page, "\r\n", "\n")); page != "" {
			parts = append(parts, page)
		}
	}
	if len(parts) == 0 {
		return "", ErrNoText
	}
	return strings.Join(parts, "\n\n"), nil
}

// extractPages reads every page's text with ledongthuc/pdf.
// The library panics on some malformed files, so panics become errors.
func extractPages(content []byte) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, err
	}

	fonts := make(map[string]*pdf.Font)
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		for _, name := range page.Fonts() {
			if _, ok := fonts[name]; !ok {
				f := page.Font(name)
				fonts[name] = &f
			}
		}
		text, err := page.GetPlainText(fonts)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, text)
	}
	return pages, nil
}
