package driven

import (
	"context"

	"github.com/custodia-labs/nexova-agent/internal/core/domain"
)

// Normaliser extracts plain text from a corpus file.
// Each normaliser handles specific MIME types (e.g., PDF, Markdown).
type Normaliser interface {
	// SupportedMIMETypes returns the MIME types this normaliser handles.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred).
	// Format-specific normalisers should return 50-89.
	// Fallback normalisers should return 1-9.
	Priority() int

	// Normalise extracts text whose paragraphs are separated by blank lines.
	Normalise(ctx context.Context, raw *domain.RawDocument) (string, error)
}
