package driving

import (
	"context"

	"github.com/custodia-labs/nexova-agent/internal/core/domain"
)

// KnowledgeService provides lexical retrieval over the knowledge corpus.
type KnowledgeService interface {
	// Search returns the retrieval context for a query: the texts of the
	// top relevant passages joined by domain.ContextSeparator, or "".
	Search(ctx context.Context, query string, topK int) string

	// Retrieve returns the top relevant passages with their scores.
	Retrieve(ctx context.Context, query string, topK int) []domain.ScoredPassage

	// Passages returns every loaded passage in corpus order.
	Passages(ctx context.Context) []domain.Passage
}
