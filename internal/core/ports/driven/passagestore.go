package driven

import "github.com/custodia-labs/nexova-agent/internal/core/domain"

// PassageStore holds the knowledge passages loaded at startup.
// The set is replaced wholesale and never mutated in place.
type PassageStore interface {
	// Replace swaps the stored passages for the given set.
	Replace(passages []domain.Passage)

	// All returns the passages in corpus order.
	All() []domain.Passage

	// Get returns the passage at the given position.
	Get(position int) (domain.Passage, error)

	// Count returns the number of stored passages.
	Count() int
}
