package memory

import (
	"fmt"
	"sync"

	"github.com/custodia-labs/nexova-agent/internal/core/domain"
	"github.com/custodia-labs/nexova-agent/internal/core/ports/driven"
)

// Ensure PassageStore implements the interface.
var _ driven.PassageStore = (*PassageStore)(nil)

// PassageStore is an in-memory implementation of driven.PassageStore.
// Readers get the current slice; Replace swaps it without touching the old one.
type PassageStore struct {
	mu       sync.RWMutex
	passages []domain.Passage
}

// NewPassageStore creates a new empty passage store.
func NewPassageStore() *PassageStore {
	return &PassageStore{}
}

// Replace swaps the stored passages for a copy of the given set.
func (s *PassageStore) Replace(passages []domain.Passage) {
	cp := make([]domain.Passage, len(passages))
	copy(cp, passages)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.passages = cp
}

// All returns the passages in corpus order.
// The returned slice must not be modified.
func (s *PassageStore) All() []domain.Passage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.passages
}

// Get returns the passage at the given position.
func (s *PassageStore) Get(position int) (domain.Passage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if position < 0 || position >= len(s.passages) {
		return domain.Passage{}, fmt.Errorf("passage %d: %w", position, domain.ErrNotFound)
	}
	return s.passages[position], nil
}

// Count returns the number of stored passages.
func (s *PassageStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.passages)
}
