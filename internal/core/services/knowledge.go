package services

import (
	"context"
	"sort"
	"strings"

	"github.com/custodia-labs/nexova-agent/internal/core/domain"
	"github.com/custodia-labs/nexova-agent/internal/core/ports/driven"
	"github.com/custodia-labs/nexova-agent/internal/core/ports/driving"
	"github.com/custodia-labs/nexova-agent/internal/logger"
)

// Ensure KnowledgeService implements the interface.
var _ driving.KnowledgeService = (*KnowledgeService)(nil)

// paragraphBreak separates passages in the corpus text.
const paragraphBreak = "\n\n"

// KnowledgeService provides lexical retrieval over the loaded passages.
type KnowledgeService struct {
	store driven.PassageStore
}

// NewKnowledgeService creates a new knowledge service.
func NewKnowledgeService(store driven.PassageStore) *KnowledgeService {
	return &KnowledgeService{store: store}
}

// SplitPassages splits corpus text into passages on blank lines.
// Each passage is whitespace-trimmed and empty passages are dropped.
// Line endings are normalised to LF first.
func SplitPassages(text string) []domain.Passage {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var passages []domain.Passage
	for _, part := range strings.Split(text, paragraphBreak) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		passages = append(passages, domain.Passage{
			Position: len(passages),
			Text:     part,
		})
	}
	return passages
}

// Retrieve returns up to topK passages containing at least one query word,
// most relevant first. A passage scores one point per query word (duplicates
// included) that occurs anywhere in it, ignoring case. Equal scores keep
// corpus order. A topK <= 0 uses domain.DefaultTopK.
func (s *KnowledgeService) Retrieve(_ context.Context, query string, topK int) []domain.ScoredPassage {
	if topK <= 0 {
		topK = domain.DefaultTopK
	}

	words := strings.Fields(strings.ToLower(query))
	passages := s.store.All()
	logger.Debug("Scoring %d passages against %d query words", len(passages), len(words))

	scored := make([]domain.ScoredPassage, len(passages))
	for i, p := range passages {
		scored[i] = domain.ScoredPassage{Passage: p, Score: score(words, strings.ToLower(p.Text))}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > topK {
		scored = scored[:topK]
	}

	results := make([]domain.ScoredPassage, 0, len(scored))
	for _, sp := range scored {
		if sp.Score > 0 {
			results = append(results, sp)
		}
	}
	return results
}

// Search returns the retrieval context for query: the texts of the
// passages from Retrieve joined by domain.ContextSeparator, or "" when
// nothing is relevant.
func (s *KnowledgeService) Search(ctx context.Context, query string, topK int) string {
	logger.Section("Retrieval")
	results := s.Retrieve(ctx, query, topK)
	if len(results) == 0 {
		logger.Debug("No relevant passages for %q", query)
		return ""
	}

	texts := make([]string, len(results))
	for i, r := range results {
		texts[i] = r.Text
		logger.Debug("Passage %d score=%d", r.Position, r.Score)
	}
	return strings.Join(texts, domain.ContextSeparator)
}

// Passages returns every loaded passage in corpus order.
func (s *KnowledgeService) Passages(_ context.Context) []domain.Passage {
	return s.store.All()
}

// score counts the query words that occur as substrings of text.
// Both inputs must already be lower-cased.
func score(words []string, text string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			n++
		}
	}
	return n
}
