package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/nexova-agent/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/nexova-agent/internal/core/domain"
)

func newKnowledge(corpus string) *KnowledgeService {
	store := memory.NewPassageStore()
	store.Replace(SplitPassages(corpus))
	return NewKnowledgeService(store)
}

func TestSplitPassages(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "blank line separates passages",
			text:     "First para.\n\nSecond para.",
			expected: []string{"First para.", "Second para."},
		},
		{
			name:     "single newlines stay inside a passage",
			text:     "Line one\nline two\n\nNext",
			expected: []string{"Line one\nline two", "Next"},
		},
		{
			name:     "whitespace trimmed and empties dropped",
			text:     "\n\n  A  \n\n\n\n\t\n\nB\n",
			expected: []string{"A", "B"},
		},
		{
			name:     "crlf line endings",
			text:     "A\r\n\r\nB",
			expected: []string{"A", "B"},
		},
		{
			name:     "empty text",
			text:     "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			passages := SplitPassages(tt.text)
			var texts []string
			for i, p := range passages {
				assert.Equal(t, i, p.Position)
				texts = append(texts, p.Text)
			}
			assert.Equal(t, tt.expected, texts)
		})
	}
}

func TestKnowledgeService_Search(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		corpus   string
		query    string
		topK     int
		expected string
	}{
		{
			name:     "substring matching counts partial words",
			corpus:   "Your order ships fast.",
			query:    "ord",
			topK:     3,
			expected: "Your order ships fast.",
		},
		{
			name:     "ties keep corpus order",
			corpus:   "alpha one\n\nalpha two",
			query:    "alpha",
			topK:     3,
			expected: "alpha one\n---\nalpha two",
		},
		{
			name:     "higher score first",
			corpus:   "pricing info\n\npricing and plans info",
			query:    "pricing plans",
			topK:     3,
			expected: "pricing and plans info\n---\npricing info",
		},
		{
			name:     "case insensitive",
			corpus:   "NEXOVA Support Hours",
			query:    "support HOURS",
			topK:     3,
			expected: "NEXOVA Support Hours",
		},
		{
			name:     "duplicate query words count twice",
			corpus:   "refund policy\n\nrefund refund",
			query:    "refund refund policy",
			topK:     1,
			expected: "refund policy",
		},
		{
			name:     "no relevant passage",
			corpus:   "alpha\n\nbeta",
			query:    "gamma",
			topK:     3,
			expected: "",
		},
		{
			name:     "empty query",
			corpus:   "alpha",
			query:    "   ",
			topK:     3,
			expected: "",
		},
		{
			name:     "empty corpus",
			corpus:   "",
			query:    "anything",
			topK:     3,
			expected: "",
		},
		{
			name:     "zero topK uses default",
			corpus:   "a1\n\na2\n\na3\n\na4",
			query:    "a",
			topK:     0,
			expected: "a1\n---\na2\n---\na3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newKnowledge(tt.corpus)
			assert.Equal(t, tt.expected, svc.Search(ctx, tt.query, tt.topK))
		})
	}
}

func TestKnowledgeService_TopKAppliedBeforeZeroFilter(t *testing.T) {
	svc := newKnowledge("p1 match\n\np2 match\n\np3\n\np4")

	results := svc.Retrieve(context.Background(), "match", 3)

	require.Len(t, results, 2)
	assert.Equal(t, 0, results[0].Position)
	assert.Equal(t, 1, results[1].Position)
}

func TestKnowledgeService_Retrieve_Scores(t *testing.T) {
	svc := newKnowledge("shipping is free\n\nfree returns and free shipping\n\nunrelated")

	results := svc.Retrieve(context.Background(), "free shipping returns", 3)

	require.Len(t, results, 2)
	assert.Equal(t, domain.ScoredPassage{
		Passage: domain.Passage{Position: 1, Text: "free returns and free shipping"},
		Score:   3,
	}, results[0])
	assert.Equal(t, 2, results[1].Score)
	assert.Equal(t, 0, results[1].Position)
}

func TestKnowledgeService_Passages(t *testing.T) {
	svc := newKnowledge("a\n\nb")
	passages := svc.Passages(context.Background())
	require.Len(t, passages, 2)
	assert.Equal(t, "b", passages[1].Text)
}
