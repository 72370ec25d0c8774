package domain

// Passage is one paragraph of the knowledge corpus.
// Passages are immutable once loaded.
type Passage struct {
	// Position is the 0-based index of the passage in the corpus.
	// It only breaks ties between equally relevant passages.
	Position int `json:"position"`

	// Text is the whitespace-trimmed paragraph text. Never empty.
	Text string `json:"text"`
}

// ScoredPassage pairs a passage with its relevance to a query.
type ScoredPassage struct {
	Passage

	// Score is the number of query words found in the passage.
	Score int `json:"score"`
}

// ContextSeparator joins passages in the assembled retrieval context.
const ContextSeparator = "\n---\n"
