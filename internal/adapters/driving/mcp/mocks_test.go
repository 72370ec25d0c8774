package mcp

import (
	"context"

	"github.com/custodia-labs/nexova-agent/internal/core/domain"
)

// mockChatService is a mock implementation of driving.ChatService.
type mockChatService struct {
	reply    string
	received []string
}

func (m *mockChatService) GetResponse(_ context.Context, message string) string {
	m.received = append(m.received, message)
	return m.reply
}

// mockKnowledgeService is a mock implementation of driving.KnowledgeService.
type mockKnowledgeService struct {
	passages []domain.Passage
	scored   []domain.ScoredPassage
	context  string
	lastTopK int
}

func (m *mockKnowledgeService) Search(_ context.Context, _ string, topK int) string {
	m.lastTopK = topK
	return m.context
}

func (m *mockKnowledgeService) Retrieve(_ context.Context, _ string, topK int) []domain.ScoredPassage {
	m.lastTopK = topK
	return m.scored
}

func (m *mockKnowledgeService) Passages(_ context.Context) []domain.Passage {
	return m.passages
}
