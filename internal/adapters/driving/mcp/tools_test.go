package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/nexova-agent/internal/core/domain"
)

func newServer(t *testing.T, chat *mockChatService, knowledge *mockKnowledgeService) *Server {
	t.Helper()
	server, err := NewServer(&Ports{Chat: chat, Knowledge: knowledge})
	require.NoError(t, err)
	return server
}

func TestServer_handleAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the agent reply", func(t *testing.T) {
		chat := &mockChatService{reply: "We build chatbots."}
		server := newServer(t, chat, &mockKnowledgeService{})

		_, output, err := server.handleAsk(ctx, nil, AskInput{Message: "What do you do?"})

		require.NoError(t, err)
		assert.Equal(t, "We build chatbots.", output.Response)
		assert.Equal(t, []string{"What do you do?"}, chat.received)
	})

	t.Run("failure text is passed through", func(t *testing.T) {
		server := newServer(t, &mockChatService{reply: domain.BackendFailureText}, &mockKnowledgeService{})

		_, output, err := server.handleAsk(ctx, nil, AskInput{Message: "hi"})

		require.NoError(t, err)
		assert.Equal(t, domain.BackendFailureText, output.Response)
	})

	t.Run("empty message is rejected", func(t *testing.T) {
		chat := &mockChatService{}
		server := newServer(t, chat, &mockKnowledgeService{})

		_, _, err := server.handleAsk(ctx, nil, AskInput{})

		assert.Error(t, err)
		assert.Empty(t, chat.received)
	})
}

func TestServer_handleSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns scored passages and context", func(t *testing.T) {
		knowledge := &mockKnowledgeService{
			scored: []domain.ScoredPassage{
				{Passage: domain.Passage{Position: 2, Text: "Pricing starts at $10."}, Score: 2},
				{Passage: domain.Passage{Position: 0, Text: "Nexova builds chatbots."}, Score: 1},
			},
			context: "Pricing starts at $10.\n---\nNexova builds chatbots.",
		}
		server := newServer(t, &mockChatService{}, knowledge)

		_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "pricing chatbots", TopK: 5})

		require.NoError(t, err)
		assert.Equal(t, 2, output.Count)
		assert.Equal(t, PassageOutput{Position: 2, Score: 2, Text: "Pricing starts at $10."}, output.Passages[0])
		assert.Equal(t, knowledge.context, output.Context)
		assert.Equal(t, 5, knowledge.lastTopK)
	})

	t.Run("default top_k", func(t *testing.T) {
		knowledge := &mockKnowledgeService{}
		server := newServer(t, &mockChatService{}, knowledge)

		_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "x"})

		require.NoError(t, err)
		assert.Equal(t, 0, output.Count)
		assert.Empty(t, output.Passages)
		assert.Equal(t, domain.DefaultTopK, knowledge.lastTopK)
	})
}
