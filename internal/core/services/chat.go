package services

import (
	"context"

	"github.com/custodia-labs/nexova-agent/internal/core/domain"
	"github.com/custodia-labs/nexova-agent/internal/core/ports/driven"
	"github.com/custodia-labs/nexova-agent/internal/core/ports/driving"
	"github.com/custodia-labs/nexova-agent/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// Completion parameters for every reply.
const (
	ReplyTemperature = 0.7
	ReplyMaxTokens   = 1024
)

// Preamble is the fixed persona instruction that opens the system message.
const Preamble = `You are the AI Sales and Support agent for Nexova.
Your goal is to answer questions about Nexova based ONLY on the provided context.
Be helpful, professional, and concise.
If the answer is not in the context, say: "` + domain.HandoffText + `"`

// ChatService composes grounded replies from retrieved context.
type ChatService struct {
	knowledge  driving.KnowledgeService
	llm        driven.LLMService
	topK       int
	configured bool
}

// NewChatService creates a new chat service.
// A nil llmService means no backend credential was supplied; every reply
// then carries the not-configured notice and no backend call is made.
func NewChatService(knowledge driving.KnowledgeService, llmService driven.LLMService, topK int) *ChatService {
	if topK <= 0 {
		topK = domain.DefaultTopK
	}
	return &ChatService{
		knowledge:  knowledge,
		llm:        llmService,
		topK:       topK,
		configured: llmService != nil,
	}
}

// Configured returns true if a completion backend is available.
func (s *ChatService) Configured() bool {
	return s.configured
}

// SystemPrompt builds the system message for the given retrieval context.
func SystemPrompt(context string) string {
	return Preamble + "\n\nContext:\n" + context
}

// Compose retrieves context for message and asks the backend for a reply.
func (s *ChatService) Compose(ctx context.Context, message string) domain.Reply {
	retrieved := s.knowledge.Search(ctx, message, s.topK)

	messages := []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: SystemPrompt(retrieved)},
		{Role: driven.RoleUser, Content: message},
	}

	if !s.configured {
		logger.Debug("Completion backend not configured, skipping call")
		return domain.ReplyNotConfigured()
	}

	logger.Section("Completion")
	logger.Debug("Model: %s, context bytes: %d", s.llm.ModelName(), len(retrieved))

	text, err := s.llm.Chat(ctx, messages, driven.ChatOptions{
		MaxTokens:   ReplyMaxTokens,
		Temperature: ReplyTemperature,
	})
	if err != nil {
		logger.Error("Completion failed: %v", err)
		return domain.ReplyBackendFailure(err)
	}

	logger.Debug("Completion returned %d bytes", len(text))
	return domain.ReplyText(text)
}

// GetResponse returns displayable reply text for message.
func (s *ChatService) GetResponse(ctx context.Context, message string) string {
	return s.Compose(ctx, message).Render()
}
