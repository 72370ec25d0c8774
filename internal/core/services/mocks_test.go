package services

import (
	"context"
	"sync"

	"github.com/custodia-labs/nexova-agent/internal/core/domain"
	"github.com/custodia-labs/nexova-agent/internal/core/ports/driven"
)

// mockLLMService implements driven.LLMService and records calls.
type mockLLMService struct {
	mu       sync.Mutex
	response string
	err      error
	calls    int
	messages []driven.ChatMessage
	opts     driven.ChatOptions
}

func (m *mockLLMService) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.messages = messages
	m.opts = opts
	return m.response, m.err
}

func (m *mockLLMService) ModelName() string {
	return "mock-model"
}

func (m *mockLLMService) Ping(_ context.Context) error {
	return m.err
}

func (m *mockLLMService) Close() error {
	return nil
}

// mockSender implements driven.MessageSender and records deliveries.
type mockSender struct {
	mu     sync.Mutex
	result domain.SendResult
	sent   []sentMessage
}

type sentMessage struct {
	to   string
	text string
}

func (m *mockSender) Send(_ context.Context, to, text string) domain.SendResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMessage{to: to, text: text})
	return m.result
}

// mockChatService implements driving.ChatService with a fixed reply.
type mockChatService struct {
	reply    string
	received []string
}

func (m *mockChatService) GetResponse(_ context.Context, message string) string {
	m.received = append(m.received, message)
	return m.reply
}

// passthroughRegistry implements driven.NormaliserRegistry by returning
// the raw content unchanged.
type passthroughRegistry struct {
	err      error
	lastMIME string
}

func (r *passthroughRegistry) Normalise(_ context.Context, raw *domain.RawDocument) (string, error) {
	r.lastMIME = raw.MIMEType
	if r.err != nil {
		return "", r.err
	}
	return string(raw.Content), nil
}

func (r *passthroughRegistry) Register(_ driven.Normaliser) {}

func (r *passthroughRegistry) SupportedMIMETypes() []string {
	return []string{"text/plain"}
}
