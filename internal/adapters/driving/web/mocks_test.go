package web

import (
	"context"
	"sync"

	"github.com/custodia-labs/nexova-agent/internal/core/domain"
)

// mockChatService implements driving.ChatService with a fixed reply.
type mockChatService struct {
	mu       sync.Mutex
	reply    string
	received []string
}

func (m *mockChatService) GetResponse(_ context.Context, message string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.received = append(m.received, message)
	return m.reply
}

// relayCall records one Reply or Notify invocation.
type relayCall struct {
	to     string
	text   string
	notify bool
	reqID  string
}

// mockRelayService implements driving.RelayService and records calls.
type mockRelayService struct {
	mu     sync.Mutex
	reply  string
	result domain.SendResult
	calls  []relayCall
	block  chan struct{}
}

func (m *mockRelayService) Reply(ctx context.Context, to, text string) (string, domain.SendResult) {
	if m.block != nil {
		<-m.block
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, relayCall{to: to, text: text, reqID: RequestID(ctx)})
	return m.reply, m.result
}

func (m *mockRelayService) Notify(ctx context.Context, to, text string) domain.SendResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, relayCall{to: to, text: text, notify: true, reqID: RequestID(ctx)})
	return m.result
}

func (m *mockRelayService) snapshot() []relayCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]relayCall(nil), m.calls...)
}
