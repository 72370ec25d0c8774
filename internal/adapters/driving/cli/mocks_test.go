package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/custodia-labs/nexova-agent/internal/core/domain"
)

type mockChatService struct {
	reply    string
	received []string
}

func (m *mockChatService) GetResponse(_ context.Context, message string) string {
	m.received = append(m.received, message)
	return m.reply
}

type mockKnowledgeService struct {
	results  []domain.ScoredPassage
	lastTopK int
}

func (m *mockKnowledgeService) Search(context.Context, string, int) string { return "" }

func (m *mockKnowledgeService) Retrieve(_ context.Context, _ string, topK int) []domain.ScoredPassage {
	m.lastTopK = topK
	return m.results
}

func (m *mockKnowledgeService) Passages(context.Context) []domain.Passage { return nil }

type mockRelayService struct{}

func (m *mockRelayService) Reply(context.Context, string, string) (string, domain.SendResult) {
	return "", domain.Delivered()
}

func (m *mockRelayService) Notify(context.Context, string, string) domain.SendResult {
	return domain.Delivered()
}

type mockSettingsService struct {
	settings domain.Settings
	getErr   error
	setErr   error
	set      map[string]string
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{settings: domain.DefaultSettings(), set: make(map[string]string)}
}

func (m *mockSettingsService) Get() (*domain.Settings, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.set[key] = value
	return nil
}

func (m *mockSettingsService) Keys() []string {
	return []string{"llm.provider", "llm.model"}
}

type testServices struct {
	chat      *mockChatService
	knowledge *mockKnowledgeService
	settings  *mockSettingsService
	pingErr   error
	pinged    int
}

// setupTestServices installs mocks and returns a cleanup that restores the
// previous services and flag values.
func setupTestServices() (*testServices, func()) {
	ts := &testServices{
		chat: &mockChatService{reply: "We build chatbots."},
		knowledge: &mockKnowledgeService{results: []domain.ScoredPassage{
			{Passage: domain.Passage{Position: 2, Text: "Pricing starts at $10."}, Score: 2},
		}},
		settings: newMockSettingsService(),
	}

	prevChat, prevKnowledge, prevRelay, prevSettings, prevPing := chatService, knowledgeService, relayService, settingsService, pingLLM
	prevBootstrap := bootstrap

	SetServices(&Services{
		Chat:      ts.chat,
		Knowledge: ts.knowledge,
		Relay:     &mockRelayService{},
		Settings:  ts.settings,
		PingLLM: func(context.Context) error {
			ts.pinged++
			return ts.pingErr
		},
	})
	bootstrap = nil

	return ts, func() {
		chatService, knowledgeService, relayService, settingsService, pingLLM = prevChat, prevKnowledge, prevRelay, prevSettings, prevPing
		bootstrap = prevBootstrap
	}
}

// executeCommand runs the root command with args and stdin, returning output.
func executeCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	askRaw, searchJSON, searchTopK, configPing, serveAddr = false, false, domain.DefaultTopK, false, ""
	envFile, configPath, verbose = "", "", false

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}
