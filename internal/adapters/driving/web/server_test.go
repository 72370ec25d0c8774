package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/nexova-agent/internal/core/domain"
)

func newTestServer(t *testing.T, chat *mockChatService, relay *mockRelayService) *Server {
	t.Helper()
	s, err := NewServer(&Ports{Chat: chat, Relay: relay}, Config{VerifyToken: "secret-token"})
	require.NoError(t, err)
	return s
}

func do(s *Server, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestNewServer_ValidatesPorts(t *testing.T) {
	_, err := NewServer(&Ports{Relay: &mockRelayService{}}, Config{})
	assert.ErrorIs(t, err, ErrMissingChatService)

	_, err = NewServer(&Ports{Chat: &mockChatService{}}, Config{})
	assert.ErrorIs(t, err, ErrMissingRelayService)

	_, err = NewServer(nil, Config{})
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, &mockChatService{}, &mockRelayService{})

	rec := do(s, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])
}

func TestIndexPage(t *testing.T) {
	s := newTestServer(t, &mockChatService{}, &mockRelayService{})

	rec := do(s, http.MethodGet, "/", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Nexova Support")
	assert.Contains(t, rec.Body.String(), `"/chat"`)
}

func TestRequestID(t *testing.T) {
	s := newTestServer(t, &mockChatService{}, &mockRelayService{})

	rec := do(s, http.MethodGet, "/health", "")
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestChat(t *testing.T) {
	chat := &mockChatService{reply: "We are open 9 to 5."}
	s := newTestServer(t, chat, &mockRelayService{})

	rec := do(s, http.MethodPost, "/chat", `{"message":"When are you open?"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, map[string]any{"response": "We are open 9 to 5."}, decode(t, rec))
	assert.Equal(t, []string{"When are you open?"}, chat.received)
}

func TestChat_FailureTextIsStill200(t *testing.T) {
	chat := &mockChatService{reply: domain.NotConfiguredText}
	s := newTestServer(t, chat, &mockRelayService{})

	rec := do(s, http.MethodPost, "/chat", `{"message":"hi"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.NotConfiguredText, decode(t, rec)["response"])
}

func TestChat_InvalidBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "hello"},
		{name: "missing message", body: `{"text":"hi"}`},
		{name: "wrong type", body: `{"message":42}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chat := &mockChatService{}
			s := newTestServer(t, chat, &mockRelayService{})

			rec := do(s, http.MethodPost, "/chat", tt.body)

			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.Empty(t, chat.received)
		})
	}
}

func TestChat_EmptyMessageIsAccepted(t *testing.T) {
	chat := &mockChatService{reply: "ok"}
	s := newTestServer(t, chat, &mockRelayService{})

	rec := do(s, http.MethodPost, "/chat", `{"message":""}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{""}, chat.received)
}

func TestChat_WrongMethod(t *testing.T) {
	s := newTestServer(t, &mockChatService{}, &mockRelayService{})

	rec := do(s, http.MethodPut, "/chat", `{"message":"x"}`)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestChatWhatsApp(t *testing.T) {
	tests := []struct {
		name        string
		result      domain.SendResult
		wantStatus  string
		wantMessage string
	}{
		{
			name:        "delivered",
			result:      domain.Delivered(),
			wantStatus:  "sent",
			wantMessage: "Response sent to your WhatsApp!",
		},
		{
			name:        "delivery failed",
			result:      domain.DeliveryFailed("Missing Whapi API token"),
			wantStatus:  "error",
			wantMessage: "AI responded but WhatsApp delivery failed: Missing Whapi API token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			relay := &mockRelayService{reply: "Our plans start at $10.", result: tt.result}
			s := newTestServer(t, &mockChatService{}, relay)

			rec := do(s, http.MethodPost, "/chat-whatsapp", `{"phone":" +1 555-0100 ","message":"Pricing?"}`)

			require.Equal(t, http.StatusOK, rec.Code)
			body := decode(t, rec)
			assert.Equal(t, tt.wantStatus, body["status"])
			assert.Equal(t, "Our plans start at $10.", body["response"])
			assert.Equal(t, tt.wantMessage, body["message"])

			calls := relay.snapshot()
			require.Len(t, calls, 1)
			assert.Equal(t, "15550100", calls[0].to)
			assert.Equal(t, "Pricing?", calls[0].text)
		})
	}
}

func TestChatWhatsApp_MissingPhone(t *testing.T) {
	relay := &mockRelayService{}
	s := newTestServer(t, &mockChatService{}, relay)

	rec := do(s, http.MethodPost, "/chat-whatsapp", `{"message":"Pricing?"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, relay.snapshot())
}

func TestVerify(t *testing.T) {
	s := newTestServer(t, &mockChatService{}, &mockRelayService{})

	rec := do(s, http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=secret-token&hub.challenge=12345", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "12345", rec.Body.String())

	rec = do(s, http.MethodGet, "/webhook?hub.verify_token=wrong&hub.challenge=12345", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NotContains(t, rec.Body.String(), "12345")
}

func TestVerify_DefaultToken(t *testing.T) {
	s, err := NewServer(&Ports{Chat: &mockChatService{}, Relay: &mockRelayService{}}, Config{})
	require.NoError(t, err)

	rec := do(s, http.MethodGet, "/webhook?hub.verify_token=nexova_verify&hub.challenge=ok", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestWebhook_ProcessesInBackground(t *testing.T) {
	relay := &mockRelayService{reply: "answer", result: domain.Delivered()}
	s := newTestServer(t, &mockChatService{}, relay)

	body := `{"messages":[
		{"id":"1","type":"text","from_me":false,"chat_id":"15550100@s.whatsapp.net","from":"15550100","text":{"body":"hours?"}},
		{"id":"2","type":"text","from_me":true,"chat_id":"15550100@s.whatsapp.net","text":{"body":"our own echo"}}
	]}`
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set(RequestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])

	require.NoError(t, s.Drain(context.Background()))
	calls := relay.snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, relayCall{to: "15550100", text: "hours?", reqID: "req-42"}, calls[0])
}

func TestWebhook_NonTextSendsNotice(t *testing.T) {
	relay := &mockRelayService{result: domain.Delivered()}
	s := newTestServer(t, &mockChatService{}, relay)

	rec := do(s, http.MethodPost, "/webhook", `{"id":"9","type":"image","chat_id":"15550100@s.whatsapp.net"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, s.Drain(context.Background()))
	calls := relay.snapshot()
	require.Len(t, calls, 1)
	assert.True(t, calls[0].notify)
	assert.Equal(t, "15550100", calls[0].to)
	assert.Equal(t, TextOnlyNotice, calls[0].text)
}

func TestWebhook_InvalidJSON(t *testing.T) {
	relay := &mockRelayService{}
	s := newTestServer(t, &mockChatService{}, relay)

	rec := do(s, http.MethodPost, "/webhook", "{not json")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NoError(t, s.Drain(context.Background()))
	assert.Empty(t, relay.snapshot())
}

func TestWebhook_UnknownShapeIsAcknowledged(t *testing.T) {
	relay := &mockRelayService{}
	s := newTestServer(t, &mockChatService{}, relay)

	rec := do(s, http.MethodPost, "/webhook", `{"event":"statuses","statuses":[]}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, s.Drain(context.Background()))
	assert.Empty(t, relay.snapshot())
}

func TestDrain_TimesOut(t *testing.T) {
	relay := &mockRelayService{block: make(chan struct{})}
	defer close(relay.block)
	s := newTestServer(t, &mockChatService{}, relay)

	do(s, http.MethodPost, "/webhook", `[{"id":"1","type":"text","chat_id":"1@s.whatsapp.net","text":"hi"}]`)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.Drain(ctx), context.DeadlineExceeded)
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	s := newTestServer(t, &mockChatService{}, &mockRelayService{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, "127.0.0.1:0") }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
