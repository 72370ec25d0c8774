package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/custodia-labs/nexova-agent/internal/core/domain"
	"github.com/custodia-labs/nexova-agent/internal/logger"
)

//go:embed static
var staticFiles embed.FS

// maxBodyBytes caps request bodies on every endpoint.
const maxBodyBytes = 1 << 20

// Handoff response texts.
const (
	HandoffSent   = "Response sent to your WhatsApp!"
	HandoffFailed = "AI responded but WhatsApp delivery failed: "
)

// Config holds HTTP channel settings.
type Config struct {
	// VerifyToken answers GET /webhook verification.
	VerifyToken string

	// ShutdownTimeout bounds graceful shutdown and webhook drain.
	ShutdownTimeout time.Duration
}

// Server serves the chatbox API and the WhatsApp webhook.
type Server struct {
	ports   *Ports
	cfg     Config
	handler http.Handler

	// inflight tracks background webhook processing.
	inflight sync.WaitGroup
}

// NewServer creates a new HTTP channel with the given ports.
func NewServer(ports *Ports, cfg Config) (*Server, error) {
	if ports == nil {
		return nil, ErrMissingChatService
	}
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}
	if cfg.VerifyToken == "" {
		cfg.VerifyToken = domain.DefaultVerifyToken
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = domain.DefaultShutdownTimeout
	}

	s := &Server{ports: ports, cfg: cfg}
	s.handler = withRequestID(s.routes())
	return s, nil
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	mux.Handle("GET /", http.FileServerFS(static))

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("POST /chat-whatsapp", s.handleChatWhatsApp)
	mux.HandleFunc("GET /webhook", s.handleVerify)
	mux.HandleFunc("POST /webhook", s.handleWebhook)
	return mux
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves on addr until ctx is cancelled, then shuts down and waits
// for background webhook work.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()
	logger.Info("HTTP server listening on %s", addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return s.Drain(shutdownCtx)
}

// Drain waits for background webhook processing to finish or ctx to end.
func (s *Server) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("webhook drain: %w", ctx.Err())
	}
}

type chatRequest struct {
	Message *string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
}

type handoffRequest struct {
	Phone   *string `json:"phone"`
	Message *string `json:"message"`
}

type handoffResponse struct {
	Status   string `json:"status"`
	Response string `json:"response"`
	Message  string `json:"message"`
}

type statusResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

// handleChat answers a chatbox question.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeBody(r, &req); err != nil || req.Message == nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Detail: "body must be {\"message\": string}"})
		return
	}

	reply := s.ports.Chat.GetResponse(r.Context(), *req.Message)
	writeJSON(w, http.StatusOK, chatResponse{Response: reply})
}

// handleChatWhatsApp answers a chatbox question and delivers it to WhatsApp.
func (s *Server) handleChatWhatsApp(w http.ResponseWriter, r *http.Request) {
	var req handoffRequest
	if err := decodeBody(r, &req); err != nil || req.Phone == nil || req.Message == nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Detail: "body must be {\"phone\": string, \"message\": string}"})
		return
	}

	phone := domain.NormalisePhone(*req.Phone)
	reply, result := s.ports.Relay.Reply(r.Context(), phone, *req.Message)

	if result.Success {
		writeJSON(w, http.StatusOK, handoffResponse{Status: "sent", Response: reply, Message: HandoffSent})
		return
	}
	writeJSON(w, http.StatusOK, handoffResponse{Status: "error", Response: reply, Message: HandoffFailed + result.Error})
}

// handleVerify answers the Meta webhook verification handshake.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("hub.verify_token") != s.cfg.VerifyToken {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	logger.Info("Meta webhook verification succeeded")
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, q.Get("hub.challenge"))
}

// handleWebhook acknowledges a Whapi delivery and answers each inbound
// message in the background.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	reqID := RequestID(r.Context())

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "unreadable body"})
		return
	}
	logger.Debug("[%s] Webhook received: %s", reqID, string(raw))

	messages, err := parseWebhookPayload(raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "body must be JSON"})
		return
	}
	logger.Debug("[%s] Found %d messages to process", reqID, len(messages))

	// Processing outlives the request but keeps its values.
	ctx := context.WithoutCancel(r.Context())
	for _, msg := range messages {
		if msg.FromMe {
			continue
		}
		s.inflight.Add(1)
		go func(msg whapiMessage) {
			defer s.inflight.Done()
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("[%s] Webhook message %s panicked: %v", reqID, msg.ID, rec)
				}
			}()
			s.processMessage(ctx, msg)
		}(msg)
	}

	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

func decodeBody(r *http.Request, v any) error {
	return json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to write response: %v", err)
	}
}
