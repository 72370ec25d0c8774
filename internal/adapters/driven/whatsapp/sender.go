// Package whatsapp delivers outbound text messages through the Whapi gateway.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/nexova-agent/internal/core/domain"
	"github.com/custodia-labs/nexova-agent/internal/core/ports/driven"
	"github.com/custodia-labs/nexova-agent/internal/logger"
	"github.com/custodia-labs/nexova-agent/internal/ratelimit"
)

// Ensure Sender implements the interface.
var _ driven.MessageSender = (*Sender)(nil)

// Default configuration values.
const (
	DefaultTimeout = 30 * time.Second

	// MissingTokenError is reported when no Whapi token is configured.
	MissingTokenError = "Missing Whapi API token"
)

// Config holds configuration for the Whapi sender.
type Config struct {
	// APIURL is the gateway base URL (default: https://gate.whapi.cloud).
	APIURL string

	// Token is the Whapi bearer token. Sends fail without it.
	Token string

	// RatePerSecond paces outbound messages. Zero disables pacing.
	RatePerSecond float64

	// Timeout bounds a single send (default: 30s).
	Timeout time.Duration
}

// Sender posts messages to {APIURL}/messages/text.
type Sender struct {
	client  *http.Client
	baseURL string
	hasAuth bool
	limiter *ratelimit.Limiter
}

type textMessage struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

// NewSender creates a Whapi sender.
func NewSender(cfg Config) *Sender {
	if cfg.APIURL == "" {
		cfg.APIURL = domain.DefaultWhapiAPIURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	client := &http.Client{Timeout: cfg.Timeout}
	if cfg.Token != "" {
		client.Transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token, TokenType: "Bearer"}),
		}
	}

	return &Sender{
		client:  client,
		baseURL: strings.TrimRight(cfg.APIURL, "/"),
		hasAuth: cfg.Token != "",
		limiter: ratelimit.New(cfg.RatePerSecond, 1),
	}
}

// Send delivers text to the phone number. Failures are reported in the
// result, never as a panic or error return.
func (s *Sender) Send(ctx context.Context, to, text string) domain.SendResult {
	if !s.hasAuth {
		logger.Warn("WHAPI_TOKEN is not set, cannot send to %s", to)
		return domain.DeliveryFailed(MissingTokenError)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return domain.DeliveryFailed(err.Error())
	}

	payload, err := json.Marshal(textMessage{To: to, Body: text})
	if err != nil {
		return domain.DeliveryFailed(fmt.Sprintf("marshal request: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/messages/text", bytes.NewReader(payload))
	if err != nil {
		return domain.DeliveryFailed(fmt.Sprintf("create request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	logger.Debug("Whapi send: to=%s body_len=%d", to, len(text))

	resp, err := s.client.Do(req)
	if err != nil {
		return domain.DeliveryFailed(err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.DeliveryFailed(fmt.Sprintf("read response: %v", err))
	}
	logger.Debug("Whapi status %d: %s", resp.StatusCode, string(body))

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		return domain.Delivered()
	case http.StatusTooManyRequests:
		s.limiter.Backoff(ratelimit.RetryAfter(resp.Header))
	}

	return domain.DeliveryFailed(errorMessage(body))
}

// errorMessage extracts a readable reason from a Whapi error body.
// Whapi wraps errors as {"error": {"code": 400, "message": "..."}};
// some responses carry a top-level "message" instead.
func errorMessage(body []byte) string {
	var parsed struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return strings.TrimSpace(string(body))
	}

	var nested struct {
		Message string `json:"message"`
	}
	if len(parsed.Error) > 0 && json.Unmarshal(parsed.Error, &nested) == nil && nested.Message != "" {
		return nested.Message
	}
	if parsed.Message != "" {
		return parsed.Message
	}
	return strings.TrimSpace(string(body))
}
