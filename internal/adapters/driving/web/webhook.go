package web

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/custodia-labs/nexova-agent/internal/core/domain"
	"github.com/custodia-labs/nexova-agent/internal/logger"
)

// TextOnlyNotice answers messages that carry no text.
const TextOnlyNotice = "I can only process text messages for now. Please type your question!"

// whapiMessage is the subset of a Whapi message the bot reads.
type whapiMessage struct {
	ID     string          `json:"id"`
	Type   string          `json:"type"`
	FromMe bool            `json:"from_me"`
	ChatID string          `json:"chat_id"`
	From   string          `json:"from"`
	Text   json.RawMessage `json:"text"`
	Body   json.RawMessage `json:"body"`
}

// parseWebhookPayload normalises the three payload shapes Whapi sends:
// {"messages": [...]}, a single message object carrying "id" and "type",
// or a bare array. Any other JSON value yields no messages.
// Elements that do not decode as messages are skipped.
func parseWebhookPayload(raw []byte) ([]whapiMessage, error) {
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}

	var elements []json.RawMessage
	switch v := payload.(type) {
	case map[string]any:
		if _, ok := v["messages"]; ok {
			var wrapped struct {
				Messages []json.RawMessage `json:"messages"`
			}
			if err := json.Unmarshal(raw, &wrapped); err != nil {
				logger.Warn("Webhook \"messages\" is not a list, ignoring payload")
				return nil, nil
			}
			elements = wrapped.Messages
		} else if hasKeys(v, "id", "type") {
			elements = []json.RawMessage{raw}
		}
	case []any:
		if err := json.Unmarshal(raw, &elements); err != nil {
			return nil, err
		}
	}

	messages := make([]whapiMessage, 0, len(elements))
	for _, element := range elements {
		var msg whapiMessage
		if err := json.Unmarshal(element, &msg); err != nil {
			logger.Warn("Skipping undecodable webhook message: %v", err)
			continue
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func hasKeys(m map[string]any, keys ...string) bool {
	for _, k := range keys {
		if _, ok := m[k]; !ok {
			return false
		}
	}
	return true
}

// textBody extracts the message text. ok is false when the message is
// not a text message and has no top-level body.
func (m whapiMessage) textBody() (text string, ok bool) {
	if m.Type == "text" {
		var obj struct {
			Body string `json:"body"`
		}
		if json.Unmarshal(m.Text, &obj) == nil && obj.Body != "" {
			return obj.Body, true
		}
		var s string
		if json.Unmarshal(m.Text, &s) == nil {
			return s, true
		}
		return "", true
	}

	if present(m.Body) {
		var s string
		if json.Unmarshal(m.Body, &s) == nil {
			return s, true
		}
		return "", true
	}
	return "", false
}

// present reports whether a raw field was in the payload at all.
func present(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) > 0
}

// replyAddress is the phone the answer goes to: the chat id without the
// WhatsApp suffix, falling back to the sender.
func (m whapiMessage) replyAddress() string {
	if phone := domain.PhoneFromChatID(m.ChatID); phone != "" {
		return phone
	}
	return m.From
}

// processMessage answers one inbound message. Errors never escape.
func (s *Server) processMessage(ctx context.Context, msg whapiMessage) {
	reqID := RequestID(ctx)

	text, ok := msg.textBody()
	if !ok {
		if phone := domain.PhoneFromChatID(msg.ChatID); phone != "" {
			logger.Debug("[%s] Non-text message %s (%s), sending notice", reqID, msg.ID, msg.Type)
			s.ports.Relay.Notify(ctx, phone, TextOnlyNotice)
		}
		return
	}
	if text == "" {
		logger.Debug("[%s] Empty message %s ignored", reqID, msg.ID)
		return
	}

	phone := msg.replyAddress()
	logger.Info("[%s] Processing message from %s", reqID, phone)

	_, result := s.ports.Relay.Reply(ctx, phone, text)
	if !result.Success {
		logger.Warn("[%s] Reply to %s not delivered: %s", reqID, phone, result.Error)
	}
}
