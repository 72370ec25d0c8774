package domain

import (
	"fmt"
	"strings"
)

// SendResult is the outcome of an outbound message delivery.
type SendResult struct {
	// Success is true when the provider accepted the message.
	Success bool `json:"success"`

	// Error describes the failure. Empty on success.
	Error string `json:"error,omitempty"`
}

// Delivered returns a successful SendResult.
func Delivered() SendResult {
	return SendResult{Success: true}
}

// DeliveryFailed returns a failed SendResult with the given reason.
func DeliveryFailed(reason string) SendResult {
	return SendResult{Error: reason}
}

// Err converts a failed result to an error wrapping ErrDeliveryFailed.
// Returns nil on success.
func (r SendResult) Err() error {
	if r.Success {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrDeliveryFailed, r.Error)
}

// whatsappSuffix is the JID suffix of personal WhatsApp chats.
const whatsappSuffix = "@s.whatsapp.net"

// NormalisePhone strips formatting from a user-entered phone number,
// leaving the digits Whapi expects ("+1 555-0100" becomes "15550100").
func NormalisePhone(phone string) string {
	return strings.NewReplacer("+", "", " ", "", "-", "").Replace(strings.TrimSpace(phone))
}

// PhoneFromChatID returns the phone part of a WhatsApp chat id.
// Group and other non-personal ids are returned unchanged.
func PhoneFromChatID(chatID string) string {
	return strings.ReplaceAll(chatID, whatsappSuffix, "")
}
