package web

import (
	"github.com/custodia-labs/nexova-agent/internal/core/ports/driving"
)

// Ports aggregates the driving ports the HTTP channel needs.
type Ports struct {
	// Chat answers chatbox questions.
	Chat driving.ChatService

	// Relay answers and delivers WhatsApp messages.
	Relay driving.RelayService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Chat == nil {
		return ErrMissingChatService
	}
	if p.Relay == nil {
		return ErrMissingRelayService
	}
	return nil
}
