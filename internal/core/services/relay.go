package services

import (
	"context"

	"github.com/custodia-labs/nexova-agent/internal/core/domain"
	"github.com/custodia-labs/nexova-agent/internal/core/ports/driven"
	"github.com/custodia-labs/nexova-agent/internal/core/ports/driving"
	"github.com/custodia-labs/nexova-agent/internal/logger"
)

// Ensure RelayService implements the interface.
var _ driving.RelayService = (*RelayService)(nil)

// missingSenderError matches the sender's own missing-credential result.
const missingSenderError = "Missing Whapi API token"

// RelayService answers questions and forwards the answers to WhatsApp.
type RelayService struct {
	chat   driving.ChatService
	sender driven.MessageSender
}

// NewRelayService creates a new relay service.
// The sender is optional; without it every send fails.
func NewRelayService(chat driving.ChatService, sender driven.MessageSender) *RelayService {
	return &RelayService{
		chat:   chat,
		sender: sender,
	}
}

// Reply generates an answer for text and sends it to the address.
func (s *RelayService) Reply(ctx context.Context, to, text string) (string, domain.SendResult) {
	reply := s.chat.GetResponse(ctx, text)
	return reply, s.Notify(ctx, to, reply)
}

// Notify sends text to the address as is.
func (s *RelayService) Notify(ctx context.Context, to, text string) domain.SendResult {
	if s.sender == nil {
		return domain.DeliveryFailed(missingSenderError)
	}

	result := s.sender.Send(ctx, to, text)
	if !result.Success {
		logger.Warn("WhatsApp delivery to %s failed: %s", to, result.Error)
		return result
	}
	logger.Debug("WhatsApp message delivered to %s", to)
	return result
}
