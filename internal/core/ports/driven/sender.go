package driven

import (
	"context"

	"github.com/custodia-labs/nexova-agent/internal/core/domain"
)

// MessageSender delivers a text message to a channel address.
// Failures are reported in the result, never as a panic or error.
type MessageSender interface {
	// Send delivers text to the destination address.
	Send(ctx context.Context, to, text string) domain.SendResult
}
