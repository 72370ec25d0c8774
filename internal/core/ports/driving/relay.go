package driving

import (
	"context"

	"github.com/custodia-labs/nexova-agent/internal/core/domain"
)

// RelayService answers a question and delivers the answer over WhatsApp.
type RelayService interface {
	// Reply generates an answer for text and sends it to the address.
	// The answer is returned even when delivery fails.
	Reply(ctx context.Context, to, text string) (string, domain.SendResult)

	// Notify sends a fixed text to the address without consulting the model.
	Notify(ctx context.Context, to, text string) domain.SendResult
}
