package driving

import "context"

// ChatService answers an end-user question from the knowledge corpus.
type ChatService interface {
	// GetResponse returns displayable reply text. It never fails: backend
	// and configuration problems are rendered as fixed user-facing strings.
	GetResponse(ctx context.Context, message string) string
}
