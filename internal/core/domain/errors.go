package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown provider or normaliser type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrLLMUnavailable indicates the completion backend is not configured
	// or could not be reached.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrNotConfigured indicates a channel is missing its credentials.
	ErrNotConfigured = errors.New("not configured")

	// ErrDeliveryFailed indicates an outbound message was not accepted.
	ErrDeliveryFailed = errors.New("delivery failed")

	// ErrRateLimited indicates a provider rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
