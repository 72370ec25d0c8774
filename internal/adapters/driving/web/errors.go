// Package web provides the HTTP channel: the website chatbox API, the
// WhatsApp webhook and the Meta verification handshake.
package web

import "errors"

// ErrMissingChatService is returned when the chat service is not provided.
var ErrMissingChatService = errors.New("web: chat service is required")

// ErrMissingRelayService is returned when the relay service is not provided.
var ErrMissingRelayService = errors.New("web: relay service is required")
