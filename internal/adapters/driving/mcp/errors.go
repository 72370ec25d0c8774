// Package mcp provides an MCP (Model Context Protocol) server adapter for Nexova.
// It lets AI assistants ask the support agent questions and read its knowledge corpus.
package mcp

import "errors"

// ErrMissingChatService is returned when the chat service is not provided.
var ErrMissingChatService = errors.New("mcp: chat service is required")

// ErrMissingKnowledgeService is returned when the knowledge service is not provided.
var ErrMissingKnowledgeService = errors.New("mcp: knowledge service is required")
