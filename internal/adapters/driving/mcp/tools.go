package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/nexova-agent/internal/core/domain"
)

// defaultTopK is used when a tool call omits top_k.
const defaultTopK = domain.DefaultTopK

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Message string `json:"message" jsonschema:"the customer question to answer"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Response string `json:"response"`
}

// SearchInput is the input schema for the search_knowledge tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the question or keywords to look up"`
	TopK  int    `json:"top_k,omitempty" jsonschema:"maximum number of passages to return (default 3)"`
}

// SearchOutput is the output schema for the search_knowledge tool.
type SearchOutput struct {
	Passages []PassageOutput `json:"passages"`
	Count    int             `json:"count"`
	Context  string          `json:"context"`
}

// PassageOutput is a single retrieved passage.
type PassageOutput struct {
	Position int    `json:"position"`
	Score    int    `json:"score"`
	Text     string `json:"text"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Ask the Nexova support agent a question and get its grounded answer",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_knowledge",
		Description: "Retrieve the knowledge passages most relevant to a query, with lexical scores",
	}, s.handleSearch)
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	if input.Message == "" {
		return nil, AskOutput{}, errors.New("message is required")
	}
	return nil, AskOutput{Response: s.ports.Chat.GetResponse(ctx, input.Message)}, nil
}

// handleSearch handles the search_knowledge tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	topK := input.TopK
	if topK <= 0 {
		topK = defaultTopK
	}

	scored := s.ports.Knowledge.Retrieve(ctx, input.Query, topK)
	output := SearchOutput{
		Passages: make([]PassageOutput, len(scored)),
		Count:    len(scored),
		Context:  s.ports.Knowledge.Search(ctx, input.Query, topK),
	}
	for i := range scored {
		output.Passages[i] = PassageOutput{
			Position: scored[i].Position,
			Score:    scored[i].Score,
			Text:     scored[i].Text,
		}
	}

	return nil, output, nil
}
