package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for Nexova resources.
	uriScheme = "nexova://"

	knowledgeURI = uriScheme + "knowledge"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         knowledgeURI,
		Name:        "knowledge",
		Description: "Every passage of the loaded knowledge corpus",
		MIMEType:    "application/json",
	}, s.handleKnowledgeResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "passages/{position}",
		Name:        "passage",
		Description: "A single knowledge passage by its corpus position",
		MIMEType:    "text/plain",
	}, s.handlePassageResource)
}

// handleKnowledgeResource returns all passages in corpus order.
func (s *Server) handleKnowledgeResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	passages := s.ports.Knowledge.Passages(ctx)

	data, err := json.MarshalIndent(passages, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling passages: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handlePassageResource returns the text of one passage.
func (s *Server) handlePassageResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	position, ok := extractPosition(req.Params.URI)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	passages := s.ports.Knowledge.Passages(ctx)
	if position >= len(passages) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     passages[position].Text,
		}},
	}, nil
}

// extractPosition parses the position from a URI like nexova://passages/{position}.
func extractPosition(uri string) (int, bool) {
	const prefix = uriScheme + "passages/"

	if !strings.HasPrefix(uri, prefix) {
		return 0, false
	}

	position, err := strconv.Atoi(strings.TrimPrefix(uri, prefix))
	if err != nil || position < 0 {
		return 0, false
	}
	return position, true
}
