package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/nexova-agent/internal/core/domain"
	"github.com/custodia-labs/nexova-agent/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

// Server exposes the Nexova support agent to MCP clients.
type Server struct {
	ports  *Ports
	server *mcp.Server

	// shutdownTimeout bounds in-flight HTTP requests once RunHTTP is cancelled.
	shutdownTimeout time.Duration
}

// NewServer creates an MCP server answering from the given ports.
// The knowledge base must be loaded first; its size is reported to
// clients in the session instructions.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{
		ports:           ports,
		shutdownTimeout: domain.DefaultShutdownTimeout,
	}
	s.server = mcp.NewServer(
		&mcp.Implementation{Name: "nexova", Title: "Nexova support agent", Version: Version},
		&mcp.ServerOptions{Instructions: s.instructions(context.Background())},
	)

	s.registerTools()
	s.registerResources()

	return s, nil
}

// instructions tells clients which tool fits which question.
func (s *Server) instructions(ctx context.Context) string {
	count := len(s.ports.Knowledge.Passages(ctx))
	if count == 0 {
		return "Nexova answers customer questions about Nexova's services. " +
			"The knowledge base is empty, so ask will reply without company facts."
	}
	return fmt.Sprintf("Nexova answers customer questions about Nexova's services. "+
		"Use ask for a finished reply, or search_knowledge to see the passages behind it. "+
		"The knowledge base holds %d passages, readable at %s.", count, knowledgeURI)
}

// Run serves a single client over stdio until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	logger.Debug("MCP server on stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Handler returns the streamable HTTP handler. Every session shares
// the same server.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)
}

// RunHTTP serves streamable HTTP on addr until ctx is cancelled, then
// waits up to the shutdown timeout for open requests.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("MCP server shutdown: %v", err)
		}
	}()

	logger.Debug("MCP server on %s", addr)
	err := httpServer.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-done
	return nil
}
