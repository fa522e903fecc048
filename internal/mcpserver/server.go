// Package mcpserver exposes the query engine over stdio as an MCP tool
// server: seven named tools an agent calls instead of shelling out to
// the kdd CLI. Each tool is a thin adapter over internal/query and
// internal/graph; the server itself only owns process lifecycle.
package mcpserver

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	"github.com/knowledge-driven-dev/kdd-index/internal/container"
)

// Server wraps an mcp-go server bound to a live Container, so a reindex
// swaps the snapshot every tool handler reads from without restarting
// the process.
type Server struct {
	mcp *server.MCPServer
	c   *container.Container
}

// New builds a kdd MCP server and registers all seven tools against c.
func New(c *container.Container) *Server {
	mcpServer := server.NewMCPServer(
		"kdd-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	addSearchTool(mcpServer, c)
	addFindSpecTool(mcpServer, c)
	addRelatedTool(mcpServer, c)
	addImpactTool(mcpServer, c)
	addReadSectionTool(mcpServer, c)
	addListTool(mcpServer, c)
	addStatsTool(mcpServer, c)

	return &Server{mcp: mcpServer, c: c}
}

// Serve runs the server on stdio until ctx is cancelled or an interrupt
// signal arrives.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Println("kdd-mcp: serving on stdio")
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("mcpserver: serve stdio: %w", err)
		}
	}()

	select {
	case <-sigCh:
		log.Println("kdd-mcp: shutdown signal received")
		return nil
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
