package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/knowledge-driven-dev/kdd-index/internal/artifact"
	"github.com/knowledge-driven-dev/kdd-index/internal/container"
)

type statsResponse struct {
	Manifest   artifact.Manifest `json:"manifest"`
	NodeCount  int               `json:"node_count"`
	EdgeCount  int               `json:"edge_count"`
	Violations int               `json:"layer_violations"`
}

func addStatsTool(s *server.MCPServer, c *container.Container) {
	tool := mcp.NewTool(
		"kdd_stats",
		mcp.WithDescription("Report the current index's manifest and live graph counts: nodes, edges, and layer-violating edges."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)
	s.AddTool(tool, handleStats(c))
}

func handleStats(c *container.Container) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		assembled := c.Current()
		resp := statsResponse{
			Manifest:   assembled.Manifest,
			NodeCount:  assembled.Graph.NodeCount(),
			EdgeCount:  assembled.Graph.EdgeCount(),
			Violations: len(assembled.Graph.FindViolations()),
		}
		return jsonResult(resp)
	}
}
