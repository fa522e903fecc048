package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/knowledge-driven-dev/kdd-index/internal/container"
	"github.com/knowledge-driven-dev/kdd-index/internal/graph"
)

func addFindSpecTool(s *server.MCPServer, c *container.Container) {
	tool := mcp.NewTool(
		"kdd_find_spec",
		mcp.WithDescription("Resolve a node ID, alias, or fragment of one to the matching spec document(s). Tries an exact node-ID match first, then falls back to a substring search over IDs, aliases, and indexed fields."),
		mcp.WithString("target", mcp.Required(), mcp.Description("a node ID (e.g. 'ENT:Invoice'), an alias, or a fragment of either")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)
	s.AddTool(tool, handleFindSpec(c))
}

func handleFindSpec(c *container.Container) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}
		target, ok := args["target"].(string)
		if !ok || target == "" {
			return mcp.NewToolResultError("target parameter is required"), nil
		}

		g := c.Current().Graph
		if n, ok := g.GetNode(target); ok {
			return jsonResult([]graph.Node{n})
		}

		matches := g.TextSearch(target, nil)
		return jsonResult(matches)
	}
}
