package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/knowledge-driven-dev/kdd-index/internal/container"
	"github.com/knowledge-driven-dev/kdd-index/internal/query"
)

func addRelatedTool(s *server.MCPServer, c *container.Container) {
	tool := mcp.NewTool(
		"kdd_related",
		mcp.WithDescription("Traverse outward from a node and return the nodes and edges reachable within a bounded depth, scored by graph proximity."),
		mcp.WithString("node_id", mcp.Required(), mcp.Description("root node ID, e.g. 'ENT:Invoice'")),
		mcp.WithNumber("depth", mcp.Description("traversal depth (default 2, max 5)")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)
	s.AddTool(tool, handleRelated(c))
}

func handleRelated(c *container.Container) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}
		nodeID, ok := args["node_id"].(string)
		if !ok || nodeID == "" {
			return mcp.NewToolResultError("node_id parameter is required"), nil
		}

		depth := query.DefaultGraphDepth
		if v, ok := args["depth"].(float64); ok {
			d := int(v)
			if d < 0 {
				d = 0
			} else if d > 5 {
				d = 5
			}
			depth = d
		}

		engine := c.Current().Engine
		result, err := engine.GraphQuery(query.GraphQueryInput{
			RootNode:      nodeID,
			Depth:         depth,
			RespectLayers: true,
		})
		if err != nil {
			return toolError(err)
		}
		return jsonResult(result)
	}
}
