package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/knowledge-driven-dev/kdd-index/internal/container"
	"github.com/knowledge-driven-dev/kdd-index/internal/query"
)

func addImpactTool(s *server.MCPServer, c *container.Container) {
	tool := mcp.NewTool(
		"kdd_impact",
		mcp.WithDescription("Find what changing a node would affect: directly and transitively connected nodes, plus any BDD scenarios that should be rerun."),
		mcp.WithString("node_id", mcp.Required(), mcp.Description("node ID to evaluate a change against, e.g. 'ENT:Invoice'")),
		mcp.WithString("change_type", mcp.Description("the kind of change being evaluated (default 'modify_attribute')")),
		mcp.WithNumber("depth", mcp.Description("transitive-impact traversal depth (default 3)")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)
	s.AddTool(tool, handleImpact(c))
}

func handleImpact(c *container.Container) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}
		nodeID, ok := args["node_id"].(string)
		if !ok || nodeID == "" {
			return mcp.NewToolResultError("node_id parameter is required"), nil
		}

		changeType := query.DefaultChangeType
		if v, ok := args["change_type"].(string); ok && v != "" {
			changeType = v
		}
		depth := query.DefaultImpactDepth
		if v, ok := args["depth"].(float64); ok && v > 0 {
			depth = int(v)
		}

		engine := c.Current().Engine
		result, err := engine.Impact(query.ImpactInput{
			NodeID:     nodeID,
			ChangeType: changeType,
			Depth:      depth,
		})
		if err != nil {
			return toolError(err)
		}
		return jsonResult(result)
	}
}
