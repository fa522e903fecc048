package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/knowledge-driven-dev/kdd-index/internal/container"
	"github.com/knowledge-driven-dev/kdd-index/internal/graph"
	"github.com/knowledge-driven-dev/kdd-index/internal/kindrules"
)

func addListTool(s *server.MCPServer, c *container.Container) {
	tool := mcp.NewTool(
		"kdd_list",
		mcp.WithDescription("List every indexed node, optionally filtered by kind and/or layer."),
		mcp.WithString("kind", mcp.Description("restrict to this kind, e.g. 'entity'")),
		mcp.WithString("layer", mcp.Description("restrict to this layer, e.g. 'domain'")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)
	s.AddTool(tool, handleList(c))
}

func handleList(c *container.Container) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		var kindFilter kindrules.Kind
		if v, ok := args["kind"].(string); ok && v != "" {
			kindFilter = kindrules.Kind(v)
		}
		var layerFilter kindrules.Layer
		if v, ok := args["layer"].(string); ok && v != "" {
			layerFilter = kindrules.Layer(v)
		}

		var out []graph.Node
		for _, n := range c.Current().Graph.AllNodes() {
			if kindFilter != "" && n.Kind != kindFilter {
				continue
			}
			if layerFilter != "" && n.Layer != layerFilter {
				continue
			}
			out = append(out, n)
		}
		return jsonResult(out)
	}
}
