package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/knowledge-driven-dev/kdd-index/internal/container"
	"github.com/knowledge-driven-dev/kdd-index/internal/query"
)

func addSearchTool(s *server.MCPServer, c *container.Container) {
	tool := mcp.NewTool(
		"kdd_search",
		mcp.WithDescription("Hybrid search over the spec graph: fuses semantic similarity, lexical substring hits, and graph proximity into one ranked list of matching documents."),
		mcp.WithString("query", mcp.Required(), mcp.Description("natural-language or keyword search text")),
		mcp.WithNumber("min_score", mcp.Description("minimum fused score to include a result (default 0.5)")),
		mcp.WithNumber("limit", mcp.Description("maximum number of results (default 10)")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)
	s.AddTool(tool, handleSearch(c))
}

func handleSearch(c *container.Container) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		queryText, ok := args["query"].(string)
		if !ok || queryText == "" {
			return mcp.NewToolResultError("query parameter is required"), nil
		}

		minScore := query.DefaultHybridMinScore
		if v, ok := args["min_score"].(float64); ok {
			minScore = v
		}
		limit := query.DefaultHybridLimit
		if v, ok := args["limit"].(float64); ok && v > 0 {
			limit = int(v)
		}

		engine := c.Current().Engine
		result, err := engine.HybridQuery(ctx, query.HybridQueryInput{
			QueryText:     queryText,
			ExpandGraph:   true,
			Depth:         query.DefaultHybridDepth,
			RespectLayers: true,
			MinScore:      minScore,
			Limit:         limit,
			MaxTokens:     query.DefaultHybridMaxTokens,
		})
		if err != nil {
			return toolError(err)
		}
		return jsonResult(result)
	}
}

// toolError renders a *query.Error as a tool-level error result rather
// than a transport error, since NODE_NOT_FOUND / QUERY_TOO_SHORT are
// expected outcomes an agent should be able to read and react to.
func toolError(err error) (*mcp.CallToolResult, error) {
	if qerr, ok := err.(*query.Error); ok {
		return mcp.NewToolResultError(fmt.Sprintf("%s: %s", qerr.Code, qerr.Message)), nil
	}
	return nil, err
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("mcpserver: marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
