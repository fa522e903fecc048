package mcpserver

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/knowledge-driven-dev/kdd-index/internal/container"
	"github.com/knowledge-driven-dev/kdd-index/internal/mdparse"
)

func addReadSectionTool(s *server.MCPServer, c *container.Container) {
	tool := mcp.NewTool(
		"kdd_read_section",
		mcp.WithDescription("Read one section's body text from a node's source document, by its dotted heading path (e.g. 'description' or 'lifecycle-events.emits'). Omit section_path to get the full list of section paths available."),
		mcp.WithString("node_id", mcp.Required(), mcp.Description("node ID whose source document to read, e.g. 'ENT:Invoice'")),
		mcp.WithString("section_path", mcp.Description("dotted anchor-slug path of the section to read; omit to list available sections")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)
	s.AddTool(tool, handleReadSection(c))
}

func handleReadSection(c *container.Container) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}
		nodeID, ok := args["node_id"].(string)
		if !ok || nodeID == "" {
			return mcp.NewToolResultError("node_id parameter is required"), nil
		}

		node, ok := c.Current().Graph.GetNode(nodeID)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("node not found: %s", nodeID)), nil
		}

		raw, err := os.ReadFile(node.SourcePath)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("cannot read source file %s: %v", node.SourcePath, err)), nil
		}
		doc := mdparse.Parse(string(raw))

		sectionPath, _ := args["section_path"].(string)
		if sectionPath == "" {
			paths := make([]string, len(doc.Sections))
			for i, sec := range doc.Sections {
				paths[i] = sec.Path
			}
			return jsonResult(map[string]any{"node_id": nodeID, "sections": paths})
		}

		for _, sec := range doc.Sections {
			if strings.EqualFold(sec.Path, sectionPath) {
				return jsonResult(map[string]any{
					"node_id": nodeID, "section_path": sec.Path, "heading": sec.Heading, "body": sec.Body,
				})
			}
		}
		return mcp.NewToolResultError(fmt.Sprintf("section not found: %s", sectionPath)), nil
	}
}
