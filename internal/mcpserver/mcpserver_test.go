package mcpserver

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knowledge-driven-dev/kdd-index/internal/artifact"
	"github.com/knowledge-driven-dev/kdd-index/internal/container"
	"github.com/knowledge-driven-dev/kdd-index/internal/graph"
	"github.com/knowledge-driven-dev/kdd-index/internal/kindrules"
	"github.com/knowledge-driven-dev/kdd-index/internal/query"
)

// newTestContainer builds a Container over a small in-memory graph: an
// invoice entity, a use case, and one COMPONENT_USES_ENTITY edge from the
// use case to the entity.
func newTestContainer(t *testing.T) *container.Container {
	t.Helper()

	invoicePath := filepath.Join(t.TempDir(), "Invoice.md")
	require.NoError(t, os.WriteFile(invoicePath, []byte(""+
		"---\nkind: entity\nid: Invoice\n---\n\n"+
		"## Description\n\nAn invoice record.\n\n"+
		"## Fields\n\nAmount, currency.\n"), 0o644))

	nodes := []graph.Node{
		{
			ID: "ENT:Invoice", Kind: kindrules.KindEntity, Layer: kindrules.LayerDomain,
			SourcePath: invoicePath, Status: "active", Aliases: []string{"invoice record"},
			Domain: "billing", IndexedAt: time.Now(),
		},
		{
			ID: "UC:ApproveInvoice", Kind: kindrules.KindUseCase, Layer: kindrules.LayerBehavior,
			SourcePath: invoicePath, Status: "active", Domain: "billing", IndexedAt: time.Now(),
		},
	}
	edges := []graph.Edge{
		{From: "UC:ApproveInvoice", To: "ENT:Invoice", Type: graph.EdgeComponentUsesEntity},
	}

	g := graph.NewStore()
	g.Load(nodes, edges)

	assembled := &container.Assembled{
		Manifest: artifact.Manifest{FormatVersion: 1, KDDVersion: "test"},
		Graph:    g,
		Engine:   query.NewEngine(g, nil, nil),
	}
	return container.New(assembled)
}

func callTool(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{Params: mcp.CallToolParams{Arguments: args}}
	result, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func decodeText(t *testing.T, result *mcp.CallToolResult, v any) {
	t.Helper()
	require.False(t, result.IsError, "expected a success result")
	require.Len(t, result.Content, 1)
	textContent, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok, "expected text content")
	require.NoError(t, json.Unmarshal([]byte(textContent.Text), v))
}

func TestHandleFindSpec_ExactIDMatch(t *testing.T) {
	c := newTestContainer(t)
	result := callTool(t, handleFindSpec(c), map[string]interface{}{"target": "ENT:Invoice"})

	var nodes []graph.Node
	decodeText(t, result, &nodes)
	require.Len(t, nodes, 1)
	assert.Equal(t, "ENT:Invoice", nodes[0].ID)
}

func TestHandleFindSpec_FallsBackToAliasSearch(t *testing.T) {
	c := newTestContainer(t)
	result := callTool(t, handleFindSpec(c), map[string]interface{}{"target": "invoice record"})

	var nodes []graph.Node
	decodeText(t, result, &nodes)
	require.Len(t, nodes, 1)
	assert.Equal(t, "ENT:Invoice", nodes[0].ID)
}

func TestHandleFindSpec_MissingTargetIsToolError(t *testing.T) {
	c := newTestContainer(t)
	result := callTool(t, handleFindSpec(c), map[string]interface{}{})
	assert.True(t, result.IsError)
}

func TestHandleRelated_TraversesFromRoot(t *testing.T) {
	c := newTestContainer(t)
	result := callTool(t, handleRelated(c), map[string]interface{}{"node_id": "UC:ApproveInvoice"})

	var out query.GraphQueryResult
	decodeText(t, result, &out)
	assert.Equal(t, "UC:ApproveInvoice", out.Center.ID)
	require.Len(t, out.Related, 1)
	assert.Equal(t, "ENT:Invoice", out.Related[0].Node.ID)
}

func TestHandleRelated_UnknownNodeIsToolError(t *testing.T) {
	c := newTestContainer(t)
	result := callTool(t, handleRelated(c), map[string]interface{}{"node_id": "ENT:DoesNotExist"})
	assert.True(t, result.IsError)
}

func TestHandleList_FiltersByKind(t *testing.T) {
	c := newTestContainer(t)
	result := callTool(t, handleList(c), map[string]interface{}{"kind": "entity"})

	var nodes []graph.Node
	decodeText(t, result, &nodes)
	require.Len(t, nodes, 1)
	assert.Equal(t, kindrules.KindEntity, nodes[0].Kind)
}

func TestHandleList_NoFilterReturnsEverything(t *testing.T) {
	c := newTestContainer(t)
	result := callTool(t, handleList(c), map[string]interface{}{})

	var nodes []graph.Node
	decodeText(t, result, &nodes)
	assert.Len(t, nodes, 2)
}

func TestHandleStats_ReportsGraphCounts(t *testing.T) {
	c := newTestContainer(t)
	result := callTool(t, handleStats(c), map[string]interface{}{})

	var resp statsResponse
	decodeText(t, result, &resp)
	assert.Equal(t, 2, resp.NodeCount)
	assert.Equal(t, 1, resp.EdgeCount)
	assert.Equal(t, 0, resp.Violations)
}

func TestHandleReadSection_ListsSectionsWithoutSectionPath(t *testing.T) {
	c := newTestContainer(t)
	result := callTool(t, handleReadSection(c), map[string]interface{}{"node_id": "ENT:Invoice"})

	var resp struct {
		NodeID   string   `json:"node_id"`
		Sections []string `json:"sections"`
	}
	decodeText(t, result, &resp)
	assert.Equal(t, "ENT:Invoice", resp.NodeID)
	assert.Contains(t, resp.Sections, "description")
	assert.Contains(t, resp.Sections, "fields")
}

func TestHandleReadSection_ReturnsBodyForMatchingSection(t *testing.T) {
	c := newTestContainer(t)
	result := callTool(t, handleReadSection(c), map[string]interface{}{
		"node_id": "ENT:Invoice", "section_path": "Description",
	})

	var resp struct {
		NodeID  string `json:"node_id"`
		Heading string `json:"heading"`
		Body    string `json:"body"`
	}
	decodeText(t, result, &resp)
	assert.Equal(t, "ENT:Invoice", resp.NodeID)
	assert.Contains(t, resp.Body, "invoice record")
}

func TestHandleImpact_ReturnsAffectedNodes(t *testing.T) {
	c := newTestContainer(t)
	result := callTool(t, handleImpact(c), map[string]interface{}{"node_id": "ENT:Invoice"})

	var out query.ImpactResult
	decodeText(t, result, &out)
	require.Len(t, out.DirectlyAffected, 1)
	assert.Equal(t, "UC:ApproveInvoice", out.DirectlyAffected[0].Node.ID)
}

func TestHandleSearch_RequiresQuery(t *testing.T) {
	c := newTestContainer(t)
	result := callTool(t, handleSearch(c), map[string]interface{}{})
	assert.True(t, result.IsError)
}

func TestHandleSearch_WithoutEmbeddingsWarnsNoEmbeddings(t *testing.T) {
	c := newTestContainer(t)
	result := callTool(t, handleSearch(c), map[string]interface{}{
		"query": "Invoice", "min_score": 0.05,
	})

	var out query.HybridQueryResult
	decodeText(t, result, &out)
	assert.Contains(t, out.Warnings, "NO_EMBEDDINGS")
}
