package cliapp

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/knowledge-driven-dev/kdd-index/internal/config"
	"github.com/knowledge-driven-dev/kdd-index/internal/container"
	"github.com/knowledge-driven-dev/kdd-index/internal/embed"
	"github.com/knowledge-driven-dev/kdd-index/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the stdio MCP tool server over the current index",
	RunE:  runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	indexDir := resolvedIndexPath()

	cfg, err := config.LoadFromDir(indexDir)
	if err != nil {
		return fmt.Errorf("cliapp: load config: %w", err)
	}

	fmt.Fprintf(os.Stderr, "kdd-mcp: index %s\n", indexDir)

	assembled, err := container.Assemble(indexDir, embed.Config{
		Provider:   cfg.Embedding.Provider,
		Endpoint:   cfg.Embedding.Endpoint,
		Dimensions: cfg.Embedding.Dimensions,
		Model:      cfg.Embedding.Model,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to build encoder/vector store: %v\n", err)
		fmt.Fprintln(os.Stderr, "  kdd_search will fall back to lexical and graph evidence only")
		assembled, err = container.Assemble(indexDir, embed.Config{})
		if err != nil {
			return fmt.Errorf("cliapp: assemble index: %w", err)
		}
	}

	c := container.New(assembled)
	srv := mcpserver.New(c)
	if err := srv.Serve(ctx); err != nil {
		return fmt.Errorf("cliapp: mcp server: %w", err)
	}
	return nil
}
