// Package cliapp wires the kdd command-line surface: indexing a specs
// tree into an on-disk artifact directory, and running read-only
// queries (search, graph, impact, semantic, coverage, violations)
// against it. JSON is the only output format; every subcommand prints
// one JSON document to stdout and a non-zero exit code on failure.
package cliapp

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/knowledge-driven-dev/kdd-index/internal/config"
)

var (
	indexPathFlag string
	specsPathFlag string
)

var rootCmd = &cobra.Command{
	Use:   "kdd",
	Short: "Index and query a knowledge-graph of spec documents",
	Long: `kdd builds a knowledge graph from a tree of Markdown specification
documents — entities, events, business rules, use cases, and the rest of
the closed kind set — and answers graph, semantic, and hybrid queries
over it.`,
}

// Execute runs the root command. It is called once by cmd/kdd/main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&indexPathFlag, "index-path", "", "index directory (default: $KDD_INDEX_PATH or .kdd-index)")
	rootCmd.PersistentFlags().StringVar(&specsPathFlag, "specs-path", "", "spec documents root (default: $KDD_SPECS_PATH or specs)")
}

// resolvedIndexPath returns --index-path, falling back to KDD_INDEX_PATH
// and finally the ".kdd-index" default.
func resolvedIndexPath() string {
	if indexPathFlag != "" {
		return indexPathFlag
	}
	return config.IndexPathFromEnv()
}

// resolvedSpecsPath returns --specs-path, falling back to KDD_SPECS_PATH
// and finally the "specs" default.
func resolvedSpecsPath() string {
	if specsPathFlag != "" {
		return specsPathFlag
	}
	return config.SpecsPathFromEnv()
}

// printJSON writes v to stdout as indented JSON followed by a newline.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
