package cliapp

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/knowledge-driven-dev/kdd-index/internal/config"
	"github.com/knowledge-driven-dev/kdd-index/internal/container"
	"github.com/knowledge-driven-dev/kdd-index/internal/embed"
	"github.com/knowledge-driven-dev/kdd-index/internal/kindrules"
	"github.com/knowledge-driven-dev/kdd-index/internal/query"
)

// assembleEngine loads the configured embedding provider and the
// current on-disk index into a query Engine. Every query subcommand
// calls this once; a reindex in a long-lived process instead goes
// through internal/container.Container, which this short-lived CLI
// process has no need for.
func assembleEngine(indexDir string) (*query.Engine, error) {
	cfg, err := config.LoadFromDir(indexDir)
	if err != nil {
		return nil, fmt.Errorf("cliapp: load config: %w", err)
	}
	assembled, err := container.Assemble(indexDir, embed.Config{
		Provider:   cfg.Embedding.Provider,
		Endpoint:   cfg.Embedding.Endpoint,
		Dimensions: cfg.Embedding.Dimensions,
		Model:      cfg.Embedding.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("cliapp: assemble index: %w", err)
	}
	return assembled.Engine, nil
}

func toKinds(raw []string) []kindrules.Kind {
	if len(raw) == 0 {
		return nil
	}
	out := make([]kindrules.Kind, len(raw))
	for i, k := range raw {
		out[i] = kindrules.Kind(k)
	}
	return out
}

// reportQueryErr renders a *query.Error as JSON (so a caller can switch
// on its code) instead of a bare error exit, since QUERY_TOO_SHORT,
// NODE_NOT_FOUND, and UNKNOWN_KIND are expected, recoverable outcomes.
func reportQueryErr(err error) error {
	if qerr, ok := err.(*query.Error); ok {
		return printJSON(map[string]string{"error_code": string(qerr.Code), "error": qerr.Message})
	}
	return err
}

var (
	searchMinScoreFlag  float64
	searchLimitFlag     int
	searchKindsFlag     []string
	searchNoEmbedFlag   bool
	searchDepthFlag     int
	searchMaxTokensFlag int
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Run the hybrid (semantic + lexical + graph) search",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().Float64Var(&searchMinScoreFlag, "min-score", query.DefaultHybridMinScore, "minimum fused score to include a result")
	searchCmd.Flags().IntVarP(&searchLimitFlag, "n", "n", query.DefaultHybridLimit, "maximum number of results")
	searchCmd.Flags().StringSliceVar(&searchKindsFlag, "kind", nil, "restrict results to these kinds")
	searchCmd.Flags().BoolVar(&searchNoEmbedFlag, "no-embeddings", false, "skip the semantic phase even if an encoder is configured")
	searchCmd.Flags().IntVar(&searchDepthFlag, "depth", query.DefaultHybridDepth, "graph-expansion depth")
	searchCmd.Flags().IntVar(&searchMaxTokensFlag, "max-tokens", query.DefaultHybridMaxTokens, "token budget for the returned result set")
}

func runSearch(cmd *cobra.Command, args []string) error {
	engine, err := assembleEngine(resolvedIndexPath())
	if err != nil {
		return err
	}
	if searchNoEmbedFlag {
		engine = &query.Engine{Graph: engine.Graph}
	}

	result, err := engine.HybridQuery(context.Background(), query.HybridQueryInput{
		QueryText:     args[0],
		ExpandGraph:   true,
		Depth:         searchDepthFlag,
		IncludeKinds:  toKinds(searchKindsFlag),
		RespectLayers: true,
		MinScore:      searchMinScoreFlag,
		Limit:         searchLimitFlag,
		MaxTokens:     searchMaxTokensFlag,
	})
	if err != nil {
		return reportQueryErr(err)
	}
	return printJSON(result)
}

var (
	graphDepthFlag int
	graphKindsFlag []string
)

var graphCmd = &cobra.Command{
	Use:   "graph <root>",
	Short: "Traverse the graph outward from a node",
	Args:  cobra.ExactArgs(1),
	RunE:  runGraph,
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().IntVar(&graphDepthFlag, "depth", query.DefaultGraphDepth, "traversal depth")
	graphCmd.Flags().StringSliceVar(&graphKindsFlag, "kind", nil, "restrict results to these kinds")
}

func runGraph(cmd *cobra.Command, args []string) error {
	engine, err := assembleEngine(resolvedIndexPath())
	if err != nil {
		return err
	}
	result, err := engine.GraphQuery(query.GraphQueryInput{
		RootNode:      args[0],
		Depth:         graphDepthFlag,
		IncludeKinds:  toKinds(graphKindsFlag),
		RespectLayers: true,
	})
	if err != nil {
		return reportQueryErr(err)
	}
	return printJSON(result)
}

var (
	impactDepthFlag      int
	impactChangeTypeFlag string
)

var impactCmd = &cobra.Command{
	Use:   "impact <node>",
	Short: "Find what a change to a node would affect",
	Args:  cobra.ExactArgs(1),
	RunE:  runImpact,
}

func init() {
	rootCmd.AddCommand(impactCmd)
	impactCmd.Flags().IntVar(&impactDepthFlag, "depth", query.DefaultImpactDepth, "transitive-impact traversal depth")
	impactCmd.Flags().StringVar(&impactChangeTypeFlag, "change-type", query.DefaultChangeType, "the kind of change being evaluated")
}

func runImpact(cmd *cobra.Command, args []string) error {
	engine, err := assembleEngine(resolvedIndexPath())
	if err != nil {
		return err
	}
	result, err := engine.Impact(query.ImpactInput{
		NodeID:     args[0],
		ChangeType: impactChangeTypeFlag,
		Depth:      impactDepthFlag,
	})
	if err != nil {
		return reportQueryErr(err)
	}
	return printJSON(result)
}

var (
	semanticMinScoreFlag float64
	semanticLimitFlag    int
	semanticKindsFlag    []string
)

var semanticCmd = &cobra.Command{
	Use:   "semantic <query>",
	Short: "Run a pure vector-similarity search",
	Args:  cobra.ExactArgs(1),
	RunE:  runSemantic,
}

func init() {
	rootCmd.AddCommand(semanticCmd)
	semanticCmd.Flags().Float64Var(&semanticMinScoreFlag, "min-score", query.DefaultSemanticMinScore, "minimum cosine similarity to include a result")
	semanticCmd.Flags().IntVarP(&semanticLimitFlag, "n", "n", query.DefaultSemanticLimit, "maximum number of results")
	semanticCmd.Flags().StringSliceVar(&semanticKindsFlag, "kind", nil, "restrict results to these kinds")
}

func runSemantic(cmd *cobra.Command, args []string) error {
	engine, err := assembleEngine(resolvedIndexPath())
	if err != nil {
		return err
	}
	result, err := engine.SemanticQuery(context.Background(), query.SemanticQueryInput{
		QueryText:    args[0],
		IncludeKinds: toKinds(semanticKindsFlag),
		MinScore:     semanticMinScoreFlag,
		Limit:        semanticLimitFlag,
	})
	if err != nil {
		return reportQueryErr(err)
	}
	return printJSON(result)
}

var coverageCmd = &cobra.Command{
	Use:   "coverage <node>",
	Short: "Check a node against the required relations for its kind",
	Args:  cobra.ExactArgs(1),
	RunE:  runCoverage,
}

func init() {
	rootCmd.AddCommand(coverageCmd)
}

func runCoverage(cmd *cobra.Command, args []string) error {
	engine, err := assembleEngine(resolvedIndexPath())
	if err != nil {
		return err
	}
	result, err := engine.Coverage(args[0])
	if err != nil {
		return reportQueryErr(err)
	}
	return printJSON(result)
}

var (
	violationsKindsFlag  []string
	violationsLayersFlag []string
)

var violationsCmd = &cobra.Command{
	Use:   "violations",
	Short: "List layer-violating edges across the whole graph",
	Args:  cobra.NoArgs,
	RunE:  runViolations,
}

func init() {
	rootCmd.AddCommand(violationsCmd)
	violationsCmd.Flags().StringSliceVar(&violationsKindsFlag, "kind", nil, "restrict to edges touching these kinds")
	violationsCmd.Flags().StringSliceVar(&violationsLayersFlag, "layer", nil, "restrict to edges touching these layers")
}

func runViolations(cmd *cobra.Command, args []string) error {
	engine, err := assembleEngine(resolvedIndexPath())
	if err != nil {
		return err
	}
	layers := make([]kindrules.Layer, len(violationsLayersFlag))
	for i, l := range violationsLayersFlag {
		layers[i] = kindrules.Layer(l)
	}
	result := engine.Violations(query.ViolationsQueryInput{
		IncludeKinds:  toKinds(violationsKindsFlag),
		IncludeLayers: layers,
	})
	return printJSON(result)
}
