package cliapp

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/knowledge-driven-dev/kdd-index/internal/artifact"
	"github.com/knowledge-driven-dev/kdd-index/internal/chunk"
	"github.com/knowledge-driven-dev/kdd-index/internal/config"
	"github.com/knowledge-driven-dev/kdd-index/internal/container"
	"github.com/knowledge-driven-dev/kdd-index/internal/embed"
	"github.com/knowledge-driven-dev/kdd-index/internal/gitinfo"
	"github.com/knowledge-driven-dev/kdd-index/internal/indexcmd"
	"github.com/knowledge-driven-dev/kdd-index/internal/specfiles"
	"github.com/knowledge-driven-dev/kdd-index/internal/watcher"
)

var (
	domainFilterFlag []string
	levelFlag        string
	quietIndexFlag   bool
	watchIndexFlag   bool
)

const kddVersion = "0.1.0"

var indexCmd = &cobra.Command{
	Use:   "index [specsPath]",
	Short: "Build or refresh the index from a tree of spec documents",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().StringSliceVar(&domainFilterFlag, "domain", nil, "keep only documents tagged with this domain, plus documents with no domain tag (repeatable); default keeps everything")
	indexCmd.Flags().StringVar(&levelFlag, "level", "", "cap the index level (L1 or L2); omit to use whatever the configured encoder allows")
	indexCmd.Flags().BoolVarP(&quietIndexFlag, "quiet", "q", false, "suppress progress output")
	indexCmd.Flags().BoolVarP(&watchIndexFlag, "watch", "w", false, "watch the specs tree and reindex changed files incrementally")
}

func runIndex(cmd *cobra.Command, args []string) error {
	specsPath := resolvedSpecsPath()
	if len(args) == 1 {
		specsPath = args[0]
	}
	indexDir := resolvedIndexPath()

	cfg, err := config.LoadFromDir(indexDir)
	if err != nil {
		return fmt.Errorf("cliapp: load config: %w", err)
	}
	cfg.Paths.Specs = []string{specsPath}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\ninterrupted, cancelling index run")
		cancel()
	}()

	encoder, err := embed.NewEncoder(embed.Config{
		Provider:   cfg.Embedding.Provider,
		Endpoint:   cfg.Embedding.Endpoint,
		Dimensions: cfg.Embedding.Dimensions,
		Model:      cfg.Embedding.Model,
	})
	if err != nil {
		return fmt.Errorf("cliapp: build encoder: %w", err)
	}
	if encoder != nil {
		defer encoder.Close()
	}

	level := resolveLevel(levelFlag, encoder)
	progress := newCLIProgressReporter(quietIndexFlag)

	if watchIndexFlag {
		return runWatch(ctx, indexDir, specsPath, cfg, encoder, level, progress)
	}

	report, err := runFullIndex(ctx, indexDir, specsPath, cfg, encoder, level, progress)
	if err != nil {
		return err
	}
	return printJSON(report)
}

// indexReport summarizes one full or incremental index run.
type indexReport struct {
	IndexLevel artifact.IndexLevel `json:"index_level"`
	Documents  int                 `json:"documents"`
	Nodes      int                 `json:"nodes"`
	Edges      int                 `json:"edges"`
	Embeddings int                 `json:"embeddings"`
	Skipped    []skippedEntry      `json:"skipped,omitempty"`
	Warnings   []string            `json:"warnings,omitempty"`
	Duration   string              `json:"duration"`
}

type skippedEntry struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

func runFullIndex(ctx context.Context, indexDir, specsPath string, cfg *config.Config, encoder embed.Encoder, level artifact.IndexLevel, progress *cliProgressReporter) (indexReport, error) {
	started := time.Now()

	discovery, err := specfiles.New(cfg.Paths)
	if err != nil {
		return indexReport{}, fmt.Errorf("cliapp: build discovery: %w", err)
	}
	files, err := discovery.Discover()
	if err != nil {
		return indexReport{}, fmt.Errorf("cliapp: discover spec files: %w", err)
	}

	w, err := artifact.NewWriter(indexDir)
	if err != nil {
		return indexReport{}, fmt.Errorf("cliapp: open artifact writer: %w", err)
	}

	// AppendEdges never dedupes, so a full, non-incremental run clears the
	// prior edge set first; nodes and embeddings are content-addressed by
	// document ID and safely overwrite in place.
	if err := w.ClearEdges(); err != nil {
		return indexReport{}, fmt.Errorf("cliapp: clear edges: %w", err)
	}

	cache, err := indexcmd.NewParseCache(512)
	if err != nil {
		return indexReport{}, fmt.Errorf("cliapp: build parse cache: %w", err)
	}

	opts := indexcmd.Options{
		Level:       level,
		Encoder:     encoder,
		ChunkConfig: chunk.Config{MaxChunkChars: cfg.Chunking.MaxChunkChars, OverlapChars: cfg.Chunking.OverlapChars},
		Cache:       cache,
	}

	progress.OnDiscoveryStart()
	progress.OnFileProcessingStart(len(files))

	report := indexReport{IndexLevel: level}

	for _, path := range files {
		if ctx.Err() != nil {
			break
		}
		result, err := indexcmd.IndexDocument(ctx, w, path, opts)
		if err != nil {
			return indexReport{}, fmt.Errorf("cliapp: index %s: %w", path, err)
		}
		progress.OnFileProcessed(path)

		if result.SkippedReason != "" {
			report.Skipped = append(report.Skipped, skippedEntry{Path: path, Reason: result.SkippedReason})
			continue
		}
		if result.Warning != "" {
			report.Warnings = append(report.Warnings, result.Warning)
		}
		report.Documents++
		report.Edges += result.EdgeCount
		report.Embeddings += result.EmbeddingCount
	}

	reader := artifact.NewReader(indexDir)
	nodes, err := reader.LoadAllNodes()
	if err != nil {
		return indexReport{}, fmt.Errorf("cliapp: reload nodes: %w", err)
	}

	if len(domainFilterFlag) > 0 {
		keep := map[string]bool{}
		for _, d := range domainFilterFlag {
			keep[d] = true
		}
		for _, n := range nodes {
			if n.Domain != "" && !keep[n.Domain] {
				documentID := n.ID
				if idx := strings.Index(n.ID, ":"); idx >= 0 {
					documentID = n.ID[idx+1:]
				}
				if err := w.DeleteDocumentArtifacts(n.Kind, documentID, n.ID); err != nil {
					return indexReport{}, fmt.Errorf("cliapp: apply domain filter: %w", err)
				}
			}
		}
		nodes, err = reader.LoadAllNodes()
		if err != nil {
			return indexReport{}, fmt.Errorf("cliapp: reload nodes after domain filter: %w", err)
		}
	}

	report.Nodes = len(nodes)
	domains := map[string]bool{}
	for _, n := range nodes {
		if n.Domain != "" {
			domains[n.Domain] = true
		}
	}

	edges, err := reader.LoadAllEdges()
	if err != nil {
		return indexReport{}, fmt.Errorf("cliapp: reload edges: %w", err)
	}
	report.Edges = len(edges)

	manifest := artifact.Manifest{
		FormatVersion:   1,
		KDDVersion:      kddVersion,
		Dimensions:      dimensionsOf(encoder),
		IndexedAt:       time.Now().UTC(),
		IndexerIdentity: container.ResolveIndexerIdentity(indexDir),
		IndexLevel:      level,
		Stats: artifact.Stats{
			Nodes:      report.Nodes,
			Edges:      report.Edges,
			Embeddings: report.Embeddings,
		},
		Domains:   sortedKeys(domains),
		GitCommit: gitinfo.CommitHash(specsPath),
	}
	if encoder != nil {
		manifest.EmbeddingModel = cfg.Embedding.Model
	}
	if err := w.WriteManifest(manifest); err != nil {
		return indexReport{}, fmt.Errorf("cliapp: write manifest: %w", err)
	}

	progress.OnComplete(report.Nodes, report.Edges, report.Embeddings)

	report.Duration = time.Since(started).String()
	return report, nil
}

// runWatch performs one full index pass, then watches specsPath and
// reindexes on every debounced batch of file changes until ctx is
// cancelled.
func runWatch(ctx context.Context, indexDir, specsPath string, cfg *config.Config, encoder embed.Encoder, level artifact.IndexLevel, progress *cliProgressReporter) error {
	report, err := runFullIndex(ctx, indexDir, specsPath, cfg, encoder, level, progress)
	if err != nil {
		return err
	}
	if err := printJSON(report); err != nil {
		return err
	}

	fw, err := watcher.NewFileWatcher([]string{specsPath}, []string{".md"})
	if err != nil {
		return fmt.Errorf("cliapp: build file watcher: %w", err)
	}

	err = fw.Start(ctx, func(files []string) {
		fmt.Fprintf(os.Stderr, "reindexing after %d changed file(s)\n", len(files))
		report, err := runFullIndex(ctx, indexDir, specsPath, cfg, encoder, level, progress)
		if err != nil {
			fmt.Fprintln(os.Stderr, "reindex failed:", err)
			return
		}
		printJSON(report)
	})
	if err != nil {
		return fmt.Errorf("cliapp: start file watcher: %w", err)
	}

	<-ctx.Done()
	return fw.Stop()
}

// resolveLevel caps the index level at L1 when --level L1 is given, or
// when there is no encoder at all; otherwise an encoder yields L2.
// L3 (encoder + agent API) is never reached by this CLI, since no agent
// API is wired into this module.
func resolveLevel(requested string, encoder embed.Encoder) artifact.IndexLevel {
	if requested == string(artifact.LevelL1) {
		return artifact.LevelL1
	}
	if encoder == nil {
		return artifact.LevelL1
	}
	return artifact.LevelL2
}

func dimensionsOf(encoder embed.Encoder) int {
	if encoder == nil {
		return 0
	}
	return encoder.Dimensions()
}

func sortedKeys(m map[string]bool) []string {
	if len(m) == 0 {
		return nil
	}
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
