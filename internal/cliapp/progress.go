package cliapp

import (
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

// cliProgressReporter drives a progress bar across an index run's file
// and embedding phases; in quiet mode every call is a no-op.
type cliProgressReporter struct {
	quiet   bool
	fileBar *progressbar.ProgressBar
}

func newCLIProgressReporter(quiet bool) *cliProgressReporter {
	return &cliProgressReporter{quiet: quiet}
}

func (p *cliProgressReporter) OnDiscoveryStart() {
	if p.quiet {
		return
	}
	fmt.Fprintln(os.Stderr, "Discovering spec files...")
}

func (p *cliProgressReporter) OnFileProcessingStart(total int) {
	if p.quiet {
		return
	}
	p.fileBar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Indexing documents"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("docs/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(os.Stderr) }),
	)
}

func (p *cliProgressReporter) OnFileProcessed(path string) {
	if p.quiet || p.fileBar == nil {
		return
	}
	p.fileBar.Add(1)
}

func (p *cliProgressReporter) OnComplete(nodes, edges, embeddings int) {
	if p.quiet {
		return
	}
	fmt.Fprintf(os.Stderr, "\nIndexing complete: %d nodes, %d edges, %d embeddings\n", nodes, edges, embeddings)
}
