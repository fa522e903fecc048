// Package specfiles discovers the Markdown spec documents an index run
// should process: every ".md" file under the configured spec roots,
// except those matched by an ignore glob.
package specfiles

import (
	"os"
	"path/filepath"

	"github.com/gobwas/glob"

	"github.com/knowledge-driven-dev/kdd-index/internal/config"
)

// Discovery walks a fixed set of root directories for ".md" files,
// filtering out anything matched by a compiled set of ignore patterns.
type Discovery struct {
	roots   []string
	ignores []glob.Glob
}

// New compiles paths.Ignore into glob patterns and returns a Discovery
// rooted at paths.Specs. Pattern compile errors are returned immediately:
// a broken ignore pattern should fail the run, not silently match nothing.
func New(paths config.PathsConfig) (*Discovery, error) {
	ignores := make([]glob.Glob, 0, len(paths.Ignore))
	for _, pattern := range paths.Ignore {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		ignores = append(ignores, g)
	}
	return &Discovery{roots: paths.Specs, ignores: ignores}, nil
}

// Discover walks every root directory and returns the paths (each joined
// onto its root, as configured) of every non-ignored ".md" file found, in deterministic (lexical, root
// order then walk order) sequence. A missing root is skipped rather than
// treated as an error, since Specs commonly names directories that are
// created on first use.
func (d *Discovery) Discover() ([]string, error) {
	var out []string
	for _, root := range d.roots {
		if _, err := os.Stat(root); os.IsNotExist(err) {
			continue
		}

		err := filepath.WalkDir(root, func(path string, entry os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			relPath, relErr := filepath.Rel(root, path)
			if relErr != nil {
				return relErr
			}
			relPath = filepath.ToSlash(relPath)

			if entry.IsDir() {
				if d.matchesIgnore(relPath) || d.matchesIgnore(relPath+"/**") {
					return filepath.SkipDir
				}
				return nil
			}

			if filepath.Ext(path) != ".md" {
				return nil
			}
			if d.matchesIgnore(relPath) {
				return nil
			}
			out = append(out, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (d *Discovery) matchesIgnore(relPath string) bool {
	for _, g := range d.ignores {
		if g.Match(relPath) {
			return true
		}
	}
	return false
}
