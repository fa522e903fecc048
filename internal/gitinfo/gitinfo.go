// Package gitinfo resolves the short commit hash of a specs directory's
// repository, if any, for the Manifest's optional git_commit field.
package gitinfo

import (
	"os/exec"
	"strings"
)

// CommitHash returns the short commit hash of the repository containing
// dir, or "" if dir is not inside a git worktree or the git binary is
// unavailable. It never returns an error: an unresolvable commit hash is
// simply an absent one, per the manifest's "optional git commit" field.
func CommitHash(dir string) string {
	cmd := exec.Command("git", "rev-parse", "--short", "HEAD")
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(output))
}
