// Package gitdiff supplies unified-diff text for an artifact. The
// pattern and generic tiers consume it; the AST tier never needs it.
package gitdiff

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Source produces diff text for one artifact between two revisions
type Source interface {
	Diff(ctx context.Context, path, oldRev, newRev string) (string, error)
}

// GitSource shells out to the git CLI, mirroring the resolver's
// addressing: empty newRev means the worktree.
type GitSource struct {
	RepoPath string
}

// NewGitSource creates a diff source rooted at repoPath
func NewGitSource(repoPath string) *GitSource {
	return &GitSource{RepoPath: repoPath}
}

// Diff returns the unified diff for path between the two revisions
func (s *GitSource) Diff(ctx context.Context, path, oldRev, newRev string) (string, error) {
	args := []string{"-C", s.RepoPath, "diff"}
	if oldRev != "" {
		args = append(args, oldRev)
	}
	if newRev != "" {
		args = append(args, newRev)
	}
	args = append(args, "--", path)

	cmd := exec.CommandContext(ctx, "git", args...)
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git diff failed for %s: %w", path, err)
	}
	return string(output), nil
}

// CountLines counts added and deleted lines in unified diff text,
// ignoring the +++/--- header lines
func CountLines(diff string) (added, deleted int) {
	for _, line := range strings.Split(diff, "\n") {
		if len(line) == 0 {
			continue
		}
		switch line[0] {
		case '+':
			if !strings.HasPrefix(line, "+++") {
				added++
			}
		case '-':
			if !strings.HasPrefix(line, "---") {
				deleted++
			}
		}
	}
	return added, deleted
}
