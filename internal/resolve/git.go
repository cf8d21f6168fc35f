package resolve

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/diffscope/diffscope/internal/errors"
)

// GitResolver reads artifact content from a local repository via the
// git CLI. Worktree state is addressed with the empty revision.
type GitResolver struct {
	RepoPath string
}

// NewGitResolver creates a resolver rooted at repoPath
func NewGitResolver(repoPath string) *GitResolver {
	return &GitResolver{RepoPath: repoPath}
}

// Resolve fetches the file at both revisions. A path absent at a
// revision yields empty content for that side.
func (r *GitResolver) Resolve(ctx context.Context, path, oldRev, newRev string) (string, string, error) {
	oldText, err := r.show(ctx, path, oldRev)
	if err != nil {
		return "", "", errors.ContentResolution(path, err)
	}
	newText, err := r.show(ctx, path, newRev)
	if err != nil {
		return "", "", errors.ContentResolution(path, err)
	}
	return oldText, newText, nil
}

// show runs git show rev:path. An empty rev reads the worktree file
// through git (cat-file on the index would miss unstaged edits).
func (r *GitResolver) show(ctx context.Context, path, rev string) (string, error) {
	if rev == "" {
		cmd := exec.CommandContext(ctx, "git", "-C", r.RepoPath, "show", ":"+path)
		output, err := cmd.Output()
		if err != nil {
			// Untracked or deleted in index: treat as absent.
			return "", nil
		}
		return string(output), nil
	}

	cmd := exec.CommandContext(ctx, "git", "-C", r.RepoPath, "show", rev+":"+path)
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			stderr := string(exitErr.Stderr)
			// File does not exist at this revision - the degenerate
			// new-file/deleted-file case, not a failure.
			if strings.Contains(stderr, "does not exist") ||
				strings.Contains(stderr, "exists on disk, but not in") ||
				strings.Contains(stderr, "fatal: path") {
				return "", nil
			}
			return "", fmt.Errorf("git show %s:%s failed: %s", rev, path, strings.TrimSpace(stderr))
		}
		return "", fmt.Errorf("git show %s:%s failed: %w", rev, path, err)
	}
	return string(output), nil
}

// ChangedFiles lists the paths that differ between two revisions
func (r *GitResolver) ChangedFiles(ctx context.Context, oldRev, newRev string) ([]string, error) {
	args := []string{"-C", r.RepoPath, "diff", "--name-only"}
	if oldRev != "" {
		args = append(args, oldRev)
	}
	if newRev != "" {
		args = append(args, newRev)
	}
	cmd := exec.CommandContext(ctx, "git", args...)
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git diff --name-only failed: %w", err)
	}

	var files []string
	for _, line := range strings.Split(strings.TrimSpace(string(output)), "\n") {
		if line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}
