package resolve

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v57/github"
	"golang.org/x/time/rate"

	"github.com/diffscope/diffscope/internal/errors"
)

// GitHubResolver fetches artifact content from the GitHub contents API
// at two refs. Useful when no local clone exists (PR review bots).
type GitHubResolver struct {
	client  *github.Client
	owner   string
	repo    string
	limiter *rate.Limiter
}

// NewGitHubResolver creates a resolver for owner/repo. Token may be
// empty for public repositories; requestsPerSecond guards the API
// quota.
func NewGitHubResolver(owner, repo, token string, requestsPerSecond int) *GitHubResolver {
	var httpClient *http.Client
	client := github.NewClient(httpClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	if requestsPerSecond <= 0 {
		requestsPerSecond = 5
	}
	return &GitHubResolver{
		client:  client,
		owner:   owner,
		repo:    repo,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
	}
}

// Resolve fetches the file at both refs; a 404 at either ref is the
// missing-side case and yields empty content
func (r *GitHubResolver) Resolve(ctx context.Context, path, oldRev, newRev string) (string, string, error) {
	oldText, err := r.fetch(ctx, path, oldRev)
	if err != nil {
		return "", "", errors.ContentResolution(path, err)
	}
	newText, err := r.fetch(ctx, path, newRev)
	if err != nil {
		return "", "", errors.ContentResolution(path, err)
	}
	return oldText, newText, nil
}

func (r *GitHubResolver) fetch(ctx context.Context, path, ref string) (string, error) {
	if ref == "" {
		return "", nil
	}
	if err := r.limiter.Wait(ctx); err != nil {
		return "", err
	}

	file, _, resp, err := r.client.Repositories.GetContents(ctx, r.owner, r.repo, path,
		&github.RepositoryContentGetOptions{Ref: ref})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return "", nil
		}
		return "", fmt.Errorf("github contents %s@%s: %w", path, ref, err)
	}
	if file == nil {
		// Directory listing; not an artifact.
		return "", nil
	}

	content, err := file.GetContent()
	if err != nil {
		return "", fmt.Errorf("decoding %s@%s: %w", path, ref, err)
	}
	return content, nil
}

// ParseRepoSlug splits an owner/repo slug
func ParseRepoSlug(slug string) (owner, repo string, err error) {
	parts := strings.Split(slug, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository slug %q, want owner/repo", slug)
	}
	return parts[0], parts[1], nil
}
