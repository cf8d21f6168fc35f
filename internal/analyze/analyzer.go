// Package analyze orchestrates per-artifact extraction: content
// resolution, diff text, and the tier pipeline. Artifacts are
// independent; one failure never corrupts another's result.
package analyze

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/diffscope/diffscope/internal/fallback"
	"github.com/diffscope/diffscope/internal/gitdiff"
	"github.com/diffscope/diffscope/internal/logging"
	"github.com/diffscope/diffscope/internal/model"
	"github.com/diffscope/diffscope/internal/resolve"
	"github.com/diffscope/diffscope/internal/structdiff"
)

// Artifact names one changed file between two revisions
type Artifact struct {
	Path   string
	OldRev string
	NewRev string
}

// Options tunes the analyzer
type Options struct {
	// ComplexityThreshold is forwarded to the diff engine.
	ComplexityThreshold int
	// ArtifactTimeout bounds the AST tier per artifact; on deadline
	// the controller demotes to the pattern tier. Zero disables it.
	ArtifactTimeout time.Duration
	// MaxConcurrent caps batch fan-out; 0 means one per CPU.
	MaxConcurrent int
}

// Analyzer runs artifacts through the change-extraction pipeline.
// Collaborators are injected; the analyzer holds no ambient clients.
type Analyzer struct {
	resolver   resolve.ContentResolver
	diffSource gitdiff.Source
	controller *fallback.Controller
	log        *logging.Logger
	opts       Options
}

// New creates an analyzer. diffSource may be nil; diff text is then
// synthesized from the resolved contents.
func New(resolver resolve.ContentResolver, diffSource gitdiff.Source, opts Options, log *logging.Logger) *Analyzer {
	if log == nil {
		log = logging.Discard()
	}
	diffOpts := structdiff.Options{ComplexityThreshold: opts.ComplexityThreshold}
	if opts.ComplexityThreshold == 0 {
		diffOpts = structdiff.DefaultOptions()
	}
	return &Analyzer{
		resolver:   resolver,
		diffSource: diffSource,
		controller: fallback.NewController(diffOpts, log),
		log:        log,
		opts:       opts,
	}
}

// AnalyzeArtifact produces one result for one artifact. Unresolvable
// content degrades to a generic summary; it never aborts the caller.
func (a *Analyzer) AnalyzeArtifact(ctx context.Context, artifact Artifact) model.ArtifactResult {
	oldText, newText, resolveErr := a.resolver.Resolve(ctx, artifact.Path, artifact.OldRev, artifact.NewRev)
	if resolveErr != nil {
		a.log.Warn("content resolution failed, degrading to diff-only tiers",
			"path", artifact.Path, "error", resolveErr)
	}

	diffText := a.diffText(ctx, artifact, oldText, newText)
	linesAdded, linesDeleted := gitdiff.CountLines(diffText)

	input := fallback.Input{
		Path:         artifact.Path,
		OldContent:   []byte(oldText),
		NewContent:   []byte(newText),
		DiffText:     diffText,
		LinesAdded:   linesAdded,
		LinesDeleted: linesDeleted,
	}

	// Without resolved content the AST tier would diff two empty models
	// and report no changes; only the diff-text tiers can run.
	var result model.ArtifactResult
	if resolveErr != nil {
		result = a.controller.AnalyzeDiffOnly(input)
	} else {
		tierCtx := ctx
		if a.opts.ArtifactTimeout > 0 {
			var cancel context.CancelFunc
			tierCtx, cancel = context.WithTimeout(ctx, a.opts.ArtifactTimeout)
			defer cancel()
		}
		result = a.controller.Analyze(tierCtx, input)
	}

	a.log.Debug("artifact analyzed",
		"path", artifact.Path, "tier", result.Tier, "records", len(result.Records))
	return result
}

// AnalyzeBatch fans out across artifacts concurrently. There is no
// ordering dependency between artifacts; results come back in input
// order regardless of completion order.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, artifacts []Artifact) []model.ArtifactResult {
	results := make([]model.ArtifactResult, len(artifacts))

	limit := a.opts.MaxConcurrent
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, artifact := range artifacts {
		g.Go(func() error {
			results[i] = a.AnalyzeArtifact(gctx, artifact)
			return nil
		})
	}

	// Workers never return errors; every artifact bottoms out at the
	// generic tier instead.
	_ = g.Wait()

	return results
}

func (a *Analyzer) diffText(ctx context.Context, artifact Artifact, oldText, newText string) string {
	if a.diffSource != nil {
		text, err := a.diffSource.Diff(ctx, artifact.Path, artifact.OldRev, artifact.NewRev)
		if err == nil && text != "" {
			return text
		}
		if err != nil {
			a.log.Debug("diff source failed, synthesizing from contents",
				"path", artifact.Path, "error", err)
		}
	}
	return gitdiff.Synthesize(artifact.Path, oldText, newText)
}
