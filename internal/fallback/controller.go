// Package fallback degrades extraction through three fidelity tiers:
// full AST diffing, regex scanning of the diff text, and a line-count
// summary. Tier transitions are an explicit state machine over result
// values; no state ever reverts to a higher tier.
package fallback

import (
	"context"
	"fmt"

	"github.com/diffscope/diffscope/internal/errors"
	"github.com/diffscope/diffscope/internal/extract"
	"github.com/diffscope/diffscope/internal/grammar"
	"github.com/diffscope/diffscope/internal/logging"
	"github.com/diffscope/diffscope/internal/model"
	"github.com/diffscope/diffscope/internal/structdiff"
)

// Input is everything the controller needs for one artifact. Content
// is supplied by the caller's resolution collaborator; DiffText feeds
// the pattern and generic tiers only.
type Input struct {
	Path         string
	OldContent   []byte
	NewContent   []byte
	DiffText     string
	LinesAdded   int
	LinesDeleted int
}

// Controller runs the tier pipeline for one artifact at a time.
// Stateless between calls; safe for concurrent use.
type Controller struct {
	opts structdiff.Options
	log  *logging.Logger
}

// NewController creates a controller with the given diff options
func NewController(opts structdiff.Options, log *logging.Logger) *Controller {
	if log == nil {
		log = logging.Discard()
	}
	return &Controller{opts: opts, log: log}
}

// Analyze runs the artifact through the tiers, terminal on first
// success. The generic tier cannot fail, so every artifact gets a
// result; one artifact's parse failure never aborts a batch.
func (c *Controller) Analyze(ctx context.Context, in Input) model.ArtifactResult {
	// State AST.
	records, err := c.attemptAST(ctx, in)
	if err == nil {
		result := newResult(in)
		result.Tier = model.TierAST
		result.Records = records
		return result
	}
	c.log.Debug("ast tier failed, demoting to pattern tier",
		"path", in.Path, "error", err)

	return c.scanTiers(in)
}

// AnalyzeDiffOnly enters the pipeline at the pattern state. Callers
// use it when content resolution failed: diffing two empty models
// would report "no structural changes" for an artifact whose diff text
// says otherwise, so the AST state must not run.
func (c *Controller) AnalyzeDiffOnly(in Input) model.ArtifactResult {
	return c.scanTiers(in)
}

// scanTiers runs the diff-text states, pattern then generic.
func (c *Controller) scanTiers(in Input) model.ArtifactResult {
	result := newResult(in)

	// State Pattern.
	records, err := ScanDiff(in.Path, in.DiffText)
	if err == nil {
		result.Tier = model.TierPattern
		result.Records = records
		return result
	}
	c.log.Debug("pattern tier failed, demoting to generic tier",
		"path", in.Path, "error", err)

	// State Generic: terminal, cannot fail.
	result.Tier = model.TierGeneric
	result.Records = genericRecords(in)
	return result
}

func newResult(in Input) model.ArtifactResult {
	return model.ArtifactResult{
		Path:         in.Path,
		LinesAdded:   in.LinesAdded,
		LinesDeleted: in.LinesDeleted,
	}
}

// attemptAST parses both versions, extracts both models, and diffs
// them. Any error - parse failure, unsupported grammar, deadline, or
// an empty extraction from non-empty content - demotes the tier.
func (c *Controller) attemptAST(ctx context.Context, in Input) ([]model.ChangeRecord, error) {
	g := grammar.Select(in.Path, sample(in))
	if g == grammar.Unknown {
		return nil, fmt.Errorf("no structural grammar for %s", in.Path)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	oldModel, err := extract.Model(in.Path, in.OldContent, g)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	newModel, err := extract.Model(in.Path, in.NewContent, g)
	if err != nil {
		return nil, err
	}

	// Both versions non-empty but nothing extracted: treat as an
	// extraction failure rather than report "no changes" from a model
	// the extractor clearly could not see into.
	if len(oldModel.Entities) == 0 && len(newModel.Entities) == 0 &&
		len(in.OldContent) > 0 && len(in.NewContent) > 0 {
		return nil, errors.ExtractionEmpty(in.Path)
	}

	return structdiff.Diff(oldModel, newModel, c.opts), nil
}

// sample picks the content used for grammar sniffing: the new version
// when present, otherwise the old (deleted-file case).
func sample(in Input) []byte {
	if len(in.NewContent) > 0 {
		return in.NewContent
	}
	return in.OldContent
}
