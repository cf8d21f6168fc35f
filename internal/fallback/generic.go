package fallback

import (
	"fmt"

	"github.com/diffscope/diffscope/internal/gitdiff"
	"github.com/diffscope/diffscope/internal/model"
)

// genericRecords is the floor of the pipeline: a single line-count
// summary. Counts come from the caller when known, otherwise from the
// diff text itself.
func genericRecords(in Input) []model.ChangeRecord {
	added, deleted := in.LinesAdded, in.LinesDeleted
	if added == 0 && deleted == 0 {
		added, deleted = gitdiff.CountLines(in.DiffText)
	}

	return []model.ChangeRecord{{
		Type:        model.ChangeModified,
		EntityKind:  "",
		IdentityKey: in.Path,
		Details:     []string{fmt.Sprintf("+%d -%d lines", added, deleted)},
	}}
}
