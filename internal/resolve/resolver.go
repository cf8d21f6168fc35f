// Package resolve supplies artifact content at two versions. The
// engine never assumes both sides exist: a missing side resolves to
// empty content (new-file and deleted-file cases).
package resolve

import (
	"context"
)

// ContentResolver fetches the full text of an artifact at two
// revisions. Implementations are injected per extraction call; there
// is no ambient client.
type ContentResolver interface {
	// Resolve returns (oldText, newText). A side absent at its
	// revision is the empty string, not an error.
	Resolve(ctx context.Context, path, oldRev, newRev string) (oldText, newText string, err error)
}

// StaticResolver serves preloaded content, keyed by path. Used for the
// two-file CLI mode and in tests.
type StaticResolver struct {
	Old map[string]string
	New map[string]string
}

// Resolve returns the preloaded content for path; absent entries are
// empty strings
func (r *StaticResolver) Resolve(_ context.Context, path, _, _ string) (string, string, error) {
	return r.Old[path], r.New[path], nil
}
