package model

// ChangeType classifies one reported difference
type ChangeType string

const (
	ChangeAdded      ChangeType = "added"
	ChangeRemoved    ChangeType = "removed"
	ChangeModified   ChangeType = "modified"
	ChangeOverridden ChangeType = "overridden"
	ChangeWarning    ChangeType = "warning"
)

// Tier identifies which fidelity level produced a result
type Tier string

const (
	TierAST     Tier = "ast"
	TierPattern Tier = "pattern"
	TierGeneric Tier = "generic"
)

// ChangeRecord is one reported unit of difference between two versions
// of an artifact. Immutable value object; Details carries field-level
// sub-changes for Modified records.
type ChangeRecord struct {
	Type        ChangeType `json:"type" yaml:"type"`
	EntityKind  EntityKind `json:"entity_kind" yaml:"entity_kind"`
	IdentityKey string     `json:"identity_key" yaml:"identity_key"`
	Before      string     `json:"before,omitempty" yaml:"before,omitempty"`
	After       string     `json:"after,omitempty" yaml:"after,omitempty"`
	Details     []string   `json:"details,omitempty" yaml:"details,omitempty"`
}

// ArtifactResult is what the engine returns per artifact: the ordered
// change records, the tier that produced them, and raw line counts for
// downstream consumers (risk scoring, presentation).
type ArtifactResult struct {
	Path         string         `json:"path" yaml:"path"`
	Tier         Tier           `json:"tier" yaml:"tier"`
	Records      []ChangeRecord `json:"records" yaml:"records"`
	LinesAdded   int            `json:"lines_added" yaml:"lines_added"`
	LinesDeleted int            `json:"lines_deleted" yaml:"lines_deleted"`
}
