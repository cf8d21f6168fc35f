// Package structdiff reconciles two independently parsed structural
// models by identity-key matching and emits typed change records.
// There is no common-ancestor information; matching is by key only.
package structdiff

import (
	"fmt"
	"sort"

	"github.com/diffscope/diffscope/internal/model"
)

// Options tunes diff reporting
type Options struct {
	// ComplexityThreshold suppresses complexity deltas at or below
	// this absolute value, so trivial edits stay quiet.
	ComplexityThreshold int
}

// DefaultOptions returns the standard thresholds
func DefaultOptions() Options {
	return Options{ComplexityThreshold: 1}
}

// Diff produces change records between the old and new models.
// Per entity kind the models group into key-indexed multisets; keys in
// only one side report presence changes, keys in both run a
// kind-specific field comparison.
func Diff(old, new *model.StructuralModel, opts Options) []model.ChangeRecord {
	if old == nil {
		old = &model.StructuralModel{}
	}
	if new == nil {
		new = &model.StructuralModel{}
	}

	var records []model.ChangeRecord

	for _, kind := range old.Kinds(new) {
		oldGroups := groupByKey(old.ByKind(kind))
		newGroups := groupByKey(new.ByKind(kind))

		for _, key := range sortedKeys(oldGroups, newGroups) {
			oldEntities, inOld := oldGroups[key]
			newEntities, inNew := newGroups[key]

			switch {
			case inNew && !inOld:
				records = append(records, presenceRecord(model.ChangeAdded, kind, key, newEntities))
			case inOld && !inNew:
				records = append(records, presenceRecord(model.ChangeRemoved, kind, key, oldEntities))
			default:
				records = append(records, compareMatched(kind, key, oldEntities, newEntities, opts)...)
			}
		}
	}

	if old.MaxNesting != new.MaxNesting && (old.MaxNesting > 0 || new.MaxNesting > 0) && len(new.Entities) > 0 && len(old.Entities) > 0 {
		records = append(records, model.ChangeRecord{
			Type:        model.ChangeModified,
			EntityKind:  model.KindSelector,
			IdentityKey: "(stylesheet)",
			Details: []string{fmt.Sprintf(
				"nesting depth (approximate) %d → %d", old.MaxNesting, new.MaxNesting)},
		})
	}

	records = append(records, warningRecords(new)...)

	return records
}

// presenceRecord reports a key present on only one side. Multiplicity
// above one is carried as an occurrence-count detail.
func presenceRecord(changeType model.ChangeType, kind model.EntityKind, key string, entities []model.Entity) model.ChangeRecord {
	record := model.ChangeRecord{
		Type:        changeType,
		EntityKind:  kind,
		IdentityKey: key,
	}
	if len(entities) > 1 {
		record.Details = append(record.Details, fmt.Sprintf("%d occurrences", len(entities)))
	}

	first := entities[0]
	switch kind {
	case model.KindDeclaration:
		if changeType == model.ChangeAdded {
			record.After = first.Value
		} else {
			record.Before = first.Value
		}
		record.Details = append(record.Details, first.SubDetails...)
	case model.KindHookCall:
		if first.CallCount > 1 {
			record.Details = append(record.Details, fmt.Sprintf("called %d times", first.CallCount))
		}
	case model.KindFunction, model.KindComponent:
		if first.Async {
			record.Details = append(record.Details, "async")
		}
		if first.CallsAPI {
			record.Details = append(record.Details, "contains API calls")
		}
	}

	return record
}

func groupByKey(entities []model.Entity) map[string][]model.Entity {
	groups := map[string][]model.Entity{}
	for _, e := range entities {
		groups[e.IdentityKey] = append(groups[e.IdentityKey], e)
	}
	return groups
}

func sortedKeys(a, b map[string][]model.Entity) []string {
	seen := map[string]bool{}
	var keys []string
	for k := range a {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	for k := range b {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// warningRecords surfaces malformed-but-parsed nodes from the new
// model. Warning-class, never a tier demotion.
func warningRecords(m *model.StructuralModel) []model.ChangeRecord {
	var records []model.ChangeRecord
	for _, e := range m.Entities {
		if e.Warning == "" {
			continue
		}
		records = append(records, model.ChangeRecord{
			Type:        model.ChangeWarning,
			EntityKind:  e.Kind,
			IdentityKey: e.IdentityKey,
			Details:     []string{e.Warning},
		})
	}
	return records
}
