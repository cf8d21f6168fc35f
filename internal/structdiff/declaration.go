package structdiff

import (
	"fmt"
	"strings"

	"github.com/diffscope/diffscope/internal/model"
	"github.com/diffscope/diffscope/internal/normalize"
)

// declarationRecords compares the value multisets of one property
// within one owning rule. When each side has exactly one distinct
// normalized value and they differ, a single "changed X → Y" record is
// emitted instead of an add/remove pair; ambiguous multiplicities fall
// back to plain set difference - correctness over false precision.
func declarationRecords(key string, old, new []model.Entity) []model.ChangeRecord {
	property := old[0].Property

	oldDistinct := distinctValues(old)
	newDistinct := distinctValues(new)

	var records []model.ChangeRecord

	// 1-to-1 collapse: a simple value substitution is one change, not
	// an add plus a remove.
	if len(oldDistinct) == 1 && len(newDistinct) == 1 {
		if oldDistinct[0] != newDistinct[0] {
			records = append(records, changedRecord(key, property, old[0].Value, new[0].Value, new[0].SubDetails))
		}
	} else {
		oldSet := stringSet(oldDistinct)
		newSet := stringSet(newDistinct)
		for _, v := range newDistinct {
			if !oldSet[v] {
				records = append(records, model.ChangeRecord{
					Type:        model.ChangeAdded,
					EntityKind:  model.KindDeclaration,
					IdentityKey: key,
					After:       v,
				})
			}
		}
		for _, v := range oldDistinct {
			if !newSet[v] {
				records = append(records, model.ChangeRecord{
					Type:        model.ChangeRemoved,
					EntityKind:  model.KindDeclaration,
					IdentityKey: key,
					Before:      v,
				})
			}
		}
	}

	// Redeclaration within one rule is an override: the last value
	// wins. Reported when the duplication is new.
	if len(new) > 1 && len(old) <= 1 && len(newDistinct) > 1 {
		records = append(records, model.ChangeRecord{
			Type:        model.ChangeOverridden,
			EntityKind:  model.KindDeclaration,
			IdentityKey: key,
			After:       new[len(new)-1].Value,
			Details: []string{fmt.Sprintf(
				"%s declared %d times; last value %q wins", property, len(new), new[len(new)-1].Value)},
		})
	}

	return records
}

// changedRecord wraps a 1-to-1 value substitution, routing the special
// properties through their domain handlers
func changedRecord(key, property, before, after string, subDetails []string) model.ChangeRecord {
	record := model.ChangeRecord{
		Type:        model.ChangeModified,
		EntityKind:  model.KindDeclaration,
		IdentityKey: key,
		Before:      before,
		After:       after,
	}

	switch property {
	case "display":
		record.Details = append(record.Details,
			fmt.Sprintf("changed display: %s → %s", before, after))
		record.Details = append(record.Details, subDetails...)
	case "position":
		record.Details = append(record.Details,
			fmt.Sprintf("changed from position: %s → %s", before, after))
	case "visibility":
		record.Details = append(record.Details,
			fmt.Sprintf("changed visibility: %s → %s", before, after))
		if strings.TrimSpace(after) == "hidden" {
			record.Details = append(record.Details, "element becomes hidden")
		}
	case "opacity":
		record.Details = append(record.Details,
			fmt.Sprintf("changed opacity: %s → %s", before, after))
		if normalize.Value(after) == "0.00" || strings.TrimSpace(after) == "0" {
			record.Details = append(record.Details, "element becomes fully transparent")
		}
	case "z-index":
		record.Details = append(record.Details,
			fmt.Sprintf("stacking order changed: z-index %s → %s", before, after))
	default:
		record.Details = append(record.Details,
			fmt.Sprintf("changed %s → %s", before, after))
		record.Details = append(record.Details, subDetails...)
	}

	return record
}

// distinctValues returns the distinct normalized values in first-seen
// order
func distinctValues(entities []model.Entity) []string {
	seen := map[string]bool{}
	var out []string
	for _, e := range entities {
		v := normalize.Value(e.Value)
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
