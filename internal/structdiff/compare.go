package structdiff

import (
	"fmt"
	"sort"

	"github.com/diffscope/diffscope/internal/model"
)

// compareMatched runs the kind-specific field comparison for a key
// present in both models
func compareMatched(kind model.EntityKind, key string, old, new []model.Entity, opts Options) []model.ChangeRecord {
	switch kind {
	case model.KindFunction, model.KindComponent:
		return functionRecords(kind, key, old[0], new[0], opts)
	case model.KindClass:
		return classRecords(key, old[0], new[0])
	case model.KindImport:
		return importRecords(key, old[0], new[0])
	case model.KindExport:
		return exportRecords(key, old[0], new[0])
	case model.KindHookCall:
		return hookRecords(key, old[0], new[0])
	case model.KindDeclaration:
		return declarationRecords(key, old, new)
	case model.KindMarkupElement:
		return markupRecords(key, old[0], new[0])
	}
	// Selector, AtRule, Variable: presence-only kinds. Multiplicity
	// changes still matter for selectors (a rule block added under the
	// same path).
	if len(old) != len(new) {
		return []model.ChangeRecord{{
			Type:        model.ChangeModified,
			EntityKind:  kind,
			IdentityKey: key,
			Details:     []string{fmt.Sprintf("occurrences %d → %d", len(old), len(new))},
		}}
	}
	return nil
}

// functionRecords diffs parameter sets, flags, and complexity
func functionRecords(kind model.EntityKind, key string, old, new model.Entity, opts Options) []model.ChangeRecord {
	var details []string

	oldParams := paramIndex(old.Params)
	newParams := paramIndex(new.Params)

	for _, name := range sortedParamNames(newParams) {
		if _, ok := oldParams[name]; ok {
			continue
		}
		p := newParams[name]
		switch {
		case p.HasDefault:
			details = append(details, fmt.Sprintf("parameter %q added (has default)", name))
		case p.IsRest:
			details = append(details, fmt.Sprintf("rest parameter %q added", name))
		default:
			details = append(details, fmt.Sprintf("parameter %q added", name))
		}
	}
	for _, name := range sortedParamNames(oldParams) {
		if _, ok := newParams[name]; ok {
			continue
		}
		details = append(details, fmt.Sprintf("parameter %q removed", name))
	}
	for _, name := range sortedParamNames(newParams) {
		oldParam, ok := oldParams[name]
		if !ok {
			continue
		}
		newParam := newParams[name]
		if !oldParam.HasDefault && newParam.HasDefault {
			details = append(details, fmt.Sprintf("parameter %q gained a default", name))
		}
		if oldParam.HasDefault && !newParam.HasDefault {
			details = append(details, fmt.Sprintf("parameter %q lost its default", name))
		}
	}

	if !old.Async && new.Async {
		details = append(details, "changed to async")
	}
	if old.Async && !new.Async {
		details = append(details, "no longer async")
	}
	if !old.Generator && new.Generator {
		details = append(details, "changed to generator")
	}
	if old.Generator && !new.Generator {
		details = append(details, "no longer a generator")
	}

	if delta := new.Complexity - old.Complexity; abs(delta) > opts.ComplexityThreshold {
		details = append(details, fmt.Sprintf("complexity %d → %d", old.Complexity, new.Complexity))
	}

	if !old.CallsAPI && new.CallsAPI {
		details = append(details, "API calls added")
	}
	if old.CallsAPI && !new.CallsAPI {
		details = append(details, "API calls removed")
	}
	if !old.HasReturn && new.HasReturn {
		details = append(details, "return statement added")
	}
	if old.HasReturn && !new.HasReturn {
		details = append(details, "return statement removed")
	}

	if details == nil {
		return nil
	}
	return []model.ChangeRecord{{
		Type:        model.ChangeModified,
		EntityKind:  kind,
		IdentityKey: key,
		Details:     details,
	}}
}

func classRecords(key string, old, new model.Entity) []model.ChangeRecord {
	var details []string
	if old.Superclass != new.Superclass {
		switch {
		case old.Superclass == "":
			details = append(details, fmt.Sprintf("now extends %s", new.Superclass))
		case new.Superclass == "":
			details = append(details, fmt.Sprintf("no longer extends %s", old.Superclass))
		default:
			details = append(details, fmt.Sprintf("superclass changed %s → %s", old.Superclass, new.Superclass))
		}
	}
	if details == nil {
		return nil
	}
	return []model.ChangeRecord{{
		Type:        model.ChangeModified,
		EntityKind:  model.KindClass,
		IdentityKey: key,
		Details:     details,
	}}
}

func importRecords(key string, old, new model.Entity) []model.ChangeRecord {
	var details []string

	oldBindings := stringSet(old.Bindings)
	newBindings := stringSet(new.Bindings)
	for _, b := range sortedSet(newBindings) {
		if !oldBindings[b] {
			details = append(details, fmt.Sprintf("binding %q added", b))
		}
	}
	for _, b := range sortedSet(oldBindings) {
		if !newBindings[b] {
			details = append(details, fmt.Sprintf("binding %q removed", b))
		}
	}

	if details == nil {
		return nil
	}
	return []model.ChangeRecord{{
		Type:        model.ChangeModified,
		EntityKind:  model.KindImport,
		IdentityKey: key,
		Details:     details,
	}}
}

func exportRecords(key string, old, new model.Entity) []model.ChangeRecord {
	var details []string
	if old.IsDefault != new.IsDefault {
		if new.IsDefault {
			details = append(details, "became the default export")
		} else {
			details = append(details, "no longer the default export")
		}
	}
	if old.Source != new.Source {
		details = append(details, fmt.Sprintf("re-export source changed %q → %q", old.Source, new.Source))
	}
	if details == nil {
		return nil
	}
	return []model.ChangeRecord{{
		Type:        model.ChangeModified,
		EntityKind:  model.KindExport,
		IdentityKey: key,
		Details:     details,
	}}
}

func hookRecords(key string, old, new model.Entity) []model.ChangeRecord {
	if old.CallCount == new.CallCount {
		return nil
	}
	return []model.ChangeRecord{{
		Type:        model.ChangeModified,
		EntityKind:  model.KindHookCall,
		IdentityKey: key,
		Details: []string{fmt.Sprintf(
			"call count %d → %d", old.CallCount, new.CallCount)},
	}}
}

func markupRecords(key string, old, new model.Entity) []model.ChangeRecord {
	var details []string

	attrNames := map[string]bool{}
	for name := range old.Attributes {
		attrNames[name] = true
	}
	for name := range new.Attributes {
		attrNames[name] = true
	}

	for _, name := range sortedSet(attrNames) {
		oldVal, inOld := old.Attributes[name]
		newVal, inNew := new.Attributes[name]
		switch {
		case inNew && !inOld:
			details = append(details, fmt.Sprintf("attribute %s=%q added", name, newVal))
		case inOld && !inNew:
			details = append(details, fmt.Sprintf("attribute %s removed", name))
		case oldVal != newVal:
			details = append(details, fmt.Sprintf("attribute %s changed %q → %q", name, oldVal, newVal))
		}
	}

	if details == nil {
		return nil
	}
	return []model.ChangeRecord{{
		Type:        model.ChangeModified,
		EntityKind:  model.KindMarkupElement,
		IdentityKey: key,
		Details:     details,
	}}
}

func paramIndex(params []model.Param) map[string]model.Param {
	out := map[string]model.Param{}
	for _, p := range params {
		out[p.Name] = p
	}
	return out
}

func sortedParamNames(params map[string]model.Param) []string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func stringSet(values []string) map[string]bool {
	out := map[string]bool{}
	for _, v := range values {
		out[v] = true
	}
	return out
}

func sortedSet(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
