package fallback

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/diffscope/diffscope/internal/errors"
	"github.com/diffscope/diffscope/internal/grammar"
	"github.com/diffscope/diffscope/internal/model"
)

// Pattern-tier extraction: a direct regex scan over unified diff text.
// Coarser than the AST tier - names only, no field-level detail - but
// needs no full-file access and survives unparsable input.

var (
	functionDeclRe  = regexp.MustCompile(`\bfunction\s*\*?\s*([A-Za-z_$][\w$]*)\s*\(`)
	arrowBindingRe  = regexp.MustCompile(`\b(?:const|let|var)\s+([A-Za-z_$][\w$]*)\s*=\s*(?:async\s+)?(?:\([^)]*\)|[A-Za-z_$][\w$]*)\s*=>`)
	classDeclRe     = regexp.MustCompile(`\bclass\s+([A-Za-z_$][\w$]*)`)
	importSourceRe  = regexp.MustCompile(`\bimport\s+[^;]*?from\s+['"]([^'"]+)['"]|\brequire\(\s*['"]([^'"]+)['"]\s*\)`)
	hookCallRe      = regexp.MustCompile(`\b(use[A-Z]\w*)\s*\(`)
	controlFlowRe   = regexp.MustCompile(`\b(if|for|while|switch|catch)\b\s*\(`)
	cssSelectorRe   = regexp.MustCompile(`^\s*([.#@]?[\w-][^{;]*?)\s*\{`)
	cssDeclRe       = regexp.MustCompile(`^\s*([\w-]+)\s*:\s*([^;{}]+);?\s*$`)
	diffHeaderRe    = regexp.MustCompile(`^(\+\+\+|---|@@|diff |index )`)
)

// ScanDiff extracts coarse change records from unified diff text.
// Returns a typed error on empty input so the controller can demote.
func ScanDiff(path, diffText string) ([]model.ChangeRecord, error) {
	if strings.TrimSpace(diffText) == "" {
		return nil, errors.PatternScanFailed(path, nil)
	}

	// A JS function header also ends in a brace, so the stylesheet
	// patterns only run for stylesheet paths and vice versa. Unknown
	// extensions scan with both sets.
	g := grammar.Select(path, nil)
	scanCode := grammar.IsCode(g) || g == grammar.Unknown || g == grammar.Markup
	scanStyle := grammar.IsStylesheet(g) || g == grammar.Unknown

	// name -> kind, tracked separately per diff side
	type signal struct {
		kind model.EntityKind
		key  string
	}
	added := map[signal]bool{}
	removed := map[signal]bool{}
	controlFlowAdded := false

	for _, line := range strings.Split(diffText, "\n") {
		if len(line) == 0 || diffHeaderRe.MatchString(line) {
			continue
		}

		var bucket map[signal]bool
		switch line[0] {
		case '+':
			bucket = added
		case '-':
			bucket = removed
		default:
			continue
		}
		body := line[1:]

		if scanCode {
			for _, m := range functionDeclRe.FindAllStringSubmatch(body, -1) {
				bucket[signal{model.KindFunction, m[1]}] = true
			}
			for _, m := range arrowBindingRe.FindAllStringSubmatch(body, -1) {
				bucket[signal{model.KindFunction, m[1]}] = true
			}
			for _, m := range classDeclRe.FindAllStringSubmatch(body, -1) {
				bucket[signal{model.KindClass, m[1]}] = true
			}
			for _, m := range importSourceRe.FindAllStringSubmatch(body, -1) {
				source := m[1]
				if source == "" {
					source = m[2]
				}
				bucket[signal{model.KindImport, source}] = true
			}
			for _, m := range hookCallRe.FindAllStringSubmatch(body, -1) {
				bucket[signal{model.KindHookCall, m[1]}] = true
			}
			if line[0] == '+' && controlFlowRe.MatchString(body) {
				controlFlowAdded = true
			}
		}
		if scanStyle {
			if m := cssSelectorRe.FindStringSubmatch(body); m != nil {
				bucket[signal{model.KindSelector, strings.TrimSpace(m[1])}] = true
			} else if m := cssDeclRe.FindStringSubmatch(body); m != nil {
				bucket[signal{model.KindDeclaration, m[1]}] = true
			}
		}
	}

	var records []model.ChangeRecord

	// A name on both sides of the diff is a body edit, not a presence
	// change; report it as modified.
	var signals []signal
	for s := range added {
		signals = append(signals, s)
	}
	for s := range removed {
		if !added[s] {
			signals = append(signals, s)
		}
	}
	sort.Slice(signals, func(i, j int) bool {
		if signals[i].kind != signals[j].kind {
			return signals[i].kind < signals[j].kind
		}
		return signals[i].key < signals[j].key
	})

	for _, s := range signals {
		switch {
		case added[s] && removed[s]:
			records = append(records, model.ChangeRecord{
				Type:        model.ChangeModified,
				EntityKind:  s.kind,
				IdentityKey: s.key,
			})
		case added[s]:
			records = append(records, model.ChangeRecord{
				Type:        model.ChangeAdded,
				EntityKind:  s.kind,
				IdentityKey: s.key,
			})
		default:
			records = append(records, model.ChangeRecord{
				Type:        model.ChangeRemoved,
				EntityKind:  s.kind,
				IdentityKey: s.key,
			})
		}
	}

	if controlFlowAdded {
		records = append(records, model.ChangeRecord{
			Type:        model.ChangeModified,
			EntityKind:  model.KindFunction,
			IdentityKey: "(control flow)",
			Details:     []string{"control-flow keywords added"},
		})
	}

	// Nothing recognizable: the line-count summary below says more than
	// an empty record list at this tier would.
	if len(records) == 0 {
		return nil, errors.PatternScanFailed(path, fmt.Errorf("no recognizable signals in diff text"))
	}

	return records, nil
}
