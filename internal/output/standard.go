package output

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/diffscope/diffscope/internal/model"
)

// StandardFormatter renders a human-readable change report per
// artifact, one line per record with indented details.
type StandardFormatter struct{}

var (
	addedColor    = color.New(color.FgGreen)
	removedColor  = color.New(color.FgRed)
	modifiedColor = color.New(color.FgYellow)
	warningColor  = color.New(color.FgMagenta)
	pathColor     = color.New(color.Bold)
	tierColor     = color.New(color.Faint)
)

// Format writes the report
func (f *StandardFormatter) Format(results []model.ArtifactResult, w io.Writer) error {
	for _, result := range results {
		pathColor.Fprintf(w, "%s", result.Path)
		tierColor.Fprintf(w, "  [tier: %s, +%d -%d]\n", result.Tier, result.LinesAdded, result.LinesDeleted)

		if len(result.Records) == 0 {
			fmt.Fprintln(w, "  no structural changes")
			continue
		}

		for _, record := range result.Records {
			f.formatRecord(w, record)
		}
		fmt.Fprintln(w)
	}
	return nil
}

func (f *StandardFormatter) formatRecord(w io.Writer, record model.ChangeRecord) {
	label, c := recordLabel(record.Type)
	c.Fprintf(w, "  %-9s", label)

	if record.EntityKind != "" {
		fmt.Fprintf(w, " %s", record.EntityKind)
	}
	fmt.Fprintf(w, " %s", record.IdentityKey)
	if record.Before != "" || record.After != "" {
		switch record.Type {
		case model.ChangeAdded:
			fmt.Fprintf(w, " = %s", record.After)
		case model.ChangeRemoved:
			fmt.Fprintf(w, " (was %s)", record.Before)
		}
	}
	fmt.Fprintln(w)

	for _, detail := range record.Details {
		fmt.Fprintf(w, "            - %s\n", detail)
	}
}

func recordLabel(t model.ChangeType) (string, *color.Color) {
	switch t {
	case model.ChangeAdded:
		return "added", addedColor
	case model.ChangeRemoved:
		return "removed", removedColor
	case model.ChangeOverridden:
		return "override", modifiedColor
	case model.ChangeWarning:
		return "warning", warningColor
	default:
		return "modified", modifiedColor
	}
}
