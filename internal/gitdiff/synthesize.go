package gitdiff

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Synthesize builds line-oriented diff text from two full contents,
// for callers with no version control behind them (two-file mode,
// stdin). The output carries the +/-/context prefixes the pattern and
// generic tiers scan; hunk headers are not needed by either.
func Synthesize(path, oldText, newText string) string {
	if oldText == newText {
		return ""
	}

	dmp := diffmatchpatch.New()
	oldRunes, newRunes, lines := dmp.DiffLinesToRunes(oldText, newText)
	diffs := dmp.DiffMainRunes(oldRunes, newRunes, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)

	var sb strings.Builder
	sb.WriteString("--- a/" + path + "\n")
	sb.WriteString("+++ b/" + path + "\n")

	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		}
		for _, line := range splitKeepNonEmpty(d.Text) {
			sb.WriteString(prefix + line + "\n")
		}
	}
	return sb.String()
}

func splitKeepNonEmpty(text string) []string {
	lines := strings.Split(text, "\n")
	// A trailing newline leaves one empty tail element; drop it so it
	// does not count as a changed line.
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
