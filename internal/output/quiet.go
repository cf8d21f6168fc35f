package output

import (
	"fmt"
	"io"

	"github.com/diffscope/diffscope/internal/model"
)

// QuietFormatter prints one summary line per artifact
type QuietFormatter struct{}

// Format writes path, tier, and record count only
func (f *QuietFormatter) Format(results []model.ArtifactResult, w io.Writer) error {
	for _, result := range results {
		fmt.Fprintf(w, "%s: %d changes (tier %s, +%d -%d)\n",
			result.Path, len(result.Records), result.Tier,
			result.LinesAdded, result.LinesDeleted)
	}
	return nil
}
