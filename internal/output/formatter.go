// Package output renders artifact results for terminals and machines.
package output

import (
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/diffscope/diffscope/internal/model"
)

// Formatter renders a batch of artifact results
type Formatter interface {
	Format(results []model.ArtifactResult, w io.Writer) error
}

// NewFormatter selects a formatter by name
func NewFormatter(format string, quiet bool) Formatter {
	if quiet {
		return &QuietFormatter{}
	}
	switch format {
	case "json":
		return &ReportFormatter{Encoding: "json"}
	case "yaml":
		return &ReportFormatter{Encoding: "yaml"}
	default:
		return &StandardFormatter{}
	}
}

// ConfigureColor applies the color mode: always, never, or auto
// (on only when stdout is a terminal)
func ConfigureColor(mode string) {
	switch mode {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	default:
		color.NoColor = !term.IsTerminal(int(os.Stdout.Fd()))
	}
}
