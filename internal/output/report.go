package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/diffscope/diffscope/internal/model"
)

// Report is the machine-readable envelope for a run
type Report struct {
	RunID       string                 `json:"run_id" yaml:"run_id"`
	GeneratedAt time.Time              `json:"generated_at" yaml:"generated_at"`
	Artifacts   []model.ArtifactResult `json:"artifacts" yaml:"artifacts"`
}

// ReportFormatter serializes the full result set as JSON or YAML
type ReportFormatter struct {
	Encoding string // "json" or "yaml"
}

// Format writes the encoded report
func (f *ReportFormatter) Format(results []model.ArtifactResult, w io.Writer) error {
	report := Report{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Artifacts:   results,
	}

	if f.Encoding == "yaml" {
		return yaml.NewEncoder(w).Encode(report)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
