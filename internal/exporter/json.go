package exporter

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"trialcli/pkg/contracts/domain"
)

// jsonEnvelope wraps the summary with generation metadata for archival runs.
type jsonEnvelope struct {
	GeneratedAt time.Time           `json:"generated_at"`
	Summary     *domain.SummaryData `json:"summary"`
}

// WriteJSON writes the report as indented JSON with a metadata envelope.
func WriteJSON(path string, data *domain.SummaryData, generatedAt time.Time) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(jsonEnvelope{GeneratedAt: generatedAt.UTC(), Summary: data}); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}
