package exporter

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"trialcli/pkg/contracts/domain"
)

// utf8BOM is prepended to every CSV so Excel opens the files with the right
// encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter writes one CSV file per report table into a directory.
type CSVWriter struct {
	dir string
}

// NewCSVWriter creates a CSV writer rooted at dir. The directory is created
// on first write.
func NewCSVWriter(dir string) *CSVWriter {
	return &CSVWriter{dir: dir}
}

// WriteSummary writes the full report as a set of per-table CSV files and
// returns the paths written.
func (w *CSVWriter) WriteSummary(data *domain.SummaryData) ([]string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	tables := []struct {
		file   string
		header [][]string
		rows   [][]string
	}{
		{"site_summary.csv", siteTableHeader, siteTableRows(data)},
		{"age_distribution.csv", ageTableHeader, ageTableRows(data)},
		{"pcr_results.csv", pcrTableHeader, pcrTableRows(data)},
		{"strain_distribution.csv", [][]string{strainTableHeader}, strainTableRows(data)},
		{"detailed_events.csv", [][]string{detailedEventsHeader}, detailedEventRows(data)},
	}

	paths := make([]string, 0, len(tables))
	for _, t := range tables {
		path := filepath.Join(w.dir, t.file)
		if err := writeCSVFile(path, append(append([][]string{}, t.header...), t.rows...)); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeCSVFile(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM to %s: %w", path, err)
	}

	cw := csv.NewWriter(f)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return f.Close()
}
