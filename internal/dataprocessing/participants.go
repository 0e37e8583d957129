package dataprocessing

import (
	"log/slog"
	"strings"

	"trialcli/internal/errors"
	"trialcli/pkg/contracts/domain"
)

const participantFileLabel = "participant"

// Logical column names for the participant file.
const (
	colSite  = "site"
	colID    = "id"
	colVisit = "visit"
	colDate  = "date"
)

var participantGroups = []ColumnGroup{
	{Name: colSite, Synonyms: []string{"Site Name", "Site"}},
	{Name: colID, Synonyms: []string{"Randomization Number", "Rand#", "ID"}},
	{Name: colVisit, Synonyms: []string{"Visit Name", "Visit"}},
	{Name: colDate, Synonyms: []string{"Actual Date", "Date"}},
}

// Vaccination visit markers. V1 is the first-dose visit, V3 the second.
func isDose1Visit(visit string) bool { return visit == "v1" || visit == "visit 1" }
func isDose2Visit(visit string) bool { return visit == "v3" || visit == "visit 3" }

// ExtractParticipants converts the participant-file grid into one
// Participant per distinct randomization number. Later rows for the same id
// only fill in missing dose dates and age; site and id are first-seen.
// Rows without an id are skipped silently.
func ExtractParticipants(grid domain.Grid, logger *slog.Logger) ([]domain.Participant, error) {
	if logger == nil {
		logger = slog.Default()
	}

	header, err := ResolveHeader(grid, participantFileLabel, participantGroups)
	if err != nil {
		return nil, err
	}

	ageCol := header.FindColumn(func(lowered string) bool {
		return strings.Contains(lowered, "age") &&
			!strings.Contains(lowered, "dosage") &&
			!strings.Contains(lowered, "stage")
	})

	logger.Debug("resolved participant header",
		slog.Int("header_row", header.Row),
		slog.Int("age_column", ageCol))

	byID := make(map[string]*domain.Participant)
	order := make([]string, 0, len(grid))
	skipped := 0

	for i := header.Row + 1; i < len(grid); i++ {
		row := grid[i]

		id := strings.TrimSpace(cellAt(row, header.Column(colID)))
		if id == "" {
			skipped++
			continue
		}

		p, ok := byID[id]
		if !ok {
			p = &domain.Participant{
				ID:   id,
				Site: CanonicalSite(cellAt(row, header.Column(colSite))),
			}
			byID[id] = p
			order = append(order, id)
		}

		visit := strings.ToLower(strings.TrimSpace(cellAt(row, header.Column(colVisit))))
		if date, ok := ParseDate(cellValue(row, header.Column(colDate))); ok {
			// Dose visits are expected once per participant; the latest
			// valid parse wins when the export repeats them.
			switch {
			case isDose1Visit(visit):
				p.Dose1Date = date
			case isDose2Visit(visit):
				p.Dose2Date = date
			}
		}

		if ageCol != NoColumn && p.AgeMonths == nil {
			if age, ok := ParseAgeMonths(cellValue(row, ageCol)); ok {
				p.AgeMonths = &age
			}
		}
	}

	participants := make([]domain.Participant, 0, len(order))
	for _, id := range order {
		p := byID[id]
		if p.ID == "" || p.Site == "" {
			continue
		}
		participants = append(participants, *p)
	}

	if len(participants) == 0 {
		return nil, errors.NewEmptyDatasetError(participantFileLabel)
	}

	logger.Info("extracted participants",
		slog.Int("participant_count", len(participants)),
		slog.Int("rows_without_id", skipped))

	return participants, nil
}

// cellValue returns the raw cell at a column index, nil when the row is too
// short or the column is absent.
func cellValue(row []domain.Cell, col int) domain.Cell {
	if col == NoColumn || col >= len(row) {
		return nil
	}
	return row[col]
}

// cellAt returns the normalized string content of a cell, "" when absent.
func cellAt(row []domain.Cell, col int) string {
	return CellString(cellValue(row, col))
}
