package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "trialcli/internal/errors"
	"trialcli/pkg/contracts/domain"
)

func grid(rows ...[]domain.Cell) domain.Grid { return rows }

func cells(values ...domain.Cell) []domain.Cell { return values }

func participantGrid() domain.Grid {
	return grid(
		cells("Vaccine Trial Export"),
		cells("Site Name", "Randomization Number", "Visit Name", "Actual Date", "Age"),
		cells("Mirpur", "2001", "V1", "2024-01-10", "1Y 2M"),
		cells("Mirpur", "2001", "V3", "2024-02-10", nil),
		cells("Tongi", "1042", "V1", "2024-01-12", "30"),
	)
}

func eventGrid() domain.Grid {
	return grid(
		cells("ID", "Culture No", "Date", "Result", "Shigella Strain", "RT-PCR result", "Site specific Participants"),
		cells("2001", "101", "2024-02-15", "Positive", "S. sonnei", "Detected", "E001"),
		cells("2001", "102", "2024-02-16", "Negative", "", "pending", "E001, Day-2"),
		cells("1042", "201", "2024-01-20", "Negative", "", "", "E002"),
		cells("9999", "301", "2024-02-01", "Positive", "S. flexneri", "", "E003"),
	)
}

func TestGenerate(t *testing.T) {
	svc := NewReportService(nil)

	summary, err := svc.Generate(context.Background(), participantGrid(), eventGrid())
	require.NoError(t, err)

	// The two E001 samples merge into one episode despite the day suffix.
	assert.Equal(t, 3, summary.Totals.TotalDiarrhealEvents)
	assert.Equal(t, 2, summary.Totals.Enrollment)
	assert.Equal(t, 1, summary.UnmappedEvents)

	mirpur := findSite(t, summary, "Mirpur")
	assert.Equal(t, 1, mirpur.TotalDiarrhealEvents)
	assert.Equal(t, 1, mirpur.After2ndDoseEvents, "episode on 2024-02-15 falls in the second-dose window")
	assert.Equal(t, 1, mirpur.After2ndDoseCulturePositive)

	tongi := findSite(t, summary, "Tongi")
	assert.Equal(t, 1, tongi.After1stDoseEvents)
	assert.Equal(t, 0, tongi.After1stDoseCulturePositive)

	// The unmapped participant 9999 attributes to Unknown via the id-range miss.
	unknown := findSite(t, summary, "Unknown")
	assert.Equal(t, 1, unknown.TotalDiarrhealEvents)

	require.NotEmpty(t, summary.Strains)
	assert.Equal(t, "S. sonnei", summary.Strains[0].StrainName)
}

func findSite(t *testing.T, summary *domain.SummaryData, name string) domain.SiteSummary {
	t.Helper()
	for _, s := range summary.Sites {
		if s.SiteName == name {
			return s
		}
	}
	t.Fatalf("site %q not found", name)
	return domain.SiteSummary{}
}

func TestGenerateBadInput(t *testing.T) {
	svc := NewReportService(nil)

	t.Run("participant header missing", func(t *testing.T) {
		bad := grid(cells("nothing", "useful"))
		_, err := svc.Generate(context.Background(), bad, eventGrid())
		var missing *apperrors.MissingHeaderError
		assert.ErrorAs(t, err, &missing)
	})

	t.Run("events empty", func(t *testing.T) {
		empty := grid(cells("ID", "Date", "Result"))
		_, err := svc.Generate(context.Background(), participantGrid(), empty)
		var emptyErr *apperrors.EmptyDatasetError
		assert.ErrorAs(t, err, &emptyErr)
	})
}

func TestGenerateFromFiles(t *testing.T) {
	dir := t.TempDir()
	participantsPath := filepath.Join(dir, "participants.csv")
	eventsPath := filepath.Join(dir, "events.csv")

	require.NoError(t, os.WriteFile(participantsPath, []byte(
		"Site,ID,Visit,Date\nMirpur,2001,V1,2024-01-10\nMirpur,2001,V3,2024-02-10\n"), 0o644))
	require.NoError(t, os.WriteFile(eventsPath, []byte(
		"ID,Date,Result\n2001,2024-02-20,Positive\n"), 0o644))

	svc := NewReportService(nil)
	summary, err := svc.GenerateFromFiles(context.Background(), participantsPath, eventsPath)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Totals.TotalDiarrhealEvents)
	assert.Equal(t, 1, summary.Totals.After2ndDoseCulturePositive)

	t.Run("missing file", func(t *testing.T) {
		_, err := svc.GenerateFromFiles(context.Background(), participantsPath, filepath.Join(dir, "nope.csv"))
		var unreadable *apperrors.UnreadableFileError
		assert.ErrorAs(t, err, &unreadable)
	})
}
