package dataprocessing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "trialcli/internal/errors"
	"trialcli/pkg/contracts/domain"
)

func row(cells ...domain.Cell) []domain.Cell { return cells }

func TestResolveHeaderSkipsBannerRows(t *testing.T) {
	grid := domain.Grid{
		row("Surveillance Export", nil, nil),
		row(),
		row("Site Name", "Randomization Number", "Visit Name", "Actual Date"),
		row("Mirpur", "2001", "V1", "2024-01-10"),
	}

	h, err := ResolveHeader(grid, "participant", participantGroups)
	require.NoError(t, err)
	assert.Equal(t, 2, h.Row)
	assert.Equal(t, 0, h.Column(colSite))
	assert.Equal(t, 1, h.Column(colID))
	assert.Equal(t, 3, h.Column(colDate))
}

func TestResolveHeaderSynonymsAndCase(t *testing.T) {
	grid := domain.Grid{
		row("SITE", "id", "visit", "DATE"),
	}

	h, err := ResolveHeader(grid, "participant", participantGroups)
	require.NoError(t, err)
	assert.Equal(t, 0, h.Column(colSite))
	assert.Equal(t, 1, h.Column(colID))
}

func TestResolveHeaderFirstMatchWins(t *testing.T) {
	grid := domain.Grid{
		row("Site", "ID", "Visit", "Date", "Site"),
	}

	h, err := ResolveHeader(grid, "participant", participantGroups)
	require.NoError(t, err)
	assert.Equal(t, 0, h.Column(colSite))
}

func TestResolveHeaderMissing(t *testing.T) {
	grid := domain.Grid{
		row("Site Name", "Visit Name", "Actual Date"), // no id column
	}

	_, err := ResolveHeader(grid, "participant", participantGroups)
	require.Error(t, err)

	var missing *apperrors.MissingHeaderError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "participant", missing.File)
	assert.Contains(t, missing.Columns, "Randomization Number")
}

func TestResolveHeaderScanLimit(t *testing.T) {
	grid := make(domain.Grid, headerScanLimit+2)
	for i := range grid {
		grid[i] = row("banner")
	}
	grid[headerScanLimit+1] = row("Site", "ID", "Visit", "Date")

	_, err := ResolveHeader(grid, "participant", participantGroups)
	assert.Error(t, err, "header beyond the scan limit must not resolve")
}

func TestHeaderOptionalColumnAbsent(t *testing.T) {
	grid := domain.Grid{
		row("ID", "Date", "Result"),
	}

	h, err := ResolveHeader(grid, "events", eventGroups)
	require.NoError(t, err)
	assert.Equal(t, NoColumn, h.Column(colStrain))
	assert.Equal(t, NoColumn, h.Column(colPlace))
	assert.Equal(t, NoColumn, h.Column("never-registered"))
}

func TestHeaderFindColumn(t *testing.T) {
	grid := domain.Grid{
		row("Site", "ID", "Visit", "Date", "Dosage", "Age in Months"),
	}

	h, err := ResolveHeader(grid, "participant", participantGroups)
	require.NoError(t, err)

	ageCol := h.FindColumn(func(lowered string) bool {
		return strings.Contains(lowered, "age") && !strings.Contains(lowered, "dosage")
	})
	assert.Equal(t, 5, ageCol)
}
