package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "trialcli/internal/errors"
	"trialcli/pkg/contracts/domain"
)

func TestExtractEventsStrategySelection(t *testing.T) {
	t.Run("identifier when episode column present", func(t *testing.T) {
		grid := domain.Grid{
			row("Rand# ID", "Collection Date", "Result", "Site specific Participants"),
			row("2001", "2024-03-01", "Positive", "E007"),
		}
		_, strategy, err := ExtractEvents(grid, nil)
		require.NoError(t, err)
		assert.Equal(t, GroupByIdentifier, strategy)
	})

	t.Run("proximity when no episode column", func(t *testing.T) {
		grid := domain.Grid{
			row("ID", "Date", "Result"),
			row("2001", "2024-03-01", "Positive"),
		}
		_, strategy, err := ExtractEvents(grid, nil)
		require.NoError(t, err)
		assert.Equal(t, GroupByProximity, strategy)
	})
}

func TestExtractEventsRowFiltering(t *testing.T) {
	grid := domain.Grid{
		row("ID", "Culture No", "Date", "Result"),
		row("2001", "101", "2024-03-01", "Positive"),
		row("2001", "RS-101", "2024-03-02", "Negative"),
		row("2001", "Total samples", "2024-03-03", ""), // footer
		row("", "102", "2024-03-04", "Positive"),       // no id
		row("2002", "103", "n/a", "Positive"),          // no date
	}

	events, _, err := ExtractEvents(grid, nil)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, domain.SpecimenStool, events[0].Specimen)
	assert.Equal(t, "101", events[0].SampleID)
	assert.Equal(t, domain.SpecimenSwab, events[1].Specimen)
}

func TestExtractEventsSampleIDPriority(t *testing.T) {
	grid := domain.Grid{
		row("ID", "Culture No", "Date", "Result", "Site specific Participants", "Site Number & Episode"),
		row("2001", "101", "2024-03-01", "Pos", "E007", "G1"),
		row("2001", "102", "2024-03-02", "Pos", "", "G2"),
		row("2001", "103", "2024-03-03", "Pos", "", ""),
	}

	events, strategy, err := ExtractEvents(grid, nil)
	require.NoError(t, err)
	assert.Equal(t, GroupByIdentifier, strategy)
	require.Len(t, events, 3)

	assert.Equal(t, "E007", events[0].SampleID, "site-specific identifier wins")
	assert.Equal(t, "G2", events[1].SampleID, "general identifier is the fallback")
	assert.Equal(t, "103", events[2].SampleID, "sample number when no identifier")
}

func TestExtractEventsSyntheticSampleID(t *testing.T) {
	grid := domain.Grid{
		row("ID", "Date", "Result"),
		row("2001", "2024-03-01", "Pos"),
		row("2001", "2024-03-01", "Pos"),
	}

	events, _, err := ExtractEvents(grid, nil)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.NotEqual(t, events[0].SampleID, events[1].SampleID,
		"synthetic tokens must keep rows distinct")
}

func TestExtractEventsSiteFallback(t *testing.T) {
	grid := domain.Grid{
		row("ID", "Date", "Result", "Place"),
		row("2001", "2024-03-01", "Pos", "somewhere"),
		row("X-77", "2024-03-01", "Pos", "korail slum"),
	}

	events, _, err := ExtractEvents(grid, nil)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, "Mirpur", events[0].SiteFallback, "id range beats the place column")
	assert.Equal(t, "Korail", events[1].SiteFallback, "place column when the id has no range")
}

func TestExtractEventsFields(t *testing.T) {
	grid := domain.Grid{
		row("ID", "Date", "Result", "Shigella Strain", "RT-PCR result", "Age"),
		row("2001", "2024-03-01", "Culture Positive", "S. flexneri 2a", "Detected", "1Y 2M"),
	}

	events, _, err := ExtractEvents(grid, nil)
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, "2001", ev.ParticipantID)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), ev.EventDate)
	assert.Equal(t, "Culture Positive", ev.CultureResult)
	assert.Equal(t, "S. flexneri 2a", ev.Strain)
	assert.Equal(t, "Detected", ev.PCRResult)
	require.NotNil(t, ev.AgeMonths)
	assert.InDelta(t, 14, *ev.AgeMonths, 0.001)
}

func TestExtractEventsEmpty(t *testing.T) {
	grid := domain.Grid{
		row("ID", "Date", "Result"),
		row("", "2024-03-01", "Pos"),
	}
	_, _, err := ExtractEvents(grid, nil)
	var empty *apperrors.EmptyDatasetError
	assert.ErrorAs(t, err, &empty)
}
