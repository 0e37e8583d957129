package dataprocessing

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"trialcli/internal/errors"
	"trialcli/pkg/contracts/domain"
)

const eventsFileLabel = "events"

// Logical column names for the events file.
const (
	colEventID      = "id"
	colSampleNo     = "sample_no"
	colCollection   = "collection_date"
	colResult       = "result"
	colStrain       = "strain"
	colPCR          = "pcr"
	colPCREpisode   = "pcr_episode"
	colPlace        = "place"
	colEpisodeSpec  = "episode_specific"
	colEpisodeGroup = "episode_group"
)

var eventGroups = []ColumnGroup{
	{Name: colEventID, Synonyms: []string{"Rand# ID", "ID"}},
	{Name: colCollection, Synonyms: []string{"Collection Date", "Date"}},
	{Name: colResult, Synonyms: []string{"Result"}},
	{Name: colSampleNo, Synonyms: []string{"Culture No", "C.No"}, Optional: true},
	{Name: colStrain, Synonyms: []string{"Shigella Strain", "Strain"}, Optional: true},
	{Name: colPCR, Synonyms: []string{"RT-PCR result", "PCR"}, Optional: true},
	{Name: colPCREpisode, Synonyms: []string{"PCR Episode No", "PCR No"}, Optional: true},
	{Name: colPlace, Synonyms: []string{"Place", "Site Name", "Site"}, Optional: true},
	// Two separate groups so the site-specific identifier keeps priority
	// over the general one regardless of column order.
	{Name: colEpisodeSpec, Synonyms: []string{"Site specific Participants"}, Optional: true},
	{Name: colEpisodeGroup, Synonyms: []string{"Site Number & Episode"}, Optional: true},
}

// GroupingStrategy selects how raw samples merge into episodes. The events
// file convention decides: a dedicated episode-identifier column means
// identifier grouping; otherwise consecutive samples cluster by collection
// date proximity.
type GroupingStrategy int

const (
	GroupByIdentifier GroupingStrategy = iota
	GroupByProximity
)

// ExtractEvents converts the events-file grid into raw lab-sample events.
// Footer and summary rows fail the sample-row predicate and are dropped
// silently, as are rows with no participant id or no parseable collection
// date.
func ExtractEvents(grid domain.Grid, logger *slog.Logger) ([]domain.RawEvent, GroupingStrategy, error) {
	if logger == nil {
		logger = slog.Default()
	}

	header, err := ResolveHeader(grid, eventsFileLabel, eventGroups)
	if err != nil {
		return nil, GroupByProximity, err
	}

	ageCol := header.FindColumn(func(lowered string) bool {
		return strings.Contains(lowered, "age") &&
			!strings.Contains(lowered, "dosage") &&
			!strings.Contains(lowered, "stage")
	})

	strategy := GroupByProximity
	if header.Column(colEpisodeSpec) != NoColumn || header.Column(colEpisodeGroup) != NoColumn {
		strategy = GroupByIdentifier
	}

	logger.Debug("resolved events header",
		slog.Int("header_row", header.Row),
		slog.Bool("identifier_grouping", strategy == GroupByIdentifier))

	events := make([]domain.RawEvent, 0, len(grid))
	dropped := 0

	for i := header.Row + 1; i < len(grid); i++ {
		row := grid[i]

		id := strings.TrimSpace(cellAt(row, header.Column(colEventID)))
		if id == "" {
			dropped++
			continue
		}

		sampleNo := strings.TrimSpace(cellAt(row, header.Column(colSampleNo)))
		if header.Column(colSampleNo) != NoColumn && !looksLikeSampleRow(sampleNo) {
			dropped++
			continue
		}

		date, ok := ParseDate(cellValue(row, header.Column(colCollection)))
		if !ok {
			dropped++
			continue
		}

		ev := domain.RawEvent{
			ParticipantID: id,
			EventDate:     date,
			CultureResult: strings.TrimSpace(cellAt(row, header.Column(colResult))),
			PCRResult:     strings.TrimSpace(cellAt(row, header.Column(colPCR))),
			Strain:        strings.TrimSpace(cellAt(row, header.Column(colStrain))),
			Specimen:      specimenFromSampleNo(sampleNo),
			RowIndex:      i,
		}

		if ageCol != NoColumn {
			if age, ok := ParseAgeMonths(cellValue(row, ageCol)); ok {
				ev.AgeMonths = &age
			}
		}

		specific := strings.TrimSpace(cellAt(row, header.Column(colEpisodeSpec)))
		general := strings.TrimSpace(cellAt(row, header.Column(colEpisodeGroup)))
		if specific != "" {
			ev.GroupID = specific
		} else {
			ev.GroupID = general
		}

		// Best-available sample identifier; the synthetic token guarantees
		// every valid row stays a distinct grouping unit.
		switch {
		case ev.GroupID != "":
			ev.SampleID = ev.GroupID
		case sampleNo != "":
			ev.SampleID = sampleNo
		default:
			ev.SampleID = fmt.Sprintf("synthetic-%s-%d", id, i)
		}

		if site := SiteFromParticipantID(id); site != "" {
			ev.SiteFallback = site
		} else {
			ev.SiteFallback = CanonicalSite(cellAt(row, header.Column(colPlace)))
		}

		events = append(events, ev)
	}

	if len(events) == 0 {
		return nil, strategy, errors.NewEmptyDatasetError(eventsFileLabel)
	}

	logger.Info("extracted raw events",
		slog.Int("event_count", len(events)),
		slog.Int("rows_dropped", dropped))

	return events, strategy, nil
}

// looksLikeSampleRow distinguishes data rows from footer/summary rows by
// their culture/sample number: it starts with a digit or a specimen-type
// marker and never contains the word "total".
func looksLikeSampleRow(sampleNo string) bool {
	if sampleNo == "" {
		return false
	}
	lowered := strings.ToLower(sampleNo)
	if strings.Contains(lowered, "total") {
		return false
	}
	r := []rune(sampleNo)[0]
	return unicode.IsDigit(r) || strings.HasPrefix(strings.ToUpper(sampleNo), "RS")
}

func specimenFromSampleNo(sampleNo string) domain.SpecimenType {
	if strings.HasPrefix(strings.ToUpper(strings.TrimSpace(sampleNo)), "RS") {
		return domain.SpecimenSwab
	}
	return domain.SpecimenStool
}
