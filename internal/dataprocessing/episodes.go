package dataprocessing

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"trialcli/pkg/contracts/domain"
)

// Collection-gap thresholds for temporal-proximity grouping. Consecutive
// samples within the gap belong to the same clinical episode; rectal swabs
// are collected on a looser schedule and tolerate a wider gap.
const (
	stoolGapDays = 3
	swabGapDays  = 10
)

// daySuffixRe matches the day-marker decorations lab staff append to an
// episode identifier, e.g. "E007, Day-2" or "E007 (Day-3)".
var daySuffixRe = regexp.MustCompile(`(?i)(,\s*Day-\d+|\s+\(Day-\d+\)|\s+Day-\d+)`)

// NormalizeEpisodeID strips day-suffix decorations so multi-day samples of
// one episode share an identifier.
func NormalizeEpisodeID(id string) string {
	return strings.TrimSpace(daySuffixRe.ReplaceAllString(id, ""))
}

// EpisodeKey is the deterministic grouping function for identifier-based
// reconciliation: samples sharing (participant, normalized identifier) merge
// into one episode regardless of date gap.
func EpisodeKey(participantID, sampleID string) string {
	return participantID + "|" + NormalizeEpisodeID(sampleID)
}

// IsPositiveCulture applies the lenient positive predicate to a raw culture
// result: it contains "pos" in any casing, or is the literal "1".
func IsPositiveCulture(raw string) bool {
	r := strings.ToLower(strings.TrimSpace(raw))
	return strings.Contains(r, "pos") || r == "1"
}

// PCRRank orders raw RT-PCR results by strength so the authoritative result
// can be picked when an episode has several samples: positive (2) beats
// negative (1) beats missing or pending (0).
func PCRRank(raw string) int {
	r := strings.ToLower(strings.TrimSpace(raw))
	switch r {
	case "", "pending", "n/a", "null", "-":
		return 0
	}
	if strings.Contains(r, "not detect") {
		return 1
	}
	if strings.Contains(r, "pos") || strings.Contains(r, "detect") || r == "1" || strings.Contains(r, "true") {
		return 2
	}
	return 1
}

// ReconcileEpisodes groups one run's raw lab samples into clinical episodes.
//
// Two strategies exist because the source files carry inconsistent episode
// metadata. When the file has a dedicated episode-identifier column the
// identifier strategy merges samples sharing (participant, normalized id).
// Otherwise consecutive samples for a participant cluster by collection-date
// proximity. One strategy applies per input file, never both.
func ReconcileEpisodes(events []domain.RawEvent, strategy GroupingStrategy, logger *slog.Logger) []domain.Episode {
	if logger == nil {
		logger = slog.Default()
	}
	if len(events) == 0 {
		return nil
	}

	sorted := make([]domain.RawEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.ParticipantID != b.ParticipantID {
			return a.ParticipantID < b.ParticipantID
		}
		// Samples with unknown dates sort last and never merge.
		switch {
		case !a.DateKnown() && b.DateKnown():
			return false
		case a.DateKnown() && !b.DateKnown():
			return true
		case a.DateKnown() && b.DateKnown() && !a.EventDate.Equal(b.EventDate):
			return a.EventDate.Before(b.EventDate)
		}
		return a.RowIndex < b.RowIndex
	})

	var groups [][]domain.RawEvent
	var keys []string

	switch strategy {
	case GroupByIdentifier:
		groups, keys = groupByIdentifier(sorted)
	default:
		groups, keys = groupByProximity(sorted)
	}

	episodes := make([]domain.Episode, 0, len(groups))
	for i, members := range groups {
		episodes = append(episodes, mergeGroup(keys[i], members))
	}

	logger.Info("reconciled episodes",
		slog.Int("sample_count", len(events)),
		slog.Int("episode_count", len(episodes)))

	return episodes
}

func groupByIdentifier(sorted []domain.RawEvent) ([][]domain.RawEvent, []string) {
	index := make(map[string]int)
	var groups [][]domain.RawEvent
	var keys []string

	for _, ev := range sorted {
		key := EpisodeKey(ev.ParticipantID, ev.SampleID)
		if !ev.DateKnown() {
			// Undated samples stay single-member episodes.
			key = fmt.Sprintf("%s#row%d", key, ev.RowIndex)
		}
		if i, ok := index[key]; ok {
			groups[i] = append(groups[i], ev)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, []domain.RawEvent{ev})
		keys = append(keys, key)
	}
	return groups, keys
}

func groupByProximity(sorted []domain.RawEvent) ([][]domain.RawEvent, []string) {
	var groups [][]domain.RawEvent
	var keys []string

	for _, ev := range sorted {
		if len(groups) > 0 {
			current := groups[len(groups)-1]
			prev := current[len(current)-1]
			if prev.ParticipantID == ev.ParticipantID && withinGap(prev, ev) {
				groups[len(groups)-1] = append(current, ev)
				continue
			}
		}
		groups = append(groups, []domain.RawEvent{ev})
		keys = append(keys, fmt.Sprintf("%s|cluster%d", ev.ParticipantID, len(groups)))
	}
	return groups, keys
}

// withinGap reports whether two date-sorted consecutive samples belong to
// the same episode. Undated samples never merge.
func withinGap(prev, next domain.RawEvent) bool {
	if !prev.DateKnown() || !next.DateKnown() {
		return false
	}
	allowed := stoolGapDays
	if prev.Specimen == domain.SpecimenSwab || next.Specimen == domain.SpecimenSwab {
		allowed = swabGapDays
	}
	gap := int(next.EventDate.Sub(prev.EventDate).Hours() / 24)
	return gap <= allowed
}

// mergeGroup consolidates one episode's samples: earliest date, positive
// culture if any member is positive, the strongest PCR result verbatim, and
// the strain taken preferentially from a positive member.
func mergeGroup(key string, members []domain.RawEvent) domain.Episode {
	ep := domain.Episode{
		Key:           key,
		ParticipantID: members[0].ParticipantID,
		SampleCount:   len(members),
	}

	strainFromPositive := false
	for _, m := range members {
		if m.DateKnown() && (ep.Date.IsZero() || m.EventDate.Before(ep.Date)) {
			ep.Date = m.EventDate
		}

		positive := IsPositiveCulture(m.CultureResult)
		if positive {
			ep.CulturePositive = true
		}

		if rank := PCRRank(m.PCRResult); rank > ep.PCRRank {
			ep.PCRRank = rank
			ep.PCRResult = m.PCRResult
		}

		if m.Strain != "" && (ep.Strain == "" || positive && !strainFromPositive) {
			ep.Strain = m.Strain
			strainFromPositive = positive
		}

		if ep.AgeMonths == nil && m.AgeMonths != nil {
			ep.AgeMonths = m.AgeMonths
		}
		if ep.SiteFallback == "" && m.SiteFallback != "" {
			ep.SiteFallback = m.SiteFallback
		}

		switch m.Specimen {
		case domain.SpecimenSwab:
			ep.SwabCount++
		default:
			ep.StoolCount++
		}
	}

	return ep
}
