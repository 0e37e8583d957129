package dataprocessing

import (
	"fmt"
	"log/slog"
	"sort"

	"trialcli/pkg/contracts/domain"
)

// fallbackSiteName attributes episodes whose site could not be derived from
// either the participant record or the event file.
const fallbackSiteName = "Unknown"

// unspecifiedStrain buckets culture-positive episodes with no serotype.
const unspecifiedStrain = "Unspecified"

// AgeBracket is one row of the age distribution table. Brackets are ordered
// by inclusive upper bound; Max <= 0 means open-ended. The exclusive lower
// bound of each bracket is the previous bracket's Max.
type AgeBracket struct {
	Label string
	Max   float64
}

// minBracketAge excludes infants below the trial's minimum enrollment age
// from the age table.
const minBracketAge = 6

// AggregatorConfig is the immutable lookup data one report run aggregates
// against. Concurrent runs must not share mutable state, so each run gets
// its own copy.
type AggregatorConfig struct {
	Sites       []string
	AgeBrackets []AgeBracket
}

// DefaultAggregatorConfig returns the trial's fixed site list and age
// brackets. Ages below six months fall outside every bracket and are
// excluded from the age table.
func DefaultAggregatorConfig() AggregatorConfig {
	return AggregatorConfig{
		Sites: KnownSites,
		AgeBrackets: []AgeBracket{
			{Label: "6-12 Months", Max: 12},
			{Label: "13-24 Months", Max: 24},
			{Label: "25-36 Months", Max: 36},
			{Label: "37-48 Months", Max: 48},
			{Label: ">48 Months", Max: 0},
		},
	}
}

// Aggregator folds classified episodes into the final summary structure.
type Aggregator struct {
	cfg    AggregatorConfig
	logger *slog.Logger
}

// NewAggregator creates an aggregator with the given configuration.
func NewAggregator(logger *slog.Logger, cfg AggregatorConfig) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	if len(cfg.Sites) == 0 {
		cfg = DefaultAggregatorConfig()
	}
	return &Aggregator{cfg: cfg, logger: logger}
}

// classifiedEpisode pairs an episode with its attribution for the second
// pass that builds detailed listings and recurrent cases.
type classifiedEpisode struct {
	episode domain.Episode
	site    string
	window  domain.DoseWindow
	mapped  bool
	age     *float64
}

// Aggregate consumes all participants and reconciled episodes and produces
// the summary. Totals rows are computed once at the end by column-wise
// summation, never incrementally.
func (a *Aggregator) Aggregate(participants []domain.Participant, episodes []domain.Episode) *domain.SummaryData {
	participantMap := make(map[string]domain.Participant, len(participants))
	for _, p := range participants {
		if _, ok := participantMap[p.ID]; !ok {
			participantMap[p.ID] = p
		}
	}

	state := newAggregationState(a.cfg)

	for _, p := range participants {
		state.site(p.Site).Enrollment++
	}

	classified := make([]classifiedEpisode, 0, len(episodes))
	for _, ep := range episodes {
		ce := a.classify(ep, participantMap)
		state.apply(ce)
		classified = append(classified, ce)
	}

	summary := state.finalize()
	summary.DetailedEvents = buildDetailedEvents(classified)
	summary.RecurrentCases = buildRecurrentCases(classified)

	a.logger.Info("aggregated summary",
		slog.Int("participant_count", len(participants)),
		slog.Int("episode_count", len(episodes)),
		slog.Int("unmapped_events", summary.UnmappedEvents),
		slog.Int("recurrent_cases", len(summary.RecurrentCases)))

	return summary
}

func (a *Aggregator) classify(ep domain.Episode, participants map[string]domain.Participant) classifiedEpisode {
	ce := classifiedEpisode{episode: ep, window: domain.WindowUnclassified, age: ep.AgeMonths}

	p, ok := participants[ep.ParticipantID]
	if ok {
		ce.mapped = true
		ce.site = p.Site
		ce.window = ClassifyDoseWindow(ep.Date, p.Dose1Date, p.Dose2Date)
		if ce.age == nil {
			ce.age = p.AgeMonths
		}
	} else {
		ce.site = ep.SiteFallback
	}
	if ce.site == "" {
		ce.site = fallbackSiteName
	}
	return ce
}

// aggregationState holds the per-run accumulator records. All of it is
// process-local and owned by a single Aggregate call.
type aggregationState struct {
	cfg AggregatorConfig

	siteOrder []string
	sites     map[string]*domain.SiteSummary
	pcrSites  map[string]*domain.PcrSummary

	ageRows []domain.AgeSummary

	strainOrder []string
	strains     map[string]*domain.StrainSummary

	// Positivity-tracking sets keyed by episode identity guarantee one
	// increment per episode even on overlapping inputs.
	culturePositiveSeen map[string]struct{}
	pcrSeen             map[string]struct{}

	participantsWithEvents map[string]map[string]struct{}
	unmapped               int
}

func newAggregationState(cfg AggregatorConfig) *aggregationState {
	s := &aggregationState{
		cfg:                    cfg,
		sites:                  make(map[string]*domain.SiteSummary),
		pcrSites:               make(map[string]*domain.PcrSummary),
		strains:                make(map[string]*domain.StrainSummary),
		culturePositiveSeen:    make(map[string]struct{}),
		pcrSeen:                make(map[string]struct{}),
		participantsWithEvents: make(map[string]map[string]struct{}),
	}
	for _, name := range cfg.Sites {
		s.site(name)
	}
	s.ageRows = make([]domain.AgeSummary, len(cfg.AgeBrackets))
	for i, b := range cfg.AgeBrackets {
		s.ageRows[i] = domain.AgeSummary{AgeGroup: b.Label}
	}
	return s
}

// site returns the accumulator for a site name, creating a dynamic record
// for unrecognized or fallback sites.
func (s *aggregationState) site(name string) *domain.SiteSummary {
	if name == "" {
		name = fallbackSiteName
	}
	if row, ok := s.sites[name]; ok {
		return row
	}
	s.sites[name] = &domain.SiteSummary{SiteName: name}
	s.pcrSites[name] = &domain.PcrSummary{SiteName: name}
	s.siteOrder = append(s.siteOrder, name)
	return s.sites[name]
}

func (s *aggregationState) strain(name string) *domain.StrainSummary {
	if name == "" {
		name = unspecifiedStrain
	}
	if row, ok := s.strains[name]; ok {
		return row
	}
	s.strains[name] = &domain.StrainSummary{StrainName: name}
	s.strainOrder = append(s.strainOrder, name)
	return s.strains[name]
}

func (s *aggregationState) bracketFor(age *float64) *domain.AgeSummary {
	if age == nil || *age < minBracketAge {
		return nil
	}
	for i, b := range s.cfg.AgeBrackets {
		if b.Max <= 0 || *age <= b.Max {
			return &s.ageRows[i]
		}
	}
	return nil
}

func (s *aggregationState) apply(ce classifiedEpisode) {
	ep := ce.episode

	site := s.site(ce.site)
	site.TotalDiarrhealEvents++
	if _, ok := s.participantsWithEvents[ce.site]; !ok {
		s.participantsWithEvents[ce.site] = make(map[string]struct{})
	}
	s.participantsWithEvents[ce.site][ep.ParticipantID] = struct{}{}

	if !ce.mapped {
		s.unmapped++
	}

	// Crude PCR testing totals cover every attributed episode with a
	// determinate result; window buckets only classified ones.
	pcr := s.pcrSites[site.SiteName]
	tested := ep.PCRRank > 0
	pcrPositive := ep.PCRRank == 2
	if tested {
		if _, seen := s.pcrSeen[ep.Key]; !seen {
			s.pcrSeen[ep.Key] = struct{}{}
			pcr.TotalTests++
			if pcrPositive {
				pcr.TotalPositive++
			}
			switch ce.window {
			case domain.WindowAfterFirstDose:
				pcr.After1stDoseTests++
				if pcrPositive {
					pcr.After1stDosePositive++
				}
			case domain.WindowAfterSecondDose:
				pcr.After2ndDoseTests++
				if pcrPositive {
					pcr.After2ndDosePositive++
				}
			case domain.WindowAfterThirtyDays:
				pcr.After30DaysTests++
				if pcrPositive {
					pcr.After30DaysPositive++
				}
			}
		}
	}

	if !ce.window.Counted() {
		return
	}

	_, alreadyCounted := s.culturePositiveSeen[ep.Key]
	countPositive := ep.CulturePositive && !alreadyCounted
	if countPositive {
		s.culturePositiveSeen[ep.Key] = struct{}{}
	}

	bracket := s.bracketFor(ce.age)
	if bracket != nil {
		bracket.TotalEvents++
		if countPositive {
			bracket.CulturePositive++
		}
	}

	switch ce.window {
	case domain.WindowAfterFirstDose:
		site.After1stDoseEvents++
		if bracket != nil {
			bracket.After1stDoseEvents++
		}
		if countPositive {
			site.After1stDoseCulturePositive++
			s.strain(ep.Strain).After1stDose++
			if bracket != nil {
				bracket.After1stDoseCulturePositive++
			}
		}
	case domain.WindowAfterSecondDose:
		site.After2ndDoseEvents++
		if bracket != nil {
			bracket.After2ndDoseEvents++
		}
		if countPositive {
			site.After2ndDoseCulturePositive++
			s.strain(ep.Strain).After2ndDose++
			if bracket != nil {
				bracket.After2ndDoseCulturePositive++
			}
		}
	case domain.WindowAfterThirtyDays:
		site.After30Days2ndDoseEvents++
		if bracket != nil {
			bracket.After30Days2ndDoseEvents++
		}
		if countPositive {
			site.After30Days2ndDoseCulturePositive++
			s.strain(ep.Strain).After30Days2ndDose++
			if bracket != nil {
				bracket.After30Days2ndDoseCulturePositive++
			}
		}
	}

	if countPositive {
		s.strain(ep.Strain).Total++
	}
}

func (s *aggregationState) finalize() *domain.SummaryData {
	summary := &domain.SummaryData{UnmappedEvents: s.unmapped}

	for _, name := range s.siteOrder {
		row := *s.sites[name]
		row.ParticipantsWithEvents = len(s.participantsWithEvents[name])
		summary.Sites = append(summary.Sites, row)
		summary.PcrSites = append(summary.PcrSites, *s.pcrSites[name])
	}

	summary.Totals = sumSites(summary.Sites)
	summary.PcrTotals = sumPcr(summary.PcrSites)
	summary.AgeDistribution = append(summary.AgeDistribution, s.ageRows...)

	strains := make([]domain.StrainSummary, 0, len(s.strainOrder))
	for _, name := range s.strainOrder {
		strains = append(strains, *s.strains[name])
	}
	sort.SliceStable(strains, func(i, j int) bool {
		if strains[i].Total != strains[j].Total {
			return strains[i].Total > strains[j].Total
		}
		return strains[i].StrainName < strains[j].StrainName
	})
	summary.Strains = strains

	return summary
}

// sumSites derives the synthetic totals row as the column-wise sum of all
// site rows.
func sumSites(sites []domain.SiteSummary) domain.SiteSummary {
	totals := domain.SiteSummary{SiteName: "Total Enrolled"}
	for _, s := range sites {
		totals.Enrollment += s.Enrollment
		totals.TotalDiarrhealEvents += s.TotalDiarrhealEvents
		totals.ParticipantsWithEvents += s.ParticipantsWithEvents
		totals.After1stDoseEvents += s.After1stDoseEvents
		totals.After1stDoseCulturePositive += s.After1stDoseCulturePositive
		totals.After2ndDoseEvents += s.After2ndDoseEvents
		totals.After2ndDoseCulturePositive += s.After2ndDoseCulturePositive
		totals.After30Days2ndDoseEvents += s.After30Days2ndDoseEvents
		totals.After30Days2ndDoseCulturePositive += s.After30Days2ndDoseCulturePositive
	}
	return totals
}

func sumPcr(sites []domain.PcrSummary) domain.PcrSummary {
	totals := domain.PcrSummary{SiteName: "Total"}
	for _, s := range sites {
		totals.TotalTests += s.TotalTests
		totals.TotalPositive += s.TotalPositive
		totals.After1stDoseTests += s.After1stDoseTests
		totals.After1stDosePositive += s.After1stDosePositive
		totals.After2ndDoseTests += s.After2ndDoseTests
		totals.After2ndDosePositive += s.After2ndDosePositive
		totals.After30DaysTests += s.After30DaysTests
		totals.After30DaysPositive += s.After30DaysPositive
	}
	return totals
}

func buildDetailedEvents(classified []classifiedEpisode) []domain.DetailedParticipantEvent {
	totals := make(map[string]int)
	for _, ce := range classified {
		totals[ce.episode.ParticipantID]++
	}

	rows := make([]domain.DetailedParticipantEvent, 0, len(classified))
	for _, ce := range classified {
		ep := ce.episode
		rows = append(rows, domain.DetailedParticipantEvent{
			Site:                   ce.site,
			ParticipantID:          ep.ParticipantID,
			CollectionDate:         formatEpisodeDate(ep),
			DoseCategory:           ce.window.Label(),
			CultureResult:          cultureLabel(ep.CulturePositive),
			ShigellaStrain:         ep.Strain,
			PCRResult:              ep.PCRResult,
			AgeMonths:              formatAge(ce.age),
			ParticipantTotalEvents: totals[ep.ParticipantID],
			StoolsCollected:        ep.StoolCount,
			RectalSwabsCollected:   ep.SwabCount,
		})
	}
	return rows
}

func buildRecurrentCases(classified []classifiedEpisode) []domain.RecurrentCase {
	type caseState struct {
		rc         domain.RecurrentCase
		strainHits map[string]int
	}
	byParticipant := make(map[string]*caseState)
	var order []string

	for _, ce := range classified {
		ep := ce.episode
		cs, ok := byParticipant[ep.ParticipantID]
		if !ok {
			cs = &caseState{
				rc: domain.RecurrentCase{
					ParticipantID: ep.ParticipantID,
					SiteName:      ce.site,
				},
				strainHits: make(map[string]int),
			}
			byParticipant[ep.ParticipantID] = cs
			order = append(order, ep.ParticipantID)
		}

		cs.rc.TotalEpisodes++
		if ep.CulturePositive {
			cs.rc.CulturePositives++
			if ep.Strain != "" {
				cs.strainHits[ep.Strain]++
			}
		}
		cs.rc.History = append(cs.rc.History, domain.EpisodeHistoryEntry{
			Date:   formatEpisodeDate(ep),
			Result: cultureLabel(ep.CulturePositive),
			Stage:  ce.window.Label(),
			Strain: ep.Strain,
		})
	}

	var cases []domain.RecurrentCase
	for _, id := range order {
		cs := byParticipant[id]
		if cs.rc.TotalEpisodes < 2 {
			continue
		}
		for _, hits := range cs.strainHits {
			if hits >= 2 {
				cs.rc.HasPersistentPathogen = true
				break
			}
		}
		cases = append(cases, cs.rc)
	}
	return cases
}

func cultureLabel(positive bool) string {
	if positive {
		return "Positive"
	}
	return "Negative"
}

func formatEpisodeDate(ep domain.Episode) string {
	if ep.Date.IsZero() {
		return "Unknown"
	}
	return ep.Date.Format("2006-01-02")
}

func formatAge(age *float64) string {
	if age == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1f", *age)
}
