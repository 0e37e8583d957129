package domain

// SiteSummary accumulates enrollment and dose-relative attack-rate counts
// for one surveillance site.
type SiteSummary struct {
	SiteName               string `json:"siteName"`
	Enrollment             int    `json:"enrollment"`
	TotalDiarrhealEvents   int    `json:"totalDiarrhealEvents"`
	ParticipantsWithEvents int    `json:"participantsWithEvents"`

	After1stDoseEvents          int `json:"after1stDoseEvents"`
	After1stDoseCulturePositive int `json:"after1stDoseCulturePositive"`

	After2ndDoseEvents          int `json:"after2ndDoseEvents"`
	After2ndDoseCulturePositive int `json:"after2ndDoseCulturePositive"`

	After30Days2ndDoseEvents          int `json:"after30Days2ndDoseEvents"`
	After30Days2ndDoseCulturePositive int `json:"after30Days2ndDoseCulturePositive"`
}

// PcrSummary accumulates RT-PCR tested/positive counts for one site. An
// episode is "tested" when it carries any determinate PCR result; a
// tested-but-negative episode counts toward tests only.
type PcrSummary struct {
	SiteName      string `json:"siteName"`
	TotalTests    int    `json:"totalTests"`
	TotalPositive int    `json:"totalPositive"`

	After1stDoseTests    int `json:"after1stDoseTests"`
	After1stDosePositive int `json:"after1stDosePositive"`

	After2ndDoseTests    int `json:"after2ndDoseTests"`
	After2ndDosePositive int `json:"after2ndDosePositive"`

	After30DaysTests    int `json:"after30DaysTests"`
	After30DaysPositive int `json:"after30DaysPositive"`
}

// StrainSummary counts culture-positive episodes per Shigella
// serotype/serogroup across dose windows.
type StrainSummary struct {
	StrainName         string `json:"strainName"`
	Total              int    `json:"total"`
	After1stDose       int    `json:"after1stDose"`
	After2ndDose       int    `json:"after2ndDose"`
	After30Days2ndDose int    `json:"after30Days2ndDose"`
}

// AgeSummary accumulates event counts for one age bracket (months).
type AgeSummary struct {
	AgeGroup        string `json:"ageGroup"`
	TotalEvents     int    `json:"totalEvents"`
	CulturePositive int    `json:"culturePositive"`

	After1stDoseEvents          int `json:"after1stDoseEvents"`
	After1stDoseCulturePositive int `json:"after1stDoseCulturePositive"`

	After2ndDoseEvents          int `json:"after2ndDoseEvents"`
	After2ndDoseCulturePositive int `json:"after2ndDoseCulturePositive"`

	After30Days2ndDoseEvents          int `json:"after30Days2ndDoseEvents"`
	After30Days2ndDoseCulturePositive int `json:"after30Days2ndDoseCulturePositive"`
}

// EpisodeHistoryEntry is one row of a recurrent participant's ordered
// episode history.
type EpisodeHistoryEntry struct {
	Date   string `json:"date"`
	Result string `json:"result"`
	Stage  string `json:"stage"`
	Strain string `json:"strain,omitempty"`
}

// RecurrentCase describes a participant with more than one episode.
type RecurrentCase struct {
	ParticipantID    string `json:"participantId"`
	SiteName         string `json:"siteName"`
	TotalEpisodes    int    `json:"totalEpisodes"`
	CulturePositives int    `json:"culturePositives"`
	// HasPersistentPathogen is set when two or more culture-positive
	// episodes share the same strain.
	HasPersistentPathogen bool                  `json:"hasPersistentPathogen"`
	History               []EpisodeHistoryEntry `json:"history"`
}

// DetailedParticipantEvent is one row of the per-episode detail listing.
type DetailedParticipantEvent struct {
	Site                   string `json:"site"`
	ParticipantID          string `json:"participantId"`
	CollectionDate         string `json:"collectionDate"`
	DoseCategory           string `json:"doseCategory"`
	CultureResult          string `json:"cultureResult"`
	ShigellaStrain         string `json:"shigellaStrain"`
	PCRResult              string `json:"pcrResult"`
	AgeMonths              string `json:"ageMonths"`
	ParticipantTotalEvents int    `json:"participantTotalEvents"`
	StoolsCollected        int    `json:"stoolsCollected"`
	RectalSwabsCollected   int    `json:"rectalSwabsCollected"`
}

// SummaryData is the complete report produced by one pipeline run. It is the
// sole boundary with rendering and export collaborators, which must treat it
// as read-only and must not re-derive totals.
type SummaryData struct {
	Sites           []SiteSummary              `json:"sites"`
	Totals          SiteSummary                `json:"totals"`
	Strains         []StrainSummary            `json:"strains"`
	PcrSites        []PcrSummary               `json:"pcrSites"`
	PcrTotals       PcrSummary                 `json:"pcrTotals"`
	AgeDistribution []AgeSummary               `json:"ageDistribution"`
	DetailedEvents  []DetailedParticipantEvent `json:"detailedEvents"`
	RecurrentCases  []RecurrentCase            `json:"recurrentCases"`
	// UnmappedEvents counts episodes whose participant id had no enrollment
	// record. They remain attributed to a site via the event-file fallback.
	UnmappedEvents int `json:"unmappedEvents"`
}
