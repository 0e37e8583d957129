package domain

import "time"

// SpecimenType distinguishes stool cultures from rectal swabs. Swab samples
// tolerate a wider collection gap when clustering samples into episodes.
type SpecimenType string

const (
	SpecimenStool SpecimenType = "stool"
	SpecimenSwab  SpecimenType = "swab"
)

// RawEvent is one validated data row from the diarrheal-event file. Each raw
// event represents a single lab sample; several samples may belong to the
// same clinical episode.
type RawEvent struct {
	ParticipantID string
	EventDate     time.Time
	CultureResult string
	PCRResult     string
	Strain        string
	AgeMonths     *float64
	// SampleID is the best-available episode/culture-number value, or a
	// synthesized participant+row token when no natural column exists.
	SampleID string
	// GroupID is the value of a dedicated episode-grouping column, empty
	// when the file carries none.
	GroupID      string
	Specimen     SpecimenType
	SiteFallback string
	RowIndex     int
}

// DateKnown reports whether the sample has a parseable collection date.
// Extractors only emit dated events, but reconciliation sorts defensively.
func (e RawEvent) DateKnown() bool { return !e.EventDate.IsZero() }

// DoseWindow classifies an episode relative to the participant's
// vaccination dates.
type DoseWindow int

const (
	// WindowUnclassified marks episodes whose participant has no known
	// first-dose date (including unmapped participants).
	WindowUnclassified DoseWindow = iota
	// WindowPreDose marks episodes dated before the first dose.
	WindowPreDose
	WindowAfterFirstDose
	WindowAfterSecondDose
	WindowAfterThirtyDays
)

// Counted reports whether the window participates in dose-relative
// attack-rate counts. Pre-dose and unclassified episodes only contribute to
// crude per-site totals.
func (w DoseWindow) Counted() bool {
	return w == WindowAfterFirstDose || w == WindowAfterSecondDose || w == WindowAfterThirtyDays
}

// Label returns the human-readable stage name used in recurrent-case
// histories and detailed event listings.
func (w DoseWindow) Label() string {
	switch w {
	case WindowPreDose:
		return "Pre-Dose"
	case WindowAfterFirstDose:
		return "After 1st Dose"
	case WindowAfterSecondDose:
		return "After 2nd Dose"
	case WindowAfterThirtyDays:
		return "After 30 Days"
	default:
		return "Unclassified"
	}
}

// Episode is the unit of clinical counting: one or more raw samples judged
// to represent the same diarrheal incident for one participant.
type Episode struct {
	// Key is the deterministic grouping key the episode was merged under.
	Key           string
	ParticipantID string
	// Date is the earliest member sample's collection date.
	Date time.Time
	// CulturePositive is true when any member sample's culture matched the
	// lenient positive predicate.
	CulturePositive bool
	// PCRResult is the highest-ranked member PCR result, retained verbatim.
	PCRResult    string
	PCRRank      int
	Strain       string
	AgeMonths    *float64
	SiteFallback string
	SampleCount  int
	StoolCount   int
	SwabCount    int
}
