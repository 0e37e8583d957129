package domain

import "time"

// Participant is one enrolled trial participant, keyed by randomization
// number. A zero Dose1Date/Dose2Date means the corresponding vaccination
// visit was not found (or its date did not parse) in the enrollment file.
type Participant struct {
	ID        string    `json:"participant_id"`
	Site      string    `json:"site_name"`
	Dose1Date time.Time `json:"dose1_date,omitempty"`
	Dose2Date time.Time `json:"dose2_date,omitempty"`
	AgeMonths *float64  `json:"age_months,omitempty"`
}

// HasDose1 reports whether a first-dose vaccination date is known.
func (p Participant) HasDose1() bool { return !p.Dose1Date.IsZero() }

// HasDose2 reports whether a second-dose vaccination date is known.
func (p Participant) HasDose2() bool { return !p.Dose2Date.IsZero() }
