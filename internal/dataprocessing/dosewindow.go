package dataprocessing

import (
	"time"

	"trialcli/pkg/contracts/domain"
)

// observationDays is the length of the post-second-dose observation bracket.
const observationDays = 30

// ClassifyDoseWindow assigns an episode date to a dose-relative window using
// the participant's vaccination dates. Intervals are half-open with an
// inclusive lower bound: an episode on the second-dose day is after-2nd-dose,
// and one exactly 30 days after it is after-30-days.
//
// A missing first-dose date makes the episode unclassifiable; a missing
// second-dose date leaves everything from dose 1 onward in the
// after-1st-dose bracket.
func ClassifyDoseWindow(episodeDate, dose1, dose2 time.Time) domain.DoseWindow {
	if dose1.IsZero() || episodeDate.IsZero() {
		return domain.WindowUnclassified
	}
	if episodeDate.Before(dose1) {
		return domain.WindowPreDose
	}
	if dose2.IsZero() || episodeDate.Before(dose2) {
		return domain.WindowAfterFirstDose
	}
	if episodeDate.Before(dose2.AddDate(0, 0, observationDays)) {
		return domain.WindowAfterSecondDose
	}
	return domain.WindowAfterThirtyDays
}
