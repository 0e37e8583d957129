package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"trialcli/pkg/contracts/domain"
)

func TestClassifyDoseWindow(t *testing.T) {
	dose1 := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	dose2 := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	var none time.Time

	tests := []struct {
		name    string
		episode time.Time
		dose1   time.Time
		dose2   time.Time
		want    domain.DoseWindow
	}{
		{"before first dose", day(1).AddDate(0, -3, 0), dose1, dose2, domain.WindowPreDose},
		{"on first dose day", dose1, dose1, dose2, domain.WindowAfterFirstDose},
		{"between doses", dose1.AddDate(0, 0, 10), dose1, dose2, domain.WindowAfterFirstDose},
		{"on second dose day", dose2, dose1, dose2, domain.WindowAfterSecondDose},
		{"day 29 after second dose", dose2.AddDate(0, 0, 29), dose1, dose2, domain.WindowAfterSecondDose},
		{"exactly 30 days after second dose", dose2.AddDate(0, 0, 30), dose1, dose2, domain.WindowAfterThirtyDays},
		{"long after second dose", dose2.AddDate(1, 0, 0), dose1, dose2, domain.WindowAfterThirtyDays},
		{"missing second dose absorbs everything after dose 1", dose2.AddDate(1, 0, 0), dose1, none, domain.WindowAfterFirstDose},
		{"missing first dose", dose2, none, dose2, domain.WindowUnclassified},
		{"missing episode date", none, dose1, dose2, domain.WindowUnclassified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyDoseWindow(tt.episode, tt.dose1, tt.dose2))
		})
	}
}

func TestDoseWindowCountedAndLabel(t *testing.T) {
	assert.False(t, domain.WindowUnclassified.Counted())
	assert.False(t, domain.WindowPreDose.Counted())
	assert.True(t, domain.WindowAfterFirstDose.Counted())
	assert.True(t, domain.WindowAfterSecondDose.Counted())
	assert.True(t, domain.WindowAfterThirtyDays.Counted())

	assert.Equal(t, "After 1st Dose", domain.WindowAfterFirstDose.Label())
	assert.Equal(t, "Unclassified", domain.WindowUnclassified.Label())
}
