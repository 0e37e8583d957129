// Package exporter renders SummaryData into CSV, XLSX and JSON artifacts.
// It treats the summary as read-only and never re-derives totals.
package exporter

import (
	"fmt"
	"strconv"

	"trialcli/pkg/contracts/domain"
)

// FormatPercent renders a numerator/denominator pair as "12.34%". A zero
// denominator renders as "0.00%" rather than dividing.
func FormatPercent(numerator, denominator int) string {
	if denominator == 0 {
		return "0.00%"
	}
	return fmt.Sprintf("%.2f%%", float64(numerator)/float64(denominator)*100)
}

// countWithPercent renders "n (p%)" cells used throughout the report tables.
func countWithPercent(n, d int) string {
	return fmt.Sprintf("%d (%s)", n, FormatPercent(n, d))
}

var siteTableHeader = [][]string{
	{"Site Name", "Enrollment", "Number of Diarrhoeal Events",
		"After 1st dose", "", "After 2nd dose", "", "After 30 days of the 2nd dose", ""},
	{"", "", "",
		"Diarrheal events", "Culture positive",
		"Diarrheal events", "Culture positive",
		"Diarrheal events", "Culture positive"},
}

var ageTableHeader = [][]string{
	{"Age Distribution", "Total Events", "Culture Positive",
		"After 1st dose", "", "After 2nd dose", "", "After 30 days of the 2nd dose", ""},
	{"", "", "",
		"Diarrheal events", "Culture positive",
		"Diarrheal events", "Culture positive",
		"Diarrheal events", "Culture positive"},
}

var pcrTableHeader = [][]string{
	{"Site Name", "Total Tests", "Total Positive",
		"After 1st dose", "", "After 2nd dose", "", "After 30 days of the 2nd dose", ""},
	{"", "", "",
		"Tested", "Positive",
		"Tested", "Positive",
		"Tested", "Positive"},
}

var strainTableHeader = []string{
	"Serotype/Serogroup", "Total Positive Cases",
	"After 1st dose", "After 2nd dose", "After 30 days of the 2nd dose",
}

var detailedEventsHeader = []string{
	"Site", "Participant ID", "Collection Date", "Dose Category",
	"Culture Result", "Shigella Strain", "RT-PCR Result", "Age (Months)",
	"Participant Total Events", "Stools Collected", "Rectal Swabs Collected",
}

func siteTableRows(data *domain.SummaryData) [][]string {
	all := append(append([]domain.SiteSummary{}, data.Sites...), data.Totals)
	rows := make([][]string, 0, len(all))
	for _, s := range all {
		rows = append(rows, []string{
			s.SiteName,
			strconv.Itoa(s.Enrollment),
			countWithPercent(s.TotalDiarrhealEvents, s.Enrollment),
			strconv.Itoa(s.After1stDoseEvents),
			countWithPercent(s.After1stDoseCulturePositive, s.After1stDoseEvents),
			strconv.Itoa(s.After2ndDoseEvents),
			countWithPercent(s.After2ndDoseCulturePositive, s.After2ndDoseEvents),
			strconv.Itoa(s.After30Days2ndDoseEvents),
			countWithPercent(s.After30Days2ndDoseCulturePositive, s.After30Days2ndDoseEvents),
		})
	}
	return rows
}

func ageTableRows(data *domain.SummaryData) [][]string {
	rows := make([][]string, 0, len(data.AgeDistribution))
	for _, a := range data.AgeDistribution {
		rows = append(rows, []string{
			a.AgeGroup,
			strconv.Itoa(a.TotalEvents),
			countWithPercent(a.CulturePositive, a.TotalEvents),
			strconv.Itoa(a.After1stDoseEvents),
			countWithPercent(a.After1stDoseCulturePositive, a.After1stDoseEvents),
			strconv.Itoa(a.After2ndDoseEvents),
			countWithPercent(a.After2ndDoseCulturePositive, a.After2ndDoseEvents),
			strconv.Itoa(a.After30Days2ndDoseEvents),
			countWithPercent(a.After30Days2ndDoseCulturePositive, a.After30Days2ndDoseEvents),
		})
	}
	return rows
}

func pcrTableRows(data *domain.SummaryData) [][]string {
	all := append(append([]domain.PcrSummary{}, data.PcrSites...), data.PcrTotals)
	rows := make([][]string, 0, len(all))
	for _, p := range all {
		rows = append(rows, []string{
			p.SiteName,
			strconv.Itoa(p.TotalTests),
			countWithPercent(p.TotalPositive, p.TotalTests),
			strconv.Itoa(p.After1stDoseTests),
			countWithPercent(p.After1stDosePositive, p.After1stDoseTests),
			strconv.Itoa(p.After2ndDoseTests),
			countWithPercent(p.After2ndDosePositive, p.After2ndDoseTests),
			strconv.Itoa(p.After30DaysTests),
			countWithPercent(p.After30DaysPositive, p.After30DaysTests),
		})
	}
	return rows
}

func strainTableRows(data *domain.SummaryData) [][]string {
	var total, after1, after2, after30 int
	for _, s := range data.Strains {
		total += s.Total
		after1 += s.After1stDose
		after2 += s.After2ndDose
		after30 += s.After30Days2ndDose
	}

	rows := make([][]string, 0, len(data.Strains))
	for _, s := range data.Strains {
		rows = append(rows, []string{
			s.StrainName,
			countWithPercent(s.Total, total),
			countWithPercent(s.After1stDose, after1),
			countWithPercent(s.After2ndDose, after2),
			countWithPercent(s.After30Days2ndDose, after30),
		})
	}
	return rows
}

func detailedEventRows(data *domain.SummaryData) [][]string {
	rows := make([][]string, 0, len(data.DetailedEvents))
	for _, e := range data.DetailedEvents {
		rows = append(rows, []string{
			e.Site,
			e.ParticipantID,
			e.CollectionDate,
			e.DoseCategory,
			e.CultureResult,
			e.ShigellaStrain,
			e.PCRResult,
			e.AgeMonths,
			strconv.Itoa(e.ParticipantTotalEvents),
			strconv.Itoa(e.StoolsCollected),
			strconv.Itoa(e.RectalSwabsCollected),
		})
	}
	return rows
}
