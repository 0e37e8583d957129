package dataprocessing

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"trialcli/pkg/contracts/domain"
)

// excelEpoch is the zero point of the spreadsheet serial-date convention.
// Serial 1 is 1900-01-01; the offset accounts for the leap-year bug Excel
// inherited from Lotus 1-2-3.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

var (
	yearsRe  = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*y`)
	monthsRe = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*m`)
)

// dateLayouts are tried in order for free-text date cells: ISO first, then
// day-first forms common in the site data entry.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"02.01.2006",
	"02-01-2006",
	"02/01/2006",
}

// CellString normalizes a raw cell to its string content. Numeric cells are
// rendered without a forced decimal point so identifier columns survive the
// round trip through spreadsheet number typing.
func CellString(c domain.Cell) string {
	switch v := c.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case time.Time:
		return v.Format("2006-01-02")
	default:
		return ""
	}
}

// ParseDate normalizes a raw cell of unknown shape into a calendar date at
// UTC midnight. It never fails: null, "n/a" and unparseable input all report
// ok=false. The result is truncated to the day so same-day comparisons are
// exact.
func ParseDate(c domain.Cell) (time.Time, bool) {
	switch v := c.(type) {
	case time.Time:
		return truncateToDay(v), true
	case float64:
		return serialDate(v)
	case int:
		return serialDate(float64(v))
	case int64:
		return serialDate(float64(v))
	case string:
		return parseDateString(v)
	default:
		return time.Time{}, false
	}
}

func parseDateString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "n/a") {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return truncateToDay(t), true
		}
	}

	// Raw-mode spreadsheet reads surface serial dates as numeric strings.
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		return serialDate(serial)
	}

	return time.Time{}, false
}

func serialDate(serial float64) (time.Time, bool) {
	if serial <= 0 {
		return time.Time{}, false
	}
	return excelEpoch.AddDate(0, 0, int(serial)), true
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseAgeMonths extracts an age in total months from free text such as
// "1Y 8M", "6M" or a bare number of months. Unparseable input reports
// ok=false, never an error.
func ParseAgeMonths(c domain.Cell) (float64, bool) {
	switch v := c.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		return parseAgeString(v)
	default:
		return 0, false
	}
}

func parseAgeString(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "n/a") {
		return 0, false
	}

	var months float64
	var found bool

	if m := yearsRe.FindStringSubmatch(s); m != nil {
		if years, err := strconv.ParseFloat(m[1], 64); err == nil {
			months += years * 12
			found = true
		}
	}
	if m := monthsRe.FindStringSubmatch(s); m != nil {
		if mo, err := strconv.ParseFloat(m[1], 64); err == nil {
			months += mo
			found = true
		}
	}
	if found {
		return months, true
	}

	// No unit marker: a bare number is already in months.
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, true
	}
	return 0, false
}
