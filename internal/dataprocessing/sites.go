package dataprocessing

import (
	"strconv"
	"strings"
	"unicode"
)

// KnownSites is the fixed surveillance site list. Site summaries are
// pre-created for these in a stable order; unrecognized site labels get
// dynamic records.
var KnownSites = []string{"Tongi", "Mirpur", "Korail", "Mirzapur"}

// siteRange maps a randomization-number block to its enrolling site. Used to
// attribute events whose file carries no explicit site column.
type siteRange struct {
	min, max int
	site     string
}

var siteRanges = []siteRange{
	{1000, 1999, "Tongi"},
	{2000, 2999, "Mirpur"},
	{3000, 3999, "Korail"},
	{4000, 4999, "Mirzapur"},
}

// CanonicalSite normalizes a raw site label: trimmed, title-cased, with any
// variant containing a known site name collapsed onto the canonical spelling
// (e.g. "MIRPUR field site" becomes "Mirpur").
func CanonicalSite(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	lowered := strings.ToLower(s)
	for _, site := range KnownSites {
		if strings.Contains(lowered, strings.ToLower(site)) {
			return site
		}
	}
	return titleCase(s)
}

// SiteFromParticipantID derives the site from the randomization-number block
// convention. Returns "" when the id carries no recognizable numeric prefix.
func SiteFromParticipantID(id string) string {
	digits := leadingDigits(strings.TrimSpace(id))
	if digits == "" {
		return ""
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return ""
	}
	for _, r := range siteRanges {
		if n >= r.min && n <= r.max {
			return r.site
		}
	}
	return ""
}

func leadingDigits(s string) string {
	for i, r := range s {
		if !unicode.IsDigit(r) {
			return s[:i]
		}
	}
	return s
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
