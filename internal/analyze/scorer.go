// Package analyze scores OCR text against the target correspondence profile.
// Scoring is a pure function of the input text.
package analyze

import (
	"regexp"
	"strconv"
)

// Analysis is the structured result of scoring one document's combined text.
type Analysis struct {
	MentionsChurchill    bool
	MentionsFairfax      bool
	DateFound            string
	LikelyCorrespondence bool
	RelevanceScore       int
}

const (
	entityBonus             = 10
	dateBonus               = 30
	correspondenceThreshold = 20
)

var (
	churchillPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bchurchill\b`),
		regexp.MustCompile(`(?i)\bwinston\b`),
		regexp.MustCompile(`(?i)\bprime\s+minister\b`),
	}
	fairfaxPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bfairfax\b`),
		regexp.MustCompile(`(?i)\bbryan\b`),
		regexp.MustCompile(`(?i)\bcolonel\b`),
	}
	datePattern = regexp.MustCompile(`(\d{1,2})\s+(January|February|March|April|May|June|July|August|September|October|November|December)\s+(19[0-9]{2})`)
)

var monthNumbers = map[string]int{
	"January": 1, "February": 2, "March": 3, "April": 4,
	"May": 5, "June": 6, "July": 7, "August": 8,
	"September": 9, "October": 10, "November": 11, "December": 12,
}

// Score analyzes text for the Fairfax-Churchill correspondence profile. Each
// entity contributes a single fixed bonus no matter how many of its patterns
// match. Only the first date in the text is considered; a date in Oct-Dec
// 1946 adds the window bonus.
func Score(text string) Analysis {
	var a Analysis

	for _, p := range churchillPatterns {
		if p.MatchString(text) {
			a.MentionsChurchill = true
			a.RelevanceScore += entityBonus
			break
		}
	}

	for _, p := range fairfaxPatterns {
		if p.MatchString(text) {
			a.MentionsFairfax = true
			a.RelevanceScore += entityBonus
			break
		}
	}

	if m := datePattern.FindStringSubmatch(text); m != nil {
		day, month, year := m[1], m[2], m[3]
		if y, err := strconv.Atoi(year); err == nil {
			a.DateFound = day + " " + month + " " + year
			if y == 1946 && monthNumbers[month] >= monthNumbers["October"] {
				a.RelevanceScore += dateBonus
			}
		}
	}

	if a.MentionsChurchill && a.MentionsFairfax && a.RelevanceScore >= correspondenceThreshold {
		a.LikelyCorrespondence = true
	}

	return a
}
