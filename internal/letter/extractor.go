// Package letter segments likely-correspondence text into structural letter
// fields for human review. Extraction is best effort over noisy OCR output,
// not a guarantee of correctness.
package letter

import (
	"regexp"
	"sort"
	"strings"
)

// Letter is one ranked candidate with whatever structure could be recovered.
type Letter struct {
	Archive        string
	Reference      string
	Title          string
	Date           string
	Fields         map[string]string // subset of date, salutation, body, signature
	RelevanceScore int
	FullText       string
}

// Loosely shaped "D Month YYYY" dates; OCR noise rules out anything stricter.
var looseDatePattern = regexp.MustCompile(`\d{1,2}\s+\w+\s+19\d{2}`)

// ExtractFields runs a single pass over non-blank lines, seeking a date and a
// salutation, accumulating body lines after the salutation, and closing the
// body at a signature line.
func ExtractFields(text string) map[string]string {
	fields := make(map[string]string)
	inBody := false
	var bodyLines []string

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case fields["date"] == "" && looseDatePattern.MatchString(line):
			fields["date"] = line

		case fields["salutation"] == "" && strings.HasPrefix(line, "Dear"):
			fields["salutation"] = line
			inBody = true

		case inBody && (strings.Contains(line, "Sincerely") || strings.Contains(line, "Yours")):
			fields["signature"] = line
			inBody = false

		case inBody:
			bodyLines = append(bodyLines, line)
		}
	}

	if len(bodyLines) > 0 {
		fields["body"] = strings.Join(bodyLines, "\n")
	}

	return fields
}

// Build extracts fields from a document's full text and returns a candidate
// letter, or nil when fewer than two structural fields were recovered.
func Build(archiveName, reference, title, date, fullText string, relevanceScore int) *Letter {
	fields := ExtractFields(fullText)
	if len(fields) < 2 {
		return nil
	}
	return &Letter{
		Archive:        archiveName,
		Reference:      reference,
		Title:          title,
		Date:           date,
		Fields:         fields,
		RelevanceScore: relevanceScore,
		FullText:       fullText,
	}
}

// Rank sorts candidates by relevance score descending, stable for ties.
func Rank(letters []*Letter) {
	sort.SliceStable(letters, func(i, j int) bool {
		return letters[i].RelevanceScore > letters[j].RelevanceScore
	})
}
