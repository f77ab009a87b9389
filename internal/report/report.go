// Package report assembles the findings of a run into a Markdown research
// report and an HTML rendering of it.
package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"github.com/HarleyCoops/Churchill/internal/letter"
)

var md = goldmark.New()

// Data carries everything the report needs from a completed run.
type Data struct {
	Query       string
	Status      string
	GeneratedAt time.Time
	PerArchive  map[string]int
	Locations   []string
	Documents   int
	Candidates  []*letter.Letter
}

// likelyTopics is historical context for what a late-1946 letter from
// Fairfax to Churchill would plausibly discuss.
var likelyTopics = []string{
	"Reflections on Churchill's 'Iron Curtain' speech (March 1946)",
	"Comments on Churchill's opposition leadership in Parliament",
	"Shared memories from military service",
	"Discussion of post-war international relations",
	"Possible mention of Churchill's upcoming history of WWII",
	"News of Toronto social and political circles",
	"Personal reflections on Fairfax's military career and Churchill's leadership",
}

var searchStrategy = []string{
	"Query Churchill Archives CALM catalogue for correspondence from Fairfax, Oct-Dec 1946",
	"Request specific CHAR files containing personal correspondence from this period",
	"Search Canadian archives for Fairfax's personal papers or letter copies",
	"Contact Fairfax/Gooderham family descendants for private collections",
	"Search newspaper archives for any mention of communication between the two",
}

var searchTerms = []string{
	"Fairfax, Bryan Charles",
	"Colonel Fairfax",
	"Fairfax + Churchill + 1946",
	"Canadian Battalion + Churchill + correspondence",
	"Gooderham + Churchill",
}

// Render assembles the full Markdown report.
func Render(d Data) string {
	var b strings.Builder

	b.WriteString("# Fairfax Letter Search Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", d.GeneratedAt.Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(&b, "**Status: %s**\n\n", strings.ToUpper(d.Status))
	if d.Query != "" {
		fmt.Fprintf(&b, "Query: %s\n\n", d.Query)
	}

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- Catalog records found: %d\n", totalRecords(d.PerArchive))
	fmt.Fprintf(&b, "- Documents processed: %d\n", d.Documents)
	fmt.Fprintf(&b, "- Potential letters extracted: %d\n\n", len(d.Candidates))

	writeArchiveSection(&b, d.PerArchive)
	writeCandidateSection(&b, d.Candidates)
	writeLocationSection(&b, d.Locations)

	b.WriteString("## Search Strategy\n\n")
	for i, step := range searchStrategy {
		fmt.Fprintf(&b, "%d. %s\n", i+1, step)
	}
	b.WriteString("\n### Search Terms\n\n")
	for _, term := range searchTerms {
		fmt.Fprintf(&b, "- %s\n", term)
	}

	b.WriteString("\n## Likely Letter Content\n\n")
	b.WriteString("Based on the historical context of late 1946, the letter likely discusses:\n\n")
	for _, topic := range likelyTopics {
		fmt.Fprintf(&b, "- %s\n", topic)
	}

	return b.String()
}

func writeArchiveSection(b *strings.Builder, perArchive map[string]int) {
	if len(perArchive) == 0 {
		return
	}
	b.WriteString("## Results by Archive\n\n")

	names := make([]string, 0, len(perArchive))
	for name := range perArchive {
		names = append(names, name)
	}
	sort.Strings(names)

	b.WriteString("| Archive | Records |\n|---|---|\n")
	for _, name := range names {
		fmt.Fprintf(b, "| %s | %d |\n", name, perArchive[name])
	}
	b.WriteString("\n")
}

func writeCandidateSection(b *strings.Builder, candidates []*letter.Letter) {
	if len(candidates) == 0 {
		b.WriteString("## Potential Letters\n\nNo letter content could be extracted from the processed documents.\n\n")
		return
	}

	b.WriteString("## Top Matches\n\n")
	top := candidates
	if len(top) > 3 {
		top = top[:3]
	}
	for i, c := range top {
		fmt.Fprintf(b, "### %d. %s — %s (score %d)\n\n", i+1, c.Archive, c.Reference, c.RelevanceScore)
		if c.Title != "" {
			fmt.Fprintf(b, "Title: %s\n\n", c.Title)
		}
		for _, field := range []string{"date", "salutation", "signature"} {
			if v, ok := c.Fields[field]; ok {
				fmt.Fprintf(b, "- %s: %s\n", field, v)
			}
		}
		if body, ok := c.Fields["body"]; ok {
			fmt.Fprintf(b, "\n> %s\n", strings.ReplaceAll(body, "\n", "\n> "))
		}
		b.WriteString("\n")
	}

	if len(candidates) > len(top) {
		fmt.Fprintf(b, "%d additional lower-scoring candidates were found.\n\n", len(candidates)-len(top))
	}
}

func writeLocationSection(b *strings.Builder, locations []string) {
	if len(locations) == 0 {
		return
	}
	b.WriteString("## Most Likely Locations\n\n")
	for i, loc := range locations {
		fmt.Fprintf(b, "%d. %s\n", i+1, loc)
	}
	b.WriteString("\n")
}

func totalRecords(perArchive map[string]int) int {
	var n int
	for _, c := range perArchive {
		n += c
	}
	return n
}

// RenderHTML converts the Markdown report to a standalone HTML page.
func RenderHTML(markdown string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>Fairfax Letter Search Report</title>\n</head>\n<body>\n")
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return nil, fmt.Errorf("rendering markdown: %w", err)
	}
	buf.WriteString("</body>\n</html>\n")
	return buf.Bytes(), nil
}

// Write renders the report and writes both formats under dir.
func Write(dir string, d Data) (mdPath, htmlPath string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("creating report dir: %w", err)
	}

	markdown := Render(d)
	mdPath = filepath.Join(dir, "report.md")
	if err := os.WriteFile(mdPath, []byte(markdown), 0o644); err != nil {
		return "", "", fmt.Errorf("writing markdown report: %w", err)
	}

	html, err := RenderHTML(markdown)
	if err != nil {
		return "", "", err
	}
	htmlPath = filepath.Join(dir, "report.html")
	if err := os.WriteFile(htmlPath, html, 0o644); err != nil {
		return "", "", fmt.Errorf("writing html report: %w", err)
	}

	return mdPath, htmlPath, nil
}
