package report

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/HarleyCoops/Churchill/internal/letter"
)

func testData() Data {
	return Data{
		Query:       "Fairfax Winston Churchill correspondence",
		Status:      "success",
		GeneratedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		PerArchive: map[string]int{
			"Churchill Archives Centre":   2,
			"Library and Archives Canada": 1,
		},
		Locations: []string{
			"Churchill Archives Centre: CHAR 2/158 - Correspondence, 3 Nov 1946",
		},
		Documents: 2,
		Candidates: []*letter.Letter{
			{
				Archive:        "Churchill Archives Centre",
				Reference:      "CHAR 2/158",
				Title:          "Correspondence",
				RelevanceScore: 50,
				Fields: map[string]string{
					"date":       "3 November 1946",
					"salutation": "Dear Mr. Churchill,",
					"signature":  "Yours sincerely, Bryan Fairfax",
					"body":       "I write to congratulate you.",
				},
			},
		},
	}
}

func TestRenderIncludesFindings(t *testing.T) {
	out := Render(testData())

	for _, want := range []string{
		"**Status: SUCCESS**",
		"Catalog records found: 3",
		"Documents processed: 2",
		"| Churchill Archives Centre | 2 |",
		"CHAR 2/158",
		"(score 50)",
		"3 November 1946",
		"Dear Mr. Churchill,",
		"## Search Strategy",
		"## Likely Letter Content",
		"Iron Curtain",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestRenderNoCandidates(t *testing.T) {
	d := testData()
	d.Status = "partial"
	d.Candidates = nil

	out := Render(d)
	if !strings.Contains(out, "No letter content could be extracted") {
		t.Error("expected empty-candidates notice")
	}
	if !strings.Contains(out, "**Status: PARTIAL**") {
		t.Error("expected partial status")
	}
}

func TestRenderHTML(t *testing.T) {
	html, err := RenderHTML("# Heading\n\nSome *text*.")
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	s := string(html)
	if !strings.Contains(s, "<h1") || !strings.Contains(s, "<em>text</em>") {
		t.Errorf("unexpected html output: %s", s)
	}
	if !strings.Contains(s, "<!DOCTYPE html>") {
		t.Error("expected full html document")
	}
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()

	mdPath, htmlPath, err := Write(dir, testData())
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	mdBytes, err := os.ReadFile(mdPath)
	if err != nil {
		t.Fatalf("reading markdown report: %v", err)
	}
	if !strings.Contains(string(mdBytes), "Fairfax Letter Search Report") {
		t.Error("markdown report missing title")
	}

	htmlBytes, err := os.ReadFile(htmlPath)
	if err != nil {
		t.Fatalf("reading html report: %v", err)
	}
	if !strings.Contains(string(htmlBytes), "<h1") {
		t.Error("html report missing rendered heading")
	}
}
