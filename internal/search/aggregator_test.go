package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/HarleyCoops/Churchill/internal/archive"
)

// stubSearcher implements Searcher with canned responses per query.
type stubSearcher struct {
	name      string
	responses map[string]archive.SearchResponse
	gotOpts   []archive.SearchOptions
	gotQuery  []string
}

func (s *stubSearcher) Name() string { return s.name }

func (s *stubSearcher) Search(_ context.Context, query string, opts archive.SearchOptions) archive.SearchResponse {
	s.gotQuery = append(s.gotQuery, query)
	s.gotOpts = append(s.gotOpts, opts)
	if resp, ok := s.responses[query]; ok {
		return resp
	}
	return archive.SearchResponse{}
}

func window() (time.Time, time.Time) {
	return time.Date(1946, 10, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1946, 12, 5, 0, 0, 0, 0, time.UTC)
}

func TestSearchAllNormalizesMissingFields(t *testing.T) {
	stub := &stubSearcher{
		name: "Library and Archives Canada",
		responses: map[string]archive.SearchResponse{
			"Fairfax Winston Churchill": {Results: []archive.Item{
				{ID: "doc-1"}, // everything else missing
			}},
		},
	}

	start, end := window()
	agg := NewAggregator([]Source{{
		Client:  stub,
		Queries: []string{"Fairfax Winston Churchill"},
		Limit:   30,
	}}, start, end)

	agg.SearchAll(context.Background(), "")

	records := agg.Records()
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	rec := records[0]
	if rec.Reference != "Unknown" {
		t.Errorf("expected missing reference to default to Unknown, got %q", rec.Reference)
	}
	if rec.Title != "Untitled" {
		t.Errorf("expected missing title to default to Untitled, got %q", rec.Title)
	}
	if rec.Date != "" {
		t.Errorf("expected empty date, got %q", rec.Date)
	}
	if len(rec.ImageURLs) != 0 {
		t.Errorf("expected empty image list, got %v", rec.ImageURLs)
	}
}

func TestSearchAllPassesWindowAndCollection(t *testing.T) {
	stub := &stubSearcher{name: "Churchill Archives Centre", responses: map[string]archive.SearchResponse{}}

	start, end := window()
	agg := NewAggregator([]Source{{
		Client:     stub,
		Queries:    []string{"Fairfax correspondence"},
		Collection: "CHAR",
		Limit:      50,
	}}, start, end)

	agg.SearchAll(context.Background(), "")

	if len(stub.gotOpts) != 1 {
		t.Fatalf("expected 1 search call, got %d", len(stub.gotOpts))
	}
	opts := stub.gotOpts[0]
	if opts.Collection != "CHAR" {
		t.Errorf("expected collection constraint passed through, got %q", opts.Collection)
	}
	if !opts.DateFrom.Equal(start) || !opts.DateTo.Equal(end) {
		t.Errorf("unexpected window: %s .. %s", opts.DateFrom, opts.DateTo)
	}
	if opts.Limit != 50 {
		t.Errorf("expected limit 50, got %d", opts.Limit)
	}
}

func TestSearchAllIsolatesArchiveFailures(t *testing.T) {
	broken := &stubSearcher{
		name: "Churchill Archives Centre",
		responses: map[string]archive.SearchResponse{
			"Fairfax correspondence": {Err: errors.New("connection refused")},
		},
	}
	healthy := &stubSearcher{
		name: "University of Toronto Archives",
		responses: map[string]archive.SearchResponse{
			"Fairfax Churchill": {Results: []archive.Item{
				{Reference: "B1994-0002/1", Title: "Gooderham family fonds", Date: "1946"},
			}},
		},
	}

	start, end := window()
	agg := NewAggregator([]Source{
		{Client: broken, Queries: []string{"Fairfax correspondence"}},
		{Client: healthy, Queries: []string{"Fairfax Churchill"}},
	}, start, end)

	result := agg.SearchAll(context.Background(), "")

	if result.Errors != 1 {
		t.Errorf("expected 1 error counted, got %d", result.Errors)
	}
	if result.TotalRecords != 1 {
		t.Errorf("expected the healthy archive to contribute, got %d records", result.TotalRecords)
	}
	if result.PerArchive["University of Toronto Archives"] != 1 {
		t.Errorf("unexpected per-archive counts: %v", result.PerArchive)
	}
}

func TestSearchAllAppendsExtraQuery(t *testing.T) {
	stub := &stubSearcher{name: "Library and Archives Canada", responses: map[string]archive.SearchResponse{}}

	start, end := window()
	agg := NewAggregator([]Source{{
		Client:  stub,
		Queries: []string{"Colonel Fairfax correspondence"},
	}}, start, end)

	agg.SearchAll(context.Background(), "Fairfax 1946 letter")

	if len(stub.gotQuery) != 2 {
		t.Fatalf("expected 2 queries, got %v", stub.gotQuery)
	}
	if stub.gotQuery[1] != "Fairfax 1946 letter" {
		t.Errorf("expected extra query last, got %v", stub.gotQuery)
	}
}

func TestLocationsFormat(t *testing.T) {
	agg := NewAggregator(nil, time.Time{}, time.Time{})
	agg.AddRecords([]Record{{
		Archive:   "Churchill Archives Centre",
		Reference: "CHAR 2/1",
		Title:     "Correspondence",
		Date:      "3 Nov 1946",
	}})

	locs := agg.Locations()
	if len(locs) != 1 {
		t.Fatalf("expected 1 location, got %d", len(locs))
	}
	want := "Churchill Archives Centre: CHAR 2/1 - Correspondence, 3 Nov 1946"
	if locs[0] != want {
		t.Errorf("expected %q, got %q", want, locs[0])
	}
}
