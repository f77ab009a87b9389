// Package search turns free-text queries plus a fixed date window into a
// merged set of normalized catalog records across all configured archives.
package search

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/HarleyCoops/Churchill/internal/archive"
)

// Record is a normalized search hit. Archives are disjoint namespaces, so
// records are deduplicated by construction; no identity merge happens here.
// Records are never mutated after creation.
type Record struct {
	Archive   string
	Reference string
	Title     string
	Date      string
	ItemID    string
	ImageURLs []string
}

// Searcher is the slice of the archive client the aggregator needs.
type Searcher interface {
	Name() string
	Search(ctx context.Context, query string, opts archive.SearchOptions) archive.SearchResponse
}

// Source binds an archive client to its hand-curated query phrasings and
// optional collection constraint.
type Source struct {
	Client     Searcher
	Queries    []string
	Collection string
	Limit      int
}

// Result summarizes one aggregation pass.
type Result struct {
	TotalRecords int
	PerArchive   map[string]int
	Errors       int
}

// Aggregator accumulates records across archives for the lifetime of a run.
// The result set is append-only; a mutex guards it so archive passes may run
// concurrently.
type Aggregator struct {
	sources     []Source
	windowStart time.Time
	windowEnd   time.Time

	mu        sync.Mutex
	records   []Record
	locations []string
}

// NewAggregator creates an aggregator over the given sources and date window.
func NewAggregator(sources []Source, windowStart, windowEnd time.Time) *Aggregator {
	return &Aggregator{
		sources:     sources,
		windowStart: windowStart,
		windowEnd:   windowEnd,
	}
}

// SearchAll issues every query variant against every archive. One archive's
// total failure never prevents the others from contributing; errors are
// logged and counted, not propagated.
func (a *Aggregator) SearchAll(ctx context.Context, extraQuery string) *Result {
	r := &Result{PerArchive: make(map[string]int)}

	for _, src := range a.sources {
		name := src.Client.Name()
		queries := src.Queries
		if extraQuery != "" {
			queries = append(append([]string{}, queries...), extraQuery)
		}
		if len(queries) == 0 {
			queries = []string{"Fairfax correspondence"}
		}

		opts := archive.SearchOptions{
			Limit:      src.Limit,
			DateFrom:   a.windowStart,
			DateTo:     a.windowEnd,
			Collection: src.Collection,
		}

		for _, query := range queries {
			resp := src.Client.Search(ctx, query, opts)
			if resp.Err != nil {
				r.Errors++
				continue
			}

			var recs []Record
			for _, item := range resp.Results {
				recs = append(recs, normalize(name, item))
			}
			a.AddRecords(recs)

			r.TotalRecords += len(recs)
			r.PerArchive[name] += len(recs)
		}

		log.Printf("Found %d potential documents in %s", r.PerArchive[name], name)
	}

	return r
}

// AddRecords appends records to the run's accumulator.
func (a *Aggregator) AddRecords(recs []Record) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, rec := range recs {
		a.records = append(a.records, rec)
		a.locations = append(a.locations, fmt.Sprintf("%s: %s - %s, %s", rec.Archive, rec.Reference, rec.Title, rec.Date))
	}
}

// Records returns a copy of the accumulated record set.
func (a *Aggregator) Records() []Record {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Record(nil), a.records...)
}

// Locations returns human-readable descriptions of every accumulated record.
func (a *Aggregator) Locations() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.locations...)
}

// normalize fills the documented defaults for missing fields: reference
// "Unknown", title "Untitled", empty date, empty image list.
func normalize(archiveName string, item archive.Item) Record {
	rec := Record{
		Archive:   archiveName,
		Reference: item.Reference,
		Title:     item.Title,
		Date:      item.Date,
		ItemID:    item.ID,
		ImageURLs: item.Images,
	}
	if rec.Reference == "" {
		rec.Reference = "Unknown"
	}
	if rec.Title == "" {
		rec.Title = "Untitled"
	}
	return rec
}
