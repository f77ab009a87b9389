// Package pipeline orchestrates the full letter search: catalog search,
// document download, OCR, relevance scoring, letter extraction, and the
// final report.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/HarleyCoops/Churchill/internal/analyze"
	"github.com/HarleyCoops/Churchill/internal/archive"
	"github.com/HarleyCoops/Churchill/internal/config"
	"github.com/HarleyCoops/Churchill/internal/database"
	"github.com/HarleyCoops/Churchill/internal/download"
	"github.com/HarleyCoops/Churchill/internal/letter"
	"github.com/HarleyCoops/Churchill/internal/ocr"
	"github.com/HarleyCoops/Churchill/internal/report"
	"github.com/HarleyCoops/Churchill/internal/search"
)

// Run statuses. failure means the search turned up nothing at all; partial
// means later stages ran dry; success means at least one candidate letter.
const (
	StatusFailure = "failure"
	StatusPartial = "partial"
	StatusSuccess = "success"
)

// StepResult holds the result of a single pipeline step.
type StepResult struct {
	Name    string
	Summary string
	Err     error
}

// Result holds the results of a full pipeline run.
type Result struct {
	RunID      int64
	Status     string
	Steps      []StepResult
	Candidates []*letter.Letter
	ReportPath string
}

// now is replaceable in tests for deterministic report timestamps.
var now = time.Now

// document pairs a downloaded document with its persisted ID and OCR text.
type document struct {
	id   int64
	doc  download.Document
	text string
}

// Pipeline orchestrates the 6-step letter search pipeline.
type Pipeline struct {
	cfg *config.Config
	db  *database.DB

	sources     []search.Source
	feeds       []search.FeedConfig
	keywords    []string
	downloaders map[string]download.ImageDownloader
	extractor   ocr.Extractor
}

// New creates a pipeline with one live client per configured archive.
func New(cfg *config.Config, db *database.DB) *Pipeline {
	interval := cfg.RateLimit()

	p := &Pipeline{
		cfg:         cfg,
		db:          db,
		downloaders: make(map[string]download.ImageDownloader, len(cfg.Archives)),
		extractor:   ocr.Select(cfg.OCR.Enabled, cfg.OCR.Languages),
	}

	for _, ac := range cfg.Archives {
		client := archive.NewClient(ac, interval)
		p.sources = append(p.sources, search.Source{
			Client:     client,
			Queries:    ac.Queries,
			Collection: ac.Collection,
			Limit:      ac.Limit,
		})
		p.downloaders[ac.Name] = client
		if ac.FeedURL != "" {
			p.feeds = append(p.feeds, search.FeedConfig{URL: ac.FeedURL, Archive: ac.Name})
		}
		p.keywords = append(p.keywords, search.KeywordsFromQueries(ac.Queries)...)
	}

	return p
}

// Run executes the full 6-step pipeline.
func (p *Pipeline) Run(ctx context.Context, query string, maxDocs int) *Result {
	if maxDocs <= 0 {
		maxDocs = p.cfg.Download.MaxDocs
	}

	r := &Result{Status: StatusPartial}

	var queryPtr *string
	if query != "" {
		queryPtr = &query
	}
	runID, err := p.db.CreateRun(queryPtr)
	if err != nil {
		r.Status = StatusFailure
		r.Steps = append(r.Steps, StepResult{Name: "Search", Err: fmt.Errorf("starting run: %w", err)})
		return r
	}
	r.RunID = runID
	defer func() {
		if err := p.db.FinishRun(runID, r.Status); err != nil {
			log.Printf("Failed to finish run %d: %v", runID, err)
		}
	}()

	// Step 1: Search
	step, agg, searchRes := p.runSearch(ctx, runID, query)
	r.Steps = append(r.Steps, step)
	records := agg.Records()
	if len(records) == 0 {
		log.Println("No results found in any archives")
		r.Status = StatusFailure
		r.Steps = append(r.Steps, p.runReport(r, query, searchRes, agg.Locations(), 0))
		return r
	}

	// Step 2: Download
	step, downloaded := p.runDownload(records, maxDocs)
	r.Steps = append(r.Steps, step)
	if len(downloaded) == 0 {
		log.Println("Failed to download any documents")
		r.Steps = append(r.Steps, p.runReport(r, query, searchRes, agg.Locations(), 0))
		return r
	}

	// Step 3: OCR
	step, docs := p.runOCR(ctx, runID, downloaded)
	r.Steps = append(r.Steps, step)

	// Step 4: Analyze
	step, analyses := p.runAnalyze(docs)
	r.Steps = append(r.Steps, step)

	// Step 5: Extract
	step, candidates := p.runExtract(docs, analyses)
	r.Steps = append(r.Steps, step)
	r.Candidates = candidates
	if len(candidates) > 0 {
		r.Status = StatusSuccess
	}

	// Step 6: Report
	r.Steps = append(r.Steps, p.runReport(r, query, searchRes, agg.Locations(), len(docs)))

	return r
}

func (p *Pipeline) runSearch(ctx context.Context, runID int64, query string) (StepResult, *search.Aggregator, *search.Result) {
	log.Println("Searching archive catalogs...")

	start, end := p.cfg.Window()
	agg := search.NewAggregator(p.sources, start, end)
	res := agg.SearchAll(ctx, query)

	if len(p.feeds) > 0 {
		leads := search.NewFeedSource(p.feeds, p.keywords).Collect()
		agg.AddRecords(leads)
		res.TotalRecords += len(leads)
	}

	for _, rec := range agg.Records() {
		if _, err := p.db.InsertRecord(runID, rec.Archive, rec.Reference, rec.Title, rec.Date, rec.ItemID, rec.ImageURLs); err != nil {
			log.Printf("Failed to store record %s: %v", rec.Reference, err)
		}
	}

	return StepResult{
		Name:    "Search",
		Summary: fmt.Sprintf("Found %d records across %d archives (%d errors)", res.TotalRecords, len(p.sources), res.Errors),
	}, agg, res
}

func (p *Pipeline) runDownload(records []search.Record, maxDocs int) (StepResult, []download.Document) {
	log.Println("Downloading documents...")

	mgr := download.NewManager(p.downloaders, p.downloadDir())
	docs := mgr.Fetch(records, maxDocs)

	var pages int
	for _, d := range docs {
		pages += len(d.Images)
	}
	return StepResult{
		Name:    "Download",
		Summary: fmt.Sprintf("Downloaded %d documents (%d pages)", len(docs), pages),
	}, docs
}

func (p *Pipeline) runOCR(ctx context.Context, runID int64, downloaded []download.Document) (StepResult, []document) {
	log.Println("Processing documents with OCR...")

	var docs []document
	var pages, failed int
	for _, d := range downloaded {
		docID, err := p.db.InsertDocument(runID, d.Archive, d.Reference, d.Title, d.Date)
		if err != nil {
			log.Printf("Failed to store document %s: %v", d.Reference, err)
			continue
		}

		var parts []string
		for _, img := range d.Images {
			text, err := p.extractor.ExtractText(ctx, img)
			if err != nil {
				// A failed page still contributes an empty page entry;
				// only the text file is skipped.
				log.Printf("OCR failed for %s: %v", img, err)
				failed++
				text = ""
			} else {
				pages++
				if err := p.writeOCRText(img, text); err != nil {
					log.Printf("Failed to save OCR text for %s: %v", img, err)
				}
			}

			if _, err := p.db.InsertPage(docID, img, text); err != nil {
				log.Printf("Failed to store page %s: %v", img, err)
			}
			parts = append(parts, text)
		}

		docs = append(docs, document{id: docID, doc: d, text: strings.Join(parts, "\n\n")})
	}

	return StepResult{
		Name:    "OCR",
		Summary: fmt.Sprintf("Extracted text from %d pages across %d documents, %d failed", pages, len(docs), failed),
	}, docs
}

func (p *Pipeline) runAnalyze(docs []document) (StepResult, []analyze.Analysis) {
	log.Println("Analyzing extracted text...")

	analyses := make([]analyze.Analysis, len(docs))
	var likely int
	for i, d := range docs {
		a := analyze.Score(d.text)
		analyses[i] = a
		if a.LikelyCorrespondence {
			likely++
		}

		var dateFound *string
		if a.DateFound != "" {
			dateFound = &a.DateFound
		}
		if err := p.db.InsertAnalysis(database.Analysis{
			DocumentID:           d.id,
			MentionsChurchill:    a.MentionsChurchill,
			MentionsFairfax:      a.MentionsFairfax,
			DateFound:            dateFound,
			LikelyCorrespondence: a.LikelyCorrespondence,
			RelevanceScore:       a.RelevanceScore,
		}); err != nil {
			log.Printf("Failed to store analysis for document %d: %v", d.id, err)
		}
	}

	return StepResult{
		Name:    "Analyze",
		Summary: fmt.Sprintf("Scored %d documents, %d likely correspondence", len(docs), likely),
	}, analyses
}

func (p *Pipeline) runExtract(docs []document, analyses []analyze.Analysis) (StepResult, []*letter.Letter) {
	log.Println("Extracting potential letter content...")

	var letters []*letter.Letter
	for i, d := range docs {
		if !analyses[i].LikelyCorrespondence {
			continue
		}

		l := letter.Build(d.doc.Archive, d.doc.Reference, d.doc.Title, d.doc.Date, d.text, analyses[i].RelevanceScore)
		if l == nil {
			continue
		}
		letters = append(letters, l)

		if _, err := p.db.InsertCandidate(d.id, l.Fields, l.RelevanceScore, l.FullText); err != nil {
			log.Printf("Failed to store candidate for %s: %v", d.doc.Reference, err)
		}
	}
	letter.Rank(letters)

	return StepResult{
		Name:    "Extract",
		Summary: fmt.Sprintf("Found %d potential letters", len(letters)),
	}, letters
}

func (p *Pipeline) runReport(r *Result, query string, searchRes *search.Result, locations []string, docsProcessed int) StepResult {
	log.Println("Writing report...")

	d := report.Data{
		Query:       query,
		Status:      r.Status,
		GeneratedAt: now(),
		Locations:   locations,
		Documents:   docsProcessed,
		Candidates:  r.Candidates,
	}
	if searchRes != nil {
		d.PerArchive = searchRes.PerArchive
	}

	mdPath, _, err := report.Write(p.cfg.GetDataDir(), d)
	if err != nil {
		return StepResult{Name: "Report", Err: err}
	}
	r.ReportPath = mdPath

	return StepResult{
		Name:    "Report",
		Summary: fmt.Sprintf("Report written to %s", mdPath),
	}
}

// OCROnly skips search and download, reconstructing documents from an
// existing directory tree instead. Each directory holding images becomes one
// document; OCR, analysis, extraction, and the report then run as usual.
func (p *Pipeline) OCROnly(ctx context.Context, dir string) (*Result, error) {
	found, err := documentsFromTree(dir)
	if err != nil {
		return nil, fmt.Errorf("reading document dir: %w", err)
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("no image files found in %s", dir)
	}
	log.Printf("Running OCR on %d documents in %s", len(found), dir)

	r := &Result{Status: StatusPartial}

	runID, err := p.db.CreateRun(nil)
	if err != nil {
		return nil, fmt.Errorf("starting run: %w", err)
	}
	r.RunID = runID
	defer func() {
		if err := p.db.FinishRun(runID, r.Status); err != nil {
			log.Printf("Failed to finish run %d: %v", runID, err)
		}
	}()

	step, docs := p.runOCR(ctx, runID, found)
	r.Steps = append(r.Steps, step)

	step, analyses := p.runAnalyze(docs)
	r.Steps = append(r.Steps, step)

	step, candidates := p.runExtract(docs, analyses)
	r.Steps = append(r.Steps, step)
	r.Candidates = candidates
	if len(candidates) > 0 {
		r.Status = StatusSuccess
	}

	r.Steps = append(r.Steps, p.runReport(r, "", nil, nil, len(docs)))

	return r, nil
}

// documentsFromTree walks a download tree and rebuilds one document per
// directory that directly holds image files. The archive is unknown at this
// point; the directory name stands in for the reference.
func documentsFromTree(root string) ([]download.Document, error) {
	var docs []download.Document
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}

		images, err := imagesIn(path)
		if err != nil {
			return err
		}
		if len(images) == 0 {
			return nil
		}

		name := filepath.Base(path)
		docs = append(docs, download.Document{
			Archive:   "unknown",
			Reference: name,
			Title:     name,
			Images:    images,
		})
		return nil
	})
	return docs, err
}

// writeOCRText saves extracted text next to the run's other outputs, named
// after the image it came from.
func (p *Pipeline) writeOCRText(imagePath, text string) error {
	dir := p.ocrDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	base := strings.TrimSuffix(filepath.Base(imagePath), filepath.Ext(imagePath))
	return os.WriteFile(filepath.Join(dir, base+".txt"), []byte(text), 0o644)
}

func (p *Pipeline) downloadDir() string {
	return resolveDir(p.cfg.GetDataDir(), p.cfg.Download.Dir)
}

func (p *Pipeline) ocrDir() string {
	return resolveDir(p.cfg.GetDataDir(), p.cfg.OCR.OutputDir)
}

func resolveDir(base, dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(base, dir)
}

func imagesIn(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var images []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".png", ".jpg", ".jpeg", ".tif", ".tiff", ".bmp":
			images = append(images, filepath.Join(dir, e.Name()))
		}
	}
	return images, nil
}
