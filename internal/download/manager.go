// Package download converts a bounded number of search records into locally
// stored document image sets.
package download

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/HarleyCoops/Churchill/internal/search"
)

// Document is one record whose images (at least one) downloaded successfully.
// Images are local paths in page order.
type Document struct {
	Archive   string
	Reference string
	Title     string
	Date      string
	Images    []string
}

// ImageDownloader is the slice of the archive client the manager needs.
type ImageDownloader interface {
	DownloadImage(url, dest string) bool
}

// Manager downloads document images for prioritized records.
type Manager struct {
	clients map[string]ImageDownloader
	dir     string
}

// NewManager creates a download manager writing under dir.
func NewManager(clients map[string]ImageDownloader, dir string) *Manager {
	return &Manager{clients: clients, dir: dir}
}

// Fetch downloads images for up to maxDocs records. A record counts against
// the limit only once at least one of its images downloads; records with no
// images, no client, or all-failed downloads are skipped without consuming
// the budget.
func (m *Manager) Fetch(records []search.Record, maxDocs int) []Document {
	log.Printf("Starting document download process for up to %d documents", maxDocs)

	var docs []Document
	for _, rec := range Prioritize(records) {
		if len(docs) >= maxDocs {
			break
		}

		client, ok := m.clients[rec.Archive]
		if !ok {
			log.Printf("No API client found for %s", rec.Archive)
			continue
		}

		if len(rec.ImageURLs) == 0 {
			log.Printf("No images available for %s", rec.Reference)
			continue
		}

		docDir := filepath.Join(m.dir, rec.Archive+"_"+sanitizeReference(rec.Reference))
		if err := os.MkdirAll(docDir, 0o755); err != nil {
			log.Printf("Cannot create %s: %v", docDir, err)
			continue
		}

		var images []string
		for i, imageURL := range rec.ImageURLs {
			dest := filepath.Join(docDir, fmt.Sprintf("page_%d.jpg", i+1))
			if client.DownloadImage(imageURL, dest) {
				images = append(images, dest)
			}
		}

		if len(images) == 0 {
			continue
		}

		docs = append(docs, Document{
			Archive:   rec.Archive,
			Reference: rec.Reference,
			Title:     rec.Title,
			Date:      rec.Date,
			Images:    images,
		})
		log.Printf("Downloaded %d images for %s", len(images), rec.Reference)
	}

	total := 0
	for _, d := range docs {
		total += len(d.Images)
	}
	log.Printf("Download complete: %d documents with %d total images", len(docs), total)
	return docs
}

// Prioritize stably sorts records so that those dated in the target window
// (year 1946, Oct/Nov/December) come first. Order within each partition is
// the accumulation order.
func Prioritize(records []search.Record) []search.Record {
	sorted := append([]search.Record(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return priorityKey(sorted[i].Date) < priorityKey(sorted[j].Date)
	})
	return sorted
}

func priorityKey(date string) int {
	if !strings.Contains(date, "1946") {
		return 1
	}
	for _, month := range []string{"Oct", "Nov", "December"} {
		if strings.Contains(date, month) {
			return 0
		}
	}
	return 1
}

// sanitizeReference makes a catalog reference filesystem safe by replacing
// path separators.
func sanitizeReference(ref string) string {
	ref = strings.ReplaceAll(ref, "/", "_")
	ref = strings.ReplaceAll(ref, "\\", "_")
	return ref
}
