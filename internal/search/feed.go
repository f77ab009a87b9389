package search

import (
	"log"
	"strings"

	"github.com/mmcdole/gofeed"
)

const maxPerFeed = 20

// FeedConfig points at one archive's accessions or news feed.
type FeedConfig struct {
	URL     string
	Archive string
}

// FeedSource mines archive RSS/Atom feeds for catalog leads. Feed items carry
// no images; matches become metadata-only records for the research report.
type FeedSource struct {
	feeds    []FeedConfig
	keywords []string
}

// NewFeedSource creates a feed source filtering items against keywords.
func NewFeedSource(feeds []FeedConfig, keywords []string) *FeedSource {
	return &FeedSource{feeds: feeds, keywords: keywords}
}

// Collect parses every configured feed and returns matching records. Feed
// failures are logged and skipped; they never fail the run.
func (fs *FeedSource) Collect() []Record {
	var all []Record

	parser := gofeed.NewParser()
	for _, fc := range fs.feeds {
		feed, err := parser.ParseURL(fc.URL)
		if err != nil {
			log.Printf("Failed to parse feed %s: %v", fc.URL, err)
			continue
		}

		count := 0
		for _, item := range feed.Items {
			if count >= maxPerFeed {
				break
			}
			rec := fs.recordFromItem(fc.Archive, item)
			if rec == nil {
				continue
			}
			all = append(all, *rec)
			count++
		}
		log.Printf("Collected %d leads from %s feed", count, fc.Archive)
	}

	return all
}

func (fs *FeedSource) recordFromItem(archiveName string, item *gofeed.Item) *Record {
	title := strings.TrimSpace(item.Title)
	if title == "" {
		return nil
	}
	if !fs.matches(title + " " + item.Description) {
		return nil
	}

	itemID := item.GUID
	if itemID == "" {
		itemID = item.Link
	}

	var date string
	if item.PublishedParsed != nil {
		date = item.PublishedParsed.Format("2006-01-02")
	}

	return &Record{
		Archive:   archiveName,
		Reference: "Unknown",
		Title:     title,
		Date:      date,
		ItemID:    itemID,
	}
}

func (fs *FeedSource) matches(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range fs.keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// KeywordsFromQueries derives lowercase filter keywords from the configured
// query phrasings. Short connective words are dropped.
func KeywordsFromQueries(queries []string) []string {
	seen := make(map[string]struct{})
	var keywords []string
	for _, q := range queries {
		for _, word := range strings.Fields(strings.ToLower(q)) {
			if len(word) <= 3 {
				continue
			}
			if _, ok := seen[word]; ok {
				continue
			}
			seen[word] = struct{}{}
			keywords = append(keywords, word)
		}
	}
	return keywords
}
