// Package archive provides rate-limited access to one archive catalog's
// search, item, and image endpoints. Transport failures never propagate as
// errors past this boundary; callers check the error-tagged results instead.
package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"

	"github.com/HarleyCoops/Churchill/internal/config"
)

const (
	maxDownloadRetries = 3
	retryBaseDelay     = 2 * time.Second
	requestTimeout     = 30 * time.Second
)

// Item is one catalog hit as returned by an archive's search API.
type Item struct {
	Reference string   `json:"reference"`
	Title     string   `json:"title"`
	Date      string   `json:"date"`
	ID        string   `json:"id"`
	Images    []string `json:"images"`
}

// SearchOptions carry the optional parameters of a catalog search.
type SearchOptions struct {
	Page       int
	Limit      int
	DateFrom   time.Time
	DateTo     time.Time
	Collection string
}

// SearchResponse is an error-tagged search result. A transport or API failure
// sets Err and leaves Results empty; the run continues without this archive's
// contribution.
type SearchResponse struct {
	Results []Item
	Err     error
}

// Document is an error-tagged item-retrieval result.
type Document struct {
	Item
	Description string
	Err         error
}

// Client accesses a single archive. Rate limiting is local to the instance so
// each archive gets its own pacing budget.
type Client struct {
	name           string
	baseURL        string
	searchEndpoint string
	itemEndpoint   string
	apiKey         string
	httpClient     *http.Client
	pace           *pacer
	retryDelay     time.Duration
}

// NewClient builds a client for one archive descriptor. The credential is
// read from the descriptor's environment variable; if absent, requests
// proceed unauthenticated.
func NewClient(cfg config.Archive, interval time.Duration) *Client {
	return &Client{
		name:           cfg.Name,
		baseURL:        cfg.BaseURL,
		searchEndpoint: cfg.SearchEndpoint,
		itemEndpoint:   cfg.ItemEndpoint,
		apiKey:         os.Getenv(cfg.APIKeyEnv),
		httpClient:     &http.Client{Timeout: requestTimeout},
		pace:           newPacer(interval),
		retryDelay:     retryBaseDelay,
	}
}

// Name returns the archive name this client serves.
func (c *Client) Name() string {
	return c.name
}

// Search queries the archive's search endpoint. Failures are returned as an
// error-tagged response, never raised.
func (c *Client) Search(ctx context.Context, query string, opts SearchOptions) SearchResponse {
	c.pace.Wait()

	endpoint, err := url.JoinPath(c.baseURL, c.searchEndpoint)
	if err != nil {
		return c.searchError(query, err)
	}

	params := url.Values{"q": {query}}
	page := opts.Page
	if page <= 0 {
		page = 1
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(limit))
	if !opts.DateFrom.IsZero() && !opts.DateTo.IsZero() {
		params.Set("date_from", opts.DateFrom.Format("2006-01-02"))
		params.Set("date_to", opts.DateTo.Format("2006-01-02"))
	}
	if opts.Collection != "" {
		params.Set("collection", opts.Collection)
	}

	log.Printf("Searching %s with query: %s", c.name, query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return c.searchError(query, err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.searchError(query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.searchError(query, fmt.Errorf("HTTP %d", resp.StatusCode))
	}

	var payload struct {
		Error   string `json:"error"`
		Results []Item `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return c.searchError(query, err)
	}
	if payload.Error != "" {
		return c.searchError(query, errors.New(payload.Error))
	}

	return SearchResponse{Results: payload.Results}
}

// GetDocument retrieves item metadata by identifier. Catalogs that answer
// with an HTML record page instead of JSON are salvaged through readability
// extraction so the run still gets usable text.
func (c *Client) GetDocument(ctx context.Context, docID string) Document {
	c.pace.Wait()

	endpoint, err := url.JoinPath(c.baseURL, c.itemEndpoint, docID)
	if err != nil {
		return c.documentError(docID, err)
	}

	log.Printf("Retrieving document %s from %s", docID, c.name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return c.documentError(docID, err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.documentError(docID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.documentError(docID, fmt.Errorf("HTTP %d", resp.StatusCode))
	}

	if strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
		return c.documentFromHTML(docID, endpoint, resp.Body)
	}

	var payload struct {
		Error   string `json:"error"`
		Results []Item `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return c.documentError(docID, err)
	}
	if payload.Error != "" {
		return c.documentError(docID, errors.New(payload.Error))
	}
	if len(payload.Results) == 0 {
		return c.documentError(docID, errors.New("empty result"))
	}
	return Document{Item: payload.Results[0]}
}

// documentFromHTML extracts readable text from an HTML catalog page (AtoM
// and similar systems serve records this way).
func (c *Client) documentFromHTML(docID, pageURL string, body io.Reader) Document {
	parsed, _ := url.Parse(pageURL)
	article, err := readability.FromReader(body, parsed)
	if err != nil {
		return c.documentError(docID, err)
	}

	doc := Document{
		Item:        Item{ID: docID, Title: strings.TrimSpace(article.Title)},
		Description: strings.TrimSpace(article.TextContent),
	}
	if doc.Title == "" {
		doc.Title = "Untitled"
	}
	return doc
}

// DownloadImage streams an image to a local path, creating parent directories
// as needed. Transport failures are retried with linearly increasing backoff;
// after the final attempt the failure is logged and false returned so the
// caller proceeds without this image.
func (c *Client) DownloadImage(imageURL, dest string) bool {
	c.pace.Wait()

	log.Printf("Downloading image from %s: %s", c.name, imageURL)

	for attempt := 1; attempt <= maxDownloadRetries; attempt++ {
		err := c.fetchImage(imageURL, dest)
		if err == nil {
			log.Printf("Successfully downloaded to %s", dest)
			return true
		}
		log.Printf("Download attempt %d failed: %v. Retrying in %s", attempt, err, time.Duration(attempt)*c.retryDelay)
		c.pace.sleep(time.Duration(attempt) * c.retryDelay)
	}

	log.Printf("Failed to download %s after %d attempts", imageURL, maxDownloadRetries)
	return false
}

func (c *Client) fetchImage(imageURL, dest string) error {
	req, err := http.NewRequest(http.MethodGet, imageURL, nil)
	if err != nil {
		return err
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("creating document directory: %w", err)
	}

	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(dest)
		return err
	}
	return f.Close()
}

func (c *Client) authorize(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

func (c *Client) searchError(query string, err error) SearchResponse {
	log.Printf("Error searching %s for %q: %v", c.name, query, err)
	return SearchResponse{Err: err}
}

func (c *Client) documentError(docID string, err error) Document {
	log.Printf("Error retrieving document %s from %s: %v", docID, c.name, err)
	return Document{Err: err}
}
