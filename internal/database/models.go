package database

// Run is one pipeline execution.
type Run struct {
	ID         int64
	Status     string // "running", "success", "partial", "failure"
	Query      *string
	StartedAt  *string
	FinishedAt *string
}

// Record is a persisted search hit.
type Record struct {
	ID        int64
	RunID     int64
	Archive   string
	Reference string
	Title     string
	Date      string
	ItemID    string
	ImageURLs []string
	FoundAt   *string
}

// Document is a persisted download result.
type Document struct {
	ID           int64
	RunID        int64
	Archive      string
	Reference    string
	Title        string
	Date         string
	DownloadedAt *string
}

// Page holds the OCR text of one downloaded image.
type Page struct {
	ID         int64
	DocumentID int64
	ImagePath  string
	Text       string
}

// Analysis is a persisted scoring result.
type Analysis struct {
	DocumentID           int64
	MentionsChurchill    bool
	MentionsFairfax      bool
	DateFound            *string
	LikelyCorrespondence bool
	RelevanceScore       int
}

// Candidate is a persisted extracted letter.
type Candidate struct {
	ID             int64
	DocumentID     int64
	Fields         map[string]string
	RelevanceScore int
	FullText       string
}

// Stats contains aggregate database statistics.
type Stats struct {
	Runs       int
	Records    int
	Documents  int
	Pages      int
	Candidates int
	BestScore  int
}
