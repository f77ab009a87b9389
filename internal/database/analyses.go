package database

import (
	"database/sql"
	"encoding/json"
)

// InsertAnalysis persists a document's scoring result. Re-analyzing a
// document replaces the previous row.
func (db *DB) InsertAnalysis(a Analysis) error {
	_, err := db.conn.Exec(
		`INSERT OR REPLACE INTO analyses
		(document_id, mentions_churchill, mentions_fairfax, date_found, likely_correspondence, relevance_score)
		VALUES (?, ?, ?, ?, ?, ?)`,
		a.DocumentID, a.MentionsChurchill, a.MentionsFairfax, a.DateFound, a.LikelyCorrespondence, a.RelevanceScore,
	)
	return err
}

// GetAnalysis returns a document's analysis, or nil if none was stored.
func (db *DB) GetAnalysis(documentID int64) (*Analysis, error) {
	row := db.conn.QueryRow(
		`SELECT document_id, mentions_churchill, mentions_fairfax, date_found, likely_correspondence, relevance_score
		FROM analyses WHERE document_id = ?`, documentID,
	)
	var a Analysis
	err := row.Scan(&a.DocumentID, &a.MentionsChurchill, &a.MentionsFairfax, &a.DateFound, &a.LikelyCorrespondence, &a.RelevanceScore)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// InsertCandidate persists an extracted letter.
func (db *DB) InsertCandidate(documentID int64, fields map[string]string, relevanceScore int, fullText string) (int64, error) {
	data, err := json.Marshal(fields)
	if err != nil {
		return 0, err
	}

	result, err := db.conn.Exec(
		`INSERT INTO candidates (document_id, fields, relevance_score, full_text)
		VALUES (?, ?, ?, ?)`,
		documentID, string(data), relevanceScore, fullText,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetCandidatesForRun returns a run's candidates, best score first.
func (db *DB) GetCandidatesForRun(runID int64) ([]Candidate, error) {
	rows, err := db.conn.Query(
		`SELECT c.id, c.document_id, c.fields, c.relevance_score, c.full_text
		FROM candidates c JOIN documents d ON c.document_id = d.id
		WHERE d.run_id = ? ORDER BY c.relevance_score DESC, c.id`, runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []Candidate
	for rows.Next() {
		var c Candidate
		var fields string
		var fullText *string
		if err := rows.Scan(&c.ID, &c.DocumentID, &fields, &c.RelevanceScore, &fullText); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(fields), &c.Fields); err != nil {
			return nil, err
		}
		if fullText != nil {
			c.FullText = *fullText
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}
