package database

import "database/sql"

// CreateRun starts a new run and returns its ID.
func (db *DB) CreateRun(query *string) (int64, error) {
	result, err := db.conn.Exec(
		"INSERT INTO runs (status, query) VALUES ('running', ?)", query,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// FinishRun records a run's final status.
func (db *DB) FinishRun(runID int64, status string) error {
	_, err := db.conn.Exec(
		"UPDATE runs SET status = ?, finished_at = datetime('now') WHERE id = ?",
		status, runID,
	)
	return err
}

// GetRun returns a run by ID, or nil if it does not exist.
func (db *DB) GetRun(runID int64) (*Run, error) {
	row := db.conn.QueryRow(
		"SELECT id, status, query, started_at, finished_at FROM runs WHERE id = ?", runID,
	)
	var r Run
	err := row.Scan(&r.ID, &r.Status, &r.Query, &r.StartedAt, &r.FinishedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetLastRun returns the most recently started run, or nil on an empty database.
func (db *DB) GetLastRun() (*Run, error) {
	row := db.conn.QueryRow(
		"SELECT id, status, query, started_at, finished_at FROM runs ORDER BY id DESC LIMIT 1",
	)
	var r Run
	err := row.Scan(&r.ID, &r.Status, &r.Query, &r.StartedAt, &r.FinishedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetStats returns aggregate counts for the status command.
func (db *DB) GetStats() (*Stats, error) {
	s := &Stats{}

	queries := []struct {
		sql  string
		dest *int
	}{
		{"SELECT COUNT(*) FROM runs", &s.Runs},
		{"SELECT COUNT(*) FROM records", &s.Records},
		{"SELECT COUNT(*) FROM documents", &s.Documents},
		{"SELECT COUNT(*) FROM pages", &s.Pages},
		{"SELECT COUNT(*) FROM candidates", &s.Candidates},
		{"SELECT COALESCE(MAX(relevance_score), 0) FROM candidates", &s.BestScore},
	}
	for _, q := range queries {
		if err := db.conn.QueryRow(q.sql).Scan(q.dest); err != nil {
			return nil, err
		}
	}

	return s, nil
}
