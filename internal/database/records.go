package database

import "encoding/json"

// InsertRecord persists one normalized search hit.
func (db *DB) InsertRecord(runID int64, archive, reference, title, date, itemID string, imageURLs []string) (int64, error) {
	var urls *string
	if len(imageURLs) > 0 {
		data, err := json.Marshal(imageURLs)
		if err != nil {
			return 0, err
		}
		s := string(data)
		urls = &s
	}

	result, err := db.conn.Exec(
		`INSERT INTO records (run_id, archive, reference, title, date, item_id, image_urls)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, archive, reference, title, date, itemID, urls,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetRecordsForRun returns a run's records in accumulation order.
func (db *DB) GetRecordsForRun(runID int64) ([]Record, error) {
	rows, err := db.conn.Query(
		`SELECT id, run_id, archive, reference, title, date, item_id, image_urls, found_at
		FROM records WHERE run_id = ? ORDER BY id`, runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var date, itemID, urls *string
		if err := rows.Scan(&r.ID, &r.RunID, &r.Archive, &r.Reference, &r.Title, &date, &itemID, &urls, &r.FoundAt); err != nil {
			return nil, err
		}
		if date != nil {
			r.Date = *date
		}
		if itemID != nil {
			r.ItemID = *itemID
		}
		if urls != nil && *urls != "" {
			if err := json.Unmarshal([]byte(*urls), &r.ImageURLs); err != nil {
				return nil, err
			}
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
