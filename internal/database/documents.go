package database

// InsertDocument persists one downloaded document and returns its ID.
func (db *DB) InsertDocument(runID int64, archive, reference, title, date string) (int64, error) {
	result, err := db.conn.Exec(
		`INSERT INTO documents (run_id, archive, reference, title, date)
		VALUES (?, ?, ?, ?, ?)`,
		runID, archive, reference, title, date,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetDocumentsForRun returns a run's documents in download order.
func (db *DB) GetDocumentsForRun(runID int64) ([]Document, error) {
	rows, err := db.conn.Query(
		`SELECT id, run_id, archive, reference, title, date, downloaded_at
		FROM documents WHERE run_id = ? ORDER BY id`, runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		var title, date *string
		if err := rows.Scan(&d.ID, &d.RunID, &d.Archive, &d.Reference, &title, &date, &d.DownloadedAt); err != nil {
			return nil, err
		}
		if title != nil {
			d.Title = *title
		}
		if date != nil {
			d.Date = *date
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// InsertPage persists the OCR text of one image.
func (db *DB) InsertPage(documentID int64, imagePath, text string) (int64, error) {
	result, err := db.conn.Exec(
		"INSERT INTO pages (document_id, image_path, text) VALUES (?, ?, ?)",
		documentID, imagePath, text,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetPagesForDocument returns a document's pages in page order.
func (db *DB) GetPagesForDocument(documentID int64) ([]Page, error) {
	rows, err := db.conn.Query(
		"SELECT id, document_id, image_path, text FROM pages WHERE document_id = ? ORDER BY id",
		documentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []Page
	for rows.Next() {
		var p Page
		var text *string
		if err := rows.Scan(&p.ID, &p.DocumentID, &p.ImagePath, &text); err != nil {
			return nil, err
		}
		if text != nil {
			p.Text = *text
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}
