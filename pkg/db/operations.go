package db

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/dtnitsch/merit-scan/models"
)

// InsertDocument registers a document URL, returning the document_id.
// If the URL already exists, returns the existing document_id and refreshes its title.
func (db *DB) InsertDocument(rawURL, title string) (int64, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return 0, fmt.Errorf("failed to parse URL: %w", err)
	}

	var existingID int64
	err = db.QueryRow("SELECT document_id FROM documents WHERE url = ?", rawURL).Scan(&existingID)
	if err == nil {
		if title != "" {
			if _, err := db.Exec("UPDATE documents SET title = ? WHERE document_id = ?", title, existingID); err != nil {
				return 0, fmt.Errorf("failed to update document title: %w", err)
			}
		}
		return existingID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to check existing document: %w", err)
	}

	result, err := db.Exec(`
		INSERT INTO documents (url, domain, path, title)
		VALUES (?, ?, ?, ?)
	`, rawURL, parsed.Host, parsed.Path, title)
	if err != nil {
		return 0, fmt.Errorf("failed to insert document: %w", err)
	}

	documentID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get document ID: %w", err)
	}
	return documentID, nil
}

// RecordAccess records a document fetch attempt. It satisfies search.Recorder.
func (db *DB) RecordAccess(access models.DocumentAccess) error {
	documentID, err := db.InsertDocument(access.URL, access.Title)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT INTO document_accesses (document_id, size_bytes, page_count, duration_ms, error_type, success)
		VALUES (?, ?, ?, ?, ?, ?)
	`, documentID, access.Bytes, access.Pages, access.Duration.Milliseconds(), NewNullString(access.ErrorType), access.Success)
	if err != nil {
		return fmt.Errorf("failed to record access: %w", err)
	}
	return nil
}

// RecentAccesses returns the newest fetch attempts first.
func (db *DB) RecentAccesses(limit int) ([]models.DocumentAccess, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.Query(`
		SELECT a.access_id, d.url, COALESCE(d.title, ''), a.size_bytes, a.page_count,
		       a.duration_ms, a.success, COALESCE(a.error_type, ''), a.accessed_at
		FROM document_accesses a
		JOIN documents d ON d.document_id = a.document_id
		ORDER BY a.access_id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query accesses: %w", err)
	}
	defer rows.Close()

	var accesses []models.DocumentAccess
	for rows.Next() {
		var a models.DocumentAccess
		var durationMs int64
		if err := rows.Scan(&a.ID, &a.URL, &a.Title, &a.Bytes, &a.Pages, &durationMs, &a.Success, &a.ErrorType, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan access: %w", err)
		}
		a.Duration = time.Duration(durationMs) * time.Millisecond
		accesses = append(accesses, a)
	}
	return accesses, rows.Err()
}

// FailureCounts returns the number of failed accesses per error type.
func (db *DB) FailureCounts() (map[string]int, error) {
	rows, err := db.Query(`
		SELECT COALESCE(error_type, 'unknown'), COUNT(*)
		FROM document_accesses
		WHERE success = 0
		GROUP BY error_type
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query failure counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var errorType string
		var n int
		if err := rows.Scan(&errorType, &n); err != nil {
			return nil, fmt.Errorf("failed to scan failure count: %w", err)
		}
		counts[errorType] = n
	}
	return counts, rows.Err()
}

// NewNullString returns a NullString that is NULL for an empty string.
func NewNullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
