package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/murzak74-ops/text-recognition-ocr-app1/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS documents (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  filename TEXT NOT NULL,
  hash TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'uploaded',
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(hash)
);

CREATE TABLE IF NOT EXISTS records (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  documentId INTEGER NOT NULL,
  lineNo INTEGER NOT NULL,
  source TEXT NOT NULL,
  code TEXT NOT NULL DEFAULT '',
  name TEXT NOT NULL DEFAULT '',
  quantity TEXT NOT NULL DEFAULT '',
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(documentId) REFERENCES documents(id)
);
CREATE INDEX IF NOT EXISTS idx_records_document ON records(documentId, lineNo);

CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  documentId INTEGER,
  timingsJson TEXT NOT NULL,
  countsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(documentId) REFERENCES documents(id)
);
`
	_, err := d.conn.Exec(schema)
	return err
}

// UpsertDocument registers an upload keyed by content hash. Re-uploading the
// same bytes reuses the row (a later ReplaceDocumentRecords refreshes its
// records).
func (d *DB) UpsertDocument(filename, hash string) (internal.DocumentRow, error) {
	_, err := d.conn.Exec(`
INSERT INTO documents (filename, hash, status) VALUES (?, ?, 'uploaded')
ON CONFLICT(hash) DO UPDATE SET filename = excluded.filename, updatedAt = CURRENT_TIMESTAMP`,
		filename, hash)
	if err != nil {
		return internal.DocumentRow{}, err
	}
	return d.documentByHash(hash)
}

func (d *DB) documentByHash(hash string) (internal.DocumentRow, error) {
	row := d.conn.QueryRow(`
SELECT id, filename, hash, status, createdAt, updatedAt FROM documents WHERE hash = ?`, hash)
	var doc internal.DocumentRow
	if err := row.Scan(&doc.ID, &doc.Filename, &doc.Hash, &doc.Status, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		return internal.DocumentRow{}, err
	}
	return doc, nil
}

func (d *DB) UpdateDocumentStatus(id int, status string) error {
	res, err := d.conn.Exec(`
UPDATE documents SET status = ?, updatedAt = CURRENT_TIMESTAMP WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("document %d not found", id)
	}
	return nil
}

func (d *DB) ListDocuments() ([]internal.DocumentRow, error) {
	rows, err := d.conn.Query(`
SELECT id, filename, hash, status, createdAt, updatedAt FROM documents ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []internal.DocumentRow{}
	for rows.Next() {
		var doc internal.DocumentRow
		if err := rows.Scan(&doc.ID, &doc.Filename, &doc.Hash, &doc.Status, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// ReplaceDocumentRecords swaps a document's record set atomically, keeping
// the given order.
func (d *DB) ReplaceDocumentRecords(documentID int, items []internal.ExtractedItem) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM records WHERE documentId = ?`, documentID); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`
INSERT INTO records (documentId, lineNo, source, code, name, quantity) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, item := range items {
		if _, err := stmt.Exec(documentID, item.LineNo, string(item.Source), item.Record.Code, item.Record.Name, item.Record.Quantity); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListRecords returns records ordered by document and line number.
// documentID 0 means all documents.
func (d *DB) ListRecords(documentID int) ([]internal.RecordRow, error) {
	query := `
SELECT id, documentId, lineNo, source, code, name, quantity, createdAt
FROM records`
	args := []any{}
	if documentID != 0 {
		query += ` WHERE documentId = ?`
		args = append(args, documentID)
	}
	query += ` ORDER BY documentId, lineNo`

	rows, err := d.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []internal.RecordRow{}
	for rows.Next() {
		var r internal.RecordRow
		if err := rows.Scan(&r.ID, &r.DocumentID, &r.LineNo, &r.Source, &r.Code, &r.Name, &r.Quantity, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (d *DB) GetRecord(id int) (internal.RecordRow, error) {
	row := d.conn.QueryRow(`
SELECT id, documentId, lineNo, source, code, name, quantity, createdAt
FROM records WHERE id = ?`, id)
	var r internal.RecordRow
	if err := row.Scan(&r.ID, &r.DocumentID, &r.LineNo, &r.Source, &r.Code, &r.Name, &r.Quantity, &r.CreatedAt); err != nil {
		return internal.RecordRow{}, err
	}
	return r, nil
}

// UpdateRecord applies a manual edit to one record.
func (d *DB) UpdateRecord(id int, rec internal.Record) error {
	res, err := d.conn.Exec(`
UPDATE records SET code = ?, name = ?, quantity = ? WHERE id = ?`,
		rec.Code, rec.Name, rec.Quantity, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("record %d not found", id)
	}
	return nil
}

func (d *DB) InsertRun(traceID string, documentID int, timings map[string]float64, counts map[string]int) error {
	timingsJSON, err := json.Marshal(timings)
	if err != nil {
		return err
	}
	countsJSON, err := json.Marshal(counts)
	if err != nil {
		return err
	}
	_, err = d.conn.Exec(`
INSERT INTO runs (traceId, documentId, timingsJson, countsJson) VALUES (?, ?, ?, ?)`,
		traceID, documentID, string(timingsJSON), string(countsJSON))
	return err
}
