package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rerite/openscience-explorer/internal/record"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// selectRecordFields contains the standard field list for SELECT queries.
const selectRecordFields = `doi, doi_url, year, journal, topic, x, y,
	code_available, data_available, code_links_json, data_links_json,
	title, abstract, institution, keywords, funding, acknowledgement, open_access`

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// createSchema creates the database schema if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		-- One row per plotted record, seq keeps table order
		CREATE TABLE IF NOT EXISTS records (
			seq INTEGER PRIMARY KEY,
			doi TEXT NOT NULL,
			doi_url TEXT NOT NULL,
			year TEXT NOT NULL,
			journal TEXT NOT NULL,
			topic TEXT NOT NULL,
			x REAL NOT NULL,
			y REAL NOT NULL,
			code_available INTEGER NOT NULL,
			data_available INTEGER NOT NULL,
			code_links_json TEXT NOT NULL,
			data_links_json TEXT NOT NULL,
			title TEXT NOT NULL,
			abstract TEXT NOT NULL,
			institution TEXT NOT NULL,
			keywords TEXT NOT NULL,
			funding TEXT NOT NULL,
			acknowledgement TEXT NOT NULL,
			open_access TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_records_doi ON records(doi) WHERE doi != '';
		CREATE INDEX IF NOT EXISTS idx_records_topic ON records(topic);
	`

	_, err := db.Exec(schema)
	return err
}

// RebuildFromJSONL clears the database and rebuilds it from a JSONL file.
func (d *DB) RebuildFromJSONL(jsonlPath string) (int, error) {
	records, err := ReadAll(jsonlPath)
	if err != nil {
		return 0, fmt.Errorf("reading JSONL: %w", err)
	}
	return d.RebuildFromRecords(records)
}

// RebuildFromRecords replaces the database contents with records.
func (d *DB) RebuildFromRecords(records []record.Record) (int, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning rebuild: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM records"); err != nil {
		return 0, fmt.Errorf("clearing records table: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO records (
			seq, doi, doi_url, year, journal, topic, x, y,
			code_available, data_available, code_links_json, data_links_json,
			title, abstract, institution, keywords, funding, acknowledgement, open_access
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing records insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		codeJSON, err := marshalLinks(rec.CodeLinks)
		if err != nil {
			return 0, fmt.Errorf("marshaling code links for %s: %w", rec.DOI, err)
		}
		dataJSON, err := marshalLinks(rec.DataLinks)
		if err != nil {
			return 0, fmt.Errorf("marshaling data links for %s: %w", rec.DOI, err)
		}

		_, err = stmt.Exec(
			i, rec.DOI, rec.DOIURL, rec.Year, rec.Journal, rec.Topic, rec.X, rec.Y,
			rec.CodeAvailable, rec.DataAvailable, codeJSON, dataJSON,
			rec.Title, rec.Abstract, rec.Institution, rec.Keywords, rec.Funding,
			rec.Acknowledgement, rec.OpenAccess,
		)
		if err != nil {
			return 0, fmt.Errorf("inserting record %d (%s): %w", i, rec.DOI, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing rebuild: %w", err)
	}
	return len(records), nil
}

func marshalLinks(links []string) (string, error) {
	if links == nil {
		links = []string{}
	}
	data, err := json.Marshal(links)
	return string(data), err
}

// Count returns the total number of records.
func (d *DB) Count() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM records").Scan(&count)
	return count, err
}

// GetByDOI retrieves the first record with the given DOI.
// Returns nil without error when none exists.
func (d *DB) GetByDOI(doi string) (*record.Record, error) {
	row := d.db.QueryRow(`SELECT `+selectRecordFields+` FROM records WHERE doi = ? ORDER BY seq LIMIT 1`, doi)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// SearchAbstracts returns records whose abstract contains every
// whitespace-separated term of query, case-insensitively, in table order.
// An empty query matches every record. limit <= 0 means no limit.
func (d *DB) SearchAbstracts(query string, limit int) ([]record.Record, error) {
	q := `SELECT ` + selectRecordFields + ` FROM records WHERE 1=1`
	var args []interface{}

	for _, term := range strings.Fields(strings.ToLower(query)) {
		q += " AND instr(lower(abstract), ?) > 0"
		args = append(args, term)
	}

	q += " ORDER BY seq"
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("searching abstracts: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// TopicStat summarizes availability within one topic.
type TopicStat struct {
	Topic         string `json:"topic"`
	Total         int    `json:"total"`
	CodeAvailable int    `json:"code_available"`
	DataAvailable int    `json:"data_available"`
	OpenAccess    int    `json:"open_access"`
}

// TopicStats returns per-topic availability counts, sorted by topic.
func (d *DB) TopicStats() ([]TopicStat, error) {
	rows, err := d.db.Query(`
		SELECT topic,
			COUNT(*),
			COALESCE(SUM(code_available), 0),
			COALESCE(SUM(data_available), 0),
			COALESCE(SUM(CASE WHEN lower(open_access) = 'true' THEN 1 ELSE 0 END), 0)
		FROM records
		GROUP BY topic
		ORDER BY topic
	`)
	if err != nil {
		return nil, fmt.Errorf("querying topic stats: %w", err)
	}
	defer rows.Close()

	var stats []TopicStat
	for rows.Next() {
		var s TopicStat
		if err := rows.Scan(&s.Topic, &s.Total, &s.CodeAvailable, &s.DataAvailable, &s.OpenAccess); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// scanner interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(s scanner) (record.Record, error) {
	var rec record.Record
	var codeJSON, dataJSON string

	err := s.Scan(
		&rec.DOI, &rec.DOIURL, &rec.Year, &rec.Journal, &rec.Topic, &rec.X, &rec.Y,
		&rec.CodeAvailable, &rec.DataAvailable, &codeJSON, &dataJSON,
		&rec.Title, &rec.Abstract, &rec.Institution, &rec.Keywords, &rec.Funding,
		&rec.Acknowledgement, &rec.OpenAccess,
	)
	if err != nil {
		return rec, err
	}

	if err := json.Unmarshal([]byte(codeJSON), &rec.CodeLinks); err != nil {
		return rec, fmt.Errorf("parsing code links for %s: %w", rec.DOI, err)
	}
	if err := json.Unmarshal([]byte(dataJSON), &rec.DataLinks); err != nil {
		return rec, fmt.Errorf("parsing data links for %s: %w", rec.DOI, err)
	}
	return rec, nil
}

func scanRecords(rows *sql.Rows) ([]record.Record, error) {
	var records []record.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
