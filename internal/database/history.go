package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/scamscan/internal/model"
)

// HistoryDB provides SQLite-based storage for the results of one session.
//
// The database lives in memory only. Scam messages routinely contain
// one-time codes and card numbers, so neither the results nor the message
// digests ever reach the disk, and everything is gone when the process exits.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB
}

// OpenHistory opens an empty in-memory history.
func OpenHistory(ctx context.Context) (*HistoryDB, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to ":memory:" is a separate database, so the pool
	// must hold exactly one connection and never recycle it.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	hdb := &HistoryDB{db: db}
	if err := hdb.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection and discards the history.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema.
func (hdb *HistoryDB) createTables(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS scans (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		message_digest TEXT NOT NULL,
		verdict INTEGER NOT NULL,
		status TEXT NOT NULL,
		probability INTEGER NOT NULL,
		scam_type TEXT,
		refined INTEGER NOT NULL DEFAULT 0,
		timestamp TEXT NOT NULL,
		result_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_scans_digest ON scans(message_digest);
	CREATE INDEX IF NOT EXISTS idx_scans_verdict ON scans(verdict);
	`

	_, err := hdb.db.ExecContext(ctx, schema)
	return err
}

// Entry is one stored classification.
type Entry struct {
	ID int64

	// Digest is the SHA3-256 digest of the submitted message. The message
	// itself is never stored.
	Digest string

	Verdict     model.Verdict
	Status      string
	Probability int
	ScamType    string
	Refined     bool
	Timestamp   time.Time

	// Result is the full classifier payload.
	Result model.ScanResult
}

// NewEntry builds an Entry for a classification of message.
func NewEntry(message string, result model.ScanResult, refined bool, at time.Time) Entry {
	return Entry{
		Digest:      model.MessageDigest(message),
		Verdict:     model.Classify(result),
		Status:      result.Status,
		Probability: result.Probability,
		ScamType:    result.ScamType,
		Refined:     refined,
		Timestamp:   at,
		Result:      result.Clone(),
	}
}

// ShortDigest returns the abbreviated digest shown in tables.
func (e Entry) ShortDigest() string {
	if len(e.Digest) < 12 {
		return e.Digest
	}
	return e.Digest[:12]
}

// Record stores an entry and returns its ID.
func (hdb *HistoryDB) Record(ctx context.Context, e Entry) (int64, error) {
	resultJSON, err := json.Marshal(e.Result)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize result: %w", err)
	}

	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	query := `
	INSERT INTO scans (message_digest, verdict, status, probability, scam_type, refined, timestamp, result_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := hdb.db.ExecContext(ctx, query,
		e.Digest,
		int(e.Verdict),
		e.Status,
		e.Probability,
		e.ScamType,
		e.Refined,
		ts.UTC().Format(time.RFC3339Nano),
		string(resultJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert scan: %w", err)
	}

	return result.LastInsertId()
}

// List returns the most recent entries first. A limit of 0 or less returns
// every entry.
func (hdb *HistoryDB) List(ctx context.Context, limit int) ([]Entry, error) {
	query := `
	SELECT id, message_digest, verdict, status, probability, scam_type, refined, timestamp, result_json
	FROM scans
	ORDER BY id DESC
	`
	args := make([]any, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list scans: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Get returns the entry with the given ID, or nil when there is none.
func (hdb *HistoryDB) Get(ctx context.Context, id int64) (*Entry, error) {
	query := `
	SELECT id, message_digest, verdict, status, probability, scam_type, refined, timestamp, result_json
	FROM scans
	WHERE id = ?
	`

	e, err := scanEntry(hdb.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Summary counts the stored entries.
type Summary struct {
	Total     int
	Refined   int
	ByVerdict map[model.Verdict]int
}

// Summary returns the entry counts per verdict.
func (hdb *HistoryDB) Summary(ctx context.Context) (Summary, error) {
	s := Summary{ByVerdict: make(map[model.Verdict]int)}

	rows, err := hdb.db.QueryContext(ctx, `
	SELECT verdict, COUNT(*), SUM(refined)
	FROM scans
	GROUP BY verdict
	`)
	if err != nil {
		return s, fmt.Errorf("failed to summarize scans: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var verdict, count, refined int
		if err := rows.Scan(&verdict, &count, &refined); err != nil {
			return s, fmt.Errorf("failed to scan summary: %w", err)
		}
		s.ByVerdict[model.Verdict(verdict)] = count
		s.Total += count
		s.Refined += refined
	}

	return s, rows.Err()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanEntry reads one entry from a row.
func scanEntry(r rowScanner) (Entry, error) {
	var (
		e          Entry
		verdict    int
		scamType   sql.NullString
		timestamp  string
		resultJSON string
	)

	err := r.Scan(
		&e.ID,
		&e.Digest,
		&verdict,
		&e.Status,
		&e.Probability,
		&scamType,
		&e.Refined,
		&timestamp,
		&resultJSON,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return e, err
	}
	if err != nil {
		return e, fmt.Errorf("failed to scan entry: %w", err)
	}

	e.Verdict = model.Verdict(verdict)
	e.ScamType = scamType.String
	e.Timestamp = parseTimestamp(timestamp)
	if err := json.Unmarshal([]byte(resultJSON), &e.Result); err != nil {
		return e, fmt.Errorf("failed to parse result: %w", err)
	}

	return e, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
