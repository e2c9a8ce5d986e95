package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/j-555/fetch-audit/internal/model"
)

// AuditDB provides SQLite-based storage for audit run history.
//
// Design decision: a single database file holds runs for every source
// rather than one file per source. This keeps history listing and
// run-over-run comparison a single query, and makes backup trivial.
type AuditDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures AuditDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates an AuditDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*AuditDB, error) {
	dbPath := filepath.Join(dbDir, "fetchaudit.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses mode=rw to prevent creating new files and
	// mode=rwc to allow creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; a single pooled connection avoids
	// SQLITE_BUSY under concurrent saves.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	adb := &AuditDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := adb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return adb, nil
}

// Close closes the database connection.
func (adb *AuditDB) Close() error {
	return adb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (adb *AuditDB) createTables() error {
	schema := `
	-- Audit runs store one row per completed audit, with the full
	-- summary as JSON and the severity counts denormalized for cheap
	-- history listings.
	CREATE TABLE IF NOT EXISTS audit_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source TEXT NOT NULL,
		audited_at DATETIME NOT NULL,
		total_audited INTEGER NOT NULL DEFAULT 0,
		critical_count INTEGER NOT NULL DEFAULT 0,
		high_count INTEGER NOT NULL DEFAULT 0,
		medium_count INTEGER NOT NULL DEFAULT 0,
		low_count INTEGER NOT NULL DEFAULT 0,
		info_count INTEGER NOT NULL DEFAULT 0,
		summary_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_source ON audit_runs(source);
	CREATE INDEX IF NOT EXISTS idx_runs_audited_at ON audit_runs(audited_at);
	`

	_, err := adb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveAuditRun stores a completed audit summary.
// Returns the database id of the stored run.
func (adb *AuditDB) SaveAuditRun(ctx context.Context, summary *model.Summary) (int64, error) {
	if summary == nil {
		return 0, errors.New("summary must not be nil")
	}

	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize summary: %w", err)
	}

	query := `
	INSERT INTO audit_runs (source, audited_at, total_audited, critical_count, high_count, medium_count, low_count, info_count, summary_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := adb.db.ExecContext(ctx, query,
		summary.Source,
		summary.AuditedAt.UTC().Format(time.RFC3339),
		summary.TotalAudited,
		summary.CriticalCount,
		summary.HighCount,
		summary.MediumCount,
		summary.LowCount,
		summary.InfoCount,
		string(summaryJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save audit run: %w", err)
	}

	return result.LastInsertId()
}

// RunMetadata contains summary information about a stored audit run.
// This is used for displaying history without loading full summaries.
type RunMetadata struct {
	// ID is the unique identifier of the run in the database.
	ID int64

	// Source identifies the audited input.
	Source string

	// AuditedAt is when the audit was performed.
	AuditedAt time.Time

	// TotalAudited is the number of entries with passwords that were audited.
	TotalAudited int

	// CriticalCount through InfoCount are the finding counts by severity.
	CriticalCount int
	HighCount     int
	MediumCount   int
	LowCount      int
	InfoCount     int
}

// TotalFindings returns the total number of findings across all severities.
func (m RunMetadata) TotalFindings() int {
	return m.CriticalCount + m.HighCount + m.MediumCount + m.LowCount + m.InfoCount
}

// ListSources returns all sources that have stored audit runs.
func (adb *AuditDB) ListSources(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT source FROM audit_runs
	ORDER BY source
	`

	rows, err := adb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	defer rows.Close()

	var sources []string
	for rows.Next() {
		var source string
		if err := rows.Scan(&source); err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		sources = append(sources, source)
	}

	return sources, rows.Err()
}

// GetHistory retrieves run metadata for a source, most recent first.
// An empty source returns metadata for all sources.
func (adb *AuditDB) GetHistory(ctx context.Context, source string) ([]RunMetadata, error) {
	query := `
	SELECT id, source, audited_at, total_audited, critical_count, high_count, medium_count, low_count, info_count
	FROM audit_runs
	`
	args := make([]any, 0, 1)
	if source != "" {
		query += " WHERE source = ?"
		args = append(args, source)
	}
	query += " ORDER BY audited_at DESC, id DESC"

	rows, err := adb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get audit history: %w", err)
	}
	defer rows.Close()

	var results []RunMetadata
	for rows.Next() {
		var meta RunMetadata
		var auditedAt string

		err := rows.Scan(
			&meta.ID,
			&meta.Source,
			&auditedAt,
			&meta.TotalAudited,
			&meta.CriticalCount,
			&meta.HighCount,
			&meta.MediumCount,
			&meta.LowCount,
			&meta.InfoCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run metadata: %w", err)
		}

		meta.AuditedAt = parseTimestamp(auditedAt)
		results = append(results, meta)
	}

	return results, rows.Err()
}

// GetLatestRun retrieves the most recent summary for a source.
// Returns nil without error when the source has no stored runs.
func (adb *AuditDB) GetLatestRun(ctx context.Context, source string) (*model.Summary, error) {
	query := `
	SELECT summary_json FROM audit_runs
	WHERE source = ?
	ORDER BY audited_at DESC, id DESC
	LIMIT 1
	`

	var summaryJSON string
	err := adb.db.QueryRowContext(ctx, query, source).Scan(&summaryJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest run: %w", err)
	}

	var summary model.Summary
	if err := json.Unmarshal([]byte(summaryJSON), &summary); err != nil {
		return nil, fmt.Errorf("failed to parse summary: %w", err)
	}

	return &summary, nil
}

// GetRunByID retrieves a stored summary by its database id.
// Returns nil without error when no run has that id.
func (adb *AuditDB) GetRunByID(ctx context.Context, id int64) (*model.Summary, error) {
	query := `
	SELECT summary_json FROM audit_runs
	WHERE id = ?
	`

	var summaryJSON string
	err := adb.db.QueryRowContext(ctx, query, id).Scan(&summaryJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	var summary model.Summary
	if err := json.Unmarshal([]byte(summaryJSON), &summary); err != nil {
		return nil, fmt.Errorf("failed to parse summary: %w", err)
	}

	return &summary, nil
}

// Delta describes how finding counts changed between two runs.
type Delta struct {
	// Critical through Info are the per-severity count changes
	// (current minus previous).
	Critical int
	High     int
	Medium   int
	Low      int
	Info     int
}

// IsZero reports whether no counts changed.
func (d Delta) IsZero() bool {
	return d == Delta{}
}

// ComputeDelta returns the severity count changes from previous to current.
func ComputeDelta(previous, current RunMetadata) Delta {
	return Delta{
		Critical: current.CriticalCount - previous.CriticalCount,
		High:     current.HighCount - previous.HighCount,
		Medium:   current.MediumCount - previous.MediumCount,
		Low:      current.LowCount - previous.LowCount,
		Info:     current.InfoCount - previous.InfoCount,
	}
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
