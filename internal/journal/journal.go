package journal

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/sha3"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/notiontree/internal/model"
)

// Run status values stored in the journal.
const (
	// StatusSuccess marks a run that completed every phase.
	StatusSuccess = "success"
	// StatusFailed marks a run aborted by an error.
	StatusFailed = "failed"
	// StatusTimeout marks a run terminated by context cancellation.
	StatusTimeout = "timeout"
)

// timeFormat is the layout run timestamps are stored with. It matches the
// SQLite datetime() text form so ORDER BY on the column sorts correctly.
const timeFormat = "2006-01-02 15:04:05"

// defaultListLimit caps ListRuns when the caller passes no limit.
const defaultListLimit = 20

// Journal provides SQLite-backed storage for export run history.
// It manages the connection and provides append and list operations.
//
// Design decision: We keep one journal file per user rather than one per
// exported tree. Rows carry the source dir, so a single file answers both
// "what ran recently" and "what happened to this tree" without juggling
// paths.
type Journal struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures Journal behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// performance. This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default journal options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a Journal at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is
// returned.
func Open(dbDir string, opts Options) (*Journal, error) {
	dbPath := filepath.Join(dbDir, "notiontree.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("journal not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check journal path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create journal directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating new
	// files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	// SQLite only supports one writer; a single connection avoids lock
	// contention between the append and any concurrent history read.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	j := &Journal{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := j.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return j, nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

// createTables creates the journal schema if it doesn't exist.
func (j *Journal) createTables() error {
	schema := `
	-- One row per export run, appended after the run finishes
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source_dir TEXT NOT NULL,
		root_parent_url TEXT NOT NULL,
		root_page_url TEXT,
		started_at TEXT NOT NULL,
		finished_at TEXT,
		page_count INTEGER DEFAULT 0,
		node_count INTEGER DEFAULT 0,
		leaf_count INTEGER DEFAULT 0,
		created_count INTEGER DEFAULT 0,
		imported_count INTEGER DEFAULT 0,
		moved_count INTEGER DEFAULT 0,
		resolved_links INTEGER DEFAULT 0,
		status TEXT NOT NULL,
		error TEXT,
		token_fingerprint TEXT,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_runs_source ON runs(source_dir);
	`

	_, err := j.db.ExecContext(context.Background(), schema)
	return err
}

// Run is one journal row summarizing an export run.
type Run struct {
	// ID is the unique identifier of the run in the journal.
	ID int64

	// SourceDir is the local tree the run exported.
	SourceDir string

	// RootParentURL is the remote page the tree was created under.
	RootParentURL string

	// RootPageURL is the browseable URL of the created root page.
	RootPageURL string

	// StartedAt is when the run began.
	StartedAt time.Time

	// FinishedAt is when the run completed or aborted.
	FinishedAt time.Time

	// PageCount is the number of descriptors in the hierarchy.
	PageCount int

	// NodeCount is the number of directory pages, the root included.
	NodeCount int

	// LeafCount is the number of document pages.
	LeafCount int

	// CreatedCount is the number of remote pages created.
	CreatedCount int

	// ImportedCount is the number of pages whose content was uploaded.
	ImportedCount int

	// MovedCount is the number of pages re-parented into place.
	MovedCount int

	// ResolvedLinks is the number of link references rewritten.
	ResolvedLinks int

	// Status is one of StatusSuccess, StatusFailed, StatusTimeout.
	Status string

	// Error is the error text for failed runs, empty otherwise.
	Error string

	// TokenFingerprint identifies which session token the run used without
	// storing the token itself.
	TokenFingerprint string
}

// Duration returns the wall-clock duration of the run. Zero when the run
// never finished.
func (r *Run) Duration() time.Duration {
	if r.StartedAt.IsZero() || r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// SaveRun appends one row for a finished run. The token is fingerprinted
// before storage; the journal never holds the token itself.
func (j *Journal) SaveRun(ctx context.Context, report *model.SyncReport, token string) (int64, error) {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize report: %w", err)
	}

	status := StatusSuccess
	errText := report.ErrorMessage
	switch {
	case report.TimedOut:
		status = StatusTimeout
	case report.Error != nil:
		status = StatusFailed
		errText = report.Error.Error()
	}

	finished := ""
	if !report.FinishedAt.IsZero() {
		finished = report.FinishedAt.UTC().Format(timeFormat)
	}

	query := `
	INSERT INTO runs (
		source_dir, root_parent_url, root_page_url,
		started_at, finished_at,
		page_count, node_count, leaf_count,
		created_count, imported_count, moved_count, resolved_links,
		status, error, token_fingerprint, report_json
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := j.db.ExecContext(ctx, query,
		report.SourceDir,
		report.RootParentURL,
		report.RootPageURL,
		report.StartedAt.UTC().Format(timeFormat),
		finished,
		report.PageCount(),
		report.CountByKind(model.KindRoot)+report.CountByKind(model.KindNode),
		report.CountByKind(model.KindLeaf),
		report.CreatedCount,
		report.ImportedCount,
		report.MovedCount,
		report.ResolvedLinks,
		status,
		errText,
		Fingerprint(token),
		string(reportJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}

	return result.LastInsertId()
}

// ListRuns returns the most recent runs, newest first. A non-positive limit
// applies the default of 20.
func (j *Journal) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := `
	SELECT id, source_dir, root_parent_url, root_page_url,
	       started_at, finished_at,
	       page_count, node_count, leaf_count,
	       created_count, imported_count, moved_count, resolved_links,
	       status, error, token_fingerprint
	FROM runs
	ORDER BY started_at DESC, id DESC
	LIMIT ?
	`

	rows, err := j.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var results []Run
	for rows.Next() {
		var run Run
		var started, finished string
		var rootPageURL, errText, fingerprint sql.NullString

		if err := rows.Scan(
			&run.ID,
			&run.SourceDir,
			&run.RootParentURL,
			&rootPageURL,
			&started,
			&finished,
			&run.PageCount,
			&run.NodeCount,
			&run.LeafCount,
			&run.CreatedCount,
			&run.ImportedCount,
			&run.MovedCount,
			&run.ResolvedLinks,
			&run.Status,
			&errText,
			&fingerprint,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		run.RootPageURL = rootPageURL.String
		run.Error = errText.String
		run.TokenFingerprint = fingerprint.String
		run.StartedAt = parseTimestamp(started)
		run.FinishedAt = parseTimestamp(finished)

		results = append(results, run)
	}

	return results, rows.Err()
}

// Fingerprint returns a short SHA3-256 fingerprint of a session token.
// Enough to tell runs made with different workspaces apart, not enough to
// recover the token. Empty input returns the empty string.
func Fingerprint(token string) string {
	if token == "" {
		return ""
	}
	hash := sha3.Sum256([]byte(token))
	return hex.EncodeToString(hash[:8])
}

// timestampFormats contains the layouts stored timestamps may carry. Rows
// written by SaveRun use timeFormat; the RFC3339 forms tolerate rows a
// driver upgrade may have written differently.
var timestampFormats = []string{
	timeFormat,
	time.RFC3339,
	time.RFC3339Nano,
}

// parseTimestamp parses a stored timestamp, returning zero time when the
// column was empty or unreadable.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
