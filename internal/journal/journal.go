// Package journal records every push dispatch in a local SQLite database.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cristianoliveira/pushdesk/internal/config"
	"github.com/cristianoliveira/pushdesk/internal/domain"
	"github.com/cristianoliveira/pushdesk/internal/gateway"
	"github.com/cristianoliveira/pushdesk/internal/roster"
	"github.com/goccy/go-json"
	_ "modernc.org/sqlite"
)

// FileName is the journal database inside state_dir.
const FileName = "journal.db"

const timeLayout = "2006-01-02T15:04:05.000Z"

// ErrInvalidFilter indicates an unknown delivery mode filter.
var ErrInvalidFilter = errors.New("invalid journal filter")

const schemaSQL = `
CREATE TABLE IF NOT EXISTS dispatches (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	dispatched_at   TEXT    NOT NULL,
	title           TEXT    NOT NULL,
	message         TEXT    NOT NULL,
	client_ids      TEXT    NOT NULL,
	recipients      INTEGER NOT NULL,
	success         INTEGER NOT NULL,
	sent_count      INTEGER NOT NULL,
	mode            TEXT    NOT NULL,
	outcome_message TEXT    NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_dispatches_at ON dispatches(dispatched_at);
`

// Entry is one recorded dispatch.
type Entry struct {
	ID             int64             `json:"id"`
	DispatchedAt   time.Time         `json:"dispatched_at"`
	Title          string            `json:"title"`
	Message        string            `json:"message"`
	ClientIDs      []domain.ClientID `json:"client_ids"`
	Success        bool              `json:"success"`
	SentCount      int               `json:"sent_count"`
	Mode           string            `json:"mode"`
	OutcomeMessage string            `json:"outcome_message,omitempty"`
}

// ListOptions filters List. Zero values mean no filter.
type ListOptions struct {
	Limit int
	Mode  string
	Since time.Time
}

// Journal is the dispatch log. It is safe for concurrent use.
type Journal struct {
	db  *sql.DB
	now func() time.Time
}

var _ roster.Recorder = (*Journal)(nil)

// DefaultPath returns state_dir/journal.db, or "" when state_dir is unset.
func DefaultPath() string {
	dir := config.Get("state_dir", "")
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, FileName)
}

// Open opens or creates the journal at dbPath.
func Open(dbPath string) (*Journal, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("journal: db path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), config.FileModeDir); err != nil {
		return nil, fmt.Errorf("journal: create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("journal: open db: %w", err)
	}

	j := &Journal{db: db, now: time.Now}
	if err := j.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return j, nil
}

// Close closes the database.
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

func (j *Journal) init() error {
	if _, err := j.db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return fmt.Errorf("journal: set busy timeout: %w", err)
	}
	if _, err := j.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("journal: create schema: %w", err)
	}
	return nil
}

// RecordDispatch stores rec.
func (j *Journal) RecordDispatch(ctx context.Context, rec roster.DispatchRecord) error {
	ids, err := json.Marshal(rec.ClientIDs)
	if err != nil {
		return fmt.Errorf("journal: encode client ids: %w", err)
	}
	at := rec.At
	if at.IsZero() {
		at = j.now()
	}
	_, err = j.db.ExecContext(ctx, `
INSERT INTO dispatches (dispatched_at, title, message, client_ids, recipients, success, sent_count, mode, outcome_message)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		at.UTC().Format(timeLayout),
		rec.Title,
		rec.Message,
		string(ids),
		len(rec.ClientIDs),
		boolToInt(rec.Outcome.Success),
		rec.Outcome.SentCount,
		rec.Outcome.Mode(),
		rec.Outcome.Message,
	)
	if err != nil {
		return fmt.Errorf("journal: record dispatch: %w", err)
	}
	return nil
}

func validMode(mode string) bool {
	switch mode {
	case "", gateway.ModeServer, gateway.ModeMock, gateway.ModeOffline:
		return true
	default:
		return false
	}
}

// List returns entries newest first.
func (j *Journal) List(ctx context.Context, opts ListOptions) ([]Entry, error) {
	if !validMode(opts.Mode) {
		return nil, fmt.Errorf("%w: mode %q", ErrInvalidFilter, opts.Mode)
	}

	var (
		where []string
		args  []any
	)
	if opts.Mode != "" {
		where = append(where, "mode = ?")
		args = append(args, opts.Mode)
	}
	if !opts.Since.IsZero() {
		where = append(where, "dispatched_at >= ?")
		args = append(args, opts.Since.UTC().Format(timeLayout))
	}

	query := `SELECT id, dispatched_at, title, message, client_ids, success, sent_count, mode, outcome_message FROM dispatches`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY dispatched_at DESC, id DESC"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("journal: list dispatches: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var (
			e       Entry
			at, ids string
			success int
		)
		if err := rows.Scan(&e.ID, &at, &e.Title, &e.Message, &ids, &success, &e.SentCount, &e.Mode, &e.OutcomeMessage); err != nil {
			return nil, fmt.Errorf("journal: scan dispatch: %w", err)
		}
		e.DispatchedAt, _ = time.Parse(timeLayout, at)
		e.Success = success != 0
		if err := json.Unmarshal([]byte(ids), &e.ClientIDs); err != nil {
			return nil, fmt.Errorf("journal: decode client ids of dispatch %d: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("journal: list dispatches: %w", err)
	}
	return entries, nil
}

// Prune removes entries older than days. With dryRun it only counts them.
// days == 0 matches every entry.
func (j *Journal) Prune(ctx context.Context, days int, dryRun bool) (int64, error) {
	if days < 0 {
		return 0, fmt.Errorf("journal: days threshold must be >= 0")
	}
	cutoff := j.now().UTC().AddDate(0, 0, -days).Format(timeLayout)
	if days == 0 {
		cutoff = "9999"
	}

	var count int64
	if err := j.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM dispatches WHERE dispatched_at < ?`, cutoff).Scan(&count); err != nil {
		return 0, fmt.Errorf("journal: count for prune: %w", err)
	}
	if count == 0 || dryRun {
		return count, nil
	}
	if _, err := j.db.ExecContext(ctx, `DELETE FROM dispatches WHERE dispatched_at < ?`, cutoff); err != nil {
		return 0, fmt.Errorf("journal: prune: %w", err)
	}
	return count, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
