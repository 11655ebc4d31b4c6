/*
Package sqlite provides a SQLite-backed implementation of the case store.

PURPOSE:
  Implements ccd.CaseStore using SQLite. In production the case store is
  a remote service; this implementation carries the same contract - in
  particular the conditional write - for local deployments and tests.

CONDITIONAL WRITES:
  Every case row carries a version. Update only writes when the caller's
  snapshot version matches the stored one (UPDATE ... WHERE version = ?),
  returning ccd.ErrConflict otherwise. That makes the lost-update race a
  store-level property instead of a timing accident.

KEY TABLES:
  cases:       one row per case, JSON payload plus version counter
  case_events: append-only audit of every committed event

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  multiple readers don't block and crash recovery is cleaner.

USAGE:
  store, err := sqlite.New("./data/cases.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  updater := ccd.NewUpdater(store, tokenProvider)

SEE ALSO:
  - ccd/store.go: interface definition
  - ccd/store/memory.go: in-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hmcts/sscs-pdf-email-common/ccd"
	"github.com/hmcts/sscs-pdf-email-common/idam"
)

// Store implements ccd.CaseStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Cases (JSON payload, version counter for conditional writes)
	CREATE TABLE IF NOT EXISTS cases (
		id INTEGER PRIMARY KEY,
		reference TEXT,
		state TEXT NOT NULL DEFAULT '',
		data_json TEXT NOT NULL,
		version INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_cases_reference
		ON cases(reference) WHERE reference IS NOT NULL;

	-- Case events (append-only audit of committed writes)
	CREATE TABLE IF NOT EXISTS case_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		case_id INTEGER NOT NULL,
		event_id TEXT NOT NULL,
		summary TEXT NOT NULL,
		description TEXT NOT NULL,
		created_at TEXT NOT NULL,
		FOREIGN KEY (case_id) REFERENCES cases(id)
	);

	CREATE INDEX IF NOT EXISTS idx_case_events_case
		ON case_events(case_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// CASE STORE INTERFACE
// =============================================================================

// Create inserts a new case with version 0.
func (s *Store) Create(ctx context.Context, caseID int64, state string, data ccd.CaseData) (ccd.CaseDetails, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(data)
	if err != nil {
		return ccd.CaseDetails{}, fmt.Errorf("encode case data: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO cases (id, reference, state, data_json, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, 0, ?, ?)`,
		caseID, data.CaseReference, state, string(payload), now, now)
	if err != nil {
		return ccd.CaseDetails{}, fmt.Errorf("insert case %d: %w", caseID, err)
	}

	data.Version = 0
	return ccd.CaseDetails{ID: caseID, State: state, Data: data}, nil
}

// Fetch loads the current case record.
func (s *Store) Fetch(ctx context.Context, caseID int64, _ idam.Tokens) (ccd.CaseDetails, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT reference, state, data_json, version FROM cases WHERE id = ?`, caseID)

	var reference, state, payload string
	var version int64
	if err := row.Scan(&reference, &state, &payload, &version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ccd.CaseDetails{}, ccd.ErrCaseNotFound
		}
		return ccd.CaseDetails{}, fmt.Errorf("select case %d: %w", caseID, err)
	}

	var data ccd.CaseData
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return ccd.CaseDetails{}, fmt.Errorf("decode case %d: %w", caseID, err)
	}
	data.Version = version
	return ccd.CaseDetails{ID: caseID, State: state, Data: data}, nil
}

// Update writes data conditionally on data.Version and records the event.
func (s *Store) Update(ctx context.Context, caseID int64, data ccd.CaseData, eventID, summary, description string, _ idam.Tokens) (ccd.CaseDetails, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(data)
	if err != nil {
		return ccd.CaseDetails{}, fmt.Errorf("encode case data: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ccd.CaseDetails{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	res, err := tx.ExecContext(ctx, `
		UPDATE cases
		SET reference = ?, data_json = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?`,
		data.CaseReference, string(payload), now, caseID, data.Version)
	if err != nil {
		return ccd.CaseDetails{}, fmt.Errorf("update case %d: %w", caseID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return ccd.CaseDetails{}, fmt.Errorf("update case %d: %w", caseID, err)
	}
	if affected == 0 {
		// Either the case is missing or a concurrent writer bumped the version.
		var exists int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(1) FROM cases WHERE id = ?`, caseID).Scan(&exists); err != nil {
			return ccd.CaseDetails{}, fmt.Errorf("update case %d: %w", caseID, err)
		}
		if exists == 0 {
			return ccd.CaseDetails{}, ccd.ErrCaseNotFound
		}
		return ccd.CaseDetails{}, ccd.ErrConflict
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO case_events (case_id, event_id, summary, description, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		caseID, eventID, summary, description, now)
	if err != nil {
		return ccd.CaseDetails{}, fmt.Errorf("record event for case %d: %w", caseID, err)
	}

	if err := tx.Commit(); err != nil {
		return ccd.CaseDetails{}, fmt.Errorf("commit case %d: %w", caseID, err)
	}

	data.Version++
	var state string
	if err := s.db.QueryRowContext(ctx,
		`SELECT state FROM cases WHERE id = ?`, caseID).Scan(&state); err != nil {
		return ccd.CaseDetails{}, fmt.Errorf("select case %d: %w", caseID, err)
	}
	return ccd.CaseDetails{ID: caseID, State: state, Data: data}, nil
}

// =============================================================================
// AUDIT
// =============================================================================

// CaseEvent is one audit row recorded by Update.
type CaseEvent struct {
	EventID     string
	Summary     string
	Description string
	CreatedAt   string
}

// Events returns the audit rows for a case, oldest first.
func (s *Store) Events(ctx context.Context, caseID int64) ([]CaseEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT event_id, summary, description, created_at
		FROM case_events WHERE case_id = ? ORDER BY id`, caseID)
	if err != nil {
		return nil, fmt.Errorf("select events for case %d: %w", caseID, err)
	}
	defer rows.Close()

	var events []CaseEvent
	for rows.Next() {
		var e CaseEvent
		if err := rows.Scan(&e.EventID, &e.Summary, &e.Description, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
