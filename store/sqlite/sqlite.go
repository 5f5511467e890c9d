/*
Package sqlite provides SQLite-backed implementations of the engine's store
contracts.

PURPOSE:
  Durable storage for the request collection and the credential/profile
  registry. The same patterns apply to PostgreSQL - only minor SQL dialect
  differences.

SNAPSHOT SEMANTICS:
  The engine trades in whole collections (LoadAll/SaveAll). SaveAll runs as
  one database transaction that clears and rewrites the requests table, so a
  mutation is atomic: either the new snapshot is fully visible or the prior
  one still is.

KEY TABLES:
  requests:  One row per request; queryable columns plus the full record as
             JSON (the tagged union round-trips through encoding/json)
  profiles:  One row per registered employee, unique on lower(username)

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging): readers don't block, a
  single writer at a time, better crash recovery.

USAGE:
  st, err := sqlite.New("./selfserve.db")   // ":memory:" for tests
  defer st.Close()

SEE ALSO:
  - engine/store.go: Interface definitions
  - engine/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/employeecare/selfserve/engine"
)

// Store implements engine.RequestStore and engine.ProfileStore over SQLite.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// New opens (and migrates) a SQLite store at the given path.
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

func (s *Store) migrate() error {
	schema := `
	-- Requests: the employee's collection, persisted row-per-record.
	-- position preserves the newest-first ordering of the snapshot.
	CREATE TABLE IF NOT EXISTS requests (
		id TEXT PRIMARY KEY,
		form_type TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at TEXT NOT NULL,
		position INTEGER NOT NULL,
		record_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_requests_position ON requests(position);
	CREATE INDEX IF NOT EXISTS idx_requests_type_status ON requests(form_type, status);

	-- Profiles: credential/profile registry, unique username ignoring case.
	CREATE TABLE IF NOT EXISTS profiles (
		username TEXT PRIMARY KEY,
		password TEXT NOT NULL,
		profile_json TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_profiles_username_nocase
		ON profiles(lower(username));
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// REQUEST STORE
// =============================================================================

func (s *Store) LoadAll(ctx context.Context) ([]engine.Request, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT record_json FROM requests ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("load requests: %w", err)
	}
	defer rows.Close()

	var out []engine.Request
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		var r engine.Request
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			return nil, fmt.Errorf("decode request: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) SaveAll(ctx context.Context, requests []engine.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM requests`); err != nil {
		return fmt.Errorf("clear requests: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO requests (id, form_type, status, created_at, position, record_json)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range requests {
		raw, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("encode request %s: %w", r.ID, err)
		}
		if _, err := stmt.ExecContext(ctx,
			r.ID, string(r.Type), string(r.Status),
			r.CreatedAt.Format(time.RFC3339Nano),
			i, string(raw)); err != nil {
			return fmt.Errorf("insert request %s: %w", r.ID, err)
		}
	}

	return tx.Commit()
}

// =============================================================================
// PROFILE STORE
// =============================================================================

func (s *Store) FindByUsername(ctx context.Context, username string) (*engine.EmployeeProfile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT profile_json FROM profiles WHERE lower(username) = lower(?)`, username)

	var raw string
	if err := row.Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return decodeProfile(raw)
}

func (s *Store) Put(ctx context.Context, profile engine.EmployeeProfile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}

	// Replace an existing row that matches ignoring case, so Put after a
	// case-insensitive lookup lands on the same record.
	_, err = s.db.ExecContext(ctx,
		`DELETE FROM profiles WHERE lower(username) = lower(?)`, profile.Username)
	if err != nil {
		return fmt.Errorf("replace profile: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO profiles (username, password, profile_json) VALUES (?, ?, ?)`,
		profile.Username, profile.Password, string(raw))
	if err != nil {
		return fmt.Errorf("store profile: %w", err)
	}
	return nil
}

func (s *Store) ListAll(ctx context.Context) ([]engine.EmployeeProfile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT profile_json FROM profiles ORDER BY lower(username)`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var out []engine.EmployeeProfile
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		p, err := decodeProfile(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// Verify compares username and password by exact match (case-sensitive),
// reproducing the portal's login behavior.
func (s *Store) Verify(ctx context.Context, username, password string) (*engine.EmployeeProfile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT profile_json FROM profiles WHERE username = ? AND password = ?`,
		username, password)

	var raw string
	if err := row.Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("verify profile: %w", err)
	}

	p, err := decodeProfile(raw)
	if err != nil {
		return nil, err
	}
	// SQLite's = on TEXT is case-sensitive already; keep an explicit guard in
	// case a collation sneaks in through the schema.
	if p.Username != username || p.Password != password {
		return nil, nil
	}
	return p, nil
}

func decodeProfile(raw string) (*engine.EmployeeProfile, error) {
	var p engine.EmployeeProfile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	if strings.TrimSpace(p.Username) == "" {
		return nil, fmt.Errorf("decode profile: empty username")
	}
	return &p, nil
}

// Compile-time interface checks.
var (
	_ engine.RequestStore = (*Store)(nil)
	_ engine.ProfileStore = (*Store)(nil)
)
