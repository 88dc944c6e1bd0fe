// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package remotestore persists project documents in a SQLite database. It
// stands in for the remote document-store collaborator: a per-user
// collection of documents keyed by project id, with a filtered starred-
// bucket query, an ordered listing, and a transactional update primitive.
// The remote copy is authoritative for identity; callers treat every
// failure here as transient and fall back to the local store.
package remotestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/engagewise/engagewise/pkg/types"
)

// ErrNotFound is returned when a project id has no remote document.
var ErrNotFound = errors.New("project not found")

// Store manages the remote project document database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at cfg.Path and bootstraps the schema.
func Open(cfg types.RemoteStoreConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = filepath.Join("data", "remote", "engagewise.db")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating remote store directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening remote store: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS projects (
			user_id TEXT NOT NULL,
			id TEXT NOT NULL,
			name TEXT,
			kind TEXT NOT NULL DEFAULT 'saved',
			created_at TEXT,
			updated_at TEXT,
			doc TEXT NOT NULL,
			PRIMARY KEY (user_id, id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_projects_kind ON projects(user_id, kind)`,
		`CREATE INDEX IF NOT EXISTS idx_projects_created ON projects(user_id, created_at DESC)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Put writes or replaces a project document.
func (s *Store) Put(ctx context.Context, p types.Project) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal project %s: %w", p.ID, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO projects (user_id, id, name, kind, created_at, updated_at, doc)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id, id) DO UPDATE SET
			name=excluded.name, kind=excluded.kind,
			created_at=excluded.created_at, updated_at=excluded.updated_at,
			doc=excluded.doc`,
		p.UserID, p.ID, p.Name, string(p.Kind), p.CreatedAt, p.UpdatedAt, string(doc),
	)
	if err != nil {
		return fmt.Errorf("upserting project %s: %w", p.ID, err)
	}
	return nil
}

// Get loads one project document. Returns ErrNotFound when absent.
func (s *Store) Get(ctx context.Context, userID, id string) (*types.Project, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM projects WHERE user_id = ? AND id = ?`, userID, id,
	).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying project %s: %w", id, err)
	}

	var p types.Project
	if err := json.Unmarshal([]byte(doc), &p); err != nil {
		return nil, fmt.Errorf("parsing project %s: %w", id, err)
	}
	return &p, nil
}

// Delete removes a project document by id. Deleting an absent id is not
// an error.
func (s *Store) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM projects WHERE user_id = ? AND id = ?`, userID, id,
	); err != nil {
		return fmt.Errorf("deleting project %s: %w", id, err)
	}
	return nil
}

// ListByUser returns all project documents owned by userID, newest first.
// Documents that fail to parse are skipped with a warning on w.
func (s *Store) ListByUser(ctx context.Context, userID string, w io.Writer) ([]types.Project, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, doc FROM projects WHERE user_id = ? ORDER BY created_at DESC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying projects: %w", err)
	}
	defer rows.Close()

	var projects []types.Project
	for rows.Next() {
		var id, doc string
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		var p types.Project
		if err := json.Unmarshal([]byte(doc), &p); err != nil {
			fmt.Fprintf(w, "warning: skipping malformed remote document %s: %v\n", id, err)
			continue
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// FindStarred returns the standing starred-items bucket for userID, or
// ErrNotFound when the user has none.
func (s *Store) FindStarred(ctx context.Context, userID string) (*types.Project, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM projects WHERE user_id = ? AND kind = ? LIMIT 1`,
		userID, string(types.KindStarred),
	).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying starred bucket: %w", err)
	}

	var p types.Project
	if err := json.Unmarshal([]byte(doc), &p); err != nil {
		return nil, fmt.Errorf("parsing starred bucket: %w", err)
	}
	return &p, nil
}

// UpdateStarred runs fn against the user's starred bucket inside a single
// transaction: the check-then-write used by star and unstar so concurrent
// updates cannot lose each other. fn receives nil when no bucket exists
// and returns the document to write, or nil for a no-op.
func (s *Store) UpdateStarred(ctx context.Context, userID string, fn func(bucket *types.Project) (*types.Project, error)) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var bucket *types.Project
	var doc string
	err = tx.QueryRowContext(ctx,
		`SELECT doc FROM projects WHERE user_id = ? AND kind = ? LIMIT 1`,
		userID, string(types.KindStarred),
	).Scan(&doc)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// No bucket yet; fn decides whether to create one.
	case err != nil:
		return fmt.Errorf("querying starred bucket: %w", err)
	default:
		var p types.Project
		if err := json.Unmarshal([]byte(doc), &p); err != nil {
			return fmt.Errorf("parsing starred bucket: %w", err)
		}
		bucket = &p
	}

	updated, err := fn(bucket)
	if err != nil {
		return err
	}
	if updated == nil {
		return tx.Commit()
	}

	data, err := json.Marshal(*updated)
	if err != nil {
		return fmt.Errorf("marshal starred bucket: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO projects (user_id, id, name, kind, created_at, updated_at, doc)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id, id) DO UPDATE SET
			name=excluded.name, kind=excluded.kind,
			created_at=excluded.created_at, updated_at=excluded.updated_at,
			doc=excluded.doc`,
		updated.UserID, updated.ID, updated.Name, string(updated.Kind),
		updated.CreatedAt, updated.UpdatedAt, string(data),
	)
	if err != nil {
		return fmt.Errorf("writing starred bucket: %w", err)
	}
	return tx.Commit()
}
