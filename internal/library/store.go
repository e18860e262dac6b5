// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package library persists the user's saved references and projects in
// SQLite. It backs the reference-library endpoints and CLI commands and
// supports text, YAML, JSON, and XLSX export.
package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/abnt-engine/pkg/types"
)

// ErrNotFound is returned when an entry or project ID does not exist.
var ErrNotFound = errors.New("not found")

// Store manages the library SQLite database. It is safe for concurrent use.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the library database at cfg.Path, creating the
// parent directory and the schema as needed.
func Open(cfg types.LibraryConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("library path is empty")
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating library directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// WithClock overrides the clock used for creation timestamps.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS projects (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS entries (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			text TEXT NOT NULL,
			type TEXT NOT NULL,
			title TEXT,
			author TEXT,
			tags TEXT,
			project_id TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_project ON entries(project_id)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_type ON entries(type)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// timestampLayout is fixed width so created_at sorts correctly as text.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

const entryColumns = `id, text, type, title, author, tags, project_id, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (types.Entry, error) {
	var (
		e         types.Entry
		typ       string
		title     sql.NullString
		author    sql.NullString
		tagsJSON  sql.NullString
		projectID sql.NullString
		created   string
	)
	if err := row.Scan(&e.ID, &e.Text, &typ, &title, &author, &tagsJSON, &projectID, &created); err != nil {
		return types.Entry{}, err
	}
	e.Type = types.SourceType(typ)
	e.Title = title.String
	e.Author = author.String
	e.ProjectID = projectID.String
	if tagsJSON.Valid && tagsJSON.String != "" {
		if err := json.Unmarshal([]byte(tagsJSON.String), &e.Tags); err != nil {
			return types.Entry{}, fmt.Errorf("decoding tags of %s: %w", e.ID, err)
		}
	}
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return types.Entry{}, fmt.Errorf("decoding created_at of %s: %w", e.ID, err)
	}
	e.CreatedAt = t
	return e, nil
}

func entryArgs(e types.Entry) []any {
	var tags any
	if len(e.Tags) > 0 {
		data, _ := json.Marshal(e.Tags)
		tags = string(data)
	}
	return []any{
		e.ID, e.Text, string(e.Type), nullable(e.Title), nullable(e.Author),
		tags, nullable(e.ProjectID), e.CreatedAt.UTC().Format(timestampLayout),
	}
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Add stores e, filling in ID, type, and creation time when missing, and
// returns the stored entry.
func (s *Store) Add(ctx context.Context, e types.Entry) (types.Entry, error) {
	e = Normalize(e, s.now())
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO entries (`+entryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entryArgs(e)...)
	if err != nil {
		return types.Entry{}, fmt.Errorf("inserting entry %s: %w", e.ID, err)
	}
	return e, nil
}

// Get returns the entry with id.
func (s *Store) Get(ctx context.Context, id string) (types.Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM entries WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Entry{}, fmt.Errorf("entry %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return types.Entry{}, fmt.Errorf("reading entry %s: %w", id, err)
	}
	return e, nil
}

// Update holds a partial change to an entry. Nil fields are left as is.
type Update struct {
	Text      *string           `json:"text,omitempty"`
	Type      *types.SourceType `json:"type,omitempty"`
	Title     *string           `json:"title,omitempty"`
	Author    *string           `json:"author,omitempty"`
	Tags      *[]string         `json:"tags,omitempty"`
	ProjectID *string           `json:"projectId,omitempty"`
}

// Update applies u to the entry with id and returns the result.
func (s *Store) Update(ctx context.Context, id string, u Update) (types.Entry, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return types.Entry{}, err
	}
	if u.Text != nil {
		e.Text = *u.Text
	}
	if u.Type != nil {
		e.Type, _ = types.ParseSourceType(string(*u.Type))
	}
	if u.Title != nil {
		e.Title = *u.Title
	}
	if u.Author != nil {
		e.Author = *u.Author
	}
	if u.Tags != nil {
		e.Tags = *u.Tags
	}
	if u.ProjectID != nil {
		e.ProjectID = *u.ProjectID
	}

	args := entryArgs(e)
	_, err = s.db.ExecContext(ctx,
		`UPDATE entries SET text = ?, type = ?, title = ?, author = ?, tags = ?, project_id = ? WHERE id = ?`,
		args[1], args[2], args[3], args[4], args[5], args[6], e.ID)
	if err != nil {
		return types.Entry{}, fmt.Errorf("updating entry %s: %w", id, err)
	}
	return e, nil
}

// Remove deletes the entry with id.
func (s *Store) Remove(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting entry %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("entry %s: %w", id, ErrNotFound)
	}
	return nil
}

// Filter narrows List results. Empty fields do not filter.
type Filter struct {
	// Query matches case- and accent-insensitively against text, title,
	// author, and tags.
	Query string

	ProjectID string
	Type      types.SourceType

	// IDs restricts results to the given entry IDs.
	IDs []string
}

// List returns entries matching f, newest first.
func (s *Store) List(ctx context.Context, f Filter) ([]types.Entry, error) {
	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(`SELECT ` + entryColumns + ` FROM entries WHERE 1=1`)
	if f.ProjectID != "" {
		qb.WriteString(` AND project_id = ?`)
		args = append(args, f.ProjectID)
	}
	if f.Type != "" {
		qb.WriteString(` AND type = ?`)
		args = append(args, string(f.Type))
	}
	if len(f.IDs) > 0 {
		qb.WriteString(` AND id IN (?` + strings.Repeat(`, ?`, len(f.IDs)-1) + `)`)
		for _, id := range f.IDs {
			args = append(args, id)
		}
	}
	qb.WriteString(` ORDER BY created_at DESC, rowid DESC`)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying library: %w", err)
	}
	defer rows.Close()

	needle := fold(strings.TrimSpace(f.Query))
	var out []types.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		if needle != "" && !matches(e, needle) {
			continue
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Search returns entries whose text, title, author, or tags contain query.
func (s *Store) Search(ctx context.Context, query string) ([]types.Entry, error) {
	return s.List(ctx, Filter{Query: query})
}

// Count returns the number of stored entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting entries: %w", err)
	}
	return n, nil
}

// Import inserts entries whose IDs are not already stored and returns how
// many were added. Entries are normalized first.
func (s *Store) Import(ctx context.Context, entries []types.Entry) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO entries (`+entryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	now := s.now()
	added := 0
	for _, e := range entries {
		e = Normalize(e, now)
		res, err := stmt.ExecContext(ctx, entryArgs(e)...)
		if err != nil {
			return 0, fmt.Errorf("importing entry %s: %w", e.ID, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			added++
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing import: %w", err)
	}
	return added, nil
}

// Clear removes every entry and project.
func (s *Store) Clear(ctx context.Context) error {
	for _, stmt := range []string{`DELETE FROM entries`, `DELETE FROM projects`} {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clearing library: %w", err)
		}
	}
	return nil
}
