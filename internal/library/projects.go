// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/abnt-engine/pkg/types"
)

// AddProject creates a project named name.
func (s *Store) AddProject(ctx context.Context, name string) (types.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return types.Project{}, errors.New("project name is empty")
	}
	p := types.Project{ID: uuid.NewString(), Name: name, CreatedAt: s.now().UTC()}
	if err := s.insertProject(ctx, p, false); err != nil {
		return types.Project{}, err
	}
	return p, nil
}

func (s *Store) insertProject(ctx context.Context, p types.Project, ignoreExisting bool) error {
	verb := `INSERT`
	if ignoreExisting {
		verb = `INSERT OR IGNORE`
	}
	_, err := s.db.ExecContext(ctx,
		verb+` INTO projects (id, name, created_at) VALUES (?, ?, ?)`,
		p.ID, p.Name, p.CreatedAt.UTC().Format(timestampLayout))
	if err != nil {
		return fmt.Errorf("inserting project %s: %w", p.ID, err)
	}
	return nil
}

// ListProjects returns all projects, newest first.
func (s *Store) ListProjects(ctx context.Context) ([]types.Project, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, created_at FROM projects ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("querying projects: %w", err)
	}
	defer rows.Close()

	var out []types.Project
	for rows.Next() {
		var (
			p       types.Project
			created string
		)
		if err := rows.Scan(&p.ID, &p.Name, &created); err != nil {
			return nil, fmt.Errorf("scanning project: %w", err)
		}
		if p.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("decoding created_at of project %s: %w", p.ID, err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// RemoveProject deletes a project and detaches its entries, which stay in
// the library without a project. It returns the number of detached entries.
func (s *Store) RemoveProject(ctx context.Context, id string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("deleting project %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return 0, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}

	res, err = tx.ExecContext(ctx, `UPDATE entries SET project_id = NULL WHERE project_id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("detaching entries of project %s: %w", id, err)
	}
	detached, _ := res.RowsAffected()

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing project removal: %w", err)
	}
	return int(detached), nil
}
