package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hrygo/portfolio/store"
)

func (d *DB) ListProjects(ctx context.Context, find *store.FindProject) ([]*store.Project, error) {
	var cond conditions
	if find.ID != nil {
		cond.add("id = ?", *find.ID)
	}

	query := `SELECT id, title, description, image, demo_url, github_url, technologies, created_ts
		FROM project
		WHERE ` + cond.String() + `
		ORDER BY seq ASC`

	rows, err := d.db.QueryContext(ctx, query, cond.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	list := []*store.Project{}
	for rows.Next() {
		var p store.Project
		var technologies []byte
		if err := rows.Scan(
			&p.ID,
			&p.Title,
			&p.Description,
			&p.Image,
			&p.DemoURL,
			&p.GitHubURL,
			&technologies,
			&p.CreatedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		if err := json.Unmarshal(technologies, &p.Technologies); err != nil {
			return nil, fmt.Errorf("invalid technologies for project %s: %w", p.ID, err)
		}
		list = append(list, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (d *DB) ReplaceProjects(ctx context.Context, projects []*store.Project) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM project`); err != nil {
		return fmt.Errorf("failed to clear projects: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO project (id, title, description, image, demo_url, github_url, technologies, created_ts)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, p := range projects {
		technologies, err := json.Marshal(p.Technologies)
		if err != nil {
			return fmt.Errorf("failed to marshal technologies: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, p.ID, p.Title, p.Description, p.Image, p.DemoURL, p.GitHubURL, technologies, p.CreatedTs); err != nil {
			return fmt.Errorf("failed to insert project %q: %w", p.Title, err)
		}
	}
	return tx.Commit()
}
