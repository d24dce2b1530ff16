package sqlite

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/hrygo/portfolio/store"
)

func (d *DB) ListProjects(ctx context.Context, find *store.FindProject) ([]*store.Project, error) {
	where, args := []string{"1 = 1"}, []any{}
	if find.ID != nil {
		where, args = append(where, "id = ?"), append(args, *find.ID)
	}

	query := `SELECT id, title, description, image, demo_url, github_url, technologies, created_ts
		FROM project
		WHERE ` + joinWhere(where) + `
		ORDER BY seq ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list projects")
	}
	defer rows.Close()

	list := []*store.Project{}
	for rows.Next() {
		var p store.Project
		var technologies string
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
			return nil, errors.Wrap(err, "failed to scan project")
		}
		if err := json.Unmarshal([]byte(technologies), &p.Technologies); err != nil {
			return nil, errors.Wrapf(err, "invalid technologies for project %s", p.ID)
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
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM project`); err != nil {
		return errors.Wrap(err, "failed to clear projects")
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO project (id, title, description, image, demo_url, github_url, technologies, created_ts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return errors.Wrap(err, "failed to prepare statement")
	}
	defer stmt.Close()

	for _, p := range projects {
		technologies, err := json.Marshal(p.Technologies)
		if err != nil {
			return errors.Wrap(err, "failed to marshal technologies")
		}
		if _, err := stmt.ExecContext(ctx, p.ID, p.Title, p.Description, p.Image, p.DemoURL, p.GitHubURL, string(technologies), p.CreatedTs); err != nil {
			return errors.Wrapf(err, "failed to insert project %q", p.Title)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}
