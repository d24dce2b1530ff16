package sqlite

import (
	"context"

	"github.com/pkg/errors"

	"github.com/hrygo/portfolio/store"
)

func (d *DB) ListSkills(ctx context.Context, find *store.FindSkill) ([]*store.Skill, error) {
	where, args := []string{"1 = 1"}, []any{}
	if find.Category != nil {
		where, args = append(where, "category = ?"), append(args, *find.Category)
	}

	query := `SELECT id, name, category, level, created_ts
		FROM skill
		WHERE ` + joinWhere(where) + `
		ORDER BY category ASC, name ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list skills")
	}
	defer rows.Close()

	list := []*store.Skill{}
	for rows.Next() {
		var s store.Skill
		if err := rows.Scan(&s.ID, &s.Name, &s.Category, &s.Level, &s.CreatedTs); err != nil {
			return nil, errors.Wrap(err, "failed to scan skill")
		}
		list = append(list, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (d *DB) ReplaceSkills(ctx context.Context, skills []*store.Skill) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM skill`); err != nil {
		return errors.Wrap(err, "failed to clear skills")
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO skill (id, name, category, level, created_ts) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, "failed to prepare statement")
	}
	defer stmt.Close()

	for _, s := range skills {
		if _, err := stmt.ExecContext(ctx, s.ID, s.Name, s.Category, s.Level, s.CreatedTs); err != nil {
			return errors.Wrapf(err, "failed to insert skill %q", s.Name)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}
