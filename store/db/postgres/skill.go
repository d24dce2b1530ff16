package postgres

import (
	"context"
	"fmt"

	"github.com/hrygo/portfolio/store"
)

func (d *DB) ListSkills(ctx context.Context, find *store.FindSkill) ([]*store.Skill, error) {
	var cond conditions
	if find.Category != nil {
		cond.add("category = ?", *find.Category)
	}

	query := `SELECT id, name, category, level, created_ts
		FROM skill
		WHERE ` + cond.String() + `
		ORDER BY category ASC, name ASC`

	rows, err := d.db.QueryContext(ctx, query, cond.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}
	defer rows.Close()

	list := []*store.Skill{}
	for rows.Next() {
		var s store.Skill
		if err := rows.Scan(&s.ID, &s.Name, &s.Category, &s.Level, &s.CreatedTs); err != nil {
			return nil, fmt.Errorf("failed to scan skill: %w", err)
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
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM skill`); err != nil {
		return fmt.Errorf("failed to clear skills: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO skill (id, name, category, level, created_ts) VALUES ($1, $2, $3, $4, $5)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, s := range skills {
		if _, err := stmt.ExecContext(ctx, s.ID, s.Name, s.Category, s.Level, s.CreatedTs); err != nil {
			return fmt.Errorf("failed to insert skill %q: %w", s.Name, err)
		}
	}
	return tx.Commit()
}
