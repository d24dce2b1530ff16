package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/hrygo/portfolio/store"
)

func (d *DB) CreateTodo(ctx context.Context, create *store.Todo) (*store.Todo, error) {
	stmt := `INSERT INTO todo (id, title, completed, created_ts) VALUES ($1, $2, $3, $4)`
	if _, err := d.db.ExecContext(ctx, stmt, create.ID, create.Title, create.Completed, create.CreatedTs); err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}
	todo := *create
	return &todo, nil
}

func (d *DB) ListTodos(ctx context.Context, find *store.FindTodo) ([]*store.Todo, error) {
	var cond conditions
	if find.ID != nil {
		cond.add("id = ?", *find.ID)
	}
	if find.Completed != nil {
		cond.add("completed = ?", *find.Completed)
	}

	query := `SELECT id, title, completed, created_ts
		FROM todo
		WHERE ` + cond.String() + `
		ORDER BY created_ts DESC, seq DESC`
	if find.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, cond.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	defer rows.Close()

	list := []*store.Todo{}
	for rows.Next() {
		var t store.Todo
		if err := rows.Scan(&t.ID, &t.Title, &t.Completed, &t.CreatedTs); err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		list = append(list, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (d *DB) UpdateTodo(ctx context.Context, update *store.UpdateTodo) (*store.Todo, error) {
	set, args := []string{}, []any{}
	if update.Title != nil {
		args = append(args, *update.Title)
		set = append(set, "title = "+placeholder(len(args)))
	}
	if update.Completed != nil {
		args = append(args, *update.Completed)
		set = append(set, "completed = "+placeholder(len(args)))
	}

	if len(set) > 0 {
		args = append(args, update.ID)
		stmt := `UPDATE todo SET ` + strings.Join(set, ", ") + ` WHERE id = ` + placeholder(len(args))
		result, err := d.db.ExecContext(ctx, stmt, args...)
		if err != nil {
			return nil, fmt.Errorf("failed to update todo: %w", err)
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			return nil, store.ErrNotFound
		}
	}

	list, err := d.ListTodos(ctx, &store.FindTodo{ID: &update.ID})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, store.ErrNotFound
	}
	return list[0], nil
}

func (d *DB) DeleteTodos(ctx context.Context, delete *store.DeleteTodo) (int64, error) {
	var cond conditions
	if delete.ID != nil {
		cond.add("id = ?", *delete.ID)
	}
	if delete.CreatedBefore != nil {
		cond.add("created_ts < ?", *delete.CreatedBefore)
	}
	if len(cond.where) == 0 {
		return 0, fmt.Errorf("refusing to delete todos without a condition")
	}

	result, err := d.db.ExecContext(ctx, `DELETE FROM todo WHERE `+cond.String(), cond.args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete todos: %w", err)
	}
	return result.RowsAffected()
}
