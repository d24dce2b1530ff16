package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/hrygo/portfolio/store"
)

func joinWhere(where []string) string {
	return strings.Join(where, " AND ")
}

func (d *DB) CreateTodo(ctx context.Context, create *store.Todo) (*store.Todo, error) {
	stmt := `INSERT INTO todo (id, title, completed, created_ts) VALUES (?, ?, ?, ?)`
	if _, err := d.db.ExecContext(ctx, stmt, create.ID, create.Title, create.Completed, create.CreatedTs); err != nil {
		return nil, errors.Wrap(err, "failed to create todo")
	}
	todo := *create
	return &todo, nil
}

func (d *DB) ListTodos(ctx context.Context, find *store.FindTodo) ([]*store.Todo, error) {
	where, args := []string{"1 = 1"}, []any{}
	if find.ID != nil {
		where, args = append(where, "id = ?"), append(args, *find.ID)
	}
	if find.Completed != nil {
		where, args = append(where, "completed = ?"), append(args, *find.Completed)
	}

	query := `SELECT id, title, completed, created_ts
		FROM todo
		WHERE ` + joinWhere(where) + `
		ORDER BY created_ts DESC, seq DESC`
	if find.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list todos")
	}
	defer rows.Close()

	list := []*store.Todo{}
	for rows.Next() {
		var t store.Todo
		if err := rows.Scan(&t.ID, &t.Title, &t.Completed, &t.CreatedTs); err != nil {
			return nil, errors.Wrap(err, "failed to scan todo")
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
		set, args = append(set, "title = ?"), append(args, *update.Title)
	}
	if update.Completed != nil {
		set, args = append(set, "completed = ?"), append(args, *update.Completed)
	}

	if len(set) > 0 {
		args = append(args, update.ID)
		stmt := `UPDATE todo SET ` + strings.Join(set, ", ") + ` WHERE id = ?`
		result, err := d.db.ExecContext(ctx, stmt, args...)
		if err != nil {
			return nil, errors.Wrap(err, "failed to update todo")
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
	where, args := []string{}, []any{}
	if delete.ID != nil {
		where, args = append(where, "id = ?"), append(args, *delete.ID)
	}
	if delete.CreatedBefore != nil {
		where, args = append(where, "created_ts < ?"), append(args, *delete.CreatedBefore)
	}
	if len(where) == 0 {
		return 0, errors.New("refusing to delete todos without a condition")
	}

	result, err := d.db.ExecContext(ctx, `DELETE FROM todo WHERE `+joinWhere(where), args...)
	if err != nil {
		return 0, errors.Wrap(err, "failed to delete todos")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "failed to count deleted todos")
	}
	return rows, nil
}
