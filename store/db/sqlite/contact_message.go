package sqlite

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/hrygo/portfolio/store"
)

func (d *DB) CreateContactMessage(ctx context.Context, create *store.ContactMessage) (*store.ContactMessage, error) {
	stmt := `
		INSERT INTO contact_message (id, reference, name, email, subject, message, created_ts)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := d.db.ExecContext(ctx, stmt,
		create.ID, create.Reference, create.Name, create.Email, create.Subject, create.Message, create.CreatedTs,
	); err != nil {
		return nil, errors.Wrap(err, "failed to create contact message")
	}
	msg := *create
	return &msg, nil
}

func (d *DB) ListContactMessages(ctx context.Context, find *store.FindContactMessage) ([]*store.ContactMessage, error) {
	where, args := []string{"1 = 1"}, []any{}
	if find.Reference != nil {
		where, args = append(where, "reference = ?"), append(args, *find.Reference)
	}

	query := `SELECT id, reference, name, email, subject, message, created_ts
		FROM contact_message
		WHERE ` + joinWhere(where) + `
		ORDER BY created_ts DESC, seq DESC`
	if find.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list contact messages")
	}
	defer rows.Close()

	list := []*store.ContactMessage{}
	for rows.Next() {
		var m store.ContactMessage
		if err := rows.Scan(&m.ID, &m.Reference, &m.Name, &m.Email, &m.Subject, &m.Message, &m.CreatedTs); err != nil {
			return nil, errors.Wrap(err, "failed to scan contact message")
		}
		list = append(list, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}
