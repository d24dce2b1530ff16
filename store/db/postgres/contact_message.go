package postgres

import (
	"context"
	"fmt"

	"github.com/hrygo/portfolio/store"
)

func (d *DB) CreateContactMessage(ctx context.Context, create *store.ContactMessage) (*store.ContactMessage, error) {
	stmt := `
		INSERT INTO contact_message (id, reference, name, email, subject, message, created_ts)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := d.db.ExecContext(ctx, stmt,
		create.ID, create.Reference, create.Name, create.Email, create.Subject, create.Message, create.CreatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to create contact_message: %w", err)
	}
	msg := *create
	return &msg, nil
}

func (d *DB) ListContactMessages(ctx context.Context, find *store.FindContactMessage) ([]*store.ContactMessage, error) {
	var cond conditions
	if find.Reference != nil {
		cond.add("reference = ?", *find.Reference)
	}

	query := `SELECT id, reference, name, email, subject, message, created_ts
		FROM contact_message
		WHERE ` + cond.String() + `
		ORDER BY created_ts DESC, seq DESC`
	if find.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, cond.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact messages: %w", err)
	}
	defer rows.Close()

	list := []*store.ContactMessage{}
	for rows.Next() {
		var m store.ContactMessage
		if err := rows.Scan(&m.ID, &m.Reference, &m.Name, &m.Email, &m.Subject, &m.Message, &m.CreatedTs); err != nil {
			return nil, fmt.Errorf("failed to scan contact message: %w", err)
		}
		list = append(list, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}
