package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hrygo/portfolio/store"
)

func (d *DB) UpsertPersonalInfo(ctx context.Context, upsert *store.PersonalInfo) (*store.PersonalInfo, error) {
	stmt := `
		INSERT INTO personal_info (id, name, title, bio, email, phone, location, github, linkedin, created_ts)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			title = EXCLUDED.title,
			bio = EXCLUDED.bio,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			location = EXCLUDED.location,
			github = EXCLUDED.github,
			linkedin = EXCLUDED.linkedin
	`
	if _, err := d.db.ExecContext(ctx, stmt,
		upsert.ID, upsert.Name, upsert.Title, upsert.Bio, upsert.Email,
		upsert.Phone, upsert.Location, upsert.GitHub, upsert.LinkedIn, upsert.CreatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to upsert personal_info: %w", err)
	}
	return d.GetPersonalInfo(ctx)
}

func (d *DB) GetPersonalInfo(ctx context.Context) (*store.PersonalInfo, error) {
	query := `SELECT id, name, title, bio, email, phone, location, github, linkedin, created_ts
		FROM personal_info ORDER BY created_ts LIMIT 1`
	var info store.PersonalInfo
	err := d.db.QueryRowContext(ctx, query).Scan(
		&info.ID,
		&info.Name,
		&info.Title,
		&info.Bio,
		&info.Email,
		&info.Phone,
		&info.Location,
		&info.GitHub,
		&info.LinkedIn,
		&info.CreatedTs,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get personal_info: %w", err)
	}
	return &info, nil
}
