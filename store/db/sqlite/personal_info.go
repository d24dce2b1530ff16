package sqlite

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/hrygo/portfolio/store"
)

func (d *DB) UpsertPersonalInfo(ctx context.Context, upsert *store.PersonalInfo) (*store.PersonalInfo, error) {
	stmt := `
		INSERT INTO personal_info (id, name, title, bio, email, phone, location, github, linkedin, created_ts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			title = excluded.title,
			bio = excluded.bio,
			email = excluded.email,
			phone = excluded.phone,
			location = excluded.location,
			github = excluded.github,
			linkedin = excluded.linkedin
	`
	_, err := d.db.ExecContext(ctx, stmt,
		upsert.ID, upsert.Name, upsert.Title, upsert.Bio, upsert.Email,
		upsert.Phone, upsert.Location, upsert.GitHub, upsert.LinkedIn, upsert.CreatedTs,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to upsert personal info")
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
		return nil, errors.Wrap(err, "failed to get personal info")
	}
	return &info, nil
}
