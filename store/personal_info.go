package store

import "context"

// PersonalInfo is the site owner's profile. There is at most one row.
type PersonalInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Title     string `json:"title"`
	Bio       string `json:"bio"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Location  string `json:"location"`
	GitHub    string `json:"github"`
	LinkedIn  string `json:"linkedin"`
	CreatedTs int64  `json:"created_ts"`
}

// UpsertPersonalInfo writes the profile row, keeping the existing ID if any.
func (s *Store) UpsertPersonalInfo(ctx context.Context, upsert *PersonalInfo) (*PersonalInfo, error) {
	if upsert.ID == "" {
		existing, err := s.driver.GetPersonalInfo(ctx)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			upsert.ID = existing.ID
			upsert.CreatedTs = existing.CreatedTs
		} else {
			upsert.ID = s.newID()
		}
	}
	if upsert.CreatedTs == 0 {
		upsert.CreatedTs = s.nowTs()
	}
	return s.driver.UpsertPersonalInfo(ctx, upsert)
}

// GetPersonalInfo returns the profile row, or nil if none has been written.
func (s *Store) GetPersonalInfo(ctx context.Context) (*PersonalInfo, error) {
	return s.driver.GetPersonalInfo(ctx)
}
