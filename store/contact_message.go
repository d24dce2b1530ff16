package store

import (
	"context"

	"github.com/lithammer/shortuuid/v4"
)

// ContactMessage is a submission of the contact form.
type ContactMessage struct {
	ID        string `json:"id"`
	Reference string `json:"reference"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
	CreatedTs int64  `json:"created_ts"`
}

// FindContactMessage is the find condition for contact messages.
// Results are newest first.
type FindContactMessage struct {
	Reference *string
	Limit     int
}

// CreateContactMessage stores a submission and assigns its reference code.
func (s *Store) CreateContactMessage(ctx context.Context, create *ContactMessage) (*ContactMessage, error) {
	create.ID = s.newID()
	create.Reference = shortuuid.New()[:10]
	create.CreatedTs = s.nowTs()
	return s.driver.CreateContactMessage(ctx, create)
}

func (s *Store) ListContactMessages(ctx context.Context, find *FindContactMessage) ([]*ContactMessage, error) {
	return s.driver.ListContactMessages(ctx, find)
}
