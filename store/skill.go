package store

import (
	"context"

	"github.com/pkg/errors"
)

// Skill is a named competency with a 0-100 level.
type Skill struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Level     int    `json:"level"`
	CreatedTs int64  `json:"created_ts"`
}

// FindSkill is the find condition for skills.
// Skills are ordered by category, then name.
type FindSkill struct {
	Category *string
}

func (s *Store) ListSkills(ctx context.Context, find *FindSkill) ([]*Skill, error) {
	return s.driver.ListSkills(ctx, find)
}

// ReplaceSkills atomically swaps the whole skill list.
func (s *Store) ReplaceSkills(ctx context.Context, skills []*Skill) error {
	now := s.nowTs()
	for _, sk := range skills {
		if sk.Level < 0 || sk.Level > 100 {
			return errors.Errorf("skill %q level %d out of range 0-100", sk.Name, sk.Level)
		}
		if sk.ID == "" {
			sk.ID = s.newID()
		}
		if sk.CreatedTs == 0 {
			sk.CreatedTs = now
		}
	}
	return s.driver.ReplaceSkills(ctx, skills)
}
