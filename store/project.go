package store

import "context"

// Project is a portfolio entry.
type Project struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Image        string   `json:"image"`
	DemoURL      string   `json:"demo_url"`
	GitHubURL    string   `json:"github_url"`
	Technologies []string `json:"technologies"`
	CreatedTs    int64    `json:"created_ts"`
}

// FindProject is the find condition for projects.
// Projects are returned in insertion order.
type FindProject struct {
	ID *string
}

func (s *Store) ListProjects(ctx context.Context, find *FindProject) ([]*Project, error) {
	return s.driver.ListProjects(ctx, find)
}

// GetProject returns the project with the given ID or ErrNotFound.
func (s *Store) GetProject(ctx context.Context, id string) (*Project, error) {
	list, err := s.driver.ListProjects(ctx, &FindProject{ID: &id})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrNotFound
	}
	return list[0], nil
}

// ReplaceProjects atomically swaps the whole project list.
func (s *Store) ReplaceProjects(ctx context.Context, projects []*Project) error {
	now := s.nowTs()
	for _, p := range projects {
		if p.ID == "" {
			p.ID = s.newID()
		}
		if p.CreatedTs == 0 {
			p.CreatedTs = now
		}
		if p.Technologies == nil {
			p.Technologies = []string{}
		}
	}
	return s.driver.ReplaceProjects(ctx, projects)
}
