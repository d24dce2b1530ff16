// Package seed loads site content (profile, projects, skills) from YAML into the store.
package seed

import (
	"context"
	_ "embed"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/hrygo/portfolio/internal/version"
	"github.com/hrygo/portfolio/store"
)

//go:embed example.yaml
var exampleContent []byte

// Content is the YAML layout of a seed file.
type Content struct {
	// Version is the oldest server version that understands this file.
	Version  string           `yaml:"version"`
	Profile  *ProfileContent  `yaml:"profile"`
	Projects []ProjectContent `yaml:"projects"`
	Skills   []SkillContent   `yaml:"skills"`
}

type ProfileContent struct {
	Name     string `yaml:"name"`
	Title    string `yaml:"title"`
	Bio      string `yaml:"bio"`
	Email    string `yaml:"email"`
	Phone    string `yaml:"phone"`
	Location string `yaml:"location"`
	GitHub   string `yaml:"github"`
	LinkedIn string `yaml:"linkedin"`
}

type ProjectContent struct {
	Title        string   `yaml:"title"`
	Description  string   `yaml:"description"`
	Image        string   `yaml:"image"`
	DemoURL      string   `yaml:"demo_url"`
	GitHubURL    string   `yaml:"github_url"`
	Technologies []string `yaml:"technologies"`
}

type SkillContent struct {
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
	Level    int    `yaml:"level"`
}

// Result summarizes what Apply wrote.
type Result struct {
	Profile  bool
	Projects int
	Skills   int
}

// Parse decodes and validates seed content.
func Parse(data []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrap(err, "failed to parse seed content")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadFile reads seed content from path.
func LoadFile(path string) (*Content, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read seed file %s", path)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "seed file %s", path)
	}
	return c, nil
}

// Example returns the bundled demo content.
func Example() *Content {
	c, err := Parse(exampleContent)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Content) Validate() error {
	if c.Profile != nil && strings.TrimSpace(c.Profile.Name) == "" {
		return errors.New("profile name is required")
	}
	for i, p := range c.Projects {
		if strings.TrimSpace(p.Title) == "" {
			return errors.Errorf("project #%d has no title", i+1)
		}
	}
	for i, s := range c.Skills {
		if strings.TrimSpace(s.Name) == "" {
			return errors.Errorf("skill #%d has no name", i+1)
		}
		if s.Level < 0 || s.Level > 100 {
			return errors.Errorf("skill %q level %d out of range 0-100", s.Name, s.Level)
		}
	}
	return nil
}

// Apply upserts the profile and replaces projects and skills. Sections absent
// from the content are left untouched.
func Apply(ctx context.Context, s *store.Store, c *Content, serverVersion string) (*Result, error) {
	if c.Version != "" && !version.IsVersionGreaterOrEqualThan(serverVersion, c.Version) {
		return nil, errors.Errorf("seed content requires server version %s or newer, running %s", c.Version, serverVersion)
	}

	result := &Result{}
	if c.Profile != nil {
		p := c.Profile
		if _, err := s.UpsertPersonalInfo(ctx, &store.PersonalInfo{
			Name:     p.Name,
			Title:    p.Title,
			Bio:      p.Bio,
			Email:    p.Email,
			Phone:    p.Phone,
			Location: p.Location,
			GitHub:   p.GitHub,
			LinkedIn: p.LinkedIn,
		}); err != nil {
			return nil, errors.Wrap(err, "failed to seed profile")
		}
		result.Profile = true
	}

	if c.Projects != nil {
		projects := make([]*store.Project, 0, len(c.Projects))
		for _, p := range c.Projects {
			projects = append(projects, &store.Project{
				Title:        p.Title,
				Description:  p.Description,
				Image:        p.Image,
				DemoURL:      p.DemoURL,
				GitHubURL:    p.GitHubURL,
				Technologies: p.Technologies,
			})
		}
		if err := s.ReplaceProjects(ctx, projects); err != nil {
			return nil, errors.Wrap(err, "failed to seed projects")
		}
		result.Projects = len(projects)
	}

	if c.Skills != nil {
		skills := make([]*store.Skill, 0, len(c.Skills))
		for _, sk := range c.Skills {
			skills = append(skills, &store.Skill{Name: sk.Name, Category: sk.Category, Level: sk.Level})
		}
		if err := s.ReplaceSkills(ctx, skills); err != nil {
			return nil, errors.Wrap(err, "failed to seed skills")
		}
		result.Skills = len(skills)
	}

	return result, nil
}
