package v1

import (
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/portfolio/store"
)

type categoryLabel struct {
	Name  string
	Label string
}

// skillCategoryLabels lists the known categories in display order.
var skillCategoryLabels = []categoryLabel{
	{"frontend", "Frontend"},
	{"backend", "Backend"},
	{"database", "Database"},
	{"devops", "DevOps & Tools"},
}

type skillCategory struct {
	Name   string         `json:"name"`
	Label  string         `json:"label"`
	Skills []*store.Skill `json:"skills"`
}

type listSkillsResponse struct {
	Skills     []*store.Skill   `json:"skills"`
	Categories []*skillCategory `json:"categories"`
}

func (s *APIV1Service) ListSkills(c echo.Context) error {
	skills, err := s.Store.ListSkills(c.Request().Context(), &store.FindSkill{})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list skills").SetInternal(err)
	}
	return c.JSON(http.StatusOK, &listSkillsResponse{Skills: skills, Categories: groupSkills(skills)})
}

// groupSkills groups skills by category: known categories first in display
// order, then any others in the order they appear.
func groupSkills(skills []*store.Skill) []*skillCategory {
	byName := map[string]*skillCategory{}
	var others []*skillCategory
	for _, sk := range skills {
		group, ok := byName[sk.Category]
		if !ok {
			group = &skillCategory{Name: sk.Category, Label: sk.Category}
			byName[sk.Category] = group
			if !slices.ContainsFunc(skillCategoryLabels, func(l categoryLabel) bool { return l.Name == sk.Category }) {
				others = append(others, group)
			}
		}
		group.Skills = append(group.Skills, sk)
	}

	categories := []*skillCategory{}
	for _, l := range skillCategoryLabels {
		if group, ok := byName[l.Name]; ok {
			group.Label = l.Label
			categories = append(categories, group)
		}
	}
	return append(categories, others...)
}
