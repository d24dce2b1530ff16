package v1

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/hrygo/portfolio/store"
)

const (
	// DefaultProjectPageSize matches the three-card project carousel.
	DefaultProjectPageSize = 3
	MaxProjectPageSize     = 50
)

type listProjectsResponse struct {
	Projects  []*store.Project `json:"projects"`
	Page      int              `json:"page"`
	PageSize  int              `json:"page_size"`
	PageCount int              `json:"page_count"`
	Total     int              `json:"total"`
}

// ListProjects returns one page of projects. The page index wraps around, so
// the carousel can step past either end.
func (s *APIV1Service) ListProjects(c echo.Context) error {
	page, err := queryInt(c, "page", 0)
	if err != nil {
		return err
	}
	pageSize, err := queryInt(c, "page_size", DefaultProjectPageSize)
	if err != nil {
		return err
	}
	if pageSize <= 0 || pageSize > MaxProjectPageSize {
		return echo.NewHTTPError(http.StatusBadRequest, "page_size must be between 1 and 50")
	}

	ctx := c.Request().Context()
	projects, err := s.Store.ListProjects(ctx, &store.FindProject{})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list projects").SetInternal(err)
	}

	if filter := strings.TrimSpace(c.QueryParam("filter")); filter != "" {
		projects, err = s.filterProjects(ctx, filter, projects)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
		}
	}

	resp := &listProjectsResponse{Projects: []*store.Project{}, PageSize: pageSize, Total: len(projects)}
	if resp.Total > 0 {
		resp.PageCount = (resp.Total + pageSize - 1) / pageSize
		resp.Page = wrapIndex(page, resp.PageCount)
		start := resp.Page * pageSize
		end := min(start+pageSize, resp.Total)
		resp.Projects = projects[start:end]
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *APIV1Service) GetProject(c echo.Context) error {
	project, err := s.Store.GetProject(c.Request().Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "project not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to get project").SetInternal(err)
	}
	return c.JSON(http.StatusOK, project)
}

func newProjectEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		cel.Variable("title", cel.StringType),
		cel.Variable("description", cel.StringType),
		cel.Variable("technologies", cel.ListType(cel.StringType)),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create CEL environment")
	}
	return env, nil
}

func (s *APIV1Service) compileProjectFilter(filter string) (cel.Program, error) {
	return s.projectFilters.GetOrCreate(filter, func() (cel.Program, error) {
		ast, issues := s.projectEnv.Compile(filter)
		if issues != nil && issues.Err() != nil {
			return nil, errors.Wrapf(issues.Err(), "invalid filter expression: %s", filter)
		}
		if !ast.OutputType().IsExactType(cel.BoolType) {
			return nil, errors.Errorf("filter must be a boolean expression, got %s", ast.OutputType())
		}
		program, err := s.projectEnv.Program(ast)
		if err != nil {
			return nil, errors.Wrap(err, "failed to build filter program")
		}
		return program, nil
	})
}

// filterProjects keeps projects for which the CEL expression holds, e.g.
// `"Go" in technologies && title.contains("Dashboard")`.
func (s *APIV1Service) filterProjects(ctx context.Context, filter string, projects []*store.Project) ([]*store.Project, error) {
	program, err := s.compileProjectFilter(filter)
	if err != nil {
		return nil, err
	}

	filtered := []*store.Project{}
	for _, p := range projects {
		out, _, err := program.ContextEval(ctx, map[string]any{
			"title":        p.Title,
			"description":  p.Description,
			"technologies": p.Technologies,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to evaluate filter on project %q", p.Title)
		}
		if matched, ok := out.Value().(bool); ok && matched {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// wrapIndex maps any integer onto [0, n).
func wrapIndex(i, n int) int {
	return ((i % n) + n) % n
}

func queryInt(c echo.Context, name string, def int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be an integer")
	}
	return v, nil
}
