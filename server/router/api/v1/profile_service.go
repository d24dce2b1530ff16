package v1

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/hrygo/portfolio/store"
)

type profileResponse struct {
	*store.PersonalInfo
	BioHTML string `json:"bio_html"`
}

type portfolioResponse struct {
	Profile  *profileResponse `json:"profile"`
	Projects []*store.Project `json:"projects"`
	Skills   []*store.Skill   `json:"skills"`
}

func (s *APIV1Service) GetProfile(c echo.Context) error {
	info, err := s.Store.GetPersonalInfo(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to get profile").SetInternal(err)
	}
	if info == nil {
		return echo.NewHTTPError(http.StatusNotFound, "profile not found")
	}
	resp, err := s.convertProfile(info)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to render profile").SetInternal(err)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetPortfolio returns everything the landing page renders in one round trip.
func (s *APIV1Service) GetPortfolio(c echo.Context) error {
	var (
		info     *store.PersonalInfo
		projects []*store.Project
		skills   []*store.Skill
	)
	g, ctx := errgroup.WithContext(c.Request().Context())
	g.Go(func() error {
		var err error
		info, err = s.Store.GetPersonalInfo(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		projects, err = s.Store.ListProjects(ctx, &store.FindProject{})
		return err
	})
	g.Go(func() error {
		var err error
		skills, err = s.Store.ListSkills(ctx, &store.FindSkill{})
		return err
	})
	if err := g.Wait(); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load portfolio").SetInternal(err)
	}

	resp := &portfolioResponse{Projects: projects, Skills: skills}
	if info != nil {
		p, err := s.convertProfile(info)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to render profile").SetInternal(err)
		}
		resp.Profile = p
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *APIV1Service) convertProfile(info *store.PersonalInfo) (*profileResponse, error) {
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(info.Bio), &buf); err != nil {
		return nil, err
	}
	return &profileResponse{PersonalInfo: info, BioHTML: buf.String()}, nil
}
