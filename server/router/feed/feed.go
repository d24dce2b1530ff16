// Package feed publishes the project list as RSS, Atom and JSON feeds.
package feed

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/feeds"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/hrygo/portfolio/internal/profile"
	"github.com/hrygo/portfolio/store"
)

const maxFeedItems = 50

type FeedService struct {
	Profile *profile.Profile
	Store   *store.Store
}

func NewFeedService(profile *profile.Profile, store *store.Store) *FeedService {
	return &FeedService{
		Profile: profile,
		Store:   store,
	}
}

func (s *FeedService) RegisterRoutes(g *echo.Group) {
	g.GET("/feed.xml", s.serve("application/rss+xml; charset=utf-8", (*feeds.Feed).ToRss))
	g.GET("/feed.atom", s.serve("application/atom+xml; charset=utf-8", (*feeds.Feed).ToAtom))
	g.GET("/feed.json", s.serve("application/feed+json; charset=utf-8", (*feeds.Feed).ToJSON))
}

func (s *FeedService) serve(contentType string, render func(*feeds.Feed) (string, error)) echo.HandlerFunc {
	return func(c echo.Context) error {
		feed, err := s.buildFeed(c.Request().Context(), s.baseURL(c))
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to build feed").SetInternal(err)
		}
		body, err := render(feed)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to render feed").SetInternal(err)
		}
		c.Response().Header().Set(echo.HeaderCacheControl, "public, max-age=600")
		return c.Blob(http.StatusOK, contentType, []byte(body))
	}
}

// baseURL prefers the configured instance URL over the request host.
func (s *FeedService) baseURL(c echo.Context) string {
	if s.Profile.InstanceURL != "" {
		return strings.TrimRight(s.Profile.InstanceURL, "/")
	}
	return c.Scheme() + "://" + c.Request().Host
}

func (s *FeedService) buildFeed(ctx context.Context, baseURL string) (*feeds.Feed, error) {
	info, err := s.Store.GetPersonalInfo(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get personal info")
	}
	projects, err := s.Store.ListProjects(ctx, &store.FindProject{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list projects")
	}

	feed := &feeds.Feed{
		Title: "Projects",
		Link:  &feeds.Link{Href: baseURL},
		Items: []*feeds.Item{},
	}
	if info != nil {
		feed.Title = info.Name + " - Projects"
		feed.Description = info.Title
		feed.Author = &feeds.Author{Name: info.Name, Email: info.Email}
		feed.Created = time.Unix(info.CreatedTs, 0)
	}

	if len(projects) > maxFeedItems {
		projects = projects[:maxFeedItems]
	}
	for _, p := range projects {
		created := time.Unix(p.CreatedTs, 0)
		if created.After(feed.Updated) {
			feed.Updated = created
		}
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          p.ID,
			Title:       p.Title,
			Link:        &feeds.Link{Href: projectLink(baseURL, p)},
			Description: p.Description,
			Content:     projectContent(p),
			Created:     created,
		})
	}
	return feed, nil
}

func projectLink(baseURL string, p *store.Project) string {
	switch {
	case p.DemoURL != "":
		return p.DemoURL
	case p.GitHubURL != "":
		return p.GitHubURL
	default:
		return baseURL + "/projects/" + p.ID
	}
}

func projectContent(p *store.Project) string {
	var sb strings.Builder
	sb.WriteString("<p>")
	sb.WriteString(p.Description)
	sb.WriteString("</p>")
	if len(p.Technologies) > 0 {
		sb.WriteString("<p>Built with ")
		sb.WriteString(strings.Join(p.Technologies, ", "))
		sb.WriteString("</p>")
	}
	if p.GitHubURL != "" {
		sb.WriteString(`<p><a href="` + p.GitHubURL + `">Source</a></p>`)
	}
	return sb.String()
}
