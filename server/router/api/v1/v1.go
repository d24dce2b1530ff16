package v1

import (
	"errors"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/google/cel-go/cel"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/time/rate"

	"github.com/hrygo/portfolio/ai/chat"
	"github.com/hrygo/portfolio/ai/metrics"
	"github.com/hrygo/portfolio/internal/cache"
	"github.com/hrygo/portfolio/internal/profile"
	"github.com/hrygo/portfolio/plugin/notify"
	"github.com/hrygo/portfolio/store"
)

type APIV1Service struct {
	Profile     *profile.Profile
	Store       *store.Store
	ChatService *chat.Service
	Dispatcher  *notify.Dispatcher
	// Metrics is optional.
	Metrics *metrics.PrometheusExporter

	markdown       goldmark.Markdown
	projectEnv     *cel.Env
	projectFilters *cache.LRU[string, cel.Program]
}

func NewAPIV1Service(profile *profile.Profile, store *store.Store, chatService *chat.Service, dispatcher *notify.Dispatcher, exporter *metrics.PrometheusExporter) (*APIV1Service, error) {
	env, err := newProjectEnv()
	if err != nil {
		return nil, err
	}
	if dispatcher == nil {
		dispatcher = notify.NewDispatcher(nil)
	}
	return &APIV1Service{
		Profile:     profile,
		Store:       store,
		ChatService: chatService,
		Dispatcher:  dispatcher,
		Metrics:     exporter,
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
		projectEnv:     env,
		projectFilters: cache.NewLRU[string, cel.Program](64),
	}, nil
}

// RegisterRoutes registers the REST API with the given Echo instance.
func (s *APIV1Service) RegisterRoutes(echoServer *echo.Echo) {
	api := echoServer.Group("/api/v1", middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAccept},
	}))

	api.GET("/profile", s.GetProfile)
	api.GET("/portfolio", s.GetPortfolio)
	api.GET("/projects", s.ListProjects)
	api.GET("/projects/:id", s.GetProject)
	api.GET("/skills", s.ListSkills)

	api.GET("/todos", s.ListTodos)
	api.POST("/todos", s.CreateTodo)
	api.PATCH("/todos/:id", s.UpdateTodo)
	api.POST("/todos/:id/toggle", s.ToggleTodo)
	api.DELETE("/todos/:id", s.DeleteTodo)

	api.POST("/contact", s.CreateContactMessage)

	var chatMiddleware []echo.MiddlewareFunc
	if limit := s.Profile.ChatRateLimit; limit > 0 {
		chatMiddleware = append(chatMiddleware, newChatRateLimiter(limit))
	}
	api.POST("/chat", s.Chat, chatMiddleware...)

	api.GET("/system/status", s.GetSystemStatus)
}

// newChatRateLimiter limits chat requests per client IP to limit per second.
func newChatRateLimiter(limit float64) echo.MiddlewareFunc {
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(limit),
			Burst:     int(math.Max(1, math.Ceil(limit))),
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(_ echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, "unable to identify client").SetInternal(err)
		},
		DenyHandler: func(_ echo.Context, _ string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "Too many chat requests, please slow down.").SetInternal(err)
		},
	})
}

// HTTPErrorHandler writes errors as {"error": message}.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(code)
		}
		if he.Internal != nil && code >= http.StatusInternalServerError {
			slog.Error("request failed", "path", c.Path(), "error", he.Internal)
		}
	} else {
		slog.Error("request failed", "path", c.Path(), "error", err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, map[string]string{"error": message})
	}
	if err != nil {
		slog.Error("failed to write error response", "error", err)
	}
}
