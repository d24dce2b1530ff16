package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/hrygo/portfolio/ai/chat"
	"github.com/hrygo/portfolio/ai/core/llm"
	"github.com/hrygo/portfolio/ai/metrics"
	"github.com/hrygo/portfolio/ai/responder"
	"github.com/hrygo/portfolio/internal/profile"
	"github.com/hrygo/portfolio/internal/util"
	"github.com/hrygo/portfolio/plugin/cron"
	"github.com/hrygo/portfolio/plugin/email"
	"github.com/hrygo/portfolio/plugin/notify"
	"github.com/hrygo/portfolio/plugin/telegram"
	"github.com/hrygo/portfolio/plugin/webhook"
	apiv1 "github.com/hrygo/portfolio/server/router/api/v1"
	"github.com/hrygo/portfolio/server/router/feed"
	"github.com/hrygo/portfolio/server/router/frontend"
	"github.com/hrygo/portfolio/store"
)

type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer  *echo.Echo
	metrics     *metrics.PrometheusExporter
	chatService *chat.Service
	llmService  llm.Service
	dispatcher  *notify.Dispatcher
	todoReset   *cron.TodoReset
	// routes holds the registered route templates used as metric labels.
	routes map[string]bool
}

func NewServer(ctx context.Context, profile *profile.Profile, store *store.Store) (*Server, error) {
	s := &Server{
		Store:   store,
		Profile: profile,
		metrics: metrics.NewPrometheusExporter(metrics.DefaultConfig()),
	}

	echoServer := echo.New()
	echoServer.Debug = profile.IsDev()
	echoServer.HideBanner = true
	echoServer.HidePort = true
	echoServer.HTTPErrorHandler = apiv1.HTTPErrorHandler
	echoServer.Use(s.requestLogger())
	echoServer.Use(middleware.Recover())
	s.echoServer = echoServer

	chatService, err := s.newChatService(ctx)
	if err != nil {
		return nil, err
	}
	s.chatService = chatService
	s.dispatcher = notify.NewDispatcher(s.metrics, newNotifiers(profile)...)
	s.todoReset = cron.NewTodoReset(store, profile.TodoResetCron, profile.TodoRetention, s.metrics)

	// Register healthz endpoint.
	echoServer.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "Service ready.")
	})
	echoServer.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))

	apiV1Service, err := apiv1.NewAPIV1Service(profile, store, s.chatService, s.dispatcher, s.metrics)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create API service")
	}
	apiV1Service.RegisterRoutes(echoServer)
	feed.NewFeedService(profile, store).RegisterRoutes(echoServer.Group(""))

	// Serve frontend static files.
	frontend.NewFrontendService(profile).Serve(ctx, echoServer)

	s.routes = map[string]bool{}
	for _, route := range echoServer.Routes() {
		s.routes[route.Path] = true
	}
	return s, nil
}

func (s *Server) newChatService(ctx context.Context) (*chat.Service, error) {
	table := responder.DefaultTable()
	if s.Profile.ChatRulesPath != "" {
		loaded, err := responder.LoadTable(s.Profile.ChatRulesPath)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load chat rules")
		}
		table = loaded
		slog.Info("Loaded custom chat rules", "path", s.Profile.ChatRulesPath, "rules", table.Len())
	}

	owner := ""
	if info, err := s.Store.GetPersonalInfo(ctx); err != nil {
		slog.Warn("Failed to read personal info for chat prompt", "error", err)
	} else if info != nil {
		owner = info.Name
	}

	opts := []chat.Option{
		chat.WithMetrics(s.metrics),
		chat.WithSystemPrompt(chat.SystemPromptFor(owner)),
	}
	if s.Profile.IsLLMEnabled() {
		llmService, err := llm.NewService(&llm.Config{
			Provider: s.Profile.LLMProvider,
			Model:    s.Profile.LLMModel,
			APIKey:   s.Profile.LLMAPIKey,
			BaseURL:  s.Profile.LLMBaseURL,
			Timeout:  s.Profile.LLMTimeout,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to create LLM service")
		}
		s.llmService = llmService
		opts = append(opts, chat.WithLLM(chat.LLMOptions{
			Service:  llmService,
			Model:    s.Profile.LLMModel,
			Provider: s.Profile.LLMProvider,
		}))
	}

	return chat.NewService(responder.New(table, responder.WithRecorder(s.metrics)), opts...), nil
}

// newNotifiers builds the configured contact notifiers. A notifier that
// fails to initialize is logged and skipped.
func newNotifiers(profile *profile.Profile) []notify.Notifier {
	var notifiers []notify.Notifier

	if profile.IsSMTPEnabled() {
		notifier, err := email.NewNotifier(&email.Config{
			SMTPHost:     profile.SMTPHost,
			SMTPPort:     profile.SMTPPort,
			SMTPUsername: profile.SMTPUsername,
			SMTPPassword: profile.SMTPPassword,
			FromEmail:    profile.MailFrom,
			FromName:     "Portfolio",
		}, profile.MailTo)
		if err != nil {
			slog.Warn("Email notifications disabled", "error", err)
		} else {
			notifiers = append(notifiers, notifier)
		}
	}

	if profile.WebhookURL != "" {
		notifiers = append(notifiers, webhook.NewNotifier(profile.WebhookURL))
	}

	if profile.IsTelegramEnabled() {
		notifier, err := telegram.NewNotifier(&telegram.Config{
			BotToken: profile.TelegramBotToken,
			ChatID:   profile.TelegramChatID,
		})
		if err != nil {
			slog.Warn("Telegram notifications disabled", "error", err)
		} else {
			notifiers = append(notifiers, notifier)
		}
	}

	return notifiers
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.metrics.RecordHTTPRequest(v.Method, s.routeLabel(c), v.Status)
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"remote_ip", v.RemoteIP,
			}
			if v.Error != nil {
				slog.Warn("HTTP request failed", append(attrs, "error", v.Error)...)
				return nil
			}
			slog.Debug("HTTP request", attrs...)
			return nil
		},
	})
}

func (s *Server) routeLabel(c echo.Context) string {
	switch {
	case s.routes[c.Path()]:
		return c.Path()
	case !util.HasPrefixes(c.Request().URL.Path, "/api", "/feed", "/healthz", "/metrics"):
		return "static"
	default:
		return "unmatched"
	}
}

func (s *Server) Start(ctx context.Context) error {
	var address, network string
	if len(s.Profile.UNIXSock) == 0 {
		address = fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
		network = "tcp"
	} else {
		address = s.Profile.UNIXSock
		network = "unix"
	}
	listener, err := net.Listen(network, address)
	if err != nil {
		return errors.Wrap(err, "failed to listen")
	}

	if err := s.todoReset.Start(ctx); err != nil {
		_ = listener.Close()
		return errors.Wrap(err, "failed to start todo reset job")
	}
	if s.llmService != nil {
		go s.llmService.Warmup(ctx)
	}

	s.echoServer.Listener = listener
	go func() {
		if err := s.echoServer.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to start echo server", "error", err)
		}
	}()
	return nil
}

// Addr returns the listening address once Start has returned.
func (s *Server) Addr() net.Addr {
	return s.echoServer.ListenerAddr()
}

func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	slog.Info("server shutting down")

	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server", slog.String("error", err.Error()))
	}

	s.todoReset.Stop()
	// Let in-flight contact notifications finish.
	s.dispatcher.Wait()

	if err := s.Store.Close(); err != nil {
		slog.Error("failed to close database", slog.String("error", err.Error()))
	}

	slog.Info("portfolio stopped properly")
}

// GetEcho returns the echo server instance.
func (s *Server) GetEcho() *echo.Echo {
	return s.echoServer
}
