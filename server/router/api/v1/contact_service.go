package v1

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/portfolio/internal/util"
	"github.com/hrygo/portfolio/store"
)

const (
	maxContactFieldLength   = 200
	maxContactMessageLength = 5000
)

type createContactMessageRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type createContactMessageResponse struct {
	Reference string `json:"reference"`
}

func (s *APIV1Service) CreateContactMessage(c echo.Context) error {
	var req createContactMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body").SetInternal(err)
	}
	msg := &store.ContactMessage{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Subject: strings.TrimSpace(req.Subject),
		Message: strings.TrimSpace(req.Message),
	}
	if msg.Name == "" || msg.Email == "" || msg.Subject == "" || msg.Message == "" {
		s.recordContact(false)
		return echo.NewHTTPError(http.StatusBadRequest, "Please fill in all required fields.")
	}
	if !util.ValidateEmail(msg.Email) {
		s.recordContact(false)
		return echo.NewHTTPError(http.StatusBadRequest, "Please enter a valid email address.")
	}
	if len(msg.Name) > maxContactFieldLength || len(msg.Subject) > maxContactFieldLength || len(msg.Message) > maxContactMessageLength {
		s.recordContact(false)
		return echo.NewHTTPError(http.StatusBadRequest, "Message is too long.")
	}

	created, err := s.Store.CreateContactMessage(c.Request().Context(), msg)
	if err != nil {
		s.recordContact(false)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to save message").SetInternal(err)
	}
	s.recordContact(true)
	slog.Info("contact message received",
		"reference", created.Reference,
		"subject", util.TruncateRunes(created.Subject, 60),
	)

	s.Dispatcher.DispatchAsync(created)
	return c.JSON(http.StatusCreated, &createContactMessageResponse{Reference: created.Reference})
}

func (s *APIV1Service) recordContact(success bool) {
	if s.Metrics != nil {
		s.Metrics.RecordContactMessage(success)
	}
}
