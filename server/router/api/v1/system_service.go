package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/portfolio/internal/version"
)

type systemStatus struct {
	Version    string   `json:"version"`
	Mode       string   `json:"mode"`
	Driver     string   `json:"driver"`
	LLMEnabled bool     `json:"llm_enabled"`
	Rules      int      `json:"rules"`
	Notifiers  []string `json:"notifiers"`
}

func (s *APIV1Service) GetSystemStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, &systemStatus{
		Version:    version.GetCurrentVersion(s.Profile.Mode),
		Mode:       s.Profile.Mode,
		Driver:     s.Profile.Driver,
		LLMEnabled: s.ChatService.LLMEnabled(),
		Rules:      s.ChatService.RuleCount(),
		Notifiers:  s.Dispatcher.Names(),
	})
}
