package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Profile is configuration to start main server.
type Profile struct {
	// Chat completion proxy (OpenAI-compatible protocol)
	LLMProvider string // Provider identifier: openai, deepseek, openrouter, ollama
	LLMAPIKey   string
	LLMBaseURL  string // Optional, has default per provider
	LLMModel    string
	LLMTimeout  int // Request timeout in seconds (default: 60)

	// Contact notifications
	SMTPHost         string
	SMTPUsername     string
	SMTPPassword     string
	MailFrom         string
	MailTo           string
	WebhookURL       string
	TelegramBotToken string
	TelegramChatID   int64
	SMTPPort         int

	// Chat widget
	ChatRulesPath string  // Optional YAML file with extra reply rules
	ChatRateLimit float64 // Requests per second per client IP

	// Demo todo list
	TodoResetCron string // Cron spec for the demo reset job, empty disables it
	TodoRetention time.Duration

	// Other configurations
	UNIXSock    string
	Mode        string
	DSN         string
	Driver      string
	Version     string
	InstanceURL string
	Addr        string
	Data        string
	SeedFile    string
	Port        int
}

// Provider default configurations for the chat proxy.
// Used when PORTFOLIO_LLM_BASE_URL is not explicitly set.
var llmProviderDefaults = map[string]struct {
	BaseURL string
	Model   string
}{
	"openai": {
		BaseURL: "https://api.openai.com/v1",
		Model:   "gpt-4o-mini",
	},
	"deepseek": {
		BaseURL: "https://api.deepseek.com",
		Model:   "deepseek-chat",
	},
	"openrouter": {
		BaseURL: "https://openrouter.ai/api/v1",
		Model:   "openai/gpt-4o-mini",
	},
	"ollama": {
		BaseURL: "http://localhost:11434/v1",
		Model:   "llama3.1",
	},
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsLLMEnabled returns true if the chat proxy has a credential.
// Ollama runs locally and needs none.
func (p *Profile) IsLLMEnabled() bool {
	return p.LLMAPIKey != "" || p.LLMProvider == "ollama"
}

// IsSMTPEnabled returns true if contact messages can be mailed.
func (p *Profile) IsSMTPEnabled() bool {
	return p.SMTPHost != "" && p.MailTo != ""
}

// IsTelegramEnabled returns true if contact messages can be sent to Telegram.
func (p *Profile) IsTelegramEnabled() bool {
	return p.TelegramBotToken != "" && p.TelegramChatID != 0
}

// getEnvOrDefault returns environment variable value or default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrDefaultInt returns environment variable value as int or default value.
func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// FromEnv loads configuration from environment variables.
func (p *Profile) FromEnv() {
	p.LLMProvider = getEnvOrDefault("PORTFOLIO_LLM_PROVIDER", "openai")
	// OPENAI_API_KEY is honored for compatibility with the hosted chat function.
	p.LLMAPIKey = getEnvOrDefault("PORTFOLIO_LLM_API_KEY", os.Getenv("OPENAI_API_KEY"))
	p.LLMBaseURL = getEnvOrDefault("PORTFOLIO_LLM_BASE_URL", "")
	p.LLMModel = getEnvOrDefault("PORTFOLIO_LLM_MODEL", "")
	p.LLMTimeout = getEnvOrDefaultInt("PORTFOLIO_LLM_TIMEOUT_SECONDS", 60)

	if _, ok := llmProviderDefaults[p.LLMProvider]; !ok {
		slog.Warn("Unknown LLM provider, using default: openai", "provider", p.LLMProvider)
		p.LLMProvider = "openai"
	}
	defaults := llmProviderDefaults[p.LLMProvider]
	if p.LLMBaseURL == "" {
		p.LLMBaseURL = defaults.BaseURL
	}
	if p.LLMModel == "" {
		p.LLMModel = defaults.Model
	}

	p.SMTPHost = getEnvOrDefault("PORTFOLIO_SMTP_HOST", "")
	p.SMTPPort = getEnvOrDefaultInt("PORTFOLIO_SMTP_PORT", 587)
	p.SMTPUsername = getEnvOrDefault("PORTFOLIO_SMTP_USERNAME", "")
	p.SMTPPassword = getEnvOrDefault("PORTFOLIO_SMTP_PASSWORD", "")
	p.MailFrom = getEnvOrDefault("PORTFOLIO_MAIL_FROM", p.SMTPUsername)
	p.MailTo = getEnvOrDefault("PORTFOLIO_MAIL_TO", "")

	p.WebhookURL = getEnvOrDefault("PORTFOLIO_WEBHOOK_URL", "")

	p.TelegramBotToken = getEnvOrDefault("PORTFOLIO_TELEGRAM_BOT_TOKEN", "")
	if chatID := os.Getenv("PORTFOLIO_TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			slog.Warn("Invalid telegram chat id, telegram notifications disabled", "chat_id", chatID)
		} else {
			p.TelegramChatID = id
		}
	}
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Driver != "sqlite" && p.Driver != "postgres" {
		return errors.Errorf("unsupported database driver %q", p.Driver)
	}

	if p.ChatRateLimit < 0 {
		return errors.New("chat rate limit must not be negative")
	}
	if p.TodoRetention <= 0 {
		p.TodoRetention = 24 * time.Hour
	}

	if p.Mode == "prod" && p.Data == "" {
		if runtime.GOOS == "windows" {
			p.Data = filepath.Join(os.Getenv("ProgramData"), "portfolio")
			if _, err := os.Stat(p.Data); os.IsNotExist(err) {
				if err := os.MkdirAll(p.Data, 0770); err != nil {
					slog.Error("failed to create data directory", slog.String("data", p.Data), slog.String("error", err.Error()))
					return err
				}
			}
		} else {
			p.Data = "/var/opt/portfolio"
		}
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		slog.Error("failed to check dsn", slog.String("data", dataDir), slog.String("error", err.Error()))
		return err
	}

	p.Data = dataDir
	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("portfolio_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}
	if p.Driver == "postgres" && p.DSN == "" {
		return errors.New("dsn is required for the postgres driver")
	}

	return nil
}
