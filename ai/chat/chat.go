// Package chat answers messages from the site's chat widget, either from the
// reply rule table or through an OpenAI-compatible completion proxy.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/hrygo/portfolio/ai/core/llm"
	"github.com/hrygo/portfolio/ai/responder"
)

// Mode selects how a message is answered.
type Mode string

const (
	ModeRules Mode = "rules"
	ModeLLM   Mode = "llm"
)

const (
	// MaxHistoryTurns bounds the conversation forwarded to the LLM.
	MaxHistoryTurns = 20

	minTypingDelay = 500 * time.Millisecond
	typingJitter   = 1000 * time.Millisecond
)

var (
	ErrEmptyMessage     = errors.New("message is required")
	ErrUnknownMode      = errors.New("unknown chat mode")
	ErrLLMNotConfigured = errors.New("OpenAI API key not configured")
)

// Turn is one prior message of the conversation.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Request struct {
	Message string `json:"message"`
	History []Turn `json:"history,omitempty"`
	Mode    Mode   `json:"mode,omitempty"`
}

type Response struct {
	Reply  string `json:"reply"`
	Source Mode   `json:"source"`
	// Rule is set for rule-based replies only.
	Rule string `json:"rule,omitempty"`
	// TypingDelayMs is how long the widget shows its typing indicator.
	TypingDelayMs int64 `json:"typing_delay_ms"`
}

// Metrics receives per-request measurements.
type Metrics interface {
	RecordChatRequest(source string, latency time.Duration, success bool)
	RecordLLMTokens(model, tokenType string, count int)
	RecordLLMLatency(model, provider string, latency time.Duration)
}

// LLMOptions describes the completion proxy backing ModeLLM.
type LLMOptions struct {
	Service  llm.Service
	Model    string
	Provider string
}

type Service struct {
	responder    *responder.Responder
	llm          *LLMOptions
	systemPrompt string
	metrics      Metrics
	typingDelay  func() time.Duration
}

type Option func(*Service)

// WithLLM enables ModeLLM. Without it, LLM requests fail with ErrLLMNotConfigured.
func WithLLM(opts LLMOptions) Option {
	return func(s *Service) {
		if opts.Service != nil {
			s.llm = &opts
		}
	}
}

func WithSystemPrompt(prompt string) Option {
	return func(s *Service) { s.systemPrompt = prompt }
}

func WithMetrics(m Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithTypingDelay overrides the typing delay source.
func WithTypingDelay(fn func() time.Duration) Option {
	return func(s *Service) { s.typingDelay = fn }
}

func NewService(r *responder.Responder, opts ...Option) *Service {
	s := &Service{
		responder:    r,
		systemPrompt: SystemPromptFor(""),
		typingDelay:  randomTypingDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SystemPromptFor returns the assistant persona for the named site owner.
func SystemPromptFor(owner string) string {
	if owner == "" {
		owner = "the site owner"
	} else {
		owner += "'s"
	}
	return fmt.Sprintf("You are a helpful AI assistant for %s portfolio website. "+
		"Be concise, friendly, and professional when answering questions about skills, experience, and projects. "+
		"If asked about scheduling or contact, encourage visitors to use the contact form on the site. "+
		"Keep responses brief but helpful.", owner)
}

func randomTypingDelay() time.Duration {
	return minTypingDelay + rand.N(typingJitter)
}

// LLMEnabled reports whether ModeLLM requests can be served.
func (s *Service) LLMEnabled() bool {
	return s.llm != nil
}

// RuleCount returns the number of reply rules including the fallback.
func (s *Service) RuleCount() int {
	return s.responder.Table().Len()
}

// ParseMode maps a request mode to a Mode; blank means ModeRules.
func ParseMode(mode string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(mode))) {
	case "", ModeRules:
		return ModeRules, nil
	case ModeLLM:
		return ModeLLM, nil
	default:
		return "", errors.Wrapf(ErrUnknownMode, "%q", mode)
	}
}

// Reply answers req.Message according to req.Mode.
func (s *Service) Reply(ctx context.Context, req *Request) (*Response, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, ErrEmptyMessage
	}
	mode, err := ParseMode(string(req.Mode))
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var resp *Response
	if mode == ModeLLM {
		resp, err = s.replyLLM(ctx, message, req.History)
	} else {
		reply := s.responder.Reply(message)
		resp = &Response{Reply: reply.Text, Source: ModeRules, Rule: reply.Rule}
	}
	if s.metrics != nil {
		s.metrics.RecordChatRequest(string(mode), time.Since(start), err == nil)
	}
	if err != nil {
		return nil, err
	}

	resp.TypingDelayMs = s.typingDelay().Milliseconds()
	return resp, nil
}

func (s *Service) replyLLM(ctx context.Context, message string, history []Turn) (*Response, error) {
	if s.llm == nil {
		return nil, ErrLLMNotConfigured
	}

	messages := llm.FormatMessages(s.systemPrompt, message, trimHistory(history))
	start := time.Now()
	content, stats, err := s.llm.Service.Chat(ctx, messages)
	if err != nil {
		slog.Error("chat: completion proxy failed", "error", err)
		return nil, errors.Wrap(err, "completion failed")
	}
	if s.metrics != nil {
		s.metrics.RecordLLMLatency(s.llm.Model, s.llm.Provider, time.Since(start))
		if stats != nil {
			s.metrics.RecordLLMTokens(s.llm.Model, "prompt", stats.PromptTokens)
			s.metrics.RecordLLMTokens(s.llm.Model, "completion", stats.CompletionTokens)
		}
	}
	return &Response{Reply: content, Source: ModeLLM}, nil
}

// trimHistory keeps user and assistant turns with content, at most the last MaxHistoryTurns.
func trimHistory(history []Turn) []llm.Message {
	messages := make([]llm.Message, 0, len(history))
	for _, turn := range history {
		if strings.TrimSpace(turn.Content) == "" {
			continue
		}
		switch turn.Role {
		case "user":
			messages = append(messages, llm.UserMessage(turn.Content))
		case "assistant":
			messages = append(messages, llm.AssistantMessage(turn.Content))
		}
	}
	if len(messages) > MaxHistoryTurns {
		messages = messages[len(messages)-MaxHistoryTurns:]
	}
	return messages
}
