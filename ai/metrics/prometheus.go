// Package metrics provides Prometheus metrics export for the portfolio server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "portfolio"

// PrometheusExporter exports chat, notification and store metrics in Prometheus format.
type PrometheusExporter struct {
	registry *prometheus.Registry

	// Chat metrics
	chatLatency  *prometheus.HistogramVec
	chatRequests *prometheus.CounterVec
	ruleMatches  *prometheus.CounterVec

	// LLM metrics
	llmTokensUsed *prometheus.CounterVec
	llmLatency    *prometheus.HistogramVec

	// Contact and todo metrics
	contactMessages *prometheus.CounterVec
	notifications   *prometheus.CounterVec
	todoOperations  *prometheus.CounterVec
	todosPurged     prometheus.Counter

	httpRequests *prometheus.CounterVec
}

// Config configures the Prometheus exporter.
type Config struct {
	// Registry to use (if nil, creates a new one)
	Registry *prometheus.Registry

	// Buckets for latency histograms (in seconds)
	LatencyBuckets []float64

	// GoCollectors registers the Go runtime and process collectors.
	GoCollectors bool
}

// DefaultConfig returns default Prometheus configuration.
func DefaultConfig() Config {
	return Config{
		LatencyBuckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		GoCollectors:   true,
	}
}

// NewPrometheusExporter creates a new Prometheus metrics exporter.
func NewPrometheusExporter(cfg Config) *PrometheusExporter {
	if len(cfg.LatencyBuckets) == 0 {
		cfg.LatencyBuckets = DefaultConfig().LatencyBuckets
	}

	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	e := &PrometheusExporter{registry: registry}

	e.chatLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "chat",
			Name:      "latency_seconds",
			Help:      "Chat reply latency in seconds",
			Buckets:   cfg.LatencyBuckets,
		},
		[]string{"source"},
	)

	e.chatRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chat",
			Name:      "requests_total",
			Help:      "Total number of chat requests",
		},
		[]string{"source", "status"},
	)

	e.ruleMatches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chat",
			Name:      "rule_matches_total",
			Help:      "Total number of replies per selected rule",
		},
		[]string{"rule"},
	)

	e.llmTokensUsed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "tokens_total",
			Help:      "Total number of LLM tokens used",
		},
		[]string{"model", "type"},
	)

	e.llmLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "latency_seconds",
			Help:      "LLM request latency in seconds",
			Buckets:   cfg.LatencyBuckets,
		},
		[]string{"model", "provider"},
	)

	e.contactMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "contact",
			Name:      "messages_total",
			Help:      "Total number of contact form submissions",
		},
		[]string{"status"},
	)

	e.notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "contact",
			Name:      "notifications_total",
			Help:      "Total number of contact notifications per channel",
		},
		[]string{"notifier", "status"},
	)

	e.todoOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "todo",
			Name:      "operations_total",
			Help:      "Total number of todo operations",
		},
		[]string{"op"},
	)

	e.todosPurged = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "todo",
			Name:      "purged_total",
			Help:      "Total number of todos removed by the reset job",
		},
	)

	e.httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "code"},
	)

	registry.MustRegister(
		e.chatLatency,
		e.chatRequests,
		e.ruleMatches,
		e.llmTokensUsed,
		e.llmLatency,
		e.contactMessages,
		e.notifications,
		e.todoOperations,
		e.todosPurged,
		e.httpRequests,
	)
	if cfg.GoCollectors {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	return e
}

func status(success bool) string {
	if success {
		return "success"
	}
	return "error"
}

// RecordChatRequest records a chat reply served from source ("rules" or "llm").
func (e *PrometheusExporter) RecordChatRequest(source string, latency time.Duration, success bool) {
	e.chatRequests.WithLabelValues(source, status(success)).Inc()
	e.chatLatency.WithLabelValues(source).Observe(latency.Seconds())
}

// RecordRuleMatch counts the rule chosen for a reply.
func (e *PrometheusExporter) RecordRuleMatch(rule string) {
	e.ruleMatches.WithLabelValues(rule).Inc()
}

// RecordLLMTokens records token usage; tokenType is "prompt" or "completion".
func (e *PrometheusExporter) RecordLLMTokens(model, tokenType string, count int) {
	e.llmTokensUsed.WithLabelValues(model, tokenType).Add(float64(count))
}

func (e *PrometheusExporter) RecordLLMLatency(model, provider string, latency time.Duration) {
	e.llmLatency.WithLabelValues(model, provider).Observe(latency.Seconds())
}

func (e *PrometheusExporter) RecordContactMessage(success bool) {
	e.contactMessages.WithLabelValues(status(success)).Inc()
}

// RecordNotification records a delivery attempt by a contact notifier.
func (e *PrometheusExporter) RecordNotification(notifier string, success bool) {
	e.notifications.WithLabelValues(notifier, status(success)).Inc()
}

func (e *PrometheusExporter) RecordTodoOperation(op string) {
	e.todoOperations.WithLabelValues(op).Inc()
}

func (e *PrometheusExporter) RecordTodosPurged(count int64) {
	e.todosPurged.Add(float64(count))
}

// RecordHTTPRequest counts a served request by its route template.
func (e *PrometheusExporter) RecordHTTPRequest(method, route string, code int) {
	e.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
}

// Handler returns an HTTP handler for the metrics endpoint.
func (e *PrometheusExporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

// ServeHTTP implements http.Handler for the metrics endpoint.
func (e *PrometheusExporter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	e.Handler().ServeHTTP(w, r)
}

// GetRegistry returns the underlying Prometheus registry.
func (e *PrometheusExporter) GetRegistry() *prometheus.Registry {
	return e.registry
}
