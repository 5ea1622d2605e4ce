package observability

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/visabuddy/visabuddy-backend/internal/platform/envutil"
)

// Metrics covers the checklist pipeline: terminal outcomes, per-stage latency
// and LLM usage. Registered once; the llm client reaches it through Current()
// so the transport layer carries no wiring of its own.
type Metrics struct {
	pipelineOutcomes *prometheus.CounterVec
	stageLatency     *prometheus.HistogramVec
	stageErrors      *prometheus.CounterVec
	llmRequests      *prometheus.CounterVec
	llmLatency       *prometheus.HistogramVec
	llmTokens        *prometheus.CounterVec
	cacheOps         *prometheus.CounterVec
}

var (
	initOnce sync.Once
	instance *Metrics
)

// Init registers the collectors once and installs the shared instance.
// With METRICS_ENABLED=false nothing is registered and every observer
// becomes a no-op through the nil receiver.
func Init(reg prometheus.Registerer) *Metrics {
	initOnce.Do(func() {
		if !Enabled() {
			return
		}
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		m := &Metrics{
			pipelineOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "checklist_pipeline_outcomes_total",
				Help: "Terminal pipeline outcomes by kind.",
			}, []string{"outcome"}),
			stageLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "checklist_stage_duration_seconds",
				Help:    "Latency per pipeline stage.",
				Buckets: []float64{.005, .01, .05, .1, .5, 1, 2.5, 5, 10, 30},
			}, []string{"stage"}),
			stageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "checklist_stage_errors_total",
				Help: "Errors per pipeline stage by error kind.",
			}, []string{"stage", "kind"}),
			llmRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "llm_requests_total",
				Help: "LLM transport requests by model and status.",
			}, []string{"model", "status"}),
			llmLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "llm_request_duration_seconds",
				Help:    "LLM transport request latency.",
				Buckets: []float64{.25, .5, 1, 2.5, 5, 10, 20, 40, 60},
			}, []string{"model", "status"}),
			llmTokens: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "llm_tokens_total",
				Help: "LLM token usage by direction.",
			}, []string{"model", "direction"}),
			cacheOps: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "embassy_cache_ops_total",
				Help: "Embassy content cache hits and misses.",
			}, []string{"result"}),
		}
		reg.MustRegister(
			m.pipelineOutcomes, m.stageLatency, m.stageErrors,
			m.llmRequests, m.llmLatency, m.llmTokens, m.cacheOps,
		)
		instance = m
	})
	return instance
}

func Current() *Metrics {
	return instance
}

func Enabled() bool {
	return envutil.Bool("METRICS_ENABLED", true)
}

func (m *Metrics) ObserveOutcome(outcome string) {
	if m == nil {
		return
	}
	m.pipelineOutcomes.WithLabelValues(nonEmpty(outcome, "unknown")).Inc()
}

func (m *Metrics) ObserveStage(stage string, dur time.Duration) {
	if m == nil {
		return
	}
	m.stageLatency.WithLabelValues(nonEmpty(stage, "unknown")).Observe(dur.Seconds())
}

func (m *Metrics) ObserveStageError(stage, kind string) {
	if m == nil {
		return
	}
	m.stageErrors.WithLabelValues(nonEmpty(stage, "unknown"), nonEmpty(kind, "unknown")).Inc()
}

func (m *Metrics) ObserveLLMRequest(model, status string, dur time.Duration, inputTokens, outputTokens int) {
	if m == nil {
		return
	}
	model = nonEmpty(model, "unknown")
	status = nonEmpty(status, "0")
	m.llmRequests.WithLabelValues(model, status).Inc()
	if dur > 0 {
		m.llmLatency.WithLabelValues(model, status).Observe(dur.Seconds())
	}
	if inputTokens > 0 {
		m.llmTokens.WithLabelValues(model, "input").Add(float64(inputTokens))
	}
	if outputTokens > 0 {
		m.llmTokens.WithLabelValues(model, "output").Add(float64(outputTokens))
	}
}

func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheOps.WithLabelValues(result).Inc()
}

func nonEmpty(s, def string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	return s
}
