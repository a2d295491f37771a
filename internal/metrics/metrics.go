// Package metrics exposes Prometheus collectors for conversations.
package metrics

import (
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/common/expfmt"
)

// Registry holds every voice-desk collector; /metrics serves it.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		ToolCalls, ToolDuration,
		Handoffs, LLMRequests, LLMTokens,
		ActiveSessions,
		collectors.NewGoCollector(),
	)
}

// ToolCalls counts tool invocations by tool and outcome.
var ToolCalls = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "voice_desk_tool_calls_total",
		Help: "Tool invocations by tool and outcome.",
	},
	[]string{"tool", "outcome"}, // ok | validation | not_found | unavailable | unknown_tool
)

// ToolDuration is the time spent inside a tool, in seconds.
var ToolDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "voice_desk_tool_duration_seconds",
		Help:    "Tool invocation latency in seconds.",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"tool"},
)

// Handoffs counts agent switches.
var Handoffs = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "voice_desk_handoffs_total",
		Help: "Agent hand-offs by source and destination role.",
	},
	[]string{"from", "to"},
)

// LLMRequests counts chat-completion requests by status.
var LLMRequests = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "voice_desk_llm_requests_total",
		Help: "Chat completion requests by status.",
	},
	[]string{"status"}, // ok | error
)

// LLMTokens counts tokens reported by the provider.
var LLMTokens = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "voice_desk_llm_tokens_total",
		Help: "Tokens reported by the LLM provider.",
	},
	[]string{"direction"}, // input | output
)

// ActiveSessions is the number of conversations in progress, per demo.
var ActiveSessions = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "voice_desk_active_sessions",
		Help: "Conversations currently in progress.",
	},
	[]string{"demo"},
)

// ObserveTool records one tool invocation.
func ObserveTool(tool, outcome string, d time.Duration) {
	if outcome == "" {
		outcome = "ok"
	}
	ToolCalls.WithLabelValues(tool, outcome).Inc()
	ToolDuration.WithLabelValues(tool).Observe(d.Seconds())
}

// ObserveLLM records one completion request and its token usage.
func ObserveLLM(err error, promptTokens, completionTokens int) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	LLMRequests.WithLabelValues(status).Inc()
	if promptTokens > 0 {
		LLMTokens.WithLabelValues("input").Add(float64(promptTokens))
	}
	if completionTokens > 0 {
		LLMTokens.WithLabelValues("output").Add(float64(completionTokens))
	}
}

// WritePrometheus writes the registry in text exposition format.
func WritePrometheus(w io.Writer) error {
	families, err := Registry.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
