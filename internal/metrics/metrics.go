package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

// Metrics holds the application's Prometheus collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	LoginsTotal       *prometheus.CounterVec
	AIRequestsTotal   *prometheus.CounterVec
	FormsCreatedTotal prometheus.Counter
	FormDownloads     prometheus.Counter
	RateLimitedTotal  prometheus.Counter
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		LoginsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lexora_oauth_logins_total",
			Help: "OAuth callbacks by outcome (success or the failure code).",
		}, []string{"outcome"}),
		AIRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lexora_ai_requests_total",
			Help: "AI completions by operation and outcome.",
		}, []string{"operation", "outcome"}),
		FormsCreatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lexora_forms_created_total",
			Help: "Legal forms submitted.",
		}),
		FormDownloads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lexora_form_downloads_total",
			Help: "Legal form files served.",
		}),
		RateLimitedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lexora_rate_limited_total",
			Help: "Requests rejected by the rate limiter.",
		}),
	}

	if reg == nil {
		log.Error().Msg("Prometheus registry is nil, cannot register custom metrics.")
		return m
	}
	for _, c := range []prometheus.Collector{m.LoginsTotal, m.AIRequestsTotal, m.FormsCreatedTotal, m.FormDownloads, m.RateLimitedTotal} {
		if err := reg.Register(c); err != nil {
			log.Warn().Err(err).Msg("Failed to register metric")
		}
	}
	return m
}

func (m *Metrics) Login(outcome string) {
	if m == nil {
		return
	}
	m.LoginsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) AIRequest(operation, outcome string) {
	if m == nil {
		return
	}
	m.AIRequestsTotal.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) FormCreated() {
	if m == nil {
		return
	}
	m.FormsCreatedTotal.Inc()
}

func (m *Metrics) FormDownloaded() {
	if m == nil {
		return
	}
	m.FormDownloads.Inc()
}

func (m *Metrics) RateLimited() {
	if m == nil {
		return
	}
	m.RateLimitedTotal.Inc()
}
