package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the verification module.
type Metrics struct {
	RequestsCreated *prometheus.CounterVec

	// Decision outcomes by action and request type
	DecisionOutcome *prometheus.CounterVec

	LettersRendered prometheus.Counter
	RenderLatency   prometheus.Histogram
}

func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the verification metrics on reg.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RequestsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "huduma_requests_created_total",
			Help: "Total verification requests created by request type",
		}, []string{"request_type"}),

		DecisionOutcome: f.NewCounterVec(prometheus.CounterOpts{
			Name: "huduma_request_decisions_total",
			Help: "Total officer decisions by action and request type",
		}, []string{"action", "request_type"}), // action: "approve", "reject", "reopen"

		LettersRendered: f.NewCounter(prometheus.CounterOpts{
			Name: "huduma_letters_rendered_total",
			Help: "Total letters rendered to PDF",
		}),

		RenderLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "huduma_letter_render_duration_seconds",
			Help:    "Duration of letter composition and PDF rendering",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

func (m *Metrics) IncrementCreated(requestType string) {
	if m != nil {
		m.RequestsCreated.WithLabelValues(requestType).Inc()
	}
}

// IncrementDecision records an officer decision.
func (m *Metrics) IncrementDecision(action, requestType string) {
	if m != nil {
		m.DecisionOutcome.WithLabelValues(action, requestType).Inc()
	}
}

// ObserveRender records a successful render and its duration.
func (m *Metrics) ObserveRender(d time.Duration) {
	if m != nil {
		m.LettersRendered.Inc()
		m.RenderLatency.Observe(d.Seconds())
	}
}
