package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry())

	m.IncrementCreated("residence")
	m.IncrementCreated("residence")
	m.IncrementDecision("approve", "nida")
	m.ObserveRender(20 * time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsCreated.WithLabelValues("residence")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DecisionOutcome.WithLabelValues("approve", "nida")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LettersRendered))
}

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncrementCreated("residence")
		m.IncrementDecision("reject", "license")
		m.ObserveRender(time.Second)
	})
}
