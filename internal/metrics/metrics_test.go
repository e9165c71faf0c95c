package metrics_test

import (
	"testing"

	"github.com/lexora/lexora-server/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.Login("success")
	m.Login("invalid_state")
	m.Login("success")
	m.AIRequest("summarize", "ok")
	m.FormCreated()

	require.Equal(t, 2.0, testutil.ToFloat64(m.LoginsTotal.WithLabelValues("success")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.LoginsTotal.WithLabelValues("invalid_state")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.AIRequestsTotal.WithLabelValues("summarize", "ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.FormsCreatedTotal))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *metrics.Metrics
	require.NotPanics(t, func() {
		m.Login("success")
		m.AIRequest("chat", "error")
		m.FormCreated()
		m.FormDownloaded()
		m.RateLimited()
	})
}
