package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegistration(t *testing.T) {
	// Verify all metrics are registered without conflicts
	metrics := []prometheus.Collector{
		TokenCapturesTotal,
		TokenRefreshesTotal,
		GoogleTokenRequestDuration,
		DBQueryDuration,
		DBErrorsTotal,
	}

	for _, metric := range metrics {
		desc := make(chan *prometheus.Desc, 1)
		metric.Describe(desc)
		close(desc)

		require.NotNil(t, <-desc, "metric should have a valid descriptor")
	}
}

func TestCounterMetrics(t *testing.T) {
	tests := []struct {
		name    string
		metric  *prometheus.CounterVec
		labels  prometheus.Labels
		incBy   int
		wantVal float64
	}{
		{
			name:    "token captures counter",
			metric:  TokenCapturesTotal,
			labels:  prometheus.Labels{"result": "ok"},
			incBy:   5,
			wantVal: 5,
		},
		{
			name:    "token refreshes counter",
			metric:  TokenRefreshesTotal,
			labels:  prometheus.Labels{"result": "revoked"},
			incBy:   3,
			wantVal: 3,
		},
		{
			name:    "db errors counter",
			metric:  DBErrorsTotal,
			labels:  prometheus.Labels{"query": "UPDATE"},
			incBy:   2,
			wantVal: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.metric.Reset()

			for i := 0; i < tt.incBy; i++ {
				tt.metric.With(tt.labels).Inc()
			}

			val := testutil.ToFloat64(tt.metric.With(tt.labels))
			assert.Equal(t, tt.wantVal, val)
		})
	}
}
