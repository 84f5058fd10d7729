package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StorefrontClientMetrics records outcomes of Storefront API calls.
type StorefrontClientMetrics struct {
	duration *prometheus.HistogramVec
	requests *prometheus.CounterVec
}

// NewStorefrontClientMetrics registers the client metrics on the provided registerer.
func NewStorefrontClientMetrics(reg prometheus.Registerer) *StorefrontClientMetrics {
	if reg == nil {
		return &StorefrontClientMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storefront_request_duration_seconds",
		Help:    "Duration of Storefront API calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_requests_total",
		Help: "Storefront API calls by operation and outcome.",
	}, []string{"operation", "outcome"})
	reg.MustRegister(duration, requests)
	return &StorefrontClientMetrics{
		duration: duration,
		requests: requests,
	}
}

// ObserveRequest records one call with its duration and outcome label
// ("ok" or the error classification).
func (m *StorefrontClientMetrics) ObserveRequest(operation, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	if m.duration != nil {
		m.duration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
	}
	if m.requests != nil {
		m.requests.WithLabelValues(normalizeLabel(operation), normalizeLabel(outcome)).Inc()
	}
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
