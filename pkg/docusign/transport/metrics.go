package transport

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records request outcomes for the transport.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the transport metrics on the provided registerer.
// Create it once and share it between transports; registering twice panics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return &Metrics{}
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "docusign_requests_total",
		Help: "Requests issued to the DocuSign REST API by method and status code.",
	}, []string{"method", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "docusign_request_duration_seconds",
		Help:    "Duration of DocuSign REST API requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})
	reg.MustRegister(requests, duration)
	return &Metrics{
		requests: requests,
		duration: duration,
	}
}

// observe records one finished request. A zero status means the request
// failed before a response arrived.
func (m *Metrics) observe(method string, status int, elapsed time.Duration) {
	if m == nil || m.requests == nil {
		return
	}
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	m.requests.WithLabelValues(method, code).Inc()
	m.duration.WithLabelValues(method).Observe(elapsed.Seconds())
}
