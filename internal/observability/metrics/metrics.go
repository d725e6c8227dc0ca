package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTPMetrics exposes request-level prometheus instruments.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewHTTPMetrics registers the HTTP instruments on the default registry.
func NewHTTPMetrics() *HTTPMetrics {
	return &HTTPMetrics{
		requests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bookwise_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		duration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bookwise_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
}

// GinMiddleware records request counts and latency.
func GinMiddleware(m *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if strings.TrimSpace(route) == "" {
			route = "unknown"
		}
		m.requests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// BookingMetrics counts capacity mutations on availability slots.
type BookingMetrics struct {
	accepted prometheus.Counter
	rejected *prometheus.CounterVec
}

// NewBookingMetrics registers the booking instruments on the default registry.
func NewBookingMetrics() *BookingMetrics {
	return &BookingMetrics{
		accepted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bookwise_slot_bookings_accepted_total",
			Help: "Slot booking mutations that passed the capacity guard.",
		}),
		rejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bookwise_slot_bookings_rejected_total",
			Help: "Slot booking mutations rejected by reason.",
		}, []string{"reason"}),
	}
}

// Accepted records a successful booking mutation.
func (m *BookingMetrics) Accepted() {
	if m == nil {
		return
	}
	m.accepted.Inc()
}

// Rejected records a rejected booking mutation.
func (m *BookingMetrics) Rejected(reason string) {
	if m == nil {
		return
	}
	m.rejected.WithLabelValues(reason).Inc()
}
