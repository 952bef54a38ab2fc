package metrics

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const divisor = 100

// Metrics holds Prometheus metric vectors for the agent service.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	ProviderRequestsTotal *prometheus.CounterVec
	ModelRequestDuration  *prometheus.HistogramVec
	ChatTurnsTotal        *prometheus.CounterVec
}

// NewMetrics constructs and registers all agent-service metrics.
func NewMetrics(serviceName string) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: serviceName,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests received",
			},
			[]string{"method", "endpoint", "status_class"},
		),

		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: serviceName,
				Name:      "http_request_duration_seconds",
				Help:      "Histogram of HTTP request latencies",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		ProviderRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: serviceName,
				Name:      "provider_requests_total",
				Help:      "Weather provider calls by provider and result",
			},
			[]string{"provider", "result"},
		),

		ModelRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: serviceName,
				Name:      "model_request_duration_seconds",
				Help:      "Model inference latencies by backend",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"backend"},
		),

		ChatTurnsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: serviceName,
				Name:      "chat_turns_total",
				Help:      "Chat turns by outcome",
			},
			[]string{"outcome"},
		),
	}

	prometheus.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ProviderRequestsTotal,
		m.ModelRequestDuration,
		m.ChatTurnsTotal,
	)

	return m
}

// HTTPMiddleware returns a Gin middleware to instrument HTTP endpoints.
func (m *Metrics) HTTPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		d := time.Since(start)

		status := c.Writer.Status()

		labels := prometheus.Labels{
			"method":       c.Request.Method,
			"endpoint":     c.FullPath(),
			"status_class": getStatusClass(status),
		}
		m.HTTPRequestsTotal.With(labels).Inc()
		m.HTTPRequestDuration.With(prometheus.Labels{
			"method":   c.Request.Method,
			"endpoint": c.FullPath(),
		}).Observe(d.Seconds())
	}
}

// RecordTurn counts one completed chat turn.
func (m *Metrics) RecordTurn(outcome string) {
	m.ChatTurnsTotal.WithLabelValues(outcome).Inc()
}

// RecordModel observes one model inference call.
func (m *Metrics) RecordModel(backend string, d time.Duration) {
	m.ModelRequestDuration.WithLabelValues(backend).Observe(d.Seconds())
}

// RecordProvider counts one weather provider call.
func (m *Metrics) RecordProvider(provider, result string) {
	m.ProviderRequestsTotal.WithLabelValues(provider, result).Inc()
}

func getStatusClass(code int) string {
	return fmt.Sprintf("%dxx", code/divisor)
}
