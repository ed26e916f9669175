// Package telemetry exposes prometheus metrics for the gateway.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	webhooksTotal   *prometheus.CounterVec
	webhookDuration *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "botmarket",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "botmarket",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		webhooksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "botmarket",
			Name:      "webhook_requests_total",
			Help:      "Bot webhook calls by bot and outcome.",
		}, []string{"bot", "outcome"}),
		webhookDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "botmarket",
			Name:      "webhook_duration_seconds",
			Help:      "Bot webhook latency.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 90},
		}, []string{"bot"}),
	}
	reg.MustRegister(m.requestsTotal, m.requestDuration, m.webhooksTotal, m.webhookDuration)
	return m
}

func (m *Metrics) ObserveRequest(method, route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(method, route, status).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) ObserveWebhook(bot, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.webhooksTotal.WithLabelValues(bot, outcome).Inc()
	m.webhookDuration.WithLabelValues(bot).Observe(d.Seconds())
}

// Handler serves the metrics endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
