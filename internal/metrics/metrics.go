package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the hub's Prometheus collectors
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	Notifications   *prometheus.CounterVec
	LLMRequests     *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New registers the collectors against reg
func New(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ajna_hub_http_requests_total",
			Help: "HTTP requests by route, method and status code",
		}, []string{"route", "method", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ajna_hub_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"route"}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ajna_hub_notifications_total",
			Help: "Push notification attempts by result",
		}, []string{"result"}),
		LLMRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ajna_hub_llm_requests_total",
			Help: "LLM relay requests by outcome",
		}, []string{"outcome"}),
		gatherer: gatherer,
	}

	reg.MustRegister(m.RequestsTotal, m.RequestDuration, m.Notifications, m.LLMRequests)
	return m
}

// NewDefault registers against the process-wide default registry
func NewDefault() *Metrics {
	return New(prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
}

// Handler serves the exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
