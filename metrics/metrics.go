// Package metrics exposes Prometheus collectors for the HTTP surface and
// donation flow.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	models "github.com/alvsuut-buddy/Smart-Charity/models"
)

type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	donationsTotal    *prometheus.CounterVec
	donationAmount    *prometheus.CounterVec
}

// New builds collectors on a private registry so tests can create as many
// as they like.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		donationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "donations_ingested_total",
			Help: "Donations stored in both ledger and history, by device.",
		}, []string{"device"}),
		donationAmount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "donation_amount_total",
			Help: "Sum of donated amounts in rupiah, by device.",
		}, []string{"device"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpDuration,
		m.donationsTotal,
		m.donationAmount,
	)
	return m
}

// DonationRecorded satisfies services.IngestObserver.
func (m *Metrics) DonationRecorded(d models.Donation) {
	m.donationsTotal.WithLabelValues(d.DeviceID).Inc()
	m.donationAmount.WithLabelValues(d.DeviceID).Add(float64(d.Amount))
}

func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
