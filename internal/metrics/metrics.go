// Package metrics defines the Prometheus collectors for ingestion and
// activation and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Ingestion results.
const (
	ResultAccepted      = "accepted"
	ResultInvalid       = "invalid"
	ResultStoreFailure  = "store_failure"
	ResultMisconfigured = "misconfigured"
)

// Trigger outcomes.
const (
	OutcomeIgnored    = "ignored"
	OutcomeDispatched = "dispatched"
	OutcomeFailed     = "failed"
)

// Metrics holds all collectors. The zero value is not usable; build with New.
type Metrics struct {
	IngestionsTotal    *prometheus.CounterVec
	StoreWriteDuration *prometheus.HistogramVec
	WriteEventsTotal   *prometheus.CounterVec
	TriggerEventsTotal *prometheus.CounterVec
	OrphanedBlobsTotal prometheus.Counter
	registry           *prometheus.Registry
}

// New creates the collectors and registers them on reg. A nil reg uses a
// fresh private registry, which keeps tests independent of each other.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &Metrics{
		IngestionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ingestions_total",
				Help: "Ingestion requests by result (accepted, invalid, store_failure, misconfigured).",
			},
			[]string{"result"},
		),
		StoreWriteDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "store_write_duration_seconds",
				Help:    "Latency of blob and record store writes in seconds.",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"store", "status"},
		),
		WriteEventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "record_write_events_total",
				Help: "Record-store write events published, by status.",
			},
			[]string{"status"},
		),
		TriggerEventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "activation_trigger_events_total",
				Help: "Events seen by the activation trigger, by outcome (ignored, dispatched, failed).",
			},
			[]string{"outcome"},
		),
		OrphanedBlobsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "orphaned_blobs_total",
				Help: "Blobs written whose record write failed.",
			},
		),
		registry: reg,
	}

	reg.MustRegister(
		m.IngestionsTotal,
		m.StoreWriteDuration,
		m.WriteEventsTotal,
		m.TriggerEventsTotal,
		m.OrphanedBlobsTotal,
	)

	return m
}

// TrackDroppedEvents exposes dropped in-process event deliveries as
// events_dropped_total, read from fn at scrape time.
func (m *Metrics) TrackDroppedEvents(fn func() float64) {
	m.registry.MustRegister(prometheus.NewCounterFunc(
		prometheus.CounterOpts{
			Name: "events_dropped_total",
			Help: "Write events the in-process bus dropped because no subscriber could take them.",
		},
		fn,
	))
}

// ObserveWrite records the duration of a store write started at start.
func (m *Metrics) ObserveWrite(store string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.StoreWriteDuration.WithLabelValues(store, status).Observe(time.Since(start).Seconds())
}

// Handler returns the scrape handler for the registry the metrics live on.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
