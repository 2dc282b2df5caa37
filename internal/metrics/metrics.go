// Package metrics exposes Prometheus instruments for rooms, connections and
// the message pipeline.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "geochain"

// Submission outcomes recorded against the submissions counter
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
)

// Metrics holds the server's collectors in a private registry so several
// instances can coexist in one process (tests build one per app)
type Metrics struct {
	registry *prometheus.Registry

	ActiveRooms     prometheus.Gauge
	OpenConnections prometheus.Gauge
	GamesArchived   prometheus.Counter
	EventsReceived  *prometheus.CounterVec
	Submissions     *prometheus.CounterVec
	HandlingLatency prometheus.Histogram
	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    prometheus.Histogram
}

// New creates and registers the collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ActiveRooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_rooms",
			Help:      "Number of live rooms",
		}),
		OpenConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "open_connections",
			Help:      "Number of open client connections",
		}),
		GamesArchived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_archived_total",
			Help:      "Total number of finished games written to the archive",
		}),
		EventsReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_received_total",
			Help:      "Total number of inbound events by type",
		}, []string{"type"}),
		Submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Total number of place submissions by outcome",
		}, []string{"outcome"}),
		HandlingLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "event_handling_seconds",
			Help:      "Time spent handling an inbound event",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of API requests by method and status code",
		}, []string{"method", "code"}),
		HTTPDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "API request latency",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	m.registry.MustRegister(
		m.ActiveRooms,
		m.OpenConnections,
		m.GamesArchived,
		m.EventsReceived,
		m.Submissions,
		m.HandlingLatency,
		m.HTTPRequests,
		m.HTTPDuration,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RoomOpened counts a newly created room
func (m *Metrics) RoomOpened() {
	m.ActiveRooms.Inc()
}

// RoomClosed records a room being discarded
func (m *Metrics) RoomClosed() {
	m.ActiveRooms.Dec()
}

// ConnectionOpened records a new websocket connection
func (m *Metrics) ConnectionOpened() {
	m.OpenConnections.Inc()
}

// ConnectionClosed records a websocket connection going away
func (m *Metrics) ConnectionClosed() {
	m.OpenConnections.Dec()
}

// GameArchived counts a finished game written to the archive
func (m *Metrics) GameArchived() {
	m.GamesArchived.Inc()
}

// ObserveEvent counts an inbound event and records how long it took to handle
func (m *Metrics) ObserveEvent(eventType string, duration time.Duration) {
	m.EventsReceived.WithLabelValues(eventType).Inc()
	m.HandlingLatency.Observe(duration.Seconds())
}

// Submission counts a place submission by outcome
func (m *Metrics) Submission(accepted bool) {
	outcome := OutcomeRejected
	if accepted {
		outcome = OutcomeAccepted
	}
	m.Submissions.WithLabelValues(outcome).Inc()
}

// ObserveRequest records a finished API request
func (m *Metrics) ObserveRequest(method string, status int, duration time.Duration) {
	m.HTTPRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.HTTPDuration.Observe(duration.Seconds())
}
