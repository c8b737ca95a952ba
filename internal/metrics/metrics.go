package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors for one registry. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	reg prometheus.Gatherer

	inFlight   prometheus.Gauge
	requests   *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	authEvents *prometheus.CounterVec
	contacts   prometheus.Counter
}

// New creates the collectors and registers them on reg.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		reg: reg,
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "travelx",
			Name:      "http_in_flight_requests",
			Help:      "In-flight HTTP requests.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "travelx",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "travelx",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latencies in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		authEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "travelx",
			Name:      "auth_events_total",
			Help:      "Account operations by outcome.",
		}, []string{"event", "outcome"}),
		contacts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "travelx",
			Name:      "contact_messages_total",
			Help:      "Contact form submissions accepted.",
		}),
	}
	reg.MustRegister(m.inFlight, m.requests, m.duration, m.authEvents, m.contacts)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

func (m *Metrics) AuthEvent(event, outcome string) {
	if m == nil {
		return
	}
	m.authEvents.WithLabelValues(event, outcome).Inc()
}

func (m *Metrics) ContactMessage() {
	if m == nil {
		return
	}
	m.contacts.Inc()
}

// Instrument records request count, latency and in-flight gauge. Routes are
// labelled by the ServeMux pattern so path parameters do not explode the
// label space.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.inFlight.Inc()
		defer m.inFlight.Dec()
		start := time.Now()

		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(sw, r)

		status := strconv.Itoa(sw.code)
		route := Route(r)
		m.duration.WithLabelValues(r.Method, route, status).Observe(time.Since(start).Seconds())
		m.requests.WithLabelValues(r.Method, route, status).Inc()
	})
}

// Route returns the matched mux pattern, or "unmatched".
func Route(r *http.Request) string {
	if r.Pattern == "" {
		return "unmatched"
	}
	return r.Pattern
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}
