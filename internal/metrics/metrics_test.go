package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInstrumentUsesMuxPattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/destinations/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	h := m.Instrument(mux)

	for _, id := range []string{"1", "2", "3"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/api/destinations/"+id, nil))
	}

	got := testutil.ToFloat64(m.requests.WithLabelValues("GET", "GET /api/destinations/{id}", "404"))
	if got != 3 {
		t.Fatalf("requests = %v, want 3", got)
	}
	if n := testutil.ToFloat64(m.inFlight); n != 0 {
		t.Errorf("in flight = %v, want 0", n)
	}
}

func TestInstrumentUnmatched(t *testing.T) {
	m := New(prometheus.NewRegistry())
	h := m.Instrument(http.NewServeMux())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/nope", nil))

	if got := testutil.ToFloat64(m.requests.WithLabelValues("GET", "unmatched", "404")); got != 1 {
		t.Fatalf("unmatched requests = %v, want 1", got)
	}
}

func TestAuthEventAndHandler(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.AuthEvent("login", "ok")
	m.AuthEvent("login", "ok")
	m.ContactMessage()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)

	if !strings.Contains(string(body), `travelx_auth_events_total{event="login",outcome="ok"} 2`) {
		t.Errorf("metrics output missing auth event:\n%s", body)
	}
	if !strings.Contains(string(body), "travelx_contact_messages_total 1") {
		t.Errorf("metrics output missing contact counter:\n%s", body)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.AuthEvent("login", "ok")
	m.ContactMessage()

	called := false
	h := m.Instrument(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	if !called {
		t.Error("wrapped handler not called")
	}
}
