package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestRequestIDGenerated(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("request id %q is not a uuid: %v", seen, err)
	}
	if got := rec.Header().Get(RequestIDHeader); got != seen {
		t.Errorf("response header = %q, want %q", got, seen)
	}
}

func TestRequestIDPropagated(t *testing.T) {
	incoming := uuid.NewString()
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(RequestIDHeader, incoming)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if seen != incoming {
		t.Errorf("request id = %q, want %q", seen, incoming)
	}
}

func TestRequestIDRejectsGarbage(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(RequestIDHeader, "<script>")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if seen == "<script>" {
		t.Error("malformed incoming id should be replaced")
	}
}

func TestRequestLoggerIncludesRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	handler := RequestID(RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set(RequestIDHeader, "0b9f1b5e-6c1f-4c1e-9a57-2f1d0c4e8a11")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	for _, want := range []string{"level=WARN", "status=418", "path=/health", "request_id=0b9f1b5e-6c1f-4c1e-9a57-2f1d0c4e8a11"} {
		if !strings.Contains(out, want) {
			t.Errorf("log line missing %q: %s", want, out)
		}
	}
}
