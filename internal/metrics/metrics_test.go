package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordHTTPRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordHTTPRequest("GET", "/api/dept", 200, 20*time.Millisecond)
	m.RecordHTTPRequest("GET", "/api/dept", 200, 30*time.Millisecond)
	m.RecordHTTPRequest("GET", "/api/dept", 204, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/dept", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/dept", "204")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.HTTPRequestDuration))
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/dept/{dno}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Get("/api/faq", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	for _, path := range []string{"/api/dept/1", "/api/dept/2", "/api/faq", "/nowhere"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/dept/{dno}", "204")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/faq", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404")))
}

func TestNewMetrics_Exposition(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.RecordHTTPRequest("DELETE", "/api/customer/all", 200, time.Millisecond)

	expected := `
# HELP simpledms_http_requests_total Total number of HTTP requests by method, route and status code
# TYPE simpledms_http_requests_total counter
simpledms_http_requests_total{method="DELETE",route="/api/customer/all",status="200"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "simpledms_http_requests_total"))
}
