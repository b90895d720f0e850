package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_HandlerExposesCollectors(t *testing.T) {
	m := New()
	m.AuthzDecision(ResultAllowed)
	m.SessionLookupFailed(errors.New("boom"))

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `ori_auth_authz_decisions_total{result="allowed"} 1`)
	assert.Contains(t, body, "ori_auth_session_lookup_failures_total")
}

func TestMetrics_Counters(t *testing.T) {
	m := New()
	m.AuthzDecision(ResultForbidden)
	m.AuthzDecision(ResultForbidden)
	m.AuthzDecision(ResultUnauthenticated)

	assert.InDelta(t, 2, testutil.ToFloat64(m.authzDecisions.WithLabelValues(ResultForbidden)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.authzDecisions.WithLabelValues(ResultUnauthenticated)), 0)

	m.SessionLookupFailed(nil)
	assert.InDelta(t, 1, testutil.ToFloat64(m.sessionFailures.WithLabelValues("unknown")), 0)
}

func TestMetrics_MiddlewareUsesMuxPattern(t *testing.T) {
	m := New()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /items/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	h := m.Middleware(mux)

	for _, path := range []string{"/items/1", "/items/2", "/nope"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.InDelta(t, 2, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET /items/{id}", "418")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.requestsTotal.WithLabelValues("unmatched", "404")), 0)
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.AuthzDecision(ResultAllowed)
	m.SessionLookupFailed(errors.New("x"))
	assert.Nil(t, m.Registry())

	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	assert.NotNil(t, m.Middleware(next))

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
