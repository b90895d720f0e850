package httpx

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	domainauth "github.com/ori-platform/ori-auth/internal/domain/auth"
	"github.com/ori-platform/ori-auth/internal/observability/metrics"
	"github.com/ori-platform/ori-auth/internal/ports"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRouter(t *testing.T, identity ports.IdentityService, m *metrics.Metrics) http.Handler {
	t.Helper()
	h, err := NewRouter(RouterServices{
		Identity:       identity,
		Metrics:        m,
		Logger:         discardLogger(),
		AllowedOrigins: []string{"http://localhost:3001"},
		IsDev:          true,
	})
	require.NoError(t, err)
	return h
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func sessionFor(role domainauth.Role) *domainauth.SessionResult {
	return &domainauth.SessionResult{
		Session: domainauth.Session{ID: "sess-1", UserID: "user-1", Token: "tok"},
		User:    domainauth.User{ID: "user-1", Email: string(role) + "@example.com", Role: role},
	}
}

func withBearer(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

// counterTotal sums every series of the named counter family.
func counterTotal(t *testing.T, m *metrics.Metrics, name string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	var total float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			total += metric.GetCounter().GetValue()
		}
	}
	return total
}
