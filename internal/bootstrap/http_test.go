package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ori-platform/ori-auth/internal/mocks"
	"github.com/ori-platform/ori-auth/internal/observability/metrics"
)

func TestBuildHTTPHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	identity := mocks.NewMockIdentityService(ctrl)

	h, err := BuildHTTPHandler(&HTTPServerConfig{
		Config:   baseConfig(),
		Identity: identity,
		Metrics:  metrics.New(),
		Logger:   discardLogger(),
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ori_auth_http_requests_total")
}

func TestBuildHTTPHandler_NilConfig(t *testing.T) {
	_, err := BuildHTTPHandler(nil)
	require.Error(t, err)
}

func TestStartAndShutdownHTTPServer(t *testing.T) {
	cfg := baseConfig()
	cfg.HTTP.Port = 0

	ctrl := gomock.NewController(t)
	server, errCh, err := StartHTTPServer(&HTTPServerConfig{
		Config:   cfg,
		Identity: mocks.NewMockIdentityService(ctrl),
		Logger:   discardLogger(),
	})
	require.NoError(t, err)
	require.NotNil(t, server)

	require.NoError(t, ShutdownHTTPServer(ShutdownConfig{
		Context: context.Background(),
		Server:  server,
		Timeout: time.Second,
		Logger:  discardLogger(),
	}))

	select {
	case err, ok := <-errCh:
		if ok {
			t.Fatalf("unexpected server error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server goroutine did not exit")
	}
}

func TestShutdownHTTPServer_NilServer(t *testing.T) {
	assert.NoError(t, ShutdownHTTPServer(ShutdownConfig{}))
}
