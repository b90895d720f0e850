package httpx

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/ori-platform/ori-auth/internal/domain/auth"
	"github.com/ori-platform/ori-auth/internal/mocks"
	"github.com/ori-platform/ori-auth/internal/observability/metrics"
)

func TestAttachSession_CookieTakesPrecedence(t *testing.T) {
	ctrl := gomock.NewController(t)
	identity := mocks.NewMockIdentityService(ctrl)
	identity.EXPECT().
		GetSession(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, meta domainauth.RequestMeta) (*domainauth.SessionResult, error) {
			assert.Equal(t, "cookie-token", meta.SessionToken)
			assert.Equal(t, "203.0.113.9", meta.IPAddress)
			assert.Equal(t, "agent/1.0", meta.UserAgent)
			return sessionFor(domainauth.RoleOri), nil
		})

	var got *domainauth.User
	h := AttachSession(SessionConfig{Identity: identity, Logger: discardLogger()})(
		http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) { got = CurrentUser(r.Context()) }))

	req := withBearer(httptest.NewRequest(http.MethodGet, "/", nil), "bearer-token")
	req.AddCookie(&http.Cookie{Name: DefaultSessionCookie, Value: "cookie-token"})
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	req.Header.Set("User-Agent", "agent/1.0")
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, got)
	assert.Equal(t, domainauth.RoleOri, got.Role)
}

func TestAttachSession_NoSessionAttachesNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	identity := mocks.NewMockIdentityService(ctrl)
	identity.EXPECT().GetSession(gomock.Any(), gomock.Any()).Return(nil, nil)

	called := false
	h := AttachSession(SessionConfig{Identity: identity, CookieName: "custom"})(
		http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			called = true
			_, ok := UserFromContext(r.Context())
			assert.False(t, ok)
		}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "custom", Value: "expired"})
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.True(t, called)
}

func TestAttachSession_FailureContinues(t *testing.T) {
	ctrl := gomock.NewController(t)
	identity := mocks.NewMockIdentityService(ctrl)
	identity.EXPECT().GetSession(gomock.Any(), gomock.Any()).Return(nil, errors.New("store down"))
	m := metrics.New()

	h := AttachSession(SessionConfig{Identity: identity, Metrics: m, Logger: discardLogger()})(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, withBearer(httptest.NewRequest(http.MethodGet, "/", nil), "tok"))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.InDelta(t, 1, counterTotal(t, m, "ori_auth_session_lookup_failures_total"), 0)
}

func TestRequestMeta_IgnoresNonBearerAuthorization(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	req.RemoteAddr = "192.0.2.1:5555"

	meta := requestMeta(req, DefaultSessionCookie)
	assert.Empty(t, meta.SessionToken)
	assert.Equal(t, "192.0.2.1", meta.IPAddress)

	req.Header.Set("Authorization", "bearer   abc")
	assert.Equal(t, "abc", requestMeta(req, DefaultSessionCookie).SessionToken)
}

func TestRequireRoles_TruthTable(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	brand := &domainauth.User{ID: "b", Role: domainauth.RoleBrand}
	ori := &domainauth.User{ID: "o", Role: domainauth.RoleOri}

	tests := []struct {
		name string
		req  domainauth.Requirement
		user *domainauth.User
		want int
	}{
		{"public anonymous", domainauth.Public(), nil, http.StatusOK},
		{"public with user", domainauth.Public(), brand, http.StatusOK},
		{"restricted anonymous", domainauth.RequireRoles(domainauth.RoleBrand), nil, http.StatusUnauthorized},
		{"member", domainauth.RequireRoles(domainauth.RoleBrand), brand, http.StatusOK},
		{"non-member", domainauth.RequireRoles(domainauth.RoleOri), brand, http.StatusForbidden},
		{"no hierarchy", domainauth.RequireRoles(domainauth.RoleBrand), ori, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(SetUserInContext(req.Context(), tt.user))
			rec := httptest.NewRecorder()
			RequireRoles(tt.req, nil)(ok).ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestPreventPrivilegedSignup(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		seen = string(b)
		w.WriteHeader(http.StatusAccepted)
	})
	h := PreventPrivilegedSignup(next)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"admin role", `{"role":"ori","email":"x"}`, http.StatusForbidden},
		{"brand role", `{"role":"brand","email":"x"}`, http.StatusAccepted},
		{"no role", `{"email":"x"}`, http.StatusAccepted},
		{"malformed", `{"role":`, http.StatusAccepted},
		{"non-string role", `{"role":1}`, http.StatusAccepted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = ""
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(tt.body)))
			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusAccepted {
				assert.Equal(t, tt.body, seen, "body must be restored for the handler")
			} else {
				assert.Contains(t, rec.Body.String(), "Self-registration as administrator is not allowed")
			}
		})
	}
}

func TestRecover(t *testing.T) {
	h := Recover(discardLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal", decodeBody(t, rec)["error"])
}

func TestSecureHeadersAndCORS(t *testing.T) {
	router := newTestRouter(t, nil, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))

	req := httptest.NewRequest(http.MethodOptions, "/auth/signin", nil)
	req.Header.Set("Origin", "http://localhost:3001")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:3001", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	h := RateLimit(2)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }))
	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/signin", nil)
		req.RemoteAddr = "198.51.100.7:1234"
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	disabled := RateLimit(0)(http.NotFoundHandler())
	rec := httptest.NewRecorder()
	disabled.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
