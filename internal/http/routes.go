package httpx

import (
	"fmt"
	"log/slog"
	"net/http"

	domainauth "github.com/ori-platform/ori-auth/internal/domain/auth"
	"github.com/ori-platform/ori-auth/internal/observability/metrics"
	"github.com/ori-platform/ori-auth/internal/ports"
)

// Route is one entry of the route table. Require must be declared through
// domainauth.Public or domainauth.RequireRoles; registration rejects the zero value.
type Route struct {
	Method  string
	Path    string
	Require domainauth.Requirement
	Handler http.HandlerFunc
	// Middleware runs outside the authorization guard, first entry outermost.
	Middleware []func(http.Handler) http.Handler
}

// Pattern returns the ServeMux pattern for the route.
func (rt Route) Pattern() string { return rt.Method + " " + rt.Path }

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	Identity     ports.IdentityService
	Metrics      *metrics.Metrics
	Logger       *slog.Logger
	CookieName   string
	CookieDomain string
	// AllowedOrigins feeds CORS; empty disables cross-origin access.
	AllowedOrigins []string
	// AuthRateLimit is the per-IP, per-minute limit on signup and signin.
	AuthRateLimit int
	IsDev         bool
}

// RegisterRoutes adds every route to mux wrapped in its authorization guard.
// It fails on the first route whose requirement was never declared.
func RegisterRoutes(mux *http.ServeMux, routes []Route, m *metrics.Metrics) error {
	for _, rt := range routes {
		if !rt.Require.Declared() {
			return fmt.Errorf("route %q: role requirement not declared", rt.Pattern())
		}
		if rt.Handler == nil {
			return fmt.Errorf("route %q: nil handler", rt.Pattern())
		}

		var h http.Handler = RequireRoles(rt.Require, m)(rt.Handler)
		for i := len(rt.Middleware) - 1; i >= 0; i-- {
			h = rt.Middleware[i](h)
		}
		mux.Handle(rt.Pattern(), h)
	}
	return nil
}

// Routes returns the application route table.
func Routes(services RouterServices) []Route {
	auth := &AuthHandlers{
		Identity:     services.Identity,
		CookieName:   services.CookieName,
		CookieDomain: services.CookieDomain,
		Logger:       services.Logger,
	}
	admin := &AdminHandlers{Identity: services.Identity, Logger: services.Logger}
	limit := RateLimit(services.AuthRateLimit)
	public := domainauth.Public()
	adminOnly := domainauth.RequireRoles(domainauth.RoleOri)

	routes := []Route{
		{Method: http.MethodGet, Path: "/{$}", Require: public, Handler: rootHandler},
		{Method: http.MethodGet, Path: "/healthz", Require: public, Handler: healthHandler},
		{Method: http.MethodHead, Path: "/healthz", Require: public, Handler: healthHandler},
		{Method: http.MethodGet, Path: "/metrics", Require: public, Handler: services.Metrics.Handler().ServeHTTP},

		{
			Method: http.MethodPost, Path: "/auth/signup", Require: public, Handler: auth.SignUp,
			Middleware: []func(http.Handler) http.Handler{limit, PreventPrivilegedSignup},
		},
		{
			Method: http.MethodPost, Path: "/auth/signin", Require: public, Handler: auth.SignIn,
			Middleware: []func(http.Handler) http.Handler{limit},
		},
		{Method: http.MethodPost, Path: "/auth/signout", Require: public, Handler: auth.SignOut},
		{Method: http.MethodGet, Path: "/auth/session", Require: public, Handler: auth.Session},

		{Method: http.MethodPost, Path: "/admin/users", Require: adminOnly, Handler: admin.CreateUser},
		{Method: http.MethodGet, Path: "/admin/users", Require: adminOnly, Handler: admin.ListUsers},
		{Method: http.MethodPatch, Path: "/admin/users/{id}/role", Require: adminOnly, Handler: admin.UpdateRole},
		{Method: http.MethodDelete, Path: "/admin/users/{id}", Require: adminOnly, Handler: admin.DeleteUser},
		{Method: http.MethodGet, Path: "/admin/dashboard", Require: adminOnly, Handler: admin.Dashboard},
	}
	return append(routes, exampleRoutes()...)
}

// NewRouter builds the application handler: the route table behind the
// global middleware chain.
func NewRouter(services RouterServices) (http.Handler, error) {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	if err := RegisterRoutes(mux, Routes(services), services.Metrics); err != nil {
		return nil, err
	}

	// Metrics wraps the mux directly so it sees the request the mux stamps with its pattern.
	h := services.Metrics.Middleware(mux)
	h = AttachSession(SessionConfig{
		Identity:   services.Identity,
		CookieName: services.CookieName,
		Metrics:    services.Metrics,
		Logger:     logger,
	})(h)
	h = CORS(services.AllowedOrigins)(h)
	h = SecureHeaders(services.IsDev)(h)
	h = Logging(logger)(h)
	h = Recover(logger)(h)
	return h, nil
}
