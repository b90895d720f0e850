package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	domainauth "github.com/ori-platform/ori-auth/internal/domain/auth"
	apperrors "github.com/ori-platform/ori-auth/internal/errors"
	"github.com/ori-platform/ori-auth/internal/observability/metrics"
	"github.com/ori-platform/ori-auth/internal/ports"
)

// DefaultSessionCookie is the cookie that carries the session token.
const DefaultSessionCookie = "ori_session"

// PrivilegedSignupMessage is returned when a signup asks for the administrator role.
const PrivilegedSignupMessage = "Self-registration as administrator is not allowed. " +
	"Contact support to request administrative access."

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &respWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.InfoContext(r.Context(), "http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *respWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler { //nolint:errorlint,err113 // sentinel compared by identity
						panic(err)
					}
					logger.ErrorContext(r.Context(), "panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					WriteError(w, ErrorParams{
						Code:    http.StatusInternalServerError,
						ErrCode: "internal",
						Err:     errors.New(http.StatusText(http.StatusInternalServerError)),
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// SessionConfig configures AttachSession.
type SessionConfig struct {
	Identity   ports.IdentityService
	CookieName string
	Metrics    *metrics.Metrics
	Logger     *slog.Logger
}

// AttachSession resolves the request's session through the identity service
// and attaches the user to the context. Lookup failures are logged and
// counted; the request always continues, anonymously if need be.
func AttachSession(cfg SessionConfig) func(http.Handler) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cookie := cfg.CookieName
	if cookie == "" {
		cookie = DefaultSessionCookie
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			meta := requestMeta(r, cookie)
			if meta.SessionToken == "" || cfg.Identity == nil {
				next.ServeHTTP(w, r)
				return
			}

			res, err := cfg.Identity.GetSession(r.Context(), meta)
			switch {
			case err != nil:
				logger.WarnContext(r.Context(), "session lookup failed; continuing unauthenticated",
					slog.String("path", r.URL.Path),
					slog.Any("error", err))
				cfg.Metrics.SessionLookupFailed(err)
			case res != nil:
				user := res.User
				r = r.WithContext(SetUserInContext(r.Context(), &user))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRoles enforces q against the attached user. Public requirements let
// every request through; otherwise anonymous requests get 401 and users
// whose role is not in q get 403.
func RequireRoles(q domainauth.Requirement, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			err := domainauth.Authorize(q, CurrentUser(r.Context()))
			switch {
			case err == nil:
				m.AuthzDecision(metrics.ResultAllowed)
				next.ServeHTTP(w, r)
				return
			case apperrors.IsUnauthenticated(err):
				m.AuthzDecision(metrics.ResultUnauthenticated)
			default:
				m.AuthzDecision(metrics.ResultForbidden)
			}
			WriteAppError(w, err)
		})
	}
}

// PreventPrivilegedSignup rejects signup bodies whose role is the
// administrator role. Only the role field is inspected; the body is restored
// for the handler and anything unparseable is left to handler validation.
func PreventPrivilegedSignup(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body == nil {
			next.ServeHTTP(w, r)
			return
		}
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
		_ = r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(body))
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		var peek struct {
			Role *string `json:"role"`
		}
		if json.Unmarshal(body, &peek) == nil && peek.Role != nil &&
			domainauth.IsAdministrator(domainauth.Role(*peek.Role)) {
			WriteAppError(w, apperrors.Forbidden(PrivilegedSignupMessage))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestMeta extracts what the identity service needs from r. The cookie
// wins over an Authorization bearer token.
func requestMeta(r *http.Request, cookieName string) domainauth.RequestMeta {
	meta := domainauth.RequestMeta{
		IPAddress: clientIP(r),
		UserAgent: r.UserAgent(),
	}
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		meta.SessionToken = c.Value
		return meta
	}
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			meta.SessionToken = strings.TrimSpace(token)
		}
	}
	return meta
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
