package httpx

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	domainauth "github.com/ori-platform/ori-auth/internal/domain/auth"
	"github.com/ori-platform/ori-auth/internal/ports"
)

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Identity     ports.IdentityService
	CookieName   string
	CookieDomain string
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *AuthHandlers) cookieName() string {
	if h.CookieName != "" {
		return h.CookieName
	}
	return DefaultSessionCookie
}

// SignUp registers a non-administrator account.
// POST /auth/signup.
func (h *AuthHandlers) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := validateStruct(req); err != nil {
		WriteAppError(w, err)
		return
	}

	user, err := h.Identity.SignUpEmail(r.Context(), req.Input())
	if err != nil {
		h.logFailure(r, "sign up failed", err)
		WriteAppError(w, err)
		return
	}
	h.logger().InfoContext(r.Context(), "user signed up",
		slog.String("user_id", user.ID),
		slog.String("role", user.Role.String()))
	WriteJSON(w, http.StatusCreated, map[string]any{"user": user})
}

// SignIn verifies credentials and sets the session cookie.
// POST /auth/signin.
func (h *AuthHandlers) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := validateStruct(req); err != nil {
		WriteAppError(w, err)
		return
	}

	res, err := h.Identity.SignInEmail(r.Context(), req.Email, req.Password, requestMeta(r, h.cookieName()))
	if err != nil {
		h.logFailure(r, "sign in failed", err)
		WriteAppError(w, err)
		return
	}
	h.setSessionCookie(w, r, res.Session)
	WriteJSON(w, http.StatusOK, res)
}

// SignOut revokes the current session and clears the cookie.
// POST /auth/signout.
func (h *AuthHandlers) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.Identity.SignOut(r.Context(), requestMeta(r, h.cookieName())); err != nil {
		h.logFailure(r, "sign out failed", err)
		WriteAppError(w, err)
		return
	}
	h.clearSessionCookie(w, r)
	WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Session returns the current session, or a null session when anonymous.
// GET /auth/session.
func (h *AuthHandlers) Session(w http.ResponseWriter, r *http.Request) {
	res, err := h.Identity.GetSession(r.Context(), requestMeta(r, h.cookieName()))
	if err != nil {
		h.logFailure(r, "session lookup failed", err)
		WriteAppError(w, err)
		return
	}
	if res == nil {
		WriteJSON(w, http.StatusOK, map[string]any{"session": nil, "user": nil})
		return
	}
	WriteJSON(w, http.StatusOK, res)
}

func (h *AuthHandlers) logFailure(r *http.Request, msg string, err error) {
	h.logger().WarnContext(r.Context(), msg,
		slog.String("path", r.URL.Path),
		slog.Any("error", err))
}

func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

// setSessionCookie writes the session cookie based on the session's expiry.
func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, s domainauth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName(),
		Value:    s.Token,
		Path:     "/",
		Domain:   h.CookieDomain,
		Expires:  s.ExpiresAt,
		MaxAge:   int(time.Until(s.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie expires the session cookie, mirroring the attributes used to set it.
func (h *AuthHandlers) clearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName(),
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	})
}
