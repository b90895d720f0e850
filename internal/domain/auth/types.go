package auth

// Package auth contains domain-level types for authentication, sessions and
// role-based access. It is pure and free of framework/adapter concerns.

import "time"

// User is the authenticated principal resolved from a session.
// It lives for a single request once attached by the session middleware.
type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	Role          Role      `json:"role"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Permissions returns the static permission record for the user's role.
// A nil user has no permissions.
func (u *User) Permissions() Permissions {
	if u == nil {
		return Permissions{}
	}
	return PermissionsFor(u.Role)
}

// Session is the server-side record issued on sign-in.
// Token is the signed value handed to the client; ID is the storage key.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	IPAddress string    `json:"ipAddress,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Expired reports whether the session is past its expiry at the given instant.
func (s Session) Expired(now time.Time) bool { return !now.Before(s.ExpiresAt) }

// SessionResult pairs a live session with its owner.
type SessionResult struct {
	Session Session `json:"session"`
	User    User    `json:"user"`
}

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// SignUpInput carries the fields needed to register an account.
type SignUpInput struct {
	Email    string
	Password string
	Name     string
	Role     Role
}

// RequestMeta is the slice of an inbound request the identity service needs.
// The transport layer extracts it (cookie or bearer header) so the service
// never sees raw HTTP.
type RequestMeta struct {
	SessionToken string
	IPAddress    string
	UserAgent    string
}

// Account is a stored user together with its credential hash.
// It never leaves the identity service; callers only see User.
type Account struct {
	User         User
	PasswordHash string
}
