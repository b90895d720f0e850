package ports

// Package ports defines interfaces (hexagonal ports) for identity-related behavior.
// Implementations live in internal/adapters and internal/service; the gateway in
// internal/identity owns the lifetime of whichever implementation is wired.

import (
	"context"

	domainauth "github.com/ori-platform/ori-auth/internal/domain/auth"
)

// IdentityService is the capability surface of the identity provider:
// account creation, credential sign-in, sign-out and session lookup.
type IdentityService interface {
	// SignUpEmail registers an account with an email/password credential.
	SignUpEmail(ctx context.Context, in domainauth.SignUpInput) (*domainauth.User, error)

	// SignInEmail verifies credentials and issues a session.
	SignInEmail(ctx context.Context, email, password string, meta domainauth.RequestMeta) (*domainauth.SessionResult, error)

	// SignOut revokes the session carried by meta. Missing sessions are not an error.
	SignOut(ctx context.Context, meta domainauth.RequestMeta) error

	// GetSession resolves the session carried by meta.
	// It returns (nil, nil) when the request has no live session.
	GetSession(ctx context.Context, meta domainauth.RequestMeta) (*domainauth.SessionResult, error)
}

// ReadinessChecker is optionally implemented by an IdentityService that can
// verify its backing store is usable right after construction.
type ReadinessChecker interface {
	Ready(ctx context.Context) error
}

// StoreConn is a live connection to the backing store.
type StoreConn interface {
	Close(ctx context.Context) error
}

// UserStore persists accounts.
type UserStore interface {
	Create(ctx context.Context, acct domainauth.Account) error
	FindByEmail(ctx context.Context, email string) (domainauth.Account, error)
	FindByID(ctx context.Context, id string) (domainauth.Account, error)
}

// SessionStore persists and retrieves user sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenSigner turns a session into a client-facing token and back.
type TokenSigner interface {
	Sign(sess domainauth.Session) (string, error)
	Parse(token string) (sessionID string, err error)
}
